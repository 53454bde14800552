// Package config loads analysis options from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-playcall/internal/aggregator"
	"github.com/pable/go-playcall/internal/model"
	"github.com/pable/go-playcall/internal/players"
)

// File mirrors the options file. Nil fields keep the base value.
type File struct {
	Team            *string    `yaml:"team"`
	MinSamples      *int       `yaml:"min_samples"`
	Smoothing       *Smoothing `yaml:"smoothing"`
	Explosive       *Explosive `yaml:"explosive"`
	DropPenaltyOnly *bool      `yaml:"drop_penalty_only"`
	UseMotion       *bool      `yaml:"use_motion"`
	PlayerLimit     *int       `yaml:"player_limit"`
	PlayerSort      *string    `yaml:"player_sort"`
	KeyTemplate     *string    `yaml:"key_template"`
}

type Smoothing struct {
	Enabled     *bool    `yaml:"enabled"`
	PriorRate   *float64 `yaml:"prior_rate"`
	PriorWeight *float64 `yaml:"prior_weight"`
}

type Explosive struct {
	RunYards  *float64 `yaml:"run_yards"`
	PassYards *float64 `yaml:"pass_yards"`
}

// Load reads path and applies it over model.DefaultOptions.
func Load(path string) (model.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Options{}, fmt.Errorf("read config: %w", err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return model.Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return Apply(model.DefaultOptions(), f)
}

// Parse decodes an options file. Unknown keys are rejected.
func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("decode config: %w", err)
	}
	return f, nil
}

// Apply returns base with every field set in f overridden.
func Apply(base model.Options, f File) (model.Options, error) {
	o := base
	if f.Team != nil {
		o.Team = *f.Team
	}
	if f.MinSamples != nil {
		o.MinSamplesPerBucket = *f.MinSamples
	}
	if s := f.Smoothing; s != nil {
		if s.Enabled != nil {
			o.Smoothing.Enabled = *s.Enabled
		}
		if s.PriorRate != nil {
			if *s.PriorRate < 0 || *s.PriorRate > 1 {
				return o, fmt.Errorf("smoothing.prior_rate must be within [0, 1], got %v", *s.PriorRate)
			}
			o.Smoothing.PriorRate = *s.PriorRate
		}
		if s.PriorWeight != nil {
			if *s.PriorWeight < 0 {
				return o, fmt.Errorf("smoothing.prior_weight must not be negative, got %v", *s.PriorWeight)
			}
			o.Smoothing.PriorWeight = *s.PriorWeight
		}
	}
	if e := f.Explosive; e != nil {
		if e.RunYards != nil {
			o.ExplosiveRunYards = *e.RunYards
		}
		if e.PassYards != nil {
			o.ExplosivePassYards = *e.PassYards
		}
	}
	if f.DropPenaltyOnly != nil {
		o.DropPenaltyOnly = *f.DropPenaltyOnly
	}
	if f.UseMotion != nil {
		o.UseMotion = *f.UseMotion
	}
	if f.PlayerLimit != nil {
		o.PlayerLimit = *f.PlayerLimit
	}
	if f.PlayerSort != nil {
		key, err := players.ParseSortKey(*f.PlayerSort)
		if err != nil {
			return o, err
		}
		o.PlayerSort = key
	}
	if f.KeyTemplate != nil {
		tmpl := *f.KeyTemplate
		if !strings.Contains(tmpl, "{formation}") && !strings.Contains(tmpl, "{family}") {
			return o, fmt.Errorf("key_template %q uses neither {formation} nor {family}", tmpl)
		}
		o.KeyFormatter = TemplateKey(tmpl)
	}
	return o, nil
}

// TemplateKey builds a key formatter from a template such as
// "{family} ({formation})". Missing values render as aggregator.Placeholder,
// except motion which renders empty.
func TemplateKey(tmpl string) model.KeyFormatter {
	return func(formation, family, motion string) string {
		if formation == "" {
			formation = aggregator.Placeholder
		}
		if family == "" {
			family = aggregator.Placeholder
		}
		return strings.NewReplacer(
			"{formation}", formation,
			"{family}", family,
			"{motion}", motion,
		).Replace(tmpl)
	}
}
