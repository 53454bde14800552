// Package playlog reads play-by-play logs (CSV exports, JSON or YAML) into
// model.Play records.
package playlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-playcall/internal/model"
)

// ErrUnknownFormat is returned by Load for unsupported file extensions.
var ErrUnknownFormat = errors.New("unknown play log format")

// Load reads a play log, choosing the parser from the file extension.
func Load(path string) ([]model.Play, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open play log: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ParseCSV(f)
	case ".json":
		return ParseJSON(f)
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// ParseJSON reads a JSON array of plays.
func ParseJSON(r io.Reader) ([]model.Play, error) {
	var plays []model.Play
	if err := json.NewDecoder(r).Decode(&plays); err != nil {
		return nil, fmt.Errorf("decode json plays: %w", err)
	}
	return finish(plays), nil
}

// ParseYAML reads a YAML sequence of plays.
func ParseYAML(r io.Reader) ([]model.Play, error) {
	var plays []model.Play
	if err := yaml.NewDecoder(r).Decode(&plays); err != nil {
		if errors.Is(err, io.EOF) {
			return []model.Play{}, nil
		}
		return nil, fmt.Errorf("decode yaml plays: %w", err)
	}
	return finish(plays), nil
}

// finish assigns 1-based sequence numbers and trims name fields.
func finish(plays []model.Play) []model.Play {
	for i := range plays {
		p := &plays[i]
		p.Seq = i + 1
		p.GameID = strings.TrimSpace(p.GameID)
		p.Offense = strings.TrimSpace(p.Offense)
		p.Defense = strings.TrimSpace(p.Defense)
		p.Passer = strings.TrimSpace(p.Passer)
		p.BallCarrier = strings.TrimSpace(p.BallCarrier)
		p.Target = strings.TrimSpace(p.Target)
	}
	return plays
}
