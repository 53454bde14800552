package model

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrMissingResolver is returned when a mandatory field accessor is nil.
var ErrMissingResolver = errors.New("missing mandatory resolver")

// DistanceBand is the categorical bucket for yards-to-gain.
type DistanceBand string

const (
	BandShort    DistanceBand = "short"
	BandMedium   DistanceBand = "medium"
	BandLong     DistanceBand = "long"
	BandVeryLong DistanceBand = "very_long"
)

// Bands lists every distance band in ascending order.
var Bands = []DistanceBand{BandShort, BandMedium, BandLong, BandVeryLong}

// FieldZone is the categorical bucket for field position.
type FieldZone string

const (
	ZoneOwn1To20  FieldZone = "own_1_20"
	ZoneOwn21To50 FieldZone = "own_21_50"
	ZoneOpp49To21 FieldZone = "opp_49_21"
	ZoneRedZone   FieldZone = "red_zone"
	ZoneGoalToGo  FieldZone = "goal_to_go"
)

// Zones lists every field zone from own goal line to opponent goal line.
var Zones = []FieldZone{ZoneOwn1To20, ZoneOwn21To50, ZoneOpp49To21, ZoneRedZone, ZoneGoalToGo}

// ---- Query & options ----

// Situation is a situational filter. Zero-valued fields impose no constraint.
type Situation struct {
	Down         *int         `json:"down,omitempty"`
	DistanceBand DistanceBand `json:"distanceBand,omitempty"`
	FieldZone    FieldZone    `json:"fieldZone,omitempty"`
	Formation    string       `json:"formation,omitempty"`
	PlayFamily   string       `json:"playFamily,omitempty"`
	DefFront     string       `json:"defFront,omitempty"`
	Penalty      *bool        `json:"penalty,omitempty"`
}

// IsEmpty reports whether the situation has no constraints at all.
func (s Situation) IsEmpty() bool {
	return s.Down == nil && s.DistanceBand == "" && s.FieldZone == "" &&
		s.Formation == "" && s.PlayFamily == "" && s.DefFront == "" && s.Penalty == nil
}

// String renders the situation as compact JSON, e.g. {"down":1,"distanceBand":"medium"}.
func (s Situation) String() string {
	b, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// IntPtr and BoolPtr are small helpers for building a Situation literal.
func IntPtr(v int) *int    { return &v }
func BoolPtr(v bool) *bool { return &v }

// Smoothing controls empirical-Bayes shrinkage of success rates.
type Smoothing struct {
	Enabled     bool    `json:"enabled"`
	PriorRate   float64 `json:"priorRate"`
	PriorWeight float64 `json:"priorWeight"`
}

// PlayerSortKey selects the leaderboard ordering.
type PlayerSortKey string

const (
	SortByTouches       PlayerSortKey = "touches"
	SortByYards         PlayerSortKey = "yards"
	SortBySuccessRate   PlayerSortKey = "success_rate"
	SortByYardsPerTouch PlayerSortKey = "yards_per_touch"
	SortByTouchdowns    PlayerSortKey = "touchdowns"
)

// KeyFormatter renders a play key from its parts. Empty parts are passed as "".
type KeyFormatter func(formation, family, motion string) string

// Options configures an analysis run. Start from DefaultOptions.
type Options struct {
	Team                string
	MinSamplesPerBucket int
	Smoothing           Smoothing
	ExplosiveRunYards   float64
	ExplosivePassYards  float64
	DropPenaltyOnly     bool
	UseMotion           bool
	KeyFormatter        KeyFormatter
	PlayerLimit         int
	PlayerSort          PlayerSortKey
}

const (
	DefaultMinSamples    = 6
	DefaultPriorRate     = 0.5
	DefaultPriorWeight   = 5.0
	DefaultRunExplosive  = 10.0
	DefaultPassExplosive = 15.0
	DefaultPlayerLimit   = 20
)

// DefaultOptions returns the standard analysis configuration.
func DefaultOptions() Options {
	return Options{
		MinSamplesPerBucket: DefaultMinSamples,
		Smoothing: Smoothing{
			Enabled:     true,
			PriorRate:   DefaultPriorRate,
			PriorWeight: DefaultPriorWeight,
		},
		ExplosiveRunYards:  DefaultRunExplosive,
		ExplosivePassYards: DefaultPassExplosive,
		DropPenaltyOnly:    true,
		PlayerLimit:        DefaultPlayerLimit,
		PlayerSort:         SortByYards,
	}
}

// Normalized returns a copy of o where non-positive thresholds, sample minimums
// and limits are replaced by their defaults. A nil receiver yields DefaultOptions.
func (o *Options) Normalized() Options {
	if o == nil {
		return DefaultOptions()
	}
	out := *o
	if out.MinSamplesPerBucket <= 0 {
		out.MinSamplesPerBucket = DefaultMinSamples
	}
	if out.ExplosiveRunYards <= 0 {
		out.ExplosiveRunYards = DefaultRunExplosive
	}
	if out.ExplosivePassYards <= 0 {
		out.ExplosivePassYards = DefaultPassExplosive
	}
	if out.PlayerLimit <= 0 {
		out.PlayerLimit = DefaultPlayerLimit
	}
	if out.PlayerSort == "" {
		out.PlayerSort = SortByYards
	}
	return out
}

// ---- Aggregated output ----

// RepresentativePlay is a play id surfaced as an example of a play type.
type RepresentativePlay struct {
	PlayID string  `json:"playId"`
	Yards  float64 `json:"yards"`
}

// EffectivenessSummary holds raw and adjusted metrics for one play key.
type EffectivenessSummary struct {
	Key        string `json:"key"`
	Formation  string `json:"formation,omitempty"`
	PlayFamily string `json:"playFamily,omitempty"`
	Motion     string `json:"motion,omitempty"`
	Count      int    `json:"count"`

	// Raw
	SuccessRate   float64 `json:"successRate"`
	AvgYards      float64 `json:"avgYards"`
	ExplosiveRate float64 `json:"explosiveRate"`
	TouchdownRate float64 `json:"touchdownRate"`
	TurnoverRate  float64 `json:"turnoverRate"`

	// Adjusted
	AdjustedSuccessRate float64 `json:"adjustedSuccessRate"`
	YardsZScore         float64 `json:"yardsZScore"`
	CompositeScore      float64 `json:"compositeScore"`
	LowSample           bool    `json:"lowSample"`

	TopPlayers          []string             `json:"topPlayers"`
	RepresentativePlays []RepresentativePlay `json:"representativePlays"`
}

// PlayerStatLine aggregates touches for one normalized player name.
type PlayerStatLine struct {
	Name       string  `json:"name"`
	Touches    int     `json:"touches"`
	TotalYards float64 `json:"totalYards"`
	Successes  int     `json:"successes"`
	Explosives int     `json:"explosives"`
	Touchdowns int     `json:"touchdowns"`
	Turnovers  int     `json:"turnovers"`

	YardsPerTouch float64 `json:"yardsPerTouch"`
	SuccessRate   float64 `json:"successRate"`

	// ByFamily counts touches per play family ("—" when the family is unknown).
	ByFamily map[string]int `json:"byFamily"`
}

// ReportMeta describes the analyzed population.
type ReportMeta struct {
	TotalPlays int    `json:"totalPlays"`
	Team       string `json:"team"`
}

// Report is the full analysis output.
type Report struct {
	Meta         ReportMeta                        `json:"meta"`
	Situation    Situation                         `json:"situation"`
	Ranked       []EffectivenessSummary            `json:"ranked"`
	Players      []PlayerStatLine                  `json:"players"`
	DownDistance map[string][]EffectivenessSummary `json:"downDistance"`
	Warnings     []string                          `json:"warnings"`
}

// DownDistanceKeys returns the cross-tab keys ordered by down, then band.
func (r *Report) DownDistanceKeys() []string {
	var keys []string
	for down := 1; down <= 4; down++ {
		for _, b := range Bands {
			k := DownDistanceKey(down, b)
			if _, ok := r.DownDistance[k]; ok {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// DownDistanceKey builds a cross-tab key such as "1Medium" or "3Very_long".
func DownDistanceKey(down int, band DistanceBand) string {
	s := string(band)
	if s == "" {
		return strconv.Itoa(down)
	}
	return strconv.Itoa(down) + strings.ToUpper(s[:1]) + s[1:]
}

// Recommendation is the single best call for a situation.
type Recommendation struct {
	Summary  *EffectivenessSummary `json:"recommendation"`
	Message  string                `json:"message"`
	Warnings []string              `json:"warnings"`
}
