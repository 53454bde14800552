package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-playcall/internal/classify"
	"github.com/pable/go-playcall/internal/config"
	"github.com/pable/go-playcall/internal/filter"
	"github.com/pable/go-playcall/internal/model"
	"github.com/pable/go-playcall/internal/players"
	"github.com/pable/go-playcall/internal/storage"
)

// sliceFlags narrow the stored plays before they reach the analysis pipeline.
type sliceFlags struct {
	importPrefix string
	game         string
	quarter      int
	minDist      float64
	maxDist      float64
	minYardLine  float64
	maxYardLine  float64
}

func (f *sliceFlags) register(c *cobra.Command) {
	fs := c.Flags()
	fs.StringVar(&f.importPrefix, "import", "", "only plays from the import with this id prefix")
	fs.StringVar(&f.game, "game", "", "only plays from this game id")
	fs.IntVar(&f.quarter, "quarter", 0, "only plays in this quarter")
	fs.Float64Var(&f.minDist, "min-dist", 0, "only plays with at least this many yards to go")
	fs.Float64Var(&f.maxDist, "max-dist", 0, "only plays with at most this many yards to go")
	fs.Float64Var(&f.minYardLine, "min-yardline", 0, "only plays starting at or beyond this yard line (1-99)")
	fs.Float64Var(&f.maxYardLine, "max-yardline", 0, "only plays starting at or before this yard line (1-99)")
}

func (f *sliceFlags) predicates(c *cobra.Command) []filter.Predicate[model.Play] {
	r := model.PlayResolvers()
	fs := c.Flags()
	var preds []filter.Predicate[model.Play]
	if f.game != "" {
		preds = append(preds, filter.ByGame(r, f.game))
	}
	if f.quarter > 0 {
		preds = append(preds, filter.ByQuarter(r, f.quarter))
	}
	if fs.Changed("min-dist") || fs.Changed("max-dist") {
		preds = append(preds, filter.ByDistanceRange(r, f.minDist, upper(fs.Changed("max-dist"), f.maxDist)))
	}
	if fs.Changed("min-yardline") || fs.Changed("max-yardline") {
		preds = append(preds, filter.ByFieldPositionRange(r, f.minYardLine, upper(fs.Changed("max-yardline"), f.maxYardLine)))
	}
	return preds
}

func upper(set bool, v float64) float64 {
	if !set {
		return math.Inf(1)
	}
	return v
}

// loadPlays reads stored plays and applies the slice flags plus any extra predicates.
func (f *sliceFlags) loadPlays(c *cobra.Command, db *storage.DB, extra ...filter.Predicate[model.Play]) ([]model.Play, error) {
	var pf storage.PlayFilter
	if f.importPrefix != "" {
		imp, err := db.GetImportByPrefix(f.importPrefix)
		if err != nil {
			return nil, fmt.Errorf("find import: %w", err)
		}
		if imp == nil {
			return nil, fmt.Errorf("no import found with prefix %q", f.importPrefix)
		}
		pf.ImportID = imp.ID
	}
	plays, err := db.GetPlays(pf)
	if err != nil {
		return nil, fmt.Errorf("load plays: %w", err)
	}
	preds := append(f.predicates(c), extra...)
	return filter.Apply(plays, preds...), nil
}

// situationFlags build the situational query.
type situationFlags struct {
	down      int
	band      string
	zone      string
	formation string
	family    string
	front     string
	penalty   string
}

func (f *situationFlags) register(c *cobra.Command) {
	fs := c.Flags()
	fs.IntVar(&f.down, "down", 0, "down (1-4)")
	fs.StringVar(&f.band, "distance", "", "distance band: "+joinBands())
	fs.StringVar(&f.zone, "zone", "", "field zone: "+joinZones())
	fs.StringVar(&f.formation, "formation", "", "formation contains (case-insensitive)")
	fs.StringVar(&f.family, "family", "", "play family contains (case-insensitive)")
	fs.StringVar(&f.front, "front", "", "defensive front contains (case-insensitive)")
	fs.StringVar(&f.penalty, "penalty", "", "yes = only penalty snaps, no = exclude them")
}

func (f *situationFlags) situation() (model.Situation, error) {
	var q model.Situation
	if f.down != 0 {
		if f.down < 1 || f.down > 4 {
			return q, fmt.Errorf("--down must be 1-4, got %d", f.down)
		}
		q.Down = model.IntPtr(f.down)
	}
	if f.band != "" {
		b, ok := classify.ParseBand(f.band)
		if !ok {
			return q, fmt.Errorf("unknown distance band %q (want %s)", f.band, joinBands())
		}
		q.DistanceBand = b
	}
	if f.zone != "" {
		z, ok := classify.ParseZone(f.zone)
		if !ok {
			return q, fmt.Errorf("unknown field zone %q (want %s)", f.zone, joinZones())
		}
		q.FieldZone = z
	}
	q.Formation = f.formation
	q.PlayFamily = f.family
	q.DefFront = f.front
	switch strings.ToLower(f.penalty) {
	case "":
	case "yes", "y", "true":
		q.Penalty = model.BoolPtr(true)
	case "no", "n", "false":
		q.Penalty = model.BoolPtr(false)
	default:
		return q, fmt.Errorf("--penalty must be yes or no, got %q", f.penalty)
	}
	return q, nil
}

func joinBands() string {
	s := make([]string, len(model.Bands))
	for i, b := range model.Bands {
		s[i] = string(b)
	}
	return strings.Join(s, "|")
}

func joinZones() string {
	s := make([]string, len(model.Zones))
	for i, z := range model.Zones {
		s[i] = string(z)
	}
	return strings.Join(s, "|")
}

// optionFlags override the options file, which overrides the defaults.
type optionFlags struct {
	team          string
	minSamples    int
	noSmoothing   bool
	priorRate     float64
	priorWeight   float64
	runYards      float64
	passYards     float64
	keepPenalties bool
	useMotion     bool
	limit         int
	sort          string
}

func (f *optionFlags) register(c *cobra.Command) {
	fs := c.Flags()
	fs.StringVar(&f.team, "team", "", "offense to analyze (default: the team with the most snaps)")
	fs.IntVar(&f.minSamples, "min-samples", model.DefaultMinSamples, "play types with fewer snaps are flagged LOW")
	fs.BoolVar(&f.noSmoothing, "no-smoothing", false, "rank on raw success rate instead of the smoothed one")
	fs.Float64Var(&f.priorRate, "prior-rate", model.DefaultPriorRate, "smoothing prior success rate")
	fs.Float64Var(&f.priorWeight, "prior-weight", model.DefaultPriorWeight, "smoothing prior weight in plays")
	fs.Float64Var(&f.runYards, "explosive-run", model.DefaultRunExplosive, "explosive threshold for run families")
	fs.Float64Var(&f.passYards, "explosive-pass", model.DefaultPassExplosive, "explosive threshold for other families")
	fs.BoolVar(&f.keepPenalties, "keep-penalties", false, "keep penalty-only snaps (flag thrown, no yards)")
	fs.BoolVar(&f.useMotion, "motion", false, "split play types by motion")
	fs.IntVar(&f.limit, "limit", model.DefaultPlayerLimit, "max rows in the player leaderboard")
	fs.StringVar(&f.sort, "sort", string(model.SortByYards), "player sort: touches|yards|success_rate|yards_per_touch|touchdowns")
}

func (f *optionFlags) options(c *cobra.Command) (model.Options, error) {
	o := model.DefaultOptions()
	if configPath != "" {
		var err error
		if o, err = config.Load(configPath); err != nil {
			return o, err
		}
	}
	fs := c.Flags()
	if fs.Changed("team") {
		o.Team = f.team
	}
	if fs.Changed("min-samples") {
		o.MinSamplesPerBucket = f.minSamples
	}
	if fs.Changed("no-smoothing") {
		o.Smoothing.Enabled = !f.noSmoothing
	}
	if fs.Changed("prior-rate") {
		o.Smoothing.PriorRate = f.priorRate
	}
	if fs.Changed("prior-weight") {
		o.Smoothing.PriorWeight = f.priorWeight
	}
	if fs.Changed("explosive-run") {
		o.ExplosiveRunYards = f.runYards
	}
	if fs.Changed("explosive-pass") {
		o.ExplosivePassYards = f.passYards
	}
	if fs.Changed("keep-penalties") {
		o.DropPenaltyOnly = !f.keepPenalties
	}
	if fs.Changed("motion") {
		o.UseMotion = f.useMotion
	}
	if fs.Changed("limit") {
		o.PlayerLimit = f.limit
	}
	if fs.Changed("sort") {
		key, err := players.ParseSortKey(f.sort)
		if err != nil {
			return o, err
		}
		o.PlayerSort = key
	}
	return o, nil
}

// analysisFlags is the full flag set shared by analyze, recommend and ask.
type analysisFlags struct {
	sliceFlags
	situationFlags
	optionFlags
}

func (f *analysisFlags) register(c *cobra.Command) {
	f.sliceFlags.register(c)
	f.situationFlags.register(c)
	f.optionFlags.register(c)
}

// prepare opens the store and resolves plays, situation and options from flags.
func (f *analysisFlags) prepare(c *cobra.Command) ([]model.Play, model.Situation, model.Options, error) {
	q, err := f.situation()
	if err != nil {
		return nil, q, model.Options{}, err
	}
	o, err := f.options(c)
	if err != nil {
		return nil, q, o, err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, q, o, fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	plays, err := f.loadPlays(c, db)
	return plays, q, o, err
}
