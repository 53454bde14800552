package aggregator

import (
	"sort"
	"strings"

	"github.com/pable/go-playcall/internal/filter"
	"github.com/pable/go-playcall/internal/metrics"
	"github.com/pable/go-playcall/internal/model"
	"github.com/pable/go-playcall/internal/players"
)

// Placeholder renders a missing formation or family inside a play key.
const Placeholder = "—"

const (
	topPlayersLimit = 3
	repPlaysLimit   = 3
)

// DefaultKey renders "<formation> | <family>" with an optional " | <motion>" suffix.
func DefaultKey(formation, family, motion string, useMotion bool) string {
	if formation == "" {
		formation = Placeholder
	}
	if family == "" {
		family = Placeholder
	}
	key := formation + " | " + family
	if useMotion && motion != "" {
		key += " | " + motion
	}
	return key
}

// KeyFunc returns the key renderer for opts: the caller's formatter when set,
// otherwise DefaultKey. Motion is only passed through when opts.UseMotion is on.
func KeyFunc(opts model.Options) func(formation, family, motion string) string {
	return func(formation, family, motion string) string {
		if !opts.UseMotion {
			motion = ""
		}
		if opts.KeyFormatter != nil {
			return opts.KeyFormatter(formation, family, motion)
		}
		return DefaultKey(formation, family, motion, opts.UseMotion)
	}
}

// repCandidate is a play with a known id, kept for representative-play selection.
type repCandidate struct {
	id    string
	yards float64
	seq   int
}

// Bucket accumulates raw statistics for one play key.
type Bucket struct {
	Key       string
	Formation string
	Family    string
	Motion    string

	Yards      []float64
	Successes  int
	Explosives int
	Touchdowns int
	Turnovers  int

	// Touches lists normalized participant names in encounter order.
	Touches []string

	reps []repCandidate
}

// Count is the bucket's sample size.
func (b *Bucket) Count() int { return len(b.Yards) }

// Group buckets plays by play key in first-encountered order and returns the
// buckets with the yards population of every grouped play.
func Group[P any](plays []P, r model.Resolvers[P], opts model.Options) ([]*Bucket, []float64) {
	keyOf := KeyFunc(opts)

	var (
		order      []*Bucket
		population []float64
	)
	byKey := make(map[string]*Bucket)

	for seq, p := range plays {
		if opts.DropPenaltyOnly && filter.IsPenaltyOnly(p, r) {
			continue
		}

		formation, _ := r.FormationOf(p)
		family, _ := r.FamilyOf(p)
		motion, _ := r.MotionOf(p)
		key := keyOf(formation, family, motion)

		b, ok := byKey[key]
		if !ok {
			b = &Bucket{Key: key, Formation: formation, Family: family}
			if opts.UseMotion {
				b.Motion = motion
			}
			byKey[key] = b
			order = append(order, b)
		}

		o := metrics.Evaluate(p, r, opts.ExplosiveRunYards, opts.ExplosivePassYards)
		b.Yards = append(b.Yards, o.Yards)
		population = append(population, o.Yards)
		if o.Success {
			b.Successes++
		}
		if o.Explosive {
			b.Explosives++
		}
		if o.Touchdown {
			b.Touchdowns++
		}
		if o.Turnover {
			b.Turnovers++
		}
		b.Touches = append(b.Touches, players.Touches(p, r)...)
		if id, ok := r.PlayIDOf(p); ok {
			b.reps = append(b.reps, repCandidate{id: id, yards: o.Yards, seq: seq})
		}
	}
	return order, population
}

// Summarize turns a bucket into an effectiveness summary. population is the
// yards of every play in the grouped set, so all buckets share one reference.
func Summarize(b *Bucket, population []float64, opts model.Options) model.EffectivenessSummary {
	n := b.Count()
	s := model.EffectivenessSummary{
		Key:        b.Key,
		Formation:  b.Formation,
		PlayFamily: b.Family,
		Motion:     b.Motion,
		Count:      n,

		SuccessRate:   metrics.Rate(b.Successes, n),
		AvgYards:      metrics.Mean(b.Yards),
		ExplosiveRate: metrics.Rate(b.Explosives, n),
		TouchdownRate: metrics.Rate(b.Touchdowns, n),
		TurnoverRate:  metrics.Rate(b.Turnovers, n),
	}

	s.AdjustedSuccessRate = s.SuccessRate
	if opts.Smoothing.Enabled {
		s.AdjustedSuccessRate = metrics.SmoothSuccessRate(
			s.SuccessRate, n, opts.Smoothing.PriorRate, opts.Smoothing.PriorWeight)
	}
	s.YardsZScore = metrics.ZScore(s.AvgYards, population)
	s.CompositeScore = metrics.CompositeScore(
		s.AdjustedSuccessRate, s.YardsZScore, s.ExplosiveRate, s.TurnoverRate, s.TouchdownRate)
	s.LowSample = n < opts.MinSamplesPerBucket

	s.TopPlayers = TopPlayers(b.Touches, topPlayersLimit)
	s.RepresentativePlays = representativePlays(b.reps, repPlaysLimit)
	return s
}

// Summaries groups plays and summarizes every bucket, in first-encountered order.
func Summaries[P any](plays []P, r model.Resolvers[P], opts model.Options) []model.EffectivenessSummary {
	buckets, population := Group(plays, r, opts)
	out := make([]model.EffectivenessSummary, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, Summarize(b, population, opts))
	}
	return out
}

// TopPlayers returns up to n names by descending touch count; equal counts keep
// first-encountered order.
func TopPlayers(touches []string, n int) []string {
	var order []string
	counts := make(map[string]int)
	for _, name := range touches {
		if _, ok := counts[name]; !ok {
			order = append(order, name)
		}
		counts[name]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

// representativePlays picks the highest-gaining plays; equal yards fall back to
// the earlier play in the input.
func representativePlays(cands []repCandidate, n int) []model.RepresentativePlay {
	sorted := make([]repCandidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].yards != sorted[j].yards {
			return sorted[i].yards > sorted[j].yards
		}
		return sorted[i].seq < sorted[j].seq
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]model.RepresentativePlay, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, model.RepresentativePlay{PlayID: c.id, Yards: c.yards})
	}
	return out
}

// SortSummaries ranks summaries in place: composite score, then sample size,
// then average yards, all descending. Key order settles anything left.
func SortSummaries(s []model.EffectivenessSummary) {
	sort.SliceStable(s, func(i, j int) bool {
		a, b := &s[i], &s[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.AvgYards != b.AvgYards {
			return a.AvgYards > b.AvgYards
		}
		return strings.Compare(a.Key, b.Key) < 0
	})
}
