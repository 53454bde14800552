// Package players attributes touches to ball carriers, passers and targets and
// builds the usage leaderboard.
package players

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pable/go-playcall/internal/filter"
	"github.com/pable/go-playcall/internal/metrics"
	"github.com/pable/go-playcall/internal/model"
)

// UnknownFamily labels touches on plays without a play family.
const UnknownFamily = "—"

// NormalizeName is the aggregation key for a player: trimmed and lower-cased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Touches returns the normalized participants of a play in role order: ball
// carrier, passer, target. A name in two roles appears twice.
func Touches[P any](play P, r model.Resolvers[P]) []string {
	var out []string
	for _, get := range []func(P) (string, bool){r.CarrierOf, r.PasserOf, r.TargetOf} {
		name, ok := get(play)
		if !ok {
			continue
		}
		if n := NormalizeName(name); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Compute aggregates per-player touch statistics in first-encountered order.
// Penalty-only plays are skipped when opts.DropPenaltyOnly is set.
func Compute[P any](plays []P, r model.Resolvers[P], opts model.Options) []model.PlayerStatLine {
	var order []string
	lines := make(map[string]*model.PlayerStatLine)

	for _, p := range plays {
		if opts.DropPenaltyOnly && filter.IsPenaltyOnly(p, r) {
			continue
		}
		names := Touches(p, r)
		if len(names) == 0 {
			continue
		}
		o := metrics.Evaluate(p, r, opts.ExplosiveRunYards, opts.ExplosivePassYards)
		family := o.Family
		if family == "" {
			family = UnknownFamily
		}

		for _, name := range names {
			line, ok := lines[name]
			if !ok {
				line = &model.PlayerStatLine{Name: name, ByFamily: make(map[string]int)}
				lines[name] = line
				order = append(order, name)
			}
			line.Touches++
			line.TotalYards += o.Yards
			line.ByFamily[family]++
			if o.Success {
				line.Successes++
			}
			if o.Explosive {
				line.Explosives++
			}
			if o.Touchdown {
				line.Touchdowns++
			}
			if o.Turnover {
				line.Turnovers++
			}
		}
	}

	out := make([]model.PlayerStatLine, 0, len(order))
	for _, name := range order {
		line := lines[name]
		line.YardsPerTouch = line.TotalYards / float64(line.Touches)
		line.SuccessRate = metrics.Rate(line.Successes, line.Touches)
		out = append(out, *line)
	}
	return out
}

// ParseSortKey validates a leaderboard sort key name.
func ParseSortKey(s string) (model.PlayerSortKey, error) {
	switch k := model.PlayerSortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case model.SortByTouches, model.SortByYards, model.SortBySuccessRate,
		model.SortByYardsPerTouch, model.SortByTouchdowns:
		return k, nil
	case "":
		return model.SortByYards, nil
	default:
		return "", fmt.Errorf("unknown player sort key %q (want touches, yards, success_rate, yards_per_touch or touchdowns)", s)
	}
}

func sortValue(l *model.PlayerStatLine, key model.PlayerSortKey) float64 {
	switch key {
	case model.SortByTouches:
		return float64(l.Touches)
	case model.SortBySuccessRate:
		return l.SuccessRate
	case model.SortByYardsPerTouch:
		return l.YardsPerTouch
	case model.SortByTouchdowns:
		return float64(l.Touchdowns)
	default:
		return l.TotalYards
	}
}

// Sort orders lines in place by key, descending. Equal values keep their order.
func Sort(lines []model.PlayerStatLine, key model.PlayerSortKey) {
	sort.SliceStable(lines, func(i, j int) bool {
		return sortValue(&lines[i], key) > sortValue(&lines[j], key)
	})
}

// Leaderboard returns a sorted copy of lines truncated to limit (no limit when ≤0).
func Leaderboard(lines []model.PlayerStatLine, key model.PlayerSortKey, limit int) []model.PlayerStatLine {
	out := make([]model.PlayerStatLine, len(lines))
	copy(out, lines)
	Sort(out, key)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
