// Package analysis runs the full play-calling pipeline: team resolution,
// penalty drop, situational filter, play-type ranking, player leaderboard and
// down/distance cross-tabs. Every call builds its report from scratch.
package analysis

import (
	"fmt"

	"github.com/pable/go-playcall/internal/aggregator"
	"github.com/pable/go-playcall/internal/classify"
	"github.com/pable/go-playcall/internal/filter"
	"github.com/pable/go-playcall/internal/model"
	"github.com/pable/go-playcall/internal/players"
)

// InferTeam returns the offense with the most plays; ties go to the team seen first.
func InferTeam[P any](plays []P, r model.Resolvers[P]) string {
	var order []string
	counts := make(map[string]int)
	for _, p := range plays {
		team := r.Offense(p)
		if team == "" {
			continue
		}
		if _, ok := counts[team]; !ok {
			order = append(order, team)
		}
		counts[team]++
	}
	best, bestCount := "", 0
	for _, team := range order {
		if counts[team] > bestCount {
			best, bestCount = team, counts[team]
		}
	}
	return best
}

// Analyze ranks play types for the situation. opts may be nil for defaults.
// The only error is an incomplete resolver set; empty inputs produce an empty
// report with warnings.
func Analyze[P any](plays []P, r model.Resolvers[P], situation model.Situation, opts *model.Options) (*model.Report, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	o := opts.Normalized()

	rep := &model.Report{
		Situation:    situation,
		Ranked:       []model.EffectivenessSummary{},
		Players:      []model.PlayerStatLine{},
		DownDistance: map[string][]model.EffectivenessSummary{},
		Warnings:     []string{},
	}

	team := o.Team
	if team == "" {
		team = InferTeam(plays, r)
	}
	rep.Meta.Team = team

	if len(plays) == 0 {
		rep.Warnings = append(rep.Warnings, "No plays provided")
		return rep, nil
	}

	teamPlays := filter.Apply(plays, func(p P) bool { return filter.MatchesTeam(p, r, team) })
	if len(teamPlays) == 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("No plays found for team: %s", team))
		return rep, nil
	}
	if o.DropPenaltyOnly {
		teamPlays = filter.DropPenaltyOnly(teamPlays, r)
		if len(teamPlays) == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("Only penalty-only plays found for team: %s", team))
			return rep, nil
		}
	}

	matched := filter.Apply(teamPlays, func(p P) bool { return filter.MatchesSituation(p, r, situation) })
	rep.Meta.TotalPlays = len(matched)

	// Cross-tabs ignore the situation so they show every down and distance.
	rep.DownDistance = downDistanceTables(teamPlays, r, o)

	if len(matched) == 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("No plays found matching situation: %s", situation))
		return rep, nil
	}

	rep.Ranked = rank(matched, r, o)
	rep.Players = players.Leaderboard(players.Compute(matched, r, o), o.PlayerSort, o.PlayerLimit)

	if allLowSample(rep.Ranked) {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf(
			"All play types have fewer than %d samples; treat rankings as directional", o.MinSamplesPerBucket))
	}
	return rep, nil
}

func rank[P any](plays []P, r model.Resolvers[P], o model.Options) []model.EffectivenessSummary {
	sums := aggregator.Summaries(plays, r, o)
	aggregator.SortSummaries(sums)
	return sums
}

// downDistanceTables ranks play types separately for every down (1-4) and
// distance band present in plays.
func downDistanceTables[P any](plays []P, r model.Resolvers[P], o model.Options) map[string][]model.EffectivenessSummary {
	buckets := make(map[string][]P)
	for _, p := range plays {
		down, ok := r.Down(p)
		if !ok || down < 1 || down > 4 {
			continue
		}
		dist, ok := r.Distance(p)
		if !ok {
			continue
		}
		k := classify.DownDistanceKey(down, dist)
		buckets[k] = append(buckets[k], p)
	}

	out := make(map[string][]model.EffectivenessSummary, len(buckets))
	for k, bucket := range buckets {
		out[k] = rank(bucket, r, o)
	}
	return out
}

func allLowSample(sums []model.EffectivenessSummary) bool {
	if len(sums) == 0 {
		return false
	}
	for _, s := range sums {
		if !s.LowSample {
			return false
		}
	}
	return true
}
