// Package filter decides which plays belong to a team and a game situation.
// Every predicate fails closed: a play missing the field a predicate needs does
// not match.
package filter

import (
	"strings"

	"github.com/pable/go-playcall/internal/classify"
	"github.com/pable/go-playcall/internal/model"
)

// MatchesSituation reports whether play satisfies every constraint present in q.
func MatchesSituation[P any](play P, r model.Resolvers[P], q model.Situation) bool {
	if q.Down != nil {
		down, ok := r.Down(play)
		if !ok || down != *q.Down {
			return false
		}
	}
	if q.DistanceBand != "" {
		dist, ok := r.Distance(play)
		if !ok || classify.DistanceBand(dist) != q.DistanceBand {
			return false
		}
	}
	if q.FieldZone != "" {
		pos, ok := r.Position(play)
		if !ok {
			return false
		}
		dist, ok := r.Distance(play)
		if !ok || classify.FieldZone(pos, dist) != q.FieldZone {
			return false
		}
	}
	if q.Formation != "" {
		v, ok := r.FormationOf(play)
		if !ok || !containsFold(v, q.Formation) {
			return false
		}
	}
	if q.PlayFamily != "" {
		v, ok := r.FamilyOf(play)
		if !ok || !containsFold(v, q.PlayFamily) {
			return false
		}
	}
	if q.DefFront != "" {
		v, ok := r.DefFrontOf(play)
		if !ok || !containsFold(v, q.DefFront) {
			return false
		}
	}
	if q.Penalty != nil && r.IsPenalty(play) != *q.Penalty {
		return false
	}
	return true
}

// MatchesTeam reports whether team appears (case-insensitively) in the play's
// offense name. Short names can over-match.
func MatchesTeam[P any](play P, r model.Resolvers[P], team string) bool {
	return containsFold(r.Offense(play), team)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
