package filter

import "github.com/pable/go-playcall/internal/model"

// IsPenaltyOnly reports a flagged play that gained exactly zero yards.
func IsPenaltyOnly[P any](play P, r model.Resolvers[P]) bool {
	return r.IsPenalty(play) && r.Yards(play) == 0
}

// DropPenaltyOnly returns plays without the penalty-only snaps, in input order.
func DropPenaltyOnly[P any](plays []P, r model.Resolvers[P]) []P {
	return Apply(plays, func(p P) bool { return !IsPenaltyOnly(p, r) })
}
