package filter

import "github.com/pable/go-playcall/internal/model"

// Predicate selects plays for ad hoc slicing outside the main pipeline.
type Predicate[P any] func(P) bool

// ByGame matches plays from one game id.
func ByGame[P any](r model.Resolvers[P], gameID string) Predicate[P] {
	return func(p P) bool {
		return gameID != "" && r.GameID(p) == gameID
	}
}

// ByQuarter matches plays in the given quarter.
func ByQuarter[P any](r model.Resolvers[P], quarter int) Predicate[P] {
	return func(p P) bool {
		q, ok := r.QuarterOf(p)
		return ok && q == quarter
	}
}

// ByDown matches plays on the given down.
func ByDown[P any](r model.Resolvers[P], down int) Predicate[P] {
	return func(p P) bool {
		d, ok := r.Down(p)
		return ok && d == down
	}
}

// ByDistanceRange matches plays whose distance lies in [min, max].
func ByDistanceRange[P any](r model.Resolvers[P], min, max float64) Predicate[P] {
	return func(p P) bool {
		d, ok := r.Distance(p)
		return ok && d >= min && d <= max
	}
}

// ByFieldPositionRange matches plays whose starting position lies in [min, max].
func ByFieldPositionRange[P any](r model.Resolvers[P], min, max float64) Predicate[P] {
	return func(p P) bool {
		pos, ok := r.Position(p)
		return ok && pos >= min && pos <= max
	}
}

// ByPlayType matches plays whose family contains playType, case-insensitively.
func ByPlayType[P any](r model.Resolvers[P], playType string) Predicate[P] {
	return func(p P) bool {
		fam, ok := r.FamilyOf(p)
		return ok && containsFold(fam, playType)
	}
}

// All combines predicates with logical AND. No predicates matches everything.
func All[P any](preds ...Predicate[P]) Predicate[P] {
	return func(p P) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

// Apply returns the plays matching every predicate, in input order.
// The input slice is never modified.
func Apply[P any](plays []P, preds ...Predicate[P]) []P {
	match := All(preds...)
	out := make([]P, 0, len(plays))
	for _, p := range plays {
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}
