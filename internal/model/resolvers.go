package model

import "fmt"

// Resolvers is the field resolver set for an opaque play record type P.
//
// GameID, Offense, Defense, Down, Distance and Position are mandatory; every other
// accessor may be nil, which means the field is not present on any record. Numeric
// accessors return ok=false when a record has no usable value.
type Resolvers[P any] struct {
	// Mandatory
	GameID   func(P) string
	Offense  func(P) string
	Defense  func(P) string
	Down     func(P) (int, bool)
	Distance func(P) (float64, bool)
	Position func(P) (float64, bool)

	// Optional
	EndPosition func(P) (float64, bool)
	YardsGained func(P) (float64, bool)
	Quarter     func(P) (int, bool)
	PlayFamily  func(P) (string, bool)
	Formation   func(P) (string, bool)
	Motion      func(P) (string, bool)
	DefFront    func(P) (string, bool)
	Passer      func(P) (string, bool)
	BallCarrier func(P) (string, bool)
	Target      func(P) (string, bool)
	Touchdown   func(P) bool
	Turnover    func(P) bool
	Penalty     func(P) bool
	PlayID      func(P) (string, bool)

	// Carried for hosts; never read by the pipeline.
	PenaltyYards func(P) (float64, bool)
	Notes        func(P) (string, bool)
}

// Validate returns ErrMissingResolver naming the first nil mandatory accessor.
func (r Resolvers[P]) Validate() error {
	switch {
	case r.GameID == nil:
		return fmt.Errorf("%w: game id", ErrMissingResolver)
	case r.Offense == nil:
		return fmt.Errorf("%w: offense team", ErrMissingResolver)
	case r.Defense == nil:
		return fmt.Errorf("%w: defense team", ErrMissingResolver)
	case r.Down == nil:
		return fmt.Errorf("%w: down", ErrMissingResolver)
	case r.Distance == nil:
		return fmt.Errorf("%w: distance", ErrMissingResolver)
	case r.Position == nil:
		return fmt.Errorf("%w: field position", ErrMissingResolver)
	}
	return nil
}

// The accessors below wrap the optional resolvers so callers never check for nil.
// Strings that are present but empty read as absent.

// Yards is the recorded gain, or 0 when none was recorded.
func (r Resolvers[P]) Yards(p P) float64 {
	if r.YardsGained == nil {
		return 0
	}
	v, ok := r.YardsGained(p)
	if !ok {
		return 0
	}
	return v
}

// HasYards reports whether the play recorded a gain.
func (r Resolvers[P]) HasYards(p P) bool {
	if r.YardsGained == nil {
		return false
	}
	_, ok := r.YardsGained(p)
	return ok
}

// QuarterOf returns the quarter, if known.
func (r Resolvers[P]) QuarterOf(p P) (int, bool) {
	if r.Quarter == nil {
		return 0, false
	}
	return r.Quarter(p)
}

// EndPositionOf returns the field position where the play ended, if known.
func (r Resolvers[P]) EndPositionOf(p P) (float64, bool) {
	if r.EndPosition == nil {
		return 0, false
	}
	return r.EndPosition(p)
}

// FamilyOf returns the play family, e.g. "inside_run".
func (r Resolvers[P]) FamilyOf(p P) (string, bool) { return str(r.PlayFamily, p) }

// FormationOf returns the offensive formation.
func (r Resolvers[P]) FormationOf(p P) (string, bool) { return str(r.Formation, p) }

// MotionOf returns the pre-snap motion.
func (r Resolvers[P]) MotionOf(p P) (string, bool) { return str(r.Motion, p) }

// DefFrontOf returns the defensive front.
func (r Resolvers[P]) DefFrontOf(p P) (string, bool) { return str(r.DefFront, p) }

// PasserOf returns the passer.
func (r Resolvers[P]) PasserOf(p P) (string, bool) { return str(r.Passer, p) }

// CarrierOf returns the ball carrier.
func (r Resolvers[P]) CarrierOf(p P) (string, bool) { return str(r.BallCarrier, p) }

// TargetOf returns the targeted receiver.
func (r Resolvers[P]) TargetOf(p P) (string, bool) { return str(r.Target, p) }

// PlayIDOf returns the host's play id.
func (r Resolvers[P]) PlayIDOf(p P) (string, bool) { return str(r.PlayID, p) }

// IsTouchdown reports a scoring play.
func (r Resolvers[P]) IsTouchdown(p P) bool { return flag(r.Touchdown, p) }

// IsTurnover reports an interception or lost fumble.
func (r Resolvers[P]) IsTurnover(p P) bool { return flag(r.Turnover, p) }

// IsPenalty reports a flagged play.
func (r Resolvers[P]) IsPenalty(p P) bool { return flag(r.Penalty, p) }

// str treats a present-but-empty string the same as an absent one.
func str[P any](f func(P) (string, bool), p P) (string, bool) {
	if f == nil {
		return "", false
	}
	v, ok := f(p)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func flag[P any](f func(P) bool, p P) bool {
	if f == nil {
		return false
	}
	return f(p)
}
