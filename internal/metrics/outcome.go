package metrics

import "github.com/pable/go-playcall/internal/model"

// Outcome is the per-play evaluation shared by play-type and player aggregation.
type Outcome struct {
	Yards     float64
	Family    string
	Success   bool
	Explosive bool
	Touchdown bool
	Turnover  bool
}

// Evaluate resolves a play's yards and flags and applies the success and
// explosive rules. Success needs a usable down and distance unless the play
// scored. Without a recorded gain, a non-penalty play with both start and end
// positions gains the difference; otherwise missing yards count as 0.
func Evaluate[P any](play P, r model.Resolvers[P], runThreshold, passThreshold float64) Outcome {
	o := Outcome{
		Yards:     gained(play, r),
		Touchdown: r.IsTouchdown(play),
		Turnover:  r.IsTurnover(play),
	}
	o.Family, _ = r.FamilyOf(play)

	down, downOK := r.Down(play)
	dist, distOK := r.Distance(play)
	switch {
	case o.Touchdown:
		o.Success = true
	case downOK && distOK:
		o.Success = IsSuccess(down, dist, o.Yards, false)
	}
	o.Explosive = IsExplosive(o.Family, o.Yards, runThreshold, passThreshold)
	return o
}

func gained[P any](play P, r model.Resolvers[P]) float64 {
	if r.HasYards(play) || r.IsPenalty(play) || r.Position == nil {
		return r.Yards(play)
	}
	start, ok := r.Position(play)
	if !ok {
		return 0
	}
	end, ok := r.EndPositionOf(play)
	if !ok {
		return 0
	}
	return end - start
}
