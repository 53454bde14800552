package model

// Play is the concrete play record used by import, storage and the CLI.
// Nil numeric pointers and empty strings mean the field was not recorded.
type Play struct {
	Seq          int      `json:"seq,omitempty" yaml:"seq,omitempty"`
	GameID       string   `json:"game_id" yaml:"game_id"`
	PlayID       string   `json:"play_id,omitempty" yaml:"play_id,omitempty"`
	Offense      string   `json:"offense" yaml:"offense"`
	Defense      string   `json:"defense" yaml:"defense"`
	Quarter      *int     `json:"quarter,omitempty" yaml:"quarter,omitempty"`
	Down         *int     `json:"down,omitempty" yaml:"down,omitempty"`
	Distance     *float64 `json:"distance,omitempty" yaml:"distance,omitempty"`
	YardLine     *float64 `json:"yard_line,omitempty" yaml:"yard_line,omitempty"`
	EndYardLine  *float64 `json:"end_yard_line,omitempty" yaml:"end_yard_line,omitempty"`
	YardsGained  *float64 `json:"yards_gained,omitempty" yaml:"yards_gained,omitempty"`
	PlayFamily   string   `json:"play_type,omitempty" yaml:"play_type,omitempty"`
	Formation    string   `json:"formation,omitempty" yaml:"formation,omitempty"`
	Motion       string   `json:"motion,omitempty" yaml:"motion,omitempty"`
	DefFront     string   `json:"def_front,omitempty" yaml:"def_front,omitempty"`
	Passer       string   `json:"passer,omitempty" yaml:"passer,omitempty"`
	BallCarrier  string   `json:"ball_carrier,omitempty" yaml:"ball_carrier,omitempty"`
	Target       string   `json:"target,omitempty" yaml:"target,omitempty"`
	Touchdown    bool     `json:"touchdown,omitempty" yaml:"touchdown,omitempty"`
	Turnover     bool     `json:"turnover,omitempty" yaml:"turnover,omitempty"`
	Penalty      bool     `json:"penalty,omitempty" yaml:"penalty,omitempty"`
	PenaltyYards *float64 `json:"penalty_yards,omitempty" yaml:"penalty_yards,omitempty"`
	Notes        string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// PlayResolvers returns the resolver set for the concrete Play type.
func PlayResolvers() Resolvers[Play] {
	return Resolvers[Play]{
		GameID:  func(p Play) string { return p.GameID },
		Offense: func(p Play) string { return p.Offense },
		Defense: func(p Play) string { return p.Defense },
		Down: func(p Play) (int, bool) {
			if p.Down == nil {
				return 0, false
			}
			return *p.Down, true
		},
		Distance:     func(p Play) (float64, bool) { return deref(p.Distance) },
		Position:     func(p Play) (float64, bool) { return deref(p.YardLine) },
		EndPosition:  func(p Play) (float64, bool) { return deref(p.EndYardLine) },
		YardsGained:  func(p Play) (float64, bool) { return deref(p.YardsGained) },
		PenaltyYards: func(p Play) (float64, bool) { return deref(p.PenaltyYards) },
		Quarter: func(p Play) (int, bool) {
			if p.Quarter == nil {
				return 0, false
			}
			return *p.Quarter, true
		},
		PlayFamily:  func(p Play) (string, bool) { return p.PlayFamily, p.PlayFamily != "" },
		Formation:   func(p Play) (string, bool) { return p.Formation, p.Formation != "" },
		Motion:      func(p Play) (string, bool) { return p.Motion, p.Motion != "" },
		DefFront:    func(p Play) (string, bool) { return p.DefFront, p.DefFront != "" },
		Passer:      func(p Play) (string, bool) { return p.Passer, p.Passer != "" },
		BallCarrier: func(p Play) (string, bool) { return p.BallCarrier, p.BallCarrier != "" },
		Target:      func(p Play) (string, bool) { return p.Target, p.Target != "" },
		Notes:       func(p Play) (string, bool) { return p.Notes, p.Notes != "" },
		PlayID:      func(p Play) (string, bool) { return p.PlayID, p.PlayID != "" },
		Touchdown:   func(p Play) bool { return p.Touchdown },
		Turnover:    func(p Play) bool { return p.Turnover },
		Penalty:     func(p Play) bool { return p.Penalty },
	}
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// FloatPtr is a helper for building Play literals.
func FloatPtr(v float64) *float64 { return &v }
