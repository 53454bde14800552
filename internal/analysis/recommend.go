package analysis

import (
	"fmt"
	"strings"

	"github.com/pable/go-playcall/internal/model"
)

var zoneLabels = map[model.FieldZone]string{
	model.ZoneOwn1To20:  "own 1-20",
	model.ZoneOwn21To50: "own 21-50",
	model.ZoneOpp49To21: "opponent 49-21",
	model.ZoneRedZone:   "the red zone",
	model.ZoneGoalToGo:  "goal-to-go",
}

// Recommend runs Analyze and returns the top-ranked play type with a one-line
// explanation. Summary is nil when nothing matched.
func Recommend[P any](plays []P, r model.Resolvers[P], situation model.Situation, opts *model.Options) (*model.Recommendation, error) {
	rep, err := Analyze(plays, r, situation, opts)
	if err != nil {
		return nil, err
	}
	rec := &model.Recommendation{Warnings: rep.Warnings}
	if len(rep.Ranked) == 0 {
		rec.Message = fmt.Sprintf("No recommendation available %s.", situationPhrase(situation))
		return rec, nil
	}
	top := rep.Ranked[0]
	rec.Summary = &top
	rec.Message = FormatRecommendation(situation, rep.Meta.Team, top)
	return rec, nil
}

// FormatRecommendation renders the natural-language call for a summary.
func FormatRecommendation(situation model.Situation, team string, s model.EffectivenessSummary) string {
	var b strings.Builder
	phrase := situationPhrase(situation)
	b.WriteString(strings.ToUpper(phrase[:1]) + phrase[1:])
	if team != "" {
		fmt.Fprintf(&b, " for %s", team)
	}
	fmt.Fprintf(&b, ", call %q: %.0f%% success, %.1f yds/play, %.0f%% explosive, %.0f%% turnovers (n=%d).",
		s.Key, s.SuccessRate*100, s.AvgYards, s.ExplosiveRate*100, s.TurnoverRate*100, s.Count)
	if s.LowSample {
		b.WriteString(" Small sample; treat as directional.")
	}
	return b.String()
}

// DescribeSituation renders a query as prose, e.g. "1st & medium in own 21-50".
func DescribeSituation(q model.Situation) string {
	var parts []string
	switch {
	case q.Down != nil && q.DistanceBand != "":
		parts = append(parts, fmt.Sprintf("%s & %s", ordinal(*q.Down), bandLabel(q.DistanceBand)))
	case q.Down != nil:
		parts = append(parts, ordinal(*q.Down)+" down")
	case q.DistanceBand != "":
		parts = append(parts, bandLabel(q.DistanceBand)+" distance")
	}
	if q.FieldZone != "" {
		label, ok := zoneLabels[q.FieldZone]
		if !ok {
			label = string(q.FieldZone)
		}
		parts = append(parts, "in "+label)
	}
	if q.Formation != "" {
		parts = append(parts, "from "+q.Formation)
	}
	if q.PlayFamily != "" {
		parts = append(parts, q.PlayFamily+" plays")
	}
	if q.DefFront != "" {
		parts = append(parts, "vs "+q.DefFront+" front")
	}
	if q.Penalty != nil {
		if *q.Penalty {
			parts = append(parts, "on penalty snaps")
		} else {
			parts = append(parts, "excluding penalty snaps")
		}
	}
	if len(parts) == 0 {
		return "all situations"
	}
	return strings.Join(parts, " ")
}

// situationPhrase is DescribeSituation led by exactly one preposition.
func situationPhrase(q model.Situation) string {
	desc := DescribeSituation(q)
	if desc == "all situations" {
		return "across " + desc
	}
	for _, lead := range []string{"in ", "from ", "vs ", "on ", "excluding "} {
		if strings.HasPrefix(desc, lead) {
			return desc
		}
	}
	return "on " + desc
}

func bandLabel(b model.DistanceBand) string {
	return strings.ReplaceAll(string(b), "_", " ")
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	case 3:
		suffix = "rd"
	}
	if n%100 >= 11 && n%100 <= 13 {
		suffix = "th"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
