package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-playcall/internal/analysis"
	"github.com/pable/go-playcall/internal/model"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	warnColor   = color.New(color.FgYellow)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func pct(v float64) string { return fmt.Sprintf("%.0f%%", v*100) }

// PrintReportHeader prints a one-line summary of what was analyzed.
func PrintReportHeader(w io.Writer, rep *model.Report) {
	team := rep.Meta.Team
	if team == "" {
		team = "all teams"
	}
	headerColor.Fprintf(w, "\nTeam: %s  |  Situation: %s  |  Plays: %d\n\n",
		team, analysis.DescribeSituation(rep.Situation), rep.Meta.TotalPlays)
}

// PrintRankedTable prints the ranked play types. Low-sample rows are flagged in
// the SAMPLE column; the CI column is the 95% Wilson interval on raw success.
func PrintRankedTable(w io.Writer, sums []model.EffectivenessSummary) {
	if len(sums) == 0 {
		fmt.Fprintln(w, "(no play types)")
		return
	}
	table := newTable(w)
	table.Header(
		"#", "PLAY", "N", "SUCC%", "95% CI", "ADJ_SUCC%", "AVG_YDS", "YDS_Z",
		"EXPL%", "TD%", "TO%", "SCORE", "TOP PLAYERS", "SAMPLE",
	)
	for i, s := range sums {
		successes := int(math.Round(s.SuccessRate * float64(s.Count)))
		lo, hi := wilsonCI(successes, s.Count)
		table.Append(
			strconv.Itoa(i+1),
			s.Key,
			strconv.Itoa(s.Count),
			pct(s.SuccessRate),
			fmt.Sprintf("%.0f–%.0f%%", lo*100, hi*100),
			pct(s.AdjustedSuccessRate),
			fmt.Sprintf("%.1f", s.AvgYards),
			fmt.Sprintf("%+.2f", s.YardsZScore),
			pct(s.ExplosiveRate),
			pct(s.TouchdownRate),
			pct(s.TurnoverRate),
			fmt.Sprintf("%.3f", s.CompositeScore),
			strings.Join(s.TopPlayers, ", "),
			sampleFlag(s.LowSample),
		)
	}
	table.Render()
}

// PrintPlayerTable prints the player leaderboard.
func PrintPlayerTable(w io.Writer, lines []model.PlayerStatLine) {
	if len(lines) == 0 {
		fmt.Fprintln(w, "(no players)")
		return
	}
	table := newTable(w)
	table.Header("NAME", "TOUCHES", "YDS", "YDS/T", "SUCC%", "EXPL", "TD", "TO", "TOP FAMILY")
	for _, l := range lines {
		table.Append(
			l.Name,
			strconv.Itoa(l.Touches),
			fmt.Sprintf("%.0f", l.TotalYards),
			fmt.Sprintf("%.1f", l.YardsPerTouch),
			pct(l.SuccessRate),
			strconv.Itoa(l.Explosives),
			strconv.Itoa(l.Touchdowns),
			strconv.Itoa(l.Turnovers),
			topFamily(l.ByFamily),
		)
	}
	table.Render()
}

// PrintDownDistanceTables prints one compact ranking per down & distance bucket.
func PrintDownDistanceTables(w io.Writer, rep *model.Report) {
	keys := rep.DownDistanceKeys()
	if len(keys) == 0 {
		return
	}
	for _, k := range keys {
		fmt.Fprintf(w, "\n--- %s ---\n\n", downDistanceLabel(k))
		table := newTable(w)
		table.Header("PLAY", "N", "SUCC%", "AVG_YDS", "EXPL%", "SCORE", "SAMPLE")
		for _, s := range rep.DownDistance[k] {
			table.Append(
				s.Key,
				strconv.Itoa(s.Count),
				pct(s.SuccessRate),
				fmt.Sprintf("%.1f", s.AvgYards),
				pct(s.ExplosiveRate),
				fmt.Sprintf("%.3f", s.CompositeScore),
				sampleFlag(s.LowSample),
			)
		}
		table.Render()
	}
}

// PrintWarnings prints each warning on its own line.
func PrintWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		warnColor.Fprintf(w, "warning: %s\n", msg)
	}
}

// PrintRecommendation prints the recommended call and any warnings.
func PrintRecommendation(w io.Writer, rec *model.Recommendation) {
	fmt.Fprintf(w, "\n%s\n", rec.Message)
	if rec.Summary != nil && len(rec.Summary.RepresentativePlays) > 0 {
		ids := make([]string, len(rec.Summary.RepresentativePlays))
		for i, p := range rec.Summary.RepresentativePlays {
			ids[i] = fmt.Sprintf("%s (%.0f yds)", p.PlayID, p.Yards)
		}
		fmt.Fprintf(w, "Film: %s\n", strings.Join(ids, ", "))
	}
	if len(rec.Warnings) > 0 {
		fmt.Fprintln(w)
		PrintWarnings(w, rec.Warnings)
	}
}

// PrintReport prints every section of a report.
func PrintReport(w io.Writer, rep *model.Report) {
	PrintReportHeader(w, rep)
	fmt.Fprintf(w, "--- Play Types ---\n\n")
	PrintRankedTable(w, rep.Ranked)
	fmt.Fprintf(w, "\n--- Players ---\n\n")
	PrintPlayerTable(w, rep.Players)
	PrintDownDistanceTables(w, rep)
	if len(rep.Warnings) > 0 {
		fmt.Fprintln(w)
		PrintWarnings(w, rep.Warnings)
	}
}

func sampleFlag(low bool) string {
	if low {
		return "LOW"
	}
	return "OK"
}

// topFamily returns the family with the most touches; ties go to the
// alphabetically first name.
func topFamily(byFamily map[string]int) string {
	if len(byFamily) == 0 {
		return "—"
	}
	names := make([]string, 0, len(byFamily))
	for f := range byFamily {
		names = append(names, f)
	}
	sort.Strings(names)
	best := names[0]
	for _, f := range names[1:] {
		if byFamily[f] > byFamily[best] {
			best = f
		}
	}
	return fmt.Sprintf("%s (%d)", best, byFamily[best])
}

// downDistanceLabel turns "3Very_long" into "3rd & very long".
func downDistanceLabel(key string) string {
	if len(key) < 2 {
		return key
	}
	down, err := strconv.Atoi(key[:1])
	if err != nil {
		return key
	}
	return analysis.DescribeSituation(model.Situation{
		Down:         &down,
		DistanceBand: model.DistanceBand(strings.ToLower(key[1:])),
	})
}

// wilsonCI computes the 95% Wilson score confidence interval for a proportion.
// Returns (lo, hi) as fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}
