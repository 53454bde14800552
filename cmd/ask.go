package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/pable/go-playcall/internal/analysis"
	"github.com/pable/go-playcall/internal/model"
)

const askSystemPrompt = `You are an American football offensive coordinator's analyst. You are given
a structured play-calling effectiveness report and a question from the coaching staff.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers (rates, yards, sample sizes) when making a claim.
- Treat play types flagged low_sample as directional, and say so.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable: what to call, when, and why the numbers support it.

Metrics glossary:
- success: 1st down gains 50% of the distance, 2nd down 70%, 3rd/4th 100%; TDs always count.
- adj_success: success rate shrunk toward a prior for small samples.
- yards_z: average gain in standard deviations from the situation's mean.
- explosive: gain of 10+ yards on run families, 15+ on everything else.
- score: 0.55 adj_success + 0.20 yards_z + 0.15 (explosive - 0.5 turnover) + 0.10 touchdown.
- down_distance: the same ranking split by down and distance band, ignoring the situation filter.`

var (
	askFlags    analysisFlags
	askModel    string
	askAPIKey   string
	askTop      int
	askMarkdown bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask an AI grounded in the play report (requires ANTHROPIC_API_KEY)",
	Long: `Build the same report as 'analyze' and send it, with your question, to the
Anthropic API. Answers are restricted to the numbers in the report.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askFlags.register(askCmd)
	askCmd.Flags().StringVar(&askModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	askCmd.Flags().StringVar(&askAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	askCmd.Flags().IntVar(&askTop, "top", 10, "play types per table sent to the model")
	askCmd.Flags().BoolVar(&askMarkdown, "markdown", false, "wait for the full answer and render it as markdown")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	plays, q, o, err := askFlags.prepare(cmd)
	if err != nil {
		return err
	}
	rep, err := analysis.Analyze(plays, model.PlayResolvers(), q, &o)
	if err != nil {
		return err
	}
	if len(rep.Ranked) == 0 {
		return fmt.Errorf("nothing to analyze: %s", strings.Join(rep.Warnings, "; "))
	}

	contextJSON, err := buildReportContext(rep, askTop)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")
	defer fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")
	if !askMarkdown {
		return callAnthropic(cmd.Context(), askAPIKey, askModel, contextJSON, question, os.Stdout)
	}
	var answer strings.Builder
	if err := callAnthropic(cmd.Context(), askAPIKey, askModel, contextJSON, question, &answer); err != nil {
		return err
	}
	out, err := renderMarkdown(answer.String())
	if err != nil {
		return fmt.Errorf("render answer: %w", err)
	}
	fmt.Fprint(os.Stdout, out)
	return nil
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

type playTypeEntry struct {
	Play       string   `json:"play"`
	N          int      `json:"n"`
	Success    float64  `json:"success"`
	AdjSuccess float64  `json:"adj_success"`
	AvgYards   float64  `json:"avg_yards"`
	YardsZ     float64  `json:"yards_z"`
	Explosive  float64  `json:"explosive"`
	Touchdown  float64  `json:"touchdown"`
	Turnover   float64  `json:"turnover"`
	Score      float64  `json:"score"`
	LowSample  bool     `json:"low_sample,omitempty"`
	TopPlayers []string `json:"top_players,omitempty"`
}

func playTypeEntries(sums []model.EffectivenessSummary, top int) []playTypeEntry {
	if top > 0 && len(sums) > top {
		sums = sums[:top]
	}
	out := make([]playTypeEntry, 0, len(sums))
	for _, s := range sums {
		out = append(out, playTypeEntry{
			Play:       s.Key,
			N:          s.Count,
			Success:    round2(s.SuccessRate),
			AdjSuccess: round2(s.AdjustedSuccessRate),
			AvgYards:   round2(s.AvgYards),
			YardsZ:     round2(s.YardsZScore),
			Explosive:  round2(s.ExplosiveRate),
			Touchdown:  round2(s.TouchdownRate),
			Turnover:   round2(s.TurnoverRate),
			Score:      round2(s.CompositeScore),
			LowSample:  s.LowSample,
			TopPlayers: s.TopPlayers,
		})
	}
	return out
}

// buildReportContext serialises a report into compact JSON for the model.
func buildReportContext(rep *model.Report, top int) (string, error) {
	type playerEntry struct {
		Name      string  `json:"name"`
		Touches   int     `json:"touches"`
		Yards     float64 `json:"yards"`
		PerTouch  float64 `json:"yards_per_touch"`
		Success   float64 `json:"success"`
		TDs       int     `json:"touchdowns"`
		Turnovers int     `json:"turnovers"`
	}
	players := make([]playerEntry, 0, len(rep.Players))
	for _, p := range rep.Players {
		players = append(players, playerEntry{
			Name:      p.Name,
			Touches:   p.Touches,
			Yards:     round2(p.TotalYards),
			PerTouch:  round2(p.YardsPerTouch),
			Success:   round2(p.SuccessRate),
			TDs:       p.Touchdowns,
			Turnovers: p.Turnovers,
		})
	}

	downDistance := make(map[string][]playTypeEntry, len(rep.DownDistance))
	for _, k := range rep.DownDistanceKeys() {
		downDistance[k] = playTypeEntries(rep.DownDistance[k], top)
	}

	doc := map[string]interface{}{
		"team":          rep.Meta.Team,
		"situation":     analysis.DescribeSituation(rep.Situation),
		"plays":         rep.Meta.TotalPlays,
		"ranked":        playTypeEntries(rep.Ranked, top),
		"players":       players,
		"down_distance": downDistance,
		"warnings":      rep.Warnings,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	if v < 0 {
		return -round2(-v)
	}
	return float64(int(v*100+0.5)) / 100
}

// callAnthropic streams a response from the Anthropic API into out.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string, out io.Writer) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: askSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(out, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
