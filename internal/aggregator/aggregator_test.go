package aggregator

import (
	"math"
	"reflect"
	"testing"

	"github.com/pable/go-playcall/internal/model"
)

var res = model.PlayResolvers()

const eps = 1e-9

// makePlay creates a 1st & 5 snap at the own 30 with the given shape and result.
func makePlay(id, formation, family string, yards float64) model.Play {
	return model.Play{
		GameID: "g1", PlayID: id,
		Offense: "Team A", Defense: "Team B",
		Down: model.IntPtr(1), Distance: model.FloatPtr(5), YardLine: model.FloatPtr(30),
		YardsGained: model.FloatPtr(yards),
		Formation:   formation,
		PlayFamily:  family,
	}
}

func findSummary(s []model.EffectivenessSummary, key string) *model.EffectivenessSummary {
	for i := range s {
		if s[i].Key == key {
			return &s[i]
		}
	}
	return nil
}

// ---- Key generation ----

func TestDefaultKey(t *testing.T) {
	cases := []struct {
		name                      string
		formation, family, motion string
		useMotion                 bool
		want                      string
	}{
		{"formation and family", "I-Form", "inside_run", "", false, "I-Form | inside_run"},
		{"missing formation", "", "slant", "", false, "— | slant"},
		{"missing both", "", "", "", false, "— | —"},
		{"motion disabled", "Gun", "slant", "jet", false, "Gun | slant"},
		{"motion enabled", "Gun", "slant", "jet", true, "Gun | slant | jet"},
		{"motion enabled but absent", "Gun", "slant", "", true, "Gun | slant"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DefaultKey(c.formation, c.family, c.motion, c.useMotion); got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
		})
	}
}

func TestKeyFunc_CustomFormatter(t *testing.T) {
	opts := model.DefaultOptions()
	var gotMotion string
	opts.KeyFormatter = func(formation, family, motion string) string {
		gotMotion = motion
		return family + "@" + formation
	}
	key := KeyFunc(opts)("Gun", "slant", "jet")
	if key != "slant@Gun" {
		t.Errorf("custom formatter not used: %q", key)
	}
	if gotMotion != "" {
		t.Errorf("motion should be withheld when UseMotion is off, got %q", gotMotion)
	}

	opts.UseMotion = true
	KeyFunc(opts)("Gun", "slant", "jet")
	if gotMotion != "jet" {
		t.Errorf("motion should reach the formatter when UseMotion is on, got %q", gotMotion)
	}
}

// ---- Grouping ----

func TestGroup_InsertionOrderAndMotion(t *testing.T) {
	a := makePlay("1", "Gun", "slant", 8)
	a.Motion = "jet"
	b := makePlay("2", "I-Form", "inside_run", 3)
	c := makePlay("3", "Gun", "slant", 12)
	c.Motion = "orbit"

	buckets, pop := Group([]model.Play{a, b, c}, res, model.DefaultOptions())
	if len(buckets) != 2 {
		t.Fatalf("want 2 buckets without motion, got %d", len(buckets))
	}
	if buckets[0].Key != "Gun | slant" || buckets[1].Key != "I-Form | inside_run" {
		t.Errorf("buckets out of insertion order: %s, %s", buckets[0].Key, buckets[1].Key)
	}
	if len(pop) != 3 {
		t.Errorf("population should hold every grouped play, got %d", len(pop))
	}

	opts := model.DefaultOptions()
	opts.UseMotion = true
	buckets, _ = Group([]model.Play{a, b, c}, res, opts)
	if len(buckets) != 3 {
		t.Fatalf("want 3 buckets with motion, got %d", len(buckets))
	}
	if buckets[0].Key != "Gun | slant | jet" || buckets[0].Motion != "jet" {
		t.Errorf("unexpected motion bucket %+v", buckets[0])
	}
}

func TestGroup_PenaltyDrop(t *testing.T) {
	flag := makePlay("1", "Gun", "slant", 0)
	flag.Penalty = true
	flagWithGain := makePlay("2", "Gun", "slant", 15)
	flagWithGain.Penalty = true
	normal := makePlay("3", "Gun", "slant", 4)

	buckets, pop := Group([]model.Play{flag, flagWithGain, normal}, res, model.DefaultOptions())
	if got := buckets[0].Count(); got != 2 {
		t.Errorf("penalty-only play should be dropped: want 2 samples, got %d", got)
	}
	if len(pop) != 2 {
		t.Errorf("dropped plays must not enter the population, got %d", len(pop))
	}

	keep := model.DefaultOptions()
	keep.DropPenaltyOnly = false
	buckets, _ = Group([]model.Play{flag, flagWithGain, normal}, res, keep)
	if got := buckets[0].Count(); got != 3 {
		t.Errorf("DropPenaltyOnly=false keeps every play: want 3, got %d", got)
	}
}

func TestGroup_TouchesPerRole(t *testing.T) {
	p := makePlay("1", "Gun", "slant", 9)
	p.Passer = "Smith"
	p.Target = "Jones"
	p.BallCarrier = "Jones"

	buckets, _ := Group([]model.Play{p}, res, model.DefaultOptions())
	want := []string{"jones", "smith", "jones"}
	if !reflect.DeepEqual(buckets[0].Touches, want) {
		t.Errorf("touches: want %v, got %v", want, buckets[0].Touches)
	}
}

// ---- Summaries ----

// TestSummaries_FourPlayScenario checks every figure against the composite formula.
// Yards population [5 12 8 15]: mean 10, population sd sqrt(14.5).
func TestSummaries_FourPlayScenario(t *testing.T) {
	plays := []model.Play{
		makePlay("p1", "I-Form", "inside_run", 5),
		makePlay("p2", "I-Form", "outside_run", 12),
		makePlay("p3", "Shotgun", "slant", 8),
		makePlay("p4", "Shotgun", "slant", 15),
	}
	sums := Summaries(plays, res, model.DefaultOptions())
	if len(sums) != 3 {
		t.Fatalf("want 3 summaries, got %d", len(sums))
	}
	sd := math.Sqrt(14.5)

	cases := []struct {
		key       string
		count     int
		success   float64
		avg       float64
		explosive float64
	}{
		{"I-Form | inside_run", 1, 1, 5, 0},
		{"I-Form | outside_run", 1, 1, 12, 1},
		{"Shotgun | slant", 2, 1, 11.5, 0.5},
	}
	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			s := findSummary(sums, c.key)
			if s == nil {
				t.Fatalf("summary %q missing", c.key)
			}
			if s.Count != c.count || s.SuccessRate != c.success || s.AvgYards != c.avg || s.ExplosiveRate != c.explosive {
				t.Errorf("raw metrics: got n=%d sr=%v avg=%v exp=%v", s.Count, s.SuccessRate, s.AvgYards, s.ExplosiveRate)
			}
			adj := (c.success*float64(c.count) + 0.5*5) / (float64(c.count) + 5)
			z := (c.avg - 10) / sd
			want := 0.55*adj + 0.20*z + 0.15*c.explosive
			if math.Abs(s.AdjustedSuccessRate-adj) > eps {
				t.Errorf("adjusted success: want %v, got %v", adj, s.AdjustedSuccessRate)
			}
			if math.Abs(s.YardsZScore-z) > eps {
				t.Errorf("z-score: want %v, got %v", z, s.YardsZScore)
			}
			if math.Abs(s.CompositeScore-want) > eps {
				t.Errorf("composite: want %v, got %v", want, s.CompositeScore)
			}
			if !s.LowSample {
				t.Error("fewer than 6 samples should be flagged low-sample")
			}
		})
	}

	SortSummaries(sums)
	order := []string{"I-Form | outside_run", "Shotgun | slant", "I-Form | inside_run"}
	for i, k := range order {
		if sums[i].Key != k {
			t.Errorf("rank %d: want %s, got %s", i+1, k, sums[i].Key)
		}
	}
}

func TestSummarize_SmoothingDisabled(t *testing.T) {
	opts := model.DefaultOptions()
	opts.Smoothing.Enabled = false
	sums := Summaries([]model.Play{makePlay("1", "Gun", "slant", 1)}, res, opts)
	if sums[0].AdjustedSuccessRate != sums[0].SuccessRate {
		t.Errorf("smoothing disabled: adjusted %v should equal raw %v", sums[0].AdjustedSuccessRate, sums[0].SuccessRate)
	}
}

func TestSummarize_RatesAndLowSample(t *testing.T) {
	var plays []model.Play
	for i := 0; i < 6; i++ {
		p := makePlay("", "Gun", "slant", 4)
		if i == 0 {
			p.Touchdown = true
		}
		if i == 1 {
			p.Turnover = true
		}
		plays = append(plays, p)
	}
	s := Summaries(plays, res, model.DefaultOptions())[0]
	if s.LowSample {
		t.Error("6 samples meets the default minimum")
	}
	if math.Abs(s.TouchdownRate-1.0/6) > eps || math.Abs(s.TurnoverRate-1.0/6) > eps {
		t.Errorf("td/turnover rates: got %v / %v", s.TouchdownRate, s.TurnoverRate)
	}
	if s.YardsZScore != 0 {
		t.Errorf("single-valued population has zero spread, z should be 0, got %v", s.YardsZScore)
	}
	if len(s.RepresentativePlays) != 0 {
		t.Errorf("plays without ids are never representative, got %v", s.RepresentativePlays)
	}
}

// ---- Top players & representative plays ----

func TestTopPlayers(t *testing.T) {
	touches := []string{"b", "a", "c", "a", "d", "c", "e"}
	got := TopPlayers(touches, 3)
	want := []string{"a", "c", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
	if got := TopPlayers(nil, 3); len(got) != 0 {
		t.Errorf("no touches: want empty, got %v", got)
	}
}

func TestRepresentativePlays_TieBreakBySequence(t *testing.T) {
	plays := []model.Play{
		makePlay("first-8", "Gun", "slant", 8),
		makePlay("", "Gun", "slant", 30),
		makePlay("the-20", "Gun", "slant", 20),
		makePlay("second-8", "Gun", "slant", 8),
		makePlay("the-3", "Gun", "slant", 3),
	}
	s := Summaries(plays, res, model.DefaultOptions())[0]
	var ids []string
	for _, rp := range s.RepresentativePlays {
		ids = append(ids, rp.PlayID)
	}
	want := []string{"the-20", "first-8", "second-8"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("want %v, got %v", want, ids)
	}
}

// ---- Ranking ----

func TestSortSummaries_TieBreaks(t *testing.T) {
	sums := []model.EffectivenessSummary{
		{Key: "low", CompositeScore: 0.1, Count: 50, AvgYards: 9},
		{Key: "few", CompositeScore: 0.5, Count: 3, AvgYards: 9},
		{Key: "many-short", CompositeScore: 0.5, Count: 8, AvgYards: 4},
		{Key: "many-long", CompositeScore: 0.5, Count: 8, AvgYards: 6},
		{Key: "b-twin", CompositeScore: 0.5, Count: 3, AvgYards: 9},
	}
	SortSummaries(sums)
	want := []string{"many-long", "many-short", "b-twin", "few", "low"}
	for i, k := range want {
		if sums[i].Key != k {
			t.Errorf("rank %d: want %s, got %s", i+1, k, sums[i].Key)
		}
	}
}
