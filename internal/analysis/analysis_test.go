package analysis

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/pable/go-playcall/internal/model"
)

var res = model.PlayResolvers()

func makePlay(offense string, down int, distance, yardLine, yards float64, formation, family string) model.Play {
	return model.Play{
		GameID: "g1", Offense: offense, Defense: "Opp",
		Down: model.IntPtr(down), Distance: model.FloatPtr(distance), YardLine: model.FloatPtr(yardLine),
		YardsGained: model.FloatPtr(yards),
		Formation:   formation, PlayFamily: family,
	}
}

// scenarioPlays is the four-snap 1st & 5 log for Team A.
func scenarioPlays() []model.Play {
	plays := []model.Play{
		makePlay("Team A", 1, 5, 30, 5, "I-Form", "inside_run"),
		makePlay("Team A", 1, 5, 30, 12, "I-Form", "outside_run"),
		makePlay("Team A", 1, 5, 30, 8, "Shotgun", "slant"),
		makePlay("Team A", 1, 5, 30, 15, "Shotgun", "slant"),
	}
	plays[0].BallCarrier = "Davis"
	plays[1].BallCarrier = "Davis"
	plays[2].Passer, plays[2].Target = "Smith", "Jones"
	plays[3].Passer, plays[3].Target = "Smith", "Jones"
	for i := range plays {
		plays[i].PlayID = string(rune('a' + i))
	}
	return plays
}

func TestAnalyze_EndToEndScenario(t *testing.T) {
	q := model.Situation{Down: model.IntPtr(1), DistanceBand: model.BandMedium}
	rep, err := Analyze(scenarioPlays(), res, q, nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rep.Meta.TotalPlays != 4 {
		t.Errorf("TotalPlays: want 4, got %d", rep.Meta.TotalPlays)
	}
	if rep.Meta.Team != "Team A" {
		t.Errorf("inferred team: want Team A, got %q", rep.Meta.Team)
	}
	if len(rep.Ranked) != 3 {
		t.Fatalf("want 3 ranked play types, got %d", len(rep.Ranked))
	}

	sd := math.Sqrt(14.5)
	adj1 := (1.0 + 2.5) / 6
	adj2 := (2.0 + 2.5) / 7
	want := []struct {
		key   string
		score float64
	}{
		{"I-Form | outside_run", 0.55*adj1 + 0.20*(2/sd) + 0.15*1},
		{"Shotgun | slant", 0.55*adj2 + 0.20*(1.5/sd) + 0.15*0.5},
		{"I-Form | inside_run", 0.55*adj1 + 0.20*(-5/sd)},
	}
	for i, w := range want {
		got := rep.Ranked[i]
		if got.Key != w.key {
			t.Errorf("rank %d: want %s, got %s", i+1, w.key, got.Key)
			continue
		}
		if math.Abs(got.CompositeScore-w.score) > 1e-9 {
			t.Errorf("%s composite: want %v, got %v", w.key, w.score, got.CompositeScore)
		}
	}

	slant := rep.Ranked[1]
	if !reflect.DeepEqual(slant.TopPlayers, []string{"smith", "jones"}) {
		t.Errorf("slant top players: got %v", slant.TopPlayers)
	}
	if len(slant.RepresentativePlays) != 2 || slant.RepresentativePlays[0].PlayID != "d" {
		t.Errorf("slant representative plays: got %+v", slant.RepresentativePlays)
	}

	if len(rep.Players) != 3 || rep.Players[0].TotalYards != 23 {
		t.Errorf("player leaderboard: got %+v", rep.Players)
	}
	if _, ok := rep.DownDistance["1Medium"]; !ok {
		t.Errorf("down/distance tables should contain 1Medium, got keys %v", rep.DownDistanceKeys())
	}
	if len(rep.Warnings) != 1 || !strings.Contains(rep.Warnings[0], "fewer than 6 samples") {
		t.Errorf("expected the low-sample warning, got %v", rep.Warnings)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	plays := scenarioPlays()
	plays = append(plays,
		makePlay("Team A", 2, 8, 45, 3, "Shotgun", "slant"),
		makePlay("Team A", 3, 2, 60, 2, "I-Form", "inside_run"),
		makePlay("Team B", 1, 10, 25, 7, "Pistol", "zone_read_run"),
	)
	opts := model.DefaultOptions()
	opts.Team = "team a"

	first, err := Analyze(plays, res, model.Situation{}, &opts)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]*model.Report, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Analyze(plays, res, model.Situation{}, &opts)
		}(i)
	}
	wg.Wait()
	for i, r := range results {
		if !reflect.DeepEqual(first, r) {
			t.Errorf("run %d differs from the first run", i)
		}
	}
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	plays := scenarioPlays()
	before := make([]model.Play, len(plays))
	copy(before, plays)
	if _, err := Analyze(plays, res, model.Situation{FieldZone: model.ZoneRedZone}, nil); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, plays) {
		t.Error("Analyze modified its input")
	}
}

func TestAnalyze_TeamFilterAndInference(t *testing.T) {
	plays := []model.Play{
		makePlay("Blue", 1, 10, 25, 4, "Gun", "slant"),
		makePlay("Red", 1, 10, 25, 6, "Gun", "slant"),
		makePlay("Red", 1, 10, 25, 6, "Gun", "slant"),
		makePlay("Blue", 1, 10, 25, 4, "Gun", "slant"),
	}
	if got := InferTeam(plays, res); got != "Blue" {
		t.Errorf("tie should go to first-encountered team, got %s", got)
	}
	plays = append(plays, makePlay("Red", 2, 5, 40, 1, "I", "dive_run"))
	if got := InferTeam(plays, res); got != "Red" {
		t.Errorf("most frequent offense should win, got %s", got)
	}

	rep, err := Analyze(plays, res, model.Situation{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Meta.TotalPlays != 3 {
		t.Errorf("only Red plays should be analyzed, got %d", rep.Meta.TotalPlays)
	}
}

func TestAnalyze_Warnings(t *testing.T) {
	rep, err := Analyze(nil, res, model.Situation{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Ranked) != 0 || len(rep.Warnings) != 1 || rep.Warnings[0] != "No plays provided" {
		t.Errorf("empty input: got %+v", rep)
	}

	opts := model.DefaultOptions()
	opts.Team = "Nobody"
	rep, _ = Analyze(scenarioPlays(), res, model.Situation{}, &opts)
	if len(rep.Warnings) != 1 || rep.Warnings[0] != "No plays found for team: Nobody" {
		t.Errorf("unknown team: got warnings %v", rep.Warnings)
	}

	q := model.Situation{Down: model.IntPtr(4)}
	rep, _ = Analyze(scenarioPlays(), res, q, nil)
	want := `No plays found matching situation: {"down":4}`
	if len(rep.Warnings) != 1 || rep.Warnings[0] != want {
		t.Errorf("no situation match: got %v", rep.Warnings)
	}
	if rep.Meta.TotalPlays != 0 || len(rep.Ranked) != 0 {
		t.Errorf("no situation match should yield an empty ranking, got %+v", rep.Ranked)
	}
	if len(rep.DownDistance) == 0 {
		t.Error("down/distance tables are built from the team set even when the situation matches nothing")
	}
}

func TestAnalyze_MissingResolver(t *testing.T) {
	r := model.PlayResolvers()
	r.Down = nil
	_, err := Analyze(scenarioPlays(), r, model.Situation{}, nil)
	if !errors.Is(err, model.ErrMissingResolver) {
		t.Errorf("want ErrMissingResolver, got %v", err)
	}
}

func TestAnalyze_PenaltyDrop(t *testing.T) {
	plays := scenarioPlays()
	flag := makePlay("Team A", 1, 5, 30, 0, "Shotgun", "slant")
	flag.Penalty = true
	flagGain := makePlay("Team A", 1, 5, 30, 15, "Shotgun", "slant")
	flagGain.Penalty = true
	plays = append(plays, flag, flagGain)

	rep, _ := Analyze(plays, res, model.Situation{}, nil)
	if rep.Meta.TotalPlays != 5 {
		t.Errorf("penalty-only play dropped, penalty with yards kept: want 5, got %d", rep.Meta.TotalPlays)
	}

	opts := model.DefaultOptions()
	opts.DropPenaltyOnly = false
	rep, _ = Analyze(plays, res, model.Situation{}, &opts)
	if rep.Meta.TotalPlays != 6 {
		t.Errorf("DropPenaltyOnly=false: want 6, got %d", rep.Meta.TotalPlays)
	}

	rep, _ = Analyze([]model.Play{flag}, res, model.Situation{}, nil)
	if len(rep.Warnings) != 1 || rep.Warnings[0] != "Only penalty-only plays found for team: Team A" {
		t.Errorf("team with only penalty-only snaps: got warnings %v", rep.Warnings)
	}
}

func TestAnalyze_DownDistanceIgnoresSituation(t *testing.T) {
	plays := scenarioPlays()
	plays = append(plays,
		makePlay("Team A", 3, 12, 40, 14, "Shotgun", "post"),
		makePlay("Team A", 3, 1, 40, 2, "Jumbo", "sneak_run"),
	)
	rep, _ := Analyze(plays, res, model.Situation{Down: model.IntPtr(1)}, nil)
	keys := rep.DownDistanceKeys()
	want := []string{"1Medium", "3Short", "3Very_long"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("down/distance keys: want %v, got %v", want, keys)
	}
	if rep.DownDistance["3Short"][0].Key != "Jumbo | sneak_run" {
		t.Errorf("unexpected 3Short table %+v", rep.DownDistance["3Short"])
	}
	if rep.Meta.TotalPlays != 4 {
		t.Errorf("main ranking still honours the situation: want 4, got %d", rep.Meta.TotalPlays)
	}
}

func TestRecommend(t *testing.T) {
	q := model.Situation{Down: model.IntPtr(1), DistanceBand: model.BandMedium}
	rec, err := Recommend(scenarioPlays(), res, q, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Summary == nil || rec.Summary.Key != "I-Form | outside_run" {
		t.Fatalf("unexpected recommendation %+v", rec.Summary)
	}
	want := `On 1st & medium for Team A, call "I-Form | outside_run": 100% success, 12.0 yds/play, 100% explosive, 0% turnovers (n=1). Small sample; treat as directional.`
	if rec.Message != want {
		t.Errorf("message:\n got %s\nwant %s", rec.Message, want)
	}

	rec, _ = Recommend(scenarioPlays(), res, model.Situation{FieldZone: model.ZoneGoalToGo}, nil)
	if rec.Summary != nil {
		t.Error("no match should give a nil summary")
	}
	if rec.Message != "No recommendation available in goal-to-go." {
		t.Errorf("unexpected message %q", rec.Message)
	}
	if len(rec.Warnings) == 0 {
		t.Error("warnings should be carried over from the report")
	}

	rec, _ = Recommend(scenarioPlays(), res, model.Situation{FieldZone: model.ZoneOwn21To50}, nil)
	if !strings.HasPrefix(rec.Message, `In own 21-50 for Team A, call "I-Form | outside_run"`) {
		t.Errorf("zone-only query should lead with a single preposition, got %q", rec.Message)
	}
}

func TestSituationPhrase(t *testing.T) {
	cases := []struct {
		q    model.Situation
		want string
	}{
		{model.Situation{}, "across all situations"},
		{model.Situation{Down: model.IntPtr(3)}, "on 3rd down"},
		{model.Situation{FieldZone: model.ZoneRedZone}, "in the red zone"},
		{model.Situation{Formation: "Gun"}, "from Gun"},
		{model.Situation{PlayFamily: "slant"}, "on slant plays"},
		{model.Situation{Penalty: model.BoolPtr(false)}, "excluding penalty snaps"},
	}
	for _, c := range cases {
		if got := situationPhrase(c.q); got != c.want {
			t.Errorf("situationPhrase(%s) = %q, want %q", c.q, got, c.want)
		}
	}
}

func TestDescribeSituation(t *testing.T) {
	cases := []struct {
		q    model.Situation
		want string
	}{
		{model.Situation{}, "all situations"},
		{model.Situation{Down: model.IntPtr(3)}, "3rd down"},
		{model.Situation{DistanceBand: model.BandVeryLong}, "very long distance"},
		{model.Situation{Down: model.IntPtr(2), DistanceBand: model.BandShort, FieldZone: model.ZoneRedZone}, "2nd & short in the red zone"},
		{model.Situation{Formation: "Gun", DefFront: "Bear", Penalty: model.BoolPtr(false)}, "from Gun vs Bear front excluding penalty snaps"},
	}
	for _, c := range cases {
		if got := DescribeSituation(c.q); got != c.want {
			t.Errorf("DescribeSituation(%s) = %q, want %q", c.q, got, c.want)
		}
	}
}
