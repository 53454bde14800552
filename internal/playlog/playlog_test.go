package playlog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseCSV_PlainHeaders(t *testing.T) {
	in := `game_id,play_id,offense,defense,quarter,down,distance,yard_line,yards_gained,play_type,formation,passer,ball_carrier,target,touchdown,turnover,penalty
g1,1,Lions,Tigers,1,1,10,25,4,inside_run,I-Form,,Davis,,0,0,0
g1,2,Lions,Tigers,1,2,6,29,18,slant,Shotgun,Smith,,Jones,yes,no,
,,,,,,,,,,,,,,,,
g1,3,Lions,Tigers,1,1,10,47,0,,Shotgun,,,,,,x
`
	plays, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(plays) != 3 {
		t.Fatalf("want 3 plays (blank row skipped), got %d", len(plays))
	}

	p := plays[0]
	if p.Seq != 1 || p.GameID != "g1" || p.Offense != "Lions" || p.BallCarrier != "Davis" {
		t.Errorf("unexpected first play %+v", p)
	}
	if p.Down == nil || *p.Down != 1 || *p.Distance != 10 || *p.YardLine != 25 || *p.YardsGained != 4 {
		t.Errorf("numeric fields not parsed: %+v", p)
	}
	if p.Passer != "" {
		t.Errorf("blank passer should stay absent, got %q", p.Passer)
	}

	if !plays[1].Touchdown || plays[1].Turnover || plays[1].Target != "Jones" {
		t.Errorf("flags not parsed: %+v", plays[1])
	}
	if !plays[2].Penalty || plays[2].PlayFamily != "" || plays[2].Seq != 3 {
		t.Errorf("penalty row: %+v", plays[2])
	}
}

func TestParseCSV_CoachExportHeaders(t *testing.T) {
	in := `PLAY #,ODK,DN,DIST,YARD LN,GN/LS,OFF FORM,PLAY TYPE,OFF PLAY,DEF FRONT,RESULT
7,O,3,4,-35,5,Trips Rt,Run,Power,4-3,Rush
8,O,1,10,+20,20,Trips Rt,Pass,Post,Nickel,"Complete, TD"
9,O,2,10,50,0,Ace,Pass,Curl,Nickel,Interception
`
	plays, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(plays) != 3 {
		t.Fatalf("want 3 plays, got %d", len(plays))
	}

	if *plays[0].YardLine != 35 {
		t.Errorf("-35 is the own 35: want 35, got %v", *plays[0].YardLine)
	}
	if *plays[1].YardLine != 80 {
		t.Errorf("+20 is the opponent 20: want 80, got %v", *plays[1].YardLine)
	}
	if *plays[2].YardLine != 50 {
		t.Errorf("50 is midfield, got %v", *plays[2].YardLine)
	}
	if plays[0].PlayFamily != "Power" {
		t.Errorf("OFF PLAY should win over PLAY TYPE for the family, got %q", plays[0].PlayFamily)
	}
	if plays[0].Formation != "Trips Rt" || plays[0].DefFront != "4-3" || plays[0].PlayID != "7" {
		t.Errorf("unexpected first play %+v", plays[0])
	}
	if !plays[1].Touchdown || plays[1].Turnover {
		t.Errorf("RESULT 'Complete, TD' should set touchdown only: %+v", plays[1])
	}
	if !plays[2].Turnover {
		t.Error("RESULT 'Interception' should set turnover")
	}
}

func TestParseCSV_Errors(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"non-numeric down", "down,distance\nfirst,10\n", `row 2 column "down": not a number`},
		{"fractional down", "down,distance\n1.5,10\n", "not a whole number"},
		{"bad flag", "down,touchdown\n1,maybe\n", `column "touchdown": not a yes/no value`},
		{"NaN gain", "down,yards_gained\n1,NaN\n", `row 2 column "yards_gained": not a number: "NaN"`},
		{"infinite distance", "down,distance\n1,+Inf\n", `column "distance": not a number`},
		{"infinite coach gain", "DN,GN/LS\n2,-inf\n", `column "GN/LS": not a number`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(c.in))
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Errorf("want error containing %q, got %v", c.want, err)
			}
		})
	}

	plays, err := ParseCSV(strings.NewReader(""))
	if err != nil || len(plays) != 0 {
		t.Errorf("empty input: want no plays and no error, got %d, %v", len(plays), err)
	}
}

func TestParseJSONAndYAML(t *testing.T) {
	js := `[{"game_id":"g1","offense":" Lions ","defense":"Tigers","down":1,"distance":10,"yard_line":30,"yards_gained":7,"play_type":"slant","passer":"Smith"}]`
	plays, err := ParseJSON(strings.NewReader(js))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(plays) != 1 || plays[0].Offense != "Lions" || plays[0].PlayFamily != "slant" || plays[0].Seq != 1 {
		t.Errorf("unexpected json plays %+v", plays)
	}

	ym := `
- game_id: g1
  offense: Lions
  defense: Tigers
  down: 3
  distance: 2
  yard_line: 92
  yards_gained: 2
  play_type: sneak_run
  touchdown: true
`
	plays, err = ParseYAML(strings.NewReader(ym))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if len(plays) != 1 || *plays[0].Down != 3 || !plays[0].Touchdown || *plays[0].YardLine != 92 {
		t.Errorf("unexpected yaml plays %+v", plays)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "week1.csv")
	if err := os.WriteFile(csvPath, []byte("offense,down\nLions,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	plays, err := Load(csvPath)
	if err != nil || len(plays) != 1 {
		t.Errorf("Load csv: %d plays, %v", len(plays), err)
	}

	txtPath := filepath.Join(dir, "week1.txt")
	if err := os.WriteFile(txtPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(txtPath); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("want ErrUnknownFormat, got %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for a missing file")
	}
}
