package playlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/pable/go-playcall/internal/model"
)

type column int

const (
	colGame column = iota
	colPlayID
	colOffense
	colDefense
	colQuarter
	colDown
	colDistance
	colYardLine
	colSignedYardLine
	colEndYardLine
	colYards
	colFamily
	colFormation
	colMotion
	colDefFront
	colPasser
	colCarrier
	colTarget
	colTouchdown
	colTurnover
	colPenalty
	colPenaltyYards
	colNotes
	colResult
)

// aliases maps normalized header names to columns. When several headers map to
// the same column, the one listed first wins for a row where it is non-empty.
var aliases = []struct {
	name string
	col  column
}{
	{"gameid", colGame}, {"game", colGame},
	{"playid", colPlayID}, {"play", colPlayID}, {"playno", colPlayID}, {"playnumber", colPlayID},
	{"offense", colOffense}, {"offteam", colOffense}, {"team", colOffense}, {"possession", colOffense},
	{"defense", colDefense}, {"defteam", colDefense}, {"opponent", colDefense},
	{"quarter", colQuarter}, {"qtr", colQuarter},
	{"down", colDown}, {"dn", colDown},
	{"distance", colDistance}, {"dist", colDistance}, {"togo", colDistance}, {"ydstogo", colDistance},
	{"yardline", colYardLine}, {"fieldposition", colYardLine},
	{"yardln", colSignedYardLine},
	{"endyardline", colEndYardLine},
	{"yardsgained", colYards}, {"gnls", colYards}, {"gain", colYards}, {"yards", colYards},
	{"playfamily", colFamily}, {"family", colFamily}, {"offplay", colFamily}, {"playtype", colFamily},
	{"formation", colFormation}, {"offform", colFormation},
	{"motion", colMotion}, {"offmotion", colMotion},
	{"deffront", colDefFront}, {"front", colDefFront},
	{"passer", colPasser}, {"qb", colPasser},
	{"ballcarrier", colCarrier}, {"carrier", colCarrier}, {"rusher", colCarrier},
	{"target", colTarget}, {"receiver", colTarget},
	{"touchdown", colTouchdown}, {"td", colTouchdown},
	{"turnover", colTurnover}, {"to", colTurnover},
	{"penalty", colPenalty}, {"pen", colPenalty},
	{"penaltyyards", colPenaltyYards}, {"penyards", colPenaltyYards}, {"penyds", colPenaltyYards},
	{"notes", colNotes}, {"note", colNotes}, {"comments", colNotes},
	{"result", colResult},
}

// normalizeHeader lower-cases a header and drops everything but letters and digits,
// so "YARD LN", "Yard_Ln" and "yardln" are the same column.
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// mapHeader returns, per column, the header indexes in alias priority order.
func mapHeader(header []string) map[column][]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		n := normalizeHeader(h)
		if _, dup := byName[n]; !dup {
			byName[n] = i
		}
	}
	cols := make(map[column][]int)
	for _, a := range aliases {
		if i, ok := byName[a.name]; ok {
			cols[a.col] = append(cols[a.col], i)
		}
	}
	return cols
}

// ParseCSV reads a play log with a header row. Unknown columns are ignored and
// blank cells leave the field absent.
func ParseCSV(r io.Reader) ([]model.Play, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []model.Play{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := mapHeader(header)

	plays := []model.Play{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", line, err)
		}
		if blankRecord(rec) {
			continue
		}
		row := csvRow{rec: rec, cols: cols, header: header, line: line}
		p, err := row.play()
		if err != nil {
			return nil, err
		}
		p.Seq = len(plays) + 1
		plays = append(plays, p)
	}
	return plays, nil
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

type csvRow struct {
	rec    []string
	cols   map[column][]int
	header []string
	line   int
}

// get returns the first non-empty cell for c and its header name.
func (r csvRow) get(c column) (string, string) {
	for _, i := range r.cols[c] {
		if i < len(r.rec) {
			if v := strings.TrimSpace(r.rec[i]); v != "" {
				return v, r.header[i]
			}
		}
	}
	return "", ""
}

func (r csvRow) errorf(header, format string, args ...any) error {
	return fmt.Errorf("row %d column %q: %s", r.line, header, fmt.Sprintf(format, args...))
}

func (r csvRow) float(c column) (*float64, error) {
	v, h := r.get(c)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, r.errorf(h, "not a number: %q", v)
	}
	return &f, nil
}

func (r csvRow) int(c column) (*int, error) {
	f, err := r.float(c)
	if err != nil || f == nil {
		return nil, err
	}
	n := int(*f)
	if float64(n) != *f {
		v, h := r.get(c)
		return nil, r.errorf(h, "not a whole number: %q", v)
	}
	return &n, nil
}

func (r csvRow) flag(c column) (bool, error) {
	v, h := r.get(c)
	b, ok := parseFlag(v)
	if !ok {
		return false, r.errorf(h, "not a yes/no value: %q", v)
	}
	return b, nil
}

func (r csvRow) play() (model.Play, error) {
	var (
		p   model.Play
		err error
	)
	p.GameID, _ = r.get(colGame)
	p.PlayID, _ = r.get(colPlayID)
	p.Offense, _ = r.get(colOffense)
	p.Defense, _ = r.get(colDefense)
	p.PlayFamily, _ = r.get(colFamily)
	p.Formation, _ = r.get(colFormation)
	p.Motion, _ = r.get(colMotion)
	p.DefFront, _ = r.get(colDefFront)
	p.Passer, _ = r.get(colPasser)
	p.BallCarrier, _ = r.get(colCarrier)
	p.Target, _ = r.get(colTarget)
	p.Notes, _ = r.get(colNotes)

	if p.Quarter, err = r.int(colQuarter); err != nil {
		return p, err
	}
	if p.Down, err = r.int(colDown); err != nil {
		return p, err
	}
	if p.Distance, err = r.float(colDistance); err != nil {
		return p, err
	}
	if p.YardLine, err = r.float(colYardLine); err != nil {
		return p, err
	}
	if p.YardLine == nil {
		signed, err := r.float(colSignedYardLine)
		if err != nil {
			return p, err
		}
		if signed != nil {
			p.YardLine = FromSignedYardLine(*signed)
		}
	}
	if p.EndYardLine, err = r.float(colEndYardLine); err != nil {
		return p, err
	}
	if p.YardsGained, err = r.float(colYards); err != nil {
		return p, err
	}
	if p.PenaltyYards, err = r.float(colPenaltyYards); err != nil {
		return p, err
	}
	if p.Touchdown, err = r.flag(colTouchdown); err != nil {
		return p, err
	}
	if p.Turnover, err = r.flag(colTurnover); err != nil {
		return p, err
	}
	if p.Penalty, err = r.flag(colPenalty); err != nil {
		return p, err
	}

	result, _ := r.get(colResult)
	td, to, pen := resultFlags(result)
	p.Touchdown = p.Touchdown || td
	p.Turnover = p.Turnover || to
	p.Penalty = p.Penalty || pen
	return p, nil
}

// FromSignedYardLine converts the coach-software convention (negative = own
// side, positive = opponent side, 50 = midfield) to the 1-99 scale. Zero is
// treated as unrecorded.
func FromSignedYardLine(v float64) *float64 {
	var pos float64
	switch {
	case v < 0:
		pos = -v
	case v > 0:
		pos = 100 - v
	default:
		return nil
	}
	return &pos
}

func parseFlag(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "n", "no", "false", "f":
		return false, true
	case "1", "y", "yes", "true", "t", "x":
		return true, true
	}
	return false, false
}

// resultFlags scans a free-text result cell such as "Rush, TD" or "Fumble".
func resultFlags(result string) (touchdown, turnover, penalty bool) {
	words := strings.FieldsFunc(strings.ToLower(result), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		switch w {
		case "td", "touchdown":
			touchdown = true
		case "int", "interception", "fumble", "fum", "turnover":
			turnover = true
		case "penalty", "pen":
			penalty = true
		}
	}
	return
}
