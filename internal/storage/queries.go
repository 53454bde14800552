package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-playcall/internal/model"
)

// ImportSummary describes one imported play log.
type ImportSummary struct {
	ID         string
	Source     string
	ImportedAt string // RFC 3339, UTC
	PlayCount  int
}

// PlayFilter narrows GetPlays. Empty fields match everything.
type PlayFilter struct {
	ImportID string
	GameID   string
	Team     string // offense or defense, case-insensitive
}

// GameSummary is one row of ListGames.
type GameSummary struct {
	GameID string
	Teams  []string
	Plays  int
}

// Overview holds store-wide totals for the summary command.
type Overview struct {
	Imports        int
	Plays          int
	Games          int
	Teams          int
	EarliestImport string
	LatestImport   string
}

// FamilyCount is a per-play-family row of GetFamilyCounts.
type FamilyCount struct {
	Family   string
	Plays    int
	AvgYards float64
}

const playColumns = `seq, game_id, play_id, offense, defense, quarter, down, distance,
	yard_line, end_yard_line, yards_gained, play_type, formation, motion, def_front,
	passer, ball_carrier, target, touchdown, turnover, penalty, penalty_yards, notes`

// InsertImport stores plays under a new import id in one transaction.
// Plays keep their order through seq; a zero Seq is replaced by the 1-based position.
func (db *DB) InsertImport(source string, plays []model.Play) (ImportSummary, error) {
	sum := ImportSummary{
		ID:         uuid.NewString(),
		Source:     source,
		ImportedAt: time.Now().UTC().Format(time.RFC3339),
		PlayCount:  len(plays),
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return sum, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO imports(id, source, imported_at, play_count) VALUES (?, ?, ?, ?)`,
		sum.ID, sum.Source, sum.ImportedAt, sum.PlayCount); err != nil {
		return sum, fmt.Errorf("insert import: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO plays(import_id, ` + playColumns + `)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return sum, err
	}
	defer stmt.Close()

	for i, p := range plays {
		seq := p.Seq
		if seq == 0 {
			seq = i + 1
		}
		_, err = stmt.Exec(
			sum.ID, seq, p.GameID, p.PlayID, p.Offense, p.Defense,
			nullInt(p.Quarter), nullInt(p.Down), nullFloat(p.Distance),
			nullFloat(p.YardLine), nullFloat(p.EndYardLine), nullFloat(p.YardsGained),
			p.PlayFamily, p.Formation, p.Motion, p.DefFront,
			p.Passer, p.BallCarrier, p.Target,
			boolInt(p.Touchdown), boolInt(p.Turnover), boolInt(p.Penalty),
			nullFloat(p.PenaltyYards), p.Notes,
		)
		if err != nil {
			return sum, fmt.Errorf("insert play %d: %w", seq, err)
		}
	}
	return sum, tx.Commit()
}

// ListImports returns all imports, newest first.
func (db *DB) ListImports() ([]ImportSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, source, imported_at, play_count
		FROM imports ORDER BY imported_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ImportSummary
	for rows.Next() {
		var s ImportSummary
		if err := rows.Scan(&s.ID, &s.Source, &s.ImportedAt, &s.PlayCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetImportByPrefix finds an import by id prefix. Returns nil if none matches.
func (db *DB) GetImportByPrefix(prefix string) (*ImportSummary, error) {
	var s ImportSummary
	err := db.conn.QueryRow(`
		SELECT id, source, imported_at, play_count
		FROM imports WHERE id LIKE ? ORDER BY imported_at DESC LIMIT 1`, prefix+"%").
		Scan(&s.ID, &s.Source, &s.ImportedAt, &s.PlayCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteImport removes an import and its plays. It reports whether a row was deleted.
func (db *DB) DeleteImport(id string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM plays WHERE import_id = ?`, id); err != nil {
		return false, fmt.Errorf("delete plays: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM imports WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete import: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

// GetPlays returns stored plays ordered by import time, then sequence.
func (db *DB) GetPlays(f PlayFilter) ([]model.Play, error) {
	var (
		where []string
		args  []any
	)
	if f.ImportID != "" {
		where = append(where, "p.import_id = ?")
		args = append(args, f.ImportID)
	}
	if f.GameID != "" {
		where = append(where, "p.game_id = ?")
		args = append(args, f.GameID)
	}
	if f.Team != "" {
		where = append(where, "(p.offense = ? COLLATE NOCASE OR p.defense = ? COLLATE NOCASE)")
		args = append(args, f.Team, f.Team)
	}
	query := `SELECT ` + qualify("p", playColumns) + `
		FROM plays p JOIN imports i ON i.id = p.import_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY i.imported_at, i.rowid, p.seq"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Play{}
	for rows.Next() {
		var p model.Play
		var td, to, pen int
		if err := rows.Scan(
			&p.Seq, &p.GameID, &p.PlayID, &p.Offense, &p.Defense,
			&p.Quarter, &p.Down, &p.Distance,
			&p.YardLine, &p.EndYardLine, &p.YardsGained,
			&p.PlayFamily, &p.Formation, &p.Motion, &p.DefFront,
			&p.Passer, &p.BallCarrier, &p.Target,
			&td, &to, &pen, &p.PenaltyYards, &p.Notes,
		); err != nil {
			return nil, err
		}
		p.Touchdown, p.Turnover, p.Penalty = td != 0, to != 0, pen != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListGames returns one row per game id with the teams seen on either side.
func (db *DB) ListGames() ([]GameSummary, error) {
	rows, err := db.conn.Query(`
		SELECT game_id,
		       COALESCE(GROUP_CONCAT(DISTINCT offense), ''),
		       COALESCE(GROUP_CONCAT(DISTINCT defense), ''),
		       COUNT(*)
		FROM plays
		GROUP BY game_id
		ORDER BY game_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameSummary
	for rows.Next() {
		var g GameSummary
		var offenses, defenses string
		if err := rows.Scan(&g.GameID, &offenses, &defenses, &g.Plays); err != nil {
			return nil, err
		}
		g.Teams = mergeTeams(offenses, defenses)
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetOverview returns store-wide totals.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(MIN(imported_at), ''), COALESCE(MAX(imported_at), '')
		FROM imports`).Scan(&ov.Imports, &ov.EarliestImport, &ov.LatestImport)
	if err != nil {
		return ov, err
	}
	err = db.conn.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT game_id),
		       (SELECT COUNT(*) FROM (
		            SELECT offense AS team FROM plays WHERE offense <> ''
		            UNION
		            SELECT defense FROM plays WHERE defense <> ''))
		FROM plays`).Scan(&ov.Plays, &ov.Games, &ov.Teams)
	return ov, err
}

// GetFamilyCounts returns play counts and average gain per play family, most used first.
func (db *DB) GetFamilyCounts(limit int) ([]FamilyCount, error) {
	rows, err := db.conn.Query(`
		SELECT play_type, COUNT(*), COALESCE(AVG(yards_gained), 0)
		FROM plays
		GROUP BY play_type
		ORDER BY COUNT(*) DESC, play_type
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FamilyCount
	for rows.Next() {
		var c FamilyCount
		if err := rows.Scan(&c.Family, &c.Plays, &c.AvgYards); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch v := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(v)
			default:
				row[i] = fmt.Sprint(v)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// qualify prefixes each column in a comma-separated list with alias.
func qualify(alias, cols string) string {
	parts := strings.Split(cols, ",")
	for i, c := range parts {
		parts[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}

func mergeTeams(lists ...string) []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range lists {
		for _, t := range strings.Split(l, ",") {
			if t = strings.TrimSpace(t); t != "" && !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Strings(out)
	return out
}
