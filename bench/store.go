package bench

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists benchmark runs to SQLite so suites can be compared
// across commits. One connection; the runner is the only writer.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	suite_id    TEXT NOT NULL,
	level       TEXT NOT NULL,
	strategy    TEXT NOT NULL,
	solved      INTEGER NOT NULL,
	plan_length INTEGER NOT NULL,
	expanded    INTEGER NOT NULL,
	generated   INTEGER NOT NULL,
	elapsed_ms  INTEGER NOT NULL,
	mem_used    INTEGER NOT NULL,
	outcome     TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_level ON runs(level, strategy);
`

// OpenStore opens (creating if needed) the benchmark database at path.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// InsertRun appends one run row.
func (s *Store) InsertRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(suite_id, level, strategy, solved, plan_length, expanded, generated,
		 elapsed_ms, mem_used, outcome, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SuiteID, r.Level, r.Strategy, boolInt(r.Solved), r.PlanLength,
		r.Expanded, r.Generated, r.ElapsedMS, int64(r.MemUsed), r.Outcome,
		r.RecordedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// History returns the most recent runs of one level/strategy pair, newest
// first.
func (s *Store) History(ctx context.Context, levelName, strategy string, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT suite_id, level, strategy, solved, plan_length, expanded,
		       generated, elapsed_ms, mem_used, outcome, recorded_at
		FROM runs WHERE level = ? AND strategy = ?
		ORDER BY recorded_at DESC LIMIT ?`,
		levelName, strategy, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var solved int
		var mem int64
		var at string
		if err := rows.Scan(&r.SuiteID, &r.Level, &r.Strategy, &solved,
			&r.PlanLength, &r.Expanded, &r.Generated, &r.ElapsedMS,
			&mem, &r.Outcome, &at); err != nil {
			return nil, err
		}
		r.Solved = solved != 0
		r.MemUsed = uint64(mem)
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			r.RecordedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Close() error { return s.db.Close() }

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
