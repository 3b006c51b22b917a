// Package history is a sqlite-backed store of compile/parse invocations
// ("runs"), keyed by a UUID trace ID, along with a rezi-encoded on-disk
// cache of compiled DFA snapshots (ArtifactCache). The SLR table is not
// part of the cached artifact, and cmd/ffc neither reads nor writes the
// cache: every CLI invocation recompiles.
package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/corvidlab/frontendforge/internal/fferrors"
	_ "modernc.org/sqlite"
)

// RunRecord is one persisted compile/parse invocation.
type RunRecord struct {
	TraceID     string
	RegexHash   string
	GrammarHash string
	Accepted    bool
	TokenCount  int
	CreatedAt   time.Time
}

// Store wraps a sqlite-backed run history table.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a sqlite database at path and ensures
// the runs table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fferrors.New("opening history database", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	const stmt = `CREATE TABLE IF NOT EXISTS runs (
		trace_id TEXT PRIMARY KEY,
		regex_hash TEXT NOT NULL,
		grammar_hash TEXT NOT NULL,
		accepted INTEGER NOT NULL,
		token_count INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);`
	if _, err := s.db.Exec(stmt); err != nil {
		return fferrors.New("initializing history schema", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts rec into the run history table.
func (s *Store) Record(ctx context.Context, rec RunRecord) error {
	const stmt = `INSERT INTO runs (trace_id, regex_hash, grammar_hash, accepted, token_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?);`
	_, err := s.db.ExecContext(ctx, stmt, rec.TraceID, rec.RegexHash, rec.GrammarHash, rec.Accepted, rec.TokenCount, rec.CreatedAt)
	if err != nil {
		return fferrors.New("recording run", err)
	}
	return nil
}

// Recent returns up to limit most-recent run records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	const stmt = `SELECT trace_id, regex_hash, grammar_hash, accepted, token_count, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?;`
	rows, err := s.db.QueryContext(ctx, stmt, limit)
	if err != nil {
		return nil, fferrors.New("querying run history", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var accepted int
		if err := rows.Scan(&r.TraceID, &r.RegexHash, &r.GrammarHash, &accepted, &r.TokenCount, &r.CreatedAt); err != nil {
			return nil, fferrors.New("scanning run history row", err)
		}
		r.Accepted = accepted != 0
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fferrors.New("iterating run history", err)
	}
	return out, nil
}
