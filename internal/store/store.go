package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/digimarketingai/Terminology-Evolution-Tracker/internal/model"
)

// ErrNotFound is returned when no matching analysis exists.
var ErrNotFound = errors.New("analysis not found")

// Store is the persistent analysis history. Every completed term analysis
// is archived here, so evolution records survive process restarts.
type Store struct {
	conn *sql.DB
}

// Summary is one row of the history listing
type Summary struct {
	ID         string    `json:"id"`
	Term       string    `json:"term"`
	Domain     string    `json:"domain"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// Open opens (creating if needed) the history database at path and
// initializes the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc sqlite wants a single writer
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		term TEXT NOT NULL,
		domain TEXT NOT NULL DEFAULT '',
		record TEXT NOT NULL,
		raw TEXT NOT NULL DEFAULT '',
		provider TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		analyzed_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_term_domain ON analyses(term, domain);
	CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
	`

	_, err := s.conn.Exec(schema)
	return err
}

// Save archives an analyzed record, assigning it a UUID if it has none.
// The raw model output is stored in its own column because the record's
// JSON form deliberately excludes it.
func (s *Store) Save(ctx context.Context, rec *model.TermRecord) error {
	if rec == nil {
		return errors.New("nil record")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	analyzedAt := rec.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO analyses (id, term, domain, record, raw, provider, model, analyzed_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		term = excluded.term,
		domain = excluded.domain,
		record = excluded.record,
		raw = excluded.raw,
		provider = excluded.provider,
		model = excluded.model,
		analyzed_at = excluded.analyzed_at
	`

	_, err = s.conn.ExecContext(ctx, query,
		rec.ID,
		normalizeKey(rec.Term),
		normalizeKey(rec.Domain),
		string(recordJSON),
		rec.Raw,
		rec.Provider,
		rec.Model,
		analyzedAt,
		time.Now().UTC(),
	)
	return err
}

// GetLatest returns the most recent analysis of term. An empty domain
// matches analyses from any domain.
func (s *Store) GetLatest(ctx context.Context, term, domain string) (*model.TermRecord, error) {
	query := `
	SELECT record, raw FROM analyses
	WHERE term = ? AND (domain = ? OR ? = '')
	ORDER BY created_at DESC LIMIT 1
	`

	var recordJSON, raw string
	d := normalizeKey(domain)
	err := s.conn.QueryRowContext(ctx, query, normalizeKey(term), d, d).Scan(&recordJSON, &raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec := &model.TermRecord{}
	if err := json.Unmarshal([]byte(recordJSON), rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	rec.Raw = raw

	return rec, nil
}

// List returns history rows, most recent first. A non-positive limit
// falls back to 50 rows.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, term, domain, provider, model, analyzed_at FROM analyses
	ORDER BY created_at DESC LIMIT ?
	`

	rows, err := s.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Term, &sum.Domain, &sum.Provider, &sum.Model, &sum.AnalyzedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Delete removes all archived analyses of term. Returns ErrNotFound when
// the term has no history.
func (s *Store) Delete(ctx context.Context, term string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM analyses WHERE term = ?`, normalizeKey(term))
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// normalizeKey folds lookup keys so "Virus" and "virus " share history
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
