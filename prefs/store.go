// Package prefs keeps per-profile generation preferences between CLI runs.
package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"instant_test/generator"
)

// ErrNotFound is returned by Get for a profile that was never saved.
var ErrNotFound = errors.New("prefs: profile not found")

const cacheSize = 128

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	profile         TEXT PRIMARY KEY,
	notes           TEXT NOT NULL DEFAULT '',
	edge_cases_json TEXT NOT NULL DEFAULT '[]',
	units_json      TEXT NOT NULL DEFAULT '[]',
	updated_at_ms   BIGINT NOT NULL DEFAULT 0
)`

// Preferences are the user-tunable inputs of a generation, saved per profile.
// Slices keep the order the user entered them in.
type Preferences struct {
	Notes     string                       `json:"notes"`
	EdgeCases []generator.EdgeCasePriority `json:"edgeCases"`
	Units     []generator.UnitPriority     `json:"units"`
	UpdatedAt time.Time                    `json:"updatedAt"`
}

type Store struct {
	db       *sql.DB
	postgres bool
	cache    *lru.Cache[string, Preferences]
}

// Open connects to a postgres:// or postgresql:// DSN through pgx, or treats
// anything else as a sqlite file path, and creates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("prefs: empty dsn")
	}

	var (
		db       *sql.DB
		err      error
		postgres = isPostgres(dsn)
	)
	if postgres {
		db, err = sql.Open("pgx", dsn)
	} else {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create prefs dir: %w", err)
			}
		}
		db, err = sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dsn))
		if err == nil {
			db.SetMaxOpenConns(1)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open prefs store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect prefs store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate prefs schema: %w", err)
	}

	cache, err := lru.New[string, Preferences](cacheSize)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, postgres: postgres, cache: cache}, nil
}

func isPostgres(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get loads the preferences of profile, serving repeat reads from the cache.
func (s *Store) Get(ctx context.Context, profile string) (Preferences, error) {
	if p, ok := s.cache.Get(profile); ok {
		return p, nil
	}

	var (
		p                  Preferences
		edgeJSON, unitJSON string
		updatedMs          int64
	)
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT notes, edge_cases_json, units_json, updated_at_ms FROM preferences WHERE profile = ?`), profile)
	if err := row.Scan(&p.Notes, &edgeJSON, &unitJSON, &updatedMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preferences{}, ErrNotFound
		}
		return Preferences{}, fmt.Errorf("load prefs %q: %w", profile, err)
	}
	if err := json.Unmarshal([]byte(edgeJSON), &p.EdgeCases); err != nil {
		return Preferences{}, fmt.Errorf("decode edge cases for %q: %w", profile, err)
	}
	if err := json.Unmarshal([]byte(unitJSON), &p.Units); err != nil {
		return Preferences{}, fmt.Errorf("decode units for %q: %w", profile, err)
	}
	p.UpdatedAt = time.UnixMilli(updatedMs).UTC()

	s.cache.Add(profile, p)
	return p, nil
}

// Put replaces the stored preferences of profile and stamps UpdatedAt.
func (s *Store) Put(ctx context.Context, profile string, p Preferences) (Preferences, error) {
	if strings.TrimSpace(profile) == "" {
		return Preferences{}, errors.New("prefs: profile name is required")
	}
	edgeJSON, err := json.Marshal(nonNil(p.EdgeCases))
	if err != nil {
		return Preferences{}, err
	}
	unitJSON, err := json.Marshal(nonNil(p.Units))
	if err != nil {
		return Preferences{}, err
	}
	p.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err = s.db.ExecContext(ctx, s.rebind(`
INSERT INTO preferences (profile, notes, edge_cases_json, units_json, updated_at_ms)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (profile) DO UPDATE SET
	notes = excluded.notes,
	edge_cases_json = excluded.edge_cases_json,
	units_json = excluded.units_json,
	updated_at_ms = excluded.updated_at_ms`),
		profile, p.Notes, string(edgeJSON), string(unitJSON), p.UpdatedAt.UnixMilli())
	if err != nil {
		return Preferences{}, fmt.Errorf("save prefs %q: %w", profile, err)
	}
	s.cache.Remove(profile)
	return p, nil
}

// Delete removes profile. Deleting a missing profile is not an error.
func (s *Store) Delete(ctx context.Context, profile string) error {
	if _, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM preferences WHERE profile = ?`), profile); err != nil {
		return fmt.Errorf("delete prefs %q: %w", profile, err)
	}
	s.cache.Remove(profile)
	return nil
}

// rebind turns ? placeholders into $n for postgres.
func (s *Store) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
