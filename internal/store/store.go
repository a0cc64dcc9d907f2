// Package store persists match results keyed by startup and investor, keeping
// at most one row per pair.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/spigell/fitmatch/internal/scoring"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	DefaultSQLitePath = "fitmatch.db"
)

var ErrNotFound = errors.New("match result not found")

type Config struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Key identifies one stored pair.
type Key struct {
	StartupID  string
	InvestorID string
}

// Entry is a result to persist together with the fingerprint of the inputs
// that produced it.
type Entry struct {
	Result      scoring.MatchResult
	Fingerprint string
}

// Record is a stored match result row.
type Record struct {
	StartupID      string `db:"startup_id"`
	InvestorID     string `db:"investor_id"`
	Score          int    `db:"score"`
	Confidence     string `db:"confidence"`
	Profile        string `db:"profile"`
	ProfileVersion string `db:"profile_version"`
	Breakdown      string `db:"breakdown"`
	Fingerprint    string `db:"fingerprint"`
	ScoredAt       string `db:"scored_at"`
}

// Result decodes the row back into a match result.
func (r Record) Result() (scoring.MatchResult, error) {
	res := scoring.MatchResult{
		StartupID:      r.StartupID,
		InvestorID:     r.InvestorID,
		Score:          r.Score,
		Confidence:     scoring.Confidence(r.Confidence),
		Profile:        r.Profile,
		ProfileVersion: r.ProfileVersion,
	}
	if err := json.Unmarshal([]byte(r.Breakdown), &res.Breakdown); err != nil {
		return res, fmt.Errorf("decode breakdown for %s/%s: %w", r.StartupID, r.InvestorID, err)
	}
	return res, nil
}

type Store struct {
	db      *sqlx.DB
	dialect dialect
	logger  *zap.Logger
	now     func() time.Time
}

// Open connects to the configured database and ensures the schema exists.
// An empty driver means sqlite.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}

	dsn, err := d.dsn(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	d.tune(db)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger.Debug("store opened", zap.String("driver", driver))

	return &Store{
		db:      db,
		dialect: d,
		logger:  logger,
		now:     time.Now,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert writes all entries in one transaction. Existing rows for the same
// pair are replaced.
func (s *Store) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareNamedContext(ctx, s.dialect.upsert)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	scoredAt := s.now().UTC().Format(time.RFC3339)
	for _, e := range entries {
		rec, err := toRecord(e, scoredAt)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, rec); err != nil {
			return fmt.Errorf("upsert %s/%s: %w", rec.StartupID, rec.InvestorID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}

	s.logger.Debug("match results stored", zap.Int("count", len(entries)))
	return nil
}

func (s *Store) Get(ctx context.Context, startupID, investorID string) (*Record, error) {
	var rec Record
	err := s.db.GetContext(ctx, &rec, `SELECT `+columns+` FROM match_results WHERE startup_id = ? AND investor_id = ?`, startupID, investorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", startupID, investorID, err)
	}
	return &rec, nil
}

// ListByStartup returns the stored results of a startup, best score first.
func (s *Store) ListByStartup(ctx context.Context, startupID string) ([]Record, error) {
	var recs []Record
	err := s.db.SelectContext(ctx, &recs, `SELECT `+columns+` FROM match_results WHERE startup_id = ? ORDER BY score DESC, investor_id`, startupID)
	if err != nil {
		return nil, fmt.Errorf("list results for %s: %w", startupID, err)
	}
	return recs, nil
}

// Fingerprints returns the stored input fingerprint of every pair.
func (s *Store) Fingerprints(ctx context.Context) (map[Key]string, error) {
	rows, err := s.db.QueryxContext(ctx, `SELECT startup_id, investor_id, fingerprint FROM match_results`)
	if err != nil {
		return nil, fmt.Errorf("load fingerprints: %w", err)
	}
	defer rows.Close()

	out := make(map[Key]string)
	for rows.Next() {
		var k Key
		var fp string
		if err := rows.Scan(&k.StartupID, &k.InvestorID, &fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		out[k] = fp
	}
	return out, rows.Err()
}

func toRecord(e Entry, scoredAt string) (Record, error) {
	r := e.Result
	breakdown, err := json.Marshal(r.Breakdown)
	if err != nil {
		return Record{}, fmt.Errorf("encode breakdown for %s/%s: %w", r.StartupID, r.InvestorID, err)
	}
	return Record{
		StartupID:      r.StartupID,
		InvestorID:     r.InvestorID,
		Score:          r.Score,
		Confidence:     string(r.Confidence),
		Profile:        r.Profile,
		ProfileVersion: r.ProfileVersion,
		Breakdown:      string(breakdown),
		Fingerprint:    e.Fingerprint,
		ScoredAt:       scoredAt,
	}, nil
}
