package store

import (
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const columns = `startup_id, investor_id, score, confidence, profile, profile_version, breakdown, fingerprint, scored_at`

const insertValues = `INSERT INTO match_results (` + columns + `)
VALUES (:startup_id, :investor_id, :score, :confidence, :profile, :profile_version, :breakdown, :fingerprint, :scored_at)`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS match_results (
	startup_id      TEXT    NOT NULL,
	investor_id     TEXT    NOT NULL,
	score           INTEGER NOT NULL,
	confidence      TEXT    NOT NULL,
	profile         TEXT    NOT NULL,
	profile_version TEXT    NOT NULL,
	breakdown       TEXT    NOT NULL,
	fingerprint     TEXT    NOT NULL DEFAULT '',
	scored_at       TEXT    NOT NULL,
	PRIMARY KEY (startup_id, investor_id)
);

CREATE INDEX IF NOT EXISTS idx_match_results_investor ON match_results (investor_id);
`

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS match_results (
	startup_id      VARCHAR(191) NOT NULL,
	investor_id     VARCHAR(191) NOT NULL,
	score           INT          NOT NULL,
	confidence      VARCHAR(16)  NOT NULL,
	profile         VARCHAR(64)  NOT NULL,
	profile_version VARCHAR(32)  NOT NULL,
	breakdown       JSON         NOT NULL,
	fingerprint     VARCHAR(64)  NOT NULL DEFAULT '',
	scored_at       VARCHAR(32)  NOT NULL,
	PRIMARY KEY (startup_id, investor_id),
	INDEX idx_match_results_investor (investor_id)
);`

type dialect struct {
	schema string
	upsert string
	dsn    func(string) (string, error)
	tune   func(*sqlx.DB)
}

var dialects = map[string]dialect{
	DriverSQLite: {
		schema: sqliteSchema,
		upsert: insertValues + `
ON CONFLICT (startup_id, investor_id) DO UPDATE SET
	score = excluded.score,
	confidence = excluded.confidence,
	profile = excluded.profile,
	profile_version = excluded.profile_version,
	breakdown = excluded.breakdown,
	fingerprint = excluded.fingerprint,
	scored_at = excluded.scored_at`,
		dsn: func(path string) (string, error) {
			if path == "" {
				path = DefaultSQLitePath
			}
			if strings.Contains(path, "?") {
				return path, nil
			}
			return path + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)", nil
		},
		tune: func(db *sqlx.DB) {
			db.SetMaxOpenConns(1)
		},
	},
	DriverMySQL: {
		schema: mysqlSchema,
		upsert: insertValues + `
ON DUPLICATE KEY UPDATE
	score = VALUES(score),
	confidence = VALUES(confidence),
	profile = VALUES(profile),
	profile_version = VALUES(profile_version),
	breakdown = VALUES(breakdown),
	fingerprint = VALUES(fingerprint),
	scored_at = VALUES(scored_at)`,
		dsn: func(dsn string) (string, error) {
			if dsn == "" {
				return "", errors.New("mysql store requires a dsn")
			}
			return dsn, nil
		},
		tune: func(db *sqlx.DB) {
			db.SetMaxOpenConns(10)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)
		},
	},
}

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}
