package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/logger"
	"llm-news-desk/internal/types"
)

// Dialect selects the SQL flavour of a SQL store.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS insights (
	id           BIGSERIAL PRIMARY KEY,
	run_id       TEXT        NOT NULL,
	title        TEXT        NOT NULL,
	url          TEXT        NOT NULL,
	sentiment    TEXT        NOT NULL,
	tags         TEXT[]      NOT NULL DEFAULT '{}',
	summary      TEXT        NOT NULL,
	opportunity  TEXT        NOT NULL,
	risk_point   TEXT        NOT NULL,
	bull_score   INTEGER     NOT NULL,
	bear_score   INTEGER     NOT NULL,
	recorded_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS insights_run_id_idx ON insights (run_id);`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS insights (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT    NOT NULL,
	title        TEXT    NOT NULL,
	url          TEXT    NOT NULL,
	sentiment    TEXT    NOT NULL,
	tags         TEXT    NOT NULL DEFAULT '[]',
	summary      TEXT    NOT NULL,
	opportunity  TEXT    NOT NULL,
	risk_point   TEXT    NOT NULL,
	bull_score   INTEGER NOT NULL,
	bear_score   INTEGER NOT NULL,
	recorded_at  TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS insights_run_id_idx ON insights (run_id);`

// SQL stores one row per insight in Postgres or SQLite.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

var _ interfaces.InsightStore = (*SQL)(nil)

// OpenSQL connects and bootstraps the schema.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string) (*SQL, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	switch dialect {
	case Postgres:
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	case SQLite:
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	default:
		_ = db.Close()
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	s := &SQL{db: db, dialect: dialect}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQL) Name() string {
	if s.dialect == Postgres {
		return "POSTGRES"
	}
	return "SQLITE"
}

func (s *SQL) EnsureSchema(ctx context.Context) error {
	schema := postgresSchema
	if s.dialect == SQLite {
		schema = sqliteSchema
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *SQL) Save(ctx context.Context, r types.InsightRecord) error {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}

	var id int64
	var err error
	switch s.dialect {
	case Postgres:
		err = s.db.QueryRowContext(ctx, `
			INSERT INTO insights(run_id, title, url, sentiment, tags, summary, opportunity, risk_point, bull_score, bear_score, recorded_at)
			VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id
		`, r.RunID, r.Title, r.URL, r.Sentiment, pq.Array(tags), r.Summary, r.Opportunity, r.RiskPoint,
			r.BullScore, r.BearScore, r.RecordedAt).Scan(&id)
	default:
		encoded, mErr := json.Marshal(tags)
		if mErr != nil {
			return fmt.Errorf("encode tags: %w", mErr)
		}
		err = s.db.QueryRowContext(ctx, `
			INSERT INTO insights(run_id, title, url, sentiment, tags, summary, opportunity, risk_point, bull_score, bear_score, recorded_at)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id
		`, r.RunID, r.Title, r.URL, r.Sentiment, string(encoded), r.Summary, r.Opportunity, r.RiskPoint,
			r.BullScore, r.BearScore, r.RecordedAt.UTC().Format(time.RFC3339Nano)).Scan(&id)
	}
	if err != nil {
		return fmt.Errorf("insert insight: %w", err)
	}

	logger.Debug(ctx, "Insight row inserted", "store", s.Name(), "id", id)
	return nil
}

// ListRun returns the records of one run in insertion order.
func (s *SQL) ListRun(ctx context.Context, runID string) ([]types.InsightRecord, error) {
	query := `SELECT run_id, title, url, sentiment, tags, summary, opportunity, risk_point, bull_score, bear_score, recorded_at
		FROM insights WHERE run_id = $1 ORDER BY id ASC`
	if s.dialect == SQLite {
		query = `SELECT run_id, title, url, sentiment, tags, summary, opportunity, risk_point, bull_score, bear_score, recorded_at
		FROM insights WHERE run_id = ? ORDER BY id ASC`
	}

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.InsightRecord
	for rows.Next() {
		var r types.InsightRecord
		if s.dialect == Postgres {
			var tags []string
			if err := rows.Scan(&r.RunID, &r.Title, &r.URL, &r.Sentiment, pq.Array(&tags), &r.Summary,
				&r.Opportunity, &r.RiskPoint, &r.BullScore, &r.BearScore, &r.RecordedAt); err != nil {
				return nil, err
			}
			r.Tags = tags
		} else {
			var tags, recorded string
			if err := rows.Scan(&r.RunID, &r.Title, &r.URL, &r.Sentiment, &tags, &r.Summary,
				&r.Opportunity, &r.RiskPoint, &r.BullScore, &r.BearScore, &recorded); err != nil {
				return nil, err
			}
			if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
				return nil, fmt.Errorf("decode tags: %w", err)
			}
			if r.RecordedAt, err = time.Parse(time.RFC3339Nano, recorded); err != nil {
				return nil, fmt.Errorf("decode recorded_at: %w", err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQL) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
