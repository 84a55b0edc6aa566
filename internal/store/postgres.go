package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/runway/tender-boq/internal/model"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore. pgxmock pools
// satisfy it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const (
	pgUpsertTender = `INSERT INTO stored_tenders (native_id, tender_id, title, organisation, generated_query, extractions)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (tender_id) DO UPDATE SET
	title = EXCLUDED.title,
	organisation = EXCLUDED.organisation,
	generated_query = EXCLUDED.generated_query,
	extractions = EXCLUDED.extractions,
	updated_at = now()
RETURNING native_id::text`
	pgGetByTenderID = `SELECT native_id::text, tender_id, title, organisation, generated_query, extractions FROM stored_tenders WHERE tender_id = $1`
	pgGetByEitherID = `SELECT native_id::text, tender_id, title, organisation, generated_query, extractions FROM stored_tenders WHERE native_id = $1::uuid OR tender_id = $2 ORDER BY native_id = $1::uuid DESC LIMIT 1`
	pgListTenders   = `SELECT native_id::text, tender_id, title FROM stored_tenders ORDER BY created_at, tender_id LIMIT $1`
)

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS stored_tenders (
	native_id       UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	tender_id       TEXT NOT NULL UNIQUE,
	title           TEXT NOT NULL DEFAULT '',
	organisation    TEXT NOT NULL DEFAULT '',
	generated_query TEXT NOT NULL DEFAULT '',
	extractions     JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_stored_tenders_created_at ON stored_tenders(created_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) PutTender(ctx context.Context, t *model.StoredTender) (string, error) {
	if err := validateTender(t); err != nil {
		return "", err
	}

	extractions, err := marshalExtractions(t.PerDocumentExtractions)
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal extractions")
	}

	var nativeID string
	err = s.pool.QueryRow(ctx, pgUpsertTender,
		nativeIDFor(t), t.TenderID, t.Title, t.Organisation, t.GeneratedQuery, extractions,
	).Scan(&nativeID)
	if err != nil {
		return "", eris.Wrapf(err, "postgres: put tender %s", t.TenderID)
	}
	return nativeID, nil
}

func (s *PostgresStore) GetTender(ctx context.Context, id string) (*model.StoredTender, error) {
	var row pgx.Row
	if native := canonicalNativeID(id); native != "" {
		row = s.pool.QueryRow(ctx, pgGetByEitherID, native, id)
	} else {
		row = s.pool.QueryRow(ctx, pgGetByTenderID, id)
	}

	var t model.StoredTender
	var extractions []byte
	err := row.Scan(&t.NativeID, &t.TenderID, &t.Title, &t.Organisation, &t.GeneratedQuery, &extractions)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get tender %s", id)
	}
	if err := json.Unmarshal(extractions, &t.PerDocumentExtractions); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal extractions for %s", id)
	}
	return &t, nil
}

func (s *PostgresStore) ListTenders(ctx context.Context, limit int) ([]model.StoredTenderSummary, error) {
	rows, err := s.pool.Query(ctx, pgListTenders, listLimit(limit))
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list tenders")
	}
	defer rows.Close()

	out := []model.StoredTenderSummary{}
	for rows.Next() {
		var t model.StoredTenderSummary
		if err := rows.Scan(&t.NativeID, &t.TenderID, &t.Title); err != nil {
			return nil, eris.Wrap(err, "postgres: scan tender")
		}
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate tenders")
}
