package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/runway/tender-boq/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS stored_tenders (
	native_id       TEXT PRIMARY KEY,
	tender_id       TEXT NOT NULL UNIQUE,
	title           TEXT NOT NULL DEFAULT '',
	organisation    TEXT NOT NULL DEFAULT '',
	generated_query TEXT NOT NULL DEFAULT '',
	extractions     TEXT NOT NULL DEFAULT '[]',
	created_at      DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_stored_tenders_tender_id ON stored_tenders(tender_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) PutTender(ctx context.Context, t *model.StoredTender) (string, error) {
	if err := validateTender(t); err != nil {
		return "", err
	}

	extractions, err := marshalExtractions(t.PerDocumentExtractions)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal extractions")
	}

	var nativeID string
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO stored_tenders (native_id, tender_id, title, organisation, generated_query, extractions)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(tender_id) DO UPDATE SET
			title = excluded.title,
			organisation = excluded.organisation,
			generated_query = excluded.generated_query,
			extractions = excluded.extractions,
			updated_at = datetime('now')
		 RETURNING native_id`,
		nativeIDFor(t), t.TenderID, t.Title, t.Organisation, t.GeneratedQuery, string(extractions),
	).Scan(&nativeID)
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: put tender %s", t.TenderID)
	}
	return nativeID, nil
}

func (s *SQLiteStore) GetTender(ctx context.Context, id string) (*model.StoredTender, error) {
	const cols = `SELECT native_id, tender_id, title, organisation, generated_query, extractions FROM stored_tenders`

	var row *sql.Row
	if native := canonicalNativeID(id); native != "" {
		row = s.db.QueryRowContext(ctx, cols+` WHERE native_id = ? OR tender_id = ? ORDER BY native_id = ? DESC LIMIT 1`, native, id, native)
	} else {
		row = s.db.QueryRowContext(ctx, cols+` WHERE tender_id = ?`, id)
	}

	var t model.StoredTender
	var extractions string
	err := row.Scan(&t.NativeID, &t.TenderID, &t.Title, &t.Organisation, &t.GeneratedQuery, &extractions)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get tender %s", id)
	}
	if err := json.Unmarshal([]byte(extractions), &t.PerDocumentExtractions); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal extractions for %s", id)
	}
	return &t, nil
}

func (s *SQLiteStore) ListTenders(ctx context.Context, limit int) ([]model.StoredTenderSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT native_id, tender_id, title FROM stored_tenders ORDER BY rowid LIMIT ?`,
		listLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list tenders")
	}
	defer rows.Close() //nolint:errcheck

	out := []model.StoredTenderSummary{}
	for rows.Next() {
		var t model.StoredTenderSummary
		if err := rows.Scan(&t.NativeID, &t.TenderID, &t.Title); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan tender")
		}
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate tenders")
}

func marshalExtractions(docs []model.PerDocumentExtraction) ([]byte, error) {
	if docs == nil {
		docs = []model.PerDocumentExtraction{}
	}
	return json.Marshal(docs)
}
