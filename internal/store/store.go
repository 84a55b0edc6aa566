// Package store persists tender records with their per-document BOQ
// extractions and serves them to the stored-tender pages.
package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/runway/tender-boq/internal/config"
	"github.com/runway/tender-boq/internal/model"
)

// DefaultListLimit caps ListTenders when the caller passes no limit.
const DefaultListLimit = 50

// Store defines the persistence interface for stored tenders.
type Store interface {
	// GetTender looks a tender up by its tender id, or by its native id when
	// id is one. Returns nil, nil when nothing matches.
	GetTender(ctx context.Context, id string) (*model.StoredTender, error)
	ListTenders(ctx context.Context, limit int) ([]model.StoredTenderSummary, error)
	// PutTender inserts or replaces the record with the same tender id and
	// returns its native id.
	PutTender(ctx context.Context, t *model.StoredTender) (string, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{MaxConns: cfg.MaxConns})
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

// IsNativeID reports whether id has the shape of a store-native id.
func IsNativeID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

// canonicalNativeID returns the normalized native id, or "" when id is not one.
func canonicalNativeID(id string) string {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return ""
	}
	return u.String()
}

// Import stores every tender in ts and returns how many were written.
func Import(ctx context.Context, s Store, ts []model.StoredTender) (int, error) {
	for i := range ts {
		if _, err := s.PutTender(ctx, &ts[i]); err != nil {
			return i, eris.Wrapf(err, "store: import tender %d (%s)", i, ts[i].TenderID)
		}
	}
	return len(ts), nil
}

func validateTender(t *model.StoredTender) error {
	if t == nil {
		return eris.New("store: nil tender")
	}
	if strings.TrimSpace(t.TenderID) == "" {
		return eris.New("store: tender_id is required")
	}
	if t.NativeID != "" && !IsNativeID(t.NativeID) {
		return eris.Errorf("store: invalid native id %q", t.NativeID)
	}
	return nil
}

func nativeIDFor(t *model.StoredTender) string {
	if id := canonicalNativeID(t.NativeID); id != "" {
		return id
	}
	return uuid.New().String()
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
