package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runway/tender-boq/internal/config"
	"github.com/runway/tender-boq/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleTender(id string) *model.StoredTender {
	return &model.StoredTender{
		TenderID:       id,
		Title:          "Tender " + id,
		Organisation:   "PWD",
		GeneratedQuery: "cement OR steel",
		PerDocumentExtractions: []model.PerDocumentExtraction{
			{DocumentID: "boq.pdf", Items: []model.ExtractionItem{
				{Item: model.Flex("Cement"), Quantity: model.Flex("120"), Unit: model.Flex("bags")},
				{Item: model.Flex("Steel")},
			}},
			{DocumentID: "annex.pdf", Items: []model.ExtractionItem{}},
		},
	}
}

func TestSQLite_PutAndGetByTenderID(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	nativeID, err := st.PutTender(ctx, sampleTender("2025_PWD_1"))
	require.NoError(t, err)
	assert.True(t, IsNativeID(nativeID))

	got, err := st.GetTender(ctx, "2025_PWD_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, nativeID, got.NativeID)
	assert.Equal(t, "Tender 2025_PWD_1", got.Title)
	assert.Equal(t, "cement OR steel", got.GeneratedQuery)
	require.Len(t, got.PerDocumentExtractions, 2)
	assert.Equal(t, "boq.pdf", got.PerDocumentExtractions[0].DocumentID)
	assert.Equal(t, "Cement", got.PerDocumentExtractions[0].Items[0].Item.String())
	assert.Nil(t, got.PerDocumentExtractions[0].Items[1].Quantity)
	assert.Equal(t, "annex.pdf", got.PerDocumentExtractions[1].DocumentID)
}

func TestSQLite_GetByNativeID(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	nativeID, err := st.PutTender(ctx, sampleTender("T-9"))
	require.NoError(t, err)

	got, err := st.GetTender(ctx, nativeID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "T-9", got.TenderID)

	// Native ids are matched case-insensitively.
	got, err = st.GetTender(ctx, strings.ToUpper(nativeID))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "T-9", got.TenderID)
}

func TestSQLite_GetMissing(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	got, err := st.GetTender(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = st.GetTender(ctx, "6f1c1c44-6f5e-4b1a-9a57-0b7d2f4c9e10")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_PutReplacesByTenderID(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	first, err := st.PutTender(ctx, sampleTender("T-1"))
	require.NoError(t, err)

	updated := sampleTender("T-1")
	updated.Title = "Renamed"
	updated.PerDocumentExtractions = nil
	second, err := st.PutTender(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, first, second, "native id is stable across updates")

	got, err := st.GetTender(ctx, "T-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Empty(t, got.PerDocumentExtractions)

	list, err := st.ListTenders(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSQLite_PutKeepsSuppliedNativeID(t *testing.T) {
	st := newTestSQLiteStore(t)
	tender := sampleTender("T-2")
	tender.NativeID = "6F1C1C44-6F5E-4B1A-9A57-0B7D2F4C9E10"

	id, err := st.PutTender(context.Background(), tender)
	require.NoError(t, err)
	assert.Equal(t, "6f1c1c44-6f5e-4b1a-9a57-0b7d2f4c9e10", id)
}

func TestSQLite_PutValidation(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.PutTender(ctx, &model.StoredTender{Title: "no id"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tender_id is required")

	_, err = st.PutTender(ctx, &model.StoredTender{TenderID: "x", NativeID: "not-a-uuid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid native id")
}

func TestSQLite_ListTendersOrderAndLimit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, id := range []string{"A", "B", "C"} {
		_, err := st.PutTender(ctx, sampleTender(id))
		require.NoError(t, err)
	}

	list, err := st.ListTenders(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].TenderID)
	assert.Equal(t, "B", list[1].TenderID)
	assert.Equal(t, "Tender A", list[0].Title)
	assert.True(t, IsNativeID(list[0].NativeID))
}

func TestSQLite_ListEmpty(t *testing.T) {
	st := newTestSQLiteStore(t)

	list, err := st.ListTenders(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestImport(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	n, err := Import(ctx, st, []model.StoredTender{*sampleTender("A"), *sampleTender("B")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Import(ctx, st, []model.StoredTender{*sampleTender("C"), {Title: "bad"}})
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "import tender 1")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "open.db")})
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, config.StoreConfig{Driver: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestIsNativeID(t *testing.T) {
	assert.True(t, IsNativeID("6f1c1c44-6f5e-4b1a-9a57-0b7d2f4c9e10"))
	assert.True(t, IsNativeID(" 6f1c1c44-6f5e-4b1a-9a57-0b7d2f4c9e10 "))
	assert.False(t, IsNativeID("2025_PWD_1"))
	assert.False(t, IsNativeID(""))
}
