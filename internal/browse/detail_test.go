package browse

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/runway/tender-boq/internal/boq"
	"github.com/runway/tender-boq/internal/model"
)

// MockSource is a testify mock of Source.
type MockSource struct {
	mock.Mock
}

func (m *MockSource) GetTender(ctx context.Context, id string) (*model.TenderDetails, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.TenderDetails), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSource) GetBOQ(ctx context.Context, id string) ([]model.BOQItem, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.([]model.BOQItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func str(s string) *string { return &s }
func qty(f float64) *float64 { return &f }

func sampleBOQ() []model.BOQItem {
	return []model.BOQItem{
		{FileName: str("a.pdf"), Name: str("Cement"), Category: str("Civil"), Type: str("OPC"), Unit: str("bag"), Quantity: qty(0)},
		{FileName: str("b.pdf"), Name: str("Steel")},
	}
}

func TestLoadDetail_BothSucceed(t *testing.T) {
	src := new(MockSource)
	tender := &model.TenderDetails{TenderSummary: model.TenderSummary{ID: "T1", Title: "Road"}}
	src.On("GetTender", mock.Anything, "T1").Return(tender, nil)
	src.On("GetBOQ", mock.Anything, "T1").Return(sampleBOQ(), nil)

	d, err := LoadDetail(context.Background(), src, " T1 ")
	require.NoError(t, err)

	assert.Equal(t, "T1", d.ID)
	assert.Equal(t, DetailsLoaded, d.State)
	assert.Same(t, tender, d.Tender)
	assert.False(t, d.BOQFailed)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, d.BOQ.Files())
	assert.Len(t, d.Rows(boq.DefaultFilter()), 2)
	assert.Len(t, d.Rows(boq.FilterState{SelectedFile: boq.AllFiles, OnlyComplete: true}), 1)
	src.AssertExpectations(t)
}

func TestLoadDetail_NotFound(t *testing.T) {
	src := new(MockSource)
	src.On("GetTender", mock.Anything, "X123").Return(nil, nil)
	src.On("GetBOQ", mock.Anything, "X123").Return([]model.BOQItem{}, nil)

	d, err := LoadDetail(context.Background(), src, "X123")
	require.NoError(t, err)

	assert.True(t, d.NotFound())
	assert.False(t, d.ShowBOQ())
	assert.Equal(t, "X123", d.ID)
	assert.Nil(t, d.Tender)
}

func TestLoadDetail_DetailsFailureStillShowsBOQ(t *testing.T) {
	src := new(MockSource)
	src.On("GetTender", mock.Anything, "T1").Return(nil, errors.New("timeout"))
	src.On("GetBOQ", mock.Anything, "T1").Return(sampleBOQ(), nil)

	d, err := LoadDetail(context.Background(), src, "T1")
	require.NoError(t, err)

	assert.Equal(t, DetailsFailed, d.State)
	assert.True(t, d.ShowBOQ())
	assert.Equal(t, 2, d.BOQ.Len())
}

func TestLoadDetail_BOQFailureStillShowsDetails(t *testing.T) {
	src := new(MockSource)
	tender := &model.TenderDetails{TenderSummary: model.TenderSummary{ID: "T1"}}
	src.On("GetTender", mock.Anything, "T1").Return(tender, nil)
	src.On("GetBOQ", mock.Anything, "T1").Return(nil, errors.New("401"))

	d, err := LoadDetail(context.Background(), src, "T1")
	require.NoError(t, err)

	assert.Equal(t, DetailsLoaded, d.State)
	assert.True(t, d.BOQFailed)
	assert.Equal(t, 0, d.BOQ.Len())
	assert.Empty(t, d.Rows(boq.DefaultFilter()))
}

func TestLoadDetail_InvalidIDMakesNoFetch(t *testing.T) {
	src := new(MockSource)

	for _, id := range []string{"", "   ", "a\nb", "\x00"} {
		_, err := LoadDetail(context.Background(), src, id)
		assert.ErrorIs(t, err, ErrInvalidID, "%q", id)
	}
	src.AssertNotCalled(t, "GetTender", mock.Anything, mock.Anything)
	src.AssertNotCalled(t, "GetBOQ", mock.Anything, mock.Anything)
}

// barrierSource fails any fetch that is not running alongside the other.
type barrierSource struct {
	wg sync.WaitGroup
}

func newBarrierSource() *barrierSource {
	s := &barrierSource{}
	s.wg.Add(2)
	return s
}

func (s *barrierSource) await() error {
	s.wg.Done()
	both := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(both)
	}()
	select {
	case <-both:
		return nil
	case <-time.After(time.Second):
		return errors.New("fetches ran sequentially")
	}
}

func (s *barrierSource) GetTender(_ context.Context, id string) (*model.TenderDetails, error) {
	if err := s.await(); err != nil {
		return nil, err
	}
	return &model.TenderDetails{TenderSummary: model.TenderSummary{ID: id}}, nil
}

func (s *barrierSource) GetBOQ(context.Context, string) ([]model.BOQItem, error) {
	if err := s.await(); err != nil {
		return nil, err
	}
	return []model.BOQItem{}, nil
}

func TestLoadDetail_FetchesConcurrently(t *testing.T) {
	d, err := LoadDetail(context.Background(), newBarrierSource(), "T1")
	require.NoError(t, err)
	assert.Equal(t, DetailsLoaded, d.State)
	assert.False(t, d.BOQFailed)
}

func TestValidateID(t *testing.T) {
	id, err := ValidateID("  2025_PWD_1 ")
	require.NoError(t, err)
	assert.Equal(t, "2025_PWD_1", id)

	id, err = ValidateID("2025%2FPWD")
	require.NoError(t, err)
	assert.Equal(t, "2025%2FPWD", id)
}
