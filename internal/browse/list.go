// Package browse holds the view-models behind the tender list and tender
// detail pages. Models own their state; fetches run in goroutines and results
// are committed under the model's lock.
package browse

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/runway/tender-boq/internal/model"
	"github.com/runway/tender-boq/internal/pager"
)

// Lister fetches one window of the active tender listing.
type Lister interface {
	ListActive(ctx context.Context, limit, offset int) (*model.TenderPage, error)
}

// ListOption configures a ListModel.
type ListOption func(*ListModel)

// OnStale registers a callback run whenever an out-of-date response is dropped.
func OnStale(fn func()) ListOption {
	return func(m *ListModel) {
		m.onStale = fn
	}
}

// ListModel is the state of the paginated tender list. Every offset change
// starts a fetch tagged with a new generation; a result is applied only if
// its generation is still the latest when it arrives.
type ListModel struct {
	src     Lister
	onStale func()

	mu      sync.Mutex
	pager   *pager.Pager
	tenders []model.TenderSummary
	loading bool
	failed  bool
	gen     uint64
}

// NewListModel returns a model at offset 0 with no data loaded.
func NewListModel(src Lister, pageSize int, opts ...ListOption) *ListModel {
	m := &ListModel{
		src:     src,
		pager:   pager.New(pageSize),
		tenders: []model.TenderSummary{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ListSnapshot is an immutable copy of the list state.
type ListSnapshot struct {
	Tenders []model.TenderSummary `json:"results"`
	Pager   pager.State           `json:"pager"`
	Loading bool                  `json:"loading"`
	Failed  bool                  `json:"failed"`
}

// Snapshot copies the current state.
func (m *ListModel) Snapshot() ListSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ListSnapshot{
		Tenders: slices.Clone(m.tenders),
		Pager:   m.pager.State(),
		Loading: m.loading,
		Failed:  m.failed,
	}
}

// Refresh re-fetches the current page. The returned channel yields whether
// the response was applied, then closes.
func (m *ListModel) Refresh(ctx context.Context) <-chan bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked(ctx)
}

// Next moves to the following page. Without a next page nothing is fetched
// and the channel yields false.
func (m *ListModel) Next(ctx context.Context) <-chan bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.pager.Advance() {
		return resolved(false)
	}
	return m.startLocked(ctx)
}

// Prev moves to the preceding page. Without a previous page nothing is
// fetched and the channel yields false.
func (m *ListModel) Prev(ctx context.Context) <-chan bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.pager.Retreat() {
		return resolved(false)
	}
	return m.startLocked(ctx)
}

// Seek moves to the page containing offset and fetches it.
func (m *ListModel) Seek(ctx context.Context, offset int) <-chan bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pager.Seek(offset)
	return m.startLocked(ctx)
}

// startLocked bumps the generation and fetches the current page. Caller holds mu.
func (m *ListModel) startLocked(ctx context.Context) <-chan bool {
	m.gen++
	m.loading = true
	gen, offset, limit := m.gen, m.pager.Offset(), m.pager.Limit()

	done := make(chan bool, 1)
	go func() {
		defer close(done)
		for {
			page, err := m.src.ListActive(ctx, limit, offset)
			applied, refetch := m.commit(gen, offset, page, err)
			if !refetch {
				done <- applied
				return
			}
			offset = m.currentOffset()
		}
	}()
	return done
}

func (m *ListModel) currentOffset() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pager.Offset()
}

// commit applies a fetch result if gen is current. refetch is set when the
// reported count moved the offset onto a page that was not fetched.
func (m *ListModel) commit(gen uint64, offset int, page *model.TenderPage, err error) (applied, refetch bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		zap.L().Warn("browse: dropping stale tender page",
			zap.Int("offset", offset),
			zap.Uint64("generation", gen),
			zap.Uint64("current", m.gen),
		)
		if m.onStale != nil {
			m.onStale()
		}
		return false, false
	}

	if err != nil {
		zap.L().Warn("browse: fetch tender page failed", zap.Int("offset", offset), zap.Error(err))
		m.tenders = []model.TenderSummary{}
		m.failed = true
		m.loading = false
		return true, false
	}

	if page == nil {
		page = &model.TenderPage{}
	}
	if m.pager.SetTotal(page.Count) && len(page.Results) == 0 {
		return false, true
	}
	m.tenders = page.Results
	if m.tenders == nil {
		m.tenders = []model.TenderSummary{}
	}
	m.failed = false
	m.loading = false
	return true, false
}

func resolved(v bool) <-chan bool {
	ch := make(chan bool, 1)
	ch <- v
	close(ch)
	return ch
}
