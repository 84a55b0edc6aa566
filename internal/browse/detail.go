package browse

import (
	"context"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/runway/tender-boq/internal/boq"
	"github.com/runway/tender-boq/internal/model"
)

// ErrInvalidID is returned for a blank or malformed tender id. No fetch is
// made for such ids.
var ErrInvalidID = eris.New("browse: invalid tender id")

// Source fetches the two halves of a tender detail page.
type Source interface {
	GetTender(ctx context.Context, id string) (*model.TenderDetails, error)
	GetBOQ(ctx context.Context, id string) ([]model.BOQItem, error)
}

// DetailsState is the outcome of the details fetch.
type DetailsState string

const (
	DetailsLoaded   DetailsState = "loaded"
	DetailsNotFound DetailsState = "not_found"
	DetailsFailed   DetailsState = "failed"
)

// DetailModel is a loaded tender detail page. The details and BOQ outcomes
// are independent: either may fail while the other renders.
type DetailModel struct {
	ID        string
	State     DetailsState
	Tender    *model.TenderDetails
	BOQ       *boq.View
	BOQFailed bool
}

// ValidateID trims id and rejects blank ids and ids with control characters.
func ValidateID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.IndexFunc(id, unicode.IsControl) >= 0 {
		return "", ErrInvalidID
	}
	return id, nil
}

// LoadDetail fetches the tender details and BOQ concurrently.
func LoadDetail(ctx context.Context, src Source, id string) (*DetailModel, error) {
	id, err := ValidateID(id)
	if err != nil {
		return nil, err
	}

	var (
		tender    *model.TenderDetails
		items     []model.BOQItem
		tenderErr error
		boqErr    error
	)

	// Neither goroutine returns an error so one failure never cancels the other.
	var g errgroup.Group
	g.Go(func() error {
		tender, tenderErr = src.GetTender(ctx, id)
		return nil
	})
	g.Go(func() error {
		items, boqErr = src.GetBOQ(ctx, id)
		return nil
	})
	_ = g.Wait()

	d := &DetailModel{ID: id}
	switch {
	case tenderErr != nil:
		zap.L().Warn("browse: fetch tender details failed", zap.String("tender_id", id), zap.Error(tenderErr))
		d.State = DetailsFailed
	case tender == nil:
		d.State = DetailsNotFound
	default:
		d.State = DetailsLoaded
		d.Tender = tender
	}

	if boqErr != nil {
		zap.L().Warn("browse: fetch boq failed", zap.String("tender_id", id), zap.Error(boqErr))
		d.BOQFailed = true
		items = nil
	}
	d.BOQ = boq.NewView(items)

	return d, nil
}

// NotFound reports whether the tender does not exist.
func (d *DetailModel) NotFound() bool { return d.State == DetailsNotFound }

// ShowBOQ reports whether the BOQ section belongs on the page. A missing
// tender has no BOQ table.
func (d *DetailModel) ShowBOQ() bool { return d.State != DetailsNotFound }

// Rows returns the BOQ items passing f.
func (d *DetailModel) Rows(f boq.FilterState) []model.NormalizedBOQItem {
	return d.BOQ.Rows(f)
}
