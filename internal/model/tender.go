package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// TenderSummary is one row of the active tender listing.
type TenderSummary struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	Organisation         string `json:"organisation"`
	Description          string `json:"description"`
	ValueInRs            string `json:"value_in_rs"` // decimal string, e.g. "1250000.00"
	State                string `json:"state"`
	Location             string `json:"location"`
	BidSubmissionEndDate string `json:"bid_submission_end_date"` // ISO 8601
}

// TenderDetails is the full tender record returned by the detail endpoint.
type TenderDetails struct {
	TenderSummary
	PeriodOfWorkInDays          int    `json:"period_of_work_in_days"`
	TenderInvitingAuthorityName string `json:"tender_inviting_authority_name"`
}

// TenderPage is one offset/limit window of the active tender listing.
type TenderPage struct {
	Count   int             `json:"count"`
	Results []TenderSummary `json:"results"`
}

// ValueINR parses ValueInRs. Returns false when the value is blank or not a number.
func (t TenderSummary) ValueINR() (float64, bool) {
	s := strings.TrimSpace(t.ValueInRs)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// bidEndLayouts are the date shapes seen from the tender API, most specific first.
var bidEndLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// BidEndTime parses BidSubmissionEndDate.
func (t TenderSummary) BidEndTime() (time.Time, error) {
	s := strings.TrimSpace(t.BidSubmissionEndDate)
	if s == "" {
		return time.Time{}, eris.New("model: empty bid submission end date")
	}
	for _, layout := range bidEndLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, eris.Errorf("model: unrecognised bid submission end date %q", s)
}

// BiddingClosed reports whether bid submission ended before now. An
// unparseable end date is treated as still open.
func (t TenderSummary) BiddingClosed(now time.Time) bool {
	end, err := t.BidEndTime()
	if err != nil {
		return false
	}
	return end.Before(now)
}

// RunwayURL returns the public Runway page for the tender. Closed tenders
// live under the "all" listing, open ones under "active".
func (t TenderDetails) RunwayURL(siteURL string, now time.Time) string {
	listing := "active"
	if t.BiddingClosed(now) {
		listing = "all"
	}
	return strings.TrimRight(siteURL, "/") + "/tenders/view/" + listing + "/" + t.ID
}
