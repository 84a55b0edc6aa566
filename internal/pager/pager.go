// Package pager tracks offset/limit pagination over a listing of known size.
package pager

import "fmt"

// Pager is the offset/limit state of one listing. Offset is always a
// multiple of limit and never past the start of the last page.
type Pager struct {
	offset int
	limit  int
	total  int
}

// New returns a pager at offset 0 with an unknown (zero) total. A
// non-positive limit is treated as 1.
func New(limit int) *Pager {
	if limit < 1 {
		limit = 1
	}
	return &Pager{limit: limit}
}

// Offset returns the start of the current page.
func (p *Pager) Offset() int { return p.offset }

// Limit returns the page size.
func (p *Pager) Limit() int { return p.limit }

// Total returns the listing size last reported upstream.
func (p *Pager) Total() int { return p.total }

// HasNext reports whether a page follows the current one.
func (p *Pager) HasNext() bool { return p.offset+p.limit < p.total }

// HasPrev reports whether a page precedes the current one.
func (p *Pager) HasPrev() bool { return p.offset > 0 }

// lastStart is the largest multiple of limit strictly below total.
func (p *Pager) lastStart() int {
	if p.total <= 0 {
		return 0
	}
	return ((p.total - 1) / p.limit) * p.limit
}

// Advance moves to the next page. It returns false and leaves the offset
// unchanged when there is no next page.
func (p *Pager) Advance() bool {
	if !p.HasNext() {
		return false
	}
	p.offset = min(p.offset+p.limit, p.lastStart())
	return true
}

// Retreat moves to the previous page. It returns false and leaves the
// offset unchanged when there is no previous page.
func (p *Pager) Retreat() bool {
	if !p.HasPrev() {
		return false
	}
	p.offset = max(p.offset-p.limit, 0)
	return true
}

// SetTotal records the listing size and clamps the offset into range. An
// empty listing moves the offset back to 0. It reports whether the offset
// moved.
func (p *Pager) SetTotal(total int) bool {
	p.total = max(total, 0)
	if last := p.lastStart(); p.offset > last {
		p.offset = last
		return true
	}
	return false
}

// Seek moves to the page containing offset. Offsets are rounded down to a
// page boundary; when the total is known they are clamped to the last page.
// It reports whether the offset changed.
func (p *Pager) Seek(offset int) bool {
	offset = max(offset, 0)
	offset -= offset % p.limit
	if p.total > 0 {
		offset = min(offset, p.lastStart())
	}
	if offset == p.offset {
		return false
	}
	p.offset = offset
	return true
}

// DisplayRange returns the 1-indexed inclusive range of the current page.
// ok is false when the listing is empty.
func (p *Pager) DisplayRange() (first, last int, ok bool) {
	if p.total <= 0 {
		return 0, 0, false
	}
	return p.offset + 1, min(p.offset+p.limit, p.total), true
}

// Label renders the range for display, e.g. "11 – 20 of 25".
func (p *Pager) Label() string {
	first, last, ok := p.DisplayRange()
	if !ok {
		return "0 of 0"
	}
	return fmt.Sprintf("%d – %d of %d", first, last, p.total)
}

// State is a copy of the pager suitable for rendering.
type State struct {
	Offset  int    `json:"offset"`
	Limit   int    `json:"limit"`
	Total   int    `json:"total"`
	HasNext bool   `json:"has_next"`
	HasPrev bool   `json:"has_prev"`
	First   int    `json:"first"`
	Last    int    `json:"last"`
	Label   string `json:"label"`
}

// State snapshots the pager.
func (p *Pager) State() State {
	first, last, _ := p.DisplayRange()
	return State{
		Offset:  p.offset,
		Limit:   p.limit,
		Total:   p.total,
		HasNext: p.HasNext(),
		HasPrev: p.HasPrev(),
		First:   first,
		Last:    last,
		Label:   p.Label(),
	}
}

// NextOffset is the offset a Next link should request.
func (s State) NextOffset() int { return s.Offset + s.Limit }

// PrevOffset is the offset a Previous link should request.
func (s State) PrevOffset() int { return max(s.Offset-s.Limit, 0) }
