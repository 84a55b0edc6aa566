package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/runway/tender-boq/internal/model"
)

// Dash stands in for a missing BOQ value.
const Dash = "-"

// UnknownFile labels BOQ items without a file name.
const UnknownFile = "Unknown"

// FormatINR formats an amount in Indian Rupee notation: after the rightmost
// three digits, digits are grouped in pairs (₹1,23,45,678.90). The result
// always has two decimal places.
func FormatINR(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	intPart, decPart, _ := strings.Cut(fmt.Sprintf("%.2f", amount), ".")
	result := "₹" + applyIndianGrouping(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// applyIndianGrouping inserts commas into a digit string using the Indian
// numbering system.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}
	return result
}

// TenderValue renders a tender's value, or Dash when it is not a number.
func TenderValue(t model.TenderSummary) string {
	v, ok := t.ValueINR()
	if !ok {
		return Dash
	}
	return FormatINR(v)
}

// BidEndDate renders the bid submission end date as e.g. "Mon Mar 03 2025".
func BidEndDate(t model.TenderSummary) string {
	ts, err := t.BidEndTime()
	if err != nil {
		return Dash
	}
	return ts.Format("Mon Jan 02 2006")
}

// Quantity renders a BOQ quantity. Zero is a real quantity; only nil is missing.
func Quantity(q *float64) string {
	if q == nil {
		return Dash
	}
	return strconv.FormatFloat(*q, 'f', -1, 64)
}

// OrDash returns s, or Dash when s is empty.
func OrDash(s string) string {
	if s == "" {
		return Dash
	}
	return s
}

// FileLabel is the display name of a BOQ source file.
func FileLabel(name string) string {
	if name == "" {
		return UnknownFile
	}
	return name
}

// Closed reports whether bidding on t has ended.
func Closed(t model.TenderSummary) bool {
	return t.BiddingClosed(time.Now())
}
