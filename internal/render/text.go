package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/runway/tender-boq/internal/browse"
	"github.com/runway/tender-boq/internal/detail"
	"github.com/runway/tender-boq/internal/model"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// WriteList prints one page of tenders and the range label.
func WriteList(w io.Writer, snap browse.ListSnapshot) error {
	if snap.Failed {
		fmt.Fprintln(w, "Could not load tenders.")
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tORGANISATION\tVALUE\tBIDS CLOSE")
	for _, t := range snap.Tenders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, truncate(t.Title, 60), truncate(t.Organisation, 40), TenderValue(t), BidEndDate(t))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, snap.Pager.Label)
	return err
}

// WriteBOQ prints numbered BOQ rows.
func WriteBOQ(w io.Writer, rows []model.NormalizedBOQItem) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tITEM\tFILE\tTYPE\tQTY\tUNIT")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, truncate(r.Name, 60), FileLabel(r.FileName), OrDash(r.Type), Quantity(r.Quantity), OrDash(r.Unit))
	}
	return tw.Flush()
}

// WriteStoredList prints stored tender summaries.
func WriteStoredList(w io.Writer, ts []model.StoredTenderSummary) error {
	if len(ts) == 0 {
		_, err := fmt.Fprintln(w, "No tenders found.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "TENDER ID\tNATIVE ID\tTITLE")
	for _, t := range ts {
		title := t.Title
		if title == "" {
			title = "Untitled Tender"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.TenderID, t.NativeID, truncate(title, 60))
	}
	return tw.Flush()
}

// WriteStoredDetail prints a stored tender and each document's extraction table.
func WriteStoredDetail(w io.Writer, v detail.View) error {
	fmt.Fprintf(w, "%s\nTender ID: %s\nOrganisation: %s\n", v.Title, v.TenderID, v.Organisation)
	if v.GeneratedQuery != "" {
		fmt.Fprintf(w, "Generated query: %s\n", v.GeneratedQuery)
	}
	for _, d := range v.Documents {
		fmt.Fprintf(w, "\nDocument: %s (%d items)\n", d.DocumentID, d.ItemCount)
		if len(d.Rows) == 0 {
			fmt.Fprintln(w, "No items extracted.")
			continue
		}
		tw := newTable(w)
		fmt.Fprintln(tw, "ITEM\tCATEGORY\tQUANTITY\tUNIT\tDESCRIPTION")
		for _, r := range d.Rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Item, r.Category, r.Quantity, r.Unit, truncate(r.Desc, 60))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
