package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/runway/tender-boq/internal/boq"
	"github.com/runway/tender-boq/internal/browse"
	"github.com/runway/tender-boq/internal/export"
	"github.com/runway/tender-boq/internal/render"
)

var (
	boqFile     string
	boqItem     string
	boqType     string
	boqComplete bool
	boqXLSX     string
)

var boqCmd = &cobra.Command{
	Use:   "boq <tender-id>",
	Short: "Show a tender and its filtered BOQ items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("api"); err != nil {
			return err
		}

		f := boq.DefaultFilter()
		if cmd.Flags().Changed("file") {
			f.SelectedFile = boqFile
		}
		f.ItemSearch = boqItem
		f.TypeSearch = boqType
		f.OnlyComplete = boqComplete

		client := newRunwayClient(cfg.Runway, nil)
		if boqXLSX != "" {
			return exportBOQ(cmd.Context(), cmd.OutOrStdout(), client, args[0], f, boqXLSX)
		}
		return printBOQ(cmd.Context(), cmd.OutOrStdout(), client, args[0], f)
	},
}

func printBOQ(ctx context.Context, w io.Writer, src browse.Source, id string, f boq.FilterState) error {
	d, err := browse.LoadDetail(ctx, src, id)
	if err != nil {
		return err
	}
	if d.NotFound() {
		_, err := fmt.Fprintf(w, "Tender not found: %s\n", d.ID)
		return err
	}

	if t := d.Tender; t != nil {
		fmt.Fprintf(w, "%s\n%s\n%s | %s | bids close %s\n\n",
			t.Title, render.OrDash(t.Organisation), render.OrDash(t.Location), render.TenderValue(t.TenderSummary), render.BidEndDate(t.TenderSummary))
	} else {
		fmt.Fprintln(w, "Could not load tender details.")
	}

	if d.BOQFailed {
		_, err := fmt.Fprintln(w, "Could not load BOQ.")
		return err
	}
	rows := d.Rows(f)
	fmt.Fprintf(w, "BOQ Extracted Items (%d)\n", len(rows))
	return render.WriteBOQ(w, rows)
}

func exportBOQ(ctx context.Context, w io.Writer, src browse.Source, id string, f boq.FilterState, path string) error {
	d, err := browse.LoadDetail(ctx, src, id)
	if err != nil {
		return err
	}
	if d.BOQFailed {
		return eris.Errorf("boq: could not load items for %s", d.ID)
	}
	rows := d.Rows(f)
	if err := export.WriteFile(path, rows); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "wrote %d items to %s\n", len(rows), path)
	return err
}

func init() {
	boqCmd.Flags().StringVar(&boqFile, "file", "", "only items from this file (empty selects items without a file)")
	boqCmd.Flags().StringVar(&boqItem, "item", "", "item name search")
	boqCmd.Flags().StringVar(&boqType, "type", "", "item type search")
	boqCmd.Flags().BoolVar(&boqComplete, "complete", false, "only items with every field extracted")
	boqCmd.Flags().StringVar(&boqXLSX, "xlsx", "", "write the filtered items to this workbook instead of printing")
	rootCmd.AddCommand(boqCmd)
}
