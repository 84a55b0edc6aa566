package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/runway/tender-boq/internal/browse"
	"github.com/runway/tender-boq/internal/render"
)

var (
	tendersOffset int
	tendersJSON   bool
)

var tendersCmd = &cobra.Command{
	Use:   "tenders",
	Short: "Print one page of active tenders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("api"); err != nil {
			return err
		}
		client := newRunwayClient(cfg.Runway, nil)
		return printTenders(cmd.Context(), cmd.OutOrStdout(), client, cfg.Browse.PageSize, tendersOffset, tendersJSON)
	},
}

func printTenders(ctx context.Context, w io.Writer, src browse.Lister, pageSize, offset int, asJSON bool) error {
	m := browse.NewListModel(src, pageSize)
	<-m.Seek(ctx, offset)
	snap := m.Snapshot()

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return render.WriteList(w, snap)
}

func init() {
	tendersCmd.Flags().IntVar(&tendersOffset, "offset", 0, "listing offset")
	tendersCmd.Flags().BoolVar(&tendersJSON, "json", false, "print the page as JSON")
	rootCmd.AddCommand(tendersCmd)
}
