package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runway/tender-boq/internal/boq"
	"github.com/runway/tender-boq/internal/browse"
	"github.com/runway/tender-boq/internal/render"
	"github.com/runway/tender-boq/pkg/runway"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Page through active tenders interactively",
	Long:  "Commands: n (next page), p (previous page), r (reload), o <id> (open a tender's BOQ), q (quit).",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("api"); err != nil {
			return err
		}
		client := newRunwayClient(cfg.Runway, nil)
		return browseLoop(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), client, cfg.Browse.PageSize)
	},
}

// browseLoop reads one command per line until q or end of input.
func browseLoop(ctx context.Context, in io.Reader, out io.Writer, api runway.Client, pageSize int) error {
	m := browse.NewListModel(api, pageSize)
	show := func(ch <-chan bool) error {
		if !<-ch {
			fmt.Fprintln(out, "(no more pages)")
			return nil
		}
		return render.WriteList(out, m.Snapshot())
	}

	if err := show(m.Refresh(ctx)); err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")

		var err error
		switch cmd {
		case "n":
			err = show(m.Next(ctx))
		case "p":
			err = show(m.Prev(ctx))
		case "r":
			err = show(m.Refresh(ctx))
		case "o":
			err = printBOQ(ctx, out, api, arg, boq.DefaultFilter())
		case "q":
			return nil
		case "":
		default:
			fmt.Fprintf(out, "unknown command %q\n", cmd)
		}
		if err != nil {
			return err
		}
	}
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
