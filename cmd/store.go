package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/runway/tender-boq/internal/detail"
	"github.com/runway/tender-boq/internal/render"
	"github.com/runway/tender-boq/internal/store"
)

var storeListLimit int

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the persisted tender store",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return cfg.Validate("store")
	},
}

var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		zap.L().Info("store migrated", zap.String("driver", cfg.Store.Driver))
		return nil
	},
}

var storeImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load tenders from a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := store.LoadFile(args[0])
		if err != nil {
			return err
		}

		st, err := openStore(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		n, err := store.Import(cmd.Context(), st, ts)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d tenders\n", n)
		return err
	},
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored tenders",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		limit := storeListLimit
		if limit <= 0 {
			limit = cfg.Browse.StoredLimit
		}
		ts, err := st.ListTenders(cmd.Context(), limit)
		if err != nil {
			return err
		}
		return render.WriteStoredList(cmd.OutOrStdout(), ts)
	},
}

var storeShowCmd = &cobra.Command{
	Use:   "show <tender-id|native-id>",
	Short: "Show a stored tender and its document extractions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		t, err := st.GetTender(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if t == nil {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Tender not found: %s\n", args[0])
			return err
		}
		return render.WriteStoredDetail(cmd.OutOrStdout(), detail.FromStored(t))
	},
}

func init() {
	storeListCmd.Flags().IntVar(&storeListLimit, "limit", 0, "maximum tenders to list (default from config)")
	storeCmd.AddCommand(storeMigrateCmd, storeImportCmd, storeListCmd, storeShowCmd)
	rootCmd.AddCommand(storeCmd)
}
