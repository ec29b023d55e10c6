// Command admin is the maintenance CLI: seed the first admin and inspect,
// restore or purge recycle bin entries without going through the API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"court-admin/internal/app"
	"court-admin/internal/core/config"
	"court-admin/internal/core/logger"
)

type env struct {
	cfg *config.Config
	log *zap.Logger
	app *app.App
}

func main() {
	_ = godotenv.Load()

	var (
		cfgPath string
		e       = &env{}
		cleanup = func() {}
	)
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Court admin maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			e.cfg = cfg
			// CLI 只输出到终端，不写滚动文件
			lc := logger.FromConfig(cfg.App, cfg.Log)
			lc.Rotate.Enable = false
			e.log, cleanup = logger.New(lc)
			e.app, err = app.Open(cmd.Context(), cfg, e.log)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.app != nil {
				e.app.Close()
			}
			cleanup()
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default $CONFIG_PATH or ./configs/config.local.yaml)")

	root.AddCommand(seedCmd(e), recycleCmd(e))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func seedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the seed admin when no user exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := e.app.Seed(cmd.Context(), e.cfg, e.log)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %q\n", e.cfg.Seed.Username)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "users already present, nothing to do")
			}
			return nil
		},
	}
}

func recycleCmd(e *env) *cobra.Command {
	rc := &cobra.Command{Use: "recycle", Short: "Recycle bin maintenance"}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List recycle bin entries, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := e.app.Services.RecycleBin.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tENTITY\tDELETED AT\tDELETED BY")
			for _, it := range items {
				by := "-"
				if it.DeletedBy != nil {
					by = it.DeletedBy.Username
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.ID, it.EntityType, it.EntityID, it.DeletedAt.Format(time.RFC3339), by)
			}
			return tw.Flush()
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")

	restore := &cobra.Command{
		Use:   "restore ID",
		Short: "Restore an entry to its original collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := e.app.Services.RecycleBin.Restore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %s %s\n", entry.EntityType, entry.EntityID)
			return nil
		},
	}

	purge := &cobra.Command{
		Use:   "purge ID",
		Short: "Permanently delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.app.Services.RecycleBin.Purge(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", args[0])
			return nil
		},
	}

	rc.AddCommand(list, restore, purge)
	return rc
}
