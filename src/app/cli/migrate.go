package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"fastai/src/infra/config"
	"fastai/src/infra/db"
	"fastai/src/infra/logger"
)

func newMigrateCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output (overrides LOG_VERBOSE)")

	run := func(fn func(cmd *cobra.Command, m *db.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if verbose {
				cfg.Log.Verbose = true
			}
			return withMigrator(cmd, cfg, fn)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, m *db.Migrator) error {
				return m.Up(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, m *db.Migrator) error {
				return m.Down(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, m *db.Migrator) error {
				statuses, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				return printStatus(cmd, statuses)
			}),
		},
	)
	return cmd
}

func withMigrator(cmd *cobra.Command, cfg *config.Config, fn func(*cobra.Command, *db.Migrator) error) error {
	log := logger.SetupCLI(cfg.Log, os.Stderr)

	engine, err := db.New(cmd.Context(), cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to create database engine: %w", err)
	}
	defer engine.Close()

	m, err := db.NewMigrator(engine, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(cmd, m)
}

func printStatus(cmd *cobra.Command, statuses []db.MigrationStatus) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tSOURCE\tAPPLIED AT")
	for _, s := range statuses {
		applied := "pending"
		if s.Applied {
			applied = s.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, s.Source, applied)
	}
	return w.Flush()
}
