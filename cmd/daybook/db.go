package main

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"

	daybook "github.com/unowned-ai/daybook/pkg"
	pkgdb "github.com/unowned-ai/daybook/pkg/db"
)

// Set by the release build.
var (
	commit = "none"
	date   = "unknown"
)

func addVersion(rootCmd *cobra.Command) {
	shortened := false
	output := "json"
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of daybook",
		Example: `
daybook version
daybook version --short`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			resp := goversion.FuncWithOutput(shortened, daybook.Version, commit, date, output)
			fmt.Fprint(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")

	rootCmd.AddCommand(cmd)
}

func addDB(rootCmd *cobra.Command, opts *rootOptions) {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the daybook database",
		Long:  `Provides commands for inspecting and upgrading the daybook SQLite database.`,
	}

	upgradeCmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade the database schema to the latest version",
		Long: `Opens the database and applies any pending schema migrations, including the
move from the single timestamp column to separate added and modified dates.
A missing or empty database is created with the latest schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbConn, dbPath, err := opts.openRaw()
			if err != nil {
				return err
			}
			defer dbConn.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Upgrading %s (WAL: %t, Sync: %s)\n", dbPath, opts.cfg.WAL, opts.cfg.SyncMode)
			if err := pkgdb.UpgradeDB(cmd.Context(), dbConn, dbPath, pkgdb.TargetSchemaVersion); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is at version %d.\n", pkgdb.TargetSchemaVersion)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the database location and schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbConn, dbPath, err := opts.openRaw()
			if err != nil {
				return err
			}
			defer dbConn.Close()

			version, err := pkgdb.GetComponentSchemaVersion(cmd.Context(), dbConn, pkgdb.JournalDBComponent)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Database:       %s\n", dbPath)
			fmt.Fprintf(w, "Schema version: %d (application: %d)\n", version, pkgdb.TargetSchemaVersion)
			if version == 0 {
				return nil
			}
			mood, err := pkgdb.HasMoodColumn(cmd.Context(), dbConn)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Mood column:    %t\n", mood)
			return nil
		},
	}

	patchMoodCmd := &cobra.Command{
		Use:   "patch-mood",
		Short: "Add the mood column to journals if it is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbConn, dbPath, err := opts.openRaw()
			if err != nil {
				return err
			}
			defer dbConn.Close()

			if err := pkgdb.UpgradeDB(cmd.Context(), dbConn, dbPath, pkgdb.TargetSchemaVersion); err != nil {
				return err
			}
			added, err := pkgdb.EnsureMoodColumn(cmd.Context(), dbConn)
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintln(cmd.OutOrStdout(), "Mood column added.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Mood column already present.")
			}
			return nil
		},
	}

	dbCmd.AddCommand(upgradeCmd, statusCmd, patchMoodCmd)
	rootCmd.AddCommand(dbCmd)
}
