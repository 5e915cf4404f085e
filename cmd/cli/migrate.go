package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gospc/adapters/postgres"
	"gospc/adapters/postgres/migrations"
	"gospc/internal/config"
)

func newMigrateCmd() *cobra.Command {
	var databaseURL string
	cmd := &cobra.Command{
		Use:   "migrate [up|status]",
		Short: "Apply or inspect run store migrations",
		Long: `Apply pending run store migrations (up, the default) or list them with
their state (status). The database comes from --database or DATABASE_URL;
postgres:// URLs use lib/pq, anything else is opened as a SQLite file.

Example: gospc migrate status --database runs.db`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			url, driver := cfg.Database.URL, cfg.Database.Driver
			if databaseURL != "" {
				url, driver = databaseURL, config.DriverFor(databaseURL)
			}
			if url == "" {
				return fmt.Errorf("no database configured: set DATABASE_URL or --database")
			}

			db, err := postgres.Connect(cmd.Context(), driver, url)
			if err != nil {
				return err
			}
			defer db.Close()
			migrator := migrations.NewMigrator(db)

			switch action {
			case "up":
				applied, err := migrator.Up(cmd.Context())
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Println("database is up to date")
				}
				for _, v := range applied {
					fmt.Printf("applied %s\n", v)
				}
			case "status":
				statuses, err := migrator.Status(cmd.Context())
				if err != nil {
					return err
				}
				for _, s := range statuses {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Printf("%s  %-30s %s\n", s.Version, s.Name, state)
				}
			default:
				return fmt.Errorf("unknown migrate action %q: use up or status", action)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database", "", "Database URL (default: DATABASE_URL)")
	return cmd
}
