package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"blog-backend/internal/config"
	"blog-backend/internal/infrastructure/database"
)

func newMigrateCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if list {
				migrations, err := database.Migrations()
				if err != nil {
					return err
				}
				for _, m := range migrations {
					fmt.Fprintln(out, m)
				}
				return nil
			}

			cfg, err := config.LoadDatabaseConfig()
			if err != nil {
				return err
			}
			db, err := database.OpenSQL(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			applied, err := database.RunMigrations(db)
			if err != nil {
				return err
			}
			if applied == 0 {
				fmt.Fprintln(out, "No migrations to apply.")
				return nil
			}
			fmt.Fprintf(out, "Applied %d migration(s).\n", applied)
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list embedded migrations without applying them")
	return cmd
}
