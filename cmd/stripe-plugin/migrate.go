package main

import (
	"fmt"

	"github.com/spf13/cobra"

	config "github.com/tbeaudouin05/stripe-plugin/api/config"
	database "github.com/tbeaudouin05/stripe-plugin/api/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			conn, err := database.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer func() {
				_ = conn.Close()
			}()

			applied, err := database.Migrate(cmd.Context(), conn)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", v)
			}
			return nil
		},
	}
}
