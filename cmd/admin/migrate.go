package main

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/process-desk/internal/persistence"
)

func newMigrateCmd(rt *adminEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := persistence.RunMigrations(cmd.Context(), rt.gateway, rt.logger); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return persistence.MigrationStatus(cmd.Context(), rt.gateway, rt.logger)
		},
	})
	return cmd
}
