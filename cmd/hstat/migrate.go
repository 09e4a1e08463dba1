package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Apply, roll back or list database migrations",
		Long: `Manage the run ledger schema in the database named by DATABASE_URL.

up applies pending migrations (default), down rolls back the latest one and
status lists every migration.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}

			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			migrator, err := c.Migrator()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch action {
			case "up":
				applied, err := migrator.Up(cmd.Context())
				for _, version := range applied {
					fmt.Fprintf(out, "Applied migration: %s\n", version)
				}
				if err != nil {
					return err
				}
				if len(applied) == 0 {
					fmt.Fprintln(out, "No pending migrations")
				}
			case "down":
				version, err := migrator.Down(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Rolled back migration: %s\n", version)
			case "status":
				status, err := migrator.Status(cmd.Context())
				if err != nil {
					return err
				}
				applied := 0
				for _, s := range status {
					state := "pending"
					if s.Applied {
						state = "applied"
						applied++
					}
					fmt.Fprintf(out, "  %s_%s: %s\n", s.Version, s.Name, state)
				}
				fmt.Fprintf(out, "\nSummary: %d/%d migrations applied\n", applied, len(status))
			default:
				return fmt.Errorf("unknown migrate action %q", action)
			}
			return nil
		},
	}
	return cmd
}
