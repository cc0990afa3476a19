package main

import (
	"fmt"

	"bank-offers/internal/database"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Apply, roll back or list offer store migrations",
		Long: `Run the embedded schema migrations against the configured database.

  up      apply every pending migration
  down    roll back the most recent migration
  status  list migrations and whether they are applied

Examples:
  offerctl migrate up
  DB_HOST=db.internal offerctl migrate status`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(database.Up), string(database.Down), string(database.Status)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := database.Direction(args[0])
			switch direction {
			case database.Up, database.Down, database.Status:
			default:
				return fmt.Errorf("unknown migration direction %q", args[0])
			}

			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := database.Migrate(ctx, e.pool, direction, e.logger); err != nil {
				return fmt.Errorf("migrate %s: %w", direction, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s completed\n", direction)
			return nil
		},
	}
}
