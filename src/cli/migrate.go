package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tlou-esports/te-suggestions/src/data"
	"github.com/tlou-esports/te-suggestions/src/reminders"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the settings and reminders tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			if err := data.Migrate(db, &reminders.Reminder{}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated settings and reminders")
			return nil
		},
	}
}
