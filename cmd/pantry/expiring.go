// Expiring command lists entities inside the expiry window and syncs
// reminders.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantry-app/pantry/internal/notify"
)

var expiringRemind bool

var expiringCmd = &cobra.Command{
	Use:   "expiring",
	Short: "List entities expiring within three days",
	Long: `Expiring lists live entities with an expiry-date field value between
today and three days from now. With --remind a reminder is scheduled for each
one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		expiring, err := store.Entities().FindExpiringIn3Days()
		if err != nil {
			return fmt.Errorf("list expiring: %w", err)
		}

		if flagJSON {
			if err := printJSON(expiring); err != nil {
				return err
			}
		} else {
			for _, ex := range expiring {
				fmt.Printf("%-6d %-30s expires %s (%s)\n",
					ex.Entity.ID, ex.Entity.Name, ex.ExpiresOn, ex.FieldName)
			}
		}

		if expiringRemind {
			reminders := notify.NewReminders(store.Entities(), notify.NewLogScheduler(logger), logger)
			n, err := reminders.Sync()
			if err != nil {
				return fmt.Errorf("sync reminders: %w", err)
			}
			if !flagJSON {
				fmt.Printf("Scheduled %d reminders\n", n)
			}
		}
		return nil
	},
}

func init() {
	expiringCmd.Flags().BoolVar(&expiringRemind, "remind", false, "schedule a reminder per expiring entity")
}
