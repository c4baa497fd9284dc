package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cadenza/internal/core"
	"cadenza/internal/scheduler"
)

var (
	materializeAsOf string
	remindAsOf      string
	remindLeadDays  int
)

func init() {
	materializeCmd.Flags().StringVar(&materializeAsOf, "as-of", "", "run date as YYYY-MM-DD (default: today)")
	remindCmd.Flags().StringVar(&remindAsOf, "as-of", "", "run date as YYYY-MM-DD (default: today)")
	remindCmd.Flags().IntVar(&remindLeadDays, "lead-days", -1, "days before due date to remind (default: configured value)")
}

// resolveAsOf parses the --as-of flag, defaulting to today in loc. Explicit
// dates make the jobs independently testable and allow backfill runs.
func resolveAsOf(flag string, loc *time.Location) (core.Date, error) {
	if flag == "" {
		return core.DateOf(time.Now().In(loc)), nil
	}
	return core.ParseDate(flag)
}

var materializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "Run one materialization pass for a given date",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		asOf, err := resolveAsOf(materializeAsOf, cfg.Location())
		if err != nil {
			return err
		}

		repo, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer repo.Close()

		materializer := scheduler.NewMaterializer(repo, repo)
		summary, err := materializer.MaterializeDue(context.Background(), asOf)
		if err != nil {
			return err
		}

		fmt.Printf("as_of=%s created=%d skipped=%d failed=%d\n",
			asOf.String(), summary.Created, summary.Skipped, summary.Failed)
		return nil
	},
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run one reminder sweep for a given date",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		asOf, err := resolveAsOf(remindAsOf, cfg.Location())
		if err != nil {
			return err
		}

		leadDays := cfg.ReminderLeadDays
		if remindLeadDays >= 0 {
			leadDays = remindLeadDays
		}

		repo, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer repo.Close()

		ctx := context.Background()
		sender, closeSender, err := buildSender(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeSender()

		sweep := scheduler.NewReminderSweep(repo, sender)
		summary, err := sweep.SendDueReminders(ctx, asOf, leadDays)
		if err != nil {
			return err
		}

		fmt.Printf("as_of=%s lead_days=%d sent=%d failed=%d\n",
			asOf.String(), leadDays, summary.Sent, summary.Failed)
		return nil
	},
}
