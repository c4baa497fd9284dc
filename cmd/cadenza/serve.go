package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"cadenza/internal/core"
	"cadenza/internal/log"
	"cadenza/internal/scheduler"
)

const (
	jobMaterialize = "materialize"
	jobRemind      = "remind"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run both batch jobs on their cron schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		repo, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer repo.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sender, closeSender, err := buildSender(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeSender()

		materializer := scheduler.NewMaterializer(repo, repo)
		sweep := scheduler.NewReminderSweep(repo, sender)
		locks := scheduler.NewJobLock()
		loc := cfg.Location()
		logger := log.Default()

		c := cron.New(cron.WithLocation(loc))

		_, err = c.AddFunc(cfg.MaterializeCron, func() {
			if !locks.TryAcquire(jobMaterialize) {
				logger.WarnContext(ctx, "Job still running, skipping overlapping trigger",
					log.FieldJob, jobMaterialize)
				return
			}
			defer locks.Release(jobMaterialize)

			asOf := core.DateOf(time.Now().In(loc))
			summary, err := materializer.MaterializeDue(ctx, asOf)
			if err != nil {
				logger.ErrorContext(ctx, "Job run failed",
					log.FieldJob, jobMaterialize,
					"as_of", asOf.String(),
					log.FieldError, err)
				return
			}
			logger.InfoContext(ctx, "Job run finished",
				log.FieldJob, jobMaterialize,
				"as_of", asOf.String(),
				"created", summary.Created,
				"skipped", summary.Skipped,
				"failed", summary.Failed)
		})
		if err != nil {
			return fmt.Errorf("schedule materialization: %w", err)
		}

		_, err = c.AddFunc(cfg.RemindCron, func() {
			if !locks.TryAcquire(jobRemind) {
				logger.WarnContext(ctx, "Job still running, skipping overlapping trigger",
					log.FieldJob, jobRemind)
				return
			}
			defer locks.Release(jobRemind)

			asOf := core.DateOf(time.Now().In(loc))
			summary, err := sweep.SendDueReminders(ctx, asOf, cfg.ReminderLeadDays)
			if err != nil {
				logger.ErrorContext(ctx, "Job run failed",
					log.FieldJob, jobRemind,
					"as_of", asOf.String(),
					log.FieldError, err)
				return
			}
			logger.InfoContext(ctx, "Job run finished",
				log.FieldJob, jobRemind,
				"as_of", asOf.String(),
				"sent", summary.Sent,
				"failed", summary.Failed)
		})
		if err != nil {
			return fmt.Errorf("schedule reminder sweep: %w", err)
		}

		c.Start()
		logger.InfoContext(ctx, "Scheduler started",
			"materialize_cron", cfg.MaterializeCron,
			"remind_cron", cfg.RemindCron,
			log.FieldLeadDays, cfg.ReminderLeadDays,
			"timezone", loc.String(),
			"notify_backend", cfg.NotifyBackend,
			"sqlite_db", cfg.SQLiteDBPath)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.InfoContext(ctx, "Shutdown signal received", "signal", sig.String())

		// Cancelling the context lets an in-flight record finish and stops
		// the batch before the next one; Stop waits for running jobs.
		cancel()
		stopCtx := c.Stop()
		select {
		case <-stopCtx.Done():
			logger.InfoContext(context.Background(), "Scheduler shutdown complete")
		case <-time.After(30 * time.Second):
			logger.WarnContext(context.Background(), "Shutdown timeout reached")
		}

		return nil
	},
}
