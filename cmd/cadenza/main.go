package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cadenza/internal/config"
	"cadenza/internal/log"
	"cadenza/internal/notify"
	"cadenza/internal/scheduler"
	"cadenza/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:          "cadenza",
	Short:        "Recurring-transaction materializer and due-date reminder scheduler",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, materializeCmd, remindCmd, addCmd)
}

func main() {
	// Load .env for local development; ignore errors in production.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		logger.ErrorContext(context.Background(), "Command failed", log.FieldError, err)
		os.Exit(1)
	}
}

// loadConfig loads and validates configuration for all commands.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openRepository(cfg *config.Config) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize repository at %s: %w", cfg.SQLiteDBPath, err)
	}
	return repo, nil
}

// buildSender constructs the configured notification transport. The second
// return value closes the transport; it is never nil.
func buildSender(ctx context.Context, cfg *config.Config) (scheduler.NotificationSender, func() error, error) {
	noop := func() error { return nil }

	switch cfg.NotifyBackend {
	case "amqp":
		sender, err := notify.NewAMQPSender(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, noop, fmt.Errorf("initialize AMQP sender: %w", err)
		}
		return sender, sender.Close, nil
	case "gmail":
		creds, err := cfg.CredentialsJSON()
		if err != nil {
			return nil, noop, err
		}
		sender, err := notify.NewGmailSender(ctx, cfg.GmailFrom, creds)
		if err != nil {
			return nil, noop, fmt.Errorf("initialize Gmail sender: %w", err)
		}
		return sender, noop, nil
	default:
		return notify.LogSender{}, noop, nil
	}
}
