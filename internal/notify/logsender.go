package notify

import (
	"context"

	"cadenza/internal/log"
)

// LogSender writes reminders to the log instead of delivering them. Used
// when no transport is configured, typically in local development.
type LogSender struct{}

// Send implements scheduler.NotificationSender and never fails.
func (LogSender) Send(ctx context.Context, address, subject, body string) error {
	log.Default().WithComponent(log.ComponentNotify).InfoContext(ctx,
		"Reminder (log only, no transport configured)",
		"address", address,
		"subject", subject,
		"body", body)
	return nil
}
