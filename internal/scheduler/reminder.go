package scheduler

import (
	"context"
	"fmt"

	"cadenza/internal/core"
	"cadenza/internal/log"
)

// ReminderSweep sends due-date notifications for credit obligations.
type ReminderSweep struct {
	obligations ObligationStore
	sender      NotificationSender
	logger      *log.Logger
}

// ReminderSummary reports what a single sweep did.
type ReminderSummary struct {
	Sent   int
	Failed int
}

func NewReminderSweep(obligations ObligationStore, sender NotificationSender) *ReminderSweep {
	return &ReminderSweep{
		obligations: obligations,
		sender:      sender,
		logger:      log.Default().WithComponent(log.ComponentScheduler),
	}
}

// SendDueReminders notifies every unnotified obligation due leadDays after
// asOf. The notified flag is persisted per obligation, right after its send
// succeeds, so a crash mid-sweep re-sends only the unmarked remainder:
// at-least-once delivery, never silently dropped.
//
// A send failure leaves the flag false for retry on the next run and does
// not abort the batch. Only a failure to load the obligation list aborts
// the invocation.
func (r *ReminderSweep) SendDueReminders(ctx context.Context, asOf core.Date, leadDays int) (ReminderSummary, error) {
	var summary ReminderSummary

	target := asOf.AddDays(leadDays)
	obligations, err := r.obligations.ListUnnotifiedDueOn(ctx, target)
	if err != nil {
		return summary, fmt.Errorf("list unnotified obligations: %w", err)
	}

	r.logger.InfoContext(ctx, "Sweeping due credit obligations",
		log.FieldDueDate, target.String(),
		log.FieldLeadDays, leadDays,
		"pending", len(obligations))

	for _, o := range obligations {
		if ctx.Err() != nil {
			r.logger.WarnContext(ctx, "Reminder sweep interrupted",
				"reason", ctx.Err(),
				"sent", summary.Sent)
			break
		}

		subject, body := reminderMessage(o)
		if err := r.sender.Send(ctx, o.ContactAddress, subject, body); err != nil {
			r.logger.ErrorContext(ctx, "Failed to send due reminder",
				log.FieldObligationID, o.ID,
				log.FieldDueDate, o.DueDate.String(),
				log.FieldError, err)
			summary.Failed++
			continue
		}

		if err := r.obligations.MarkNotified(ctx, o.ID); err != nil {
			// The notification went out but the flag did not stick; the next
			// run will deliver it again. Accepted at-least-once trade-off.
			r.logger.WarnContext(ctx, "Reminder sent but mark-notified failed, may resend",
				log.FieldObligationID, o.ID,
				log.FieldError, err)
		}

		summary.Sent++
		r.logger.InfoContext(ctx, "Sent due reminder",
			log.FieldObligationID, o.ID,
			"name", o.Name,
			log.FieldDueDate, o.DueDate.String(),
			log.FieldAmountCents, o.Amount.Cents)
	}

	r.logger.InfoContext(ctx, "Reminder sweep complete",
		"sent", summary.Sent,
		"failed", summary.Failed)

	return summary, nil
}

// reminderMessage builds the notification subject and body for an
// obligation. Plain text; templating belongs to the delivery side.
func reminderMessage(o core.CreditObligation) (subject, body string) {
	subject = fmt.Sprintf("Payment due %s: %s", o.DueDate.String(), o.Name)
	body = fmt.Sprintf(
		"Your %s card %s (%s) has a payment of %s due on %s.",
		o.Issuer, o.Name, o.MaskedNumber, o.Amount.String(), o.DueDate.String())
	return subject, body
}
