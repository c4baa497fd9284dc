package scheduler

import (
	"context"

	"cadenza/internal/core"
)

// Ports for outbound adapters. The jobs only ever see these interfaces;
// the SQLite repository and the notification transports implement them.
type (
	// DefinitionStore lists recurring definitions the materializer considers.
	DefinitionStore interface {
		// ListActiveDefinitions returns active, non-deleted definitions whose
		// window contains asOf (start <= asOf, and asOf <= end when set).
		ListActiveDefinitions(ctx context.Context, asOf core.Date) ([]core.RecurringDefinition, error)
	}

	// TransactionStore creates materialized transactions and answers the
	// idempotence question for a (definition, occurrence date) pair.
	TransactionStore interface {
		ExistsOccurrence(ctx context.Context, definitionID int64, occurrence core.Date) (bool, error)
		// CreateTransaction returns core.ErrDuplicateOccurrence when the
		// occurrence key is already taken, e.g. by a concurrent run.
		CreateTransaction(ctx context.Context, t core.Transaction) (int64, error)
	}

	// ObligationStore lists and updates credit obligations for the sweep.
	ObligationStore interface {
		ListUnnotifiedDueOn(ctx context.Context, due core.Date) ([]core.CreditObligation, error)
		MarkNotified(ctx context.Context, id int64) error
	}

	// NotificationSender delivers a reminder to a contact address. Concrete
	// transports (AMQP, Gmail, log) are substitutable behind this interface.
	NotificationSender interface {
		Send(ctx context.Context, address, subject, body string) error
	}
)
