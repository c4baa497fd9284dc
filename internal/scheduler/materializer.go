package scheduler

import (
	"context"
	"errors"
	"fmt"

	"cadenza/internal/core"
	"cadenza/internal/log"
)

// Materializer turns due recurring definitions into concrete transactions,
// at most one per (definition, occurrence date).
type Materializer struct {
	definitions  DefinitionStore
	transactions TransactionStore
	logger       *log.Logger
}

// MaterializeSummary reports what a single run did.
type MaterializeSummary struct {
	Created int // transactions created this run
	Skipped int // occurrences that already existed
	Failed  int // definitions whose processing errored
}

func NewMaterializer(definitions DefinitionStore, transactions TransactionStore) *Materializer {
	return &Materializer{
		definitions:  definitions,
		transactions: transactions,
		logger:       log.Default().WithComponent(log.ComponentScheduler),
	}
}

// MaterializeDue processes every active definition for the asOf date.
// Re-running with the same asOf and an unchanged store creates nothing:
// the occurrence key check (and the store's uniqueness constraint behind it)
// makes the run idempotent.
//
// A store error on one definition is logged and counted as failed; the rest
// of the batch still runs. Only a failure to load the definition list aborts
// the invocation. Cancellation finishes the in-flight definition and stops
// before starting the next.
func (m *Materializer) MaterializeDue(ctx context.Context, asOf core.Date) (MaterializeSummary, error) {
	var summary MaterializeSummary

	defs, err := m.definitions.ListActiveDefinitions(ctx, asOf)
	if err != nil {
		return summary, fmt.Errorf("list active definitions: %w", err)
	}

	m.logger.InfoContext(ctx, "Materializing recurring transactions",
		"total_active", len(defs),
		"as_of", asOf.String())

	for _, def := range defs {
		if ctx.Err() != nil {
			m.logger.WarnContext(ctx, "Materialization interrupted",
				"reason", ctx.Err(),
				"created", summary.Created)
			break
		}

		// The store already filters on the window; re-check so a looser
		// store implementation cannot materialize outside [start, end].
		if !def.InWindow(asOf) {
			continue
		}

		due, err := IsDueOn(def, asOf)
		if err != nil {
			m.logger.ErrorContext(ctx, "Failed to evaluate recurrence rule",
				log.FieldDefinitionID, def.ID,
				log.FieldFrequency, def.Every,
				log.FieldError, err)
			summary.Failed++
			continue
		}
		if !due {
			continue
		}

		exists, err := m.transactions.ExistsOccurrence(ctx, def.ID, asOf)
		if err != nil {
			m.logger.ErrorContext(ctx, "Failed to check existing occurrence",
				log.FieldDefinitionID, def.ID,
				log.FieldOccurrence, asOf.String(),
				log.FieldError, err)
			summary.Failed++
			continue
		}
		if exists {
			summary.Skipped++
			continue
		}

		id, err := m.transactions.CreateTransaction(ctx, core.Transaction{
			OwnerID:        def.OwnerID,
			RecurringID:    def.ID,
			Title:          def.Title,
			Amount:         def.Amount,
			Direction:      def.Direction,
			OccurrenceDate: asOf,
		})
		if errors.Is(err, core.ErrDuplicateOccurrence) {
			// Lost a race with a concurrent run; the occurrence exists.
			summary.Skipped++
			continue
		}
		if err != nil {
			m.logger.ErrorContext(ctx, "Failed to create transaction from definition",
				log.FieldDefinitionID, def.ID,
				"title", def.Title,
				log.FieldOccurrence, asOf.String(),
				log.FieldError, err)
			summary.Failed++
			continue
		}

		summary.Created++
		m.logger.InfoContext(ctx, "Materialized recurring transaction",
			log.FieldDefinitionID, def.ID,
			log.FieldTransactionID, id,
			"title", def.Title,
			log.FieldAmountCents, def.Amount.Cents,
			log.FieldFrequency, def.Every)
	}

	m.logger.InfoContext(ctx, "Materialization complete",
		"created", summary.Created,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"total_checked", len(defs))

	return summary, nil
}
