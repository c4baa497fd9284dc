package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cadenza/internal/core"
	"cadenza/internal/log"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements the scheduler's DefinitionStore,
// TransactionStore and ObligationStore ports over a single SQLite file.
type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: log.Default().WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateDefinition inserts a recurring definition (the user-entry path).
func (r *SQLiteRepository) CreateDefinition(ctx context.Context, def core.RecurringDefinition) (int64, error) {
	if err := def.Validate(); err != nil {
		return 0, err
	}

	var endDate sql.NullString
	if !def.EndDate.IsZero() {
		endDate = sql.NullString{String: def.EndDate.String(), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_definitions
			(owner_id, title, amount_cents, direction, frequency, start_date, end_date, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		def.OwnerID, def.Title, def.Amount.Cents, string(def.Direction),
		string(def.Every), def.StartDate.String(), endDate, boolToInt(def.Active))
	if err != nil {
		return 0, fmt.Errorf("insert definition: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("definition insert id: %w", err)
	}

	r.logger.InfoContext(ctx, "Recurring definition saved",
		log.FieldDefinitionID, id,
		"title", def.Title,
		log.FieldFrequency, def.Every,
		"start_date", def.StartDate.String())

	return id, nil
}

// SoftDeleteDefinition logically removes a definition. The row is kept for
// audit; the materializer stops seeing it immediately.
func (r *SQLiteRepository) SoftDeleteDefinition(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recurring_definitions
		SET deleted_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete definition: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("definition %d not found or already deleted", id)
	}
	return nil
}

// ListActiveDefinitions implements scheduler.DefinitionStore.
func (r *SQLiteRepository) ListActiveDefinitions(ctx context.Context, asOf core.Date) ([]core.RecurringDefinition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, title, amount_cents, direction, frequency, start_date, end_date, active
		FROM recurring_definitions
		WHERE active = 1
		  AND deleted_at IS NULL
		  AND start_date <= ?
		  AND (end_date IS NULL OR end_date >= ?)
		ORDER BY id`,
		asOf.String(), asOf.String())
	if err != nil {
		return nil, fmt.Errorf("query active definitions: %w", err)
	}
	defer rows.Close()

	var defs []core.RecurringDefinition
	for rows.Next() {
		var (
			def                  core.RecurringDefinition
			direction, frequency string
			startDate            string
			endDate              sql.NullString
			active               int
		)
		if err := rows.Scan(&def.ID, &def.OwnerID, &def.Title, &def.Amount.Cents,
			&direction, &frequency, &startDate, &endDate, &active); err != nil {
			return nil, fmt.Errorf("scan definition: %w", err)
		}
		def.Direction = core.FlowDirection(direction)
		def.Every = core.Frequency(frequency)
		def.Active = active != 0
		if def.StartDate, err = core.ParseDate(startDate); err != nil {
			return nil, fmt.Errorf("definition %d start date: %w", def.ID, err)
		}
		if endDate.Valid {
			if def.EndDate, err = core.ParseDate(endDate.String); err != nil {
				return nil, fmt.Errorf("definition %d end date: %w", def.ID, err)
			}
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate definitions: %w", err)
	}

	return defs, nil
}

// ExistsOccurrence implements scheduler.TransactionStore.
func (r *SQLiteRepository) ExistsOccurrence(ctx context.Context, definitionID int64, occurrence core.Date) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE recurring_id = ? AND occurrence_date = ?
		)`, definitionID, occurrence.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check occurrence: %w", err)
	}
	return exists != 0, nil
}

// CreateTransaction implements scheduler.TransactionStore. A violation of
// the (recurring_id, occurrence_date) uniqueness constraint is mapped to
// core.ErrDuplicateOccurrence so the materializer can count it as skipped.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	var recurringID sql.NullInt64
	if t.RecurringID != 0 {
		recurringID = sql.NullInt64{Int64: t.RecurringID, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(owner_id, recurring_id, title, amount_cents, direction, occurrence_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.OwnerID, recurringID, t.Title, t.Amount.Cents,
		string(t.Direction), t.OccurrenceDate.String())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, core.ErrDuplicateOccurrence
		}
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction insert id: %w", err)
	}

	return id, nil
}

// CountOccurrences returns how many transactions exist for a definition on
// a given occurrence date. With the uniqueness constraint in place this is
// always 0 or 1; it exists so the idempotence contract can be verified.
func (r *SQLiteRepository) CountOccurrences(ctx context.Context, definitionID int64, occurrence core.Date) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE recurring_id = ? AND occurrence_date = ?`,
		definitionID, occurrence.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count occurrences: %w", err)
	}
	return n, nil
}

// CreateObligation inserts a credit obligation (the user-entry path).
func (r *SQLiteRepository) CreateObligation(ctx context.Context, o core.CreditObligation) (int64, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO credit_obligations
			(owner_id, name, issuer, masked_number, amount_cents, due_date, contact_address, notified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OwnerID, o.Name, o.Issuer, o.MaskedNumber, o.Amount.Cents,
		o.DueDate.String(), o.ContactAddress, boolToInt(o.Notified))
	if err != nil {
		return 0, fmt.Errorf("insert obligation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("obligation insert id: %w", err)
	}

	return id, nil
}

// ListUnnotifiedDueOn implements scheduler.ObligationStore.
func (r *SQLiteRepository) ListUnnotifiedDueOn(ctx context.Context, due core.Date) ([]core.CreditObligation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, issuer, masked_number, amount_cents, due_date, contact_address, notified
		FROM credit_obligations
		WHERE notified = 0 AND due_date = ?
		ORDER BY id`, due.String())
	if err != nil {
		return nil, fmt.Errorf("query unnotified obligations: %w", err)
	}
	defer rows.Close()

	var obligations []core.CreditObligation
	for rows.Next() {
		var (
			o        core.CreditObligation
			dueDate  string
			notified int
		)
		if err := rows.Scan(&o.ID, &o.OwnerID, &o.Name, &o.Issuer, &o.MaskedNumber,
			&o.Amount.Cents, &dueDate, &o.ContactAddress, &notified); err != nil {
			return nil, fmt.Errorf("scan obligation: %w", err)
		}
		o.Notified = notified != 0
		if o.DueDate, err = core.ParseDate(dueDate); err != nil {
			return nil, fmt.Errorf("obligation %d due date: %w", o.ID, err)
		}
		obligations = append(obligations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate obligations: %w", err)
	}

	return obligations, nil
}

// MarkNotified implements scheduler.ObligationStore. The flag is monotonic:
// the update only ever flips 0 to 1 and there is no way back.
func (r *SQLiteRepository) MarkNotified(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE credit_obligations SET notified = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark obligation notified: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notified rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrObligationNotFound
	}

	r.logger.InfoContext(ctx, "Obligation marked notified", log.FieldObligationID, id)
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation reports whether err is a SQLite uniqueness constraint
// failure, by unwrapping to the driver error and checking its extended
// result code.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
