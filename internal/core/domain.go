package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	Income  FlowDirection = "income"
	Expense FlowDirection = "expense"
)

type (
	// Frequency is how often a recurring definition produces an occurrence.
	Frequency string

	// FlowDirection marks a transaction as money in or money out.
	FlowDirection string

	// Date is a calendar date at day granularity. The embedded time.Time is
	// always midnight UTC so two Dates compare equal iff they name the same day.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// RecurringDefinition is a template that the materializer turns into
	// concrete transactions on the days its recurrence rule fires.
	RecurringDefinition struct {
		ID        int64
		OwnerID   int64
		Title     string
		Amount    Money
		Direction FlowDirection
		Every     Frequency
		StartDate Date
		EndDate   Date // zero when open-ended
		Active    bool
	}

	// Transaction is a concrete ledger entry. RecurringID is zero for entries
	// the user created by hand; for materialized entries it points back at the
	// definition, and (RecurringID, OccurrenceDate) is unique.
	Transaction struct {
		ID             int64
		OwnerID        int64
		RecurringID    int64
		Title          string
		Amount         Money
		Direction      FlowDirection
		OccurrenceDate Date
	}

	// CreditObligation is a credit-card bill the reminder sweep watches.
	// Notified only ever moves from false to true.
	CreditObligation struct {
		ID             int64
		OwnerID        int64
		Name           string
		Issuer         string
		MaskedNumber   string
		Amount         Money
		DueDate        Date
		ContactAddress string
		Notified       bool
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyTitle          = errors.New("empty title")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrInvalidDirection    = errors.New("invalid flow direction")
	ErrEndBeforeStart      = errors.New("end date before start date")
	ErrEmptyContact        = errors.New("empty contact address")
	ErrDuplicateOccurrence = errors.New("occurrence already materialized")
	ErrObligationNotFound  = errors.New("obligation not found")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to the calendar date in its own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.AddDate(0, 0, n))
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as an int.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (f Frequency) Validate() error {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return nil
	default:
		return ErrInvalidFrequency
	}
}

func (fd FlowDirection) Validate() error {
	switch fd {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidDirection
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// String formats the amount as a plain decimal, e.g. "12.34".
func (m Money) String() string {
	sign := ""
	c := m.Cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

func (rd RecurringDefinition) Validate() error {
	if err := rd.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if !rd.EndDate.IsZero() && rd.EndDate.Before(rd.StartDate.Time) {
		return ErrEndBeforeStart
	}
	if err := rd.Every.Validate(); err != nil {
		return err
	}
	if err := rd.Direction.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(rd.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(rd.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	return rd.Amount.Validate()
}

// InWindow reports whether d falls inside the definition's active window:
// StartDate <= d, and d <= EndDate when an end date is set.
func (rd RecurringDefinition) InWindow(d Date) bool {
	if d.Before(rd.StartDate.Time) {
		return false
	}
	if !rd.EndDate.IsZero() && d.After(rd.EndDate.Time) {
		return false
	}
	return true
}

func (t Transaction) Validate() error {
	if err := t.OccurrenceDate.Validate(); err != nil {
		return errors.New("invalid occurrence date: " + err.Error())
	}
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	if err := t.Direction.Validate(); err != nil {
		return err
	}
	return t.Amount.Validate()
}

func (o CreditObligation) Validate() error {
	if err := o.DueDate.Validate(); err != nil {
		return errors.New("invalid due date: " + err.Error())
	}
	if len(strings.TrimSpace(o.Name)) == 0 {
		return ErrEmptyTitle
	}
	if o.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(o.ContactAddress)) == 0 {
		return ErrEmptyContact
	}
	return nil
}
