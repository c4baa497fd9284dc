// Package scheduler implements the two daily batch jobs: materialization of
// recurring transactions and the credit-card due-date reminder sweep.
//
// This file implements the Strategy Pattern for recurrence rule evaluation.
// Each frequency (daily, weekly, monthly, yearly) has its own checker that
// decides whether a definition fires on a given calendar date. Checkers are
// pure predicates over (start date, target date); the caller is responsible
// for the active-window precondition (start <= target <= end).
package scheduler

import (
	"fmt"
	"time"

	"cadenza/internal/core"
)

// OccurrenceChecker decides whether a recurrence rule fires on target,
// given the definition's start date.
type OccurrenceChecker interface {
	IsDueOn(start, target core.Date) bool
}

// DailyChecker fires on every date in the active window.
type DailyChecker struct{}

func (DailyChecker) IsDueOn(_, _ core.Date) bool {
	return true
}

// WeeklyChecker fires on the weekday of the start date.
type WeeklyChecker struct{}

func (WeeklyChecker) IsDueOn(start, target core.Date) bool {
	return target.Weekday() == start.Weekday()
}

// MonthlyChecker fires on the start date's day of the month.
//
// Day-overflow policy: when the target month is shorter than the start day
// (start day 31, target February), the occurrence is CLAMPED to the last day
// of the month rather than skipped. A rent due "on the 31st" still gets paid
// in February.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDueOn(start, target core.Date) bool {
	return target.Day() == clampDay(start.Day(), target.Year(), target.Month())
}

// YearlyChecker fires once a year on the start date's month and day, with
// the same clamp policy as MonthlyChecker (start Feb 29 fires on Feb 28 in
// non-leap years).
type YearlyChecker struct{}

func (YearlyChecker) IsDueOn(start, target core.Date) bool {
	if target.Month() != start.Month() {
		return false
	}
	return target.Day() == clampDay(start.Day(), target.Year(), target.Month())
}

// clampDay returns day, limited to the number of days in the given month.
func clampDay(day, year, month int) int {
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}

// occurrenceCheckers maps frequencies to their checkers.
var occurrenceCheckers = map[core.Frequency]OccurrenceChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// GetOccurrenceChecker returns the checker for a frequency.
func GetOccurrenceChecker(frequency core.Frequency) (OccurrenceChecker, error) {
	checker, ok := occurrenceCheckers[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return checker, nil
}

// RegisterOccurrenceChecker registers a checker for a custom frequency,
// allowing extension without touching the evaluator.
func RegisterOccurrenceChecker(frequency core.Frequency, checker OccurrenceChecker) {
	occurrenceCheckers[frequency] = checker
}

// IsDueOn reports whether the definition's recurrence rule fires on target.
// It does not check the active window; see RecurringDefinition.InWindow.
func IsDueOn(def core.RecurringDefinition, target core.Date) (bool, error) {
	checker, err := GetOccurrenceChecker(def.Every)
	if err != nil {
		return false, err
	}
	return checker.IsDueOn(def.StartDate, target), nil
}
