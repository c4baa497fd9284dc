package scheduler

import (
	"testing"
	"time"

	"cadenza/internal/core"
)

func TestDailyChecker_IsDueOn(t *testing.T) {
	checker := DailyChecker{}
	start := core.NewDate(2024, 1, 1)

	// Due on every date, the window is the caller's problem.
	d := start
	for i := 0; i < 366; i++ {
		if !checker.IsDueOn(start, d) {
			t.Fatalf("daily rule not due on %s", d)
		}
		d = d.AddDays(1)
	}
}

func TestWeeklyChecker_IsDueOn(t *testing.T) {
	checker := WeeklyChecker{}
	start := core.NewDate(2024, 1, 3) // a Wednesday

	// Across a full year the rule fires exactly on Wednesdays.
	d := core.NewDate(2024, 1, 1)
	fired := 0
	for i := 0; i < 366; i++ {
		got := checker.IsDueOn(start, d)
		want := d.Weekday() == time.Wednesday
		if got != want {
			t.Fatalf("weekly rule on %s (%s) = %v, want %v", d, d.Weekday(), got, want)
		}
		if got {
			fired++
		}
		d = d.AddDays(1)
	}
	if fired != 52 {
		t.Errorf("weekly rule fired %d times in 366 days, want 52", fired)
	}
}

func TestMonthlyChecker_IsDueOn(t *testing.T) {
	checker := MonthlyChecker{}

	tests := []struct {
		name   string
		start  core.Date
		target core.Date
		want   bool
	}{
		{
			name:   "same day of month",
			start:  core.NewDate(2024, 1, 15),
			target: core.NewDate(2024, 3, 15),
			want:   true,
		},
		{
			name:   "different day of month",
			start:  core.NewDate(2024, 1, 15),
			target: core.NewDate(2024, 3, 14),
			want:   false,
		},
		{
			name:   "start day 31 clamps to Feb 29 in leap year",
			start:  core.NewDate(2024, 1, 31),
			target: core.NewDate(2024, 2, 29),
			want:   true,
		},
		{
			name:   "start day 31 clamps to Feb 28 in non-leap year",
			start:  core.NewDate(2023, 1, 31),
			target: core.NewDate(2023, 2, 28),
			want:   true,
		},
		{
			name:   "start day 31 does not fire on Feb 28 in leap year",
			start:  core.NewDate(2024, 1, 31),
			target: core.NewDate(2024, 2, 28),
			want:   false,
		},
		{
			name:   "start day 31 fires on Apr 30",
			start:  core.NewDate(2024, 1, 31),
			target: core.NewDate(2024, 4, 30),
			want:   true,
		},
		{
			name:   "start day 31 fires on the 31st where it exists",
			start:  core.NewDate(2024, 1, 31),
			target: core.NewDate(2024, 3, 31),
			want:   true,
		},
		{
			name:   "start day 30 does not fire on the 28th",
			start:  core.NewDate(2024, 1, 30),
			target: core.NewDate(2024, 3, 28),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDueOn(tt.start, tt.target)
			if got != tt.want {
				t.Errorf("IsDueOn(start=%s, target=%s) = %v, want %v", tt.start, tt.target, got, tt.want)
			}
		})
	}
}

func TestYearlyChecker_IsDueOn(t *testing.T) {
	checker := YearlyChecker{}

	tests := []struct {
		name   string
		start  core.Date
		target core.Date
		want   bool
	}{
		{
			name:   "anniversary",
			start:  core.NewDate(2022, 7, 14),
			target: core.NewDate(2025, 7, 14),
			want:   true,
		},
		{
			name:   "wrong month",
			start:  core.NewDate(2022, 7, 14),
			target: core.NewDate(2025, 8, 14),
			want:   false,
		},
		{
			name:   "wrong day",
			start:  core.NewDate(2022, 7, 14),
			target: core.NewDate(2025, 7, 15),
			want:   false,
		},
		{
			name:   "Feb 29 start clamps to Feb 28 in non-leap year",
			start:  core.NewDate(2024, 2, 29),
			target: core.NewDate(2025, 2, 28),
			want:   true,
		},
		{
			name:   "Feb 29 start fires on Feb 29 in leap year",
			start:  core.NewDate(2024, 2, 29),
			target: core.NewDate(2028, 2, 29),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDueOn(tt.start, tt.target)
			if got != tt.want {
				t.Errorf("IsDueOn(start=%s, target=%s) = %v, want %v", tt.start, tt.target, got, tt.want)
			}
		})
	}
}

func TestIsDueOn_UnknownFrequency(t *testing.T) {
	def := core.RecurringDefinition{
		Every:     core.Frequency("fortnightly"),
		StartDate: core.NewDate(2024, 1, 1),
	}
	if _, err := IsDueOn(def, core.NewDate(2024, 1, 15)); err == nil {
		t.Error("expected error for unknown frequency")
	}
}

func TestRegisterOccurrenceChecker(t *testing.T) {
	const quarterly = core.Frequency("quarterly")
	RegisterOccurrenceChecker(quarterly, quarterlyChecker{})
	defer delete(occurrenceCheckers, quarterly)

	def := core.RecurringDefinition{Every: quarterly, StartDate: core.NewDate(2024, 1, 10)}
	due, err := IsDueOn(def, core.NewDate(2024, 4, 10))
	if err != nil {
		t.Fatalf("IsDueOn: %v", err)
	}
	if !due {
		t.Error("registered checker was not used")
	}
}

type quarterlyChecker struct{}

func (quarterlyChecker) IsDueOn(start, target core.Date) bool {
	return target.Day() == start.Day() && (target.Month()-start.Month())%3 == 0
}
