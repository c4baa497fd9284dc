package core

import (
	"errors"
	"testing"
)

func TestRecurringDefinition_Validate(t *testing.T) {
	valid := RecurringDefinition{
		OwnerID:   1,
		Title:     "Rent",
		Amount:    Money{Cents: 95000},
		Direction: Expense,
		Every:     Monthly,
		StartDate: NewDate(2024, 1, 31),
		Active:    true,
	}

	tests := []struct {
		name    string
		mutate  func(*RecurringDefinition)
		wantErr error
	}{
		{
			name:   "valid definition",
			mutate: func(*RecurringDefinition) {},
		},
		{
			name: "valid with end date equal to start",
			mutate: func(rd *RecurringDefinition) {
				rd.EndDate = rd.StartDate
			},
		},
		{
			name: "end date before start",
			mutate: func(rd *RecurringDefinition) {
				rd.EndDate = NewDate(2023, 12, 31)
			},
			wantErr: ErrEndBeforeStart,
		},
		{
			name: "zero amount",
			mutate: func(rd *RecurringDefinition) {
				rd.Amount = Money{}
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "empty title",
			mutate: func(rd *RecurringDefinition) {
				rd.Title = "   "
			},
			wantErr: ErrEmptyTitle,
		},
		{
			name: "unknown frequency",
			mutate: func(rd *RecurringDefinition) {
				rd.Every = Frequency("fortnightly")
			},
			wantErr: ErrInvalidFrequency,
		},
		{
			name: "unknown direction",
			mutate: func(rd *RecurringDefinition) {
				rd.Direction = FlowDirection("sideways")
			},
			wantErr: ErrInvalidDirection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd := valid
			tt.mutate(&rd)
			err := rd.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecurringDefinition_InWindow(t *testing.T) {
	def := RecurringDefinition{
		StartDate: NewDate(2024, 3, 1),
		EndDate:   NewDate(2024, 6, 30),
	}
	openEnded := RecurringDefinition{
		StartDate: NewDate(2024, 3, 1),
	}

	tests := []struct {
		name string
		def  RecurringDefinition
		d    Date
		want bool
	}{
		{"before start", def, NewDate(2024, 2, 29), false},
		{"on start", def, NewDate(2024, 3, 1), true},
		{"inside", def, NewDate(2024, 5, 15), true},
		{"on end", def, NewDate(2024, 6, 30), true},
		{"day after end", def, NewDate(2024, 7, 1), false},
		{"open ended far future", openEnded, NewDate(2030, 1, 1), true},
		{"open ended before start", openEnded, NewDate(2024, 2, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.def.InWindow(tt.d); got != tt.want {
				t.Errorf("InWindow(%s) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestCreditObligation_Validate(t *testing.T) {
	valid := CreditObligation{
		OwnerID:        1,
		Name:           "Everyday card",
		Issuer:         "Acme Bank",
		MaskedNumber:   "**** 4242",
		Amount:         Money{Cents: 25000},
		DueDate:        NewDate(2025, 3, 10),
		ContactAddress: "user@example.com",
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	zeroDue := valid
	zeroDue.Amount = Money{Cents: 0}
	if err := zeroDue.Validate(); err != nil {
		t.Errorf("zero due amount should be valid, got %v", err)
	}

	negative := valid
	negative.Amount = Money{Cents: -100}
	if !errors.Is(negative.Validate(), ErrInvalidAmount) {
		t.Error("negative due amount should be rejected")
	}

	noContact := valid
	noContact.ContactAddress = ""
	if !errors.Is(noContact.Validate(), ErrEmptyContact) {
		t.Error("missing contact address should be rejected")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 2 || d.Day() != 29 {
		t.Errorf("ParseDate = %s, want 2024-02-29", d)
	}

	if _, err := ParseDate("29/02/2024"); err == nil {
		t.Error("expected error for non ISO date")
	}
	if _, err := ParseDate(""); err == nil {
		t.Error("expected error for empty date")
	}
}

func TestDate_AddDays(t *testing.T) {
	tests := []struct {
		name string
		d    Date
		n    int
		want Date
	}{
		{"plus three", NewDate(2025, 3, 7), 3, NewDate(2025, 3, 10)},
		{"month rollover", NewDate(2024, 2, 28), 2, NewDate(2024, 3, 1)},
		{"year rollover", NewDate(2024, 12, 30), 3, NewDate(2025, 1, 2)},
		{"negative", NewDate(2024, 3, 1), -1, NewDate(2024, 2, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.d.AddDays(tt.n)
			if !got.Equal(tt.want.Time) {
				t.Errorf("AddDays(%d) = %s, want %s", tt.n, got, tt.want)
			}
		})
	}
}
