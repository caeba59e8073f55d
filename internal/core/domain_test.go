package core

import (
	"errors"
	"testing"
)

func TestTransaction_Validate(t *testing.T) {
	valid := Transaction{
		Amount:   500,
		Date:     "2025-08-01",
		Category: "Food",
		Type:     Expense,
		Note:     "Lunch",
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{name: "valid expense", mutate: func(*Transaction) {}, wantErr: nil},
		{name: "valid income", mutate: func(tx *Transaction) { tx.Type = Income }, wantErr: nil},
		{name: "zero amount", mutate: func(tx *Transaction) { tx.Amount = 0 }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount = -100 }, wantErr: ErrInvalidAmount},
		{name: "empty date", mutate: func(tx *Transaction) { tx.Date = "" }, wantErr: ErrEmptyDate},
		{name: "blank date", mutate: func(tx *Transaction) { tx.Date = "   " }, wantErr: ErrEmptyDate},
		{name: "empty category", mutate: func(tx *Transaction) { tx.Category = "" }, wantErr: ErrEmptyCategory},
		{name: "bad type", mutate: func(tx *Transaction) { tx.Type = "transfer" }, wantErr: ErrInvalidType},
		{name: "empty note ok", mutate: func(tx *Transaction) { tx.Note = "" }, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCurrency_IsValid(t *testing.T) {
	for _, c := range []Currency{USD, CAD, EUR, INR} {
		if !c.IsValid() {
			t.Errorf("%s should be valid", c)
		}
	}
	for _, c := range []Currency{"", "GBP", "usd", "JPY"} {
		if c.IsValid() {
			t.Errorf("%q should be invalid", c)
		}
	}
}

func TestValidDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2025-08-01", true},
		{"1999-12-31", true},
		{"2025-8-1", false},
		{"2025/08/01", false},
		{"2025-08-01T00:00:00Z", false},
		{"", false},
		{"not a date", false},
	}
	for _, tt := range tests {
		if got := ValidDate(tt.in); got != tt.want {
			t.Errorf("ValidDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTransaction_DedupKey(t *testing.T) {
	tx := Transaction{Amount: 1250, Date: "2025-08-01", Category: "Food", Type: Expense, Note: "ignored"}
	want := "2025-08-01|expense|Food|1250"
	if got := tx.DedupKey(); got != want {
		t.Errorf("DedupKey() = %q, want %q", got, want)
	}

	// The note must not contribute to identity.
	other := tx
	other.Note = "different"
	other.ID = "some-id"
	if tx.DedupKey() != other.DedupKey() {
		t.Error("DedupKey should ignore id and note")
	}
}

func TestSettings_Clone(t *testing.T) {
	s := DefaultSettings()
	s.Budgets["Food"] = 30000

	c := s.Clone()
	c.Budgets["Food"] = 1
	c.Budgets["Rent"] = 2

	if s.Budgets["Food"] != 30000 {
		t.Error("Clone should not share the budgets map")
	}
	if _, ok := s.Budgets["Rent"]; ok {
		t.Error("Clone should not share the budgets map")
	}
}
