package core

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

const (
	USD Currency = "USD"
	CAD Currency = "CAD"
	EUR Currency = "EUR"
	INR Currency = "INR"
)

type (
	// TxType discriminates income from expense entries.
	TxType string

	// Currency is a display label only; no conversion happens anywhere.
	Currency string

	// Transaction is a single ledger entry. Amount is in minor units
	// (cents) and Date is a YYYY-MM-DD calendar date string.
	Transaction struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Date     string `json:"date"`
		Category string `json:"category"`
		Type     TxType `json:"type"`
		Note     string `json:"note,omitempty"`
	}

	// Settings is the singleton user preference object. Budgets maps a
	// category name to its monthly budget in minor units.
	Settings struct {
		Currency Currency         `json:"currency"`
		DarkMode bool             `json:"darkMode"`
		Budgets  map[string]int64 `json:"budgets"`
	}

	// SettingsPatch is a partial settings update. Nil fields are left
	// untouched by the merge.
	SettingsPatch struct {
		Currency *Currency
		DarkMode *bool
		Budgets  map[string]int64
	}

	// Filter is the user-chosen view specification. It is never persisted.
	Filter struct {
		Month    string // "YYYY-MM" or empty for all months
		Type     string // "all", "income" or "expense"
		Category string // "all" or an exact category name
		Query    string // free text, matched against category + note
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyDate     = errors.New("empty date")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidType   = errors.New("invalid transaction type")
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValid returns true if the type is one of the two known values.
func (t TxType) IsValid() bool {
	return t == Income || t == Expense
}

// IsValid returns true if the currency is one of the four allowed codes.
func (c Currency) IsValid() bool {
	switch c {
	case USD, CAD, EUR, INR:
		return true
	default:
		return false
	}
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date string.
func ValidDate(s string) bool {
	return dateRe.MatchString(s)
}

// Validate checks the creation-time invariants of a transaction. The ID is
// not checked here; the ledger store assigns it.
func (t Transaction) Validate() error {
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Date) == "" {
		return ErrEmptyDate
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

// DefaultSettings returns the settings used on first load and after a
// failed or missing state restore.
func DefaultSettings() Settings {
	return Settings{
		Currency: USD,
		DarkMode: false,
		Budgets:  map[string]int64{},
	}
}

// Clone returns a deep copy so callers can mutate freely.
func (s Settings) Clone() Settings {
	out := s
	out.Budgets = make(map[string]int64, len(s.Budgets))
	for k, v := range s.Budgets {
		out.Budgets[k] = v
	}
	return out
}

// DedupKey returns the composite identity used for import deduplication:
// date, type, category and amount joined by a pipe. The pipe is assumed not
// to appear in category names.
func (t Transaction) DedupKey() string {
	return t.Date + "|" + string(t.Type) + "|" + t.Category + "|" + strconv.FormatInt(t.Amount, 10)
}
