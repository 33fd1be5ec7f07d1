// Package core holds the domain types and the pure budgeting math:
// pay periods, bill due-date projection, and budget usage.
package core

import (
	"errors"
	"strings"
	"time"
)

// Kind distinguishes money coming in from money going out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// FrequencyBiweekly is the only supported pay frequency.
const FrequencyBiweekly = "biweekly"

// DefaultCategories seeds the category pickers for new users.
var DefaultCategories = []string{
	"Rent", "Groceries", "Transit", "Tuition", "Textbooks",
	"Phone", "Subscriptions", "Eating Out", "Coffee", "Entertainment", "Other",
}

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("kind must be income or expense")
	ErrInvalidDueDay = errors.New("due day must be between 1 and 31")
	ErrNotFound      = errors.New("not found")
	ErrEmailTaken    = errors.New("email already registered")
)

// Money is an amount in whole cents. All arithmetic stays in integers.
type Money struct {
	Cents int64
}

type User struct {
	ID           int64
	Email        string
	PasswordHash string
}

// PaySchedule anchors a user's biweekly pay cycle. NextPayday is the stored
// anchor date; the running period is always derived from it, even after the
// date slips into the past.
type PaySchedule struct {
	UserID        int64
	Frequency     string
	NextPayday    time.Time
	TypicalNetPay Money
}

type Transaction struct {
	ID         int64
	UserID     int64
	Kind       Kind
	Amount     Money
	Category   string
	OccurredOn time.Time
	Note       string
}

// Budget is a per-category spending limit, keyed by (user, category).
type Budget struct {
	UserID   int64
	Category string
	Limit    Money
}

// RecurringBill is a monthly obligation due on a fixed day of the month.
// DueDay may exceed a short month's length; projection clamps it.
type RecurringBill struct {
	ID     int64
	UserID int64
	Name   string
	Amount Money
	DueDay int
	Active bool
}

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return errors.New("category is required")
	}
	if t.OccurredOn.IsZero() {
		return errors.New("date is required")
	}
	if len(t.Note) > 200 {
		return errors.New("note too long (max 200 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return errors.New("category is required")
	}
	if b.Limit.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (b RecurringBill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return errors.New("bill name is required")
	}
	if len(b.Name) > 100 {
		return errors.New("bill name too long (max 100 characters)")
	}
	if b.DueDay < 1 || b.DueDay > 31 {
		return ErrInvalidDueDay
	}
	if b.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s PaySchedule) Validate() error {
	if s.NextPayday.IsZero() {
		return errors.New("next payday is required")
	}
	if s.TypicalNetPay.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// CategoryTotal is an aggregation row: total expense cents for one category.
type CategoryTotal struct {
	Category string
	Total    Money
}
