package core

import (
	"strings"
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Kind:       KindExpense,
		Amount:     Money{Cents: 1250},
		Category:   "Groceries",
		OccurredOn: date(2026, time.March, 5),
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr bool
	}{
		{name: "valid expense", mutate: func(*Transaction) {}},
		{name: "valid income", mutate: func(tx *Transaction) { tx.Kind = KindIncome }},
		{name: "zero amount allowed", mutate: func(tx *Transaction) { tx.Amount.Cents = 0 }},
		{name: "bad kind", mutate: func(tx *Transaction) { tx.Kind = "transfer" }, wantErr: true},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount.Cents = -1 }, wantErr: true},
		{name: "blank category", mutate: func(tx *Transaction) { tx.Category = "  " }, wantErr: true},
		{name: "zero date", mutate: func(tx *Transaction) { tx.OccurredOn = time.Time{} }, wantErr: true},
		{name: "note too long", mutate: func(tx *Transaction) { tx.Note = strings.Repeat("x", 201) }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecurringBillValidate(t *testing.T) {
	valid := RecurringBill{Name: "Rent", Amount: Money{Cents: 80000}, DueDay: 1}

	tests := []struct {
		name    string
		mutate  func(*RecurringBill)
		wantErr bool
	}{
		{name: "valid", mutate: func(*RecurringBill) {}},
		{name: "day 31 valid", mutate: func(b *RecurringBill) { b.DueDay = 31 }},
		{name: "blank name", mutate: func(b *RecurringBill) { b.Name = " " }, wantErr: true},
		{name: "day zero", mutate: func(b *RecurringBill) { b.DueDay = 0 }, wantErr: true},
		{name: "day 32", mutate: func(b *RecurringBill) { b.DueDay = 32 }, wantErr: true},
		{name: "negative amount", mutate: func(b *RecurringBill) { b.Amount.Cents = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			tt.mutate(&b)
			err := b.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPayScheduleValidate(t *testing.T) {
	s := PaySchedule{Frequency: FrequencyBiweekly, NextPayday: date(2026, time.March, 13), TypicalNetPay: Money{Cents: 120000}}
	if err := s.Validate(); err != nil {
		t.Errorf("valid schedule rejected: %v", err)
	}
	s.NextPayday = time.Time{}
	if err := s.Validate(); err == nil {
		t.Error("zero payday accepted")
	}
}
