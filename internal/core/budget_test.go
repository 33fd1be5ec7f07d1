package core

import "testing"

func TestComputeBudgetUsage(t *testing.T) {
	tests := []struct {
		name        string
		limit       int64
		spent       int64
		wantPercent int
		wantStatus  BudgetStatus
		wantRemain  int64
	}{
		{name: "well under", limit: 10000, spent: 2500, wantPercent: 25, wantStatus: BudgetOK, wantRemain: 7500},
		{name: "warn at eighty", limit: 10000, spent: 8000, wantPercent: 80, wantStatus: BudgetWarn, wantRemain: 2000},
		{name: "just under warn", limit: 10000, spent: 7999, wantPercent: 79, wantStatus: BudgetOK, wantRemain: 2001},
		{name: "over at limit", limit: 10000, spent: 10000, wantPercent: 100, wantStatus: BudgetOver, wantRemain: 0},
		{name: "percent capped over limit", limit: 10000, spent: 15000, wantPercent: 100, wantStatus: BudgetOver, wantRemain: -5000},
		{name: "zero limit stays ok", limit: 0, spent: 5000, wantPercent: 0, wantStatus: BudgetOK, wantRemain: -5000},
		{name: "nothing spent", limit: 10000, spent: 0, wantPercent: 0, wantStatus: BudgetOK, wantRemain: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := ComputeBudgetUsage(
				Budget{Category: "Groceries", Limit: Money{Cents: tt.limit}},
				Money{Cents: tt.spent},
			)
			if u.Percent != tt.wantPercent {
				t.Errorf("Percent = %d, want %d", u.Percent, tt.wantPercent)
			}
			if u.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", u.Status, tt.wantStatus)
			}
			if u.Remaining.Cents != tt.wantRemain {
				t.Errorf("Remaining = %d, want %d", u.Remaining.Cents, tt.wantRemain)
			}
		})
	}
}
