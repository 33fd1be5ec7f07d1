package core

// BudgetStatus classifies how close spending is to a budget limit.
type BudgetStatus string

const (
	BudgetOK   BudgetStatus = "ok"
	BudgetWarn BudgetStatus = "warn"
	BudgetOver BudgetStatus = "over"
)

// BudgetUsage is a budget row joined with spending in the current period.
type BudgetUsage struct {
	Category  string
	Limit     Money
	Spent     Money
	Remaining Money
	Percent   int // capped at 100 for display
	Status    BudgetStatus
}

// ComputeBudgetUsage evaluates one budget against the amount spent in the
// period. Status flips to warn at 80% of the limit and to over at 100%,
// judged on the uncapped percentage. A zero or negative limit reports 0%
// and ok rather than dividing by it.
func ComputeBudgetUsage(b Budget, spent Money) BudgetUsage {
	u := BudgetUsage{
		Category:  b.Category,
		Limit:     b.Limit,
		Spent:     spent,
		Remaining: Money{Cents: b.Limit.Cents - spent.Cents},
		Status:    BudgetOK,
	}
	if b.Limit.Cents <= 0 {
		return u
	}

	raw := int(spent.Cents * 100 / b.Limit.Cents)
	u.Percent = raw
	if u.Percent > 100 {
		u.Percent = 100
	}
	switch {
	case raw >= 100:
		u.Status = BudgetOver
	case raw >= 80:
		u.Status = BudgetWarn
	}
	return u
}
