// Package services assembles domain operations on top of the store: the
// dashboard summary and the bill reminder scan.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/cache"
	"github.com/JasvinK/Student-Paycheck-Buddy/internal/core"
)

// ErrNoSchedule is returned when a user has not completed pay setup yet.
var ErrNoSchedule = errors.New("no pay schedule configured")

// DashboardStore is the slice of the repository the dashboard needs.
type DashboardStore interface {
	GetPaySchedule(ctx context.Context, userID int64) (*core.PaySchedule, error)
	PeriodTotals(ctx context.Context, userID int64, start, end time.Time) (income, expense core.Money, err error)
	ExpenseTotalsByCategory(ctx context.Context, userID int64, start, end time.Time) ([]core.CategoryTotal, error)
	ListActiveBills(ctx context.Context, userID int64) ([]core.RecurringBill, error)
	ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error)
}

// Summary is everything the dashboard page shows for the current period.
type Summary struct {
	Period        core.PayPeriod
	DaysLeft      int
	TypicalNetPay core.Money
	Income        core.Money
	Expense       core.Money
	Remaining     core.Money
	BillsDue      []core.BillOccurrence
	BillsTotal    core.Money
	AfterBills    core.Money
	Allowance     core.Money
	TopCategory   string
	TopSpent      core.Money
	HasTop        bool
}

type DashboardService struct {
	store DashboardStore
	cache *cache.LRUCache[Summary]
	now   func() time.Time
}

// NewDashboardService wraps the store with a short-TTL per-user summary
// cache; writes must call Invalidate.
func NewDashboardService(store DashboardStore) *DashboardService {
	return &DashboardService{
		store: store,
		cache: cache.NewLRUCache[Summary](256, 30*time.Second),
		now:   time.Now,
	}
}

func cacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// Invalidate drops the user's cached summary after any write that affects
// it.
func (s *DashboardService) Invalidate(userID int64) {
	s.cache.Delete(cacheKey(userID))
}

// Summary computes the current pay-period overview. ErrNoSchedule is
// returned until the user completes setup.
func (s *DashboardService) Summary(ctx context.Context, userID int64) (Summary, error) {
	if cached, ok := s.cache.Get(cacheKey(userID)); ok {
		slog.DebugContext(ctx, "Dashboard summary cache hit", "user_id", userID)
		return cached, nil
	}

	schedule, err := s.store.GetPaySchedule(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return Summary{}, ErrNoSchedule
	}
	if err != nil {
		return Summary{}, fmt.Errorf("load pay schedule: %w", err)
	}

	today := core.DateOf(s.now())
	period := core.CurrentPayPeriod(schedule.NextPayday)

	income, expense, err := s.store.PeriodTotals(ctx, userID, period.Start, period.End)
	if err != nil {
		return Summary{}, fmt.Errorf("load period totals: %w", err)
	}

	remaining := core.Money{Cents: schedule.TypicalNetPay.Cents + income.Cents - expense.Cents}

	bills, err := s.store.ListActiveBills(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("load bills: %w", err)
	}
	due, billsTotal := core.UpcomingBills(bills, today, period.NextPayday)

	sum := Summary{
		Period:        period,
		DaysLeft:      period.DaysLeft(today),
		TypicalNetPay: schedule.TypicalNetPay,
		Income:        income,
		Expense:       expense,
		Remaining:     remaining,
		BillsDue:      due,
		BillsTotal:    billsTotal,
		AfterBills:    core.Money{Cents: remaining.Cents - billsTotal.Cents},
		Allowance:     core.DailyAllowance(remaining, period, today),
	}

	byCategory, err := s.store.ExpenseTotalsByCategory(ctx, userID, period.Start, period.End)
	if err != nil {
		return Summary{}, fmt.Errorf("load category totals: %w", err)
	}
	if len(byCategory) > 0 {
		sum.TopCategory = byCategory[0].Category
		sum.TopSpent = byCategory[0].Total
		sum.HasTop = true
	}

	s.cache.Set(cacheKey(userID), sum)
	return sum, nil
}

// BudgetUsage joins the user's budgets with period spending. Users without
// a schedule still see their limits, with nothing counted as spent.
func (s *DashboardService) BudgetUsage(ctx context.Context, userID int64) ([]core.BudgetUsage, error) {
	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	if len(budgets) == 0 {
		return nil, nil
	}

	spent := map[string]core.Money{}
	schedule, err := s.store.GetPaySchedule(ctx, userID)
	switch {
	case errors.Is(err, core.ErrNotFound):
		// No period to measure against yet.
	case err != nil:
		return nil, fmt.Errorf("load pay schedule: %w", err)
	default:
		period := core.CurrentPayPeriod(schedule.NextPayday)
		byCategory, err := s.store.ExpenseTotalsByCategory(ctx, userID, period.Start, period.End)
		if err != nil {
			return nil, fmt.Errorf("load category totals: %w", err)
		}
		for _, ct := range byCategory {
			spent[ct.Category] = ct.Total
		}
	}

	usage := make([]core.BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		usage = append(usage, core.ComputeBudgetUsage(b, spent[b.Category]))
	}
	return usage, nil
}
