package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreateUser(t *testing.T, repo *SQLiteRepository, email string) int64 {
	t.Helper()
	id, err := repo.CreateUser(context.Background(), email, "hashed")
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return id
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateAndGetUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustCreateUser(t, repo, "sam@example.com")
	if id == 0 {
		t.Fatal("expected nonzero user id")
	}

	u, err := repo.GetUserByEmail(ctx, "sam@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if u.ID != id || u.Email != "sam@example.com" || u.PasswordHash != "hashed" {
		t.Errorf("unexpected user: %+v", u)
	}

	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing user error = %v, want ErrNotFound", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)

	mustCreateUser(t, repo, "sam@example.com")
	_, err := repo.CreateUser(context.Background(), "sam@example.com", "other")
	if !errors.Is(err, core.ErrEmailTaken) {
		t.Errorf("duplicate email error = %v, want ErrEmailTaken", err)
	}
}

func TestUpsertAndGetPaySchedule(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := mustCreateUser(t, repo, "sam@example.com")

	if _, err := repo.GetPaySchedule(ctx, userID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("schedule before setup error = %v, want ErrNotFound", err)
	}

	first := core.PaySchedule{
		UserID:        userID,
		Frequency:     core.FrequencyBiweekly,
		NextPayday:    date(2026, time.March, 13),
		TypicalNetPay: core.Money{Cents: 120000},
	}
	if err := repo.UpsertPaySchedule(ctx, first); err != nil {
		t.Fatalf("UpsertPaySchedule: %v", err)
	}

	// Second upsert replaces, not duplicates.
	first.NextPayday = date(2026, time.March, 27)
	first.TypicalNetPay = core.Money{Cents: 130000}
	if err := repo.UpsertPaySchedule(ctx, first); err != nil {
		t.Fatalf("UpsertPaySchedule update: %v", err)
	}

	got, err := repo.GetPaySchedule(ctx, userID)
	if err != nil {
		t.Fatalf("GetPaySchedule: %v", err)
	}
	if !got.NextPayday.Equal(date(2026, time.March, 27)) {
		t.Errorf("NextPayday = %v, want 2026-03-27", got.NextPayday)
	}
	if got.TypicalNetPay.Cents != 130000 {
		t.Errorf("TypicalNetPay = %d, want 130000", got.TypicalNetPay.Cents)
	}

	ids, err := repo.UserIDsWithSchedules(ctx)
	if err != nil {
		t.Fatalf("UserIDsWithSchedules: %v", err)
	}
	if len(ids) != 1 || ids[0] != userID {
		t.Errorf("UserIDsWithSchedules = %v, want [%d]", ids, userID)
	}
}

func TestTransactionsAndTotals(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := mustCreateUser(t, repo, "sam@example.com")
	otherID := mustCreateUser(t, repo, "other@example.com")

	insert := func(kind core.Kind, cents int64, category string, day int) int64 {
		t.Helper()
		id, err := repo.CreateTransaction(ctx, core.Transaction{
			UserID:     userID,
			Kind:       kind,
			Amount:     core.Money{Cents: cents},
			Category:   category,
			OccurredOn: date(2026, time.March, day),
		})
		if err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
		return id
	}

	insert(core.KindExpense, 2500, "Groceries", 2)
	insert(core.KindExpense, 1200, "Coffee", 4)
	insert(core.KindExpense, 3000, "Groceries", 5)
	insert(core.KindIncome, 5000, "Other", 3)
	// Outside the queried window.
	insert(core.KindExpense, 9999, "Groceries", 20)
	// Another user's row must not leak in.
	if _, err := repo.CreateTransaction(ctx, core.Transaction{
		UserID: otherID, Kind: core.KindExpense, Amount: core.Money{Cents: 7777},
		Category: "Groceries", OccurredOn: date(2026, time.March, 3),
	}); err != nil {
		t.Fatalf("CreateTransaction other user: %v", err)
	}

	income, expense, err := repo.PeriodTotals(ctx, userID, date(2026, time.March, 1), date(2026, time.March, 10))
	if err != nil {
		t.Fatalf("PeriodTotals: %v", err)
	}
	if income.Cents != 5000 {
		t.Errorf("income = %d, want 5000", income.Cents)
	}
	if expense.Cents != 6700 {
		t.Errorf("expense = %d, want 6700", expense.Cents)
	}

	byCat, err := repo.ExpenseTotalsByCategory(ctx, userID, date(2026, time.March, 1), date(2026, time.March, 10))
	if err != nil {
		t.Fatalf("ExpenseTotalsByCategory: %v", err)
	}
	if len(byCat) != 2 {
		t.Fatalf("got %d categories, want 2: %+v", len(byCat), byCat)
	}
	if byCat[0].Category != "Groceries" || byCat[0].Total.Cents != 5500 {
		t.Errorf("top category = %+v, want Groceries 5500", byCat[0])
	}

	all, err := repo.ListTransactions(ctx, userID, TransactionFilter{})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("got %d transactions, want 5", len(all))
	}
	// Newest first.
	if !all[0].OccurredOn.Equal(date(2026, time.March, 20)) {
		t.Errorf("first row occurred %v, want 2026-03-20", all[0].OccurredOn)
	}

	groceries, err := repo.ListTransactions(ctx, userID, TransactionFilter{Category: "Groceries"})
	if err != nil {
		t.Fatalf("ListTransactions category filter: %v", err)
	}
	if len(groceries) != 3 {
		t.Errorf("got %d grocery rows, want 3", len(groceries))
	}

	incomeOnly, err := repo.ListTransactions(ctx, userID, TransactionFilter{Kind: core.KindIncome})
	if err != nil {
		t.Fatalf("ListTransactions kind filter: %v", err)
	}
	if len(incomeOnly) != 1 || incomeOnly[0].Amount.Cents != 5000 {
		t.Errorf("income filter rows = %+v", incomeOnly)
	}
}

func TestGetTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := mustCreateUser(t, repo, "sam@example.com")

	id, err := repo.CreateTransaction(ctx, core.Transaction{
		UserID: userID, Kind: core.KindExpense, Amount: core.Money{Cents: 1234},
		Category: "Coffee", OccurredOn: date(2026, time.March, 5), Note: "latte",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	got, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Note != "latte" || got.Amount.Cents != 1234 || got.Kind != core.KindExpense {
		t.Errorf("unexpected transaction: %+v", got)
	}

	if _, err := repo.GetTransaction(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing transaction error = %v, want ErrNotFound", err)
	}
}

func TestBudgetUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := mustCreateUser(t, repo, "sam@example.com")

	if err := repo.UpsertBudget(ctx, core.Budget{UserID: userID, Category: "Groceries", Limit: core.Money{Cents: 10000}}); err != nil {
		t.Fatalf("UpsertBudget: %v", err)
	}
	if err := repo.UpsertBudget(ctx, core.Budget{UserID: userID, Category: "Groceries", Limit: core.Money{Cents: 15000}}); err != nil {
		t.Fatalf("UpsertBudget update: %v", err)
	}
	if err := repo.UpsertBudget(ctx, core.Budget{UserID: userID, Category: "Coffee", Limit: core.Money{Cents: 3000}}); err != nil {
		t.Fatalf("UpsertBudget second category: %v", err)
	}

	budgets, err := repo.ListBudgets(ctx, userID)
	if err != nil {
		t.Fatalf("ListBudgets: %v", err)
	}
	if len(budgets) != 2 {
		t.Fatalf("got %d budgets, want 2", len(budgets))
	}
	// Alphabetical: Coffee before Groceries.
	if budgets[0].Category != "Coffee" || budgets[1].Limit.Cents != 15000 {
		t.Errorf("unexpected budgets: %+v", budgets)
	}
}

func TestBillsLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := mustCreateUser(t, repo, "sam@example.com")
	otherID := mustCreateUser(t, repo, "other@example.com")

	rentID, err := repo.CreateBill(ctx, core.RecurringBill{UserID: userID, Name: "Rent", Amount: core.Money{Cents: 80000}, DueDay: 1})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if _, err := repo.CreateBill(ctx, core.RecurringBill{UserID: userID, Name: "Phone", Amount: core.Money{Cents: 4500}, DueDay: 10}); err != nil {
		t.Fatalf("CreateBill: %v", err)
	}

	bills, err := repo.ListActiveBills(ctx, userID)
	if err != nil {
		t.Fatalf("ListActiveBills: %v", err)
	}
	if len(bills) != 2 || bills[0].Name != "Rent" {
		t.Fatalf("unexpected bills: %+v", bills)
	}

	// Only the owner can deactivate.
	if err := repo.DeactivateBill(ctx, otherID, rentID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-user deactivate error = %v, want ErrNotFound", err)
	}
	if err := repo.DeactivateBill(ctx, userID, rentID); err != nil {
		t.Fatalf("DeactivateBill: %v", err)
	}

	bills, err = repo.ListActiveBills(ctx, userID)
	if err != nil {
		t.Fatalf("ListActiveBills after deactivate: %v", err)
	}
	if len(bills) != 1 || bills[0].Name != "Phone" {
		t.Errorf("unexpected bills after deactivate: %+v", bills)
	}
}

func TestExportStatusFlow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	userID := mustCreateUser(t, repo, "sam@example.com")

	var ids []int64
	for day := 1; day <= 3; day++ {
		id, err := repo.CreateTransaction(ctx, core.Transaction{
			UserID: userID, Kind: core.KindExpense, Amount: core.Money{Cents: 100},
			Category: "Coffee", OccurredOn: date(2026, time.March, day),
		})
		if err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
		ids = append(ids, id)
	}

	pending, err := repo.PendingExportIDs(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExportIDs: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("got %d pending, want 3", len(pending))
	}

	if err := repo.MarkExported(ctx, ids[0]); err != nil {
		t.Fatalf("MarkExported: %v", err)
	}
	if err := repo.MarkExportError(ctx, ids[1]); err != nil {
		t.Fatalf("MarkExportError: %v", err)
	}

	pending, err = repo.PendingExportIDs(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExportIDs after marks: %v", err)
	}
	if len(pending) != 1 || pending[0] != ids[2] {
		t.Errorf("pending = %v, want [%d]", pending, ids[2])
	}

	// Batch limit is respected.
	limited, err := repo.PendingExportIDs(ctx, 0)
	if err != nil {
		t.Fatalf("PendingExportIDs limit 0: %v", err)
	}
	if len(limited) != 0 {
		t.Errorf("limit 0 returned %v", limited)
	}

	if err := repo.MarkExported(ctx, 9999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("mark missing row error = %v, want ErrNotFound", err)
	}
}
