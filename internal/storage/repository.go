// Package storage implements the SQLite repository behind the web app and
// the background workers.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/core"
)

const dateLayout = "2006-01-02"

// listLimit caps transaction listings to keep pages bounded.
const listLimit = 200

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database, applies migrations, and returns a
// ready repository.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, email, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash) VALUES (?, ?)`,
		email, passwordHash,
	)
	if err != nil {
		// modernc/sqlite reports constraint violations through the error text.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, core.ErrEmailTaken
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash FROM users WHERE email = ?`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return &u, nil
}

// --- pay schedules ---

func (r *SQLiteRepository) UpsertPaySchedule(ctx context.Context, s core.PaySchedule) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pay_schedules (user_id, frequency, next_payday, typical_net_pay_cents, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id) DO UPDATE SET
		   frequency = excluded.frequency,
		   next_payday = excluded.next_payday,
		   typical_net_pay_cents = excluded.typical_net_pay_cents,
		   updated_at = CURRENT_TIMESTAMP`,
		s.UserID, s.Frequency, s.NextPayday.Format(dateLayout), s.TypicalNetPay.Cents,
	)
	if err != nil {
		return fmt.Errorf("upsert pay schedule: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetPaySchedule(ctx context.Context, userID int64) (*core.PaySchedule, error) {
	var (
		s       core.PaySchedule
		rawDate string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, frequency, next_payday, typical_net_pay_cents
		 FROM pay_schedules WHERE user_id = ?`,
		userID,
	).Scan(&s.UserID, &s.Frequency, &rawDate, &s.TypicalNetPay.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select pay schedule: %w", err)
	}
	s.NextPayday, err = time.Parse(dateLayout, rawDate)
	if err != nil {
		return nil, fmt.Errorf("parse next payday %q: %w", rawDate, err)
	}
	return &s, nil
}

// UserIDsWithSchedules lists every user that has completed setup, for the
// reminder worker's scan.
func (r *SQLiteRepository) UserIDsWithSchedules(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM pay_schedules ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("select scheduled users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scheduled users: %w", err)
	}
	return ids, nil
}

// --- transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, kind, amount_cents, category, occurred_on, note)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, string(t.Kind), t.Amount.Cents, t.Category, t.OccurredOn.Format(dateLayout), t.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, kind, amount_cents, category, occurred_on, note
		 FROM transactions WHERE id = ?`,
		id,
	)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select transaction %d: %w", id, err)
	}
	return t, nil
}

// TransactionFilter narrows ListTransactions. Zero values mean no filter.
type TransactionFilter struct {
	Kind     core.Kind
	Category string
}

// ListTransactions returns the user's newest transactions first, capped at
// 200 rows.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, f TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT id, user_id, kind, amount_cents, category, occurred_on, note
		FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if f.Kind != "" {
		query += " AND kind = ?"
		args = append(args, string(f.Kind))
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}
	query += " ORDER BY occurred_on DESC, id DESC LIMIT ?"
	args = append(args, listLimit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*core.Transaction, error) {
	var (
		t       core.Transaction
		kind    string
		rawDate string
	)
	if err := row.Scan(&t.ID, &t.UserID, &kind, &t.Amount.Cents, &t.Category, &rawDate, &t.Note); err != nil {
		return nil, err
	}
	t.Kind = core.Kind(kind)
	occurred, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return nil, fmt.Errorf("parse occurred_on %q: %w", rawDate, err)
	}
	t.OccurredOn = occurred
	return &t, nil
}

// PeriodTotals sums income and expense amounts with occurred_on inside
// [start, end], bounds inclusive.
func (r *SQLiteRepository) PeriodTotals(ctx context.Context, userID int64, start, end time.Time) (income, expense core.Money, err error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, COALESCE(SUM(amount_cents), 0)
		 FROM transactions
		 WHERE user_id = ? AND occurred_on BETWEEN ? AND ?
		 GROUP BY kind`,
		userID, start.Format(dateLayout), end.Format(dateLayout),
	)
	if err != nil {
		return core.Money{}, core.Money{}, fmt.Errorf("select period totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind  string
			total int64
		)
		if err := rows.Scan(&kind, &total); err != nil {
			return core.Money{}, core.Money{}, fmt.Errorf("scan period total: %w", err)
		}
		switch core.Kind(kind) {
		case core.KindIncome:
			income.Cents = total
		case core.KindExpense:
			expense.Cents = total
		}
	}
	if err := rows.Err(); err != nil {
		return core.Money{}, core.Money{}, fmt.Errorf("iterate period totals: %w", err)
	}
	return income, expense, nil
}

// ExpenseTotalsByCategory sums expenses per category inside [start, end],
// largest first.
func (r *SQLiteRepository) ExpenseTotalsByCategory(ctx context.Context, userID int64, start, end time.Time) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, COALESCE(SUM(amount_cents), 0) AS total
		 FROM transactions
		 WHERE user_id = ? AND kind = 'expense' AND occurred_on BETWEEN ? AND ?
		 GROUP BY category
		 ORDER BY total DESC, category ASC`,
		userID, start.Format(dateLayout), end.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("select category totals: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return out, nil
}

// --- budgets ---

func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, limit_cents)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, category) DO UPDATE SET limit_cents = excluded.limit_cents`,
		b.UserID, b.Category, b.Limit.Cents,
	)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, category, limit_cents FROM budgets WHERE user_id = ? ORDER BY category`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.UserID, &b.Category, &b.Limit.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

// --- recurring bills ---

func (r *SQLiteRepository) CreateBill(ctx context.Context, b core.RecurringBill) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_bills (user_id, name, amount_cents, due_day, active)
		 VALUES (?, ?, ?, ?, 1)`,
		b.UserID, b.Name, b.Amount.Cents, b.DueDay,
	)
	if err != nil {
		return 0, fmt.Errorf("insert bill: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("bill insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListActiveBills(ctx context.Context, userID int64) ([]core.RecurringBill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, amount_cents, due_day, active
		 FROM recurring_bills
		 WHERE user_id = ? AND active = 1
		 ORDER BY due_day, name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select active bills: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringBill
	for rows.Next() {
		var b core.RecurringBill
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount.Cents, &b.DueDay, &b.Active); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bills: %w", err)
	}
	return out, nil
}

// DeactivateBill clears the active flag on the user's bill. A bill that
// does not exist or belongs to another user reports ErrNotFound.
func (r *SQLiteRepository) DeactivateBill(ctx context.Context, userID, billID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurring_bills SET active = 0 WHERE id = ? AND user_id = ?`,
		billID, userID,
	)
	if err != nil {
		return fmt.Errorf("deactivate bill: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate bill rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// --- export pipeline ---

// PendingExportIDs returns transaction IDs still waiting for export, oldest
// first, capped at limit.
func (r *SQLiteRepository) PendingExportIDs(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM transactions WHERE export_status = 'pending' ORDER BY id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select pending exports: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending export id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending exports: %w", err)
	}
	return ids, nil
}

func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	return r.setExportStatus(ctx, id, "synced")
}

func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	return r.setExportStatus(ctx, id, "error")
}

func (r *SQLiteRepository) setExportStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET export_status = ? WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("set export status %s: %w", status, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("export status rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}
