package http

import (
	"log/slog"
	"net/http"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/core"
)

type budgetRow struct {
	Category  string
	Limit     string
	Spent     string
	Remaining string
	Percent   int
	Status    string
}

type budgetsPage struct {
	Flash      string
	Rows       []budgetRow
	Categories []string
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request, userID int64) {
	switch r.Method {
	case http.MethodGet:
		usage, err := s.dashboard.BudgetUsage(r.Context(), userID)
		if err != nil {
			slog.ErrorContext(r.Context(), "Budget usage error", "error", err, "user_id", userID)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		page := budgetsPage{Flash: popFlash(w, r), Categories: core.DefaultCategories}
		for _, u := range usage {
			page.Rows = append(page.Rows, budgetRow{
				Category:  u.Category,
				Limit:     formatDollars(u.Limit.Cents),
				Spent:     formatDollars(u.Spent.Cents),
				Remaining: formatDollars(u.Remaining.Cents),
				Percent:   u.Percent,
				Status:    string(u.Status),
			})
		}
		s.render(w, r, "budgets.html", page)
	case http.MethodPost:
		s.handleBudgetsPost(w, r, userID)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleBudgetsPost(w http.ResponseWriter, r *http.Request, userID int64) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	limitCents, err := core.ParseCents(r.Form.Get("limit"))
	if err != nil {
		setFlash(w, "Limit must be a positive amount like 200.00.")
		http.Redirect(w, r, "/budgets", http.StatusSeeOther)
		return
	}

	budget := core.Budget{
		UserID:   userID,
		Category: sanitizeInput(r.Form.Get("category")),
		Limit:    core.Money{Cents: limitCents},
	}
	if err := budget.Validate(); err != nil {
		setFlash(w, err.Error())
		http.Redirect(w, r, "/budgets", http.StatusSeeOther)
		return
	}

	if err := s.store.UpsertBudget(r.Context(), budget); err != nil {
		slog.ErrorContext(r.Context(), "Save budget error", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "Budget saved.")
	http.Redirect(w, r, "/budgets", http.StatusSeeOther)
}
