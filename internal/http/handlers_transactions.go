package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/core"
	"github.com/JasvinK/Student-Paycheck-Buddy/internal/storage"
)

type transactionRow struct {
	Date     string
	Kind     string
	Category string
	Amount   string
	Note     string
}

type transactionsPage struct {
	Flash            string
	Rows             []transactionRow
	Categories       []string
	SelectedKind     string
	SelectedCategory string
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request, userID int64) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	filter := storage.TransactionFilter{}
	if kind := core.Kind(r.URL.Query().Get("kind")); kind.Valid() {
		filter.Kind = kind
	}
	filter.Category = sanitizeInput(r.URL.Query().Get("category"))

	rows, err := s.store.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions error", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page := transactionsPage{
		Flash:            popFlash(w, r),
		Categories:       core.DefaultCategories,
		SelectedKind:     string(filter.Kind),
		SelectedCategory: filter.Category,
	}
	for _, t := range rows {
		page.Rows = append(page.Rows, transactionRow{
			Date:     ymd(t.OccurredOn),
			Kind:     string(t.Kind),
			Category: t.Category,
			Amount:   formatDollars(t.Amount.Cents),
			Note:     t.Note,
		})
	}

	s.render(w, r, "transactions.html", page)
}

type transactionFormPage struct {
	Flash      string
	Categories []string
	Today      string
}

func (s *Server) handleNewTransaction(w http.ResponseWriter, r *http.Request, userID int64) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "transaction_form.html", transactionFormPage{
			Flash:      popFlash(w, r),
			Categories: core.DefaultCategories,
			Today:      ymd(time.Now()),
		})
	case http.MethodPost:
		s.handleNewTransactionPost(w, r, userID)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleNewTransactionPost(w http.ResponseWriter, r *http.Request, userID int64) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	amountCents, err := core.ParseCents(r.Form.Get("amount"))
	if err != nil {
		setFlash(w, "Amount must be a positive number like 12.50.")
		http.Redirect(w, r, "/transactions/new", http.StatusSeeOther)
		return
	}

	occurredOn := core.DateOf(time.Now())
	if raw := r.Form.Get("occurred_on"); raw != "" {
		occurredOn, err = parseDate(raw)
		if err != nil {
			setFlash(w, "Date must look like 2026-03-05.")
			http.Redirect(w, r, "/transactions/new", http.StatusSeeOther)
			return
		}
	}

	t := core.Transaction{
		UserID:     userID,
		Kind:       core.Kind(r.Form.Get("kind")),
		Amount:     core.Money{Cents: amountCents},
		Category:   sanitizeInput(r.Form.Get("category")),
		OccurredOn: occurredOn,
		Note:       sanitizeInput(r.Form.Get("note")),
	}
	if err := t.Validate(); err != nil {
		setFlash(w, err.Error())
		http.Redirect(w, r, "/transactions/new", http.StatusSeeOther)
		return
	}

	id, err := s.store.CreateTransaction(r.Context(), t)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create transaction error", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.dashboard.Invalidate(userID)

	// Export is best effort; the periodic sweep picks up anything missed.
	if s.exporter != nil {
		if err := s.exporter.PublishTransactionExport(r.Context(), id); err != nil {
			slog.WarnContext(r.Context(), "Queue transaction export failed", "error", err, "id", id)
		}
	}

	setFlash(w, "Transaction added.")
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}
