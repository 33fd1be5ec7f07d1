package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/core"
)

type billRow struct {
	ID      int64
	Name    string
	Amount  string
	DueDay  int
	NextDue string
}

type billsPage struct {
	Flash string
	Rows  []billRow
}

func (s *Server) handleBills(w http.ResponseWriter, r *http.Request, userID int64) {
	switch r.Method {
	case http.MethodGet:
		bills, err := s.store.ListActiveBills(r.Context(), userID)
		if err != nil {
			slog.ErrorContext(r.Context(), "List bills error", "error", err, "user_id", userID)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		today := core.DateOf(time.Now())
		page := billsPage{Flash: popFlash(w, r)}
		for _, b := range bills {
			page.Rows = append(page.Rows, billRow{
				ID:      b.ID,
				Name:    b.Name,
				Amount:  formatDollars(b.Amount.Cents),
				DueDay:  b.DueDay,
				NextDue: ymd(core.NextDueDate(b.DueDay, today)),
			})
		}
		s.render(w, r, "bills.html", page)
	case http.MethodPost:
		s.handleBillsPost(w, r, userID)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleBillsPost(w http.ResponseWriter, r *http.Request, userID int64) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	amountCents, err := core.ParseCents(r.Form.Get("amount"))
	if err != nil {
		setFlash(w, "Amount must be a positive number like 45.00.")
		http.Redirect(w, r, "/bills", http.StatusSeeOther)
		return
	}

	dueDay, err := strconv.Atoi(r.Form.Get("due_day"))
	if err != nil {
		setFlash(w, "Due day must be a number between 1 and 31.")
		http.Redirect(w, r, "/bills", http.StatusSeeOther)
		return
	}

	bill := core.RecurringBill{
		UserID: userID,
		Name:   sanitizeInput(r.Form.Get("name")),
		Amount: core.Money{Cents: amountCents},
		DueDay: dueDay,
		Active: true,
	}
	if err := bill.Validate(); err != nil {
		setFlash(w, err.Error())
		http.Redirect(w, r, "/bills", http.StatusSeeOther)
		return
	}

	if _, err := s.store.CreateBill(r.Context(), bill); err != nil {
		slog.ErrorContext(r.Context(), "Create bill error", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.dashboard.Invalidate(userID)
	setFlash(w, "Bill added.")
	http.Redirect(w, r, "/bills", http.StatusSeeOther)
}

func (s *Server) handleDeactivateBill(w http.ResponseWriter, r *http.Request, userID int64) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	billID, err := strconv.ParseInt(r.Form.Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid bill id", http.StatusBadRequest)
		return
	}

	err = s.store.DeactivateBill(r.Context(), userID, billID)
	if errors.Is(err, core.ErrNotFound) {
		setFlash(w, "Bill not found.")
		http.Redirect(w, r, "/bills", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Deactivate bill error", "error", err, "user_id", userID, "bill_id", billID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.dashboard.Invalidate(userID)
	setFlash(w, "Bill removed.")
	http.Redirect(w, r, "/bills", http.StatusSeeOther)
}
