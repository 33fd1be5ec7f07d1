package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/services"
)

type dashboardBillRow struct {
	Name   string
	Amount string
	Due    string
}

type dashboardView struct {
	Flash       string
	PeriodStart string
	PeriodEnd   string
	NextPayday  string
	DaysLeft    int
	NetPay      string
	Income      string
	Expense     string
	Remaining   string
	Overspent   bool
	Bills       []dashboardBillRow
	BillsTotal  string
	AfterBills  string
	Allowance   string
	TopCategory string
	TopSpent    string
	HasTop      bool
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, userID int64) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sum, err := s.dashboard.Summary(r.Context(), userID)
	if errors.Is(err, services.ErrNoSchedule) {
		setFlash(w, "Set up your pay schedule first.")
		http.Redirect(w, r, "/setup", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard summary error", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	view := dashboardView{
		Flash:       popFlash(w, r),
		PeriodStart: ymd(sum.Period.Start),
		PeriodEnd:   ymd(sum.Period.End),
		NextPayday:  ymd(sum.Period.NextPayday),
		DaysLeft:    sum.DaysLeft,
		NetPay:      formatDollars(sum.TypicalNetPay.Cents),
		Income:      formatDollars(sum.Income.Cents),
		Expense:     formatDollars(sum.Expense.Cents),
		Remaining:   formatDollars(sum.Remaining.Cents),
		Overspent:   sum.Remaining.Cents < 0,
		BillsTotal:  formatDollars(sum.BillsTotal.Cents),
		AfterBills:  formatDollars(sum.AfterBills.Cents),
		Allowance:   formatDollars(sum.Allowance.Cents),
		TopCategory: sum.TopCategory,
		TopSpent:    formatDollars(sum.TopSpent.Cents),
		HasTop:      sum.HasTop,
	}
	for _, b := range sum.BillsDue {
		view.Bills = append(view.Bills, dashboardBillRow{
			Name:   b.Bill.Name,
			Amount: formatDollars(b.Bill.Amount.Cents),
			Due:    ymd(b.Due),
		})
	}

	s.render(w, r, "dashboard.html", view)
}
