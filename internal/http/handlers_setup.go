package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/core"
)

type setupPage struct {
	Flash      string
	NextPayday string
	NetPay     string
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request, userID int64) {
	switch r.Method {
	case http.MethodGet:
		page := setupPage{Flash: popFlash(w, r)}
		schedule, err := s.store.GetPaySchedule(r.Context(), userID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			slog.ErrorContext(r.Context(), "Load pay schedule error", "error", err, "user_id", userID)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if schedule != nil {
			page.NextPayday = ymd(schedule.NextPayday)
			page.NetPay = schedule.TypicalNetPay.String()
		}
		s.render(w, r, "setup.html", page)
	case http.MethodPost:
		s.handleSetupPost(w, r, userID)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSetupPost(w http.ResponseWriter, r *http.Request, userID int64) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	nextPayday, err := parseDate(r.Form.Get("next_payday"))
	if err != nil {
		setFlash(w, "Next payday must be a date like 2026-03-13.")
		http.Redirect(w, r, "/setup", http.StatusSeeOther)
		return
	}

	netPayCents, err := core.ParseCents(r.Form.Get("typical_net_pay"))
	if err != nil {
		setFlash(w, "Typical net pay must be a positive amount like 1250.00.")
		http.Redirect(w, r, "/setup", http.StatusSeeOther)
		return
	}

	schedule := core.PaySchedule{
		UserID:        userID,
		Frequency:     core.FrequencyBiweekly,
		NextPayday:    nextPayday,
		TypicalNetPay: core.Money{Cents: netPayCents},
	}
	if err := schedule.Validate(); err != nil {
		setFlash(w, err.Error())
		http.Redirect(w, r, "/setup", http.StatusSeeOther)
		return
	}

	if err := s.store.UpsertPaySchedule(r.Context(), schedule); err != nil {
		slog.ErrorContext(r.Context(), "Save pay schedule error", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.dashboard.Invalidate(userID)
	setFlash(w, "Pay schedule saved.")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
