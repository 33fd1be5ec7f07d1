package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/amqp"
	"github.com/JasvinK/Student-Paycheck-Buddy/internal/core"
)

// ReminderStore is the slice of the repository the reminder scan needs.
type ReminderStore interface {
	UserIDsWithSchedules(ctx context.Context) ([]int64, error)
	ListActiveBills(ctx context.Context, userID int64) ([]core.RecurringBill, error)
}

// ReminderPublisher sends bill reminders downstream.
type ReminderPublisher interface {
	PublishBillReminder(ctx context.Context, msg *amqp.BillReminderMessage) error
}

// ReminderProcessor scans every user with a pay schedule and publishes a
// reminder for each active bill due within the lookahead window. With a nil
// publisher the reminders are only logged.
type ReminderProcessor struct {
	store     ReminderStore
	publisher ReminderPublisher
	lookahead int // days
	now       func() time.Time
}

func NewReminderProcessor(store ReminderStore, publisher ReminderPublisher, lookaheadDays int) *ReminderProcessor {
	return &ReminderProcessor{
		store:     store,
		publisher: publisher,
		lookahead: lookaheadDays,
		now:       time.Now,
	}
}

// ProcessDueBills runs one scan and returns how many reminders went out.
// Per-user failures are logged and skipped so one bad row cannot stall the
// whole scan.
func (p *ReminderProcessor) ProcessDueBills(ctx context.Context) (int, error) {
	userIDs, err := p.store.UserIDsWithSchedules(ctx)
	if err != nil {
		return 0, fmt.Errorf("list scheduled users: %w", err)
	}

	today := core.DateOf(p.now())
	cutoff := today.AddDate(0, 0, p.lookahead)

	var sent int
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		bills, err := p.store.ListActiveBills(ctx, userID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load bills for reminder scan", "error", err, "user_id", userID)
			continue
		}

		for _, bill := range bills {
			due := core.NextDueDate(bill.DueDay, today)
			if due.After(cutoff) {
				continue
			}
			if err := p.remind(ctx, bill, due); err != nil {
				slog.ErrorContext(ctx, "Failed to publish bill reminder",
					"error", err, "user_id", userID, "bill_id", bill.ID)
				continue
			}
			sent++
		}
	}

	slog.InfoContext(ctx, "Reminder scan complete", "users", len(userIDs), "reminders", sent)
	return sent, nil
}

func (p *ReminderProcessor) remind(ctx context.Context, bill core.RecurringBill, due time.Time) error {
	if p.publisher == nil {
		slog.InfoContext(ctx, "Bill due soon",
			"user_id", bill.UserID,
			"bill", bill.Name,
			"amount_cents", bill.Amount.Cents,
			"due", due.Format("2006-01-02"))
		return nil
	}
	return p.publisher.PublishBillReminder(ctx, &amqp.BillReminderMessage{
		UserID:      bill.UserID,
		BillID:      bill.ID,
		Name:        bill.Name,
		AmountCents: bill.Amount.Cents,
		DueDate:     due.Format("2006-01-02"),
		Timestamp:   p.now(),
	})
}
