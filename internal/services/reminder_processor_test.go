package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/amqp"
	"github.com/JasvinK/Student-Paycheck-Buddy/internal/core"
)

type fakeReminderStore struct {
	users map[int64][]core.RecurringBill
	fail  bool
}

func (s *fakeReminderStore) UserIDsWithSchedules(_ context.Context) ([]int64, error) {
	if s.fail {
		return nil, errors.New("db down")
	}
	var ids []int64
	for id := range s.users {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *fakeReminderStore) ListActiveBills(_ context.Context, userID int64) ([]core.RecurringBill, error) {
	return s.users[userID], nil
}

type fakePublisher struct {
	published []*amqp.BillReminderMessage
	failAll   bool
}

func (p *fakePublisher) PublishBillReminder(_ context.Context, msg *amqp.BillReminderMessage) error {
	if p.failAll {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, msg)
	return nil
}

func TestProcessDueBills(t *testing.T) {
	store := &fakeReminderStore{users: map[int64][]core.RecurringBill{
		1: {
			{ID: 10, UserID: 1, Name: "Phone", Amount: core.Money{Cents: 4500}, DueDay: 8, Active: true},
			{ID: 11, UserID: 1, Name: "Rent", Amount: core.Money{Cents: 80000}, DueDay: 25, Active: true},
		},
	}}
	pub := &fakePublisher{}
	p := NewReminderProcessor(store, pub, 3)
	p.now = func() time.Time { return date(2026, time.March, 6) }

	sent, err := p.ProcessDueBills(context.Background())
	if err != nil {
		t.Fatalf("ProcessDueBills: %v", err)
	}
	// Phone (due March 8) falls inside the 3-day window, Rent does not.
	if sent != 1 {
		t.Fatalf("sent = %d, want 1", sent)
	}
	msg := pub.published[0]
	if msg.BillID != 10 || msg.UserID != 1 || msg.DueDate != "2026-03-08" || msg.AmountCents != 4500 {
		t.Errorf("unexpected reminder: %+v", msg)
	}
}

func TestProcessDueBillsDueTodayCounts(t *testing.T) {
	store := &fakeReminderStore{users: map[int64][]core.RecurringBill{
		1: {{ID: 10, UserID: 1, Name: "Phone", DueDay: 6, Active: true}},
	}}
	pub := &fakePublisher{}
	p := NewReminderProcessor(store, pub, 0)
	p.now = func() time.Time { return date(2026, time.March, 6) }

	sent, err := p.ProcessDueBills(context.Background())
	if err != nil {
		t.Fatalf("ProcessDueBills: %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1 for a bill due today with zero lookahead", sent)
	}
}

func TestProcessDueBillsNilPublisherLogsOnly(t *testing.T) {
	store := &fakeReminderStore{users: map[int64][]core.RecurringBill{
		1: {{ID: 10, UserID: 1, Name: "Phone", DueDay: 7, Active: true}},
	}}
	p := NewReminderProcessor(store, nil, 3)
	p.now = func() time.Time { return date(2026, time.March, 6) }

	sent, err := p.ProcessDueBills(context.Background())
	if err != nil {
		t.Fatalf("ProcessDueBills: %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1 even without a publisher", sent)
	}
}

func TestProcessDueBillsPublisherFailureSkips(t *testing.T) {
	store := &fakeReminderStore{users: map[int64][]core.RecurringBill{
		1: {{ID: 10, UserID: 1, Name: "Phone", DueDay: 7, Active: true}},
	}}
	p := NewReminderProcessor(store, &fakePublisher{failAll: true}, 3)
	p.now = func() time.Time { return date(2026, time.March, 6) }

	sent, err := p.ProcessDueBills(context.Background())
	if err != nil {
		t.Fatalf("publish failure should not abort the scan: %v", err)
	}
	if sent != 0 {
		t.Errorf("sent = %d, want 0", sent)
	}
}

func TestProcessDueBillsStoreError(t *testing.T) {
	p := NewReminderProcessor(&fakeReminderStore{fail: true}, &fakePublisher{}, 3)

	if _, err := p.ProcessDueBills(context.Background()); err == nil {
		t.Error("expected error when the user scan fails")
	}
}
