package core

import "time"

// BillOccurrence pairs a bill with its projected next due date.
type BillOccurrence struct {
	Bill RecurringBill
	Due  time.Time
}

// NextDueDate projects the next calendar date a monthly due day lands on.
// The due day is clamped to the month's length (a day-31 bill falls due on
// Feb 28/29), and a date already behind today rolls into the next month,
// clamped again.
func NextDueDate(dueDay int, today time.Time) time.Time {
	today = DateOf(today)
	due := clampedDate(today.Year(), today.Month(), dueDay)
	if due.Before(today) {
		next := today.AddDate(0, 0, -today.Day()+1).AddDate(0, 1, 0)
		due = clampedDate(next.Year(), next.Month(), dueDay)
	}
	return due
}

// clampedDate builds a date with the day capped at the month's last day.
func clampedDate(year int, month time.Month, day int) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// UpcomingBills selects the active bills whose next occurrence lands
// strictly before the cutoff, preserving input order, and sums their
// amounts.
func UpcomingBills(bills []RecurringBill, today, cutoff time.Time) ([]BillOccurrence, Money) {
	var due []BillOccurrence
	var total int64
	limit := DateOf(cutoff)
	for _, b := range bills {
		if !b.Active {
			continue
		}
		next := NextDueDate(b.DueDay, today)
		if next.Before(limit) {
			due = append(due, BillOccurrence{Bill: b, Due: next})
			total += b.Amount.Cents
		}
	}
	return due, Money{Cents: total}
}
