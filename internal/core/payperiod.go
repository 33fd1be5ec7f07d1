package core

import "time"

// PayPeriod is the running 14-day window between paychecks.
type PayPeriod struct {
	Start      time.Time
	End        time.Time
	NextPayday time.Time
}

// CurrentPayPeriod derives the running period from the stored next payday:
// the period ends the day before payday and starts 13 days earlier. The
// window stays anchored to the stored date even when that date has passed.
func CurrentPayPeriod(nextPayday time.Time) PayPeriod {
	end := DateOf(nextPayday).AddDate(0, 0, -1)
	return PayPeriod{
		Start:      end.AddDate(0, 0, -13),
		End:        end,
		NextPayday: DateOf(nextPayday),
	}
}

// Contains reports whether d falls inside the period, bounds inclusive.
// Comparison is by calendar day.
func (p PayPeriod) Contains(d time.Time) bool {
	day := DateOf(d)
	return !day.Before(p.Start) && !day.After(p.End)
}

// DaysLeft counts today through the period end, inclusive. It never returns
// less than one so the allowance denominator stays positive.
func (p PayPeriod) DaysLeft(today time.Time) int {
	days := int(p.End.Sub(DateOf(today)).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days
}

// DailyAllowance spreads the remaining cash over the days left in the
// period. Floor division keeps a negative remainder negative instead of
// rounding it toward zero.
func DailyAllowance(remaining Money, period PayPeriod, today time.Time) Money {
	return Money{Cents: floorDiv(remaining.Cents, int64(period.DaysLeft(today)))}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// DateOf truncates t to midnight UTC, the granularity all period and bill
// math works at.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
