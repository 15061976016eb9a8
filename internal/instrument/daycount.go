package instrument

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayCount selects the accrual convention used when projecting bullet
// interest. The convention for this product set is not fixed by the business
// side yet, so it stays a parameter rather than a constant.
type DayCount string

const (
	// ACT365F divides actual days by a fixed 365-day year. Default.
	ACT365F DayCount = "ACT/365F"
	// ACT360 divides actual days by a 360-day year.
	ACT360 DayCount = "ACT/360"
)

var (
	days365 = decimal.NewFromInt(365)
	days360 = decimal.NewFromInt(360)
)

// YearFraction computes the year fraction between two dates under the
// convention. Unknown conventions fall back to ACT/365F.
func (dc DayCount) YearFraction(start, end time.Time) decimal.Decimal {
	days := decimal.NewFromInt(int64(daysBetween(start, end)))
	switch dc {
	case ACT360:
		return days.Div(days360)
	default:
		return days.Div(days365)
	}
}

// daysBetween counts whole calendar days from a to b, negative when b is
// before a. Both dates are truncated to midnight UTC first so that wall-clock
// components never leak into day offsets.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
