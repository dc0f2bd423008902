package projection

import (
	"time"

	"cloud.google.com/go/civil"
)

// The core works exclusively on civil.Date values: calendar days with no
// time-of-day or zone component, so window math can never drift across a
// timezone boundary.

// Today returns the current calendar day in UTC.
func Today() civil.Date {
	return civil.DateOf(time.Now().UTC())
}

func daysIn(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampToMonth places d on targetDay within its own month, clamped to the
// month's actual length (anchor 31 becomes Feb 28/29).
func clampToMonth(d civil.Date, targetDay int) civil.Date {
	max := daysIn(d.Year, d.Month)
	day := targetDay
	if day > max {
		day = max
	}
	return civil.Date{Year: d.Year, Month: d.Month, Day: day}
}

// addMonths moves d forward n months, landing on the first of the resulting
// month. Callers re-apply their day anchor afterwards, which sidesteps the
// Oct 31 + 1 month = Dec 1 normalization surprise.
func addMonths(d civil.Date, n int) civil.Date {
	t := time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return civil.Date{Year: t.Year(), Month: t.Month(), Day: 1}
}

func addYears(d civil.Date, n int) civil.Date {
	// Feb 29 anchors clamp to Feb 28 in non-leap years.
	return clampToMonth(civil.Date{Year: d.Year + n, Month: d.Month, Day: 1}, d.Day)
}

func weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

func minDate(a, b civil.Date) civil.Date {
	if b.Before(a) {
		return b
	}
	return a
}

// StartOfWeek returns the Sunday on or before d.
func StartOfWeek(d civil.Date) civil.Date {
	return d.AddDays(-int(weekday(d)))
}

// EndOfWeek returns the Saturday on or after d.
func EndOfWeek(d civil.Date) civil.Date {
	return StartOfWeek(d).AddDays(6)
}

// StartOfMonth returns the first day of d's month.
func StartOfMonth(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

// EndOfMonth returns the last day of d's month.
func EndOfMonth(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: daysIn(d.Year, d.Month)}
}

// StartOfYear returns January 1 of d's year.
func StartOfYear(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: time.January, Day: 1}
}

// EndOfYear returns December 31 of d's year.
func EndOfYear(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: time.December, Day: 31}
}
