package projection

import (
	"sort"

	"cloud.google.com/go/civil"

	"tracksuite/internal/models"
)

// Expand turns a recurrence rule into the sorted list of occurrence days
// falling inside [windowStart, windowEnd], both bounds inclusive. It is a
// pure function of its inputs. Iteration starts at the rule's own start date
// even when that is before the window, so weekly and monthly patterns stay
// phase-anchored; only days >= windowStart are returned.
func Expand(rule *models.RecurrenceRule, windowStart, windowEnd civil.Date) []civil.Date {
	if rule == nil {
		return nil
	}
	start := rule.StartDate
	if rule.EndDate != nil && rule.EndDate.Before(windowStart) {
		return nil
	}
	if start.After(windowEnd) {
		return nil
	}

	end := windowEnd
	if rule.EndDate != nil {
		end = minDate(end, *rule.EndDate)
	}

	// Boundary validation rejects interval < 1; default defensively here so
	// bad input can never loop forever.
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	var dates []civil.Date
	emit := func(d civil.Date) {
		if !d.Before(windowStart) {
			dates = append(dates, d)
		}
	}

	switch rule.Frequency {
	case models.FreqDaily, models.FreqCustom:
		for cur := start; !cur.After(end); cur = cur.AddDays(interval) {
			emit(cur)
		}

	case models.FreqWeekly:
		cur := start
		if rule.DayOfWeek != nil {
			// advance to the next matching weekday, 0 days if already there
			diff := (*rule.DayOfWeek - int(weekday(cur)) + 7) % 7
			cur = cur.AddDays(diff)
		}
		for ; !cur.After(end); cur = cur.AddDays(7 * interval) {
			emit(cur)
		}

	case models.FreqBiweekly:
		// fixed two-week stride from the rule start; interval is not used
		for cur := start; !cur.After(end); cur = cur.AddDays(14) {
			emit(cur)
		}

	case models.FreqMonthly:
		anchor := start.Day
		if rule.DayOfMonth != nil {
			anchor = *rule.DayOfMonth
		}
		cur := clampToMonth(start, anchor)
		for !cur.After(end) {
			emit(cur)
			cur = clampToMonth(addMonths(cur, interval), anchor)
		}

	case models.FreqSemiMonthly:
		for month := StartOfMonth(start); !month.After(end); month = addMonths(month, 1) {
			for _, day := range rule.DaysOfMonth {
				d := clampToMonth(month, day)
				if !d.Before(start) && !d.After(end) {
					emit(d)
				}
			}
		}

	case models.FreqAnnually:
		for cur := start; !cur.After(end); cur = addYears(cur, interval) {
			emit(cur)
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
