package projection

import "cloud.google.com/go/civil"

// aggregate re-buckets a daily timeline into weekly or monthly snapshots.
// Weekly buckets are the Sunday-anchored calendar weeks overlapping the
// window; monthly buckets are calendar months. Each bucket takes the balance
// snapshot of its last contained day and the concatenation of all its days'
// transactions. Daily input comes back unchanged.
func aggregate(timeline []Snapshot, granularity Granularity) []Snapshot {
	if granularity == Daily || len(timeline) == 0 {
		return timeline
	}

	first := timeline[0].Date
	last := timeline[len(timeline)-1].Date

	type span struct{ start, end civil.Date }
	var spans []span
	switch granularity {
	case Weekly:
		for ws := StartOfWeek(first); !ws.After(last); ws = ws.AddDays(7) {
			spans = append(spans, span{ws, ws.AddDays(6)})
		}
	case Monthly:
		for ms := StartOfMonth(first); !ms.After(last); ms = addMonths(ms, 1) {
			spans = append(spans, span{ms, EndOfMonth(ms)})
		}
	}

	out := make([]Snapshot, 0, len(spans))
	i := 0
	for _, s := range spans {
		var (
			txs     []*Tx
			lastDay *Snapshot
		)
		// timeline is sorted, so each bucket consumes a contiguous run
		for i < len(timeline) && !timeline[i].Date.After(s.end) {
			if !timeline[i].Date.Before(s.start) {
				txs = append(txs, timeline[i].Transactions...)
				lastDay = &timeline[i]
			}
			i++
		}
		if lastDay == nil {
			// daily timelines are exhaustive, so an empty bucket means the
			// span fell entirely outside the window
			continue
		}
		out = append(out, Snapshot{
			Date:         s.start,
			Balances:     lastDay.Balances,
			Transactions: txs,
		})
	}
	return out
}
