package projection

import (
	"cloud.google.com/go/civil"

	"tracksuite/internal/balance"
	"tracksuite/internal/models"
)

// simulate walks the window day by day, applying each materialized
// transaction to the running balances with the account-type rules from the
// balance package. Amounts are capped in place (credit limit, debt payoff,
// bank floor) and every reduction is reported as an alert; capping is the
// expected handling here, never an error.
//
// Balances are tracked for all accounts so both legs of a transfer stay
// consistent even when only one side is in scope for display; snapshots
// expose only the accounts in targetIDs.
func simulate(
	accounts map[string]*models.Account,
	txs []*Tx,
	start, end civil.Date,
	startBalances map[string]int64,
	targetIDs map[string]bool,
) ([]Snapshot, []Alert) {
	running := make(map[string]int64, len(startBalances))
	for id, bal := range startBalances {
		running[id] = bal
	}

	byDay := make(map[civil.Date][]*Tx)
	for _, t := range txs {
		byDay[t.Date] = append(byDay[t.Date], t)
	}

	var (
		timeline []Snapshot
		alerts   []Alert
	)

	for day := start; !day.After(end); day = day.AddDays(1) {
		dayTxs := byDay[day]

		for _, t := range dayTxs {
			if t.Type == models.TxTransfer && t.ToAccountID != "" {
				alerts = applyTransfer(accounts, running, t, alerts)
				continue
			}

			// Unresolvable account references are skipped, not fatal:
			// the rest of the projection must still come out.
			a, ok := accounts[t.AccountID]
			if !ok {
				continue
			}
			sem := balance.For(a)

			var (
				delta, applied int64
				reason         balance.Reason
			)
			if t.Type == models.TxCredit {
				delta, applied, reason = sem.ApplyCredit(running[t.AccountID], t.Amount)
			} else {
				delta, applied, reason = sem.ApplyDebit(running[t.AccountID], t.Amount)
			}
			running[t.AccountID] += delta

			if applied < t.Amount {
				alerts = append(alerts, Alert{
					Date:           t.Date,
					Description:    t.Description,
					AccountID:      t.AccountID,
					OriginalAmount: t.Amount,
					AdjustedAmount: applied,
					Reason:         reason,
					SourceID:       t.SourceID,
				})
				t.OriginalAmount = t.Amount
				t.Amount = applied
			}
		}

		snapshot := make(map[string]int64, len(targetIDs))
		for id := range targetIDs {
			if bal, ok := running[id]; ok {
				snapshot[id] = bal
			}
		}
		timeline = append(timeline, Snapshot{
			Date:         day,
			Balances:     snapshot,
			Transactions: dayTxs,
		})
	}

	return timeline, alerts
}

// applyTransfer settles both legs of a transfer atomically: the effective
// amount is capped first by the source's capacity to send, then by the
// destination's capacity to receive, and only then are the balances updated.
// The cap that produced the final amount decides the alert reason.
func applyTransfer(accounts map[string]*models.Account, running map[string]int64, t *Tx, alerts []Alert) []Alert {
	applied := t.Amount
	reason := balance.ReasonNone

	src, srcOK := accounts[t.AccountID]
	dst, dstOK := accounts[t.ToAccountID]

	if srcOK {
		if capped, r := balance.For(src).SendCap(running[t.AccountID], applied); capped < applied {
			applied, reason = capped, r
		}
	}
	if dstOK {
		if capped, r := balance.For(dst).ReceiveCap(running[t.ToAccountID], applied); capped < applied {
			applied, reason = capped, r
		}
	}

	if srcOK {
		running[t.AccountID] += balance.For(src).SendDelta(applied)
	}
	if dstOK {
		running[t.ToAccountID] += balance.For(dst).ReceiveDelta(applied)
	}

	// A fully capped transfer has zero effect but is still recorded, and
	// still alerts when something was requested.
	if applied < t.Amount {
		alerts = append(alerts, Alert{
			Date:           t.Date,
			Description:    t.Description,
			AccountID:      t.AccountID,
			ToAccountID:    t.ToAccountID,
			OriginalAmount: t.Amount,
			AdjustedAmount: applied,
			Reason:         reason,
			SourceID:       t.SourceID,
		})
		t.OriginalAmount = t.Amount
		t.Amount = applied
	}
	return alerts
}
