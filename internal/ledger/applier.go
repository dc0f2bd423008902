// Package ledger applies transaction effects to persisted account balances
// when transactions are created, updated or deleted. It shares the balance
// package's rule table with the projection simulator, so a stored balance
// and a projected one can never disagree about what a transaction did.
package ledger

import (
	"cloud.google.com/go/civil"

	"tracksuite/internal/balance"
	"tracksuite/internal/models"
)

// ShouldApply reports whether a transaction's effect belongs on stored
// balances right now: recurring rules never touch them (their occurrences
// are synthetic), and future-dated transactions wait until their day comes.
func ShouldApply(t *models.Transaction, today civil.Date) bool {
	return !t.IsRecurring && !t.Day().After(today)
}

// Apply folds t's effect into the given accounts, capping the amount with
// the same rules the projection simulator uses. dst is only consulted for
// transfers. It returns the amount actually applied and, when that is less
// than requested, the constraint that bound it. Callers persist the mutated
// balances and store the applied amount on the transaction row.
func Apply(t *models.Transaction, src, dst *models.Account) (int64, balance.Reason) {
	if t.Type == models.TxTransfer {
		return applyTransfer(t.Amount, src, dst)
	}
	if src == nil {
		return 0, balance.ReasonNone
	}

	sem := balance.For(src)
	var (
		delta, applied int64
		reason         balance.Reason
	)
	if t.Type == models.TxCredit {
		delta, applied, reason = sem.ApplyCredit(src.Balance, t.Amount)
	} else {
		delta, applied, reason = sem.ApplyDebit(src.Balance, t.Amount)
	}
	src.Balance += delta
	return applied, reason
}

func applyTransfer(amount int64, src, dst *models.Account) (int64, balance.Reason) {
	applied := amount
	reason := balance.ReasonNone

	if src != nil {
		if capped, r := balance.For(src).SendCap(src.Balance, applied); capped < applied {
			applied, reason = capped, r
		}
	}
	if dst != nil {
		if capped, r := balance.For(dst).ReceiveCap(dst.Balance, applied); capped < applied {
			applied, reason = capped, r
		}
	}

	if src != nil {
		src.Balance += balance.For(src).SendDelta(applied)
	}
	if dst != nil {
		dst.Balance += balance.For(dst).ReceiveDelta(applied)
	}
	return applied, reason
}

// Reverse undoes a previously applied transaction using its recorded
// (already capped) amount. Only call it when the transaction row says
// balanceApplied.
func Reverse(t *models.Transaction, src, dst *models.Account) {
	if t.Type == models.TxTransfer {
		// legs reverse independently, mirroring how Apply settles them
		if src != nil {
			src.Balance -= balance.For(src).SendDelta(t.Amount)
		}
		if dst != nil {
			dst.Balance -= balance.For(dst).ReceiveDelta(t.Amount)
		}
		return
	}
	if src == nil {
		return
	}
	src.Balance -= balance.EffectDelta(src.Type, t.Type, t.Amount)
}
