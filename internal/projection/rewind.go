package projection

import (
	"cloud.google.com/go/civil"

	"tracksuite/internal/balance"
	"tracksuite/internal/models"
)

// rewind reconstructs every account's balance as of the window start from
// its current persisted balance. Persisted balances reflect "now"; any
// effect known to have already landed on them inside the window has to be
// reversed to reach the window's opening state.
//
// A transaction is reversed iff its day is on or after the window start and
// either it is a one-time transaction whose effect was applied to the stored
// balance, or it is a recurring occurrence dated on or before today
// (recurring rows are never marked balanceApplied, so eligibility for those
// is purely date-based).
func rewind(accounts map[string]*models.Account, txs []*Tx, windowStart, today civil.Date) map[string]int64 {
	balances := make(map[string]int64, len(accounts))
	for id, a := range accounts {
		balances[id] = a.Balance
	}

	for _, t := range txs {
		if t.Date.Before(windowStart) {
			continue
		}
		if t.recurring {
			if t.Date.After(today) {
				continue
			}
		} else if !t.balanceApplied {
			continue
		}

		if t.Type == models.TxTransfer && t.ToAccountID != "" {
			// Each leg is reversed on its own: the simulator applies a leg
			// whenever its account resolves, so a transfer whose other
			// account has been deleted must still unwind the surviving side.
			if src, ok := accounts[t.AccountID]; ok {
				balances[t.AccountID] -= balance.For(src).SendDelta(t.Amount)
			}
			if dst, ok := accounts[t.ToAccountID]; ok {
				balances[t.ToAccountID] -= balance.For(dst).ReceiveDelta(t.Amount)
			}
			continue
		}

		a, ok := accounts[t.AccountID]
		if !ok {
			continue
		}
		balances[t.AccountID] -= balance.EffectDelta(a.Type, t.Type, t.Amount)
	}

	return balances
}
