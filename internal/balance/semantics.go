// Package balance holds the account-type sign and capping rules in one place.
// Both the projection simulator (hypothetical, read-only) and the ledger
// applier (persistence-time, mutating) dispatch through it, so the two can
// never disagree about what a credit, debit or transfer does to a balance.
package balance

import "tracksuite/internal/models"

// Reason identifies the constraint that forced an amount adjustment.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonCreditLimit         Reason = "credit_limit"
	ReasonDebtPaidOff         Reason = "debt_paid_off"
	ReasonInsufficientBalance Reason = "insufficient_balance"
)

// Semantics is the per-account-type balance behavior. All amounts are
// positive magnitudes in cents; deltas are signed changes to the stored
// balance. Applied amounts may be reduced (capped) below the requested
// amount, in which case a non-empty Reason says why.
type Semantics interface {
	// ApplyCredit handles income for bank accounts and payments for
	// credit_card/debt accounts.
	ApplyCredit(bal, amount int64) (delta, applied int64, reason Reason)
	// ApplyDebit handles expenses for bank accounts and charges for
	// credit_card/debt accounts.
	ApplyDebit(bal, amount int64) (delta, applied int64, reason Reason)

	// SendCap limits what this account can send as a transfer source.
	SendCap(bal, amount int64) (capped int64, reason Reason)
	// ReceiveCap limits what this account can absorb as a transfer
	// destination (a transfer cannot overpay a debt).
	ReceiveCap(bal, amount int64) (capped int64, reason Reason)
	// SendDelta is the signed balance change when this account sends amount.
	SendDelta(amount int64) int64
	// ReceiveDelta is the signed balance change when this account receives amount.
	ReceiveDelta(amount int64) int64
}

// For returns the semantics for an account.
func For(a *models.Account) Semantics {
	switch a.Type {
	case models.AccountCreditCard:
		limit, ok := a.Limit()
		return creditCard{limit: limit, hasLimit: ok}
	case models.AccountDebt:
		return debt{}
	default:
		return bank{}
	}
}

// EffectDelta is the uncapped signed balance change of a non-transfer
// transaction of the given type against the given account type. The rewind
// calculator and the ledger reversal path negate it to undo a recorded
// (already capped) amount.
func EffectDelta(accType models.AccountType, txType models.TransactionType, amount int64) int64 {
	owed := accType == models.AccountCreditCard || accType == models.AccountDebt
	if txType == models.TxCredit {
		if owed {
			return -amount
		}
		return amount
	}
	if owed {
		return amount
	}
	return -amount
}

// capAt limits amount to the non-negative headroom avail.
func capAt(avail, amount int64) int64 {
	if avail <= 0 {
		return 0
	}
	if amount > avail {
		return avail
	}
	return amount
}

type bank struct{}

func (bank) ApplyCredit(bal, amount int64) (int64, int64, Reason) {
	return amount, amount, ReasonNone
}

func (bank) ApplyDebit(bal, amount int64) (int64, int64, Reason) {
	applied := capAt(bal, amount)
	reason := ReasonNone
	if applied < amount {
		reason = ReasonInsufficientBalance
	}
	return -applied, applied, reason
}

func (b bank) SendCap(bal, amount int64) (int64, Reason) {
	capped := capAt(bal, amount)
	if capped < amount {
		return capped, ReasonInsufficientBalance
	}
	return capped, ReasonNone
}

func (bank) ReceiveCap(bal, amount int64) (int64, Reason) { return amount, ReasonNone }
func (bank) SendDelta(amount int64) int64                 { return -amount }
func (bank) ReceiveDelta(amount int64) int64              { return amount }

// creditCard balances store the amount owed; a positive balance means debt.
type creditCard struct {
	limit    int64
	hasLimit bool
}

func (creditCard) ApplyCredit(bal, amount int64) (int64, int64, Reason) {
	applied := capAt(bal, amount) // cannot pay off more than is owed
	reason := ReasonNone
	if applied < amount {
		reason = ReasonDebtPaidOff
	}
	return -applied, applied, reason
}

func (c creditCard) ApplyDebit(bal, amount int64) (int64, int64, Reason) {
	applied := amount
	reason := ReasonNone
	if c.hasLimit {
		applied = capAt(c.limit-bal, amount)
		if applied < amount {
			reason = ReasonCreditLimit
		}
	}
	return applied, applied, reason
}

func (c creditCard) SendCap(bal, amount int64) (int64, Reason) {
	if !c.hasLimit {
		return amount, ReasonNone
	}
	capped := capAt(c.limit-bal, amount)
	if capped < amount {
		return capped, ReasonCreditLimit
	}
	return capped, ReasonNone
}

func (creditCard) ReceiveCap(bal, amount int64) (int64, Reason) {
	capped := capAt(bal, amount)
	if capped < amount {
		return capped, ReasonDebtPaidOff
	}
	return capped, ReasonNone
}

func (creditCard) SendDelta(amount int64) int64    { return amount }
func (creditCard) ReceiveDelta(amount int64) int64 { return -amount }

// debt balances store the amount owed, like credit cards but with no limit.
type debt struct{}

func (debt) ApplyCredit(bal, amount int64) (int64, int64, Reason) {
	applied := capAt(bal, amount)
	reason := ReasonNone
	if applied < amount {
		reason = ReasonDebtPaidOff
	}
	return -applied, applied, reason
}

func (debt) ApplyDebit(bal, amount int64) (int64, int64, Reason) {
	return amount, amount, ReasonNone // increasing debt is uncapped
}

func (debt) SendCap(bal, amount int64) (int64, Reason) { return amount, ReasonNone }

func (debt) ReceiveCap(bal, amount int64) (int64, Reason) {
	capped := capAt(bal, amount)
	if capped < amount {
		return capped, ReasonDebtPaidOff
	}
	return capped, ReasonNone
}

func (debt) SendDelta(amount int64) int64    { return amount }
func (debt) ReceiveDelta(amount int64) int64 { return -amount }
