package projection

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"tracksuite/internal/balance"
	"tracksuite/internal/models"
)

// fixed "today" so historical/projected classification cannot drift with
// the wall clock
var today = day(2025, time.June, 15)

func bankAccount(id string, balance int64) models.Account {
	return models.Account{ID: id, Name: id, Type: models.AccountBank, Balance: balance}
}

func creditCardAccount(id string, owed, limit int64) models.Account {
	return models.Account{ID: id, Name: id, Type: models.AccountCreditCard, Balance: owed, CreditLimit: &limit}
}

func debtAccount(id string, owed int64) models.Account {
	return models.Account{ID: id, Name: id, Type: models.AccountDebt, Balance: owed}
}

func oneTime(id, accountID string, txType models.TransactionType, amount int64, on civil.Date, applied bool) models.Transaction {
	return models.Transaction{
		ID:             id,
		Amount:         amount,
		Date:           on.In(time.UTC),
		Description:    id,
		AccountID:      accountID,
		Type:           txType,
		BalanceApplied: applied,
	}
}

func transfer(id, from, to string, amount int64, on civil.Date, applied bool) models.Transaction {
	t := oneTime(id, from, models.TxTransfer, amount, on, applied)
	t.ToAccountID = to
	return t
}

func recurringDaily(id, accountID string, txType models.TransactionType, amount int64, startOn civil.Date) models.Transaction {
	return models.Transaction{
		ID:          id,
		Amount:      amount,
		Date:        startOn.In(time.UTC),
		Description: id,
		AccountID:   accountID,
		Type:        txType,
		IsRecurring: true,
		Rule: &models.RecurrenceRule{
			Frequency: models.FreqDaily,
			StartDate: startOn,
			EndDate:   datePtr(startOn),
		},
	}
}

func lastBalances(t *testing.T, r *Result) map[string]int64 {
	t.Helper()
	if len(r.Timeline) == 0 {
		t.Fatal("empty timeline")
	}
	return r.Timeline[len(r.Timeline)-1].Balances
}

func singleAlert(t *testing.T, r *Result) Alert {
	t.Helper()
	if len(r.Alerts) != 1 {
		t.Fatalf("got %d alerts %v, want 1", len(r.Alerts), r.Alerts)
	}
	return r.Alerts[0]
}

func TestBuild_RewindIdempotentOnEmptyDay(t *testing.T) {
	// projecting today..today with no transactions must reproduce the
	// persisted balances at both ends
	r := Build(Input{
		Accounts: []models.Account{bankAccount("checking", 5000), debtAccount("loan", 120000)},
		Start:    today,
		End:      today,
		Today:    today,
	})

	for id, want := range map[string]int64{"checking": 5000, "loan": 120000} {
		if got := r.Summary.StartBalances[id]; got != want {
			t.Errorf("start balance[%s] = %d, want %d", id, got, want)
		}
		if got := r.Summary.EndBalances[id]; got != want {
			t.Errorf("end balance[%s] = %d, want %d", id, got, want)
		}
	}
}

func TestBuild_RewindReversesAppliedOneTime(t *testing.T) {
	// persisted balance 900 already includes a 100 debit applied today;
	// rewinding and replaying must land back on 900
	r := Build(Input{
		Accounts:     []models.Account{bankAccount("checking", 900)},
		Transactions: []models.Transaction{oneTime("groceries", "checking", models.TxDebit, 100, today, true)},
		Start:        today,
		End:          today,
		Today:        today,
	})

	if got := r.Summary.StartBalances["checking"]; got != 1000 {
		t.Errorf("start balance = %d, want 1000", got)
	}
	if got := lastBalances(t, r)["checking"]; got != 900 {
		t.Errorf("end balance = %d, want 900", got)
	}
	if len(r.Alerts) != 0 {
		t.Errorf("unexpected alerts: %v", r.Alerts)
	}
}

func TestBuild_RewindSkipsUnappliedOneTime(t *testing.T) {
	// a future-dated one-time transaction has not touched the persisted
	// balance, so nothing is reversed for it
	futureDay := today.AddDays(3)
	r := Build(Input{
		Accounts:     []models.Account{bankAccount("checking", 1000)},
		Transactions: []models.Transaction{oneTime("rent", "checking", models.TxDebit, 400, futureDay, false)},
		Start:        today,
		End:          futureDay,
		Today:        today,
	})

	if got := r.Summary.StartBalances["checking"]; got != 1000 {
		t.Errorf("start balance = %d, want 1000", got)
	}
	if got := lastBalances(t, r)["checking"]; got != 600 {
		t.Errorf("end balance = %d, want 600", got)
	}
}

func TestBuild_RewindReversesPastRecurringOccurrence(t *testing.T) {
	// recurring occurrences on/before today are synthetic (never persisted)
	// but are reversed so that rewind+replay reproduces the stored balance
	r := Build(Input{
		Accounts:     []models.Account{debtAccount("loan", 500)},
		Transactions: []models.Transaction{recurringDaily("payment", "loan", models.TxCredit, 1000, today)},
		Start:        today,
		End:          today,
		Today:        today,
	})

	if got := r.Summary.StartBalances["loan"]; got != 1500 {
		t.Errorf("start balance = %d, want 1500 (credit on debt reversed)", got)
	}
	if got := lastBalances(t, r)["loan"]; got != 500 {
		t.Errorf("end balance = %d, want 500", got)
	}
}

func TestBuild_CreditLimitCapsCharge(t *testing.T) {
	chargeDay := today.AddDays(1)
	charge := oneTime("big-purchase", "visa", models.TxDebit, 5000, chargeDay, false)
	r := Build(Input{
		Accounts:     []models.Account{creditCardAccount("visa", 9000, 10000)},
		Transactions: []models.Transaction{charge},
		Start:        chargeDay,
		End:          chargeDay,
		Today:        today,
	})

	if got := lastBalances(t, r)["visa"]; got != 10000 {
		t.Errorf("balance = %d, want 10000 (maxed out)", got)
	}
	a := singleAlert(t, r)
	if a.Reason != balance.ReasonCreditLimit {
		t.Errorf("reason = %q, want credit_limit", a.Reason)
	}
	if a.OriginalAmount != 5000 || a.AdjustedAmount != 1000 {
		t.Errorf("amounts = %d/%d, want 5000/1000", a.OriginalAmount, a.AdjustedAmount)
	}
	tx := r.Timeline[0].Transactions[0]
	if tx.Amount != 1000 || tx.OriginalAmount != 5000 {
		t.Errorf("projected tx = %d (orig %d), want 1000 (orig 5000)", tx.Amount, tx.OriginalAmount)
	}
}

func TestBuild_DebtPayoffStopsAtZero(t *testing.T) {
	payDay := today.AddDays(5)
	payment := recurringDaily("payment", "loan", models.TxCredit, 1000, payDay)
	r := Build(Input{
		Accounts:     []models.Account{debtAccount("loan", 500)},
		Transactions: []models.Transaction{payment},
		Start:        payDay,
		End:          payDay,
		Today:        today,
	})

	if got := lastBalances(t, r)["loan"]; got != 0 {
		t.Errorf("balance = %d, want 0 (paid off)", got)
	}
	a := singleAlert(t, r)
	if a.Reason != balance.ReasonDebtPaidOff {
		t.Errorf("reason = %q, want debt_paid_off", a.Reason)
	}
	if a.OriginalAmount != 1000 || a.AdjustedAmount != 500 {
		t.Errorf("amounts = %d/%d, want 1000/500", a.OriginalAmount, a.AdjustedAmount)
	}
}

func TestBuild_BankFloorCapsDebit(t *testing.T) {
	spendDay := today.AddDays(1)
	r := Build(Input{
		Accounts:     []models.Account{bankAccount("checking", 200)},
		Transactions: []models.Transaction{oneTime("overdraw", "checking", models.TxDebit, 300, spendDay, false)},
		Start:        spendDay,
		End:          spendDay,
		Today:        today,
	})

	if got := lastBalances(t, r)["checking"]; got != 0 {
		t.Errorf("balance = %d, want 0", got)
	}
	a := singleAlert(t, r)
	if a.Reason != balance.ReasonInsufficientBalance {
		t.Errorf("reason = %q, want insufficient_balance", a.Reason)
	}
	if a.AdjustedAmount != 200 {
		t.Errorf("adjusted = %d, want 200", a.AdjustedAmount)
	}
}

func TestBuild_TransferConservesValue(t *testing.T) {
	moveDay := today.AddDays(1)
	r := Build(Input{
		Accounts:     []models.Account{bankAccount("checking", 1000), bankAccount("savings", 50)},
		Transactions: []models.Transaction{transfer("stash", "checking", "savings", 300, moveDay, false)},
		Start:        moveDay,
		End:          moveDay,
		Today:        today,
	})

	got := lastBalances(t, r)
	if got["checking"] != 700 || got["savings"] != 350 {
		t.Errorf("balances = %v, want checking 700, savings 350", got)
	}
	srcDelta := got["checking"] - 1000
	dstDelta := got["savings"] - 50
	if srcDelta+dstDelta != 0 {
		t.Errorf("transfer leaked value: src %+d, dst %+d", srcDelta, dstDelta)
	}
	if len(r.Alerts) != 0 {
		t.Errorf("unexpected alerts: %v", r.Alerts)
	}
}

func TestBuild_TransferCappedBySourceBalance(t *testing.T) {
	moveDay := today.AddDays(1)
	r := Build(Input{
		Accounts:     []models.Account{bankAccount("checking", 100), bankAccount("savings", 0)},
		Transactions: []models.Transaction{transfer("stash", "checking", "savings", 500, moveDay, false)},
		Start:        moveDay,
		End:          moveDay,
		Today:        today,
	})

	got := lastBalances(t, r)
	if got["checking"] != 0 || got["savings"] != 100 {
		t.Errorf("balances = %v, want checking 0, savings 100", got)
	}
	a := singleAlert(t, r)
	if a.Reason != balance.ReasonInsufficientBalance {
		t.Errorf("reason = %q, want insufficient_balance", a.Reason)
	}
}

func TestBuild_TransferCappedBySourceCreditLimit(t *testing.T) {
	moveDay := today.AddDays(1)
	r := Build(Input{
		Accounts:     []models.Account{creditCardAccount("visa", 800, 1000), bankAccount("checking", 0)},
		Transactions: []models.Transaction{transfer("cash-advance", "visa", "checking", 500, moveDay, false)},
		Start:        moveDay,
		End:          moveDay,
		Today:        today,
	})

	got := lastBalances(t, r)
	if got["visa"] != 1000 {
		t.Errorf("visa owed = %d, want 1000 (drawing on credit increases debt)", got["visa"])
	}
	if got["checking"] != 200 {
		t.Errorf("checking = %d, want 200", got["checking"])
	}
	a := singleAlert(t, r)
	if a.Reason != balance.ReasonCreditLimit {
		t.Errorf("reason = %q, want credit_limit", a.Reason)
	}
}

func TestBuild_TransferCappedByDestinationDebt(t *testing.T) {
	moveDay := today.AddDays(1)
	r := Build(Input{
		Accounts:     []models.Account{bankAccount("checking", 1000), debtAccount("loan", 50)},
		Transactions: []models.Transaction{transfer("payoff", "checking", "loan", 200, moveDay, false)},
		Start:        moveDay,
		End:          moveDay,
		Today:        today,
	})

	got := lastBalances(t, r)
	if got["checking"] != 950 || got["loan"] != 0 {
		t.Errorf("balances = %v, want checking 950, loan 0", got)
	}
	a := singleAlert(t, r)
	if a.Reason != balance.ReasonDebtPaidOff {
		t.Errorf("reason = %q, want debt_paid_off", a.Reason)
	}
	if a.OriginalAmount != 200 || a.AdjustedAmount != 50 {
		t.Errorf("amounts = %d/%d, want 200/50", a.OriginalAmount, a.AdjustedAmount)
	}
}

func TestBuild_ZeroedTransferStillRecordedAndAlerts(t *testing.T) {
	moveDay := today.AddDays(1)
	r := Build(Input{
		Accounts:     []models.Account{creditCardAccount("visa", 1000, 1000), bankAccount("checking", 0)},
		Transactions: []models.Transaction{transfer("cash-advance", "visa", "checking", 400, moveDay, false)},
		Start:        moveDay,
		End:          moveDay,
		Today:        today,
	})

	tx := r.Timeline[0].Transactions[0]
	if tx.Amount != 0 || tx.OriginalAmount != 400 {
		t.Errorf("tx amount = %d (orig %d), want 0 (orig 400)", tx.Amount, tx.OriginalAmount)
	}
	a := singleAlert(t, r)
	if a.AdjustedAmount != 0 || a.OriginalAmount != 400 {
		t.Errorf("alert amounts = %d/%d, want 400/0", a.OriginalAmount, a.AdjustedAmount)
	}
	got := lastBalances(t, r)
	if got["visa"] != 1000 || got["checking"] != 0 {
		t.Errorf("balances changed on zeroed transfer: %v", got)
	}
}

func TestBuild_TransfersExcludedFromTotals(t *testing.T) {
	moveDay := today.AddDays(1)
	r := Build(Input{
		Accounts: []models.Account{bankAccount("checking", 1000), bankAccount("savings", 0)},
		Transactions: []models.Transaction{
			transfer("stash", "checking", "savings", 300, moveDay, false),
			oneTime("salary", "checking", models.TxCredit, 2000, moveDay, false),
			oneTime("rent", "checking", models.TxDebit, 800, moveDay, false),
		},
		Start: moveDay,
		End:   moveDay,
		Today: today,
	})

	if r.Summary.TotalIncome != 2000 {
		t.Errorf("totalIncome = %d, want 2000", r.Summary.TotalIncome)
	}
	if r.Summary.TotalExpenses != 800 {
		t.Errorf("totalExpenses = %d, want 800", r.Summary.TotalExpenses)
	}
	if r.Summary.NetChange != 1200 {
		t.Errorf("netChange = %d, want 1200", r.Summary.NetChange)
	}
}

func TestBuild_AccountFilterKeepsBothTransferLegs(t *testing.T) {
	moveDay := today.AddDays(1)
	r := Build(Input{
		Accounts: []models.Account{bankAccount("checking", 1000), bankAccount("savings", 0)},
		Transactions: []models.Transaction{
			transfer("stash", "checking", "savings", 300, moveDay, false),
			oneTime("coffee", "checking", models.TxDebit, 50, moveDay, false),
		},
		Start:           moveDay,
		End:             moveDay,
		Today:           today,
		FilterAccountID: "savings",
	})

	txs := r.Timeline[0].Transactions
	if len(txs) != 1 || txs[0].Type != models.TxTransfer {
		t.Fatalf("filtered day txs = %v, want just the transfer", txs)
	}
	got := lastBalances(t, r)
	if _, ok := got["checking"]; ok {
		t.Error("filtered snapshot must not expose the other account")
	}
	if got["savings"] != 300 {
		t.Errorf("savings = %d, want 300 (both legs still settle)", got["savings"])
	}
}

func TestBuild_UnknownAccountReferenceIsSkipped(t *testing.T) {
	spendDay := today.AddDays(1)
	r := Build(Input{
		Accounts: []models.Account{bankAccount("checking", 1000)},
		Transactions: []models.Transaction{
			oneTime("orphan", "ghost", models.TxDebit, 100, spendDay, false),
			transfer("half-ghost", "checking", "ghost", 200, spendDay, false),
		},
		Start: spendDay,
		End:   spendDay,
		Today: today,
	})

	// projection survives and the known leg still settles
	if got := lastBalances(t, r)["checking"]; got != 800 {
		t.Errorf("checking = %d, want 800", got)
	}
}

func TestBuild_RewindReversesSurvivingTransferLeg(t *testing.T) {
	// the transfer's destination account has been deleted; the source leg
	// was applied to the stored balance and must be unwound on its own so
	// the replay lands back on the persisted value
	r := Build(Input{
		Accounts:     []models.Account{bankAccount("checking", 1000)},
		Transactions: []models.Transaction{transfer("payment", "checking", "ghost", 200, today, true)},
		Start:        today,
		End:          today,
		Today:        today,
	})

	if got := r.Summary.StartBalances["checking"]; got != 1200 {
		t.Errorf("start balance = %d, want 1200 (source leg unwound)", got)
	}
	if got := lastBalances(t, r)["checking"]; got != 1000 {
		t.Errorf("end balance = %d, want persisted 1000", got)
	}
}

func TestBuild_RewindReversesSurvivingDestinationLeg(t *testing.T) {
	// same shape from the destination's point of view
	r := Build(Input{
		Accounts:     []models.Account{debtAccount("loan", 300)},
		Transactions: []models.Transaction{transfer("payoff", "ghost", "loan", 200, today, true)},
		Start:        today,
		End:          today,
		Today:        today,
	})

	if got := r.Summary.StartBalances["loan"]; got != 500 {
		t.Errorf("start balance = %d, want 500 (destination leg unwound)", got)
	}
	if got := lastBalances(t, r)["loan"]; got != 300 {
		t.Errorf("end balance = %d, want persisted 300", got)
	}
}

func TestBuild_ProjectedFlagFollowsToday(t *testing.T) {
	rule := models.Transaction{
		ID:          "paycheck",
		Amount:      100,
		Date:        today.AddDays(-1).In(time.UTC),
		Description: "paycheck",
		AccountID:   "checking",
		Type:        models.TxCredit,
		IsRecurring: true,
		Rule: &models.RecurrenceRule{
			Frequency: models.FreqDaily,
			StartDate: today.AddDays(-1),
		},
	}
	r := Build(Input{
		Accounts:     []models.Account{bankAccount("checking", 1000)},
		Transactions: []models.Transaction{rule},
		Start:        today.AddDays(-1),
		End:          today.AddDays(1),
		Today:        today,
	})

	for _, snap := range r.Timeline {
		for _, tx := range snap.Transactions {
			wantProjected := snap.Date.After(today)
			if tx.IsProjected != wantProjected {
				t.Errorf("occurrence on %s: isProjected = %v, want %v", snap.Date, tx.IsProjected, wantProjected)
			}
		}
	}
}
