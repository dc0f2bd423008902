// Package projection is the balance forecasting core: it expands recurring
// rules into dated occurrences, rewinds persisted balances to the window
// start, replays every transaction forward day by day under the
// account-type capping rules, and buckets the result at the requested
// granularity. It is pure computation over an in-memory snapshot; fetching
// and persisting records is the callers' business.
package projection

import (
	"cloud.google.com/go/civil"

	"tracksuite/internal/models"
)

// Input is one projection request. Today is injectable so callers (and
// tests) can pin the boundary between historical and projected occurrences;
// the zero value means the current UTC day.
type Input struct {
	Accounts        []models.Account
	Transactions    []models.Transaction
	Start           civil.Date
	End             civil.Date
	Granularity     Granularity
	FilterAccountID string
	Today           civil.Date
}

// Build computes the full projection for one request. It allocates all of
// its working state locally, so concurrent calls never share anything.
func Build(in Input) *Result {
	today := in.Today
	if today == (civil.Date{}) {
		today = Today()
	}
	granularity := in.Granularity
	if granularity == "" {
		granularity = Daily
	}

	accounts := make(map[string]*models.Account, len(in.Accounts))
	for i := range in.Accounts {
		accounts[in.Accounts[i].ID] = &in.Accounts[i]
	}

	targetIDs := make(map[string]bool, len(accounts))
	for id := range accounts {
		if in.FilterAccountID == "" || id == in.FilterAccountID {
			targetIDs[id] = true
		}
	}

	txs := filterForAccount(materialize(in.Transactions, in.Start, in.End, today), in.FilterAccountID)

	startBalances := rewind(accounts, txs, in.Start, today)
	timeline, alerts := simulate(accounts, txs, in.Start, in.End, startBalances, targetIDs)

	endBalances := map[string]int64{}
	if len(timeline) > 0 {
		endBalances = timeline[len(timeline)-1].Balances
	}

	if alerts == nil {
		alerts = []Alert{}
	}
	return &Result{
		Timeline: aggregate(timeline, granularity),
		Alerts:   alerts,
		Summary:  summarize(txs, startBalances, endBalances, targetIDs),
	}
}
