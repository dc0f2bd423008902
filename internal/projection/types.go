package projection

import (
	"cloud.google.com/go/civil"

	"tracksuite/internal/balance"
	"tracksuite/internal/models"
)

type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// ValidGranularity reports whether g is one of the known granularities.
func ValidGranularity(g Granularity) bool {
	switch g {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// Tx is one occurrence of a real or recurring transaction placed on a
// concrete calendar day within the query window. Amount may be reduced by
// the simulator's capping; OriginalAmount is set only when that happens.
type Tx struct {
	Date           civil.Date             `json:"date"`
	Amount         int64                  `json:"amount"`
	OriginalAmount int64                  `json:"originalAmount,omitempty"`
	Description    string                 `json:"description"`
	AccountID      string                 `json:"accountId"`
	ToAccountID    string                 `json:"toAccountId,omitempty"`
	Type           models.TransactionType `json:"type"`
	CategoryTags   []string               `json:"categoryTags"`
	// IsProjected is false for already-realized transactions and true for
	// forward-looking ones (recurring occurrences after today).
	IsProjected bool   `json:"isProjected"`
	SourceID    string `json:"sourceTransactionId,omitempty"`

	// rewind bookkeeping, not part of the payload
	recurring      bool
	balanceApplied bool
}

// Snapshot is one point on the output timeline: a day at daily granularity,
// or a week/month bucket after aggregation. Balances maps account id to the
// running balance in cents at the end of the period.
type Snapshot struct {
	Date         civil.Date       `json:"date"`
	Balances     map[string]int64 `json:"balances"`
	Transactions []*Tx            `json:"transactions"`
}

// Alert is emitted once per transaction the simulator reduced or zeroed.
type Alert struct {
	Date           civil.Date     `json:"date"`
	Description    string         `json:"description"`
	AccountID      string         `json:"accountId"`
	ToAccountID    string         `json:"toAccountId,omitempty"`
	OriginalAmount int64          `json:"originalAmount"`
	AdjustedAmount int64          `json:"adjustedAmount"`
	Reason         balance.Reason `json:"reason"`
	SourceID       string         `json:"sourceTransactionId,omitempty"`
}

// Summary totals cover the entire materialized window. Transfers are internal
// movements and never count toward income or expenses.
type Summary struct {
	TotalIncome   int64            `json:"totalIncome"`
	TotalExpenses int64            `json:"totalExpenses"`
	NetChange     int64            `json:"netChange"`
	StartBalances map[string]int64 `json:"startBalances"`
	EndBalances   map[string]int64 `json:"endBalances"`
}

// Result is the full projection payload.
type Result struct {
	Timeline []Snapshot `json:"timeline"`
	Alerts   []Alert    `json:"alerts"`
	Summary  Summary    `json:"summary"`
}

// CategoryAmount is one row of an expense breakdown. Percentage is a
// fraction of total expenses in [0,1].
type CategoryAmount struct {
	Category   string  `json:"category"`
	Amount     int64   `json:"amount"`
	Percentage float64 `json:"percentage"`
}
