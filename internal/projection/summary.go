package projection

import (
	"sort"

	"tracksuite/internal/models"
)

// summarize totals income and expenses over the entire materialized list,
// using post-capping amounts. Transfers are internal movements and are
// excluded from both sides.
func summarize(txs []*Tx, startBalances, endBalances map[string]int64, targetIDs map[string]bool) Summary {
	var income, expenses int64
	for _, t := range txs {
		switch t.Type {
		case models.TxTransfer:
		case models.TxCredit:
			income += t.Amount
		case models.TxDebit:
			expenses += t.Amount
		}
	}

	starts := make(map[string]int64, len(targetIDs))
	for id := range targetIDs {
		starts[id] = startBalances[id]
	}

	return Summary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetChange:     income - expenses,
		StartBalances: starts,
		EndBalances:   endBalances,
	}
}

// CategoryBreakdown sums debit amounts per category tag across a timeline,
// sorted by amount descending. Untagged debits land in an "other" bucket.
// Percentages are fractions of the total debit amount, 0 when there are no
// expenses at all.
func CategoryBreakdown(timeline []Snapshot) []CategoryAmount {
	amounts := make(map[string]int64)
	for _, snap := range timeline {
		for _, t := range snap.Transactions {
			if t.Type != models.TxDebit {
				continue
			}
			if len(t.CategoryTags) == 0 {
				amounts["other"] += t.Amount
				continue
			}
			for _, tag := range t.CategoryTags {
				amounts[tag] += t.Amount
			}
		}
	}

	var total int64
	for _, v := range amounts {
		total += v
	}

	out := make([]CategoryAmount, 0, len(amounts))
	for category, amount := range amounts {
		pct := 0.0
		if total > 0 {
			pct = float64(amount) / float64(total)
		}
		out = append(out, CategoryAmount{Category: category, Amount: amount, Percentage: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}
