package projection

import (
	"cloud.google.com/go/civil"

	"tracksuite/internal/models"
)

// materialize flattens the stored transaction set into dated occurrences for
// the window: one-time transactions whose calendar day falls inside it, plus
// every expanded occurrence of each recurring rule. Occurrences on or before
// today are historical; later ones are projected - recurring rules never get
// individually persisted rows, so the split is purely date-based.
func materialize(transactions []models.Transaction, start, end, today civil.Date) []*Tx {
	var out []*Tx

	for i := range transactions {
		t := &transactions[i]

		if t.IsRecurring && t.Rule != nil {
			for _, day := range Expand(t.Rule, start, end) {
				out = append(out, &Tx{
					Date:         day,
					Amount:       t.Amount,
					Description:  t.Description,
					AccountID:    t.AccountID,
					ToAccountID:  t.ToAccountID,
					Type:         t.Type,
					CategoryTags: t.CategoryTags,
					IsProjected:  day.After(today),
					SourceID:     t.ID,
					recurring:    true,
				})
			}
			continue
		}

		day := t.Day()
		if day.Before(start) || day.After(end) {
			continue
		}
		out = append(out, &Tx{
			Date:           day,
			Amount:         t.Amount,
			Description:    t.Description,
			AccountID:      t.AccountID,
			ToAccountID:    t.ToAccountID,
			Type:           t.Type,
			CategoryTags:   t.CategoryTags,
			IsProjected:    false,
			SourceID:       t.ID,
			balanceApplied: t.BalanceApplied,
		})
	}

	return out
}

// filterForAccount keeps transactions visible from one account's point of
// view. Transfers stay when the account is either leg, so a transfer shows
// up in both accounts' views.
func filterForAccount(txs []*Tx, accountID string) []*Tx {
	if accountID == "" {
		return txs
	}
	out := make([]*Tx, 0, len(txs))
	for _, t := range txs {
		if t.AccountID == accountID || t.ToAccountID == accountID {
			out = append(out, t)
		}
	}
	return out
}
