package handler

import (
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tracksuite/internal/models"
	"tracksuite/internal/projection"
	"tracksuite/internal/util"
)

// SummaryHandler serves reporting views derived from the projection engine:
// weekly and monthly views at daily resolution, the annual view at monthly
// resolution, each with per-period totals and a category breakdown.
type SummaryHandler struct {
	DB *gorm.DB
}

func NewSummaryHandler(db *gorm.DB) *SummaryHandler {
	return &SummaryHandler{DB: db}
}

type periodSummary struct {
	Date         civil.Date       `json:"date"`
	Label        string           `json:"label,omitempty"`
	Transactions []*projection.Tx `json:"transactions"`
	Balances     map[string]int64 `json:"balances"`
	TotalCredits int64            `json:"totalCredits"`
	TotalDebits  int64            `json:"totalDebits"`
}

// GetSummary handles GET /api/summary.
// Query: view (weekly|monthly|annual, default monthly), date (YYYY-MM-DD,
// default today), accountId (optional).
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	view := c.DefaultQuery("view", "monthly")

	day := projection.Today()
	if s := c.Query("date"); s != "" {
		parsed, err := civil.ParseDate(s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	accountID := c.Query("accountId")

	var (
		start, end  civil.Date
		label       string
		granularity projection.Granularity
	)
	switch view {
	case "weekly":
		start, end = projection.StartOfWeek(day), projection.EndOfWeek(day)
		label = "Week of " + start.In(time.UTC).Format("Jan 2, 2006")
		granularity = projection.Daily
	case "monthly":
		start, end = projection.StartOfMonth(day), projection.EndOfMonth(day)
		label = day.In(time.UTC).Format("January 2006")
		granularity = projection.Daily
	case "annual":
		start, end = projection.StartOfYear(day), projection.EndOfYear(day)
		label = day.In(time.UTC).Format("2006")
		granularity = projection.Monthly
	default:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "view must be weekly, monthly or annual")
		return
	}

	var accounts []models.Account
	if err := h.DB.Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load accounts")
		return
	}
	q := h.DB.Model(&models.Transaction{}).
		Where("(is_recurring = ? AND date >= ? AND date < ?) OR is_recurring = ?",
			false, start.In(time.UTC), end.AddDays(1).In(time.UTC), true)
	if accountID != "" {
		q = q.Where("account_id = ? OR to_account_id = ?", accountID, accountID)
	}
	var transactions []models.Transaction
	if err := q.Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	result := projection.Build(projection.Input{
		Accounts:        accounts,
		Transactions:    transactions,
		Start:           start,
		End:             end,
		Granularity:     granularity,
		FilterAccountID: accountID,
	})

	periods := make([]periodSummary, 0, len(result.Timeline))
	for _, snap := range result.Timeline {
		p := periodSummary{
			Date:         snap.Date,
			Transactions: snap.Transactions,
			Balances:     snap.Balances,
		}
		if view == "annual" {
			p.Label = snap.Date.In(time.UTC).Format("January")
		}
		for _, t := range snap.Transactions {
			switch t.Type {
			case models.TxCredit:
				p.TotalCredits += t.Amount
			case models.TxDebit:
				p.TotalDebits += t.Amount
			}
		}
		periods = append(periods, p)
	}

	util.Success(c, util.Response{
		"view": view,
		"period": util.Response{
			"start": start.String(),
			"end":   end.String(),
			"label": label,
		},
		"periods": periods,
		"totals": util.Response{
			"income":   result.Summary.TotalIncome,
			"expenses": result.Summary.TotalExpenses,
			"net":      result.Summary.NetChange,
		},
		"categoryBreakdown": projection.CategoryBreakdown(result.Timeline),
		"alerts":            result.Alerts,
	})
}
