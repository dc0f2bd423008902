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

// ProjectionHandler serves the balance forecast endpoint.
type ProjectionHandler struct {
	DB            *gorm.DB
	MaxWindowDays int
}

func NewProjectionHandler(db *gorm.DB, maxWindowDays int) *ProjectionHandler {
	if maxWindowDays <= 0 {
		maxWindowDays = 1830
	}
	return &ProjectionHandler{DB: db, MaxWindowDays: maxWindowDays}
}

// fetchWindow loads all accounts plus every transaction that can affect the
// window: one-time transactions dated inside it and all recurring rules.
// A rule's occurrences, not the rule record's own date, determine overlap,
// and the rule dates live inside a JSON column, so recurring rows are
// fetched wholesale and the expander decides.
func (h *ProjectionHandler) fetchWindow(start, end civil.Date, accountID string) ([]models.Account, []models.Transaction, error) {
	var accounts []models.Account
	if err := h.DB.Find(&accounts).Error; err != nil {
		return nil, nil, err
	}

	q := h.DB.Model(&models.Transaction{}).
		Where("(is_recurring = ? AND date >= ? AND date < ?) OR is_recurring = ?",
			false, start.In(time.UTC), end.AddDays(1).In(time.UTC), true)
	if accountID != "" {
		q = q.Where("account_id = ? OR to_account_id = ?", accountID, accountID)
	}

	var transactions []models.Transaction
	if err := q.Find(&transactions).Error; err != nil {
		return nil, nil, err
	}
	return accounts, transactions, nil
}

// GetProjection handles GET /api/projections.
// Query: startDate, endDate (required, YYYY-MM-DD), granularity
// (daily|weekly|monthly, default daily), accountId (optional).
func (h *ProjectionHandler) GetProjection(c *gin.Context) {
	start, err := civil.ParseDate(c.Query("startDate"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "startDate must be YYYY-MM-DD")
		return
	}
	end, err := civil.ParseDate(c.Query("endDate"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "endDate must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "endDate is before startDate")
		return
	}
	if days := end.DaysSince(start) + 1; days > h.MaxWindowDays {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "window too large")
		return
	}

	granularity := projection.Granularity(c.DefaultQuery("granularity", string(projection.Daily)))
	if !projection.ValidGranularity(granularity) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "granularity must be daily, weekly or monthly")
		return
	}
	accountID := c.Query("accountId")

	accounts, transactions, err := h.fetchWindow(start, end, accountID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load projection data")
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

	util.Success(c, util.Response{"projection": result})
}
