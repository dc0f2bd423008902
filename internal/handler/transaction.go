package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tracksuite/internal/balance"
	"tracksuite/internal/ledger"
	"tracksuite/internal/models"
	"tracksuite/internal/projection"
	"tracksuite/internal/util"
)

// TransactionHandler serves the transaction CRUD endpoints. Creating,
// updating and deleting run the ledger applier so stored account balances
// stay consistent with what the projection engine would compute.
type TransactionHandler struct {
	DB       *gorm.DB
	PageSize int
}

func NewTransactionHandler(db *gorm.DB, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransactionHandler{DB: db, PageSize: pageSize}
}

type transactionReq struct {
	Amount       string                 `json:"amount" binding:"required"`
	Date         string                 `json:"date" binding:"required"`
	Description  string                 `json:"description" binding:"required,max=200"`
	AccountID    string                 `json:"accountId" binding:"required"`
	ToAccountID  string                 `json:"toAccountId"`
	Type         models.TransactionType `json:"type" binding:"required,oneof=credit debit transfer"`
	IsRecurring  bool                   `json:"isRecurring"`
	Rule         *models.RecurrenceRule `json:"recurrenceRule"`
	CategoryTags []string               `json:"categoryTags"`
	Notes        string                 `json:"notes" binding:"max=500"`
}

// midnightUTC truncates an instant to its UTC calendar day.
func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// parse validates the request and builds an unsaved transaction row.
func (r *transactionReq) parse() (*models.Transaction, error) {
	amount, err := util.ParseAmount(r.Amount)
	if err != nil || amount <= 0 {
		return nil, errors.New("amount must be a positive dollar amount")
	}
	day, err := civil.ParseDate(r.Date)
	if err != nil {
		return nil, errors.New("date must be YYYY-MM-DD")
	}
	if r.Type == models.TxTransfer {
		if r.ToAccountID == "" {
			return nil, errors.New("transfer requires toAccountId")
		}
		if r.ToAccountID == r.AccountID {
			return nil, errors.New("transfer accounts must differ")
		}
	} else if r.ToAccountID != "" {
		return nil, errors.New("toAccountId is only valid for transfers")
	}
	if r.IsRecurring {
		if r.Rule == nil {
			return nil, errors.New("recurring transaction requires a recurrenceRule")
		}
		if err := r.Rule.Validate(); err != nil {
			return nil, err
		}
	}

	tags := r.CategoryTags
	if tags == nil {
		tags = []string{}
	}
	return &models.Transaction{
		Amount:       amount,
		Date:         day.In(time.UTC),
		Description:  r.Description,
		AccountID:    r.AccountID,
		ToAccountID:  r.ToAccountID,
		Type:         r.Type,
		IsRecurring:  r.IsRecurring,
		Rule:         r.Rule,
		CategoryTags: tags,
		Notes:        r.Notes,
	}, nil
}

// loadLegs fetches the accounts a transaction touches. dst is nil for
// non-transfers.
func (h *TransactionHandler) loadLegs(tx *gorm.DB, t *models.Transaction) (src, dst *models.Account, err error) {
	src = &models.Account{}
	if err := tx.First(src, "id = ?", t.AccountID).Error; err != nil {
		return nil, nil, err
	}
	if t.Type != models.TxTransfer {
		return src, nil, nil
	}
	dst = &models.Account{}
	if err := tx.First(dst, "id = ?", t.ToAccountID).Error; err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}

// CreateTransaction stores a transaction. Non-recurring transactions dated
// today or earlier are applied to account balances immediately, with the
// same capping the projection simulator uses; the capped amount is what
// gets stored.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	t, err := req.parse()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	var capReason balance.Reason
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		src, dst, err := h.loadLegs(tx, t)
		if err != nil {
			return err
		}
		if ledger.ShouldApply(t, projection.Today()) {
			applied, reason := ledger.Apply(t, src, dst)
			t.Amount = applied
			t.BalanceApplied = true
			capReason = reason
			if err := tx.Save(src).Error; err != nil {
				return err
			}
			if dst != nil {
				if err := tx.Save(dst).Error; err != nil {
					return err
				}
			}
		}
		return tx.Create(t).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create transaction")
		}
		return
	}
	util.Success(c, transactionResponse(t, capReason))
}

// transactionResponse wraps a stored transaction, noting when its amount
// was reduced by a balance constraint.
func transactionResponse(t *models.Transaction, reason balance.Reason) util.Response {
	resp := util.Response{"transaction": t}
	if reason != balance.ReasonNone {
		resp["message"] = "amount adjusted to " + util.FormatCents(t.Amount) +
			" (" + string(reason) + ")"
	}
	return resp
}

// GetTransaction returns a single transaction by id.
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	var t models.Transaction
	if err := h.DB.First(&t, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to fetch transaction")
		}
		return
	}
	util.Success(c, util.Response{"transaction": t})
}

// UpdateTransaction replaces a transaction. Any previously applied balance
// effect is reversed first, then the new effect is applied under current
// balances.
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	updated, err := req.parse()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	var existing models.Transaction
	if err := h.DB.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to fetch transaction")
		}
		return
	}

	var capReason balance.Reason
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if existing.BalanceApplied {
			src, dst, err := h.loadLegs(tx, &existing)
			if err != nil {
				return err
			}
			ledger.Reverse(&existing, src, dst)
			if err := tx.Save(src).Error; err != nil {
				return err
			}
			if dst != nil {
				if err := tx.Save(dst).Error; err != nil {
					return err
				}
			}
		}

		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		updated.BalanceApplied = false
		if ledger.ShouldApply(updated, projection.Today()) {
			src, dst, err := h.loadLegs(tx, updated)
			if err != nil {
				return err
			}
			applied, reason := ledger.Apply(updated, src, dst)
			updated.Amount = applied
			updated.BalanceApplied = true
			capReason = reason
			if err := tx.Save(src).Error; err != nil {
				return err
			}
			if dst != nil {
				if err := tx.Save(dst).Error; err != nil {
					return err
				}
			}
		}
		return tx.Save(updated).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update transaction")
		}
		return
	}
	util.Success(c, transactionResponse(updated, capReason))
}

// DeleteTransaction removes a transaction, reversing its balance effect if
// one was applied.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	var t models.Transaction
	if err := h.DB.First(&t, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to fetch transaction")
		}
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if t.BalanceApplied {
			src, dst, err := h.loadLegs(tx, &t)
			if err != nil {
				return err
			}
			ledger.Reverse(&t, src, dst)
			if err := tx.Save(src).Error; err != nil {
				return err
			}
			if dst != nil {
				if err := tx.Save(dst).Error; err != nil {
					return err
				}
			}
		}
		return tx.Delete(&models.Transaction{}, "id = ?", t.ID).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete transaction")
		return
	}
	util.Success(c, util.Response{"message": "transaction deleted"})
}

// ListTransactions returns a filtered, paginated transaction list.
// Filters: accountId (matches either transfer leg), start/end (YYYY-MM-DD),
// type, category, isRecurring, search (description substring).
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.PageSize)))
	if size <= 0 || size > 100 {
		size = h.PageSize
	}

	q := h.DB.Model(&models.Transaction{})

	if accountID := c.Query("accountId"); accountID != "" {
		q = q.Where("account_id = ? OR to_account_id = ?", accountID, accountID)
	}
	if start := c.Query("start"); start != "" {
		day, err := civil.ParseDate(start)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start must be YYYY-MM-DD")
			return
		}
		q = q.Where("date >= ?", day.In(time.UTC))
	}
	if end := c.Query("end"); end != "" {
		day, err := civil.ParseDate(end)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end must be YYYY-MM-DD")
			return
		}
		// inclusive end of day
		q = q.Where("date < ?", day.AddDays(1).In(time.UTC))
	}
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if category := c.Query("category"); category != "" {
		// category_tags is a JSON array column; substring match on the
		// quoted tag is good enough for SQLite
		q = q.Where("category_tags LIKE ?", `%"`+category+`"%`)
	}
	if recurring := c.Query("isRecurring"); recurring != "" {
		q = q.Where("is_recurring = ?", recurring == "true")
	}
	if search := c.Query("search"); search != "" {
		q = q.Where("description LIKE ?", "%"+search+"%")
	}

	orderBy := "date DESC, id DESC"
	switch c.DefaultQuery("sort", "date_desc") {
	case "date_asc":
		orderBy = "date ASC, id ASC"
	case "amount_desc":
		orderBy = "amount DESC, id DESC"
	case "amount_asc":
		orderBy = "amount ASC, id ASC"
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to count transactions")
		return
	}

	var items []models.Transaction
	if err := q.Session(&gorm.Session{}).
		Order(orderBy).
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to fetch transactions")
		return
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}
