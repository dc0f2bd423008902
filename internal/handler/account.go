package handler

import (
	"errors"
	"net/http"
	"time"

	"tracksuite/internal/models"
	"tracksuite/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AccountHandler serves the account CRUD endpoints.
type AccountHandler struct {
	DB *gorm.DB
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{DB: db}
}

type accountReq struct {
	Name            string             `json:"name" binding:"required,max=100"`
	Type            models.AccountType `json:"type" binding:"required,oneof=bank credit_card debt"`
	Balance         string             `json:"balance" binding:"required"`
	CreditLimit     string             `json:"creditLimit"`
	IsLoan          bool               `json:"isLoan"`
	LinkedAccountID string             `json:"linkedAccountId"`
	Currency        string             `json:"currency"`
	Notes           string             `json:"notes" binding:"max=500"`
	IsCash          bool               `json:"isCash"`
}

// ListAccounts returns all accounts, optionally filtered by ?type=.
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	q := h.DB.Model(&models.Account{})
	if t := c.Query("type"); t != "" {
		if !models.ValidAccountType(models.AccountType(t)) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown account type")
			return
		}
		q = q.Where("type = ?", t)
	}

	var accounts []models.Account
	if err := q.Order("created_at DESC").Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to fetch accounts")
		return
	}
	util.Success(c, util.Response{"accounts": accounts})
}

// GetAccount returns a single account by id.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	var account models.Account
	if err := h.DB.First(&account, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to fetch account")
		}
		return
	}
	util.Success(c, util.Response{"account": account})
}

// CreateAccount creates an account. A debt account flagged as a loan with a
// linked bank account triggers a one-time disbursement: the linked account
// is credited with the loan amount and a credit transaction records it.
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	balanceCents, err := util.ParseAmount(req.Balance)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid balance amount")
		return
	}

	account := models.Account{
		Name:            req.Name,
		Type:            req.Type,
		Balance:         balanceCents,
		IsLoan:          req.IsLoan,
		LinkedAccountID: req.LinkedAccountID,
		Currency:        req.Currency,
		Notes:           req.Notes,
		IsCash:          req.IsCash,
	}
	if account.Currency == "" {
		account.Currency = "USD"
	}
	if req.CreditLimit != "" {
		limitCents, err := util.ParseAmount(req.CreditLimit)
		if err != nil || limitCents < 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid credit limit")
			return
		}
		account.CreditLimit = &limitCents
	}

	disburse := account.Type == models.AccountDebt && account.IsLoan && account.LinkedAccountID != ""
	var linked models.Account
	if disburse {
		if err := h.DB.First(&linked, "id = ?", account.LinkedAccountID).Error; err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "linked account not found for loan disbursement")
			return
		}
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		if !disburse {
			return nil
		}
		if err := tx.Model(&models.Account{}).Where("id = ?", linked.ID).
			Update("balance", gorm.Expr("balance + ?", balanceCents)).Error; err != nil {
			return err
		}
		disbursement := models.Transaction{
			Amount:         balanceCents,
			Date:           midnightUTC(time.Now()),
			Description:    "Loan disbursement from " + account.Name,
			AccountID:      linked.ID,
			Type:           models.TxCredit,
			CategoryTags:   []string{"transfer"},
			BalanceApplied: true,
		}
		return tx.Create(&disbursement).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create account")
		return
	}

	util.Success(c, util.Response{"account": account})
}

// UpdateAccount updates account metadata and balance.
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var account models.Account
	if err := h.DB.First(&account, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to fetch account")
		}
		return
	}

	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	balanceCents, err := util.ParseAmount(req.Balance)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid balance amount")
		return
	}

	account.Name = req.Name
	account.Type = req.Type
	account.Balance = balanceCents
	account.IsLoan = req.IsLoan
	account.LinkedAccountID = req.LinkedAccountID
	account.Notes = req.Notes
	account.IsCash = req.IsCash
	if req.Currency != "" {
		account.Currency = req.Currency
	}
	account.CreditLimit = nil
	if req.CreditLimit != "" {
		limitCents, err := util.ParseAmount(req.CreditLimit)
		if err != nil || limitCents < 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid credit limit")
			return
		}
		account.CreditLimit = &limitCents
	}

	if err := h.DB.Save(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update account")
		return
	}
	util.Success(c, util.Response{"account": account})
}

// DeleteAccount removes an account. Its transactions are left in place;
// projections skip references they cannot resolve.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	if err := h.DB.Delete(&models.Account{}, "id = ?", c.Param("id")).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete account")
		return
	}
	util.Success(c, util.Response{"message": "account deleted"})
}
