package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountType string

const (
	AccountBank       AccountType = "bank"
	AccountCreditCard AccountType = "credit_card"
	AccountDebt       AccountType = "debt"
)

// ValidAccountType reports whether t is one of the known account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountBank, AccountCreditCard, AccountDebt:
		return true
	}
	return false
}

// Account is a tracked money account. Balance is stored in cents and its
// meaning depends on Type: for bank accounts it is cash on hand, for
// credit_card and debt accounts it is the amount owed (0 = paid off).
type Account struct {
	ID          string      `gorm:"primaryKey;size:36" json:"id"`
	Name        string      `gorm:"size:100;not null" json:"name"`
	Type        AccountType `gorm:"size:16;index;not null" json:"type"`
	Balance     int64       `gorm:"not null" json:"balance"` // cents
	CreditLimit *int64      `json:"creditLimit,omitempty"`   // cents, credit_card only
	IsLoan      bool        `json:"isLoan"`
	// LinkedAccountID points a loan debt account at the bank account that
	// receives the one-time disbursement when the loan is created.
	LinkedAccountID string    `gorm:"size:36" json:"linkedAccountId,omitempty"`
	Currency        string    `gorm:"size:8;default:USD" json:"currency"`
	Notes           string    `gorm:"size:500" json:"notes,omitempty"`
	IsCash          bool      `json:"isCash"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Limit returns the credit limit in cents and whether one is set.
// Only meaningful for credit_card accounts.
func (a *Account) Limit() (int64, bool) {
	if a.Type == AccountCreditCard && a.CreditLimit != nil && *a.CreditLimit > 0 {
		return *a.CreditLimit, true
	}
	return 0, false
}
