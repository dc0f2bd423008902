package models

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TxCredit   TransactionType = "credit"
	TxDebit    TransactionType = "debit"
	TxTransfer TransactionType = "transfer"
)

// ValidTransactionType reports whether t is one of the known transaction types.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TxCredit, TxDebit, TxTransfer:
		return true
	}
	return false
}

type Frequency string

const (
	FreqDaily       Frequency = "daily"
	FreqWeekly      Frequency = "weekly"
	FreqBiweekly    Frequency = "biweekly"
	FreqMonthly     Frequency = "monthly"
	FreqSemiMonthly Frequency = "semi_monthly"
	FreqAnnually    Frequency = "annually"
	FreqCustom      Frequency = "custom"
)

// RecurrenceRule describes how a recurring transaction repeats. It is stored
// as a JSON column on the transaction row. All dates are calendar days.
type RecurrenceRule struct {
	Frequency Frequency   `json:"frequency"`
	Interval  int         `json:"interval,omitempty"` // every N units, default 1
	StartDate civil.Date  `json:"startDate"`
	EndDate   *civil.Date `json:"endDate,omitempty"` // nil = unbounded
	// DayOfWeek anchors weekly/biweekly rules (0 = Sunday).
	DayOfWeek *int `json:"dayOfWeek,omitempty"`
	// DayOfMonth anchors monthly rules, clamped to each month's length.
	DayOfMonth *int `json:"dayOfMonth,omitempty"`
	// DaysOfMonth holds exactly two anchors for semi_monthly rules.
	DaysOfMonth []int `json:"daysOfMonth,omitempty"`
}

// Validate checks rule shape at the API boundary. The projection core assumes
// a well-formed rule; a zero or negative interval in particular must never
// reach the recurrence expander unchecked.
func (r *RecurrenceRule) Validate() error {
	switch r.Frequency {
	case FreqDaily, FreqWeekly, FreqBiweekly, FreqMonthly, FreqSemiMonthly, FreqAnnually, FreqCustom:
	default:
		return fmt.Errorf("unknown frequency %q", r.Frequency)
	}
	if r.Interval < 0 {
		return fmt.Errorf("interval must be >= 1, got %d", r.Interval)
	}
	if !r.StartDate.IsValid() {
		return fmt.Errorf("startDate is required")
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("endDate %s is before startDate %s", *r.EndDate, r.StartDate)
	}
	if r.DayOfWeek != nil && (*r.DayOfWeek < 0 || *r.DayOfWeek > 6) {
		return fmt.Errorf("dayOfWeek must be 0-6, got %d", *r.DayOfWeek)
	}
	if r.DayOfMonth != nil && (*r.DayOfMonth < 1 || *r.DayOfMonth > 31) {
		return fmt.Errorf("dayOfMonth must be 1-31, got %d", *r.DayOfMonth)
	}
	if r.Frequency == FreqSemiMonthly {
		if len(r.DaysOfMonth) != 2 {
			return fmt.Errorf("semi_monthly requires exactly two daysOfMonth, got %d", len(r.DaysOfMonth))
		}
		for _, d := range r.DaysOfMonth {
			if d < 1 || d > 31 {
				return fmt.Errorf("daysOfMonth entries must be 1-31, got %d", d)
			}
		}
	}
	return nil
}

// Transaction is one money movement. Amount is a positive magnitude in cents;
// the effective sign is derived from Type and the owning account's type.
type Transaction struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	Amount int64  `gorm:"not null" json:"amount"` // cents, magnitude only
	// Date is the calendar day the transaction occurs, stored at midnight UTC.
	Date        time.Time       `gorm:"index;not null" json:"date"`
	Description string          `gorm:"size:200;not null" json:"description"`
	AccountID   string          `gorm:"size:36;index;not null" json:"accountId"`
	ToAccountID string          `gorm:"size:36;index" json:"toAccountId,omitempty"` // transfer destination
	Type        TransactionType `gorm:"size:16;index;not null" json:"type"`
	IsRecurring bool            `gorm:"index" json:"isRecurring"`
	Rule        *RecurrenceRule `gorm:"serializer:json" json:"recurrenceRule,omitempty"`
	// CategoryTags are free-form category names used for expense breakdowns.
	CategoryTags []string `gorm:"serializer:json" json:"categoryTags"`
	// BalanceApplied records whether this transaction's effect has been folded
	// into the persisted account balance. Always false for recurring rules;
	// their occurrences are never persisted individually.
	BalanceApplied bool      `json:"balanceApplied"`
	Notes          string    `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Day returns the transaction's calendar day. Dates are compared as calendar
// days throughout the projection core, never as instants.
func (t *Transaction) Day() civil.Date {
	return civil.DateOf(t.Date.In(time.UTC))
}
