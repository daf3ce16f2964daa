package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single income or expense entry owned by one user.
// Rows are hard-deleted, so gorm.Model (and its DeletedAt) is not embedded.
type Transaction struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	UserID      uint            `gorm:"not null;index:idx_transactions_owner_time,priority:1" json:"-"`
	Kind        Kind            `gorm:"not null;size:16" json:"kind"`
	Category    string          `gorm:"type:text;not null" json:"category"`
	Amount      decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	OccurredAt  time.Time       `gorm:"not null;index:idx_transactions_owner_time,priority:2" json:"occurred_at"`
}
