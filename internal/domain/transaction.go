package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the immutable record of one executed trade. Rows are
// append-only: nothing in this service updates or deletes them.
type Transaction struct {
	ID        string          `gorm:"primaryKey" json:"id"`
	UserID    string          `gorm:"index" json:"user_id"`
	Symbol    string          `json:"symbol"`
	AssetType AssetType       `json:"type"`
	Action    Action          `json:"action"`
	Quantity  decimal.Decimal `gorm:"type:numeric" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric" json:"price"`
	Total     decimal.Decimal `gorm:"type:numeric" json:"total"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}
