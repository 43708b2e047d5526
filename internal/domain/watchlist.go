package domain

import "time"

// WatchlistItem marks a (symbol, assetType) a user is tracking.
// Unique per (user, symbol, assetType); duplicate adds are rejected.
type WatchlistItem struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index:idx_watch_user_symbol_type,unique" json:"user_id"`
	Symbol    string    `gorm:"index:idx_watch_user_symbol_type,unique" json:"symbol"`
	AssetType AssetType `gorm:"index:idx_watch_user_symbol_type,unique" json:"type"`
	Meta      string    `json:"meta,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
