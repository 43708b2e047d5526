package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/glebarez/sqlite"

	"tradesim/internal/domain"
)

// Storage persists accounts, positions, transactions, and watchlists in
// SQLite. Trade mutations go through InTx; everything else is read-side
// or single-row.
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (and migrates) the SQLite database at path.
func NewStorage(path string) (*Storage, error) {
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(
		&domain.Account{},
		&domain.Position{},
		&domain.Transaction{},
		&domain.WatchlistItem{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// InTx runs fn against a transaction-scoped TradeStore. All writes inside
// fn commit together; any returned error rolls the whole unit back.
func (s *Storage) InTx(ctx context.Context, fn func(domain.TradeStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txStore{db: tx})
	})
}

// txStore is the TradeStore bound to one open transaction.
type txStore struct {
	db *gorm.DB
}

func (t *txStore) GetAccount(userID string) (*domain.Account, error) {
	var account domain.Account
	err := t.db.First(&account, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStorageError("get account", err)
	}
	return &account, nil
}

func (t *txStore) SaveAccount(account *domain.Account) error {
	if err := t.db.Save(account).Error; err != nil {
		return domain.NewStorageError("save account", err)
	}
	return nil
}

func (t *txStore) GetPosition(userID, symbol string, assetType domain.AssetType) (*domain.Position, error) {
	var position domain.Position
	err := t.db.First(&position, "user_id = ? AND symbol = ? AND asset_type = ?", userID, symbol, assetType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStorageError("get position", err)
	}
	return &position, nil
}

func (t *txStore) SavePosition(position *domain.Position) error {
	if err := t.db.Save(position).Error; err != nil {
		return domain.NewStorageError("save position", err)
	}
	return nil
}

func (t *txStore) DeletePosition(position *domain.Position) error {
	if err := t.db.Delete(&domain.Position{}, "id = ?", position.ID).Error; err != nil {
		return domain.NewStorageError("delete position", err)
	}
	return nil
}

func (t *txStore) AppendTransaction(tx *domain.Transaction) error {
	if err := t.db.Create(tx).Error; err != nil {
		return domain.NewStorageError("append transaction", err)
	}
	return nil
}

// ======================================================================================
// Account Operations
// ======================================================================================

// EnsureAccount provisions the user's account with the starting balance.
// Idempotent: an existing account is returned unchanged.
func (s *Storage) EnsureAccount(userID string, startingBalance decimal.Decimal) (*domain.Account, bool, error) {
	var account domain.Account
	err := s.db.First(&account, "user_id = ?", userID).Error
	if err == nil {
		return &account, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	account = domain.Account{UserID: userID, Balance: startingBalance}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, false, err
	}
	return &account, true, nil
}

// FindAccount retrieves an account, nil when absent.
func (s *Storage) FindAccount(userID string) (*domain.Account, error) {
	var account domain.Account
	err := s.db.First(&account, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ======================================================================================
// Portfolio Read Path
// ======================================================================================

// ListPositions returns all open positions for the user, sorted by symbol.
func (s *Storage) ListPositions(userID string) ([]domain.Position, error) {
	var positions []domain.Position
	err := s.db.Where("user_id = ?", userID).Order("symbol, asset_type").Find(&positions).Error
	return positions, err
}

// ListTransactions returns the user's transactions newest first. page is
// 1-based; action filters to BUY/SELL when non-nil.
func (s *Storage) ListTransactions(userID string, page, limit int, action *domain.Action) ([]domain.Transaction, error) {
	q := s.db.Where("user_id = ?", userID)
	if action != nil {
		q = q.Where("action = ?", *action)
	}

	var transactions []domain.Transaction
	err := q.Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

// CountTransactions returns the number of matching transaction rows.
func (s *Storage) CountTransactions(userID string, action *domain.Action) (int64, error) {
	q := s.db.Model(&domain.Transaction{}).Where("user_id = ?", userID)
	if action != nil {
		q = q.Where("action = ?", *action)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// ======================================================================================
// Watchlist Operations
// ======================================================================================

// ListWatchlist returns the user's watchlist, newest first.
func (s *Storage) ListWatchlist(userID string) ([]domain.WatchlistItem, error) {
	var items []domain.WatchlistItem
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error
	return items, err
}

// AddWatchlistItem inserts the item, rejecting duplicates per
// (user, symbol, assetType).
func (s *Storage) AddWatchlistItem(item *domain.WatchlistItem) error {
	var existing domain.WatchlistItem
	err := s.db.First(&existing, "user_id = ? AND symbol = ? AND asset_type = ?",
		item.UserID, item.Symbol, item.AssetType).Error
	if err == nil {
		return domain.ErrDuplicateWatchlistItem
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	item.ID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()
	return s.db.Create(item).Error
}

// RemoveWatchlistItem deletes the item for (user, symbol, assetType).
func (s *Storage) RemoveWatchlistItem(userID, symbol string, assetType domain.AssetType) error {
	res := s.db.Where("user_id = ? AND symbol = ? AND asset_type = ?", userID, symbol, assetType).
		Delete(&domain.WatchlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrWatchlistItemNotFound
	}
	return nil
}
