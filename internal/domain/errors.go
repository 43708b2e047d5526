package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// StorageError represents a persistence failure inside an atomic unit.
// Retriable failures (lock timeout, connectivity) are safe to retry as a
// whole call: the unit is rolled back, so no partial effect is observable.
type StorageError struct {
	Op        string // Operation that failed (e.g., "debit", "append")
	Err       error  // Underlying error
	Retriable bool   // Whether this error is retriable
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) IsRetriable() bool {
	return e.Retriable
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new retriable storage error
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err, Retriable: true}
}

// NewFatalStorageError creates a non-retriable storage error
func NewFatalStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err, Retriable: false}
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Trade rejection reasons. All are terminal for the call and leave the
// balance, position book, and transaction log untouched.
var (
	// ErrInvalidInput is returned for non-positive quantity/price or
	// missing fields. Caller must correct the request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidAmount is returned when a ledger operation receives a
	// non-positive amount. Caller contract violation.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientBalance is returned when a buy total exceeds the cash balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNoHolding is returned when selling a symbol the user does not hold
	ErrNoHolding = errors.New("no holding for asset")

	// ErrInsufficientHoldings is returned when selling more than is held
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrAccountNotFound means the acting user has no account row.
	// Provisioning is external; this is a fatal precondition violation.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateWatchlistItem is returned when adding a symbol that is
	// already on the user's watchlist.
	ErrDuplicateWatchlistItem = errors.New("already in watchlist")

	// ErrWatchlistItemNotFound is returned when removing a symbol that is
	// not on the user's watchlist.
	ErrWatchlistItemNotFound = errors.New("not in watchlist")
)
