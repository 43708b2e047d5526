package domain

import (
	"errors"
	"testing"
)

func TestStorageError(t *testing.T) {
	baseErr := errors.New("database is locked")

	t.Run("retriable error", func(t *testing.T) {
		err := NewStorageError("debit", baseErr)

		if !err.IsRetriable() {
			t.Error("Expected error to be retriable")
		}

		if err.Error() != "storage debit: database is locked" {
			t.Errorf("Error message = %q, want %q", err.Error(), "storage debit: database is locked")
		}

		if !errors.Is(err, baseErr) {
			t.Error("Expected error to wrap baseErr")
		}
	})

	t.Run("fatal error", func(t *testing.T) {
		err := NewFatalStorageError("migrate", baseErr)

		if err.IsRetriable() {
			t.Error("Expected error to not be retriable")
		}
	})

	t.Run("IsRetriable helper", func(t *testing.T) {
		retriable := NewStorageError("append", baseErr)
		fatal := NewFatalStorageError("migrate", baseErr)
		plain := errors.New("plain error")

		if !IsRetriable(retriable) {
			t.Error("IsRetriable should return true for retriable error")
		}

		if IsRetriable(fatal) {
			t.Error("IsRetriable should return false for fatal error")
		}

		if IsRetriable(plain) {
			t.Error("IsRetriable should return false for plain error")
		}
	})
}

func TestConfigError(t *testing.T) {
	baseErr := errors.New("missing value")
	err := &ConfigError{Field: "database.path", Err: baseErr}

	if err.IsRetriable() {
		t.Error("ConfigError should never be retriable")
	}

	expected := "config error [database.path]: missing value"
	if err.Error() != expected {
		t.Errorf("Error message = %q, want %q", err.Error(), expected)
	}
}

func TestRejectionsAreNotRetriable(t *testing.T) {
	rejections := []error{
		ErrInvalidInput,
		ErrInvalidAmount,
		ErrInsufficientBalance,
		ErrNoHolding,
		ErrInsufficientHoldings,
		ErrAccountNotFound,
	}
	for _, err := range rejections {
		if IsRetriable(err) {
			t.Errorf("%v should not be retriable", err)
		}
	}
}
