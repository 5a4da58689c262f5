package store

import (
	"errors"
	"fmt"
	"testing"
)

// Compile-time checks that the interfaces are importable and usable.
func TestOrderStoreInterfaceExists(t *testing.T) {
	var _ OrderStore
	var _ OrderTx
	var _ WalletTx = OrderTx(nil)
	_ = OrderFilter{}
}

func TestSentinelErrorsSurviveWrapping(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrDuplicateTransaction, ErrDuplicateWalletEntry, ErrConcurrentModification, ErrBusy}

	for _, sentinel := range sentinels {
		wrapped := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", sentinel))
		if !errors.Is(wrapped, sentinel) {
			t.Errorf("Expected %v to match after wrapping", sentinel)
		}
		for _, other := range sentinels {
			if other != sentinel && errors.Is(wrapped, other) {
				t.Errorf("Expected %v not to match %v", wrapped, other)
			}
		}
	}
}
