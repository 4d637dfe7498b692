package token

import (
	"context"
	"sync"

	"github.com/movietix/ticket-ledger/internal/ledger"
)

// MemoryBank is a map-backed account store with the same semantics as
// Bank. It backs tests and runs the service without a database.
type MemoryBank struct {
	mu       sync.Mutex
	balances map[ledger.Identity]uint64
}

// NewMemoryBank constructs an empty MemoryBank.
func NewMemoryBank() *MemoryBank {
	return &MemoryBank{balances: make(map[ledger.Identity]uint64)}
}

// TransferFrom moves amount between accounts. It returns (false, nil) when
// the source holds less than amount; it never errors.
func (b *MemoryBank) TransferFrom(_ context.Context, from, to ledger.Identity, amount uint64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[from] < amount {
		return false, nil
	}
	b.balances[from] -= amount
	b.balances[to] += amount
	return true, nil
}

// Deposit credits an account.
func (b *MemoryBank) Deposit(_ context.Context, account ledger.Identity, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] += amount
	return nil
}

// BalanceOf returns the current balance; unknown accounts hold zero.
func (b *MemoryBank) BalanceOf(_ context.Context, account ledger.Identity) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[account], nil
}
