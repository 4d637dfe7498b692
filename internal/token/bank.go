// Package token implements the external fungible-value ledger that the
// ticket ledger settles against. Both implementations satisfy
// ledger.TokenTransferPort: a transfer either fully moves the amount or
// moves nothing and reports false.
package token

import (
	"context"      // context bounds the lifetime of each bank query
	"database/sql" // sql provides DB abstraction and transactions
	"errors"       // errors for sentinel matching

	"github.com/movietix/ticket-ledger/internal/ledger"
)

// Bank is the MySQL-backed account store. Balances live in the 'accounts'
// table keyed by account_id. TransferFrom locks the debited row for the
// duration of the transaction so concurrent transfers cannot overdraw.
type Bank struct {
	db *sql.DB
}

// NewBank constructs a Bank with the given DB handle.
func NewBank(db *sql.DB) *Bank {
	return &Bank{db: db}
}

// TransferFrom moves amount from one account to the other inside a single
// transaction. It returns (false, nil) when the source account does not
// exist or holds less than amount; errors are reserved for infrastructure
// failures. The destination row is created on first credit.
func (b *Bank) TransferFrom(ctx context.Context, from, to ledger.Identity, amount uint64) (bool, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var balance uint64
	err = tx.QueryRowContext(ctx,
		"SELECT balance FROM accounts WHERE account_id=? FOR UPDATE",
		uint64(from)).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if balance < amount {
		return false, nil
	}
	if _, err = tx.ExecContext(ctx,
		"UPDATE accounts SET balance = balance - ? WHERE account_id=?",
		amount, uint64(from)); err != nil {
		return false, err
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO accounts (account_id, balance) VALUES (?,?) ON DUPLICATE KEY UPDATE balance = balance + ?",
		uint64(to), amount, amount); err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// Deposit credits an account, creating the row on first use. It is used to
// fund accounts at registration and from seeding tools.
func (b *Bank) Deposit(ctx context.Context, account ledger.Identity, amount uint64) error {
	_, err := b.db.ExecContext(ctx,
		"INSERT INTO accounts (account_id, balance) VALUES (?,?) ON DUPLICATE KEY UPDATE balance = balance + ?",
		uint64(account), amount, amount)
	return err
}

// BalanceOf returns the current balance of an account. Unknown accounts
// hold zero.
func (b *Bank) BalanceOf(ctx context.Context, account ledger.Identity) (uint64, error) {
	var balance uint64
	err := b.db.QueryRowContext(ctx,
		"SELECT balance FROM accounts WHERE account_id=?",
		uint64(account)).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return balance, err
}
