package token

import (
	"context"
	"testing"
)

func TestMemoryBankTransfer(t *testing.T) {
	b := NewMemoryBank()
	ctx := context.Background()
	if err := b.Deposit(ctx, 1, 100); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	ok, err := b.TransferFrom(ctx, 1, 2, 60)
	if err != nil || !ok {
		t.Fatalf("TransferFrom = %v, %v; want true, nil", ok, err)
	}
	if got, _ := b.BalanceOf(ctx, 1); got != 40 {
		t.Fatalf("source balance = %d, want 40", got)
	}
	if got, _ := b.BalanceOf(ctx, 2); got != 60 {
		t.Fatalf("destination balance = %d, want 60", got)
	}
}

func TestMemoryBankInsufficientFunds(t *testing.T) {
	b := NewMemoryBank()
	ctx := context.Background()
	if err := b.Deposit(ctx, 1, 10); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	ok, err := b.TransferFrom(ctx, 1, 2, 11)
	if err != nil {
		t.Fatalf("TransferFrom err = %v", err)
	}
	if ok {
		t.Fatalf("overdraw reported success")
	}
	if got, _ := b.BalanceOf(ctx, 1); got != 10 {
		t.Fatalf("source balance changed on rejected transfer: %d", got)
	}
	if got, _ := b.BalanceOf(ctx, 2); got != 0 {
		t.Fatalf("destination credited on rejected transfer: %d", got)
	}
}

func TestMemoryBankUnknownAccounts(t *testing.T) {
	b := NewMemoryBank()
	ctx := context.Background()
	if got, _ := b.BalanceOf(ctx, 42); got != 0 {
		t.Fatalf("unknown account balance = %d, want 0", got)
	}
	ok, err := b.TransferFrom(ctx, 42, 1, 1)
	if err != nil || ok {
		t.Fatalf("transfer from unknown account = %v, %v; want false, nil", ok, err)
	}
}
