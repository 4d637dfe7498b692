package ledger

import (
	"context"
	"errors"
	"testing"
)

func TestRefundPreconditions(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	if err := l.RefundTickets(ctx, 0, 0, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("null caller err = %v, want ErrInvalidArgument", err)
	}
	if err := l.RefundTickets(ctx, buyerA, 4, 1); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("out-of-range err = %v, want ErrInvalidIndex", err)
	}
	if err := l.RefundTickets(ctx, buyerA, 0, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("zero count err = %v, want ErrInvalidArgument", err)
	}
	if err := l.RefundTickets(ctx, buyerA, 0, 1); !errors.Is(err, ErrInsufficientHoldings) {
		t.Fatalf("refund without holdings err = %v, want ErrInsufficientHoldings", err)
	}
}

func TestRefundExceedingHoldings(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()
	if err := l.BuyTickets(ctx, buyerA, 0, 2); err != nil {
		t.Fatalf("BuyTickets: %v", err)
	}
	if err := l.RefundTickets(ctx, buyerA, 0, 3); !errors.Is(err, ErrInsufficientHoldings) {
		t.Fatalf("over-refund err = %v, want ErrInsufficientHoldings", err)
	}
	units, _ := l.HoldingsOf(buyerA, 0)
	if units != 2 {
		t.Fatalf("holdings changed on failed refund: %d", units)
	}
	checkRevenueInvariant(t, l)
}

func TestRefundSettlementFailureLeavesStateUntouched(t *testing.T) {
	l, port, sink := newTestLedger(t)
	ctx := context.Background()
	if err := l.BuyTickets(ctx, buyerA, 0, 2); err != nil {
		t.Fatalf("BuyTickets: %v", err)
	}

	port.reject = true
	if err := l.RefundTickets(ctx, buyerA, 0, 1); !errors.Is(err, ErrSettlementFailed) {
		t.Fatalf("rejected refund transfer err = %v, want ErrSettlementFailed", err)
	}
	lst, _ := l.Listing(0)
	units, _ := l.HoldingsOf(buyerA, 0)
	if lst.Sold != 2 || lst.TicketsAvailable != 3 || units != 2 || l.TotalRevenue() != 20 {
		t.Fatalf("state mutated on failed refund: sold=%d available=%d holdings=%d revenue=%d",
			lst.Sold, lst.TicketsAvailable, units, l.TotalRevenue())
	}
	if len(sink.refunds) != 0 {
		t.Fatalf("refund event emitted for failed settlement")
	}
}

// Refunds intentionally ignore the sale gate: tickets of a delisted
// listing stay refundable.
func TestRefundIgnoresForSale(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()
	if err := l.BuyTickets(ctx, buyerA, 0, 2); err != nil {
		t.Fatalf("BuyTickets: %v", err)
	}
	if err := l.ChangeForSale(admin, 0); err != nil {
		t.Fatalf("ChangeForSale: %v", err)
	}
	if err := l.RefundTickets(ctx, buyerA, 0, 2); err != nil {
		t.Fatalf("refund of delisted listing: %v", err)
	}
	lst, _ := l.Listing(0)
	if lst.Sold != 0 || lst.TicketsAvailable != 5 {
		t.Fatalf("after refund: sold=%d available=%d", lst.Sold, lst.TicketsAvailable)
	}
	checkRevenueInvariant(t, l)
}

// A buyer cannot refund units another buyer holds.
func TestRefundOnlyOwnHoldings(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()
	if err := l.BuyTickets(ctx, buyerA, 0, 2); err != nil {
		t.Fatalf("BuyTickets: %v", err)
	}
	if err := l.RefundTickets(ctx, buyerB, 0, 1); !errors.Is(err, ErrInsufficientHoldings) {
		t.Fatalf("foreign refund err = %v, want ErrInsufficientHoldings", err)
	}
}
