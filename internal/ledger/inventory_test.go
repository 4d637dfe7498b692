package ledger

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestAddTickets(t *testing.T) {
	l, _, _ := newTestLedger(t)

	if err := l.AddTickets(buyerA, 0, 3); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-admin AddTickets err = %v, want ErrUnauthorized", err)
	}
	if err := l.AddTickets(admin, 5, 3); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("out-of-range AddTickets err = %v, want ErrInvalidIndex", err)
	}
	if err := l.AddTickets(admin, 0, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("zero AddTickets err = %v, want ErrInvalidArgument", err)
	}
	if err := l.AddTickets(admin, 0, 3); err != nil {
		t.Fatalf("AddTickets: %v", err)
	}
	lst, _ := l.Listing(0)
	if lst.TicketsAvailable != 8 {
		t.Fatalf("available = %d, want 8", lst.TicketsAvailable)
	}
}

func TestAddTicketsOverflow(t *testing.T) {
	l, _, _ := newTestLedger(t)
	if err := l.AddTickets(admin, 0, math.MaxUint64-3); !errors.Is(err, ErrOverflow) {
		t.Fatalf("overflowing AddTickets err = %v, want ErrOverflow", err)
	}
	lst, _ := l.Listing(0)
	if lst.TicketsAvailable != 5 {
		t.Fatalf("available changed on failed add: %d", lst.TicketsAvailable)
	}
}

func TestAddTicketsRequiresForSale(t *testing.T) {
	l, _, _ := newTestLedger(t)
	// Empty the pool so the gate can be closed, then close it.
	if err := l.BlockTickets(admin, 0, 5); err != nil {
		t.Fatalf("BlockTickets: %v", err)
	}
	if err := l.ChangeForSale(admin, 0); err != nil {
		t.Fatalf("ChangeForSale: %v", err)
	}
	if err := l.AddTickets(admin, 0, 1); !errors.Is(err, ErrNotForSale) {
		t.Fatalf("AddTickets on closed listing err = %v, want ErrNotForSale", err)
	}
}

func TestChangeForSaleGuard(t *testing.T) {
	l, _, _ := newTestLedger(t)

	// For-sale listing: toggle off is allowed regardless of stock.
	if err := l.ChangeForSale(admin, 0); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	lst, _ := l.Listing(0)
	if lst.ForSale {
		t.Fatalf("listing still for sale after toggle")
	}

	// Off sale with stock remaining: the inherited permissive guard
	// rejects the toggle even though the documented intent would allow it.
	if err := l.ChangeForSale(admin, 0); !errors.Is(err, ErrNotForSale) {
		t.Fatalf("toggle on with stock err = %v, want ErrNotForSale", err)
	}

	// Drain the stock; the guard now lets the listing back on sale.
	// BlockTickets itself requires nothing of the sale gate.
	if err := l.BlockTickets(admin, 0, 5); err != nil {
		t.Fatalf("BlockTickets: %v", err)
	}
	if err := l.ChangeForSale(admin, 0); err != nil {
		t.Fatalf("toggle on with zero stock: %v", err)
	}
	lst, _ = l.Listing(0)
	if !lst.ForSale {
		t.Fatalf("listing not for sale after toggle")
	}

	if err := l.ChangeForSale(buyerA, 0); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-admin toggle err = %v, want ErrUnauthorized", err)
	}
}

func TestBlockTickets(t *testing.T) {
	l, _, _ := newTestLedger(t)

	if err := l.BlockTickets(admin, 0, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("zero block err = %v, want ErrInvalidArgument", err)
	}
	if err := l.BlockTickets(buyerA, 0, 1); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-admin block err = %v, want ErrUnauthorized", err)
	}
	if err := l.BlockTickets(admin, 0, 6); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("over-block err = %v, want ErrInsufficientStock", err)
	}
	if err := l.BlockTickets(admin, 0, 3); err != nil {
		t.Fatalf("BlockTickets: %v", err)
	}
	lst, _ := l.Listing(0)
	if lst.TicketsAvailable != 2 || lst.Sold != 0 {
		t.Fatalf("after block: available=%d sold=%d, want 2, 0", lst.TicketsAvailable, lst.Sold)
	}
}

// Scenario from the accounting contract: block 3 of 4, then a bulk buy of
// 2 must fail with InsufficientStock and leave state unchanged.
func TestBlockThenOversizedBuy(t *testing.T) {
	l, port, _ := newTestLedger(t)
	if err := l.BlockTickets(admin, 0, 1); err != nil { // 5 -> 4
		t.Fatalf("BlockTickets: %v", err)
	}
	if err := l.BlockTickets(admin, 0, 3); err != nil { // 4 -> 1
		t.Fatalf("BlockTickets: %v", err)
	}
	lst, _ := l.Listing(0)
	if lst.TicketsAvailable != 1 {
		t.Fatalf("available = %d, want 1", lst.TicketsAvailable)
	}

	callsBefore := port.calls
	err := l.BuyTickets(context.Background(), buyerA, 0, 2)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("buy err = %v, want ErrInsufficientStock", err)
	}
	if port.calls != callsBefore {
		t.Fatalf("transfer attempted despite failed stock precondition")
	}
	lst, _ = l.Listing(0)
	if lst.TicketsAvailable != 1 || lst.Sold != 0 || l.TotalRevenue() != 0 {
		t.Fatalf("state changed on failed buy: %+v revenue=%d", lst, l.TotalRevenue())
	}
	checkRevenueInvariant(t, l)
}

func TestRemoveListing(t *testing.T) {
	l, _, _ := newTestLedger(t)

	if err := l.RemoveListing(buyerA, 0); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-admin remove err = %v, want ErrUnauthorized", err)
	}
	if err := l.RemoveListing(admin, 3); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("out-of-range remove err = %v, want ErrInvalidIndex", err)
	}
	if err := l.RemoveListing(admin, 0); err != nil {
		t.Fatalf("RemoveListing: %v", err)
	}
	if l.ListingCount() != 0 {
		t.Fatalf("count = %d after removal, want 0", l.ListingCount())
	}
}

func TestRemoveListingBlockedBySoldTickets(t *testing.T) {
	l, _, _ := newTestLedger(t)
	if err := l.BuyTickets(context.Background(), buyerA, 0, 1); err != nil {
		t.Fatalf("BuyTickets: %v", err)
	}
	err := l.RemoveListing(admin, 0)
	if !errors.Is(err, ErrHasSoldTickets) {
		t.Fatalf("remove with sold tickets err = %v, want ErrHasSoldTickets", err)
	}
	if l.ListingCount() != 1 {
		t.Fatalf("catalog changed on failed removal")
	}
	lst, _ := l.Listing(0)
	if lst.Sold != 1 {
		t.Fatalf("sold = %d after failed removal, want 1", lst.Sold)
	}
}

// Swap-delete must relocate the last listing into the freed slot and keep
// holdings rows aligned with the moved index.
func TestRemoveListingSwapDelete(t *testing.T) {
	l, _, _ := newTestLedger(t)
	for _, name := range []string{"Dune", "Arrival"} {
		if _, err := l.AddListing(owner, NewListing{
			Admin: admin, Name: name, Image: "x.png", FilmIndustry: "Hollywood",
			Genre: "SciFi", Description: "d", Price: 10, InitialStock: 4,
		}); err != nil {
			t.Fatalf("AddListing %s: %v", name, err)
		}
	}
	// Buy from the last listing so it carries holdings that must survive
	// the relocation; the removal targets index 0, whose sold count is zero.
	if err := l.BuyTickets(context.Background(), buyerA, 2, 2); err != nil {
		t.Fatalf("BuyTickets: %v", err)
	}

	if err := l.RemoveListing(admin, 0); err != nil {
		t.Fatalf("RemoveListing: %v", err)
	}
	if l.ListingCount() != 2 {
		t.Fatalf("count = %d, want 2", l.ListingCount())
	}
	lst, err := l.Listing(0)
	if err != nil {
		t.Fatalf("Listing(0): %v", err)
	}
	if lst.Name != "Arrival" {
		t.Fatalf("slot 0 holds %q after swap-delete, want Arrival", lst.Name)
	}
	units, err := l.HoldingsOf(buyerA, 0)
	if err != nil || units != 2 {
		t.Fatalf("relocated holdings = %d, %v; want 2, nil", units, err)
	}
	if _, err := l.HoldingsOf(buyerA, 2); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("old index still addressable: %v", err)
	}
	checkRevenueInvariant(t, l)
}
