package ledger

import (
	"context"
	"errors"
	"math"
	"testing"
)

// fakePort is an in-memory settlement port for tests. It keeps account
// balances, records every transfer, and can be told to reject or error the
// next transfer.
type fakePort struct {
	balances map[Identity]uint64
	reject   bool
	err      error
	calls    int
}

func newFakePort() *fakePort {
	return &fakePort{balances: make(map[Identity]uint64)}
}

func (p *fakePort) TransferFrom(_ context.Context, from, to Identity, amount uint64) (bool, error) {
	p.calls++
	if p.err != nil {
		e := p.err
		p.err = nil
		return false, e
	}
	if p.reject {
		p.reject = false
		return false, nil
	}
	if p.balances[from] < amount {
		return false, nil
	}
	p.balances[from] -= amount
	p.balances[to] += amount
	return true, nil
}

// recordSink records emitted events.
type recordSink struct {
	purchases []PurchaseSettled
	refunds   []RefundSettled
}

func (s *recordSink) PurchaseSettled(ev PurchaseSettled) { s.purchases = append(s.purchases, ev) }
func (s *recordSink) RefundSettled(ev RefundSettled)     { s.refunds = append(s.refunds, ev) }

const (
	owner Identity = 1
	admin Identity = 2
	buyerA Identity = 3
	buyerB Identity = 4
)

// newTestLedger builds a ledger with one listing (price 10, stock 5,
// admin 2) and funded buyer accounts.
func newTestLedger(t *testing.T) (*Ledger, *fakePort, *recordSink) {
	t.Helper()
	port := newFakePort()
	port.balances[buyerA] = 1000
	port.balances[buyerB] = 1000
	sink := &recordSink{}
	l, err := New(owner, port, sink)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	idx, err := l.AddListing(owner, NewListing{
		Admin:        admin,
		Name:         "Interstellar",
		Image:        "interstellar.png",
		FilmIndustry: "Hollywood",
		Genre:        "SciFi",
		Description:  "Space and time",
		Price:        10,
		InitialStock: 5,
	})
	if err != nil {
		t.Fatalf("AddListing: %v", err)
	}
	if idx != 0 {
		t.Fatalf("first listing index = %d, want 0", idx)
	}
	return l, port, sink
}

// checkRevenueInvariant asserts revenue == Σ price×sold over the catalog.
func checkRevenueInvariant(t *testing.T, l *Ledger) {
	t.Helper()
	var sum uint64
	for _, lst := range l.Listings() {
		sum += lst.Price * lst.Sold
	}
	if got := l.TotalRevenue(); got != sum {
		t.Fatalf("revenue invariant broken: total %d, sum of price×sold %d", got, sum)
	}
}

func TestNewRejectsBadArguments(t *testing.T) {
	if _, err := New(0, newFakePort(), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("New(0, port) err = %v, want ErrInvalidArgument", err)
	}
	if _, err := New(owner, nil, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("New(owner, nil) err = %v, want ErrInvalidArgument", err)
	}
}

func TestAddListingOwnerGate(t *testing.T) {
	l, _, _ := newTestLedger(t)
	_, err := l.AddListing(admin, NewListing{
		Name: "Dune", Image: "d.png", FilmIndustry: "Hollywood",
		Genre: "SciFi", Description: "Sand", Price: 5, InitialStock: 3,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-owner AddListing err = %v, want ErrUnauthorized", err)
	}
	if l.ListingCount() != 1 {
		t.Fatalf("catalog length changed on failed create")
	}
}

func TestAddListingValidation(t *testing.T) {
	l, _, _ := newTestLedger(t)
	base := NewListing{
		Name: "Dune", Image: "d.png", FilmIndustry: "Hollywood",
		Genre: "SciFi", Description: "Sand", Price: 5, InitialStock: 3,
	}

	for name, mutate := range map[string]func(*NewListing){
		"empty name":        func(in *NewListing) { in.Name = "" },
		"empty image":       func(in *NewListing) { in.Image = "" },
		"empty industry":    func(in *NewListing) { in.FilmIndustry = "" },
		"empty genre":       func(in *NewListing) { in.Genre = "" },
		"empty description": func(in *NewListing) { in.Description = "" },
		"zero price":        func(in *NewListing) { in.Price = 0 },
		"zero stock":        func(in *NewListing) { in.InitialStock = 0 },
	} {
		in := base
		mutate(&in)
		if _, err := l.AddListing(owner, in); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: err = %v, want ErrInvalidArgument", name, err)
		}
	}
	if l.ListingCount() != 1 {
		t.Fatalf("catalog length changed on failed creates")
	}
}

func TestAddListingDuplicateName(t *testing.T) {
	l, _, _ := newTestLedger(t)
	_, err := l.AddListing(owner, NewListing{
		Name: "Interstellar", Image: "x.png", FilmIndustry: "Hollywood",
		Genre: "Drama", Description: "Other", Price: 7, InitialStock: 2,
	})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("duplicate name err = %v, want ErrDuplicateName", err)
	}
	if l.ListingCount() != 1 {
		t.Fatalf("catalog length = %d after rejected duplicate, want 1", l.ListingCount())
	}
}

func TestAddListingDefaultsAdminToOwner(t *testing.T) {
	l, _, _ := newTestLedger(t)
	idx, err := l.AddListing(owner, NewListing{
		Name: "Dune", Image: "d.png", FilmIndustry: "Hollywood",
		Genre: "SciFi", Description: "Sand", Price: 5, InitialStock: 3,
	})
	if err != nil {
		t.Fatalf("AddListing: %v", err)
	}
	lst, err := l.Listing(idx)
	if err != nil {
		t.Fatalf("Listing: %v", err)
	}
	if lst.Admin != owner {
		t.Fatalf("default admin = %d, want owner %d", lst.Admin, owner)
	}
	if !lst.ForSale || lst.Sold != 0 || lst.TicketsAvailable != 3 {
		t.Fatalf("new listing state = %+v", lst)
	}
}

func TestListingBounds(t *testing.T) {
	l, _, _ := newTestLedger(t)
	if _, err := l.Listing(1); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("Listing(1) err = %v, want ErrInvalidIndex", err)
	}
	if _, err := l.Listing(-1); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("Listing(-1) err = %v, want ErrInvalidIndex", err)
	}
}

func TestHoldingsOfValidation(t *testing.T) {
	l, _, _ := newTestLedger(t)
	if _, err := l.HoldingsOf(0, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("null buyer err = %v, want ErrInvalidArgument", err)
	}
	if _, err := l.HoldingsOf(buyerA, 9); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("out-of-range err = %v, want ErrInvalidIndex", err)
	}
	units, err := l.HoldingsOf(buyerA, 0)
	if err != nil || units != 0 {
		t.Fatalf("fresh holdings = %d, %v; want 0, nil", units, err)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	l, _, _ := newTestLedger(t)
	if err := l.BuyTickets(context.Background(), buyerA, 0, 2); err != nil {
		t.Fatalf("BuyTickets: %v", err)
	}
	snap := l.Snapshot()

	port := newFakePort()
	restored, err := New(owner, port, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := restored.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.TotalRevenue() != 20 || restored.ListingCount() != 1 {
		t.Fatalf("restored revenue=%d count=%d", restored.TotalRevenue(), restored.ListingCount())
	}
	units, err := restored.HoldingsOf(buyerA, 0)
	if err != nil || units != 2 {
		t.Fatalf("restored holdings = %d, %v; want 2, nil", units, err)
	}
	checkRevenueInvariant(t, restored)

	// Mutating the snapshot afterwards must not reach the restored ledger.
	snap.Listings[0].Sold = 99
	if lst, _ := restored.Listing(0); lst.Sold != 2 {
		t.Fatalf("restored ledger aliases snapshot memory")
	}
}

func TestRestoreRejectsInconsistentSnapshot(t *testing.T) {
	l, _, _ := newTestLedger(t)
	bad := l.Snapshot()
	bad.TotalRevenue = 5 // sum of price×sold is 0
	if err := l.Restore(bad); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Restore err = %v, want ErrInvalidArgument", err)
	}

	bad2 := l.Snapshot()
	bad2.Holdings[buyerA] = map[int]uint64{7: 1}
	if err := l.Restore(bad2); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("Restore err = %v, want ErrInvalidIndex", err)
	}
}

// A snapshot whose price×sold product wraps must not pass the revenue
// consistency check by matching the wrapped value.
func TestRestoreRejectsWrappingRevenue(t *testing.T) {
	l, _, _ := newTestLedger(t)
	bad := Snapshot{
		Listings: []Listing{{
			Admin:            admin,
			Name:             "Overflow",
			Image:            "overflow.png",
			FilmIndustry:     "Hollywood",
			Genre:            "SciFi",
			Description:      "x",
			Price:            math.MaxUint64,
			Sold:             2,
			TicketsAvailable: 0,
			ForSale:          true,
		}},
		Holdings: map[Identity]map[int]uint64{buyerA: {0: 2}},
		// MaxUint64 × 2 wraps to MaxUint64-1; an unchecked sum would
		// accept this revenue scalar.
		TotalRevenue: math.MaxUint64 - 1,
	}
	if err := l.Restore(bad); !errors.Is(err, ErrOverflow) {
		t.Fatalf("Restore err = %v, want ErrOverflow", err)
	}
}
