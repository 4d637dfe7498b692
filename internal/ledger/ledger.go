package ledger

import (
	"context"
	"fmt"
	"sync"
)

// TokenTransferPort is the external fungible-value ledger used for
// settlement. A transfer either fully moves amount from one account to the
// other or moves nothing. A false result or an error both surface as
// ErrSettlementFailed and are never retried by the ledger.
type TokenTransferPort interface {
	TransferFrom(ctx context.Context, from, to Identity, amount uint64) (bool, error)
}

// PurchaseSettled describes a committed purchase. It is handed to the
// EventSink after all bookkeeping has been applied.
type PurchaseSettled struct {
	Buyer        Identity
	ListingIndex int
	ListingName  string
	Units        uint64
	Amount       uint64
}

// RefundSettled describes a committed refund.
type RefundSettled struct {
	Buyer        Identity
	ListingIndex int
	ListingName  string
	Units        uint64
	Amount       uint64
}

// EventSink receives fire-and-forget notifications of settled operations.
// Implementations must not fail the calling operation; the ledger ignores
// anything that happens inside the sink. The sink is invoked after the
// ledger's mutex has been released, so it may block on I/O or read the
// ledger without stalling other operations.
type EventSink interface {
	PurchaseSettled(ev PurchaseSettled)
	RefundSettled(ev RefundSettled)
}

// Ledger is the process-wide ticket-sale state: the dense listing arena,
// the two-level holdings map, and the running revenue total. A single
// mutex serializes every public operation, so each one executes as an
// indivisible unit: it either commits fully or, on any failed precondition
// or failed transfer, leaves the state untouched.
//
// Listing indices are dense but NOT stable: removal relocates the last
// listing into the freed slot (swap-delete), so any externally held index
// must be revalidated after a removal elsewhere in the catalog.
type Ledger struct {
	mu       sync.Mutex
	owner    Identity
	listings []Listing
	holdings map[Identity]map[int]uint64 // buyer -> listing index -> units held
	revenue  uint64
	port     TokenTransferPort
	sink     EventSink // may be nil; invoked outside the mutex
}

// New constructs a Ledger with the given owner identity and settlement
// port. The owner is fixed for the lifetime of the ledger. sink may be nil
// when no observer is interested in settlement events.
func New(owner Identity, port TokenTransferPort, sink EventSink) (*Ledger, error) {
	if owner == 0 {
		return nil, fmt.Errorf("%w: owner identity must not be null", ErrInvalidArgument)
	}
	if port == nil {
		return nil, fmt.Errorf("%w: token transfer port is required", ErrInvalidArgument)
	}
	return &Ledger{
		owner:    owner,
		holdings: make(map[Identity]map[int]uint64),
		port:     port,
		sink:     sink,
	}, nil
}

// Owner returns the fixed owner identity.
func (l *Ledger) Owner() Identity { return l.owner }

// requireOwner fails unless caller is the ledger owner.
func (l *Ledger) requireOwner(caller Identity) error {
	if caller != l.owner {
		return fmt.Errorf("%w: caller %d is not the ledger owner", ErrUnauthorized, caller)
	}
	return nil
}

// requireListingAdmin fails with ErrInvalidIndex when index is out of the
// current bounds and with ErrUnauthorized when the caller is not the
// listing's admin. Bounds are checked explicitly first; field access never
// relies on a default-valued record standing in for "absent".
func (l *Ledger) requireListingAdmin(caller Identity, index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	if caller != l.listings[index].Admin {
		return fmt.Errorf("%w: caller %d is not the admin of listing %d", ErrUnauthorized, caller, index)
	}
	return nil
}

// checkIndex validates that index addresses a live listing.
func (l *Ledger) checkIndex(index int) error {
	if index < 0 || index >= len(l.listings) {
		return fmt.Errorf("%w: %d (count is %d)", ErrInvalidIndex, index, len(l.listings))
	}
	return nil
}

// AddListing creates a new listing. Only the owner may call it. All text
// fields must be non-empty and price and initial stock strictly positive.
// Names are unique across the catalog; uniqueness is checked with an exact
// byte comparison over all existing listings, which is a deliberate O(n)
// scan acceptable at catalog sizes this system runs at. The new listing
// starts with Sold=0, ForSale=true, and is assigned the next dense index,
// which is returned.
func (l *Ledger) AddListing(caller Identity, in NewListing) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireOwner(caller); err != nil {
		return 0, err
	}
	for name, v := range map[string]string{
		"name":          in.Name,
		"image":         in.Image,
		"film_industry": in.FilmIndustry,
		"genre":         in.Genre,
		"description":   in.Description,
	} {
		if v == "" {
			return 0, fmt.Errorf("%w: %s must not be empty", ErrInvalidArgument, name)
		}
	}
	if in.Price == 0 {
		return 0, fmt.Errorf("%w: price must be positive", ErrInvalidArgument)
	}
	if in.InitialStock == 0 {
		return 0, fmt.Errorf("%w: initial stock must be positive", ErrInvalidArgument)
	}
	for i := range l.listings {
		if l.listings[i].Name == in.Name {
			return 0, fmt.Errorf("%w: %q", ErrDuplicateName, in.Name)
		}
	}
	admin := in.Admin
	if admin == 0 {
		admin = caller
	}
	l.listings = append(l.listings, Listing{
		Admin:            admin,
		Name:             in.Name,
		Image:            in.Image,
		FilmIndustry:     in.FilmIndustry,
		Genre:            in.Genre,
		Description:      in.Description,
		Price:            in.Price,
		Sold:             0,
		TicketsAvailable: in.InitialStock,
		ForSale:          true,
	})
	return len(l.listings) - 1, nil
}

// Listing returns an immutable snapshot of the listing at index. It fails
// with ErrInvalidIndex when the index is out of bounds.
func (l *Ledger) Listing(index int) (Listing, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.checkIndex(index); err != nil {
		return Listing{}, err
	}
	return l.listings[index], nil
}

// Listings returns a snapshot of the whole catalog in index order.
func (l *Ledger) Listings() []Listing {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Listing, len(l.listings))
	copy(out, l.listings)
	return out
}

// ListingCount returns the number of live listings.
func (l *Ledger) ListingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.listings)
}

// HoldingsOf returns the units currently held by buyer for the listing at
// index. A null buyer identity fails with ErrInvalidArgument and an
// out-of-range index with ErrInvalidIndex. A buyer with no ledger entry
// holds zero units; a zero balance is a valid state, not an error.
func (l *Ledger) HoldingsOf(buyer Identity, index int) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if buyer == 0 {
		return 0, fmt.Errorf("%w: buyer identity must not be null", ErrInvalidArgument)
	}
	if err := l.checkIndex(index); err != nil {
		return 0, err
	}
	return l.holdings[buyer][index], nil
}

// TotalRevenue returns the running total of settled proceeds across all
// listings. At every quiescent point it equals the sum over listings of
// price times sold.
func (l *Ledger) TotalRevenue() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revenue
}

// addHoldings bumps the buyer's entry for index, creating the inner map
// lazily on first purchase. Entries are never deleted; a zero balance is a
// terminal state. The caller holds the mutex.
func (l *Ledger) addHoldings(buyer Identity, index int, n uint64) {
	m := l.holdings[buyer]
	if m == nil {
		m = make(map[int]uint64)
		l.holdings[buyer] = m
	}
	m[index] += n
}

// emitPurchase and emitRefund hand committed events to the sink. Both run
// with the mutex released; the sink field is fixed at construction so the
// unlocked read is safe. The event carries the listing name so a sink
// never has to call back into the ledger.
func (l *Ledger) emitPurchase(ev PurchaseSettled) {
	if l.sink != nil {
		l.sink.PurchaseSettled(ev)
	}
}

func (l *Ledger) emitRefund(ev RefundSettled) {
	if l.sink != nil {
		l.sink.RefundSettled(ev)
	}
}
