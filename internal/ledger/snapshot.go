package ledger

import (
	"fmt"
	"math"
)

// Snapshot is a deep value copy of the ledger's persistent state in the
// durable layout: the dense listing table, the two-level holdings map, and
// the revenue scalar. It shares no memory with the live ledger.
type Snapshot struct {
	Listings     []Listing
	Holdings     map[Identity]map[int]uint64
	TotalRevenue uint64
}

// Snapshot captures the current state for durable persistence.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Snapshot{
		Listings:     make([]Listing, len(l.listings)),
		Holdings:     make(map[Identity]map[int]uint64, len(l.holdings)),
		TotalRevenue: l.revenue,
	}
	copy(s.Listings, l.listings)
	for buyer, m := range l.holdings {
		inner := make(map[int]uint64, len(m))
		for idx, units := range m {
			inner[idx] = units
		}
		s.Holdings[buyer] = inner
	}
	return s
}

// Restore replaces the ledger state with a previously captured snapshot,
// typically at process start. The snapshot must be internally consistent:
// the revenue scalar has to equal the sum over listings of price×sold, and
// every holdings row must address a live listing. The snapshot is deep
// copied in, so the caller may keep or modify it afterwards.
func (l *Ledger) Restore(s Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var sum uint64
	for i := range s.Listings {
		price, sold := s.Listings[i].Price, s.Listings[i].Sold
		// Checked arithmetic: a wrapping product could make a corrupt
		// snapshot's revenue scalar look consistent.
		if sold != 0 && price > math.MaxUint64/sold {
			return fmt.Errorf("%w: price %d times %d sold in listing %d", ErrOverflow, price, sold, i)
		}
		amount := price * sold
		if sum > math.MaxUint64-amount {
			return fmt.Errorf("%w: revenue sum over listings", ErrOverflow)
		}
		sum += amount
	}
	if sum != s.TotalRevenue {
		return fmt.Errorf("%w: revenue %d does not match sum of price×sold %d", ErrInvalidArgument, s.TotalRevenue, sum)
	}
	for buyer, m := range s.Holdings {
		for idx := range m {
			if idx < 0 || idx >= len(s.Listings) {
				return fmt.Errorf("%w: holdings of buyer %d reference listing %d", ErrInvalidIndex, buyer, idx)
			}
		}
	}

	l.listings = make([]Listing, len(s.Listings))
	copy(l.listings, s.Listings)
	l.holdings = make(map[Identity]map[int]uint64, len(s.Holdings))
	for buyer, m := range s.Holdings {
		inner := make(map[int]uint64, len(m))
		for idx, units := range m {
			inner[idx] = units
		}
		l.holdings[buyer] = inner
	}
	l.revenue = s.TotalRevenue
	return nil
}
