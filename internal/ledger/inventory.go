package ledger

import (
	"fmt"
	"math"
)

// AddTickets grows the available stock of the listing at index by n. Only
// the listing admin may call it, n must be positive, the listing must be
// for sale, and the new stock level must fit the counter: growth is
// checked, never wrapped.
func (l *Ledger) AddTickets(caller Identity, index int, n uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireListingAdmin(caller, index); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: ticket count must be positive", ErrInvalidArgument)
	}
	lst := &l.listings[index]
	if !lst.ForSale {
		return fmt.Errorf("%w: cannot add tickets to listing %d", ErrNotForSale, index)
	}
	if lst.TicketsAvailable > math.MaxUint64-n {
		return fmt.Errorf("%w: adding %d tickets to listing %d", ErrOverflow, n, index)
	}
	lst.TicketsAvailable += n
	return nil
}

// ChangeForSale toggles the sale gate of the listing at index. The guard
// is the permissive condition inherited from the reference behavior: the
// toggle is allowed whenever the listing is currently for sale OR has zero
// available stock. This does not match the stated intent of "must have
// tickets to go on sale" — a listing with stock that is currently off sale
// cannot be toggled back on — but the condition is preserved literally
// rather than corrected, as documented in DESIGN.md.
func (l *Ledger) ChangeForSale(caller Identity, index int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireListingAdmin(caller, index); err != nil {
		return err
	}
	lst := &l.listings[index]
	if !lst.ForSale && lst.TicketsAvailable != 0 {
		return fmt.Errorf("%w: listing %d cannot be toggled", ErrNotForSale, index)
	}
	lst.ForSale = !lst.ForSale
	return nil
}

// BlockTickets removes n tickets from the listing's available pool. Only
// the listing admin may call it and n must be positive and not exceed the
// current availability. Blocking is purely a reduction of available stock:
// there is no separate blocked counter, and the only way to return blocked
// units to the pool is AddTickets.
func (l *Ledger) BlockTickets(caller Identity, index int, n uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireListingAdmin(caller, index); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: ticket count must be positive", ErrInvalidArgument)
	}
	lst := &l.listings[index]
	if lst.TicketsAvailable < n {
		return fmt.Errorf("%w: %d available, %d requested", ErrInsufficientStock, lst.TicketsAvailable, n)
	}
	lst.TicketsAvailable -= n
	return nil
}

// RemoveListing deletes the listing at index. Only the listing admin may
// call it and the listing must have no outstanding sold tickets. Removal
// is swap-delete: the last listing is relocated into the freed slot and
// the arena shrinks by one, keeping the index space dense at O(1) cost.
// Holdings rows keyed by the relocated last index are remapped to the
// freed index so the holdings table stays aligned with the arena; the
// removed listing's own rows are necessarily all zero given Sold == 0.
// Indices are therefore not stable identifiers across removals.
func (l *Ledger) RemoveListing(caller Identity, index int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireListingAdmin(caller, index); err != nil {
		return err
	}
	if l.listings[index].Sold != 0 {
		return fmt.Errorf("%w: listing %d has %d sold tickets", ErrHasSoldTickets, index, l.listings[index].Sold)
	}
	last := len(l.listings) - 1
	if index != last {
		l.listings[index] = l.listings[last]
		for _, m := range l.holdings {
			if units, ok := m[last]; ok {
				m[index] = units
				delete(m, last)
			} else {
				delete(m, index)
			}
		}
	} else {
		for _, m := range l.holdings {
			delete(m, last)
		}
	}
	l.listings[last] = Listing{}
	l.listings = l.listings[:last]
	return nil
}
