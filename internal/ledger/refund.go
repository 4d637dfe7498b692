package ledger

import (
	"context"
	"fmt"
	"math"
)

// RefundTickets returns n of the caller's held tickets for the listing at
// index. n must be positive and must not exceed either the caller's
// holdings or the listing's sold count. Settlement moves price×n of value
// from the listing's admin back to the caller; a failed transfer aborts
// with ErrSettlementFailed and no mutation. On success the purchase
// bookkeeping is rolled back unit for unit and a RefundSettled event is
// emitted once the mutex has been released. Refunds deliberately do not
// check the sale gate: tickets of a delisted listing remain refundable.
func (l *Ledger) RefundTickets(ctx context.Context, caller Identity, index int, n uint64) error {
	l.mu.Lock()
	ev, err := l.refund(ctx, caller, index, n)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emitRefund(ev)
	return nil
}

// refund validates, settles, and commits a refund, returning the event to
// emit. The caller holds the mutex and hands the event to the sink after
// unlocking.
func (l *Ledger) refund(ctx context.Context, caller Identity, index int, n uint64) (RefundSettled, error) {
	if caller == 0 {
		return RefundSettled{}, fmt.Errorf("%w: caller identity must not be null", ErrInvalidArgument)
	}
	if err := l.checkIndex(index); err != nil {
		return RefundSettled{}, err
	}
	if n == 0 {
		return RefundSettled{}, fmt.Errorf("%w: ticket count must be positive", ErrInvalidArgument)
	}
	lst := &l.listings[index]
	held := l.holdings[caller][index]
	if held < n {
		return RefundSettled{}, fmt.Errorf("%w: %d held, %d requested", ErrInsufficientHoldings, held, n)
	}
	if lst.Sold < n {
		return RefundSettled{}, fmt.Errorf("%w: listing %d has only %d sold", ErrInsufficientHoldings, index, lst.Sold)
	}
	if n != 0 && lst.Price > math.MaxUint64/n {
		return RefundSettled{}, fmt.Errorf("%w: price %d times %d tickets", ErrOverflow, lst.Price, n)
	}
	amount := lst.Price * n
	if lst.TicketsAvailable > math.MaxUint64-n {
		return RefundSettled{}, fmt.Errorf("%w: available counter of listing %d", ErrOverflow, index)
	}

	ok, err := l.port.TransferFrom(ctx, lst.Admin, caller, amount)
	if err != nil {
		return RefundSettled{}, fmt.Errorf("%w: %v", ErrSettlementFailed, err)
	}
	if !ok {
		return RefundSettled{}, fmt.Errorf("%w: transfer of %d from %d to %d rejected", ErrSettlementFailed, amount, lst.Admin, caller)
	}

	lst.Sold -= n
	lst.TicketsAvailable += n
	l.holdings[caller][index] = held - n
	l.revenue -= amount

	return RefundSettled{
		Buyer:        caller,
		ListingIndex: index,
		ListingName:  lst.Name,
		Units:        n,
		Amount:       amount,
	}, nil
}
