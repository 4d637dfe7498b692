// Package ledger implements the ticket-sale ledger: a catalog of listings,
// per-buyer holdings, and a running revenue total, guarded by owner/admin
// capability checks and settled through an external token transfer port.
// This file defines sentinel error values. Higher layers such as HTTP
// handlers match on these with errors.Is to pick a response code, while the
// wrapped message carries the human-readable reason.
package ledger

import "errors"

// ErrUnauthorized is returned when a capability check fails: the caller is
// neither the ledger owner (for owner-gated calls) nor the listing's admin
// (for admin-gated calls).
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidIndex is returned when a listing index is outside the current
// dense index space [0, count).
var ErrInvalidIndex = errors.New("invalid listing index")

// ErrInvalidArgument is returned for zero, empty, or otherwise malformed
// input values (empty text fields, non-positive counts, null identities).
var ErrInvalidArgument = errors.New("invalid argument")

// ErrDuplicateName is returned when a new listing's name exactly matches an
// existing listing's name.
var ErrDuplicateName = errors.New("duplicate listing name")

// ErrOverflow is returned when a counter would exceed its representable
// range. Arithmetic is checked; nothing ever silently wraps.
var ErrOverflow = errors.New("counter overflow")

// ErrNotForSale is returned when a purchase or stock addition targets a
// listing whose sale gate is closed, and when the for-sale toggle guard
// rejects a flip.
var ErrNotForSale = errors.New("listing not for sale")

// ErrInsufficientStock is returned when fewer tickets are available than
// the operation requires.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrSelfDealing is returned when a listing's admin attempts to buy
// tickets from their own listing.
var ErrSelfDealing = errors.New("self-dealing forbidden")

// ErrHasSoldTickets is returned when removal is attempted on a listing with
// outstanding sold tickets.
var ErrHasSoldTickets = errors.New("listing has sold tickets")

// ErrInsufficientHoldings is returned when a refund exceeds the caller's
// held units for the listing.
var ErrInsufficientHoldings = errors.New("insufficient holdings")

// ErrSettlementFailed is returned when the external token transfer reports
// failure or errors. The transfer is never retried by the ledger.
var ErrSettlementFailed = errors.New("settlement failed")
