package handler // handler defines http handlers

import (
	"context"      // context carries request deadlines into persistence calls
	"errors"       // errors provides sentinel matching via errors.Is
	"log"          // log reports best-effort persistence failures
	"net/http"     // http provides status code constants
	"strconv"      // strconv parses string identifiers to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/movietix/ticket-ledger/internal/ledger"     // ledger is the core state machine
	"github.com/movietix/ticket-ledger/internal/repository" // repository persists ledger snapshots
)

// TokenBank is the funding/inspection surface of the token bank exposed
// over HTTP. Settlement itself goes through ledger.TokenTransferPort and
// never through handlers.
type TokenBank interface {
	Deposit(ctx context.Context, account ledger.Identity, amount uint64) error
	BalanceOf(ctx context.Context, account ledger.Identity) (uint64, error)
}

// LedgerHandler bundles the ledger, the optional snapshot store, and the
// token bank for all listing, purchase, and browse endpoints.
type LedgerHandler struct {
	Ledger *ledger.Ledger
	Snaps  *repository.LedgerRepo // nil when running without a database
	Bank   TokenBank
}

// NewLedgerHandler constructs a LedgerHandler and panics if a required
// dependency is nil. Snaps may be nil.
func NewLedgerHandler(l *ledger.Ledger, snaps *repository.LedgerRepo, bank TokenBank) *LedgerHandler {
	if l == nil || bank == nil {
		panic("nil dependency passed to NewLedgerHandler")
	}
	return &LedgerHandler{Ledger: l, Snaps: snaps, Bank: bank}
}

// getAccountID extracts the caller identity placed in context by JWTAuth.
func getAccountID(c echo.Context) (ledger.Identity, error) {
	v := c.Get("account_id")
	switch t := v.(type) {
	case uint64:
		return ledger.Identity(t), nil
	case int:
		return ledger.Identity(t), nil
	case int64:
		return ledger.Identity(t), nil
	case float64:
		return ledger.Identity(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return ledger.Identity(n), nil
		}
	}
	return 0, errors.New("invalid account_id in context")
}

// listingIndex parses the :idx path parameter. The ledger re-validates
// bounds; this only rejects non-numeric input early.
func listingIndex(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("idx"))
}

// ledgerStatus maps a ledger sentinel to an HTTP status code.
func ledgerStatus(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrInvalidIndex):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrDuplicateName),
		errors.Is(err, ledger.ErrNotForSale),
		errors.Is(err, ledger.ErrInsufficientStock),
		errors.Is(err, ledger.ErrSelfDealing),
		errors.Is(err, ledger.ErrHasSoldTickets),
		errors.Is(err, ledger.ErrInsufficientHoldings):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrOverflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrSettlementFailed):
		return http.StatusPaymentRequired
	}
	return http.StatusInternalServerError
}

// ledgerError renders a ledger failure in the standard error shape.
func ledgerError(c echo.Context, err error) error {
	return c.JSON(ledgerStatus(err), map[string]string{"error": err.Error()})
}

// persist writes a fresh snapshot after a committed mutation. Persistence
// is best effort: the in-memory ledger stays the source of truth and a
// failed write only loses durability until the next successful one.
func (h *LedgerHandler) persist(c echo.Context) {
	if h.Snaps == nil {
		return
	}
	if err := h.Snaps.Save(c.Request().Context(), h.Ledger.Snapshot()); err != nil {
		log.Printf("ledger snapshot save failed: %v", err)
	}
}
