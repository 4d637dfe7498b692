package handler // handler package contains admin inventory handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// countBody is the JSON body shared by the ticket-count operations.
type countBody struct {
	Count uint64 `json:"count"`
}

// AddTickets handles POST /v1/listings/:idx/tickets and grows the
// available stock. The ledger enforces the admin capability, the positive
// count, the sale gate, and checked growth.
func (h *LedgerHandler) AddTickets(c echo.Context) error {
	caller, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	idx, err := listingIndex(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid index"})
	}
	var body countBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.Ledger.AddTickets(caller, idx, body.Count); err != nil {
		return ledgerError(c, err)
	}
	h.persist(c)
	updated, err := h.Ledger.Listing(idx)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// ChangeForSale handles POST /v1/listings/:idx/for-sale and toggles the
// sale gate under the ledger's inherited permissive guard.
func (h *LedgerHandler) ChangeForSale(c echo.Context) error {
	caller, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	idx, err := listingIndex(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid index"})
	}
	if err := h.Ledger.ChangeForSale(caller, idx); err != nil {
		return ledgerError(c, err)
	}
	h.persist(c)
	updated, err := h.Ledger.Listing(idx)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// BlockTickets handles POST /v1/listings/:idx/block and removes tickets
// from the available pool. There is no unblock; AddTickets is the only way
// back.
func (h *LedgerHandler) BlockTickets(c echo.Context) error {
	caller, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	idx, err := listingIndex(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid index"})
	}
	var body countBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := h.Ledger.BlockTickets(caller, idx, body.Count); err != nil {
		return ledgerError(c, err)
	}
	h.persist(c)
	updated, err := h.Ledger.Listing(idx)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// RemoveListing handles DELETE /v1/listings/:idx. Removal swap-deletes, so
// clients must treat every held index as invalidated afterwards; the
// response says so explicitly.
func (h *LedgerHandler) RemoveListing(c echo.Context) error {
	caller, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	idx, err := listingIndex(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid index"})
	}
	if err := h.Ledger.RemoveListing(caller, idx); err != nil {
		return ledgerError(c, err)
	}
	h.persist(c)
	return c.JSON(http.StatusOK, map[string]any{
		"removed": idx,
		"note":    "listing indices are reassigned on removal; refresh any cached index",
	})
}
