package handler // handler package contains buyer purchase and refund handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// BuyTickets handles POST /v1/listings/:idx/purchase. A missing or zero
// count means a single ticket through the single-ticket path; any other
// count goes through the bulk path. Settlement runs before the ledger
// mutates, so a failed transfer returns 402 with nothing changed.
func (h *LedgerHandler) BuyTickets(c echo.Context) error {
	buyer, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	idx, err := listingIndex(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid index"})
	}
	var body struct {
		Count uint64 `json:"count"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	if body.Count <= 1 {
		err = h.Ledger.BuyTicket(ctx, buyer, idx)
	} else {
		err = h.Ledger.BuyTickets(ctx, buyer, idx, body.Count)
	}
	if err != nil {
		return ledgerError(c, err)
	}
	h.persist(c)

	units, err := h.Ledger.HoldingsOf(buyer, idx)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"listing_index": idx,
		"holdings":      units,
		"revenue":       h.Ledger.TotalRevenue(),
	})
}

// RefundTickets handles POST /v1/listings/:idx/refund. Refunds work even
// on delisted listings; only the caller's holdings and the listing's sold
// count bound the quantity.
func (h *LedgerHandler) RefundTickets(c echo.Context) error {
	caller, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	idx, err := listingIndex(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid index"})
	}
	var body struct {
		Count uint64 `json:"count"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	count := body.Count
	if count == 0 {
		count = 1
	}

	if err := h.Ledger.RefundTickets(c.Request().Context(), caller, idx, count); err != nil {
		return ledgerError(c, err)
	}
	h.persist(c)

	units, err := h.Ledger.HoldingsOf(caller, idx)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"listing_index": idx,
		"holdings":      units,
		"revenue":       h.Ledger.TotalRevenue(),
	})
}
