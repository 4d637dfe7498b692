package handler // handler package contains public browse handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListListings handles GET /v1/listings and returns the whole catalog in
// index order. The response is a snapshot; indices may shift whenever an
// admin removes a listing.
func (h *LedgerHandler) ListListings(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"items": h.Ledger.Listings()})
}

// GetListing handles GET /v1/listings/:idx.
func (h *LedgerHandler) GetListing(c echo.Context) error {
	idx, err := listingIndex(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid index"})
	}
	lst, err := h.Ledger.Listing(idx)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, lst)
}

// GetListingCount handles GET /v1/listings/count.
func (h *LedgerHandler) GetListingCount(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{"count": h.Ledger.ListingCount()})
}

// GetRevenue handles GET /v1/revenue and returns the running total of
// settled proceeds across all listings.
func (h *LedgerHandler) GetRevenue(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]uint64{"total_revenue": h.Ledger.TotalRevenue()})
}

// GetHoldings handles GET /v1/listings/:idx/holdings and returns the
// authenticated caller's held units for the listing.
func (h *LedgerHandler) GetHoldings(c echo.Context) error {
	caller, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	idx, err := listingIndex(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid index"})
	}
	units, err := h.Ledger.HoldingsOf(caller, idx)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"listing_index": idx, "holdings": units})
}

// GetBalance handles GET /v1/balance and returns the caller's token-bank
// balance.
func (h *LedgerHandler) GetBalance(c echo.Context) error {
	caller, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	balance, err := h.Bank.BalanceOf(c.Request().Context(), caller)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "bank query failed"})
	}
	return c.JSON(http.StatusOK, map[string]uint64{"balance": balance})
}
