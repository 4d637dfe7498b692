package handler // handler package contains owner-specific listing handlers

import (
	"net/http" // http provides status code constants
	"strings"  // strings offers trimming utilities

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/movietix/ticket-ledger/internal/ledger" // ledger holds the catalog state machine
)

// CreateListing handles POST /v1/listings and creates a new listing. Only
// the ledger owner can succeed; the route is additionally gated to the
// OWNER role. The admin field is optional and defaults to the caller.
func (h *LedgerHandler) CreateListing(c echo.Context) error { // begin CreateListing handler
	caller, err := getAccountID(c) // extract the caller identity from context
	if err != nil {                // the JWT middleware did not provide a usable identity
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	var body struct { // anonymous struct to bind incoming JSON
		Admin        uint64 `json:"admin"` // optional listing admin; 0 means the caller
		Name         string `json:"name"`
		Image        string `json:"image"`
		FilmIndustry string `json:"film_industry"`
		Genre        string `json:"genre"`
		Description  string `json:"description"`
		Price        uint64 `json:"price"`
		InitialStock uint64 `json:"initial_stock"`
	}
	if err := c.Bind(&body); err != nil { // attempt to bind the request body
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	idx, err := h.Ledger.AddListing(caller, ledger.NewListing{ // delegate creation to the ledger
		Admin:        ledger.Identity(body.Admin),
		Name:         strings.TrimSpace(body.Name),
		Image:        strings.TrimSpace(body.Image),
		FilmIndustry: strings.TrimSpace(body.FilmIndustry),
		Genre:        strings.TrimSpace(body.Genre),
		Description:  strings.TrimSpace(body.Description),
		Price:        body.Price,
		InitialStock: body.InitialStock,
	})
	if err != nil { // the ledger rejected the creation
		return ledgerError(c, err)
	}
	h.persist(c) // snapshot the committed state

	created, err := h.Ledger.Listing(idx) // read the stored record back
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"index": idx, "listing": created})
}
