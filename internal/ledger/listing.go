package ledger

// Identity is an account identifier. The zero value is the null identity
// and is rejected wherever an identity is required.
type Identity uint64

// Listing is one sellable item record. The admin and the descriptive text
// fields are fixed at creation; only the counters and the sale gate change
// afterwards, and only through ledger operations.
//
// Fields:
//  Admin            – identity permitted to manage this listing; settlement
//                     proceeds are routed to it.
//  Name             – listing name, unique across the catalog.
//  Image            – poster or artwork reference.
//  FilmIndustry     – producing industry label (e.g. "Hollywood").
//  Genre            – genre label.
//  Description      – free-form description.
//  Price            – unit price in the external value unit; positive.
//  Sold             – cumulative units sold minus refunded.
//  TicketsAvailable – current unsold, unblocked stock.
//  ForSale          – purchase eligibility gate.
type Listing struct {
	Admin            Identity `json:"admin"`
	Name             string   `json:"name"`
	Image            string   `json:"image"`
	FilmIndustry     string   `json:"film_industry"`
	Genre            string   `json:"genre"`
	Description      string   `json:"description"`
	Price            uint64   `json:"price"`
	Sold             uint64   `json:"sold"`
	TicketsAvailable uint64   `json:"tickets_available"`
	ForSale          bool     `json:"for_sale"`
}

// NewListing carries the creator-supplied fields for AddListing. Admin may
// be left zero, in which case the calling owner becomes the listing admin.
type NewListing struct {
	Admin        Identity
	Name         string
	Image        string
	FilmIndustry string
	Genre        string
	Description  string
	Price        uint64
	InitialStock uint64
}
