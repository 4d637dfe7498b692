// Package queue defines message payloads exchanged over the message broker.
package queue

// SettlementQueueName is the durable queue carrying purchase and refund
// notifications.
const SettlementQueueName = "settlement.events"

// TicketsPurchasedEvent is published after a purchase has settled and the
// ledger has committed. It carries enough information for downstream
// consumers to log, notify, or feed analytics without querying the ledger.
type TicketsPurchasedEvent struct {
	Buyer        uint64 `json:"buyer"`
	ListingIndex int    `json:"listing_index"`
	ListingName  string `json:"listing_name,omitempty"`
	Units        uint64 `json:"units"`
	Amount       uint64 `json:"amount"`
	SettledAt    string `json:"settled_at"`
}

// TicketsRefundedEvent is the refund counterpart of TicketsPurchasedEvent.
type TicketsRefundedEvent struct {
	Buyer        uint64 `json:"buyer"`
	ListingIndex int    `json:"listing_index"`
	ListingName  string `json:"listing_name,omitempty"`
	Units        uint64 `json:"units"`
	Amount       uint64 `json:"amount"`
	SettledAt    string `json:"settled_at"`
}

// Envelope wraps either event kind on the wire so one queue can carry both.
type Envelope struct {
	Kind     string                 `json:"kind"` // "purchase" or "refund"
	Purchase *TicketsPurchasedEvent `json:"purchase,omitempty"`
	Refund   *TicketsRefundedEvent  `json:"refund,omitempty"`
}
