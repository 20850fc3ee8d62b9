// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPlacedItem is one product line inside an OrderPlacedEvent.
type OrderPlacedItem struct {
	ProductID uint64 `json:"product_id"`
	Quantity  uint32 `json:"quantity"`
}

// OrderPlacedEvent is published when an order is successfully placed.  It
// carries enough information for downstream consumers to notify, fulfil or
// feed analytics without querying the primary database.
type OrderPlacedEvent struct {
	OrderID  uint64            `json:"order_id"`
	UserID   uint64            `json:"user_id"`
	Items    []OrderPlacedItem `json:"items"`
	PlacedAt string            `json:"placed_at"`
}
