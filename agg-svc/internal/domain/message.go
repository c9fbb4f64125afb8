package domain

import "time"

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderCancelled     = "order_cancelled"
	EventOrderRated         = "order_rated"
)

// DayLayout formats the UTC day used in aggregate keys.
const DayLayout = "2006-01-02"

type EventItem struct {
	ItemID   int64   `json:"item_id"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// OrderEvent mirrors the message food-svc publishes on the orders topic.
type OrderEvent struct {
	Type        string      `json:"type"`
	OrderID     int64       `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	UserID      int64       `json:"user_id"`
	Status      string      `json:"status"`
	Items       []EventItem `json:"items,omitempty"`
	Total       float64     `json:"total"`
	Rating      int         `json:"rating,omitempty"`
	PlacedAt    time.Time   `json:"placed_at"`
	Timestamp   time.Time   `json:"timestamp"`
}

// SalesDay is the day the order counts towards. Cancellations are taken off
// the day the order was placed, not the day it was cancelled.
func (e OrderEvent) SalesDay() string {
	at := e.PlacedAt
	if at.IsZero() {
		at = e.Timestamp
	}
	return at.UTC().Format(DayLayout)
}

// DedupKey identifies one event per order and type.
func (e OrderEvent) DedupKey() string {
	return e.Type + ":" + e.OrderNumber
}
