package domain

import "time"

const (
	EventOrderCreated       = "order_created"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderCancelled     = "order_cancelled"
	EventOrderRated         = "order_rated"
)

type EventItem struct {
	ItemID   int64   `json:"item_id"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// OrderEvent is the message published on the orders topic.
type OrderEvent struct {
	Type        string      `json:"type"`
	OrderID     int64       `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	UserID      int64       `json:"user_id"`
	Status      OrderStatus `json:"status"`
	Items       []EventItem `json:"items,omitempty"`
	Total       float64     `json:"total"`
	Rating      int         `json:"rating,omitempty"`
	PlacedAt    time.Time   `json:"placed_at"`
	Timestamp   time.Time   `json:"timestamp"`
}

func NewOrderEvent(eventType string, o *Order, at time.Time) OrderEvent {
	ev := OrderEvent{
		Type:        eventType,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      o.Status,
		Total:       o.Total,
		PlacedAt:    o.CreatedAt,
		Timestamp:   at,
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, EventItem{ItemID: it.ItemID, Quantity: it.Quantity, Total: it.LineTotal})
	}
	if o.Rating != nil {
		ev.Rating = o.Rating.Overall
	}
	return ev
}
