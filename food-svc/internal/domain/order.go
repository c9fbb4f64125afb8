package domain

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
	StatusRefunded       OrderStatus = "refunded"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReady, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusDelivered, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusCancelled:      {StatusRefunded},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRefunded
}

// CanTransition reports whether to is reachable from s in one step.
// ready -> delivered covers pickup orders, which never go out for delivery.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// CanMove is CanTransition with the graph optionally relaxed. A relaxed
// graph only frees moves between non-terminal states; terminal orders stay
// put apart from cancelled -> refunded.
func (s OrderStatus) CanMove(to OrderStatus, enforce bool) bool {
	if enforce || s.IsTerminal() || to == StatusRefunded {
		return s.CanTransition(to)
	}
	return true
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCard           PaymentMethod = "card"
	PaymentWallet         PaymentMethod = "wallet"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCashOnDelivery || p == PaymentCard || p == PaymentWallet
}

type CODType string

const (
	CODCash CODType = "cash"
	CODCard CODType = "card"
)

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

type CancelActor string

const (
	ActorCustomer CancelActor = "customer"
	ActorAdmin    CancelActor = "admin"
)

const MaxRatingComment = 500

type OrderLineInput struct {
	ItemID   int64    `json:"itemId"`
	Quantity int      `json:"quantity"`
	Size     string   `json:"size,omitempty"`
	Extras   []string `json:"extras,omitempty"`
	Addons   []string `json:"addons,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// OrderItem is the priced snapshot of one line. Later catalog edits never
// touch it.
type OrderItem struct {
	ItemID        int64         `json:"itemId"`
	Name          LocalizedText `json:"name"`
	CategoryID    int64         `json:"categoryId"`
	Quantity      int           `json:"quantity"`
	Size          *SizeOption   `json:"size,omitempty"`
	Extras        []Extra       `json:"extras,omitempty"`
	Addons        []Addon       `json:"addons,omitempty"`
	UnitPrice     float64       `json:"unitPrice"`
	LineTotal     float64       `json:"lineTotal"`
	StockDeducted int           `json:"stockDeducted"`
	Notes         string        `json:"notes,omitempty"`
}

type DeliveryAddress struct {
	AddressID    int64    `json:"addressId,omitempty"`
	Address      string   `json:"address"`
	Apartment    string   `json:"apartment,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

type TrackingEntry struct {
	Status    OrderStatus `json:"status"`
	Note      string      `json:"note,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type Cancellation struct {
	Reason      string      `json:"reason"`
	CancelledBy CancelActor `json:"cancelledBy"`
	CancelledAt time.Time   `json:"cancelledAt"`
}

type Rating struct {
	Food     *int      `json:"food,omitempty"`
	Delivery *int      `json:"delivery,omitempty"`
	Overall  int       `json:"overall"`
	Comment  string    `json:"comment,omitempty"`
	RatedAt  time.Time `json:"ratedAt"`
}

func (r *Rating) Validate() error {
	v := &ValidationError{}
	if r.Overall < 1 || r.Overall > 5 {
		v.Add("overall", "must be between 1 and 5")
	}
	if r.Food != nil && (*r.Food < 1 || *r.Food > 5) {
		v.Add("food", "must be between 1 and 5")
	}
	if r.Delivery != nil && (*r.Delivery < 1 || *r.Delivery > 5) {
		v.Add("delivery", "must be between 1 and 5")
	}
	if len([]rune(r.Comment)) > MaxRatingComment {
		v.Add("comment", fmt.Sprintf("must be at most %d characters", MaxRatingComment))
	}
	return v.Err()
}

type Order struct {
	ID                 int64            `json:"id"`
	OrderNumber        string           `json:"orderNumber"`
	UserID             int64            `json:"userId"`
	Items              []OrderItem      `json:"items"`
	Subtotal           float64          `json:"subtotal"`
	DeliveryFee        float64          `json:"deliveryFee"`
	Tax                float64          `json:"tax"`
	Discount           float64          `json:"discount"`
	CouponCode         string           `json:"couponCode,omitempty"`
	OfferID            *int64           `json:"offerId,omitempty"`
	Total              float64          `json:"total"`
	PaymentMethod      PaymentMethod    `json:"paymentMethod"`
	CODType            CODType          `json:"codType,omitempty"`
	DeliveryType       DeliveryType     `json:"deliveryType"`
	DeliveryAddress    *DeliveryAddress `json:"deliveryAddress,omitempty"`
	BranchID           int64            `json:"branchId"`
	Status             OrderStatus      `json:"status"`
	Tracking           []TrackingEntry  `json:"trackingUpdates"`
	Cancellation       *Cancellation    `json:"cancellation,omitempty"`
	Rating             *Rating          `json:"rating,omitempty"`
	Notes              string           `json:"notes,omitempty"`
	ActualDeliveryTime *time.Time       `json:"actualDeliveryTime,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

type PlaceOrderRequest struct {
	Items           []OrderLineInput `json:"items"`
	DeliveryType    DeliveryType     `json:"deliveryType"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod"`
	CODType         CODType          `json:"codType,omitempty"`
	BranchID        int64            `json:"branchId"`
	DeliveryAddress *DeliveryAddress `json:"deliveryAddress,omitempty"`
	DeliveryFee     float64          `json:"deliveryFee"`
	CouponCode      string           `json:"couponCode,omitempty"`
	ClientTotal     *float64         `json:"total,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

func (r *PlaceOrderRequest) Validate() error {
	v := &ValidationError{}
	if len(r.Items) == 0 {
		v.Add("items", "at least one item is required")
	}
	for i, line := range r.Items {
		if line.ItemID <= 0 {
			v.Add(fmt.Sprintf("items[%d].itemId", i), "is required")
		}
		if line.Quantity < 1 {
			v.Add(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
		}
	}
	switch r.DeliveryType {
	case DeliveryTypeDelivery:
		if r.DeliveryAddress == nil || strings.TrimSpace(r.DeliveryAddress.Address) == "" {
			v.Add("deliveryAddress", "is required for delivery orders")
		}
		if r.DeliveryFee < 0 {
			v.Add("deliveryFee", "must not be negative")
		}
	case DeliveryTypePickup:
	default:
		v.Add("deliveryType", "must be delivery or pickup")
	}
	if !r.PaymentMethod.Valid() {
		v.Add("paymentMethod", "must be cash_on_delivery, card or wallet")
	}
	if r.PaymentMethod == PaymentCashOnDelivery && r.CODType != CODCash && r.CODType != CODCard {
		v.Add("codType", "must be cash or card for cash on delivery")
	}
	if r.BranchID <= 0 {
		v.Add("branchId", "is required")
	}
	return v.Err()
}

type OrderFilter struct {
	UserID *int64
	Status OrderStatus
	Page   Page
}

type TopItem struct {
	ItemID   int64   `json:"itemId"`
	Name     string  `json:"name,omitempty"`
	Quantity float64 `json:"quantity"`
}

type OrderStats struct {
	TotalOrders       int                 `json:"totalOrders"`
	ByStatus          map[OrderStatus]int `json:"byStatus"`
	Revenue           float64             `json:"revenue"`
	AverageOrderValue float64             `json:"averageOrderValue"`
	RevenueToday      float64             `json:"revenueToday"`
	TopItemsToday     []TopItem           `json:"topItemsToday"`
}
