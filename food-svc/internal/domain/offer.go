package domain

import (
	"strings"
	"time"
)

type DiscountType string

const (
	DiscountPercentage   DiscountType = "percentage"
	DiscountFixed        DiscountType = "fixed"
	DiscountBOGO         DiscountType = "bogo"
	DiscountFreeDelivery DiscountType = "free_delivery"
	DiscountCombo        DiscountType = "combo"
)

func (d DiscountType) Valid() bool {
	switch d {
	case DiscountPercentage, DiscountFixed, DiscountBOGO, DiscountFreeDelivery, DiscountCombo:
		return true
	}
	return false
}

// Offer is a discount rule. A zero usage limit means unlimited; an empty
// coupon code makes the offer automatic.
type Offer struct {
	ID                   int64         `json:"id"`
	Title                LocalizedText `json:"title"`
	Description          LocalizedText `json:"description,omitempty"`
	DiscountType         DiscountType  `json:"discountType"`
	Value                float64       `json:"value"`
	StartDate            time.Time     `json:"startDate"`
	EndDate              time.Time     `json:"endDate"`
	IsActive             bool          `json:"isActive"`
	ApplicableItems      []int64       `json:"applicableItems,omitempty"`
	ApplicableCategories []int64       `json:"applicableCategories,omitempty"`
	CouponCode           string        `json:"couponCode,omitempty"`
	MinOrderAmount       float64       `json:"minOrderAmount"`
	MaxDiscountAmount    *float64      `json:"maxDiscountAmount,omitempty"`
	UsageLimitPerUser    int           `json:"usageLimitPerUser"`
	TotalUsageLimit      int           `json:"totalUsageLimit"`
	UsageCount           int           `json:"usageCount"`
	Priority             int           `json:"priority"`
	IsFeatured           bool          `json:"isFeatured"`
	ImageURL             string        `json:"image,omitempty"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

func NormalizeCoupon(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (o *Offer) Validate() error {
	v := &ValidationError{}
	o.Title.validate("title", true, v)
	o.Description.validate("description", false, v)
	if !o.DiscountType.Valid() {
		v.Add("discountType", "must be percentage, fixed, bogo, free_delivery or combo")
	}
	switch o.DiscountType {
	case DiscountPercentage:
		if o.Value <= 0 || o.Value > 100 {
			v.Add("value", "must be in (0, 100] for percentage offers")
		}
	case DiscountFixed, DiscountCombo:
		if o.Value <= 0 {
			v.Add("value", "must be positive")
		}
	}
	if o.DiscountType == DiscountCombo && len(o.ApplicableItems) < 2 {
		v.Add("applicableItems", "combo offers need at least two items")
	}
	if o.StartDate.IsZero() || o.EndDate.IsZero() {
		v.Add("startDate", "start and end dates are required")
	} else if !o.EndDate.After(o.StartDate) {
		v.Add("endDate", "must be after startDate")
	}
	if o.MinOrderAmount < 0 {
		v.Add("minOrderAmount", "must not be negative")
	}
	if o.MaxDiscountAmount != nil && *o.MaxDiscountAmount < 0 {
		v.Add("maxDiscountAmount", "must not be negative")
	}
	if o.UsageLimitPerUser < 0 || o.TotalUsageLimit < 0 {
		v.Add("usageLimit", "must not be negative")
	}
	return v.Err()
}

type OfferUsage struct {
	OfferID  int64     `json:"offerId"`
	UserID   int64     `json:"userId"`
	OrderID  int64     `json:"orderId"`
	Discount float64   `json:"discount"`
	UsedAt   time.Time `json:"usedAt"`
}

type OfferFilter struct {
	ActiveAt     *time.Time
	FeaturedOnly bool
	Page         Page
}

type OfferStats struct {
	OfferID       int64   `json:"offerId"`
	Title         string  `json:"title"`
	CouponCode    string  `json:"couponCode,omitempty"`
	Uses          int     `json:"uses"`
	UniqueUsers   int     `json:"uniqueUsers"`
	TotalDiscount float64 `json:"totalDiscount"`
}

// CouponCheck is the result of validating a coupon against a cart.
type CouponCheck struct {
	Valid       bool    `json:"valid"`
	OfferID     int64   `json:"offerId,omitempty"`
	CouponCode  string  `json:"couponCode"`
	Discount    float64 `json:"discount"`
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Reason      string  `json:"reason,omitempty"`
}
