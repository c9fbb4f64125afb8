package service

import (
	"fmt"
	"time"

	"foodhub/food-svc/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	TargetSubtotal    = "subtotal"
	TargetDeliveryFee = "delivery_fee"
)

type EvalLine struct {
	ItemID     int64
	CategoryID int64
	Quantity   int
	UnitPrice  decimal.Decimal
	LineTotal  decimal.Decimal
}

type EvalContext struct {
	Now             time.Time
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	Lines           []EvalLine
	UserUsageCount  int
	TotalUsageCount int
}

type Evaluation struct {
	Valid    bool
	Discount decimal.Decimal
	Reason   string
	Target   string
}

func rejected(reason string) Evaluation {
	return Evaluation{Valid: false, Discount: decimal.Zero, Reason: reason}
}

// Evaluate decides whether o applies to the cart in ec and how much it takes
// off. It has no side effects; recording usage is the caller's job.
func Evaluate(o *domain.Offer, ec EvalContext) Evaluation {
	switch {
	case !o.IsActive:
		return rejected("offer is not active")
	case ec.Now.Before(o.StartDate):
		return rejected("offer has not started yet")
	case ec.Now.After(o.EndDate):
		return rejected("offer has expired")
	case ec.Subtotal.LessThan(money(o.MinOrderAmount)):
		return rejected(fmt.Sprintf("minimum order amount is %.2f", o.MinOrderAmount))
	case o.UsageLimitPerUser > 0 && ec.UserUsageCount >= o.UsageLimitPerUser:
		return rejected("you have already used this offer")
	case o.TotalUsageLimit > 0 && ec.TotalUsageCount >= o.TotalUsageLimit:
		return rejected("offer usage limit reached")
	}

	eligible := eligibleLines(o, ec.Lines)
	if len(eligible) == 0 {
		return rejected("no eligible items in cart")
	}
	base := decimal.Zero
	for _, l := range eligible {
		base = base.Add(l.LineTotal)
	}

	res := Evaluation{Valid: true, Target: TargetSubtotal}
	switch o.DiscountType {
	case domain.DiscountPercentage:
		d := base.Mul(money(o.Value)).Div(decimal.NewFromInt(100))
		if o.MaxDiscountAmount != nil {
			d = decimal.Min(d, money(*o.MaxDiscountAmount))
		}
		res.Discount = d
	case domain.DiscountFixed:
		res.Discount = decimal.Min(money(o.Value), base)
	case domain.DiscountBOGO:
		d := decimal.Zero
		for _, l := range eligible {
			free := int64(l.Quantity / 2)
			d = d.Add(l.UnitPrice.Mul(decimal.NewFromInt(free)))
		}
		if d.IsZero() {
			return rejected("add at least two of an eligible item")
		}
		res.Discount = d
	case domain.DiscountFreeDelivery:
		if !ec.DeliveryFee.IsPositive() {
			return rejected("order has no delivery fee")
		}
		res.Discount = ec.DeliveryFee
		res.Target = TargetDeliveryFee
	case domain.DiscountCombo:
		comboTotal, complete := comboLines(o, ec.Lines)
		if !complete {
			return rejected("cart does not contain the full combo")
		}
		res.Discount = decimal.Min(money(o.Value), comboTotal)
	default:
		return rejected("unknown discount type")
	}

	res.Discount = res.Discount.Round(2)
	if res.Target == TargetSubtotal {
		res.Discount = decimal.Min(res.Discount, ec.Subtotal.Round(2))
	}
	return res
}

// eligibleLines narrows the cart to the offer's item and category sets.
// With both sets empty every line is eligible.
func eligibleLines(o *domain.Offer, lines []EvalLine) []EvalLine {
	if len(o.ApplicableItems) == 0 && len(o.ApplicableCategories) == 0 {
		return lines
	}
	items := toSet(o.ApplicableItems)
	cats := toSet(o.ApplicableCategories)
	var out []EvalLine
	for _, l := range lines {
		if items[l.ItemID] || cats[l.CategoryID] {
			out = append(out, l)
		}
	}
	return out
}

func comboLines(o *domain.Offer, lines []EvalLine) (decimal.Decimal, bool) {
	total := decimal.Zero
	for _, id := range o.ApplicableItems {
		found := false
		for _, l := range lines {
			if l.ItemID == id {
				found = true
				total = total.Add(l.LineTotal)
			}
		}
		if !found {
			return decimal.Zero, false
		}
	}
	return total, len(o.ApplicableItems) > 0
}

func toSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

type offerCandidate struct {
	offer *domain.Offer
	eval  Evaluation
}

// bestOffer picks the largest discount; ties go to the higher priority,
// then the older offer.
func bestOffer(cands []offerCandidate) *offerCandidate {
	var best *offerCandidate
	for i := range cands {
		c := &cands[i]
		if !c.eval.Valid || !c.eval.Discount.IsPositive() {
			continue
		}
		if best == nil {
			best = c
			continue
		}
		switch cmp := c.eval.Discount.Cmp(best.eval.Discount); {
		case cmp > 0:
			best = c
		case cmp == 0 && c.offer.Priority > best.offer.Priority:
			best = c
		case cmp == 0 && c.offer.Priority == best.offer.Priority && c.offer.ID < best.offer.ID:
			best = c
		}
	}
	return best
}
