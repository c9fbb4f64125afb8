package service

import (
	"context"
	"fmt"
	"time"

	"foodhub/food-svc/internal/domain"

	"github.com/shopspring/decimal"
)

func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// cents rounds half away from zero to two places.
func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// PriceLine builds the snapshot for one cart line from the authoritative
// catalog item: unit = base + size + extras + addons, line = unit * qty.
func PriceLine(item *domain.FoodItem, in domain.OrderLineInput, index int) (domain.OrderItem, error) {
	v := &domain.ValidationError{}
	unit := money(item.Price)

	snap := domain.OrderItem{
		ItemID:     item.ID,
		Name:       item.Name,
		CategoryID: item.CategoryID,
		Quantity:   in.Quantity,
		Notes:      in.Notes,
	}

	if in.Size != "" {
		size, ok := item.FindSize(in.Size)
		if !ok {
			v.Add(fmt.Sprintf("items[%d].size", index), fmt.Sprintf("unknown size %q", in.Size))
		} else {
			snap.Size = &size
			unit = unit.Add(money(size.AdditionalPrice))
		}
	}
	for _, name := range in.Extras {
		extra, ok := item.FindExtra(name)
		if !ok {
			v.Add(fmt.Sprintf("items[%d].extras", index), fmt.Sprintf("unknown extra %q", name))
			continue
		}
		snap.Extras = append(snap.Extras, extra)
		unit = unit.Add(money(extra.Price))
	}
	for _, name := range in.Addons {
		addon, ok := item.FindAddon(name)
		if !ok {
			v.Add(fmt.Sprintf("items[%d].addons", index), fmt.Sprintf("unknown addon %q", name))
			continue
		}
		snap.Addons = append(snap.Addons, addon)
		unit = unit.Add(money(addon.Price))
	}
	if err := v.Err(); err != nil {
		return domain.OrderItem{}, err
	}

	snap.UnitPrice = cents(unit)
	snap.LineTotal = cents(unit.Mul(decimal.NewFromInt(int64(in.Quantity))))
	return snap, nil
}

type pricedCart struct {
	Items    []domain.OrderItem
	Lines    []EvalLine
	Subtotal decimal.Decimal
}

// priceCart resolves and prices every line before anything is written.
func priceCart(ctx context.Context, catalog CatalogRepository, lines []domain.OrderLineInput, now time.Time) (*pricedCart, error) {
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	items, err := catalog.GetItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	cart := &pricedCart{Subtotal: decimal.Zero}
	verr := &domain.ValidationError{}
	for i, in := range lines {
		item, ok := items[in.ItemID]
		if !ok || !item.Orderable(now) {
			return nil, fmt.Errorf("%w: item %d", domain.ErrItemUnavailable, in.ItemID)
		}
		snap, err := PriceLine(item, in, i)
		if err != nil {
			if ve, ok := err.(*domain.ValidationError); ok {
				verr.Fields = append(verr.Fields, ve.Fields...)
				continue
			}
			return nil, err
		}
		cart.Items = append(cart.Items, snap)
		cart.Lines = append(cart.Lines, EvalLine{
			ItemID:     snap.ItemID,
			CategoryID: snap.CategoryID,
			Quantity:   snap.Quantity,
			UnitPrice:  money(snap.UnitPrice),
			LineTotal:  money(snap.LineTotal),
		})
		cart.Subtotal = cart.Subtotal.Add(money(snap.LineTotal))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	return cart, nil
}

type Totals struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// ComputeTotals returns total = subtotal + deliveryFee + tax - discount with
// every component already rounded to cents, so the identity holds exactly.
func ComputeTotals(subtotal, deliveryFee decimal.Decimal, taxRate float64, discount decimal.Decimal) Totals {
	subtotal = subtotal.Round(2)
	deliveryFee = deliveryFee.Round(2)
	tax := subtotal.Mul(decimal.NewFromFloat(taxRate)).Round(2)
	discount = discount.Round(2)
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Tax:         tax,
		Discount:    discount,
		Total:       subtotal.Add(deliveryFee).Add(tax).Sub(discount),
	}
}
