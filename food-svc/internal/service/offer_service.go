package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodhub/food-svc/internal/domain"
	"foodhub/logger"

	"github.com/shopspring/decimal"
)

type OfferService struct {
	offers  OfferRepository
	catalog CatalogRepository
	log     *logger.Logger
	now     func() time.Time
}

func NewOfferService(offers OfferRepository, catalog CatalogRepository, log *logger.Logger) *OfferService {
	return &OfferService{offers: offers, catalog: catalog, log: log, now: time.Now}
}

func (s *OfferService) Create(ctx context.Context, o *domain.Offer) error {
	o.CouponCode = domain.NormalizeCoupon(o.CouponCode)
	if err := o.Validate(); err != nil {
		return err
	}
	if err := s.offers.Create(ctx, o); err != nil {
		return fmt.Errorf("create offer: %w", err)
	}
	s.log.Ctx(ctx).Action("create offer").Info("offer created", "offer_id", o.ID, "coupon", o.CouponCode)
	return nil
}

func (s *OfferService) Update(ctx context.Context, o *domain.Offer) error {
	o.CouponCode = domain.NormalizeCoupon(o.CouponCode)
	if err := o.Validate(); err != nil {
		return err
	}
	if _, err := s.offers.Get(ctx, o.ID); err != nil {
		return err
	}
	return s.offers.Update(ctx, o)
}

func (s *OfferService) Delete(ctx context.Context, id int64) error {
	return s.offers.Delete(ctx, id)
}

// ListActive returns offers usable right now, featured and high priority first.
func (s *OfferService) ListActive(ctx context.Context, page domain.Page) ([]domain.Offer, int, error) {
	now := s.now()
	return s.offers.List(ctx, domain.OfferFilter{ActiveAt: &now, Page: page})
}

func (s *OfferService) ValidateCoupon(ctx context.Context, userID int64, code string, lines []domain.OrderLineInput, deliveryFee float64) (*domain.CouponCheck, error) {
	code = domain.NormalizeCoupon(code)
	if code == "" {
		return nil, domain.NewValidationError("code", "is required")
	}
	if len(lines) == 0 {
		return nil, domain.NewValidationError("items", "at least one item is required")
	}
	for i, l := range lines {
		if l.Quantity < 1 {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
		}
	}
	now := s.now()
	cart, err := priceCart(ctx, s.catalog, lines, now)
	if err != nil {
		return nil, err
	}

	check := &domain.CouponCheck{
		CouponCode:  code,
		Subtotal:    cents(cart.Subtotal),
		DeliveryFee: cents(money(deliveryFee)),
	}
	offer, err := s.offers.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		check.Reason = "coupon not found"
		return check, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load coupon: %w", err)
	}
	used, err := s.offers.CountUserUsage(ctx, offer.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("count coupon usage: %w", err)
	}

	eval := Evaluate(offer, EvalContext{
		Now:             now,
		Subtotal:        cart.Subtotal,
		DeliveryFee:     money(deliveryFee),
		Lines:           cart.Lines,
		UserUsageCount:  used,
		TotalUsageCount: offer.UsageCount,
	})
	check.OfferID = offer.ID
	check.Valid = eval.Valid
	check.Reason = eval.Reason
	check.Discount = cents(eval.Discount)
	return check, nil
}

func (s *OfferService) Stats(ctx context.Context) ([]domain.OfferStats, error) {
	return s.offers.Stats(ctx)
}

// resolveDiscount finds the offer an order gets. A coupon that does not
// apply fails the order; without a coupon the best automatic offer, if any,
// is used.
func resolveDiscount(ctx context.Context, offers OfferRepository, userID int64, code string, cart *pricedCart, fee decimal.Decimal, now time.Time) (*domain.Offer, Evaluation, error) {
	none := Evaluation{Discount: decimal.Zero}
	ec := EvalContext{Now: now, Subtotal: cart.Subtotal, DeliveryFee: fee, Lines: cart.Lines}

	if code = domain.NormalizeCoupon(code); code != "" {
		offer, err := offers.GetByCode(ctx, code)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, none, fmt.Errorf("%w: coupon %s not found", domain.ErrOfferNotApplicable, code)
		}
		if err != nil {
			return nil, none, fmt.Errorf("load coupon: %w", err)
		}
		if ec.UserUsageCount, err = offers.CountUserUsage(ctx, offer.ID, userID); err != nil {
			return nil, none, fmt.Errorf("count coupon usage: %w", err)
		}
		ec.TotalUsageCount = offer.UsageCount
		eval := Evaluate(offer, ec)
		if !eval.Valid {
			return nil, none, fmt.Errorf("%w: %s", domain.ErrOfferNotApplicable, strings.ToLower(eval.Reason))
		}
		return offer, eval, nil
	}

	auto, err := offers.ListAutomatic(ctx, now)
	if err != nil {
		return nil, none, fmt.Errorf("list automatic offers: %w", err)
	}
	cands := make([]offerCandidate, 0, len(auto))
	for i := range auto {
		o := &auto[i]
		used := 0
		if o.UsageLimitPerUser > 0 {
			if used, err = offers.CountUserUsage(ctx, o.ID, userID); err != nil {
				return nil, none, fmt.Errorf("count offer usage: %w", err)
			}
		}
		oec := ec
		oec.UserUsageCount = used
		oec.TotalUsageCount = o.UsageCount
		cands = append(cands, offerCandidate{offer: o, eval: Evaluate(o, oec)})
	}
	best := bestOffer(cands)
	if best == nil {
		return nil, none, nil
	}
	return best.offer, best.eval, nil
}
