package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodhub/food-svc/internal/domain"
	"foodhub/logger"

	"github.com/lucsky/cuid"
	"github.com/shopspring/decimal"
)

var mismatchTolerance = decimal.NewFromFloat(0.01)

type OrderPolicy struct {
	TaxRate             float64
	RejectTotalMismatch bool
	StrictStock         bool
	EnforceTransitions  bool
}

type OrderDeps struct {
	Orders  OrderRepository
	Catalog CatalogRepository
	Offers  OfferRepository
	Users   UserRepository
	Tx      TxManager
	Ratings RatingMarker
	Sales   SalesReader
	Events  EventPublisher
	Mailer  Mailer
	QR      QRGenerator
	Log     *logger.Logger
}

type OrderService struct {
	orders  OrderRepository
	catalog CatalogRepository
	offers  OfferRepository
	users   UserRepository
	tx      TxManager
	ratings RatingMarker
	sales   SalesReader
	events  EventPublisher
	mailer  Mailer
	qr      QRGenerator
	log     *logger.Logger
	policy  OrderPolicy
	now     func() time.Time
}

func NewOrderService(deps OrderDeps, policy OrderPolicy) *OrderService {
	return &OrderService{
		orders:  deps.Orders,
		catalog: deps.Catalog,
		offers:  deps.Offers,
		users:   deps.Users,
		tx:      deps.Tx,
		ratings: deps.Ratings,
		sales:   deps.Sales,
		events:  deps.Events,
		mailer:  deps.Mailer,
		qr:      deps.QR,
		log:     deps.Log,
		policy:  policy,
		now:     time.Now,
	}
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(cuid.Slug())
}

// Place prices every line, picks the discount and then, in one transaction,
// takes the stock, inserts the order and records the offer redemption.
func (s *OrderService) Place(ctx context.Context, caller domain.Principal, req domain.PlaceOrderRequest) (*domain.Order, error) {
	lg := s.log.Ctx(ctx).Action("place order").With("user_id", caller.UserID)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	cart, err := priceCart(ctx, s.catalog, req.Items, now)
	if err != nil {
		return nil, err
	}

	fee := decimal.Zero
	if req.DeliveryType == domain.DeliveryTypeDelivery {
		fee = money(req.DeliveryFee)
	}
	offer, eval, err := resolveDiscount(ctx, s.offers, caller.UserID, req.CouponCode, cart, fee, now)
	if err != nil {
		return nil, err
	}
	totals := ComputeTotals(cart.Subtotal, fee, s.policy.TaxRate, eval.Discount)

	if req.ClientTotal != nil {
		if money(*req.ClientTotal).Sub(totals.Total).Abs().GreaterThan(mismatchTolerance) {
			lg.Warn("client total mismatch", "client_total", *req.ClientTotal, "server_total", cents(totals.Total))
			if s.policy.RejectTotalMismatch {
				return nil, fmt.Errorf("%w: expected %.2f", domain.ErrTotalMismatch, cents(totals.Total))
			}
		}
	}

	order := &domain.Order{
		OrderNumber:   newOrderNumber(),
		UserID:        caller.UserID,
		Items:         cart.Items,
		Subtotal:      cents(totals.Subtotal),
		DeliveryFee:   cents(totals.DeliveryFee),
		Tax:           cents(totals.Tax),
		Discount:      cents(totals.Discount),
		Total:         cents(totals.Total),
		PaymentMethod: req.PaymentMethod,
		DeliveryType:  req.DeliveryType,
		BranchID:      req.BranchID,
		Status:        domain.StatusPending,
		Tracking:      []domain.TrackingEntry{{Status: domain.StatusPending, Note: "Order placed", Timestamp: now}},
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.PaymentMethod == domain.PaymentCashOnDelivery {
		order.CODType = req.CODType
	}
	if req.DeliveryType == domain.DeliveryTypeDelivery {
		order.DeliveryAddress = req.DeliveryAddress
	}
	if offer != nil {
		order.OfferID = &offer.ID
		order.CouponCode = offer.CouponCode
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for i := range order.Items {
			it := &order.Items[i]
			taken, err := s.catalog.DecrementStock(ctx, it.ItemID, it.Quantity, s.policy.StrictStock)
			if err != nil {
				return fmt.Errorf("decrement stock for item %d: %w", it.ItemID, err)
			}
			it.StockDeducted = taken
		}

		if offer != nil {
			if err := s.recheckOffer(ctx, offer.ID, caller.UserID, cart, fee, now); err != nil {
				return err
			}
		}

		if err := s.orders.Create(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		if offer != nil {
			usage := domain.OfferUsage{
				OfferID:  offer.ID,
				UserID:   caller.UserID,
				OrderID:  order.ID,
				Discount: order.Discount,
				UsedAt:   now,
			}
			if err := s.offers.RecordUsage(ctx, usage); err != nil {
				return fmt.Errorf("record offer usage: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lg.Info("order placed", "order_id", order.ID, "order_number", order.OrderNumber, "total", order.Total)
	s.publish(ctx, domain.EventOrderCreated, order)
	s.sendConfirmation(ctx, order)
	return order, nil
}

// recheckOffer re-evaluates the usage limits with the offer row locked so
// two concurrent orders cannot both take the last redemption.
func (s *OrderService) recheckOffer(ctx context.Context, offerID, userID int64, cart *pricedCart, fee decimal.Decimal, now time.Time) error {
	locked, err := s.offers.LockOffer(ctx, offerID)
	if err != nil {
		return fmt.Errorf("lock offer: %w", err)
	}
	used, err := s.offers.CountUserUsage(ctx, offerID, userID)
	if err != nil {
		return fmt.Errorf("count offer usage: %w", err)
	}
	eval := Evaluate(locked, EvalContext{
		Now:             now,
		Subtotal:        cart.Subtotal,
		DeliveryFee:     fee,
		Lines:           cart.Lines,
		UserUsageCount:  used,
		TotalUsageCount: locked.UsageCount,
	})
	if !eval.Valid {
		return fmt.Errorf("%w: %s", domain.ErrOfferNotApplicable, eval.Reason)
	}
	return nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, o *domain.Order) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishOrderEvent(ctx, domain.NewOrderEvent(eventType, o, s.now())); err != nil {
		s.log.Ctx(ctx).Action("publish order event").Error("failed to publish", err, "order_id", o.ID, "type", eventType)
	}
}

func (s *OrderService) sendConfirmation(ctx context.Context, o *domain.Order) {
	if s.mailer == nil || s.users == nil {
		return
	}
	lg := s.log.Ctx(ctx).Action("order confirmation email")
	u, err := s.users.GetByID(ctx, o.UserID)
	if err != nil {
		lg.Error("failed to load user", err, "order_id", o.ID)
		return
	}
	if err := s.mailer.SendOrderConfirmation(u.Email, u.Name, o); err != nil {
		lg.Error("failed to send email", err, "order_id", o.ID)
	}
}

func (s *OrderService) Get(ctx context.Context, caller domain.Principal, id int64) (*domain.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(o.UserID) {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

// List returns the caller's own orders; staff see every order.
func (s *OrderService) List(ctx context.Context, caller domain.Principal, status domain.OrderStatus, page domain.Page) ([]domain.Order, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, domain.NewValidationError("status", "unknown status")
	}
	filter := domain.OrderFilter{Status: status, Page: page}
	if !caller.IsStaff() {
		uid := caller.UserID
		filter.UserID = &uid
	}
	return s.orders.List(ctx, filter)
}

func (s *OrderService) QRCode(ctx context.Context, caller domain.Principal, id int64) ([]byte, error) {
	o, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return s.qr.Generate(o)
}

// Stats combines database totals with today's sales. Today is the UTC day
// the aggregates are keyed by. Top items and revenue come from the same
// source: the aggregates when both reads succeed with data, otherwise the
// database.
func (s *OrderService) Stats(ctx context.Context) (*domain.OrderStats, error) {
	stats, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}

	if s.sales != nil {
		top, topErr := s.sales.TopItemsToday(ctx, 10)
		revenue, revErr := s.sales.RevenueToday(ctx)
		if err := errors.Join(topErr, revErr); err != nil {
			s.log.Ctx(ctx).Action("order stats").Warn("sales aggregates unavailable", "error", err.Error())
		} else if len(top) > 0 {
			s.nameTopItems(ctx, top)
			stats.TopItemsToday = top
			stats.RevenueToday = revenue
			return stats, nil
		}
	}

	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if stats.TopItemsToday, err = s.orders.TopItemsSince(ctx, startOfDay, 10); err != nil {
		return nil, fmt.Errorf("top items: %w", err)
	}
	if stats.RevenueToday, err = s.orders.RevenueSince(ctx, startOfDay); err != nil {
		return nil, fmt.Errorf("revenue today: %w", err)
	}
	return stats, nil
}

func (s *OrderService) nameTopItems(ctx context.Context, top []domain.TopItem) {
	ids := make([]int64, 0, len(top))
	for _, t := range top {
		ids = append(ids, t.ItemID)
	}
	items, err := s.catalog.GetItems(ctx, ids)
	if err != nil {
		return
	}
	for i := range top {
		if it, ok := items[top[i].ItemID]; ok {
			top[i].Name = it.Name.Resolve(domain.DefaultLanguage)
		}
	}
}
