package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodhub/food-svc/internal/domain"
)

func (s *OrderService) UpdateStatus(ctx context.Context, caller domain.Principal, id int64, status domain.OrderStatus, note string) (*domain.Order, error) {
	if !caller.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "unknown status")
	}
	if status == domain.StatusCancelled {
		return s.Cancel(ctx, caller, id, note)
	}

	var order *domain.Order
	now := s.now()
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !o.Status.CanMove(status, s.policy.EnforceTransitions) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, o.Status, status)
		}

		entry := domain.TrackingEntry{Status: status, Note: strings.TrimSpace(note), Timestamp: now}
		var deliveredAt *time.Time
		if status == domain.StatusDelivered {
			deliveredAt = &now
		}
		if err := s.orders.UpdateStatus(ctx, id, entry, deliveredAt); err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		o.Status = status
		o.Tracking = append(o.Tracking, entry)
		if deliveredAt != nil && o.ActualDeliveryTime == nil {
			o.ActualDeliveryTime = deliveredAt
		}
		o.UpdatedAt = now
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Ctx(ctx).Action("update order status").Info("status changed", "order_id", id, "status", status)
	s.publish(ctx, domain.EventOrderStatusChanged, order)
	return order, nil
}

// Cancel puts back exactly the stock each line took at creation, in the same
// transaction as the status change.
func (s *OrderService) Cancel(ctx context.Context, caller domain.Principal, id int64, reason string) (*domain.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "is required")
	}

	actor := domain.ActorCustomer
	if caller.IsStaff() {
		actor = domain.ActorAdmin
	}

	var order *domain.Order
	now := s.now()
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !caller.CanAccess(o.UserID) {
			return domain.ErrForbidden
		}
		if o.Status.IsTerminal() {
			return fmt.Errorf("%w: order is %s", domain.ErrNotCancellable, o.Status)
		}

		for _, it := range o.Items {
			if it.StockDeducted <= 0 {
				continue
			}
			if err := s.catalog.RestoreStock(ctx, it.ItemID, it.StockDeducted); err != nil {
				return fmt.Errorf("restore stock for item %d: %w", it.ItemID, err)
			}
		}

		c := domain.Cancellation{Reason: reason, CancelledBy: actor, CancelledAt: now}
		entry := domain.TrackingEntry{Status: domain.StatusCancelled, Note: reason, Timestamp: now}
		if err := s.orders.Cancel(ctx, id, c, entry); err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}

		o.Status = domain.StatusCancelled
		o.Cancellation = &c
		o.Tracking = append(o.Tracking, entry)
		o.UpdatedAt = now
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Ctx(ctx).Action("cancel order").Info("order cancelled", "order_id", id, "actor", actor)
	s.publish(ctx, domain.EventOrderCancelled, order)
	return order, nil
}

func (s *OrderService) Rate(ctx context.Context, caller domain.Principal, id int64, rating domain.Rating) (*domain.Order, error) {
	lg := s.log.Ctx(ctx).Action("rate order")
	rating.Comment = strings.TrimSpace(rating.Comment)
	if err := rating.Validate(); err != nil {
		return nil, err
	}

	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != caller.UserID {
		return nil, domain.ErrForbidden
	}
	if o.Status != domain.StatusDelivered {
		return nil, domain.ErrNotRateable
	}
	if o.Rating != nil {
		return nil, domain.ErrAlreadyRated
	}

	key := s.ratings.RatingMarkerKey(id)
	exists, err := s.ratings.Exists(ctx, key)
	if err != nil {
		lg.Warn("rating marker lookup failed", "order_id", id, "error", err.Error())
	}
	if exists {
		return nil, domain.ErrAlreadyRated
	}

	rating.RatedAt = s.now()
	ok, err := s.orders.SetRating(ctx, id, rating)
	if err != nil {
		return nil, fmt.Errorf("save rating: %w", err)
	}
	if !ok {
		return nil, domain.ErrAlreadyRated
	}
	if err := s.ratings.SetMarker(ctx, key); err != nil {
		lg.Warn("rating marker not set", "order_id", id, "error", err.Error())
	}

	o.Rating = &rating
	lg.Info("order rated", "order_id", id, "overall", rating.Overall)
	s.publish(ctx, domain.EventOrderRated, o)
	return o, nil
}
