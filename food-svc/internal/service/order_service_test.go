package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodhub/food-svc/internal/domain"
	"foodhub/food-svc/internal/mocks"
	"foodhub/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var orderNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type orderFixture struct {
	orders  *mocks.OrderRepository
	catalog *mocks.CatalogRepository
	offers  *mocks.OfferRepository
	users   *mocks.UserRepository
	ratings *mocks.RatingMarker
	sales   *mocks.SalesReader
	events  *mocks.EventPublisher
	mailer  *mocks.Mailer
	svc     *OrderService
}

func newOrderFixture(t *testing.T, policy OrderPolicy) *orderFixture {
	f := &orderFixture{
		orders:  mocks.NewOrderRepository(t),
		catalog: mocks.NewCatalogRepository(t),
		offers:  mocks.NewOfferRepository(t),
		users:   mocks.NewUserRepository(t),
		ratings: mocks.NewRatingMarker(t),
		sales:   mocks.NewSalesReader(t),
		events:  mocks.NewEventPublisher(t),
		mailer:  mocks.NewMailer(t),
	}
	f.svc = NewOrderService(OrderDeps{
		Orders:  f.orders,
		Catalog: f.catalog,
		Offers:  f.offers,
		Users:   f.users,
		Tx:      mocks.TxManager{},
		Ratings: f.ratings,
		Sales:   f.sales,
		Events:  f.events,
		Mailer:  f.mailer,
		QR:      TrackingQRGenerator{BaseURL: "http://localhost"},
		Log:     logger.Discard(),
	}, policy)
	f.svc.now = func() time.Time { return orderNow }
	return f
}

func defaultPolicy() OrderPolicy {
	return OrderPolicy{StrictStock: true, EnforceTransitions: true}
}

func pickupRequest(lines ...domain.OrderLineInput) domain.PlaceOrderRequest {
	return domain.PlaceOrderRequest{
		Items:         lines,
		DeliveryType:  domain.DeliveryTypePickup,
		PaymentMethod: domain.PaymentCard,
		BranchID:      1,
	}
}

func TestOrderService_Place(t *testing.T) {
	ctx := context.Background()
	customer := domain.Principal{UserID: 42, Role: domain.RoleCustomer}

	t.Run("prices lines and takes stock", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		total := 23.00
		req := pickupRequest(domain.OrderLineInput{ItemID: 1, Quantity: 2, Extras: []string{"Cheese"}})
		req.ClientTotal = &total

		f.catalog.On("GetItems", mock.Anything, []int64{1}).Return(map[int64]*domain.FoodItem{1: burger()}, nil).Once()
		f.offers.On("ListAutomatic", mock.Anything, orderNow).Return(nil, nil).Once()
		f.catalog.On("DecrementStock", mock.Anything, int64(1), 2, true).Return(2, nil).Once()
		f.orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Order).ID = 100 }).
			Return(nil).Once()
		f.events.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(ev domain.OrderEvent) bool {
			return ev.Type == domain.EventOrderCreated && ev.OrderID == 100
		})).Return(nil).Once()
		f.users.On("GetByID", mock.Anything, int64(42)).Return(&domain.User{ID: 42, Email: "a@b.c", Name: "Ana"}, nil).Once()
		f.mailer.On("SendOrderConfirmation", "a@b.c", "Ana", mock.Anything).Return(errors.New("smtp down")).Once()

		order, err := f.svc.Place(ctx, customer, req)
		require.NoError(t, err)
		assert.Equal(t, 23.00, order.Subtotal)
		assert.Equal(t, 0.0, order.Tax)
		assert.Equal(t, 0.0, order.DeliveryFee)
		assert.Equal(t, 0.0, order.Discount)
		assert.Equal(t, 23.00, order.Total)
		assert.Equal(t, 11.50, order.Items[0].UnitPrice)
		assert.Equal(t, 2, order.Items[0].StockDeducted)
		assert.Equal(t, domain.StatusPending, order.Status)
		assert.Len(t, order.Tracking, 1)
		assert.Regexp(t, `^ORD-`, order.OrderNumber)
	})

	t.Run("coupon discount recorded in the transaction", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		req := pickupRequest(domain.OrderLineInput{ItemID: 1, Quantity: 5})
		req.CouponCode = " save10 "
		offer := activeOffer(domain.DiscountPercentage, 10)
		offer.ID = 7
		offer.CouponCode = "SAVE10"
		offer.StartDate = orderNow.Add(-time.Hour)
		offer.EndDate = orderNow.Add(time.Hour)
		offer.UsageLimitPerUser = 1

		f.catalog.On("GetItems", mock.Anything, []int64{1}).Return(map[int64]*domain.FoodItem{1: burger()}, nil).Once()
		f.offers.On("GetByCode", mock.Anything, "SAVE10").Return(offer, nil).Once()
		f.offers.On("CountUserUsage", mock.Anything, int64(7), int64(42)).Return(0, nil).Twice()
		f.catalog.On("DecrementStock", mock.Anything, int64(1), 5, true).Return(5, nil).Once()
		f.offers.On("LockOffer", mock.Anything, int64(7)).Return(offer, nil).Once()
		f.orders.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Order).ID = 101 }).
			Return(nil).Once()
		f.offers.On("RecordUsage", mock.Anything, domain.OfferUsage{
			OfferID: 7, UserID: 42, OrderID: 101, Discount: 5.00, UsedAt: orderNow,
		}).Return(nil).Once()
		f.events.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil).Once()
		f.users.On("GetByID", mock.Anything, int64(42)).Return(&domain.User{ID: 42, Email: "a@b.c"}, nil).Once()
		f.mailer.On("SendOrderConfirmation", "a@b.c", "", mock.Anything).Return(nil).Once()

		order, err := f.svc.Place(ctx, customer, req)
		require.NoError(t, err)
		assert.Equal(t, 50.00, order.Subtotal)
		assert.Equal(t, 5.00, order.Discount)
		assert.Equal(t, 45.00, order.Total)
		assert.Equal(t, "SAVE10", order.CouponCode)
	})

	t.Run("unusable coupon rejects before stock moves", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		req := pickupRequest(domain.OrderLineInput{ItemID: 1, Quantity: 1})
		req.CouponCode = "GONE"

		f.catalog.On("GetItems", mock.Anything, []int64{1}).Return(map[int64]*domain.FoodItem{1: burger()}, nil).Once()
		f.offers.On("GetByCode", mock.Anything, "GONE").Return(nil, domain.ErrNotFound).Once()

		_, err := f.svc.Place(ctx, customer, req)
		assert.ErrorIs(t, err, domain.ErrOfferNotApplicable)
		f.catalog.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient stock aborts the order", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		req := pickupRequest(domain.OrderLineInput{ItemID: 1, Quantity: 3})

		f.catalog.On("GetItems", mock.Anything, []int64{1}).Return(map[int64]*domain.FoodItem{1: burger()}, nil).Once()
		f.offers.On("ListAutomatic", mock.Anything, orderNow).Return(nil, nil).Once()
		f.catalog.On("DecrementStock", mock.Anything, int64(1), 3, true).Return(0, domain.ErrInsufficientStock).Once()

		_, err := f.svc.Place(ctx, customer, req)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("mismatched client total rejected when configured", func(t *testing.T) {
		policy := defaultPolicy()
		policy.RejectTotalMismatch = true
		f := newOrderFixture(t, policy)
		wrong := 1.00
		req := pickupRequest(domain.OrderLineInput{ItemID: 1, Quantity: 1})
		req.ClientTotal = &wrong

		f.catalog.On("GetItems", mock.Anything, []int64{1}).Return(map[int64]*domain.FoodItem{1: burger()}, nil).Once()
		f.offers.On("ListAutomatic", mock.Anything, orderNow).Return(nil, nil).Once()

		_, err := f.svc.Place(ctx, customer, req)
		assert.ErrorIs(t, err, domain.ErrTotalMismatch)
	})

	t.Run("invalid request", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		_, err := f.svc.Place(ctx, customer, pickupRequest())
		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr))
	})
}

func deliveredOrder(owner int64) *domain.Order {
	return &domain.Order{ID: 5, UserID: owner, Status: domain.StatusDelivered}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	admin := domain.Principal{UserID: 1, Role: domain.RoleAdmin}

	t.Run("delivered stamps the delivery time", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		f.orders.On("GetForUpdate", mock.Anything, int64(5)).
			Return(&domain.Order{ID: 5, UserID: 42, Status: domain.StatusOutForDelivery}, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, int64(5), mock.Anything, &orderNow).Return(nil).Once()
		f.events.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil).Once()

		order, err := f.svc.UpdateStatus(ctx, admin, 5, domain.StatusDelivered, "left at door")
		require.NoError(t, err)
		require.NotNil(t, order.ActualDeliveryTime)
		assert.Equal(t, orderNow, *order.ActualDeliveryTime)
		assert.Equal(t, domain.StatusDelivered, order.Tracking[len(order.Tracking)-1].Status)
	})

	t.Run("relaxed graph still freezes terminal orders", func(t *testing.T) {
		first := orderNow.Add(-2 * time.Hour)
		delivered := deliveredOrder(42)
		delivered.ActualDeliveryTime = &first

		tests := []struct {
			name  string
			order *domain.Order
			to    domain.OrderStatus
		}{
			{name: "delivered again", order: delivered, to: domain.StatusDelivered},
			{name: "delivered reopened", order: deliveredOrder(42), to: domain.StatusPending},
			{name: "cancelled reopened", order: &domain.Order{ID: 5, UserID: 42, Status: domain.StatusCancelled}, to: domain.StatusPending},
			{name: "refund skipping cancel", order: &domain.Order{ID: 5, UserID: 42, Status: domain.StatusPreparing}, to: domain.StatusRefunded},
		}

		for _, testCase := range tests {
			t.Run(testCase.name, func(t *testing.T) {
				f := newOrderFixture(t, OrderPolicy{EnforceTransitions: false})
				f.orders.On("GetForUpdate", mock.Anything, int64(5)).Return(testCase.order, nil).Once()

				_, err := f.svc.UpdateStatus(ctx, admin, 5, testCase.to, "")
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			})
		}
		assert.Equal(t, first, *delivered.ActualDeliveryTime)
	})

	t.Run("relaxed graph allows skipping ahead", func(t *testing.T) {
		f := newOrderFixture(t, OrderPolicy{EnforceTransitions: false})
		f.orders.On("GetForUpdate", mock.Anything, int64(5)).
			Return(&domain.Order{ID: 5, UserID: 42, Status: domain.StatusPending}, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, int64(5), mock.Anything, (*time.Time)(nil)).Return(nil).Once()
		f.events.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil).Once()

		order, err := f.svc.UpdateStatus(ctx, admin, 5, domain.StatusReady, "")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusReady, order.Status)
	})

	t.Run("cancelled order can be refunded", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		f.orders.On("GetForUpdate", mock.Anything, int64(5)).
			Return(&domain.Order{ID: 5, UserID: 42, Status: domain.StatusCancelled}, nil).Once()
		f.orders.On("UpdateStatus", mock.Anything, int64(5), mock.Anything, (*time.Time)(nil)).Return(nil).Once()
		f.events.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil).Once()

		order, err := f.svc.UpdateStatus(ctx, admin, 5, domain.StatusRefunded, "card refund")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRefunded, order.Status)
	})

	t.Run("illegal transition rejected", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		f.orders.On("GetForUpdate", mock.Anything, int64(5)).Return(deliveredOrder(42), nil).Once()

		_, err := f.svc.UpdateStatus(ctx, admin, 5, domain.StatusPending, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("customers cannot change status", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		_, err := f.svc.UpdateStatus(ctx, domain.Principal{UserID: 42, Role: domain.RoleCustomer}, 5, domain.StatusConfirmed, "")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestOrderService_Cancel(t *testing.T) {
	ctx := context.Background()
	customer := domain.Principal{UserID: 42, Role: domain.RoleCustomer}

	pending := func() *domain.Order {
		return &domain.Order{
			ID:     9,
			UserID: 42,
			Status: domain.StatusPending,
			Items: []domain.OrderItem{
				{ItemID: 1, Quantity: 2, StockDeducted: 2},
				{ItemID: 2, Quantity: 4, StockDeducted: 3},
				{ItemID: 3, Quantity: 1, StockDeducted: 0},
			},
		}
	}

	t.Run("restores exactly what was taken", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		f.orders.On("GetForUpdate", mock.Anything, int64(9)).Return(pending(), nil).Once()
		f.catalog.On("RestoreStock", mock.Anything, int64(1), 2).Return(nil).Once()
		f.catalog.On("RestoreStock", mock.Anything, int64(2), 3).Return(nil).Once()
		f.orders.On("Cancel", mock.Anything, int64(9), domain.Cancellation{
			Reason: "changed my mind", CancelledBy: domain.ActorCustomer, CancelledAt: orderNow,
		}, mock.Anything).Return(nil).Once()
		f.events.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil).Once()

		order, err := f.svc.Cancel(ctx, customer, 9, "  changed my mind ")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, order.Status)
		assert.Equal(t, domain.ActorCustomer, order.Cancellation.CancelledBy)
	})

	t.Run("staff cancel is recorded as admin", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		o := pending()
		o.Items = nil
		f.orders.On("GetForUpdate", mock.Anything, int64(9)).Return(o, nil).Once()
		f.orders.On("Cancel", mock.Anything, int64(9), mock.MatchedBy(func(c domain.Cancellation) bool {
			return c.CancelledBy == domain.ActorAdmin
		}), mock.Anything).Return(nil).Once()
		f.events.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := f.svc.Cancel(ctx, domain.Principal{UserID: 1, Role: domain.RoleManager}, 9, "out of stock")
		require.NoError(t, err)
	})

	t.Run("terminal orders cannot be cancelled", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		f.orders.On("GetForUpdate", mock.Anything, int64(5)).Return(deliveredOrder(42), nil).Once()

		_, err := f.svc.Cancel(ctx, customer, 5, "late")
		assert.ErrorIs(t, err, domain.ErrNotCancellable)
		f.catalog.AssertNotCalled(t, "RestoreStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("other customers are rejected", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		f.orders.On("GetForUpdate", mock.Anything, int64(9)).Return(pending(), nil).Once()

		_, err := f.svc.Cancel(ctx, domain.Principal{UserID: 7, Role: domain.RoleCustomer}, 9, "nope")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("reason is required", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		_, err := f.svc.Cancel(ctx, customer, 9, "   ")
		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr))
	})
}

func TestOrderService_Rate(t *testing.T) {
	ctx := context.Background()
	owner := domain.Principal{UserID: 42, Role: domain.RoleCustomer}

	tests := []struct {
		name          string
		caller        domain.Principal
		rating        domain.Rating
		prepareMocks  func(f *orderFixture)
		expectedError error
	}{
		{
			name:   "success",
			caller: owner,
			rating: domain.Rating{Overall: 5, Comment: "great"},
			prepareMocks: func(f *orderFixture) {
				f.orders.On("Get", mock.Anything, int64(5)).Return(deliveredOrder(42), nil).Once()
				f.ratings.On("RatingMarkerKey", int64(5)).Return("rating:5").Once()
				f.ratings.On("Exists", mock.Anything, "rating:5").Return(false, nil).Once()
				f.orders.On("SetRating", mock.Anything, int64(5), mock.Anything).Return(true, nil).Once()
				f.ratings.On("SetMarker", mock.Anything, "rating:5").Return(nil).Once()
				f.events.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil).Once()
			},
		},
		{
			name:   "not delivered",
			caller: owner,
			rating: domain.Rating{Overall: 4},
			prepareMocks: func(f *orderFixture) {
				f.orders.On("Get", mock.Anything, int64(5)).
					Return(&domain.Order{ID: 5, UserID: 42, Status: domain.StatusPreparing}, nil).Once()
			},
			expectedError: domain.ErrNotRateable,
		},
		{
			name:   "already rated on the order",
			caller: owner,
			rating: domain.Rating{Overall: 4},
			prepareMocks: func(f *orderFixture) {
				o := deliveredOrder(42)
				o.Rating = &domain.Rating{Overall: 3}
				f.orders.On("Get", mock.Anything, int64(5)).Return(o, nil).Once()
			},
			expectedError: domain.ErrAlreadyRated,
		},
		{
			name:   "marker present",
			caller: owner,
			rating: domain.Rating{Overall: 4},
			prepareMocks: func(f *orderFixture) {
				f.orders.On("Get", mock.Anything, int64(5)).Return(deliveredOrder(42), nil).Once()
				f.ratings.On("RatingMarkerKey", int64(5)).Return("rating:5").Once()
				f.ratings.On("Exists", mock.Anything, "rating:5").Return(true, nil).Once()
			},
			expectedError: domain.ErrAlreadyRated,
		},
		{
			name:   "lost race on the conditional update",
			caller: owner,
			rating: domain.Rating{Overall: 4},
			prepareMocks: func(f *orderFixture) {
				f.orders.On("Get", mock.Anything, int64(5)).Return(deliveredOrder(42), nil).Once()
				f.ratings.On("RatingMarkerKey", int64(5)).Return("rating:5").Once()
				f.ratings.On("Exists", mock.Anything, "rating:5").Return(false, nil).Once()
				f.orders.On("SetRating", mock.Anything, int64(5), mock.Anything).Return(false, nil).Once()
			},
			expectedError: domain.ErrAlreadyRated,
		},
		{
			name:   "not the owner",
			caller: domain.Principal{UserID: 1, Role: domain.RoleAdmin},
			rating: domain.Rating{Overall: 4},
			prepareMocks: func(f *orderFixture) {
				f.orders.On("Get", mock.Anything, int64(5)).Return(deliveredOrder(42), nil).Once()
			},
			expectedError: domain.ErrForbidden,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t, defaultPolicy())
			testCase.prepareMocks(f)
			order, err := f.svc.Rate(ctx, testCase.caller, 5, testCase.rating)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, orderNow, order.Rating.RatedAt)
		})
	}
}

func TestOrderService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates from redis", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		f.orders.On("Stats", mock.Anything).Return(&domain.OrderStats{TotalOrders: 3}, nil).Once()
		f.sales.On("TopItemsToday", mock.Anything, 10).Return([]domain.TopItem{{ItemID: 1, Quantity: 4}}, nil).Once()
		f.sales.On("RevenueToday", mock.Anything).Return(88.5, nil).Once()
		f.catalog.On("GetItems", mock.Anything, []int64{1}).Return(map[int64]*domain.FoodItem{1: burger()}, nil).Once()

		stats, err := f.svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 88.5, stats.RevenueToday)
		assert.Equal(t, "Burger", stats.TopItemsToday[0].Name)
	})

	t.Run("falls back to the database", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		f.orders.On("Stats", mock.Anything).Return(&domain.OrderStats{}, nil).Once()
		f.sales.On("TopItemsToday", mock.Anything, 10).Return(nil, errors.New("redis down")).Once()
		f.sales.On("RevenueToday", mock.Anything).Return(0.0, errors.New("redis down")).Once()
		f.orders.On("TopItemsSince", mock.Anything, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), 10).
			Return([]domain.TopItem{{ItemID: 2, Name: "Pizza", Quantity: 1}}, nil).Once()
		f.orders.On("RevenueSince", mock.Anything, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)).
			Return(12.0, nil).Once()

		stats, err := f.svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Pizza", stats.TopItemsToday[0].Name)
		assert.Equal(t, 12.0, stats.RevenueToday)
	})

	t.Run("revenue failure does not mix sources", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		f.orders.On("Stats", mock.Anything).Return(&domain.OrderStats{}, nil).Once()
		f.sales.On("TopItemsToday", mock.Anything, 10).Return([]domain.TopItem{{ItemID: 1, Quantity: 4}}, nil).Once()
		f.sales.On("RevenueToday", mock.Anything).Return(0.0, errors.New("redis down")).Once()
		f.orders.On("TopItemsSince", mock.Anything, mock.Anything, 10).
			Return([]domain.TopItem{{ItemID: 1, Name: "Burger", Quantity: 4}}, nil).Once()
		f.orders.On("RevenueSince", mock.Anything, mock.Anything).Return(40.0, nil).Once()

		stats, err := f.svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 40.0, stats.RevenueToday)
		assert.Equal(t, "Burger", stats.TopItemsToday[0].Name)
	})

	t.Run("fallback day is the utc day", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		f.svc.now = func() time.Time {
			return time.Date(2026, 5, 11, 1, 30, 0, 0, time.FixedZone("CEST", 2*3600))
		}
		utcDay := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
		f.orders.On("Stats", mock.Anything).Return(&domain.OrderStats{}, nil).Once()
		f.sales.On("TopItemsToday", mock.Anything, 10).Return([]domain.TopItem{}, nil).Once()
		f.sales.On("RevenueToday", mock.Anything).Return(0.0, nil).Once()
		f.orders.On("TopItemsSince", mock.Anything, utcDay, 10).Return([]domain.TopItem{}, nil).Once()
		f.orders.On("RevenueSince", mock.Anything, utcDay).Return(0.0, nil).Once()

		_, err := f.svc.Stats(ctx)
		require.NoError(t, err)
	})
}

func TestOrderService_GetChecksOwnership(t *testing.T) {
	f := newOrderFixture(t, defaultPolicy())
	f.orders.On("Get", mock.Anything, int64(5)).Return(deliveredOrder(42), nil).Twice()

	_, err := f.svc.Get(context.Background(), domain.Principal{UserID: 7, Role: domain.RoleCustomer}, 5)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Get(context.Background(), domain.Principal{UserID: 1, Role: domain.RoleManager}, 5)
	assert.NoError(t, err)
}

func TestOrderService_QRCode(t *testing.T) {
	ctx := context.Background()

	t.Run("owner gets the generated code", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		qr := mocks.NewQRGenerator(t)
		f.svc.qr = qr
		o := deliveredOrder(42)
		f.orders.On("Get", mock.Anything, int64(5)).Return(o, nil).Once()
		qr.On("Generate", o).Return([]byte("png"), nil).Once()

		png, err := f.svc.QRCode(ctx, domain.Principal{UserID: 42, Role: domain.RoleCustomer}, 5)
		require.NoError(t, err)
		assert.Equal(t, []byte("png"), png)
	})

	t.Run("other customers are refused", func(t *testing.T) {
		f := newOrderFixture(t, defaultPolicy())
		qr := mocks.NewQRGenerator(t)
		f.svc.qr = qr
		f.orders.On("Get", mock.Anything, int64(5)).Return(deliveredOrder(42), nil).Once()

		_, err := f.svc.QRCode(ctx, domain.Principal{UserID: 7, Role: domain.RoleCustomer}, 5)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestTrackingQRGenerator(t *testing.T) {
	png, err := TrackingQRGenerator{BaseURL: "https://foodhub.test"}.Generate(&domain.Order{OrderNumber: "ORD-abc"})
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
