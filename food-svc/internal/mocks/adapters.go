package mocks

import (
	"context"
	"io"

	"foodhub/food-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type OTPStore struct{ mock.Mock }

func NewOTPStore(t testingT) *OTPStore {
	m := &OTPStore{}
	register(&m.Mock, t)
	return m
}

func (_m *OTPStore) Save(ctx context.Context, purpose, email, code string) error {
	return _m.Called(ctx, purpose, email, code).Error(0)
}

func (_m *OTPStore) Verify(ctx context.Context, purpose, email, code string) (bool, error) {
	ret := _m.Called(ctx, purpose, email, code)
	return ret.Bool(0), ret.Error(1)
}

type RatingMarker struct{ mock.Mock }

func NewRatingMarker(t testingT) *RatingMarker {
	m := &RatingMarker{}
	register(&m.Mock, t)
	return m
}

func (_m *RatingMarker) RatingMarkerKey(orderID int64) string {
	return _m.Called(orderID).String(0)
}

func (_m *RatingMarker) Exists(ctx context.Context, key string) (bool, error) {
	ret := _m.Called(ctx, key)
	return ret.Bool(0), ret.Error(1)
}

func (_m *RatingMarker) SetMarker(ctx context.Context, key string) error {
	return _m.Called(ctx, key).Error(0)
}

type SalesReader struct{ mock.Mock }

func NewSalesReader(t testingT) *SalesReader {
	m := &SalesReader{}
	register(&m.Mock, t)
	return m
}

func (_m *SalesReader) TopItemsToday(ctx context.Context, limit int) ([]domain.TopItem, error) {
	ret := _m.Called(ctx, limit)
	return get[[]domain.TopItem](ret, 0), ret.Error(1)
}

func (_m *SalesReader) RevenueToday(ctx context.Context) (float64, error) {
	ret := _m.Called(ctx)
	return get[float64](ret, 0), ret.Error(1)
}

type EventPublisher struct{ mock.Mock }

func NewEventPublisher(t testingT) *EventPublisher {
	m := &EventPublisher{}
	register(&m.Mock, t)
	return m
}

func (_m *EventPublisher) PublishOrderEvent(ctx context.Context, ev domain.OrderEvent) error {
	return _m.Called(ctx, ev).Error(0)
}

type Mailer struct{ mock.Mock }

func NewMailer(t testingT) *Mailer {
	m := &Mailer{}
	register(&m.Mock, t)
	return m
}

func (_m *Mailer) SendOTP(to, name, code, purpose string) error {
	return _m.Called(to, name, code, purpose).Error(0)
}

func (_m *Mailer) SendOrderConfirmation(to, name string, o *domain.Order) error {
	return _m.Called(to, name, o).Error(0)
}

type ImageStore struct{ mock.Mock }

func NewImageStore(t testingT) *ImageStore {
	m := &ImageStore{}
	register(&m.Mock, t)
	return m
}

func (_m *ImageStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	ret := _m.Called(ctx, name, contentType, r)
	return ret.String(0), ret.Error(1)
}

type TokenIssuer struct{ mock.Mock }

func NewTokenIssuer(t testingT) *TokenIssuer {
	m := &TokenIssuer{}
	register(&m.Mock, t)
	return m
}

func (_m *TokenIssuer) Issue(u *domain.User) (string, error) {
	ret := _m.Called(u)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenIssuer) Parse(token string) (*domain.Principal, error) {
	ret := _m.Called(token)
	return get[*domain.Principal](ret, 0), ret.Error(1)
}

type Geocoder struct{ mock.Mock }

func NewGeocoder(t testingT) *Geocoder {
	m := &Geocoder{}
	register(&m.Mock, t)
	return m
}

func (_m *Geocoder) Autocomplete(ctx context.Context, query, lang string) ([]domain.PlaceSuggestion, error) {
	ret := _m.Called(ctx, query, lang)
	return get[[]domain.PlaceSuggestion](ret, 0), ret.Error(1)
}

type QRGenerator struct{ mock.Mock }

func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	register(&m.Mock, t)
	return m
}

func (_m *QRGenerator) Generate(o *domain.Order) ([]byte, error) {
	ret := _m.Called(o)
	return get[[]byte](ret, 0), ret.Error(1)
}
