package mocks

import (
	"context"
	"io"

	"foodhub/food-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type CatalogService struct{ mock.Mock }

func NewCatalogService(t testingT) *CatalogService {
	m := &CatalogService{}
	register(&m.Mock, t)
	return m
}

func (_m *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) error {
	return _m.Called(ctx, c).Error(0)
}

func (_m *CatalogService) ListCategories(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	ret := _m.Called(ctx, includeInactive)
	return get[[]domain.Category](ret, 0), ret.Error(1)
}

func (_m *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	ret := _m.Called(ctx, id)
	return get[*domain.Category](ret, 0), ret.Error(1)
}

func (_m *CatalogService) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return _m.Called(ctx, c).Error(0)
}

func (_m *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return _m.Called(ctx, id).Error(0)
}

func (_m *CatalogService) UploadCategoryImage(ctx context.Context, id int64, filename, contentType string, r io.Reader) (string, error) {
	ret := _m.Called(ctx, id, filename, contentType, r)
	return ret.String(0), ret.Error(1)
}

func (_m *CatalogService) CreateItem(ctx context.Context, item *domain.FoodItem) error {
	return _m.Called(ctx, item).Error(0)
}

func (_m *CatalogService) GetItem(ctx context.Context, id int64) (*domain.FoodItem, error) {
	ret := _m.Called(ctx, id)
	return get[*domain.FoodItem](ret, 0), ret.Error(1)
}

func (_m *CatalogService) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.FoodItem, int, error) {
	ret := _m.Called(ctx, filter)
	return get[[]domain.FoodItem](ret, 0), ret.Int(1), ret.Error(2)
}

func (_m *CatalogService) UpdateItem(ctx context.Context, item *domain.FoodItem) error {
	return _m.Called(ctx, item).Error(0)
}

func (_m *CatalogService) DeleteItem(ctx context.Context, id int64) error {
	return _m.Called(ctx, id).Error(0)
}

func (_m *CatalogService) UploadItemImage(ctx context.Context, id int64, filename, contentType string, r io.Reader) (string, error) {
	ret := _m.Called(ctx, id, filename, contentType, r)
	return ret.String(0), ret.Error(1)
}

func (_m *CatalogService) LowStock(ctx context.Context) ([]domain.FoodItem, error) {
	ret := _m.Called(ctx)
	return get[[]domain.FoodItem](ret, 0), ret.Error(1)
}

type OfferService struct{ mock.Mock }

func NewOfferService(t testingT) *OfferService {
	m := &OfferService{}
	register(&m.Mock, t)
	return m
}

func (_m *OfferService) Create(ctx context.Context, o *domain.Offer) error {
	return _m.Called(ctx, o).Error(0)
}

func (_m *OfferService) Update(ctx context.Context, o *domain.Offer) error {
	return _m.Called(ctx, o).Error(0)
}

func (_m *OfferService) Delete(ctx context.Context, id int64) error {
	return _m.Called(ctx, id).Error(0)
}

func (_m *OfferService) ListActive(ctx context.Context, page domain.Page) ([]domain.Offer, int, error) {
	ret := _m.Called(ctx, page)
	return get[[]domain.Offer](ret, 0), ret.Int(1), ret.Error(2)
}

func (_m *OfferService) ValidateCoupon(ctx context.Context, userID int64, code string, lines []domain.OrderLineInput, deliveryFee float64) (*domain.CouponCheck, error) {
	ret := _m.Called(ctx, userID, code, lines, deliveryFee)
	return get[*domain.CouponCheck](ret, 0), ret.Error(1)
}

func (_m *OfferService) Stats(ctx context.Context) ([]domain.OfferStats, error) {
	ret := _m.Called(ctx)
	return get[[]domain.OfferStats](ret, 0), ret.Error(1)
}

type OrderService struct{ mock.Mock }

func NewOrderService(t testingT) *OrderService {
	m := &OrderService{}
	register(&m.Mock, t)
	return m
}

func (_m *OrderService) Place(ctx context.Context, caller domain.Principal, req domain.PlaceOrderRequest) (*domain.Order, error) {
	ret := _m.Called(ctx, caller, req)
	return get[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderService) Get(ctx context.Context, caller domain.Principal, id int64) (*domain.Order, error) {
	ret := _m.Called(ctx, caller, id)
	return get[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderService) List(ctx context.Context, caller domain.Principal, status domain.OrderStatus, page domain.Page) ([]domain.Order, int, error) {
	ret := _m.Called(ctx, caller, status, page)
	return get[[]domain.Order](ret, 0), ret.Int(1), ret.Error(2)
}

func (_m *OrderService) UpdateStatus(ctx context.Context, caller domain.Principal, id int64, status domain.OrderStatus, note string) (*domain.Order, error) {
	ret := _m.Called(ctx, caller, id, status, note)
	return get[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderService) Cancel(ctx context.Context, caller domain.Principal, id int64, reason string) (*domain.Order, error) {
	ret := _m.Called(ctx, caller, id, reason)
	return get[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderService) Rate(ctx context.Context, caller domain.Principal, id int64, rating domain.Rating) (*domain.Order, error) {
	ret := _m.Called(ctx, caller, id, rating)
	return get[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderService) QRCode(ctx context.Context, caller domain.Principal, id int64) ([]byte, error) {
	ret := _m.Called(ctx, caller, id)
	return get[[]byte](ret, 0), ret.Error(1)
}

func (_m *OrderService) Stats(ctx context.Context) (*domain.OrderStats, error) {
	ret := _m.Called(ctx)
	return get[*domain.OrderStats](ret, 0), ret.Error(1)
}

type AddressService struct{ mock.Mock }

func NewAddressService(t testingT) *AddressService {
	m := &AddressService{}
	register(&m.Mock, t)
	return m
}

func (_m *AddressService) List(ctx context.Context, userID int64) ([]domain.Address, error) {
	ret := _m.Called(ctx, userID)
	return get[[]domain.Address](ret, 0), ret.Error(1)
}

func (_m *AddressService) Create(ctx context.Context, userID int64, a *domain.Address) error {
	return _m.Called(ctx, userID, a).Error(0)
}

func (_m *AddressService) Update(ctx context.Context, userID int64, a *domain.Address) error {
	return _m.Called(ctx, userID, a).Error(0)
}

func (_m *AddressService) Delete(ctx context.Context, userID, id int64) error {
	return _m.Called(ctx, userID, id).Error(0)
}

func (_m *AddressService) SetDefault(ctx context.Context, userID, id int64) error {
	return _m.Called(ctx, userID, id).Error(0)
}

func (_m *AddressService) ValidateDistance(lat, lng float64) (domain.DistanceCheck, error) {
	ret := _m.Called(lat, lng)
	return get[domain.DistanceCheck](ret, 0), ret.Error(1)
}

func (_m *AddressService) Autocomplete(ctx context.Context, query, lang string) ([]domain.PlaceSuggestion, error) {
	ret := _m.Called(ctx, query, lang)
	return get[[]domain.PlaceSuggestion](ret, 0), ret.Error(1)
}

type AuthService struct{ mock.Mock }

func NewAuthService(t testingT) *AuthService {
	m := &AuthService{}
	register(&m.Mock, t)
	return m
}

func (_m *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	ret := _m.Called(ctx, req)
	return get[*domain.User](ret, 0), ret.Error(1)
}

func (_m *AuthService) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	ret := _m.Called(ctx, email, code)
	return get[*domain.AuthResult](ret, 0), ret.Error(1)
}

func (_m *AuthService) ResendOTP(ctx context.Context, email string) error {
	return _m.Called(ctx, email).Error(0)
}

func (_m *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	ret := _m.Called(ctx, email, password)
	return get[*domain.AuthResult](ret, 0), ret.Error(1)
}

func (_m *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	ret := _m.Called(ctx, userID)
	return get[*domain.User](ret, 0), ret.Error(1)
}

func (_m *AuthService) UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) (*domain.User, error) {
	ret := _m.Called(ctx, userID, upd)
	return get[*domain.User](ret, 0), ret.Error(1)
}

func (_m *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	return _m.Called(ctx, userID, current, next).Error(0)
}

func (_m *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return _m.Called(ctx, email).Error(0)
}

func (_m *AuthService) ResetPassword(ctx context.Context, email, code, next string) error {
	return _m.Called(ctx, email, code, next).Error(0)
}

func (_m *AuthService) Authenticate(token string) (*domain.Principal, error) {
	ret := _m.Called(token)
	return get[*domain.Principal](ret, 0), ret.Error(1)
}
