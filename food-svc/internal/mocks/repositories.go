package mocks

import (
	"context"
	"time"

	"foodhub/food-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type CatalogRepository struct{ mock.Mock }

func NewCatalogRepository(t testingT) *CatalogRepository {
	m := &CatalogRepository{}
	register(&m.Mock, t)
	return m
}

func (_m *CatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	return _m.Called(ctx, c).Error(0)
}

func (_m *CatalogRepository) ListCategories(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	ret := _m.Called(ctx, includeInactive)
	return get[[]domain.Category](ret, 0), ret.Error(1)
}

func (_m *CatalogRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	ret := _m.Called(ctx, id)
	return get[*domain.Category](ret, 0), ret.Error(1)
}

func (_m *CatalogRepository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	return _m.Called(ctx, c).Error(0)
}

func (_m *CatalogRepository) DeleteCategory(ctx context.Context, id int64) error {
	return _m.Called(ctx, id).Error(0)
}

func (_m *CatalogRepository) UpdateCategoryImage(ctx context.Context, id int64, url string) error {
	return _m.Called(ctx, id, url).Error(0)
}

func (_m *CatalogRepository) CreateItem(ctx context.Context, item *domain.FoodItem) error {
	return _m.Called(ctx, item).Error(0)
}

func (_m *CatalogRepository) GetItem(ctx context.Context, id int64) (*domain.FoodItem, error) {
	ret := _m.Called(ctx, id)
	return get[*domain.FoodItem](ret, 0), ret.Error(1)
}

func (_m *CatalogRepository) GetItems(ctx context.Context, ids []int64) (map[int64]*domain.FoodItem, error) {
	ret := _m.Called(ctx, ids)
	return get[map[int64]*domain.FoodItem](ret, 0), ret.Error(1)
}

func (_m *CatalogRepository) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.FoodItem, int, error) {
	ret := _m.Called(ctx, filter)
	return get[[]domain.FoodItem](ret, 0), ret.Int(1), ret.Error(2)
}

func (_m *CatalogRepository) UpdateItem(ctx context.Context, item *domain.FoodItem) error {
	return _m.Called(ctx, item).Error(0)
}

func (_m *CatalogRepository) DeleteItem(ctx context.Context, id int64) error {
	return _m.Called(ctx, id).Error(0)
}

func (_m *CatalogRepository) UpdateItemImage(ctx context.Context, id int64, url string) error {
	return _m.Called(ctx, id, url).Error(0)
}

func (_m *CatalogRepository) LowStock(ctx context.Context) ([]domain.FoodItem, error) {
	ret := _m.Called(ctx)
	return get[[]domain.FoodItem](ret, 0), ret.Error(1)
}

func (_m *CatalogRepository) DecrementStock(ctx context.Context, id int64, qty int, strict bool) (int, error) {
	ret := _m.Called(ctx, id, qty, strict)
	return ret.Int(0), ret.Error(1)
}

func (_m *CatalogRepository) RestoreStock(ctx context.Context, id int64, qty int) error {
	return _m.Called(ctx, id, qty).Error(0)
}

type OrderRepository struct{ mock.Mock }

func NewOrderRepository(t testingT) *OrderRepository {
	m := &OrderRepository{}
	register(&m.Mock, t)
	return m
}

func (_m *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	return _m.Called(ctx, o).Error(0)
}

func (_m *OrderRepository) Get(ctx context.Context, id int64) (*domain.Order, error) {
	ret := _m.Called(ctx, id)
	return get[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	ret := _m.Called(ctx, id)
	return get[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	ret := _m.Called(ctx, filter)
	return get[[]domain.Order](ret, 0), ret.Int(1), ret.Error(2)
}

func (_m *OrderRepository) UpdateStatus(ctx context.Context, id int64, entry domain.TrackingEntry, deliveredAt *time.Time) error {
	return _m.Called(ctx, id, entry, deliveredAt).Error(0)
}

func (_m *OrderRepository) Cancel(ctx context.Context, id int64, c domain.Cancellation, entry domain.TrackingEntry) error {
	return _m.Called(ctx, id, c, entry).Error(0)
}

func (_m *OrderRepository) SetRating(ctx context.Context, id int64, r domain.Rating) (bool, error) {
	ret := _m.Called(ctx, id, r)
	return ret.Bool(0), ret.Error(1)
}

func (_m *OrderRepository) Stats(ctx context.Context) (*domain.OrderStats, error) {
	ret := _m.Called(ctx)
	return get[*domain.OrderStats](ret, 0), ret.Error(1)
}

func (_m *OrderRepository) TopItemsSince(ctx context.Context, since time.Time, limit int) ([]domain.TopItem, error) {
	ret := _m.Called(ctx, since, limit)
	return get[[]domain.TopItem](ret, 0), ret.Error(1)
}

func (_m *OrderRepository) RevenueSince(ctx context.Context, since time.Time) (float64, error) {
	ret := _m.Called(ctx, since)
	return get[float64](ret, 0), ret.Error(1)
}

type OfferRepository struct{ mock.Mock }

func NewOfferRepository(t testingT) *OfferRepository {
	m := &OfferRepository{}
	register(&m.Mock, t)
	return m
}

func (_m *OfferRepository) Create(ctx context.Context, o *domain.Offer) error {
	return _m.Called(ctx, o).Error(0)
}

func (_m *OfferRepository) Get(ctx context.Context, id int64) (*domain.Offer, error) {
	ret := _m.Called(ctx, id)
	return get[*domain.Offer](ret, 0), ret.Error(1)
}

func (_m *OfferRepository) Update(ctx context.Context, o *domain.Offer) error {
	return _m.Called(ctx, o).Error(0)
}

func (_m *OfferRepository) Delete(ctx context.Context, id int64) error {
	return _m.Called(ctx, id).Error(0)
}

func (_m *OfferRepository) List(ctx context.Context, filter domain.OfferFilter) ([]domain.Offer, int, error) {
	ret := _m.Called(ctx, filter)
	return get[[]domain.Offer](ret, 0), ret.Int(1), ret.Error(2)
}

func (_m *OfferRepository) GetByCode(ctx context.Context, code string) (*domain.Offer, error) {
	ret := _m.Called(ctx, code)
	return get[*domain.Offer](ret, 0), ret.Error(1)
}

func (_m *OfferRepository) ListAutomatic(ctx context.Context, at time.Time) ([]domain.Offer, error) {
	ret := _m.Called(ctx, at)
	return get[[]domain.Offer](ret, 0), ret.Error(1)
}

func (_m *OfferRepository) LockOffer(ctx context.Context, id int64) (*domain.Offer, error) {
	ret := _m.Called(ctx, id)
	return get[*domain.Offer](ret, 0), ret.Error(1)
}

func (_m *OfferRepository) CountUserUsage(ctx context.Context, offerID, userID int64) (int, error) {
	ret := _m.Called(ctx, offerID, userID)
	return ret.Int(0), ret.Error(1)
}

func (_m *OfferRepository) RecordUsage(ctx context.Context, u domain.OfferUsage) error {
	return _m.Called(ctx, u).Error(0)
}

func (_m *OfferRepository) Stats(ctx context.Context) ([]domain.OfferStats, error) {
	ret := _m.Called(ctx)
	return get[[]domain.OfferStats](ret, 0), ret.Error(1)
}

type AddressRepository struct{ mock.Mock }

func NewAddressRepository(t testingT) *AddressRepository {
	m := &AddressRepository{}
	register(&m.Mock, t)
	return m
}

func (_m *AddressRepository) List(ctx context.Context, userID int64) ([]domain.Address, error) {
	ret := _m.Called(ctx, userID)
	return get[[]domain.Address](ret, 0), ret.Error(1)
}

func (_m *AddressRepository) Get(ctx context.Context, userID, id int64) (*domain.Address, error) {
	ret := _m.Called(ctx, userID, id)
	return get[*domain.Address](ret, 0), ret.Error(1)
}

func (_m *AddressRepository) Count(ctx context.Context, userID int64) (int, error) {
	ret := _m.Called(ctx, userID)
	return ret.Int(0), ret.Error(1)
}

func (_m *AddressRepository) Create(ctx context.Context, a *domain.Address) error {
	return _m.Called(ctx, a).Error(0)
}

func (_m *AddressRepository) Update(ctx context.Context, a *domain.Address) error {
	return _m.Called(ctx, a).Error(0)
}

func (_m *AddressRepository) Delete(ctx context.Context, userID, id int64) error {
	return _m.Called(ctx, userID, id).Error(0)
}

func (_m *AddressRepository) ClearDefault(ctx context.Context, userID int64) error {
	return _m.Called(ctx, userID).Error(0)
}

func (_m *AddressRepository) SetDefault(ctx context.Context, userID, id int64) error {
	return _m.Called(ctx, userID, id).Error(0)
}

func (_m *AddressRepository) PromoteLatest(ctx context.Context, userID int64) error {
	return _m.Called(ctx, userID).Error(0)
}

type UserRepository struct{ mock.Mock }

func NewUserRepository(t testingT) *UserRepository {
	m := &UserRepository{}
	register(&m.Mock, t)
	return m
}

func (_m *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return _m.Called(ctx, u).Error(0)
}

func (_m *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	ret := _m.Called(ctx, id)
	return get[*domain.User](ret, 0), ret.Error(1)
}

func (_m *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ret := _m.Called(ctx, email)
	return get[*domain.User](ret, 0), ret.Error(1)
}

func (_m *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	return _m.Called(ctx, u).Error(0)
}

func (_m *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return _m.Called(ctx, id, hash).Error(0)
}

func (_m *UserRepository) MarkVerified(ctx context.Context, id int64) error {
	return _m.Called(ctx, id).Error(0)
}

// TxManager runs the callback inline, without a database.
type TxManager struct{}

func (TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
