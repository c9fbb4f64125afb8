package service

import (
	"context"
	"io"
	"time"

	"foodhub/food-svc/internal/domain"
)

type CatalogServiceInterface interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	ListCategories(ctx context.Context, includeInactive bool) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	UploadCategoryImage(ctx context.Context, id int64, filename, contentType string, r io.Reader) (string, error)

	CreateItem(ctx context.Context, item *domain.FoodItem) error
	GetItem(ctx context.Context, id int64) (*domain.FoodItem, error)
	ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.FoodItem, int, error)
	UpdateItem(ctx context.Context, item *domain.FoodItem) error
	DeleteItem(ctx context.Context, id int64) error
	UploadItemImage(ctx context.Context, id int64, filename, contentType string, r io.Reader) (string, error)
	LowStock(ctx context.Context) ([]domain.FoodItem, error)
}

type OfferServiceInterface interface {
	Create(ctx context.Context, o *domain.Offer) error
	Update(ctx context.Context, o *domain.Offer) error
	Delete(ctx context.Context, id int64) error
	ListActive(ctx context.Context, page domain.Page) ([]domain.Offer, int, error)
	ValidateCoupon(ctx context.Context, userID int64, code string, lines []domain.OrderLineInput, deliveryFee float64) (*domain.CouponCheck, error)
	Stats(ctx context.Context) ([]domain.OfferStats, error)
}

type OrderServiceInterface interface {
	Place(ctx context.Context, caller domain.Principal, req domain.PlaceOrderRequest) (*domain.Order, error)
	Get(ctx context.Context, caller domain.Principal, id int64) (*domain.Order, error)
	List(ctx context.Context, caller domain.Principal, status domain.OrderStatus, page domain.Page) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, caller domain.Principal, id int64, status domain.OrderStatus, note string) (*domain.Order, error)
	Cancel(ctx context.Context, caller domain.Principal, id int64, reason string) (*domain.Order, error)
	Rate(ctx context.Context, caller domain.Principal, id int64, rating domain.Rating) (*domain.Order, error)
	QRCode(ctx context.Context, caller domain.Principal, id int64) ([]byte, error)
	Stats(ctx context.Context) (*domain.OrderStats, error)
}

type AddressServiceInterface interface {
	List(ctx context.Context, userID int64) ([]domain.Address, error)
	Create(ctx context.Context, userID int64, a *domain.Address) error
	Update(ctx context.Context, userID int64, a *domain.Address) error
	Delete(ctx context.Context, userID, id int64) error
	SetDefault(ctx context.Context, userID, id int64) error
	ValidateDistance(lat, lng float64) (domain.DistanceCheck, error)
	Autocomplete(ctx context.Context, query, lang string) ([]domain.PlaceSuggestion, error)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int64, current, next string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, next string) error
	Authenticate(token string) (*domain.Principal, error)
}

// TxManager runs fn inside one database transaction carried by ctx.
// Repositories pick the transaction up from ctx.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type CatalogRepository interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	ListCategories(ctx context.Context, includeInactive bool) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	UpdateCategoryImage(ctx context.Context, id int64, url string) error

	CreateItem(ctx context.Context, item *domain.FoodItem) error
	GetItem(ctx context.Context, id int64) (*domain.FoodItem, error)
	GetItems(ctx context.Context, ids []int64) (map[int64]*domain.FoodItem, error)
	ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.FoodItem, int, error)
	UpdateItem(ctx context.Context, item *domain.FoodItem) error
	DeleteItem(ctx context.Context, id int64) error
	UpdateItemImage(ctx context.Context, id int64, url string) error
	LowStock(ctx context.Context) ([]domain.FoodItem, error)

	// DecrementStock removes qty units in one conditional statement and
	// returns how many were actually taken. With strict set it fails with
	// domain.ErrInsufficientStock instead of clamping at zero.
	DecrementStock(ctx context.Context, id int64, qty int, strict bool) (int, error)
	RestoreStock(ctx context.Context, id int64, qty int) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, id int64) (*domain.Order, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error)
	// UpdateStatus appends entry to the tracking history. deliveredAt only
	// fills actual_delivery_time when it is still empty.
	UpdateStatus(ctx context.Context, id int64, entry domain.TrackingEntry, deliveredAt *time.Time) error
	Cancel(ctx context.Context, id int64, c domain.Cancellation, entry domain.TrackingEntry) error
	// SetRating returns false when the order already carries a rating.
	SetRating(ctx context.Context, id int64, r domain.Rating) (bool, error)
	Stats(ctx context.Context) (*domain.OrderStats, error)
	TopItemsSince(ctx context.Context, since time.Time, limit int) ([]domain.TopItem, error)
	RevenueSince(ctx context.Context, since time.Time) (float64, error)
}

type OfferRepository interface {
	Create(ctx context.Context, o *domain.Offer) error
	Get(ctx context.Context, id int64) (*domain.Offer, error)
	Update(ctx context.Context, o *domain.Offer) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.OfferFilter) ([]domain.Offer, int, error)
	GetByCode(ctx context.Context, code string) (*domain.Offer, error)
	ListAutomatic(ctx context.Context, at time.Time) ([]domain.Offer, error)
	// LockOffer reads the offer with FOR UPDATE; it must run inside a transaction.
	LockOffer(ctx context.Context, id int64) (*domain.Offer, error)
	CountUserUsage(ctx context.Context, offerID, userID int64) (int, error)
	RecordUsage(ctx context.Context, u domain.OfferUsage) error
	Stats(ctx context.Context) ([]domain.OfferStats, error)
}

type AddressRepository interface {
	List(ctx context.Context, userID int64) ([]domain.Address, error)
	Get(ctx context.Context, userID, id int64) (*domain.Address, error)
	Count(ctx context.Context, userID int64) (int, error)
	Create(ctx context.Context, a *domain.Address) error
	Update(ctx context.Context, a *domain.Address) error
	Delete(ctx context.Context, userID, id int64) error
	ClearDefault(ctx context.Context, userID int64) error
	SetDefault(ctx context.Context, userID, id int64) error
	// PromoteLatest marks the most recently updated address as default.
	PromoteLatest(ctx context.Context, userID int64) error
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	MarkVerified(ctx context.Context, id int64) error
}

type OTPStore interface {
	Save(ctx context.Context, purpose, email, code string) error
	// Verify consumes the code on success. Each failed attempt counts
	// towards the attempt cap, after which the code is discarded.
	Verify(ctx context.Context, purpose, email, code string) (bool, error)
}

type RatingMarker interface {
	RatingMarkerKey(orderID int64) string
	Exists(ctx context.Context, key string) (bool, error)
	SetMarker(ctx context.Context, key string) error
}

type SalesReader interface {
	TopItemsToday(ctx context.Context, limit int) ([]domain.TopItem, error)
	RevenueToday(ctx context.Context) (float64, error)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev domain.OrderEvent) error
}

type Mailer interface {
	SendOTP(to, name, code, purpose string) error
	SendOrderConfirmation(to, name string, o *domain.Order) error
}

type ImageStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

type TokenIssuer interface {
	Issue(u *domain.User) (string, error)
	Parse(token string) (*domain.Principal, error)
}

type Geocoder interface {
	Autocomplete(ctx context.Context, query, lang string) ([]domain.PlaceSuggestion, error)
}

var (
	_ CatalogServiceInterface = (*CatalogService)(nil)
	_ OfferServiceInterface   = (*OfferService)(nil)
	_ OrderServiceInterface   = (*OrderService)(nil)
	_ AddressServiceInterface = (*AddressService)(nil)
	_ AuthServiceInterface    = (*AuthService)(nil)
)
