package httpapi

import (
	"net/http"
	"time"

	"foodhub/food-svc/internal/service"
	"foodhub/logger"

	"github.com/gorilla/mux"
)

type Handler struct {
	Catalog   service.CatalogServiceInterface
	Offers    service.OfferServiceInterface
	Orders    service.OrderServiceInterface
	Addresses service.AddressServiceInterface
	Auth      service.AuthServiceInterface
	Log       *logger.Logger
}

func NewHandler(catalog service.CatalogServiceInterface, offers service.OfferServiceInterface, orders service.OrderServiceInterface,
	addresses service.AddressServiceInterface, auth service.AuthServiceInterface, log *logger.Logger) *Handler {
	return &Handler{
		Catalog:   catalog,
		Offers:    offers,
		Orders:    orders,
		Addresses: addresses,
		Auth:      auth,
		Log:       log,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/auth/register", h.register).Methods("POST")
	r.HandleFunc("/api/auth/verify-otp", h.verifyOTP).Methods("POST")
	r.HandleFunc("/api/auth/resend-otp", h.resendOTP).Methods("POST")
	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.HandleFunc("/api/auth/forgot-password", h.forgotPassword).Methods("POST")
	r.HandleFunc("/api/auth/reset-password", h.resetPassword).Methods("POST")
	r.HandleFunc("/api/auth/profile", h.authenticated(h.getProfile)).Methods("GET")
	r.HandleFunc("/api/auth/profile", h.authenticated(h.updateProfile)).Methods("PUT")
	r.HandleFunc("/api/auth/password", h.authenticated(h.changePassword)).Methods("PUT")

	r.HandleFunc("/api/categories", h.optionalAuth(h.listCategories)).Methods("GET")
	r.HandleFunc("/api/categories", h.staff(h.createCategory)).Methods("POST")
	r.HandleFunc("/api/categories/{id:[0-9]+}", h.getCategory).Methods("GET")
	r.HandleFunc("/api/categories/{id:[0-9]+}", h.staff(h.updateCategory)).Methods("PUT")
	r.HandleFunc("/api/categories/{id:[0-9]+}", h.staff(h.deleteCategory)).Methods("DELETE")
	r.HandleFunc("/api/categories/{id:[0-9]+}/image", h.staff(h.uploadCategoryImage)).Methods("POST")

	r.HandleFunc("/api/foods", h.optionalAuth(h.listFoods)).Methods("GET")
	r.HandleFunc("/api/foods", h.staff(h.createFood)).Methods("POST")
	r.HandleFunc("/api/foods/low-stock", h.staff(h.lowStock)).Methods("GET")
	r.HandleFunc("/api/foods/{id:[0-9]+}", h.getFood).Methods("GET")
	r.HandleFunc("/api/foods/{id:[0-9]+}", h.staff(h.updateFood)).Methods("PUT")
	r.HandleFunc("/api/foods/{id:[0-9]+}", h.staff(h.deleteFood)).Methods("DELETE")
	r.HandleFunc("/api/foods/{id:[0-9]+}/image", h.staff(h.uploadFoodImage)).Methods("POST")

	r.HandleFunc("/api/orders", h.authenticated(h.placeOrder)).Methods("POST")
	r.HandleFunc("/api/orders", h.authenticated(h.listOrders)).Methods("GET")
	r.HandleFunc("/api/orders/stats", h.staff(h.orderStats)).Methods("GET")
	r.HandleFunc("/api/orders/{id:[0-9]+}", h.authenticated(h.getOrder)).Methods("GET")
	r.HandleFunc("/api/orders/{id:[0-9]+}/status", h.staff(h.updateOrderStatus)).Methods("PUT")
	r.HandleFunc("/api/orders/{id:[0-9]+}/cancel", h.authenticated(h.cancelOrder)).Methods("PUT")
	r.HandleFunc("/api/orders/{id:[0-9]+}/rate", h.authenticated(h.rateOrder)).Methods("POST")
	r.HandleFunc("/api/orders/{id:[0-9]+}/qrcode", h.authenticated(h.orderQRCode)).Methods("GET")

	r.HandleFunc("/api/offers", h.listOffers).Methods("GET")
	r.HandleFunc("/api/offers", h.staff(h.createOffer)).Methods("POST")
	r.HandleFunc("/api/offers/validate", h.authenticated(h.validateCoupon)).Methods("POST")
	r.HandleFunc("/api/offers/stats", h.staff(h.offerStats)).Methods("GET")
	r.HandleFunc("/api/offers/{id:[0-9]+}", h.staff(h.updateOffer)).Methods("PUT")
	r.HandleFunc("/api/offers/{id:[0-9]+}", h.staff(h.deleteOffer)).Methods("DELETE")

	r.HandleFunc("/api/addresses", h.authenticated(h.listAddresses)).Methods("GET")
	r.HandleFunc("/api/addresses", h.authenticated(h.createAddress)).Methods("POST")
	r.HandleFunc("/api/addresses/validate-distance", h.validateDistance).Methods("POST")
	r.HandleFunc("/api/addresses/autocomplete", h.authenticated(h.autocomplete)).Methods("GET")
	r.HandleFunc("/api/addresses/{id:[0-9]+}", h.authenticated(h.updateAddress)).Methods("PUT")
	r.HandleFunc("/api/addresses/{id:[0-9]+}", h.authenticated(h.deleteAddress)).Methods("DELETE")
	r.HandleFunc("/api/addresses/{id:[0-9]+}/default", h.authenticated(h.setDefaultAddress)).Methods("PUT")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, "", envelope{
		"status":    "healthy",
		"service":   "food-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
