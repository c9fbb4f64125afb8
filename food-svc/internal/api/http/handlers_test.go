package httpapi_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "foodhub/food-svc/internal/api/http"
	"foodhub/food-svc/internal/domain"
	"foodhub/food-svc/internal/mocks"
	"foodhub/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	customerToken = "customer-token"
	staffToken    = "staff-token"
)

var (
	customer = domain.Principal{UserID: 7, Role: domain.RoleCustomer}
	manager  = domain.Principal{UserID: 1, Role: domain.RoleManager}
)

type fixture struct {
	catalog   *mocks.CatalogService
	offers    *mocks.OfferService
	orders    *mocks.OrderService
	addresses *mocks.AddressService
	auth      *mocks.AuthService
	router    http.Handler
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		catalog:   mocks.NewCatalogService(t),
		offers:    mocks.NewOfferService(t),
		orders:    mocks.NewOrderService(t),
		addresses: mocks.NewAddressService(t),
		auth:      mocks.NewAuthService(t),
	}
	f.auth.On("Authenticate", customerToken).Return(&customer, nil).Maybe()
	f.auth.On("Authenticate", staffToken).Return(&manager, nil).Maybe()
	f.auth.On("Authenticate", mock.Anything).Return(nil, domain.ErrUnauthorized).Maybe()

	h := httpapi.NewHandler(f.catalog, f.offers, f.orders, f.addresses, f.auth, logger.Discard())
	f.router = httpapi.NewRouter(h, []string{"*"})
	return f
}

func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t)
	w := f.do("GET", "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, true, decode(t, w)["success"])
}

func TestAuthorization(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		wantCode int
	}{
		{name: "orders without token", method: "GET", path: "/api/orders", wantCode: http.StatusUnauthorized},
		{name: "orders with bad token", method: "GET", path: "/api/orders", token: "forged", wantCode: http.StatusUnauthorized},
		{name: "customer creating a category", method: "POST", path: "/api/categories", token: customerToken, wantCode: http.StatusForbidden},
		{name: "customer reading stats", method: "GET", path: "/api/orders/stats", token: customerToken, wantCode: http.StatusForbidden},
		{name: "customer changing status", method: "PUT", path: "/api/orders/3/status", token: customerToken, wantCode: http.StatusForbidden},
		{name: "customer reading offer stats", method: "GET", path: "/api/offers/stats", token: customerToken, wantCode: http.StatusForbidden},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFixture(t)
			w := f.do(testCase.method, testCase.path, testCase.token, "")

			assert.Equal(t, testCase.wantCode, w.Code)
			assert.Equal(t, false, decode(t, w)["success"])
		})
	}
}

func TestListFoods(t *testing.T) {
	burger := domain.FoodItem{
		ID:          1,
		Name:        domain.LocalizedText{"en": "Burger", "es": "Hamburguesa"},
		Price:       10,
		CategoryID:  3,
		IsActive:    true,
		IsAvailable: true,
	}

	t.Run("localized page", func(t *testing.T) {
		f := newFixture(t)
		f.catalog.On("ListItems", mock.Anything, domain.ItemFilter{
			CategoryID:    3,
			AvailableOnly: true,
			Search:        "burg",
			Page:          domain.Page{Page: 2, Limit: 1},
		}).Return([]domain.FoodItem{burger}, 3, nil).Once()

		w := f.do("GET", "/api/foods?category=3&available=true&search=burg&page=2&limit=1&lang=es", "", "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decode(t, w)
		assert.Equal(t, float64(1), body["count"])
		assert.Equal(t, float64(3), body["totalFoods"])
		assert.Equal(t, float64(3), body["totalPages"])
		assert.Equal(t, float64(2), body["currentPage"])
		foods := body["foods"].([]any)
		assert.Equal(t, "Hamburguesa", foods[0].(map[string]any)["name"])
	})

	t.Run("hidden items only for staff", func(t *testing.T) {
		f := newFixture(t)
		f.catalog.On("ListItems", mock.Anything, mock.MatchedBy(func(fl domain.ItemFilter) bool {
			return !fl.IncludeHidden
		})).Return([]domain.FoodItem{}, 0, nil).Once()
		f.catalog.On("ListItems", mock.Anything, mock.MatchedBy(func(fl domain.ItemFilter) bool {
			return fl.IncludeHidden
		})).Return([]domain.FoodItem{}, 0, nil).Once()

		assert.Equal(t, http.StatusOK, f.do("GET", "/api/foods?includeInactive=true", customerToken, "").Code)
		assert.Equal(t, http.StatusOK, f.do("GET", "/api/foods?includeInactive=true", staffToken, "").Code)
	})

	t.Run("limit out of range", func(t *testing.T) {
		f := newFixture(t)
		w := f.do("GET", "/api/foods?limit=51", "", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation failed", decode(t, w)["message"])
	})

	t.Run("page zero", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, http.StatusBadRequest, f.do("GET", "/api/foods?page=0", "", "").Code)
	})
}

func TestGetFood_NotFound(t *testing.T) {
	f := newFixture(t)
	f.catalog.On("GetItem", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound).Once()

	w := f.do("GET", "/api/foods/99", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCategory(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(*mocks.CatalogService)
		wantCode  int
	}{
		{
			name: "valid request",
			body: `{"name":{"en":"Burgers"},"isActive":true}`,
			setupMock: func(m *mocks.CatalogService) {
				m.On("CreateCategory", mock.Anything, mock.AnythingOfType("*domain.Category")).Return(nil).Once()
			},
			wantCode: http.StatusCreated,
		},
		{
			name:      "invalid JSON",
			body:      `{invalid}`,
			setupMock: func(m *mocks.CatalogService) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "validation error",
			body: `{"name":{}}`,
			setupMock: func(m *mocks.CatalogService) {
				m.On("CreateCategory", mock.Anything, mock.Anything).
					Return(domain.NewValidationError("name.en", "is required")).Once()
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "database error",
			body: `{"name":{"en":"Burgers"}}`,
			setupMock: func(m *mocks.CatalogService) {
				m.On("CreateCategory", mock.Anything, mock.Anything).Return(errors.New("db error")).Once()
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFixture(t)
			testCase.setupMock(f.catalog)

			w := f.do("POST", "/api/categories", staffToken, testCase.body)
			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestUploadFoodImage(t *testing.T) {
	f := newFixture(t)
	f.catalog.On("UploadItemImage", mock.Anything, int64(4), "pic.png", "image/png", mock.Anything).
		Return("/uploads/abc.png", nil).Once()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="image"; filename="pic.png"`}
	header["Content-Type"] = []string{"image/png"}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	part.Write([]byte("\x89PNG"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/foods/4/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+staffToken)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/uploads/abc.png", decode(t, w)["image"])
}

func TestPlaceOrder(t *testing.T) {
	far, near := 41.52, 41.39
	lng := 2.16

	t.Run("outside the delivery radius", func(t *testing.T) {
		f := newFixture(t)
		f.addresses.On("ValidateDistance", far, lng).
			Return(domain.DistanceCheck{DistanceKm: 14.8, MaxDistanceKm: 6}, nil).Once()

		body := `{"items":[{"itemId":1,"quantity":1}],"deliveryType":"delivery","paymentMethod":"card","branchId":1,
			"deliveryAddress":{"address":"Far away","latitude":41.52,"longitude":2.16}}`
		w := f.do("POST", "/api/orders", customerToken, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, domain.ErrOutOfDeliveryRange.Error(), decode(t, w)["message"])
		f.orders.AssertNotCalled(t, "Place", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inside the radius", func(t *testing.T) {
		f := newFixture(t)
		f.addresses.On("ValidateDistance", near, lng).
			Return(domain.DistanceCheck{DistanceKm: 0.3, MaxDistanceKm: 6, CanDeliver: true}, nil).Once()
		f.orders.On("Place", mock.Anything, customer, mock.AnythingOfType("domain.PlaceOrderRequest")).
			Return(&domain.Order{ID: 11, OrderNumber: "ORD-1", Total: 12.5}, nil).Once()

		body := `{"items":[{"itemId":1,"quantity":1}],"deliveryType":"delivery","paymentMethod":"card","branchId":1,
			"deliveryAddress":{"address":"Near","latitude":41.39,"longitude":2.16}}`
		w := f.do("POST", "/api/orders", customerToken, body)

		require.Equal(t, http.StatusCreated, w.Code)
		order := decode(t, w)["order"].(map[string]any)
		assert.Equal(t, "ORD-1", order["orderNumber"])
	})

	t.Run("pickup skips the radius check", func(t *testing.T) {
		f := newFixture(t)
		f.orders.On("Place", mock.Anything, customer, mock.Anything).
			Return(nil, domain.ErrInsufficientStock).Once()

		body := `{"items":[{"itemId":1,"quantity":9}],"deliveryType":"pickup","paymentMethod":"card","branchId":1}`
		w := f.do("POST", "/api/orders", customerToken, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListOrders(t *testing.T) {
	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, http.StatusBadRequest, f.do("GET", "/api/orders?status=lost", customerToken, "").Code)
	})

	t.Run("scoped to caller", func(t *testing.T) {
		f := newFixture(t)
		f.orders.On("List", mock.Anything, customer, domain.StatusPending, domain.Page{Page: 1, Limit: domain.DefaultPageLimit}).
			Return([]domain.Order{{ID: 1}}, 1, nil).Once()

		w := f.do("GET", "/api/orders?status=pending", customerToken, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), decode(t, w)["totalOrders"])
	})
}

func TestOrderQRCode(t *testing.T) {
	f := newFixture(t)
	png := []byte{0x89, 'P', 'N', 'G'}
	f.orders.On("QRCode", mock.Anything, customer, int64(5)).Return(png, nil).Once()

	w := f.do("GET", "/api/orders/5/qrcode", customerToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, png, w.Body.Bytes())
}

func TestOrderLifecycleErrors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(f *fixture)
		method   string
		path     string
		token    string
		body     string
		wantCode int
	}{
		{
			name: "invalid transition",
			setup: func(f *fixture) {
				f.orders.On("UpdateStatus", mock.Anything, manager, int64(3), domain.StatusPending, "").
					Return(nil, domain.ErrInvalidTransition).Once()
			},
			method: "PUT", path: "/api/orders/3/status", token: staffToken, body: `{"status":"pending"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "cancel someone else's order",
			setup: func(f *fixture) {
				f.orders.On("Cancel", mock.Anything, customer, int64(3), "changed my mind").
					Return(nil, domain.ErrForbidden).Once()
			},
			method: "PUT", path: "/api/orders/3/cancel", token: customerToken, body: `{"reason":"changed my mind"}`,
			wantCode: http.StatusForbidden,
		},
		{
			name: "rate twice",
			setup: func(f *fixture) {
				f.orders.On("Rate", mock.Anything, customer, int64(3), mock.AnythingOfType("domain.Rating")).
					Return(nil, domain.ErrAlreadyRated).Once()
			},
			method: "POST", path: "/api/orders/3/rate", token: customerToken, body: `{"overall":5}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFixture(t)
			testCase.setup(f)
			w := f.do(testCase.method, testCase.path, testCase.token, testCase.body)
			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestValidateCoupon(t *testing.T) {
	f := newFixture(t)
	f.offers.On("ValidateCoupon", mock.Anything, int64(7), "save10", []domain.OrderLineInput{{ItemID: 1, Quantity: 2}}, 2.99).
		Return(&domain.CouponCheck{Valid: false, CouponCode: "SAVE10", Reason: "offer has expired"}, nil).Once()

	w := f.do("POST", "/api/offers/validate", customerToken, `{"code":"save10","items":[{"itemId":1,"quantity":2}],"deliveryFee":2.99}`)
	require.Equal(t, http.StatusOK, w.Code)
	coupon := decode(t, w)["coupon"].(map[string]any)
	assert.Equal(t, false, coupon["valid"])
	assert.Equal(t, "offer has expired", coupon["reason"])
}

func TestValidateDistance(t *testing.T) {
	f := newFixture(t)
	f.addresses.On("ValidateDistance", 41.45, 2.16).
		Return(domain.DistanceCheck{DistanceKm: 7.2, MaxDistanceKm: 6}, nil).Once()

	w := f.do("POST", "/api/addresses/validate-distance", "", `{"latitude":41.45,"longitude":2.16}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["canDeliver"])
	assert.Equal(t, 7.2, body["distance"])

	missing := f.do("POST", "/api/addresses/validate-distance", "", `{"latitude":41.45}`)
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestLogin(t *testing.T) {
	t.Run("unverified account", func(t *testing.T) {
		f := newFixture(t)
		f.auth.On("Login", mock.Anything, "ana@example.com", "s3cretpass").Return(nil, domain.ErrNotVerified).Once()

		w := f.do("POST", "/api/auth/login", "", `{"email":"ana@example.com","password":"s3cretpass"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		f := newFixture(t)
		f.auth.On("Login", mock.Anything, "ana@example.com", "nope").Return(nil, domain.ErrInvalidCredentials).Once()

		w := f.do("POST", "/api/auth/login", "", `{"email":"ana@example.com","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
