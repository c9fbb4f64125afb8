package httpapi

import (
	"net/http"

	"foodhub/food-svc/internal/domain"
)

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
	Note   string             `json:"note"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.PlaceOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	// Delivery coordinates, when sent, must fall inside the shop radius.
	if req.DeliveryType == domain.DeliveryTypeDelivery && req.DeliveryAddress != nil &&
		req.DeliveryAddress.Latitude != nil && req.DeliveryAddress.Longitude != nil {
		check, err := h.Addresses.ValidateDistance(*req.DeliveryAddress.Latitude, *req.DeliveryAddress.Longitude)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if !check.CanDeliver {
			h.writeError(w, r, domain.ErrOutOfDeliveryRange)
			return
		}
	}

	order, err := h.Orders.Place(r.Context(), principal(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Order placed", envelope{"order": order})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := domain.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		h.writeError(w, r, domain.NewValidationError("status", "unknown order status"))
		return
	}
	orders, total, err := h.Orders.List(r.Context(), principal(r), status, page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", listPayload("orders", orders, len(orders), total, page))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	order, err := h.Orders.Get(r.Context(), principal(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", envelope{"order": order})
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	order, err := h.Orders.UpdateStatus(r.Context(), principal(r), id, req.Status, req.Note)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Order status updated", envelope{"order": order})
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req cancelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	order, err := h.Orders.Cancel(r.Context(), principal(r), id, req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Order cancelled", envelope{"order": order})
}

func (h *Handler) rateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var rating domain.Rating
	if err := decodeJSON(w, r, &rating); err != nil {
		h.writeError(w, r, err)
		return
	}
	order, err := h.Orders.Rate(r.Context(), principal(r), id, rating)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Thank you for your rating", envelope{"order": order})
}

func (h *Handler) orderQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	png, err := h.Orders.QRCode(r.Context(), principal(r), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) orderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Orders.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", envelope{"stats": stats})
}
