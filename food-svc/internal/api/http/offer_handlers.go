package httpapi

import (
	"net/http"

	"foodhub/food-svc/internal/domain"
)

type couponRequest struct {
	Code        string                  `json:"code"`
	Items       []domain.OrderLineInput `json:"items"`
	DeliveryFee float64                 `json:"deliveryFee"`
}

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	offers, total, err := h.Offers.ListActive(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", listPayload("offers", offers, len(offers), total, page))
}

func (h *Handler) createOffer(w http.ResponseWriter, r *http.Request) {
	var o domain.Offer
	if err := decodeJSON(w, r, &o); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Offers.Create(r.Context(), &o); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Offer created", envelope{"offer": o})
}

func (h *Handler) updateOffer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var o domain.Offer
	if err := decodeJSON(w, r, &o); err != nil {
		h.writeError(w, r, err)
		return
	}
	o.ID = id
	if err := h.Offers.Update(r.Context(), &o); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Offer updated", envelope{"offer": o})
}

func (h *Handler) deleteOffer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Offers.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Offer deleted", nil)
}

// validateCoupon always answers 200 for a well-formed request; an
// unusable coupon comes back with valid=false and a reason.
func (h *Handler) validateCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	check, err := h.Offers.ValidateCoupon(r.Context(), principal(r).UserID, req.Code, req.Items, req.DeliveryFee)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", envelope{"coupon": check})
}

func (h *Handler) offerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Offers.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", envelope{"count": len(stats), "offers": stats})
}
