package httpapi

import (
	"net/http"

	"foodhub/food-svc/internal/domain"
)

type coordinatesRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.Addresses.List(r.Context(), principal(r).UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", envelope{"count": len(addresses), "addresses": addresses})
}

func (h *Handler) createAddress(w http.ResponseWriter, r *http.Request) {
	var a domain.Address
	if err := decodeJSON(w, r, &a); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Addresses.Create(r.Context(), principal(r).UserID, &a); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Address saved", envelope{"address": a})
}

func (h *Handler) updateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var a domain.Address
	if err := decodeJSON(w, r, &a); err != nil {
		h.writeError(w, r, err)
		return
	}
	a.ID = id
	if err := h.Addresses.Update(r.Context(), principal(r).UserID, &a); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Address updated", envelope{"address": a})
}

func (h *Handler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Addresses.Delete(r.Context(), principal(r).UserID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Address deleted", nil)
}

func (h *Handler) setDefaultAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Addresses.SetDefault(r.Context(), principal(r).UserID, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Default address updated", nil)
}

func (h *Handler) validateDistance(w http.ResponseWriter, r *http.Request) {
	var req coordinatesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		h.writeError(w, r, domain.NewValidationError("coordinates", "latitude and longitude are required"))
		return
	}
	check, err := h.Addresses.ValidateDistance(*req.Latitude, *req.Longitude)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", envelope{
		"canDeliver":    check.CanDeliver,
		"distance":      check.DistanceKm,
		"maxDistance":   check.MaxDistanceKm,
	})
}

func (h *Handler) autocomplete(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.Addresses.Autocomplete(r.Context(), r.URL.Query().Get("q"), language(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", envelope{"count": len(suggestions), "suggestions": suggestions})
}
