package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"foodhub/food-svc/internal/domain"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeOK merges payload into the success envelope.
func writeOK(w http.ResponseWriter, status int, message string, payload envelope) {
	body := envelope{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, status, body)
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

var badRequestErrors = []error{
	domain.ErrItemUnavailable,
	domain.ErrInsufficientStock,
	domain.ErrInvalidTransition,
	domain.ErrNotCancellable,
	domain.ErrAlreadyRated,
	domain.ErrNotRateable,
	domain.ErrEmailTaken,
	domain.ErrInvalidOTP,
	domain.ErrAlreadyVerified,
	domain.ErrOfferNotApplicable,
	domain.ErrTotalMismatch,
	domain.ErrOutOfDeliveryRange,
	domain.ErrInvalidCoordinates,
	domain.ErrUnsupportedLanguage,
	domain.ErrDefaultAddressTaken,
}

// writeError maps domain errors to status codes. Anything unknown is logged
// and answered with a generic 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, envelope{
			"success": false,
			"message": "validation failed",
			"errors":  verr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeFail(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		writeFail(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrNotVerified):
		writeFail(w, http.StatusForbidden, err.Error())
		return
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	h.Log.Ctx(r.Context()).Action(r.Method+" "+r.URL.Path).Error("request failed", err)
	writeFail(w, http.StatusInternalServerError, "internal server error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

// pageFromQuery reads ?page and ?limit; page must be >= 1 and limit 1-50.
func pageFromQuery(r *http.Request) (domain.Page, error) {
	q := r.URL.Query()
	v := &domain.ValidationError{}
	page, limit := 1, domain.DefaultPageLimit
	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			v.Add("page", "must be an integer >= 1")
		}
		page = n
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > domain.MaxPageLimit {
			v.Add("limit", fmt.Sprintf("must be an integer between 1 and %d", domain.MaxPageLimit))
		}
		limit = n
	}
	if err := v.Err(); err != nil {
		return domain.Page{}, err
	}
	return domain.NewPage(page, limit, domain.DefaultPageLimit), nil
}

// listPayload renders {count, total<Things>, totalPages, currentPage, <things>}.
func listPayload(name string, items any, count, total int, page domain.Page) envelope {
	body := envelope{
		"count":       count,
		"totalPages":  page.TotalPages(total),
		"currentPage": page.Page,
		name:          items,
	}
	body["total"+strings.ToUpper(name[:1])+name[1:]] = total
	return body
}

// language picks ?lang, then Accept-Language, then the default.
func language(r *http.Request) string {
	if l := r.URL.Query().Get("lang"); l != "" {
		return domain.NormalizeLanguage(l)
	}
	if l := r.Header.Get("Accept-Language"); l != "" {
		return domain.NormalizeLanguage(strings.Split(l, ",")[0])
	}
	return domain.DefaultLanguage
}

func queryBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}
