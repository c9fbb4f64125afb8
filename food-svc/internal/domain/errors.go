package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrItemUnavailable     = errors.New("item unavailable")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNotCancellable      = errors.New("order cannot be cancelled in its current status")
	ErrAlreadyRated        = errors.New("order already rated")
	ErrNotRateable         = errors.New("only delivered orders can be rated")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidOTP          = errors.New("invalid or expired code")
	ErrNotVerified         = errors.New("account not verified")
	ErrOfferNotApplicable  = errors.New("offer not applicable")
	ErrTotalMismatch       = errors.New("order total does not match")
	ErrOutOfDeliveryRange  = errors.New("address is outside the delivery area")
	ErrAlreadyVerified     = errors.New("account already verified")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrDefaultAddressTaken = errors.New("another address became the default at the same time")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field-level problems found in one request.
type ValidationError struct {
	Fields []FieldError
}

func (v *ValidationError) Error() string {
	msgs := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v *ValidationError) Add(field, message string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: message})
}

// Err returns nil when nothing was added.
func (v *ValidationError) Err() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}

func NewValidationError(field, message string) error {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}
