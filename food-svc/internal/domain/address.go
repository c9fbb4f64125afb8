package domain

import (
	"strings"
	"time"
)

type AddressType string

const (
	AddressHome  AddressType = "home"
	AddressWork  AddressType = "work"
	AddressOther AddressType = "other"
)

type Address struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"userId"`
	Type         AddressType `json:"type"`
	Label        string      `json:"label,omitempty"`
	Address      string      `json:"address"`
	Apartment    string      `json:"apartment,omitempty"`
	Instructions string      `json:"instructions,omitempty"`
	Latitude     float64     `json:"latitude"`
	Longitude    float64     `json:"longitude"`
	IsDefault    bool        `json:"isDefault"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (a *Address) Validate() error {
	v := &ValidationError{}
	switch a.Type {
	case AddressHome, AddressWork, AddressOther:
	case "":
		a.Type = AddressHome
	default:
		v.Add("type", "must be home, work or other")
	}
	if strings.TrimSpace(a.Address) == "" {
		v.Add("address", "is required")
	}
	if len(a.Instructions) > 500 {
		v.Add("instructions", "must be at most 500 characters")
	}
	if err := ValidateCoordinates(a.Latitude, a.Longitude); err != nil {
		v.Add("coordinates", err.Error())
	}
	return v.Err()
}

func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

type DistanceCheck struct {
	DistanceKm    float64 `json:"distance"`
	MaxDistanceKm float64 `json:"maxDistance"`
	CanDeliver    bool    `json:"canDeliver"`
}

type PlaceSuggestion struct {
	DisplayName string  `json:"displayName"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}
