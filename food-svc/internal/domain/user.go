package domain

import (
	"net/mail"
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

const MinPasswordLength = 8

type User struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	PasswordHash      string    `json:"-"`
	Role              Role      `json:"role"`
	IsVerified        bool      `json:"isVerified"`
	PreferredLanguage string    `json:"preferredLanguage"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID int64
	Role   Role
}

func (p Principal) IsStaff() bool {
	return p.Role == RoleAdmin || p.Role == RoleManager
}

func (p Principal) CanAccess(ownerID int64) bool {
	return p.UserID == ownerID || p.IsStaff()
}

type RegisterRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Password          string `json:"password"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *RegisterRequest) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(r.Name) == "" {
		v.Add("name", "is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		v.Add("email", "must be a valid email address")
	}
	if strings.TrimSpace(r.Phone) == "" {
		v.Add("phone", "is required")
	}
	if len(r.Password) < MinPasswordLength {
		v.Add("password", "must be at least 8 characters")
	}
	return v.Err()
}

type ProfileUpdate struct {
	Name              *string `json:"name,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	PreferredLanguage *string `json:"preferredLanguage,omitempty"`
}

func (p *ProfileUpdate) Apply(u *User) error {
	v := &ValidationError{}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			v.Add("name", "must not be empty")
		}
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		u.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.PreferredLanguage != nil {
		if !IsSupportedLanguage(*p.PreferredLanguage) {
			v.Add("preferredLanguage", ErrUnsupportedLanguage.Error())
		}
		u.PreferredLanguage = *p.PreferredLanguage
	}
	return v.Err()
}

type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
