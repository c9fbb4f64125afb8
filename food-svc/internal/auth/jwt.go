package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"foodhub/food-svc/internal/domain"
	"foodhub/food-svc/internal/service"

	"github.com/golang-jwt/jwt/v5"
)

var _ service.TokenIssuer = (*JWTIssuer)(nil)

type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 session tokens whose subject is the user id.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *JWTIssuer) Issue(u *domain.User) (string, error) {
	now := i.now()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *JWTIssuer) Parse(token string) (*domain.Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.New("parse token: invalid subject")
	}
	switch claims.Role {
	case domain.RoleCustomer, domain.RoleManager, domain.RoleAdmin:
	default:
		return nil, fmt.Errorf("parse token: unknown role %q", claims.Role)
	}
	return &domain.Principal{UserID: id, Role: claims.Role}, nil
}
