package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"foodhub/food-svc/internal/domain"
	"foodhub/logger"

	"golang.org/x/crypto/bcrypt"
)

const (
	PurposeVerify = "verify"
	PurposeReset  = "reset"
)

type AuthService struct {
	users      UserRepository
	otps       OTPStore
	tokens     TokenIssuer
	mailer     Mailer
	log        *logger.Logger
	bcryptCost int
	newOTP     func() (string, error)
}

func NewAuthService(users UserRepository, otps OTPStore, tokens TokenIssuer, mailer Mailer, bcryptCost int, log *logger.Logger) *AuthService {
	return &AuthService{
		users:      users,
		otps:       otps,
		tokens:     tokens,
		mailer:     mailer,
		log:        log,
		bcryptCost: bcryptCost,
		newOTP:     generateOTP,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Register stores an unverified account and mails a verification code.
// A failed email does not fail the registration.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(req.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		Name:              req.Name,
		Email:             email,
		Phone:             req.Phone,
		PasswordHash:      string(hash),
		Role:              domain.RoleCustomer,
		PreferredLanguage: domain.NormalizeLanguage(req.PreferredLanguage),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.issueOTP(ctx, u, PurposeVerify)
	s.log.Ctx(ctx).Action("register").Info("user registered", "user_id", u.ID)
	return u, nil
}

func (s *AuthService) issueOTP(ctx context.Context, u *domain.User, purpose string) {
	lg := s.log.Ctx(ctx).Action("issue otp").With("user_id", u.ID, "purpose", purpose)
	code, err := s.newOTP()
	if err != nil {
		lg.Error("failed to generate code", err)
		return
	}
	if err := s.otps.Save(ctx, purpose, u.Email, code); err != nil {
		lg.Error("failed to store code", err)
		return
	}
	if err := s.mailer.SendOTP(u.Email, u.Name, code, purpose); err != nil {
		lg.Error("failed to send code", err)
	}
}

func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidOTP
	}
	if err != nil {
		return nil, err
	}
	ok, err := s.otps.Verify(ctx, PurposeVerify, u.Email, code)
	if err != nil {
		return nil, fmt.Errorf("verify code: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidOTP
	}
	if !u.IsVerified {
		if err := s.users.MarkVerified(ctx, u.ID); err != nil {
			return nil, fmt.Errorf("mark verified: %w", err)
		}
		u.IsVerified = true
	}
	return s.authResult(u)
}

func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if u.IsVerified {
		return domain.ErrAlreadyVerified
	}
	s.issueOTP(ctx, u, PurposeVerify)
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !u.IsVerified {
		return nil, domain.ErrNotVerified
	}
	return s.authResult(u)
}

func (s *AuthService) authResult(u *domain.User) (*domain.AuthResult, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.AuthResult{Token: token, User: u}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := upd.Apply(u); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if len(next) < domain.MinPasswordLength {
		return domain.NewValidationError("newPassword", "must be at least 8 characters")
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return domain.NewValidationError("currentPassword", "is incorrect")
	}
	return s.setPassword(ctx, userID, next)
}

// ForgotPassword never reveals whether the email exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Ctx(ctx).Action("forgot password").Info("reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	s.issueOTP(ctx, u, PurposeReset)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, next string) error {
	if len(next) < domain.MinPasswordLength {
		return domain.NewValidationError("newPassword", "must be at least 8 characters")
	}
	u, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidOTP
	}
	if err != nil {
		return err
	}
	ok, err := s.otps.Verify(ctx, PurposeReset, u.Email, code)
	if err != nil {
		return fmt.Errorf("verify code: %w", err)
	}
	if !ok {
		return domain.ErrInvalidOTP
	}
	return s.setPassword(ctx, u.ID, next)
}

func (s *AuthService) setPassword(ctx context.Context, userID int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}

func (s *AuthService) Authenticate(token string) (*domain.Principal, error) {
	p, err := s.tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return p, nil
}
