package service

import (
	"context"
	"errors"
	"testing"

	"foodhub/food-svc/internal/domain"
	"foodhub/food-svc/internal/mocks"
	"foodhub/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	users  *mocks.UserRepository
	otps   *mocks.OTPStore
	tokens *mocks.TokenIssuer
	mailer *mocks.Mailer
	svc    *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	f := &authFixture{
		users:  mocks.NewUserRepository(t),
		otps:   mocks.NewOTPStore(t),
		tokens: mocks.NewTokenIssuer(t),
		mailer: mocks.NewMailer(t),
	}
	f.svc = NewAuthService(f.users, f.otps, f.tokens, f.mailer, bcrypt.MinCost, logger.Discard())
	f.svc.newOTP = func() (string, error) { return "123456", nil }
	return f
}

func hashed(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	req := domain.RegisterRequest{Name: "Ana", Email: " Ana@Example.com ", Phone: "+34600000000", Password: "s3cretpass"}

	t.Run("email failure does not fail registration", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, domain.ErrNotFound).Once()
		f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "ana@example.com" && !u.IsVerified && u.Role == domain.RoleCustomer &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cretpass")) == nil
		})).Return(nil).Once()
		f.otps.On("Save", mock.Anything, PurposeVerify, "ana@example.com", "123456").Return(nil).Once()
		f.mailer.On("SendOTP", "ana@example.com", "Ana", "123456", PurposeVerify).Return(errors.New("smtp down")).Once()

		u, err := f.svc.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultLanguage, u.PreferredLanguage)
	})

	t.Run("email taken", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(&domain.User{ID: 1}, nil).Once()

		_, err := f.svc.Register(ctx, req)
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("short password", func(t *testing.T) {
		f := newAuthFixture(t)
		bad := req
		bad.Password = "short"
		_, err := f.svc.Register(ctx, bad)
		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr))
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	verified := &domain.User{ID: 1, Email: "ana@example.com", IsVerified: true, PasswordHash: hashed(t, "s3cretpass")}
	unverified := &domain.User{ID: 2, Email: "bo@example.com", PasswordHash: hashed(t, "s3cretpass")}

	tests := []struct {
		name          string
		email         string
		password      string
		prepareMocks  func(f *authFixture)
		expectedError error
	}{
		{
			name:     "success",
			email:    "ana@example.com",
			password: "s3cretpass",
			prepareMocks: func(f *authFixture) {
				f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(verified, nil).Once()
				f.tokens.On("Issue", verified).Return("tok", nil).Once()
			},
		},
		{
			name:     "wrong password",
			email:    "ana@example.com",
			password: "nope-nope",
			prepareMocks: func(f *authFixture) {
				f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(verified, nil).Once()
			},
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "x@example.com",
			password: "s3cretpass",
			prepareMocks: func(f *authFixture) {
				f.users.On("GetByEmail", mock.Anything, "x@example.com").Return(nil, domain.ErrNotFound).Once()
			},
			expectedError: domain.ErrInvalidCredentials,
		},
		{
			name:     "not verified",
			email:    "bo@example.com",
			password: "s3cretpass",
			prepareMocks: func(f *authFixture) {
				f.users.On("GetByEmail", mock.Anything, "bo@example.com").Return(unverified, nil).Once()
			},
			expectedError: domain.ErrNotVerified,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newAuthFixture(t)
			testCase.prepareMocks(f)
			res, err := f.svc.Login(ctx, testCase.email, testCase.password)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "tok", res.Token)
		})
	}
}

func TestAuthService_VerifyOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the account verified", func(t *testing.T) {
		f := newAuthFixture(t)
		u := &domain.User{ID: 3, Email: "ana@example.com"}
		f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(u, nil).Once()
		f.otps.On("Verify", mock.Anything, PurposeVerify, "ana@example.com", "123456").Return(true, nil).Once()
		f.users.On("MarkVerified", mock.Anything, int64(3)).Return(nil).Once()
		f.tokens.On("Issue", u).Return("tok", nil).Once()

		res, err := f.svc.VerifyOTP(ctx, "ana@example.com", "123456")
		require.NoError(t, err)
		assert.True(t, res.User.IsVerified)
	})

	t.Run("wrong code", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(&domain.User{ID: 3, Email: "ana@example.com"}, nil).Once()
		f.otps.On("Verify", mock.Anything, PurposeVerify, "ana@example.com", "000000").Return(false, nil).Once()

		_, err := f.svc.VerifyOTP(ctx, "ana@example.com", "000000")
		assert.ErrorIs(t, err, domain.ErrInvalidOTP)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.users.On("GetByEmail", mock.Anything, "ana@example.com").Return(&domain.User{ID: 3, Email: "ana@example.com"}, nil).Once()
	f.otps.On("Verify", mock.Anything, PurposeReset, "ana@example.com", "123456").Return(true, nil).Once()
	f.users.On("UpdatePassword", mock.Anything, int64(3), mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("brand-new-pass")) == nil
	})).Return(nil).Once()

	require.NoError(t, f.svc.ResetPassword(ctx, "ana@example.com", "123456", "brand-new-pass"))
}

func TestAuthService_ForgotPasswordUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound).Once()

	assert.NoError(t, f.svc.ForgotPassword(context.Background(), "ghost@example.com"))
}
