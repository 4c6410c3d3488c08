package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gocollab/internal/auth/app"
	"gocollab/internal/auth/domain/entities"
	"gocollab/internal/auth/domain/services"
)

var (
	errDatabase     = errors.New("database connection error")
	errSigning      = errors.New("signing failed")
	errLimiterDown  = errors.New("limiter down")
	accessExpiresAt = time.Date(2025, time.March, 1, 10, 15, 0, 0, time.UTC)
	refreshExpires  = time.Date(2025, time.March, 8, 10, 0, 0, 0, time.UTC)
)

const (
	accountID = "9f1c2d3e-0000-4000-8000-000000000001"
	login     = "alice"
	email     = "alice@example.com"
	password  = "correcthorse"
	hash      = "$2a$04$hash"
)

func storedAccount() *entities.Account {
	return &entities.Account{ID: accountID, Login: login, Email: email, PasswordHash: hash}
}

type authMocks struct {
	repo    *mockAccountRepository
	pass    *mockPasswordService
	tokens  *mockTokenService
	limiter *mockLoginLimiter
}

func newAuthMocks() *authMocks {
	return &authMocks{
		repo:    new(mockAccountRepository),
		pass:    new(mockPasswordService),
		tokens:  new(mockTokenService),
		limiter: new(mockLoginLimiter),
	}
}

func (m *authMocks) assertExpectations(t *testing.T) {
	m.repo.AssertExpectations(t)
	m.pass.AssertExpectations(t)
	m.tokens.AssertExpectations(t)
	m.limiter.AssertExpectations(t)
}

func (m *authMocks) expectTokens() {
	m.tokens.On("GenerateAccessToken", mock.Anything, accountID, login).
		Return("access-1", accessExpiresAt, nil).Once()
	m.tokens.On("GenerateRefreshToken", mock.Anything, accountID).
		Return("refresh-1", refreshExpires, nil).Once()
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name        string
		credentials services.Credentials
		setup       func(m *authMocks)
		wantErr     error
	}{
		{
			name:        "success by login",
			credentials: services.Credentials{Login: login, Password: password},
			setup: func(m *authMocks) {
				m.repo.On("FindByLogin", mock.Anything, login, withHash).Return(storedAccount(), nil).Once()
				m.pass.On("Verify", mock.Anything, password, hash).Return(true).Once()
				m.expectTokens()
				m.repo.On("SaveRefreshToken", mock.Anything, accountID, "refresh-1").Return(nil).Once()
			},
		},
		{
			name:        "login takes precedence over email",
			credentials: services.Credentials{Login: login, Email: "other@example.com", Password: password},
			setup: func(m *authMocks) {
				m.repo.On("FindByLogin", mock.Anything, login, withHash).Return(storedAccount(), nil).Once()
				m.pass.On("Verify", mock.Anything, password, hash).Return(true).Once()
				m.expectTokens()
				m.repo.On("SaveRefreshToken", mock.Anything, accountID, "refresh-1").Return(nil).Once()
			},
		},
		{
			name:        "success by email",
			credentials: services.Credentials{Email: email, Password: password},
			setup: func(m *authMocks) {
				m.repo.On("FindByEmail", mock.Anything, email, withHash).Return(storedAccount(), nil).Once()
				m.pass.On("Verify", mock.Anything, password, hash).Return(true).Once()
				m.expectTokens()
				m.repo.On("SaveRefreshToken", mock.Anything, accountID, "refresh-1").Return(nil).Once()
			},
		},
		{
			name:        "missing identifier",
			credentials: services.Credentials{Password: password},
			setup:       func(*authMocks) {},
			wantErr:     services.ErrBadRequest,
		},
		{
			name:        "missing password",
			credentials: services.Credentials{Login: login},
			setup:       func(*authMocks) {},
			wantErr:     services.ErrBadRequest,
		},
		{
			name:        "unknown account",
			credentials: services.Credentials{Login: "bob", Password: password},
			setup: func(m *authMocks) {
				m.repo.On("FindByLogin", mock.Anything, "bob", withHash).
					Return(nil, entities.ErrAccountNotFound).Once()
				m.pass.On("Hash", mock.Anything, mock.AnythingOfType("string")).Return("dummy-hash", nil).Once()
				m.pass.On("Verify", mock.Anything, password, "dummy-hash").Return(false).Once()
			},
			wantErr: entities.ErrAccountNotFound,
		},
		{
			name:        "wrong password",
			credentials: services.Credentials{Login: login, Password: "wrong-password"},
			setup: func(m *authMocks) {
				m.repo.On("FindByLogin", mock.Anything, login, withHash).Return(storedAccount(), nil).Once()
				m.pass.On("Verify", mock.Anything, "wrong-password", hash).Return(false).Once()
			},
			wantErr: services.ErrCredentialMismatch,
		},
		{
			name:        "store failure on lookup",
			credentials: services.Credentials{Login: login, Password: password},
			setup: func(m *authMocks) {
				m.repo.On("FindByLogin", mock.Anything, login, withHash).
					Return(nil, errors.Join(entities.ErrStoreFailure, errDatabase)).Once()
			},
			wantErr: entities.ErrStoreFailure,
		},
		{
			name:        "access token generation fails",
			credentials: services.Credentials{Login: login, Password: password},
			setup: func(m *authMocks) {
				m.repo.On("FindByLogin", mock.Anything, login, withHash).Return(storedAccount(), nil).Once()
				m.pass.On("Verify", mock.Anything, password, hash).Return(true).Once()
				m.tokens.On("GenerateAccessToken", mock.Anything, accountID, login).
					Return("", time.Time{}, errSigning).Once()
			},
			wantErr: services.ErrTokenGenerationFailed,
		},
		{
			name:        "refresh token is not stored when its generation fails",
			credentials: services.Credentials{Login: login, Password: password},
			setup: func(m *authMocks) {
				m.repo.On("FindByLogin", mock.Anything, login, withHash).Return(storedAccount(), nil).Once()
				m.pass.On("Verify", mock.Anything, password, hash).Return(true).Once()
				m.tokens.On("GenerateAccessToken", mock.Anything, accountID, login).
					Return("access-1", accessExpiresAt, nil).Once()
				m.tokens.On("GenerateRefreshToken", mock.Anything, accountID).
					Return("", time.Time{}, errSigning).Once()
			},
			wantErr: services.ErrTokenGenerationFailed,
		},
		{
			name:        "store failure on save",
			credentials: services.Credentials{Login: login, Password: password},
			setup: func(m *authMocks) {
				m.repo.On("FindByLogin", mock.Anything, login, withHash).Return(storedAccount(), nil).Once()
				m.pass.On("Verify", mock.Anything, password, hash).Return(true).Once()
				m.expectTokens()
				m.repo.On("SaveRefreshToken", mock.Anything, accountID, "refresh-1").
					Return(entities.ErrStoreFailure).Once()
			},
			wantErr: entities.ErrStoreFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newAuthMocks()
			tt.setup(m)
			uc := app.NewAuthUseCase(m.repo, m.pass, m.tokens)

			pair, err := uc.Login(context.Background(), tt.credentials)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, pair)
			} else {
				require.NoError(t, err)
				assert.Equal(t, &services.TokenPair{
					AccountID:             accountID,
					AccessToken:           "access-1",
					AccessTokenExpiresAt:  accessExpiresAt,
					RefreshToken:          "refresh-1",
					RefreshTokenExpiresAt: refreshExpires,
				}, pair)
			}
			m.assertExpectations(t)
		})
	}
}

func TestLoginWithLimiter(t *testing.T) {
	key := "account:" + accountID

	t.Run("throttled login never checks the password", func(t *testing.T) {
		m := newAuthMocks()
		m.repo.On("FindByLogin", mock.Anything, login, withoutHash).Return(storedAccount(), nil).Once()
		m.limiter.On("Allow", mock.Anything, key).Return(services.ErrTooManyAttempts).Once()
		uc := app.NewAuthUseCase(m.repo, m.pass, m.tokens, app.WithLoginLimiter(m.limiter))

		_, err := uc.Login(context.Background(), services.Credentials{Login: login, Password: password})

		require.ErrorIs(t, err, services.ErrTooManyAttempts)
		m.assertExpectations(t)
	})

	t.Run("failure is registered on wrong password", func(t *testing.T) {
		m := newAuthMocks()
		m.repo.On("FindByLogin", mock.Anything, login, withoutHash).Return(storedAccount(), nil).Once()
		m.limiter.On("Allow", mock.Anything, key).Return(nil).Once()
		m.repo.On("FindByLogin", mock.Anything, login, withHash).Return(storedAccount(), nil).Once()
		m.pass.On("Verify", mock.Anything, "nope-nope", hash).Return(false).Once()
		m.limiter.On("RegisterFailure", mock.Anything, key).Return(nil).Once()
		uc := app.NewAuthUseCase(m.repo, m.pass, m.tokens, app.WithLoginLimiter(m.limiter))

		_, err := uc.Login(context.Background(), services.Credentials{Login: login, Password: "nope-nope"})

		require.ErrorIs(t, err, services.ErrCredentialMismatch)
		m.assertExpectations(t)
	})

	t.Run("login and email share one counter", func(t *testing.T) {
		m := newAuthMocks()
		m.repo.On("FindByLogin", mock.Anything, login, withoutHash).Return(storedAccount(), nil).Once()
		m.repo.On("FindByLogin", mock.Anything, login, withHash).Return(storedAccount(), nil).Once()
		m.repo.On("FindByEmail", mock.Anything, email, withoutHash).Return(storedAccount(), nil).Once()
		m.repo.On("FindByEmail", mock.Anything, email, withHash).Return(storedAccount(), nil).Once()
		m.pass.On("Verify", mock.Anything, "nope-nope", hash).Return(false).Twice()
		m.limiter.On("Allow", mock.Anything, key).Return(nil).Twice()
		m.limiter.On("RegisterFailure", mock.Anything, key).Return(nil).Twice()
		uc := app.NewAuthUseCase(m.repo, m.pass, m.tokens, app.WithLoginLimiter(m.limiter))

		_, err := uc.Login(context.Background(), services.Credentials{Login: login, Password: "nope-nope"})
		require.ErrorIs(t, err, services.ErrCredentialMismatch)
		_, err = uc.Login(context.Background(), services.Credentials{Email: email, Password: "nope-nope"})
		require.ErrorIs(t, err, services.ErrCredentialMismatch)

		m.assertExpectations(t)
	})

	t.Run("unknown account is counted by identifier", func(t *testing.T) {
		m := newAuthMocks()
		m.repo.On("FindByLogin", mock.Anything, "ghost", withoutHash).Return(nil, entities.ErrAccountNotFound).Once()
		m.limiter.On("Allow", mock.Anything, "login:ghost").Return(nil).Once()
		m.repo.On("FindByLogin", mock.Anything, "ghost", withHash).Return(nil, entities.ErrAccountNotFound).Once()
		m.pass.On("Hash", mock.Anything, mock.Anything).Return(hash, nil).Maybe()
		m.pass.On("Verify", mock.Anything, password, hash).Return(false).Maybe()
		m.limiter.On("RegisterFailure", mock.Anything, "login:ghost").Return(nil).Once()
		uc := app.NewAuthUseCase(m.repo, m.pass, m.tokens, app.WithLoginLimiter(m.limiter))

		_, err := uc.Login(context.Background(), services.Credentials{Login: "ghost", Password: password})

		require.ErrorIs(t, err, entities.ErrAccountNotFound)
		m.assertExpectations(t)
	})

	t.Run("success resets counter", func(t *testing.T) {
		m := newAuthMocks()
		m.repo.On("FindByLogin", mock.Anything, login, withoutHash).Return(storedAccount(), nil).Once()
		m.limiter.On("Allow", mock.Anything, key).Return(nil).Once()
		m.repo.On("FindByLogin", mock.Anything, login, withHash).Return(storedAccount(), nil).Once()
		m.pass.On("Verify", mock.Anything, password, hash).Return(true).Once()
		m.limiter.On("Reset", mock.Anything, key).Return(nil).Once()
		m.expectTokens()
		m.repo.On("SaveRefreshToken", mock.Anything, accountID, "refresh-1").Return(nil).Once()
		uc := app.NewAuthUseCase(m.repo, m.pass, m.tokens, app.WithLoginLimiter(m.limiter))

		_, err := uc.Login(context.Background(), services.Credentials{Login: login, Password: password})

		require.NoError(t, err)
		m.assertExpectations(t)
	})

	t.Run("limiter outage fails open", func(t *testing.T) {
		m := newAuthMocks()
		m.repo.On("FindByLogin", mock.Anything, login, withoutHash).Return(storedAccount(), nil).Once()
		m.limiter.On("Allow", mock.Anything, key).Return(errLimiterDown).Once()
		m.repo.On("FindByLogin", mock.Anything, login, withHash).Return(storedAccount(), nil).Once()
		m.pass.On("Verify", mock.Anything, password, hash).Return(true).Once()
		m.limiter.On("Reset", mock.Anything, key).Return(errLimiterDown).Once()
		m.expectTokens()
		m.repo.On("SaveRefreshToken", mock.Anything, accountID, "refresh-1").Return(nil).Once()
		uc := app.NewAuthUseCase(m.repo, m.pass, m.tokens, app.WithLoginLimiter(m.limiter))

		pair, err := uc.Login(context.Background(), services.Credentials{Login: login, Password: password})

		require.NoError(t, err)
		assert.Equal(t, "refresh-1", pair.RefreshToken)
		m.assertExpectations(t)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	refreshClaims := &services.TokenClaims{AccountID: accountID}

	tests := []struct {
		name    string
		token   string
		setup   func(m *authMocks)
		wantErr error
	}{
		{
			name:  "success",
			token: "refresh-1",
			setup: func(m *authMocks) {
				m.tokens.On("ValidateRefreshToken", mock.Anything, "refresh-1").Return(refreshClaims, nil).Once()
				m.repo.On("FindByRefreshToken", mock.Anything, "refresh-1").Return(storedAccount(), nil).Once()
				m.tokens.On("GenerateAccessToken", mock.Anything, accountID, login).
					Return("access-2", accessExpiresAt, nil).Once()
			},
		},
		{
			name:    "empty token",
			token:   "",
			setup:   func(*authMocks) {},
			wantErr: services.ErrAccessDenied,
		},
		{
			name:  "undecodable token",
			token: "garbage",
			setup: func(m *authMocks) {
				m.tokens.On("ValidateRefreshToken", mock.Anything, "garbage").
					Return(nil, services.ErrTokenInvalid).Once()
			},
			wantErr: services.ErrAccessDenied,
		},
		{
			name:  "token no longer stored",
			token: "refresh-old",
			setup: func(m *authMocks) {
				m.tokens.On("ValidateRefreshToken", mock.Anything, "refresh-old").Return(refreshClaims, nil).Once()
				m.repo.On("FindByRefreshToken", mock.Anything, "refresh-old").
					Return(nil, entities.ErrAccountNotFound).Once()
			},
			wantErr: services.ErrAccessDenied,
		},
		{
			name:  "subject mismatch",
			token: "refresh-1",
			setup: func(m *authMocks) {
				m.tokens.On("ValidateRefreshToken", mock.Anything, "refresh-1").
					Return(&services.TokenClaims{AccountID: "someone-else"}, nil).Once()
				m.repo.On("FindByRefreshToken", mock.Anything, "refresh-1").Return(storedAccount(), nil).Once()
			},
			wantErr: services.ErrAccessDenied,
		},
		{
			name:  "store failure",
			token: "refresh-1",
			setup: func(m *authMocks) {
				m.tokens.On("ValidateRefreshToken", mock.Anything, "refresh-1").Return(refreshClaims, nil).Once()
				m.repo.On("FindByRefreshToken", mock.Anything, "refresh-1").
					Return(nil, entities.ErrStoreFailure).Once()
			},
			wantErr: entities.ErrStoreFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newAuthMocks()
			tt.setup(m)
			uc := app.NewAuthUseCase(m.repo, m.pass, m.tokens)

			token, err := uc.RefreshAccessToken(context.Background(), tt.token)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, &services.AccessToken{Token: "access-2", ExpiresAt: accessExpiresAt}, token)
			}
			m.assertExpectations(t)
		})
	}
}

func TestVerify(t *testing.T) {
	claims := &services.TokenClaims{AccountID: accountID, Login: login}

	tests := []struct {
		name    string
		token   string
		setup   func(m *authMocks)
		want    *services.TokenClaims
		wantErr error
	}{
		{
			name:  "valid token",
			token: "access-1",
			setup: func(m *authMocks) {
				m.tokens.On("ValidateAccessToken", mock.Anything, "access-1").Return(claims, nil).Once()
			},
			want: claims,
		},
		{
			name:    "empty token is access denied",
			token:   "",
			setup:   func(*authMocks) {},
			wantErr: services.ErrAccessDenied,
		},
		{
			name:  "expired token",
			token: "access-old",
			setup: func(m *authMocks) {
				m.tokens.On("ValidateAccessToken", mock.Anything, "access-old").
					Return(nil, services.ErrTokenExpired).Once()
			},
			wantErr: services.ErrTokenExpired,
		},
		{
			name:  "invalid token",
			token: "garbage",
			setup: func(m *authMocks) {
				m.tokens.On("ValidateAccessToken", mock.Anything, "garbage").
					Return(nil, services.ErrTokenInvalid).Once()
			},
			wantErr: services.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newAuthMocks()
			tt.setup(m)
			uc := app.NewAuthUseCase(m.repo, m.pass, m.tokens)

			got, err := uc.Verify(context.Background(), tt.token)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			m.assertExpectations(t)
		})
	}
}

func TestLogout(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		setup   func(m *authMocks)
		wantErr error
	}{
		{
			name:  "success",
			token: "refresh-1",
			setup: func(m *authMocks) {
				m.repo.On("RevokeRefreshToken", mock.Anything, "refresh-1").Return(nil).Once()
			},
		},
		{
			name:    "empty token",
			token:   "",
			setup:   func(*authMocks) {},
			wantErr: services.ErrAccessDenied,
		},
		{
			name:  "unknown token",
			token: "refresh-x",
			setup: func(m *authMocks) {
				m.repo.On("RevokeRefreshToken", mock.Anything, "refresh-x").Return(entities.ErrAccountNotFound).Once()
			},
			wantErr: services.ErrAccessDenied,
		},
		{
			name:  "store failure",
			token: "refresh-1",
			setup: func(m *authMocks) {
				m.repo.On("RevokeRefreshToken", mock.Anything, "refresh-1").Return(entities.ErrStoreFailure).Once()
			},
			wantErr: entities.ErrStoreFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newAuthMocks()
			tt.setup(m)
			uc := app.NewAuthUseCase(m.repo, m.pass, m.tokens)

			err := uc.Logout(context.Background(), tt.token)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			m.assertExpectations(t)
		})
	}
}
