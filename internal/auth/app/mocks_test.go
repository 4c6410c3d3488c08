package app_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"gocollab/internal/auth/domain/entities"
	"gocollab/internal/auth/domain/services"
	"gocollab/internal/auth/ports/repositories"
)

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) Create(ctx context.Context, account *entities.Account) (*entities.Account, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAccountRepository) FindByID(
	ctx context.Context,
	id string,
	opts ...repositories.FindOption,
) (*entities.Account, error) {
	return m.find(m.Called(ctx, id, repositories.ApplyFindOptions(opts...)))
}

func (m *mockAccountRepository) FindByLogin(
	ctx context.Context,
	login string,
	opts ...repositories.FindOption,
) (*entities.Account, error) {
	return m.find(m.Called(ctx, login, repositories.ApplyFindOptions(opts...)))
}

func (m *mockAccountRepository) FindByEmail(
	ctx context.Context,
	email string,
	opts ...repositories.FindOption,
) (*entities.Account, error) {
	return m.find(m.Called(ctx, email, repositories.ApplyFindOptions(opts...)))
}

func (m *mockAccountRepository) FindByRefreshToken(ctx context.Context, token string) (*entities.Account, error) {
	return m.find(m.Called(ctx, token))
}

func (m *mockAccountRepository) SaveRefreshToken(ctx context.Context, accountID, token string) error {
	return m.Called(ctx, accountID, token).Error(0)
}

func (m *mockAccountRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAccountRepository) find(args mock.Arguments) (*entities.Account, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) HashWithCost(ctx context.Context, password string, cost int) (string, error) {
	args := m.Called(ctx, password, cost)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Verify(ctx context.Context, password, hash string) bool {
	return m.Called(ctx, password, hash).Bool(0)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateAccessToken(ctx context.Context, accountID, login string) (string, time.Time, error) {
	args := m.Called(ctx, accountID, login)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokenService) GenerateRefreshToken(ctx context.Context, accountID string) (string, time.Time, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokenService) ValidateAccessToken(ctx context.Context, token string) (*services.TokenClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenClaims), args.Error(1)
}

func (m *mockTokenService) ValidateRefreshToken(ctx context.Context, token string) (*services.TokenClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenClaims), args.Error(1)
}

type mockLoginLimiter struct {
	mock.Mock
}

func (m *mockLoginLimiter) Allow(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockLoginLimiter) RegisterFailure(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockLoginLimiter) Reset(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

var (
	withHash    = repositories.FindOptions{IncludePasswordHash: true}
	withoutHash = repositories.FindOptions{}
)
