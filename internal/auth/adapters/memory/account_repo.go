// Package memory содержит хранилище учетных записей в памяти процесса
// для локального запуска и тестов.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gocollab/internal/auth/domain/entities"
	"gocollab/internal/auth/ports/repositories"
	"gocollab/pkg/logger"
)

// AccountRepository хранит учетные записи в памяти. Все операции
// выполняются под одним мьютексом и потому атомарны.
type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entities.Account
	byLogin map[string]string
	byEmail map[string]string
	byToken map[string]string
	now     func() time.Time
}

var _ repositories.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository создает пустое хранилище.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[string]*entities.Account),
		byLogin: make(map[string]string),
		byEmail: make(map[string]string),
		byToken: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create сохраняет учетную запись с новым UUID.
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) (*entities.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byLogin[account.Login]; ok {
		return nil, fmt.Errorf("creating account: %w", entities.ErrAccountExists)
	}
	if _, ok := r.byEmail[account.Email]; ok {
		return nil, fmt.Errorf("creating account: %w", entities.ErrAccountExists)
	}

	now := r.now()
	stored := &entities.Account{
		ID:           uuid.NewString(),
		Login:        account.Login,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byID[stored.ID] = stored
	r.byLogin[stored.Login] = stored.ID
	r.byEmail[stored.Email] = stored.ID

	logger.Log(ctx).Debug(ctx, "account created in memory", zap.String("id", stored.ID))
	return stored.Public(), nil
}

func (r *AccountRepository) FindByID(
	_ context.Context,
	id string,
	opts ...repositories.FindOption,
) (*entities.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(id, "querying account by id", opts...)
}

func (r *AccountRepository) FindByLogin(
	_ context.Context,
	login string,
	opts ...repositories.FindOption,
) (*entities.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byLogin[login], "querying account by login", opts...)
}

func (r *AccountRepository) FindByEmail(
	_ context.Context,
	email string,
	opts ...repositories.FindOption,
) (*entities.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(r.byEmail[email], "querying account by email", opts...)
}

func (r *AccountRepository) FindByRefreshToken(_ context.Context, token string) (*entities.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if token == "" {
		return nil, fmt.Errorf("querying account by refresh token: %w", entities.ErrAccountNotFound)
	}
	account, err := r.lookup(r.byToken[token], "querying account by refresh token")
	if err != nil {
		return nil, err
	}
	account.RefreshToken = &token
	return account, nil
}

// SaveRefreshToken заменяет refresh токен; предыдущий перестает находиться.
func (r *AccountRepository) SaveRefreshToken(_ context.Context, accountID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byID[accountID]
	if !ok {
		return fmt.Errorf("saving refresh token: %w", entities.ErrAccountNotFound)
	}

	if account.RefreshToken != nil {
		delete(r.byToken, *account.RefreshToken)
	}
	account.RefreshToken = &token
	account.UpdatedAt = r.now()
	r.byToken[token] = accountID
	return nil
}

// RevokeRefreshToken очищает refresh токен, если он текущий у какой-либо учетной записи.
func (r *AccountRepository) RevokeRefreshToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accountID, ok := r.byToken[token]
	if !ok || token == "" {
		return fmt.Errorf("revoking refresh token: %w", entities.ErrAccountNotFound)
	}

	delete(r.byToken, token)
	account := r.byID[accountID]
	account.RefreshToken = nil
	account.UpdatedAt = r.now()
	return nil
}

// lookup вызывается под мьютексом и возвращает копию без чувствительных полей,
// кроме явно запрошенного хеша.
func (r *AccountRepository) lookup(id, errCtx string, opts ...repositories.FindOption) (*entities.Account, error) {
	account, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", errCtx, entities.ErrAccountNotFound)
	}

	result := account.Public()
	if repositories.ApplyFindOptions(opts...).IncludePasswordHash {
		result.PasswordHash = account.PasswordHash
	}
	return result, nil
}
