package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"gocollab/internal/auth/domain/entities"
	"gocollab/internal/auth/ports/repositories"
	"gocollab/pkg/logger"
)

// Коды ошибок Postgres.
const (
	pgUniqueViolation     = "23505"
	pgInvalidTextInput    = "22P02"
	defaultQueryTimeout   = 3 * time.Second
	repositoryNameAccount = "account"
)

const (
	errCtxCreate             = "creating account"
	errCtxFindByID           = "querying account by id"
	errCtxFindByLogin        = "querying account by login"
	errCtxFindByEmail        = "querying account by email"
	errCtxFindByRefreshToken = "querying account by refresh token"
	errCtxSaveRefreshToken   = "saving refresh token"
	errCtxRevokeRefreshToken = "revoking refresh token"
)

const (
	columnsPublic   = `id::text, login, email, created_at, updated_at`
	columnsWithHash = columnsPublic + `, password_hash`

	queryCreate = `
        INSERT INTO users (login, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING ` + columnsPublic

	querySaveRefreshToken = `
        UPDATE users
        SET refresh_token = $2, updated_at = NOW()
        WHERE id = $1`

	queryRevokeRefreshToken = `
        UPDATE users
        SET refresh_token = NULL, updated_at = NOW()
        WHERE refresh_token = $1`
)

// PgxPoolInterface - подмножество pgxpool.Pool, используемое репозиторием.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

// AccountRepository реализует repositories.AccountRepository для Postgres.
type AccountRepository struct {
	pool    PgxPoolInterface
	timeout time.Duration
}

// NewAccountRepository создает репозиторий. Каждый запрос ограничен timeout;
// неположительное значение заменяется значением по умолчанию.
func NewAccountRepository(pool PgxPoolInterface, timeout time.Duration) repositories.AccountRepository {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &AccountRepository{pool: pool, timeout: timeout}
}

func (r *AccountRepository) log(ctx context.Context, method string) *logger.Logger {
	return logger.Log(ctx).With(
		zap.String("repository", repositoryNameAccount),
		zap.String("method", method),
	)
}

// Create сохраняет новую учетную запись. Хеш пароля должен быть вычислен заранее.
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) (*entities.Account, error) {
	log := r.log(ctx, "Create")

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var created entities.Account
	err := r.pool.QueryRow(ctx, queryCreate,
		account.Login,
		account.Email,
		account.PasswordHash,
	).Scan(
		&created.ID,
		&created.Login,
		&created.Email,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			log.Debug(ctx, "account already exists", zap.String("constraint", pgErr.ConstraintName))
			return nil, fmt.Errorf("%s: %w", errCtxCreate, entities.ErrAccountExists)
		}
		log.Error(ctx, "error creating account", zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxCreate, entities.ErrStoreFailure, err)
	}

	return &created, nil
}

// FindByID находит учетную запись по ID.
func (r *AccountRepository) FindByID(
	ctx context.Context,
	id string,
	opts ...repositories.FindOption,
) (*entities.Account, error) {
	return r.findOne(ctx, "FindByID", errCtxFindByID, "id", id, opts...)
}

// FindByLogin находит учетную запись по логину.
func (r *AccountRepository) FindByLogin(
	ctx context.Context,
	login string,
	opts ...repositories.FindOption,
) (*entities.Account, error) {
	return r.findOne(ctx, "FindByLogin", errCtxFindByLogin, "login", login, opts...)
}

// FindByEmail находит учетную запись по email.
func (r *AccountRepository) FindByEmail(
	ctx context.Context,
	email string,
	opts ...repositories.FindOption,
) (*entities.Account, error) {
	return r.findOne(ctx, "FindByEmail", errCtxFindByEmail, "email", email, opts...)
}

// findOne выполняет выборку по одному уникальному столбцу.
// column подставляется только из констант этого файла.
func (r *AccountRepository) findOne(
	ctx context.Context,
	method, errCtx, column, value string,
	opts ...repositories.FindOption,
) (*entities.Account, error) {
	log := r.log(ctx, method)
	options := repositories.ApplyFindOptions(opts...)

	columns := columnsPublic
	if options.IncludePasswordHash {
		columns = columnsWithHash
	}
	query := `SELECT ` + columns + ` FROM users WHERE ` + column + ` = $1`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var account entities.Account
	dest := []any{
		&account.ID,
		&account.Login,
		&account.Email,
		&account.CreatedAt,
		&account.UpdatedAt,
	}
	if options.IncludePasswordHash {
		dest = append(dest, &account.PasswordHash)
	}

	if err := r.pool.QueryRow(ctx, query, value).Scan(dest...); err != nil {
		if isNotFound(err) {
			log.Debug(ctx, "account not found", zap.String(column, value))
			return nil, fmt.Errorf("%s: %w", errCtx, entities.ErrAccountNotFound)
		}
		log.Error(ctx, "error finding account", zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtx, entities.ErrStoreFailure, err)
	}

	return &account, nil
}

// FindByRefreshToken находит учетную запись, чей текущий refresh токен равен token.
func (r *AccountRepository) FindByRefreshToken(ctx context.Context, token string) (*entities.Account, error) {
	log := r.log(ctx, "FindByRefreshToken")

	if token == "" {
		return nil, fmt.Errorf("%s: %w", errCtxFindByRefreshToken, entities.ErrAccountNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + columnsPublic + ` FROM users WHERE refresh_token = $1`

	var account entities.Account
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&account.ID,
		&account.Login,
		&account.Email,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if isNotFound(err) {
			log.Debug(ctx, "no account holds refresh token")
			return nil, fmt.Errorf("%s: %w", errCtxFindByRefreshToken, entities.ErrAccountNotFound)
		}
		log.Error(ctx, "error finding account by refresh token", zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", errCtxFindByRefreshToken, entities.ErrStoreFailure, err)
	}

	account.RefreshToken = &token
	return &account, nil
}

// SaveRefreshToken заменяет refresh токен одним UPDATE; при гонке побеждает последний.
func (r *AccountRepository) SaveRefreshToken(ctx context.Context, accountID, token string) error {
	log := r.log(ctx, "SaveRefreshToken")

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.pool.Exec(ctx, querySaveRefreshToken, accountID, token)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s: %w", errCtxSaveRefreshToken, entities.ErrAccountNotFound)
		}
		log.Error(ctx, "error saving refresh token", zap.Error(err))
		return fmt.Errorf("%s: %w: %w", errCtxSaveRefreshToken, entities.ErrStoreFailure, err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "account not found for refresh token update", zap.String("id", accountID))
		return fmt.Errorf("%s: %w", errCtxSaveRefreshToken, entities.ErrAccountNotFound)
	}

	return nil
}

// RevokeRefreshToken очищает refresh токен, только если он все еще текущий.
func (r *AccountRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	log := r.log(ctx, "RevokeRefreshToken")

	if token == "" {
		return fmt.Errorf("%s: %w", errCtxRevokeRefreshToken, entities.ErrAccountNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.pool.Exec(ctx, queryRevokeRefreshToken, token)
	if err != nil {
		log.Error(ctx, "error revoking refresh token", zap.Error(err))
		return fmt.Errorf("%s: %w: %w", errCtxRevokeRefreshToken, entities.ErrStoreFailure, err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "refresh token not found for revocation")
		return fmt.Errorf("%s: %w", errCtxRevokeRefreshToken, entities.ErrAccountNotFound)
	}

	return nil
}

// isNotFound считает отсутствие строки и некорректный UUID признаком отсутствия записи.
func isNotFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextInput
}
