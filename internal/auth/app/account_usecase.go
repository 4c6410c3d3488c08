package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"gocollab/internal/auth/domain/entities"
	"gocollab/internal/auth/domain/services"
	"gocollab/internal/auth/ports/api"
	"gocollab/internal/auth/ports/repositories"
	svc "gocollab/internal/auth/ports/services"
	"gocollab/pkg/logger"
)

const (
	methodRegister   = "Register"
	methodGetProfile = "GetProfile"

	msgStartRegistration   = "starting account registration"
	msgInvalidRegistration = "invalid registration data"
	msgAccountExists       = "account with this login or email already exists"
	msgAccountRegistered   = "account registered successfully"
	msgRequestingProfile   = "requesting account profile"
	msgEmptyAccountID      = "empty account ID provided"
	msgProfileRetrieved    = "account profile successfully retrieved"

	msgErrHashPassword     = "failed to hash password"
	msgErrCreateAccount    = "failed to create account"
	msgErrFindingAccountID = "failed to find account by ID"

	errCtxValidatingRegistration = "validating registration"
	errCtxHashingPassword        = "hashing password"
	errCtxCreatingAccount        = "creating account"
	errCtxValidatingAccountID    = "validating account ID"
	errCtxFetchingProfile        = "fetching account profile"
)

// tagMaxBytes ограничивает длину строки в байтах, а не в символах.
const tagMaxBytes = "maxbytes"

// registration - проверяемая форма регистрации. Верхняя граница пароля совпадает с лимитом bcrypt
// в 72 байта, поэтому многобайтовый пароль короче 72 символов тоже может быть отклонен.
type registration struct {
	Login    string `validate:"required,max=64"`
	Email    string `validate:"required,email,min=8,max=254"`
	Password string `validate:"required,min=8,max=72,maxbytes=72"`
}

// AccountUseCaseImpl реализует api.AccountUseCase.
type AccountUseCaseImpl struct {
	repo        repositories.AccountRepository
	passwordSvc svc.PasswordService
	validate    *validator.Validate
}

// NewAccountUseCase создает сервис учетных записей.
func NewAccountUseCase(repo repositories.AccountRepository, passwordSvc svc.PasswordService) api.AccountUseCase {
	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation(tagMaxBytes, maxBytes)

	return &AccountUseCaseImpl{
		repo:        repo,
		passwordSvc: passwordSvc,
		validate:    validate,
	}
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Register создает учетную запись. Пароль хешируется до первой записи в хранилище.
func (u *AccountUseCaseImpl) Register(ctx context.Context, login, email, password string) (*entities.Account, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodRegister),
		zap.String("login", login),
		zap.String("email", email),
	)
	log.Debug(ctx, msgStartRegistration)

	if err := u.validateRegistration(registration{Login: login, Email: email, Password: password}); err != nil {
		log.Debug(ctx, msgInvalidRegistration, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingRegistration, err)
	}

	hash, err := u.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	created, err := u.repo.Create(ctx, &entities.Account{
		Login:        login,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, entities.ErrAccountExists) {
			log.Debug(ctx, msgAccountExists)
		} else {
			log.Error(ctx, msgErrCreateAccount, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxCreatingAccount, err)
	}

	log.Info(ctx, msgAccountRegistered, zap.String("accountID", created.ID))
	return created.Public(), nil
}

// GetProfile возвращает учетную запись без чувствительных полей.
func (u *AccountUseCaseImpl) GetProfile(ctx context.Context, accountID string) (*entities.Account, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetProfile), zap.String("accountID", accountID))
	log.Debug(ctx, msgRequestingProfile)

	if accountID == "" {
		log.Debug(ctx, msgEmptyAccountID)
		return nil, fmt.Errorf("%s: %w: %w", errCtxValidatingAccountID, services.ErrBadRequest, entities.ErrEmptyAccountID)
	}

	account, err := u.repo.FindByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, entities.ErrAccountNotFound) {
			log.Error(ctx, msgErrFindingAccountID, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxFetchingProfile, err)
	}

	log.Info(ctx, msgProfileRetrieved)
	return account.Public(), nil
}

// validateRegistration переводит ошибки валидатора в доменные ошибки, обернутые в ErrBadRequest.
func (u *AccountUseCaseImpl) validateRegistration(form registration) error {
	err := u.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %w", services.ErrBadRequest, err)
	}

	fe := fieldErrs[0]
	switch {
	case fe.Field() == "Login" && fe.Tag() == "required":
		return fmt.Errorf("%w: %w", services.ErrBadRequest, entities.ErrEmptyLogin)
	case fe.Field() == "Login":
		return fmt.Errorf("%w: %w", services.ErrBadRequest, entities.ErrLoginTooLong)
	case fe.Field() == "Email":
		return fmt.Errorf("%w: %w", services.ErrBadRequest, entities.ErrInvalidEmail)
	case fe.Field() == "Password" && (fe.Tag() == "max" || fe.Tag() == tagMaxBytes):
		return fmt.Errorf("%w: %w", services.ErrBadRequest, entities.ErrPasswordTooLong)
	case fe.Field() == "Password":
		return fmt.Errorf("%w: %w", services.ErrBadRequest, entities.ErrPasswordTooShort)
	default:
		return fmt.Errorf("%w: %w", services.ErrBadRequest, err)
	}
}
