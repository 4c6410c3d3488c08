package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"gocollab/internal/auth/domain/services"
	svc "gocollab/internal/auth/ports/services"
)

const (
	errCtxEncodingToken = "encoding token"
	errCtxDecodingToken = "decoding token"
)

// Ошибки кодека, оборачиваемые доменными.
var (
	ErrEmptySecret     = errors.New("empty secret key")
	ErrEmptySubject    = errors.New("empty subject claim")
	ErrInvalidLifetime = errors.New("token lifetime must be positive")
)

// Claims - представление TokenClaims в формате библиотеки JWT.
type Claims struct {
	Login string `json:"login,omitempty"`
	jwt.RegisteredClaims
}

// CodecJWT подписывает токены HS256. Зависит только от claims, секрета и часов.
type CodecJWT struct {
	now func() time.Time
}

var _ svc.TokenCodec = (*CodecJWT)(nil)

// NewCodecJWT создает кодек. nil now означает time.Now.
func NewCodecJWT(now func() time.Time) *CodecJWT {
	if now == nil {
		now = time.Now
	}
	return &CodecJWT{now: now}
}

// Encode подписывает claims секретом. Если IssuedAt не задан, берется текущее время;
// ExpiresAt всегда равен IssuedAt + expiresIn. Пустой TokenID заменяется случайным UUID.
func (c *CodecJWT) Encode(claims services.TokenClaims, secret []byte, expiresIn time.Duration) (string, error) {
	switch {
	case len(secret) == 0:
		return "", fmt.Errorf("%s: %w: %w", errCtxEncodingToken, services.ErrTokenEncoding, ErrEmptySecret)
	case claims.AccountID == "":
		return "", fmt.Errorf("%s: %w: %w", errCtxEncodingToken, services.ErrTokenEncoding, ErrEmptySubject)
	case expiresIn <= 0:
		return "", fmt.Errorf("%s: %w: %w", errCtxEncodingToken, services.ErrTokenEncoding, ErrInvalidLifetime)
	}

	issuedAt := claims.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = c.now()
	}
	tokenID := claims.TokenID
	if tokenID == "" {
		tokenID = uuid.NewString()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Login: claims.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.AccountID,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(expiresIn)),
		},
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", errCtxEncodingToken, services.ErrTokenEncoding, err)
	}
	return signed, nil
}

// Decode проверяет подпись и срок действия. Истекший токен с верной подписью
// дает ErrTokenExpired, любая другая ошибка дает ErrTokenInvalid.
func (c *CodecJWT) Decode(tokenString string, secret []byte) (*services.TokenClaims, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%s: %w: %w", errCtxDecodingToken, services.ErrTokenInvalid, ErrEmptySecret)
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", errCtxDecodingToken, services.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w: %w", errCtxDecodingToken, services.ErrTokenInvalid, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w: %w", errCtxDecodingToken, services.ErrTokenInvalid, ErrEmptySubject)
	}

	result := &services.TokenClaims{
		AccountID: claims.Subject,
		Login:     claims.Login,
		TokenID:   claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}
