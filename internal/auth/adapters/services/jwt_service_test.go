package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	adapters "gocollab/internal/auth/adapters/services"
	"gocollab/internal/auth/domain/services"
)

var (
	secretA = []byte("access-secret-for-tests")
	secretB = []byte("refresh-secret-for-tests")
	epoch   = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func TestCodecRoundTrip(t *testing.T) {
	clk := &clock{now: epoch}
	codec := adapters.NewCodecJWT(clk.Now)

	token, err := codec.Encode(services.TokenClaims{AccountID: "acc-1", Login: "alice"}, secretA, time.Minute)
	require.NoError(t, err)

	claims, err := codec.Decode(token, secretA)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "alice", claims.Login)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.IssuedAt.Equal(epoch))
	assert.True(t, claims.ExpiresAt.Equal(epoch.Add(time.Minute)))
}

func TestCodecDistinctTokensPerCall(t *testing.T) {
	codec := adapters.NewCodecJWT(func() time.Time { return epoch })
	claims := services.TokenClaims{AccountID: "acc-1"}

	first, err := codec.Encode(claims, secretA, time.Hour)
	require.NoError(t, err)
	second, err := codec.Encode(claims, secretA, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "tokens issued in the same second must differ")
}

func TestCodecWrongSecretIsInvalid(t *testing.T) {
	codec := adapters.NewCodecJWT(func() time.Time { return epoch })

	token, err := codec.Encode(services.TokenClaims{AccountID: "acc-1"}, secretA, time.Minute)
	require.NoError(t, err)

	_, err = codec.Decode(token, secretB)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrTokenInvalid)
	assert.NotErrorIs(t, err, services.ErrTokenExpired)
}

func TestCodecExpiredIsExpired(t *testing.T) {
	clk := &clock{now: epoch}
	codec := adapters.NewCodecJWT(clk.Now)

	token, err := codec.Encode(services.TokenClaims{AccountID: "acc-1"}, secretA, time.Minute)
	require.NoError(t, err)

	for _, after := range []time.Duration{time.Minute, time.Minute + time.Second, 24 * time.Hour} {
		clk.now = epoch.Add(after)

		_, err = codec.Decode(token, secretA)
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrTokenExpired, "after %s", after)
		assert.NotErrorIs(t, err, services.ErrTokenInvalid, "after %s", after)
	}
}

func TestCodecValidJustBeforeExpiry(t *testing.T) {
	clk := &clock{now: epoch}
	codec := adapters.NewCodecJWT(clk.Now)

	token, err := codec.Encode(services.TokenClaims{AccountID: "acc-1"}, secretA, time.Minute)
	require.NoError(t, err)

	clk.now = epoch.Add(59 * time.Second)
	_, err = codec.Decode(token, secretA)
	assert.NoError(t, err)
}

func TestCodecExpiredWithWrongSecretIsInvalid(t *testing.T) {
	clk := &clock{now: epoch}
	codec := adapters.NewCodecJWT(clk.Now)

	token, err := codec.Encode(services.TokenClaims{AccountID: "acc-1"}, secretA, time.Minute)
	require.NoError(t, err)

	clk.now = epoch.Add(time.Hour)
	_, err = codec.Decode(token, secretB)
	assert.ErrorIs(t, err, services.ErrTokenInvalid)
}

func TestCodecMalformedTokens(t *testing.T) {
	codec := adapters.NewCodecJWT(func() time.Time { return epoch })

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "acc-1",
		ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512Token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "acc-1",
		ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour)),
	}).SignedString(secretA)
	require.NoError(t, err)

	noExpToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "acc-1",
	}).SignedString(secretA)
	require.NoError(t, err)

	noSubjectToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour)),
	}).SignedString(secretA)
	require.NoError(t, err)

	valid, err := codec.Encode(services.TokenClaims{AccountID: "acc-1"}, secretA, time.Minute)
	require.NoError(t, err)
	tampered := tamperSignature(valid)

	tokens := map[string]string{
		"empty":         "",
		"garbage":       "not.a.jwt",
		"two segments":  "abc.def",
		"alg none":      noneToken,
		"alg hs512":     hs512Token,
		"missing exp":   noExpToken,
		"missing sub":   noSubjectToken,
		"tampered sig":  tampered,
		"with spaces":   " " + valid,
		"bearer prefix": "Bearer " + valid,
	}

	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Decode(token, secretA)
			require.Error(t, err)
			assert.ErrorIs(t, err, services.ErrTokenInvalid)
		})
	}
}

func tamperSignature(token string) string {
	i := strings.LastIndex(token, ".") + 1
	replacement := "A"
	if token[i] == 'A' {
		replacement = "B"
	}
	return token[:i] + replacement + token[i+1:]
}

func TestCodecEncodeValidation(t *testing.T) {
	codec := adapters.NewCodecJWT(nil)

	_, err := codec.Encode(services.TokenClaims{AccountID: "acc-1"}, nil, time.Minute)
	assert.ErrorIs(t, err, services.ErrTokenEncoding)
	assert.ErrorIs(t, err, adapters.ErrEmptySecret)

	_, err = codec.Encode(services.TokenClaims{}, secretA, time.Minute)
	assert.ErrorIs(t, err, adapters.ErrEmptySubject)

	_, err = codec.Encode(services.TokenClaims{AccountID: "acc-1"}, secretA, 0)
	assert.ErrorIs(t, err, adapters.ErrInvalidLifetime)

	_, err = codec.Decode("whatever", nil)
	assert.ErrorIs(t, err, services.ErrTokenInvalid)
}

func newTokenService(clk *clock) *adapters.ServiceJWT {
	svc := adapters.NewJWT(services.JWTConfig{
		AccessSecret:  secretA,
		AccessTTL:     15 * time.Minute,
		RefreshSecret: secretB,
		RefreshTTL:    7 * 24 * time.Hour,
	}, adapters.WithClock(clk.Now))
	return svc.(*adapters.ServiceJWT)
}

func TestServiceJWTAccessToken(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: epoch}
	svc := newTokenService(clk)

	token, expiresAt, err := svc.GenerateAccessToken(ctx, "acc-1", "alice")
	require.NoError(t, err)
	assert.True(t, expiresAt.Equal(epoch.Add(15*time.Minute)))

	claims, err := svc.ValidateAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "alice", claims.Login)

	_, err = svc.ValidateRefreshToken(ctx, token)
	assert.ErrorIs(t, err, services.ErrTokenInvalid, "access token must not pass as refresh token")

	clk.now = epoch.Add(16 * time.Minute)
	_, err = svc.ValidateAccessToken(ctx, token)
	assert.ErrorIs(t, err, services.ErrTokenExpired)
}

func TestServiceJWTRefreshToken(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: epoch}
	svc := newTokenService(clk)

	token, expiresAt, err := svc.GenerateRefreshToken(ctx, "acc-1")
	require.NoError(t, err)
	assert.True(t, expiresAt.Equal(epoch.Add(7*24*time.Hour)))

	claims, err := svc.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)

	_, err = svc.ValidateAccessToken(ctx, token)
	assert.ErrorIs(t, err, services.ErrTokenInvalid, "refresh token must not pass as access token")
}

func TestServiceJWTEmptySecret(t *testing.T) {
	svc := adapters.NewJWT(services.JWTConfig{AccessTTL: time.Minute, RefreshTTL: time.Hour})

	_, _, err := svc.GenerateAccessToken(context.Background(), "acc-1", "alice")
	assert.ErrorIs(t, err, services.ErrTokenEncoding)

	_, _, err = svc.GenerateRefreshToken(context.Background(), "acc-1")
	assert.ErrorIs(t, err, services.ErrTokenEncoding)
}

func TestServiceFactory(t *testing.T) {
	factory, err := adapters.NewServiceFactory(adapters.FactoryConfig{
		JWT: services.JWTConfig{
			AccessSecret:  secretA,
			AccessTTL:     time.Minute,
			RefreshSecret: secretB,
			RefreshTTL:    time.Hour,
		},
		HashAlgorithm: services.AlgorithmBcrypt,
		HashCost:      bcrypt.MinCost,
	})
	require.NoError(t, err)
	require.NotNil(t, factory.PasswordService())
	require.NotNil(t, factory.TokenService())

	token, _, err := factory.TokenService().GenerateAccessToken(context.Background(), "acc-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	_, err = adapters.NewServiceFactory(adapters.FactoryConfig{HashAlgorithm: "md5", HashCost: 1})
	assert.ErrorIs(t, err, adapters.ErrUnknownAlgorithm)
}
