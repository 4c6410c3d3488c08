package redis_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisdb "gocollab/pkg/db/redis"
)

func configFor(t *testing.T, addr string) *redisdb.Config {
	t.Helper()
	host, portStr, _ := strings.Cut(addr, ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := redisdb.DefaultConfig()
	cfg.Host = host
	cfg.Port = port
	return cfg
}

func TestNewClient(t *testing.T) {
	server := miniredis.RunT(t)
	ctx := context.Background()

	client, err := redisdb.NewClient(ctx, configFor(t, server.Addr()))
	require.NoError(t, err)

	require.NoError(t, client.RawClient().Set(ctx, "key", "value", 0).Err())
	got, err := server.Get("key")
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	assert.NoError(t, client.Close(ctx))
}

func TestNewClientUnavailable(t *testing.T) {
	server := miniredis.RunT(t)
	cfg := configFor(t, server.Addr())
	cfg.Timeout = 200 * time.Millisecond
	server.Close()

	client, err := redisdb.NewClient(context.Background(), cfg)

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), redisdb.ErrConnect)
}

func TestConfigAddress(t *testing.T) {
	cfg := &redisdb.Config{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.Address())
}
