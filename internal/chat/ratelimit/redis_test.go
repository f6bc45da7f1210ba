package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newRedisTestLedger(t *testing.T, limit int, window time.Duration) (*miniredis.Miniredis, *RedisLedger) {
	t.Helper()
	mr := miniredis.RunT(t)
	ledger, err := NewRedisLedger(context.Background(), Config{
		Store:     "redis",
		RedisAddr: mr.Addr(),
		Limit:     limit,
		Window:    window,
	})
	require.NoError(t, err)
	t.Cleanup(ledger.Close)
	return mr, ledger
}

func TestRedisAllowAdmitsUpToLimitThenRejects(t *testing.T) {
	_, ledger := newRedisTestLedger(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := ledger.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		require.True(t, result.Allowed, "request %d should be admitted", i+1)
		require.Equal(t, 3-(i+1), result.Remaining)
	}

	result, err := ledger.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, result.Allowed)
	require.Equal(t, 0, result.Remaining)
	require.Greater(t, result.RetryAfter, time.Duration(0))
	require.LessOrEqual(t, result.RetryAfter, time.Minute)
}

func TestRedisAllowStartsWindowTTLOnFirstRequest(t *testing.T) {
	mr, ledger := newRedisTestLedger(t, 3, time.Minute)

	_, err := ledger.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, time.Minute, mr.TTL(redisKeyPrefix+"1.2.3.4"))
}

func TestRedisAllowRetryAfterTracksWindowRemainder(t *testing.T) {
	mr, ledger := newRedisTestLedger(t, 1, time.Minute)
	ctx := context.Background()

	_, err := ledger.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)

	mr.FastForward(20 * time.Second)

	result, err := ledger.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.False(t, result.Allowed)
	require.Equal(t, 40*time.Second, result.RetryAfter)
}

func TestRedisAllowResetsAfterWindowExpiry(t *testing.T) {
	mr, ledger := newRedisTestLedger(t, 1, time.Minute)
	ctx := context.Background()

	_, err := ledger.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)

	mr.FastForward(time.Minute + time.Second)

	result, err := ledger.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, result.Allowed)
	require.Equal(t, 0, result.Remaining)
}

func TestRedisAllowIsPerClient(t *testing.T) {
	_, ledger := newRedisTestLedger(t, 1, time.Minute)
	ctx := context.Background()

	result, err := ledger.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	require.True(t, result.Allowed)

	result, err = ledger.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	require.True(t, result.Allowed)
}

func TestNewSelectsRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	ledger, stop, err := New(context.Background(), Config{Store: "redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer stop()

	result, err := ledger.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	require.True(t, result.Allowed)
	require.Equal(t, DefaultLimit, result.Limit)
}

func TestNewRedisLedgerFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisLedger(context.Background(), Config{Store: "redis", RedisAddr: addr})
	require.Error(t, err)
}
