package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter(t *testing.T) {
	l := NewLimiter(10.0, 5, "mainnet")

	require.NotNil(t, l)
	assert.Equal(t, "mainnet", l.endpoint)
	assert.InDelta(t, 10.0, float64(l.limiter.Limit()), 0.001)
	assert.Equal(t, 5, l.limiter.Burst())
}

func TestNewLimiter_ClampsBurst(t *testing.T) {
	l := NewLimiter(1, 0, "mainnet")
	assert.Equal(t, 1, l.limiter.Burst())
}

func TestLimiter_AllowWithinBurst(t *testing.T) {
	const burst = 5
	l := NewLimiter(100, burst, "mainnet")

	for i := 0; i < burst; i++ {
		start := time.Now()
		require.NoError(t, l.Wait(context.Background()), "request %d", i)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	}
}

func TestLimiter_WaitWhenExhausted(t *testing.T) {
	l := NewLimiter(10, 1, "mainnet")

	require.NoError(t, l.Wait(context.Background()))

	start := time.Now()
	require.NoError(t, l.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestLimiter_ContextCancellation(t *testing.T) {
	l := NewLimiter(0.1, 1, "mainnet")
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCall_RecordsAndReturns(t *testing.T) {
	l := NewLimiter(100, 10, "mainnet")

	v, err := Call(context.Background(), l, "eth_blockNumber", func(context.Context) (uint64, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)

	cause := errors.New("429 Too Many Requests")
	_, err = Call(context.Background(), nil, "eth_call", func(context.Context) (uint64, error) {
		return 0, cause
	})
	assert.ErrorIs(t, err, cause)
}

func TestClassifyRPCError(t *testing.T) {
	testCases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{errors.New("context deadline exceeded"), "timeout"},
		{errors.New("429 Too Many Requests"), "rate_limited"},
		{errors.New("execution reverted"), "reverted"},
		{errors.New("502 Bad Gateway"), "server_error"},
		{errors.New("dial tcp: connection refused"), "network_error"},
		{errors.New("invalid argument 0"), "client_error"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, ClassifyRPCError(tc.err))
	}
}
