package analytics

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCoinGecko_Quote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "morpheusai,staked-ether", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"morpheusai":{"usd":18.42},"staked-ether":{"usd":3120.5}}`)
	}))
	defer srv.Close()

	q := NewCoinGecko(srv.URL+"/", time.Second, testLogger()).Quote(context.Background())

	require.True(t, q.Complete())
	assert.Equal(t, "18.42", q.MOR.Decimal.String())
	assert.Equal(t, "3120.5", q.StETH.Decimal.String())
}

func TestCoinGecko_PartialQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"morpheusai":{"usd":18.42}}`)
	}))
	defer srv.Close()

	q := NewCoinGecko(srv.URL, time.Second, testLogger()).Quote(context.Background())

	assert.True(t, q.MOR.Valid)
	assert.False(t, q.StETH.Valid)
	assert.False(t, q.Complete())
	view := q.View()
	assert.Nil(t, view.StETH)
	require.NotNil(t, view.MOR)
	assert.Equal(t, 18.42, *view.MOR)
}

func TestCoinGecko_FailuresLeavePricesUnset(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"malformed body", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"morpheusai":`)
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			q := NewCoinGecko(srv.URL, time.Second, testLogger()).Quote(context.Background())
			assert.Equal(t, PriceQuote{}, q)
		})
	}
}
