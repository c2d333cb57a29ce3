package blocktime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearChain has one block every 12s starting at genesis.
type linearChain struct {
	head    uint64
	genesis time.Time
	reads   int
}

func (c *linearChain) HeadBlock(context.Context) (uint64, error) { return c.head, nil }

func (c *linearChain) BlockTimestamp(_ context.Context, block uint64) (time.Time, error) {
	c.reads++
	if block > c.head {
		return time.Time{}, fmt.Errorf("block %d beyond head", block)
	}
	return c.genesis.Add(time.Duration(block) * 12 * time.Second), nil
}

type stubExplorer struct {
	block uint64
	err   error
	calls int
}

func (s *stubExplorer) BlockAt(context.Context, time.Time) (uint64, error) {
	s.calls++
	return s.block, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var genesis = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestSearch_ClosestBefore(t *testing.T) {
	c := &linearChain{head: 10_000, genesis: genesis}
	r := NewResolver(c, testLogger())

	block, err := r.Search(context.Background(), genesis.Add(1000*12*time.Second+5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), block)

	block, err = r.Search(context.Background(), genesis.Add(2500*12*time.Second))
	require.NoError(t, err)
	assert.Equal(t, uint64(2500), block, "exact timestamp matches its block")
	assert.Less(t, c.reads, 40)
}

func TestSearch_FutureReturnsHead(t *testing.T) {
	c := &linearChain{head: 500, genesis: genesis}
	r := NewResolver(c, testLogger())

	block, err := r.Search(context.Background(), genesis.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint64(500), block)
}

func TestSearch_BeforeGenesis(t *testing.T) {
	c := &linearChain{head: 500, genesis: genesis}
	r := NewResolver(c, testLogger())

	_, err := r.Search(context.Background(), genesis.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrBeforeGenesis)
}

func TestBlockAt_PrefersExplorer(t *testing.T) {
	c := &linearChain{head: 500, genesis: genesis}
	ex := &stubExplorer{block: 321}
	r := NewResolver(c, testLogger(), WithExplorer(ex, nil))

	block, err := r.BlockAt(context.Background(), genesis.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint64(321), block)
	assert.Zero(t, c.reads)
}

func TestBlockAt_FallsBackWhenExplorerFails(t *testing.T) {
	c := &linearChain{head: 500, genesis: genesis}
	ex := &stubExplorer{err: errors.New("NOTOK")}
	breaker := circuitbreaker.New(circuitbreaker.Config{Name: "test-explorer", FailureThreshold: 1, OpenTimeout: time.Hour})
	r := NewResolver(c, testLogger(), WithExplorer(ex, breaker))

	block, err := r.BlockAt(context.Background(), genesis.Add(120*12*time.Second))
	require.NoError(t, err)
	assert.Equal(t, uint64(120), block)

	// Breaker is open now; the explorer is not called again.
	_, err = r.BlockAt(context.Background(), genesis.Add(130*12*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, ex.calls)
}

func TestEtherscan_BlockAt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "block", q.Get("module"))
		assert.Equal(t, "getblocknobytime", q.Get("action"))
		assert.Equal(t, "before", q.Get("closest"))
		assert.Equal(t, "key", q.Get("apikey"))
		if q.Get("timestamp") == "1700000000" {
			_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":"18573050"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"0","message":"NOTOK","result":"Error! No closest block found"}`))
	}))
	defer srv.Close()

	e := NewEtherscan(srv.URL, "key", time.Second)

	block, err := e.BlockAt(context.Background(), time.Unix(1_700_000_000, 0))
	require.NoError(t, err)
	assert.Equal(t, uint64(18573050), block)

	_, err = e.BlockAt(context.Background(), time.Unix(1, 0))
	assert.ErrorContains(t, err, "No closest block found")
}

func TestEtherscan_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewEtherscan(srv.URL, "", time.Second).BlockAt(context.Background(), time.Now())
	assert.ErrorContains(t, err, "status 429")
}
