package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MorpheusAIs/mor-stats-backend/internal/circuitbreaker"
	"github.com/MorpheusAIs/mor-stats-backend/internal/metrics"
	"github.com/shopspring/decimal"
)

// CoinGecko asset ids.
const (
	AssetMOR   = "morpheusai"
	AssetStETH = "staked-ether"
)

// DefaultCoinGeckoURL is the public API base.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// PriceQuote holds USD prices. A price that could not be fetched is invalid.
type PriceQuote struct {
	MOR   decimal.NullDecimal
	StETH decimal.NullDecimal
}

// Complete reports whether both prices are known.
func (q PriceQuote) Complete() bool {
	return q.MOR.Valid && q.StETH.Valid
}

// PriceView is the published form of a quote.
type PriceView struct {
	MOR   *float64 `json:"MOR"`
	StETH *float64 `json:"stETH"`
}

func (q PriceQuote) View() PriceView {
	return PriceView{MOR: nullFloat(q.MOR), StETH: nullFloat(q.StETH)}
}

func nullFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

// PriceSource supplies live token prices.
type PriceSource interface {
	Quote(ctx context.Context) PriceQuote
}

// CoinGecko queries the simple/price endpoint. Failures never surface as
// errors: the affected price is left unset.
type CoinGecko struct {
	baseURL string
	client  *http.Client
	breaker *circuitbreaker.Breaker
	logger  *slog.Logger
}

func NewCoinGecko(baseURL string, timeout time.Duration, logger *slog.Logger) *CoinGecko {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CoinGecko{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: circuitbreaker.New(circuitbreaker.Config{Name: "coingecko"}),
		logger:  logger.With("component", "prices"),
	}
}

func (c *CoinGecko) Quote(ctx context.Context) PriceQuote {
	prices, err := circuitbreaker.Do(c.breaker, func() (map[string]map[string]decimal.Decimal, error) {
		return c.fetch(ctx, AssetMOR, AssetStETH)
	})
	if err != nil {
		metrics.PriceFetchTotal.WithLabelValues("error").Inc()
		c.logger.Warn("price lookup failed", "error", err)
		return PriceQuote{}
	}
	metrics.PriceFetchTotal.WithLabelValues("ok").Inc()

	var q PriceQuote
	if usd, ok := prices[AssetMOR]["usd"]; ok {
		q.MOR = decimal.NewNullDecimal(usd)
	}
	if usd, ok := prices[AssetStETH]["usd"]; ok {
		q.StETH = decimal.NewNullDecimal(usd)
	}
	return q
}

func (c *CoinGecko) fetch(ctx context.Context, ids ...string) (map[string]map[string]decimal.Decimal, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build price request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko returned status %d", resp.StatusCode)
	}
	var body map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode price response: %w", err)
	}
	return body, nil
}
