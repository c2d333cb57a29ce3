package blocktime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Etherscan resolves blocks through the getblocknobytime endpoint.
type Etherscan struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewEtherscan(baseURL, apiKey string, timeout time.Duration) *Etherscan {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Etherscan{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

func (e *Etherscan) BlockAt(ctx context.Context, ts time.Time) (uint64, error) {
	q := url.Values{}
	q.Set("module", "block")
	q.Set("action", "getblocknobytime")
	q.Set("timestamp", strconv.FormatInt(ts.Unix(), 10))
	q.Set("closest", "before")
	if e.apiKey != "" {
		q.Set("apikey", e.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("build etherscan request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("etherscan request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("etherscan returned status %d", resp.StatusCode)
	}

	var body etherscanResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode etherscan response: %w", err)
	}
	if body.Status == "0" {
		return 0, fmt.Errorf("etherscan: %s: %s", body.Message, body.Result)
	}
	block, err := strconv.ParseUint(body.Result, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("etherscan result %q: %w", body.Result, err)
	}
	return block, nil
}
