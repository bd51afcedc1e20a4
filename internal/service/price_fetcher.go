// internal/service/price_fetcher.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vanhieuhoaiphu/currency-converter/internal/models"
)

var (
	ErrFetchNetwork = errors.New("price fetch: network error")
	ErrFetchStatus  = errors.New("price fetch: unexpected status")
	ErrFetchDecode  = errors.New("price fetch: malformed response")
	ErrFetchEmpty   = errors.New("price fetch: empty price list")
)

// maxPriceBody bounds how much of the response is read.
const maxPriceBody = 8 << 20

// FetchResult is the outcome of a price list fetch. Exactly one of
// Entries (non-empty) or Err is set.
type FetchResult struct {
	Entries []models.PriceEntry
	Err     error
}

func (r FetchResult) OK() bool {
	return r.Err == nil
}

// Fetcher retrieves the price list.
type Fetcher interface {
	Fetch(ctx context.Context) FetchResult
}

// PriceFetcher fetches the price list over HTTP.
type PriceFetcher struct {
	client *http.Client
	url    string
}

func NewPriceFetcher(url string, timeout time.Duration) *PriceFetcher {
	return &PriceFetcher{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

// Fetch issues a single GET for the price list. There is no retry.
func (f *PriceFetcher) Fetch(ctx context.Context) FetchResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return FetchResult{Err: fmt.Errorf("%w: build request: %v", ErrFetchNetwork, err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return FetchResult{Err: fmt.Errorf("%w: %v", ErrFetchNetwork, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return FetchResult{Err: fmt.Errorf("%w: API returned status %d", ErrFetchStatus, resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPriceBody))
	if err != nil {
		return FetchResult{Err: fmt.Errorf("%w: failed to read response: %v", ErrFetchNetwork, err)}
	}

	var entries []models.PriceEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return FetchResult{Err: fmt.Errorf("%w: failed to parse response: %v", ErrFetchDecode, err)}
	}
	if entries == nil {
		return FetchResult{Err: fmt.Errorf("%w: response is not a JSON array", ErrFetchDecode)}
	}
	if len(entries) == 0 {
		return FetchResult{Err: ErrFetchEmpty}
	}

	return FetchResult{Entries: entries}
}
