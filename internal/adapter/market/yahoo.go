package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/finquest/brokerage-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://query2.finance.yahoo.com"

// YahooClient implements domain.MarketService against the Yahoo Finance v8
// chart API, fetching daily bars for a symbol.
type YahooClient struct {
	cli     *http.Client
	baseURL string
	rng     string // chart range, e.g. "3mo"
}

// NewYahooClient creates a client with the production endpoint and an
// 8-second request timeout.
func NewYahooClient() *YahooClient {
	return NewYahooClientWithBaseURL(defaultBaseURL)
}

// NewYahooClientWithBaseURL creates a client against a custom endpoint,
// used by tests to point at a stub server.
func NewYahooClientWithBaseURL(baseURL string) *YahooClient {
	return &YahooClient{
		cli:     &http.Client{Timeout: 8 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		rng:     "3mo",
	}
}

// GetLatestDailyBars fetches the symbol's recent daily bars. A response
// with no chart result yields an empty slice and a nil error: the caller
// treats a silent feed as a no-op, not a failure. Days with a null close
// (market holidays in the Yahoo payload) are skipped.
func (c *YahooClient) GetLatestDailyBars(ctx context.Context, symbol string) ([]*domain.DailyBar, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s", c.baseURL, symbol, c.rng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "brokerage-backend/1.0")

	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo http %d", resp.StatusCode)
	}

	var raw struct {
		Chart struct {
			Result []struct {
				Timestamp  []int64 `json:"timestamp"`
				Indicators struct {
					Quote []struct {
						Open   []*float64 `json:"open"`
						High   []*float64 `json:"high"`
						Low    []*float64 `json:"low"`
						Close  []*float64 `json:"close"`
						Volume []*int64   `json:"volume"`
					} `json:"quote"`
				} `json:"indicators"`
			} `json:"result"`
			Error any `json:"error"`
		} `json:"chart"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode chart: %w", err)
	}

	if len(raw.Chart.Result) == 0 || len(raw.Chart.Result[0].Indicators.Quote) == 0 {
		return []*domain.DailyBar{}, nil
	}

	result := raw.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]*domain.DailyBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		bar := &domain.DailyBar{
			Date:  domain.Day(time.Unix(ts, 0)),
			Close: decimal.NewFromFloat(*quote.Close[i]),
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = decimal.NewFromFloat(*quote.Open[i])
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = decimal.NewFromFloat(*quote.High[i])
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = decimal.NewFromFloat(*quote.Low[i])
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	return bars, nil
}
