package ratesync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooUA       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
	// quotePlaces bounds the precision kept from the float quote.
	quotePlaces = 6
)

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// YahooQuoter reads spot exchange rates from the Yahoo Finance chart API,
// which lists a pair under tickers like "EURPLN=X".
type YahooQuoter struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewYahooQuoter creates a YahooQuoter using httpClient.
func NewYahooQuoter(httpClient *http.Client) *YahooQuoter {
	return &YahooQuoter{httpClient: httpClient, baseURL: yahooChartURL}
}

// Quote returns how many units of to one unit of from buys.
func (q *YahooQuoter) Quote(ctx context.Context, from, to string) (decimal.Decimal, error) {
	ticker := strings.ToUpper(from) + strings.ToUpper(to) + "=X"
	url := q.baseURL + "/" + ticker + "?interval=1d&range=1d"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building forex request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("forex http request for %s: %w", ticker, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("forex request for %s: unexpected status %d", ticker, resp.StatusCode)
	}

	var chartResp yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return decimal.Zero, fmt.Errorf("decoding forex response for %s: %w", ticker, err)
	}

	if chartResp.Chart.Error != nil {
		return decimal.Zero, fmt.Errorf("forex chart error for %s: %s: %s", ticker, chartResp.Chart.Error.Code, chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 {
		return decimal.Zero, fmt.Errorf("no forex results for %s", ticker)
	}

	price := chartResp.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return decimal.Zero, fmt.Errorf("invalid forex rate for %s: %f", ticker, price)
	}

	return decimal.NewFromFloat(price).Round(quotePlaces), nil
}
