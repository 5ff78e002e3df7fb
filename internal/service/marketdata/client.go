// Package marketdata implements the price, fundamentals and symbol-list
// providers on top of a Financial-Modeling-Prep style REST API.
package marketdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"EquiScreen/internal/domain/models"
	drepo "EquiScreen/internal/domain/repository"
	xhttp "EquiScreen/pkg/http"
	applogger "EquiScreen/pkg/logger"
)

const (
	defaultBaseURL    = "https://financialmodelingprep.com/api/v3"
	defaultMaxRetries = 3
	retryDelay        = 500 * time.Millisecond
	retryDelay429     = 5 * time.Second
)

// Option configures Client.
type Option func(*Client)

// WithBaseURL overrides the provider base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithMaxRetries sets the retry budget per request.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger injects a structured logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.l = l }
}

// Client talks to the market-data provider. It implements PriceSource,
// FundamentalsSource and SymbolSource.
type Client struct {
	baseURL    string
	apiKey     string
	maxRetries int
	timeout    time.Duration
	http       *xhttp.Client
	l          *applogger.Logger
}

// New creates a provider client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		maxRetries: defaultMaxRetries,
		timeout:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = xhttp.NewClient(xhttp.WithTimeout(c.timeout))
	return c
}

// History returns ascending OHLCV points for the window. The provider only
// serves daily bars; weekly and monthly series are resampled locally.
func (c *Client) History(ctx context.Context, symbol string, tf drepo.Timeframe, from, to time.Time) ([]models.PricePoint, error) {
	body, err := c.get(ctx, "/historical-price-full/"+symbol, map[string][]string{
		"from": {from.Format("2006-01-02")},
		"to":   {to.Format("2006-01-02")},
	})
	if err != nil {
		return nil, err
	}

	rows := gjson.GetBytes(body, "historical")
	if !rows.Exists() || len(rows.Array()) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, models.ErrSymbolUnavailable)
	}

	points := make([]models.PricePoint, 0, len(rows.Array()))
	rows.ForEach(func(_, row gjson.Result) bool {
		date, err := time.Parse("2006-01-02", row.Get("date").String())
		if err != nil {
			return true // skip malformed rows
		}
		points = append(points, models.PricePoint{
			Symbol:   symbol,
			TF:       string(drepo.TFDaily),
			Date:     date,
			Open:     row.Get("open").Float(),
			High:     row.Get("high").Float(),
			Low:      row.Get("low").Float(),
			Close:    row.Get("close").Float(),
			AdjClose: row.Get("adjClose").Float(),
			Volume:   row.Get("volume").Float(),
		})
		return true
	})

	// provider serves newest-first
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return Resample(points, tf), nil
}

// Fundamentals returns trailing-twelve-month ratios for a symbol.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (*models.FinancialMetrics, error) {
	body, err := c.get(ctx, "/ratios-ttm/"+symbol, nil)
	if err != nil {
		return nil, err
	}

	row := gjson.GetBytes(body, "0")
	if !row.Exists() {
		return nil, fmt.Errorf("%s: %w", symbol, models.ErrSymbolUnavailable)
	}
	return &models.FinancialMetrics{
		GrossMargin: row.Get("grossProfitMarginTTM").Float(),
		ROE:         row.Get("returnOnEquityTTM").Float(),
		RDRatio:     row.Get("researchAndDevelopementToRevenueTTM").Float(),
	}, nil
}

// Symbols lists the tradable symbols of a universe: "sp500" uses the index
// constituent endpoint, exchange names filter the full listing, and "all"
// returns every listed stock.
func (c *Client) Symbols(ctx context.Context, universe string) ([]string, error) {
	if universe == "sp500" {
		body, err := c.get(ctx, "/sp500_constituent", nil)
		if err != nil {
			return nil, err
		}
		return collectSymbols(body, ""), nil
	}

	body, err := c.get(ctx, "/stock/list", nil)
	if err != nil {
		return nil, err
	}
	exchange := ""
	switch universe {
	case "nasdaq":
		exchange = "NASDAQ"
	case "nyse":
		exchange = "NYSE"
	case "amex":
		exchange = "AMEX"
	case "all", "":
	default:
		return nil, fmt.Errorf("unknown universe %q: %w", universe, models.ErrSymbolUnavailable)
	}
	return collectSymbols(body, exchange), nil
}

func collectSymbols(body []byte, exchange string) []string {
	out := make([]string, 0, 512)
	gjson.ParseBytes(body).ForEach(func(_, row gjson.Result) bool {
		if exchange != "" && row.Get("exchangeShortName").String() != exchange {
			return true
		}
		if sym := row.Get("symbol").String(); sym != "" {
			out = append(out, sym)
		}
		return true
	})
	return out
}

// get performs a GET with bounded retries. 429 backs off longer and maps to
// ErrRateLimited once the budget is spent; 404 maps to ErrSymbolUnavailable.
func (c *Client) get(ctx context.Context, path string, query map[string][]string) ([]byte, error) {
	if query == nil {
		query = map[string][]string{}
	}
	query["apikey"] = []string{c.apiKey}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryDelay
			if lastErr != nil && lastErr == errThrottled {
				delay = retryDelay429
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         c.baseURL + path,
			QueryParams: query,
		})
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return nil, fmt.Errorf("%s: %w", path, models.ErrSymbolUnavailable)
		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			lastErr = errThrottled
			if c.l != nil {
				c.l.Warn("provider throttled, backing off",
					applogger.String("path", path),
					applogger.Int("attempt", attempt+1),
				)
			}
			continue
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read body: %w", err)
			continue
		}
		return body, nil
	}

	if lastErr == errThrottled {
		return nil, fmt.Errorf("%s: %w", path, models.ErrRateLimited)
	}
	return nil, fmt.Errorf("%s after %d attempts: %w", path, c.maxRetries, lastErr)
}

var errThrottled = fmt.Errorf("throttled")

var (
	_ drepo.PriceSource        = (*Client)(nil)
	_ drepo.FundamentalsSource = (*Client)(nil)
	_ drepo.SymbolSource       = (*Client)(nil)
)
