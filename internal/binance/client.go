// Package binance implements the signed REST client, request-weight
// admission control, and payload normalization for the Binance endpoints
// this tool consumes.
package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"bintrack/internal/util"
)

const (
	// DefaultBaseURL is the production REST endpoint.
	DefaultBaseURL = "https://api.binance.com"

	autoInvestHistoryPath = "/sapi/v1/lending/auto-invest/history/list"
	convertTradeFlowPath  = "/sapi/v1/convert/tradeFlow"
	avgPricePath          = "/api/v3/avgPrice"

	autoInvestPageSize = 100
	convertPageLimit   = 1000

	// codeClockSkew is returned when the request timestamp falls outside
	// the server's recvWindow. The request is valid apart from the stale
	// timestamp, so it is worth exactly one re-signed retry.
	codeClockSkew = -1021
)

// APIError is a non-2xx upstream response decoded from the failure
// envelope.
type APIError struct {
	Status int
	Code   int
	Msg    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance: status %d code %d: %s", e.Status, e.Code, e.Msg)
}

// Client issues signed GET requests against the exchange REST API.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client for the given endpoint and credentials. An
// empty baseURL selects the production endpoint.
func NewClient(baseURL, apiKey, apiSecret string, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.With("component", "binance"),
	}
}

// AutoInvestHistory fetches the auto-invest purchases inside the given
// window. A rejected request is logged and yields zero items rather than an
// error, except for a clock-skew rejection which is retried once with a
// fresh timestamp and signature.
func (c *Client) AutoInvestHistory(ctx context.Context, w util.TimeWindow) ([]AutoInvestItem, error) {
	for attempt := 0; ; attempt++ {
		params := NewParams().
			Set("size", strconv.Itoa(autoInvestPageSize)).
			Set("timestamp", strconv.FormatInt(util.TimestampNow(), 10)).
			Set("startTime", strconv.FormatInt(w.StartMS, 10)).
			Set("endTime", strconv.FormatInt(w.EndMS, 10)).
			Sign(c.apiSecret)

		body, err := c.get(ctx, autoInvestHistoryPath, params.Encode())
		if retry := c.windowFault(err, "auto-invest history", w, attempt); retry {
			continue
		} else if err != nil {
			return nil, nil
		}

		var payload autoInvestHistoryResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("decoding auto-invest history: %w", err)
		}
		return payload.List, nil
	}
}

// ConvertTradeFlow fetches the convert trades inside the given window, with
// the same fault handling as AutoInvestHistory.
func (c *Client) ConvertTradeFlow(ctx context.Context, w util.TimeWindow) ([]ConvertItem, error) {
	for attempt := 0; ; attempt++ {
		params := NewParams().
			Set("limit", strconv.Itoa(convertPageLimit)).
			Set("timestamp", strconv.FormatInt(util.TimestampNow(), 10)).
			Set("startTime", strconv.FormatInt(w.StartMS, 10)).
			Set("endTime", strconv.FormatInt(w.EndMS, 10)).
			Sign(c.apiSecret)

		body, err := c.get(ctx, convertTradeFlowPath, params.Encode())
		if retry := c.windowFault(err, "convert trade flow", w, attempt); retry {
			continue
		} else if err != nil {
			return nil, nil
		}

		var payload convertTradeFlowResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("decoding convert trade flow: %w", err)
		}
		return payload.List, nil
	}
}

// AvgPrice fetches the current average price for a symbol. Unlike the
// history endpoints the caller needs the value, so faults surface as
// errors.
func (c *Client) AvgPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := NewParams().Set("symbol", symbol)

	body, err := c.get(ctx, avgPricePath, params.Encode())
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching average price for %s: %w", symbol, err)
	}

	var payload avgPriceResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Zero, fmt.Errorf("decoding average price for %s: %w", symbol, err)
	}
	return payload.Price, nil
}

// windowFault inspects a history-fetch error. It logs any fault and reports
// whether the caller should retry the window: only a first-time clock-skew
// rejection qualifies. Every other fault means the window's contribution is
// dropped and the run continues.
func (c *Client) windowFault(err error, endpoint string, w util.TimeWindow, attempt int) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.log.Error("request rejected",
			"endpoint", endpoint,
			"status", apiErr.Status,
			"code", apiErr.Code,
			"msg", apiErr.Msg,
			"window_start", w.StartMS,
			"window_end", w.EndMS,
		)
		return apiErr.Code == codeClockSkew && attempt == 0
	}

	c.log.Error("request failed",
		"endpoint", endpoint,
		"error", err,
		"window_start", w.StartMS,
		"window_end", w.EndMS,
	)
	return false
}

// transientFault reports whether a request error is worth repeating on the
// same URL. An upstream rejection is not: a signed request must be rebuilt
// with a fresh timestamp and signature first, which is windowFault's
// decision, not a transport retry.
func transientFault(err error) bool {
	var apiErr *APIError
	return !errors.As(err, &apiErr)
}

// get performs one GET request and returns the response body. Connection
// errors are retried with a short backoff; a non-2xx response is decoded
// into an *APIError and returned without retrying.
func (c *Client) get(ctx context.Context, path, query string) ([]byte, error) {
	url := c.baseURL + path
	if query != "" {
		url += "?" + query
	}

	var body []byte

	err := util.Retry(ctx, 2, 250*time.Millisecond, transientFault, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-MBX-APIKEY", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := &APIError{Status: resp.StatusCode}
			var envelope apiError
			if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil {
				apiErr.Code = envelope.Code
				apiErr.Msg = envelope.Msg
			}
			return apiErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}
