package finnhub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/guttosm/quotepulse/internal/domain/models"
)

// statusOK is the marker Finnhub sets in "s" when candles were returned.
const statusOK = "ok"

// TokenHeader carries the API key. The key never goes into the URL, which
// net/http repeats in transport errors.
const TokenHeader = "X-Finnhub-Token"

// ErrMalformed reports a candle payload that could not be used.
var ErrMalformed = errors.New("malformed candle response")

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.Code)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.Code, e.Body)
}

// Candles fetches the candle series for one symbol and normalizes it.
// The token is sent in the TokenHeader header.
//
// Errors:
//   - *StatusError for non-2xx responses.
//   - ErrMalformed (wrapped) when the body fails Decode.
//   - transport and context errors as returned by the HTTP client.
func (c *Client) Candles(ctx context.Context, token, symbol string, q models.CandleQuery) (*models.SymbolResult, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("resolution", string(q.Resolution))
	query.Set("from", strconv.FormatInt(q.From.Unix(), 10))
	query.Set("to", strconv.FormatInt(q.To.Unix(), 10))

	endpoint := fmt.Sprintf("%s/stock/candle?%s", strings.TrimRight(c.baseURL, "/"), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(TokenHeader, token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	candles, err := Decode(res.Body)
	if err != nil {
		return nil, err
	}
	return candles.Result(), nil
}
