package presenter

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yegors/flight-tracker/internal/aviation"
	"github.com/yegors/flight-tracker/pkg/logger"
)

const maxResponseBytes = 16 << 20

// Query holds the user-supplied filter fields of a view. Empty fields are
// never sent.
type Query struct {
	Status     string
	Airline    string
	FlightIATA string
	Search     string
	Limit      string
}

// Values encodes the non-empty fields with the proxy's parameter names
func (q Query) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			values.Set(key, value)
		}
	}
	set("limit", q.Limit)
	set("flight_status", q.Status)
	set("airline", q.Airline)
	set("flight_iata", q.FlightIATA)
	set("search", q.Search)
	return values
}

// Fetcher issues one request against the proxy
type Fetcher interface {
	Fetch(ctx context.Context, path string, query url.Values) (*aviation.Envelope, error)
}

// StatusError is a non-2xx answer from the proxy
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("proxy returned status %d", e.StatusCode)
}

// Client talks to a running proxy server
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxBody    int64
	logger     *logger.Logger
}

// NewClient creates a new proxy client
func NewClient(baseURL string, timeout time.Duration, logger *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		maxBody: maxResponseBytes,
		logger:  logger.Named("presenter-cli"),
	}
}

// Fetch requests path with the given query. Only a 2xx answer is a success.
func (c *Client) Fetch(ctx context.Context, path string, query url.Values) (*aviation.Envelope, error) {
	target := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching from proxy", logger.String("url", target))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach proxy: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("proxy response exceeds %d bytes", c.maxBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	return &aviation.Envelope{Body: body}, nil
}
