package aviation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yegors/flight-tracker/pkg/logger"
)

// maxBodyBytes bounds how much of an upstream response is read
const maxBodyBytes = 16 << 20

// Client calls the upstream flight-data REST API. Every call carries the
// access key as a query parameter and is bounded by the client timeout.
// Calls are never retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accessKey  string
	maxBody    int64
	logger     *logger.Logger
}

// NewClient creates a new upstream client
func NewClient(baseURL, accessKey string, timeout time.Duration, logger *logger.Logger) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		maxBody:   maxBodyBytes,
		logger:    logger.Named("aviation-cli"),
	}
}

// Get fetches a resource with the given query parameters. A non-2xx answer,
// a transport failure or a timeout is returned as *UpstreamError.
func (c *Client) Get(ctx context.Context, resource Resource, params url.Values) (*Envelope, error) {
	query := url.Values{}
	for key, values := range params {
		query[key] = append([]string(nil), values...)
	}
	query.Set("access_key", c.accessKey)

	endpoint := c.baseURL + "/" + string(resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "flight-tracker/1.0")

	// the access key never reaches the log
	c.logger.Debug("Fetching upstream resource",
		logger.String("resource", string(resource)),
		logger.String("params", params.Encode()),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Resource: resource, Err: redact(err, c.accessKey)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, &UpstreamError{
			Resource:   resource,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response body: %w", redact(err, c.accessKey)),
		}
	}
	if int64(len(body)) > c.maxBody {
		return nil, &UpstreamError{
			Resource:   resource,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response body exceeds %d bytes", c.maxBody),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			Resource:   resource,
			StatusCode: resp.StatusCode,
			Body:       body,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	envelope := &Envelope{Body: body}
	c.logger.Debug("Fetched upstream resource",
		logger.String("resource", string(resource)),
		logger.Int("status", resp.StatusCode),
		logger.Int("records", envelope.Count()),
		logger.Duration("duration", time.Since(start)),
	)

	return envelope, nil
}

// UpstreamError is a failed upstream call: the provider was unreachable,
// timed out or answered with a non-success status.
type UpstreamError struct {
	Resource   Resource
	StatusCode int    // zero when no response was received
	Body       []byte // response body of a non-success answer
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Resource, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call exceeded its deadline
func (e *UpstreamError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// Details returns the diagnostic payload for callers: the upstream body when
// the provider answered (as JSON when it is JSON), the error text otherwise.
func (e *UpstreamError) Details() any {
	if len(e.Body) > 0 {
		if json.Valid(e.Body) {
			return json.RawMessage(e.Body)
		}
		return string(e.Body)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return nil
}

// redact strips the access key out of transport errors, which embed the
// request URL.
func redact(err error, accessKey string) error {
	if err == nil || accessKey == "" {
		return err
	}
	msg := err.Error()
	escaped := url.QueryEscape(accessKey)
	if !strings.Contains(msg, accessKey) && !strings.Contains(msg, escaped) {
		return err
	}
	msg = strings.ReplaceAll(msg, accessKey, "REDACTED")
	msg = strings.ReplaceAll(msg, escaped, "REDACTED")
	return &redactedError{msg: msg, err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
