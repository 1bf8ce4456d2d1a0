package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Tasneem-netcode/TechSprint-App/internal/metrics"
	"github.com/sony/gobreaker/v2"
)

// StatusError is returned for a non-2xx upstream response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d - status: %s", e.Code, e.Status)
}

type RetryPolicy struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		MinWait:    200 * time.Millisecond,
		MaxWait:    2 * time.Second,
	}
}

// UpstreamClient wraps an *http.Client with a circuit breaker and bounded
// retries on 429 and 5xx. The breaker opens after six consecutive failures.
type UpstreamClient struct {
	name    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	retry   RetryPolicy
	sleep   func(context.Context, time.Duration) error
	metrics *metrics.Metrics
}

type UpstreamOption func(*UpstreamClient)

func WithRetryPolicy(p RetryPolicy) UpstreamOption {
	return func(c *UpstreamClient) { c.retry = p }
}

// WithSleepFunc replaces the wait between retries. Tests pass a no-op.
func WithSleepFunc(fn func(context.Context, time.Duration) error) UpstreamOption {
	return func(c *UpstreamClient) { c.sleep = fn }
}

func WithMetrics(m *metrics.Metrics) UpstreamOption {
	return func(c *UpstreamClient) { c.metrics = m }
}

// WithBreakerSettings overrides the breaker configuration. Name and
// OnStateChange are always set by the client.
func WithBreakerSettings(s gobreaker.Settings) UpstreamOption {
	return func(c *UpstreamClient) {
		c.breaker = c.newBreaker(s)
	}
}

func NewUpstreamClient(name string, timeout time.Duration, opts ...UpstreamOption) *UpstreamClient {
	c := &UpstreamClient{
		name:   name,
		client: &http.Client{Timeout: timeout},
		retry:  DefaultRetryPolicy(),
		sleep:  sleepContext,
	}
	c.breaker = c.newBreaker(gobreaker.Settings{
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *UpstreamClient) newBreaker(s gobreaker.Settings) *gobreaker.CircuitBreaker[*http.Response] {
	s.Name = c.name
	s.OnStateChange = func(name string, from, to gobreaker.State) {
		c.metrics.SetBreakerState(name, float64(to))
	}
	return gobreaker.NewCircuitBreaker[*http.Response](s)
}

func (c *UpstreamClient) Name() string {
	return c.name
}

// Do executes req through the breaker, retrying 429 and 5xx responses. Any
// other response is returned as-is and the caller closes the body.
func (c *UpstreamClient) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("error reading request body: %w", err)
		}
		req.Body.Close()
	}

	started := time.Now()
	defer func() { c.metrics.ObserveUpstream(c.name, time.Since(started)) }()

	var lastErr error
	attempts := 1 + c.retry.MaxRetries
	for attempt := 0; attempt < attempts; attempt++ {
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			req.ContentLength = int64(len(body))
		}

		resp, err := c.breaker.Execute(func() (*http.Response, error) {
			r, err := c.client.Do(req)
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
				return r, &StatusError{Code: r.StatusCode, Status: r.Status}
			}
			return r, nil
		})
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}
		if attempt == attempts-1 {
			if resp != nil {
				resp.Body.Close()
			}
			break
		}

		wait := c.backoff(attempt, resp)
		if resp != nil {
			resp.Body.Close()
		}
		if err := c.sleep(req.Context(), wait); err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
	}

	return nil, fmt.Errorf("%s: %w", c.name, redactURL(lastErr))
}

// redactURL drops the query string from transport errors, which carries API keys.
func redactURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if i := strings.IndexByte(uerr.URL, '?'); i >= 0 {
			uerr.URL = uerr.URL[:i]
		}
	}
	return err
}

// GetJSON issues a GET and decodes a 200 response into dest.
func (c *UpstreamClient) GetJSON(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	return c.DoJSON(req, dest)
}

// PostJSON encodes payload as the request body and decodes a 200 response into dest.
func (c *UpstreamClient) PostJSON(ctx context.Context, url string, payload, dest any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.DoJSON(req, dest)
}

// DoJSON sends a prepared request and decodes a 200 response into dest.
func (c *UpstreamClient) DoJSON(req *http.Request, dest any) error {
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("error decoding resp.Body: %w", err)
	}
	return nil
}

// backoff honours an integer Retry-After, otherwise exponential with jitter
// in [MinWait, min(MaxWait, MinWait*2^attempt)].
func (c *UpstreamClient) backoff(attempt int, resp *http.Response) time.Duration {
	if resp != nil {
		if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && s > 0 {
			return min(time.Duration(s)*time.Second, c.retry.MaxWait)
		}
	}
	base := min(float64(c.retry.MinWait)*math.Pow(2, float64(attempt)), float64(c.retry.MaxWait))
	lo := float64(c.retry.MinWait)
	if base <= lo {
		return c.retry.MinWait
	}
	return time.Duration(lo + rand.Float64()*(base-lo))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
