// pkg/fetcher/fetcher.go
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultUserAgent = "speller/1.0 (+https://github.com/NivBraz/speller)"

// StatusError reports a response that will not succeed on retry.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d fetching %s", e.StatusCode, e.URL)
}

type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	config  FetcherConfig
}

type FetcherConfig struct {
	RequestsPerSecond int
	Burst             int
	Timeout           time.Duration
	UserAgent         string
	// MaxRetries of zero means the default of 3; negative disables retries.
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// MaxBodyBytes bounds a single response body. Zero means no bound.
	MaxBodyBytes int64
}

func New(config FetcherConfig) *Fetcher {
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = 1 * time.Second
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
			},
		},
		limiter: rate.NewLimiter(limit, config.Burst),
		config:  config,
	}
}

func (f *Fetcher) calculateBackoff(attempt int) time.Duration {
	backoff := float64(f.config.InitialBackoff)
	max := float64(f.config.MaxBackoff)
	calculated := math.Min(backoff*math.Pow(2, float64(attempt)), max)

	// Add jitter (-20%..+20%)
	jitter := calculated * (0.8 + rand.Float64()*0.4)
	return time.Duration(jitter)
}

// BasicFetch performs a single GET with no rate limiting or retries.
// Any status other than 200 is returned as a *StatusError.
func (f *Fetcher) BasicFetch(ctx context.Context, urlStr string) ([]byte, error) {
	req, err := f.newRequest(ctx, urlStr)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: urlStr, StatusCode: resp.StatusCode}
	}

	body, err := f.readBody(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	return body, nil
}

func (f *Fetcher) newRequest(ctx context.Context, urlStr string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/plain,text/html,text/markdown;q=0.9,*/*;q=0.8")
	return req, nil
}

// Fetch GETs urlStr, waiting on the rate limiter before every attempt.
// Rate limited and server error responses are retried with exponential backoff.
// A negative MaxRetries makes a single BasicFetch attempt.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) ([]byte, error) {
	if f.config.MaxRetries < 0 {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}
		return f.BasicFetch(ctx, urlStr)
	}

	var lastErr error

	for attempt := 0; attempt <= f.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := f.calculateBackoff(attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		// Wait for rate limiter
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := f.newRequest(ctx, urlStr)
		if err != nil {
			return nil, err
		}

		resp, err := f.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("request canceled: %w", ctx.Err())
			}
			lastErr = fmt.Errorf("request error (attempt %d): %w", attempt+1, err)
			continue
		}

		// Handle different status codes
		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := f.readBody(resp.Body)
			resp.Body.Close()
			if err != nil {
				lastErr = fmt.Errorf("error reading response body: %w", err)
				continue
			}
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, &StatusError{URL: urlStr, StatusCode: resp.StatusCode})
			continue

		default:
			resp.Body.Close()
			return nil, &StatusError{URL: urlStr, StatusCode: resp.StatusCode}
		}
	}

	return nil, fmt.Errorf("giving up after %d attempts: %w", f.config.MaxRetries+1, lastErr)
}

func (f *Fetcher) readBody(body io.Reader) ([]byte, error) {
	if f.config.MaxBodyBytes <= 0 {
		return io.ReadAll(body)
	}
	data, err := io.ReadAll(io.LimitReader(body, f.config.MaxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.config.MaxBodyBytes {
		return nil, errors.New("response body exceeds size limit")
	}
	return data, nil
}
