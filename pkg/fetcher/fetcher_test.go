package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config FetcherConfig
	}{
		{
			name:   "Zero Configuration",
			config: FetcherConfig{},
		},
		{
			name: "Custom Configuration",
			config: FetcherConfig{
				RequestsPerSecond: 5,
				Burst:             3,
				Timeout:           10 * time.Second,
				MaxRetries:        3,
				InitialBackoff:    2 * time.Second,
				MaxBackoff:        60 * time.Second,
				UserAgent:         "test-agent",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.config)
			if f == nil {
				t.Fatal("New() returned nil")
			}
			if f.client == nil {
				t.Error("HTTP client is nil")
			}
			if f.limiter == nil {
				t.Error("Rate limiter is nil")
			}
			if f.config.UserAgent == "" {
				t.Error("User agent is empty")
			}
			if f.limiter.Burst() < 1 {
				t.Errorf("Expected burst >= 1, got %d", f.limiter.Burst())
			}
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	config := FetcherConfig{
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
	}
	f := New(config)

	tests := []struct {
		name        string
		attempt     int
		minExpected time.Duration
		maxExpected time.Duration
	}{
		{
			name:        "First Attempt",
			attempt:     0,
			minExpected: 800 * time.Millisecond,  // 80% of 1s
			maxExpected: 1200 * time.Millisecond, // 120% of 1s
		},
		{
			name:        "Second Attempt",
			attempt:     1,
			minExpected: 1600 * time.Millisecond, // 80% of 2s
			maxExpected: 2400 * time.Millisecond, // 120% of 2s
		},
		{
			name:        "Max Backoff",
			attempt:     10,               // Should hit max
			minExpected: 24 * time.Second, // 80% of max
			maxExpected: 36 * time.Second, // 120% of max
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Run multiple times to account for randomness
			for i := 0; i < 10; i++ {
				backoff := f.calculateBackoff(tt.attempt)
				if backoff < tt.minExpected || backoff > tt.maxExpected {
					t.Errorf("Expected backoff between %v and %v, got %v",
						tt.minExpected, tt.maxExpected, backoff)
				}
			}
		})
	}
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name          string
		statusCodes   []int
		responseBody  string
		expectedError bool
		wantRequests  int32
		config        FetcherConfig
	}{
		{
			name:         "Successful Request",
			statusCodes:  []int{http.StatusOK},
			responseBody: "Hello, World!",
			wantRequests: 1,
			config: FetcherConfig{
				MaxRetries:        1,
				RequestsPerSecond: 10,
				Burst:             5,
				InitialBackoff:    10 * time.Millisecond,
			},
		},
		{
			name:         "Rate Limited Then Success",
			statusCodes:  []int{http.StatusTooManyRequests, http.StatusOK},
			responseBody: "Success after retry",
			wantRequests: 2,
			config: FetcherConfig{
				MaxRetries:        2,
				RequestsPerSecond: 10,
				Burst:             5,
				InitialBackoff:    10 * time.Millisecond,
			},
		},
		{
			name:          "All Requests Fail",
			statusCodes:   []int{http.StatusInternalServerError, http.StatusInternalServerError},
			responseBody:  "Error",
			expectedError: true,
			wantRequests:  2,
			config: FetcherConfig{
				MaxRetries:        1,
				RequestsPerSecond: 10,
				Burst:             5,
				InitialBackoff:    10 * time.Millisecond,
			},
		},
		{
			name:          "Not Found Is Not Retried",
			statusCodes:   []int{http.StatusNotFound},
			expectedError: true,
			wantRequests:  1,
			config: FetcherConfig{
				MaxRetries:     3,
				InitialBackoff: 10 * time.Millisecond,
			},
		},
		{
			name:          "Retries Disabled",
			statusCodes:   []int{http.StatusServiceUnavailable, http.StatusOK},
			expectedError: true,
			wantRequests:  1,
			config: FetcherConfig{
				MaxRetries:     -1,
				InitialBackoff: 10 * time.Millisecond,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				// Verify headers
				if ua := r.Header.Get("User-Agent"); ua == "" {
					t.Error("User-Agent header not set")
				}
				if accept := r.Header.Get("Accept"); accept == "" {
					t.Error("Accept header not set")
				}

				n := atomic.AddInt32(&requests, 1) - 1
				if int(n) >= len(tt.statusCodes) {
					n = int32(len(tt.statusCodes) - 1)
				}
				w.WriteHeader(tt.statusCodes[n])
				if tt.statusCodes[n] == http.StatusOK {
					io.WriteString(w, tt.responseBody)
				}
			}))
			defer server.Close()

			f := New(tt.config)
			body, err := f.Fetch(context.Background(), server.URL)

			if tt.expectedError {
				if err == nil {
					t.Error("Expected error but got none")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if string(body) != tt.responseBody {
					t.Errorf("Expected body %q, got %q", tt.responseBody, string(body))
				}
			}
			if got := atomic.LoadInt32(&requests); got != tt.wantRequests {
				t.Errorf("Expected %d requests, got %d", tt.wantRequests, got)
			}
		})
	}
}

func TestFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	_, err := New(FetcherConfig{}).Fetch(context.Background(), server.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusGone {
		t.Errorf("Expected status %d, got %d", http.StatusGone, statusErr.StatusCode)
	}
}

func TestFetchBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, strings.Repeat("w", 64))
	}))
	defer server.Close()

	f := New(FetcherConfig{MaxBodyBytes: 16, MaxRetries: 1, InitialBackoff: time.Millisecond})
	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Error("Expected size limit error but got none")
	}
}

func TestBasicFetch(t *testing.T) {
	tests := []struct {
		name          string
		responseBody  string
		statusCode    int
		expectedError bool
	}{
		{
			name:          "Successful Request",
			responseBody:  "Basic fetch response",
			statusCode:    http.StatusOK,
			expectedError: false,
		},
		{
			name:          "Server Error",
			responseBody:  "Internal Server Error",
			statusCode:    http.StatusInternalServerError,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				io.WriteString(w, tt.responseBody)
			}))
			defer server.Close()

			f := New(FetcherConfig{})
			body, err := f.BasicFetch(context.Background(), server.URL)

			if tt.expectedError {
				if err == nil {
					t.Error("Expected error but got none")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if string(body) != tt.responseBody {
					t.Errorf("Expected body %q, got %q", tt.responseBody, string(body))
				}
			}
		})
	}
}

func TestFetchWithContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		io.WriteString(w, "Delayed response")
	}))
	defer server.Close()

	f := New(FetcherConfig{
		RequestsPerSecond: 10,
		Burst:             5,
		InitialBackoff:    100 * time.Millisecond,
	})

	// Test context cancellation
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, server.URL)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context deadline exceeded error, got: %v", err)
	}
}
