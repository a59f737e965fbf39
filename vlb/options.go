package vlb

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production VLB API root
	DefaultBaseURL = "https://api.vlb.de/api/v1"
	// DefaultUserAgent identifies this client to VLB
	DefaultUserAgent = "vlbgo"
	// DefaultTimeout is the HTTP client timeout
	DefaultTimeout = 30 * time.Second
	// DefaultConcurrency bounds GetProducts fan-out
	DefaultConcurrency = 4
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	userAgent   string
	limiter     *rate.Limiter
	concurrency int
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:     DefaultBaseURL,
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
		concurrency: DefaultConcurrency,
	}
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client. WithTimeout is ignored when set.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithRateLimit throttles outgoing requests to rps per second. A non-positive
// rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *clientOptions) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithConcurrency sets how many lookups GetProducts runs in parallel.
func WithConcurrency(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
