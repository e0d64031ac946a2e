package elastictiny

import (
	"net/http"
	"time"
)

// Client is a typed Elasticsearch client. It owns the parsed endpoint set
// and the default header set, and dispatches every operation through the
// same host-selection/retry loop. It is safe for concurrent use: headers
// are cloned per attempt, never mutated in place.
type Client struct {
	httpClient     *http.Client
	endpoints      []endpoint
	selector       Selector
	defaultHeaders http.Header
	maxAttempts    int
	retryPolicy    RetryPolicy
	middleware     []Middleware
	metrics        *MetricsCollector
	debug          *DebugConfig
	logger         Logger

	customHeaders map[string]string
	username      string
	password      string
	hasBasicAuth  bool
}

// Middleware wraps request execution for cross-cutting concerns. The last
// middleware added wraps the underlying transport first.
type Middleware func(req *http.Request, next RoundTripper) (*http.Response, error)

// RoundTripper is the transport seam the middleware chain terminates in.
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}

// RoundTripperFunc adapts a function to the RoundTripper interface.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Option represents a configuration option for New.
type Option func(*Client)

// New constructs a Client for the given endpoint set. The endpoint strings
// are parsed once; a malformed endpoint or an empty list is fatal. All
// other behavior is configured through functional options.
func New(hosts []string, options ...Option) (*Client, error) {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		selector:    NewRandomSelector(),
		maxAttempts: 1,
		retryPolicy: NewImmediateRetryPolicy(),
		middleware:  []Middleware{},
		debug:       DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	endpoints, err := parseEndpoints(hosts)
	if err != nil {
		return nil, err
	}
	client.endpoints = endpoints
	client.defaultHeaders = client.buildDefaultHeaders()

	if err := client.ValidateConfiguration(); err != nil {
		return nil, err
	}

	return client, nil
}

// buildDefaultHeaders assembles the header set shared by every request:
// the fixed content type, overlaid by caller-supplied custom headers,
// overlaid by the encoded client-level credential. Per-endpoint
// credentials are applied on a request-local clone at dispatch time and
// take precedence for the endpoints that carry them.
func (c *Client) buildDefaultHeaders() http.Header {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	for name, value := range c.customHeaders {
		headers.Set(name, value)
	}
	if c.hasBasicAuth {
		headers.Set("Authorization", BasicAuth(c.username, c.password))
	}
	return headers
}

// Endpoints returns the configured base URLs in configuration order.
func (c *Client) Endpoints() []string {
	urls := make([]string, len(c.endpoints))
	for i, ep := range c.endpoints {
		urls[i] = ep.baseURL()
	}
	return urls
}
