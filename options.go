package elastictiny

import (
	"fmt"
	"net/http"
	"time"
)

// WithHeaders overlays custom headers onto the default header set. A
// caller-supplied Content-Type replaces the built-in application/json.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		if c.customHeaders == nil {
			c.customHeaders = make(map[string]string, len(headers))
		}
		for name, value := range headers {
			c.customHeaders[name] = value
		}
	}
}

// WithBasicAuth sets the client-level credential. Endpoints whose URL
// embeds its own credential keep precedence over this one.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
		c.hasBasicAuth = true
	}
}

// WithMaxAttempts sets the default attempt budget per logical call. The
// default of 1 means no retry; individual requests may override it.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		c.maxAttempts = n
	}
}

// WithRetryPolicy sets the policy consulted between failed attempts.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retryPolicy = policy
	}
}

// WithSelector sets the host selection strategy.
func WithSelector(selector Selector) Option {
	return func(c *Client) {
		c.selector = selector
	}
}

// WithRoundRobinSelection switches host selection from uniform random to
// round-robin.
func WithRoundRobinSelection() Option {
	return func(c *Client) {
		c.selector = NewRoundRobinSelector()
	}
}

// WithHTTPClient sets a custom HTTP client, e.g. one with a tuned
// transport or timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-attempt HTTP timeout. A transport timeout
// counts as a failed attempt against the budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.httpClient != nil {
			c.httpClient.Timeout = d
		}
	}
}

// WithMiddleware adds middleware to the client. Middleware also serves as
// the seam for stubbing the transport in tests.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithMetrics enables Prometheus metrics collection on the default
// registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables debug logging with the default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets a custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithSimpleLogger enables debug logging with a plain console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// ValidateConfiguration checks the assembled configuration. New runs it
// after applying options and fails construction on any violation.
func (c *Client) ValidateConfiguration() error {
	var errors []string

	if len(c.endpoints) == 0 {
		errors = append(errors, "at least one endpoint is required")
	}
	if c.maxAttempts < 1 {
		errors = append(errors, "maxAttempts must be at least 1")
	}
	if c.retryPolicy == nil {
		errors = append(errors, "retryPolicy cannot be nil")
	}
	if c.selector == nil {
		errors = append(errors, "selector cannot be nil")
	}
	if c.httpClient == nil {
		errors = append(errors, "HTTP client cannot be nil")
	}
	for i, middleware := range c.middleware {
		if middleware == nil {
			errors = append(errors, fmt.Sprintf("middleware[%d] cannot be nil", i))
		}
	}
	if c.debug != nil && c.debug.Enabled {
		if c.debug.RequestIDGen == nil {
			errors = append(errors, "debug RequestIDGen must be set when debug is enabled")
		}
		if c.logger == nil {
			errors = append(errors, "logger must be set when debug is enabled")
		}
	}
	if c.maxAttempts > 100 {
		errors = append(errors, "maxAttempts > 100 may cause excessive resource usage")
	}

	if len(errors) > 0 {
		return &ClientError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", errors),
		}
	}

	return nil
}
