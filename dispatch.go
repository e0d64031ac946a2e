package elastictiny

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// requestOptions is the bundle an operation method hands to the dispatcher.
// operation names the logical call ("search", "bulk") and becomes the
// metrics label, so it must stay bounded: never a path with document IDs
// or index names in it.
type requestOptions struct {
	method      string
	operation   string
	body        []byte
	maxAttempts int // 0 means the client default
}

// dispatch executes one logical call against the endpoint set. Up to the
// attempt budget: select an endpoint, attach its credential on a
// request-local header clone, issue the request. Transport failures and
// non-2xx statuses are recorded and retried per the retry policy; a 2xx
// returns immediately. All failure funnels into the Envelope - dispatch
// never panics and never returns a bare error. When the attempt budget is
// spent without a success the terminal error wraps ErrAttemptsExhausted.
func (c *Client) dispatch(ctx context.Context, pathAndQuery string, opts requestOptions) Envelope {
	start := time.Now()
	maxAttempts := opts.maxAttempts
	if maxAttempts <= 0 {
		maxAttempts = c.maxAttempts
	}
	operation := opts.operation
	if operation == "" {
		operation = strings.ToLower(opts.method)
	}

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}
	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("Starting request", "requestID", requestID, "method", opts.method, "path", pathAndQuery, "maxAttempts", maxAttempts)
	}
	if c.metrics != nil {
		c.metrics.RecordRequestStart(opts.method, operation)
		defer c.metrics.RecordRequestEnd(opts.method, operation)
	}

	// Code keeps the 500 sentinel until a response is observed.
	env := Envelope{Code: http.StatusInternalServerError}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if c.debug != nil && c.debug.Enabled && c.debug.LogRetries && c.logger != nil {
				c.logger.Info("Retry attempt", "requestID", requestID, "attempt", attempt+1, "maxAttempts", maxAttempts, "operation", operation)
			}
			if c.metrics != nil {
				c.metrics.RecordRetry(opts.method, operation, attempt)
			}
		}

		ep := c.endpoints[c.selector.Select(len(c.endpoints))]
		if c.metrics != nil {
			c.metrics.RecordHostSelection(ep.host)
		}
		url := ep.baseURL() + pathAndQuery

		req, err := c.newRequest(ctx, opts.method, url, opts.body, ep.auth)
		if err != nil {
			env.Err = c.newClientError(ErrorTypeValidation, "building request", err, requestID, opts.method, url, 0, attempt, maxAttempts, start)
			break
		}

		resp, err := c.executeMiddleware(req)
		if err != nil {
			env.Err = c.newClientError(ErrorTypeNetwork, fmt.Sprintf("request to %s failed", url), err, requestID, opts.method, url, 0, attempt, maxAttempts, start)
			if c.metrics != nil {
				c.metrics.RecordError(ErrorTypeNetwork, opts.method, operation)
			}
			if !c.nextAttempt(ctx, 0, env.Err, attempt, maxAttempts) {
				if attempt+1 >= maxAttempts {
					env.Err = fmt.Errorf("%w: %w", ErrAttemptsExhausted, env.Err)
				}
				break
			}
			continue
		}

		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		env.Code = resp.StatusCode

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if readErr != nil || (len(raw) > 0 && !json.Valid(raw)) {
				// The server answered successfully; retrying cannot fix a
				// body we failed to decode.
				env.Data = nil
				env.Err = c.newClientError(ErrorTypeDecode, fmt.Sprintf("unreadable response body from %s", url), readErr, requestID, opts.method, url, resp.StatusCode, attempt, maxAttempts, start)
				if c.metrics != nil {
					c.metrics.RecordError(ErrorTypeDecode, opts.method, operation)
				}
				break
			}
			env.Data = raw
			env.Err = nil
			if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
				c.logger.Debug("Request succeeded", "requestID", requestID, "statusCode", resp.StatusCode, "attempt", attempt+1)
			}
			break
		}

		errType := errorTypeForStatus(resp.StatusCode)
		env.Err = c.newClientError(errType, fmt.Sprintf("request to %s returned status %d: %s", url, resp.StatusCode, truncateBody(raw)), nil, requestID, opts.method, url, resp.StatusCode, attempt, maxAttempts, start)
		if c.metrics != nil {
			c.metrics.RecordError(errType, opts.method, operation)
		}
		if !c.nextAttempt(ctx, resp.StatusCode, env.Err, attempt, maxAttempts) {
			if attempt+1 >= maxAttempts {
				env.Err = fmt.Errorf("%w: %w", ErrAttemptsExhausted, env.Err)
			}
			break
		}
	}

	if c.metrics != nil {
		c.metrics.RecordRequest(opts.method, operation, env.Code, time.Since(start))
	}
	if env.Err != nil && c.debug != nil && c.debug.Enabled && c.logger != nil {
		c.logger.Warn("Request failed", "requestID", requestID, "operation", operation, "code", env.Code, "error", env.Err.Error())
	}

	return env
}

// newRequest builds one attempt's request with a request-local header set:
// a clone of the defaults with the endpoint credential overlaid. The
// shared default header map is never written to.
func (c *Client) newRequest(ctx context.Context, method, url string, body []byte, endpointAuth string) (*http.Request, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	headers := c.defaultHeaders.Clone()
	if endpointAuth != "" {
		headers.Set("Authorization", endpointAuth)
	}
	req.Header = headers
	return req, nil
}

// nextAttempt consults the retry policy and sleeps through any requested
// delay. It returns false when the budget is spent, the policy declines,
// or the context is done.
func (c *Client) nextAttempt(ctx context.Context, statusCode int, err error, attempt, maxAttempts int) bool {
	if attempt+1 >= maxAttempts {
		return false
	}
	if ctx.Err() != nil {
		return false
	}
	delay, retry := c.retryPolicy.ShouldRetry(statusCode, err, attempt)
	if !retry {
		return false
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return false
		}
	}
	return true
}

func (c *Client) executeMiddleware(req *http.Request) (*http.Response, error) {
	if len(c.middleware) == 0 {
		return c.httpClient.Do(req)
	}

	current := RoundTripperFunc(c.httpClient.Do)

	for i := len(c.middleware) - 1; i >= 0; i-- {
		middleware := c.middleware[i]
		next := current
		current = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return middleware(r, next)
		})
	}

	return current.RoundTrip(req)
}

func (c *Client) newClientError(errorType, message string, cause error, requestID, method, url string, statusCode, attempt, maxAttempts int, start time.Time) *ClientError {
	return &ClientError{
		Type:        errorType,
		Message:     message,
		Cause:       cause,
		RequestID:   requestID,
		Method:      method,
		URL:         url,
		StatusCode:  statusCode,
		Attempt:     attempt,
		MaxAttempts: maxAttempts,
		Timestamp:   time.Now(),
		Duration:    time.Since(start),
	}
}

// truncateBody bounds error-message body excerpts.
func truncateBody(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
