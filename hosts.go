package elastictiny

import (
	"fmt"
	"math/rand"
	"net/url"
	"sync/atomic"
)

// endpoint is one configured Elasticsearch node. The authorization value is
// precomputed at parse time when the endpoint URL embeds both a username
// and a password. Endpoints are immutable for the lifetime of the client.
type endpoint struct {
	scheme string
	host   string // host or host:port
	auth   string // "Basic ..." or empty
}

func (e endpoint) baseURL() string {
	return e.scheme + "://" + e.host
}

// parseEndpoints resolves the configured endpoint strings into endpoints.
// A malformed endpoint string is fatal: the client cannot be constructed.
func parseEndpoints(hosts []string) ([]endpoint, error) {
	if len(hosts) == 0 {
		return nil, ErrNoHosts
	}

	endpoints := make([]endpoint, 0, len(hosts))
	for _, h := range hosts {
		u, err := url.Parse(h)
		if err != nil {
			return nil, &ClientError{
				Type:    ErrorTypeValidation,
				Message: fmt.Sprintf("invalid endpoint %q", h),
				Cause:   err,
			}
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, &ClientError{
				Type:    ErrorTypeValidation,
				Message: fmt.Sprintf("endpoint %q must include scheme and host", h),
			}
		}

		ep := endpoint{scheme: u.Scheme, host: u.Host}
		if u.User != nil {
			password, hasPassword := u.User.Password()
			if username := u.User.Username(); username != "" && hasPassword {
				ep.auth = BasicAuth(username, password)
			}
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints, nil
}

// Selector chooses which of n configured endpoints serves one attempt.
// Implementations must be safe for concurrent use.
type Selector interface {
	Select(n int) int
}

// randomSelector picks uniformly at random on every attempt, with no
// stickiness and no memory of failed hosts.
type randomSelector struct{}

// NewRandomSelector returns the default uniform random host selector.
func NewRandomSelector() Selector {
	return randomSelector{}
}

func (randomSelector) Select(n int) int {
	if n <= 1 {
		return 0
	}
	return rand.Intn(n)
}

// roundRobinSelector rotates through the endpoints in order.
type roundRobinSelector struct {
	next atomic.Uint64
}

// NewRoundRobinSelector returns a selector that cycles the configured
// endpoints in order instead of picking at random.
func NewRoundRobinSelector() Selector {
	return &roundRobinSelector{}
}

func (s *roundRobinSelector) Select(n int) int {
	if n <= 1 {
		return 0
	}
	return int((s.next.Add(1) - 1) % uint64(n))
}
