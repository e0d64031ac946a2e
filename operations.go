package elastictiny

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/beowulf11/elastic-tiny-client/internal/querystring"
)

// Each operation method builds its resource path, serializes its own
// allow-list of options into the query string, assembles the JSON body and
// delegates to the dispatcher. Path parameters live in dedicated struct
// fields, so they never leak into the request body.

// SearchRequest executes a query against an index.
type SearchRequest struct {
	Index   string
	Version string // optional path segment between index and _search

	Q          string
	Routing    string
	Preference string
	Sort       string
	Scroll     string
	Explain    *bool
	From       *int
	Size       *int

	// Body carries the query DSL.
	Body any

	MaxAttempts int
}

func (r SearchRequest) pathAndQuery() string {
	path := "/" + url.PathEscape(r.Index)
	if r.Version != "" {
		path += "/" + url.PathEscape(r.Version)
	}
	path += "/_search"

	v := url.Values{}
	querystring.SetString(v, "q", r.Q)
	querystring.SetString(v, "routing", r.Routing)
	querystring.SetString(v, "preference", r.Preference)
	querystring.SetString(v, "sort", r.Sort)
	querystring.SetString(v, "scroll", r.Scroll)
	querystring.SetBool(v, "explain", r.Explain)
	querystring.SetInt(v, "from", r.From)
	querystring.SetInt(v, "size", r.Size)
	return path + querystring.Encode(v)
}

// Search runs a search. The response decodes into SearchResponse.
func (c *Client) Search(ctx context.Context, req SearchRequest) Envelope {
	body, errEnv := encodeBody(req.Body)
	if errEnv != nil {
		return *errEnv
	}
	return c.dispatch(ctx, req.pathAndQuery(), requestOptions{
		method:      http.MethodPost,
		operation:   "search",
		body:        body,
		maxAttempts: req.MaxAttempts,
	})
}

// GetRequest fetches a single document by ID.
type GetRequest struct {
	Index string
	ID    string

	Routing    string
	Preference string
	Source     string
	Realtime   *bool
	Refresh    *bool

	MaxAttempts int
}

func (r GetRequest) pathAndQuery() string {
	path := "/" + url.PathEscape(r.Index) + "/_doc/" + url.PathEscape(r.ID)

	v := url.Values{}
	querystring.SetString(v, "routing", r.Routing)
	querystring.SetString(v, "preference", r.Preference)
	querystring.SetString(v, "_source", r.Source)
	querystring.SetBool(v, "realtime", r.Realtime)
	querystring.SetBool(v, "refresh", r.Refresh)
	return path + querystring.Encode(v)
}

// Get retrieves a document. The response decodes into GetResponse.
func (c *Client) Get(ctx context.Context, req GetRequest) Envelope {
	return c.dispatch(ctx, req.pathAndQuery(), requestOptions{
		method:      http.MethodGet,
		operation:   "get",
		maxAttempts: req.MaxAttempts,
	})
}

// IndexRequest stores a document. Only Document is serialized into the
// body; ID is optional (the server assigns one when absent).
type IndexRequest struct {
	Index       string
	ID          string
	VersionType string // optional path segment between index and _doc

	Refresh  string
	Routing  string
	OpType   string
	Pipeline string
	Timeout  string

	Document any

	MaxAttempts int
}

func (r IndexRequest) pathAndQuery() string {
	path := "/" + url.PathEscape(r.Index)
	if r.VersionType != "" {
		path += "/" + url.PathEscape(r.VersionType)
	}
	path += "/_doc"
	if r.ID != "" {
		path += "/" + url.PathEscape(r.ID)
	}

	v := url.Values{}
	querystring.SetString(v, "refresh", r.Refresh)
	querystring.SetString(v, "routing", r.Routing)
	querystring.SetString(v, "op_type", r.OpType)
	querystring.SetString(v, "pipeline", r.Pipeline)
	querystring.SetString(v, "timeout", r.Timeout)
	return path + querystring.Encode(v)
}

// Index stores a document. The response decodes into DocWriteResponse.
func (c *Client) Index(ctx context.Context, req IndexRequest) Envelope {
	body, errEnv := encodeBody(req.Document)
	if errEnv != nil {
		return *errEnv
	}
	return c.dispatch(ctx, req.pathAndQuery(), requestOptions{
		method:      http.MethodPost,
		operation:   "index",
		body:        body,
		maxAttempts: req.MaxAttempts,
	})
}

// UpdateRequest applies a partial update or script to a document. Body
// carries the update payload ({"doc": ...} or {"script": ...}).
type UpdateRequest struct {
	Index string
	ID    string

	Refresh         string
	Routing         string
	Timeout         string
	RetryOnConflict *int

	Body any

	MaxAttempts int
}

func (r UpdateRequest) pathAndQuery() string {
	path := "/" + url.PathEscape(r.Index) + "/_update"
	if r.ID != "" {
		path += "/" + url.PathEscape(r.ID)
	}

	v := url.Values{}
	querystring.SetString(v, "refresh", r.Refresh)
	querystring.SetString(v, "routing", r.Routing)
	querystring.SetString(v, "timeout", r.Timeout)
	querystring.SetInt(v, "retry_on_conflict", r.RetryOnConflict)
	return path + querystring.Encode(v)
}

// Update modifies a document. The response decodes into DocWriteResponse.
func (c *Client) Update(ctx context.Context, req UpdateRequest) Envelope {
	body, errEnv := encodeBody(req.Body)
	if errEnv != nil {
		return *errEnv
	}
	return c.dispatch(ctx, req.pathAndQuery(), requestOptions{
		method:      http.MethodPost,
		operation:   "update",
		body:        body,
		maxAttempts: req.MaxAttempts,
	})
}

// ByQueryRequest drives UpdateByQuery and DeleteByQuery. Conflicts is
// forwarded exactly as supplied; leave it empty to use the server default.
type ByQueryRequest struct {
	Index string

	Conflicts         string
	Routing           string
	Scroll            string
	Refresh           *bool
	ScrollSize        *int
	WaitForCompletion *bool
	RequestsPerSecond *int

	Body any

	MaxAttempts int
}

func (r ByQueryRequest) pathAndQuery(suffix string) string {
	path := "/" + url.PathEscape(r.Index) + suffix

	v := url.Values{}
	querystring.SetString(v, "conflicts", r.Conflicts)
	querystring.SetString(v, "routing", r.Routing)
	querystring.SetString(v, "scroll", r.Scroll)
	querystring.SetBool(v, "refresh", r.Refresh)
	querystring.SetInt(v, "scroll_size", r.ScrollSize)
	querystring.SetBool(v, "wait_for_completion", r.WaitForCompletion)
	querystring.SetInt(v, "requests_per_second", r.RequestsPerSecond)
	return path + querystring.Encode(v)
}

// UpdateByQuery updates every document matching the body's query. The
// response decodes into ByQueryResponse.
func (c *Client) UpdateByQuery(ctx context.Context, req ByQueryRequest) Envelope {
	body, errEnv := encodeBody(req.Body)
	if errEnv != nil {
		return *errEnv
	}
	return c.dispatch(ctx, req.pathAndQuery("/_update_by_query"), requestOptions{
		method:      http.MethodPost,
		operation:   "update_by_query",
		body:        body,
		maxAttempts: req.MaxAttempts,
	})
}

// DeleteByQuery deletes every document matching the body's query. The
// response decodes into ByQueryResponse.
func (c *Client) DeleteByQuery(ctx context.Context, req ByQueryRequest) Envelope {
	body, errEnv := encodeBody(req.Body)
	if errEnv != nil {
		return *errEnv
	}
	return c.dispatch(ctx, req.pathAndQuery("/_delete_by_query"), requestOptions{
		method:      http.MethodPost,
		operation:   "delete_by_query",
		body:        body,
		maxAttempts: req.MaxAttempts,
	})
}

// DeleteRequest removes a single document by ID.
type DeleteRequest struct {
	Index string
	ID    string

	Refresh string
	Routing string
	Timeout string

	MaxAttempts int
}

func (r DeleteRequest) pathAndQuery() string {
	path := "/" + url.PathEscape(r.Index) + "/_doc/" + url.PathEscape(r.ID)

	v := url.Values{}
	querystring.SetString(v, "refresh", r.Refresh)
	querystring.SetString(v, "routing", r.Routing)
	querystring.SetString(v, "timeout", r.Timeout)
	return path + querystring.Encode(v)
}

// Delete removes a document. The response decodes into DocWriteResponse.
func (c *Client) Delete(ctx context.Context, req DeleteRequest) Envelope {
	return c.dispatch(ctx, req.pathAndQuery(), requestOptions{
		method:      http.MethodDelete,
		operation:   "delete",
		maxAttempts: req.MaxAttempts,
	})
}

// BulkRequest sends a newline-delimited sequence of action/document pairs.
// Each Body element is serialized independently; a trailing newline
// terminates the last line per the bulk wire contract.
type BulkRequest struct {
	Refresh  string
	Pipeline string
	Routing  string

	Body []any

	MaxAttempts int
}

func (r BulkRequest) pathAndQuery() string {
	v := url.Values{}
	querystring.SetString(v, "refresh", r.Refresh)
	querystring.SetString(v, "pipeline", r.Pipeline)
	querystring.SetString(v, "routing", r.Routing)
	return "/_bulk" + querystring.Encode(v)
}

// Bulk executes a bulk operation. The response decodes into BulkResponse.
func (c *Client) Bulk(ctx context.Context, req BulkRequest) Envelope {
	var buf bytes.Buffer
	for _, item := range req.Body {
		line, err := json.Marshal(item)
		if err != nil {
			return encodeFailure(err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return c.dispatch(ctx, req.pathAndQuery(), requestOptions{
		method:      http.MethodPost,
		operation:   "bulk",
		body:        buf.Bytes(),
		maxAttempts: req.MaxAttempts,
	})
}

// CountRequest counts documents matching a query.
type CountRequest struct {
	Index string

	Q          string
	Routing    string
	Preference string

	Body any

	MaxAttempts int
}

func (r CountRequest) pathAndQuery() string {
	path := "/" + url.PathEscape(r.Index) + "/_count"

	v := url.Values{}
	querystring.SetString(v, "q", r.Q)
	querystring.SetString(v, "routing", r.Routing)
	querystring.SetString(v, "preference", r.Preference)
	return path + querystring.Encode(v)
}

// Count counts matching documents. The response decodes into CountResponse.
func (c *Client) Count(ctx context.Context, req CountRequest) Envelope {
	body, errEnv := encodeBody(req.Body)
	if errEnv != nil {
		return *errEnv
	}
	return c.dispatch(ctx, req.pathAndQuery(), requestOptions{
		method:      http.MethodPost,
		operation:   "count",
		body:        body,
		maxAttempts: req.MaxAttempts,
	})
}

// CreateIndexRequest creates an index with optional settings and mappings.
type CreateIndexRequest struct {
	Index string

	Timeout             string
	WaitForActiveShards string

	Body any

	MaxAttempts int
}

func (r CreateIndexRequest) pathAndQuery() string {
	v := url.Values{}
	querystring.SetString(v, "timeout", r.Timeout)
	querystring.SetString(v, "wait_for_active_shards", r.WaitForActiveShards)
	return "/" + url.PathEscape(r.Index) + querystring.Encode(v)
}

// CreateIndex creates an index. The response decodes into
// AcknowledgedResponse.
func (c *Client) CreateIndex(ctx context.Context, req CreateIndexRequest) Envelope {
	body, errEnv := encodeBody(req.Body)
	if errEnv != nil {
		return *errEnv
	}
	return c.dispatch(ctx, req.pathAndQuery(), requestOptions{
		method:      http.MethodPut,
		operation:   "create_index",
		body:        body,
		maxAttempts: req.MaxAttempts,
	})
}

// DeleteIndexRequest removes an index.
type DeleteIndexRequest struct {
	Index string

	Timeout string

	MaxAttempts int
}

func (r DeleteIndexRequest) pathAndQuery() string {
	v := url.Values{}
	querystring.SetString(v, "timeout", r.Timeout)
	return "/" + url.PathEscape(r.Index) + querystring.Encode(v)
}

// DeleteIndex removes an index. The response decodes into
// AcknowledgedResponse.
func (c *Client) DeleteIndex(ctx context.Context, req DeleteIndexRequest) Envelope {
	return c.dispatch(ctx, req.pathAndQuery(), requestOptions{
		method:      http.MethodDelete,
		operation:   "delete_index",
		maxAttempts: req.MaxAttempts,
	})
}

// RefreshIndexRequest makes recent writes visible to search.
type RefreshIndexRequest struct {
	Index string

	MaxAttempts int
}

// RefreshIndex refreshes an index. The response decodes into
// ShardsResponse.
func (c *Client) RefreshIndex(ctx context.Context, req RefreshIndexRequest) Envelope {
	return c.dispatch(ctx, "/"+url.PathEscape(req.Index)+"/_refresh", requestOptions{
		method:      http.MethodPost,
		operation:   "refresh_index",
		maxAttempts: req.MaxAttempts,
	})
}

// ExistsIndex reports whether an index exists. A 404 surfaces as a Client
// error in the Envelope.
func (c *Client) ExistsIndex(ctx context.Context, index string) Envelope {
	return c.dispatch(ctx, "/"+url.PathEscape(index), requestOptions{
		method:    http.MethodHead,
		operation: "exists_index",
	})
}

// Ping fetches cluster info from the root endpoint, the standard
// liveness probe. The response decodes into PingResponse.
func (c *Client) Ping(ctx context.Context) Envelope {
	return c.dispatch(ctx, "/", requestOptions{
		method:    http.MethodGet,
		operation: "ping",
	})
}

// encodeBody serializes an operation body, mapping a marshal failure to a
// terminal Envelope. A nil body yields no payload.
func encodeBody(v any) ([]byte, *Envelope) {
	if v == nil {
		return nil, nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		env := encodeFailure(err)
		return nil, &env
	}
	return body, nil
}

func encodeFailure(err error) Envelope {
	return Envelope{
		Code: http.StatusInternalServerError,
		Err: &ClientError{
			Type:    ErrorTypeValidation,
			Message: "encoding request body",
			Cause:   err,
		},
	}
}
