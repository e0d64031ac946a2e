package elastictiny

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// capturedRequest records what the server observed for one operation call.
type capturedRequest struct {
	method string
	path   string
	query  string
	body   string
}

func newCaptureClient(t *testing.T) (*Client, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.query = r.URL.RawQuery
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("Failed to read request body: %v", err)
		}
		captured.body = string(body)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{}`)); err != nil {
			t.Fatalf("Failed to write response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	client, err := New([]string{server.URL})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client, captured
}

func assertCaptured(t *testing.T, got *capturedRequest, method, path, query, body string) {
	t.Helper()
	if got.method != method {
		t.Errorf("Expected method %s, got %s", method, got.method)
	}
	if got.path != path {
		t.Errorf("Expected path %s, got %s", path, got.path)
	}
	if got.query != query {
		t.Errorf("Expected query %q, got %q", query, got.query)
	}
	if got.body != body {
		t.Errorf("Expected body %q, got %q", body, got.body)
	}
}

func TestSearchRequestShape(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.Search(context.Background(), SearchRequest{Index: "a", Q: "foo"})
	if env.Err != nil {
		t.Fatalf("Search returned error: %v", env.Err)
	}

	// The index name is consumed into the path only; the body stays empty
	// because no query DSL was supplied.
	assertCaptured(t, captured, "POST", "/a/_search", "q=foo", "")
}

func TestSearchWithVersionSegmentAndBody(t *testing.T) {
	client, captured := newCaptureClient(t)

	size := 10
	env := client.Search(context.Background(), SearchRequest{
		Index:   "a",
		Version: "v2",
		Size:    &size,
		Body:    map[string]any{"query": map[string]any{"match_all": map[string]any{}}},
	})
	if env.Err != nil {
		t.Fatalf("Search returned error: %v", env.Err)
	}

	assertCaptured(t, captured, "POST", "/a/v2/_search", "size=10", `{"query":{"match_all":{}}}`)
}

func TestGetRequestShape(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.Get(context.Background(), GetRequest{Index: "a", ID: "1", Routing: "shard7"})
	if env.Err != nil {
		t.Fatalf("Get returned error: %v", env.Err)
	}

	assertCaptured(t, captured, "GET", "/a/_doc/1", "routing=shard7", "")
}

func TestIndexSerializesDocumentOnly(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.Index(context.Background(), IndexRequest{
		Index:    "a",
		ID:       "1",
		Document: map[string]int{"x": 1},
	})
	if env.Err != nil {
		t.Fatalf("Index returned error: %v", env.Err)
	}

	// Index and ID must not leak into the body.
	assertCaptured(t, captured, "POST", "/a/_doc/1", "", `{"x":1}`)
}

func TestIndexWithoutID(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.Index(context.Background(), IndexRequest{
		Index:    "a",
		Refresh:  "wait_for",
		Document: map[string]int{"x": 1},
	})
	if env.Err != nil {
		t.Fatalf("Index returned error: %v", env.Err)
	}

	assertCaptured(t, captured, "POST", "/a/_doc", "refresh=wait_for", `{"x":1}`)
}

func TestUpdateRequestShape(t *testing.T) {
	client, captured := newCaptureClient(t)

	retries := 2
	env := client.Update(context.Background(), UpdateRequest{
		Index:           "a",
		ID:              "1",
		RetryOnConflict: &retries,
		Body:            map[string]any{"doc": map[string]int{"x": 2}},
	})
	if env.Err != nil {
		t.Fatalf("Update returned error: %v", env.Err)
	}

	assertCaptured(t, captured, "POST", "/a/_update/1", "retry_on_conflict=2", `{"doc":{"x":2}}`)
}

func TestUpdateByQueryConflictsIsCallerAuthoritative(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.UpdateByQuery(context.Background(), ByQueryRequest{
		Index:     "a",
		Conflicts: "abort",
		Body:      map[string]any{"script": map[string]string{"source": "ctx._source.x++"}},
	})
	if env.Err != nil {
		t.Fatalf("UpdateByQuery returned error: %v", env.Err)
	}

	assertCaptured(t, captured, "POST", "/a/_update_by_query", "conflicts=abort",
		`{"script":{"source":"ctx._source.x++"}}`)
}

func TestUpdateByQueryOmitsAbsentConflicts(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.UpdateByQuery(context.Background(), ByQueryRequest{Index: "a"})
	if env.Err != nil {
		t.Fatalf("UpdateByQuery returned error: %v", env.Err)
	}

	assertCaptured(t, captured, "POST", "/a/_update_by_query", "", "")
}

func TestDeleteRequestShape(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.Delete(context.Background(), DeleteRequest{Index: "a", ID: "1", Refresh: "true"})
	if env.Err != nil {
		t.Fatalf("Delete returned error: %v", env.Err)
	}

	assertCaptured(t, captured, "DELETE", "/a/_doc/1", "refresh=true", "")
}

func TestDeleteByQueryRequestShape(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.DeleteByQuery(context.Background(), ByQueryRequest{
		Index:     "a",
		Conflicts: "proceed",
		Body:      map[string]any{"query": map[string]any{"match_all": map[string]any{}}},
	})
	if env.Err != nil {
		t.Fatalf("DeleteByQuery returned error: %v", env.Err)
	}

	assertCaptured(t, captured, "POST", "/a/_delete_by_query", "conflicts=proceed",
		`{"query":{"match_all":{}}}`)
}

func TestBulkBodyFraming(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.Bulk(context.Background(), BulkRequest{
		Body: []any{
			map[string]any{"index": map[string]string{"_index": "a"}},
			map[string]int{"x": 1},
		},
	})
	if env.Err != nil {
		t.Fatalf("Bulk returned error: %v", env.Err)
	}

	// One JSON line per element, terminated by a trailing newline.
	want := "{\"index\":{\"_index\":\"a\"}}\n{\"x\":1}\n"
	assertCaptured(t, captured, "POST", "/_bulk", "", want)
}

func TestCountRequestShape(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.Count(context.Background(), CountRequest{Index: "a", Q: "x:1"})
	if env.Err != nil {
		t.Fatalf("Count returned error: %v", env.Err)
	}

	assertCaptured(t, captured, "POST", "/a/_count", "q=x%3A1", "")
}

func TestCreateIndexRequestShape(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.CreateIndex(context.Background(), CreateIndexRequest{
		Index: "a",
		Body:  map[string]any{"settings": map[string]int{"number_of_shards": 1}},
	})
	if env.Err != nil {
		t.Fatalf("CreateIndex returned error: %v", env.Err)
	}

	assertCaptured(t, captured, "PUT", "/a", "", `{"settings":{"number_of_shards":1}}`)
}

func TestDeleteIndexRequestShape(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.DeleteIndex(context.Background(), DeleteIndexRequest{Index: "a", Timeout: "30s"})
	if env.Err != nil {
		t.Fatalf("DeleteIndex returned error: %v", env.Err)
	}

	assertCaptured(t, captured, "DELETE", "/a", "timeout=30s", "")
}

func TestRefreshIndexRequestShape(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.RefreshIndex(context.Background(), RefreshIndexRequest{Index: "a"})
	if env.Err != nil {
		t.Fatalf("RefreshIndex returned error: %v", env.Err)
	}

	assertCaptured(t, captured, "POST", "/a/_refresh", "", "")
}

func TestExistsIndex(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.ExistsIndex(context.Background(), "a")
	if env.Err != nil {
		t.Fatalf("ExistsIndex returned error: %v", env.Err)
	}
	if captured.method != "HEAD" || captured.path != "/a" {
		t.Errorf("Expected HEAD /a, got %s %s", captured.method, captured.path)
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || r.URL.Path != "/" {
			t.Errorf("Expected GET /, got %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"cluster_name":"test","version":{"number":"8.13.0"}}`)); err != nil {
			t.Fatalf("Failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client, err := New([]string{server.URL})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	info, err := Into[PingResponse](client.Ping(context.Background()))
	if err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
	if info.ClusterName != "test" || info.Version.Number != "8.13.0" {
		t.Errorf("Unexpected ping response: %+v", info)
	}
}

func TestOperationEscapesPathParameters(t *testing.T) {
	client, captured := newCaptureClient(t)

	env := client.Get(context.Background(), GetRequest{Index: "logs-2024", ID: "a/b"})
	if env.Err != nil {
		t.Fatalf("Get returned error: %v", env.Err)
	}
	if captured.path != "/logs-2024/_doc/a/b" && captured.path != "/logs-2024/_doc/a%2Fb" {
		t.Errorf("Unexpected escaped path %q", captured.path)
	}
}

func TestOperationUnencodableBody(t *testing.T) {
	client, _ := newCaptureClient(t)

	env := client.Search(context.Background(), SearchRequest{Index: "a", Body: make(chan int)})
	if env.Err == nil {
		t.Fatal("Expected encoding failure envelope")
	}
	if env.Code != http.StatusInternalServerError {
		t.Errorf("Expected sentinel code 500, got %d", env.Code)
	}
}

func TestOperationMaxAttemptsOverride(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := New([]string{server.URL}) // default budget of 1
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	env := client.Search(context.Background(), SearchRequest{Index: "a", MaxAttempts: 3})
	if env.Err == nil {
		t.Fatal("Expected error envelope")
	}
	if calls != 3 {
		t.Errorf("Expected per-request budget of 3 attempts, got %d", calls)
	}
}
