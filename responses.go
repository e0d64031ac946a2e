package elastictiny

import "encoding/json"

// Typed wire shapes for the operations' responses. Decode an Envelope into
// one of these with DecodeInto or Into.

// Shards summarizes shard-level execution of a request.
type Shards struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// Hit is one matching document in a search response.
type Hit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Score  *float64        `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// SearchResponse is the body of a search call.
type SearchResponse struct {
	Took     int    `json:"took"`
	TimedOut bool   `json:"timed_out"`
	Shards   Shards `json:"_shards"`
	Hits     struct {
		Total struct {
			Value    int    `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []Hit    `json:"hits"`
	} `json:"hits"`
}

// GetResponse is the body of a document get.
type GetResponse struct {
	Index   string          `json:"_index"`
	ID      string          `json:"_id"`
	Version int             `json:"_version"`
	Found   bool            `json:"found"`
	Source  json.RawMessage `json:"_source"`
}

// DocWriteResponse is the body of index/update/delete document calls.
type DocWriteResponse struct {
	Index   string `json:"_index"`
	ID      string `json:"_id"`
	Version int    `json:"_version"`
	Result  string `json:"result"`
	Shards  Shards `json:"_shards"`
	SeqNo   int    `json:"_seq_no"`
}

// BulkResponse is the body of a bulk call.
type BulkResponse struct {
	Took   int                          `json:"took"`
	Errors bool                         `json:"errors"`
	Items  []map[string]json.RawMessage `json:"items"`
}

// CountResponse is the body of a count call.
type CountResponse struct {
	Count  int    `json:"count"`
	Shards Shards `json:"_shards"`
}

// ByQueryResponse is the body of update-by-query and delete-by-query.
type ByQueryResponse struct {
	Took             int                      `json:"took"`
	TimedOut         bool                     `json:"timed_out"`
	Total            int                      `json:"total"`
	Updated          int                      `json:"updated"`
	Deleted          int                      `json:"deleted"`
	Batches          int                      `json:"batches"`
	VersionConflicts int                      `json:"version_conflicts"`
	Failures         []map[string]interface{} `json:"failures"`
}

// AcknowledgedResponse is the body of index create/delete calls.
type AcknowledgedResponse struct {
	Acknowledged       bool   `json:"acknowledged"`
	ShardsAcknowledged bool   `json:"shards_acknowledged"`
	Index              string `json:"index"`
}

// ShardsResponse is the body of a refresh call.
type ShardsResponse struct {
	Shards Shards `json:"_shards"`
}

// PingResponse is the body of the root cluster-info call.
type PingResponse struct {
	Name        string `json:"name"`
	ClusterName string `json:"cluster_name"`
	Version     struct {
		Number string `json:"number"`
	} `json:"version"`
	Tagline string `json:"tagline"`
}
