package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"catalog-chat-be/pkg/store"
)

// Index is the slice of the Pinecone data plane the backend uses:
// similarity/filter queries and upserts, both namespace-scoped.
type Index interface {
	Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error)
	Upsert(ctx context.Context, namespace string, vectors []Vector) error
}

type Vector struct {
	Id       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata store.Metadata `json:"metadata,omitempty"`
}

type QueryRequest struct {
	Namespace       string                 `json:"namespace,omitempty"`
	Vector          []float32              `json:"vector"`
	TopK            int                    `json:"topK"`
	IncludeMetadata bool                   `json:"includeMetadata"`
	Filter          map[string]interface{} `json:"filter,omitempty"`
}

type QueryResponse struct {
	Matches   []QueryMatch `json:"matches"`
	Namespace string       `json:"namespace"`
}

type QueryMatch struct {
	Id       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata store.Metadata `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Namespace string   `json:"namespace,omitempty"`
	Vectors   []Vector `json:"vectors"`
}

// Client talks to a single Pinecone index host over its REST data plane.
type Client struct {
	host   string
	apiKey string
	client *http.Client
}

func NewClient(host, apiKey string) Index {
	if host != "" && !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	var result QueryResponse
	if err := c.post(ctx, "/query", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Upsert(ctx context.Context, namespace string, vectors []Vector) error {
	req := upsertRequest{
		Namespace: namespace,
		Vectors:   vectors,
	}
	return c.post(ctx, "/vectors/upsert", req, nil)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Api-Key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pinecone %s error: %s", path, string(bodyBytes))
	}

	if out != nil {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return err
		}
	}
	return nil
}

// EqFilter builds a metadata equality filter, e.g.
// {"referencia": {"$eq": 12345678}}.
func EqFilter(field string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		field: map[string]interface{}{"$eq": value},
	}
}

// ZeroVector is the placeholder used for filter-driven lookups where
// similarity is irrelevant.
func ZeroVector(dimension int) []float32 {
	return make([]float32, dimension)
}
