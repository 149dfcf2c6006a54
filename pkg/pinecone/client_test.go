package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-chat-be/pkg/store"
)

func TestClientQuery(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Api-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(QueryResponse{
			Namespace: "catalogo",
			Matches: []QueryMatch{
				{Id: "ref-1", Score: 0.91, Metadata: store.Metadata{"referencia": float64(12345678)}},
			},
		})
	}))
	defer srv.Close()

	idx := NewClient(srv.URL, "test-key")

	resp, err := idx.Query(context.Background(), &QueryRequest{
		Namespace:       "catalogo",
		Vector:          ZeroVector(4),
		TopK:            1,
		IncludeMetadata: true,
		Filter:          EqFilter("referencia", 12345678),
	})
	require.NoError(t, err)

	assert.Equal(t, "/query", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "catalogo", gotBody["namespace"])
	assert.Equal(t, float64(1), gotBody["topK"])
	assert.Equal(t, true, gotBody["includeMetadata"])

	filter, ok := gotBody["filter"].(map[string]interface{})
	require.True(t, ok)
	eq, ok := filter["referencia"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(12345678), eq["$eq"])

	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "ref-1", resp.Matches[0].Id)
	assert.InDelta(t, 0.91, resp.Matches[0].Score, 1e-9)
	assert.Equal(t, "12345678", resp.Matches[0].Metadata.Field("referencia"))
}

func TestClientUpsert(t *testing.T) {
	var gotPath string
	var gotBody upsertRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]int{"upsertedCount": 1})
	}))
	defer srv.Close()

	idx := NewClient(srv.URL, "test-key")

	err := idx.Upsert(context.Background(), "notas", []Vector{
		{Id: "doc-1", Values: []float32{0.1, 0.2}, Metadata: store.Metadata{"texto": "hola"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "/vectors/upsert", gotPath)
	assert.Equal(t, "notas", gotBody.Namespace)
	require.Len(t, gotBody.Vectors, 1)
	assert.Equal(t, "doc-1", gotBody.Vectors[0].Id)
}

func TestClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"namespace not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	idx := NewClient(srv.URL, "test-key")

	_, err := idx.Query(context.Background(), &QueryRequest{Vector: ZeroVector(2), TopK: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "namespace not found")
}

func TestZeroVector(t *testing.T) {
	v := ZeroVector(1536)
	assert.Len(t, v, 1536)
	for _, x := range v {
		if x != 0 {
			t.Fatal("zero vector must contain only zeros")
		}
	}
}
