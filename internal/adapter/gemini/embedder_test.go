package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/kwybro/cookbooks/internal/adapter/gemini"
)

func TestEmbedder_EmbedBatch(t *testing.T) {
	var gotTexts int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if requests, ok := body["requests"].([]interface{}); ok {
			gotTexts = len(requests)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": []map[string]interface{}{
				{"values": []float32{0.1, 0.2}},
				{"values": []float32{0.3, 0.4}},
			},
		})
	}))
	defer ts.Close()

	embedder, err := gemini.NewEmbedder(context.Background(), "test-key", "gemini-embedding-001",
		option.WithEndpoint(ts.URL))
	require.NoError(t, err)

	vectors, err := embedder.EmbedBatch(context.Background(), []string{"Pumpkin Soup - Soups", "Squash Salad"})
	require.NoError(t, err)
	assert.Equal(t, 2, gotTexts)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.2}, vectors[0])
	assert.Equal(t, []float32{0.3, 0.4}, vectors[1])
}

func TestEmbedder_EmptyInput(t *testing.T) {
	// No texts means no round trip.
	embedder, err := gemini.NewEmbedder(context.Background(), "test-key", "gemini-embedding-001")
	require.NoError(t, err)

	vectors, err := embedder.EmbedBatch(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestEmbedder_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	embedder, err := gemini.NewEmbedder(context.Background(), "test-key", "gemini-embedding-001",
		option.WithEndpoint(ts.URL))
	require.NoError(t, err)

	_, err = embedder.EmbedBatch(context.Background(), []string{"soup"})
	assert.Error(t, err)
}
