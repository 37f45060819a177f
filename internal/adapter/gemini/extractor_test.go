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
	"github.com/kwybro/cookbooks/internal/pipeline"
)

func extractionServer(t *testing.T, entriesJSON string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]interface{}{
							{"text": entriesJSON},
						},
					},
				},
			},
		})
	}))
}

func TestExtractor_Extract(t *testing.T) {
	ts := extractionServer(t, `[
		{"name": "Pumpkin Soup", "page_start": 12, "page_end": 14, "category": "Soups"},
		{"name": "Squash Salad", "page_start": 30, "page_end": null, "category": null}
	]`)
	defer ts.Close()

	extractor, err := gemini.NewExtractor(context.Background(), "test-key", "gemini-2.5-flash",
		option.WithEndpoint(ts.URL))
	require.NoError(t, err)

	entries, err := extractor.Extract(context.Background(), []byte("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Pumpkin Soup", entries[0].Name)
	assert.Equal(t, 12, entries[0].PageStart)
	assert.Equal(t, 14, *entries[0].PageEnd)
	assert.Equal(t, "Soups", *entries[0].Category)

	assert.Equal(t, "Squash Salad", entries[1].Name)
	assert.Nil(t, entries[1].PageEnd)
	assert.Nil(t, entries[1].Category)
}

func TestExtractor_EmptyPage(t *testing.T) {
	ts := extractionServer(t, `[]`)
	defer ts.Close()

	extractor, err := gemini.NewExtractor(context.Background(), "test-key", "gemini-2.5-flash",
		option.WithEndpoint(ts.URL))
	require.NoError(t, err)

	entries, err := extractor.Extract(context.Background(), []byte("jpeg bytes"), "image/jpeg")
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtractor_MalformedOutput(t *testing.T) {
	ts := extractionServer(t, `this is not json`)
	defer ts.Close()

	extractor, err := gemini.NewExtractor(context.Background(), "test-key", "gemini-2.5-flash",
		option.WithEndpoint(ts.URL))
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), []byte("jpeg bytes"), "image/jpeg")
	assert.ErrorIs(t, err, pipeline.ErrExtractionFailed)
}

func TestExtractor_NoCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer ts.Close()

	extractor, err := gemini.NewExtractor(context.Background(), "test-key", "gemini-2.5-flash",
		option.WithEndpoint(ts.URL))
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), []byte("jpeg bytes"), "image/jpeg")
	assert.ErrorIs(t, err, pipeline.ErrExtractionFailed)
}

func TestExtractor_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "internal"}}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	extractor, err := gemini.NewExtractor(context.Background(), "test-key", "gemini-2.5-flash",
		option.WithEndpoint(ts.URL))
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), []byte("jpeg bytes"), "image/jpeg")
	assert.ErrorIs(t, err, pipeline.ErrExtractionFailed)
}
