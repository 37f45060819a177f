package pipeline

import (
	"context"
	"errors"

	"github.com/kwybro/cookbooks/features/recipe"
)

var (
	// ErrExtractionFailed covers malformed or missing model output.
	ErrExtractionFailed = errors.New("recipe extraction failed")
	// ErrEmbeddingUnavailable is returned when the embedding service
	// produced no synchronous vectors.
	ErrEmbeddingUnavailable = errors.New("embedding service returned no vectors")
	// ErrVectorCountMismatch means embeddings and recipes diverged in
	// length. This indicates a bug, not a recoverable condition.
	ErrVectorCountMismatch = errors.New("embedding count does not match recipe count")
)

// Task identifies one pipeline run. The run id keys the checkpoint
// log, so a redelivered task resumes instead of redoing work.
type Task struct {
	RunID         string `json:"run_id"`
	IndexImageID  string `json:"index_image_id"`
	BookID        string `json:"book_id"`
	StorageKey    string `json:"storage_key"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// ExtractedEntry is one recipe entry as read off the index page.
type ExtractedEntry struct {
	Name      string  `json:"name"`
	PageStart int     `json:"page_start"`
	PageEnd   *int    `json:"page_end"`
	Category  *string `json:"category"`
}

// VectorRecord is one recipe embedding destined for the vector index.
type VectorRecord struct {
	RecipeID string
	BookID   string
	UserID   string
	Name     string
	Vector   []float32
}

type Extractor interface {
	Extract(ctx context.Context, image []byte, contentType string) ([]ExtractedEntry, error)
}

type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type VectorIndex interface {
	Upsert(ctx context.Context, records []VectorRecord) error
}

type RecipeStore interface {
	BulkInsert(ctx context.Context, recipes []recipe.Recipe) error
}

// BookDirectory resolves the owning user of a book.
type BookDirectory interface {
	OwnerID(ctx context.Context, bookID string) (string, error)
}

type StatusStore interface {
	MarkCompleted(ctx context.Context, indexImageID string) error
	MarkFailed(ctx context.Context, indexImageID, message string) error
}
