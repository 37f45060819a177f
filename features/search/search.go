package search

import (
	"context"
	"errors"

	"github.com/kwybro/cookbooks/features/book"
	"github.com/kwybro/cookbooks/features/recipe"
)

const (
	// MinQueryLength is the shortest query worth embedding.
	MinQueryLength = 3
	// MinScore filters low-confidence vector matches before any
	// relational lookups happen.
	MinScore float32 = 0.5

	DefaultTopK = 20
	MaxTopK     = 50
)

var ErrEmbeddingUnavailable = errors.New("failed to generate embedding for query")

// Match is one ranked hit from the vector index.
type Match struct {
	RecipeID string
	Score    float32
}

// Result is a vector match enriched with recipe and book attributes.
// Book fields stay nil when the book row has drifted away.
type Result struct {
	RecipeID   string  `json:"recipe_id"`
	RecipeName string  `json:"recipe_name"`
	Category   *string `json:"category,omitempty"`
	PageStart  int     `json:"page_start"`
	PageEnd    *int    `json:"page_end,omitempty"`
	BookID     string  `json:"book_id"`
	BookTitle  *string `json:"book_title"`
	BookAuthor *string `json:"book_author"`
	Score      float32 `json:"score"`
}

type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

type VectorIndex interface {
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
}

type RecipeStore interface {
	GetByIDs(ctx context.Context, ids []string) ([]recipe.Recipe, error)
}

type BookStore interface {
	GetByIDs(ctx context.Context, ids []string) ([]book.Book, error)
}
