package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/kwybro/cookbooks/features/book"
	"github.com/kwybro/cookbooks/features/recipe"
)

type Service struct {
	embedder Embedder
	index    VectorIndex
	recipes  RecipeStore
	books    BookStore
}

func NewService(embedder Embedder, index VectorIndex, recipes RecipeStore, books BookStore) *Service {
	return &Service{embedder: embedder, index: index, recipes: recipes, books: books}
}

// Search embeds the query, ranks recipes via the vector index and
// enriches the surviving matches from the relational store. Output
// order is the index's ranking order; the joins never re-sort.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []Result{}, nil
	}

	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	vectors, err := s.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, ErrEmbeddingUnavailable
	}

	matches, err := s.index.Query(ctx, vectors[0], topK)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	// Drop low-confidence noise before touching the relational store.
	var relevant []Match
	for _, m := range matches {
		if m.Score >= MinScore {
			relevant = append(relevant, m)
		}
	}
	if len(relevant) == 0 {
		return []Result{}, nil
	}

	ids := make([]string, len(relevant))
	for i, m := range relevant {
		ids[i] = m.RecipeID
	}

	recipeRows, err := s.recipes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}
	recipeByID := make(map[string]recipe.Recipe, len(recipeRows))
	bookIDs := make([]string, 0, len(recipeRows))
	seenBooks := make(map[string]bool)
	for _, rec := range recipeRows {
		recipeByID[rec.ID] = rec
		if !seenBooks[rec.BookID] {
			seenBooks[rec.BookID] = true
			bookIDs = append(bookIDs, rec.BookID)
		}
	}

	bookRows, err := s.books.GetByIDs(ctx, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch books: %w", err)
	}
	bookByID := make(map[string]book.Book, len(bookRows))
	for _, b := range bookRows {
		bookByID[b.ID] = b
	}

	results := make([]Result, 0, len(relevant))
	for _, m := range relevant {
		rec, ok := recipeByID[m.RecipeID]
		if !ok {
			// The index can lag behind deletes; skip drifted ids.
			slog.DebugContext(ctx, "dropping dangling vector match", "recipe_id", m.RecipeID)
			continue
		}

		res := Result{
			RecipeID:   rec.ID,
			RecipeName: rec.Name,
			Category:   rec.Category,
			PageStart:  rec.PageStart,
			PageEnd:    rec.PageEnd,
			BookID:     rec.BookID,
			Score:      m.Score,
		}
		if b, ok := bookByID[rec.BookID]; ok {
			res.BookTitle = &b.Title
			res.BookAuthor = b.Author
		}
		results = append(results, res)
	}

	return results, nil
}
