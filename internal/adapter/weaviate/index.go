package weaviate

import (
	"context"
	"fmt"

	"github.com/go-openapi/strfmt"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/kwybro/cookbooks/features/search"
	"github.com/kwybro/cookbooks/internal/pipeline"
	"github.com/kwybro/cookbooks/internal/vector"
)

// Index stores one object per recipe in the RecipeVector class, with
// the object id equal to the recipe UUID so re-inserts overwrite
// instead of duplicating.
type Index struct {
	client *weaviate.Client
}

func NewIndex(client *weaviate.Client) *Index {
	return &Index{client: client}
}

func (s *Index) Upsert(ctx context.Context, records []pipeline.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	objects := make([]*models.Object, len(records))
	for i, r := range records {
		objects[i] = &models.Object{
			Class: vector.ClassRecipeVector,
			ID:    strfmt.UUID(r.RecipeID),
			Properties: map[string]interface{}{
				"recipeId": r.RecipeID,
				"bookId":   r.BookID,
				"userId":   r.UserID,
				"name":     r.Name,
			},
			Vector: models.C11yVector(r.Vector),
		}
	}

	resp, err := s.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return err
	}
	for _, obj := range resp {
		if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
			return fmt.Errorf("batch upsert error: %s", obj.Result.Errors.Error[0].Message)
		}
	}
	return nil
}

// Query returns the topK nearest recipes, ranked by certainty.
func (s *Index) Query(ctx context.Context, queryVector []float32, topK int) ([]search.Match, error) {
	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(queryVector)

	fields := []graphql.Field{
		{Name: "recipeId"},
		{Name: "bookId"},
		{Name: "userId"},
		{Name: "name"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}

	res, err := s.client.GraphQL().Get().
		WithClassName(vector.ClassRecipeVector).
		WithNearVector(nearVector).
		WithLimit(topK).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %v", res.Errors)
	}

	var matches []search.Match
	if data, ok := res.Data["Get"].(map[string]interface{}); ok {
		if hits, ok := data[vector.ClassRecipeVector].([]interface{}); ok {
			for _, h := range hits {
				props, ok := h.(map[string]interface{})
				if !ok {
					continue
				}
				match := search.Match{}
				if id, ok := props["recipeId"].(string); ok {
					match.RecipeID = id
				}
				if additional, ok := props["_additional"].(map[string]interface{}); ok {
					if certainty, ok := additional["certainty"].(float64); ok {
						match.Score = float32(certainty)
					}
				}
				matches = append(matches, match)
			}
		}
	}

	return matches, nil
}

func (s *Index) DeleteByBook(ctx context.Context, bookID string) error {
	_, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(vector.ClassRecipeVector).
		WithOutput("minimal").
		WithWhere(filters.Where().
			WithPath([]string{"bookId"}).
			WithOperator(filters.Equal).
			WithValueString(bookID)).
		Do(ctx)
	return err
}
