package vector

import (
	"context"

	"github.com/weaviate/weaviate/entities/models"
)

// ClassRecipeVector holds one object per embedded recipe. Vectors are
// supplied by the pipeline, so the class carries no vectorizer.
const ClassRecipeVector = "RecipeVector"

// SchemaClient defines the interface for Weaviate schema operations
type SchemaClient interface {
	ClassExists(ctx context.Context, className string) (bool, error)
	CreateClass(ctx context.Context, class *models.Class) error
	GetClass(ctx context.Context, className string) (*models.Class, error)
	AddProperty(ctx context.Context, className string, property *models.Property) error
}

// EnsureSchema checks if the required classes exist and creates them if not
func EnsureSchema(ctx context.Context, client SchemaClient) error {
	exists, err := client.ClassExists(ctx, ClassRecipeVector)
	if err != nil {
		return err
	}

	properties := []*models.Property{
		{
			Name:     "recipeId",
			DataType: []string{"string"}, // UUID as string (exact match)
		},
		{
			Name:     "bookId",
			DataType: []string{"string"},
		},
		{
			Name:     "userId",
			DataType: []string{"string"},
		},
		{
			Name:     "name",
			DataType: []string{"text"},
		},
	}

	if !exists {
		class := &models.Class{
			Class:       ClassRecipeVector,
			Description: "An embedded recipe entry from a cookbook index page",
			Vectorizer:  "none",
			Properties:  properties,
		}
		return client.CreateClass(ctx, class)
	}

	// Class exists, check for missing properties
	class, err := client.GetClass(ctx, ClassRecipeVector)
	if err != nil {
		return err
	}

	existingProps := make(map[string]bool)
	for _, p := range class.Properties {
		existingProps[p.Name] = true
	}

	for _, p := range properties {
		if !existingProps[p.Name] {
			if err := client.AddProperty(ctx, ClassRecipeVector, p); err != nil {
				return err
			}
		}
	}

	return nil
}
