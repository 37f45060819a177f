package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kwybro/cookbooks/features/recipe"
	"github.com/kwybro/cookbooks/internal/blob"
)

// Pipeline turns one photographed index page into recipe rows and
// searchable vectors, driving the owning IndexImage through its
// status lifecycle.
type Pipeline struct {
	blobs       blob.Store
	extractor   Extractor
	embedder    Embedder
	index       VectorIndex
	recipes     RecipeStore
	books       BookDirectory
	status      StatusStore
	checkpoints CheckpointStore
}

func New(
	blobs blob.Store,
	extractor Extractor,
	embedder Embedder,
	index VectorIndex,
	recipes RecipeStore,
	books BookDirectory,
	status StatusStore,
	checkpoints CheckpointStore,
) *Pipeline {
	return &Pipeline{
		blobs:       blobs,
		extractor:   extractor,
		embedder:    embedder,
		index:       index,
		recipes:     recipes,
		books:       books,
		status:      status,
		checkpoints: checkpoints,
	}
}

// Run executes the extraction steps for one task. Any step error is
// recorded as status=failed on the index image before it is returned;
// the status write happens whether or not the caller looks at the
// error.
func (p *Pipeline) Run(ctx context.Context, task Task) error {
	err := p.run(ctx, task)
	if err != nil {
		if serr := p.status.MarkFailed(ctx, task.IndexImageID, err.Error()); serr != nil {
			slog.ErrorContext(ctx, "failed to record pipeline failure", "error", serr,
				"run_id", task.RunID, "index_image_id", task.IndexImageID)
		}
		return err
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, task Task) error {
	r := NewRunner(task.RunID, p.checkpoints)

	// The image payload can be tens of megabytes once fetched, so the
	// fetch and the model call share one step: only the small entry
	// list crosses the checkpoint boundary.
	entries, err := Step(ctx, r, "fetch-and-extract", func(ctx context.Context) ([]ExtractedEntry, error) {
		obj, err := p.blobs.Get(ctx, task.StorageKey)
		if err != nil {
			return nil, err
		}
		return p.extractor.Extract(ctx, obj.Data, obj.ContentType)
	})
	if err != nil {
		return err
	}

	inserted, err := Step(ctx, r, "insert-recipes", func(ctx context.Context) ([]recipe.Recipe, error) {
		now := time.Now().UTC()
		rows := make([]recipe.Recipe, len(entries))
		for i, e := range entries {
			rows[i] = recipe.Recipe{
				ID:        uuid.NewString(),
				BookID:    task.BookID,
				Name:      e.Name,
				PageStart: e.PageStart,
				PageEnd:   e.PageEnd,
				Category:  e.Category,
				CreatedAt: now,
			}
		}
		if len(rows) > 0 {
			if err := p.recipes.BulkInsert(ctx, rows); err != nil {
				return nil, err
			}
		}
		return rows, nil
	})
	if err != nil {
		return err
	}

	embeddings, err := Step(ctx, r, "generate-embeddings", func(ctx context.Context) ([][]float32, error) {
		if len(inserted) == 0 {
			return nil, nil
		}
		vectors, err := p.embedder.EmbedBatch(ctx, embeddingTexts(inserted))
		if err != nil {
			return nil, err
		}
		if len(vectors) == 0 {
			return nil, ErrEmbeddingUnavailable
		}
		return vectors, nil
	})
	if err != nil {
		return err
	}

	_, err = Step(ctx, r, "insert-vectors", func(ctx context.Context) (int, error) {
		if len(inserted) == 0 {
			return 0, nil
		}
		if len(embeddings) != len(inserted) {
			return 0, fmt.Errorf("%w: %d recipes, %d embeddings",
				ErrVectorCountMismatch, len(inserted), len(embeddings))
		}

		userID, err := p.books.OwnerID(ctx, task.BookID)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve book owner: %w", err)
		}

		records := make([]VectorRecord, len(inserted))
		for i, rec := range inserted {
			records[i] = VectorRecord{
				RecipeID: rec.ID,
				BookID:   rec.BookID,
				UserID:   userID,
				Name:     rec.Name,
				Vector:   embeddings[i],
			}
		}
		if err := p.index.Upsert(ctx, records); err != nil {
			return 0, err
		}
		return len(records), nil
	})
	if err != nil {
		return err
	}

	_, err = Step(ctx, r, "update-status", func(ctx context.Context) (bool, error) {
		if err := p.status.MarkCompleted(ctx, task.IndexImageID); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	// The run is done; drop its checkpoints so a future re-run of the
	// same image starts from scratch.
	if err := p.checkpoints.Clear(ctx, task.RunID); err != nil {
		slog.WarnContext(ctx, "failed to clear checkpoints", "error", err, "run_id", task.RunID)
	}

	slog.InfoContext(ctx, "pipeline run completed", "run_id", task.RunID,
		"index_image_id", task.IndexImageID, "recipes", len(inserted))
	return nil
}

// embeddingTexts builds the embedding input per recipe: the name, with
// the category appended when present.
func embeddingTexts(recipes []recipe.Recipe) []string {
	texts := make([]string, len(recipes))
	for i, rec := range recipes {
		if rec.Category != nil && *rec.Category != "" {
			texts[i] = rec.Name + " - " + *rec.Category
		} else {
			texts[i] = rec.Name
		}
	}
	return texts
}
