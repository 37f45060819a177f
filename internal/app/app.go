package app

import (
	"context"
	"database/sql"

	"github.com/nsqio/go-nsq"
	weaviateclient "github.com/weaviate/weaviate-go-client/v5/weaviate"

	"github.com/kwybro/cookbooks/features/book"
	"github.com/kwybro/cookbooks/features/indeximage"
	"github.com/kwybro/cookbooks/features/recipe"
	"github.com/kwybro/cookbooks/features/search"
	"github.com/kwybro/cookbooks/internal/adapter/gemini"
	wstore "github.com/kwybro/cookbooks/internal/adapter/weaviate"
	"github.com/kwybro/cookbooks/internal/blob"
	"github.com/kwybro/cookbooks/internal/config"
	"github.com/kwybro/cookbooks/internal/pipeline"
	"github.com/kwybro/cookbooks/internal/worker"
)

// App wires the feature services together over the shared
// infrastructure handed out by Bootstrap.
type App struct {
	BookService       *book.Service
	IndexImageService *indeximage.Service
	SearchService     *search.Service
	TaskConsumer      *worker.TaskConsumer
}

func New(
	ctx context.Context,
	cfg *config.Config,
	db *sql.DB,
	wClient *weaviateclient.Client,
	producer *nsq.Producer,
) (*App, error) {

	blobs, err := blob.NewFSStore(cfg.BlobDir)
	if err != nil {
		return nil, err
	}

	vecIndex := wstore.NewIndex(wClient)

	extractor, err := gemini.NewExtractor(ctx, cfg.GeminiAPIKey, cfg.ExtractionModel)
	if err != nil {
		return nil, err
	}
	embedder, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	// Feature: Book
	bookRepo := book.NewPostgresRepo(db)
	bookService := book.NewService(bookRepo, vecIndex)

	// Feature: Recipe
	recipeRepo := recipe.NewPostgresRepo(db)

	// Feature: IndexImage
	indexImageRepo := indeximage.NewPostgresRepo(db)
	indexImageService := indeximage.NewService(indexImageRepo, blobs, producer)

	// Feature: Search
	searchService := search.NewService(embedder, vecIndex, recipeRepo, bookRepo)

	// Pipeline & Worker
	checkpoints := pipeline.NewPostgresCheckpointStore(db)
	pipe := pipeline.New(blobs, extractor, embedder, vecIndex, recipeRepo, bookRepo, indexImageRepo, checkpoints)
	taskConsumer := worker.NewTaskConsumer(pipe)

	return &App{
		BookService:       bookService,
		IndexImageService: indexImageService,
		SearchService:     searchService,
		TaskConsumer:      taskConsumer,
	}, nil
}
