package indeximage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kwybro/cookbooks/internal/blob"
	"github.com/kwybro/cookbooks/internal/config"
	"github.com/kwybro/cookbooks/internal/middleware"
	"github.com/kwybro/cookbooks/internal/pipeline"
)

type EventPublisher interface {
	Publish(topic string, body []byte) error
}

type Service struct {
	repo  Repository
	blobs blob.Store
	pub   EventPublisher
}

func NewService(repo Repository, blobs blob.Store, pub EventPublisher) *Service {
	return &Service{repo: repo, blobs: blobs, pub: pub}
}

// Upload accepts raw image bytes for a book, writes them to the blob
// store and records a pending index image.
func (s *Service) Upload(ctx context.Context, bookID, filename, contentType string, data []byte) (*IndexImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}

	key := fmt.Sprintf("index-images/%s/%d-%s", bookID, time.Now().UnixMilli(), filename)
	if err := s.blobs.Put(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	img := &IndexImage{
		BookID:     bookID,
		StorageKey: key,
		Status:     StatusPending,
	}
	if err := s.repo.Create(ctx, img); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "index image uploaded", "index_image_id", img.ID, "book_id", bookID, "key", key)
	return img, nil
}

// Start claims the image for processing and enqueues a pipeline run.
// The claim is a conditional update on the observed status, so of two
// concurrent callers at most one enqueues a run; the loser gets
// ErrAlreadyInProgress.
func (s *Service) Start(ctx context.Context, indexImageID string) (string, error) {
	img, err := s.repo.Get(ctx, indexImageID)
	if err != nil {
		return "", err
	}

	if img.Status == StatusProcessing {
		return "", ErrAlreadyInProgress
	}

	claimed, err := s.repo.TransitionStatus(ctx, indexImageID, img.Status, StatusProcessing)
	if err != nil {
		return "", err
	}
	if !claimed {
		return "", ErrAlreadyInProgress
	}

	runID := fmt.Sprintf("process-%s-%d", indexImageID, time.Now().UnixMilli())
	task := pipeline.Task{
		RunID:         runID,
		IndexImageID:  indexImageID,
		BookID:        img.BookID,
		StorageKey:    img.StorageKey,
		CorrelationID: middleware.GetCorrelationID(ctx),
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("failed to marshal pipeline task: %w", err)
	}
	if err := s.pub.Publish(config.TopicProcessIndex, payload); err != nil {
		// Give the claim back so the caller can retry.
		if _, terr := s.repo.TransitionStatus(ctx, indexImageID, StatusProcessing, img.Status); terr != nil {
			slog.ErrorContext(ctx, "failed to release processing claim", "error", terr, "index_image_id", indexImageID)
		}
		return "", fmt.Errorf("failed to publish pipeline task: %w", err)
	}

	slog.InfoContext(ctx, "pipeline run enqueued", "run_id", runID, "index_image_id", indexImageID)
	return runID, nil
}

func (s *Service) Get(ctx context.Context, id string) (*IndexImage, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByBook(ctx context.Context, bookID string) ([]IndexImage, error) {
	return s.repo.ListByBook(ctx, bookID)
}
