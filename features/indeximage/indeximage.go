package indeximage

import (
	"context"
	"errors"
	"time"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var (
	ErrNotFound          = errors.New("index image not found")
	ErrAlreadyInProgress = errors.New("index image is already being processed")
)

type IndexImage struct {
	ID              string     `json:"id"`
	BookID          string     `json:"book_id"`
	StorageKey      string     `json:"storage_key"`
	Status          string     `json:"status"`
	ErrorMessage    *string    `json:"error_message,omitempty"`
	LastProcessedAt *time.Time `json:"last_processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, img *IndexImage) error
	Get(ctx context.Context, id string) (*IndexImage, error)
	ListByBook(ctx context.Context, bookID string) ([]IndexImage, error)
	// TransitionStatus updates status only if the stored status still
	// equals from, reporting whether the row was claimed.
	TransitionStatus(ctx context.Context, id, from, to string) (bool, error)
	MarkCompleted(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, message string) error
}
