package book

import (
	"context"
	"fmt"
	"log/slog"
)

// VectorCleaner removes a book's recipe vectors from the vector index.
type VectorCleaner interface {
	DeleteByBook(ctx context.Context, bookID string) error
}

type Service struct {
	repo    Repository
	vectors VectorCleaner
}

func NewService(repo Repository, vectors VectorCleaner) *Service {
	return &Service{repo: repo, vectors: vectors}
}

func (s *Service) Create(ctx context.Context, b *Book) error {
	if b.Title == "" {
		return fmt.Errorf("title is required")
	}
	if b.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	return s.repo.Create(ctx, b)
}

func (s *Service) Get(ctx context.Context, id string) (*Book, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, userID string) ([]Book, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Update(ctx context.Context, b *Book) error {
	return s.repo.Update(ctx, b)
}

// Delete removes the book's vectors first, then the row; recipes and
// index images are wiped by the FK cascade.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.vectors.DeleteByBook(ctx, id); err != nil {
		return fmt.Errorf("failed to delete book vectors: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "book deleted", "book_id", id)
	return nil
}
