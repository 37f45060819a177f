package book

import (
	"context"
	"time"
)

type Book struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Author    *string   `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, b *Book) error
	Get(ctx context.Context, id string) (*Book, error)
	GetByIDs(ctx context.Context, ids []string) ([]Book, error)
	OwnerID(ctx context.Context, id string) (string, error)
	List(ctx context.Context, userID string) ([]Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error
}
