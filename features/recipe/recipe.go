package recipe

import (
	"context"
	"time"
)

type Recipe struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	Name      string    `json:"name"`
	PageStart int       `json:"page_start"`
	PageEnd   *int      `json:"page_end,omitempty"`
	Category  *string   `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	BulkInsert(ctx context.Context, recipes []Recipe) error
	GetByIDs(ctx context.Context, ids []string) ([]Recipe, error)
	ListByBook(ctx context.Context, bookID string) ([]Recipe, error)
}
