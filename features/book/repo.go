package book

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO books (id, user_id, title, author, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.UserID, b.Title, b.Author, b.CreatedAt)
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (*Book, error) {
	b := &Book{}
	var author sql.NullString
	query := `SELECT id, user_id, title, author, created_at FROM books WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.UserID, &b.Title, &author, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if author.Valid {
		b.Author = &author.String
	}
	return b, nil
}

func (r *PostgresRepo) GetByIDs(ctx context.Context, ids []string) ([]Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT id, user_id, title, author, created_at FROM books WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		var author sql.NullString
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &author, &b.CreatedAt); err != nil {
			return nil, err
		}
		if author.Valid {
			b.Author = &author.String
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *PostgresRepo) OwnerID(ctx context.Context, id string) (string, error) {
	var userID string
	query := `SELECT user_id FROM books WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&userID)
	return userID, err
}

func (r *PostgresRepo) List(ctx context.Context, userID string) ([]Book, error) {
	query := `SELECT id, user_id, title, author, created_at FROM books WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		var author sql.NullString
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &author, &b.CreatedAt); err != nil {
			return nil, err
		}
		if author.Valid {
			b.Author = &author.String
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	query := `UPDATE books SET title = $1, author = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, b.Title, b.Author, b.ID)
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	// Recipes and index images go with the book via FK cascade.
	query := `DELETE FROM books WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
