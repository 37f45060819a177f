package indeximage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, img *IndexImage) error {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}
	if img.Status == "" {
		img.Status = StatusPending
	}
	if img.CreatedAt.IsZero() {
		img.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO index_images (id, book_id, storage_key, status, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, img.ID, img.BookID, img.StorageKey, img.Status, img.CreatedAt)
	return err
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (*IndexImage, error) {
	img := &IndexImage{}
	var errMsg sql.NullString
	var processedAt sql.NullTime
	query := `SELECT id, book_id, storage_key, status, error_message, last_processed_at, created_at FROM index_images WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&img.ID, &img.BookID, &img.StorageKey, &img.Status, &errMsg, &processedAt, &img.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if errMsg.Valid {
		img.ErrorMessage = &errMsg.String
	}
	if processedAt.Valid {
		img.LastProcessedAt = &processedAt.Time
	}
	return img, nil
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID string) ([]IndexImage, error) {
	query := `SELECT id, book_id, storage_key, status, error_message, last_processed_at, created_at FROM index_images WHERE book_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []IndexImage
	for rows.Next() {
		var img IndexImage
		var errMsg sql.NullString
		var processedAt sql.NullTime
		if err := rows.Scan(&img.ID, &img.BookID, &img.StorageKey, &img.Status, &errMsg, &processedAt, &img.CreatedAt); err != nil {
			return nil, err
		}
		if errMsg.Valid {
			img.ErrorMessage = &errMsg.String
		}
		if processedAt.Valid {
			img.LastProcessedAt = &processedAt.Time
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *PostgresRepo) TransitionStatus(ctx context.Context, id, from, to string) (bool, error) {
	query := `UPDATE index_images SET status = $1, error_message = NULL WHERE id = $2 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *PostgresRepo) MarkCompleted(ctx context.Context, id string) error {
	query := `UPDATE index_images SET status = $1, error_message = NULL, last_processed_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, StatusCompleted, id)
	return err
}

func (r *PostgresRepo) MarkFailed(ctx context.Context, id, message string) error {
	query := `UPDATE index_images SET status = $1, error_message = $2, last_processed_at = NOW() WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, StatusFailed, message, id)
	return err
}
