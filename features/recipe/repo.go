package recipe

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// BulkInsert writes all rows inside one transaction, chunked so no
// statement exceeds the bound-parameter ceiling. Either every chunk
// commits or the whole insert rolls back.
func (r *PostgresRepo) BulkInsert(ctx context.Context, recipes []Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin bulk insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, chunk := range splitRecipes(recipes, chunkSize(maxBoundParams, insertColumns)) {
		placeholders := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, len(chunk)*insertColumns)
		for i, rec := range chunk {
			base := i * insertColumns
			placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7))
			args = append(args, rec.ID, rec.BookID, rec.Name, rec.PageStart, rec.PageEnd, rec.Category, rec.CreatedAt)
		}

		query := `INSERT INTO recipes (id, book_id, name, page_start, page_end, category, created_at) VALUES ` +
			strings.Join(placeholders, ", ")
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert recipe chunk: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PostgresRepo) GetByIDs(ctx context.Context, ids []string) ([]Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT id, book_id, name, page_start, page_end, category, created_at FROM recipes WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecipes(rows)
}

func (r *PostgresRepo) ListByBook(ctx context.Context, bookID string) ([]Recipe, error) {
	query := `SELECT id, book_id, name, page_start, page_end, category, created_at FROM recipes WHERE book_id = $1 ORDER BY page_start, name`
	rows, err := r.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecipes(rows)
}

func scanRecipes(rows *sql.Rows) ([]Recipe, error) {
	var recipes []Recipe
	for rows.Next() {
		var rec Recipe
		var pageEnd sql.NullInt64
		var category sql.NullString
		if err := rows.Scan(&rec.ID, &rec.BookID, &rec.Name, &rec.PageStart, &pageEnd, &category, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if pageEnd.Valid {
			v := int(pageEnd.Int64)
			rec.PageEnd = &v
		}
		if category.Valid {
			rec.Category = &category.String
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}
