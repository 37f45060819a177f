package book_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/kwybro/cookbooks/features/book"
)

func TestPostgresRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := book.NewPostgresRepo(db)

	t.Run("GeneratesID", func(t *testing.T) {
		b := &book.Book{UserID: "user-1", Title: "Joy of Cooking"}

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO books (id, user_id, title, author, created_at) VALUES ($1, $2, $3, $4, $5)")).
			WithArgs(sqlmock.AnyArg(), "user-1", "Joy of Cooking", nil, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(context.Background(), b)
		assert.NoError(t, err)
		assert.NotEmpty(t, b.ID)
		assert.False(t, b.CreatedAt.IsZero())
	})
}

func TestPostgresRepo_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := book.NewPostgresRepo(db)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("WithAuthor", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "title", "author", "created_at"}).
			AddRow("b1", "user-1", "Joy of Cooking", "Irma Rombauer", now)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, title, author, created_at FROM books WHERE id = $1")).
			WithArgs("b1").
			WillReturnRows(rows)

		b, err := repo.Get(context.Background(), "b1")
		assert.NoError(t, err)
		assert.Equal(t, "Joy of Cooking", b.Title)
		assert.Equal(t, "Irma Rombauer", *b.Author)
	})

	t.Run("NullAuthor", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "title", "author", "created_at"}).
			AddRow("b1", "user-1", "Joy of Cooking", nil, now)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, title, author, created_at FROM books WHERE id = $1")).
			WithArgs("b1").
			WillReturnRows(rows)

		b, err := repo.Get(context.Background(), "b1")
		assert.NoError(t, err)
		assert.Nil(t, b.Author)
	})
}

func TestPostgresRepo_GetByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := book.NewPostgresRepo(db)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "author", "created_at"}).
		AddRow("b1", "user-1", "Joy of Cooking", nil, now).
		AddRow("b2", "user-1", "Salt Fat Acid Heat", "Samin Nosrat", now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, title, author, created_at FROM books WHERE id = ANY($1)")).
		WithArgs(pq.Array([]string{"b1", "b2"})).
		WillReturnRows(rows)

	books, err := repo.GetByIDs(context.Background(), []string{"b1", "b2"})
	assert.NoError(t, err)
	assert.Len(t, books, 2)

	t.Run("EmptyIDs", func(t *testing.T) {
		books, err := repo.GetByIDs(context.Background(), nil)
		assert.NoError(t, err)
		assert.Nil(t, books)
	})
}

func TestPostgresRepo_OwnerID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := book.NewPostgresRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM books WHERE id = $1")).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("user-1"))

	userID, err := repo.OwnerID(context.Background(), "b1")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestPostgresRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := book.NewPostgresRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM books WHERE id = $1")).
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(context.Background(), "b1")
	assert.NoError(t, err)
}
