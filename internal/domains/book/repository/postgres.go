package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/shared/query"
	"bookreview-backend/pkg/cache"
	"bookreview-backend/pkg/logger"
)

const bookColumns = `id, title, author, genre, description, published_year, publisher, isbn, owner_id, created_at`

const bookCacheTTL = 5 * time.Minute

type postgresBookRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresBookRepository(pool *pgxpool.Pool, cache cache.Cache) BookRepository {
	return &postgresBookRepository{pool: pool, cache: cache}
}

func bookCacheKey(id uuid.UUID) string {
	return "book:" + id.String()
}

func (r *postgresBookRepository) Create(ctx context.Context, book *model.Book) error {
	sql := `
		INSERT INTO books (id, title, author, genre, description, published_year, publisher, isbn, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, sql,
		book.ID,
		book.Title,
		book.Author,
		book.Genre,
		book.Description,
		book.PublishedYear,
		book.Publisher,
		book.ISBN,
		book.OwnerID,
		book.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

func (r *postgresBookRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	key := bookCacheKey(id)

	var cached model.Book
	if found, err := r.cache.Get(ctx, key, &cached); err != nil {
		logger.Error("book cache read failed", err)
	} else if found {
		return &cached, nil
	}

	sql := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	book := &model.Book{}
	err := r.pool.QueryRow(ctx, sql, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.Description,
		&book.PublishedYear,
		&book.Publisher,
		&book.ISBN,
		&book.OwnerID,
		&book.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	if err := r.cache.Set(ctx, key, book, bookCacheTTL); err != nil {
		logger.Error("book cache write failed", err)
	}

	return book, nil
}

func (r *postgresBookRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	sql := `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, sql, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check book existence: %w", err)
	}

	return exists, nil
}

// List runs the planned query and the count query over the same filter.
// The count is unbounded by the pagination window so out-of-range pages
// come back empty with a correct total.
func (r *postgresBookRepository) List(ctx context.Context, plan *query.Plan) ([]model.Book, int, error) {
	where := ""
	if plan.Where != "" {
		where = " WHERE " + plan.Where
	}

	var total int
	countSQL := `SELECT COUNT(*) FROM books` + where
	if err := r.pool.QueryRow(ctx, countSQL, plan.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	listSQL := fmt.Sprintf(
		`SELECT %s FROM books%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		bookColumns, where, plan.OrderBy, len(plan.Args)+1, len(plan.Args)+2,
	)
	args := append(append([]interface{}{}, plan.Args...), plan.Limit, plan.Offset)

	rows, err := r.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func (r *postgresBookRepository) Search(ctx context.Context, q string) ([]model.Book, error) {
	sql := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE title ILIKE $1 OR author ILIKE $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, sql, "%"+q+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	defer rows.Close()

	return scanBooks(rows)
}

// Delete removes the book's reviews and the book itself in one transaction.
// This is the only deletion path for books, which keeps the cascade wired
// no matter who calls it.
func (r *postgresBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE book_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete book reviews: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit book deletion: %w", err)
	}

	if err := r.cache.Delete(ctx, bookCacheKey(id)); err != nil {
		logger.Error("book cache invalidation failed", err)
	}

	return nil
}

func scanBooks(rows pgx.Rows) ([]model.Book, error) {
	var books []model.Book
	for rows.Next() {
		var book model.Book
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Genre,
			&book.Description,
			&book.PublishedYear,
			&book.Publisher,
			&book.ISBN,
			&book.OwnerID,
			&book.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return books, nil
}
