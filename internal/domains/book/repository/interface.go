package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/shared/query"
)

type BookRepository interface {
	// Create persists a new book.
	Create(ctx context.Context, book *model.Book) error

	// GetByID gets a book by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// Exists reports whether a book id resolves to a row.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// List executes a planned query plus the parallel count over the
	// same filter.
	List(ctx context.Context, plan *query.Plan) ([]model.Book, int, error)

	// Search matches title or author case-insensitively as a substring.
	Search(ctx context.Context, q string) ([]model.Book, error)

	// Delete removes the book and every review referencing it in one
	// transaction, so no review can outlive its book.
	Delete(ctx context.Context, id uuid.UUID) error
}
