package service

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book/model"
	reviewmodel "bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/shared/query"
)

type ServiceInterface interface {
	// CreateBook persists a new book owned by the caller.
	CreateBook(ctx context.Context, ownerID uuid.UUID, req model.CreateBookRequest) (*model.Book, error)

	// ListBooks runs the planned filter/sort/page query.
	ListBooks(ctx context.Context, params url.Values) ([]model.Book, query.Pagination, error)

	// SearchBooks matches title or author as a case-insensitive substring.
	SearchBooks(ctx context.Context, q string) ([]model.Book, error)

	// GetBookDetail returns the book, its mean rating over all reviews,
	// and a paginated review window.
	GetBookDetail(ctx context.Context, id uuid.UUID, params url.Values) (*model.BookDetail, error)

	// DeleteBook removes an owned book and cascades to its reviews.
	DeleteBook(ctx context.Context, callerID, id uuid.UUID) error
}

// ReviewSource is the slice of the review store the aggregation needs.
// The review repository satisfies it.
type ReviewSource interface {
	ListByBook(ctx context.Context, bookID uuid.UUID, limit, offset int) ([]*reviewmodel.Review, error)
	CountByBook(ctx context.Context, bookID uuid.UUID) (int, error)
	AverageRating(ctx context.Context, bookID uuid.UUID) (float64, error)
}
