package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/review/model"
)

type ReviewRepository interface {
	// Create persists a new review. A unique-index violation on
	// (book_id, user_id) is reported as model.ErrDuplicateReview.
	Create(ctx context.Context, review *model.Review) error

	// GetByID gets a review by id.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)

	// GetByUserAndBook gets a user's review of a book, for the
	// fast-path uniqueness check.
	GetByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (*model.Review, error)

	// Update persists rating and comment changes.
	Update(ctx context.Context, review *model.Review) error

	// Delete removes a single review.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByBook lists a window of a book's reviews.
	ListByBook(ctx context.Context, bookID uuid.UUID, limit, offset int) ([]*model.Review, error)

	// CountByBook counts every review of a book.
	CountByBook(ctx context.Context, bookID uuid.UUID) (int, error)

	// AverageRating computes the unweighted mean rating over all of a
	// book's reviews; 0 when it has none.
	AverageRating(ctx context.Context, bookID uuid.UUID) (float64, error)
}
