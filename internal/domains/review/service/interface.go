package service

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/review/model"
)

type ServiceInterface interface {
	// AddReview creates the caller's review of a book. The book must
	// exist and the caller must not have reviewed it before.
	AddReview(ctx context.Context, userID, bookID uuid.UUID, req model.CreateReviewRequest) (*model.Review, error)

	// UpdateReview merges the provided fields into the caller's review.
	UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req model.UpdateReviewRequest) (*model.Review, error)

	// DeleteReview removes the caller's review.
	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error
}

// BookSource is the slice of the book store the invariant checks need.
// The book repository satisfies it.
type BookSource interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
