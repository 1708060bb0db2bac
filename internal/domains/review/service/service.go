package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/domains/review/repository"
)

type reviewService struct {
	reviewRepo repository.ReviewRepository
	books      BookSource
}

func NewReviewService(reviewRepo repository.ReviewRepository, books BookSource) ServiceInterface {
	return &reviewService{
		reviewRepo: reviewRepo,
		books:      books,
	}
}

// AddReview enforces the creation invariants in order: the book must
// exist, and the caller must not already have a review for it. The
// existence lookup is only the fast path; the store's unique index on
// (book_id, user_id) decides under concurrency.
func (s *reviewService) AddReview(
	ctx context.Context,
	userID, bookID uuid.UUID,
	req model.CreateReviewRequest,
) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to check book existence: %w", err)
	}
	if !exists {
		return nil, model.ErrBookMissing
	}

	_, err = s.reviewRepo.GetByUserAndBook(ctx, userID, bookID)
	if err == nil {
		return nil, model.ErrDuplicateReview
	}
	if !errors.Is(err, model.ErrReviewNotFound) {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}

	review := &model.Review{
		ID:        uuid.New(),
		BookID:    bookID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// UpdateReview loads the review, verifies ownership before touching
// anything, then applies a partial merge with rating re-validation.
func (s *reviewService) UpdateReview(
	ctx context.Context,
	userID, reviewID uuid.UUID,
	req model.UpdateReviewRequest,
) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.UserID != userID {
		return nil, model.ErrNotReviewOwner
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = req.Comment
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if review.UserID != userID {
		return model.ErrNotReviewOwner
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	return nil
}
