package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/book/repository"
	reviewmodel "bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/shared/query"
)

type bookService struct {
	bookRepo repository.BookRepository
	reviews  ReviewSource
}

func NewBookService(bookRepo repository.BookRepository, reviews ReviewSource) ServiceInterface {
	return &bookService{
		bookRepo: bookRepo,
		reviews:  reviews,
	}
}

func (s *bookService) CreateBook(
	ctx context.Context,
	ownerID uuid.UUID,
	req model.CreateBookRequest,
) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book := &model.Book{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(req.Title),
		Author:        strings.TrimSpace(req.Author),
		Genre:         req.Genre,
		Description:   req.Description,
		PublishedYear: req.PublishedYear,
		Publisher:     req.Publisher,
		ISBN:          req.ISBN,
		OwnerID:       ownerID,
		CreatedAt:     time.Now(),
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return book, nil
}

// ListBooks plans one bounded query from the raw parameters and runs it
// together with the parallel count. Out-of-range pages come back empty
// with next absent; page and limit never error.
func (s *bookService) ListBooks(
	ctx context.Context,
	params url.Values,
) ([]model.Book, query.Pagination, error) {
	plan, err := query.Build(params, model.Columns)
	if err != nil {
		return nil, query.Pagination{}, err
	}

	books, total, err := s.bookRepo.List(ctx, plan)
	if err != nil {
		return nil, query.Pagination{}, fmt.Errorf("failed to list books: %w", err)
	}

	return books, query.NewPagination(plan.Page, plan.Limit, total), nil
}

func (s *bookService) SearchBooks(ctx context.Context, q string) ([]model.Book, error) {
	if strings.TrimSpace(q) == "" {
		return nil, model.ErrSearchQueryRequired
	}

	books, err := s.bookRepo.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}

	return books, nil
}

// GetBookDetail fetches the book, then aggregates its reviews: the mean
// rating runs over every review of the book, not just the current page.
func (s *bookService) GetBookDetail(
	ctx context.Context,
	id uuid.UUID,
	params url.Values,
) (*model.BookDetail, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	page, limit := query.ParsePage(params)
	offset := (page - 1) * limit

	reviews, err := s.reviews.ListByBook(ctx, id, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []*reviewmodel.Review{}
	}

	count, err := s.reviews.CountByBook(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	average, err := s.reviews.AverageRating(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to average ratings: %w", err)
	}

	return &model.BookDetail{
		Book:          *book,
		AverageRating: average,
		Reviews: model.ReviewsBlock{
			Count:      count,
			Pagination: query.NewPagination(page, limit, count),
			Data:       reviews,
		},
	}, nil
}

// DeleteBook is the single deletion entry point for books. Ownership is
// checked before any mutation; the repository removes book and reviews
// in one transaction.
func (s *bookService) DeleteBook(ctx context.Context, callerID, id uuid.UUID) error {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if book.OwnerID != callerID {
		return model.ErrNotBookOwner
	}

	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return err
	}

	return nil
}
