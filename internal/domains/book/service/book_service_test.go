package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/domains/book/model"
	reviewmodel "bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/shared/query"
)

type fakeBookRepo struct {
	books map[uuid.UUID]*model.Book

	lastPlan   *query.Plan
	deleted    []uuid.UUID
	lastSearch string
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[uuid.UUID]*model.Book{}}
}

func (f *fakeBookRepo) Create(_ context.Context, book *model.Book) error {
	copy := *book
	f.books[book.ID] = &copy
	return nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	copy := *b
	return &copy, nil
}

func (f *fakeBookRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.books[id]
	return ok, nil
}

func (f *fakeBookRepo) List(_ context.Context, plan *query.Plan) ([]model.Book, int, error) {
	f.lastPlan = plan

	var all []model.Book
	for _, b := range f.books {
		all = append(all, *b)
	}

	total := len(all)
	if plan.Offset >= total {
		return nil, total, nil
	}
	all = all[plan.Offset:]
	if plan.Limit < len(all) {
		all = all[:plan.Limit]
	}
	return all, total, nil
}

func (f *fakeBookRepo) Search(_ context.Context, q string) ([]model.Book, error) {
	f.lastSearch = q
	return nil, nil
}

func (f *fakeBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(f.books, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeReviewSource struct {
	reviews map[uuid.UUID][]*reviewmodel.Review
}

func (f *fakeReviewSource) ListByBook(_ context.Context, bookID uuid.UUID, limit, offset int) ([]*reviewmodel.Review, error) {
	all := f.reviews[bookID]
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeReviewSource) CountByBook(_ context.Context, bookID uuid.UUID) (int, error) {
	return len(f.reviews[bookID]), nil
}

func (f *fakeReviewSource) AverageRating(_ context.Context, bookID uuid.UUID) (float64, error) {
	all := f.reviews[bookID]
	if len(all) == 0 {
		return 0, nil
	}
	sum := 0
	for _, r := range all {
		sum += r.Rating
	}
	return float64(sum) / float64(len(all)), nil
}

func seedBook(repo *fakeBookRepo, owner uuid.UUID) *model.Book {
	book := &model.Book{
		ID:          uuid.New(),
		Title:       "The Left Hand of Darkness",
		Author:      "Ursula K. Le Guin",
		Genre:       "Sci-Fi",
		Description: "An envoy on a planet of ambisexual people.",
		OwnerID:     owner,
		CreatedAt:   time.Now(),
	}
	repo.books[book.ID] = book
	return book
}

func seedReviews(src *fakeReviewSource, bookID uuid.UUID, ratings ...int) {
	for _, rating := range ratings {
		src.reviews[bookID] = append(src.reviews[bookID], &reviewmodel.Review{
			ID:        uuid.New(),
			BookID:    bookID,
			UserID:    uuid.New(),
			Rating:    rating,
			CreatedAt: time.Now(),
		})
	}
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("valid request", func(t *testing.T) {
		repo := newFakeBookRepo()
		svc := NewBookService(repo, &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}})

		book, err := svc.CreateBook(ctx, owner, model.CreateBookRequest{
			Title:       "  Dune  ",
			Author:      "Frank Herbert",
			Genre:       "Sci-Fi",
			Description: "Spice and sandworms.",
		})
		require.NoError(t, err)

		assert.Equal(t, "Dune", book.Title)
		assert.Equal(t, owner, book.OwnerID)
		assert.Len(t, repo.books, 1)
	})

	t.Run("missing required fields", func(t *testing.T) {
		repo := newFakeBookRepo()
		svc := NewBookService(repo, &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}})

		_, err := svc.CreateBook(ctx, owner, model.CreateBookRequest{Title: "Dune"})
		assert.Error(t, err)
		assert.Empty(t, repo.books)
	})
}

func TestListBooks(t *testing.T) {
	ctx := context.Background()

	t.Run("builds plan from raw params", func(t *testing.T) {
		repo := newFakeBookRepo()
		svc := NewBookService(repo, &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}})

		params := url.Values{}
		params.Set("genre", "Fantasy")
		params.Set("page", "2")
		params.Set("limit", "5")
		params.Set("sort", "-publishedYear")

		_, _, err := svc.ListBooks(ctx, params)
		require.NoError(t, err)

		require.NotNil(t, repo.lastPlan)
		assert.Equal(t, "genre = $1", repo.lastPlan.Where)
		assert.Equal(t, "published_year DESC", repo.lastPlan.OrderBy)
		assert.Equal(t, 2, repo.lastPlan.Page)
		assert.Equal(t, 5, repo.lastPlan.Limit)
		assert.Equal(t, 5, repo.lastPlan.Offset)
	})

	t.Run("pagination reflects total", func(t *testing.T) {
		repo := newFakeBookRepo()
		owner := uuid.New()
		for i := 0; i < 15; i++ {
			seedBook(repo, owner)
		}
		svc := NewBookService(repo, &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}})

		params := url.Values{}
		params.Set("page", "2")

		books, pagination, err := svc.ListBooks(ctx, params)
		require.NoError(t, err)

		assert.Len(t, books, 5)
		assert.Nil(t, pagination.Next)
		require.NotNil(t, pagination.Prev)
		assert.Equal(t, query.PageRef{Page: 1, Limit: 10}, *pagination.Prev)
	})

	t.Run("page past the end is empty, not an error", func(t *testing.T) {
		repo := newFakeBookRepo()
		seedBook(repo, uuid.New())
		svc := NewBookService(repo, &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}})

		params := url.Values{}
		params.Set("page", "99")

		books, pagination, err := svc.ListBooks(ctx, params)
		require.NoError(t, err)
		assert.Empty(t, books)
		assert.Nil(t, pagination.Next)
	})

	t.Run("invalid filter field surfaces", func(t *testing.T) {
		repo := newFakeBookRepo()
		svc := NewBookService(repo, &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}})

		params := url.Values{}
		params.Set("title; DROP TABLE books", "x")

		_, _, err := svc.ListBooks(ctx, params)
		assert.ErrorIs(t, err, query.ErrInvalidField)
	})
}

func TestSearchBooks(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query rejected", func(t *testing.T) {
		repo := newFakeBookRepo()
		svc := NewBookService(repo, &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}})

		_, err := svc.SearchBooks(ctx, "   ")
		assert.ErrorIs(t, err, model.ErrSearchQueryRequired)
		assert.Empty(t, repo.lastSearch)
	})

	t.Run("query forwarded to store", func(t *testing.T) {
		repo := newFakeBookRepo()
		svc := NewBookService(repo, &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}})

		_, err := svc.SearchBooks(ctx, "le guin")
		require.NoError(t, err)
		assert.Equal(t, "le guin", repo.lastSearch)
	})
}

func TestGetBookDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates mean over all reviews", func(t *testing.T) {
		repo := newFakeBookRepo()
		book := seedBook(repo, uuid.New())
		src := &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}}
		seedReviews(src, book.ID, 5, 3, 4)
		svc := NewBookService(repo, src)

		detail, err := svc.GetBookDetail(ctx, book.ID, url.Values{})
		require.NoError(t, err)

		assert.Equal(t, book.ID, detail.ID)
		assert.InDelta(t, 4.0, detail.AverageRating, 1e-9)
		assert.Equal(t, 3, detail.Reviews.Count)
		assert.Len(t, detail.Reviews.Data, 3)
	})

	t.Run("zero reviews yields zero average and empty data", func(t *testing.T) {
		repo := newFakeBookRepo()
		book := seedBook(repo, uuid.New())
		src := &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}}
		svc := NewBookService(repo, src)

		detail, err := svc.GetBookDetail(ctx, book.ID, url.Values{})
		require.NoError(t, err)

		assert.Zero(t, detail.AverageRating)
		assert.Equal(t, 0, detail.Reviews.Count)
		assert.NotNil(t, detail.Reviews.Data)
		assert.Empty(t, detail.Reviews.Data)
	})

	t.Run("review window pages while average stays global", func(t *testing.T) {
		repo := newFakeBookRepo()
		book := seedBook(repo, uuid.New())
		src := &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}}
		seedReviews(src, book.ID, 1, 2, 3, 4, 5)
		svc := NewBookService(repo, src)

		params := url.Values{}
		params.Set("page", "2")
		params.Set("limit", "2")

		detail, err := svc.GetBookDetail(ctx, book.ID, params)
		require.NoError(t, err)

		assert.Len(t, detail.Reviews.Data, 2)
		assert.Equal(t, 5, detail.Reviews.Count)
		assert.InDelta(t, 3.0, detail.AverageRating, 1e-9)
		require.NotNil(t, detail.Reviews.Pagination.Next)
		require.NotNil(t, detail.Reviews.Pagination.Prev)
	})

	t.Run("unknown book", func(t *testing.T) {
		repo := newFakeBookRepo()
		svc := NewBookService(repo, &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}})

		_, err := svc.GetBookDetail(ctx, uuid.New(), url.Values{})
		assert.ErrorIs(t, err, model.ErrBookNotFound)
	})
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("owner deletes", func(t *testing.T) {
		repo := newFakeBookRepo()
		book := seedBook(repo, owner)
		svc := NewBookService(repo, &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}})

		err := svc.DeleteBook(ctx, owner, book.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{book.ID}, repo.deleted)
	})

	t.Run("non-owner rejected before any mutation", func(t *testing.T) {
		repo := newFakeBookRepo()
		book := seedBook(repo, owner)
		svc := NewBookService(repo, &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}})

		err := svc.DeleteBook(ctx, uuid.New(), book.ID)
		assert.ErrorIs(t, err, model.ErrNotBookOwner)
		assert.Empty(t, repo.deleted)
		assert.Len(t, repo.books, 1)
	})

	t.Run("unknown book", func(t *testing.T) {
		repo := newFakeBookRepo()
		svc := NewBookService(repo, &fakeReviewSource{reviews: map[uuid.UUID][]*reviewmodel.Review{}})

		err := svc.DeleteBook(ctx, owner, uuid.New())
		assert.ErrorIs(t, err, model.ErrBookNotFound)
	})
}
