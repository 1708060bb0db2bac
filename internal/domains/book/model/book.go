package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	reviewmodel "bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/shared/query"
)

// Book is the catalog entity. Reviews reference it by id; they are never
// embedded here.
type Book struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	Description   string    `json:"description"`
	PublishedYear *int      `json:"publishedYear,omitempty"`
	Publisher     *string   `json:"publisher,omitempty"`
	ISBN          *string   `json:"isbn,omitempty"`
	OwnerID       uuid.UUID `json:"ownerId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Columns maps the exposed field names to their database columns for the
// query planner. Names missing here fall back to snake_case pass-through.
var Columns = map[string]string{
	"id":            "id",
	"title":         "title",
	"author":        "author",
	"genre":         "genre",
	"description":   "description",
	"publishedYear": "published_year",
	"publisher":     "publisher",
	"isbn":          "isbn",
	"ownerId":       "owner_id",
	"createdAt":     "created_at",
}

// CreateBookRequest is the POST /books payload. The owner comes from the
// authenticated principal, never from the body.
type CreateBookRequest struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre"`
	Description   string  `json:"description"`
	PublishedYear *int    `json:"publishedYear"`
	Publisher     *string `json:"publisher"`
	ISBN          *string `json:"isbn"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("please add a title"),
			validation.Length(1, 100).Error("title cannot be more than 100 characters"),
		),
		validation.Field(&r.Author,
			validation.Required.Error("please add an author"),
		),
		validation.Field(&r.Genre,
			validation.Required.Error("please add a genre"),
		),
		validation.Field(&r.Description,
			validation.Required.Error("please add a description"),
		),
		validation.Field(&r.PublishedYear,
			validation.Min(0).Error("published year must be positive"),
		),
	)
}

// ReviewsBlock is the nested review listing on the book detail payload.
type ReviewsBlock struct {
	Count      int                   `json:"count"`
	Pagination query.Pagination      `json:"pagination"`
	Data       []*reviewmodel.Review `json:"data"`
}

// BookDetail is the book plus its aggregate rating and paginated reviews.
type BookDetail struct {
	Book
	AverageRating float64      `json:"averageRating"`
	Reviews       ReviewsBlock `json:"reviews"`
}
