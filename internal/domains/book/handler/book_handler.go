package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/book/service"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/query"
	"bookreview-backend/internal/shared/response"
)

type BookHandler struct {
	bookService service.ServiceInterface
}

func NewBookHandler(bookService service.ServiceInterface) *BookHandler {
	return &BookHandler{bookService: bookService}
}

// ListBooks handles GET /books.
// Any book field is a filter; page, limit and sort control the window.
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, pagination, err := h.bookService.ListBooks(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.respondError(c, err)
		return
	}

	if books == nil {
		books = []model.Book{}
	}

	response.List(c, len(books), pagination, books)
}

// SearchBooks handles GET /books/search.
func (h *BookHandler) SearchBooks(c *gin.Context) {
	books, err := h.bookService.SearchBooks(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if books == nil {
		books = []model.Book{}
	}

	response.Collection(c, len(books), books)
}

// GetBook handles GET /books/:id, returning the book with its average
// rating and a paginated review window.
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, fmt.Sprintf("Book not found with id of %s", c.Param("id")))
		return
	}

	detail, err := h.bookService.GetBookDetail(c.Request.Context(), id, c.Request.URL.Query())
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, detail)
}

// CreateBook handles POST /books. The caller becomes the owner.
func (h *BookHandler) CreateBook(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Created(c, book)
}

// DeleteBook handles DELETE /books/:id, cascading to the book's reviews.
func (h *BookHandler) DeleteBook(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, fmt.Sprintf("Book not found with id of %s", c.Param("id")))
		return
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), userID, id); err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, gin.H{})
}

func (h *BookHandler) respondError(c *gin.Context, err error) {
	var validationErrs validation.Errors

	switch {
	case errors.Is(err, model.ErrBookNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrNotBookOwner):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, model.ErrSearchQueryRequired),
		errors.Is(err, query.ErrInvalidField):
		response.BadRequest(c, err.Error())
	case errors.As(err, &validationErrs):
		response.BadRequest(c, validationErrs.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
