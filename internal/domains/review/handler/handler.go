package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/domains/review/service"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
)

type ReviewHandler struct {
	reviewService service.ServiceInterface
}

func NewReviewHandler(reviewService service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// AddReview handles POST /books/:id/reviews.
func (h *ReviewHandler) AddReview(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, fmt.Sprintf("No book found with the id of %s", c.Param("id")))
		return
	}

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviewService.AddReview(c.Request.Context(), userID, bookID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Created(c, review)
}

// UpdateReview handles PUT /reviews/:id, owner-only.
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, fmt.Sprintf("No review found with the id of %s", c.Param("id")))
		return
	}

	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), userID, reviewID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, review)
}

// DeleteReview handles DELETE /reviews/:id, owner-only.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, fmt.Sprintf("No review found with the id of %s", c.Param("id")))
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), userID, reviewID); err != nil {
		h.respondError(c, err)
		return
	}

	response.OK(c, gin.H{})
}

func (h *ReviewHandler) respondError(c *gin.Context, err error) {
	var validationErrs validation.Errors

	switch {
	case errors.Is(err, model.ErrReviewNotFound),
		errors.Is(err, model.ErrBookMissing):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrDuplicateReview):
		response.BadRequest(c, err.Error())
	case errors.Is(err, model.ErrNotReviewOwner):
		response.Unauthorized(c, err.Error())
	case errors.As(err, &validationErrs):
		response.BadRequest(c, validationErrs.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
