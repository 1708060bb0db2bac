package model

import "errors"

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrBookMissing     = errors.New("no book found with that id")
	ErrDuplicateReview = errors.New("you have already reviewed this book")
	ErrNotReviewOwner  = errors.New("not authorized to modify this review")
)
