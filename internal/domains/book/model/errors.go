package model

import "errors"

var (
	ErrBookNotFound        = errors.New("book not found")
	ErrNotBookOwner        = errors.New("not authorized to delete this book")
	ErrSearchQueryRequired = errors.New("please provide a search query")
)
