package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated principal behind book ownership and reviews.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
