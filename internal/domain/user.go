package domain

import (
	"context"
	"time"
)

// User is a registered account. User CRUD itself lives outside this service;
// only existence checks are needed here.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRepository defines the user storage access this service needs.
type UserRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}
