// Package repository defines the user store contract shared by the backends.
package repository

import (
	"context"
	"errors"
	"fmt"

	"exercise-tracker/internal/models"
)

var (
	// ErrNotFound is returned when the user id does not exist or is malformed.
	ErrNotFound = errors.New("user not found")
	// ErrValidation marks input a backend refuses to store.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidUsername is returned when creating a user without a username.
	ErrInvalidUsername = fmt.Errorf("%w: username is required", ErrValidation)
)

// UserRepository stores users and their exercise logs.
//
// AppendExercise must be atomic per user: concurrent appends to the same
// user are all kept.
type UserRepository interface {
	CreateUser(ctx context.Context, username string) (*models.User, error)
	// ListUsers returns users without their logs.
	ListUsers(ctx context.Context) ([]models.User, error)
	// GetUser returns the user with its full log in insertion order.
	GetUser(ctx context.Context, id string) (*models.User, error)
	AppendExercise(ctx context.Context, id string, exercise models.Exercise) (*models.User, error)
	Close(ctx context.Context) error
}
