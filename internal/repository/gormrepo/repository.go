// Package gormrepo stores users in a relational database through gorm.
package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"exercise-tracker/internal/models"
	"exercise-tracker/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository implements repository.UserRepository on gorm.
type Repository struct {
	db *gorm.DB
}

var _ repository.UserRepository = (*Repository)(nil)

// New wraps an open, migrated database.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a user with an empty log.
func (r *Repository) CreateUser(ctx context.Context, username string) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, repository.ErrInvalidUsername
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.Log = []models.Exercise{}
	return user, nil
}

// ListUsers returns id and username of every user in creation order.
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Select("id", "username").
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser loads a user with its log.
func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := loadUser(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// AppendExercise inserts one exercise row for the user inside a transaction
// and returns the reloaded user. Rows are never rewritten, so concurrent
// appends cannot overwrite each other.
func (r *Repository) AppendExercise(ctx context.Context, id string, exercise models.Exercise) (*models.User, error) {
	var user *models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.User
		if err := tx.Select("id").First(&owner, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrNotFound
			}
			return err
		}

		exercise.ID = 0
		exercise.UserID = owner.ID
		if err := tx.Create(&exercise).Error; err != nil {
			return err
		}

		var err error
		user, err = loadUser(tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("append exercise: %w", err)
	}
	return user, nil
}

// Close closes the underlying connection pool.
func (r *Repository) Close(_ context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return sqlDB.Close()
}

func loadUser(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.
		Preload("Log", func(db *gorm.DB) *gorm.DB {
			return db.Order("exercises.id ASC")
		}).
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if user.Log == nil {
		user.Log = []models.Exercise{}
	}
	return &user, nil
}
