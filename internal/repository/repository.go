package repository

import (
	"context"
	"errors"

	"mini_blog/internal/models"
	"mini_blog/internal/repository/db"
)

// ErrDuplicate is returned when an insert hits a UNIQUE constraint.
var ErrDuplicate = errors.New("duplicate value")

type Authorization interface {
	Create(ctx context.Context, username, password string) (int, error)
	GetByCredentials(ctx context.Context, username, password string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

type PostRepo interface {
	Create(ctx context.Context, title, content string) (int, error)
	List(ctx context.Context) ([]models.Post, error)
}

type Repository struct {
	Auth  Authorization
	Posts PostRepo
}

func NewRepository(store *db.Store) *Repository {
	return &Repository{
		Auth:  NewUserRepository(store),
		Posts: NewPostRepository(store),
	}
}
