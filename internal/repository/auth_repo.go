package repository

import (
	"context"
	"errors"
	"fmt"

	"mini_blog/internal/models"
	"mini_blog/internal/repository/db"
)

type UserRepository struct {
	store *db.Store
}

func NewUserRepository(store *db.Store) *UserRepository {
	return &UserRepository{store: store}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL             = `INSERT INTO users (username, password) VALUES (?, ?) RETURNING id`
	selectUserByCredentialSQL = `SELECT id, username, password FROM users WHERE username = ? AND password = ?`
	countUsersSQL             = `SELECT COUNT(*) AS n FROM users`
)

// Create inserts a new user and returns its ID. A taken username yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, username, password string) (int, error) {
	var id int
	err := r.store.InTx(ctx, func(q db.Querier) error {
		row, err := q.QueryRow(ctx, insertUserSQL, username, password)
		if err != nil {
			return err
		}
		id, err = row.Int("id")
		return err
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, fmt.Errorf("insert user %q: %w", username, ErrDuplicate)
		}
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	return id, nil
}

// GetByCredentials returns the user whose username and password both match
// exactly, or (nil, nil) when none does.
func (r *UserRepository) GetByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	row, err := r.store.QueryRow(ctx, selectUserByCredentialSQL, username, password)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return userFromRow(row)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	row, err := r.store.QueryRow(ctx, countUsersSQL)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	n, err := row.Int("n")
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func userFromRow(row db.Row) (*models.User, error) {
	id, err := row.Int("id")
	if err != nil {
		return nil, err
	}
	return &models.User{
		ID:       id,
		Username: row.String("username"),
		Password: row.String("password"),
	}, nil
}
