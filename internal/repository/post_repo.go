package repository

import (
	"context"
	"fmt"

	"mini_blog/internal/models"
	"mini_blog/internal/repository/db"
)

type PostRepository struct {
	store *db.Store
}

func NewPostRepository(store *db.Store) *PostRepository {
	return &PostRepository{store: store}
}

var _ PostRepo = (*PostRepository)(nil)

const (
	insertPostSQL = `INSERT INTO posts (title, content) VALUES (?, ?) RETURNING id`
	selectPostSQL = `SELECT id, title, content FROM posts ORDER BY id ASC`
)

func (r *PostRepository) Create(ctx context.Context, title, content string) (int, error) {
	var id int
	err := r.store.InTx(ctx, func(q db.Querier) error {
		row, err := q.QueryRow(ctx, insertPostSQL, title, content)
		if err != nil {
			return err
		}
		id, err = row.Int("id")
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	return id, nil
}

// List returns every post in insertion order. Never nil, so it encodes as [].
func (r *PostRepository) List(ctx context.Context) ([]models.Post, error) {
	rows, err := r.store.Query(ctx, selectPostSQL)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}

	out := make([]models.Post, 0, len(rows))
	for _, row := range rows {
		id, err := row.Int("id")
		if err != nil {
			return nil, fmt.Errorf("select posts: %w", err)
		}
		out = append(out, models.Post{
			ID:      id,
			Title:   row.String("title"),
			Content: row.String("content"),
		})
	}
	return out, nil
}
