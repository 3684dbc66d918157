package service

import (
	"context"
	"errors"

	"mini_blog/internal/models"
	"mini_blog/internal/repository"
)

var ErrMissingPostFields = errors.New("title and content are required")

type PostService struct {
	postRepo repository.PostRepo
}

func NewPostService(repo repository.PostRepo) *PostService {
	return &PostService{postRepo: repo}
}

// CreatePost inserts a new post. Identical posts are not deduplicated.
func (s *PostService) CreatePost(ctx context.Context, title, content string) (int, error) {
	if title == "" || content == "" {
		return 0, ErrMissingPostFields
	}
	return s.postRepo.Create(ctx, title, content)
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx)
}
