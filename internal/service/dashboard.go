package service

import (
	"context"

	"mini_blog/internal/models"
	"mini_blog/internal/repository"
)

type DashboardService struct {
	users repository.Authorization
	files FileStore
}

func NewDashboardService(users repository.Authorization, files FileStore) *DashboardService {
	return &DashboardService{users: users, files: files}
}

func (s *DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	files, err := s.files.Count()
	if err != nil {
		return models.DashboardStats{}, err
	}
	return models.DashboardStats{Users: users, Files: files}, nil
}
