package service

import (
	"context"
	"errors"
)

// ErrNoDatabase is returned by Ping when no database was wired.
var ErrNoDatabase = errors.New("database not configured")

// Pinger is satisfied by *db.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService reports whether the active backend answers.
type HealthService struct {
	db Pinger
}

func NewHealthService(db Pinger) *HealthService {
	return &HealthService{db: db}
}

func (s *HealthService) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrNoDatabase
	}
	return s.db.Ping(ctx)
}
