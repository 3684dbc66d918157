package service

import (
	"context"
	"io"
	"time"

	"mini_blog/internal/models"
	"mini_blog/internal/notify"
	"mini_blog/internal/repository"
)

// Authorization covers registration, login and the session token that
// carries the logged-in username.
type Authorization interface {
	Register(ctx context.Context, username, password string) (int, error)
	Login(ctx context.Context, username, password string) (string, error)
	ParseSession(token string) (string, error)
}

// Posts is the JSON blog API.
type Posts interface {
	CreatePost(ctx context.Context, title, content string) (int, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
}

// Dashboard reports the counters shown to logged-in users.
type Dashboard interface {
	Stats(ctx context.Context) (models.DashboardStats, error)
}

// Uploads stores user-submitted files.
type Uploads interface {
	SaveUpload(filename string, r io.Reader) (string, error)
}

// FileStore is the upload directory as seen by the services.
type FileStore interface {
	Save(name string, r io.Reader) (string, error)
	Count() (int, error)
}

// Health checks the storage backend.
type Health interface {
	Ping(ctx context.Context) error
}

type Service struct {
	Authorization
	Posts
	Dashboard
	Uploads
	Health
}

// Deps are the non-repository collaborators.
type Deps struct {
	DB            Pinger
	Files         FileStore
	Notifier      notify.Notifier // nil means notify.Nop
	SessionSecret string
	SessionTTL    time.Duration
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		Authorization: NewAuthService(repos.Auth, notifier, deps.SessionSecret, deps.SessionTTL),
		Posts:         NewPostService(repos.Posts),
		Dashboard:     NewDashboardService(repos.Auth, deps.Files),
		Uploads:       NewUploadService(deps.Files),
		Health:        NewHealthService(deps.DB),
	}
}
