package handlers

import (
	"context"
	"io"
	"net/http"

	"mini_blog/internal/models"
	"mini_blog/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerID  int
	registerErr error
	loginToken  string
	loginErr    error
	sessions    map[string]string // token -> username

	registerCalls    int
	lastRegisterUser string
	lastRegisterPass string
	lastLoginUser    string
	lastLoginPass    string
}

func (m *mockAuth) Register(ctx context.Context, username, password string) (int, error) {
	m.registerCalls++
	m.lastRegisterUser = username
	m.lastRegisterPass = password
	return m.registerID, m.registerErr
}

func (m *mockAuth) Login(ctx context.Context, username, password string) (string, error) {
	m.lastLoginUser = username
	m.lastLoginPass = password
	return m.loginToken, m.loginErr
}

func (m *mockAuth) ParseSession(token string) (string, error) {
	if u, ok := m.sessions[token]; ok {
		return u, nil
	}
	return "", service.ErrInvalidSession
}

type mockPosts struct {
	posts     []models.Post
	listErr   error
	createErr error
	created   []models.Post
}

func (m *mockPosts) CreatePost(ctx context.Context, title, content string) (int, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.created = append(m.created, models.Post{ID: len(m.created) + 1, Title: title, Content: content})
	return len(m.created), nil
}

func (m *mockPosts) ListPosts(ctx context.Context) ([]models.Post, error) {
	return m.posts, m.listErr
}

type mockDashboard struct {
	stats models.DashboardStats
	err   error
}

func (m *mockDashboard) Stats(ctx context.Context) (models.DashboardStats, error) {
	return m.stats, m.err
}

type mockUploads struct {
	storedAs string
	err      error

	lastName string
	lastBody string
}

func (m *mockUploads) SaveUpload(filename string, r io.Reader) (string, error) {
	m.lastName = filename
	b, _ := io.ReadAll(r)
	m.lastBody = string(b)
	return m.storedAs, m.err
}

type mockHealth struct{ err error }

func (m *mockHealth) Ping(ctx context.Context) error { return m.err }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, SessionCookie{})
	return h.InitRoutes()
}

func sessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: defaultCookieName, Value: token}
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
