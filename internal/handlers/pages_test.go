package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"mini_blog/internal/models"
	"mini_blog/internal/service"
)

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestPages_GetRendersForms(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{}}
	r := newTestRouter(s)

	cases := []struct {
		path string
		want string
	}{
		{"/", "Mini Blog"},
		{"/register", `action="/register"`},
		{"/login", `action="/login"`},
		{"/upload", `enctype="multipart/form-data"`},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("status: got %d want 200", w.Code)
			}
			if !strings.Contains(w.Body.String(), tc.want) {
				t.Fatalf("body missing %q:\n%s", tc.want, w.Body.String())
			}
		})
	}
}

func TestRegister(t *testing.T) {
	cases := []struct {
		name     string
		form     url.Values
		err      error
		wantCode int
		wantLoc  string
		wantBody string
		wantCall bool
	}{
		{
			name:     "success redirects to login",
			form:     url.Values{"username": {"alice"}, "password": {"pw1"}},
			wantCode: http.StatusFound,
			wantLoc:  "/login",
			wantCall: true,
		},
		{
			name:     "missing password",
			form:     url.Values{"username": {"alice"}},
			wantCode: http.StatusBadRequest,
			wantBody: "are required",
		},
		{
			name:     "missing username",
			form:     url.Values{"password": {"pw1"}},
			wantCode: http.StatusBadRequest,
			wantBody: "are required",
		},
		{
			name:     "duplicate username",
			form:     url.Values{"username": {"alice"}, "password": {"pw1"}},
			err:      service.ErrUsernameTaken,
			wantCode: http.StatusConflict,
			wantBody: "already taken",
			wantCall: true,
		},
		{
			name:     "storage failure",
			form:     url.Values{"username": {"alice"}, "password": {"pw1"}},
			err:      errors.New("disk full"),
			wantCode: http.StatusInternalServerError,
			wantCall: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{registerID: 1, registerErr: tc.err}
			r := newTestRouter(&service.Service{Authorization: auth})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, postForm("/register", tc.form))

			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantLoc != "" && w.Header().Get("Location") != tc.wantLoc {
				t.Fatalf("location: got %q want %q", w.Header().Get("Location"), tc.wantLoc)
			}
			if tc.wantBody != "" && !strings.Contains(w.Body.String(), tc.wantBody) {
				t.Fatalf("body missing %q: %s", tc.wantBody, w.Body.String())
			}
			if (auth.registerCalls > 0) != tc.wantCall {
				t.Fatalf("register called %d times, wantCall=%v", auth.registerCalls, tc.wantCall)
			}
			if tc.wantCall && (auth.lastRegisterUser != "alice" || auth.lastRegisterPass != "pw1") {
				t.Fatalf("forwarded %q/%q", auth.lastRegisterUser, auth.lastRegisterPass)
			}
		})
	}
}

func TestLogin_SuccessSetsCookie(t *testing.T) {
	auth := &mockAuth{loginToken: "tok-1"}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postForm("/login", url.Values{"username": {"alice"}, "password": {"pw1"}}))

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("got %d -> %q", w.Code, w.Header().Get("Location"))
	}
	c := findCookie(w.Result(), defaultCookieName)
	if c == nil || c.Value != "tok-1" {
		t.Fatalf("session cookie not set: %+v", w.Result().Cookies())
	}
	if !c.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
}

func TestLogin_Rejections(t *testing.T) {
	cases := []struct {
		name     string
		form     url.Values
		err      error
		wantCode int
	}{
		{"wrong password", url.Values{"username": {"alice"}, "password": {"nope"}}, service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"missing fields", url.Values{"username": {"alice"}}, nil, http.StatusBadRequest},
		{"backend error", url.Values{"username": {"alice"}, "password": {"pw1"}}, errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{loginErr: tc.err}
			r := newTestRouter(&service.Service{Authorization: auth})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, postForm("/login", tc.form))

			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d want %d", w.Code, tc.wantCode)
			}
			if findCookie(w.Result(), defaultCookieName) != nil {
				t.Fatalf("no session cookie expected on rejection")
			}
		})
	}
}

func TestLogin_WrongPasswordMessage(t *testing.T) {
	auth := &mockAuth{loginErr: service.ErrInvalidCredentials}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postForm("/login", url.Values{"username": {"alice"}, "password": {"bad"}}))

	if w.Body.String() != msgInvalidLogin {
		t.Fatalf("body: got %q want %q", w.Body.String(), msgInvalidLogin)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout", nil))

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("got %d -> %q", w.Code, w.Header().Get("Location"))
	}
	c := findCookie(w.Result(), defaultCookieName)
	if c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", c)
	}
}

func TestDashboard(t *testing.T) {
	auth := &mockAuth{sessions: map[string]string{"good": "alice"}}

	t.Run("anonymous redirected", func(t *testing.T) {
		r := newTestRouter(&service.Service{Authorization: auth, Dashboard: &mockDashboard{}})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
			t.Fatalf("got %d -> %q", w.Code, w.Header().Get("Location"))
		}
	})

	t.Run("forged cookie redirected", func(t *testing.T) {
		r := newTestRouter(&service.Service{Authorization: auth, Dashboard: &mockDashboard{}})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(sessionCookie("forged"))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
			t.Fatalf("got %d -> %q", w.Code, w.Header().Get("Location"))
		}
	})

	t.Run("logged in sees counts", func(t *testing.T) {
		dash := &mockDashboard{stats: models.DashboardStats{Users: 3, Files: 7}}
		r := newTestRouter(&service.Service{Authorization: auth, Dashboard: dash})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(sessionCookie("good"))
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d want 200", w.Code)
		}
		body := w.Body.String()
		for _, want := range []string{"Hello, alice!", `<strong id="users">3</strong>`, `<strong id="files">7</strong>`} {
			if !strings.Contains(body, want) {
				t.Fatalf("body missing %q:\n%s", want, body)
			}
		}
	})

	t.Run("stats failure", func(t *testing.T) {
		dash := &mockDashboard{err: errors.New("boom")}
		r := newTestRouter(&service.Service{Authorization: auth, Dashboard: dash})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(sessionCookie("good"))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status: got %d want 500", w.Code)
		}
	})
}

func multipartUpload(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		up := &mockUploads{storedAs: "notes.txt"}
		r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Uploads: up})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartUpload(t, "file", "notes.txt", "hello"))

		if w.Code != http.StatusOK || w.Body.String() != msgUploadOK {
			t.Fatalf("got %d %q", w.Code, w.Body.String())
		}
		if up.lastName != "notes.txt" || up.lastBody != "hello" {
			t.Fatalf("forwarded %q/%q", up.lastName, up.lastBody)
		}
	})

	t.Run("no file part", func(t *testing.T) {
		up := &mockUploads{}
		r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Uploads: up})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartUpload(t, "other", "notes.txt", "hello"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status: got %d want 400", w.Code)
		}
		if up.lastName != "" {
			t.Fatalf("service must not be called")
		}
	})

	t.Run("empty filename", func(t *testing.T) {
		up := &mockUploads{err: service.ErrEmptyFilename}
		r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Uploads: up})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartUpload(t, "file", "x", ""))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status: got %d want 400", w.Code)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		up := &mockUploads{err: errors.New("read-only fs")}
		r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Uploads: up})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartUpload(t, "file", "notes.txt", "hello"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status: got %d want 500", w.Code)
		}
	})
}
