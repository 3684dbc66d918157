package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUsername     = "username"
	requestIDHeader = "X-Request-ID"
)

// sessionMiddleware resolves the session cookie into a username when it is
// valid. It never rejects a request; requireSession does that.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token, err := c.Cookie(h.cookie.Name)
	if err != nil || token == "" {
		c.Next()
		return
	}

	username, err := h.services.ParseSession(token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("session_rejected", "err", err)
		}
		h.clearSessionCookie(c)
		c.Next()
		return
	}

	c.Set(ctxUsername, username)
	c.Next()
}

// requireSession sends anonymous visitors to the login page.
func (h *Handler) requireSession(c *gin.Context) {
	if currentUser(c) == "" {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) string {
	return c.GetString(ctxUsername)
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}

// requestLogger tags each request with an ID and logs one line per request.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	reqID := c.GetHeader(requestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	c.Header(requestIDHeader, reqID)

	c.Next()

	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"request_id", reqID,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"user", currentUser(c),
	)
}
