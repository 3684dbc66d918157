package handlers

import (
	"errors"
	"net/http"

	"mini_blog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"
	msgAdded          = "Added"

	errListPosts    = "failed to load posts"
	errCreatePost   = "failed to add post"
	errInvalidBody  = "invalid body: title and content are required"
	errDatabaseDown = "database unavailable"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO for creating a post.
type postRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// CreatePostRequest is an exported model for Swagger docs of the createPost payload.
type CreatePostRequest struct {
	Title   string `json:"title" example:"Hello"`
	Content string `json:"content" example:"First post"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	if h.services.Health == nil {
		c.JSON(http.StatusOK, gin.H{"status": statusOK})
		return
	}
	if err := h.services.Ping(c.Request.Context()); err != nil {
		if h.log != nil {
			h.log.Errorw("health_db_ping_failed", "err", err)
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": statusUnavailable, "error": errDatabaseDown})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Success      200  {array}   models.Post
// @Failure      500  {object}  map[string]string
// @Router       /api/posts [get]
func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.services.ListPosts(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListPosts, "list_posts_failed", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// @Summary      Add post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        payload  body      CreatePostRequest  true  "Post"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /api/posts [post]
func (h *Handler) createPost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	id, err := h.services.CreatePost(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrMissingPostFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errCreatePost, "create_post_failed", err, "title", req.Title)
		return
	}

	if h.log != nil {
		h.log.Infow("post_created", "id", id)
	}
	c.JSON(http.StatusOK, gin.H{"message": msgAdded})
}
