package handlers

import (
	"errors"
	"net/http"

	"mini_blog/internal/models"
	"mini_blog/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgMissingCredentials = "Username and password are required."
	msgUsernameTaken      = "That username is already taken."
	msgInvalidLogin       = "Invalid username or password."
	msgInternal           = "Something went wrong. Please try again."
	msgMissingFile        = "No file was submitted."
	msgUploadOK           = "Upload successful"
)

// credentialsForm is shared by the register and login forms.
type credentialsForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// pageData is the single view model passed to every template.
type pageData struct {
	Title    string
	Username string
	Error    string
	Form     credentialsForm
	Stats    models.DashboardStats
}

func (h *Handler) render(c *gin.Context, code int, page string, data pageData) {
	data.Username = currentUser(c)
	c.HTML(code, page, data)
}

func (h *Handler) index(c *gin.Context) {
	h.render(c, http.StatusOK, "index.html", pageData{Title: "Home"})
}

func (h *Handler) registerPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", pageData{Title: "Register"})
}

func (h *Handler) register(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		if h.log != nil {
			h.log.Infow("register_bad_form", "err", err)
		}
		h.render(c, http.StatusBadRequest, "register.html", pageData{Title: "Register", Error: msgMissingCredentials, Form: form})
		return
	}

	id, err := h.services.Register(c.Request.Context(), form.Username, form.Password)
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		if h.log != nil {
			h.log.Infow("register_duplicate", "username", form.Username)
		}
		h.render(c, http.StatusConflict, "register.html", pageData{Title: "Register", Error: msgUsernameTaken, Form: form})
		return
	case errors.Is(err, service.ErrMissingCredentials):
		h.render(c, http.StatusBadRequest, "register.html", pageData{Title: "Register", Error: msgMissingCredentials, Form: form})
		return
	case err != nil:
		if h.log != nil {
			h.log.Errorw("register_failed", "username", form.Username, "err", err)
		}
		h.render(c, http.StatusInternalServerError, "register.html", pageData{Title: "Register", Error: msgInternal, Form: form})
		return
	}

	if h.log != nil {
		h.log.Infow("user_registered", "id", id, "username", form.Username)
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) loginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", pageData{Title: "Log in"})
}

func (h *Handler) login(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "login.html", pageData{Title: "Log in", Error: msgMissingCredentials, Form: form})
		return
	}

	token, err := h.services.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrMissingCredentials) {
			if h.log != nil {
				h.log.Infow("login_rejected", "username", form.Username)
			}
			c.String(http.StatusUnauthorized, msgInvalidLogin)
			return
		}
		if h.log != nil {
			h.log.Errorw("login_failed", "username", form.Username, "err", err)
		}
		c.String(http.StatusInternalServerError, msgInternal)
		return
	}

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) dashboard(c *gin.Context) {
	stats, err := h.services.Stats(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("dashboard_stats_failed", "err", err)
		}
		c.String(http.StatusInternalServerError, msgInternal)
		return
	}
	h.render(c, http.StatusOK, "dashboard.html", pageData{Title: "Dashboard", Stats: stats})
}

func (h *Handler) uploadPage(c *gin.Context) {
	h.render(c, http.StatusOK, "upload.html", pageData{Title: "Upload"})
}

func (h *Handler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.String(http.StatusBadRequest, msgMissingFile)
		return
	}
	f, err := fh.Open()
	if err != nil {
		if h.log != nil {
			h.log.Errorw("upload_open_failed", "err", err)
		}
		c.String(http.StatusBadRequest, msgMissingFile)
		return
	}
	defer func() { _ = f.Close() }()

	stored, err := h.services.SaveUpload(fh.Filename, f)
	if err != nil {
		if errors.Is(err, service.ErrEmptyFilename) {
			c.String(http.StatusBadRequest, msgMissingFile)
			return
		}
		if h.log != nil {
			h.log.Errorw("upload_save_failed", "filename", fh.Filename, "err", err)
		}
		c.String(http.StatusInternalServerError, msgInternal)
		return
	}

	if h.log != nil {
		h.log.Infow("upload_saved", "filename", fh.Filename, "stored_as", stored, "size", fh.Size)
	}
	c.String(http.StatusOK, msgUploadOK)
}
