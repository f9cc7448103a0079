package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-marketplace-api/internal/application"
	"github.com/oksasatya/go-marketplace-api/pkg/response"
	"github.com/oksasatya/go-marketplace-api/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type signupRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Username string `form:"username" binding:"required"`
	Phone    string `form:"phone"`
	Password string `form:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// Signup handles POST /user/signup (multipart form, optional avatar file).
func (h *UserHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide an email, a username and a password.", "details": validation.ToDetails(err)})
		return
	}

	avatar, closeAvatar, err := openUpload(c, "avatar")
	if err != nil {
		response.Message(c, http.StatusBadRequest, "invalid avatar upload")
		return
	}
	defer closeAvatar()

	u, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Email:    req.Email,
		Username: req.Username,
		Phone:    req.Phone,
		Password: req.Password,
		Avatar:   avatar,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Message(c, http.StatusConflict, "There already is an account with this email.")
			return
		}
		h.Logger.WithError(err).Error("signup failed")
		response.Message(c, http.StatusBadRequest, err.Error())
		return
	}

	response.JSON(c, http.StatusCreated, gin.H{
		"id":      u.ID,
		"token":   u.Token,
		"account": u.Account,
	})
}

// Login handles POST /user/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide an email and a password.", "details": validation.ToDetails(err)})
		return
	}

	u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidCredentials):
			response.Unauthorized(c)
		case errors.Is(err, application.ErrUnknownEmail):
			response.Message(c, http.StatusBadRequest, "Unauthorized")
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Message(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"id":      u.ID,
		"token":   u.Token,
		"account": u.Account,
	})
}

// openUpload wraps an optional multipart file into a service FileUpload.
// The returned close function is a no-op when no file was sent.
func openUpload(c *gin.Context, field string) (*application.FileUpload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &application.FileUpload{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: uploadContentType(fh),
	}, func() { _ = f.Close() }, nil
}

func uploadContentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
