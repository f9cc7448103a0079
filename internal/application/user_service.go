package application

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-marketplace-api/internal/domain/entity"
	"github.com/oksasatya/go-marketplace-api/internal/domain/repository"
	"github.com/oksasatya/go-marketplace-api/pkg/helpers"
	"github.com/oksasatya/go-marketplace-api/pkg/imagestore"
	"github.com/oksasatya/go-marketplace-api/pkg/mailer"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnknownEmail       = errors.New("no account with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const (
	saltBytes  = 16
	tokenBytes = 48
)

// UserService implements signup and login. The bearer token is generated
// once at signup and stays stable for the account's lifetime.
type UserService struct {
	Repo   repository.UserRepository
	Images imagestore.Store
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewUserService(repo repository.UserRepository, images imagestore.Store, pub *helpers.RabbitPublisher, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Images: images, Pub: pub, Logger: logger}
}

// SignupInput carries the signup form fields. Avatar is optional.
type SignupInput struct {
	Email    string
	Username string
	Phone    string
	Password string
	Avatar   *FileUpload
}

// FileUpload is an uploaded multipart file handed down from the handler.
type FileUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// Signup creates the account: unique email check, random salt, derived hash,
// opaque token, optional avatar upload under users/<id>.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	if existing, err := s.Repo.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	salt, err := helpers.NewToken(saltBytes)
	if err != nil {
		return nil, err
	}
	token, err := helpers.NewToken(tokenBytes)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		ID:    uuid.NewString(),
		Email: in.Email,
		Account: entity.Account{
			Username: in.Username,
			Phone:    in.Phone,
		},
		Salt:  salt,
		Hash:  helpers.HashPassword(salt, in.Password),
		Token: token,
	}

	if in.Avatar != nil && s.Images != nil {
		res, err := s.Images.Upload(ctx, "users/"+u.ID, in.Avatar.Filename, in.Avatar.ContentType, in.Avatar.Reader)
		if err != nil {
			return nil, err
		}
		u.Account.Avatar = &entity.Image{URL: res.URL, PublicID: res.PublicID}
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.sendWelcome(ctx, u)
	return u, nil
}

// Login verifies the password against the stored salt+hash and returns the
// user with the token issued at signup.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownEmail
		}
		return nil, err
	}
	if !helpers.VerifyPassword(u.Hash, u.Salt, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// sendWelcome enqueues the welcome email. Best effort: signup must not fail
// because the broker is down.
func (s *UserService) sendWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.WelcomeEmail(u.Email, u.Account.Username)
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}
