package application

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-marketplace-api/internal/domain/entity"
	"github.com/oksasatya/go-marketplace-api/internal/domain/repository"
)

// fakeUserRepo is an in-memory repository.UserRepository. A plain fake keeps
// the tests readable: what it does is exactly what you see.
type fakeUserRepo struct {
	byID    map[string]*entity.User
	byEmail map[string]*entity.User
	byToken map[string]*entity.User
	err     error // when set, every call fails with it
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]*entity.User),
		byToken: make(map[string]*entity.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	f.byToken[u.Token] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.get(f.byID, id)
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.get(f.byEmail, email)
}

func (f *fakeUserRepo) GetByToken(_ context.Context, token string) (*entity.User, error) {
	return f.get(f.byToken, token)
}

func (f *fakeUserRepo) get(m map[string]*entity.User, key string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := m[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestUserService(repo *fakeUserRepo) *UserService {
	return NewUserService(repo, nil, nil, quietLogger())
}

func TestSignup_IssuesTokenAndStoresNoPlaintext(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)

	u, err := svc.Signup(context.Background(), SignupInput{
		Email:    "alice@example.com",
		Username: "alice",
		Phone:    "+33611223344",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.NotEmpty(t, u.Token)
	assert.NotEmpty(t, u.Salt)
	assert.NotEmpty(t, u.Hash)
	assert.NotEqual(t, "s3cret-password", u.Hash)
	assert.Equal(t, "alice", u.Account.Username)
}

func TestSignup_DuplicateEmailRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Email: "bob@example.com", Username: "bob", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{Email: "bob@example.com", Username: "bob2", Password: "pw2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, repo.byID, 1)
}

func TestLogin_ReturnsSignupToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupInput{Email: "carol@example.com", Username: "carol", Password: "hunter22"})
	require.NoError(t, err)

	u, err := svc.Login(ctx, "carol@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, created.Token, u.Token, "login must return the token issued at signup")
	assert.Equal(t, created.ID, u.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestUserService(repo)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Email: "dave@example.com", Username: "dave", Password: "correct"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "dave@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrUnknownEmail)
}
