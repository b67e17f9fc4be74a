package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medinfo/medinfo-api/internal/model"
	"github.com/medinfo/medinfo-api/pkg/auth"
	apperrors "github.com/medinfo/medinfo-api/pkg/errors"
	"github.com/medinfo/medinfo-api/pkg/security"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return f.users[username], nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	hasher := security.NewBcryptHasher(4)
	return NewService(repo, jwtSvc, hasher, zerolog.Nop()), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "alice",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Token)
	assert.Equal(t, "alice", tokens.Username)

	claims, err := svc.ValidateToken(context.Background(), tokens.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{Username: "alice", Password: "password-1"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &model.RegisterRequest{Username: "alice", Password: "password-2"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), &model.RegisterRequest{Username: "alice", Password: "password-1"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &model.LoginRequest{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), &model.LoginRequest{Username: "nobody", Password: "whatever"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}
