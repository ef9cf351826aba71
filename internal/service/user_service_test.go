package service

import (
	"context"
	"testing"
	"time"

	"expensems/internal/model"
	"expensems/pkg/api"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTokenRepo struct {
	tokens map[string]*model.RefreshToken
	users  *fakeUserRepo
}

func newFakeTokenRepo(users *fakeUserRepo) *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*model.RefreshToken{}, users: users}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *model.RefreshToken) error {
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeTokenRepo) GetByToken(_ context.Context, token string) (*model.RefreshToken, error) {
	stored, ok := r.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if user, ok := r.users.users[stored.UserID.String()]; ok {
		stored.User = *user
	}
	return stored, nil
}

func (r *fakeTokenRepo) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *fakeTokenRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for key, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, key)
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context) error {
	for key, token := range r.tokens {
		if time.Now().After(token.ExpiresAt) {
			delete(r.tokens, key)
		}
	}
	return nil
}

func newUserService() (UserService, *fakeUserRepo, *fakeTokenRepo) {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo(users)
	return NewUserService(users, tokens), users, tokens
}

func registerRequest() api.RegisterRequest {
	return api.RegisterRequest{
		Email:     "user@example.com",
		Password:  "correct horse",
		FirstName: "Test",
		LastName:  "User",
	}
}

func TestRegisterIssuesTokens(t *testing.T) {
	svc, users, tokens := newUserService()

	auth, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, auth.Token)
	assert.NotEmpty(t, auth.RefreshToken)
	assert.Equal(t, api.RoleUser, auth.User.Role)
	assert.Equal(t, "user@example.com", auth.User.Email)

	stored, err := users.GetByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored.Password, "password must be hashed")
	assert.Contains(t, tokens.tokens, auth.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest())
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "Email is already registered", valErr.Fields["email"])
}

func TestLogin(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	auth, err := svc.Login(ctx, api.LoginRequest{Email: "user@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token)

	_, err = svc.Login(ctx, api.LoginRequest{Email: "user@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, api.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, tokens := newUserService()
	ctx := context.Background()

	auth, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, api.RefreshRequest{RefreshToken: auth.RefreshToken})
	require.NoError(t, err)

	assert.NotEqual(t, auth.RefreshToken, rotated.RefreshToken)
	assert.NotContains(t, tokens.tokens, auth.RefreshToken, "presented token is consumed")
	assert.Contains(t, tokens.tokens, rotated.RefreshToken)

	// Replaying the consumed token fails.
	_, err = svc.Refresh(ctx, api.RefreshRequest{RefreshToken: auth.RefreshToken})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshExpiredToken(t *testing.T) {
	svc, _, tokens := newUserService()
	ctx := context.Background()

	auth, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	tokens.tokens[auth.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = svc.Refresh(ctx, api.RefreshRequest{RefreshToken: auth.RefreshToken})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotContains(t, tokens.tokens, auth.RefreshToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, tokens := newUserService()
	ctx := context.Background()

	auth, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, auth.RefreshToken))
	assert.NotContains(t, tokens.tokens, auth.RefreshToken)

	require.NoError(t, svc.Logout(ctx, ""))
}

func TestGetProfile(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	auth, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, auth.User.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", profile.Email)

	_, err = svc.GetProfile(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
