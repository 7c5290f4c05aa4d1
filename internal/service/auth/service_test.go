package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/pkg/auth"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = uuid.New()
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("no rows")
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errors.New("no rows")
	}
	return u, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	f.byEmail[user.Email] = user
	return nil
}

func newTestService(repo *fakeUserRepo) *Service {
	jwtSvc := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", ExpiryHours: 1})
	return NewService(repo, jwtSvc, nil, 1)
}

func register(t *testing.T, svc *Service, email, password string) *model.TokenResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Test User",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterIssuesToken(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	resp := register(t, svc, "a@example.com", "secret123")
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "en", resp.User.PreferredLanguage)

	claims, err := svc.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	register(t, svc, "a@example.com", "secret123")

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "a@example.com",
		Password: "secret456",
		FullName: "Other User",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestRegisterRejectsUnsupportedLanguage(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:             "a@example.com",
		Password:          "secret123",
		FullName:          "Test User",
		PreferredLanguage: "xx",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestLogin(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	register(t, svc, "a@example.com", "secret123")

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "a@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	register(t, svc, "a@example.com", "secret123")

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "a@example.com",
		Password: "wrong",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrAuthRequired))
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)
	register(t, svc, "a@example.com", "secret123")

	for i := 0; i < maxLoginAttempts; i++ {
		_, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "a@example.com",
			Password: "wrong",
		})
		assert.Error(t, err)
	}
	assert.Equal(t, model.UserStatusLocked, repo.byEmail["a@example.com"].Status)

	// Even the correct password is rejected while locked.
	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "a@example.com",
		Password: "secret123",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrAuthRequired))
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	resp := register(t, svc, "a@example.com", "secret123")

	name := "Renamed User"
	lang := "ta"
	user, err := svc.UpdateProfile(context.Background(), resp.User.ID.String(), &model.UpdateProfileRequest{
		FullName:          &name,
		PreferredLanguage: &lang,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed User", user.FullName)
	assert.Equal(t, "ta", user.PreferredLanguage)

	bad := "zz"
	_, err = svc.UpdateProfile(context.Background(), resp.User.ID.String(), &model.UpdateProfileRequest{
		PreferredLanguage: &bad,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}
