package users

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viktorkr/authapp/internal/common"
	"github.com/viktorkr/authapp/internal/logging"
	"github.com/viktorkr/authapp/internal/server/auth"
	"github.com/viktorkr/authapp/internal/server/models"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestService(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	return NewService(repo, "test-secret", 24*time.Hour, testLogger()), repo
}

func validSignup() RegisterRequest {
	return RegisterRequest{
		Email:     "a@b.com",
		Password:  "password123",
		FirstName: "A",
		LastName:  "B",
	}
}

func TestService_Register_Success(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, validSignup())
	require.NoError(t, err)

	assert.NotEmpty(t, res.Token)
	assert.Equal(t, int64(86400), res.ExpiresIn)
	assert.Equal(t, "a@b.com", res.User.Email)
	assert.NotEmpty(t, res.User.ID)
	assert.False(t, res.User.CreatedAt.IsZero())

	// Exactly one record, retrievable by both keys.
	stored, err := repo.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, stored.ID)
	assert.True(t, auth.CheckPassword("password123", stored.PasswordHash))

	// The issued token resolves back to the new user.
	claims, err := auth.ParseToken(res.Token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
}

func TestService_Register_NormalizesEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	req := validSignup()
	req.Email = "  A@B.Com "
	res, err := svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", res.User.Email)

	// A differently-cased, whitespace-padded duplicate is still a duplicate.
	req2 := validSignup()
	req2.Email = "A@B.COM"
	_, err = svc.Register(ctx, req2)
	assert.ErrorIs(t, err, common.ErrEmailTaken)
}

func TestService_Register_Validation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{"empty email", func(r *RegisterRequest) { r.Email = "" }},
		{"short password", func(r *RegisterRequest) { r.Password = "1234567" }},
		{"blank first name", func(r *RegisterRequest) { r.FirstName = "   " }},
		{"blank last name", func(r *RegisterRequest) { r.LastName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)
			_, err := svc.Register(ctx, req)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}

	// No failure path may leave a record behind.
	_, err := repo.GetByEmail(ctx, "a@b.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestService_Register_ConcurrentSameEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, validSignup())
		}(i)
	}
	wg.Wait()

	winners, losers := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case assert.ErrorIs(t, err, common.ErrEmailTaken):
			losers++
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, losers)
}

func TestService_Login(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validSignup())
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		res, err := svc.Login(ctx, LoginRequest{Email: "a@b.com", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "a@b.com", res.User.Email)
	})

	t.Run("case-insensitive email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: " A@B.com ", Password: "password123"})
		require.NoError(t, err)
	})

	t.Run("wrong password is invalid credentials, not not-found", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "a@b.com", Password: "wrongpassword"})
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("unknown email yields the same error as wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "nobody@b.com", Password: "password123"})
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	})

	t.Run("blank password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "a@b.com", Password: "  "})
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestService_GetProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, validSignup())
	require.NoError(t, err)

	user, err := svc.GetProfile(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)

	// A token referencing a record the index cannot resolve is a capability
	// the server no longer honors.
	_, err = svc.GetProfile(ctx, "no-such-id")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestService_UpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, validSignup())
	require.NoError(t, err)
	orig := res.User

	first := " Alice "
	updated, err := svc.UpdateProfile(ctx, orig.ID, models.ProfileUpdate{FirstName: &first})
	require.NoError(t, err)

	assert.Equal(t, "Alice", updated.FirstName, "supplied field is trimmed and applied")
	assert.Equal(t, "B", updated.LastName)
	assert.Equal(t, orig.Email, updated.Email)
	assert.Equal(t, orig.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(orig.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(orig.UpdatedAt))

	blank := "  "
	_, err = svc.UpdateProfile(ctx, orig.ID, models.ProfileUpdate{LastName: &blank})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.UpdateProfile(ctx, orig.ID, models.ProfileUpdate{})
	assert.ErrorIs(t, err, common.ErrValidation, "an update with no fields is rejected")

	name := "X"
	_, err = svc.UpdateProfile(ctx, "no-such-id", models.ProfileUpdate{FirstName: &name})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestService_StoreUnavailable(t *testing.T) {
	repo := &failingRepo{}
	svc := NewService(repo, "s", time.Hour, testLogger())
	ctx := context.Background()

	_, err := svc.Register(ctx, validSignup())
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)

	_, err = svc.Login(ctx, LoginRequest{Email: "a@b.com", Password: "password123"})
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)

	_, err = svc.GetProfile(ctx, "id")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

// failingRepo simulates an unreachable backend.
type failingRepo struct{}

func (f *failingRepo) Create(ctx context.Context, user *models.User) error {
	return storeErr(context.DeadlineExceeded)
}

func (f *failingRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, storeErr(context.DeadlineExceeded)
}

func (f *failingRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return nil, storeErr(context.DeadlineExceeded)
}

func (f *failingRepo) Update(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	return nil, storeErr(context.DeadlineExceeded)
}
