package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/viktorkr/authapp/internal/common"
	"github.com/viktorkr/authapp/internal/logging"
	"github.com/viktorkr/authapp/internal/server/auth"
	"github.com/viktorkr/authapp/internal/server/models"
)

// MinPasswordLength is the registration minimum.
const MinPasswordLength = 8

// nowFn is a test seam for the clock.
var nowFn = time.Now

// RegisterRequest is the signup input.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest is the signin input.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is what both signup and signin hand back: a fresh bearer token,
// its lifetime in seconds, and the user without the password hash (the hash
// is excluded at the JSON level, see models.User).
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	User      *models.User `json:"user"`
}

// Service implements registration, authentication and profile operations on
// top of a Repository. It is stateless; every method is request-scoped.
type Service struct {
	repo          Repository
	jwtSecret     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

func NewService(repo Repository, secretKey string, tokenValidity time.Duration, logger logging.Logger) *Service {
	return &Service{
		repo:          repo,
		jwtSecret:     []byte(secretKey),
		tokenValidity: tokenValidity,
		logger:        logger.With("module", "users"),
	}
}

// validationError wraps a user-displayable message into the validation
// taxonomy kind.
func validationError(msg string) error {
	return &common.KindError{Kind: common.ErrValidation, Message: msg}
}

// Register creates a new account and signs it in. On any failure no record
// is created; on success exactly one.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := common.NormalizeEmail(req.Email)
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)

	if !common.ValidEmail(email) {
		return nil, validationError("Invalid email format")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, validationError("Password must be at least 8 characters")
	}
	if firstName == "" || lastName == "" {
		return nil, validationError("First name and last name are required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	now := nowFn()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, common.ErrEmailTaken
		}
		s.logger.Error(ctx, "user create failed", "error", err.Error())
		if errors.Is(err, common.ErrStoreUnavailable) {
			return nil, common.ErrStoreUnavailable
		}
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "userID", user.ID)
	return s.issueFor(ctx, user)
}

// Login authenticates an existing account. An unknown email and a wrong
// password are deliberately indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := common.NormalizeEmail(req.Email)

	if !common.ValidEmail(email) {
		return nil, validationError("Invalid email format")
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, validationError("Password is required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		if errors.Is(err, common.ErrStoreUnavailable) {
			return nil, common.ErrStoreUnavailable
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueFor(ctx, user)
}

func (s *Service) issueFor(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &AuthResult{
		Token:     token,
		ExpiresIn: int64(s.tokenValidity.Seconds()),
		User:      user,
	}, nil
}

// GetProfile resolves the user behind a validated token subject. A missing
// record (deleted user, or the id index lagging a fresh create) surfaces as
// unauthorized.
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "profile lookup failed", "error", err.Error())
		if errors.Is(err, common.ErrStoreUnavailable) {
			return nil, common.ErrStoreUnavailable
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// UpdateProfile applies a partial update of the display fields. A field that
// is supplied but blank after trimming is a validation error; an omitted
// field stays untouched.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	if upd.Empty() {
		return nil, validationError("Nothing to update")
	}
	if upd.FirstName != nil {
		trimmed := strings.TrimSpace(*upd.FirstName)
		if trimmed == "" {
			return nil, validationError("First name and last name are required")
		}
		upd.FirstName = &trimmed
	}
	if upd.LastName != nil {
		trimmed := strings.TrimSpace(*upd.LastName)
		if trimmed == "" {
			return nil, validationError("First name and last name are required")
		}
		upd.LastName = &trimmed
	}

	user, err := s.repo.Update(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "profile update failed", "error", err.Error())
		if errors.Is(err, common.ErrStoreUnavailable) {
			return nil, common.ErrStoreUnavailable
		}
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "profile updated", "userID", userID)
	return user, nil
}
