// Package api talks to the auth server over HTTP.
package api

import (
	"context"

	"github.com/viktorkr/authapp/internal/client/models"
)

// SignUpRequest carries the fields for account creation.
type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ProfileUpdate carries an optional new first or last name. Nil fields are
// omitted from the request body and left unchanged by the server.
type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// Client is the remote API surface the session manager depends on. Tests
// substitute a fake; production uses HTTPClient.
type Client interface {
	Ping(ctx context.Context) error
	SignUp(ctx context.Context, req SignUpRequest) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context, token string) error
	Profile(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*models.User, error)
	Close() error
}
