// Package users contains the credential store and the services built on top
// of it: registration, authentication and profile management.
package users

import (
	"context"

	"github.com/viktorkr/authapp/internal/server/models"
)

// Repository is the credential store. Records are keyed by normalized email;
// lookups by id go through a secondary index that may lag the primary write
// briefly, so a GetByID immediately after Create can miss. Callers tolerate
// that window (the profile service maps it to unauthorized).
//
// Errors: common.ErrEmailTaken on a create for an occupied email,
// common.ErrorNotFound for missing records, common.ErrStoreUnavailable when
// the backend cannot be reached.
type Repository interface {
	// Create persists a new record. The write is conditional on the email
	// key being free: of two concurrent creates for the same email exactly
	// one succeeds and the other fails with common.ErrEmailTaken. The
	// uniqueness check is never implemented as a separate read.
	Create(ctx context.Context, user *models.User) error

	// GetByEmail returns the record stored under the normalized email key.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the record via the id index.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// Update applies a partial update to the mutable display fields and
	// refreshes UpdatedAt. Email, ID, CreatedAt and PasswordHash are never
	// touched. Returns the updated record.
	Update(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error)
}
