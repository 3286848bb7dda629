// Package db selects and wires the concrete user store behind the
// users.Repository interface: in-memory for tests and local runs,
// PostgreSQL, or DynamoDB.
package db

import (
	"context"
	"database/sql"

	"github.com/viktorkr/authapp/internal/server/users"
)

// RepositoryManager owns a storage backend and hands out the repositories
// built on it.
type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Close() error
	Users() users.Repository
}
