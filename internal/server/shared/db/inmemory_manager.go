package db

import (
	"context"
	"database/sql"

	"github.com/viktorkr/authapp/internal/server/users"
)

// InMemoryRepositoryManager keeps everything in process memory. Data is
// lost on restart; meant for tests and local development.
type InMemoryRepositoryManager struct {
	users users.Repository
}

func (m InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m InMemoryRepositoryManager) Close() error {
	return nil
}

func (m InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return InMemoryRepositoryManager{users: users.NewMemoryRepository()}
}
