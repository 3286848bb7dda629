package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/viktorkr/authapp/internal/server/users"
)

// DynamoRepositoryManager serves repositories backed by a DynamoDB table.
// Table and index provisioning is an infrastructure concern, so
// RunMigrations is a no-op here.
type DynamoRepositoryManager struct {
	users users.Repository
}

func (m *DynamoRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m *DynamoRepositoryManager) Close() error {
	return nil
}

func (m *DynamoRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *DynamoRepositoryManager) Users() users.Repository {
	return m.users
}

func NewDynamoRepositoryManager(ctx context.Context, settings users.DynamoSettings) (RepositoryManager, error) {

	client, err := users.NewDynamoClient(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("dynamodb client error: %w", err)
	}

	return &DynamoRepositoryManager{
		users: users.NewDynamoRepository(client, settings.Table),
	}, nil
}
