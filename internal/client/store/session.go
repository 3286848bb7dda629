package store

import (
	"context"
	"database/sql"

	"github.com/viktorkr/authapp/internal/dbx"
)

// SQLiteSessionStore persists the session pair in the local_store table.
// Save and Clear touch both keys inside one transaction.
type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(db *sql.DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db}
}

func (s *SQLiteSessionStore) Load(ctx context.Context) ([]byte, []byte, error) {
	repo := NewSQLiteRepository(s.db)

	token, err := repo.Get(ctx, KeyAuthToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := repo.Get(ctx, KeyAuthUser)
	if err != nil {
		return nil, nil, err
	}

	return token, user, nil
}

func (s *SQLiteSessionStore) Save(ctx context.Context, token, user []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)

		if err := repo.Set(ctx, KeyAuthToken, token); err != nil {
			return err
		}
		return repo.Set(ctx, KeyAuthUser, user)
	})
}

func (s *SQLiteSessionStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)

		if err := repo.Delete(ctx, KeyAuthToken); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyAuthUser)
	})
}
