package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/viktorkr/authapp/internal/common"
	"github.com/viktorkr/authapp/internal/dbx"
	"github.com/viktorkr/authapp/internal/server/models"
)

// PostgresRepository stores credential records in a users table with a
// unique index on email (the primary key space) and one on id (the secondary
// index). The uniqueness invariant is enforced by the database, not by a
// read-then-write check.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// storeErr wraps backend failures so callers can errors.Is-match the
// transient taxonomy kind while logs keep the driver detail.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (id, email, password_hash, first_name, last_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (email) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return storeErr(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if affected == 0 {
		// The email key was already occupied; our write lost the race.
		return common.ErrEmailTaken
	}

	return nil
}

const userColumns = `id, email, password_hash, first_name, last_name, created_at, updated_at`

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, storeErr(err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	query :=
		`UPDATE users SET
		   first_name = COALESCE($2, first_name),
		   last_name  = COALESCE($3, last_name),
		   updated_at = $4
		 WHERE id = $1
		 RETURNING ` + userColumns

	return r.scanUser(r.db.QueryRowContext(ctx, query,
		id, upd.FirstName, upd.LastName, nowFn()))
}
