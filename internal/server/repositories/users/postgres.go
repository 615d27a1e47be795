package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/dbx"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

const (
	insertUser     = `INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	selectByEmail  = `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`
	selectByID     = `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`
	updatePassword = `UPDATE users SET password_hash = $2 WHERE id = $1`
)

// PostgresRepository runs against a *sql.DB or a *sql.Tx.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, email string, passwordHash []byte) (*models.User, error) {
	u := models.User{Email: email, PasswordHash: passwordHash}
	err := r.db.QueryRowContext(ctx, insertUser, email, passwordHash).Scan(&u.ID, &u.CreatedAt)
	switch {
	case dbx.IsUniqueViolation(err):
		return nil, common.ErrorConflict
	case err != nil:
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanOne(ctx, selectByEmail, email)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanOne(ctx, selectByID, id)
}

func (r *PostgresRepository) scanOne(ctx context.Context, query, arg string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrorNotFound
	case err != nil:
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// UpdatePassword replaces the hash of user id, or reports common.ErrorNotFound.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	res, err := r.db.ExecContext(ctx, updatePassword, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
