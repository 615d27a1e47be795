package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/dbx"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanProfile(row *sql.Row) (*models.Profile, error) {
	p := &models.Profile{}
	var username sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &username, &p.IsAdmin, &p.TOTPSecret, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Username = username.String
	return p, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query :=
		`SELECT id, user_id, username, is_admin, totp_secret, created_at, updated_at
		 FROM profiles
		 WHERE user_id = $1
		 `

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	query :=
		`INSERT INTO profiles (user_id, username, is_admin)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE
		 SET username = EXCLUDED.username, is_admin = EXCLUDED.is_admin, updated_at = now()
		 RETURNING id, user_id, username, is_admin, totp_secret, created_at, updated_at
		 `

	saved, err := scanProfile(r.db.QueryRowContext(ctx, query, p.UserID, p.Username, p.IsAdmin))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return saved, nil
}
