package certifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/dbx"
	"github.com/dmitrijs2005/certshowcase/internal/models"
)

const columns = `id, title, issuer, type, status, issued_date, expires_date,
	description, official_link, certificate_file_url, created_at, updated_at`

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCertification(row rowScanner) (*models.Certification, error) {
	c := &models.Certification{}
	err := row.Scan(&c.ID, &c.Title, &c.Issuer, &c.Type, &c.Status,
		&c.IssuedDate, &c.ExpiresDate, &c.Description, &c.OfficialLink,
		&c.CertificateFileURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := c.CheckShape(); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Certification, error) {
	query := `SELECT ` + columns + ` FROM certifications ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Certification{}
	for rows.Next() {
		c, err := scanCertification(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Certification, error) {
	query := `SELECT ` + columns + ` FROM certifications WHERE id = $1`

	c, err := scanCertification(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, in *models.CertificationInput) (*models.Certification, error) {
	query :=
		`INSERT INTO certifications (title, issuer, type, status, issued_date, expires_date,
			description, official_link, certificate_file_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING ` + columns

	c, err := scanCertification(r.db.QueryRowContext(ctx, query,
		in.Title, in.Issuer, in.Type, in.Status, in.IssuedDate, in.ExpiresDate,
		in.Description, in.OfficialLink, in.CertificateFileURL))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, in *models.CertificationInput) (*models.Certification, error) {
	query :=
		`UPDATE certifications SET title = $2, issuer = $3, type = $4, status = $5,
			issued_date = $6, expires_date = $7, description = $8, official_link = $9,
			certificate_file_url = $10, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + columns

	c, err := scanCertification(r.db.QueryRowContext(ctx, query, id,
		in.Title, in.Issuer, in.Type, in.Status, in.IssuedDate, in.ExpiresDate,
		in.Description, in.OfficialLink, in.CertificateFileURL))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM certifications WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
