package skills

import (
	"context"
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

func (r *PostgresRepository) ListByCertification(ctx context.Context, certificationID string) ([]*models.Skill, error) {
	query :=
		`SELECT id, certification_id, skill_name, created_at, updated_at
		 FROM skills
		 WHERE certification_id = $1
		 ORDER BY skill_name
		 `

	rows, err := r.db.QueryContext(ctx, query, certificationID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Skill{}
	for rows.Next() {
		s := &models.Skill{}
		if err := rows.Scan(&s.ID, &s.CertificationID, &s.SkillName, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, certificationID, name string) (*models.Skill, error) {
	query :=
		`INSERT INTO skills (certification_id, skill_name)
		 VALUES ($1, $2)
		 RETURNING id, certification_id, skill_name, created_at, updated_at
		 `

	s := &models.Skill{}
	err := r.db.QueryRowContext(ctx, query, certificationID, name).
		Scan(&s.ID, &s.CertificationID, &s.SkillName, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) DeleteByName(ctx context.Context, certificationID, name string) (int64, error) {
	query := `DELETE FROM skills WHERE certification_id = $1 AND skill_name = $2`

	res, err := r.db.ExecContext(ctx, query, certificationID, name)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
