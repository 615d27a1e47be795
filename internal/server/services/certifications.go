// Package services contains server-side business logic: certification and
// skill management, attachment upload and email/password sessions.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/certshowcase/internal/catalog"
	"github.com/dmitrijs2005/certshowcase/internal/logging"
	"github.com/dmitrijs2005/certshowcase/internal/models"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/repomanager"
)

// CertificationService manages certification records.
type CertificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewCertificationService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *CertificationService {
	return &CertificationService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "certifications"),
	}
}

// List returns all records, newest created first.
func (s *CertificationService) List(ctx context.Context) ([]*models.Certification, error) {
	return s.repomanager.Certifications(s.db).List(ctx)
}

// Search returns the records selected and ordered by cr.
func (s *CertificationService) Search(ctx context.Context, cr catalog.Criteria) ([]*models.Certification, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Apply(all, cr), nil
}

// Issuers returns the distinct issuers across all records.
func (s *CertificationService) Issuers(ctx context.Context) ([]string, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Issuers(all), nil
}

func (s *CertificationService) Get(ctx context.Context, id string) (*models.Certification, error) {
	return s.repomanager.Certifications(s.db).Get(ctx, id)
}

// Create normalizes and validates in, then inserts it.
func (s *CertificationService) Create(ctx context.Context, in models.CertificationInput) (*models.Certification, error) {
	in.Normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	c, err := s.repomanager.Certifications(s.db).Create(ctx, &in)
	if err != nil {
		return nil, fmt.Errorf("error creating certification: %w", err)
	}
	s.logger.Info(ctx, "certification created", "id", c.ID, "title", c.Title)
	return c, nil
}

// Update replaces every editable field of id with in.
func (s *CertificationService) Update(ctx context.Context, id string, in models.CertificationInput) (*models.Certification, error) {
	in.Normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	c, err := s.repomanager.Certifications(s.db).Update(ctx, id, &in)
	if err != nil {
		return nil, fmt.Errorf("error updating certification: %w", err)
	}
	s.logger.Info(ctx, "certification updated", "id", c.ID)
	return c, nil
}

// Delete removes id. Its skills are removed by the database.
func (s *CertificationService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Certifications(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting certification: %w", err)
	}
	s.logger.Info(ctx, "certification deleted", "id", id)
	return nil
}
