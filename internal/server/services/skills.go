package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/logging"
	"github.com/dmitrijs2005/certshowcase/internal/models"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/repomanager"
)

// SkillService manages the skill tags of certifications.
type SkillService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewSkillService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *SkillService {
	return &SkillService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "skills"),
	}
}

// List returns the skills of certificationID ordered by name.
func (s *SkillService) List(ctx context.Context, certificationID string) ([]*models.Skill, error) {
	return s.repomanager.Skills(s.db).ListByCertification(ctx, certificationID)
}

// Add appends a skill named name (trimmed). Repeated names are kept.
func (s *SkillService) Add(ctx context.Context, certificationID, name string) (*models.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: skill_name is required", common.ErrorValidation)
	}

	skill, err := s.repomanager.Skills(s.db).Create(ctx, certificationID, name)
	if err != nil {
		return nil, fmt.Errorf("error adding skill: %w", err)
	}
	s.logger.Info(ctx, "skill added", "certification_id", certificationID, "skill", name)
	return skill, nil
}

// Remove deletes every skill of certificationID named name and reports how
// many rows went.
func (s *SkillService) Remove(ctx context.Context, certificationID, name string) (int64, error) {
	n, err := s.repomanager.Skills(s.db).DeleteByName(ctx, certificationID, name)
	if err != nil {
		return 0, fmt.Errorf("error removing skill: %w", err)
	}
	s.logger.Info(ctx, "skill removed", "certification_id", certificationID, "skill", name, "rows", n)
	return n, nil
}
