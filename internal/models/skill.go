package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/certshowcase/internal/common"
)

// Skill is a tag owned by exactly one certification. Names are not unique.
type Skill struct {
	ID              string    `json:"id"`
	CertificationID string    `json:"certification_id"`
	SkillName       string    `json:"skill_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s *Skill) CheckShape() error {
	if s.ID == "" || s.CertificationID == "" || s.SkillName == "" {
		return fmt.Errorf("%w: skill %q", common.ErrUnexpectedShape, s.ID)
	}
	return nil
}

// SkillNames projects skills to their names, keeping order.
func SkillNames(skills []*Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.SkillName)
	}
	return names
}
