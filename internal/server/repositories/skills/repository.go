// Package skills declares the repository contract for the skills table.
package skills

import (
	"context"

	"github.com/dmitrijs2005/certshowcase/internal/models"
)

// Repository reads and writes skill rows. Names are free text and may repeat
// within a certification.
type Repository interface {
	// ListByCertification returns the skills of certificationID ordered by name.
	ListByCertification(ctx context.Context, certificationID string) ([]*models.Skill, error)
	// Create appends one row; a missing certification is common.ErrorNotFound.
	Create(ctx context.Context, certificationID, name string) (*models.Skill, error)
	// DeleteByName removes every row matching the pair and reports how many.
	DeleteByName(ctx context.Context, certificationID, name string) (int64, error)
}
