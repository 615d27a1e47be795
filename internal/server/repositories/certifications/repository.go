// Package certifications declares the repository contract for the
// certifications table.
package certifications

import (
	"context"

	"github.com/dmitrijs2005/certshowcase/internal/models"
)

// Repository reads and writes certification rows. Missing rows are reported
// as common.ErrorNotFound.
type Repository interface {
	// List returns every certification, newest created first.
	List(ctx context.Context) ([]*models.Certification, error)
	Get(ctx context.Context, id string) (*models.Certification, error)
	Create(ctx context.Context, in *models.CertificationInput) (*models.Certification, error)
	// Update replaces every editable field of the row.
	Update(ctx context.Context, id string, in *models.CertificationInput) (*models.Certification, error)
	// Delete removes the row; its skills go with it through the foreign key.
	Delete(ctx context.Context, id string) error
}
