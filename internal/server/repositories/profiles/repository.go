// Package profiles declares the repository contract for the profiles table.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/certshowcase/internal/models"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	// Upsert creates the profile of p.UserID or updates its username and
	// admin flag.
	Upsert(ctx context.Context, p *models.Profile) (*models.Profile, error)
}
