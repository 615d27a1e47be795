// Package users declares the repository contract for auth identities.
package users

import (
	"context"

	"github.com/dmitrijs2005/certshowcase/internal/models"
)

type Repository interface {
	// Create inserts a user; an existing email is common.ErrorConflict.
	Create(ctx context.Context, email string, passwordHash []byte) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
}
