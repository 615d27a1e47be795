// Package refreshtokens stores the single-use tokens that let a signed-in
// admin mint a new session without re-entering credentials.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/certshowcase/internal/models"
)

type Repository interface {
	// Create records token for userID, valid until expiresAt.
	Create(ctx context.Context, userID, token string, expiresAt time.Time) error

	// Consume deletes token and returns the row it removed, or
	// common.ErrorNotFound. A token can be consumed once.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete drops token; a missing token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired purges tokens past their expiry and reports how many.
	DeleteExpired(ctx context.Context) (int64, error)
}
