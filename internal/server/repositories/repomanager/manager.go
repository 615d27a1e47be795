package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/certshowcase/internal/dbx"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/certifications"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/skills"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a *sql.DB or *sql.Tx, so the
// same service code runs inside and outside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Certifications(db dbx.DBTX) certifications.Repository
	Skills(db dbx.DBTX) skills.Repository
}
