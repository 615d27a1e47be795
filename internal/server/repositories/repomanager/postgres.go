// Package repomanager bundles the Postgres repositories and the schema
// migrations behind one RepositoryManager.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/certshowcase/internal/dbx"
	"github.com/dmitrijs2005/certshowcase/internal/server/migrations"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/certifications"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/skills"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/users"
)

// PostgresRepositoryManager hands out the pgx-backed repositories. It holds
// no state; the DBTX passed to each method decides whether a call joins a
// transaction.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (*PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (*PostgresRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

func (*PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (*PostgresRepositoryManager) Certifications(db dbx.DBTX) certifications.Repository {
	return certifications.NewPostgresRepository(db)
}

func (*PostgresRepositoryManager) Skills(db dbx.DBTX) skills.Repository {
	return skills.NewPostgresRepository(db)
}

var gooseUpContext = goose.UpContext

// RunMigrations brings the schema up to the newest embedded goose migration.
func (*PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}
