package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/certshowcase/internal/common"
	"github.com/dmitrijs2005/certshowcase/internal/dbx"
	"github.com/dmitrijs2005/certshowcase/internal/logging"
	"github.com/dmitrijs2005/certshowcase/internal/models"
	"github.com/dmitrijs2005/certshowcase/internal/server/auth"
	"github.com/dmitrijs2005/certshowcase/internal/server/config"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/repomanager"
)

// Credentials are what sign-in accepts.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserService provides the email/password session operations:
//   - SignIn: verify credentials and mint a session
//   - Refresh: rotate the refresh token and mint a new access token
//   - SignOut: drop the refresh token and revoke the access token
//   - Authenticate: verify a bearer token
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	revoker                      auth.Revoker
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
// A nil revoker disables access token revocation.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, revoker auth.Revoker, cfg *config.Config, logger logging.Logger) *UserService {
	if revoker == nil {
		revoker = auth.NoopRevoker{}
	}
	return &UserService{
		db:                           db,
		repomanager:                  m,
		revoker:                      revoker,
		logger:                       logger.With("module", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// SignIn verifies the credentials and returns a new session. Any mismatch,
// including an unknown email, is common.ErrInvalidCredentials.
func (s *UserService) SignIn(ctx context.Context, creds Credentials) (*models.Session, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := validateStruct(creds); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.BurnPasswordCheck(creds.Password)
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "sign-in lookup failed", "error", err)
		return nil, common.ErrorInternal
	}
	if !auth.CheckPassword(user.PasswordHash, creds.Password) {
		return nil, common.ErrInvalidCredentials
	}

	session, err := s.newSession(ctx, user, s.db)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "signed in", "user_id", user.ID)
	return session, nil
}

// Refresh validates a refresh token, rotates it transactionally and returns a
// fresh session. Expired tokens yield common.ErrRefreshTokenExpired.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	var session *models.Session
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		token, err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error consuming refresh token: %w", err)
		}
		if token.Expires.Before(time.Now()) {
			return common.ErrRefreshTokenExpired
		}

		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return fmt.Errorf("error loading user: %w", err)
		}
		session, err = s.newSession(ctx, user, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SignOut drops refreshToken, if given, and revokes the access token
// described by claims for the rest of its lifetime.
func (s *UserService) SignOut(ctx context.Context, claims *auth.Claims, refreshToken string) error {
	if refreshToken != "" {
		if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
	}
	if claims != nil && claims.ID != "" && claims.ExpiresAt != nil {
		if err := s.revoker.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			return fmt.Errorf("error revoking token: %w", err)
		}
	}
	s.logger.Info(ctx, "signed out", "user_id", userIDOf(claims))
	return nil
}

// Authenticate verifies a bearer token and checks it was not signed out.
func (s *UserService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Warn(ctx, "revocation check failed", "error", err)
		return nil, common.ErrorInternal
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}
	return claims, nil
}

// Session describes the signed-in user; the profile is attached when present.
func (s *UserService) Session(ctx context.Context, userID string) (*models.User, *models.Profile, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.repomanager.Profiles(s.db).GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, nil, err
	}
	return user, profile, nil
}

// BootstrapAdmin makes sure an account for email exists with password and an
// admin profile named username. It runs at startup and is idempotent.
func (s *UserService) BootstrapAdmin(ctx context.Context, email, password, username string) error {
	email = normalizeEmail(email)
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repomanager.Users(tx)

		user, err := usersRepo.GetByEmail(ctx, email)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			if user, err = usersRepo.Create(ctx, email, hash); err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			s.logger.Info(ctx, "admin account created", "email", email)
		case err != nil:
			return fmt.Errorf("lookup admin: %w", err)
		default:
			if err := usersRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
				return fmt.Errorf("update admin password: %w", err)
			}
		}

		_, err = s.repomanager.Profiles(tx).Upsert(ctx, &models.Profile{UserID: user.ID, Username: username, IsAdmin: true})
		if err != nil {
			return fmt.Errorf("upsert admin profile: %w", err)
		}
		return nil
	})
}

// PurgeExpiredRefreshTokens deletes refresh tokens past expiry.
func (s *UserService) PurgeExpiredRefreshTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx)
}

func (s *UserService) newSession(ctx context.Context, user *models.User, tx dbx.DBTX) (*models.Session, error) {
	expiresAt := time.Now().Add(s.accessTokenValidityDuration)
	access, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, time.Now().Add(s.refreshTokenValidityDuration)); err != nil {
		return nil, common.ErrorInternal
	}

	session := &models.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         *user,
	}
	if profile, err := s.repomanager.Profiles(tx).GetByUserID(ctx, user.ID); err == nil {
		session.Profile = profile
	}
	return session, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userIDOf(claims *auth.Claims) string {
	if claims == nil {
		return ""
	}
	return claims.UserID
}
