// Package http exposes the certshowcase REST API: the public listing, the
// admin mutations behind bearer tokens and attachment upload.
package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/certshowcase/internal/catalog"
	"github.com/dmitrijs2005/certshowcase/internal/logging"
	"github.com/dmitrijs2005/certshowcase/internal/models"
	"github.com/dmitrijs2005/certshowcase/internal/server/auth"
	"github.com/dmitrijs2005/certshowcase/internal/server/services"
)

// CertificationService is the part of services.CertificationService the API uses.
type CertificationService interface {
	List(ctx context.Context) ([]*models.Certification, error)
	Search(ctx context.Context, cr catalog.Criteria) ([]*models.Certification, error)
	Issuers(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*models.Certification, error)
	Create(ctx context.Context, in models.CertificationInput) (*models.Certification, error)
	Update(ctx context.Context, id string, in models.CertificationInput) (*models.Certification, error)
	Delete(ctx context.Context, id string) error
}

type SkillService interface {
	List(ctx context.Context, certificationID string) ([]*models.Skill, error)
	Add(ctx context.Context, certificationID, name string) (*models.Skill, error)
	Remove(ctx context.Context, certificationID, name string) (int64, error)
}

type FileService interface {
	Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (*services.UploadedFile, error)
}

type UserService interface {
	SignIn(ctx context.Context, creds services.Credentials) (*models.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Session, error)
	SignOut(ctx context.Context, claims *auth.Claims, refreshToken string) error
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	Session(ctx context.Context, userID string) (*models.User, *models.Profile, error)
}

const defaultMaxUploadSize = 10 << 20

// Server is the HTTP front of the certshowcase backend.
type Server struct {
	address        string
	certifications CertificationService
	skills         SkillService
	files          FileService
	users          UserService
	metrics        *Metrics
	logger         logging.Logger
	maxUploadSize  int64
	shutdownAfter  time.Duration
}

// Options carries the collaborators of a Server.
type Options struct {
	Address         string
	Certifications  CertificationService
	Skills          SkillService
	Files           FileService
	Users           UserService
	Metrics         *Metrics
	Logger          logging.Logger
	MaxUploadSize   int64
	ShutdownTimeout time.Duration
}

func NewServer(o Options) *Server {
	if o.Metrics == nil {
		o.Metrics = NewMetrics(nil)
	}
	if o.Logger == nil {
		o.Logger = logging.Nop{}
	}
	if o.MaxUploadSize <= 0 {
		o.MaxUploadSize = defaultMaxUploadSize
	}
	if o.ShutdownTimeout <= 0 {
		o.ShutdownTimeout = 10 * time.Second
	}
	return &Server{
		address:        o.Address,
		certifications: o.Certifications,
		skills:         o.Skills,
		files:          o.Files,
		users:          o.Users,
		metrics:        o.Metrics,
		logger:         o.Logger.With("module", "http_server"),
		maxUploadSize:  o.MaxUploadSize,
		shutdownAfter:  o.ShutdownTimeout,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/issuers", s.handleListIssuers)

		r.Route("/certifications", func(r chi.Router) {
			r.Get("/", s.handleListCertifications)
			r.With(s.authMiddleware).Post("/", s.handleCreateCertification)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(validID)
				r.Get("/", s.handleGetCertification)
				r.With(s.authMiddleware).Put("/", s.handleUpdateCertification)
				r.With(s.authMiddleware).Delete("/", s.handleDeleteCertification)

				r.Get("/skills", s.handleListSkills)
				r.With(s.authMiddleware).Post("/skills", s.handleAddSkill)
				r.With(s.authMiddleware).Delete("/skills", s.handleRemoveSkill)
			})
		})

		r.With(s.authMiddleware).Post("/files", s.handleUpload)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signin", s.handleSignIn)
			r.Post("/refresh", s.handleRefresh)
			r.With(s.authMiddleware).Post("/signout", s.handleSignOut)
			r.With(s.authMiddleware).Get("/session", s.handleSession)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownAfter)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
