// Package server wires the certshowcase backend together: configuration,
// database and migrations, object storage, token revocation, the HTTP API and
// the gRPC health endpoint. It handles graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/certshowcase/internal/dbx"
	"github.com/dmitrijs2005/certshowcase/internal/logging"
	"github.com/dmitrijs2005/certshowcase/internal/server/auth"
	"github.com/dmitrijs2005/certshowcase/internal/server/config"
	"github.com/dmitrijs2005/certshowcase/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/certshowcase/internal/server/services"
	"github.com/dmitrijs2005/certshowcase/internal/server/storage"

	gs "github.com/dmitrijs2005/certshowcase/internal/server/grpc"
	hs "github.com/dmitrijs2005/certshowcase/internal/server/http"
)

const tokenPurgeInterval = time.Hour

// runner is a long-lived component stopped by cancelling its context.
type runner struct {
	name string
	run  func(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	runners []runner
	closers []io.Closer
}

// NewApp connects to every backend named by c and builds the servers.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: c, logger: logger}

	db, err := dbx.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, db)

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	revoker, err := app.newRevoker(ctx)
	if err != nil {
		app.close()
		return nil, err
	}

	store, err := storage.New(ctx, storage.Config{
		Backend:       c.StorageBackend,
		Endpoint:      c.S3BaseEndpoint,
		Region:        c.S3Region,
		AccessKey:     c.S3RootUser,
		SecretKey:     c.S3RootPassword,
		Bucket:        c.S3Bucket,
		PublicBaseURL: c.PublicBaseURL(),
		UseSSL:        c.S3UseSSL,
	}, logger)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	us := services.NewUserService(db, rm, revoker, c, logger)
	if c.AdminEmail != "" && c.AdminPassword != "" {
		if err := us.BootstrapAdmin(ctx, c.AdminEmail, c.AdminPassword, c.AdminUsername); err != nil {
			app.close()
			return nil, fmt.Errorf("admin bootstrap error: %w", err)
		}
	}

	httpServer := hs.NewServer(hs.Options{
		Address:         c.HTTPAddr,
		Certifications:  services.NewCertificationService(db, rm, logger),
		Skills:          services.NewSkillService(db, rm, logger),
		Files:           services.NewFileService(store, logger),
		Users:           us,
		Logger:          logger,
		MaxUploadSize:   c.MaxUploadSize,
		ShutdownTimeout: c.ShutdownTimeout,
	})
	app.runners = append(app.runners, runner{name: "http", run: httpServer.Run})

	if c.GRPCAddr != "" {
		grpcServer := gs.NewGRPCServer(c.GRPCAddr, logger, db, 0)
		app.runners = append(app.runners, runner{name: "grpc", run: grpcServer.Run})
	}

	app.runners = append(app.runners, runner{name: "token_purge", run: func(ctx context.Context) error {
		purgeRefreshTokens(ctx, us, tokenPurgeInterval, logger)
		return nil
	}})

	return app, nil
}

func (app *App) newRevoker(ctx context.Context) (auth.Revoker, error) {
	if app.config.RedisAddr == "" {
		app.logger.Warn(ctx, "redis not configured, signed-out access tokens stay valid until expiry")
		return auth.NoopRevoker{}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: app.config.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	app.closers = append(app.closers, client)
	return auth.NewRedisRevoker(client), nil
}

// purgeRefreshTokens drops expired refresh tokens every interval.
func purgeRefreshTokens(ctx context.Context, us *services.UserService, interval time.Duration, logger logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := us.PurgeExpiredRefreshTokens(ctx)
			if err != nil {
				logger.Warn(ctx, "refresh token purge failed", "error", err)
				continue
			}
			logger.Debug(ctx, "refresh tokens purged", "count", n)
		}
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run starts every component and blocks until all of them stopped. A signal,
// cancellation of ctx or a failing component stops the rest.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	for _, r := range app.runners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.run(ctx); err != nil {
				app.logger.Error(ctx, "component failed", "component", r.name, "error", err)
				cancelFunc()
			}
		}()
	}

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
}
