// @title EventConnect API
// @version 1.0
// @description Organizers register, authenticate and publish events with an image and categories. Visitors browse events and categories.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventconnect/config"
	_ "eventconnect/docs"
	"eventconnect/internal/adapters/auth"
	"eventconnect/internal/adapters/email"
	"eventconnect/internal/adapters/ratelimit"
	"eventconnect/internal/adapters/storage"
	httpdelivery "eventconnect/internal/delivery/http"
	"eventconnect/internal/delivery/http/controllers"
	"eventconnect/internal/delivery/http/middleware"
	"eventconnect/internal/domain"
	"eventconnect/internal/repository/postgres"
	"eventconnect/internal/services"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("api stopped with error", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	images, err := newImageStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	emailService, err := newEmailService(cfg, logger)
	if err != nil {
		return err
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationSeconds)
	if err != nil {
		return fmt.Errorf("configure tokens: %w", err)
	}
	if cfg.JWT.ExpirationSeconds == auth.NoExpiry {
		logger.Warn("JWT_EXPIRATION is -1, issued tokens never expire")
	}

	tx := postgres.NewTransactor(db)
	profileRepo := postgres.NewProfileRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	roleRepo := postgres.NewRoleRepository(db)

	profileService := services.NewProfileService(
		profileRepo, roleRepo, tx,
		auth.NewBcryptHasher(cfg.JWT.BcryptCost), jwtService, emailService,
		logger, cfg.RequestTimeout,
	)
	eventService := services.NewEventService(
		postgres.NewEventRepository(db), profileRepo, categoryRepo, tx,
		services.OwnershipPolicy{}, images, logger, cfg.RequestTimeout,
	)
	categoryService := services.NewCategoryService(categoryRepo, cfg.RequestTimeout)
	roleService := services.NewRoleService(roleRepo, cfg.RequestTimeout)

	limiter := newLimiter(ctx, cfg, logger)
	defer limiter.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	router := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		Logger:         logger,
		Profiles:       controllers.NewProfileController(logger, profileService),
		Events:         controllers.NewEventController(logger, eventService, images, cfg.Upload.MaxSize),
		Catalog:        controllers.NewCatalogController(logger, categoryService, roleService),
		Images:         controllers.NewImageController(logger, images),
		Health:         controllers.NewHealthController(logger, db),
		Verifier:       jwtService,
		Limiter:        limiter,
		LoginRateLimit: cfg.RateLimit.LoginLimit,
		LoginWindow:    cfg.RateLimit.LoginWindow,
		Metrics:        metrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", srv.Addr, "env", cfg.Environment, "storage", cfg.Storage.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		logger.Info("api server stopped")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
}

func newImageStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage.FileStorage, error) {
	var backend storage.Backend
	switch cfg.Storage.Backend {
	case config.StorageS3:
		client, err := storage.NewS3Client(ctx, storage.S3Config{
			Bucket:          cfg.Storage.Bucket,
			Prefix:          cfg.Storage.Prefix,
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create s3 client: %w", err)
		}
		s3Backend, err := storage.NewS3Backend(ctx, client, cfg.Storage.Bucket, cfg.Storage.Prefix)
		if err != nil {
			return nil, fmt.Errorf("prepare s3 bucket: %w", err)
		}
		backend = s3Backend
	default:
		local, err := storage.NewLocalBackend(cfg.Upload.Dir)
		if err != nil {
			return nil, fmt.Errorf("prepare upload dir: %w", err)
		}
		backend = local
	}
	return storage.NewFileStorage(backend, storage.Config{
		MaxSize:           cfg.Upload.MaxSize,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		AllowedMIMETypes:  cfg.Upload.AllowedMIMETypes,
	}, logger), nil
}

func newEmailService(cfg *config.Config, logger *slog.Logger) (domain.EmailService, error) {
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.Region,
			AccessKeyID:     cfg.Email.AccessKeyID,
			SecretAccessKey: cfg.Email.SecretAccessKey,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("configure mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}
	return services.NewEmailService(mailer, renderer, logger), nil
}

// newLimiter returns a Redis limiter when REDIS_ADDR is reachable, otherwise an in-memory one.
func newLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) ratelimit.Limiter {
	if cfg.Redis.Addr == "" {
		return ratelimit.NewMemoryLimiter()
	}
	limiter, err := ratelimit.NewRedisLimiter(ctx, ratelimit.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		logger.Warn("redis rate limiter unavailable, using in-memory limiter", "err", err)
		return ratelimit.NewMemoryLimiter()
	}
	return limiter
}
