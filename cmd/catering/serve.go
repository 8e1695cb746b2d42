package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/SezginYurdakul/catering-api/internal/config"
	"github.com/SezginYurdakul/catering-api/internal/handler"
	authHandler "github.com/SezginYurdakul/catering-api/internal/handler/auth"
	employeeHandler "github.com/SezginYurdakul/catering-api/internal/handler/employee"
	facilityHandler "github.com/SezginYurdakul/catering-api/internal/handler/facility"
	locationHandler "github.com/SezginYurdakul/catering-api/internal/handler/location"
	tagHandler "github.com/SezginYurdakul/catering-api/internal/handler/tag"
	"github.com/SezginYurdakul/catering-api/internal/middleware"
	"github.com/SezginYurdakul/catering-api/internal/repository/postgres"
	"github.com/SezginYurdakul/catering-api/internal/router"
	"github.com/SezginYurdakul/catering-api/internal/service"
	authService "github.com/SezginYurdakul/catering-api/internal/service/auth"
	employeeService "github.com/SezginYurdakul/catering-api/internal/service/employee"
	facilityService "github.com/SezginYurdakul/catering-api/internal/service/facility"
	locationService "github.com/SezginYurdakul/catering-api/internal/service/location"
	tagService "github.com/SezginYurdakul/catering-api/internal/service/tag"
	"github.com/SezginYurdakul/catering-api/pkg/auth"
	"github.com/SezginYurdakul/catering-api/pkg/logger"
	"github.com/SezginYurdakul/catering-api/pkg/messaging"
	"github.com/SezginYurdakul/catering-api/pkg/messaging/redis"
	"github.com/SezginYurdakul/catering-api/pkg/metrics"
	"github.com/SezginYurdakul/catering-api/pkg/security"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, log)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply pending migrations before serving")
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateOnStart {
		if err := postgres.MigrateUp(db); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg, "catering")

	publisher, closePublisher, err := newPublisher(cfg.Redis, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	deps := service.Deps{Logger: log, Metrics: m, Publisher: publisher}

	// Initialize repositories
	base := postgres.NewBaseRepository(db)
	locationRepo := postgres.NewLocationRepository(base)
	tagRepo := postgres.NewTagRepository(base)
	facilityRepo := postgres.NewFacilityRepository(base)
	employeeRepo := postgres.NewEmployeeRepository(base)

	// Initialize services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authSvc := authService.NewService(cfg.Auth, security.NewBcryptHasher(bcrypt.DefaultCost), jwtSvc, log)
	locationSvc := locationService.NewService(locationRepo, facilityRepo, deps)
	tagSvc := tagService.NewService(tagRepo, deps)
	facilitySvc := facilityService.NewService(facilityRepo, locationRepo, tagRepo, tagSvc, deps)
	employeeSvc := employeeService.NewService(employeeRepo, facilityRepo, deps)

	r, err := router.NewRouter(cfg, log, m, middleware.NewAuthMiddleware(authSvc), router.Handlers{
		System: handler.NewHandler(db, reg),
		Auth:   authHandler.NewHandler(authSvc),
		Protected: []router.Handler{
			locationHandler.NewHandler(locationSvc, cfg.Pagination),
			tagHandler.NewHandler(tagSvc, cfg.Pagination),
			facilityHandler.NewHandler(facilitySvc, cfg.Pagination),
			employeeHandler.NewHandler(employeeSvc, cfg.Pagination),
		},
	})
	if err != nil {
		return err
	}
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited properly")
	return nil
}

// newPublisher connects the redis broker when enabled. Without redis,
// events are dropped.
func newPublisher(cfg config.RedisConfig, log *logger.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Enabled {
		return messaging.NopPublisher{}, func() {}, nil
	}

	broker, err := newBroker(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := broker.Close(); err != nil {
			log.Error(err, "failed to close redis broker")
		}
	}
	return messaging.NewChannelPublisher(broker, cfg.Channel), closeFn, nil
}

func newBroker(cfg config.RedisConfig, log *logger.Logger) (messaging.Broker, error) {
	return redis.NewRedisBroker(redis.Config{
		URL:          cfg.URL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}, log.Zerolog())
}
