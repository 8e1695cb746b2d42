package router

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/SezginYurdakul/catering-api/internal/config"
	"github.com/SezginYurdakul/catering-api/internal/middleware"
	"github.com/SezginYurdakul/catering-api/pkg/logger"
	"github.com/SezginYurdakul/catering-api/pkg/metrics"
	"github.com/SezginYurdakul/catering-api/pkg/validator"
)

type Handler interface {
	RegisterRoutes(gin.IRouter)
}

// Handlers groups the route owners by exposure.
type Handlers struct {
	// System serves health and metrics at the root, without auth.
	System Handler
	// Auth serves the login endpoint under /api, without auth.
	Auth Handler
	// Protected are the entity handlers mounted behind the bearer check.
	Protected []Handler
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
}

func NewRouter(
	cfg *config.Config,
	log *logger.Logger,
	m *metrics.Metrics,
	auth *middleware.AuthMiddleware,
	handlers Handlers,
) (*Router, error) {
	if err := validator.RegisterGin(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Metrics(m),
		middleware.SecurityHeaders(),
		middleware.Timeout(cfg.Server.RequestTimeout),
		middleware.CORS(cfg.CORS),
	)
	if cfg.RateLimit.Enabled {
		engine.Use(middleware.NewRateLimiter(cfg.RateLimit).RateLimit())
	}
	engine.Use(
		middleware.SizeLimit(middleware.DefaultMaxBodySize),
		middleware.ErrorHandler(log),
	)

	engine.NoRoute(notFound)
	engine.NoMethod(methodNotAllowed)

	return &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
	}, nil
}

func (r *Router) Setup() {
	if r.handlers.System != nil {
		r.handlers.System.RegisterRoutes(r.engine)
	}

	api := r.engine.Group("/api")
	if r.handlers.Auth != nil {
		r.handlers.Auth.RegisterRoutes(api)
	}

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	for _, h := range r.handlers.Protected {
		h.RegisterRoutes(protected)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
