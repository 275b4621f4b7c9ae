package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyreuse/backend/internal/infrastructure/config"
	"github.com/studyreuse/backend/internal/infrastructure/logger"
	"github.com/studyreuse/backend/internal/interfaces/http/dto"
	"github.com/studyreuse/backend/internal/interfaces/http/handler"
	"github.com/studyreuse/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// EngineConfig selects the global middleware of the engine
type EngineConfig struct {
	HTTP        config.HTTPConfig
	Swagger     config.SwaggerConfig
	Tracing     bool
	ServiceName string
	Security    middleware.SecurityConfig
}

// Handlers are the endpoint groups mounted on the engine
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Item         *handler.ItemHandler
	Barter       *handler.BarterHandler
	Order        *handler.OrderHandler
	Review       *handler.ReviewHandler
	Notification *handler.NotificationHandler
	Admin        *handler.AdminHandler
	Health       *handler.HealthHandler
}

// Limiters are the rate limiters of the engine; nil disables one. Callers
// own their eviction loops.
type Limiters struct {
	API  *middleware.RateLimiter
	Auth *middleware.RateLimiter
}

// NewEngine builds the gin engine with the middleware chain:
// request id, recovery, access log, tracing, security headers, CORS,
// body limit and the API rate limit.
func NewEngine(cfg EngineConfig, jwt middleware.JWTConfig, limiters Limiters, h Handlers, log *zap.Logger) (*gin.Engine, error) {
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}
	engine.HandleMethodNotAllowed = true

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Tracing {
		engine.Use(middleware.Tracing(cfg.ServiceName))
	}
	engine.Use(middleware.Secure(cfg.Security))
	engine.Use(middleware.CORS(cfg.HTTP))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if limiters.API != nil {
		engine.Use(middleware.RateLimit(limiters.API, "api"))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeRouteNotFound, "Route not found", c.GetString(middleware.RequestIDKey)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.ErrCodeMethodNotAllowed, "Method not allowed", c.GetString(middleware.RequestIDKey)))
	})

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger.Enabled, cfg.Swagger.AllowedIPs),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := NewRouter(engine)
	for _, g := range apiGroups(jwt, limiters, h) {
		r.Register(g)
	}
	r.Setup()

	return engine, nil
}
