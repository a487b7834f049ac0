// Package router mounts the versioned API surface and the middleware stack.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nuam/calificaciones/internal/infrastructure/auth"
	"github.com/nuam/calificaciones/internal/infrastructure/config"
	"github.com/nuam/calificaciones/internal/infrastructure/logger"
	"github.com/nuam/calificaciones/internal/infrastructure/persistence"
	"github.com/nuam/calificaciones/internal/interfaces/http/handler"
	"github.com/nuam/calificaciones/internal/interfaces/http/middleware"
)

// Handlers groups every handler the router mounts
type Handlers struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	Ratings *handler.RatingHandler
	Bulk    *handler.BulkHandler
	Refdata *handler.RefdataHandler
	Audit   *handler.AuditHandler
}

// Dependencies carries everything the router needs besides the handlers
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *persistence.Database
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist
	Handlers   Handlers
}

// New builds the gin engine with the full middleware stack and all routes
// mounted under /api/v1.
func New(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(deps.Config.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies); err != nil {
			deps.Logger.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: deps.Config.HTTP.CORSAllowOrigins,
		MaxAge:       12 * time.Hour,
	}))

	// Health check lives outside the versioned API
	engine.GET("/health", healthHandler(deps.DB))

	api := engine.Group("/api/v1")

	// Public routes
	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", deps.Handlers.Auth.Login)
	authRoutes.POST("/register", deps.Handlers.Auth.Register)
	authRoutes.POST("/refresh", deps.Handlers.Auth.Refresh)

	// Everything below needs a valid access token
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(deps.JWTService, deps.Blacklist))

	protected.POST("/auth/logout", deps.Handlers.Auth.Logout)

	users := protected.Group("/users")
	users.GET("/me", deps.Handlers.Auth.Me)
	users.GET("/by-role", deps.Handlers.Users.ListByRole)
	users.GET("", middleware.RequireAdmin(), deps.Handlers.Users.List)
	users.POST("", middleware.RequireAdmin(), deps.Handlers.Users.Create)
	users.GET("/:id", middleware.RequireAdmin(), deps.Handlers.Users.Get)
	users.PATCH("/:id", middleware.RequireAdmin(), deps.Handlers.Users.Update)
	users.POST("/:id/disable", middleware.RequireAdmin(), deps.Handlers.Users.Disable)
	users.POST("/:id/enable", middleware.RequireAdmin(), deps.Handlers.Users.Enable)

	ratings := protected.Group("/ratings")
	ratings.GET("", deps.Handlers.Ratings.List)
	ratings.GET("/mine", deps.Handlers.Ratings.ListMine)
	ratings.POST("", deps.Handlers.Ratings.Create)
	ratings.GET("/export", deps.Handlers.Bulk.Export)
	ratings.POST("/import", deps.Handlers.Bulk.Import)
	ratings.GET("/:id", deps.Handlers.Ratings.Get)
	ratings.PUT("/:id", deps.Handlers.Ratings.Update)
	ratings.DELETE("/:id", deps.Handlers.Ratings.Delete)
	ratings.POST("/:id/reassign", middleware.RequireAdmin(), deps.Handlers.Ratings.Reassign)
	ratings.POST("/:id/events", deps.Handlers.Ratings.CreateEvent)
	ratings.PUT("/:id/events/:eventID", deps.Handlers.Ratings.UpdateEvent)

	mountRefdata(protected, deps.Handlers.Refdata)

	protected.GET("/logs", deps.Handlers.Audit.ListLogs)
	protected.GET("/auditorias", deps.Handlers.Audit.ListRecords)

	return engine
}

// mountRefdata registers the three lookup tables: reads for every
// authenticated user, writes admin only.
func mountRefdata(g *gin.RouterGroup, h *handler.RefdataHandler) {
	admin := middleware.RequireAdmin()

	instruments := g.Group("/instrumentos")
	instruments.GET("", h.ListInstruments)
	instruments.GET("/:id", h.GetInstrument)
	instruments.POST("", admin, h.CreateInstrument)
	instruments.PUT("/:id", admin, h.UpdateInstrument)
	instruments.DELETE("/:id", admin, h.DeleteInstrument)

	markets := g.Group("/mercados")
	markets.GET("", h.ListMarkets)
	markets.GET("/:id", h.GetMarket)
	markets.POST("", admin, h.CreateMarket)
	markets.PUT("/:id", admin, h.UpdateMarket)
	markets.DELETE("/:id", admin, h.DeleteMarket)

	states := g.Group("/estados")
	states.GET("", h.ListStates)
	states.GET("/:id", h.GetState)
	states.POST("", admin, h.CreateState)
	states.PUT("/:id", admin, h.UpdateState)
	states.DELETE("/:id", admin, h.DeleteState)
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
