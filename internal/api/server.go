package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/healwise/server/internal/auth"
	"github.com/healwise/server/internal/geo"
	"github.com/healwise/server/internal/predict"
	"github.com/healwise/server/internal/store"
)

// Store is the persistence surface the handlers depend on. *store.Store
// satisfies it; tests substitute a fake.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, email, name, passwordHash, googleSub string) (*store.User, error)
	GetUser(ctx context.Context, id string) (*store.User, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	GetUserByGoogleSub(ctx context.Context, sub string) (*store.User, error)
	ListUsers(ctx context.Context) ([]store.User, error)
	UpdateUserRole(ctx context.Context, id, role string) error
	DeleteUser(ctx context.Context, id string) error

	SavePrediction(ctx context.Context, rec *store.PredictionRecord) (string, error)
	ListPredictionsByOwner(ctx context.Context, ownerID string) ([]store.PredictionRecord, error)
	DeletePrediction(ctx context.Context, id string) error

	AppendAudit(ctx context.Context, actor, action, subject, detail string) error
	ListAudit(ctx context.Context, limit int) ([]store.AuditEntry, error)
}

// GeoSearcher is the geolocation surface. *geo.Client satisfies it.
type GeoSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]geo.Place, error)
}

// Server bundles the handlers' collaborators. Store and Google may be nil:
// without a database the account routes respond 503, and without OAuth
// credentials the Google routes do the same. Prediction works either way.
type Server struct {
	Pipeline *predict.Pipeline
	Store    Store
	Tokens   *auth.Tokens
	Google   *auth.GoogleOAuth
	Geo      GeoSearcher
}

// NewRouter assembles the gin engine with the shared middleware chain.
func NewRouter(s *Server) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if s.Store == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     "unhealthy: " + err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/symptoms", s.handleSymptoms)
		api.POST("/predict", s.optionalAuth(), s.handlePredict)
		api.GET("/predictions", s.requireAuth(), s.handleListPredictions)
		api.GET("/geo/facilities", s.handleGeoFacilities)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", s.handleRegister)
			authGroup.POST("/login", s.handleLogin)
			authGroup.POST("/refresh", s.handleRefresh)
			authGroup.GET("/google/login", s.handleGoogleLogin)
			authGroup.GET("/google/callback", s.handleGoogleCallback)
		}

		admin := api.Group("/admin", s.requireAuth(), s.requireAdmin())
		{
			admin.GET("/users", s.handleAdminListUsers)
			admin.PATCH("/users/:id/role", s.handleAdminUpdateRole)
			admin.DELETE("/users/:id", s.handleAdminDeleteUser)
			admin.DELETE("/predictions/:id", s.handleAdminDeletePrediction)
			admin.GET("/audit", s.handleAdminListAudit)
		}
	}

	return router
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
