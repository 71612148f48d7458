package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/healwise/server/internal/auth"
	"github.com/healwise/server/internal/store"
)

// Context keys set by the auth middleware.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// requireAuth rejects requests without a valid Bearer access token.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := s.bearerClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// optionalAuth attaches the identity when a valid token is present but lets
// anonymous requests through. Predictions work without an account; they are
// just not recorded into any history.
func (s *Server) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := s.bearerClaims(c); ok {
			c.Set(ctxUserID, claims.Subject)
			c.Set(ctxRole, claims.Role)
		}
		c.Next()
	}
}

// requireAdmin must run after requireAuth.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != store.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func (s *Server) bearerClaims(c *gin.Context) (*auth.Claims, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}
	claims, err := s.Tokens.VerifyAccess(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// audit records an event, logging rather than failing when the write does
// not land.
func (s *Server) audit(c *gin.Context, actor, action, subject, detail string) {
	if s.Store == nil {
		return
	}
	if err := s.Store.AppendAudit(c.Request.Context(), actor, action, subject, detail); err != nil {
		log.Printf("audit write failed (%s %s): %v", action, subject, err)
	}
}
