package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/healwise/server/internal/store"
)

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (s *Server) handleAdminListUsers(c *gin.Context) {
	if s.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "accounts unavailable"})
		return
	}
	users, err := s.Store.ListUsers(c.Request.Context())
	if err != nil {
		log.Printf("list users failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if users == nil {
		users = []store.User{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) handleAdminUpdateRole(c *gin.Context) {
	if s.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "accounts unavailable"})
		return
	}
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	id := c.Param("id")

	// An admin cannot demote themselves; it is too easy to lock the last
	// admin out of the system.
	if id == c.GetString(ctxUserID) && req.Role != store.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot change own role"})
		return
	}

	if err := s.Store.UpdateUserRole(c.Request.Context(), id, req.Role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.audit(c, c.GetString(ctxUserID), "admin.role.update", id, "role="+req.Role)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAdminDeleteUser(c *gin.Context) {
	if s.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "accounts unavailable"})
		return
	}
	id := c.Param("id")
	if id == c.GetString(ctxUserID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete own account"})
		return
	}
	if err := s.Store.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.Printf("delete user %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	s.audit(c, c.GetString(ctxUserID), "admin.user.delete", id, "")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAdminDeletePrediction(c *gin.Context) {
	if s.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history unavailable"})
		return
	}
	id := c.Param("id")
	if err := s.Store.DeletePrediction(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "prediction not found"})
			return
		}
		log.Printf("delete prediction %s failed: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	s.audit(c, c.GetString(ctxUserID), "admin.prediction.delete", id, "")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAdminListAudit(c *gin.Context) {
	if s.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit unavailable"})
		return
	}
	limit := 100
	if v, err := parsePositiveInt(c.Query("limit")); err == nil {
		limit = v
	}
	entries, err := s.Store.ListAudit(c.Request.Context(), limit)
	if err != nil {
		log.Printf("list audit failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if entries == nil {
		entries = []store.AuditEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"audit": entries})
}
