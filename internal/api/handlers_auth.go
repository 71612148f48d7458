package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/healwise/server/internal/auth"
	"github.com/healwise/server/internal/store"
)

const oauthStateCookie = "oauth_state"

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type authResponse struct {
	User   *store.User     `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

func (s *Server) handleRegister(c *gin.Context) {
	if s.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "accounts unavailable"})
		return
	}
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	switch _, err := s.Store.GetUserByEmail(c.Request.Context(), email); {
	case err == nil:
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	case !errors.Is(err, store.ErrNotFound):
		log.Printf("register lookup failed for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.Store.CreateUser(c.Request.Context(), email, req.Name, hash, "")
	if err != nil {
		log.Printf("register failed for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	s.audit(c, user.ID, "user.register", user.Email, "")

	s.respondWithTokens(c, user)
}

func (s *Server) handleLogin(c *gin.Context) {
	if s.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "accounts unavailable"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.Store.GetUserByEmail(c.Request.Context(), email)
	if err != nil || user.PasswordHash == "" || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// One response for unknown email and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	s.audit(c, user.ID, "user.login", user.Email, "")

	s.respondWithTokens(c, user)
}

func (s *Server) handleRefresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	pair, err := s.Tokens.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": pair})
}

func (s *Server) handleGoogleLogin(c *gin.Context) {
	if s.Google == nil || s.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "google sign-in not configured"})
		return
	}
	state := randomState()
	c.SetCookie(oauthStateCookie, state, 300, "/", "", false, true)
	c.Redirect(http.StatusFound, s.Google.AuthURL(state))
}

func (s *Server) handleGoogleCallback(c *gin.Context) {
	if s.Google == nil || s.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "google sign-in not configured"})
		return
	}
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	profile, err := s.Google.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Printf("google exchange failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "google sign-in failed"})
		return
	}

	user, err := s.findOrCreateGoogleUser(c, profile)
	if err != nil {
		log.Printf("google sign-in for %s failed: %v", profile.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	s.audit(c, user.ID, "user.login.google", user.Email, "")

	s.respondWithTokens(c, user)
}

// findOrCreateGoogleUser resolves the Google identity to a local account:
// by subject first, then by email (linking an existing password account),
// then by creating a fresh one.
func (s *Server) findOrCreateGoogleUser(c *gin.Context, profile *auth.GoogleProfile) (*store.User, error) {
	ctx := c.Request.Context()
	email := strings.ToLower(profile.Email)

	user, err := s.Store.GetUserByGoogleSub(ctx, profile.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if user, err = s.Store.GetUserByEmail(ctx, email); err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	return s.Store.CreateUser(ctx, email, profile.Name, "", profile.Sub)
}

func (s *Server) respondWithTokens(c *gin.Context, user *store.User) {
	pair, err := s.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		log.Printf("token issue failed for %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, authResponse{User: user, Tokens: pair})
}

func randomState() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
