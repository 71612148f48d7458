package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/healwise/server/internal/api"
	"github.com/healwise/server/internal/auth"
	"github.com/healwise/server/internal/config"
	"github.com/healwise/server/internal/geo"
	"github.com/healwise/server/internal/predict"
	"github.com/healwise/server/internal/store"
)

func main() {
	gin.SetMode(getEnv("GIN_MODE", "release"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()

	srv := &api.Server{
		Pipeline: predict.LoadPipeline(cfg.ArtifactsDir, cfg.NeutralConfidence),
		Tokens:   auth.NewTokens(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL),
		Geo:      geo.NewClient(cfg.GeoBaseURL, cfg.GeoUserAgent, 10*time.Second),
	}

	if cfg.EnableDB {
		db, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		srv.Store = db
	} else {
		log.Println("database disabled; running without accounts or history")
	}

	if cfg.GoogleEnabled() {
		srv.Google = auth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	router := api.NewRouter(srv)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	log.Printf("server listening on :%s", cfg.Port)
	waitForShutdown(server)
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
