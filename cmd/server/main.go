package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogapi/internal/api"
	"blogapi/internal/app/service"
	"blogapi/internal/common/security"
	"blogapi/internal/domain/repository"
	"blogapi/internal/platform/cache"
	"blogapi/internal/platform/config"
	"blogapi/internal/platform/database"
	"blogapi/internal/platform/logger"
	"blogapi/internal/platform/metrics"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Error("database connect", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Error("migrations", "err", err)
		os.Exit(1)
	}

	// The API degrades gracefully without Redis; reads just skip the cache.
	posts, err := cache.Connect(ctx, cfg)
	if err != nil {
		log.Warn("redis unavailable, post cache disabled", "err", err)
		posts = nil
	}
	defer posts.Close()

	tokens := security.NewTokenManager(cfg)

	userRepo := repository.NewPgUserRepository(db.DB)
	postRepo := repository.NewPgPostRepository(db.DB)
	commentRepo := repository.NewPgCommentRepository(db.DB)

	authService := service.NewAuthService(userRepo, tokens, cfg.BcryptCost)
	postService := service.NewPostService(postRepo, commentRepo, userRepo, db, posts)
	commentService := service.NewCommentService(commentRepo, postRepo, db)
	userService := service.NewUserService(userRepo, postRepo, commentRepo, db, posts, cfg.BcryptCost)

	metrics.Init()
	router := api.NewRouter(cfg, tokens, authService, postService, commentService, userService)

	srv := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.APIPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "err", err)
	}
	log.Info("server stopped")
}
