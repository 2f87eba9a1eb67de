package api

import (
	"net/http"
	"time"

	"blogapi/internal/api/handler"
	"blogapi/internal/api/middleware"
	"blogapi/internal/app/service"
	"blogapi/internal/common/security"
	"blogapi/internal/platform/config"
	"blogapi/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg config.Config,
	tokens *security.TokenManager,
	authService *service.AuthService,
	postService *service.PostService,
	commentService *service.CommentService,
	userService *service.UserService,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))
	r.Use(metrics.HTTP)

	// Decode any presented token (header or session cookie) into the request
	// context; Authenticator enforces it only on protected groups.
	r.Use(jwtauth.Verify(tokens.Auth(), jwtauth.TokenFromHeader, security.TokenFromCookie))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	// Stored post photos.
	fs := http.StripPrefix("/images/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/images/*", fs.ServeHTTP)

	r.Route("/api", func(api chi.Router) {
		authHandler := handler.NewAuthHandler(authService, tokens, cfg.Env)
		api.Route("/auth", authHandler.RegisterRoutes)

		postHandler := handler.NewPostHandler(postService)
		api.Route("/posts", postHandler.RegisterRoutes)

		commentHandler := handler.NewCommentHandler(commentService)
		api.Route("/comments", commentHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(userService)
		api.Route("/users", userHandler.RegisterRoutes)

		uploadHandler := handler.NewUploadHandler(cfg.UploadDir)
		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticator)
			protected.Post("/upload", uploadHandler.Upload)
		})
	})

	return r
}
