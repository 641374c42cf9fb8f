package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/imagedrop/service/internal/account"
	"github.com/imagedrop/service/internal/config"
	"github.com/imagedrop/service/internal/db"
	appMiddleware "github.com/imagedrop/service/internal/middleware"
	"github.com/imagedrop/service/internal/storage"
	"github.com/imagedrop/service/internal/token"
	"github.com/imagedrop/service/internal/upload"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	store, err := storage.NewMinioStorage(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.PublicBase,
		cfg.Storage.UseSSL,
	)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	// Wire dependencies: repository → service → handler
	tokenSvc := token.NewService(cfg.JWTSecret)

	accountRepo := account.NewPostgresRepository(pool)
	accountSvc := account.NewService(accountRepo, account.NewHasher(), tokenSvc)
	accountHandler := account.NewHandler(accountSvc)

	uploadSvc := upload.NewService(store)
	uploadHandler := upload.NewHandler(uploadSvc)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Liveness
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("image upload service is running"))
	})

	// Public upload endpoints
	r.Post("/upload", uploadHandler.Upload)
	r.Post("/upload-multiple", uploadHandler.UploadMultiple)
	r.Get("/images", uploadHandler.ListImages)
	r.Get("/file/{filename}", uploadHandler.ServeFile)
	r.Delete("/images/{id}", uploadHandler.Delete)

	// Public account endpoints
	r.Post("/register", accountHandler.Register)
	r.Post("/login", accountHandler.Login)

	// Protected account endpoints
	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.RequireAuth(tokenSvc, accountRepo))
		r.Get("/me", accountHandler.Me)
		r.Post("/logout", accountHandler.Logout)
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
