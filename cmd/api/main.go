package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/platevision/platevision-go/internal/config"
	"github.com/platevision/platevision-go/internal/handler"
	"github.com/platevision/platevision-go/internal/middleware"
	"github.com/platevision/platevision-go/internal/repository"
	"github.com/platevision/platevision-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	userRepo := repository.NewUserRepository(cfg.UsersFile)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	authHandler := handler.NewAuthHandler(authService)

	detectHandler := handler.NewDetectHandler(service.NewDetectService(cfg.DetectDelay), cfg.UploadDir)
	statusHandler := handler.NewStatusHandler(service.NewStatusService())

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/auth/register", authHandler.HandleRegister)
		r.Post("/api/auth/login", authHandler.HandleLogin)
	})
	r.Post("/api/auth/logout", authHandler.HandleLogout)

	r.Get("/api/system/status", statusHandler.HandleStatus)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))
		r.Post("/api/detect", detectHandler.HandleDetect)
	})

	// Stored uploads are public read-only.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	db, err := repository.NewDB(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("database unavailable, record routes disabled", "error", err)
	} else {
		plateRepo := repository.NewPlateRepository(db)
		plateService := service.NewPlateService(plateRepo)
		plateHandler := handler.NewPlateHandler(plateService)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.JWTSecret))
			r.Get("/api/plates", plateHandler.HandleList)
			r.Post("/api/plates", plateHandler.HandleCreate)
			r.Delete("/api/plates/{id}", plateHandler.HandleDelete)
		})
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "db", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
