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
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"billed/internal/config"
	"billed/internal/database"
	"billed/internal/handler"
	"billed/internal/logging"
	"billed/internal/mw"
	"billed/internal/service"
	"billed/internal/store"
	"billed/internal/worker"
)

func main() {
	cfg := config.New()
	logging.Setup()

	db, err := database.NewDB(cfg.DatabaseURI)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(context.Background(), db)

	if err := database.InitSchema(db); err != nil {
		slog.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}

	// Stores
	billStore := store.NewBillDB(db)
	vault, err := store.NewDiskVault(cfg.ReceiptDir, cfg.BaseURL)
	if err != nil {
		slog.Error("failed to init receipt vault", "error", err)
		os.Exit(1)
	}

	// Services
	authSvc := service.NewAuthService(db)
	billsSvc := service.NewBillsList(billStore)
	subSvc := service.NewSubmission(billStore, vault, func(route string) {
		slog.Debug("navigation", "route", route)
	})
	reviewSvc := service.NewReview(billStore)

	// Worker
	janitor := worker.NewJanitor(billStore, vault)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization", "Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	r.Post("/api/user/register", handler.RegisterHandler(authSvc, cfg.JWTSecret))
	r.Post("/api/user/login", handler.LoginHandler(authSvc, cfg.JWTSecret))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/api/bills", handler.ListBillsHandler(billsSvc))
		r.Post("/api/bills", handler.SubmitBillHandler(subSvc))
		r.Get("/api/bills/summary", handler.BillSummaryHandler(billsSvc))
		r.Get("/api/bills/{id}/receipt", handler.BillReceiptHandler(billsSvc))

		r.Post("/api/bills/receipt", handler.UploadReceiptHandler(subSvc))
		r.Get("/api/receipts/{key}", handler.PreviewReceiptHandler(vault))

		r.Patch("/api/admin/bills/{id}", handler.ReviewBillHandler(reviewSvc))
	})

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go janitor.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
