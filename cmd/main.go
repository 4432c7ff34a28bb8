// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bandpraxis/gig-scheduler/internal/database"
	"github.com/bandpraxis/gig-scheduler/internal/handler"
	"github.com/bandpraxis/gig-scheduler/internal/repository"
	"github.com/bandpraxis/gig-scheduler/internal/service"
	"github.com/bandpraxis/gig-scheduler/internal/validate"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// A missing .env is fine; real environments set variables directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	// ── 1. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	log.Println("✓ Connected to PostgreSQL")

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("✓ Schema ready")

	// ── 2. Wire up layers ────────────────────────────────────────────────
	gigRepo := repository.NewGigRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	validator := validate.New(service.DefaultMessages)
	gigSvc := service.NewGigService(gigRepo, memberRepo, validator)
	gigHandler := handler.NewGigHandler(gigSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS for the separate UI

	rateLimiter := handler.NewRateLimiter(10, 20)
	r.Use(rateLimiter.Limit)

	// Health
	r.Get("/health", handler.HealthCheck)

	// API routes
	r.Route("/gigs", func(r chi.Router) {
		r.Post("/", gigHandler.CreateGig)
		r.Get("/", gigHandler.ListGigs)
		r.Get("/{id}", gigHandler.GetGig)
		r.Put("/{id}", gigHandler.UpdateGig)
		r.Patch("/{id}/status", gigHandler.UpdateStatus)
		r.Delete("/{id}", gigHandler.DeleteGig)
		r.Post("/{id}/convert", gigHandler.Convert)
		r.Get("/{id}/overview", gigHandler.Overview)
		r.Put("/{id}/availability/{memberID}", gigHandler.SetAvailability)
		r.Put("/{id}/availability/{memberID}/driving", gigHandler.SetDriving)
		r.Post("/{id}/availability/{memberID}/driving/toggle", gigHandler.ToggleDriving)
	})

	r.Route("/members", func(r chi.Router) {
		r.Post("/", gigHandler.CreateMember)
		r.Get("/", gigHandler.ListMembers)
		r.Delete("/{id}", gigHandler.DeleteMember)
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("✓ Server listening on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
