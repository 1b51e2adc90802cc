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

	"github.com/funboard/funboard/internal/adminflag"
	"github.com/funboard/funboard/internal/api"
	"github.com/funboard/funboard/internal/board"
	"github.com/funboard/funboard/internal/config"
	"github.com/funboard/funboard/internal/factapi"
	"github.com/funboard/funboard/internal/ratelimit"
	"github.com/funboard/funboard/internal/web"
)

func main() {
	cfg := config.Load()

	// Admin flag persistence
	admins, err := adminflag.NewSQLiteStore(cfg.AdminDBPath)
	if err != nil {
		log.Fatalf("Failed to open admin flag store: %v", err)
	}
	defer admins.Close()

	// Session collection, fed by the remote fact API
	client := factapi.NewClient(cfg.FactAPIURL, cfg.RemoteTimeout)
	boardStore := board.NewStore(client)

	// First load is best effort: the board starts empty if the remote
	// is unreachable, and /api/refresh can retry later.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RemoteTimeout)
	if err := boardStore.LoadAll(ctx); err != nil {
		log.Printf("Initial fact load failed, starting empty: %v", err)
	}
	cancel()

	limiter := ratelimit.NewMemoryLimiter()
	limiter.StartCleanup(5 * time.Minute)

	// Initialize handlers
	apiHandler := api.NewHandler(boardStore, admins, limiter, cfg)
	webHandler, err := web.NewHandler(boardStore, admins, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize web handler: %v", err)
	}

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Public API routes
	mux.HandleFunc("GET /api/facts", apiHandler.ListFacts)
	mux.HandleFunc("GET /api/facts/{id}", apiHandler.GetFact)
	mux.HandleFunc("POST /api/facts", apiHandler.CreateFact)
	mux.HandleFunc("POST /api/facts/{id}/reactions", apiHandler.ToggleReaction)
	mux.HandleFunc("POST /api/facts/{id}/comments", apiHandler.CreateComment)
	mux.HandleFunc("POST /api/facts/{id}/report", apiHandler.Report)
	mux.HandleFunc("GET /api/leaderboard", apiHandler.Leaderboard)
	mux.HandleFunc("POST /api/refresh", apiHandler.Refresh)

	// Admin routes (gated on the persisted session flag)
	mux.HandleFunc("POST /api/admin/login", apiHandler.AdminLogin)
	mux.HandleFunc("POST /api/admin/logout", apiHandler.AdminLogout)
	mux.HandleFunc("GET /api/admin/facts", apiHandler.RequireAdmin(apiHandler.AdminListFacts))
	mux.HandleFunc("POST /api/admin/facts/{id}/hide", apiHandler.RequireAdmin(apiHandler.HideFact))
	mux.HandleFunc("POST /api/admin/facts/{id}/unhide", apiHandler.RequireAdmin(apiHandler.UnhideFact))
	mux.HandleFunc("DELETE /api/admin/facts/{id}", apiHandler.RequireAdmin(apiHandler.DeleteFact))

	// Web routes
	mux.HandleFunc("GET /", webHandler.Home)
	mux.HandleFunc("GET /fact/{id}", webHandler.Fact)
	mux.HandleFunc("GET /submit", webHandler.Submit)
	mux.HandleFunc("GET /leaderboard", webHandler.Leaderboard)
	mux.HandleFunc("GET /admin", webHandler.Admin)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.Printf("Starting Funboard on %s", addr)

	// Wrap with logging middleware
	handler := api.LogRequests(mux)

	// Create server with timeouts
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
