// Package server provides the HTTP REST API for the documentation generator.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/superdocs/superdocs/internal/chat"
	"github.com/superdocs/superdocs/internal/config"
	"github.com/superdocs/superdocs/internal/llm"
	"github.com/superdocs/superdocs/internal/pipeline"
	"github.com/superdocs/superdocs/internal/store"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *store.DB
	llm         llm.Client
	pipeline    *pipeline.Service
	chat        *chat.Service
	validate    *validator.Validate
	githubToken string
}

// New creates a new server instance. An empty DatabaseURL is allowed; plan
// and generation runs are then stateless and the document endpoints return
// 503.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	s := &Server{
		llm:         client,
		validate:    validator.New(),
		githubToken: cfg.GitHubToken,
	}

	var docStore pipeline.DocumentStore
	if cfg.DatabaseURL != "" {
		database, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		s.db = database
		docStore = database
	}

	s.pipeline = pipeline.New(docStore, client, pipeline.Options{RankLimit: cfg.RankLimit})
	s.chat = chat.New(client)

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("POST /docs/plan", s.handlePlan)
	mux.HandleFunc("POST /docs/generate", s.handleGenerate)
	mux.HandleFunc("POST /docs/content", s.handleContent)
	mux.HandleFunc("POST /docs/chat", s.handleChat)
	mux.HandleFunc("GET /docs", s.handleListDocuments)
	mux.HandleFunc("GET /docs/{id}", s.handleGetDocument)
	mux.HandleFunc("POST /docs/{id}/publish", s.handlePublish)
	mux.HandleFunc("DELETE /docs/{id}", s.handleDeleteDocument)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for generation runs
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.db != nil {
		s.db.Close()
	}
	if err := s.llm.Close(); err != nil {
		log.Printf("Error closing generation client: %v", err)
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
