/*
main.go - HTTP server entry point

PURPOSE:
  Initializes and starts the salon booking server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize the record store (flat files or SQLite)
  3. Reconstruct the booking engine from persisted records
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (default: 8080)
  -backend  "csv" or "sqlite" (default: csv)
  -data     Data directory for the flat-file backend (default: ./data)
  -db       SQLite database path for the sqlite backend (default: salon.db)
            Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Exit

EXAMPLES:
  # Flat-file records in ./data
  ./server -data=./data

  # SQLite backend
  ./server -backend=sqlite -db=./data/salon.db

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/csv, store/sqlite: Record store implementations
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/salon-engine/api"
	"github.com/warp/salon-engine/booking"
	"github.com/warp/salon-engine/store/csv"
	"github.com/warp/salon-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	backend := flag.String("backend", "csv", `record store backend: "csv" or "sqlite"`)
	dataDir := flag.String("data", "./data", "data directory for the csv backend")
	dbPath := flag.String("db", "salon.db", "SQLite database path for the sqlite backend")
	flag.Parse()

	// Initialize store
	var records booking.RecordStore
	switch *backend {
	case "csv":
		store, err := csv.New(*dataDir)
		if err != nil {
			log.Fatalf("Failed to initialize record store: %v", err)
		}
		records = store
	case "sqlite":
		store, err := sqlite.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()
		records = store
	default:
		log.Fatalf("Unknown backend %q (use csv or sqlite)", *backend)
	}

	// Reconstruct engine state from persisted records
	engine, err := booking.NewEngine(context.Background(), records)
	if err != nil {
		log.Fatalf("Failed to load booking engine: %v", err)
	}

	// Create router
	handler := api.NewHandler(engine, booking.DefaultCatalog())
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
