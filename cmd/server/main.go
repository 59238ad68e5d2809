// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Annany2002/nebula-schemas/api"    // Import router setup
	"github.com/Annany2002/nebula-schemas/config" // Import config loading
	"github.com/Annany2002/nebula-schemas/internal/logger"
	"github.com/Annany2002/nebula-schemas/internal/storage" // Import DB connection func
)

var (
	customLog = logger.NewLogger()
)

func main() {
	customLog.Println("Starting schema editor server...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		customLog.Fatalf("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	// 2. Initialize Schema Database Connection
	db, err := storage.ConnectSchemaDB(cfg)
	if err != nil {
		customLog.Fatalf("Failed to initialize schema database: %v", err)
		os.Exit(1)
	}
	defer func() {
		customLog.Println("Closing schema database connection...")
		if err := db.Close(); err != nil {
			customLog.Printf("Error closing schema database: %v", err)
		}
	}()

	// 3. Setup Router (passing dependencies)
	router := api.SetupRouter(db, cfg)

	// 4. Start Server, stop on SIGINT/SIGTERM
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		customLog.Printf("Server listening on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			customLog.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	customLog.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		customLog.Printf("Server forced to shut down: %v", err)
	}
}
