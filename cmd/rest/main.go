package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-notes-be/internal/bootstrap"
	"smart-notes-be/internal/config"
	"smart-notes-be/internal/model"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/internal/server"
	"smart-notes-be/internal/tracer"
	"smart-notes-be/pkg/database"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer := tracer.InitTracer(sysLogger)
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	db, driver, err := database.Open(cfg.Database.Connection, cfg.Database.SQLitePath)
	if err != nil {
		sysLogger.Error("Main", "Unable to open database", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	if err := database.Migrate(db, model.All()...); err != nil {
		sysLogger.Error("Main", "Migration failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	sysLogger.Info("Main", "Database ready", map[string]interface{}{"driver": string(driver)})

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, db, cfg, sysLogger)

	// 4. Start Background Services
	go container.WebSocketHub.Run(ctx)
	if err := container.ConsumerService.Consume(ctx); err != nil {
		sysLogger.Error("Main", "Consumer failed to start", map[string]interface{}{"error": err.Error()})
	}

	// 5. Run Server until a signal arrives
	srv := server.New(cfg, container, sysLogger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			sysLogger.Error("Main", "Server stopped", map[string]interface{}{"error": err.Error()})
		}
	case <-ctx.Done():
		sysLogger.Info("Main", "Shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sysLogger.Warn("Main", "Server shutdown incomplete", map[string]interface{}{"error": err.Error()})
		}
	}

	if err := container.Close(); err != nil {
		sysLogger.Warn("Main", "Resource cleanup failed", map[string]interface{}{"error": err.Error()})
	}
	if err := database.Close(db); err != nil {
		sysLogger.Warn("Main", "Database close failed", map[string]interface{}{"error": err.Error()})
	}
}
