package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ripple-backend/domain/core/entities"
	"ripple-backend/domain/core/valueobjects"
	"ripple-backend/infrastructure/config"
	"ripple-backend/infrastructure/di"
	"ripple-backend/infrastructure/persistence/memory"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	if cfg.StorageDriver == "memory" && cfg.IsDevelopment() {
		seedDevUsers(container)
	}

	handler := container.Router.Setup()

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("storage_driver", cfg.StorageDriver),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}

// seedDevUsers loads a few known accounts so the memory driver is usable
// out of the box. Token subjects match the seeded IDs.
func seedDevUsers(container *di.Container) {
	users, ok := container.UserRepo.(*memory.UserRepository)
	if !ok {
		return
	}
	for _, seed := range []struct {
		id, username, name string
	}{
		{"alice", "alice", "Alice Moreau"},
		{"bob", "bob", "Bob Tanaka"},
		{"carol", "carol", "Carol Okafor"},
	} {
		id, err := valueobjects.NewUserID(seed.id)
		if err != nil {
			continue
		}
		users.Put(entities.User{
			ID:           id,
			Username:     seed.username,
			Name:         seed.name,
			LastActiveAt: time.Now(),
		})
	}
	container.Logger.Info("Seeded development users", zap.Int("count", 3))
}
