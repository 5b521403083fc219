package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"babelchat/infrastructure/ws"
	"babelchat/internal"
	"babelchat/moderation"
	"babelchat/repositories"
	"babelchat/runtime"
	"babelchat/runtime/workers"
	"babelchat/search"
	"babelchat/services"
	"babelchat/translation"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the HTTP server and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage (BadgerDB + Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	// Defer will be executed before run() returns anything to main()
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	indexWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = indexWriter.Close()
	}()

	// 3. Repositories & Collaborators
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	unreadRepository := repositories.NewUnreadRepository(db, log)
	groupRepository := repositories.NewGroupRepository(db, log)
	userRepository := repositories.NewUserRepository(db, log)
	changeRepository := repositories.NewChangeRepository(db, log)
	messageIndex := search.NewMessageIndex(indexWriter, log)

	moderator, err := moderation.NewModerator(config.Blacklist(), '*', log)
	if err != nil {
		return fmt.Errorf("moderation blacklist rejected: %w", err)
	}

	translator := translation.NewClient(
		config.TranslatorBaseURL, config.TranslatorModel, config.TranslatorAPIKey,
		config.TranslatorTimeout, log)

	// 4. Supervision & Orchestration
	sup := workers.NewSupervisor(log, config.RestartInterval)
	registry := runtime.NewRegistry()
	broadcaster := runtime.NewBroadcaster(log, registry, groupRepository)

	orchestrator := runtime.NewOrchestrator(
		log, sup, registry, broadcaster, translator,
		messageRepository, unreadRepository, groupRepository,
		config.NumberOfTranslators, config.BufferSize, config.MetricInterval,
	)

	// 5. Services & Transport
	authService := services.NewAuthService(userRepository, config.AuthTokenDuration)
	groupService := services.NewGroupService(groupRepository)
	messageService := services.NewMessageService(log,
		messageRepository, unreadRepository, groupRepository, userRepository,
		changeRepository, messageIndex, moderator, orchestrator, broadcaster)

	server := ws.NewServer(log,
		fmt.Sprintf("%s:%d", config.Host, config.Port), config.Origins(),
		authService, groupService, messageService, registry, orchestrator)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 7. Start everything
	orchestrator.Start(ctx)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 9. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	orchestrator.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
