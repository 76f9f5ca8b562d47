package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"capicare-backend/internal/client"
	"capicare-backend/internal/config"
	"capicare-backend/internal/logger"
	"capicare-backend/internal/repository"
	"capicare-backend/internal/server"
	"capicare-backend/internal/service"
	"capicare-backend/internal/storage"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Environment.Name)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using embedded database and file store only")
	}

	db, err := client.InitDatabase(cfg.DatabaseURL, cfg.Storage.DataDir)
	if err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}

	fileStore, err := storage.NewFileStore(cfg.Storage.DataDir, cfg.Storage.FileName, log)
	if err != nil {
		log.Fatal("file store init failed", zap.Error(err))
	}

	purchaseRepo := repository.NewPurchaseRepository(db)
	eventRepo := repository.NewEventRepository(db)
	authUserRepo := repository.NewAuthUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	userStore := storage.NewUserStore(fileStore, purchaseRepo, log)

	reconcileService := service.NewReconcileService(
		userStore,
		eventRepo,
		authUserRepo,
		profileRepo,
		subscriptionRepo,
		cfg.Plan.DefaultName,
		log,
	)
	accessService := service.NewAccessService(userStore, log)
	adminService := service.NewAdminService(userStore, reconcileService, cfg.Plan.DefaultName, log)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(reconcileService, accessService, adminService)

	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}
