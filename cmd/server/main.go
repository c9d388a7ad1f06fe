package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dungeonlive/dungeon-backend/internal/ai"
	"github.com/dungeonlive/dungeon-backend/internal/config"
	httpHandlers "github.com/dungeonlive/dungeon-backend/internal/http/handlers"
	httpRouter "github.com/dungeonlive/dungeon-backend/internal/http/router"
	"github.com/dungeonlive/dungeon-backend/internal/ledger"
	"github.com/dungeonlive/dungeon-backend/internal/logger"
	"github.com/dungeonlive/dungeon-backend/internal/repository"
	"github.com/dungeonlive/dungeon-backend/internal/service"
	"github.com/dungeonlive/dungeon-backend/internal/session"
	"github.com/dungeonlive/dungeon-backend/internal/storage"
	"github.com/dungeonlive/dungeon-backend/internal/store"
	"github.com/dungeonlive/dungeon-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Хранилище документа состояния.
	kv, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("main: ошибка инициализации хранилища: %v", err)
	}
	defer closeStore()

	state := repository.NewStateRepository(kv, cfg.StoreKey)
	directory := session.NewDirectory(state, cfg.MasterAdminEmail)

	tokenLedger := ledger.New(state, directory, ledger.Config{
		PayeeShareRatio:     cfg.PayeeShareRatio,
		MinWithdrawalTokens: cfg.MinWithdrawalTokens,
		TokenPayoutRate:     cfg.TokenPayoutRate,
	})

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	mediaStorage, err := storage.NewMediaStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Сервисы.
	authService := service.NewAuthService(state, directory, tokenManager, cfg.MasterAdminEmail, cfg.MasterAdminPassword)
	purchaseService := service.NewPurchaseService(tokenLedger)
	walletService := service.NewWalletService(tokenLedger, service.SimulatedGateway{}, cfg.TokenPayoutRate)
	catalogService := service.NewCatalogService(state)
	messageService := service.NewMessageService(state, tokenLedger)
	adminService := service.NewAdminService(state, tokenLedger)
	orderService := service.NewOrderService(state, tokenLedger)
	feedService := service.NewFeedService(state)
	seedService := service.NewSeedService(state)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()

	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIModel)

	// HTTP хэндлеры.
	handlers := httpRouter.Handlers{
		Auth:       httpHandlers.NewAuthHandler(authService, directory),
		Performer:  httpHandlers.NewPerformerHandler(catalogService),
		Purchase:   httpHandlers.NewPurchaseHandler(purchaseService, hub),
		Wallet:     httpHandlers.NewWalletHandler(walletService, tokenLedger),
		Withdrawal: httpHandlers.NewWithdrawalHandler(tokenLedger),
		Admin:      httpHandlers.NewAdminHandler(adminService),
		Message:    httpHandlers.NewMessageHandler(messageService),
		Order:      httpHandlers.NewOrderHandler(orderService),
		Feed:       httpHandlers.NewFeedHandler(feedService, purchaseService),
		Media:      httpHandlers.NewMediaHandler(mediaStorage),
		AI:         httpHandlers.NewAIHandler(aiClient, catalogService, hub),
		WS:         httpHandlers.NewWSHandler(hub, tokenManager, directory),
		Health:     httpHandlers.NewHealthHandler(kv, cfg.StoreKey),
		Seed:       httpHandlers.NewSeedHandler(seedService),
	}

	engine := httpRouter.SetupRouter(cfg, handlers, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// buildStore выбирает драйвер хранилища по конфигурации.
func buildStore(ctx context.Context, cfg *config.Config) (store.KeyValueStore, func(), error) {
	noop := func() {}

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		return store.NewMemoryStore(), noop, nil

	case config.StoreDriverFile:
		fs, err := store.NewFileStore(cfg.StoreFilePath)
		if err != nil {
			return nil, nil, err
		}
		return fs, noop, nil

	case config.StoreDriverRedis:
		rs, err := store.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() {
			if err := rs.Close(); err != nil {
				log.Printf("main: ошибка закрытия redis: %v", err)
			}
		}, nil

	case config.StoreDriverPostgres:
		ps, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return ps, func() {
			if err := ps.Close(); err != nil {
				log.Printf("main: ошибка закрытия базы: %v", err)
			}
		}, nil
	}

	return store.NewMemoryStore(), noop, nil
}
