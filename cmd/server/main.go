package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/skillbridge-backend/internal/config"
	"github.com/ignatzorin/skillbridge-backend/internal/db"
	"github.com/ignatzorin/skillbridge-backend/internal/goroutine"
	httpRouter "github.com/ignatzorin/skillbridge-backend/internal/http/router"
	"github.com/ignatzorin/skillbridge-backend/internal/http/middleware"
	"github.com/ignatzorin/skillbridge-backend/internal/infrastructure/gateway"
	"github.com/ignatzorin/skillbridge-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/skillbridge-backend/internal/interface/http/handler"
	"github.com/ignatzorin/skillbridge-backend/internal/logger"
	"github.com/ignatzorin/skillbridge-backend/internal/service"
	"github.com/ignatzorin/skillbridge-backend/internal/usecase/follow"
	"github.com/ignatzorin/skillbridge-backend/internal/usecase/request"
	"github.com/ignatzorin/skillbridge-backend/internal/usecase/settlement"
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
	appLog := logger.WithComponent("main")

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPool)
	if err != nil {
		appLog.Fatalf("ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	applied, err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath)
	if err != nil {
		appLog.Fatalf("ошибка миграций: %v", err)
	}
	if len(applied) > 0 {
		appLog.WithField("migrations", applied).Info("применены миграции")
	}

	// Redis нужен только для общего счётчика rate limit.
	var redisClient redis.UniversalClient
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			appLog.Fatalf("некорректный REDIS_URL: %v", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		redisClient = client
	}
	limitStore, err := middleware.NewRateLimitStore(redisClient)
	if err != nil {
		appLog.Fatalf("ошибка настройки rate limit: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	paymentGateway := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.KeyID, cfg.Gateway.KeySecret, cfg.Gateway.Timeout)

	// Репозитории.
	userRepo := persistence.NewUserRepositoryAdapter(dbConn)
	requestRepo := persistence.NewRequestRepositoryAdapter(dbConn, cfg.TxMaxRetries)
	txRepo := persistence.NewTransactionRepositoryAdapter(dbConn, cfg.TxMaxRetries)
	followRepo := persistence.NewFollowRepositoryAdapter(dbConn, cfg.TxMaxRetries)

	// HTTP хэндлеры.
	requestHandler := handler.NewRequestHandler(
		request.NewCreateRequestUseCase(requestRepo, userRepo),
		request.NewTransitionRequestUseCase(requestRepo),
		request.NewListRequestsUseCase(requestRepo, userRepo),
		request.NewCheckPendingUseCase(requestRepo),
	)
	paymentHandler := handler.NewPaymentHandler(
		settlement.NewCreateOrderUseCase(txRepo, requestRepo, paymentGateway, cfg.Gateway.Currency),
		settlement.NewVerifyPaymentUseCase(txRepo, paymentGateway),
		settlement.NewMarkFailedUseCase(txRepo),
		settlement.NewListTransactionsUseCase(txRepo),
	)
	followHandler := handler.NewFollowHandler(
		follow.NewToggleFollowUseCase(followRepo),
		follow.NewListFollowsUseCase(userRepo, followRepo),
	)
	healthHandler := handler.NewHealthHandler(dbConn, redisClient)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Requests: requestHandler,
		Payments: paymentHandler,
		Follows:  followHandler,
		Health:   healthHandler,
	}, tokenManager, limitStore)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGoWithContext(ctx, "shutdown", func(ctx context.Context) {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("ошибка остановки http сервера")
		}
	})

	appLog.Infof("HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLog.Fatalf("сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.L().WithError(err).Error("ошибка закрытия базы")
	}
}
