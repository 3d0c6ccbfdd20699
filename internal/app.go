package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	logger_adapter "analysis-service/internal/adapters/logger"
	postgres_adapter "analysis-service/internal/adapters/postgres"
	rabbitmq_adapter "analysis-service/internal/adapters/rabbitmq"
	"analysis-service/internal/adapters/rest"
	"analysis-service/internal/adapters/scheduler"
	"analysis-service/internal/configs"
	"analysis-service/internal/constants"
	"analysis-service/internal/core/port"
	"analysis-service/internal/core/usecase"

	fluentlogger "analysis-service/pkg/fluent_logger"
	"analysis-service/pkg/postgres"
	"analysis-service/pkg/rabbitmq/rabbitmq_common"
	"analysis-service/pkg/rabbitmq/rabbitmq_consumer"
	"analysis-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const analysisExchange = "analysis_exchange"

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	scrapedPropEventsListener port.EventListenerPort
	marketRefreshScheduler    *scheduler.MarketRefreshScheduler
	eventProducer             *rabbitmq_producer.Publisher
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName, // Используем имя приложения как префикс
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	// Создаем наш композитный логгер
	multiLogger := logger_adapter.NewMultiLoggerAdapter(activeLoggers...)

	// --- 2. СОЗДАЕМ БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. ИНИЦИАЛИЗАЦИЯ НИЗКОУРОВНЕВЫХ ЗАВИСИМОСТЕЙ ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Postgres.DatabaseURL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	propertyStorageAdapter, err := postgres_adapter.NewPropertyStorageAdapter(dbPool)
	if err != nil {
		appLogger.Error("Failed to create property storage adapter", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create property storage adapter: %w", err)
	}

	marketStorageAdapter, err := postgres_adapter.NewMarketStorageAdapter(dbPool)
	if err != nil {
		appLogger.Error("Failed to create market storage adapter", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create market storage adapter: %w", err)
	}

	marketStatsAdapter, err := postgres_adapter.NewMarketStatsAdapter(dbPool)
	if err != nil {
		appLogger.Error("Failed to create market stats adapter", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create market stats adapter: %w", err)
	}

	appLogger.Info("Postgres adapters initialized.", nil)

	producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
	pkgLoggerBridge := rabbitmq_adapter.NewPkgLoggerBridge(producerLogger)

	connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger)
	connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, connManagerBridge)
	if err != nil {
		appLogger.Error("Failed to create connection manager", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerCfg := rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             analysisExchange,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,

		Logger: pkgLoggerBridge,
	}
	eventProducer, err := rabbitmq_producer.NewPublisher(producerCfg, connManager)
	if err != nil {
		appLogger.Error("Failed to create event producer", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	appLogger.Info("RabbitMQ Event Producer initialized.", nil)

	propertySavedPublisher, err := rabbitmq_adapter.NewPropertySavedPublisherAdapter(eventProducer, constants.RoutingKeyPropertySaved)
	if err != nil {
		appLogger.Error("Failed to create property saved publisher", err, nil)
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("All outgoing adapters initialized.", nil)

	// --- 4. ИНИЦИАЛИЗАЦИЯ USE CASES (ядра бизнес-логики) ---
	savePropertyUseCase := usecase.NewSavePropertyUseCase(propertyStorageAdapter, propertySavedPublisher)
	analyzePropertyUseCase := usecase.NewAnalyzePropertyUseCase(propertyStorageAdapter, marketStorageAdapter)
	getPropertiesUseCase := usecase.NewGetPropertiesUseCase(propertyStorageAdapter)
	getPropertyByIDUseCase := usecase.NewGetPropertyByIDUseCase(propertyStorageAdapter)
	aggregateMarketUseCase := usecase.NewAggregateMarketUseCase(marketStorageAdapter, marketStatsAdapter)
	topMarketsUseCase := usecase.NewTopMarketsUseCase(marketStatsAdapter)
	compareMarketsUseCase := usecase.NewCompareMarketsUseCase(marketStatsAdapter)
	refreshMarketsUseCase := usecase.NewRefreshMarketsUseCase(marketStorageAdapter)

	appLogger.Info("All use cases initialized.", nil)

	// --- 5. ИНИЦИАЛИЗАЦИЯ ВХОДЯЩИХ АДАПТЕРОВ ---
	scrapedConsumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:              rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:           constants.QueueScrapedProperties,
		DurableQueue:        true,
		ExchangeNameForBind: analysisExchange,
		RoutingKeyForBind:   constants.RoutingKeyScrapedProperties,
		PrefetchCount:       1,
		ConsumerTag:         "property-saver-adapter",
		DeclareQueue:        true,

		EnableRetryMechanism: true,

		// Уникальные "сателлиты" для этой очереди
		RetryExchange: constants.QueueScrapedProperties + "_retry_ex",
		RetryQueue:    constants.QueueScrapedProperties + "_retry_wait_10s",
		RetryTTL:      10000, // 10 секунд в миллисекундах

		FinalDLXExchange:   constants.FinalDLXExchange,
		FinalDLQ:           constants.FinalDLQ,
		FinalDLQRoutingKey: constants.FinalDLQRoutingKey,

		MaxRetries: 3,
	}
	scrapedPropListener, err := rabbitmq_adapter.NewScrapedPropertyConsumerAdapter(scrapedConsumerCfg, savePropertyUseCase, baseLogger, connManager)
	if err != nil {
		appLogger.Error("Failed to create Scraped Property listener", err, nil)
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("Scraped Property Events Listener initialized.", nil)

	schedulerLogger := baseLogger.WithFields(port.Fields{"component": "scheduler"})
	refreshScheduler, err := scheduler.NewMarketRefreshScheduler(
		refreshMarketsUseCase,
		schedulerLogger,
		time.Duration(appConfig.Scheduler.RefreshIntervalHours)*time.Hour,
	)
	if err != nil {
		appLogger.Error("Failed to create market refresh scheduler", err, nil)
		dbPool.Close()
		return nil, err
	}
	appLogger.Info("Market Refresh Scheduler initialized.", nil)

	// REST API Server
	propertyHandlers := rest.NewPropertyHandler(getPropertiesUseCase, getPropertyByIDUseCase)
	analysisHandlers := rest.NewAnalysisHandler(analyzePropertyUseCase)
	marketHandlers := rest.NewMarketHandler(aggregateMarketUseCase, topMarketsUseCase, compareMarketsUseCase)

	apiServer := rest.NewServer(appConfig.Rest.PORT, propertyHandlers, analysisHandlers, marketHandlers, appConfig.Rest.AllowedOrigins, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	// --- 6. СОБИРАЕМ ПРИЛОЖЕНИЕ ---
	application := &App{
		config:                    appConfig,
		dbPool:                    dbPool,
		apiServer:                 apiServer,
		scrapedPropEventsListener: scrapedPropListener,
		marketRefreshScheduler:    refreshScheduler,
		eventProducer:             eventProducer,

		fluentClient: fluentClient,
		logger:       appLogger,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Создаем единый контекст для всего приложения для управления graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())

	// Используем WaitGroup для ожидания завершения всех фоновых задач
	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		// Ждем завершения всех запущенных горутин (слушателей)
		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		// Теперь безопасно закрываем ресурсы
		if a.scrapedPropEventsListener != nil {
			if err := a.scrapedPropEventsListener.Close(); err != nil {
				a.logger.Error("Error closing scraped properties listener", err, nil)
			}
		}

		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}

	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)

	// Функция-хелпер для запуска слушателей
	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": name})
		listenerLogger.Info("Starting listener...", nil)

		if err := listener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("%s error: %w", name, err)
		} else {
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}

	wg.Add(1)
	go startListener("Scraped Property Events Listener", a.scrapedPropEventsListener)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.marketRefreshScheduler.Start(appCtx); err != nil {
			errorsCh <- fmt.Errorf("market refresh scheduler error: %w", err)
		}
	}()

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Возвращаем безопасное значение по умолчанию и логируем предупреждение
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
