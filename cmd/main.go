package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/cancel_booking"
	changeBookingStatusHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/change_booking_status"
	createBlackoutHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/create_blackout"
	createBookingHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/create_booking"
	deleteBlackoutHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/delete_blackout"
	getBookingHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_booking"
	healthHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/health"
	listBlackoutsHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/list_blackouts"
	listMyBookingsHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/list_my_bookings"
	listResourceUpcomingHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/list_resource_upcoming"
	listServiceItemsHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/list_service_items"
	"github.com/m04kA/SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SalonBookingService/internal/config"
	"github.com/m04kA/SalonBookingService/internal/domain"
	catalogCache "github.com/m04kA/SalonBookingService/internal/infra/cache/catalog"
	blackoutRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/blackout"
	bookingRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/catalog"
	blackoutsService "github.com/m04kA/SalonBookingService/internal/service/blackouts"
	bookingsService "github.com/m04kA/SalonBookingService/internal/service/bookings"
	createBookingUC "github.com/m04kA/SalonBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/logger"
	"github.com/m04kA/SalonBookingService/pkg/metrics"
	"github.com/m04kA/SalonBookingService/pkg/txmanager"
)

func main() {
	configPath := os.Getenv("SALON_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SalonBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Failed to load facility timezone: %v", err)
	}
	log.Info("Facility timezone: %s", location)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка просто проксирует вызовы
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	blackoutRepository := blackoutRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Каталог услуг для отображения: через Redis, если включен.
	// Создание бронирования всегда читает каталог из БД внутри своей транзакции.
	var catalog listServiceItemsHandler.ServiceCatalog = catalogRepository
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis is unavailable, catalog cache disabled: %v", err)
		} else {
			catalog = catalogCache.NewCache(
				redisClient,
				catalogRepository,
				time.Duration(cfg.Redis.CatalogTTL)*time.Second,
				log,
			)
			log.Info("Catalog cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.CatalogTTL)
		}
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, location, log)
	blackoutSvc := blackoutsService.NewService(blackoutRepository, bookingRepository, txMgr, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		blackoutRepository,
		catalogRepository,
		txMgr,
		metricsCollector,
		location,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	changeBookingStatus := changeBookingStatusHandler.NewHandler(bookingSvc, log)
	listMyBookings := listMyBookingsHandler.NewHandler(bookingSvc, log)
	listResourceUpcoming := listResourceUpcomingHandler.NewHandler(bookingSvc, log)
	listBlackouts := listBlackoutsHandler.NewHandler(blackoutSvc, log)
	createBlackout := createBlackoutHandler.NewHandler(blackoutSvc, log)
	deleteBlackout := deleteBlackoutHandler.NewHandler(blackoutSvc, log)
	listServiceItems := listServiceItemsHandler.NewHandler(catalog, log)
	health := healthHandler.NewHandler(wrappedDB, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Периоды недоступности мастеров
	api.HandleFunc("/blackouts", listBlackouts.Handle).Methods(http.MethodGet)

	// Каталог услуг
	api.HandleFunc("/service-items", listServiceItems.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer JWT)
	// ============================================================

	auth := middleware.Auth(cfg.Auth.JWTSecret, log)
	withRoles := func(h http.HandlerFunc, roles ...domain.Role) http.Handler {
		return auth(middleware.RequireRole(roles...)(h))
	}

	// --- Бронирования ---
	var createBookingRoute http.Handler = http.HandlerFunc(createBooking.Handle)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log)
		createBookingRoute = limiter.Middleware(createBookingRoute)
		log.Info("Booking creation rate limit: %.2f rps, burst %d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	api.Handle("/bookings", auth(middleware.RequireRole(domain.RoleClient)(createBookingRoute))).Methods(http.MethodPost)

	// Прошлые и предстоящие бронирования клиента или мастера
	api.Handle("/bookings", withRoles(listMyBookings.Handle, domain.RoleClient, domain.RoleDesigner)).Methods(http.MethodGet)

	// Получение бронирования по ID
	api.Handle("/bookings/{bookingId:[0-9]+}", withRoles(getBooking.Handle, domain.RoleClient, domain.RoleDesigner)).Methods(http.MethodGet)

	// Отмена бронирования клиентом
	api.Handle("/bookings/{bookingId:[0-9]+}/cancel", withRoles(cancelBooking.Handle, domain.RoleClient)).Methods(http.MethodPatch)

	// Смена статуса мастером
	api.Handle("/bookings/{bookingId:[0-9]+}/status", withRoles(changeBookingStatus.Handle, domain.RoleDesigner)).Methods(http.MethodPatch)

	// Публичный календарь мастера
	api.Handle("/resources/{resourceId:[0-9]+}/bookings/upcoming", auth(http.HandlerFunc(listResourceUpcoming.Handle))).Methods(http.MethodGet)

	// --- Управление периодами недоступности (для менеджеров) ---
	api.Handle("/blackouts", withRoles(createBlackout.Handle, domain.RoleManager)).Methods(http.MethodPost)
	api.Handle("/blackouts/{blackoutId:[0-9]+}", withRoles(deleteBlackout.Handle, domain.RoleManager)).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
