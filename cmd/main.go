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

	bookingSessionHandler "github.com/m04kA/CRM-SchedulingService/internal/api/handlers/booking_session"
	cancelAppointmentHandler "github.com/m04kA/CRM-SchedulingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/CRM-SchedulingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/CRM-SchedulingService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/CRM-SchedulingService/internal/api/handlers/get_availability"
	getCalendarConfigHandler "github.com/m04kA/CRM-SchedulingService/internal/api/handlers/get_calendar_config"
	getEmbedConfigHandler "github.com/m04kA/CRM-SchedulingService/internal/api/handlers/get_embed_config"
	updateCalendarConfigHandler "github.com/m04kA/CRM-SchedulingService/internal/api/handlers/update_calendar_config"
	"github.com/m04kA/CRM-SchedulingService/internal/api/middleware"
	"github.com/m04kA/CRM-SchedulingService/internal/config"
	appointmentRepo "github.com/m04kA/CRM-SchedulingService/internal/infra/storage/appointment"
	calendarRepo "github.com/m04kA/CRM-SchedulingService/internal/infra/storage/calendar"
	crmCoreClient "github.com/m04kA/CRM-SchedulingService/internal/integrations/crmcore"
	appointmentsService "github.com/m04kA/CRM-SchedulingService/internal/service/appointments"
	calendarCfgService "github.com/m04kA/CRM-SchedulingService/internal/service/calendarcfg"
	embedConfigService "github.com/m04kA/CRM-SchedulingService/internal/service/embedconfig"
	"github.com/m04kA/CRM-SchedulingService/internal/session"
	bookingFlowUC "github.com/m04kA/CRM-SchedulingService/internal/usecase/booking_flow"
	getAvailabilityUC "github.com/m04kA/CRM-SchedulingService/internal/usecase/get_availability"
	reserveSlotUC "github.com/m04kA/CRM-SchedulingService/internal/usecase/reserve_slot"
	"github.com/m04kA/CRM-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/CRM-SchedulingService/pkg/logger"
	"github.com/m04kA/CRM-SchedulingService/pkg/metrics"
	"github.com/m04kA/CRM-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/CRM-SchedulingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting CRM-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем клиента ядра CRM (если интеграция включена)
	var crmClient *crmCoreClient.Client
	if cfg.CRMCore.Enabled {
		crmClient = crmCoreClient.NewClient(
			cfg.CRMCore.URL,
			time.Duration(cfg.CRMCore.Timeout)*time.Second,
			log,
		)
		log.Info("CRM core client initialized (url=%s, timeout=%ds)", cfg.CRMCore.URL, cfg.CRMCore.Timeout)
	} else {
		log.Info("CRM core integration disabled, events will not be published")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		calendarRepository    *calendarRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		calendarRepository = calendarRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		calendarRepository = calendarRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Менеджер сессий визарда бронирования
	sessionManager := session.NewManager(
		time.Duration(cfg.Booking.SessionTTLMinutes)*time.Minute,
		log,
	)
	sessionManager.Start()
	defer sessionManager.Stop()

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		appointmentRepository,
		calendarRepository,
		cfg.Booking.MaxRangeDays,
		log,
	)

	var confirmedPublisher reserveSlotUC.EventPublisher
	var cancelledPublisher appointmentsService.EventPublisher
	if crmClient != nil {
		confirmedPublisher = crmClient
		cancelledPublisher = crmClient
	}

	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		appointmentRepository,
		calendarRepository,
		txMgr,
		confirmedPublisher,
		time.Duration(cfg.Booking.ReserveTimeoutSeconds)*time.Second,
		cfg.Booking.PhoneRegion,
		log,
	)

	bookingFlowUseCase := bookingFlowUC.NewUseCase(
		sessionManager,
		getAvailabilityUseCase,
		reserveSlotUseCase,
		calendarRepository,
		log,
	)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		calendarRepository,
		cancelledPublisher,
		log,
	)
	embedConfigSvc := embedConfigService.NewService(
		calendarRepository,
		cfg.Server.PublicBaseURL,
		log,
	)
	calendarConfigSvc := calendarCfgService.NewService(
		calendarRepository,
		log,
	)

	// Инициализируем handlers
	var reservationMetrics createAppointmentHandler.ReservationMetrics
	if metricsCollector != nil {
		reservationMetrics = metricsCollector
	}

	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(reserveSlotUseCase, reservationMetrics, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	getEmbedConfig := getEmbedConfigHandler.NewHandler(embedConfigSvc, log)
	bookingSession := bookingSessionHandler.NewHandler(bookingFlowUseCase, log)
	getCalendarConfig := getCalendarConfigHandler.NewHandler(calendarConfigSvc, log)
	updateCalendarConfig := updateCalendarConfigHandler.NewHandler(calendarConfigSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (виджет, без аутентификации)
	// ============================================================

	// Доступные слоты услуги за период
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение бронирования по публичному UUID
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPost)

	// Конфигурация для инициализации виджета
	api.HandleFunc("/embed-config", getEmbedConfig.Handle).Methods(http.MethodGet)

	// --- Пошаговый сценарий бронирования ---
	api.HandleFunc("/sessions", bookingSession.HandleStart).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}", bookingSession.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}/select-date", bookingSession.HandleSelectDate).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/select-slot", bookingSession.HandleSelectSlot).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/submit", bookingSession.HandleSubmit).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/back", bookingSession.HandleBack).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (администратор дашборда, X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Конфигурация календаря
	protected.HandleFunc("/calendar-config", getCalendarConfig.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/calendar-config", updateCalendarConfig.Handle).Methods(http.MethodPut)

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
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
