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

	cancelAppointmentHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/create_appointment"
	createDayOffHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/create_day_off"
	finishWorkdayHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/finish_workday"
	getAppointmentHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/get_available_slots"
	getClientAppointmentsHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/get_client_appointments"
	getEmployeeEarningsHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/get_employee_earnings"
	getMerchantAppointmentsHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/get_merchant_appointments"
	getMerchantScheduleHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/get_merchant_schedule"
	getServicePriceHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/get_service_price"
	rescheduleAppointmentHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/update_appointment_status"
	updateMerchantScheduleHandler "github.com/m04kA/SBP-SchedulingService/internal/api/handlers/update_merchant_schedule"
	"github.com/m04kA/SBP-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SBP-SchedulingService/internal/config"
	appointmentRepo "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/catalog"
	employeeRepo "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/employee"
	merchantRepo "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/merchant"
	penaltyRepo "github.com/m04kA/SBP-SchedulingService/internal/infra/storage/penalty"
	clientServiceClient "github.com/m04kA/SBP-SchedulingService/internal/integrations/clientservice"
	appointmentsService "github.com/m04kA/SBP-SchedulingService/internal/service/appointments"
	payrollService "github.com/m04kA/SBP-SchedulingService/internal/service/payroll"
	pricingService "github.com/m04kA/SBP-SchedulingService/internal/service/pricing"
	scheduleService "github.com/m04kA/SBP-SchedulingService/internal/service/schedule"
	cancelAppointmentUC "github.com/m04kA/SBP-SchedulingService/internal/usecase/cancel_appointment"
	createAppointmentUC "github.com/m04kA/SBP-SchedulingService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SBP-SchedulingService/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/m04kA/SBP-SchedulingService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SBP-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SBP-SchedulingService/pkg/logger"
	"github.com/m04kA/SBP-SchedulingService/pkg/metrics"
	"github.com/m04kA/SBP-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/SBP-SchedulingService/pkg/txmanager"
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

	log.Info("Starting SBP-SchedulingService...")
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

	// Инициализируем клиента сервиса аккаунтов
	clientClient := clientServiceClient.NewClient(
		cfg.ClientService.URL,
		time.Duration(cfg.ClientService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (ClientService=%s timeout=%ds)",
		cfg.ClientService.URL, cfg.ClientService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		employeeRepository    *employeeRepo.Repository
		merchantRepository    *merchantRepo.Repository
		catalogRepository     *catalogRepo.Repository
		penaltyRepository     *penaltyRepo.Repository
	)

	// Интерфейс transaction manager, общий для обеих реализаций
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		employeeRepository = employeeRepo.NewRepository(wrappedDB)
		merchantRepository = merchantRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		penaltyRepository = penaltyRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB).WithAttempts(cfg.Engine.ReservationRetryAttempts)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		employeeRepository = employeeRepo.NewRepository(db)
		merchantRepository = merchantRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		penaltyRepository = penaltyRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db).WithAttempts(cfg.Engine.ReservationRetryAttempts)
	}

	// Метрики бронирований и штрафов только при включённых метриках
	var reservationMetrics createAppointmentUC.MetricsRecorder
	var penaltyMetrics cancelAppointmentUC.MetricsRecorder
	if cfg.Metrics.Enabled {
		reservationMetrics = metricsCollector
		penaltyMetrics = metricsCollector
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		merchantRepository,
		log,
	)
	payrollSvc := payrollService.NewService(
		employeeRepository,
		merchantRepository,
		appointmentRepository,
		log,
	)
	pricingSvc := pricingService.NewService(
		catalogRepository,
		merchantRepository,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		merchantRepository,
		employeeRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		employeeRepository,
		merchantRepository,
		catalogRepository,
		appointmentRepository,
		cfg.Engine.SlotGranularityMinutes,
		cfg.Engine.MinNoticeMinutes,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		employeeRepository,
		merchantRepository,
		catalogRepository,
		clientClient,
		txMgr,
		reservationMetrics,
		cfg.Engine.MinNoticeMinutes,
		log,
	)
	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(
		appointmentRepository,
		merchantRepository,
		penaltyRepository,
		txMgr,
		penaltyMetrics,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		employeeRepository,
		merchantRepository,
		txMgr,
		cfg.Engine.MinNoticeMinutes,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getMerchantAppointments := getMerchantAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getServicePrice := getServicePriceHandler.NewHandler(pricingSvc, log)
	getMerchantSchedule := getMerchantScheduleHandler.NewHandler(scheduleSvc, log)
	updateMerchantSchedule := updateMerchantScheduleHandler.NewHandler(scheduleSvc, log)
	createDayOff := createDayOffHandler.NewHandler(scheduleSvc, log)
	getEmployeeEarnings := getEmployeeEarningsHandler.NewHandler(payrollSvc, log)
	finishWorkday := finishWorkdayHandler.NewHandler(payrollSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты сотрудника
	api.HandleFunc("/employees/{employeeId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Цена услуги с учётом акций
	api.HandleFunc("/services/{serviceId}/price",
		getServicePrice.Handle).Methods(http.MethodGet)

	// Расписание салона
	api.HandleFunc("/merchants/{merchantId}/schedule",
		getMerchantSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Actor-ID / X-Actor-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// История клиента и журнал мерчанта
	protected.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/merchants/{merchantId}/appointments", getMerchantAppointments.Handle).Methods(http.MethodGet)

	// --- Управление салоном ---
	protected.HandleFunc("/merchants/{merchantId}/schedule", updateMerchantSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/employees/{employeeId}/days-off", createDayOff.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/employees/{employeeId}/earnings", getEmployeeEarnings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/employees/{employeeId}/finish-workday", finishWorkday.Handle).Methods(http.MethodPost)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

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
