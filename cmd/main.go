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

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	advanceStepHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/advance_step"
	createSessionHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/create_session"
	demoCheckoutHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/demo_checkout"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_booking"
	getSessionHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/get_session"
	goBackHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/go_back"
	paymentCallbackHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/payment_callback"
	retryStepHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/retry_step"
	selectSlotHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/select_slot"
	updateFieldsHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/update_fields"
	validateFieldHandler "github.com/m04kA/SMC-ConsultationService/internal/api/handlers/validate_field"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/api/ws"
	"github.com/m04kA/SMC-ConsultationService/internal/availability"
	"github.com/m04kA/SMC-ConsultationService/internal/config"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
	bookingDocRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/bookingdoc"
	sessionStore "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/checkout"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notify"
	"github.com/m04kA/SMC-ConsultationService/internal/payment"
	bookingsService "github.com/m04kA/SMC-ConsultationService/internal/service/bookings"
	sessionsService "github.com/m04kA/SMC-ConsultationService/internal/service/sessions"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
)

// bookingStorage хранилище подтвержденных бронирований (postgres или mongo)
type bookingStorage interface {
	Save(ctx context.Context, record *domain.BookingRecord) error
	GetByID(ctx context.Context, bookingID string) (*domain.BookingRecord, error)
}

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

	log.Info("Starting SMC-ConsultationService...")
	log.Info("Configuration loaded from config.toml")

	// Фоновые задачи (очистка сессий, лимитера, метрик пула) живут до завершения
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	stopCh := make(chan struct{})

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище бронирований
	var (
		bookings    bookingStorage
		closeDB     func()
		redisClient *redis.Client
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverMongo:
		client, err := bookingDocRepo.Connect(bgCtx, cfg.Mongo.URI, time.Duration(cfg.Mongo.Timeout)*time.Second)
		if err != nil {
			log.Fatal("Failed to connect to mongo: %v", err)
		}
		closeDB = func() { disconnectMongo(client, log) }
		bookings = bookingDocRepo.NewRepository(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
		log.Info("Successfully connected to mongo (db=%s, collection=%s)", cfg.Mongo.Database, cfg.Mongo.Collection)

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		closeDB = func() { _ = db.Close() }

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if cfg.Metrics.Enabled {
			bookings = bookingRepo.NewRepository(dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopCh))
			log.Info("Database metrics collection started")
		} else {
			bookings = bookingRepo.NewRepository(db)
		}
	}
	defer closeDB()

	// Redis нужен для сессий и для очереди уведомлений
	if cfg.Sessions.Store == config.SessionStoreRedis || cfg.Queue.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(bgCtx).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		log.Info("Successfully connected to redis (addr=%s)", cfg.Redis.Addr)
	}

	// Хранилище сессий
	sessionTTL := time.Duration(cfg.Sessions.TTLMinutes) * time.Minute
	var sessions sessionsService.SessionStore
	if cfg.Sessions.Store == config.SessionStoreRedis {
		sessions = sessionStore.NewRedisStore(redisClient, sessionTTL)
	} else {
		memory := sessionStore.NewMemoryStore(sessionTTL)
		go memory.RunCleanup(bgCtx, time.Minute)
		sessions = memory
	}
	log.Info("Session store: %s (ttl=%s)", cfg.Sessions.Store, sessionTTL)

	// Уведомления
	sender, err := newEmailSender(bgCtx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize email sender: %v", err)
	}
	emailNotifier := notify.NewNotifier(sender, log)

	var (
		bookingNotifier payment.Notifier = emailNotifier
		worker          *notify.Worker
	)
	if cfg.Queue.Enabled {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		queueClient := asynq.NewClient(redisOpt)
		defer queueClient.Close()

		bookingNotifier = notify.NewQueueNotifier(queueClient, cfg.Queue.MaxRetry, log)

		worker = notify.NewWorker(redisOpt, cfg.Queue.Concurrency, emailNotifier, log)
		if err := worker.Start(); err != nil {
			log.Fatal("Failed to start notification worker: %v", err)
		}
		log.Info("Notification queue enabled (concurrency=%d, max_retry=%d)", cfg.Queue.Concurrency, cfg.Queue.MaxRetry)
	}
	log.Info("Notification driver: %s", cfg.Notify.Driver)

	// Оплата
	paymentCfg := payment.DefaultConfig()
	paymentCfg.Merchant = cfg.Payment.MerchantName
	paymentCfg.NotifyTimeout = time.Duration(cfg.Notify.TimeoutSeconds) * time.Second

	checkoutClient := checkout.NewDemoClient(cfg.Payment.PublicBaseURL, log)
	payments := payment.NewHandler(paymentCfg, checkoutClient, bookings, bookingNotifier, nil, nil, log)

	// Мастер бронирования
	slots := availability.NewGenerator(cfg.Availability.HorizonDays)
	controller := wizard.NewController(
		slots,
		payments,
		time.Duration(cfg.Payment.TimeoutMinutes)*time.Minute,
		nil,
		log,
	)

	hub := ws.NewHub(log)
	go hub.Run(bgCtx)

	var sessionMetrics sessionsService.MetricsRecorder
	if metricsCollector != nil {
		sessionMetrics = metricsCollector
	}

	sessionSvc := sessionsService.NewService(sessions, controller, slots, hub, sessionMetrics, nil, log)
	bookingSvc := bookingsService.NewService(bookings, log)

	// Инициализируем handlers
	createSession := createSessionHandler.NewHandler(sessionSvc, log)
	getSession := getSessionHandler.NewHandler(sessionSvc, log)
	updateFields := updateFieldsHandler.NewHandler(sessionSvc, log)
	validateField := validateFieldHandler.NewHandler(sessionSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(sessionSvc, log)
	selectSlot := selectSlotHandler.NewHandler(sessionSvc, log)
	advanceStep := advanceStepHandler.NewHandler(sessionSvc, log)
	goBack := goBackHandler.NewHandler(sessionSvc, log)
	retryStep := retryStepHandler.NewHandler(sessionSvc, log)
	paymentCallback := paymentCallbackHandler.NewHandler(sessionSvc, log)
	demoCheckout := demoCheckoutHandler.NewHandler(sessionSvc, cfg.Payment.MerchantName, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	sessionEvents := ws.NewHandler(hub, sessionSvc, nil, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter, err := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TrustedProxies, log)
		if err != nil {
			log.Fatal("Failed to configure rate limiter: %v", err)
		}
		go limiter.RunCleanup(time.Minute, stopCh)
		api.Use(limiter.Middleware())
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d, trusted_proxies=%d)",
			cfg.RateLimit.RPS, cfg.RateLimit.Burst, len(cfg.RateLimit.TrustedProxies))
	}

	// --- Сессии мастера ---
	api.HandleFunc("/sessions", createSession.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}", getSession.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}/fields", updateFields.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/sessions/{sessionId}/fields/{field}/validate", validateField.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}/slot", selectSlot.Handle).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionId}/advance", advanceStep.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/back", goBack.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/retry", retryStep.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/events", sessionEvents.Handle).Methods(http.MethodGet)

	// --- Оплата ---
	api.HandleFunc("/payments/callback", paymentCallback.Handle).Methods(http.MethodPost)
	api.HandleFunc("/payments/demo/{sessionId}", demoCheckout.Page).Methods(http.MethodGet)
	api.HandleFunc("/payments/demo/{sessionId}", demoCheckout.Complete).Methods(http.MethodPost)

	// --- Подтверждение ---
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем таймеры оплаты и дожидаемся отправки уведомлений
	sessionSvc.Close()
	payments.Wait()
	if worker != nil {
		worker.Shutdown()
	}

	close(stopCh)
	stopBackground()

	log.Info("Server stopped gracefully")
}

// newEmailSender выбирает отправителя писем по notify.driver
func newEmailSender(ctx context.Context, cfg *config.Config, log *logger.Logger) (notify.EmailSender, error) {
	switch cfg.Notify.Driver {
	case config.NotifyDriverSendGrid:
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGrid.APIKey,
			FromEmail: cfg.Notify.FromEmail,
			FromName:  cfg.Notify.FromName,
		}, log), nil

	case config.NotifyDriverSES:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.SES.Region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), cfg.Notify.FromEmail, cfg.Notify.FromName, log), nil

	default:
		return notify.NewStubEmailSender(log), nil
	}
}

func disconnectMongo(client *mongo.Client, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error("Failed to disconnect from mongo: %v", err)
	}
}
