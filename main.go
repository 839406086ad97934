package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"astrobook/config"
	"astrobook/cron"
	"astrobook/database"
	"astrobook/database/lock"
	bookingRepo "astrobook/database/repository/booking"
	providerRepo "astrobook/database/repository/provider"
	"astrobook/handlers"
	"astrobook/middleware"
	"astrobook/routes"
	"astrobook/services/booking"
	"astrobook/services/notification"
	"astrobook/services/session"
	"astrobook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	rootCtx, stopAll := context.WithCancel(context.Background())
	defer stopAll()

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	var (
		bookings  bookingRepo.BookingRepository
		providers providerRepo.ProviderRepository
	)
	switch config.AppConfig.StorageDriver {
	case "memory":
		logger.Warn("main: using in-memory storage; data is lost on restart")
		bookings = bookingRepo.NewMemoryBookingRepo()
		providers = providerRepo.NewMemoryProviderRepo()
	default:
		if err := database.InitDB(logger); err != nil {
			logger.Fatal("main: database unavailable", zap.Error(err))
		}
		mongoBookings := bookingRepo.NewMongoBookingRepo()
		mongoProviders := providerRepo.NewMongoProviderRepo()
		idxCtx, cancel := context.WithTimeout(rootCtx, 30*time.Second)
		if err := mongoBookings.EnsureIndexes(idxCtx); err != nil {
			logger.Fatal("main: failed to create booking indexes", zap.Error(err))
		}
		if err := mongoProviders.EnsureIndexes(idxCtx); err != nil {
			logger.Fatal("main: failed to create provider indexes", zap.Error(err))
		}
		cancel()
		bookings, providers = mongoBookings, mongoProviders
	}

	// Redis backs distributed locks, the task queue and consultation credits.
	needRedis := config.AppConfig.LockDriver == "redis" || config.AppConfig.NotificationsEnabled
	var creditClient *redis.Client
	if needRedis {
		utils.InitRedis()
		creditClient = utils.GetCreditClient()
	}

	var locker lock.Locker = lock.NewLocalLocker()
	if config.AppConfig.LockDriver == "redis" {
		ttl := time.Duration(config.AppConfig.LockTTL) * time.Second
		locker = lock.NewRedisLocker(utils.GetLockClient(), ttl, logger)
	}

	// services.
	var (
		publisher notification.Publisher = notification.LogPublisher{Logger: logger}
		queue     *asynq.Client
		worker    *asynq.Server
	)
	if config.AppConfig.NotificationsEnabled {
		queue = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		})
		lead := time.Duration(config.AppConfig.ReminderLeadMinutes) * time.Minute
		publisher = notification.NewAsynqPublisher(queue, lead, logger)
	}

	engine := &booking.DefaultSchedulingEngine{
		Repo:            bookings,
		Providers:       providers,
		Locks:           locker,
		SessionLinks:    session.RoomLinks{BaseURL: config.AppConfig.SessionLinkBaseURL},
		Events:          publisher,
		Logger:          logger,
		DefaultTimeZone: config.AppConfig.DefaultTimeZone,
	}

	if config.AppConfig.NotificationsEnabled {
		fcm, err := utils.FirebaseMessaging(rootCtx)
		if err != nil {
			logger.Fatal("main: firebase messaging unavailable", zap.Error(err))
		}
		dispatcher := &notification.Dispatcher{Sender: &notification.FCMSender{Client: fcm}, Logger: logger}
		worker = cron.InitNotificationWorker(engine, dispatcher, logger)
	}

	// Consultations are metered only when a credit store is reachable.
	var meter session.Meter = unmetered{}
	if creditClient != nil {
		meter = session.NewRedisMeter(creditClient)
	}
	tick := time.Duration(config.AppConfig.SessionTickSeconds) * time.Second
	supervisor := session.NewSupervisor(meter, tick, logger)
	supervisor.OnEnd(func(s session.Session, reason session.EndReason) {
		logger.Info("main: consultation finished", zap.String("bookingId", s.BookingID), zap.String("reason", string(reason)))
	})

	utils.StartHealthMonitor(rootCtx, 30*time.Second, utils.RedisClients(), database.MongoClient)

	bookingHandler := handlers.NewBookingHandler(engine)
	handlerBundle := handlers.NewHandlerBundle(
		bookingHandler,
		handlers.NewAdminHandler(engine, providers),
		handlers.NewSessionHandler(bookingHandler, supervisor, rootCtx),
		handlers.NewPaymentHandler(engine, config.AppConfig.StripeWebhookSecret),
	)

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := supervisor.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: sessions did not stop in time: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queue != nil {
		_ = queue.Close()
	}
	stopAll()
	if err := database.CloseDB(ctx); err != nil {
		logger.Sugar().Errorf("main: failed to close database: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// unmetered lets consultations run to their booked end without charging.
type unmetered struct{}

func (unmetered) Charge(context.Context, string, int) (int64, error) { return 1, nil }
