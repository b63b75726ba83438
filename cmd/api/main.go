package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/healthdesk/clinic-api/internal/config"
	"github.com/healthdesk/clinic-api/internal/handler"
	analyticsHandler "github.com/healthdesk/clinic-api/internal/handler/analytics"
	appointmentHandler "github.com/healthdesk/clinic-api/internal/handler/appointment"
	authHandler "github.com/healthdesk/clinic-api/internal/handler/auth"
	doctorHandler "github.com/healthdesk/clinic-api/internal/handler/doctor"
	healthHandler "github.com/healthdesk/clinic-api/internal/handler/health"
	medicalRecordHandler "github.com/healthdesk/clinic-api/internal/handler/medicalrecord"
	patientHandler "github.com/healthdesk/clinic-api/internal/handler/patient"
	paymentHandler "github.com/healthdesk/clinic-api/internal/handler/payment"
	requisitionHandler "github.com/healthdesk/clinic-api/internal/handler/requisition"
	slotHandler "github.com/healthdesk/clinic-api/internal/handler/slot"
	"github.com/healthdesk/clinic-api/internal/middleware"
	"github.com/healthdesk/clinic-api/internal/repository/postgres"
	"github.com/healthdesk/clinic-api/internal/router"
	analyticsService "github.com/healthdesk/clinic-api/internal/service/analytics"
	authService "github.com/healthdesk/clinic-api/internal/service/auth"
	doctorService "github.com/healthdesk/clinic-api/internal/service/doctor"
	medicalService "github.com/healthdesk/clinic-api/internal/service/medical"
	patientService "github.com/healthdesk/clinic-api/internal/service/patient"
	paymentService "github.com/healthdesk/clinic-api/internal/service/payment"
	requisitionService "github.com/healthdesk/clinic-api/internal/service/requisition"
	schedulingService "github.com/healthdesk/clinic-api/internal/service/scheduling"
	"github.com/healthdesk/clinic-api/pkg/auth"
	"github.com/healthdesk/clinic-api/pkg/messaging/redis"
	"github.com/healthdesk/clinic-api/pkg/metrics"
	"github.com/healthdesk/clinic-api/pkg/worker"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	storeRouter, err := openStores(cfg.Stores)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to stores")
	}
	defer storeRouter.Close()

	privateKey, err := cfg.JWT.PrivateKey()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load signing key")
	}
	jwtSvc := auth.NewJWTService(privateKey)
	m := metrics.NewMetrics("clinic_api")

	// Repositories
	slotRepo := postgres.NewSlotRepository(storeRouter)
	appointmentRepo := postgres.NewAppointmentRepository(storeRouter)
	recordRepo := postgres.NewMedicalRecordRepository(storeRouter)
	paymentRepo := postgres.NewPaymentRepository(storeRouter)
	requisitionRepo := postgres.NewRequisitionRepository(storeRouter)
	doctorRepo := postgres.NewDoctorRepository(storeRouter)
	patientRepo := postgres.NewPatientRepository(storeRouter)
	userRepo := postgres.NewUserRepository(storeRouter)
	outboxRepo := postgres.NewOutboxRepository(storeRouter)
	analyticsRepo := postgres.NewAnalyticsRepository(storeRouter)
	coordinator := postgres.NewCoordinator(storeRouter, m)

	// Services
	schedulingSvc := schedulingService.NewService(slotRepo, appointmentRepo, doctorRepo, coordinator)
	medicalSvc := medicalService.NewService(recordRepo, coordinator)
	paymentSvc := paymentService.NewService(paymentRepo, recordRepo)
	requisitionSvc := requisitionService.NewService(requisitionRepo, recordRepo)
	doctorSvc := doctorService.NewService(doctorRepo, coordinator)
	patientSvc := patientService.NewService(patientRepo)
	authSvc := authService.NewService(userRepo, doctorRepo, patientRepo, coordinator, jwtSvc)
	analyticsSvc := analyticsService.NewService(analyticsRepo)

	handler.RegisterValidations()
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	public := []router.RouteRegistrar{
		healthHandler.NewHandler(storeRouter.Admin()),
		authHandler.NewHandler(authSvc, cfg.Server.CookieDomain),
	}
	protected := []router.RouteRegistrar{
		slotHandler.NewHandler(schedulingSvc),
		appointmentHandler.NewHandler(schedulingSvc),
		medicalRecordHandler.NewHandler(medicalSvc),
		paymentHandler.NewHandler(paymentSvc),
		requisitionHandler.NewHandler(requisitionSvc),
		doctorHandler.NewHandler(doctorSvc),
		patientHandler.NewHandler(patientSvc),
		analyticsHandler.NewHandler(analyticsSvc),
	}

	r := router.New(authMiddleware, m, router.Config{
		RateLimit:      rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:      cfg.RateLimit.Burst,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORS:           middleware.DefaultCORSConfig(cfg.CORS.AllowOrigins),
	}, public, protected)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Outbox worker publishes committed events; the API serves without it
	// when Redis is not configured.
	if cfg.Redis.URL != "" {
		broker, err := redis.NewBroker(redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   3,
			RetryBackoff: 100 * time.Millisecond,
			PoolSize:     10,
			MinIdleConns: 2,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer broker.Close()

		processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
			BatchSize:    cfg.Outbox.BatchSize,
			PollInterval: cfg.Outbox.PollInterval,
		}, m)
		go processor.Start(ctx)
	} else {
		log.Warn().Msg("redis not configured, outbox events will not be published")
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Handler(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		os.Exit(1)
	}
}

func openStores(stores config.StoresConfig) (*postgres.StoreRouter, error) {
	fallback, err := postgres.NewDB(stores.Default)
	if err != nil {
		return nil, fmt.Errorf("default store: %w", err)
	}
	admin, err := postgres.NewDB(stores.Admin)
	if err != nil {
		return nil, fmt.Errorf("admin store: %w", err)
	}
	doctor, err := postgres.NewDB(stores.Doctor)
	if err != nil {
		return nil, fmt.Errorf("doctor store: %w", err)
	}
	patient, err := postgres.NewDB(stores.Patient)
	if err != nil {
		return nil, fmt.Errorf("patient store: %w", err)
	}
	return postgres.NewStoreRouter(fallback, admin, doctor, patient), nil
}
