package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carebooker/carebooker-api/internal/config"
	appointmentHandler "github.com/carebooker/carebooker-api/internal/handler/appointment"
	auditHandler "github.com/carebooker/carebooker-api/internal/handler/audit"
	authHandler "github.com/carebooker/carebooker-api/internal/handler/auth"
	billHandler "github.com/carebooker/carebooker-api/internal/handler/bill"
	doctorHandler "github.com/carebooker/carebooker-api/internal/handler/doctor"
	healthHandler "github.com/carebooker/carebooker-api/internal/handler/health"
	patientHandler "github.com/carebooker/carebooker-api/internal/handler/patient"
	ratingHandler "github.com/carebooker/carebooker-api/internal/handler/rating"
	recordHandler "github.com/carebooker/carebooker-api/internal/handler/record"
	"github.com/carebooker/carebooker-api/internal/middleware"
	"github.com/carebooker/carebooker-api/internal/repository/postgres"
	"github.com/carebooker/carebooker-api/internal/router"
	appointmentService "github.com/carebooker/carebooker-api/internal/service/appointment"
	auditService "github.com/carebooker/carebooker-api/internal/service/audit"
	authService "github.com/carebooker/carebooker-api/internal/service/auth"
	billService "github.com/carebooker/carebooker-api/internal/service/bill"
	bookingService "github.com/carebooker/carebooker-api/internal/service/booking"
	doctorService "github.com/carebooker/carebooker-api/internal/service/doctor"
	patientService "github.com/carebooker/carebooker-api/internal/service/patient"
	ratingService "github.com/carebooker/carebooker-api/internal/service/rating"
	recordService "github.com/carebooker/carebooker-api/internal/service/record"
	"github.com/carebooker/carebooker-api/pkg/auth"
	"github.com/carebooker/carebooker-api/pkg/metrics"
	"github.com/carebooker/carebooker-api/pkg/security"
	"github.com/carebooker/carebooker-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := validator.RegisterCustomValidators(bookingService.Slots()); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	billRepo := postgres.NewBillRepository(db)
	recordRepo := postgres.NewMedicalRecordRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	// Services
	m := metrics.NewMetrics("carebooker", "api")
	hasher := security.NewBcryptHasher(0)
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})

	auditSvc := auditService.NewService(auditRepo)
	authSvc := authService.NewService(userRepo, patientRepo, doctorRepo, jwtSvc, hasher, auditSvc)
	patientSvc := patientService.NewService(patientRepo, userRepo, hasher, auditSvc)
	doctorSvc := doctorService.NewService(doctorRepo, userRepo, hasher, auditSvc)
	ratingSvc := ratingService.NewService(ratingRepo, appointmentRepo)
	bookingSvc := bookingService.NewService(appointmentRepo, doctorRepo, patientRepo, ratingSvc, m)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, auditSvc)
	billSvc := billService.NewService(billRepo, appointmentRepo, auditSvc)
	recordSvc := recordService.NewService(recordRepo, appointmentRepo, auditSvc)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc, patientSvc),
		appointmentHandler.NewHandler(bookingSvc, appointmentSvc),
		doctorHandler.NewHandler(doctorSvc),
		patientHandler.NewHandler(patientSvc),
		billHandler.NewHandler(billSvc),
		recordHandler.NewHandler(recordSvc),
		ratingHandler.NewHandler(ratingSvc),
		auditHandler.NewHandler(auditSvc),
		healthHandler.NewHandler(db),
		router.Config{
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "carebooker_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
