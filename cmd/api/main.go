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
	"golang.org/x/crypto/bcrypt"

	"github.com/telemedly/telemed-api/internal/config"
	"github.com/telemedly/telemed-api/internal/email"
	"github.com/telemedly/telemed-api/internal/handler"
	appointmentHandler "github.com/telemedly/telemed-api/internal/handler/appointment"
	chatHandler "github.com/telemedly/telemed-api/internal/handler/chat"
	doctorHandler "github.com/telemedly/telemed-api/internal/handler/doctor"
	prescriptionHandler "github.com/telemedly/telemed-api/internal/handler/prescription"
	reportHandler "github.com/telemedly/telemed-api/internal/handler/report"
	userHandler "github.com/telemedly/telemed-api/internal/handler/user"
	"github.com/telemedly/telemed-api/internal/middleware"
	"github.com/telemedly/telemed-api/internal/repository/postgres"
	"github.com/telemedly/telemed-api/internal/router"
	appointmentService "github.com/telemedly/telemed-api/internal/service/appointment"
	chatService "github.com/telemedly/telemed-api/internal/service/chat"
	doctorService "github.com/telemedly/telemed-api/internal/service/doctor"
	notificationService "github.com/telemedly/telemed-api/internal/service/notification"
	prescriptionService "github.com/telemedly/telemed-api/internal/service/prescription"
	reportService "github.com/telemedly/telemed-api/internal/service/report"
	userService "github.com/telemedly/telemed-api/internal/service/user"
	"github.com/telemedly/telemed-api/pkg/auth"
	"github.com/telemedly/telemed-api/pkg/logger"
	"github.com/telemedly/telemed-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	chatRepo := postgres.NewChatRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Shared infrastructure
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	emailSender := email.NewSMTPSender(cfg.SMTP)

	// Services
	notificationSvc := notificationService.NewService(outboxRepo, userRepo, emailSender, lg)
	userSvc := userService.NewService(userRepo, hasher, jwtSvc, lg)
	appointmentSvc := appointmentService.NewService(appointmentRepo, userRepo, notificationSvc, lg)
	doctorSvc := doctorService.NewService(userRepo, appointmentRepo, cfg.Discovery.RadiusMeters, lg)
	chatSvc := chatService.NewService(chatRepo, userRepo)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, userRepo)
	reportSvc := reportService.NewService(reportRepo)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	cookieMaxAge := cfg.JWT.ExpiryHours * 3600

	r := router.NewRouter(
		authMiddleware,
		userHandler.NewHandler(userSvc, cookieMaxAge),
		doctorHandler.NewHandler(doctorSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		chatHandler.NewHandler(chatSvc),
		prescriptionHandler.NewHandler(prescriptionSvc),
		reportHandler.NewHandler(reportSvc),
		handler.NewHealthHandler(db),
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "telemed_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		lg.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lg.Fatal(err, "forced shutdown")
	}
	lg.Info("server stopped")
}
