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
	"golang.org/x/time/rate"

	"github.com/healthmate/healthmate-api/internal/config"
	"github.com/healthmate/healthmate-api/internal/email"
	"github.com/healthmate/healthmate-api/internal/geo"
	"github.com/healthmate/healthmate-api/internal/handler"
	appointmentHandler "github.com/healthmate/healthmate-api/internal/handler/appointment"
	authHandler "github.com/healthmate/healthmate-api/internal/handler/auth"
	chatHandler "github.com/healthmate/healthmate-api/internal/handler/chat"
	doctorHandler "github.com/healthmate/healthmate-api/internal/handler/doctor"
	emergencyHandler "github.com/healthmate/healthmate-api/internal/handler/emergency"
	outbreakHandler "github.com/healthmate/healthmate-api/internal/handler/outbreak"
	"github.com/healthmate/healthmate-api/internal/llm"
	"github.com/healthmate/healthmate-api/internal/middleware"
	"github.com/healthmate/healthmate-api/internal/repository/postgres"
	"github.com/healthmate/healthmate-api/internal/router"
	appointmentService "github.com/healthmate/healthmate-api/internal/service/appointment"
	authService "github.com/healthmate/healthmate-api/internal/service/auth"
	chatService "github.com/healthmate/healthmate-api/internal/service/chat"
	directoryService "github.com/healthmate/healthmate-api/internal/service/directory"
	emergencyService "github.com/healthmate/healthmate-api/internal/service/emergency"
	outbreakService "github.com/healthmate/healthmate-api/internal/service/outbreak"
	"github.com/healthmate/healthmate-api/internal/worker"
	"github.com/healthmate/healthmate-api/pkg/auth"
	"github.com/healthmate/healthmate-api/pkg/logger"
	"github.com/healthmate/healthmate-api/pkg/messaging/redis"
	"github.com/healthmate/healthmate-api/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	contactRepo := postgres.NewEmergencyContactRepository(db)
	chatRepo := postgres.NewChatRepository(db)
	outbreakRepo := postgres.NewOutbreakRepository(db)

	m := metrics.NewMetrics("healthmate", "api")

	// Initialize services
	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		Secret:      cfg.JWT.Secret,
		ExpiryHours: cfg.JWT.ExpiryHours,
	})
	emailSvc := email.NewSMTPService(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	authSvc := authService.NewService(userRepo, jwtSvc, emailSvc, cfg.JWT.ExpiryHours)

	llmClient := llm.NewClient(llm.ClientConfig{
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		Referer:   cfg.LLM.Referer,
		AppTitle:  cfg.LLM.AppTitle,
	})
	gateway := llm.NewGateway(llmClient, m)

	resolver := geo.NewResolver(geo.ResolverConfig{
		BaseURL:   cfg.Geocoder.BaseURL,
		UserAgent: cfg.Geocoder.UserAgent,
		Timeout:   time.Duration(cfg.Geocoder.TimeoutSeconds) * time.Second,
	}, m)

	chatSvc := chatService.NewService(chatRepo, userRepo, gateway, m)
	directorySvc := directoryService.NewService(doctorRepo, m)
	appointmentSvc := appointmentService.NewService(appointmentRepo, userRepo, emailSvc)
	emergencySvc := emergencyService.NewService(contactRepo)
	outbreakSvc := outbreakService.NewService(outbreakRepo)

	// Initialize Redis message broker
	broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.Redis.URL}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	// Initialize handlers
	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc)
	chatH := chatHandler.NewHandler(chatSvc)
	doctorH := doctorHandler.NewHandler(directorySvc, resolver)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc)
	emergencyH := emergencyHandler.NewHandler(emergencySvc)
	outbreakH := outbreakHandler.NewHandler(outbreakSvc, broker)

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		authH,
		chatH,
		doctorH,
		appointmentH,
		emergencyH,
		outbreakH,
		h,
		router.RouterConfig{
			RateLimit:     rate.Limit(cfg.Server.RateLimitRPS),
			RateBurst:     cfg.Server.RateLimitBurst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "healthmate_api",
		},
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Start the alert publisher so reported outbreaks reach the realtime
	// channel even without a dedicated worker deployment.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	alertPublisher := worker.NewAlertPublisher(outbreakRepo, broker, worker.AlertPublisherConfig{}, logger.NewLogger(nil), m)
	go alertPublisher.Start(workerCtx)

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
