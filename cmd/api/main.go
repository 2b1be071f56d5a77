package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/careportal/internal/config"
	"github.com/jwalitptl/careportal/internal/email"
	"github.com/jwalitptl/careportal/internal/handler"
	authHandler "github.com/jwalitptl/careportal/internal/handler/auth"
	doctorHandler "github.com/jwalitptl/careportal/internal/handler/doctor"
	"github.com/jwalitptl/careportal/internal/handler/health"
	patientHandler "github.com/jwalitptl/careportal/internal/handler/patient"
	promHandler "github.com/jwalitptl/careportal/internal/handler/prometheus"
	"github.com/jwalitptl/careportal/internal/middleware"
	"github.com/jwalitptl/careportal/internal/repository/memory"
	"github.com/jwalitptl/careportal/internal/router"
	authService "github.com/jwalitptl/careportal/internal/service/auth"
	doctorService "github.com/jwalitptl/careportal/internal/service/doctor"
	patientService "github.com/jwalitptl/careportal/internal/service/patient"
	"github.com/jwalitptl/careportal/internal/session"
	"github.com/jwalitptl/careportal/internal/view"
	"github.com/jwalitptl/careportal/pkg/logger"
	"github.com/jwalitptl/careportal/pkg/metrics"
	"github.com/jwalitptl/careportal/pkg/security"
)

func main() {
	envFile := flag.String("env-file", config.DefaultEnvFile, "dotenv file read outside production")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(&logger.Config{
		Level:   logger.ParseLevel(cfg.Log.Level),
		Console: !cfg.IsProduction(),
	})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize session store
	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session store")
	}
	sessions := session.NewManager(store, session.Config{
		Secret:     cfg.Session.Secret,
		TTL:        cfg.Session.TTL,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.IsProduction(),
	})

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(cfg.Monitoring.Namespace, registry)

	// Initialize repositories
	userRepo := memory.NewUserRepository()
	recordRepo := memory.NewRecordRepository()

	// Initialize services
	authSvc := authService.NewService(
		userRepo,
		recordRepo,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		email.NewService(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}),
		m,
	)
	patientSvc := patientService.NewService(recordRepo, m)
	doctorSvc := doctorService.NewService(recordRepo, m)

	// Initialize handlers
	templates, err := view.Templates()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}
	base := handler.NewBaseHandler(sessions)

	r, err := router.NewRouter(
		middleware.NewAuthMiddleware(sessions, authSvc),
		authHandler.NewHandler(base, authSvc),
		patientHandler.NewHandler(base, patientSvc),
		doctorHandler.NewHandler(base, doctorSvc),
		health.NewHandler(map[string]health.Pinger{"sessions": sessions}),
		promHandler.New(registry),
		m,
		router.RouterConfig{
			RateLimit:      cfg.RateLimit.RPS,
			RateBurst:      cfg.RateLimit.Burst,
			RequestTimeout: cfg.Server.RequestTimeout,
			MetricsPath:    cfg.Monitoring.Path,
			SecureCookies:  cfg.IsProduction(),
			TrustedProxies: cfg.Server.TrustedProxies,
			Templates:      templates,
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           middleware.MethodOverride(r.Engine(), middleware.DefaultSizeLimitConfig()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("env", cfg.Environment).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Store {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return session.NewRedisStore(ctx, cfg.Session.RedisURL)
	default:
		return session.NewMemoryStore(cfg.Session.TTL, 10*time.Minute), nil
	}
}
