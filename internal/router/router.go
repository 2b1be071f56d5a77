package router

import (
	"fmt"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"

	authHandler "github.com/jwalitptl/careportal/internal/handler/auth"
	doctorHandler "github.com/jwalitptl/careportal/internal/handler/doctor"
	"github.com/jwalitptl/careportal/internal/handler/health"
	patientHandler "github.com/jwalitptl/careportal/internal/handler/patient"
	promHandler "github.com/jwalitptl/careportal/internal/handler/prometheus"
	"github.com/jwalitptl/careportal/internal/middleware"
	"github.com/jwalitptl/careportal/pkg/metrics"
)

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	authH    *authHandler.Handler
	patientH *patientHandler.Handler
	doctorH  *doctorHandler.Handler
	healthH  *health.Handler
	promH    *promHandler.Handler
	limiter  *middleware.RateLimiter
	metrics  *metrics.Metrics
	config   RouterConfig
}

type RouterConfig struct {
	RateLimit      float64
	RateBurst      int
	RequestTimeout time.Duration
	MetricsPath    string
	SecureCookies  bool
	TrustedProxies []string
	Templates      *template.Template
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH *authHandler.Handler,
	patientH *patientHandler.Handler,
	doctorH *doctorHandler.Handler,
	healthH *health.Handler,
	promH *promHandler.Handler,
	m *metrics.Metrics,
	config RouterConfig,
) (*Router, error) {
	engine := gin.New()
	engine.SetHTMLTemplate(config.Templates)
	// A nil list trusts nobody, so X-Forwarded-For cannot pick the rate
	// limiter's key.
	if err := engine.SetTrustedProxies(config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}

	r := &Router{
		engine:   engine,
		auth:     auth,
		authH:    authH,
		patientH: patientH,
		doctorH:  doctorH,
		healthH:  healthH,
		promH:    promH,
		metrics:  m,
		config:   config,
		limiter: middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPS:   config.RateLimit,
			Burst: config.RateBurst,
		}),
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTS = config.SecureCookies

	timeout := middleware.DefaultTimeoutConfig()
	if config.RequestTimeout > 0 {
		timeout.Duration = config.RequestTimeout
	}

	// Add core middlewares
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		r.metricsMiddleware(),
		middleware.SecurityHeaders(security),
		middleware.Timeout(timeout),
		middleware.ErrorHandler(),
	)

	return r, nil
}

func (r *Router) Setup() {
	r.healthH.RegisterRoutes(r.engine)
	r.engine.GET(r.config.MetricsPath, r.promH.Handler())

	pages := r.engine.Group("")
	pages.Use(
		middleware.NoStore(),
		middleware.SizeLimit(middleware.DefaultSizeLimitConfig()),
		r.auth.LoadSession(),
	)

	r.setupAuthRoutes(pages)
	r.setupPatientRoutes(pages)
	r.setupDoctorRoutes(pages)
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	anonymous := rg.Group("")
	anonymous.Use(r.auth.RequireAnonymous())
	{
		anonymous.GET("/login", middleware.WithSession(r.authH.LoginPage))
		anonymous.GET("/register", middleware.WithSession(r.authH.RegisterPage))
		anonymous.POST("/login", r.limiter.RateLimit(), middleware.WithSession(r.authH.Login))
		anonymous.POST("/register", r.limiter.RateLimit(), middleware.WithSession(r.authH.Register))
	}

	rg.DELETE("/logout", middleware.WithSession(r.authH.Logout))
}

func (r *Router) setupPatientRoutes(rg *gin.RouterGroup) {
	rg.GET("/patient", r.auth.RequireAuthenticated(), middleware.WithSession(r.patientH.Dashboard))

	patients := rg.Group("/patient")
	{
		patients.POST("/request-refill", r.patientH.RequestRefill)
		patients.POST("/update-health-record", r.patientH.UpdateHealthRecord)
	}
}

func (r *Router) setupDoctorRoutes(rg *gin.RouterGroup) {
	rg.GET("/doctor", r.auth.RequireAuthenticated(), middleware.WithSession(r.doctorH.Dashboard))

	doctors := rg.Group("/doctor")
	{
		doctors.POST("/manage-patients", r.doctorH.ManagePatients)
		doctors.POST("/update-request-status", r.doctorH.UpdateRequestStatus)
		doctors.POST("/add-distributor", r.doctorH.AddDistributor)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.ErrorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
