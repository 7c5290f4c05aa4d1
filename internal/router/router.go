package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/healthmate/healthmate-api/internal/handler"
	appointmentH "github.com/healthmate/healthmate-api/internal/handler/appointment"
	authH "github.com/healthmate/healthmate-api/internal/handler/auth"
	chatH "github.com/healthmate/healthmate-api/internal/handler/chat"
	doctorH "github.com/healthmate/healthmate-api/internal/handler/doctor"
	emergencyH "github.com/healthmate/healthmate-api/internal/handler/emergency"
	outbreakH "github.com/healthmate/healthmate-api/internal/handler/outbreak"
	"github.com/healthmate/healthmate-api/internal/middleware"
)

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        *authH.Handler
	chatH        *chatH.Handler
	doctorH      *doctorH.Handler
	appointmentH *appointmentH.Handler
	emergencyH   *emergencyH.Handler
	outbreakH    *outbreakH.Handler
	h            *handler.Handler
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type RouterConfig struct {
	RateLimit     rate.Limit
	RateBurst     int
	CORSConfig    middleware.CORSConfig
	MetricsPrefix string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authHandler *authH.Handler,
	chatHandler *chatH.Handler,
	doctorHandler *doctorH.Handler,
	appointmentHandler *appointmentH.Handler,
	emergencyHandler *emergencyH.Handler,
	outbreakHandler *outbreakH.Handler,
	h *handler.Handler,
	config RouterConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	metrics := initRouterMetrics(config.MetricsPrefix)

	r := &Router{
		engine:       engine,
		auth:         auth,
		authH:        authHandler,
		chatH:        chatHandler,
		doctorH:      doctorHandler,
		appointmentH: appointmentHandler,
		emergencyH:   emergencyHandler,
		outbreakH:    outbreakHandler,
		h:            h,
		metrics:      metrics,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		middleware.Validation(middleware.DefaultValidationConfig()),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: 30 * time.Second}),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   float64(config.RateLimit),
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	// Add version header
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)
	r.setupPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", r.authH.Register)
		auth.POST("/login", r.authH.Login)
	}

	outbreaks := rg.Group("/outbreaks")
	{
		outbreaks.GET("", r.outbreakH.ListOutbreaks)
		outbreaks.GET("/stream", r.outbreakH.StreamAlerts)
	}
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	profile := rg.Group("/auth")
	{
		profile.GET("/profile", r.authH.GetProfile)
		profile.PUT("/profile", r.authH.UpdateProfile)
	}

	chat := rg.Group("/chat")
	{
		chat.POST("/messages", r.chatH.SendMessage)
		chat.GET("/messages", r.chatH.History)
	}

	rg.GET("/doctors", r.doctorH.ListDoctors)

	appointments := rg.Group("/appointments")
	{
		appointments.POST("", r.appointmentH.CreateAppointment)
		appointments.GET("", r.appointmentH.ListAppointments)
		appointments.GET("/:id", r.appointmentH.GetAppointment)
		appointments.PUT("/:id", r.appointmentH.UpdateAppointment)
		appointments.POST("/:id/cancel", r.appointmentH.CancelAppointment)
		appointments.DELETE("/:id", r.appointmentH.DeleteAppointment)
	}

	contacts := rg.Group("/emergency-contacts")
	{
		contacts.POST("", r.emergencyH.CreateContact)
		contacts.GET("", r.emergencyH.ListContacts)
		contacts.GET("/:id", r.emergencyH.GetContact)
		contacts.PUT("/:id", r.emergencyH.UpdateContact)
		contacts.DELETE("/:id", r.emergencyH.DeleteContact)
	}

	rg.POST("/outbreaks", r.outbreakH.ReportOutbreak)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
