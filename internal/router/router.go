package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carebooker/carebooker-api/internal/middleware"
	"github.com/carebooker/carebooker-api/internal/model"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// PatientHandler exposes the split between self-service profile routes and
// admin roster routes.
type PatientHandler interface {
	Handler
	RegisterAdminRoutes(*gin.RouterGroup)
}

// AuthHandler splits the public token routes from the ones that need a
// valid token (me, logout).
type AuthHandler interface {
	Handler
	RegisterProtectedRoutes(*gin.RouterGroup)
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authH        AuthHandler
	appointmentH Handler
	doctorH      Handler
	patientH     PatientHandler
	billH        Handler
	recordH      Handler
	ratingH      Handler
	auditH       Handler
	healthH      Handler
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RateLimitRPS   int
	RateLimitBurst int
	Timeout        time.Duration
	CORSConfig     middleware.CORSConfig
	MetricsPrefix  string
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH AuthHandler,
	appointmentH Handler,
	doctorH Handler,
	patientH PatientHandler,
	billH Handler,
	recordH Handler,
	ratingH Handler,
	auditH Handler,
	healthH Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		authH:        authH,
		appointmentH: appointmentH,
		doctorH:      doctorH,
		patientH:     patientH,
		billH:        billH,
		recordH:      recordH,
		ratingH:      ratingH,
		auditH:       auditH,
		healthH:      healthH,
		metrics:      initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		gin.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
		middleware.RequestID(),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(config.RateLimitRPS, config.RateLimitBurst)
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.healthH.RegisterRoutes(api)
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes: registration, login, token refresh.
	auth := api.Group("/auth")
	r.authH.RegisterRoutes(auth)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	protectedAuth := protected.Group("/auth")
	r.authH.RegisterProtectedRoutes(protectedAuth)

	appointments := protected.Group("/appointments")
	r.appointmentH.RegisterRoutes(appointments)

	patients := protected.Group("/patients")
	r.patientH.RegisterRoutes(patients)

	bills := protected.Group("/bills")
	r.billH.RegisterRoutes(bills)

	records := protected.Group("/records")
	r.recordH.RegisterRoutes(records)

	// Rating submission is patient-only in the service; viewing is open to
	// any authenticated role.
	ratings := protected.Group("/ratings")
	r.ratingH.RegisterRoutes(ratings)

	// Admin roster management.
	admin := protected.Group("")
	admin.Use(r.auth.RequireRole(model.RoleAdmin))

	doctors := admin.Group("/doctors")
	r.doctorH.RegisterRoutes(doctors)

	adminPatients := admin.Group("/patients")
	r.patientH.RegisterAdminRoutes(adminPatients)

	auditLogs := admin.Group("/audit")
	r.auditH.RegisterRoutes(auditLogs)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
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
