package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/scholartrack/core/internal/adapters/http"
	"github.com/scholartrack/core/internal/adapters/notifier"
	"github.com/scholartrack/core/internal/adapters/repository"
	"github.com/scholartrack/core/internal/adapters/vault"
	"github.com/scholartrack/core/internal/application/reminder"
	"github.com/scholartrack/core/internal/application/services"
	"github.com/scholartrack/core/internal/infrastructure/config"
	"github.com/scholartrack/core/internal/infrastructure/database"
	"github.com/scholartrack/core/internal/infrastructure/logger"
	"github.com/scholartrack/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo      *echo.Echo
	config    *config.Config
	logger    *logger.Logger
	db        *database.DB
	scheduler *reminder.Scheduler
	auth      *services.AuthService
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// backendBuilder adapts the notifier constructors to the engine's factory.
type backendBuilder struct{}

func (backendBuilder) Webhook(url string) ports.Notifier {
	return notifier.NewWebhook(url)
}

func (backendBuilder) Email(server, port, username, password, to string) ports.Notifier {
	return notifier.NewEmail(server, port, username, password, to)
}

// New creates a new server instance with the full application wired up
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Repositories
	eventRepo := repository.NewEventRepository(db.DB)
	researcherRepo := repository.NewResearcherRepository(db.DB)
	resourceRepo := repository.NewResourceRepository(db.DB)
	todoRepo := repository.NewTodoRepository(db.DB)
	logRepo := repository.NewDailyLogRepository(db.DB)
	milestoneRepo := repository.NewMilestoneRepository(db.DB)
	settingRepo := repository.NewSettingRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)

	// Services
	authService := services.NewAuthService(userRepo, cfg.JWT, appLogger)
	eventService := services.NewEventService(eventRepo, appLogger)
	todoService := services.NewTodoService(todoRepo, appLogger)
	catalogService := services.NewCatalogService(researcherRepo, resourceRepo, appLogger)
	journalService := services.NewJournalService(logRepo, milestoneRepo, appLogger)
	settingsService := services.NewSettingsService(settingRepo, appLogger)
	dashboardService := services.NewDashboardService(eventRepo, todoRepo, milestoneRepo, appLogger)
	exportService := services.NewExportService(eventRepo, researcherRepo, logRepo, settingRepo,
		func(path string) ports.VaultExporter { return vault.NewExporter(path) }, appLogger)

	// Reminder engine and scheduler
	notifierFactory := reminder.SettingsNotifierFactory(settingRepo, backendBuilder{})
	engine := reminder.NewEngine(eventRepo, todoRepo, settingRepo, notifierFactory,
		reminder.ParseReminderDays(cfg.Reminder.DaysBefore), appLogger)
	scheduler := reminder.NewScheduler(engine, settingRepo,
		cfg.Reminder.DigestHour, cfg.Reminder.DigestMinute, appLogger)

	// Handlers
	authHandler := httpHandlers.NewAuthHandler(authService, appLogger)
	dashboardHandler := httpHandlers.NewDashboardHandler(dashboardService, appLogger)
	eventHandler := httpHandlers.NewEventHandler(eventService, appLogger)
	todoHandler := httpHandlers.NewTodoHandler(todoService, appLogger)
	catalogHandler := httpHandlers.NewCatalogHandler(catalogService, appLogger)
	journalHandler := httpHandlers.NewJournalHandler(journalService, appLogger)
	settingsHandler := httpHandlers.NewSettingsHandler(settingsService, exportService,
		func(c echo.Context) ([]ports.Notifier, error) {
			return notifierFactory(c.Request().Context())
		}, appLogger)

	server := &Server{
		echo:      e,
		config:    cfg,
		logger:    appLogger,
		db:        db,
		scheduler: scheduler,
		auth:      authService,
	}

	server.setupMiddleware()
	server.setupRoutes(authHandler, dashboardHandler, eventHandler, todoHandler,
		catalogHandler, journalHandler, settingsHandler)

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
	}))

	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(
	authHandler *httpHandlers.AuthHandler,
	dashboardHandler *httpHandlers.DashboardHandler,
	eventHandler *httpHandlers.EventHandler,
	todoHandler *httpHandlers.TodoHandler,
	catalogHandler *httpHandlers.CatalogHandler,
	journalHandler *httpHandlers.JournalHandler,
	settingsHandler *httpHandlers.SettingsHandler,
) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	v1 := s.echo.Group("/api/v1")

	// Auth routes
	authGroup := v1.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/password", authHandler.ChangePassword, s.authMiddleware())

	// Dashboard
	v1.GET("/dashboard", dashboardHandler.GetDashboard, s.authMiddleware())

	// Event routes
	eventGroup := v1.Group("/events", s.authMiddleware())
	eventGroup.GET("", eventHandler.ListEvents)
	eventGroup.POST("", eventHandler.CreateEvent)
	eventGroup.GET("/deadlines", eventHandler.UpcomingDeadlines)
	eventGroup.GET("/categories", eventHandler.Categories)
	eventGroup.GET("/:id", eventHandler.GetEvent)
	eventGroup.PUT("/:id", eventHandler.UpdateEvent)
	eventGroup.DELETE("/:id", eventHandler.DeleteEvent)
	eventGroup.POST("/:id/pin", eventHandler.TogglePin)

	// Researcher routes
	researcherGroup := v1.Group("/researchers", s.authMiddleware())
	researcherGroup.GET("", catalogHandler.ListResearchers)
	researcherGroup.POST("", catalogHandler.CreateResearcher)
	researcherGroup.GET("/:id", catalogHandler.GetResearcher)
	researcherGroup.PUT("/:id", catalogHandler.UpdateResearcher)
	researcherGroup.DELETE("/:id", catalogHandler.DeleteResearcher)

	// Resource routes
	resourceGroup := v1.Group("/resources", s.authMiddleware())
	resourceGroup.GET("", catalogHandler.ListResources)
	resourceGroup.POST("", catalogHandler.CreateResource)
	resourceGroup.GET("/types", catalogHandler.ResourceTypes)
	resourceGroup.GET("/:id", catalogHandler.GetResource)
	resourceGroup.PUT("/:id", catalogHandler.UpdateResource)
	resourceGroup.DELETE("/:id", catalogHandler.DeleteResource)

	// Todo routes
	todoGroup := v1.Group("/todos", s.authMiddleware())
	todoGroup.GET("", todoHandler.ListTodos)
	todoGroup.POST("", todoHandler.CreateTodo)
	todoGroup.GET("/:id", todoHandler.GetTodo)
	todoGroup.PUT("/:id", todoHandler.UpdateTodo)
	todoGroup.DELETE("/:id", todoHandler.DeleteTodo)

	// Daily log routes
	logGroup := v1.Group("/daily-logs", s.authMiddleware())
	logGroup.GET("", journalHandler.ListDailyLogs)
	logGroup.POST("", journalHandler.UpsertDailyLog)
	logGroup.PUT("", journalHandler.UpsertDailyLog)
	logGroup.GET("/:date", journalHandler.GetDailyLog)

	// Milestone routes
	milestoneGroup := v1.Group("/milestones", s.authMiddleware())
	milestoneGroup.GET("", journalHandler.ListMilestones)
	milestoneGroup.POST("", journalHandler.CreateMilestone)
	milestoneGroup.PUT("/:id", journalHandler.UpdateMilestone)
	milestoneGroup.DELETE("/:id", journalHandler.DeleteMilestone)

	// Settings, notification test and vault export
	settingsGroup := v1.Group("/settings", s.authMiddleware())
	settingsGroup.GET("", settingsHandler.GetSettings)
	settingsGroup.PUT("", settingsHandler.UpdateSettings)

	v1.POST("/notify/test", settingsHandler.TestNotification, s.authMiddleware())
	v1.POST("/export/vault", settingsHandler.ExportVault, s.authMiddleware())
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	prometheus.MustRegister(requestsTotal, requestDuration)

	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// authMiddleware validates JWT tokens and resolves the owner account
func (s *Server) authMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			user, err := s.auth.ValidateToken(c.Request().Context(), tokenString)
			if err != nil {
				s.logger.Warn("Invalid token", "error", err, "ip", c.RealIP())
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("user", user.ID.String())
			c.Set("username", user.Username)

			return next(c)
		}
	}
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	if err := s.db.HealthCheck(); err != nil {
		status = "error"
		checks["database"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.GetConnectionInfo(),
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// EnsureOwner provisions the owner account with the given credentials when no
// account exists yet.
func (s *Server) EnsureOwner(ctx context.Context, username, password string) error {
	_, err := s.auth.EnsureOwner(ctx, username, password)
	return err
}

// Start starts the reminder scheduler and the HTTP server
func (s *Server) Start(address string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reminder scheduler: %w", err)
	}

	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown stops the scheduler and gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	s.scheduler.Stop()
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Error("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Error("Error sending response", "error", err)
			}
		}
	}
}
