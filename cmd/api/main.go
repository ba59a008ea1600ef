package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinicconnect/clinicconnect-api/config"
	"github.com/clinicconnect/clinicconnect-api/internal/cache"
	"github.com/clinicconnect/clinicconnect-api/internal/catalog"
	"github.com/clinicconnect/clinicconnect-api/internal/handlers"
	"github.com/clinicconnect/clinicconnect-api/internal/middleware"
	"github.com/clinicconnect/clinicconnect-api/internal/repository"
	"github.com/clinicconnect/clinicconnect-api/internal/services"
	"github.com/clinicconnect/clinicconnect-api/internal/slots"
	"github.com/clinicconnect/clinicconnect-api/internal/validation"
	"github.com/clinicconnect/clinicconnect-api/pkg/db"
	"github.com/clinicconnect/clinicconnect-api/pkg/httpclient"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/clinicconnect/clinicconnect-api/pkg/metrics"
	"github.com/clinicconnect/clinicconnect-api/pkg/profiling"
	"github.com/clinicconnect/clinicconnect-api/pkg/tracing"
	"github.com/clinicconnect/clinicconnect-api/pkg/trigger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// publicContentPrefixes are catalog routes browsers may cache briefly
var publicContentPrefixes = []string{
	"/api/v1/clinic",
	"/api/v1/providers",
	"/api/v1/services",
	"/api/v1/articles",
}

// registerCatalogRoutes registers the stateless content routes
func registerCatalogRoutes(group *gin.RouterGroup, limiter *middleware.RateLimiter, h *handlers.CatalogHandler) {
	group.Use(limiter.Middleware())
	group.GET("/clinic", h.GetClinic)
	group.GET("/providers", h.ListProviders)
	group.GET("/providers/:id", h.GetProvider)
	group.GET("/services", h.ListServices)
	group.GET("/services/:id", h.GetService)
	group.GET("/articles", h.ListArticles)
	group.GET("/articles/:slug", h.GetArticle)
	group.GET("/slots", h.GetSlots)
}

// registerVisitRoutes registers the page shell and booking wizard routes
func registerVisitRoutes(group *gin.RouterGroup, createLimiter, limiter *middleware.RateLimiter, h *handlers.VisitHandler) {
	group.POST("", createLimiter.Middleware(), h.CreateVisit)

	visit := group.Group("/:visitId", limiter.Middleware(), middleware.BodySizeLimitMiddleware(16*1024))
	visit.GET("", h.GetVisit)
	visit.DELETE("", h.EndVisit)
	visit.POST("/panel", h.SwitchPanel)
	visit.POST("/book", h.Book)
	visit.POST("/articles/:articleId/toggle", h.ToggleArticle)
	visit.GET("/notifications", h.DrainNotifications)

	w := visit.Group("/wizard")
	w.GET("", h.GetWizard)
	w.POST("/date", h.SelectDate)
	w.POST("/slot", h.SelectSlot)
	w.POST("/provider", h.SelectProvider)
	w.POST("/service", h.SelectService)
	w.PATCH("/contact", h.UpdateContact)
	w.POST("/next", h.Next)
	w.POST("/back", h.Back)
	w.POST("/submit", h.Submit)
	w.POST("/reset", h.Reset)
}

// registerFormRoutes registers the contact panel forms and theme preferences
func registerFormRoutes(
	group *gin.RouterGroup,
	formLimiter, limiter *middleware.RateLimiter,
	contactHandler *handlers.ContactHandler,
	preferenceHandler *handlers.PreferenceHandler,
) {
	group.POST("/contact-messages", formLimiter.Middleware(), middleware.BodySizeLimitMiddleware(64*1024), contactHandler.SendMessage)
	group.POST("/newsletter", formLimiter.Middleware(), middleware.BodySizeLimitMiddleware(4*1024), contactHandler.Subscribe)

	group.GET("/preferences/:clientId", limiter.Middleware(), preferenceHandler.GetTheme)
	group.POST("/preferences/:clientId/toggle", limiter.Middleware(), preferenceHandler.ToggleTheme)
}

// newPreferenceStores picks the memory or Redis backend for theme
// preferences and newsletter subscribers
func newPreferenceStores(ctx context.Context, cfg *config.Config) (repository.PreferenceStore, repository.SubscriberStore, *redis.Client, error) {
	if cfg.Preferences.Store != "redis" {
		return repository.NewMemoryPreferenceStore(), repository.NewMemorySubscriberStore(), nil, nil
	}

	client, err := db.NewRedisClient(ctx, db.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return repository.NewRedisPreferenceStore(client), repository.NewRedisSubscriberStore(client), client, nil
}

// reloadOnSignal calls refresh for every signal received on sig. The returned
// channel is closed once sig is closed and the loop has exited.
func reloadOnSignal(sig <-chan os.Signal, refresh func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range sig {
			refresh()
		}
	}()
	return done
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
		MaxSizeMB:   cfg.Logging.MaxSizeMB,
		MaxBackups:  cfg.Logging.MaxBackups,
		MaxAgeDays:  cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting ClinicConnect API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("timezone", cfg.Booking.ClinicLocation().String()),
	)

	tracerShutdown, err := tracing.InitTracer(cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Error("Failed to start profiler", zap.Error(err))
	} else {
		defer stopProfiler()
	}

	// Background loops stop with appCtx on shutdown
	appCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	metrics.RecordInfrastructureMetrics(appCtx)

	// Catalog is loaded before accepting requests so the healthcheck only
	// reports ready with content in place
	catalogCache := cache.NewCatalogCache(catalog.NewSource(cfg.Catalog.Path), cfg.Catalog.CacheTTLSeconds)
	if err := catalogCache.Initialize(appCtx); err != nil {
		logger.Fatal("Failed to initialize catalog cache", zap.Error(err))
	}
	defer catalogCache.Close()
	catalogRepo := repository.NewCatalogRepository(catalogCache)

	preferenceStore, subscriberStore, redisClient, err := newPreferenceStores(appCtx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize preference store", zap.Error(err))
	}
	if redisClient != nil {
		defer db.Close(redisClient)
	}

	slotGenerator := slots.NewGenerator(cfg.Booking.RandomSeed, cfg.Booking.SlotAvailability, cfg.Booking.ClinicLocation())
	contactValidator := validation.NewContactValidator()
	triggerCaller := trigger.NewCaller(httpclient.NewStandardClient(httpclient.DefaultTimeout))

	// Services
	catalogService := services.NewCatalogService(catalogRepo, slotGenerator)
	visitService := services.NewVisitService(cfg, catalogRepo, slotGenerator, contactValidator, triggerCaller)
	contactService := services.NewContactService(cfg, triggerCaller)
	newsletterService := services.NewNewsletterService(subscriberStore)
	preferenceService := services.NewPreferenceService(preferenceStore, cfg.Preferences.DefaultDarkMode)

	// Handlers
	healthHandler := handlers.NewHealthHandler(catalogCache)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	visitHandler := handlers.NewVisitHandler(visitService)
	contactHandler := handlers.NewContactHandler(contactService, newsletterService)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceService, visitService)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(publicContentPrefixes...))

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", handlers.ColorSchemeHeader, "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	generalRateLimiter := middleware.NewRateLimiter(appCtx, 100, 200) // 100 req/sec, burst of 200
	visitRateLimiter := middleware.NewRateLimiter(appCtx, 20, 40)     // per-visitor wizard clicks
	createRateLimiter := middleware.NewRateLimiter(appCtx, 1, 10)     // new visits
	formRateLimiter := middleware.NewRateLimiter(appCtx, 0.2, 5)      // 1 req/5s, burst of 5 (spam)

	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	registerCatalogRoutes(v1.Group(""), generalRateLimiter, catalogHandler)
	registerVisitRoutes(v1.Group("/visits"), createRateLimiter, visitRateLimiter, visitHandler)
	registerFormRoutes(v1, formRateLimiter, generalRateLimiter, contactHandler, preferenceHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// SIGHUP reloads the catalog file without a restart
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	reloadDone := reloadOnSignal(reload, catalogCache.ForceRefresh)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	signal.Stop(reload)
	close(reload)
	<-reloadDone

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Ends every visit, cancelling pending booking submissions
	visitService.Close()
	stopBackground()

	logger.Info("Server exited")
}
