package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/greenhill-dev/estates-api/internal/cache"
	"github.com/greenhill-dev/estates-api/internal/config"
	"github.com/greenhill-dev/estates-api/internal/database"
	"github.com/greenhill-dev/estates-api/internal/handlers"
	"github.com/greenhill-dev/estates-api/internal/logger"
	"github.com/greenhill-dev/estates-api/internal/middleware"
	"github.com/greenhill-dev/estates-api/internal/queue"
	"github.com/greenhill-dev/estates-api/internal/services/auth"
	"github.com/greenhill-dev/estates-api/internal/services/storage"
	"github.com/greenhill-dev/estates-api/internal/session"
	"github.com/greenhill-dev/estates-api/internal/telemetry"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.New("estates-api", debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Tracing is optional; a missing endpoint only costs a warning.
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "estates-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	// One Redis connection backs rate limiting, sessions, and the response cache.
	redisClient, err := middleware.NewRedisClient(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// RabbitMQ is optional for the API: without it, posts still get a
	// synchronous score at save time and only the debounced rescore is lost.
	var jobQueue queue.JobQueue
	if cfg.RabbitMQURL != "" {
		jobQueue, err = connectRabbitMQ(cfg.RabbitMQURL, zapLogger)
		if err != nil {
			zapLogger.Warn("rabbitmq_unavailable_rescore_jobs_disabled", zap.Error(err))
			jobQueue = nil
		} else {
			zapLogger.Info("connected_to_rabbitmq")
			defer func() {
				if err := jobQueue.Close(); err != nil {
					zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
				}
			}()
		}
	}

	// Repositories
	projectRepo := database.NewProjectRepository(db)
	apartmentRepo := database.NewApartmentRepository(db)
	postRepo := database.NewBlogPostRepository(db)
	categoryRepo := database.NewBlogCategoryRepository(db)
	bannerRepo := database.NewBannerRepository(db)
	settingRepo := database.NewSettingRepository(db)

	// Services
	responseCache := cache.NewRedisCache(redisClient)
	authClient := auth.NewClient(cfg.AuthEndpoint, cfg.AuthAPIKey)
	gate := session.NewGate(session.NewRedisStore(redisClient), authClient)

	var storageClient *storage.Client
	if cfg.StorageURL != "" {
		storageClient = storage.NewClient(cfg.StorageURL, cfg.StorageBucket, cfg.StorageAPIKey)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(gate, zapLogger)
	projectHandler := handlers.NewProjectHandler(projectRepo, apartmentRepo, responseCache, zapLogger)
	apartmentHandler := handlers.NewApartmentHandler(apartmentRepo, projectRepo, responseCache, zapLogger)
	blogHandler := handlers.NewBlogHandler(postRepo, categoryRepo, responseCache, jobQueue, zapLogger)
	bannerHandler := handlers.NewBannerHandler(bannerRepo, responseCache, zapLogger)
	settingHandler := handlers.NewSettingHandler(settingRepo, responseCache, zapLogger)
	healthChecker := handlers.NewHealthChecker(db, redisClient, jobQueue)

	rateStr := cfg.RateLimit
	if rateStr == "" {
		rateStr = middleware.DefaultRateLimit
	}
	rateLimitMW, err := middleware.RateLimit(redisClient, rateStr)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	r := mux.NewRouter()

	if cfg.OTELEnabled {
		r.Use(otelmux.Middleware("estates-api"))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORSFromEnv(cfg.FrontendURL))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")

	apiRouter := r.PathPrefix("/api/v1").Subrouter()

	// Auth routes take the tighter limit; password guessing is the one
	// brute-force surface this API has.
	authRouter := apiRouter.PathPrefix("/auth").Subrouter()
	authRouter.Use(rateLimitMW)
	authHandler.RegisterRoutes(authRouter)

	// Public catalog routes
	publicRouter := apiRouter.PathPrefix("").Subrouter()
	publicRouter.Use(rateLimitMW)
	projectHandler.RegisterPublicRoutes(publicRouter.PathPrefix("/projects").Subrouter())
	blogHandler.RegisterPublicRoutes(publicRouter.PathPrefix("/blog").Subrouter())
	bannerHandler.RegisterPublicRoutes(publicRouter.PathPrefix("/banners").Subrouter())
	settingHandler.RegisterPublicRoutes(publicRouter.PathPrefix("/settings").Subrouter())

	// Admin routes sit behind the session gate
	adminRouter := apiRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.SessionGate(gate, zapLogger))
	projectHandler.RegisterAdminRoutes(adminRouter.PathPrefix("/projects").Subrouter())
	apartmentHandler.RegisterAdminRoutes(adminRouter.PathPrefix("/apartments").Subrouter())
	blogHandler.RegisterAdminPostRoutes(adminRouter.PathPrefix("/blog-posts").Subrouter())
	blogHandler.RegisterAdminCategoryRoutes(adminRouter.PathPrefix("/blog-categories").Subrouter())
	bannerHandler.RegisterAdminRoutes(adminRouter.PathPrefix("/banners").Subrouter())
	settingHandler.RegisterAdminRoutes(adminRouter.PathPrefix("/settings").Subrouter())

	if storageClient != nil {
		uploadHandler := handlers.NewUploadHandler(storageClient, zapLogger)
		uploadHandler.RegisterAdminRoutes(adminRouter.PathPrefix("/uploads").Subrouter())
	} else {
		zapLogger.Warn("storage_not_configured_uploads_disabled")
	}

	// Preflight catch-all; CORS headers are set by the middleware above
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	gcCtx, gcCancel := context.WithCancel(context.Background())
	defer gcCancel()

	// DLQ garbage collector: hourly sweep, 24h retention
	if dlqPurger, ok := jobQueue.(queue.DLQPurger); ok {
		dlqGC := queue.NewGarbageCollector(dlqPurger, 1*time.Hour, 24*time.Hour, zapLogger)
		go func() {
			if err := dlqGC.Start(gcCtx); err != nil && err != context.Canceled {
				zapLogger.Error("dlq_garbage_collector_stopped_with_error", zap.Error(err))
			}
		}()
		zapLogger.Info("started_dlq_garbage_collector",
			zap.Duration("interval", 1*time.Hour),
			zap.Duration("retention", 24*time.Hour),
		)
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	gcCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// connectRabbitMQ retries the broker connection with capped exponential
// backoff to ride out broker startup delays.
func connectRabbitMQ(amqpURL string, zapLogger *zap.Logger) (queue.JobQueue, error) {
	const maxRetries = 10
	const initialDelay = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		jobQueue, err := queue.NewRabbitMQQueue(amqpURL)
		if err == nil {
			return jobQueue, nil
		}
		lastErr = err

		delay := initialDelay * time.Duration(1<<uint(attempt))
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}
	return nil, lastErr
}
