package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/anshupriya0510/EchoSkill-project/internal/accounts"
	"github.com/anshupriya0510/EchoSkill-project/internal/config"
	"github.com/anshupriya0510/EchoSkill-project/internal/handlers"
	"github.com/anshupriya0510/EchoSkill-project/internal/localstore"
	"github.com/anshupriya0510/EchoSkill-project/internal/logger"
	"github.com/anshupriya0510/EchoSkill-project/internal/middleware"
	"github.com/anshupriya0510/EchoSkill-project/internal/profiles"
	"github.com/anshupriya0510/EchoSkill-project/internal/provider"
	"github.com/anshupriya0510/EchoSkill-project/internal/session"
	"github.com/anshupriya0510/EchoSkill-project/internal/supabase"
	"github.com/anshupriya0510/EchoSkill-project/internal/telemetry"
)

const serviceName = "echoskill-api"

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug mode logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override debug mode if flag is set
	debugMode := cfg.ServerDebugMode || *debugFlag

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors in production
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("provider_configured", cfg.ProviderConfigured()),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Select the identity backend: the hosted provider when configured,
	// otherwise the local file-backed fallback store.
	var (
		authTier       provider.Auth
		adminTier      provider.Admin
		profileTier    provider.Profiles
		providerPinger handlers.Pinger
	)
	if cfg.ProviderConfigured() {
		client, err := supabase.New(supabase.Config{
			URL:     cfg.ProviderURL(),
			AnonKey: cfg.SupabaseAnonKey,
		})
		if err != nil {
			zapLogger.Fatal("failed_to_create_provider_client", zap.Error(err))
		}
		authTier = client
		profileTier = client
		providerPinger = client

		if cfg.SupabaseServiceKey != "" {
			admin, err := supabase.NewAdmin(supabase.AdminConfig{
				PublicURL:  cfg.SupabasePublicURL,
				ServerURL:  cfg.SupabaseServerURL,
				ServiceKey: cfg.SupabaseServiceKey,
			}, zapLogger)
			if err != nil {
				zapLogger.Fatal("failed_to_create_admin_client", zap.Error(err))
			}
			adminTier = admin
		} else {
			zapLogger.Warn("service_role_key_not_set_admin_features_disabled")
		}
		zapLogger.Info("using_hosted_identity_provider")
	} else {
		store, err := localstore.New(cfg.LocalStorePath, cfg.LocalStoreSecret)
		if err != nil {
			zapLogger.Fatal("failed_to_open_local_store", zap.Error(err))
		}
		authTier = store
		adminTier = store
		profileTier = store
		zapLogger.Warn("no_identity_provider_configured_using_local_store",
			zap.String("path", cfg.LocalStorePath),
		)
	}

	// Wire services
	resolver := session.NewResolver(authTier, profileTier, zapLogger)
	orchestrator := accounts.NewOrchestrator(authTier, adminTier, zapLogger)
	accessor := profiles.NewAccessor(profileTier)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authTier, orchestrator, resolver, cfg.RedirectURL, zapLogger)
	profileHandler := handlers.NewProfileHandler(accessor, resolver)
	skillsHandler := handlers.NewSkillsHandler(accessor, resolver)
	adminHandler := handlers.NewAdminHandler(adminTier, cfg.AdminEmail, zapLogger)
	healthChecker := handlers.NewHealthChecker(providerPinger)

	// Redis-backed rate limiting on auth endpoints, when Redis is available
	var rateLimitMW func(http.Handler) http.Handler
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("invalid_redis_url", zap.Error(err))
		}
		redisClient := redis.NewClient(opts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		rateLimitMW, err = middleware.RateLimit(redisClient, cfg.AuthRateLimit)
		if err != nil {
			zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
		}
		zapLogger.Info("connected_to_redis")
	} else {
		zapLogger.Warn("redis_not_configured_rate_limiting_disabled")
	}

	// Setup router
	r := mux.NewRouter()

	// Apply middleware (order matters - executed in reverse order of registration)
	zapLogger.Info("setting_up_middleware")

	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware(serviceName))
		zapLogger.Info("otel_middleware_enabled")
	}
	// 1. Security headers (should be set on all responses)
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	// 2. CORS from FRONTEND_URL
	r.Use(middleware.CORS(cfg.FrontendURL))
	// 3. Request size limits (protects against DoS)
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	// 4. Content-Type validation for POST/PATCH/PUT requests
	r.Use(middleware.ContentType)
	// 5. Request timeout (30 seconds default)
	r.Use(middleware.Timeout(30 * time.Second))
	// 6. Error handler (catches panics)
	r.Use(middleware.ErrorHandler(zapLogger))
	// 7. Audit logging (for security events)
	r.Use(middleware.Audit(zapLogger))
	// 8. Logging (innermost, executes last before handler)
	r.Use(middleware.Logging(zapLogger))

	// Public routes (no rate limiting for health checks)
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	// Auth routes, rate limited because they are unauthenticated
	authRouter := r.PathPrefix("/auth").Subrouter()
	if rateLimitMW != nil {
		authRouter.Use(rateLimitMW)
	}
	authHandler.RegisterRoutes(authRouter)

	// Profile and skills routes resolve identity themselves: reads are
	// public, writes reject unauthenticated callers per handler.
	profileHandler.RegisterRoutes(r)
	skillsHandler.RegisterRoutes(r)

	// Admin routes (authenticated; the handler applies the email gate)
	adminRouter := r.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.Auth(resolver))
	adminHandler.RegisterRoutes(adminRouter)

	// Catch-all OPTIONS handler for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Setup server
	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	// Only expose minimal version info (sanitized for security)
	if _, err := fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = err
	}
}
