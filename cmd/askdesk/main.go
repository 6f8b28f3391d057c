package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/campuskit/askdesk/internal/config"
	dbRedis "github.com/campuskit/askdesk/internal/db/redis"
	"github.com/campuskit/askdesk/internal/domain"
	logpkg "github.com/campuskit/askdesk/internal/logger"
	"github.com/campuskit/askdesk/internal/metrics"
	evidencerepo "github.com/campuskit/askdesk/internal/repository/evidence"
	chiTransport "github.com/campuskit/askdesk/internal/transport/chi"
	openaiTransport "github.com/campuskit/askdesk/internal/transport/openai"
	"github.com/campuskit/askdesk/internal/transport/tavily"
	decomposeuc "github.com/campuskit/askdesk/internal/usecase/decompose"
	healthuc "github.com/campuskit/askdesk/internal/usecase/health"
	pipelineuc "github.com/campuskit/askdesk/internal/usecase/pipeline"
	retrieveuc "github.com/campuskit/askdesk/internal/usecase/retrieve"
	synthesizeuc "github.com/campuskit/askdesk/internal/usecase/synthesize"
	validateuc "github.com/campuskit/askdesk/internal/usecase/validate"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting askdesk API server",
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("llm_provider", cfg.LLM.Provider),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create knowledge store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Knowledge store not ready", zap.Error(err))
	}
	logger.Info("Connected to knowledge store")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	catalog := buildCatalog(cfg.Topics, logger)

	// Providers — composition root
	provCfg := cfg.LLM.Providers[cfg.LLM.Provider]
	completer := openaiTransport.NewCompleter(&openaiTransport.CompleterConfig{
		APIKey:   provCfg.APIKey,
		BaseURL:  provCfg.BaseURL,
		Model:    provCfg.Model,
		Provider: cfg.LLM.Provider,
		Logger:   logger,
	})
	logger.Info("Completion provider created",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", provCfg.Model),
	)

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})

	webClient := tavily.NewClient(&tavily.Config{
		APIKey:  cfg.WebSearch.APIKey,
		BaseURL: cfg.WebSearch.BaseURL,
		Timeout: time.Duration(cfg.WebSearch.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	if !webClient.Enabled() {
		logger.Warn("Web search API key not set, augmentation disabled")
	}

	// Repositories and use case services
	evidenceRepo := evidencerepo.NewRepository(store, logger)

	decomposeSvc := decomposeuc.New(completer, catalog)
	retrieveSvc := retrieveuc.New(evidenceRepo, embedder, webClient, catalog, cfg.Retrieval.TopK)
	validateSvc := validateuc.New()
	synthesizeSvc := synthesizeuc.New(completer)

	pipelineSvc := pipelineuc.New(
		decomposeSvc, retrieveSvc, validateSvc, synthesizeSvc,
		time.Duration(cfg.Retrieval.TopicTimeoutSec)*time.Second,
	)

	healthSvc := healthuc.New(store, completer)

	server := chiTransport.NewServer(pipelineSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCatalog assembles the topic catalog from config, falling back to the
// built-in campus catalog when no topics are configured.
func buildCatalog(topicCfgs []config.TopicConfig, logger *zap.Logger) domain.Catalog {
	if len(topicCfgs) == 0 {
		logger.Info("Using built-in topic catalog")
		return domain.DefaultCatalog()
	}

	topics := make([]domain.Topic, 0, len(topicCfgs))
	for _, tc := range topicCfgs {
		topic, err := domain.NewTopic(tc.ID, tc.Description, tc.WebEligible)
		if err != nil {
			logger.Fatal("Invalid topic configuration", zap.Error(err))
		}
		topics = append(topics, topic)
	}

	catalog, err := domain.NewCatalog(topics)
	if err != nil {
		logger.Fatal("Invalid topic catalog", zap.Error(err))
	}
	logger.Info("Topic catalog loaded", zap.Int("topics", catalog.Len()))
	return catalog
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
