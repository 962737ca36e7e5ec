package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/achouradigital/arabic-phon-bot/internal/delivery"
	"github.com/achouradigital/arabic-phon-bot/internal/handlers"
	"github.com/achouradigital/arabic-phon-bot/internal/platform/auth"
	"github.com/achouradigital/arabic-phon-bot/internal/platform/config"
	"github.com/achouradigital/arabic-phon-bot/internal/platform/idempotency"
	"github.com/achouradigital/arabic-phon-bot/internal/platform/observability"
	"github.com/achouradigital/arabic-phon-bot/internal/platform/secrets"
	"github.com/achouradigital/arabic-phon-bot/internal/services"
	"github.com/achouradigital/arabic-phon-bot/internal/translit"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		os.Stderr.WriteString("failed to initialise logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("bot")
	ctx = observability.WithLogger(ctx, logger)

	envValues, err := config.EnvironmentValues()
	if err != nil {
		logger.Fatal("failed to read environment values", zap.Error(err))
	}

	fetcher, err := newSecretFetcher(ctx, logger, envValues)
	if err != nil {
		logger.Fatal("failed to initialise secret fetcher", zap.Error(err))
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}()

	cfg, err := config.Load(ctx,
		config.WithSecretResolver(config.SecretResolverFunc(fetcher.Resolve)),
	)
	if err != nil {
		var missing *config.MissingSecretsError
		if errors.As(err, &missing) {
			logger.Fatal("missing required secrets", zap.Strings("secrets", missing.RedactedNames()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	var translitOpts []translit.Option
	if cfg.Translit.ResourceEnabled {
		translitOpts = append(translitOpts, translit.WithResource(translit.SlugResource{}))
	}
	engine := translit.New(translitOpts...)

	translitLogger := logger.Named("transliteration")
	translitService, err := services.NewTransliterationService(services.TransliterationServiceDeps{
		Engine:         engine,
		Clock:          time.Now,
		MaxInputLength: cfg.Translit.MaxInputLength,
		Logger:         zapEventLogger(translitLogger),
	})
	if err != nil {
		logger.Fatal("failed to initialise transliteration service", zap.Error(err))
	}

	deliveryLogger := logger.Named("delivery")
	poster, err := delivery.NewClient(delivery.ClientDeps{
		SigningSecret:      []byte(cfg.Delivery.SigningSecret),
		Timeout:            cfg.Delivery.Timeout,
		MaxAttempts:        cfg.Delivery.MaxAttempts,
		BackoffBase:        cfg.Delivery.BackoffBase,
		BackoffCap:         cfg.Delivery.BackoffCap,
		BreakerMaxFailures: uint32(cfg.Delivery.BreakerMaxFailures),
		BreakerOpenTimeout: cfg.Delivery.BreakerOpenTimeout,
		Logger:             zapEventLogger(deliveryLogger),
	})
	if err != nil {
		logger.Fatal("failed to initialise delivery client", zap.Error(err))
	}
	dispatcher, err := delivery.NewDispatcher(delivery.DispatcherDeps{
		Poster:    poster,
		QueueSize: cfg.Delivery.QueueSize,
		Workers:   cfg.Delivery.Workers,
		Logger:    zapEventLogger(deliveryLogger),
	})
	if err != nil {
		logger.Fatal("failed to initialise delivery dispatcher", zap.Error(err))
	}
	dispatcherCtx, dispatcherCancel := context.WithCancel(context.Background())
	defer dispatcherCancel()
	dispatcher.Start(dispatcherCtx)

	idempotencyStore := idempotency.NewMemoryStore()
	idempotencyMiddleware := idempotency.Middleware(
		idempotencyStore,
		idempotency.WithHeader(cfg.Idempotency.Header),
		idempotency.WithTTL(cfg.Idempotency.TTL),
		idempotency.WithLogger(observability.NewPrintfAdapter(logger.Named("idempotency"))),
	)

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	var cleanupWG sync.WaitGroup
	var cleanupTicker *time.Ticker
	if cfg.Idempotency.CleanupInterval > 0 {
		cleanupTicker = time.NewTicker(cfg.Idempotency.CleanupInterval)
		cleanupWG.Add(1)
		go func() {
			defer cleanupWG.Done()
			cleanupLogger := logger.Named("idempotency")
			for {
				select {
				case <-cleanupTicker.C:
					removed, err := idempotencyStore.CleanupExpired(cleanupCtx, time.Now().UTC(), cfg.Idempotency.CleanupBatchSize)
					if err != nil {
						cleanupLogger.Error("idempotency cleanup error", zap.Error(err))
						continue
					}
					if removed > 0 {
						cleanupLogger.Info("idempotency cleanup removed records", zap.Int("count", removed))
					}
				case <-cleanupCtx.Done():
					return
				}
			}
		}()
	}

	hmacMiddleware := buildHMACMiddleware(logger.Named("auth"), cfg)
	if hmacMiddleware == nil {
		logger.Fatal("webhook HMAC secrets are required")
	}

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
		handlers.RateLimitMiddleware(cfg.RateLimits.DefaultPerMinute, time.Minute, nil),
	}

	webhookMiddlewares := []func(http.Handler) http.Handler{
		handlers.RateLimitMiddleware(cfg.RateLimits.WebhookPerMinute, time.Minute, nil),
		hmacMiddleware,
		idempotencyMiddleware,
	}

	translitHandlers := handlers.NewTransliterationHandlers(translitService)
	webhookHandlers := handlers.NewWebhookHandlers(translitService, dispatcher, cfg.Webhooks.AllowedHosts)
	healthHandlers := handlers.NewHealthHandlers()

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithTransliterationRoutes(translitHandlers.Routes),
		handlers.WithWebhookRoutes(webhookHandlers.Routes),
		handlers.WithWebhookMiddlewares(webhookMiddlewares...),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("arabic-phon-bot listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	if cleanupTicker != nil {
		cleanupTicker.Stop()
	}
	cleanupCancel()
	cleanupWG.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Error("delivery drain failed", zap.Error(err))
	}
}

func zapEventLogger(logger *zap.Logger) func(context.Context, string, map[string]any) {
	return func(_ context.Context, event string, fields map[string]any) {
		zFields := make([]zap.Field, 0, len(fields)+1)
		zFields = append(zFields, zap.String("event", event))
		for k, v := range fields {
			zFields = append(zFields, zap.Any(k, v))
		}
		logger.Debug("event log", zFields...)
	}
}

func buildHMACMiddleware(logger *zap.Logger, cfg config.Config) func(http.Handler) http.Handler {
	hmacSecrets := make(map[string]string)
	for key, value := range cfg.Webhooks.Secrets {
		if strings.TrimSpace(value) == "" {
			continue
		}
		hmacSecrets[strings.ToLower(key)] = value
	}
	if len(hmacSecrets) == 0 {
		return nil
	}

	provider := staticSecretProvider{secrets: hmacSecrets}
	nonces := auth.NewInMemoryNonceStore()
	adapter := observability.NewPrintfAdapter(logger)
	validator := auth.NewHMACValidator(provider, nonces,
		auth.WithHMACLogger(adapter),
		auth.WithHMACHeaders(cfg.Webhooks.SignatureHeader, cfg.Webhooks.TimestampHeader, cfg.Webhooks.NonceHeader),
		auth.WithHMACClockSkew(cfg.Webhooks.ClockSkew),
		auth.WithHMACNonceTTL(cfg.Webhooks.NonceTTL),
	)

	return validator.RequireHMACResolver(webhookSecretResolver(hmacSecrets))
}

type staticSecretProvider struct {
	secrets map[string]string
}

func (p staticSecretProvider) GetSecret(_ context.Context, name string) (string, error) {
	if len(p.secrets) == 0 {
		return "", errors.New("auth: hmac secrets not configured")
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", errors.New("auth: secret name required")
	}
	if secret, ok := p.secrets[key]; ok && secret != "" {
		return secret, nil
	}
	return "", errors.New("auth: secret not found")
}

// webhookSecretResolver maps the caller identifier header to its signing
// secret, falling back to "default" so a single-tenant deployment needs no
// per-caller configuration.
func webhookSecretResolver(secrets map[string]string) func(*http.Request) (string, bool) {
	return func(r *http.Request) (string, bool) {
		caller := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Caller-Id")))
		if caller != "" {
			if secret, ok := secrets[caller]; ok && secret != "" {
				return caller, true
			}
			return "", false
		}
		if secret, ok := secrets["default"]; ok && secret != "" {
			return "default", true
		}
		return "", false
	}
}

func newSecretFetcher(ctx context.Context, logger *zap.Logger, env map[string]string) (*secrets.Fetcher, error) {
	lookup := func(key string) string {
		if env == nil {
			return ""
		}
		if value, ok := env[key]; ok {
			return strings.TrimSpace(value)
		}
		return ""
	}

	fallbackPath := lookup("BOT_SECRETS_FALLBACK_FILE")
	if fallbackPath == "" {
		fallbackPath = ".secrets.local"
	}

	opts := []secrets.Option{
		secrets.WithLogger(logger.Named("secrets")),
		secrets.WithFallbackFile(fallbackPath),
	}
	if project := lookup("BOT_SECRETS_PROJECT_ID"); project != "" {
		opts = append(opts, secrets.WithDefaultProject(project))
	}

	return secrets.NewFetcher(ctx, opts...)
}
