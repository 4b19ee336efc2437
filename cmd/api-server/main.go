package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/Cabdinasir64/portfolio-backend/internal/api"
	"github.com/Cabdinasir64/portfolio-backend/internal/config"
	"github.com/Cabdinasir64/portfolio-backend/internal/contact"
	"github.com/Cabdinasir64/portfolio-backend/internal/delivery"
	"github.com/Cabdinasir64/portfolio-backend/internal/iplookup"
	"github.com/Cabdinasir64/portfolio-backend/internal/logger"
	"github.com/Cabdinasir64/portfolio-backend/internal/provider"
	"github.com/Cabdinasir64/portfolio-backend/internal/ratelimit"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewFromOptions(logger.Options{
		Level:     cfg.Logging.Level,
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
		Service:   "portfolio-backend",
	})
	log.Info().Msg("starting API server")

	ctx := context.Background()

	// Mail provider and delivery pipeline
	mailProvider, err := provider.NewProvider(ctx, providerConfig(cfg.Mail), nil)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.Mail.Provider).Msg("failed to create mail provider")
	}
	log.Info().Str("provider", mailProvider.GetName()).Msg("mail provider configured")

	healthChecker := provider.NewHealthChecker(log, mailProvider)
	healthChecker.Start()
	defer healthChecker.Stop()

	validator, err := contact.NewValidator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create submission validator")
	}
	gateway := delivery.NewGateway(mailProvider, delivery.Options{
		FromAddress:  cfg.Mail.FromAddress,
		Timeout:      cfg.Mail.Timeout,
		MaxRetries:   cfg.Mail.MaxRetries,
		RetryBackoff: cfg.Mail.RetryBackoff,
	}, log)
	contactService := contact.NewService(validator, contact.NewFormatter(cfg.Mail.Recipient), gateway, log)

	readiness := []api.ReadinessCheck{{Name: "mail_provider", Check: healthChecker.Ready}}

	// Rate limit counter store
	var store ratelimit.Store
	switch cfg.RateLimit.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.Redis.Addr,
			Password: cfg.RateLimit.Redis.Password,
			DB:       cfg.RateLimit.Redis.DB,
		})
		defer client.Close()

		redisStore := ratelimit.NewRedisStore(client)
		if err := redisStore.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RateLimit.Redis.Addr).Msg("redis unreachable at startup, rate limiting fails open")
		}
		readiness = append(readiness, api.ReadinessCheck{Name: "ratelimit_store", Check: redisStore.Ping})
		store = redisStore
		log.Info().Str("addr", cfg.RateLimit.Redis.Addr).Msg("rate limit store: redis")
	default:
		memStore := ratelimit.NewMemoryStore()
		defer memStore.Close()
		store = memStore
		log.Info().Msg("rate limit store: memory")
	}

	router := api.NewRouter(api.RouterConfig{
		Log:          log,
		Contact:      contactService,
		IPLookup:     iplookup.New(cfg.IPLookup.UpstreamURL, cfg.IPLookup.Timeout, log),
		IPLimiter:    ratelimit.New("ip", store, cfg.RateLimit.Limit, cfg.RateLimit.Window, log),
		IPAPIKey:     cfg.IPLookup.APIKey,
		Readiness:    readiness,
		CORSOrigins:  cfg.API.CORSOrigins,
		TrustProxy:   cfg.API.TrustProxy,
		MaxBodyBytes: cfg.API.MaxBodyBytes,
	})

	// Configure HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
		IdleTimeout:  cfg.API.IdleTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// providerConfig maps the mail section of the service config onto the provider package.
func providerConfig(m config.MailConfig) provider.ProviderConfig {
	return provider.ProviderConfig{
		Type:      m.Provider,
		APIKey:    m.APIKey,
		SecretKey: m.SecretKey,
		Endpoint:  m.Endpoint,
		Region:    m.Region,
		Domain:    m.Domain,
		Timeout:   m.Timeout,
		SMTP: provider.SMTPSettings{
			Host:               m.SMTP.Host,
			Port:               m.SMTP.Port,
			Username:           m.SMTP.Username,
			Password:           m.SMTP.Password,
			TLSMode:            m.SMTP.TLSMode,
			InsecureSkipVerify: m.SMTP.InsecureSkipVerify,
			LocalName:          m.SMTP.LocalName,
		},
	}
}
