package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/3lielnashar/Customers-map/internal/config"
	"github.com/3lielnashar/Customers-map/internal/handler"
	"github.com/3lielnashar/Customers-map/internal/lock"
	"github.com/3lielnashar/Customers-map/internal/provider"
	"github.com/3lielnashar/Customers-map/internal/repository"
	"github.com/3lielnashar/Customers-map/internal/service"
	"github.com/3lielnashar/Customers-map/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// @title        Customers Map API
// @version      1.0
// @description  Customer locations with reverse-geocoded addresses, CSV exchange and map proxies.
// @BasePath     /
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := telemetry.SetupLogger(config.LogLevel, config.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.InitTracerProvider(ctx, telemetry.TracingConfig{
		CollectorURL: config.OTELCollectorURL,
		ServiceName:  config.OTELServiceName,
		Insecure:     config.OTELInsecure,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot init tracing")
	}

	store, err := repository.Open(ctx, config)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", config.StoreDriver).Msg("cannot connect to store")
	}

	locker, closeLocker, err := lock.Open(ctx, lock.RedisOptions{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
		TTL:      config.ImportLockTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to redis")
	}

	if config.MapsAPIKey == "" {
		logger.Warn().Msg("GOOGLE_MAPS_API_KEY is empty, addresses will resolve to lookup failures")
	}

	// Initialize layers
	maps := provider.NewGoogleMaps(config.MapsAPIKey, config.ProviderBaseURL, config.ProviderTimeout)
	enricher := service.NewEnricher(maps, config.ProviderTimeout, logger)

	locationService := service.NewLocationService(store, enricher, config.EnforceCoordRange, logger)
	exchangeService := service.NewExchangeService(store, locker, logger)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.RouterConfig{
		Logger:         logger,
		AllowOrigins:   config.AllowedOrigins(),
		MaxUploadBytes: config.MaxUploadBytes,
		StaticDir:      config.StaticDir,
		MapsAPIKey:     config.MapsAPIKey,
	},
		handler.NewCustomerHandler(locationService),
		handler.NewExchangeHandler(exchangeService),
		handler.NewMapsHandler(maps),
	)

	srv := &http.Server{
		Addr:         config.ServerAddress,
		Handler:      otelhttp.NewHandler(router, config.OTELServiceName),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", config.ServerAddress).Str("store", config.StoreDriver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("store close")
	}
	if err := closeLocker(); err != nil {
		logger.Error().Err(err).Msg("redis close")
	}
	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("tracer shutdown")
		}
	}
}
