package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cyclesafe-be/config"
	"cyclesafe-be/controllers"
	"cyclesafe-be/middlewares"
	"cyclesafe-be/routes"
	"cyclesafe-be/services"
	"cyclesafe-be/store"
	authUtils "cyclesafe-be/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := config.SetupLogger(cfg.Env)
	slog.SetDefault(logger)
	if cfg.Env != "local" && cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := config.ConnectDB(ctx, cfg.Mongo, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := db.Close(shutdownCtx); err != nil {
			logger.Error("mongo disconnect", slog.String("error", err.Error()))
		}
	}()

	var reportLimiter gin.HandlerFunc
	if cfg.RateLimitEnabled() {
		rdb, err := config.ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer rdb.Close()
		reportLimiter = middlewares.IncidentRateLimiter(
			middlewares.NewRedisCounter(rdb),
			cfg.RateLimit.KeyPrefix, cfg.RateLimit.Limit, cfg.RateLimit.Window, logger)
	} else {
		logger.Warn("REDIS_ADDRESS not set, incident reports are not rate limited")
	}

	tokens := authUtils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)

	incidentService := services.NewIncidentService(store.NewIncidentStore(db.DB, cfg.Mongo.Timeout), nil)
	routeService := services.NewRouteService(store.NewRouteStore(db.DB, cfg.Mongo.Timeout), nil)
	authService := services.NewAuthService(store.NewUserStore(db.DB, cfg.Mongo.Timeout), tokens, nil)
	profileService := services.NewProfileService(store.NewProfileStore(db.DB, cfg.Mongo.Timeout), nil)

	router, err := routes.NewRouter(routes.Controllers{
		Incidents: controllers.NewIncidentController(incidentService, logger),
		Routes:    controllers.NewRouteController(routeService, logger),
		Auth: controllers.NewAuthController(authService, controllers.CookieConfig{
			Domain: cfg.CookieDomain,
			Secure: cfg.Env == "production",
			MaxAge: cfg.JWT.TTL,
		}, logger),
		Profiles: controllers.NewProfileController(profileService, logger),
		Health:   controllers.NewHealthController(db, logger),
	}, routes.Options{
		Tokens:         tokens,
		CORSOrigins:    cfg.CORSOrigins,
		MaxBodySize:    cfg.MaxBodySize,
		TrustedProxies: cfg.TrustedProxies,
		ReportLimiter:  reportLimiter,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", srv.Addr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
