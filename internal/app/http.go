package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/construct-tasks/internal/config"
	"github.com/adanyl0v/construct-tasks/internal/delivery/http/v1"
	"github.com/adanyl0v/construct-tasks/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.ContextWithFallback = true
	router.Use(gin.Recovery())
	registerRoutes(router, httpCfg)

	server := &http.Server{
		Addr:              net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:           router,
		ReadHeaderTimeout: httpCfg.ReadHeaderTimeout,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Strs("cors_allowed_origins", httpCfg.CORSAllowedOrigins).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	// SIGKILL can't be caught, so only SIGINT and SIGTERM are handled.
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router *gin.Engine, httpCfg config.HTTPConfig) {
	taskService := services.NewTaskService(globalLogger, globalPostgresPool)
	v1Handler := v1.New(globalLogger, taskService)

	router.Use(
		v1Handler.HandleRequestID,
		v1Handler.HandleRequestLogging,
		v1.NewCORSMiddleware(httpCfg.CORSAllowedOrigins),
	)
	v1.RegisterRoutes(router, v1Handler)
}
