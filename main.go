package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-mailing-api/src/infrastructure/di"
	"go-mailing-api/src/infrastructure/helper"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/rest/middlewares"
	"go-mailing-api/src/infrastructure/rest/routes"
	"go-mailing-api/src/infrastructure/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:            utils.GetEnv("SERVER_PORT", "8080"),
		ReadTimeout:     utils.GetEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    utils.GetEnvAsDuration("SERVER_WRITE_TIMEOUT", 5*time.Minute),
		ShutdownTimeout: utils.GetEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func newLogger(env string) (*logger.Logger, error) {
	if env == "development" {
		return logger.NewDevelopmentLogger()
	}
	return logger.NewLogger()
}

func main() {
	if err := utils.LoadDotEnv(); err != nil {
		panic(fmt.Errorf("error loading .env: %w", err))
	}
	env := utils.GetEnv("GO_ENV", "development")
	loggerInstance, err := newLogger(env)
	if err != nil {
		panic(fmt.Errorf("error initializing logger: %w", err))
	}
	defer func() {
		_ = loggerInstance.Log.Sync()
	}()

	loggerInstance.Info("Starting go-mailing-api application", zap.String("env", env))

	serverConfig := loadServerConfig()

	appContext, err := di.SetupDependencies(loggerInstance)
	if err != nil {
		loggerInstance.Panic("Error initializing application context", zap.Error(err))
	}
	if err := helper.RegisterBindingValidations(); err != nil {
		loggerInstance.Panic("Error registering request validations", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if responseCache := appContext.ResponseCache; responseCache != nil {
		go responseCache.Start()
		defer responseCache.Stop()
	}
	if roleCache := appContext.RoleCache; roleCache != nil {
		go roleCache.Start()
		defer roleCache.Stop()
	}

	router := setupRouter(appContext, loggerInstance, env)
	server := setupServer(router, serverConfig)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			loggerInstance.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	loggerInstance.Info("Server starting", zap.String("port", serverConfig.Port))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		loggerInstance.Panic("Server failed to start", zap.Error(err))
	}
	loggerInstance.Info("Server stopped")
}

func setupRouter(appContext *di.ApplicationContext, loggerInstance *logger.Logger, env string) *gin.Engine {
	if env == "development" {
		loggerInstance.SetupGinWithZapLoggerInDevelopment()
	} else {
		loggerInstance.SetupGinWithZapLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.Use(middlewares.ErrorHandler())
	router.Use(middlewares.GinBodyLogMiddleware(loggerInstance))
	router.Use(middlewares.CommonHeaders)
	router.Use(loggerInstance.GinZapLogger())

	routes.ApplicationRouter(router, appContext)
	return router
}

func setupServer(router *gin.Engine, config ServerConfig) *http.Server {
	return &http.Server{
		Addr:           ":" + config.Port,
		Handler:        router,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
