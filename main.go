package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	intconfig "craneorders/internal/config"
	router "craneorders/internal/http"
	"craneorders/internal/services"
	"craneorders/internal/utils"
)

func main() {
	intconfig.LoadDotEnv()
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	logger, err := utils.InitLogger(env.LogLevel, env.LogDev)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := intconfig.ConnectDB(context.Background(), env)
	if err != nil {
		logger.Fatal("database connection failed", zap.String("host", env.DBHost), zap.Error(err))
	}
	defer intconfig.CloseDB()
	logger.Info("connected to MySQL", zap.String("database", env.DBName))

	rates, err := intconfig.LoadRates(env.RatesFile)
	if err != nil {
		logger.Fatal("cannot load rates file", zap.String("path", env.RatesFile), zap.Error(err))
	}

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	res, err := services.Bootstrap{
		DB:            db,
		AdminEmail:    env.DefaultAdminEmail,
		AdminPassword: env.DefaultAdminPassword,
		AdminName:     env.DefaultAdminName,
		Rates:         rates,
	}.Run(bootCtx)
	cancelBoot()
	if err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}
	if res.AdminCreated {
		logger.Warn("default admin account created, change its password", zap.String("email", env.DefaultAdminEmail))
	}

	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	logger.Info("server stopped")
}
