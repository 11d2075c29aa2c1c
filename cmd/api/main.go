package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user_manager/internal/cache"
	"user_manager/internal/config"
	"user_manager/internal/db"
	"user_manager/internal/handler"
	"user_manager/internal/middleware"
	"user_manager/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := config.Load()
	database := db.Init(&cfg.DB)

	defer func() {
		if err := database.Close(); err != nil {
			logrus.WithError(err).Fatal("Failed to close database connection")
		}
	}()

	if err := db.Migrate(database); err != nil {
		logrus.WithError(err).Fatal("Failed to run database migrations")
	}

	rdb := cache.SetupRedis(&cfg.Redis)
	defer func() {
		if err := rdb.Close(); err != nil {
			logrus.WithError(err).Fatal("Failed to close redis connection")
		}
	}()

	// Initialize Prometheus metrics
	observability.InitMetrics()
	logrus.Info("Metrics initialized")

	r := handler.SetupHandler(database, rdb, cfg)

	// Add Prometheus middleware
	r.Use(middleware.PrometheusMiddleware(observability.GlobalMetrics))

	// Expose /metrics endpoint for Prometheus to scrape
	r.GET("/metrics", func(c *gin.Context) {
		promhttp.Handler().ServeHTTP(c.Writer, c.Request)
	})
	logrus.Info("Metrics endpoint exposed at /metrics")

	// Export connection pool stats
	go func() {
		for range time.Tick(15 * time.Second) {
			stats := database.Stats()
			observability.GlobalMetrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
			observability.GlobalMetrics.DBConnectionsInUse.Set(float64(stats.InUse))
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logrus.Infof("Starting server on :%s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")
}
