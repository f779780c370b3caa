// main.go - Entry point for the course catalogue API server

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"go-course-api/audit"
	"go-course-api/config"
	"go-course-api/database"
	"go-course-api/logging"
	"go-course-api/models"
	"go-course-api/mqtt"
	"go-course-api/router"
)

func main() {
	// STEP 1: Load configuration and establish connections
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)
	gin.SetMode(cfg.GinMode)
	models.HashCost = cfg.BcryptCost

	db, err := database.Connect(database.Options{Driver: cfg.DBDriver, DSN: cfg.DBPath, LogSQL: cfg.DBLogSQL})
	if err != nil {
		log.Error("database connection error", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("close database", "error", err)
		}
	}()

	recorders := audit.Multi{audit.NewSlogRecorder(log)}
	if cfg.MQTTBroker != "" {
		client, err := mqtt.Connect(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			log.Error("mqtt connection error", "broker", cfg.MQTTBroker, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		mqttAudit := audit.NewMQTTRecorder(client, cfg.MQTTTopicPrefix, log)
		defer mqttAudit.Close() // runs before client.Close, flushing the queue
		recorders = append(recorders, mqttAudit)
		log.Info("publishing audit events over mqtt", "broker", cfg.MQTTBroker, "prefix", cfg.MQTTTopicPrefix)
	}

	// STEP 2: Build the router
	r := router.New(router.Deps{
		DB:          db,
		Audit:       recorders,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	// STEP 3: Start the web server and wait for a shutdown signal
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
}
