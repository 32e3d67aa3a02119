package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pixshop/storefront/internal/config"
	"github.com/pixshop/storefront/internal/httpserver"
	"github.com/pixshop/storefront/internal/mykafka"
	"github.com/pixshop/storefront/internal/pixup"
	"github.com/pixshop/storefront/internal/repo"
	cartservice "github.com/pixshop/storefront/internal/service/cart"
	"github.com/pixshop/storefront/internal/service/checkout"
	"github.com/pixshop/storefront/pkg/logging"
	loggingmw "github.com/pixshop/storefront/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka init error: %v", err)
		}
	} else {
		logger.Warn("KAFKA_BROKERS not set, lifecycle events disabled")
	}

	pixupClient, err := pixup.NewClient(cfg.PixupBaseURL, cfg.PixupClientID, cfg.PixupClientSecret)
	if err != nil {
		if cfg.Production() {
			log.Fatalf("pixup init error: %v", err)
		}
		logger.Warn("pixup not configured, checkout will use the local fallback", "error", err)
	}

	gormRepo := &repo.GormRepo{DB: db}
	cartSvc := &cartservice.Service{Repo: gormRepo}
	checkoutSvc := &checkout.Service{
		Repo:          gormRepo,
		Cart:          cartSvc,
		Events:        eventPublisher(producer),
		WebhookSecret: cfg.PixupWebhookSecret,
		Production:    cfg.Production(),
	}
	if pixupClient != nil {
		checkoutSvc.Provider = pixupClient
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		CartHandler:     &httpserver.CartHTTP{Svc: cartSvc},
		ProductHandler:  &httpserver.ProductHTTP{Repo: gormRepo},
		CheckoutHandler: &httpserver.CheckoutHTTP{Svc: checkoutSvc, Production: cfg.Production()},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("starting server", "port", cfg.ServerPort, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// eventPublisher avoids storing a typed nil in the service's interface field.
func eventPublisher(p *mykafka.Producer) checkout.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
