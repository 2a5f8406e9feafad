package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vkotelev/foodline/internal/config"
	"github.com/vkotelev/foodline/internal/httpserver"
	"github.com/vkotelev/foodline/internal/identity"
	"github.com/vkotelev/foodline/internal/logging"
	"github.com/vkotelev/foodline/internal/metrics"
	mwauth "github.com/vkotelev/foodline/internal/middleware/auth"
	loggingmw "github.com/vkotelev/foodline/internal/middleware/logging"
	"github.com/vkotelev/foodline/internal/mykafka"
	"github.com/vkotelev/foodline/internal/push"
	"github.com/vkotelev/foodline/internal/repo"
	"github.com/vkotelev/foodline/internal/search"
	"github.com/vkotelev/foodline/internal/service"
	"github.com/vkotelev/foodline/internal/storage"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	if len(cfg.IdentityJWTSecret) == 0 {
		config.MustNonEmpty(cfg.IdentityVerifyURL, "IDENTITY_VERIFY_URL")
	}

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := repo.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	var esClient *elasticsearch.Client
	if cfg.ESURL != "" {
		esClient, err = search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(registry)

	identityClient := identity.NewClient(cfg.IdentityVerifyURL, cfg.IdentityProfileURL, cfg.IdentityJWTSecret)
	dispatcher := push.NewDispatcher(cfg.PushURL, cfg.PushServerKey)
	storageClient := storage.NewClient(cfg.StorageURL)

	userService := &service.UserService{Repo: gormRepo, Mirror: identityClient}
	cartService := &service.CartService{Repo: gormRepo}
	orderService := &service.OrderService{Repo: gormRepo, Notifier: dispatcher, Metrics: m}
	reportService := &service.ReportService{Repo: gormRepo}
	catalogService := &service.CatalogService{Repo: gormRepo, ES: esClient, Storage: storageClient}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Auth:     mwauth.NewMiddleware(identityClient, userService),
		Cart:     &httpserver.CartHTTP{Svc: cartService, Producer: producer},
		Order:    &httpserver.OrderHTTP{Svc: orderService, Reports: reportService, Producer: producer},
		Product:  &httpserver.ProductHTTP{Svc: catalogService, Producer: producer},
		User:     &httpserver.UserHTTP{Svc: userService},
		Registry: registry,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
