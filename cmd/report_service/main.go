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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/cityassist/backend/config"
	"github.com/cityassist/backend/internal/application"
	gcsinfra "github.com/cityassist/backend/internal/infrastructure/gcs"
	pginfra "github.com/cityassist/backend/internal/infrastructure/postgres"
	"github.com/cityassist/backend/internal/infrastructure/search"
	handlers "github.com/cityassist/backend/internal/interface/http"
	"github.com/cityassist/backend/internal/interface/middleware"
	"github.com/cityassist/backend/internal/router"
	"github.com/cityassist/backend/internal/router/modules"
	"github.com/cityassist/backend/pkg/helpers"
	"github.com/cityassist/backend/pkg/validation"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-report-service", cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	// Image store is optional in local development.
	var images application.ImageStore
	if cfg.GCSBucket != "" {
		gcsClient, err := gcsinfra.NewClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		images = gcsinfra.NewImageStore(gcsClient, cfg.GCSBucket)
	}

	var index application.ReportIndexer
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		esClient, err := search.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable, report search disabled")
		} else {
			index = search.NewReportIndex(esClient, cfg.ESReportsIndex)
		}
	}

	var notifier application.Notifier
	pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQNotifyQueue)
	if err != nil {
		logger.WithError(err).Warn("rabbitmq unavailable, report notifications disabled")
	} else {
		defer pub.Close()
		notifier = pub
	}

	reportRepo := pginfra.NewReportRepository(pool)
	userRepo := pginfra.NewUserRepository(pool)
	reportSvc := application.NewReportService(reportRepo, userRepo, images, notifier, index, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		// No origins configured; open up for local development.
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	reg.Add(modules.NewReportModule(handlers.NewReportHandler(reportSvc, logger), jwtManager, rdb))
	reg.RegisterAll()

	serve(r, cfg.ReportServicePort, logger)
}

func serve(handler http.Handler, port string, logger *logrus.Logger) {
	srv := &http.Server{Addr: ":" + port, Handler: handler}
	go func() {
		logger.Infof("server starting on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
