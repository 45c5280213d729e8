package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/lincup/config"
	"github.com/oksasatya/lincup/internal/container"
	pginfra "github.com/oksasatya/lincup/internal/infrastructure/postgres"
	"github.com/oksasatya/lincup/internal/infrastructure/recommender"
	"github.com/oksasatya/lincup/internal/interface/middleware"
	"github.com/oksasatya/lincup/internal/router"
	"github.com/oksasatya/lincup/pkg/helpers"
	"github.com/oksasatya/lincup/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Redis holds sessions and rate limits, and the courses/users collections for the redis driver.
	// Only the memory driver runs without it: sessions stay in process and rate limiting is off.
	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	switch {
	case err == nil:
		defer func() { _ = rdb.Close() }()
	case cfg.StorageDriver == container.DriverMemory:
		logger.WithError(err).Warn("redis unavailable; in-process sessions, no rate limiting")
		rdb = nil
	default:
		logger.WithError(err).Fatal("failed to connect to redis")
	}

	if cfg.StorageDriver == container.DriverPostgres {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to postgres")
		}
		defer pool.Close()
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.WithError(err).Fatal("migration failed")
		}
		container.SetPGPool(pool)
	}

	users, courses, err := container.NewRepositories(cfg.StorageDriver, container.GetPGPool(), rdb, "")
	if err != nil {
		logger.WithError(err).Fatal("storage")
	}
	logger.WithField("driver", cfg.StorageDriver).Info("storage ready")

	// Optional infrastructure: each is skipped when unconfigured
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(helpers.ESOptions{Addrs: addrs, Username: cfg.ElasticsearchUser, Password: cfg.ElasticsearchPass})
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled")
		} else {
			container.SetES(es)
		}
	}
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("catalog export disabled")
		} else {
			defer func() { _ = gcsClient.Close() }()
			container.SetGCS(gcsClient)
		}
	}
	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("email queue disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}
	if cfg.OpenAIAPIKey != "" {
		container.SetRecommender(recommender.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.RecommenderModel, logger))
	} else {
		logger.Warn("OPENAI_API_KEY not set; club recommendations use the fallback list")
	}

	// Provide singletons to the container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL))
	container.SetUserRepo(users)
	container.SetCourseRepo(courses)
	container.SetSessions(container.NewSessionStore(rdb, cfg.SessionTTL))

	svc := router.BuildServices()
	if container.GetES() != nil {
		go func() {
			c, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			n, err := svc.Catalog.ReindexAll(c)
			if err != nil {
				logger.WithError(err).Warn("course reindex failed")
				return
			}
			logger.WithField("courses", n).Info("course index rebuilt")
		}()
	}

	// Gin engine and global middleware
	r := gin.New()
	if !cfg.TrustProxyHeaders {
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP(cfg.TrustProxyHeaders))
	r.Use(middleware.Prometheus())
	origins := cfg.CORSOrigins()
	if len(origins) == 0 {
		logger.Info("CORS_ALLOWED_ORIGINS empty; cross-origin requests are not allowed")
	}
	r.Use(middleware.CORS(origins))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, svc)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	logger.Info("server exited properly")
}
