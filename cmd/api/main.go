package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"devconnector/internal/core/auth"
	"devconnector/internal/core/cache"
	"devconnector/internal/core/config"
	"devconnector/internal/core/database"
	"devconnector/internal/core/logger"
	"devconnector/internal/core/server"
	"devconnector/internal/repo"
	"devconnector/internal/service"
	"devconnector/internal/transport/http/handler"
	mdw "devconnector/internal/transport/http/middleware"
	"devconnector/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		// 配置还没加载，用默认 console logger 报错
		boot, done := logger.New("info", false)
		boot.Error("config load failed", zap.Error(err))
		done()
		os.Exit(1)
	}
	log, cleanup := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// redis is optional; without it GitHub listings are not cached
	var rc *cache.Cache
	if cfg.Redis.Addr != "" {
		rc = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer rc.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, continuing without warm cache", zap.Error(err))
		}
		cancel()
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.ExpiresInSec) * time.Second,
	}

	users, profiles := repo.NewUserRepo(db), repo.NewProfileRepo(db)
	authSvc := service.NewAuthService(users, jwter)
	profileSvc := service.NewProfileService(profiles, users, log)
	githubSvc := service.NewGithubService(service.GithubOptions{
		BaseURL:      cfg.Github.BaseURL,
		ClientID:     cfg.Github.ClientID,
		ClientSecret: cfg.Github.ClientSecret,
		Timeout:      time.Duration(cfg.Github.TimeoutSec) * time.Second,
		CacheTTL:     time.Duration(cfg.Github.CacheTTLSec) * time.Second,
	}, rc, log)

	mode := gin.DebugMode
	if cfg.App.Env == "prod" {
		mode = gin.ReleaseMode
	}
	r := router.NewAPIEngine(log, jwter, router.Options{
		Mode:           mode,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		RateRPS:        cfg.HTTP.RateRPS,
		RateBurst:      cfg.HTTP.RateBurst,
		MaxConcurrency: cfg.HTTP.MaxConcurrency,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		RequestTimeout: time.Duration(cfg.HTTP.RequestTimeoutSec) * time.Second,
	},
		handler.NewAuthHandler(authSvc, log, mdw.RateLimitPerIP(rate.Limit(cfg.HTTP.LoginRateRPS), cfg.HTTP.LoginRateBurst)),
		handler.NewProfileHandler(profileSvc, githubSvc, log),
	)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
		zap.Bool("redis", rc != nil),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		LogWriter:          logger.ToWriter(l.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
