package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/petcarelabs/vetclinic-api/internal/config"
	dbpkg "github.com/petcarelabs/vetclinic-api/internal/db"
	"github.com/petcarelabs/vetclinic-api/internal/infra/slotlock"
	"github.com/petcarelabs/vetclinic-api/internal/logger"
	"github.com/petcarelabs/vetclinic-api/internal/routes"
	"github.com/petcarelabs/vetclinic-api/internal/seed"
	"github.com/petcarelabs/vetclinic-api/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Env)
	defer log.Sync()

	db := dbpkg.NewDB(cfg)

	// Redis is optional; without it slot locking degrades to the
	// database unique index alone.
	var locker slotlock.Locker = slotlock.Nop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis unreachable, slot locks disabled", zap.Error(err))
		} else {
			locker = slotlock.NewRedisLocker(rdb, 10*time.Second)
			log.Info("redis slot locking enabled", zap.String("addr", cfg.RedisAddr))
		}
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sweepUC := routes.RegisterRoutes(r, db, cfg, locker, log)

	seed.Run(db, cfg, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := worker.NewSweeper(sweepUC, cfg.SweepInterval, log)
	sweeper.Start(ctx)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	sweeper.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
