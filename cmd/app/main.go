package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"novel-vip-service/internal/config"
	pg "novel-vip-service/internal/infra/db/postgres"
	"novel-vip-service/internal/infra/logging"
	"novel-vip-service/internal/infra/metrics"
	red "novel-vip-service/internal/infra/redis"
	"novel-vip-service/internal/infra/sched"
	"novel-vip-service/internal/infra/web"
	"novel-vip-service/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (query-param identity fallback)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	accountRepo := pg.NewAccountRepo(pool)
	codeRepo := pg.NewRewardCodeRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Use cases ----
	clock := usecase.NewRealClock()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	entitlementUC := usecase.NewEntitlementUseCase(accountRepo, clock, logger)
	codeTTL := time.Duration(cfg.Wheel.CodeTTLDays) * 24 * time.Hour
	wheelUC, err := usecase.NewWheelUseCase(codeRepo, clock, rng, usecase.DefaultPrizeTable, codeTTL, logger)
	if err != nil {
		log.Fatalf("wheel: %v", err)
	}
	redeemUC := usecase.NewRedemptionUseCase(codeRepo, entitlementUC, tm, clock, logger)
	purchaseUC := usecase.NewPurchaseUseCase(entitlementUC, tm, clock, logger)

	// ---- HTTP server ----
	metrics.MustRegister()
	auth := web.NewAuthManager(cfg.Auth.Secret, cfg.Runtime.Dev)
	srv := web.NewServer(wheelUC, redeemUC, purchaseUC, auth, rateLimiter, cfg.Wheel.DailySpinLimit, logger)
	mux := http.NewServeMux()
	mux.Handle("/", srv.Routes())
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: mux}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Code expiry sweep ----
	worker := sched.NewCodeExpiryWorker(cfg.Sweep.Interval, codeRepo, clock, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
