package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/verikey/otp-service/internal/api"
	"github.com/verikey/otp-service/internal/core/ports"
	"github.com/verikey/otp-service/internal/core/service"
	"github.com/verikey/otp-service/internal/infrastructure/config"
	memorydb "github.com/verikey/otp-service/internal/infrastructure/db/memory"
	mongodb "github.com/verikey/otp-service/internal/infrastructure/db/mongo"
	redisdb "github.com/verikey/otp-service/internal/infrastructure/db/redis"
	"github.com/verikey/otp-service/internal/infrastructure/queue"
	"github.com/verikey/otp-service/pkg/logger"
	"github.com/verikey/otp-service/pkg/otpgen"

	goredis "github.com/redis/go-redis/v9"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	// --- MongoDB (users + audit trail) ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index bootstrap failed")
	}

	// --- Code store backend ---
	var (
		rdb      *goredis.Client
		otpStore ports.OtpStore
	)
	switch cfg.Otp.Backend {
	case "redis":
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = rdb.Close() }()
		otpStore = redisdb.NewOtpStore(rdb)
	case "memory":
		log.Warn().Msg("memory code store active: codes are lost on restart and not shared across instances")
		otpStore = memorydb.NewOtpStore()
	default:
		log.Fatal().Str("backend", cfg.Otp.Backend).Msg("unknown OTP_BACKEND")
	}

	gen, err := otpgen.New(cfg.Otp.CodeAlphabet, cfg.Otp.CodeLength)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid code generator configuration")
	}

	// --- Services ---
	auditService := service.NewAuditService(mongodb.NewAuditRepository(db), log)
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)
	dispatcher.Start(ctx)

	authService := service.NewAuthService(mongodb.NewUserRepository(db), cfg.JWTSecret, cfg.TokenTTL)
	otpService := service.NewOtpService(otpStore, gen, dispatcher, service.OtpPolicy{
		TTL:             cfg.Otp.TTL,
		MaxAttempts:     cfg.Otp.MaxAttempts,
		BindPrincipal:   cfg.Otp.BindPrincipal,
		StrictOperation: cfg.Otp.StrictOperation,
	}, log)

	e := api.NewRouter(api.Deps{
		Auth:      authService,
		Otp:       otpService,
		Audit:     auditService,
		JWTSecret: cfg.JWTSecret,
		Mongo:     db,
		Redis:     rdb,
		Log:       log,
	})

	// --- Graceful shutdown ---
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info().Msg("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		cancel()
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("otp_backend", cfg.Otp.Backend).
		Bool("strict_operation", cfg.Otp.StrictOperation).
		Bool("bind_principal", cfg.Otp.BindPrincipal).
		Msg("starting otp service")

	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
