package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/0xgasc/flyin-sub000/config"
	"github.com/0xgasc/flyin-sub000/internal/bootstrap"
	"github.com/0xgasc/flyin-sub000/internal/cache"
	"github.com/0xgasc/flyin-sub000/internal/kafka"
	"github.com/0xgasc/flyin-sub000/internal/pricing"
	"github.com/0xgasc/flyin-sub000/internal/repository"
	"github.com/0xgasc/flyin-sub000/internal/service/booking"
	"github.com/0xgasc/flyin-sub000/internal/service/experiences"
	"github.com/0xgasc/flyin-sub000/internal/service/ledger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Cache)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	engine := pricing.NewEngine(pricing.Rates{
		HourlyRate:      cfg.Pricing.HourlyRate,
		CruiseSpeedKmh:  cfg.Pricing.CruiseSpeedKmh,
		PerPassengerFee: cfg.Pricing.PerPassengerFee,
	})

	bookingRepo := repository.NewBookingRepository(pool)
	transactionRepo := repository.NewTransactionRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)
	experienceRepo := repository.NewExperienceRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		experienceRepo,
		engine,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	ledgerService := ledger.NewLedgerService(
		transactionRepo,
		accountRepo,
		redisCache,
		producer,
		cfg.Kafka.LedgerEventsTopic,
	)
	experienceService := experiences.NewExperienceService(experienceRepo, redisCache)

	if err := bootstrap.Run(ctx, cfg, bookingService, ledgerService, experienceService); err != nil {
		logrus.WithError(err).Fatal("server error")
	}
}
