package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/0xgasc/flyin-sub000/config"
	"github.com/0xgasc/flyin-sub000/internal/email"
	"github.com/0xgasc/flyin-sub000/internal/kafka"
	"github.com/0xgasc/flyin-sub000/internal/repository"
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

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	transactionRepo := repository.NewTransactionRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender()

	go func() {
		if err := consumer.ConsumeBookingEvents(ctx, sender.Send); err != nil {
			logrus.WithError(err).Info("consumer stopped")
		}
	}()

	sweep := time.NewTicker(time.Duration(cfg.Worker.ReminderSweepMinutes) * time.Minute)
	defer sweep.Stop()

	reminderAge := time.Duration(cfg.Worker.TransferReminderHours) * time.Hour

	for {
		select {
		case <-sweep.C:
			remindPendingTransfers(ctx, transactionRepo, producer, cfg.Kafka.LedgerEventsTopic, reminderAge)
		case <-ctx.Done():
			logrus.Info("shutting down")
			return
		}
	}
}

// remindPendingTransfers nudges admins about bank transfers that have sat in
// the review queue past the reminder age.
func remindPendingTransfers(ctx context.Context, repo repository.TransactionRepository, producer *kafka.Producer, topic string, age time.Duration) {
	pending, err := repo.ListPendingBefore(ctx, time.Now().Add(-age))
	if err != nil {
		logrus.WithError(err).Warn("list pending transactions")
		return
	}

	for _, tx := range pending {
		event := kafka.LedgerEvent{
			Type:          "transfer_reminder",
			TransactionID: tx.ID,
			UserID:        tx.UserID,
			TxType:        string(tx.Type),
			Amount:        tx.Amount,
			Status:        string(tx.Status),
			Reference:     tx.Reference,
		}
		if err := producer.Publish(ctx, topic, tx.ID, event); err != nil {
			logrus.WithError(err).WithField("transaction_id", tx.ID).Warn("publish reminder")
		}
	}
	if len(pending) > 0 {
		logrus.WithField("count", len(pending)).Info("published transfer reminders")
	}
}
