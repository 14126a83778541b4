package email

import (
	"context"

	"github.com/0xgasc/flyin-sub000/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender delivers booking notifications. Delivery is a log line for now; the
// interface is what the worker depends on.
type Sender struct {
	log *logrus.Entry
}

func NewSender() *Sender {
	return &Sender{log: logrus.WithField("component", "email")}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.WithFields(logrus.Fields{
		"user_id":    event.UserID,
		"booking_id": event.BookingID,
		"event":      event.Type,
		"status":     event.Status,
	}).Info("notification sent")
	return nil
}
