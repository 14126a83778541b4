package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Consumer reads one of the platform's event topics as part of a consumer
// group. Offsets advance only after the handler returns nil, so a crashed
// worker re-reads the notification it never delivered.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume delivers raw messages until the context is canceled or the handler
// fails.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}

// ConsumeBookingEvents decodes each message as a BookingEvent before handing
// it over. Undecodable payloads are logged and skipped rather than wedging
// the partition on a poison message.
func (c *Consumer) ConsumeBookingEvents(ctx context.Context, handler func(context.Context, BookingEvent) error) error {
	return c.Consume(ctx, func(ctx context.Context, msg kafka.Message) error {
		event, err := decodeBookingEvent(msg)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"topic":  msg.Topic,
				"offset": msg.Offset,
			}).Warn("skipping undecodable event")
			return nil
		}
		return handler(ctx, event)
	})
}

func decodeBookingEvent(msg kafka.Message) (BookingEvent, error) {
	var event BookingEvent
	err := json.Unmarshal(msg.Value, &event)
	return event, err
}
