package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// BookingEvent is the wire payload for booking lifecycle events.
type BookingEvent struct {
	Type          string `json:"type"`
	BookingID     string `json:"booking_id"`
	UserID        string `json:"user_id"`
	BookingType   string `json:"booking_type"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	TotalPrice    int64  `json:"total_price"`
}

// LedgerEvent is the wire payload for balance ledger events.
type LedgerEvent struct {
	Type          string `json:"type"`
	TransactionID string `json:"transaction_id"`
	UserID        string `json:"user_id"`
	TxType        string `json:"tx_type"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	Reference     string `json:"reference,omitempty"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
