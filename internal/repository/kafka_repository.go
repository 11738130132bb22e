package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SensorLedger/internal/models"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaMirror publishes each accepted reading as a JSON message.
type KafkaMirror struct {
	writer messageWriter
	topic  string
}

func NewKafkaMirror(brokers []string, topic string) *KafkaMirror {
	return &KafkaMirror{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 5 * time.Second,
		},
		topic: topic,
	}
}

func (m *KafkaMirror) Name() string { return "kafka" }

func (m *KafkaMirror) Mirror(ctx context.Context, reading models.Reading) error {
	value, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("encode reading: %w", err)
	}
	msg := kafka.Message{Value: value}
	if ts, err := reading.Time(); err == nil {
		msg.Time = ts
	}
	if err := m.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("error publishing to kafka topic %s: %w", m.topic, err)
	}
	return nil
}

func (m *KafkaMirror) Close() error {
	return m.writer.Close()
}
