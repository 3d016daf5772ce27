// Package sinks delivers encoded outbox messages to a broker.
package sinks

import (
	"context"
	"fmt"
	"slices"
	"time"

	"freight/internal/core/ports"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// kafkaWriter is the part of *kafka.Writer the sink uses.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink writes each message to the topic named by its destination. The
// message key is the aggregate id, so the hash balancer keeps an aggregate's
// events in order on one partition.
type KafkaSink struct {
	writer kafkaWriter
	log    *zap.Logger
}

var _ ports.MessageSink = (*KafkaSink)(nil)

type KafkaConfig struct {
	Brokers []string
	// AutoCreateTopics lets the first delivery to a destination create it.
	AutoCreateTopics bool
	BatchTimeout     time.Duration
}

func NewKafkaSink(cfg KafkaConfig, log *zap.Logger) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka sink: no brokers configured")
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: cfg.AutoCreateTopics,
		BatchTimeout:           cfg.BatchTimeout,
	}
	return newKafkaSink(writer, log), nil
}

func newKafkaSink(writer kafkaWriter, log *zap.Logger) *KafkaSink {
	return &KafkaSink{writer: writer, log: log.With(zap.String("sink", "kafka"))}
}

func (s *KafkaSink) Deliver(ctx context.Context, msg ports.Message) error {
	if err := s.writer.WriteMessages(ctx, toKafkaMessage(msg)); err != nil {
		s.log.Error("Error publishing to Kafka", zap.String("topic", msg.Destination), zap.Error(err))
		return err
	}

	s.log.Debug("message published", zap.String("topic", msg.Destination), zap.String("id", msg.ID))
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func toKafkaMessage(msg ports.Message) kafka.Message {
	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	headers := make([]kafka.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(msg.Headers[k])})
	}

	return kafka.Message{
		Topic:   msg.Destination,
		Key:     []byte(msg.Key),
		Value:   msg.Body,
		Headers: headers,
	}
}
