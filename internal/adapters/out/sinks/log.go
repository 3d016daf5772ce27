package sinks

import (
	"context"

	"freight/internal/core/ports"

	"go.uber.org/zap"
)

// LogSink writes messages to the log instead of a broker. It is meant for
// local runs; every delivery succeeds.
type LogSink struct {
	log *zap.Logger
}

var _ ports.MessageSink = LogSink{}

func NewLogSink(log *zap.Logger) LogSink {
	return LogSink{log: log.With(zap.String("sink", "log"))}
}

func (s LogSink) Deliver(_ context.Context, msg ports.Message) error {
	s.log.Info("message delivered",
		zap.String("destination", msg.Destination),
		zap.String("id", msg.ID),
		zap.String("key", msg.Key),
		zap.ByteString("body", msg.Body),
	)
	return nil
}

func (LogSink) Close() error {
	return nil
}
