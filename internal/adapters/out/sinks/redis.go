package sinks

import (
	"context"

	"freight/internal/core/ports"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultStreamMaxLen caps each stream approximately.
const DefaultStreamMaxLen = 100_000

// RedisStreamSink appends each message to the Redis stream named by its
// destination. Entry fields: id, key, content_type, headers are prefixed
// with "h_", and body.
type RedisStreamSink struct {
	client *redis.Client
	maxLen int64
	log    *zap.Logger
}

var _ ports.MessageSink = (*RedisStreamSink)(nil)

// NewRedisStreamSink takes ownership of client; Close closes it. A
// non-positive maxLen uses DefaultStreamMaxLen.
func NewRedisStreamSink(client *redis.Client, maxLen int64, log *zap.Logger) *RedisStreamSink {
	if maxLen <= 0 {
		maxLen = DefaultStreamMaxLen
	}
	return &RedisStreamSink{client: client, maxLen: maxLen, log: log.With(zap.String("sink", "redis"))}
}

func (s *RedisStreamSink) Deliver(ctx context.Context, msg ports.Message) error {
	values := map[string]interface{}{
		"id":           msg.ID,
		"key":          msg.Key,
		"content_type": msg.ContentType,
		"body":         msg.Body,
	}
	for k, v := range msg.Headers {
		values["h_"+k] = v
	}

	entryID, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: msg.Destination,
		MaxLen: s.maxLen,
		Approx: true,
		Values: values,
	}).Result()
	if err != nil {
		s.log.Error("Error publishing to Redis stream", zap.String("stream", msg.Destination), zap.Error(err))
		return err
	}

	s.log.Debug("message published",
		zap.String("stream", msg.Destination),
		zap.String("id", msg.ID),
		zap.String("entry_id", entryID),
	)
	return nil
}

func (s *RedisStreamSink) Close() error {
	return s.client.Close()
}
