package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Sink kinds accepted by SINK_KIND.
const (
	SinkKafka = "kafka"
	SinkRedis = "redis"
	SinkLog   = "log"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"freight"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	SinkKind              string   `env:"SINK_KIND" envDefault:"log"`
	KafkaBrokers          []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaAutoCreateTopics bool     `env:"KAFKA_AUTO_CREATE_TOPICS" envDefault:"false"`
	RedisAddr             string   `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisStreamMaxLen     int64    `env:"REDIS_STREAM_MAX_LEN" envDefault:"100000"`

	// EventSource prefixes the CloudEvents source attribute.
	EventSource string `env:"EVENT_SOURCE" envDefault:"freight"`
	// OutboxRoutes overrides destinations per aggregate type, e.g. "load:loads.v1,shipment:shipments.v1".
	OutboxRoutes      map[string]string `env:"OUTBOX_ROUTES" envKeyValSeparator:":"`
	OutboxSchedule    string            `env:"OUTBOX_SCHEDULE" envDefault:"*/2 * * * * *"`
	OutboxBatchSize   int               `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
	OutboxMaxAttempts int               `env:"OUTBOX_MAX_ATTEMPTS" envDefault:"5"`
	OutboxBackoffBase time.Duration     `env:"OUTBOX_BACKOFF_BASE" envDefault:"1s"`
	OutboxBackoffMax  time.Duration     `env:"OUTBOX_BACKOFF_MAX" envDefault:"5m"`
	// OutboxLease must outlast a whole batch of deliveries at OutboxPublishTimeout each.
	OutboxLease          time.Duration `env:"OUTBOX_LEASE" envDefault:"10m"`
	OutboxPublishTimeout time.Duration `env:"OUTBOX_PUBLISH_TIMEOUT" envDefault:"5s"`
	// OutboxOwner names this publisher in claimed rows; empty means host and pid.
	OutboxOwner string `env:"OUTBOX_OWNER"`

	TrackingSchedule    string        `env:"TRACKING_SCHEDULE" envDefault:"0 */5 * * * *"`
	TrackingPageSize    int           `env:"TRACKING_PAGE_SIZE" envDefault:"50"`
	Carriers            []string      `env:"CARRIERS" envSeparator:"," envDefault:"FEDEX,UPS"`
	CarrierTimeout      time.Duration `env:"CARRIER_TIMEOUT" envDefault:"10s"`
	CarrierScanInterval time.Duration `env:"CARRIER_SCAN_INTERVAL" envDefault:"10m"`
}

// LoadConfig reads envFile into the process environment, if it exists, and
// parses the environment. Variables already set take precedence over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.SinkKind {
	case SinkLog, SinkRedis:
	case SinkKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required for the kafka sink"))
		}
	default:
		errs = append(errs, fmt.Errorf("SINK_KIND %q is not one of kafka, redis, log", c.SinkKind))
	}
	if c.OutboxBatchSize < 1 {
		errs = append(errs, errors.New("OUTBOX_BATCH_SIZE must be positive"))
	}
	if c.OutboxPublishTimeout <= 0 {
		errs = append(errs, errors.New("OUTBOX_PUBLISH_TIMEOUT must be positive"))
	}
	if batch := time.Duration(max(c.OutboxBatchSize, 0)) * c.OutboxPublishTimeout; c.OutboxLease <= batch {
		errs = append(errs, fmt.Errorf(
			"OUTBOX_LEASE %s must exceed OUTBOX_BATCH_SIZE * OUTBOX_PUBLISH_TIMEOUT (%s)", c.OutboxLease, batch))
	}
	if c.TrackingPageSize < 1 {
		errs = append(errs, errors.New("TRACKING_PAGE_SIZE must be positive"))
	}
	if len(c.Carriers) == 0 {
		errs = append(errs, errors.New("CARRIERS must name at least one carrier"))
	}
	return errors.Join(errs...)
}

// DSN is the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
