package cmd

import (
	"errors"
	"fmt"
	"os"

	httpadapter "freight/internal/adapters/in/http"
	"freight/internal/adapters/out/carriers"
	"freight/internal/adapters/out/envelope"
	"freight/internal/adapters/out/metrics"
	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/sinks"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/outbox"
	"freight/internal/core/ports"
	"freight/internal/jobs"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	carriers   *carriers.Registry
	metrics    *metrics.PromMetrics
	sink       ports.MessageSink
	logger     *zap.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	registry, err := newCarrierRegistry(config)
	if err != nil {
		return nil, err
	}
	promMetrics, err := metrics.NewPromMetrics(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	sink, err := newMessageSink(config, logger)
	if err != nil {
		return nil, err
	}

	router := outbox.NewRouter(config.OutboxRoutes)
	logger.Info("composition root ready",
		zap.Strings("carriers", registry.Names()),
		zap.String("sink", config.SinkKind),
		zap.Any("outboxRoutes", router.Routes()),
	)

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, router),
		carriers:   registry,
		metrics:    promMetrics,
		sink:       sink,
		logger:     logger,
	}, nil
}

// Close releases the message sink and the database pool.
func (c *CompositionRoot) Close() error {
	var errs []error
	if err := c.sink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close sink: %w", err))
	}
	if sqlDB, err := c.gormDB.DB(); err == nil {
		if err = sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func newCarrierRegistry(config Config) (*carriers.Registry, error) {
	adapters := make([]ports.CarrierAdapter, 0, len(config.Carriers))
	for _, name := range config.Carriers {
		simulated := carriers.NewSimulated(name, carriers.WithScanInterval(config.CarrierScanInterval))
		adapters = append(adapters, carriers.WithTimeout(simulated, config.CarrierTimeout))
	}
	registry, err := carriers.NewRegistry(adapters...)
	if err != nil {
		return nil, fmt.Errorf("failed to build carrier registry: %w", err)
	}
	return registry, nil
}

func newMessageSink(config Config, logger *zap.Logger) (ports.MessageSink, error) {
	switch config.SinkKind {
	case SinkKafka:
		return sinks.NewKafkaSink(sinks.KafkaConfig{
			Brokers:          config.KafkaBrokers,
			AutoCreateTopics: config.KafkaAutoCreateTopics,
		}, logger)
	case SinkRedis:
		client := redis.NewClient(&redis.Options{Addr: config.RedisAddr})
		return sinks.NewRedisStreamSink(client, config.RedisStreamMaxLen, logger), nil
	case SinkLog:
		return sinks.NewLogSink(logger), nil
	default:
		return nil, fmt.Errorf("unknown sink kind %q", config.SinkKind)
	}
}

func (c *CompositionRoot) publisherConfig() commands.PublisherConfig {
	owner := c.config.OutboxOwner
	if owner == "" {
		host, _ := os.Hostname()
		owner = fmt.Sprintf("%s-%d", host, os.Getpid())
	}
	return commands.PublisherConfig{
		Owner:          owner,
		MaxAttempts:    c.config.OutboxMaxAttempts,
		Lease:          c.config.OutboxLease,
		PublishTimeout: c.config.OutboxPublishTimeout,
		Backoff:        outbox.Exponential(c.config.OutboxBackoffBase, c.config.OutboxBackoffMax),
	}
}

func (c *CompositionRoot) loadUoWFactory() commands.LoadUoWFactory {
	return FuncLoadUoWFactory(func() commands.LoadUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) shipmentUoWFactory() commands.ShipmentUoWFactory {
	return FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) outboxUoWFactory() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uowFactoryForAll() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePublishOutboxCommandHandler() commands.PublishOutboxCommandHandler {
	return commands.NewPublishOutboxCommandHandler(
		c.outboxUoWFactory(),
		envelope.NewCloudEventsEncoder(c.config.EventSource),
		c.sink,
		c.metrics,
		c.publisherConfig(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateRefreshTrackingCommandHandler() commands.RefreshTrackingCommandHandler {
	return commands.NewRefreshTrackingCommandHandler(c.shipmentUoWFactory(), c.carriers, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateReplayDeadLetterCommandHandler() commands.ReplayDeadLetterCommandHandler {
	return commands.NewReplayDeadLetterCommandHandler(c.outboxUoWFactory())
}

func (c *CompositionRoot) CreateListDeadLettersQueryHandler() queries.ListDeadLettersQueryHandler {
	return queries.NewListDeadLettersQueryHandler(c.gormDB)
}

// CreateHTTPHandlers wires every command and query the HTTP surface serves.
func (c *CompositionRoot) CreateHTTPHandlers() httpadapter.Handlers {
	loads := c.loadUoWFactory()
	all := c.uowFactoryForAll()

	return httpadapter.Handlers{
		CreateLoad:             commands.NewCreateLoadCommandHandler(all),
		AddShipmentsToLoad:     commands.NewAddShipmentsToLoadCommandHandler(all),
		RemoveShipmentFromLoad: commands.NewRemoveShipmentFromLoadCommandHandler(all),
		AssignCarrier:          commands.NewAssignCarrierCommandHandler(loads, c.carriers),
		UnassignCarrier:        commands.NewUnassignCarrierCommandHandler(loads),
		RateLoad:               commands.NewRateLoadCommandHandler(loads, c.carriers),
		TenderLoad:             commands.NewTenderLoadCommandHandler(loads),
		SubmitTenderToCarrier:  commands.NewSubmitTenderToCarrierCommandHandler(loads, c.carriers),
		CancelTender:           commands.NewCancelTenderCommandHandler(loads),
		RecordTenderDecision:   commands.NewRecordTenderDecisionCommandHandler(loads),
		BookLoad:               commands.NewBookLoadCommandHandler(loads),
		SchedulePickup:         commands.NewSchedulePickupCommandHandler(loads, c.carriers),
		CancelPickup:           commands.NewCancelPickupCommandHandler(loads),
		ShipLoad:               commands.NewShipLoadCommandHandler(loads),
		ConfirmDelivery:        commands.NewConfirmDeliveryCommandHandler(loads),
		CancelLoad:             commands.NewCancelLoadCommandHandler(all),
		DeleteLoad:             commands.NewDeleteLoadCommandHandler(all),

		CreateShipment:         commands.NewCreateShipmentCommandHandler(c.shipmentUoWFactory(), c.carriers),
		DispatchShipment:       commands.NewDispatchShipmentCommandHandler(all, c.carriers),
		UpdateShipmentTracking: commands.NewUpdateShipmentTrackingCommandHandler(c.shipmentUoWFactory()),

		ReplayDeadLetter: c.CreateReplayDeadLetterCommandHandler(),

		GetLoad:         queries.NewGetLoadQueryHandler(c.gormDB),
		GetShipment:     queries.NewGetShipmentQueryHandler(c.gormDB),
		ListDeadLetters: c.CreateListDeadLettersQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	publisher, err := jobs.NewOutboxPublisherJob(
		c.CreatePublishOutboxCommandHandler(),
		c.config.OutboxSchedule,
		c.config.OutboxBatchSize,
		c.logger,
	)
	if err != nil {
		return nil, err
	}
	tracker, err := jobs.NewTrackingRefreshJob(
		c.CreateRefreshTrackingCommandHandler(),
		c.config.TrackingSchedule,
		c.config.TrackingPageSize,
		c.logger,
	)
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(publisher, tracker), nil
}

type FuncLoadUoWFactory func() commands.LoadUoW

func (f FuncLoadUoWFactory) Create() commands.LoadUoW {
	return f()
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
