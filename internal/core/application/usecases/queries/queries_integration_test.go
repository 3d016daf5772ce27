package queries_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/outboxrepo"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/model/outbox"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type QueriesIntegrationTestSuite struct {
	suite.Suite
	container  *postgrescontainer.PostgresContainer
	db         *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgrescontainer.Run(ctx,
		"postgres:15-alpine",
		postgrescontainer.WithDatabase("testdb"),
		postgrescontainer.WithUsername("testuser"),
		postgrescontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres.Migrate(db))
	suite.uowFactory = postgres.NewGormUnitOfWorkFactory(db, outbox.NewRouter(nil))
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE loads, shipments, outbox_events").Error)
}

func (suite *QueriesIntegrationTestSuite) location(city, region string) kernel.Location {
	loc, err := kernel.NewLocation("", "", city, region, "", "US")
	suite.Require().NoError(err)
	return loc
}

func (suite *QueriesIntegrationTestSuite) store(ctx context.Context, l *load.Load, s ...*shipment.Shipment) {
	uow := suite.uowFactory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	if l != nil {
		suite.Require().NoError(uow.LoadRepository().Add(ctx, l))
	}
	for _, item := range s {
		suite.Require().NoError(uow.ShipmentRepository().Add(ctx, item))
	}
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *QueriesIntegrationTestSuite) TestGetLoad_ReturnsTenderAndPickupSummary() {
	ctx := context.Background()
	now := time.Now()
	shipmentID := kernel.NewUUID()

	l, err := load.NewLoad(now, load.Params{
		Reference:   "L-100",
		Origin:      suite.location("Memphis", "TN"),
		Destination: suite.location("Dallas", "TX"),
		ShipmentIDs: []kernel.UUID{shipmentID},
		Notes:       "fragile",
	})
	suite.Require().NoError(err)
	expiresAt := now.Add(24 * time.Hour).Truncate(time.Second)
	suite.Require().NoError(l.AssignCarrier(now, "FEDEX"))
	suite.Require().NoError(l.Tender(now, expiresAt, ""))
	suite.Require().NoError(l.RecordTenderDecision(now, load.DecisionAccepted, "FEDEX", ""))
	suite.Require().NoError(l.Book(now))
	pickup, err := load.NewPickup("PU-1", now.Add(48*time.Hour), l.Origin(), "Sam", "", "dock 4")
	suite.Require().NoError(err)
	suite.Require().NoError(l.SchedulePickup(now, pickup))
	suite.store(ctx, l)

	query, err := queries.NewGetLoadQuery(l.ID())
	suite.Require().NoError(err)

	result, err := queries.NewGetLoadQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal(l.ID(), result.ID)
	suite.Equal("L-100", result.Reference)
	suite.Equal(l.Status().String(), result.Status)
	suite.Equal("FEDEX", result.CarrierName)
	suite.Equal([]kernel.UUID{shipmentID}, result.ShipmentIDs)
	suite.Equal("Memphis", result.Origin.City())
	suite.Equal("Dallas", result.Destination.City())
	suite.Equal("fragile", result.Notes)
	suite.Equal("ACCEPTED", result.TenderStatus)
	suite.Require().NotNil(result.TenderExpiresAt)
	suite.True(expiresAt.Equal(*result.TenderExpiresAt))
	suite.Equal("PU-1", result.PickupConfirmationNumber)
	suite.Require().NotNil(result.PickupScheduledFor)
	suite.True(l.ConcurrencyToken().IsEqual(result.Token))
}

func (suite *QueriesIntegrationTestSuite) TestGetLoad_Untendered() {
	ctx := context.Background()
	l, err := load.NewLoad(time.Now(), load.Params{
		Reference:   "L-101",
		Origin:      suite.location("Memphis", "TN"),
		Destination: suite.location("Dallas", "TX"),
		ShipmentIDs: []kernel.UUID{kernel.NewUUID()},
	})
	suite.Require().NoError(err)
	suite.store(ctx, l)

	query, err := queries.NewGetLoadQuery(l.ID())
	suite.Require().NoError(err)

	result, err := queries.NewGetLoadQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal("NOT_TENDERED", result.TenderStatus)
	suite.Nil(result.TenderExpiresAt)
	suite.Nil(result.PickupScheduledFor)
	suite.Empty(result.PickupConfirmationNumber)
}

func (suite *QueriesIntegrationTestSuite) TestGetLoad_NotFound() {
	query, err := queries.NewGetLoadQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = queries.NewGetLoadQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestGetShipment_ReturnsTrackingHistory() {
	ctx := context.Background()
	now := time.Now()
	s, err := shipment.NewShipment(now, "ORD-9", "UPS")
	suite.Require().NoError(err)
	suite.Require().NoError(s.Dispatch(now, "1Z9"))
	first, err := shipment.NewTrackingEvent("PICKED_UP", "Picked up", "Memphis, TN", now.Add(-2*time.Hour), "", "")
	suite.Require().NoError(err)
	second, err := shipment.NewTrackingEvent("DEPARTED", "Departed", "Memphis, TN", now.Add(-time.Hour), "", "")
	suite.Require().NoError(err)
	_, err = s.ApplyTrackingUpdate(now, []shipment.TrackingEvent{second, first}, shipment.OutcomeInTransit)
	suite.Require().NoError(err)
	suite.store(ctx, nil, s)

	query, err := queries.NewGetShipmentQuery(s.ID())
	suite.Require().NoError(err)

	result, err := queries.NewGetShipmentQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal("ORD-9", result.OrderID)
	suite.Equal("UPS", result.CarrierName)
	suite.Equal("1Z9", result.TrackingNumber)
	suite.Equal("IN_TRANSIT", result.Status)
	suite.Nil(result.AssignedLoadID)
	suite.Require().Len(result.TrackingEvents, 2)
	suite.Equal("PICKED_UP", result.TrackingEvents[0].Status)
	suite.Equal("DEPARTED", result.TrackingEvents[1].Status)
	suite.Require().NotNil(result.DispatchedAt)
	suite.Nil(result.DeliveredAt)
	suite.True(s.ConcurrencyToken().IsEqual(result.Token))
}

func (suite *QueriesIntegrationTestSuite) TestGetShipment_NotFound() {
	query, err := queries.NewGetShipmentQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = queries.NewGetShipmentQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestListDeadLetters_OnlyFailedRows() {
	ctx := context.Background()
	repo := outboxrepo.NewGormOutboxRepository(suite.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	add := func(status outbox.Status, lastAttempt time.Time, message string) kernel.UUID {
		ev, err := outbox.RestoreEvent(outbox.Snapshot{
			ID:            kernel.NewUUID(),
			AggregateID:   kernel.NewUUID(),
			AggregateType: "load",
			EventType:     "load.booked",
			Destination:   "freight.loads",
			Payload:       []byte(`{}`),
			Status:        status,
			AttemptCount:  3,
			CreatedAt:     now.Add(-time.Hour),
			LastAttemptAt: lastAttempt,
			ErrorMessage:  message,
			AvailableAt:   now,
		})
		suite.Require().NoError(err)
		suite.Require().NoError(repo.Add(ctx, ev))
		return ev.ID()
	}
	older := add(outbox.StatusFailed, now.Add(-10*time.Minute), "broker down")
	newer := add(outbox.StatusFailed, now.Add(-time.Minute), "topic missing")
	add(outbox.StatusPending, now, "")
	add(outbox.StatusProcessed, now, "")

	query, err := queries.NewListDeadLettersQuery(0)
	suite.Require().NoError(err)

	result, err := queries.NewListDeadLettersQueryHandler(suite.db).Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal(newer, result[0].ID)
	suite.Equal("topic missing", result[0].ErrorMessage)
	suite.Equal(older, result[1].ID)
	suite.Equal(3, result[1].AttemptCount)
	suite.Equal("freight.loads", result[1].Destination)
}

func (suite *QueriesIntegrationTestSuite) TestListDeadLetters_Empty() {
	query, err := queries.NewListDeadLettersQuery(10)
	suite.Require().NoError(err)

	result, err := queries.NewListDeadLettersQueryHandler(suite.db).Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesIntegrationTestSuite))
}

func TestQueries_NotConstructedViaConstructor(t *testing.T) {
	assert.ErrorIs(t, queries.GetLoadQuery{}.Validate(), queries.ErrGetLoadQueryIsNotConstructed)
	assert.ErrorIs(t, queries.GetShipmentQuery{}.Validate(), queries.ErrGetShipmentQueryIsNotConstructed)
	assert.ErrorIs(t, queries.ListDeadLettersQuery{}.Validate(), queries.ErrListDeadLettersQueryIsNotConstructed)
}

func TestNewListDeadLettersQuery(t *testing.T) {
	q, err := queries.NewListDeadLettersQuery(0)
	require.NoError(t, err)
	assert.Equal(t, queries.DefaultDeadLetterLimit, q.Limit())

	_, err = queries.NewListDeadLettersQuery(-1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = queries.NewGetLoadQuery(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}
