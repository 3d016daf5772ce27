package shipmentrepo_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres/shipmentrepo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate kernel.EventSource) {
	m.Called(id, aggregate)
}

type ShipmentRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *shipmentrepo.GormShipmentRepository
	tracker    *MockAggregateTracker
}

func (suite *ShipmentRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&shipmentrepo.ShipmentDTO{}))
}

func (suite *ShipmentRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE shipments").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = shipmentrepo.NewGormShipmentRepository(suite.db, suite.tracker)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ShipmentRepositoryIntegrationTestSuite) newShipment(orderID string) *shipment.Shipment {
	s, err := shipment.NewShipment(time.Now(), orderID, "FEDEX")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(context.Background(), s))
	return s
}

func (suite *ShipmentRepositoryIntegrationTestSuite) dispatch(s *shipment.Shipment, trackingNumber string) {
	token := s.ConcurrencyToken()
	suite.Require().NoError(s.Dispatch(time.Now(), trackingNumber))
	suite.Require().NoError(suite.repository.Update(context.Background(), s, token))
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestAdd_ThenGetByOrderID() {
	ctx := context.Background()
	original := suite.newShipment("ORD-1")

	restored, err := suite.repository.GetByOrderID(ctx, "ORD-1")
	suite.Require().NoError(err)

	suite.Equal(original.ID(), restored.ID())
	suite.Equal(shipment.Created, restored.Status())
	suite.Equal(shipment.UnassignedLoadID, restored.AssignedLoadID())
	suite.True(original.ConcurrencyToken().IsEqual(restored.ConcurrencyToken()))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", original.ID(), original)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestAdd_DuplicateOrder_AlreadyExists() {
	suite.newShipment("ORD-1")

	second, err := shipment.NewShipment(time.Now(), "ORD-1", "UPS")
	suite.Require().NoError(err)
	err = suite.repository.Add(context.Background(), second)

	suite.ErrorIs(err, errs.ErrObjectAlreadyExists)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdate_PersistsTrackingHistory() {
	ctx := context.Background()
	s := suite.newShipment("ORD-1")
	suite.dispatch(s, "TRK-1")

	token := s.ConcurrencyToken()
	scan, err := shipment.NewTrackingEvent("PICKED_UP", "Picked up", "Memphis, TN",
		time.Now().Add(-time.Hour), "PU", "")
	suite.Require().NoError(err)
	_, err = s.ApplyTrackingUpdate(time.Now(), []shipment.TrackingEvent{scan}, shipment.OutcomeInTransit)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, s, token))

	restored, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Equal(shipment.InTransit, restored.Status())
	suite.Equal("TRK-1", restored.TrackingNumber())
	suite.Equal(s.TrackingEvents(), restored.TrackingEvents())
	suite.False(restored.DispatchedAt().IsZero())

	changed, err := restored.ApplyTrackingUpdate(time.Now(), []shipment.TrackingEvent{scan}, shipment.OutcomeInTransit)
	suite.Require().NoError(err)
	suite.False(changed, "a scan read back from storage must still be recognized")
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdate_StaleToken_PreconditionFailed() {
	s := suite.newShipment("ORD-1")
	stale := s.ConcurrencyToken()
	suite.dispatch(s, "TRK-1")

	suite.Require().NoError(s.AssignToLoad(time.Now(), kernel.NewUUID()))
	err := suite.repository.Update(context.Background(), s, stale)

	suite.ErrorIs(err, errs.ErrPreconditionFailed)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestListTracked_PagesByID() {
	ctx := context.Background()
	suite.newShipment("ORD-CREATED")
	for i, orderID := range []string{"ORD-1", "ORD-2", "ORD-3"} {
		s := suite.newShipment(orderID)
		suite.dispatch(s, "TRK-"+string(rune('A'+i)))
	}

	first, err := suite.repository.ListTracked(ctx, kernel.UUID{}, 2)
	suite.Require().NoError(err)
	suite.Require().Len(first, 2)
	suite.Less(first[0].ID().String(), first[1].ID().String())

	rest, err := suite.repository.ListTracked(ctx, first[1].ID(), 2)
	suite.Require().NoError(err)
	suite.Require().Len(rest, 1)
	suite.Equal(shipment.Dispatched, rest[0].Status())

	seen := map[string]bool{}
	for _, s := range append(first, rest...) {
		suite.False(seen[s.OrderID()])
		seen[s.OrderID()] = true
	}
	suite.Len(seen, 3)
	suite.False(seen["ORD-CREATED"])
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestGetByOrderID_NotFound() {
	_, err := suite.repository.GetByOrderID(context.Background(), "missing")
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func TestShipmentRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ShipmentRepositoryIntegrationTestSuite))
}
