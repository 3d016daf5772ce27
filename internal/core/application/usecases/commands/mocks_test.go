package commands_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/domain/model/outbox"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLoadRepository struct{ mock.Mock }

func (m *MockLoadRepository) Add(ctx context.Context, l *load.Load) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLoadRepository) Update(ctx context.Context, l *load.Load, expected kernel.ConcurrencyToken) error {
	args := m.Called(ctx, l, expected)
	return args.Error(0)
}

func (m *MockLoadRepository) Delete(ctx context.Context, l *load.Load, expected kernel.ConcurrencyToken) error {
	args := m.Called(ctx, l, expected)
	return args.Error(0)
}

func (m *MockLoadRepository) Get(ctx context.Context, id kernel.UUID) (*load.Load, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*load.Load), args.Error(1)
}

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(
	ctx context.Context,
	s *shipment.Shipment,
	expected kernel.ConcurrencyToken,
) error {
	args := m.Called(ctx, s, expected)
	return args.Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByOrderID(ctx context.Context, orderID string) (*shipment.Shipment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) ListTracked(
	ctx context.Context,
	after kernel.UUID,
	limit int,
) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Shipment), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Add(ctx context.Context, ev *outbox.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockOutboxRepository) Get(ctx context.Context, id kernel.UUID) (*outbox.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Event), args.Error(1)
}

func (m *MockOutboxRepository) Claim(
	ctx context.Context,
	owner string,
	now time.Time,
	lease time.Duration,
	limit int,
) ([]*outbox.Event, error) {
	args := m.Called(ctx, owner, now, lease, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Event), args.Error(1)
}

func (m *MockOutboxRepository) SaveOutcome(ctx context.Context, ev *outbox.Event, owner string) error {
	args := m.Called(ctx, ev, owner)
	return args.Error(0)
}

// MockUoW satisfies every unit of work interface of the commands package.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) LoadRepository() ports.LoadRepository {
	args := m.Called()
	return args.Get(0).(ports.LoadRepository)
}

func (m *MockUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}

func (m *MockUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockLoadUoWFactory struct{ mock.Mock }

func (m *MockLoadUoWFactory) Create() commands.LoadUoW {
	args := m.Called()
	return args.Get(0).(commands.LoadUoW)
}

type MockShipmentUoWFactory struct{ mock.Mock }

func (m *MockShipmentUoWFactory) Create() commands.ShipmentUoW {
	args := m.Called()
	return args.Get(0).(commands.ShipmentUoW)
}

type MockOutboxUoWFactory struct{ mock.Mock }

func (m *MockOutboxUoWFactory) Create() commands.OutboxUoW {
	args := m.Called()
	return args.Get(0).(commands.OutboxUoW)
}

type MockCarrierRegistry struct{ mock.Mock }

func (m *MockCarrierRegistry) Adapter(carrierName string) (ports.CarrierAdapter, error) {
	args := m.Called(carrierName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.CarrierAdapter), args.Error(1)
}

func (m *MockCarrierRegistry) Names() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

type MockCarrierAdapter struct{ mock.Mock }

func (m *MockCarrierAdapter) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCarrierAdapter) RateLoad(ctx context.Context, req ports.RateRequest) (ports.ShippingCost, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.ShippingCost), args.Error(1)
}

func (m *MockCarrierAdapter) TenderLoad(ctx context.Context, req ports.TenderRequest) (ports.TenderResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.TenderResult), args.Error(1)
}

func (m *MockCarrierAdapter) SchedulePickup(
	ctx context.Context,
	req ports.PickupRequest,
) (ports.PickupConfirmation, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.PickupConfirmation), args.Error(1)
}

func (m *MockCarrierAdapter) CreateShipment(ctx context.Context, pkg ports.Package) (string, error) {
	args := m.Called(ctx, pkg)
	return args.String(0), args.Error(1)
}

func (m *MockCarrierAdapter) GetTrackingStatus(ctx context.Context, trackingNumber string) (*ports.TrackingUpdate, error) {
	args := m.Called(ctx, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.TrackingUpdate), args.Error(1)
}

type MockEventEncoder struct{ mock.Mock }

func (m *MockEventEncoder) Encode(ev *outbox.Event) (ports.Message, error) {
	args := m.Called(ev)
	return args.Get(0).(ports.Message), args.Error(1)
}

type MockMessageSink struct{ mock.Mock }

func (m *MockMessageSink) Deliver(ctx context.Context, msg ports.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageSink) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockOutboxMetrics struct{ mock.Mock }

func (m *MockOutboxMetrics) Delivered(destination string, took time.Duration) {
	m.Called(destination, took)
}

func (m *MockOutboxMetrics) Retried(destination string, took time.Duration) {
	m.Called(destination, took)
}

func (m *MockOutboxMetrics) DeadLettered(destination string, took time.Duration) {
	m.Called(destination, took)
}

type MockTrackingMetrics struct{ mock.Mock }

func (m *MockTrackingMetrics) TrackingChecked(carrier, outcome string) {
	m.Called(carrier, outcome)
}

func mustLocation(t *testing.T, city, countryCode string) kernel.Location {
	t.Helper()
	l, err := kernel.NewLocation("", "", city, "", "", countryCode)
	require.NoError(t, err)
	return l
}

func newPlannedLoad(t *testing.T, shipmentIDs ...kernel.UUID) *load.Load {
	t.Helper()
	if len(shipmentIDs) == 0 {
		shipmentIDs = []kernel.UUID{kernel.NewUUID()}
	}
	l, err := load.NewLoad(time.Now(), load.Params{
		Reference:   "L-1",
		Origin:      mustLocation(t, "Memphis", "US"),
		Destination: mustLocation(t, "Dallas", "US"),
		ShipmentIDs: shipmentIDs,
	})
	require.NoError(t, err)
	l.ClearDomainEvents()
	return l
}

func newShipment(t *testing.T, orderID, carrier string) *shipment.Shipment {
	t.Helper()
	s, err := shipment.NewShipment(time.Now(), orderID, carrier)
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}

func newDispatchedShipment(t *testing.T, orderID, carrier string) *shipment.Shipment {
	t.Helper()
	s := newShipment(t, orderID, carrier)
	require.NoError(t, s.Dispatch(time.Now(), "TRK-"+orderID))
	s.ClearDomainEvents()
	return s
}

// expectLoadMutation sets up one unit of work that reads l and stores it.
func expectLoadMutation(ctx context.Context, uow *MockUoW, repo *MockLoadRepository, l *load.Load) {
	token := l.ConcurrencyToken()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LoadRepository").Return(repo).Once(),
		repo.On("Get", ctx, l.ID()).Return(l, nil).Once(),
		repo.On("Update", ctx, l, token).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
}
