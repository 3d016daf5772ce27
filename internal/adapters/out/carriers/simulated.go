package carriers

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/core/ports"
)

// DefaultScanInterval is how long a simulated parcel stays at each stage.
const DefaultScanInterval = 10 * time.Minute

var scanStages = []struct {
	status      string
	description string
}{
	{"PICKED_UP", "Picked up by carrier"},
	{"DEPARTED", "Departed origin facility"},
	{"OUT_FOR_DELIVERY", "Out for delivery"},
	{"DELIVERED", "Delivered"},
}

// Simulated is a deterministic carrier used when no carrier credentials are
// configured. Quotes and tracking numbers are derived from the request, so the
// same input always gives the same answer. Parcels advance one tracking stage
// per scan interval after they are registered.
type Simulated struct {
	name         string
	scanInterval time.Duration
	now          func() time.Time

	mu         sync.Mutex
	registered map[string]time.Time
}

var _ ports.CarrierAdapter = (*Simulated)(nil)

type SimulatedOption func(*Simulated)

func WithScanInterval(d time.Duration) SimulatedOption {
	return func(s *Simulated) {
		if d > 0 {
			s.scanInterval = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) SimulatedOption {
	return func(s *Simulated) {
		s.now = now
	}
}

func NewSimulated(name string, opts ...SimulatedOption) *Simulated {
	s := &Simulated{
		name:         kernel.NormalizeCarrierName(name),
		scanInterval: DefaultScanInterval,
		now:          time.Now,
		registered:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulated) Name() string {
	return s.name
}

// RateLoad prices a load from a base fee, a per-shipment fee and a lane
// factor taken from the origin and destination.
func (s *Simulated) RateLoad(ctx context.Context, req ports.RateRequest) (ports.ShippingCost, error) {
	if err := ctx.Err(); err != nil {
		return ports.ShippingCost{}, err
	}

	lane := s.hash(req.Origin.String(), req.Destination.String())
	return ports.ShippingCost{
		CarrierName:   s.name,
		AmountCents:   25000 + int64(req.ShipmentCount)*1500 + int64(lane%50000),
		Currency:      "USD",
		EstimatedDays: 1 + int(lane%5),
	}, nil
}

// TenderLoad accepts every tender that has not expired yet.
func (s *Simulated) TenderLoad(ctx context.Context, req ports.TenderRequest) (ports.TenderResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.TenderResult{}, err
	}

	if !req.ExpiresAt.IsZero() && !req.ExpiresAt.After(s.now()) {
		return ports.TenderResult{Accepted: false, Reason: "tender expired"}, nil
	}
	return ports.TenderResult{Accepted: true}, nil
}

// SchedulePickup confirms the requested time rounded up to the next hour.
func (s *Simulated) SchedulePickup(ctx context.Context, req ports.PickupRequest) (ports.PickupConfirmation, error) {
	if err := ctx.Err(); err != nil {
		return ports.PickupConfirmation{}, err
	}

	scheduledFor := req.RequestedFor.UTC()
	if truncated := scheduledFor.Truncate(time.Hour); !truncated.Equal(scheduledFor) {
		scheduledFor = truncated.Add(time.Hour)
	}
	return ports.PickupConfirmation{
		ConfirmationNumber: fmt.Sprintf("%s-PU-%08d", s.name, s.hash(req.LoadID.String(), scheduledFor.String())%1e8),
		ScheduledFor:       scheduledFor,
	}, nil
}

func (s *Simulated) CreateShipment(ctx context.Context, pkg ports.Package) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	trackingNumber := fmt.Sprintf("%s%012d", s.name, s.hash(pkg.ShipmentID.String(), pkg.OrderID)%1e12)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registered[trackingNumber]; !ok {
		s.registered[trackingNumber] = s.now()
	}
	return trackingNumber, nil
}

// GetTrackingStatus reports every stage reached so far. Tracking numbers this
// instance never issued, for example after a restart, start at the first
// query.
func (s *Simulated) GetTrackingStatus(ctx context.Context, trackingNumber string) (*ports.TrackingUpdate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	s.mu.Lock()
	since, ok := s.registered[trackingNumber]
	if !ok {
		since = now
		s.registered[trackingNumber] = since
	}
	s.mu.Unlock()

	reached := min(int(now.Sub(since)/s.scanInterval)+1, len(scanStages))
	events := make([]shipment.TrackingEvent, 0, reached)
	for i := 0; i < reached; i++ {
		ev, err := shipment.NewTrackingEvent(
			scanStages[i].status,
			scanStages[i].description,
			"",
			since.Add(time.Duration(i)*s.scanInterval),
			fmt.Sprintf("%s-%02d", s.name, i+1),
			"",
		)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	outcome := shipment.OutcomeInTransit
	if reached == len(scanStages) {
		outcome = shipment.OutcomeDelivered
	}
	return &ports.TrackingUpdate{
		LatestEvent: events[len(events)-1],
		Outcome:     outcome,
		NewEvents:   events,
	}, nil
}

func (s *Simulated) hash(parts ...string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s.name))
	for _, p := range parts {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(p))
	}
	return h.Sum64()
}
