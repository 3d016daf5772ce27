package shipmentrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/shipment"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate kernel.EventSource)
}

func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add relies on the unique order_id index; the database must be opened with
// gorm.Config.TranslateError so that a second shipment for the same order
// surfaces as errs.ObjectAlreadyExistsError.
func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("orderID", aggregate.OrderID(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormShipmentRepository) Update(ctx context.Context, aggregate *shipment.Shipment, expected kernel.ConcurrencyToken) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	query := r.db.WithContext(ctx).Model(&ShipmentDTO{}).Where("id = ?", dto.ID)
	if !expected.IsZero() {
		query = query.Where("last_updated_at = ?", expected.Time())
	}

	result := query.Select("*").Omit("id", "order_id", "created_at").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.writeConflict(ctx, aggregate.ID(), expected)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShipmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormShipmentRepository) GetByOrderID(ctx context.Context, orderID string) (*shipment.Shipment, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, errs.NewValueIsRequiredError("orderID")
	}

	var dto ShipmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderID", orderID)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormShipmentRepository) ListTracked(ctx context.Context, after kernel.UUID, limit int) ([]*shipment.Shipment, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "∞")
	}

	var dtos []ShipmentDTO
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []string{shipment.Dispatched.String(), shipment.InTransit.String()}).
		Where("id > ?", after.Bytes()).
		Order("id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	shipments := make([]*shipment.Shipment, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, s)
	}

	return shipments, nil
}

func (r *GormShipmentRepository) writeConflict(ctx context.Context, id kernel.UUID, expected kernel.ConcurrencyToken) error {
	var current struct{ LastUpdatedAt time.Time }
	err := r.db.WithContext(ctx).Model(&ShipmentDTO{}).Select("last_updated_at").
		Where("id = ?", id.Bytes()).Take(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("shipment", id.String())
	}
	if err != nil {
		return err
	}
	return errs.NewPreconditionFailedError(shipment.AggregateType, id.String(), expected.String(),
		kernel.NewConcurrencyToken(current.LastUpdatedAt).String())
}
