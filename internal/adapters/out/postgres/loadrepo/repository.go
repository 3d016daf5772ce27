package loadrepo

import (
	"context"
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormLoadRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate kernel.EventSource)
}

func NewGormLoadRepository(db *gorm.DB, tracker aggregateTracker) *GormLoadRepository {
	return &GormLoadRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormLoadRepository) Add(ctx context.Context, aggregate *load.Load) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("load", aggregate.ID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes every column except id and created_at, guarded by the
// expected updated_at value.
func (r *GormLoadRepository) Update(ctx context.Context, aggregate *load.Load, expected kernel.ConcurrencyToken) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	query := r.db.WithContext(ctx).Model(&LoadDTO{}).Where("id = ?", dto.ID)
	if !expected.IsZero() {
		query = query.Where("updated_at = ?", expected.Time())
	}

	result := query.Select("*").Omit("id", "created_at").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.writeConflict(ctx, aggregate.ID(), expected)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormLoadRepository) Delete(ctx context.Context, aggregate *load.Load, expected kernel.ConcurrencyToken) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !aggregate.IsDeleted() {
		return errs.NewValueIsInvalidErrorWithCause("load", errors.New("load must be marked deleted first"))
	}

	query := r.db.WithContext(ctx).Where("id = ?", aggregate.ID().Bytes())
	if !expected.IsZero() {
		query = query.Where("updated_at = ?", expected.Time())
	}

	result := query.Delete(&LoadDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.writeConflict(ctx, aggregate.ID(), expected)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormLoadRepository) Get(ctx context.Context, id kernel.UUID) (*load.Load, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LoadDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("load", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// writeConflict explains a conditional write that matched no row.
func (r *GormLoadRepository) writeConflict(ctx context.Context, id kernel.UUID, expected kernel.ConcurrencyToken) error {
	var current struct{ UpdatedAt time.Time }
	err := r.db.WithContext(ctx).Model(&LoadDTO{}).Select("updated_at").
		Where("id = ?", id.Bytes()).Take(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("load", id.String())
	}
	if err != nil {
		return err
	}
	return errs.NewPreconditionFailedError(load.AggregateType, id.String(), expected.String(),
		kernel.NewConcurrencyToken(current.UpdatedAt).String())
}
