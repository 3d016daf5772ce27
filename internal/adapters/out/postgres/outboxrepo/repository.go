package outboxrepo

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/outbox"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// claimQuery leases due rows in one statement. SKIP LOCKED lets concurrent
// publishers claim disjoint batches without waiting on each other.
const claimQuery = `
UPDATE outbox_events SET claimed_by = @owner, claimed_until = @until
WHERE id IN (
	SELECT id FROM outbox_events
	WHERE status = @pending
	  AND available_at <= @now
	  AND (claimed_until IS NULL OR claimed_until < @now)
	ORDER BY created_at
	LIMIT @limit
	FOR UPDATE SKIP LOCKED
)
RETURNING *`

type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Add(ctx context.Context, event *outbox.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := fromDomain(event)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewObjectAlreadyExistsErrorWithCause("outboxEvent", event.ID().String(), err)
		}
		return err
	}
	return nil
}

func (r *GormOutboxRepository) Get(ctx context.Context, id kernel.UUID) (*outbox.Event, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OutboxEventDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("outboxEvent", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOutboxRepository) Claim(
	ctx context.Context,
	owner string,
	now time.Time,
	lease time.Duration,
	limit int,
) ([]*outbox.Event, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, errs.NewValueIsRequiredError("owner")
	}
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "∞")
	}
	if lease <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("lease", lease, time.Nanosecond, "∞")
	}

	now = now.UTC()
	var dtos []OutboxEventDTO
	if err := r.db.WithContext(ctx).Raw(claimQuery, map[string]any{
		"owner":   owner,
		"until":   now.Add(lease),
		"pending": outbox.StatusPending.String(),
		"now":     now,
		"limit":   limit,
	}).Scan(&dtos).Error; err != nil {
		return nil, err
	}

	// RETURNING does not keep the subquery order
	slices.SortFunc(dtos, func(a, b OutboxEventDTO) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	events := make([]*outbox.Event, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func (r *GormOutboxRepository) SaveOutcome(ctx context.Context, event *outbox.Event, owner string) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if event.Status() == outbox.StatusPending && event.AttemptCount() == 0 {
		return errs.NewValueIsInvalidErrorWithCause("event", errors.New("no delivery outcome recorded"))
	}

	dto := fromDomain(event)
	result := r.db.WithContext(ctx).Model(&OutboxEventDTO{}).
		Where("id = ? AND status = ? AND claimed_by = ?", dto.ID, outbox.StatusPending.String(), owner).
		Updates(map[string]any{
			"status":          dto.Status,
			"attempt_count":   dto.AttemptCount,
			"last_attempt_at": dto.LastAttemptAt,
			"error_message":   dto.ErrorMessage,
			"available_at":    dto.AvailableAt,
			"claimed_by":      "",
			"claimed_until":   nil,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewPreconditionFailedError("outbox_event", event.ID().String(), owner, nil)
	}
	return nil
}
