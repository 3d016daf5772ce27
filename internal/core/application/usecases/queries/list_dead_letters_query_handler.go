package queries

import (
	"context"
	"database/sql"

	"freight/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListDeadLettersQueryHandler struct {
	db *gorm.DB
}

func NewListDeadLettersQueryHandler(db *gorm.DB) ListDeadLettersQueryHandler {
	return ListDeadLettersQueryHandler{db: db}
}

func (h ListDeadLettersQueryHandler) Handle(
	ctx context.Context,
	query ListDeadLettersQuery,
) ([]ListDeadLettersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deadLetters := make([]ListDeadLettersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			aggregate_id,
			aggregate_type,
			event_type,
			destination,
			attempt_count,
			error_message,
			created_at,
			last_attempt_at
		FROM outbox_events
		WHERE status = 'FAILED'
		ORDER BY last_attempt_at DESC NULLS LAST, id
		LIMIT ?
	`, query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			dl            ListDeadLettersQueryResponse
			id            uuid.UUID
			aggregateID   uuid.UUID
			lastAttemptAt sql.NullTime
		)
		err = rows.Scan(
			&id,
			&aggregateID,
			&dl.AggregateType,
			&dl.EventType,
			&dl.Destination,
			&dl.AttemptCount,
			&dl.ErrorMessage,
			&dl.CreatedAt,
			&lastAttemptAt,
		)
		if err != nil {
			return nil, err
		}

		if dl.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if dl.AggregateID, err = kernel.UUIDFromBytes(aggregateID[:]); err != nil {
			return nil, err
		}
		dl.LastAttemptAt = nullableTime(lastAttemptAt)
		deadLetters = append(deadLetters, dl)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deadLetters, nil
}
