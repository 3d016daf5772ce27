package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetShipmentQueryHandler struct {
	db *gorm.DB
}

func NewGetShipmentQueryHandler(db *gorm.DB) GetShipmentQueryHandler {
	return GetShipmentQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError for unknown ids.
func (h GetShipmentQueryHandler) Handle(
	ctx context.Context,
	query GetShipmentQuery,
) (GetShipmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetShipmentQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			carrier_name,
			tracking_number,
			status,
			assigned_load_id,
			tracking_events,
			created_at,
			dispatched_at,
			delivered_at,
			last_updated_at
		FROM shipments
		WHERE id = ?
	`, query.ShipmentID().String()).Row()

	var (
		resp         GetShipmentQueryResponse
		id           uuid.UUID
		loadID       uuid.UUID
		events       []byte
		dispatchedAt sql.NullTime
		deliveredAt  sql.NullTime
	)
	err := row.Scan(
		&id,
		&resp.OrderID,
		&resp.CarrierName,
		&resp.TrackingNumber,
		&resp.Status,
		&loadID,
		&events,
		&resp.CreatedAt,
		&dispatchedAt,
		&deliveredAt,
		&resp.LastUpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetShipmentQueryResponse{}, errs.NewObjectNotFoundError("shipmentID", query.ShipmentID())
	}
	if err != nil {
		return GetShipmentQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetShipmentQueryResponse{}, err
	}
	if loadID != uuid.Nil {
		assigned, idErr := kernel.UUIDFromBytes(loadID[:])
		if idErr != nil {
			return GetShipmentQueryResponse{}, idErr
		}
		resp.AssignedLoadID = &assigned
	}

	resp.TrackingEvents = make([]TrackingEventView, 0)
	if len(events) > 0 {
		if err = json.Unmarshal(events, &resp.TrackingEvents); err != nil {
			return GetShipmentQueryResponse{}, fmt.Errorf("failed to decode tracking events: %w", err)
		}
	}

	resp.DispatchedAt = nullableTime(dispatchedAt)
	resp.DeliveredAt = nullableTime(deliveredAt)
	resp.Token = kernel.NewConcurrencyToken(resp.LastUpdatedAt)

	return resp, nil
}
