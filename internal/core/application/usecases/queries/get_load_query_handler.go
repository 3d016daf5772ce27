package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetLoadQueryHandler reads a load from the loads table. The tender status is
// derived from the stored offer and response the same way the aggregate does.
type GetLoadQueryHandler struct {
	db *gorm.DB
}

func NewGetLoadQueryHandler(db *gorm.DB) GetLoadQueryHandler {
	return GetLoadQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError for unknown ids.
func (h GetLoadQueryHandler) Handle(ctx context.Context, query GetLoadQuery) (GetLoadQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetLoadQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			reference,
			status,
			carrier_name,
			shipment_ids,
			`+locationColumns("origin")+`,
			`+locationColumns("destination")+`,
			notes,
			CASE
				WHEN tender->'offer' IS NULL THEN 'NOT_TENDERED'
				WHEN tender->'response' IS NULL THEN 'PENDING'
				WHEN tender->'response'->>'decision' = 'ACCEPTED' THEN 'ACCEPTED'
				ELSE 'DECLINED'
			END,
			(tender->'offer'->>'expiresAt')::timestamptz,
			COALESCE(tender->'response'->>'reason', ''),
			COALESCE(pickup->>'confirmationNumber', ''),
			(pickup->>'scheduledFor')::timestamptz,
			created_at,
			updated_at
		FROM loads
		WHERE id = ?
	`, query.LoadID().String()).Row()

	var (
		resp        GetLoadQueryResponse
		id          uuid.UUID
		shipmentIDs pq.StringArray
		origin      kernel.LocationSnapshot
		destination kernel.LocationSnapshot
		expiresAt   sql.NullTime
		scheduled   sql.NullTime
	)
	err := row.Scan(
		&id,
		&resp.Reference,
		&resp.Status,
		&resp.CarrierName,
		&shipmentIDs,
		&origin.Name, &origin.AddressLine, &origin.City, &origin.Region,
		&origin.PostalCode, &origin.CountryCode, &origin.Latitude, &origin.Longitude,
		&destination.Name, &destination.AddressLine, &destination.City, &destination.Region,
		&destination.PostalCode, &destination.CountryCode, &destination.Latitude, &destination.Longitude,
		&resp.Notes,
		&resp.TenderStatus,
		&expiresAt,
		&resp.TenderReason,
		&resp.PickupConfirmationNumber,
		&scheduled,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetLoadQueryResponse{}, errs.NewObjectNotFoundError("loadID", query.LoadID())
	}
	if err != nil {
		return GetLoadQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetLoadQueryResponse{}, err
	}
	if resp.ShipmentIDs, err = parseUUIDs(shipmentIDs); err != nil {
		return GetLoadQueryResponse{}, err
	}
	if resp.Origin, err = kernel.LocationFromSnapshot(origin); err != nil {
		return GetLoadQueryResponse{}, err
	}
	if resp.Destination, err = kernel.LocationFromSnapshot(destination); err != nil {
		return GetLoadQueryResponse{}, err
	}
	resp.TenderExpiresAt = nullableTime(expiresAt)
	resp.PickupScheduledFor = nullableTime(scheduled)
	resp.Token = kernel.NewConcurrencyToken(resp.UpdatedAt)

	return resp, nil
}

func locationColumns(prefix string) string {
	return `COALESCE(` + prefix + `_name, ''),
			COALESCE(` + prefix + `_address_line, ''),
			COALESCE(` + prefix + `_city, ''),
			COALESCE(` + prefix + `_region, ''),
			COALESCE(` + prefix + `_postal_code, ''),
			COALESCE(` + prefix + `_country_code, ''),
			` + prefix + `_latitude,
			` + prefix + `_longitude`
}

func parseUUIDs(raw []string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := kernel.UUIDFromString(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
