package loadrepo

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type LoadDTO struct {
	ID                    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Reference             string         `gorm:"type:varchar(255);not null;index"`
	Status                string         `gorm:"type:varchar(32);not null;index"`
	CarrierName           string         `gorm:"type:varchar(64);not null;default:''"`
	ShipmentIDs           pq.StringArray `gorm:"type:text[];not null"`
	Origin                LocationDTO    `gorm:"embedded;embeddedPrefix:origin_"`
	Destination           LocationDTO    `gorm:"embedded;embeddedPrefix:destination_"`
	RequestedPickupDate   *time.Time     `gorm:"type:timestamptz"`
	RequestedDeliveryDate *time.Time     `gorm:"type:timestamptz"`
	Pickup                *PickupDTO     `gorm:"type:jsonb;serializer:json"`
	Tender                TenderDTO      `gorm:"type:jsonb;serializer:json;not null"`
	Notes                 string         `gorm:"type:text;not null;default:''"`
	CreatedAt             time.Time      `gorm:"type:timestamptz;not null;autoCreateTime:false"`
	UpdatedAt             time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime:false"`
}

func (LoadDTO) TableName() string {
	return "loads"
}

type LocationDTO struct {
	Name        string   `gorm:"type:varchar(255)" json:"name,omitempty"`
	AddressLine string   `gorm:"type:varchar(255)" json:"addressLine,omitempty"`
	City        string   `gorm:"type:varchar(128)" json:"city"`
	Region      string   `gorm:"type:varchar(128)" json:"region,omitempty"`
	PostalCode  string   `gorm:"type:varchar(32)" json:"postalCode,omitempty"`
	CountryCode string   `gorm:"type:char(2)" json:"countryCode"`
	Latitude    *float64 `gorm:"type:double precision" json:"latitude,omitempty"`
	Longitude   *float64 `gorm:"type:double precision" json:"longitude,omitempty"`
}

type PickupDTO struct {
	ConfirmationNumber string      `json:"confirmationNumber"`
	ScheduledFor       time.Time   `json:"scheduledFor"`
	Location           LocationDTO `json:"location"`
	ContactName        string      `json:"contactName,omitempty"`
	ContactPhone       string      `json:"contactPhone,omitempty"`
	Instructions       string      `json:"instructions,omitempty"`
}

type TenderDTO struct {
	Offer    *TenderOfferDTO    `json:"offer,omitempty"`
	Response *TenderResponseDTO `json:"response,omitempty"`
}

type TenderOfferDTO struct {
	TenderedAt time.Time `json:"tenderedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Notes      string    `json:"notes,omitempty"`
}

type TenderResponseDTO struct {
	Decision    string    `json:"decision"`
	RespondedAt time.Time `json:"respondedAt"`
	RespondedBy string    `json:"respondedBy,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}

func fromDomain(l *load.Load) LoadDTO {
	ids := l.ShipmentIDs()
	shipmentIDs := make(pq.StringArray, len(ids))
	for i, id := range ids {
		shipmentIDs[i] = id.String()
	}

	dto := LoadDTO{
		ID:                    l.ID().Bytes(),
		Reference:             l.Reference(),
		Status:                l.Status().String(),
		CarrierName:           l.CarrierName(),
		ShipmentIDs:           shipmentIDs,
		Origin:                locationFromDomain(l.Origin()),
		Destination:           locationFromDomain(l.Destination()),
		RequestedPickupDate:   optionalTime(l.RequestedPickupDate()),
		RequestedDeliveryDate: optionalTime(l.RequestedDeliveryDate()),
		Tender:                tenderFromDomain(l.TenderDetails()),
		Notes:                 l.Notes(),
		CreatedAt:             l.CreatedAt(),
		UpdatedAt:             l.UpdatedAt(),
	}

	if p, ok := l.Pickup(); ok {
		dto.Pickup = &PickupDTO{
			ConfirmationNumber: p.ConfirmationNumber(),
			ScheduledFor:       p.ScheduledFor(),
			Location:           locationFromDomain(p.Location()),
			ContactName:        p.ContactName(),
			ContactPhone:       p.ContactPhone(),
			Instructions:       p.Instructions(),
		}
	}

	return dto
}

func toDomain(dto LoadDTO) (*load.Load, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := load.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	shipmentIDs := make([]kernel.UUID, 0, len(dto.ShipmentIDs))
	for _, raw := range dto.ShipmentIDs {
		shipmentID, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return nil, idErr
		}
		shipmentIDs = append(shipmentIDs, shipmentID)
	}

	origin, err := locationToDomain(dto.Origin)
	if err != nil {
		return nil, err
	}
	destination, err := locationToDomain(dto.Destination)
	if err != nil {
		return nil, err
	}

	tender, err := tenderToDomain(dto.Tender)
	if err != nil {
		return nil, err
	}

	var pickup *load.Pickup
	if dto.Pickup != nil {
		loc, locErr := locationToDomain(dto.Pickup.Location)
		if locErr != nil {
			return nil, locErr
		}
		p, pErr := load.NewPickup(dto.Pickup.ConfirmationNumber, dto.Pickup.ScheduledFor, loc,
			dto.Pickup.ContactName, dto.Pickup.ContactPhone, dto.Pickup.Instructions)
		if pErr != nil {
			return nil, pErr
		}
		pickup = &p
	}

	return load.RestoreLoad(load.Snapshot{
		ID:                    id,
		Reference:             dto.Reference,
		Status:                status,
		CarrierName:           dto.CarrierName,
		ShipmentIDs:           shipmentIDs,
		Origin:                origin,
		Destination:           destination,
		RequestedPickupDate:   valueOf(dto.RequestedPickupDate),
		RequestedDeliveryDate: valueOf(dto.RequestedDeliveryDate),
		Pickup:                pickup,
		Tender:                tender,
		Notes:                 dto.Notes,
		CreatedAt:             dto.CreatedAt,
		UpdatedAt:             dto.UpdatedAt,
	})
}

func locationFromDomain(l kernel.Location) LocationDTO {
	return LocationDTO(l.Snapshot())
}

func locationToDomain(dto LocationDTO) (kernel.Location, error) {
	return kernel.LocationFromSnapshot(kernel.LocationSnapshot(dto))
}

func tenderFromDomain(t load.Tender) TenderDTO {
	var dto TenderDTO
	if offer, ok := t.Offer(); ok {
		dto.Offer = &TenderOfferDTO{
			TenderedAt: offer.TenderedAt,
			ExpiresAt:  offer.ExpiresAt,
			Notes:      offer.Notes,
		}
	}
	if resp, ok := t.Response(); ok {
		dto.Response = &TenderResponseDTO{
			Decision:    resp.Decision.String(),
			RespondedAt: resp.RespondedAt,
			RespondedBy: resp.RespondedBy,
			Reason:      resp.Reason,
		}
	}
	return dto
}

func tenderToDomain(dto TenderDTO) (load.Tender, error) {
	var offer *load.TenderOffer
	if dto.Offer != nil {
		offer = &load.TenderOffer{
			TenderedAt: dto.Offer.TenderedAt,
			ExpiresAt:  dto.Offer.ExpiresAt,
			Notes:      dto.Offer.Notes,
		}
	}

	var response *load.TenderResponse
	if dto.Response != nil {
		decision, err := load.ParseDecision(dto.Response.Decision)
		if err != nil {
			return load.Tender{}, err
		}
		response = &load.TenderResponse{
			Decision:    decision,
			RespondedAt: dto.Response.RespondedAt,
			RespondedBy: dto.Response.RespondedBy,
			Reason:      dto.Response.Reason,
		}
	}

	return load.RestoreTender(offer, response)
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func valueOf(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
