// Package queries contains read operations for retrieving system state.
// Queries read the tables directly and return read models; they never load
// aggregates and never write.
package queries

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrGetLoadQueryIsNotConstructed = errors.New(
	"GetLoadQuery must be created via NewGetLoadQuery constructor",
)

// GetLoadQuery retrieves one load with its tender and pickup summary.
//
// Example:
//
//	query, err := NewGetLoadQuery(loadID)
//	if err != nil {
//	    return err
//	}
//
//	l, err := NewGetLoadQueryHandler(db).Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get load: %w", err)
//	}
//	fmt.Printf("%s is %s, etag %s\n", l.Reference, l.Status, l.Token)
type GetLoadQuery struct {
	loadID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetLoadQuery(loadID kernel.UUID) (GetLoadQuery, error) {
	if err := loadID.Validate(); err != nil {
		return GetLoadQuery{}, err
	}
	return GetLoadQuery{loadID: loadID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetLoadQuery) Validate() error {
	return q.guard.Validate(ErrGetLoadQueryIsNotConstructed)
}

func (q GetLoadQuery) LoadID() kernel.UUID {
	return q.loadID
}

// GetLoadQueryResponse is the read model of a load. Token is the value a
// client sends back to make its next command conditional.
type GetLoadQueryResponse struct {
	ID          kernel.UUID
	Reference   string
	Status      string
	CarrierName string
	ShipmentIDs []kernel.UUID
	Origin      kernel.Location
	Destination kernel.Location
	Notes       string

	TenderStatus    string
	TenderExpiresAt *time.Time
	TenderReason    string

	PickupConfirmationNumber string
	PickupScheduledFor       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	Token     kernel.ConcurrencyToken
}
