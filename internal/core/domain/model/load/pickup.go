package load

import (
	"errors"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// ErrPickupIsNotConstructed is returned when a zero-value Pickup is scheduled.
var ErrPickupIsNotConstructed = errors.New("Pickup must be created via NewPickup constructor")

// Pickup is the appointment confirmed by the carrier for collecting a booked load.
type Pickup struct {
	confirmationNumber string
	scheduledFor       time.Time
	location           kernel.Location
	contactName        string
	contactPhone       string
	instructions       string
	guard              guard.ConstructorGuard
}

// NewPickup validates a pickup appointment.
func NewPickup(
	confirmationNumber string,
	scheduledFor time.Time,
	location kernel.Location,
	contactName, contactPhone, instructions string,
) (Pickup, error) {
	confirmationNumber = strings.TrimSpace(confirmationNumber)

	var errList []error
	if confirmationNumber == "" {
		errList = append(errList, errs.NewValueIsRequiredError("confirmationNumber"))
	}
	if scheduledFor.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("scheduledFor"))
	}
	errList = append(errList, location.Validate())
	if err := errors.Join(errList...); err != nil {
		return Pickup{}, err
	}

	return Pickup{
		confirmationNumber: confirmationNumber,
		scheduledFor:       scheduledFor.UTC(),
		location:           location,
		contactName:        strings.TrimSpace(contactName),
		contactPhone:       strings.TrimSpace(contactPhone),
		instructions:       strings.TrimSpace(instructions),
		guard:              guard.NewConstructorGuard(),
	}, nil
}

// Validate fails for pickups not created through NewPickup.
func (p Pickup) Validate() error {
	return p.guard.Validate(ErrPickupIsNotConstructed)
}

func (p Pickup) ConfirmationNumber() string { return p.confirmationNumber }
func (p Pickup) ScheduledFor() time.Time    { return p.scheduledFor }
func (p Pickup) Location() kernel.Location  { return p.location }
func (p Pickup) ContactName() string        { return p.contactName }
func (p Pickup) ContactPhone() string       { return p.contactPhone }
func (p Pickup) Instructions() string       { return p.instructions }
