package commands

import (
	"errors"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrRefreshTrackingCommandIsNotConstructed = errors.New(
	"RefreshTrackingCommand must be created via NewRefreshTrackingCommand constructor",
)

// RefreshTrackingCommand polls carriers for every shipment still in transit.
type RefreshTrackingCommand struct {
	pageSize int

	guard guard.ConstructorGuard
}

func NewRefreshTrackingCommand(pageSize int) (RefreshTrackingCommand, error) {
	if pageSize <= 0 {
		return RefreshTrackingCommand{}, errs.NewValueIsOutOfRangeError("pageSize", pageSize, 1, "∞")
	}
	return RefreshTrackingCommand{pageSize: pageSize, guard: guard.NewConstructorGuard()}, nil
}

func (c RefreshTrackingCommand) Validate() error {
	return c.guard.Validate(ErrRefreshTrackingCommandIsNotConstructed)
}

func (c RefreshTrackingCommand) PageSize() int {
	return c.pageSize
}
