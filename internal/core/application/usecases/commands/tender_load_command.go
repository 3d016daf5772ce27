package commands

import (
	"errors"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

var ErrTenderLoadCommandIsNotConstructed = errors.New(
	"TenderLoadCommand must be created via NewTenderLoadCommand constructor",
)

type TenderLoadCommand struct {
	aggregateTarget
	expiresAt time.Time
	notes     string
}

func NewTenderLoadCommand(
	loadID kernel.UUID,
	expiresAt time.Time,
	notes string,
	token kernel.ConcurrencyToken,
) (TenderLoadCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return TenderLoadCommand{}, err
	}
	if expiresAt.IsZero() {
		return TenderLoadCommand{}, errs.NewValueIsRequiredError("expiresAt")
	}

	return TenderLoadCommand{
		aggregateTarget: target,
		expiresAt:       expiresAt.UTC(),
		notes:           strings.TrimSpace(notes),
	}, nil
}

func (c TenderLoadCommand) Validate() error {
	return c.validate(ErrTenderLoadCommandIsNotConstructed)
}

func (c TenderLoadCommand) LoadID() kernel.UUID  { return c.id }
func (c TenderLoadCommand) ExpiresAt() time.Time { return c.expiresAt }
func (c TenderLoadCommand) Notes() string        { return c.notes }
