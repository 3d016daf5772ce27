package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/load"
	"freight/internal/pkg/errs"
)

var ErrRecordTenderDecisionCommandIsNotConstructed = errors.New(
	"RecordTenderDecisionCommand must be created via NewRecordTenderDecisionCommand constructor",
)

type RecordTenderDecisionCommand struct {
	aggregateTarget
	decision    load.Decision
	respondedBy string
	reason      string
}

func NewRecordTenderDecisionCommand(
	loadID kernel.UUID,
	decision load.Decision,
	respondedBy, reason string,
	token kernel.ConcurrencyToken,
) (RecordTenderDecisionCommand, error) {
	target, err := newAggregateTarget(loadID, token)
	if err != nil {
		return RecordTenderDecisionCommand{}, err
	}
	if decision != load.DecisionAccepted && decision != load.DecisionDeclined {
		return RecordTenderDecisionCommand{}, errs.NewValueIsRequiredError("decision")
	}

	return RecordTenderDecisionCommand{
		aggregateTarget: target,
		decision:        decision,
		respondedBy:     strings.TrimSpace(respondedBy),
		reason:          strings.TrimSpace(reason),
	}, nil
}

func (c RecordTenderDecisionCommand) Validate() error {
	return c.validate(ErrRecordTenderDecisionCommandIsNotConstructed)
}

func (c RecordTenderDecisionCommand) LoadID() kernel.UUID     { return c.id }
func (c RecordTenderDecisionCommand) Decision() load.Decision { return c.decision }
func (c RecordTenderDecisionCommand) RespondedBy() string     { return c.respondedBy }
func (c RecordTenderDecisionCommand) Reason() string          { return c.reason }
