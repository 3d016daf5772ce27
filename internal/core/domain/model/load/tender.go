package load

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/pkg/errs"
)

// TenderStatus is derived from the tender's offer and response.
type TenderStatus int

const (
	TenderStatusUnknown TenderStatus = iota
	TenderStatusNotTendered
	TenderStatusPending
	TenderStatusAccepted
	TenderStatusDeclined
)

func (s TenderStatus) String() string {
	switch s {
	case TenderStatusNotTendered:
		return "NOT_TENDERED"
	case TenderStatusPending:
		return "PENDING"
	case TenderStatusAccepted:
		return "ACCEPTED"
	case TenderStatusDeclined:
		return "DECLINED"
	default:
		return "UNKNOWN"
	}
}

// Decision is a carrier's answer to a tender.
type Decision int

const (
	DecisionUnknown Decision = iota
	DecisionAccepted
	DecisionDeclined
)

func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "ACCEPTED"
	case DecisionDeclined:
		return "DECLINED"
	default:
		return "UNKNOWN"
	}
}

// ParseDecision accepts "ACCEPTED" or "DECLINED".
func ParseDecision(s string) (Decision, error) {
	switch s {
	case "ACCEPTED":
		return DecisionAccepted, nil
	case "DECLINED":
		return DecisionDeclined, nil
	default:
		return DecisionUnknown, errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%q is not a tender decision", s))
	}
}

// TenderOffer is what was sent to the carrier.
type TenderOffer struct {
	TenderedAt time.Time
	ExpiresAt  time.Time
	Notes      string
}

// TenderResponse is what the carrier answered.
type TenderResponse struct {
	Decision    Decision
	RespondedAt time.Time
	RespondedBy string
	Reason      string
}

// Tender is the offer of a load to its carrier. No offer means NOT_TENDERED,
// an offer without response is PENDING, and a response carries the decision,
// so a decision exists exactly when the tender is ACCEPTED or DECLINED.
type Tender struct {
	offer    *TenderOffer
	response *TenderResponse
}

// RestoreTender rebuilds a tender from storage.
func RestoreTender(offer *TenderOffer, response *TenderResponse) (Tender, error) {
	if offer == nil && response != nil {
		return Tender{}, errs.NewValueIsInvalidErrorWithCause("tender", errors.New("response without offer"))
	}
	if response != nil && response.Decision != DecisionAccepted && response.Decision != DecisionDeclined {
		return Tender{}, errs.NewValueIsInvalidErrorWithCause("tender", fmt.Errorf("decision %d is invalid", response.Decision))
	}
	t := Tender{}
	if offer != nil {
		o := *offer
		t.offer = &o
	}
	if response != nil {
		r := *response
		t.response = &r
	}
	return t, nil
}

// Status derives the tender status.
func (t Tender) Status() TenderStatus {
	switch {
	case t.offer == nil:
		return TenderStatusNotTendered
	case t.response == nil:
		return TenderStatusPending
	case t.response.Decision == DecisionAccepted:
		return TenderStatusAccepted
	default:
		return TenderStatusDeclined
	}
}

// Offer returns the pending or answered offer.
func (t Tender) Offer() (TenderOffer, bool) {
	if t.offer == nil {
		return TenderOffer{}, false
	}
	return *t.offer, true
}

// Response returns the carrier's answer.
func (t Tender) Response() (TenderResponse, bool) {
	if t.response == nil {
		return TenderResponse{}, false
	}
	return *t.response, true
}

// Decision returns the carrier's decision, present iff the tender was answered.
func (t Tender) Decision() (Decision, bool) {
	if t.response == nil {
		return DecisionUnknown, false
	}
	return t.response.Decision, true
}
