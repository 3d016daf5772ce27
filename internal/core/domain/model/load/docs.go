// Package load implements the Load aggregate: a carrier-bound group of
// shipments moving from PLANNED through tendering, booking and transit to
// DELIVERED, with CANCELLED reachable from any non-terminal state.
//
// The package includes:
//   - Load: the aggregate root and its operations
//   - Status: the load state machine
//   - Tender: the offer to the carrier and its answer
//   - Pickup: the carrier's collection appointment
//
// Every successful operation records one domain event (see events.go) that
// the unit of work stores in the outbox together with the load itself.
package load
