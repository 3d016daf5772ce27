// Package shipment implements the Shipment aggregate: one order handed to a
// carrier, followed from CREATED through DISPATCHED and IN_TRANSIT until the
// carrier reports it DELIVERED or FAILED_DELIVERY.
//
// Tracking scans come from carrier adapters already classified as a
// TrackingOutcome; the aggregate only merges and orders them.
package shipment
