// Package kernel provides the primitives shared by the freight aggregates.
//
// The package includes:
//   - UUID: identifier value object wrapping github.com/google/uuid
//   - Location: postal address with optional coordinates
//   - ConcurrencyToken: the last-modified timestamp used for optimistic concurrency
//   - DomainEvent and EventRecorder: events buffered by aggregates until the
//     unit of work writes them to the outbox
//
// Value objects are immutable and reject their zero value in Validate.
package kernel
