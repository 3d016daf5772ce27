// Package outbox holds the transactional outbox row and the rules the
// publisher follows for it: retries with backoff, dead-lettering after a
// bounded number of attempts and operator replay of dead letters.
package outbox
