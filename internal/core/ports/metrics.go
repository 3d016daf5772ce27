package ports

import "time"

// OutboxMetrics receives one call per delivery attempt made by the publisher.
type OutboxMetrics interface {
	Delivered(destination string, took time.Duration)
	Retried(destination string, took time.Duration)
	DeadLettered(destination string, took time.Duration)
}

// TrackingMetrics counts tracking sweep results per carrier. Outcome is one of
// "updated", "unchanged" or "failed".
type TrackingMetrics interface {
	TrackingChecked(carrier, outcome string)
}
