package outbox

import (
	"maps"
	"strings"
)

// Router maps event types to sink destinations. Event types without an
// explicit route go to "freight.<aggregateType>s".
type Router struct {
	routes map[string]string
}

// NewRouter copies routes; blank keys and values are ignored.
func NewRouter(routes map[string]string) Router {
	r := Router{routes: make(map[string]string, len(routes))}
	for eventType, destination := range routes {
		eventType, destination = strings.TrimSpace(eventType), strings.TrimSpace(destination)
		if eventType == "" || destination == "" {
			continue
		}
		r.routes[eventType] = destination
	}
	return r
}

// Destination returns the topic or stream an event is published to.
func (r Router) Destination(aggregateType, eventType string) string {
	if d, ok := r.routes[eventType]; ok {
		return d
	}
	return "freight." + aggregateType + "s"
}

// Routes returns a copy of the explicit routes.
func (r Router) Routes() map[string]string {
	return maps.Clone(r.routes)
}
