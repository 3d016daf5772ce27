// Package carriers holds the carrier adapters and the registry that resolves
// them by name.
package carriers

import (
	"slices"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// Registry is built once at startup and read concurrently afterwards.
type Registry struct {
	adapters map[string]ports.CarrierAdapter
}

var _ ports.CarrierRegistry = (*Registry)(nil)

// NewRegistry indexes adapters by their normalized Name. Blank and duplicate
// names are rejected.
func NewRegistry(adapters ...ports.CarrierAdapter) (*Registry, error) {
	r := &Registry{adapters: make(map[string]ports.CarrierAdapter, len(adapters))}
	for _, a := range adapters {
		name := kernel.NormalizeCarrierName(a.Name())
		if name == "" {
			return nil, errs.NewValueIsRequiredError("carrierName")
		}
		if _, ok := r.adapters[name]; ok {
			return nil, errs.NewObjectAlreadyExistsError("carrierName", name)
		}
		r.adapters[name] = a
	}
	return r, nil
}

func (r *Registry) Adapter(carrierName string) (ports.CarrierAdapter, error) {
	a, ok := r.adapters[kernel.NormalizeCarrierName(carrierName)]
	if !ok {
		return nil, errs.NewNoAdapterForCarrierError(carrierName)
	}
	return a, nil
}

// Names returns the registered carriers in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
