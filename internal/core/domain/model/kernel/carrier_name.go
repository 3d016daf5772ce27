package kernel

import "strings"

// NormalizeCarrierName returns the canonical form of a carrier name ("fedex "
// and "FedEx" both become "FEDEX"). Loads, shipments and the carrier registry
// all compare normalized names.
func NormalizeCarrierName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
