package sinks

import (
	"context"
	"testing"
)

// testContextInternal stands in for testing.T.Context (Go 1.24): the context
// is canceled when the test finishes.
func testContextInternal(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
