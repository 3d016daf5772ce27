package carriers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// DefaultTimeout bounds a single carrier call.
const DefaultTimeout = 10 * time.Second

// timeoutAdapter runs every call of the wrapped adapter under a deadline.
// Calls that hit it are reported as errs.CarrierTransientError so callers
// can tell a slow carrier from a refusal.
type timeoutAdapter struct {
	next    ports.CarrierAdapter
	timeout time.Duration
}

// WithTimeout wraps next. A non-positive timeout uses DefaultTimeout.
func WithTimeout(next ports.CarrierAdapter, timeout time.Duration) ports.CarrierAdapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &timeoutAdapter{next: next, timeout: timeout}
}

func (a *timeoutAdapter) Name() string {
	return a.next.Name()
}

func (a *timeoutAdapter) RateLoad(ctx context.Context, req ports.RateRequest) (ports.ShippingCost, error) {
	return call(ctx, a, "rate load", func(ctx context.Context) (ports.ShippingCost, error) {
		return a.next.RateLoad(ctx, req)
	})
}

func (a *timeoutAdapter) TenderLoad(ctx context.Context, req ports.TenderRequest) (ports.TenderResult, error) {
	return call(ctx, a, "tender load", func(ctx context.Context) (ports.TenderResult, error) {
		return a.next.TenderLoad(ctx, req)
	})
}

func (a *timeoutAdapter) SchedulePickup(
	ctx context.Context,
	req ports.PickupRequest,
) (ports.PickupConfirmation, error) {
	return call(ctx, a, "schedule pickup", func(ctx context.Context) (ports.PickupConfirmation, error) {
		return a.next.SchedulePickup(ctx, req)
	})
}

func (a *timeoutAdapter) CreateShipment(ctx context.Context, pkg ports.Package) (string, error) {
	return call(ctx, a, "create shipment", func(ctx context.Context) (string, error) {
		return a.next.CreateShipment(ctx, pkg)
	})
}

func (a *timeoutAdapter) GetTrackingStatus(ctx context.Context, trackingNumber string) (*ports.TrackingUpdate, error) {
	return call(ctx, a, "get tracking status", func(ctx context.Context) (*ports.TrackingUpdate, error) {
		return a.next.GetTrackingStatus(ctx, trackingNumber)
	})
}

type callOutcome[T any] struct {
	result T
	err    error
}

// call returns when fn does or when the deadline passes, whichever is first.
// An adapter that ignores its context keeps running in the background and its
// late result is discarded.
func call[T any](
	ctx context.Context,
	a *timeoutAdapter,
	operation string,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	done := make(chan callOutcome[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callOutcome[T]{err: fmt.Errorf("carrier %s %s panicked: %v", a.next.Name(), operation, r)}
			}
		}()
		result, err := fn(callCtx)
		done <- callOutcome[T]{result: result, err: err}
	}()

	var zero T
	select {
	case out := <-done:
		if err := a.classify(ctx, callCtx, operation, out.err); err != nil {
			return zero, err
		}
		return out.result, nil
	case <-callCtx.Done():
		return zero, a.classify(ctx, callCtx, operation, callCtx.Err())
	}
}

// classify reports our own deadline as errs.CarrierTransientError, including
// a success that arrived after it. Caller cancellation and adapter errors
// unrelated to the deadline pass through.
func (a *timeoutAdapter) classify(ctx, callCtx context.Context, operation string, err error) error {
	if ctx.Err() != nil || !errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return err
	}
	switch {
	case err == nil:
		err = callCtx.Err()
	case !errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return errs.NewCarrierTransientError(a.next.Name(), operation, err)
}
