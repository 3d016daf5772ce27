package outbox

import (
	"math"
	"time"
)

// DelayFunc returns how long a row waits after its n-th failed attempt,
// counting from zero.
type DelayFunc func(attempt int) time.Duration

// Fixed waits the same delay after every attempt.
func Fixed(delay time.Duration) DelayFunc {
	return func(int) time.Duration {
		return delay
	}
}

// Exponential doubles the delay after every attempt up to maxDelay.
//
// With delay 5s and maxDelay 5m:
//
//	attempt 0: 5s
//	attempt 1: 10s
//	attempt 2: 20s
//	...
//	attempt 6: 5m0s
func Exponential(delay, maxDelay time.Duration) DelayFunc {
	if delay <= 0 {
		return Fixed(0)
	}

	// shifting past bit 62 overflows int64
	logDelay := math.Floor(math.Log2(float64(delay)))
	var maxShifts uint
	if logDelay < 62 {
		maxShifts = 62 - uint(logDelay)
	}

	return func(attempt int) time.Duration {
		if attempt <= 0 {
			return min(delay, maxDelay)
		}
		n := min(uint(attempt), maxShifts) // nolint:gosec
		return min(delay<<n, maxDelay)
	}
}
