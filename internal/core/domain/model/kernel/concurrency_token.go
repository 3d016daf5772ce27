package kernel

import (
	"fmt"
	"strconv"
	"time"

	"freight/internal/pkg/errs"
)

// ConcurrencyToken is the optimistic-concurrency version of an aggregate: its
// last-modified timestamp at microsecond precision. Callers receive it with
// every read, hand it back on writes, and a write is rejected when the stored
// timestamp moved on in between.
//
// The zero token means "no expectation" and matches anything.
type ConcurrencyToken struct {
	at time.Time
}

// NewConcurrencyToken wraps a modification timestamp.
func NewConcurrencyToken(at time.Time) ConcurrencyToken {
	if at.IsZero() {
		return ConcurrencyToken{}
	}
	return ConcurrencyToken{at: at.UTC().Truncate(time.Microsecond)}
}

// ParseConcurrencyToken parses the decimal Unix-microsecond form produced by String.
func ParseConcurrencyToken(s string) (ConcurrencyToken, error) {
	if s == "" {
		return ConcurrencyToken{}, nil
	}
	micros, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ConcurrencyToken{}, errs.NewVersionIsInvalidErrorWithCause("concurrencyToken", err)
	}
	if micros <= 0 {
		return ConcurrencyToken{}, errs.NewVersionIsInvalidErrorWithCause("concurrencyToken",
			fmt.Errorf("%d is not a positive timestamp", micros))
	}
	return ConcurrencyToken{at: time.UnixMicro(micros).UTC()}, nil
}

// String returns the token as decimal Unix microseconds, or "" for the zero token.
func (t ConcurrencyToken) String() string {
	if t.at.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.at.UnixMicro(), 10)
}

// Time returns the wrapped timestamp.
func (t ConcurrencyToken) Time() time.Time {
	return t.at
}

// IsZero reports whether the token carries no expectation.
func (t ConcurrencyToken) IsZero() bool {
	return t.at.IsZero()
}

// IsEqual compares two tokens at microsecond precision.
func (t ConcurrencyToken) IsEqual(other ConcurrencyToken) bool {
	return t.at.Equal(other.at)
}

// Check returns a PreconditionFailedError when the token is set and differs
// from current. A zero token always passes.
func (t ConcurrencyToken) Check(aggregateType string, id UUID, current ConcurrencyToken) error {
	if t.IsZero() || t.IsEqual(current) {
		return nil
	}
	return errs.NewPreconditionFailedError(aggregateType, id.String(), t.String(), current.String())
}

// NextTimestamp returns the modification time following prev: now truncated to
// microseconds, or prev plus one microsecond when the clock has not advanced
// past prev. Consecutive mutations therefore always yield distinct tokens.
func NextTimestamp(prev, now time.Time) time.Time {
	next := now.UTC().Truncate(time.Microsecond)
	if !prev.IsZero() && !next.After(prev) {
		next = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return next
}
