// Package guard detects domain objects that were built as zero values instead
// of through their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in value objects, aggregates and commands. Only
// NewConstructorGuard produces a guard that validates, so a struct literal or
// zero value is rejected by the owner's Validate method.
//
// Example:
//
//	type Weight struct {
//	    grams int
//	    guard guard.ConstructorGuard
//	}
//
//	func NewWeight(grams int) (Weight, error) {
//	    if grams <= 0 {
//	        return Weight{}, errors.New("weight must be positive")
//	    }
//	    return Weight{grams: grams, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (w Weight) Validate() error {
//	    return w.guard.Validate(ErrWeightNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError, or ErrDefaultConstructorGuard when it is
// nil, if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
