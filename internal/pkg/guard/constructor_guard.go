// Package guard provides a marker that lets value objects and aggregates tell
// a constructed instance apart from a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded into types that must only be created by their
// constructors. The zero value reports "not constructed".
//
// Example:
//
//	type Payout struct {
//	    amount kernel.Money
//	    guard  guard.ConstructorGuard
//	}
//
//	func NewPayout(amount kernel.Money) Payout {
//	    return Payout{amount: amount, guard: guard.NewConstructorGuard()}
//	}
//
//	func (p Payout) Validate() error {
//	    return p.guard.Validate(ErrPayoutIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guarded value was not created through its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
