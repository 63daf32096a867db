// Package authz holds the pure authorization predicates evaluated before any
// privileged registry mutation, plus the shared failure taxonomy.
package authz

import (
	"errors"

	"github.com/rofergon/seadrop/internal/addrset"
	"github.com/rofergon/seadrop/internal/identity"
)

var (
	// ErrUnauthorized indicates an owner-gated call from a non-owner identity.
	ErrUnauthorized = errors.New("authz: caller is not the owner")
	// ErrDelegateNotAllowed indicates a mint trigger from an identity outside
	// the tenant's delegate set.
	ErrDelegateNotAllowed = errors.New("authz: caller is not an allowed delegate")
	// ErrSupplyExceeded indicates a mint that would breach the max-supply bound.
	ErrSupplyExceeded = errors.New("authz: mint quantity exceeds max supply")
)

// IsOwner reports whether the caller is exactly the tenant owner. The zero
// address never owns anything.
func IsOwner(caller, owner identity.Address) bool {
	if caller.IsZero() || owner.IsZero() {
		return false
	}
	return caller == owner
}

// IsAllowedDelegate reports whether the caller is a member of the tenant's
// delegate set. A nil set allows nobody.
func IsAllowedDelegate(caller identity.Address, delegates *addrset.Set) bool {
	if caller.IsZero() || delegates == nil {
		return false
	}
	return delegates.Contains(caller)
}
