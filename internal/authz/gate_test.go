package authz

import (
	"testing"

	"github.com/rofergon/seadrop/internal/addrset"
	"github.com/rofergon/seadrop/internal/identity"
)

func mustAddress(t *testing.T, raw string) identity.Address {
	t.Helper()
	address, err := identity.NewAddress(raw)
	if err != nil {
		t.Fatalf("unexpected address error: %v", err)
	}
	return address
}

func TestIsOwnerRequiresExactMatch(t *testing.T) {
	owner := mustAddress(t, "0x00000000000000000000000000000000000000aa")
	other := mustAddress(t, "0x00000000000000000000000000000000000000bb")

	if !IsOwner(owner, owner) {
		t.Fatalf("owner must pass the owner gate")
	}
	if IsOwner(other, owner) {
		t.Fatalf("non-owner must fail the owner gate")
	}
}

func TestIsOwnerRejectsZeroIdentities(t *testing.T) {
	owner := mustAddress(t, "0x00000000000000000000000000000000000000aa")

	if IsOwner(identity.Zero, owner) {
		t.Fatalf("zero caller must not pass")
	}
	if IsOwner(owner, identity.Zero) {
		t.Fatalf("zero owner must not authorize anyone")
	}
	if IsOwner(identity.Zero, identity.Zero) {
		t.Fatalf("zero caller must not match zero owner")
	}
}

func TestIsAllowedDelegateChecksMembership(t *testing.T) {
	delegate := mustAddress(t, "0x00000000000000000000000000000000000000cc")
	stranger := mustAddress(t, "0x00000000000000000000000000000000000000dd")
	delegates := addrset.New()
	delegates.Insert(delegate)

	if !IsAllowedDelegate(delegate, delegates) {
		t.Fatalf("registered delegate must pass")
	}
	if IsAllowedDelegate(stranger, delegates) {
		t.Fatalf("unregistered caller must fail")
	}
	if IsAllowedDelegate(delegate, nil) {
		t.Fatalf("nil delegate set must allow nobody")
	}
}
