// Package addrset provides an enumerable address set with constant-time
// membership, insertion and removal. Enumeration order is unspecified and
// changes after removals; callers must not depend on it.
package addrset

import "github.com/rofergon/seadrop/internal/identity"

// Set holds a collection of unique addresses. The zero value is not usable;
// construct with New.
type Set struct {
	positions map[identity.Address]int
	members   []identity.Address
}

// New returns an empty set.
func New() *Set {
	return &Set{positions: make(map[identity.Address]int)}
}

// Contains reports whether the address is a member.
func (s *Set) Contains(address identity.Address) bool {
	_, ok := s.positions[address]
	return ok
}

// Insert adds the address and reports whether it was newly added. Inserting an
// existing member is a no-op.
func (s *Set) Insert(address identity.Address) bool {
	if _, ok := s.positions[address]; ok {
		return false
	}
	s.positions[address] = len(s.members)
	s.members = append(s.members, address)
	return true
}

// Remove deletes the address and reports whether it was present. The last
// member is swapped into the vacated slot, so enumeration order shifts.
func (s *Set) Remove(address identity.Address) bool {
	position, ok := s.positions[address]
	if !ok {
		return false
	}
	lastIndex := len(s.members) - 1
	if position != lastIndex {
		moved := s.members[lastIndex]
		s.members[position] = moved
		s.positions[moved] = position
	}
	s.members = s.members[:lastIndex]
	delete(s.positions, address)
	return true
}

// Members returns a snapshot of the current membership in arbitrary order.
func (s *Set) Members() []identity.Address {
	snapshot := make([]identity.Address, len(s.members))
	copy(snapshot, s.members)
	return snapshot
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.members)
}
