// Package rtti provides a lightweight runtime type identity mechanism
// for node classes. Each declared class is assigned a small integer
// identity once at process start; ancestor checks walk a single-parent
// chain. This substitutes for reflection on hosts where reflective
// type inspection is unavailable or too expensive, and supports safe
// narrowing: a "cast to T" succeeds iff IsA(T) holds.
package rtti

import "sync/atomic"

// counter issues class identities. Identities are assigned once per
// declared class, typically during package initialization.
var counter uint32

// ClassType is the runtime identity of a declared node class.
// Equality of identities is the sole "is-a at this level" test;
// ancestor checks compose along the declared parent chain.
type ClassType struct {
	id     uint32
	parent *ClassType
}

// New declares a new base class identity with no parent.
func New() *ClassType {
	return &ClassType{id: atomic.AddUint32(&counter, 1)}
}

// Subtype declares a new class identity derived from parent.
// The parent chain is a chain, not a general graph: each class has at
// most one declared parent.
func Subtype(parent *ClassType) *ClassType {
	return &ClassType{id: atomic.AddUint32(&counter, 1), parent: parent}
}

// ID returns this class's numeric identity.
func (t *ClassType) ID() uint32 {
	return t.id
}

// Parent returns the declared parent class, or nil for base classes.
func (t *ClassType) Parent() *ClassType {
	return t.parent
}

// IsA reports whether an instance of this class is usable as class
// other: true iff other equals this class's own identity or any
// identity along the declared parent chain. IsA(nil) is false.
func (t *ClassType) IsA(other *ClassType) bool {
	if t == nil || other == nil {
		return false
	}
	for c := t; c != nil; c = c.parent {
		if c.id == other.id {
			return true
		}
	}
	return false
}
