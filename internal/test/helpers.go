package test

import (
	"slices"
	"sync/atomic"
)

// Payload is a test value with observable duplication. The clone counter is
// shared across copies of the value (it lives behind a pointer), so tests
// can count clone-on-write duplications no matter which copy they hold.
type Payload struct {
	ID     int
	Labels []string
	clones *atomic.Int64
}

// NewPayload creates a Payload with a fresh clone counter.
func NewPayload(id int, labels ...string) Payload {
	return Payload{
		ID:     id,
		Labels: labels,
		clones: new(atomic.Int64),
	}
}

// Clone deep-copies the payload and bumps the shared clone counter.
func (p Payload) Clone() Payload {
	p.clones.Add(1)
	out := p
	out.Labels = slices.Clone(p.Labels)
	return out
}

// Clones returns how many times any copy of this payload has been cloned.
func (p Payload) Clones() int64 {
	return p.clones.Load()
}

// TrapValue panics when cloned. Use it to prove that a code path performs
// zero duplications.
type TrapValue struct {
	N int
}

// Clone always panics.
func (v TrapValue) Clone() TrapValue {
	panic("test failed: clone was called")
}
