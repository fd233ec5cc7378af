// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cowrc

import (
	"errors"
	"reflect"
)

// ErrReleased is used as a panic value when a pointer or weak handle is used
// after it has been released. This is a caller bug, not a recoverable
// condition, so it is reported the same way as other Go misuse errors
// (double close, negative WaitGroup counter, etc).
var ErrReleased = errors.New("cowrc: use of released pointer")

// rcAlloc is the heap block behind one or more Rc handles. The counters are
// only ever touched through Rc/RcWeak methods; they must never escape this
// package, since the clone-on-write transitions depend on them being exact.
type rcAlloc[T any] struct {
	value  T
	strong int
	weak   int
	clone  CloneFunc[T]
}

// Rc is a thread-confined shared pointer with clone-on-write mutation.
//
// Cloning an Rc is a counter increment and never copies the contained value.
// Mutating through Mut copies the value only when another strong handle
// shares the allocation; a uniquely-owned value is mutated in place. Weak
// handles (see Downgrade) never force a copy: mutating a sole-owner Rc that
// has weak observers simply moves the value to a fresh allocation and leaves
// the observers dangling.
//
// An Rc and everything aliasing its allocation must stay within a single
// goroutine. Use Arc for the thread-safe variant with the same contract.
//
// Go has no destructors, so dropping a handle is explicit: call Release when
// done with an Rc or an upgraded weak handle. The contained value is zeroed
// when the last strong handle is released, and the block itself is reclaimed
// by the garbage collector once no handles remain.
type Rc[T any] struct {
	alloc *rcAlloc[T]
}

// RcWeak is a non-owning observer of an Rc allocation. It does not keep the
// contained value alive. The zero value is a valid observer that never
// pointed anywhere; its Upgrade always fails.
type RcWeak[T any] struct {
	alloc *rcAlloc[T]
}

// CloneFunc duplicates a value for a clone-on-write transition. The result
// must not share mutable state with the input.
type CloneFunc[T any] func(T) T

// PointerOption configures a new pointer.
type PointerOption[T any] func(*pointerConfig[T])

type pointerConfig[T any] struct {
	clone CloneFunc[T]
}

// WithCloneFunc overrides the duplication strategy used when a shared value
// must be copied before mutation. The default strategy uses the value's
// Clone method when it implements Cloner, and a reflective deep copy
// otherwise. Slices and other reference-heavy payloads usually want an
// explicit clone func (e.g. slices.Clone).
func WithCloneFunc[T any](clone CloneFunc[T]) PointerOption[T] {
	return func(c *pointerConfig[T]) {
		c.clone = clone
	}
}

func newPointerConfig[T any](opts []PointerOption[T]) pointerConfig[T] {
	cfg := pointerConfig[T]{
		clone: CloneValue[T],
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// New creates an Rc owning a fresh allocation holding value, with a strong
// count of one and no weak observers.
func New[T any](value T, opts ...PointerOption[T]) *Rc[T] {
	cfg := newPointerConfig(opts)
	return &Rc[T]{
		alloc: &rcAlloc[T]{
			value:  value,
			strong: 1,
			clone:  cfg.clone,
		},
	}
}

// Clone returns a new handle sharing the same allocation. This is a counter
// increment; the contained value is not copied regardless of its size.
func (r *Rc[T]) Clone() *Rc[T] {
	a := r.checkAlloc()
	a.strong++
	return &Rc[T]{alloc: a}
}

// Get returns a view of the current value. The returned pointer must be
// treated as read-only; use Mut for mutation so the clone-on-write
// transitions can run.
func (r *Rc[T]) Get() *T {
	return &r.checkAlloc().value
}

// Value returns a copy of the current value.
func (r *Rc[T]) Value() T {
	return r.checkAlloc().value
}

// Mut returns a pointer through which the value may be mutated, ensuring
// first that this handle is the unique strong owner of its allocation:
//
//   - unique owner, no weak observers: the existing value is returned in
//     place, nothing is copied
//   - unique owner with weak observers: the value is moved to a fresh
//     allocation; the old allocation's observers are permanently
//     disassociated and will fail to upgrade
//   - shared: the value is duplicated into a fresh allocation and the old
//     allocation keeps the pre-mutation value for the other owners (and any
//     observers)
//
// The returned pointer is only valid until the next operation on any handle
// sharing the allocation.
func (r *Rc[T]) Mut() *T {
	a := r.checkAlloc()
	if a.strong == 1 {
		if a.weak == 0 {
			return &a.value
		}
		// Sole owner with observers: move the value rather than copy it.
		// The old block keeps strong==0 so upgrades fail from here on.
		fresh := &rcAlloc[T]{
			value:  a.value,
			strong: 1,
			clone:  a.clone,
		}
		var zero T
		a.value = zero
		a.strong = 0
		r.alloc = fresh
		return &fresh.value
	}
	fresh := &rcAlloc[T]{
		value:  a.clone(a.value),
		strong: 1,
		clone:  a.clone,
	}
	r.alloc = fresh
	releaseRcAlloc(a)
	return &fresh.value
}

// Update runs fn against the mutable value. Equivalent to fn(r.Mut()).
func (r *Rc[T]) Update(fn func(*T)) {
	fn(r.Mut())
}

// NeedsCloningToMutate reports whether the next Mut call will duplicate the
// value, i.e. whether another strong handle shares the allocation. Weak
// observers are deliberately excluded: they never force a copy, only a
// disassociation.
func (r *Rc[T]) NeedsCloningToMutate() bool {
	return r.checkAlloc().strong > 1
}

// IsUnique reports whether this handle is the only reference of any kind to
// its allocation.
func (r *Rc[T]) IsUnique() bool {
	a := r.checkAlloc()
	return a.strong == 1 && a.weak == 0
}

// Downgrade returns a weak observer of the current allocation without
// affecting the strong count.
func (r *Rc[T]) Downgrade() RcWeak[T] {
	a := r.checkAlloc()
	a.weak++
	return RcWeak[T]{alloc: a}
}

// Shares reports whether two handles reference the same allocation. Note
// that equality of pointers is structural (over values, see Equal), not
// allocation identity.
func (r *Rc[T]) Shares(other *Rc[T]) bool {
	return r.checkAlloc() == other.checkAlloc()
}

// StrongCount returns the number of strong handles sharing the allocation.
func (r *Rc[T]) StrongCount() int {
	return r.checkAlloc().strong
}

// WeakCount returns the number of weak observers of the allocation.
func (r *Rc[T]) WeakCount() int {
	return r.checkAlloc().weak
}

// Release drops this handle. When it was the last strong handle, the
// contained value is dropped with it. Using the handle after Release
// panics.
func (r *Rc[T]) Release() {
	a := r.checkAlloc()
	r.alloc = nil
	releaseRcAlloc(a)
}

func (r *Rc[T]) checkAlloc() *rcAlloc[T] {
	if r.alloc == nil {
		panic(ErrReleased)
	}
	return r.alloc
}

func releaseRcAlloc[T any](a *rcAlloc[T]) {
	a.strong--
	if a.strong == 0 {
		// Drop the value now; the block itself lingers until any weak
		// observers release their handles and the GC collects it.
		var zero T
		a.value = zero
	}
}

// Upgrade attempts to regain a strong handle. It succeeds only while the
// allocation still has at least one strong owner; the failure case is an
// expected outcome, not an error. On failure nothing is modified.
func (w *RcWeak[T]) Upgrade() (*Rc[T], bool) {
	if w.alloc == nil || w.alloc.strong == 0 {
		return nil, false
	}
	w.alloc.strong++
	return &Rc[T]{alloc: w.alloc}, true
}

// Release drops this observer. A zero-value observer releases to a no-op.
// Using the observer after Release fails to upgrade but does not panic,
// matching the zero value.
func (w *RcWeak[T]) Release() {
	if w.alloc == nil {
		return
	}
	w.alloc.weak--
	w.alloc = nil
}

// Equal reports structural equality of the contained values. Handles
// referencing different allocations holding equal values compare equal.
func Equal[T comparable](a, b *Rc[T]) bool {
	return *a.Get() == *b.Get()
}

// DeepEqual is Equal for value types that are not comparable, using
// reflect.DeepEqual on the contained values.
func DeepEqual[T any](a, b *Rc[T]) bool {
	return reflect.DeepEqual(*a.Get(), *b.Get())
}
