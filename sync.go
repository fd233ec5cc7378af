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
	"reflect"
	"sync/atomic"
)

// arcAlloc is the heap block behind one or more Arc handles. Counter
// transitions that determine lifetime and disassociation use Go's
// sequentially consistent atomics, so "last strong handle released" and
// "upgrade fails afterward" are never observed out of order.
type arcAlloc[T any] struct {
	value  T
	strong atomic.Int64
	weak   atomic.Int64
	clone  CloneFunc[T]
}

// Arc is the thread-safe variant of Rc, with an identical contract. Clone,
// Release, Downgrade and Upgrade are safe to call concurrently from
// multiple goroutines without external locking.
//
// The contained value itself is not synchronized: concurrent Mut calls
// through handles sharing an allocation, or a Mut racing a Get on another
// goroutine, must be serialized by the caller.
type Arc[T any] struct {
	alloc *arcAlloc[T]
}

// ArcWeak is a non-owning observer of an Arc allocation. The zero value is
// a valid observer that never pointed anywhere.
type ArcWeak[T any] struct {
	alloc *arcAlloc[T]
}

func newArcAlloc[T any](value T, clone CloneFunc[T]) *arcAlloc[T] {
	a := &arcAlloc[T]{
		value: value,
		clone: clone,
	}
	a.strong.Store(1)
	return a
}

// NewArc creates an Arc owning a fresh allocation holding value, with a
// strong count of one and no weak observers.
func NewArc[T any](value T, opts ...PointerOption[T]) *Arc[T] {
	cfg := newPointerConfig(opts)
	return &Arc[T]{alloc: newArcAlloc(value, cfg.clone)}
}

// Clone returns a new handle sharing the same allocation. This is an atomic
// counter increment; the contained value is not copied.
func (a *Arc[T]) Clone() *Arc[T] {
	alloc := a.checkAlloc()
	alloc.strong.Add(1)
	return &Arc[T]{alloc: alloc}
}

// Get returns a view of the current value. The returned pointer must be
// treated as read-only.
func (a *Arc[T]) Get() *T {
	return &a.checkAlloc().value
}

// Value returns a copy of the current value.
func (a *Arc[T]) Value() T {
	return a.checkAlloc().value
}

// Mut returns a pointer through which the value may be mutated, performing
// the same clone-on-write transitions as Rc.Mut.
//
// The counter transitions are atomic, so observers on other goroutines
// never see a torn state, but the caller must serialize concurrent Mut
// calls through aliasing handles (and concurrent reads of the value being
// mutated) externally.
func (a *Arc[T]) Mut() *T {
	alloc := a.checkAlloc()
	// Claim sole ownership by dropping the strong count to zero. While it
	// is zero no weak observer can upgrade underneath us.
	if alloc.strong.CompareAndSwap(1, 0) {
		if alloc.weak.Load() == 0 {
			alloc.strong.Store(1)
			return &alloc.value
		}
		// Sole owner with observers: move the value to a fresh block. The
		// old block stays at strong==0, permanently disassociating them.
		fresh := newArcAlloc(alloc.value, alloc.clone)
		var zero T
		alloc.value = zero
		a.alloc = fresh
		return &fresh.value
	}
	fresh := newArcAlloc(alloc.clone(alloc.value), alloc.clone)
	a.alloc = fresh
	releaseArcAlloc(alloc)
	return &fresh.value
}

// Update runs fn against the mutable value. Equivalent to fn(a.Mut()).
func (a *Arc[T]) Update(fn func(*T)) {
	fn(a.Mut())
}

// NeedsCloningToMutate reports whether the next Mut call will duplicate the
// value. Weak observers are excluded, as for Rc.
func (a *Arc[T]) NeedsCloningToMutate() bool {
	return a.checkAlloc().strong.Load() > 1
}

// IsUnique reports whether this handle is the only reference of any kind to
// its allocation.
func (a *Arc[T]) IsUnique() bool {
	alloc := a.checkAlloc()
	return alloc.strong.Load() == 1 && alloc.weak.Load() == 0
}

// Downgrade returns a weak observer of the current allocation without
// affecting the strong count.
func (a *Arc[T]) Downgrade() ArcWeak[T] {
	alloc := a.checkAlloc()
	alloc.weak.Add(1)
	return ArcWeak[T]{alloc: alloc}
}

// Shares reports whether two handles reference the same allocation.
func (a *Arc[T]) Shares(other *Arc[T]) bool {
	return a.checkAlloc() == other.checkAlloc()
}

// StrongCount returns the number of strong handles sharing the allocation.
// The value is a point-in-time snapshot when other goroutines hold handles.
func (a *Arc[T]) StrongCount() int {
	return int(a.checkAlloc().strong.Load())
}

// WeakCount returns the number of weak observers of the allocation.
func (a *Arc[T]) WeakCount() int {
	return int(a.checkAlloc().weak.Load())
}

// Release drops this handle. When it was the last strong handle, the
// contained value is dropped with it. Using the handle after Release
// panics.
func (a *Arc[T]) Release() {
	alloc := a.checkAlloc()
	a.alloc = nil
	releaseArcAlloc(alloc)
}

func (a *Arc[T]) checkAlloc() *arcAlloc[T] {
	if a.alloc == nil {
		panic(ErrReleased)
	}
	return a.alloc
}

func releaseArcAlloc[T any](alloc *arcAlloc[T]) {
	if alloc.strong.Add(-1) == 0 {
		// No upgrade can succeed once the count has been observed at zero,
		// so dropping the value here cannot race a new strong handle.
		var zero T
		alloc.value = zero
	}
}

// Upgrade attempts to regain a strong handle. It succeeds only while the
// allocation still has at least one strong owner. On failure nothing is
// modified.
func (w *ArcWeak[T]) Upgrade() (*Arc[T], bool) {
	if w.alloc == nil {
		return nil, false
	}
	for {
		n := w.alloc.strong.Load()
		if n == 0 {
			return nil, false
		}
		if w.alloc.strong.CompareAndSwap(n, n+1) {
			return &Arc[T]{alloc: w.alloc}, true
		}
	}
}

// Release drops this observer. A zero-value observer releases to a no-op.
func (w *ArcWeak[T]) Release() {
	if w.alloc == nil {
		return
	}
	w.alloc.weak.Add(-1)
	w.alloc = nil
}

// ToArc converts a thread-confined pointer into a thread-safe one by
// duplicating the current value into a fresh, uniquely-owned Arc
// allocation. The Rc handle remains valid and unaffected; the two never
// share an allocation, since their counter representations differ.
func (r *Rc[T]) ToArc() *Arc[T] {
	a := r.checkAlloc()
	return &Arc[T]{alloc: newArcAlloc(a.clone(a.value), a.clone)}
}

// ToRc converts a thread-safe pointer into a thread-confined one by
// duplicating the current value into a fresh, uniquely-owned Rc
// allocation. The Arc handle remains valid and unaffected.
func (a *Arc[T]) ToRc() *Rc[T] {
	alloc := a.checkAlloc()
	return &Rc[T]{
		alloc: &rcAlloc[T]{
			value:  alloc.clone(alloc.value),
			strong: 1,
			clone:  alloc.clone,
		},
	}
}

// EqualArc reports structural equality of the contained values.
func EqualArc[T comparable](a, b *Arc[T]) bool {
	return *a.Get() == *b.Get()
}

// DeepEqualArc is EqualArc for value types that are not comparable.
func DeepEqualArc[T any](a, b *Arc[T]) bool {
	return reflect.DeepEqual(*a.Get(), *b.Get())
}
