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

package view

import (
	"cmp"
	"iter"
	"slices"

	"github.com/blinklabs-io/cowrc"
)

// Slice is a borrowed view of a contiguous element run whose owned
// counterpart is a shared pointer rather than a fresh slice. It is a thin
// wrapper around the slice header: constructing one copies no elements, and
// the view has the same address and length as the underlying data. The view
// is only valid while the borrowed data is.
//
// Everything except ToOwned/ToShared delegates to the raw slice at no extra
// cost.
type Slice[E any] struct {
	elems []E
}

// OfSlice wraps a borrowed slice. No elements are copied; the view shares
// the backing array.
func OfSlice[E any](elems []E) Slice[E] {
	return Slice[E]{elems: elems}
}

// OfRcSlice borrows a view of a slice-owning pointer's current contents.
// The view is invalidated by the next mutation through the pointer.
func OfRcSlice[E any](r *cowrc.Rc[[]E]) Slice[E] {
	return OfSlice(*r.Get())
}

// OfArcSlice is OfRcSlice for the thread-safe variant.
func OfArcSlice[E any](a *cowrc.Arc[[]E]) Slice[E] {
	return OfSlice(*a.Get())
}

// ToOwned copies every element into a freshly allocated, uniquely-owned
// Rc. O(n) in the view's length. The pointer's clone-on-write duplication
// is pre-wired to slices.Clone.
func (v Slice[E]) ToOwned() *cowrc.Rc[[]E] {
	return cowrc.New(
		slices.Clone(v.elems),
		cowrc.WithCloneFunc[[]E](slices.Clone[[]E]),
	)
}

// ToShared is ToOwned for the thread-safe variant.
func (v Slice[E]) ToShared() *cowrc.Arc[[]E] {
	return cowrc.NewArc(
		slices.Clone(v.elems),
		cowrc.WithCloneFunc[[]E](slices.Clone[[]E]),
	)
}

// Len returns the number of elements in the view.
func (v Slice[E]) Len() int {
	return len(v.elems)
}

// At returns the element at index i.
func (v Slice[E]) At(i int) E {
	return v.elems[i]
}

// Raw returns the underlying slice. Mutating it mutates the borrowed data.
func (v Slice[E]) Raw() []E {
	return v.elems
}

// Values returns an iterator over the elements.
func (v Slice[E]) Values() iter.Seq[E] {
	return slices.Values(v.elems)
}

// Append appends the view's elements to dst, copying them into dst's
// growable buffer.
func (v Slice[E]) Append(dst []E) []E {
	return append(dst, v.elems...)
}

// EqualFunc reports whether two views are element-wise equal under eq.
func (v Slice[E]) EqualFunc(other Slice[E], eq func(E, E) bool) bool {
	return slices.EqualFunc(v.elems, other.elems, eq)
}

// EqualSlices reports element-wise equality of two views.
func EqualSlices[E comparable](a, b Slice[E]) bool {
	return slices.Equal(a.elems, b.elems)
}

// CompareSlices lexicographically compares two views.
func CompareSlices[E cmp.Ordered](a, b Slice[E]) int {
	return slices.Compare(a.elems, b.elems)
}

// CollectRc builds a uniquely-owned slice pointer from an element
// iterator.
func CollectRc[E any](seq iter.Seq[E]) *cowrc.Rc[[]E] {
	return cowrc.New(
		slices.Collect(seq),
		cowrc.WithCloneFunc[[]E](slices.Clone[[]E]),
	)
}

// CollectArc is CollectRc for the thread-safe variant.
func CollectArc[E any](seq iter.Seq[E]) *cowrc.Arc[[]E] {
	return cowrc.NewArc(
		slices.Collect(seq),
		cowrc.WithCloneFunc[[]E](slices.Clone[[]E]),
	)
}
