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
	"github.com/blinklabs-io/cowrc"
)

// Owner is the generic borrow-to-owned contract: borrowed data that can
// materialize an owned counterpart of type O. Slice and Str implement it
// with shared pointers as O, which is the whole point of this package —
// code written against Owner materializes an Rc instead of a fresh buffer.
type Owner[O any] interface {
	ToOwned() O
}

// Cow holds borrowed data and materializes (then caches) its owned
// counterpart on first demand. Use BorrowSlice/BorrowStr to construct one
// without spelling out the type arguments.
type Cow[V Owner[O], O any] struct {
	view     V
	owned    O
	hasOwned bool
}

// Borrow wraps a borrowed view.
func Borrow[V Owner[O], O any](view V) *Cow[V, O] {
	return &Cow[V, O]{view: view}
}

// BorrowSlice wraps a borrowed slice in a Cow whose owned form is an Rc.
func BorrowSlice[E any](elems []E) *Cow[Slice[E], *cowrc.Rc[[]E]] {
	return &Cow[Slice[E], *cowrc.Rc[[]E]]{view: OfSlice(elems)}
}

// BorrowStr wraps borrowed text in a Cow whose owned form is an Rc.
func BorrowStr(s string) *Cow[Str, *cowrc.Rc[string]] {
	return &Cow[Str, *cowrc.Rc[string]]{view: OfString(s)}
}

// Own returns the owned counterpart, materializing it on first call and
// returning the same owned value afterwards.
func (c *Cow[V, O]) Own() O {
	if !c.hasOwned {
		c.owned = c.view.ToOwned()
		c.hasOwned = true
	}
	return c.owned
}

// IsBorrowed reports whether the owned counterpart has not been
// materialized yet.
func (c *Cow[V, O]) IsBorrowed() bool {
	return !c.hasOwned
}

// View returns the borrowed view the Cow was constructed from. It remains
// valid only as long as the borrowed data is.
func (c *Cow[V, O]) View() V {
	return c.view
}

// CowSlice returns a view of the cow's current contents: the borrowed data
// while borrowed, the owned pointer's contents after Own.
func CowSlice[E any](c *Cow[Slice[E], *cowrc.Rc[[]E]]) Slice[E] {
	if c.IsBorrowed() {
		return c.View()
	}
	return OfRcSlice(c.Own())
}

// CowStr is CowSlice for text.
func CowStr(c *Cow[Str, *cowrc.Rc[string]]) Str {
	if c.IsBorrowed() {
		return c.View()
	}
	return OfRcStr(c.Own())
}
