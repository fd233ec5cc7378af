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

package view_test

import (
	"testing"

	"github.com/blinklabs-io/cowrc"
	"github.com/blinklabs-io/cowrc/view"
	"github.com/stretchr/testify/require"
)

func TestCowSliceLazyOwn(t *testing.T) {
	orig := []int{1, 2, 3}
	c := view.BorrowSlice(orig)

	require.True(t, c.IsBorrowed())
	// While borrowed, reads go straight to the caller's data
	require.Same(t, &orig[0], &view.CowSlice(c).Raw()[0])

	owned := c.Own()
	require.False(t, c.IsBorrowed())
	require.Equal(t, []int{1, 2, 3}, *owned.Get())

	// Own is materialize-once
	require.Same(t, owned, c.Own())

	// After owning, the cow is detached from the borrowed data
	orig[0] = 99
	require.Equal(t, []int{1, 2, 3}, view.CowSlice(c).Raw())
}

func TestCowStrLazyOwn(t *testing.T) {
	c := view.BorrowStr("hello")
	require.True(t, c.IsBorrowed())
	require.Equal(t, "hello", view.CowStr(c).String())

	owned := c.Own()
	require.Equal(t, "hello", *owned.Get())
	require.Same(t, owned, c.Own())
	require.False(t, c.IsBorrowed())
}

func TestBorrowGenericContract(t *testing.T) {
	// Code written against the Owner contract materializes shared
	// pointers, not fresh buffers.
	c := view.Borrow[view.Str, *cowrc.Rc[string]](view.OfString("abc"))
	owned := c.Own()
	require.Equal(t, "abc", *owned.Get())
	require.True(t, owned.IsUnique())
}
