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
	"slices"
	"strings"
	"testing"

	"github.com/blinklabs-io/cowrc/view"
	"github.com/stretchr/testify/require"
)

func TestSliceViewIsZeroCopy(t *testing.T) {
	orig := []int{1, 2, 3}
	v := view.OfSlice(orig)

	require.Equal(t, 3, v.Len())
	require.Equal(t, 2, v.At(1))
	// Same address and length as the borrowed data
	require.Same(t, &orig[0], &v.Raw()[0])

	// Mutations of the borrowed data are visible through the view
	orig[1] = 20
	require.Equal(t, 20, v.At(1))
}

func TestSliceToOwnedDetaches(t *testing.T) {
	orig := []int{1, 2, 3}
	owned := view.OfSlice(orig).ToOwned()

	orig[0] = 99

	require.Equal(t, []int{1, 2, 3}, *owned.Get())
	require.True(t, owned.IsUnique())

	// The owned pointer carries a slice-aware clone strategy
	other := owned.Clone()
	(*owned.Mut())[0] = 7
	require.Equal(t, []int{7, 2, 3}, *owned.Get())
	require.Equal(t, []int{1, 2, 3}, *other.Get())
}

func TestSliceToShared(t *testing.T) {
	owned := view.OfSlice([]string{"a", "b"}).ToShared()
	other := owned.Clone()
	*owned.Mut() = append(*owned.Mut(), "c")
	require.Equal(t, []string{"a", "b", "c"}, *owned.Get())
	require.Equal(t, []string{"a", "b"}, *other.Get())
}

func TestSliceAppendRoundTrip(t *testing.T) {
	v := view.OfSlice([]int{4, 5, 6})
	out := v.Append([]int{1, 2, 3})
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, out)
}

func TestSliceValuesIterator(t *testing.T) {
	v := view.OfSlice([]string{"a", "b", "c"})
	var got []string
	for s := range v.Values() {
		got = append(got, s)
	}
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestSliceComparisons(t *testing.T) {
	a := view.OfSlice([]int{1, 2, 3})
	b := view.OfSlice([]int{1, 2, 3})
	c := view.OfSlice([]int{1, 2, 4})

	require.True(t, view.EqualSlices(a, b))
	require.False(t, view.EqualSlices(a, c))
	require.Negative(t, view.CompareSlices(a, c))
	require.True(t, a.EqualFunc(b, func(x, y int) bool { return x == y }))
}

func TestCollectRcRoundTrip(t *testing.T) {
	src := []int{1, 2, 3, 4}
	rc := view.CollectRc(slices.Values(src))

	// Convert back to a growable buffer and compare
	out := view.OfRcSlice(rc).Append(nil)
	require.Equal(t, src, out)
}

func TestCollectArc(t *testing.T) {
	arc := view.CollectArc(strings.SplitSeq("a,b,c", ","))
	require.Equal(t, []string{"a", "b", "c"}, *arc.Get())
}

func TestOfRcSliceBorrowsCurrentAllocation(t *testing.T) {
	rc := view.OfSlice([]int{1, 2}).ToOwned()
	v := view.OfRcSlice(rc)
	require.Same(t, &(*rc.Get())[0], &v.Raw()[0])
}
