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

package cowrc_test

import (
	"sync"
	"testing"

	"github.com/blinklabs-io/cowrc"
	"github.com/blinklabs-io/cowrc/internal/test"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestArcCloneDiverges(t *testing.T) {
	data := cowrc.NewArc(5)
	other := data.Clone()

	if !data.NeedsCloningToMutate() {
		t.Error("expected NeedsCloningToMutate after clone")
	}

	*data.Mut() = 6

	if *data.Get() != 6 {
		t.Errorf("expected 6, got %d", *data.Get())
	}
	if *other.Get() != 5 {
		t.Errorf("untouched clone should still observe 5, got %d", *other.Get())
	}
	if data.Shares(other) {
		t.Error("handles should reference different allocations after mutation")
	}
}

func TestArcMutUniqueNeverClones(t *testing.T) {
	data := cowrc.NewArc(test.TrapValue{N: 0})
	for i := 0; i < 100; i++ {
		data.Mut().N++
	}
	if data.Get().N != 100 {
		t.Errorf("expected 100, got %d", data.Get().N)
	}
}

func TestArcDisassociation(t *testing.T) {
	data := cowrc.NewArc(test.TrapValue{N: 75})
	weak := data.Downgrade()

	up, ok := weak.Upgrade()
	if !ok {
		t.Fatal("upgrade should succeed before mutation")
	}
	require.Equal(t, 75, up.Get().N)
	up.Release()

	data.Mut().N = 76

	if _, ok := weak.Upgrade(); ok {
		t.Error("upgrade should fail after sole-owner mutation")
	}
	require.Equal(t, 76, data.Get().N)
	require.True(t, data.IsUnique())
}

func TestArcSharedMutationKeepsObservers(t *testing.T) {
	data := cowrc.NewArc(test.NewPayload(75))
	other := data.Clone()
	weak := data.Downgrade()

	data.Mut().ID = 76

	require.Equal(t, 76, data.Get().ID)
	require.Equal(t, 75, other.Get().ID)

	up, ok := weak.Upgrade()
	require.True(t, ok, "observer should survive while another strong owner exists")
	require.Equal(t, 75, up.Get().ID)
	require.True(t, up.Shares(other))
	up.Release()

	other.Release()
	_, ok = weak.Upgrade()
	require.False(t, ok, "upgrade should fail after the last strong owner is released")
}

func TestArcConcurrentCloneReleaseUpgrade(t *testing.T) {
	defer goleak.VerifyNone(t)

	data := cowrc.NewArc(test.NewPayload(42))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 2000; j++ {
				c := data.Clone()
				w := c.Downgrade()
				if up, ok := w.Upgrade(); ok {
					if up.Get().ID != 42 {
						t.Error("upgraded handle observed a torn value")
						// Keep going so counters stay balanced
					}
					up.Release()
				} else {
					t.Error("upgrade should always succeed while a strong owner exists")
				}
				w.Release()
				c.Release()
			}
		}()
	}
	wg.Wait()

	if !data.IsUnique() {
		t.Errorf(
			"expected balanced counters, strong=%d weak=%d",
			data.StrongCount(),
			data.WeakCount(),
		)
	}
}

func TestArcConcurrentUpgradeVsLastRelease(t *testing.T) {
	defer goleak.VerifyNone(t)

	for round := 0; round < 200; round++ {
		data := cowrc.NewArc(75)
		weak := data.Downgrade()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			data.Release()
		}()
		go func() {
			defer wg.Done()
			// Either outcome is valid, but a successful upgrade must
			// observe the live value, never a dropped one.
			if up, ok := weak.Upgrade(); ok {
				if *up.Get() != 75 {
					t.Errorf("upgrade observed dropped value %d", *up.Get())
				}
				up.Release()
			}
		}()
		wg.Wait()

		// After the last strong handle is gone, upgrades must fail.
		if _, ok := weak.Upgrade(); ok {
			t.Fatal("upgrade succeeded after last strong release")
		}
		weak.Release()
	}
}

func TestArcCounts(t *testing.T) {
	data := cowrc.NewArc("hello")
	require.Equal(t, 1, data.StrongCount())
	require.Equal(t, 0, data.WeakCount())

	other := data.Clone()
	weak := data.Downgrade()
	require.Equal(t, 2, data.StrongCount())
	require.Equal(t, 1, data.WeakCount())

	other.Release()
	weak.Release()
	require.Equal(t, 1, data.StrongCount())
	require.Equal(t, 0, data.WeakCount())
	require.True(t, data.IsUnique())
}

func TestArcReleasePanics(t *testing.T) {
	data := cowrc.NewArc(1)
	data.Release()
	require.PanicsWithValue(t, cowrc.ErrReleased, func() {
		data.Clone()
	})
}

func TestArcWeakZeroValue(t *testing.T) {
	var weak cowrc.ArcWeak[int]
	if _, ok := weak.Upgrade(); ok {
		t.Error("zero-value observer should never upgrade")
	}
	weak.Release()
}

func TestRcArcConversions(t *testing.T) {
	rc := cowrc.New(test.NewPayload(5))
	arc := rc.ToArc()

	arc.Mut().ID = 6
	require.Equal(t, 5, rc.Get().ID)
	require.Equal(t, 6, arc.Get().ID)
	require.True(t, arc.IsUnique())

	back := arc.ToRc()
	require.Equal(t, 6, back.Get().ID)
	require.True(t, back.IsUnique())
	require.True(t, arc.IsUnique())
}

func TestArcEqualStructural(t *testing.T) {
	a := cowrc.NewArc(42)
	b := cowrc.NewArc(42)
	require.True(t, cowrc.EqualArc(a, b))
	require.False(t, a.Shares(b))

	c := cowrc.NewArc(map[string]int{"x": 1})
	d := cowrc.NewArc(map[string]int{"x": 1})
	require.True(t, cowrc.DeepEqualArc(c, d))
}
