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
	"io"
	"iter"
	"strings"
	"unsafe"

	"github.com/blinklabs-io/cowrc"
)

// Str is a borrowed view of text whose owned counterpart is a shared
// pointer rather than a fresh string. It may be backed by a string or a
// []byte; either way construction copies nothing.
//
// When backed by a []byte (see OfBytes), the view aliases the caller's
// memory: the bytes must not be mutated while the view or anything derived
// from Bytes is in use, and the view must not outlive them.
type Str struct {
	s string
}

// OfString wraps a borrowed string.
func OfString(s string) Str {
	return Str{s: s}
}

// OfBytes wraps borrowed bytes without copying them. The view aliases b;
// see the type comment for the lifetime and mutability requirements.
func OfBytes(b []byte) Str {
	return Str{s: unsafe.String(unsafe.SliceData(b), len(b))}
}

// OfRcStr borrows a view of a string-owning pointer's current contents.
func OfRcStr(r *cowrc.Rc[string]) Str {
	return OfString(*r.Get())
}

// OfArcStr is OfRcStr for the thread-safe variant.
func OfArcStr(a *cowrc.Arc[string]) Str {
	return OfString(*a.Get())
}

// ToOwned copies the text into a freshly allocated, uniquely-owned Rc.
// O(n) in the view's length. The copy is forced with strings.Clone so the
// owned value never aliases the borrowed bytes.
func (v Str) ToOwned() *cowrc.Rc[string] {
	return cowrc.New(strings.Clone(v.s))
}

// ToShared is ToOwned for the thread-safe variant.
func (v Str) ToShared() *cowrc.Arc[string] {
	return cowrc.NewArc(strings.Clone(v.s))
}

// Len returns len(v) in bytes.
func (v Str) Len() int {
	return len(v.s)
}

// At returns the byte at index i.
func (v Str) At(i int) byte {
	return v.s[i]
}

// String returns the view as a string. When the view is backed by a
// string this is free; when backed by bytes it still does not copy, so the
// aliasing requirements apply to the result too.
func (v Str) String() string {
	return v.s
}

// Bytes returns the view's bytes without copying. The result must be
// treated as read-only.
func (v Str) Bytes() []byte {
	return unsafe.Slice(unsafe.StringData(v.s), len(v.s))
}

// EqualString reports whether the view and s contain the same bytes.
func (v Str) EqualString(s string) bool {
	return v.s == s
}

// Compare lexicographically compares two views.
func (v Str) Compare(other Str) int {
	return strings.Compare(v.s, other.s)
}

// WriteTo implements io.WriterTo without copying the text first.
func (v Str) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, v.s)
	return int64(n), err
}

// CollectRcStr builds a uniquely-owned string pointer by concatenating an
// iterator of text fragments.
func CollectRcStr(parts iter.Seq[string]) *cowrc.Rc[string] {
	var sb strings.Builder
	for part := range parts {
		sb.WriteString(part)
	}
	return cowrc.New(sb.String())
}
