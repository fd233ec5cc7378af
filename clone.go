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
	"fmt"
	"reflect"

	"github.com/jinzhu/copier"
)

// Cloner allows value types to provide their own duplication logic for
// clone-on-write transitions. Clone must return a copy where mutations do
// not affect the original; for types containing pointers, slices, or maps,
// those must be copied as well.
//
// Types that do not implement Cloner fall back to the reflective strategy
// in CloneValue.
type Cloner[T any] interface {
	Clone() T
}

// CloneValue is the default CloneFunc.
//
// Values whose type carries no reference storage (scalars, strings, and
// structs/arrays thereof) are copied by plain assignment, which is already
// a complete copy for them, unexported fields included. Types whose
// reference storage is fully reachable through exported fields are
// deep-copied reflectively.
//
// Anything else — reference storage behind unexported fields, or
// interface-typed parts whose contents cannot be inspected statically —
// cannot be duplicated safely by reflection: a silent partial copy would
// leave two owners sharing storage after a clone-on-write transition.
// Such values panic here; implement Cloner or set WithCloneFunc for them.
func CloneValue[T any](value T) T {
	if c, ok := any(value).(Cloner[T]); ok {
		return c.Clone()
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || !sharesStorage(rv.Type()) {
		return value
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map:
		// Nothing behind a nil reference to duplicate
		if rv.IsNil() {
			return value
		}
	}
	t := rv.Type()
	if hiddenFromReflection(t, nil) {
		panic(fmt.Sprintf(
			"cowrc: cannot duplicate %s reflectively: reference storage is not reachable through exported fields; implement Cloner or set WithCloneFunc",
			t,
		))
	}
	var out T
	err := copier.CopyWithOption(
		&out,
		&value,
		copier.Option{DeepCopy: true},
	)
	if err != nil {
		panic(fmt.Sprintf(
			"cowrc: duplicating %s: %s; implement Cloner or set WithCloneFunc",
			t,
			err,
		))
	}
	return out
}

// sharesStorage reports whether values of type t can share mutable storage
// with their copies under plain assignment. Structs cannot contain
// themselves by value, so this recursion terminates without tracking.
func sharesStorage(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer,
		reflect.Slice,
		reflect.Map,
		reflect.Chan,
		reflect.Func,
		reflect.Interface,
		reflect.UnsafePointer:
		return true
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if sharesStorage(t.Field(i).Type) {
				return true
			}
		}
		return false
	case reflect.Array:
		return sharesStorage(t.Elem())
	default:
		return false
	}
}

// hiddenFromReflection reports whether t's storage graph contains parts a
// reflective deep copy cannot faithfully duplicate: unexported struct
// fields, or interface-typed slots whose dynamic contents are unknown.
// The visited set guards against recursive types (e.g. linked nodes).
func hiddenFromReflection(
	t reflect.Type,
	visited map[reflect.Type]bool,
) bool {
	if visited[t] {
		return false
	}
	if visited == nil {
		visited = map[reflect.Type]bool{}
	}
	visited[t] = true
	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				return true
			}
			if hiddenFromReflection(field.Type, visited) {
				return true
			}
		}
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return hiddenFromReflection(t.Elem(), visited)
	case reflect.Map:
		return hiddenFromReflection(t.Key(), visited) ||
			hiddenFromReflection(t.Elem(), visited)
	}
	return false
}
