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

// Package cowrc provides shared pointers with clone-on-write mutation and
// opportunistic in-place mutation.
//
// # Key Types
//
//   - Rc: thread-confined shared pointer; cloning is a counter increment,
//     mutation copies the value only when the allocation is shared
//   - Arc: thread-safe variant with atomic counters and the same contract
//   - RcWeak / ArcWeak: non-owning observers that can attempt to regain a
//     strong handle but never keep the value alive
//   - Cloner: optional interface for value types that want to control how
//     they are duplicated on a clone-on-write transition
//
// The companion package view provides zero-copy views over borrowed slices
// and strings whose owned counterpart is an Rc or Arc rather than a fresh
// slice or string.
//
// # Mutation Semantics
//
// Mutating through Mut never copies while the handle is the unique strong
// owner. With multiple strong owners, the value is duplicated once and the
// mutating handle moves to the new allocation; the other owners keep the
// pre-mutation value. A sole owner with weak observers does not pay for
// them either: mutation moves the value to a fresh allocation and the
// observers are permanently disassociated.
//
//	data := cowrc.New(75)
//	weak := data.Downgrade()
//	*data.Mut() = 76          // no copy; weak is now dangling
//	_, ok := weak.Upgrade()   // ok == false
//
// # Lifetimes
//
// Go has no destructors, so handles are dropped explicitly with Release.
// The contained value is dropped when the last strong handle is released;
// the allocation block itself is reclaimed by the garbage collector once
// the weak observers are gone too.
package cowrc
