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

// Package view provides zero-copy views over borrowed slices and text that
// redirect the generic borrow-to-owned conversion (see Owner) to the
// shared pointers in package cowrc instead of freshly allocated buffers.
// The views carry no state beyond the borrowed data itself and delegate
// every operation except ToOwned/ToShared to it.
package view
