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
	"encoding/json"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Serialization is pure delegation: a pointer serializes to exactly the
// serialized form of its contained value, with no added framing or
// metadata. Deserializing into a pointer is a mutation and runs through the
// same clone-on-write machinery as Mut, so other handles sharing the
// allocation keep observing the pre-decode value.

var (
	cachedEncMode     _cbor.EncMode
	cachedEncModeErr  error
	cachedEncModeOnce sync.Once
)

// cborEncMode returns a cached EncMode, initializing it on first use.
func cborEncMode() (_cbor.EncMode, error) {
	cachedEncModeOnce.Do(func() {
		opts := _cbor.EncOptions{
			// Make sure that maps have ordered keys
			Sort: _cbor.SortCoreDeterministic,
		}
		cachedEncMode, cachedEncModeErr = opts.EncMode()
	})
	return cachedEncMode, cachedEncModeErr
}

var (
	cachedDecMode     _cbor.DecMode
	cachedDecModeErr  error
	cachedDecModeOnce sync.Once
)

// cborDecMode returns a cached DecMode, initializing it on first use.
func cborDecMode() (_cbor.DecMode, error) {
	cachedDecModeOnce.Do(func() {
		opts := _cbor.DecOptions{
			ExtraReturnErrors: _cbor.ExtraDecErrorUnknownField,
		}
		cachedDecMode, cachedDecModeErr = opts.DecMode()
	})
	return cachedDecMode, cachedDecModeErr
}

// setValue replaces the contained value. A handle that was never
// initialized (the zero Rc, as produced by decoders) gets a fresh
// allocation; an initialized one is unshared via Mut first.
func (r *Rc[T]) setValue(value T) {
	if r.alloc == nil {
		*r = *New(value)
		return
	}
	*r.Mut() = value
}

func (a *Arc[T]) setValue(value T) {
	if a.alloc == nil {
		*a = *NewArc(value)
		return
	}
	*a.Mut() = value
}

// MarshalCBOR implements cbor.Marshaler by delegating to the contained
// value.
func (r *Rc[T]) MarshalCBOR() ([]byte, error) {
	em, err := cborEncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(*r.Get())
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (r *Rc[T]) UnmarshalCBOR(data []byte) error {
	dm, err := cborDecMode()
	if err != nil {
		return err
	}
	var value T
	if err := dm.Unmarshal(data, &value); err != nil {
		return err
	}
	r.setValue(value)
	return nil
}

// MarshalJSON implements json.Marshaler by delegating to the contained
// value.
func (r *Rc[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(*r.Get())
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rc[T]) UnmarshalJSON(data []byte) error {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	r.setValue(value)
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder by delegating to the
// contained value.
func (r *Rc[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(*r.Get())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (r *Rc[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var value T
	if err := dec.Decode(&value); err != nil {
		return err
	}
	r.setValue(value)
	return nil
}

// MarshalCBOR implements cbor.Marshaler by delegating to the contained
// value.
func (a *Arc[T]) MarshalCBOR() ([]byte, error) {
	em, err := cborEncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(*a.Get())
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (a *Arc[T]) UnmarshalCBOR(data []byte) error {
	dm, err := cborDecMode()
	if err != nil {
		return err
	}
	var value T
	if err := dm.Unmarshal(data, &value); err != nil {
		return err
	}
	a.setValue(value)
	return nil
}

// MarshalJSON implements json.Marshaler by delegating to the contained
// value.
func (a *Arc[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(*a.Get())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Arc[T]) UnmarshalJSON(data []byte) error {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	a.setValue(value)
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder by delegating to the
// contained value.
func (a *Arc[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(*a.Get())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (a *Arc[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var value T
	if err := dec.Decode(&value); err != nil {
		return err
	}
	a.setValue(value)
	return nil
}
