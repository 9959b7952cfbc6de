// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
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
//
// SPDX-License-Identifier: Apache-2.0

package match

import (
	"fillmore-labs.com/guardfix/internal/config"
	"fillmore-labs.com/guardfix/sema"
)

// DefaultKind classifies the default operand of a helper call.
type DefaultKind uint8

//go:generate go tool stringer -type DefaultKind -linecomment
const (
	// NoDefault means the call has no default operand.
	NoDefault DefaultKind = iota // absent

	// ValueDefault is an eagerly evaluated value of the output type.
	ValueDefault // value

	// ProducerDefault is a zero-argument delegate producing the default.
	ProducerDefault // producer
)

// Overload describes one member of the helper method family.
type Overload struct {
	Method *sema.Method

	// Void reports whether the transform returns nothing.
	Void bool

	// NullableReceiver reports whether the receiver is a `Nullable<T>`
	// value type, otherwise it is a reference type.
	NullableReceiver bool

	// Default is the kind of the default parameter.
	Default DefaultKind
}

// Arity returns the number of parameters, including the receiver.
func (o Overload) Arity() int {
	return len(o.Method.Params)
}

// KnownSymbols is the helper method family of a program. It is immutable
// once built and safe for concurrent use.
type KnownSymbols struct {
	helper    config.Helper
	overloads map[*sema.Method]Overload
}

// NewKnownSymbols looks up and classifies the helper overloads declared in p.
func NewKnownSymbols(p sema.Program, helper config.Helper) KnownSymbols {
	k := KnownSymbols{helper: helper}

	if !helper.Valid() {
		return k
	}

	for _, m := range p.Members(helper.Container, helper.Method) {
		o, ok := classify(m)
		if !ok {
			continue
		}

		if k.overloads == nil {
			k.overloads = make(map[*sema.Method]Overload)
		}

		k.overloads[m] = o
	}

	return k
}

// classify derives the overload shape from its declaration.
func classify(m *sema.Method) (Overload, bool) {
	arity := len(m.Params)
	if arity < 2 || arity > 3 {
		return Overload{}, false
	}

	o := Overload{Method: m}

	switch len(m.TypeParams) {
	case 1:
		o.Void = true

	case 2:

	default:
		return Overload{}, false
	}

	switch recv := m.Params[0]; {
	case recv.Kind == sema.TypeParam:

	case recv.IsNullableValue() && recv.Elem != nil && recv.Elem.Kind == sema.TypeParam:
		o.NullableReceiver = true

	default:
		return Overload{}, false
	}

	if arity == 3 {
		o.Default = ProducerDefault

		if !o.Void && m.Params[2] == m.TypeParams[1] {
			o.Default = ValueDefault
		}
	}

	return o, true
}

// Empty reports whether no helper overload was found, in which case the
// rule is inapplicable.
func (k KnownSymbols) Empty() bool {
	return len(k.overloads) == 0
}

// Helper returns the helper identity the symbols were built for.
func (k KnownSymbols) Helper() config.Helper {
	return k.helper
}

// Lookup returns the overload a method symbol belongs to.
func (k KnownSymbols) Lookup(s sema.Symbol) (Overload, bool) {
	if s == nil {
		return Overload{}, false
	}

	o, ok := k.overloads[s.Declaration()]

	return o, ok
}
