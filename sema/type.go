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

package sema

import (
	"strings"

	"fillmore-labs.com/guardfix/ast"
)

// Kind classifies a [Type].
type Kind uint8

//go:generate go tool stringer -type Kind -linecomment
const (
	Class     Kind = iota // class
	Struct                // struct
	Nullable              // nullable
	Anonymous             // anonymous
	Delegate              // delegate
	Array                 // array
	TypeParam             // type parameter
	Void                  // void
)

// Type is a resolved type.
type Type struct {
	Kind Kind
	Name string  // display name without type arguments; empty for anonymous types
	Args []*Type // type arguments of generic classes, structs and delegates
	Elem *Type   // underlying type of [Nullable], element type of [Array]

	// RefConstraint marks a [TypeParam] constrained to reference types.
	RefConstraint bool
}

// NullableOf returns `T?` for the value type t.
func NullableOf(t *Type) *Type { return &Type{Kind: Nullable, Elem: t} }

// IsReferenceType reports whether values of t can be null without being wrapped.
func (t *Type) IsReferenceType() bool {
	switch t.Kind {
	case Class, Anonymous, Delegate, Array:
		return true

	case TypeParam:
		return t.RefConstraint

	default:
		return false
	}
}

// IsNullableValue reports whether t is `Nullable<T>`.
func (t *Type) IsNullableValue() bool { return t.Kind == Nullable }

// IsValueType reports whether t is a non-nullable value type.
func (t *Type) IsValueType() bool { return t.Kind == Struct }

// CanBeNull reports whether null is a valid value of t.
func (t *Type) CanBeNull() bool { return t.IsReferenceType() || t.IsNullableValue() }

// Nameable reports whether t can be written in source.
func (t *Type) Nameable() bool {
	switch t.Kind {
	case Anonymous, Void:
		return false

	case Nullable, Array:
		return t.Elem != nil && t.Elem.Nameable()
	}

	for _, a := range t.Args {
		if !a.Nameable() {
			return false
		}
	}

	return t.Name != ""
}

// String returns t in source syntax.
func (t *Type) String() string {
	var b strings.Builder
	t.write(&b)

	return b.String()
}

func (t *Type) write(b *strings.Builder) {
	switch t.Kind {
	case Nullable:
		t.Elem.write(b)
		b.WriteByte('?')

		return

	case Array:
		t.Elem.write(b)
		b.WriteString("[]")

		return

	case Anonymous:
		b.WriteString("<anonymous type>")

		return
	}

	b.WriteString(t.Name)

	if len(t.Args) == 0 {
		return
	}

	b.WriteByte('<')

	for i, a := range t.Args {
		if i > 0 {
			b.WriteString(", ")
		}

		a.write(b)
	}

	b.WriteByte('>')
}

// TypeRef returns a synthesized reference to t, or nil if t is not [Type.Nameable].
func (t *Type) TypeRef() *ast.TypeRef {
	if !t.Nameable() {
		return nil
	}

	switch t.Kind {
	case Nullable:
		r := *t.Elem.TypeRef()
		r.Nullable = true

		return &r

	case Array:
		r := *t.Elem.TypeRef()
		r.Rank++

		return &r
	}

	r := &ast.TypeRef{Name: t.Name}
	for _, a := range t.Args {
		r.Args = append(r.Args, a.TypeRef())
	}

	return r
}
