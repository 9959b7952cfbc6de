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

package ast

import "slices"

// TypeKind distinguishes reference and value type declarations.
type TypeKind uint8

const (
	ClassDecl TypeKind = iota
	StructDecl
	InterfaceDecl
)

type (
	// File is a compilation unit.
	File struct {
		Span
		Usings  []*Using
		Members []Member
	}

	// Using is a namespace import `using Name;`.
	Using struct {
		Span
		Name string
	}

	// Namespace is `namespace Name { Usings Members }`.
	Namespace struct {
		Span
		Name    string
		Usings  []*Using
		Members []Member
	}

	// TypeDecl is a class, struct or interface declaration.
	TypeDecl struct {
		Span
		Kind        TypeKind
		Modifiers   []string
		Name        string
		TypeParams  []*TypeParam
		Constraints []*Constraint
		Members     []Member
	}

	// MethodDecl is a method declaration with either a Body or an ExprBody.
	MethodDecl struct {
		Span
		Modifiers   []string
		Result      *TypeRef
		Name        string
		TypeParams  []*TypeParam
		Params      []*Param
		Constraints []*Constraint
		Body        *Block
		ExprBody    Expr
	}

	// PropertyDecl is a property, or an indexer when Params is non-nil.
	PropertyDecl struct {
		Span
		Modifiers []string
		Type      *TypeRef
		Name      string
		Params    []*Param
		Accessors []*Accessor
		ExprBody  Expr
	}

	// Accessor is a `get` or `set` accessor of a property.
	Accessor struct {
		Span
		Kind     string
		Body     *Block
		ExprBody Expr
	}

	// FieldDecl is `Type Name = Value;` in a type body.
	FieldDecl struct {
		Span
		Modifiers []string
		Type      *TypeRef
		Name      string
		Value     Expr
	}

	// Constraint is `where Param : Bounds`. Bounds may contain the keywords
	// "class" and "struct".
	Constraint struct {
		Span
		Param  string
		Bounds []*TypeRef
	}
)

func (*File) node()         {}
func (*Using) node()        {}
func (*Namespace) node()    {}
func (*TypeDecl) node()     {}
func (*MethodDecl) node()   {}
func (*PropertyDecl) node() {}
func (*Accessor) node()     {}
func (*FieldDecl) node()    {}
func (*Constraint) node()   {}

func (*Namespace) memberNode()    {}
func (*TypeDecl) memberNode()     {}
func (*MethodDecl) memberNode()   {}
func (*PropertyDecl) memberNode() {}
func (*FieldDecl) memberNode()    {}

// HasModifier reports whether mods contains mod.
func HasModifier(mods []string, mod string) bool {
	return slices.Contains(mods, mod)
}
