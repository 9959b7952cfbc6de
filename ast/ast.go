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

// Package ast declares the syntax tree the rewrite engine operates on.
//
// The tree is produced by the host and treated as immutable. Node kinds form a
// closed set: every node type implements an unexported marker method, so
// type switches over [Node] in this package are exhaustive by construction.
//
// Positions are [token.Pos] values relative to the host's [token.FileSet].
// Nodes synthesized by a rewrite carry [token.NoPos], as do copies made by
// [Replace] and [Rewrite]. A node with a valid [Span] therefore always
// corresponds verbatim to its source range.
package ast

import "go/token"

// Node is a syntax tree node.
type Node interface {
	Pos() token.Pos
	End() token.Pos
	node()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Member is a declaration that can appear in a namespace or type body.
type Member interface {
	Node
	memberNode()
}

// Pattern is the right-hand side of an `is` expression.
type Pattern interface {
	Node
	patternNode()
}

// QueryClause is a clause of a query expression.
type QueryClause interface {
	Node
	clauseNode()
}

// Span is the source range of a node.
type Span struct {
	From, To token.Pos
}

// Pos returns the position of the first character of the node.
func (s Span) Pos() token.Pos { return s.From }

// End returns the position immediately after the node.
func (s Span) End() token.Pos { return s.To }

// Valid reports whether the span was produced by the host.
func (s Span) Valid() bool { return s.From.IsValid() && s.To.IsValid() }

// TypeRef is a reference to a type by name, like `int?`, `Func<A, B>` or `Thing[][]`.
type TypeRef struct {
	Span
	Name     string     // simple or qualified name, or a keyword like "int"
	Args     []*TypeRef // generic type arguments
	Nullable bool       // `?` after the element type
	Rank     int        // number of trailing `[]`
}

func (*TypeRef) node() {}

// Param is a parameter of a method, lambda or indexer.
type Param struct {
	Span
	Modifiers []string // "this", "ref", "out", "params"
	Type      *TypeRef // nil for implicitly typed lambda parameters
	Name      string
	NamePos   token.Pos
}

func (*Param) node() {}

// TypeParam is a generic type parameter declaration.
type TypeParam struct {
	Span
	Name string
}

func (*TypeParam) node() {}
