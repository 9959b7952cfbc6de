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

// LitKind classifies a [BasicLit].
type LitKind uint8

const (
	NullLit LitKind = iota
	BoolLit
	IntLit
	RealLit
	StringLit
	CharLit
)

// BinaryOp is the operator of a [Binary] expression.
type BinaryOp uint8

const (
	Coalesce BinaryOp = iota
	LogOr
	LogAnd
	Or
	Xor
	And
	Eql
	Neq
	Lss
	Gtr
	Leq
	Geq
	Add
	Sub
	Mul
	Quo
	Rem
)

var binaryOps = [...]string{
	Coalesce: "??",
	LogOr:    "||",
	LogAnd:   "&&",
	Or:       "|",
	Xor:      "^",
	And:      "&",
	Eql:      "==",
	Neq:      "!=",
	Lss:      "<",
	Gtr:      ">",
	Leq:      "<=",
	Geq:      ">=",
	Add:      "+",
	Sub:      "-",
	Mul:      "*",
	Quo:      "/",
	Rem:      "%",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOps) {
		return binaryOps[op]
	}

	return "BinaryOp(?)"
}

// UnaryOp is the operator of a [Unary] expression.
type UnaryOp uint8

const (
	Not UnaryOp = iota
	Neg
	Plus
	Cpl
)

var unaryOps = [...]string{Not: "!", Neg: "-", Plus: "+", Cpl: "~"}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOps) {
		return unaryOps[op]
	}

	return "UnaryOp(?)"
}

type (
	// Ident is a reference to a named entity. Declared names are plain strings on
	// their declaring nodes, so every Ident in a tree is a use.
	Ident struct {
		Span
		Name string
	}

	// BasicLit is a literal of basic type, including `null`.
	BasicLit struct {
		Span
		Kind  LitKind
		Value string // source text
	}

	// DefaultExpr is `default(T)`, or the `default` literal when Type is nil.
	DefaultExpr struct {
		Span
		Type *TypeRef
	}

	// MemberAccess is `X.Name`.
	MemberAccess struct {
		Span
		X    Expr
		Name string
	}

	// MemberBinding is `.Name` inside the WhenNotNull part of a [ConditionalAccess].
	MemberBinding struct {
		Span
		Name string
	}

	// ElementAccess is `X[Args]`.
	ElementAccess struct {
		Span
		X    Expr
		Args []Expr
	}

	// ElementBinding is `[Args]` inside the WhenNotNull part of a [ConditionalAccess].
	ElementBinding struct {
		Span
		Args []Expr
	}

	// ConditionalAccess is `X?WhenNotNull`, where the leftmost node of WhenNotNull
	// is a [MemberBinding] or [ElementBinding].
	ConditionalAccess struct {
		Span
		X           Expr
		WhenNotNull Expr
	}

	// Call is an invocation `Fun<TypeArgs>(Args)`.
	Call struct {
		Span
		Fun      Expr
		TypeArgs []*TypeRef
		Args     []Expr
	}

	// Lambda is `x => Body` or `(T x, U y) => Body`. Body is an [Expr] or a *[Block].
	Lambda struct {
		Span
		Async         bool
		Parenthesized bool
		Params        []*Param
		Body          Node
	}

	// AnonymousMethod is an old-style `delegate (T x) { ... }` expression.
	AnonymousMethod struct {
		Span
		Async  bool
		Params []*Param // nil when the parameter list is omitted
		Body   *Block
	}

	// ObjectCreation is `new Type(Args)`.
	ObjectCreation struct {
		Span
		Type *TypeRef
		Args []Expr
	}

	// AnonymousObject is `new { Name = Value, ... }`.
	AnonymousObject struct {
		Span
		Members []*AnonymousMember
	}

	// AnonymousMember is one initializer of an [AnonymousObject]. Name is empty for
	// projection initializers like `new { x.Name }`.
	AnonymousMember struct {
		Span
		Name  string
		Value Expr
	}

	// ArrayCreation is `new T[] { Elems }` or `new[] { Elems }` when Elem is nil.
	ArrayCreation struct {
		Span
		Elem  *TypeRef
		Elems []Expr
	}

	// Cast is `(Type) X`.
	Cast struct {
		Span
		Type *TypeRef
		X    Expr
	}

	// AsExpr is `X as Type`.
	AsExpr struct {
		Span
		X    Expr
		Type *TypeRef
	}

	// IsPattern is `X is Pattern`.
	IsPattern struct {
		Span
		X       Expr
		Pattern Pattern
	}

	// Binary is `X Op Y`.
	Binary struct {
		Span
		Op BinaryOp
		X  Expr
		Y  Expr
	}

	// Unary is `Op X`.
	Unary struct {
		Span
		Op UnaryOp
		X  Expr
	}

	// Await is `await X`.
	Await struct {
		Span
		X Expr
	}

	// Conditional is `Cond ? Then : Else`.
	Conditional struct {
		Span
		Cond Expr
		Then Expr
		Else Expr
	}

	// Paren is `(X)`.
	Paren struct {
		Span
		X Expr
	}

	// ThrowExpr is `throw X` in expression position.
	ThrowExpr struct {
		Span
		X Expr
	}

	// Query is a query expression `from x in e ... select e`.
	Query struct {
		Span
		Clauses []QueryClause
	}
)

type (
	// DeclarationPattern is `Type Name`, or a type pattern when Name is empty.
	DeclarationPattern struct {
		Span
		Type *TypeRef
		Name string
	}

	// ConstantPattern is a constant like `null`.
	ConstantPattern struct {
		Span
		X Expr
	}
)

type (
	// FromClause is `from Type Name in X`.
	FromClause struct {
		Span
		Type *TypeRef
		Name string
		X    Expr
	}

	// LetClause is `let Name = X`.
	LetClause struct {
		Span
		Name string
		X    Expr
	}

	// WhereClause is `where Cond`.
	WhereClause struct {
		Span
		Cond Expr
	}

	// SelectClause is `select X`.
	SelectClause struct {
		Span
		X Expr
	}

	// IntoClause is the query continuation `into Name`.
	IntoClause struct {
		Span
		Name string
	}
)

func (*Ident) node()             {}
func (*BasicLit) node()          {}
func (*DefaultExpr) node()       {}
func (*MemberAccess) node()      {}
func (*MemberBinding) node()     {}
func (*ElementAccess) node()     {}
func (*ElementBinding) node()    {}
func (*ConditionalAccess) node() {}
func (*Call) node()              {}
func (*Lambda) node()            {}
func (*AnonymousMethod) node()   {}
func (*ObjectCreation) node()    {}
func (*AnonymousObject) node()   {}
func (*AnonymousMember) node()   {}
func (*ArrayCreation) node()     {}
func (*Cast) node()              {}
func (*AsExpr) node()            {}
func (*IsPattern) node()         {}
func (*Binary) node()            {}
func (*Unary) node()             {}
func (*Await) node()             {}
func (*Conditional) node()       {}
func (*Paren) node()             {}
func (*ThrowExpr) node()         {}
func (*Query) node()             {}

func (*Ident) exprNode()             {}
func (*BasicLit) exprNode()          {}
func (*DefaultExpr) exprNode()       {}
func (*MemberAccess) exprNode()      {}
func (*MemberBinding) exprNode()     {}
func (*ElementAccess) exprNode()     {}
func (*ElementBinding) exprNode()    {}
func (*ConditionalAccess) exprNode() {}
func (*Call) exprNode()              {}
func (*Lambda) exprNode()            {}
func (*AnonymousMethod) exprNode()   {}
func (*ObjectCreation) exprNode()    {}
func (*AnonymousObject) exprNode()   {}
func (*ArrayCreation) exprNode()     {}
func (*Cast) exprNode()              {}
func (*AsExpr) exprNode()            {}
func (*IsPattern) exprNode()         {}
func (*Binary) exprNode()            {}
func (*Unary) exprNode()             {}
func (*Await) exprNode()             {}
func (*Conditional) exprNode()       {}
func (*Paren) exprNode()             {}
func (*ThrowExpr) exprNode()         {}
func (*Query) exprNode()             {}

func (*DeclarationPattern) node() {}
func (*ConstantPattern) node()    {}

func (*DeclarationPattern) patternNode() {}
func (*ConstantPattern) patternNode()    {}

func (*FromClause) node()   {}
func (*LetClause) node()    {}
func (*WhereClause) node()  {}
func (*SelectClause) node() {}
func (*IntoClause) node()   {}

func (*FromClause) clauseNode()   {}
func (*LetClause) clauseNode()    {}
func (*WhereClause) clauseNode()  {}
func (*SelectClause) clauseNode() {}
func (*IntoClause) clauseNode()   {}
