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

type (
	// Block is `{ Stmts }`.
	Block struct {
		Span
		Stmts []Stmt
	}

	// ExprStmt is an expression used as a statement.
	ExprStmt struct {
		Span
		X Expr
	}

	// LocalDecl is `Type Name = Value;`. Type is nil for `var`, Value may be nil.
	LocalDecl struct {
		Span
		Type  *TypeRef
		Name  string
		Value Expr
	}

	// Return is `return X;`, X may be nil.
	Return struct {
		Span
		X Expr
	}

	// If is `if (Cond) Then else Else`, Else may be nil.
	If struct {
		Span
		Cond Expr
		Then Stmt
		Else Stmt
	}

	// ForEach is `foreach (Type Name in X) Body`. Type is nil for `var`.
	ForEach struct {
		Span
		Type *TypeRef
		Name string
		X    Expr
		Body Stmt
	}

	// Throw is `throw X;`, X may be nil for a rethrow.
	Throw struct {
		Span
		X Expr
	}
)

func (*Block) node()     {}
func (*ExprStmt) node()  {}
func (*LocalDecl) node() {}
func (*Return) node()    {}
func (*If) node()        {}
func (*ForEach) node()   {}
func (*Throw) node()     {}

func (*Block) stmtNode()     {}
func (*ExprStmt) stmtNode()  {}
func (*LocalDecl) stmtNode() {}
func (*Return) stmtNode()    {}
func (*If) stmtNode()        {}
func (*ForEach) stmtNode()   {}
func (*Throw) stmtNode()     {}
