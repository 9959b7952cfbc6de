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

package printer

import "fillmore-labs.com/guardfix/ast"

// Prec is the binding strength of an expression. Higher binds tighter.
type Prec int8

const (
	PrecLowest Prec = iota
	PrecLambda      // lambdas, queries, throw expressions
	PrecConditional
	PrecCoalesce
	PrecLogOr
	PrecLogAnd
	PrecOr
	PrecXor
	PrecAnd
	PrecEquality
	PrecRelational // also `is` and `as`
	PrecAdditive
	PrecMultiplicative
	PrecUnary // also casts and await
	PrecChain // null-conditional access chains
	PrecPrimary
)

// Precedence returns the binding strength of e.
func Precedence(e ast.Expr) Prec {
	switch e := e.(type) {
	case *ast.Lambda, *ast.AnonymousMethod, *ast.Query, *ast.ThrowExpr:
		return PrecLambda

	case *ast.Conditional:
		return PrecConditional

	case *ast.Binary:
		return binaryPrec(e.Op)

	case *ast.IsPattern, *ast.AsExpr:
		return PrecRelational

	case *ast.Unary, *ast.Cast, *ast.Await:
		return PrecUnary

	case *ast.ConditionalAccess:
		return PrecChain

	default:
		return PrecPrimary
	}
}

func binaryPrec(op ast.BinaryOp) Prec {
	switch op {
	case ast.Coalesce:
		return PrecCoalesce

	case ast.LogOr:
		return PrecLogOr

	case ast.LogAnd:
		return PrecLogAnd

	case ast.Or:
		return PrecOr

	case ast.Xor:
		return PrecXor

	case ast.And:
		return PrecAnd

	case ast.Eql, ast.Neq:
		return PrecEquality

	case ast.Lss, ast.Gtr, ast.Leq, ast.Geq:
		return PrecRelational

	case ast.Add, ast.Sub:
		return PrecAdditive

	default:
		return PrecMultiplicative
	}
}

// Required returns the minimum binding strength an expression needs to appear
// as child of parent without parentheses.
//
// A null-conditional chain used as receiver of a member access, element
// access or invocation needs parentheses, since `(a?.b).c` and `a?.b.c`
// differ when a is null. A throw expression needs no parentheses as right
// operand of `??` or branch of a conditional, and is not allowed in them.
func Required(parent, child ast.Node) Prec {
	switch p := parent.(type) {
	case *ast.MemberAccess:
		if child == p.X {
			return PrecPrimary
		}

	case *ast.ElementAccess:
		if child == p.X {
			return PrecPrimary
		}

	case *ast.Call:
		if child == p.Fun {
			return PrecPrimary
		}

	case *ast.ConditionalAccess:
		if child == p.X {
			return PrecChain
		}

	case *ast.Unary, *ast.Cast, *ast.Await:
		return PrecUnary

	case *ast.AsExpr, *ast.IsPattern:
		return PrecRelational

	case *ast.Binary:
		prec := binaryPrec(p.Op)
		rightAssoc := p.Op == ast.Coalesce

		switch child {
		case p.X:
			if rightAssoc {
				return prec + 1
			}

			return prec

		case p.Y:
			if _, ok := child.(*ast.ThrowExpr); ok && p.Op == ast.Coalesce {
				return PrecLambda
			}

			if rightAssoc {
				return prec
			}

			return prec + 1
		}

	case *ast.Conditional:
		if child == p.Cond {
			return PrecCoalesce
		}

		return PrecLambda
	}

	return PrecLowest
}

// NeedsParens reports whether repl needs parentheses when it replaces old as a
// child of parent.
func NeedsParens(parent, old ast.Node, repl ast.Expr) bool {
	if parent == nil {
		return false
	}

	return Precedence(repl) < Required(parent, old)
}
