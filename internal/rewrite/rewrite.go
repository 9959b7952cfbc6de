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

// Package rewrite builds replacement fragments for planned rewrites.
package rewrite

import (
	"fmt"

	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/internal/eligibility"
	"fillmore-labs.com/guardfix/internal/hygiene"
)

// Candidate is a synthesized rewrite.
type Candidate struct {
	Idiom eligibility.Idiom

	// Target is the node Replacement substitutes.
	Target ast.Node

	// Replacement is an [ast.Expr], or an [ast.Stmt] for [eligibility.IfElse].
	Replacement ast.Node

	// Bindings are the names the replacement introduces, in order.
	Bindings []string

	Eligible bool
	Reason   eligibility.Reason
}

// Declined returns an ineligible candidate.
func Declined(reason eligibility.Reason) Candidate {
	return Candidate{Reason: reason}
}

// Synthesize builds the replacement fragment for plan.
func Synthesize(plan eligibility.Plan) (Candidate, error) {
	c := Candidate{Idiom: plan.Idiom, Target: plan.Target, Eligible: true, Reason: eligibility.Eligible}

	switch plan.Idiom {
	case eligibility.OptionalChain, eligibility.Coalesce:
		repl, err := chain(plan)
		if err != nil {
			return Candidate{}, err
		}

		c.Replacement = repl

	case eligibility.TypeTestConditional:
		cond, body, name := typeTest(plan)
		c.Replacement = &ast.Conditional{Cond: cond, Then: body, Else: plan.Else}
		c.Bindings = []string{name}

	case eligibility.IfElse:
		cond, body, name := typeTest(plan)

		stmt := &ast.If{Cond: cond, Then: &ast.Block{Stmts: []ast.Stmt{statement(body)}}}
		if plan.Default != nil {
			stmt.Else = &ast.Block{Stmts: []ast.Stmt{statement(plan.Default)}}
		}

		c.Replacement = stmt
		c.Bindings = []string{name}

	default:
		return Candidate{}, fmt.Errorf("no idiom to synthesize: %v", plan.Idiom)
	}

	return c, nil
}

// chain builds `receiver?.rest` and `receiver?.rest ?? default`.
func chain(plan eligibility.Plan) (ast.Expr, error) {
	var binding ast.Expr

	switch a := plan.Access.(type) {
	case *ast.MemberAccess:
		binding = &ast.MemberBinding{Name: a.Name}

	case *ast.ElementAccess:
		binding = &ast.ElementBinding{Args: a.Args}

	default:
		return nil, fmt.Errorf("unexpected leftmost access %T", plan.Access)
	}

	whenNotNull, ok := ast.Replace(plan.ChainBody, plan.Access, binding).(ast.Expr)
	if !ok {
		return nil, fmt.Errorf("replacing %T produced no expression", plan.Access)
	}

	var result ast.Expr = &ast.ConditionalAccess{X: plan.Site.Receiver, WhenNotNull: whenNotNull}

	if plan.Default != nil {
		result = &ast.Binary{Op: ast.Coalesce, X: result, Y: plan.Default}
	}

	return result, nil
}

// typeTest builds `receiver is TInput name` with a hygienic name and returns
// the transform body referring to it.
func typeTest(plan eligibility.Plan) (cond, body ast.Expr, name string) {
	var exclude ast.Node
	if plan.ParamDecl != nil {
		exclude = plan.ParamDecl
	}

	name = hygiene.Allocate(plan.Param, plan.Enclosing, exclude)

	body = plan.Body
	if name != plan.Param {
		body = ast.Rename(body, plan.Param, name).(ast.Expr)
	}

	cond = &ast.IsPattern{
		X:       plan.Site.Receiver,
		Pattern: &ast.DeclarationPattern{Type: plan.Site.Input.TypeRef(), Name: name},
	}

	return cond, body, name
}

// statement turns an expression into a statement; throw expressions become
// throw statements.
func statement(e ast.Expr) ast.Stmt {
	if t, ok := e.(*ast.ThrowExpr); ok {
		return &ast.Throw{X: t.X}
	}

	return &ast.ExprStmt{X: e}
}
