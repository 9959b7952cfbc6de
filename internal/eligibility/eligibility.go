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

// Package eligibility decides which idiom, if any, a helper call can be
// rewritten to.
//
// Idioms are tried most preferred first: the optional chain `x?.P`, the
// coalesce form `x?.P ?? d`, the type test `x is T v ? body : d` and finally
// an if statement for void calls. A call that fits none of them keeps its
// diagnostic but gets no fix.
package eligibility

import (
	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/internal/config"
	"fillmore-labs.com/guardfix/internal/hygiene"
	"fillmore-labs.com/guardfix/internal/match"
)

// hoistedParam is the parameter name of transforms given as delegate references.
const hoistedParam = "value"

// Context is the syntactic context of a call site.
type Context struct {
	// Path leads from the file root to the call, inclusive.
	Path []ast.Node

	// Idioms are the enabled target idioms.
	Idioms config.Idioms
}

func (c Context) parent() ast.Node {
	if len(c.Path) < 2 {
		return nil
	}

	return c.Path[len(c.Path)-2]
}

// Plan is a decided rewrite of a call site.
type Plan struct {
	Site  *match.CallSite
	Idiom Idiom

	// Target is the node to replace: the call, the enclosing `??` expression
	// or the enclosing expression statement.
	Target ast.Node

	// Param is the name of the transform parameter and ParamDecl its
	// declaration, nil when synthesized.
	Param     string
	ParamDecl *ast.Param

	// Body is the normalized transform body.
	Body ast.Expr

	// ChainBody is the body used for chaining and Access the member or
	// element access on the parameter within it.
	ChainBody ast.Expr
	Access    ast.Expr

	// Default is the normalized default, nil when there is none.
	Default ast.Expr

	// Else is the alternative of a type test conditional.
	Else ast.Expr

	// Enclosing is the member declaration new bindings must not collide with.
	Enclosing ast.Node
}

// Decide plans the most idiomatic legal rewrite of site.
func Decide(site *match.CallSite, ctx Context) (Plan, Reason) {
	if site.Receiver == nil {
		return Plan{}, ConditionalReceiver
	}

	p := Plan{Site: site, Target: site.Call, Default: site.Default}

	if site.DefaultKind == match.ProducerDefault {
		def, reason := unwrapProducer(site.Default)
		if reason != Eligible {
			return Plan{}, reason
		}

		p.Default = def
	}

	output := site.Output
	outputNullable := OutputNullable(site)

	if !site.Void() {
		switch {
		case outputNullable && isTrivialDefault(p.Default):
			p.Default = nil

		case p.Default == nil && !outputNullable:
			ref := output.TypeRef()
			if ref == nil {
				return Plan{}, UnnamedOutput
			}

			p.Default = &ast.DefaultExpr{Type: ref}
		}
	}

	lambda, reason := transformLambda(site)
	if reason != Eligible {
		return Plan{}, reason
	}

	if len(lambda.Params) != 1 {
		return Plan{}, ParameterCount
	}

	body, ok := lambda.Body.(ast.Expr)
	if !ok {
		return Plan{}, BlockTransform
	}

	param := lambda.Params[0]
	p.Param, p.Body = param.Name, body

	if param.Pos().IsValid() {
		p.ParamDecl = param
	}

	if plan, ok := p.chain(ctx, outputNullable); ok {
		return plan, Eligible
	}

	if !site.Input.Nameable() {
		return Plan{}, UnnamedInput
	}

	p.Enclosing = hygiene.Enclosing(ctx.Path)

	if site.Void() {
		return p.statement(ctx)
	}

	return p.conditional(ctx)
}

// unwrapProducer turns a default producer into the expression it produces.
func unwrapProducer(def ast.Expr) (ast.Expr, Reason) {
	switch d := def.(type) {
	case *ast.Lambda:
		if d.Async {
			return nil, AsyncDefault
		}

		body, ok := d.Body.(ast.Expr)
		if !ok {
			return nil, BlockDefault
		}

		return body, Eligible

	case *ast.AnonymousMethod:
		return nil, AnonymousMethodDefault

	default:
		return &ast.Call{Fun: def}, Eligible
	}
}

// isTrivialDefault reports whether def is `default(T)`, `default` or `null`.
func isTrivialDefault(def ast.Expr) bool {
	switch d := def.(type) {
	case *ast.DefaultExpr:
		return true

	case *ast.BasicLit:
		return d.Kind == ast.NullLit

	default:
		return false
	}
}

// transformLambda returns the transform as a lambda, wrapping delegate references.
func transformLambda(site *match.CallSite) (*ast.Lambda, Reason) {
	switch t := site.Transform.(type) {
	case *ast.Lambda:
		if t.Async {
			return nil, AsyncTransform
		}

		return t, Eligible

	case *ast.AnonymousMethod:
		return nil, AnonymousMethodTransform

	default:
		return &ast.Lambda{
			Params: []*ast.Param{{Name: hoistedParam}},
			Body:   &ast.Call{Fun: t, Args: []ast.Expr{&ast.Ident{Name: hoistedParam}}},
		}, Eligible
	}
}

// chain plans the optional chain or coalesce form.
func (p Plan) chain(ctx Context, outputNullable bool) (Plan, bool) {
	site := p.Site

	switch {
	case !ctx.Idioms.Enabled(config.OptionalChain),
		site.Void() && p.Default != nil,
		ast.CountIdent(p.Body, p.Param) >= 2,
		p.Default != nil && outputNullable:
		return Plan{}, false
	}

	// `p(args)` cannot be chained, but `p.Invoke(args)` can.
	if c, ok := p.Body.(*ast.Call); ok {
		if id, ok := c.Fun.(*ast.Ident); ok && id.Name == p.Param {
			p.Body = &ast.Call{Fun: &ast.MemberAccess{X: id, Name: "Invoke"}, Args: c.Args}
		}
	}

	// For `Nullable<T>` outputs a cast to the output type is implied by `?.`.
	p.ChainBody = p.Body
	if site.OutputNullableValue {
		switch b := p.Body.(type) {
		case *ast.Cast:
			p.ChainBody = b.X

		case *ast.AsExpr:
			p.ChainBody = b.X
		}
	}

	leaf, access := Leftmost(p.ChainBody)
	if id, ok := leaf.(*ast.Ident); !ok || id.Name != p.Param {
		return Plan{}, false
	}

	switch access.(type) {
	case *ast.MemberAccess, *ast.ElementAccess:

	default:
		return Plan{}, false
	}

	p.Access = access

	if p.Default != nil {
		p.Idiom = Coalesce
	} else {
		p.Idiom = OptionalChain
	}

	return p, true
}

// Leftmost descends through invocations, member, element and conditional
// accesses to the leftmost operand of e. It returns that operand and the
// node it was found in, or nil when e itself is the leftmost operand.
// Parentheses stop the descent.
func Leftmost(e ast.Expr) (leaf, parent ast.Expr) {
	for {
		var next ast.Expr

		switch x := e.(type) {
		case *ast.Call:
			next = x.Fun

		case *ast.MemberAccess:
			next = x.X

		case *ast.ConditionalAccess:
			next = x.X

		case *ast.ElementAccess:
			next = x.X

		default:
			return e, parent
		}

		parent, e = e, next
	}
}

// statement plans the if statement form of void calls.
func (p Plan) statement(ctx Context) (Plan, Reason) {
	if !ctx.Idioms.Enabled(config.IfElse) {
		return Plan{}, IdiomDisabled
	}

	stmt, ok := ctx.parent().(*ast.ExprStmt)
	if !ok || stmt.X != ast.Expr(p.Site.Call) {
		return Plan{}, NotStatement
	}

	p.Idiom, p.Target = IfElse, stmt

	return p, Eligible
}

// conditional plans the type test conditional form.
func (p Plan) conditional(ctx Context) (Plan, Reason) {
	if !ctx.Idioms.Enabled(config.TypeTest) {
		return Plan{}, IdiomDisabled
	}

	p.Idiom = TypeTestConditional

	if p.Default == nil {
		if bin, ok := ctx.parent().(*ast.Binary); ok && bin.Op == ast.Coalesce && bin.X == ast.Expr(p.Site.Call) && isCreation(p.Body) {
			p.Target, p.Else = bin, bin.Y

			return p, Eligible
		}
	}

	switch {
	case p.Default != nil:
		p.Else = p.Default

	case p.Site.Output.Nameable():
		p.Else = &ast.DefaultExpr{Type: p.Site.Output.TypeRef()}

	default:
		return Plan{}, UnnamedOutput
	}

	return p, Eligible
}

// isCreation reports whether e always produces a non-null object.
func isCreation(e ast.Expr) bool {
	switch e.(type) {
	case *ast.ObjectCreation, *ast.AnonymousObject:
		return true

	default:
		return false
	}
}

// OutputNullable reports whether the output of site admits null.
func OutputNullable(site *match.CallSite) bool {
	return !site.Void() && site.Output.CanBeNull()
}
