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

package testsource

import "fillmore-labs.com/guardfix/ast"

type binop struct {
	op   ast.BinaryOp
	prec int
}

const precRelational = 8

var binops = map[string]binop{
	"??": {ast.Coalesce, 1},
	"||": {ast.LogOr, 2},
	"&&": {ast.LogAnd, 3},
	"|":  {ast.Or, 4},
	"^":  {ast.Xor, 5},
	"&":  {ast.And, 6},
	"==": {ast.Eql, 7},
	"!=": {ast.Neq, 7},
	"<":  {ast.Lss, precRelational},
	">":  {ast.Gtr, precRelational},
	"<=": {ast.Leq, precRelational},
	">=": {ast.Geq, precRelational},
	"+":  {ast.Add, 9},
	"-":  {ast.Sub, 9},
	"*":  {ast.Mul, 10},
	"/":  {ast.Quo, 10},
	"%":  {ast.Rem, 10},
}

var unops = map[string]ast.UnaryOp{"!": ast.Not, "-": ast.Neg, "+": ast.Plus, "~": ast.Cpl}

func (p *parser) expr() ast.Expr {
	start := p.peek()

	if l := p.lambda(); l != nil {
		return l
	}

	if p.is("throw") {
		return p.throwExpr()
	}

	if p.isQueryStart() {
		return p.query()
	}

	cond := p.binary(1)
	if !p.is("?") {
		return cond
	}

	p.next()
	then := p.expr()
	p.expect(":")
	els := p.expr()

	return &ast.Conditional{Span: p.span(start), Cond: cond, Then: then, Else: els}
}

// throwExpr parses `throw x` in expression position.
func (p *parser) throwExpr() ast.Expr {
	start := p.expect("throw")
	x := p.expr()

	return &ast.ThrowExpr{Span: p.span(start), X: x}
}

func (p *parser) binary(minPrec int) ast.Expr {
	start := p.peek()
	x := p.unary()

	for {
		t := p.peek()

		if t.kind == tIdent && (t.text == "is" || t.text == "as") && precRelational >= minPrec {
			p.next()

			if t.text == "is" {
				pat := p.pattern()
				x = &ast.IsPattern{Span: p.span(start), X: x, Pattern: pat}
			} else {
				typ := p.typeRef(nullableUnlessExpr)
				x = &ast.AsExpr{Span: p.span(start), X: x, Type: typ}
			}

			continue
		}

		b, ok := binops[t.text]
		if t.kind != tPunct || !ok || b.prec < minPrec {
			return x
		}

		p.next()

		var y ast.Expr

		switch {
		case b.op == ast.Coalesce && p.is("throw"):
			y = p.throwExpr()

		case b.op == ast.Coalesce:
			y = p.binary(b.prec)

		default:
			y = p.binary(b.prec + 1)
		}

		x = &ast.Binary{Span: p.span(start), Op: b.op, X: x, Y: y}
	}
}

func (p *parser) pattern() ast.Pattern {
	start := p.peek()

	switch start.kind {
	case tInt, tReal, tString, tChar:
		return &ast.ConstantPattern{Span: start.span(p), X: p.primary()}

	case tIdent:
		if start.text == "null" || start.text == "true" || start.text == "false" {
			return &ast.ConstantPattern{Span: start.span(p), X: p.primary()}
		}
	}

	dp := &ast.DeclarationPattern{Type: p.typeRef(nullableNever)}
	if t := p.peek(); t.kind == tIdent && startsOperand(t) && !p.isAt(1, "=>") {
		dp.Name = p.next().text
	}

	dp.Span = p.span(start)

	return dp
}

func (t tok) span(p *parser) ast.Span { return ast.Span{From: p.pos(t.off), To: p.pos(t.end)} }

func (p *parser) unary() ast.Expr {
	start := p.peek()

	if op, ok := unops[start.text]; ok && start.kind == tPunct {
		p.next()
		x := p.unary()

		return &ast.Unary{Span: p.span(start), Op: op, X: x}
	}

	if p.is("await") && startsOperand(p.peekN(1)) {
		p.next()
		x := p.unary()

		return &ast.Await{Span: p.span(start), X: x}
	}

	if p.is("(") {
		if c := p.cast(); c != nil {
			return c
		}
	}

	return p.postfix(start, p.primary())
}

// cast parses `(Type) operand` when the parenthesized tokens form a type
// followed by something that can only be a cast operand.
func (p *parser) cast() ast.Expr {
	start := p.peek()

	var typ *ast.TypeRef

	ok := p.try(func() {
		p.expect("(")
		typ = p.typeRef(nullableAlways)
		p.expect(")")

		next := p.peek()
		switch {
		case next.kind == tPunct && (next.text == "-" || next.text == "+"):
			if !predefined[typ.Name] {
				p.fail("not a cast")
			}

		case !startsOperand(next):
			p.fail("not a cast")
		}
	})
	if !ok {
		return nil
	}

	x := p.unary()

	return &ast.Cast{Span: p.span(start), Type: typ, X: x}
}

func (p *parser) primary() ast.Expr {
	start := p.peek()

	switch start.kind {
	case tInt:
		p.next()
		return &ast.BasicLit{Span: p.span(start), Kind: ast.IntLit, Value: start.text}

	case tReal:
		p.next()
		return &ast.BasicLit{Span: p.span(start), Kind: ast.RealLit, Value: start.text}

	case tString:
		p.next()
		return &ast.BasicLit{Span: p.span(start), Kind: ast.StringLit, Value: start.text}

	case tChar:
		p.next()
		return &ast.BasicLit{Span: p.span(start), Kind: ast.CharLit, Value: start.text}

	case tPunct:
		if start.text != "(" {
			p.fail("unexpected %q", start.text)
		}

		p.next()
		x := p.expr()
		p.expect(")")

		return &ast.Paren{Span: p.span(start), X: x}

	case tEOF:
		p.fail("unexpected end of file")
	}

	switch start.text {
	case "null":
		p.next()
		return &ast.BasicLit{Span: p.span(start), Kind: ast.NullLit, Value: start.text}

	case "true", "false":
		p.next()
		return &ast.BasicLit{Span: p.span(start), Kind: ast.BoolLit, Value: start.text}

	case "new":
		return p.creation()

	case "default":
		p.next()

		d := &ast.DefaultExpr{}
		if p.is("(") {
			p.next()
			d.Type = p.typeRef(nullableAlways)
			p.expect(")")
		}

		d.Span = p.span(start)

		return d

	case "delegate":
		p.next()

		m := &ast.AnonymousMethod{}
		if p.is("(") {
			m.Params = p.params("(", ")")
		}

		m.Body = p.block()
		m.Span = p.span(start)

		return m
	}

	p.next()

	return &ast.Ident{Span: p.span(start), Name: start.text}
}

func (p *parser) creation() ast.Expr {
	start := p.expect("new")

	switch {
	case p.is("{"):
		p.next()

		obj := &ast.AnonymousObject{}

		for !p.is("}") {
			mStart := p.peek()
			m := &ast.AnonymousMember{}

			if mStart.kind == tIdent && p.isAt(1, "=") {
				m.Name = p.next().text
				p.next()
			}

			m.Value = p.expr()
			m.Span = p.span(mStart)
			obj.Members = append(obj.Members, m)

			if !p.is(",") {
				break
			}

			p.next()
		}

		p.expect("}")
		obj.Span = p.span(start)

		return obj

	case p.is("["):
		p.next()
		p.expect("]")

		arr := &ast.ArrayCreation{Elems: p.initializer()}
		arr.Span = p.span(start)

		return arr
	}

	typ := p.typeRef(nullableAlways)
	if typ.Rank > 0 {
		elem := *typ
		elem.Span, elem.Rank = ast.Span{}, elem.Rank-1

		arr := &ast.ArrayCreation{Elem: &elem, Elems: p.initializer()}
		arr.Span = p.span(start)

		return arr
	}

	obj := &ast.ObjectCreation{Type: typ, Args: p.args("(", ")")}
	obj.Span = p.span(start)

	return obj
}

func (p *parser) initializer() []ast.Expr {
	p.expect("{")

	var elems []ast.Expr

	for !p.is("}") {
		elems = append(elems, p.expr())

		if !p.is(",") {
			break
		}

		p.next()
	}

	p.expect("}")

	return elems
}

func (p *parser) args(open, closer string) []ast.Expr {
	p.expect(open)

	var args []ast.Expr

	for !p.is(closer) {
		args = append(args, p.expr())

		if !p.is(",") {
			break
		}

		p.next()
	}

	p.expect(closer)

	return args
}

// postfix parses member accesses, invocations, element accesses and
// null-conditional chains following x.
func (p *parser) postfix(start tok, x ast.Expr) ast.Expr {
	for {
		switch {
		case p.is("."):
			p.next()
			name := p.ident().text
			x = &ast.MemberAccess{Span: p.span(start), X: x, Name: name}

		case p.is("("):
			x = p.call(start, x, nil)

		case p.is("<"):
			var targs []*ast.TypeRef
			if !p.try(func() {
				targs = p.typeArgs()
				if !p.is("(") {
					p.fail("not a generic invocation")
				}
			}) {
				return x
			}

			x = p.call(start, x, targs)

		case p.is("["):
			args := p.args("[", "]")
			x = &ast.ElementAccess{Span: p.span(start), X: x, Args: args}

		case p.is("?") && (p.isAt(1, ".") || p.isAt(1, "[")):
			p.next()

			bStart := p.peek()

			var binding ast.Expr
			if p.is(".") {
				p.next()
				name := p.ident().text
				binding = &ast.MemberBinding{Span: p.span(bStart), Name: name}
			} else {
				args := p.args("[", "]")
				binding = &ast.ElementBinding{Span: p.span(bStart), Args: args}
			}

			whenNotNull := p.postfix(bStart, binding)

			return &ast.ConditionalAccess{Span: p.span(start), X: x, WhenNotNull: whenNotNull}

		default:
			return x
		}
	}
}

func (p *parser) call(start tok, fun ast.Expr, targs []*ast.TypeRef) ast.Expr {
	args := p.args("(", ")")

	return &ast.Call{Span: p.span(start), Fun: fun, TypeArgs: targs, Args: args}
}

// lambda parses a lambda expression, or returns nil when none starts here.
func (p *parser) lambda() ast.Expr {
	start := p.peek()
	n := 0

	async := p.is("async") && (p.peekN(1).kind == tIdent || p.isAt(1, "("))
	if async {
		n = 1
	}

	var params []*ast.Param

	parenthesized := false

	switch {
	case p.peekN(n).kind == tIdent && p.isAt(n+1, "=>"):
		p.i += n
		name := p.next()
		params = []*ast.Param{{Span: p.span(name), Name: name.text, NamePos: p.pos(name.off)}}

	case p.isAt(n, "("):
		closer := p.matching(p.i + n)
		if closer < 0 || closer+1 >= len(p.toks) || p.toks[closer+1].text != "=>" {
			return nil
		}

		p.i += n
		parenthesized = true
		params = p.lambdaParams()

	default:
		return nil
	}

	p.expect("=>")

	l := &ast.Lambda{Async: async, Parenthesized: parenthesized, Params: params}
	if p.is("{") {
		l.Body = p.block()
	} else {
		l.Body = p.expr()
	}

	l.Span = p.span(start)

	return l
}

func (p *parser) lambdaParams() []*ast.Param {
	p.expect("(")

	params := []*ast.Param{}

	for !p.is(")") {
		start := p.peek()
		prm := &ast.Param{}

		if !(p.peekN(1).kind == tPunct && (p.isAt(1, ",") || p.isAt(1, ")"))) {
			prm.Type = p.typeRef(nullableAlways)
		}

		name := p.ident()
		prm.Name, prm.NamePos = name.text, p.pos(name.off)
		prm.Span = p.span(start)
		params = append(params, prm)

		if !p.is(",") {
			break
		}

		p.next()
	}

	p.expect(")")

	return params
}

// matching returns the index of the token closing the bracket at index i.
func (p *parser) matching(i int) int {
	depth := 0

	for j := i; j < len(p.toks); j++ {
		t := p.toks[j]
		if t.kind != tPunct {
			continue
		}

		switch t.text {
		case "(", "[", "{":
			depth++

		case ")", "]", "}":
			depth--
			if depth == 0 {
				return j
			}
		}
	}

	return -1
}

func (p *parser) isQueryStart() bool {
	if !p.is("from") || p.peekN(1).kind != tIdent {
		return false
	}

	return p.isAt(2, "in") || p.peekN(2).kind == tIdent && p.isAt(3, "in")
}

func (p *parser) query() ast.Expr {
	start := p.peek()
	q := &ast.Query{}

	for {
		cStart := p.peek()

		switch {
		case p.is("from"):
			p.next()

			c := &ast.FromClause{}
			if !p.isAt(1, "in") {
				c.Type = p.typeRef(nullableAlways)
			}

			c.Name = p.ident().text
			p.expect("in")
			c.X = p.binary(1)
			c.Span = p.span(cStart)
			q.Clauses = append(q.Clauses, c)

		case p.is("let"):
			p.next()

			c := &ast.LetClause{Name: p.ident().text}
			p.expect("=")
			c.X = p.binary(1)
			c.Span = p.span(cStart)
			q.Clauses = append(q.Clauses, c)

		case p.is("where"):
			p.next()

			c := &ast.WhereClause{Cond: p.binary(1)}
			c.Span = p.span(cStart)
			q.Clauses = append(q.Clauses, c)

		case p.is("select"):
			p.next()

			c := &ast.SelectClause{X: p.binary(1)}
			c.Span = p.span(cStart)
			q.Clauses = append(q.Clauses, c)

		case p.is("into"):
			p.next()

			c := &ast.IntoClause{Name: p.ident().text}
			c.Span = p.span(cStart)
			q.Clauses = append(q.Clauses, c)

		default:
			if len(q.Clauses) < 2 {
				p.fail("incomplete query")
			}

			q.Span = p.span(start)

			return q
		}
	}
}
