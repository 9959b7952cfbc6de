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

func (p *parser) block() *ast.Block {
	start := p.expect("{")
	b := &ast.Block{}

	for !p.is("}") {
		if p.peek().kind == tEOF {
			p.fail("unexpected end of file in block")
		}

		b.Stmts = append(b.Stmts, p.stmt())
	}

	p.expect("}")
	b.Span = p.span(start)

	return b
}

func (p *parser) stmt() ast.Stmt {
	start := p.peek()

	switch {
	case p.is("{"):
		return p.block()

	case p.is("return"):
		p.next()

		r := &ast.Return{}
		if !p.is(";") {
			r.X = p.expr()
		}

		p.expect(";")
		r.Span = p.span(start)

		return r

	case p.is("throw"):
		p.next()

		t := &ast.Throw{}
		if !p.is(";") {
			t.X = p.expr()
		}

		p.expect(";")
		t.Span = p.span(start)

		return t

	case p.is("if"):
		p.next()
		p.expect("(")

		s := &ast.If{Cond: p.expr()}
		p.expect(")")
		s.Then = p.stmt()

		if p.is("else") {
			p.next()
			s.Else = p.stmt()
		}

		s.Span = p.span(start)

		return s

	case p.is("foreach"):
		p.next()
		p.expect("(")

		s := &ast.ForEach{}
		if p.is("var") {
			p.next()
		} else {
			s.Type = p.typeRef(nullableAlways)
		}

		s.Name = p.ident().text
		p.expect("in")
		s.X = p.expr()
		p.expect(")")
		s.Body = p.stmt()
		s.Span = p.span(start)

		return s
	}

	if d := p.localDecl(); d != nil {
		return d
	}

	s := &ast.ExprStmt{X: p.expr()}
	p.expect(";")
	s.Span = p.span(start)

	return s
}

// localDecl parses `Type name = value;` or returns nil when the statement
// is not a declaration.
func (p *parser) localDecl() *ast.LocalDecl {
	start := p.peek()
	d := &ast.LocalDecl{}

	ok := p.try(func() {
		if p.is("var") && p.peekN(1).kind == tIdent {
			p.next()
		} else {
			d.Type = p.typeRef(nullableAlways)
		}

		d.Name = p.ident().text

		if !p.is("=") && !p.is(";") {
			p.fail("not a declaration")
		}
	})
	if !ok {
		return nil
	}

	if p.is("=") {
		p.next()
		d.Value = p.expr()
	}

	p.expect(";")
	d.Span = p.span(start)

	return d
}
