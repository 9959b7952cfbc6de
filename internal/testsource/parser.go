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

import (
	"errors"
	"fmt"
	"go/token"

	"fillmore-labs.com/guardfix/ast"
)

// ParseFile parses text as a compilation unit and adds it to fset.
func ParseFile(fset *token.FileSet, path string, text []byte) (f *ast.File, err error) {
	file := fset.AddFile(path, -1, len(text))
	file.SetLinesForContent(text)

	toks, err := lex(file, string(text))
	if err != nil {
		return nil, err
	}

	p := &parser{file: file, toks: toks}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}

			f, err = nil, b.err
		}
	}()

	return p.parseFile(), nil
}

type bailout struct{ err error }

var errSyntax = errors.New("syntax error")

type parser struct {
	file *token.File
	toks []tok
	i    int
}

var modifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true, "static": true,
	"sealed": true, "abstract": true, "virtual": true, "override": true, "readonly": true,
	"partial": true, "extern": true, "unsafe": true, "const": true, "async": true, "new": true,
}

// keywords that never start a type.
var nonType = map[string]bool{
	"new": true, "return": true, "if": true, "else": true, "foreach": true, "throw": true,
	"null": true, "true": true, "false": true, "this": true, "default": true, "is": true,
	"as": true, "await": true, "delegate": true, "in": true, "using": true, "namespace": true,
	"class": true, "struct": true, "interface": true, "typeof": true, "async": true,
	"public": true, "private": true, "protected": true, "internal": true, "static": true,
	"where": true, "get": true, "set": true,
}

var predefined = map[string]bool{
	"int": true, "long": true, "short": true, "byte": true, "double": true, "float": true,
	"decimal": true, "bool": true, "char": true, "string": true, "object": true, "void": true,
}

func (p *parser) peek() tok { return p.peekN(0) }

func (p *parser) peekN(n int) tok {
	if p.i+n < len(p.toks) {
		return p.toks[p.i+n]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) is(text string) bool { return p.isAt(0, text) }

func (p *parser) isAt(n int, text string) bool {
	t := p.peekN(n)

	return (t.kind == tPunct || t.kind == tIdent) && t.text == text
}

func (p *parser) next() tok {
	t := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}

	return t
}

func (p *parser) expect(text string) tok {
	if !p.is(text) {
		p.fail("expected %q, found %q", text, p.peek().text)
	}

	return p.next()
}

func (p *parser) ident() tok {
	t := p.peek()
	if t.kind != tIdent {
		p.fail("expected identifier, found %q", t.text)
	}

	return p.next()
}

func (p *parser) fail(format string, args ...any) {
	pos := p.file.Position(p.file.Pos(p.peek().off))
	panic(bailout{fmt.Errorf("%s: %w: %s", pos, errSyntax, fmt.Sprintf(format, args...))})
}

// try runs f and rewinds the token stream when f fails.
func (p *parser) try(f func()) (ok bool) {
	save := p.i

	defer func() {
		if r := recover(); r != nil {
			if _, bail := r.(bailout); !bail {
				panic(r)
			}

			p.i, ok = save, false
		}
	}()

	f()

	return true
}

func (p *parser) pos(off int) token.Pos { return p.file.Pos(off) }

// span returns the range from start to the last consumed token.
func (p *parser) span(start tok) ast.Span {
	end := start.end
	if p.i > 0 {
		end = p.toks[p.i-1].end
	}

	return ast.Span{From: p.pos(start.off), To: p.pos(end)}
}

func (p *parser) parseFile() *ast.File {
	start := p.peek()
	f := &ast.File{}
	f.Usings = p.usings()

	for p.peek().kind != tEOF {
		f.Members = append(f.Members, p.member(""))
	}

	f.Span = ast.Span{From: p.pos(start.off), To: p.pos(p.peek().end)}
	if len(p.toks) == 1 {
		f.Span = ast.Span{From: p.file.Pos(0), To: p.file.Pos(0)}
	}

	return f
}

func (p *parser) usings() []*ast.Using {
	var usings []*ast.Using

	for p.is("using") {
		start := p.next()
		name := p.qualifiedName()
		p.expect(";")
		usings = append(usings, &ast.Using{Span: p.span(start), Name: name})
	}

	return usings
}

func (p *parser) qualifiedName() string {
	name := p.ident().text
	for p.is(".") {
		p.next()
		name += "." + p.ident().text
	}

	return name
}

func (p *parser) modifiers() []string {
	var mods []string
	for t := p.peek(); t.kind == tIdent && modifiers[t.text]; t = p.peek() {
		mods = append(mods, p.next().text)
	}

	return mods
}

func (p *parser) member(typeName string) ast.Member {
	start := p.peek()

	if p.is("namespace") {
		return p.namespace()
	}

	mods := p.modifiers()

	if p.is("class") || p.is("struct") || p.is("interface") {
		return p.typeDecl(start, mods)
	}

	// constructor
	if t := p.peek(); t.kind == tIdent && t.text == typeName && p.isAt(1, "(") {
		name := p.next().text
		m := &ast.MethodDecl{Modifiers: mods, Name: name}
		m.Params = p.params("(", ")")
		m.Body, m.ExprBody = p.methodBody()
		m.Span = p.span(start)

		return m
	}

	typ := p.typeRef(nullableAlways)

	if p.is("this") {
		p.next()

		prop := &ast.PropertyDecl{Modifiers: mods, Type: typ, Name: "this"}
		prop.Params = p.params("[", "]")
		p.propertyBody(prop)
		prop.Span = p.span(start)

		return prop
	}

	name := p.ident().text

	switch {
	case p.is("(") || p.is("<"):
		m := &ast.MethodDecl{Modifiers: mods, Result: typ, Name: name}
		m.TypeParams = p.typeParams()
		m.Params = p.params("(", ")")
		m.Constraints = p.constraints()
		m.Body, m.ExprBody = p.methodBody()
		m.Span = p.span(start)

		return m

	case p.is("{") || p.is("=>"):
		prop := &ast.PropertyDecl{Modifiers: mods, Type: typ, Name: name}
		p.propertyBody(prop)
		prop.Span = p.span(start)

		return prop

	default:
		field := &ast.FieldDecl{Modifiers: mods, Type: typ, Name: name}
		if p.is("=") {
			p.next()
			field.Value = p.expr()
		}

		p.expect(";")
		field.Span = p.span(start)

		return field
	}
}

func (p *parser) namespace() *ast.Namespace {
	start := p.expect("namespace")
	ns := &ast.Namespace{Name: p.qualifiedName()}

	if p.is(";") {
		p.next()

		ns.Usings = p.usings()
		for p.peek().kind != tEOF {
			ns.Members = append(ns.Members, p.member(""))
		}
	} else {
		p.expect("{")

		ns.Usings = p.usings()
		for !p.is("}") {
			if p.peek().kind == tEOF {
				p.fail("unexpected end of file in namespace %s", ns.Name)
			}

			ns.Members = append(ns.Members, p.member(""))
		}

		p.expect("}")
	}

	ns.Span = p.span(start)

	return ns
}

func (p *parser) typeDecl(start tok, mods []string) *ast.TypeDecl {
	td := &ast.TypeDecl{Modifiers: mods}

	switch p.next().text {
	case "struct":
		td.Kind = ast.StructDecl

	case "interface":
		td.Kind = ast.InterfaceDecl

	default:
		td.Kind = ast.ClassDecl
	}

	td.Name = p.ident().text
	td.TypeParams = p.typeParams()

	if p.is(":") {
		p.next()
		p.typeRef(nullableNever)

		for p.is(",") {
			p.next()
			p.typeRef(nullableNever)
		}
	}

	td.Constraints = p.constraints()

	p.expect("{")

	for !p.is("}") {
		if p.peek().kind == tEOF {
			p.fail("unexpected end of file in type %s", td.Name)
		}

		td.Members = append(td.Members, p.member(td.Name))
	}

	p.expect("}")
	td.Span = p.span(start)

	return td
}

func (p *parser) typeParams() []*ast.TypeParam {
	if !p.is("<") {
		return nil
	}

	p.next()

	var tps []*ast.TypeParam

	for {
		t := p.ident()
		tps = append(tps, &ast.TypeParam{Span: p.span(t), Name: t.text})

		if !p.is(",") {
			break
		}

		p.next()
	}

	p.expect(">")

	return tps
}

func (p *parser) constraints() []*ast.Constraint {
	var cs []*ast.Constraint

	for p.is("where") {
		start := p.next()
		c := &ast.Constraint{Param: p.ident().text}
		p.expect(":")

		for {
			switch {
			case p.is("class") || p.is("struct"):
				t := p.next()
				c.Bounds = append(c.Bounds, &ast.TypeRef{Span: p.span(t), Name: t.text})

			case p.is("new"):
				t := p.next()
				p.expect("(")
				p.expect(")")
				c.Bounds = append(c.Bounds, &ast.TypeRef{Span: p.span(t), Name: "new()"})

			default:
				c.Bounds = append(c.Bounds, p.typeRef(nullableNever))
			}

			if !p.is(",") {
				break
			}

			p.next()
		}

		c.Span = p.span(start)
		cs = append(cs, c)
	}

	return cs
}

func (p *parser) params(open, closer string) []*ast.Param {
	p.expect(open)

	params := []*ast.Param{}

	for !p.is(closer) {
		params = append(params, p.param())

		if !p.is(",") {
			break
		}

		p.next()
	}

	p.expect(closer)

	return params
}

func (p *parser) param() *ast.Param {
	start := p.peek()
	prm := &ast.Param{}

	for p.is("this") || p.is("ref") || p.is("out") || p.is("in") || p.is("params") {
		prm.Modifiers = append(prm.Modifiers, p.next().text)
	}

	prm.Type = p.typeRef(nullableAlways)
	name := p.ident()
	prm.Name, prm.NamePos = name.text, p.pos(name.off)

	if p.is("=") {
		p.next()
		p.expr()
	}

	prm.Span = p.span(start)

	return prm
}

func (p *parser) methodBody() (*ast.Block, ast.Expr) {
	switch {
	case p.is("{"):
		return p.block(), nil

	case p.is("=>"):
		p.next()
		e := p.expr()
		p.expect(";")

		return nil, e

	default:
		p.expect(";")

		return nil, nil
	}
}

func (p *parser) propertyBody(prop *ast.PropertyDecl) {
	if p.is("=>") {
		p.next()
		prop.ExprBody = p.expr()
		p.expect(";")

		return
	}

	p.expect("{")

	for !p.is("}") {
		start := p.peek()
		p.modifiers()

		kind := p.ident().text
		if kind != "get" && kind != "set" && kind != "init" {
			p.fail("expected accessor, found %q", kind)
		}

		acc := &ast.Accessor{Kind: kind}
		acc.Body, acc.ExprBody = p.methodBody()
		acc.Span = p.span(start)
		prop.Accessors = append(prop.Accessors, acc)
	}

	p.expect("}")

	if p.is("=") {
		p.next()
		p.expr()
		p.expect(";")
	}
}

// nullable controls whether a trailing `?` belongs to a type.
type nullable uint8

const (
	nullableAlways nullable = iota
	nullableNever
	nullableUnlessExpr // `x as T? ...`: not when an expression follows
)

func (p *parser) typeRef(mode nullable) *ast.TypeRef {
	start := p.peek()
	if start.kind != tIdent || nonType[start.text] {
		p.fail("expected type, found %q", start.text)
	}

	t := &ast.TypeRef{Name: p.qualifiedName()}

	if p.is("<") {
		t.Args = p.typeArgs()
	}

	for {
		switch {
		case p.is("?") && mode != nullableNever && !t.Nullable:
			if mode == nullableUnlessExpr && startsOperand(p.peekN(1)) {
				t.Span = p.span(start)
				return t
			}

			p.next()

			t.Nullable = true

		case p.is("[") && p.isAt(1, "]"):
			p.next()
			p.next()

			t.Rank++

		default:
			t.Span = p.span(start)
			return t
		}
	}
}

func (p *parser) typeArgs() []*ast.TypeRef {
	p.expect("<")

	var args []*ast.TypeRef

	for {
		args = append(args, p.typeRef(nullableAlways))

		if !p.is(",") {
			break
		}

		p.next()
	}

	p.expect(">")

	return args
}

// startsOperand reports whether t can start a unary expression.
func startsOperand(t tok) bool {
	switch t.kind {
	case tIdent:
		switch t.text {
		case "is", "as", "in", "where", "select", "let", "into":
			return false
		}

		return true

	case tInt, tReal, tString, tChar:
		return true

	case tPunct:
		return t.text == "(" || t.text == "!" || t.text == "~"

	default:
		return false
	}
}
