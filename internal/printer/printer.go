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

// Package printer renders syntax trees as source text.
//
// Nodes that still carry their source range are copied verbatim from the
// original text, everything else is printed structurally with the minimal
// parentheses required by operator precedence.
package printer

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"

	"fillmore-labs.com/guardfix/ast"
)

// DefaultIndent is the indentation unit used when none is configured.
const DefaultIndent = "\t"

// ErrUnsupported is returned for nodes the printer cannot render.
var ErrUnsupported = errors.New("unsupported node")

// Config controls the output of [Config.Fprint].
type Config struct {
	Fset   *token.FileSet // positions of verbatim nodes
	Text   []byte         // source text of verbatim nodes
	Indent string         // one indentation level
}

// Fprint writes n to w. Lines after the first are prefixed with indent.
func (c *Config) Fprint(w io.Writer, n ast.Node, indent string) error {
	p := printer{Config: c, unit: c.Indent}
	if p.unit == "" {
		p.unit = DefaultIndent
	}

	p.node(n, indent)

	if p.err != nil {
		return p.err
	}

	_, err := w.Write(p.buf.Bytes())

	return err
}

// Sprint returns the text of n.
func (c *Config) Sprint(n ast.Node, indent string) (string, error) {
	var buf bytes.Buffer
	if err := c.Fprint(&buf, n, indent); err != nil {
		return "", err
	}

	return buf.String(), nil
}

type printer struct {
	*Config
	unit string
	buf  bytes.Buffer
	err  error
}

func (p *printer) str(s string) { p.buf.WriteString(s) }

func (p *printer) node(n ast.Node, indent string) {
	switch n := n.(type) {
	case ast.Expr:
		p.expr(n, PrecLowest, indent)

	case ast.Stmt:
		p.stmt(n, indent)

	case *ast.TypeRef:
		p.typeRef(n)

	case *ast.Param:
		p.param(n)

	default:
		p.fail(n)
	}
}

func (p *printer) fail(n ast.Node) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %T", ErrUnsupported, n)
	}
}

// verbatim copies the source text of n when it is available.
func (p *printer) verbatim(n ast.Node) bool {
	if p.Fset == nil || p.Text == nil || !n.Pos().IsValid() || !n.End().IsValid() {
		return false
	}

	f := p.Fset.File(n.Pos())
	if f == nil || f != p.Fset.File(n.End()) {
		return false
	}

	start, end := f.Offset(n.Pos()), f.Offset(n.End())
	if start > end || end > len(p.Text) {
		return false
	}

	p.buf.Write(p.Text[start:end])

	return true
}

func (p *printer) child(parent ast.Node, e ast.Expr, indent string) {
	p.expr(e, Required(parent, e), indent)
}

func (p *printer) expr(e ast.Expr, need Prec, indent string) {
	if Precedence(e) < need {
		p.str("(")
		defer p.str(")")
	}

	if p.verbatim(e) {
		return
	}

	switch e := e.(type) {
	case *ast.Ident:
		p.str(e.Name)

	case *ast.BasicLit:
		p.str(e.Value)

	case *ast.DefaultExpr:
		p.str("default")

		if e.Type != nil {
			p.str("(")
			p.typeRef(e.Type)
			p.str(")")
		}

	case *ast.MemberAccess:
		p.child(e, e.X, indent)
		p.str(".")
		p.str(e.Name)

	case *ast.MemberBinding:
		p.str(".")
		p.str(e.Name)

	case *ast.ElementAccess:
		p.child(e, e.X, indent)
		p.str("[")
		p.exprList(e.Args, indent)
		p.str("]")

	case *ast.ElementBinding:
		p.str("[")
		p.exprList(e.Args, indent)
		p.str("]")

	case *ast.ConditionalAccess:
		p.child(e, e.X, indent)
		p.str("?")
		p.child(e, e.WhenNotNull, indent)

	case *ast.Call:
		p.child(e, e.Fun, indent)

		if len(e.TypeArgs) > 0 {
			p.typeArgs(e.TypeArgs)
		}

		p.str("(")
		p.exprList(e.Args, indent)
		p.str(")")

	case *ast.Lambda:
		p.lambda(e, indent)

	case *ast.AnonymousMethod:
		if e.Async {
			p.str("async ")
		}

		p.str("delegate")

		if e.Params != nil {
			p.paramList(e.Params)
		}

		p.str(" ")
		p.block(e.Body, indent)

	case *ast.ObjectCreation:
		p.str("new ")
		p.typeRef(e.Type)
		p.str("(")
		p.exprList(e.Args, indent)
		p.str(")")

	case *ast.AnonymousObject:
		if len(e.Members) == 0 {
			p.str("new { }")
			break
		}

		p.str("new { ")

		for i, m := range e.Members {
			if i > 0 {
				p.str(", ")
			}

			if m.Name != "" {
				p.str(m.Name)
				p.str(" = ")
			}

			p.expr(m.Value, PrecLowest, indent)
		}

		p.str(" }")

	case *ast.ArrayCreation:
		p.str("new")

		if e.Elem != nil {
			p.str(" ")
			p.typeRef(e.Elem)
		}

		p.str("[] { ")
		p.exprList(e.Elems, indent)
		p.str(" }")

	case *ast.Cast:
		p.str("(")
		p.typeRef(e.Type)
		p.str(") ")
		p.child(e, e.X, indent)

	case *ast.AsExpr:
		p.child(e, e.X, indent)
		p.str(" as ")
		p.typeRef(e.Type)

	case *ast.IsPattern:
		p.child(e, e.X, indent)
		p.str(" is ")
		p.pattern(e.Pattern, indent)

	case *ast.Binary:
		p.child(e, e.X, indent)
		p.str(" ")
		p.str(e.Op.String())
		p.str(" ")
		p.child(e, e.Y, indent)

	case *ast.Unary:
		p.str(e.Op.String())
		p.child(e, e.X, indent)

	case *ast.Await:
		p.str("await ")
		p.child(e, e.X, indent)

	case *ast.Conditional:
		p.child(e, e.Cond, indent)
		p.str(" ? ")
		p.child(e, e.Then, indent)
		p.str(" : ")
		p.child(e, e.Else, indent)

	case *ast.Paren:
		p.str("(")
		p.expr(e.X, PrecLowest, indent)
		p.str(")")

	case *ast.ThrowExpr:
		p.str("throw ")
		p.expr(e.X, PrecLowest, indent)

	case *ast.Query:
		for i, c := range e.Clauses {
			if i > 0 {
				p.str(" ")
			}

			p.clause(c, indent)
		}

	default:
		p.fail(e)
	}
}

func (p *printer) exprList(list []ast.Expr, indent string) {
	for i, e := range list {
		if i > 0 {
			p.str(", ")
		}

		p.expr(e, PrecLowest, indent)
	}
}

func (p *printer) lambda(l *ast.Lambda, indent string) {
	if l.Async {
		p.str("async ")
	}

	if len(l.Params) == 1 && !l.Parenthesized && l.Params[0].Type == nil {
		p.str(l.Params[0].Name)
	} else {
		p.paramList(l.Params)
	}

	p.str(" => ")

	switch body := l.Body.(type) {
	case *ast.Block:
		p.block(body, indent)

	case ast.Expr:
		p.expr(body, PrecLowest, indent)

	default:
		p.fail(l.Body)
	}
}

func (p *printer) paramList(params []*ast.Param) {
	p.str("(")

	for i, prm := range params {
		if i > 0 {
			p.str(", ")
		}

		p.param(prm)
	}

	p.str(")")
}

func (p *printer) param(prm *ast.Param) {
	for _, m := range prm.Modifiers {
		p.str(m)
		p.str(" ")
	}

	if prm.Type != nil {
		p.typeRef(prm.Type)
		p.str(" ")
	}

	p.str(prm.Name)
}

func (p *printer) pattern(pat ast.Pattern, indent string) {
	switch pat := pat.(type) {
	case *ast.DeclarationPattern:
		p.typeRef(pat.Type)

		if pat.Name != "" {
			p.str(" ")
			p.str(pat.Name)
		}

	case *ast.ConstantPattern:
		p.expr(pat.X, PrecRelational+1, indent)

	default:
		p.fail(pat)
	}
}

func (p *printer) clause(c ast.QueryClause, indent string) {
	switch c := c.(type) {
	case *ast.FromClause:
		p.str("from ")

		if c.Type != nil {
			p.typeRef(c.Type)
			p.str(" ")
		}

		p.str(c.Name)
		p.str(" in ")
		p.expr(c.X, PrecLowest, indent)

	case *ast.LetClause:
		p.str("let ")
		p.str(c.Name)
		p.str(" = ")
		p.expr(c.X, PrecLowest, indent)

	case *ast.WhereClause:
		p.str("where ")
		p.expr(c.Cond, PrecLowest, indent)

	case *ast.SelectClause:
		p.str("select ")
		p.expr(c.X, PrecLowest, indent)

	case *ast.IntoClause:
		p.str("into ")
		p.str(c.Name)

	default:
		p.fail(c)
	}
}

func (p *printer) typeRef(t *ast.TypeRef) {
	if t == nil {
		p.str("var")
		return
	}

	if p.verbatim(t) {
		return
	}

	p.str(t.Name)

	if len(t.Args) > 0 {
		p.typeArgs(t.Args)
	}

	if t.Nullable {
		p.str("?")
	}

	for range t.Rank {
		p.str("[]")
	}
}

func (p *printer) typeArgs(args []*ast.TypeRef) {
	p.str("<")

	for i, a := range args {
		if i > 0 {
			p.str(", ")
		}

		p.typeRef(a)
	}

	p.str(">")
}
