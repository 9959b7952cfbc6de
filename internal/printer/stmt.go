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

// stmt prints s starting at the current column; continuation lines are
// prefixed with indent.
func (p *printer) stmt(s ast.Stmt, indent string) {
	if p.verbatim(s) {
		return
	}

	switch s := s.(type) {
	case *ast.Block:
		p.block(s, indent)

	case *ast.ExprStmt:
		p.expr(s.X, PrecLowest, indent)
		p.str(";")

	case *ast.LocalDecl:
		p.typeRef(s.Type)
		p.str(" ")
		p.str(s.Name)

		if s.Value != nil {
			p.str(" = ")
			p.expr(s.Value, PrecLowest, indent)
		}

		p.str(";")

	case *ast.Return:
		p.str("return")

		if s.X != nil {
			p.str(" ")
			p.expr(s.X, PrecLowest, indent)
		}

		p.str(";")

	case *ast.Throw:
		p.str("throw")

		if s.X != nil {
			p.str(" ")
			p.expr(s.X, PrecLowest, indent)
		}

		p.str(";")

	case *ast.If:
		p.str("if (")
		p.expr(s.Cond, PrecLowest, indent)
		p.str(")")
		p.body(s.Then, indent)

		if s.Else != nil {
			p.newline(indent)
			p.str("else")

			if elseIf, ok := s.Else.(*ast.If); ok {
				p.str(" ")
				p.stmt(elseIf, indent)
			} else {
				p.body(s.Else, indent)
			}
		}

	case *ast.ForEach:
		p.str("foreach (")
		p.typeRef(s.Type)
		p.str(" ")
		p.str(s.Name)
		p.str(" in ")
		p.expr(s.X, PrecLowest, indent)
		p.str(")")
		p.body(s.Body, indent)

	default:
		p.fail(s)
	}
}

// body prints the controlled statement of an if or foreach on its own line.
func (p *printer) body(s ast.Stmt, indent string) {
	if b, ok := s.(*ast.Block); ok {
		p.newline(indent)
		p.block(b, indent)

		return
	}

	inner := indent + p.unit
	p.newline(inner)
	p.stmt(s, inner)
}

func (p *printer) block(b *ast.Block, indent string) {
	if p.verbatim(b) {
		return
	}

	if len(b.Stmts) == 0 {
		p.str("{ }")
		return
	}

	p.str("{")

	inner := indent + p.unit
	for _, s := range b.Stmts {
		p.newline(inner)
		p.stmt(s, inner)
	}

	p.newline(indent)
	p.str("}")
}

func (p *printer) newline(indent string) {
	p.str("\n")
	p.str(indent)
}
