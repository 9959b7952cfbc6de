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

import (
	"iter"
	"slices"
)

// Inspect traverses the tree rooted at root in depth-first order, calling f for
// each node. If f returns false, the children of that node are skipped.
//
// Type references are not visited.
func Inspect(root Node, f func(Node) bool) {
	if root == nil {
		return
	}

	var visit func(Node) Node
	visit = func(n Node) Node {
		if f(n) {
			mapChildren(n, visit)
		}

		return n
	}

	visit(root)
}

// InspectStack is like [Inspect], but also passes the ancestors of each node,
// outermost first. The stack must not be retained.
func InspectStack(root Node, f func(n Node, stack []Node) bool) {
	if root == nil {
		return
	}

	var (
		stack []Node
		visit func(Node) Node
	)

	visit = func(n Node) Node {
		if f(n, stack) {
			stack = append(stack, n)
			mapChildren(n, visit)
			stack = stack[:len(stack)-1]
		}

		return n
	}

	visit(root)
}

// Preorder yields all nodes of the tree rooted at root in depth-first order.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		stopped := false
		Inspect(root, func(n Node) bool {
			if stopped {
				return false
			}

			if !yield(n) {
				stopped = true
				return false
			}

			return true
		})
	}
}

// PathTo returns the chain of nodes from root down to and including target,
// or nil when target is not part of the tree.
func PathTo(root, target Node) []Node {
	if root == nil || target == nil {
		return nil
	}

	var (
		path  []Node
		found bool
	)

	var visit func(Node) Node
	visit = func(n Node) Node {
		if found || !mayContain(n, target) {
			return n
		}

		path = append(path, n)
		if n == target {
			found = true
			return n
		}

		mapChildren(n, visit)

		if !found {
			path = path[:len(path)-1]
		}

		return n
	}

	visit(root)

	if !found {
		return nil
	}

	return path
}

// Parent returns the direct parent of target within root, or nil.
func Parent(root, target Node) Node {
	path := PathTo(root, target)
	if len(path) < 2 {
		return nil
	}

	return path[len(path)-2]
}

// mayContain prunes subtrees by source range. Synthesized nodes have no range
// and are always searched.
func mayContain(n, target Node) bool {
	if !n.Pos().IsValid() || !target.Pos().IsValid() {
		return true
	}

	return n.Pos() <= target.Pos() && target.End() <= n.End()
}

// mapper applies f to the direct children of a node, recording whether any
// child was replaced.
type mapper struct {
	f       func(Node) Node
	changed bool
}

func (m *mapper) node(n Node) Node {
	if n == nil {
		return nil
	}

	r := m.f(n)
	if r != n {
		m.changed = true
	}

	return r
}

func (m *mapper) expr(e Expr) Expr {
	if e == nil {
		return nil
	}

	r, _ := m.node(e).(Expr)

	return r
}

func (m *mapper) stmt(s Stmt) Stmt {
	if s == nil {
		return nil
	}

	r, _ := m.node(s).(Stmt)

	return r
}

func (m *mapper) pattern(p Pattern) Pattern {
	if p == nil {
		return nil
	}

	r, _ := m.node(p).(Pattern)

	return r
}

func (m *mapper) block(b *Block) *Block {
	if b == nil {
		return nil
	}

	r, _ := m.node(b).(*Block)

	return r
}

// mapList applies m to all elements of xs. Elements can be replaced, not removed.
func mapList[T Node](m *mapper, xs []T) []T {
	out, cloned := xs, false
	for i, x := range xs {
		r := m.f(x)
		if r == Node(x) {
			continue
		}

		m.changed = true
		if !cloned {
			out, cloned = slices.Clone(xs), true
		}

		out[i] = r.(T)
	}

	return out
}

// mapChildren calls f for every direct child of n and returns n itself when
// nothing changed, or a shallow copy of n with the replaced children otherwise.
// The copy has no source range, since its text no longer matches the source.
//
//nolint:gocyclo,cyclop,funlen,maintidx
func mapChildren(n Node, f func(Node) Node) Node {
	m := &mapper{f: f}

	switch n := n.(type) {
	case *Ident, *BasicLit, *DefaultExpr, *MemberBinding,
		*TypeRef, *TypeParam, *Param, *Using, *Constraint,
		*DeclarationPattern, *IntoClause:
		return n

	case *MemberAccess:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *ElementAccess:
		x, args := m.expr(n.X), mapList(m, n.Args)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X, c.Args = x, args

			return &c
		}

	case *ElementBinding:
		args := mapList(m, n.Args)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Args = args

			return &c
		}

	case *ConditionalAccess:
		x, w := m.expr(n.X), m.expr(n.WhenNotNull)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X, c.WhenNotNull = x, w

			return &c
		}

	case *Call:
		fun, args := m.expr(n.Fun), mapList(m, n.Args)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Fun, c.Args = fun, args

			return &c
		}

	case *Lambda:
		params, body := mapList(m, n.Params), m.node(n.Body)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Params, c.Body = params, body

			return &c
		}

	case *AnonymousMethod:
		params, body := mapList(m, n.Params), m.block(n.Body)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Params, c.Body = params, body

			return &c
		}

	case *ObjectCreation:
		args := mapList(m, n.Args)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Args = args

			return &c
		}

	case *AnonymousObject:
		members := mapList(m, n.Members)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Members = members

			return &c
		}

	case *AnonymousMember:
		v := m.expr(n.Value)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Value = v

			return &c
		}

	case *ArrayCreation:
		elems := mapList(m, n.Elems)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Elems = elems

			return &c
		}

	case *Cast:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *AsExpr:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *IsPattern:
		x, p := m.expr(n.X), m.pattern(n.Pattern)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X, c.Pattern = x, p

			return &c
		}

	case *ConstantPattern:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *Binary:
		x, y := m.expr(n.X), m.expr(n.Y)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X, c.Y = x, y

			return &c
		}

	case *Unary:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *Await:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *Conditional:
		cond, then, els := m.expr(n.Cond), m.expr(n.Then), m.expr(n.Else)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Cond, c.Then, c.Else = cond, then, els

			return &c
		}

	case *Paren:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *ThrowExpr:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *Query:
		clauses := mapList(m, n.Clauses)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Clauses = clauses

			return &c
		}

	case *FromClause:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *LetClause:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *WhereClause:
		cond := m.expr(n.Cond)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Cond = cond

			return &c
		}

	case *SelectClause:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *Block:
		stmts := mapList(m, n.Stmts)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Stmts = stmts

			return &c
		}

	case *ExprStmt:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *LocalDecl:
		v := m.expr(n.Value)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Value = v

			return &c
		}

	case *Return:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *If:
		cond, then, els := m.expr(n.Cond), m.stmt(n.Then), m.stmt(n.Else)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Cond, c.Then, c.Else = cond, then, els

			return &c
		}

	case *ForEach:
		x, body := m.expr(n.X), m.stmt(n.Body)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X, c.Body = x, body

			return &c
		}

	case *Throw:
		x := m.expr(n.X)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.X = x

			return &c
		}

	case *File:
		usings, members := mapList(m, n.Usings), mapList(m, n.Members)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Usings, c.Members = usings, members

			return &c
		}

	case *Namespace:
		usings, members := mapList(m, n.Usings), mapList(m, n.Members)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Usings, c.Members = usings, members

			return &c
		}

	case *TypeDecl:
		tparams, members := mapList(m, n.TypeParams), mapList(m, n.Members)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.TypeParams, c.Members = tparams, members

			return &c
		}

	case *MethodDecl:
		tparams, params := mapList(m, n.TypeParams), mapList(m, n.Params)
		body, expr := m.block(n.Body), m.expr(n.ExprBody)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.TypeParams, c.Params, c.Body, c.ExprBody = tparams, params, body, expr

			return &c
		}

	case *PropertyDecl:
		params, accessors, expr := mapList(m, n.Params), mapList(m, n.Accessors), m.expr(n.ExprBody)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Params, c.Accessors, c.ExprBody = params, accessors, expr

			return &c
		}

	case *Accessor:
		body, expr := m.block(n.Body), m.expr(n.ExprBody)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Body, c.ExprBody = body, expr

			return &c
		}

	case *FieldDecl:
		v := m.expr(n.Value)
		if m.changed {
			c := *n
			c.Span = Span{}
			c.Value = v

			return &c
		}
	}

	return n
}
