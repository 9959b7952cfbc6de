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
	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/sema"
)

// TypeOf returns the type of e. Expressions of unknown type are objects,
// throw expressions have no type and return nil.
func (r *Info) TypeOf(e ast.Expr) *sema.Type {
	r.mu.Lock()
	t, ok := r.exprs[e]
	r.mu.Unlock()

	if ok {
		return t
	}

	t = r.typeOf(e)

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.exprs[e]; ok {
		return prev
	}

	r.exprs[e] = t

	return t
}

//nolint:gocyclo,cyclop,funlen
func (r *Info) typeOf(e ast.Expr) *sema.Type {
	switch e := e.(type) {
	case *ast.Ident:
		if t := r.local(e); t != nil {
			return t
		}

		if t := r.fieldOfEnclosing(e, e.Name); t != nil {
			return t
		}

		return objectType

	case *ast.BasicLit:
		switch e.Kind {
		case ast.NullLit:
			return nullType

		case ast.BoolLit:
			return boolType

		case ast.StringLit:
			return stringType

		case ast.CharLit:
			return &sema.Type{Kind: sema.Struct, Name: "char"}

		case ast.RealLit:
			return &sema.Type{Kind: sema.Struct, Name: "double"}

		default:
			return intType
		}

	case *ast.DefaultExpr:
		if e.Type == nil {
			return nullType
		}

		return r.typeOfRef(e.Type, r.typeParamsAt(e))

	case *ast.MemberAccess:
		if t, ok := r.typeName(e.X); ok {
			return r.memberType(t, e.Name)
		}

		return r.memberType(r.TypeOf(e.X), e.Name)

	case *ast.MemberBinding:
		return r.memberType(r.bindingReceiver(e), e.Name)

	case *ast.ElementAccess:
		return r.elementType(r.TypeOf(e.X))

	case *ast.ElementBinding:
		return r.elementType(r.bindingReceiver(e))

	case *ast.ConditionalAccess:
		t := r.TypeOf(e.WhenNotNull)
		if t != nil && t.Kind == sema.Struct {
			return sema.NullableOf(t)
		}

		return t

	case *ast.Call:
		return r.resolveCall(e).result

	case *ast.Lambda, *ast.AnonymousMethod:
		return &sema.Type{Kind: sema.Delegate}

	case *ast.ObjectCreation:
		return r.typeOfRef(e.Type, r.typeParamsAt(e))

	case *ast.AnonymousObject:
		return r.anonymous(e)

	case *ast.ArrayCreation:
		switch {
		case e.Elem != nil:
			return &sema.Type{Kind: sema.Array, Elem: r.typeOfRef(e.Elem, r.typeParamsAt(e))}

		case len(e.Elems) > 0:
			return &sema.Type{Kind: sema.Array, Elem: r.TypeOf(e.Elems[0])}

		default:
			return &sema.Type{Kind: sema.Array, Elem: objectType}
		}

	case *ast.Cast:
		return r.typeOfRef(e.Type, r.typeParamsAt(e))

	case *ast.AsExpr:
		return r.typeOfRef(e.Type, r.typeParamsAt(e))

	case *ast.IsPattern:
		return boolType

	case *ast.Binary:
		switch e.Op {
		case ast.Coalesce:
			x := r.TypeOf(e.X)
			if x == nil || x.IsNullableValue() || x == nullType {
				return r.TypeOf(e.Y)
			}

			return x

		case ast.LogOr, ast.LogAnd, ast.Eql, ast.Neq, ast.Lss, ast.Gtr, ast.Leq, ast.Geq:
			return boolType

		default:
			return r.TypeOf(e.X)
		}

	case *ast.Unary:
		if e.Op == ast.Not {
			return boolType
		}

		return r.TypeOf(e.X)

	case *ast.Await:
		if t := r.TypeOf(e.X); t != nil && t.Name == "Task" && len(t.Args) == 1 {
			return t.Args[0]
		}

		return voidType

	case *ast.Conditional:
		if t := r.TypeOf(e.Then); t != nil && t != nullType {
			return t
		}

		return r.TypeOf(e.Else)

	case *ast.Paren:
		return r.TypeOf(e.X)

	case *ast.ThrowExpr:
		return nil

	default:
		return objectType
	}
}

// anonymous returns the type of an anonymous object creation, recording its members.
func (r *Info) anonymous(e *ast.AnonymousObject) *sema.Type {
	t := &sema.Type{Kind: sema.Anonymous}
	members := make(map[string]*sema.Type, len(e.Members))

	for _, m := range e.Members {
		name := m.Name
		if name == "" {
			switch v := m.Value.(type) {
			case *ast.Ident:
				name = v.Name

			case *ast.MemberAccess:
				name = v.Name
			}
		}

		members[name] = r.TypeOf(m.Value)
	}

	r.mu.Lock()
	r.anon[t] = members
	r.mu.Unlock()

	return t
}

// typeParamsAt returns the method type parameters in scope at n.
func (r *Info) typeParamsAt(n ast.Node) map[string]*sema.Type {
	for p := r.parents[n]; p != nil; p = r.parents[p] {
		if md, ok := p.(*ast.MethodDecl); ok {
			return r.methodTypeParams(md)
		}
	}

	return nil
}

// typeName returns the type denoted by e when e names a type, like
// `ReferenceThing` or `System.Threading.Tasks.Task`.
func (r *Info) typeName(e ast.Expr) (*sema.Type, bool) {
	switch e := e.(type) {
	case *ast.Ident:
		if r.local(e) != nil || r.fieldOfEnclosing(e, e.Name) != nil {
			return nil, false
		}

		return r.knownType(e.Name)

	case *ast.MemberAccess:
		if !r.isNamespace(e.X) {
			return nil, false
		}

		return r.knownType(e.Name)

	default:
		return nil, false
	}
}

// isNamespace reports whether e is a dotted name that denotes neither a value nor a type.
func (r *Info) isNamespace(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Ident:
		if r.local(e) != nil || r.fieldOfEnclosing(e, e.Name) != nil {
			return false
		}

		_, isType := r.knownType(e.Name)

		return !isType

	case *ast.MemberAccess:
		if !r.isNamespace(e.X) {
			return false
		}

		_, isType := r.knownType(e.Name)

		return !isType

	default:
		return false
	}
}

// bindingReceiver returns the type a member or element binding applies to:
// the underlying type of the receiver of the enclosing conditional access.
func (r *Info) bindingReceiver(b ast.Expr) *sema.Type {
	child := ast.Node(b)

	for p := r.parents[child]; p != nil; child, p = p, r.parents[p] {
		if ca, ok := p.(*ast.ConditionalAccess); ok && child == ca.WhenNotNull {
			t := r.TypeOf(ca.X)
			if t != nil && t.IsNullableValue() {
				t = t.Elem
			}

			return t
		}
	}

	return objectType
}

// memberType returns the type of a property or field of t.
func (r *Info) memberType(t *sema.Type, name string) *sema.Type {
	if t == nil {
		return objectType
	}

	switch t.Kind {
	case sema.Anonymous:
		r.mu.Lock()
		m := r.anon[t][name]
		r.mu.Unlock()

		if m != nil {
			return m
		}

	case sema.Nullable:
		switch name {
		case "Value":
			return t.Elem

		case "HasValue":
			return boolType
		}

	case sema.Class, sema.Struct:
		if t == stringType && name == "Length" {
			return intType
		}

		td := r.types[t.Name]
		if td == nil {
			break
		}

		for _, m := range td.decl.Members {
			switch m := m.(type) {
			case *ast.PropertyDecl:
				if m.Name == name && m.Params == nil {
					return r.typeOfRef(m.Type, nil)
				}

			case *ast.FieldDecl:
				if m.Name == name {
					return r.typeOfRef(m.Type, nil)
				}
			}
		}
	}

	return objectType
}

// elementType returns the result of indexing into t.
func (r *Info) elementType(t *sema.Type) *sema.Type {
	if t == nil {
		return objectType
	}

	if t.Kind == sema.Array {
		return t.Elem
	}

	if td := r.types[t.Name]; td != nil {
		for _, m := range td.decl.Members {
			if p, ok := m.(*ast.PropertyDecl); ok && p.Params != nil {
				return r.typeOfRef(p.Type, nil)
			}
		}
	}

	return objectType
}

// fieldOfEnclosing returns the type of a property or field of the type
// enclosing n, or nil.
func (r *Info) fieldOfEnclosing(n ast.Node, name string) *sema.Type {
	td := r.enclosingType(n)
	if td == nil {
		return nil
	}

	for _, m := range td.decl.Members {
		switch m := m.(type) {
		case *ast.PropertyDecl:
			if m.Name == name && m.Params == nil {
				return r.typeOfRef(m.Type, nil)
			}

		case *ast.FieldDecl:
			if m.Name == name {
				return r.typeOfRef(m.Type, nil)
			}
		}
	}

	return nil
}

// local returns the type of the variable id refers to, or nil when id
// does not refer to a parameter or local variable.
//
//nolint:gocyclo,cyclop
func (r *Info) local(id *ast.Ident) *sema.Type {
	name := id.Name
	child := ast.Node(id)

	for p := r.parents[child]; p != nil; child, p = p, r.parents[p] {
		switch p := p.(type) {
		case *ast.Lambda:
			for i, prm := range p.Params {
				if prm.Name == name {
					return r.lambdaParamType(p, i)
				}
			}

		case *ast.AnonymousMethod:
			for _, prm := range p.Params {
				if prm.Name == name {
					return r.typeOfRef(prm.Type, r.typeParamsAt(p))
				}
			}

		case *ast.MethodDecl:
			for _, prm := range p.Params {
				if prm.Name == name {
					return r.typeOfRef(prm.Type, r.methodTypeParams(p))
				}
			}

		case *ast.PropertyDecl:
			for _, prm := range p.Params {
				if prm.Name == name {
					return r.typeOfRef(prm.Type, nil)
				}
			}

			if name == "value" {
				return r.typeOfRef(p.Type, nil)
			}

		case *ast.Block:
			var found *ast.LocalDecl

			for _, s := range p.Stmts {
				if s == child {
					break
				}

				if d, ok := s.(*ast.LocalDecl); ok && d.Name == name {
					found = d
				}
			}

			if found != nil {
				if found.Type != nil {
					return r.typeOfRef(found.Type, r.typeParamsAt(found))
				}

				if found.Value != nil {
					return r.TypeOf(found.Value)
				}

				return objectType
			}

		case *ast.ForEach:
			if child == p.Body && p.Name == name {
				if p.Type != nil {
					return r.typeOfRef(p.Type, r.typeParamsAt(p))
				}

				return r.elementType(r.TypeOf(p.X))
			}

		case *ast.Conditional:
			if child == p.Then {
				if t := r.designated(p.Cond, name); t != nil {
					return t
				}
			}

		case *ast.If:
			if child == p.Then {
				if t := r.designated(p.Cond, name); t != nil {
					return t
				}
			}
		}
	}

	return nil
}

// designated returns the type of a pattern variable name declared by cond.
func (r *Info) designated(cond ast.Expr, name string) *sema.Type {
	for n := range ast.Preorder(cond) {
		if is, ok := n.(*ast.IsPattern); ok {
			if dp, ok := is.Pattern.(*ast.DeclarationPattern); ok && dp.Name == name {
				return r.typeOfRef(dp.Type, r.typeParamsAt(is))
			}
		}
	}

	return nil
}
