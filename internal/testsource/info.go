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
	"fmt"
	"strings"
	"sync"

	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/sema"
)

// Info resolves symbols and types for a single parsed file. It implements
// [sema.Info] from the declarations in the file alone.
type Info struct {
	file    *ast.File
	parents map[ast.Node]ast.Node
	types   map[string]*typeDecl // by simple name
	fail    func(ast.Node) error

	mu      sync.Mutex
	methods map[*ast.MethodDecl]*sema.Method
	exprs   map[ast.Expr]*sema.Type
	anon    map[*sema.Type]map[string]*sema.Type
}

var _ sema.Info = (*Info)(nil)

type typeDecl struct {
	decl *ast.TypeDecl
	full string
	typ  *sema.Type
}

// NewInfo builds the symbol tables for f.
func NewInfo(f *ast.File) *Info {
	r := &Info{
		file:    f,
		parents: make(map[ast.Node]ast.Node),
		types:   make(map[string]*typeDecl),
		methods: make(map[*ast.MethodDecl]*sema.Method),
		exprs:   make(map[ast.Expr]*sema.Type),
		anon:    make(map[*sema.Type]map[string]*sema.Type),
	}

	ast.InspectStack(f, func(n ast.Node, stack []ast.Node) bool {
		if len(stack) > 0 {
			r.parents[n] = stack[len(stack)-1]
		}

		return true
	})

	r.collect("", f.Members)

	return r
}

func (r *Info) collect(prefix string, members []ast.Member) {
	for _, m := range members {
		switch m := m.(type) {
		case *ast.Namespace:
			r.collect(qualify(prefix, m.Name), m.Members)

		case *ast.TypeDecl:
			kind := sema.Class
			if m.Kind == ast.StructDecl {
				kind = sema.Struct
			}

			full := qualify(prefix, m.Name)
			r.types[m.Name] = &typeDecl{decl: m, full: full, typ: &sema.Type{Kind: kind, Name: m.Name}}
			r.collect(full, m.Members)
		}
	}
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return prefix + "." + name
}

// Members implements [sema.Program].
func (r *Info) Members(container, name string) []*sema.Method {
	var result []*sema.Method

	for _, td := range r.types {
		if td.full != container {
			continue
		}

		for _, m := range td.decl.Members {
			if md, ok := m.(*ast.MethodDecl); ok && md.Name == name {
				result = append(result, r.method(md, td))
			}
		}
	}

	return result
}

// Resolve implements [sema.Resolver]. Calls resolve to the invoked method,
// with type arguments inferred from the arguments for generic methods.
func (r *Info) Resolve(n ast.Node) (sema.Symbol, error) {
	if r.fail != nil {
		if err := r.fail(n); err != nil {
			return nil, err
		}
	}

	c, ok := n.(*ast.Call)
	if !ok {
		return nil, fmt.Errorf("%T is not a call: %w", n, sema.ErrUnresolved)
	}

	res := r.resolveCall(c)
	if res.symbol == nil {
		return nil, fmt.Errorf("call to %s: %w", calleeName(c), sema.ErrUnresolved)
	}

	return res.symbol, nil
}

func calleeName(c *ast.Call) string {
	switch f := c.Fun.(type) {
	case *ast.Ident:
		return f.Name

	case *ast.MemberAccess:
		return f.Name

	case *ast.MemberBinding:
		return f.Name

	default:
		return fmt.Sprintf("%T", f)
	}
}

// method returns the memoized symbol of a method declaration.
func (r *Info) method(md *ast.MethodDecl, td *typeDecl) *sema.Method {
	r.mu.Lock()
	m, ok := r.methods[md]
	r.mu.Unlock()

	if ok {
		return m
	}

	tparams := make(map[string]*sema.Type, len(md.TypeParams))
	m = &sema.Method{Container: td.full, Name: md.Name}

	for _, tp := range md.TypeParams {
		t := &sema.Type{Kind: sema.TypeParam, Name: tp.Name}

		for _, c := range md.Constraints {
			if c.Param != tp.Name {
				continue
			}

			for _, b := range c.Bounds {
				if b.Name == "class" {
					t.RefConstraint = true
				}
			}
		}

		tparams[tp.Name] = t
		m.TypeParams = append(m.TypeParams, t)
	}

	for i, prm := range md.Params {
		m.Params = append(m.Params, r.typeOfRef(prm.Type, tparams))

		if i == 0 && ast.HasModifier(prm.Modifiers, "this") {
			m.Extension = true
		}
	}

	if md.Result == nil {
		m.Result = td.typ
	} else {
		m.Result = r.typeOfRef(md.Result, tparams)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.methods[md]; ok {
		return prev
	}

	r.methods[md] = m

	return m
}

// methodTypeParams returns the type parameters in scope of a method declaration.
func (r *Info) methodTypeParams(md *ast.MethodDecl) map[string]*sema.Type {
	td := r.enclosingType(md)
	if td == nil || len(md.TypeParams) == 0 {
		return nil
	}

	m := r.method(md, td)
	tparams := make(map[string]*sema.Type, len(m.TypeParams))

	for _, t := range m.TypeParams {
		tparams[t.Name] = t
	}

	return tparams
}

func (r *Info) enclosingType(n ast.Node) *typeDecl {
	for p := r.parents[n]; p != nil; p = r.parents[p] {
		if td, ok := p.(*ast.TypeDecl); ok {
			return r.types[td.Name]
		}
	}

	return nil
}

var (
	objectType = &sema.Type{Kind: sema.Class, Name: "object"}
	voidType   = &sema.Type{Kind: sema.Void, Name: "void"}
	boolType   = &sema.Type{Kind: sema.Struct, Name: "bool"}
	intType    = &sema.Type{Kind: sema.Struct, Name: "int"}
	stringType = &sema.Type{Kind: sema.Class, Name: "string"}
	nullType   = &sema.Type{Kind: sema.Class, Name: "null"}
)

var valueKeywords = map[string]bool{
	"int": true, "long": true, "short": true, "byte": true, "double": true, "float": true,
	"decimal": true, "bool": true, "char": true,
}

// builtin returns well-known types that are not declared in the file.
func builtin(name string, args []*sema.Type) *sema.Type {
	switch name {
	case "void":
		return voidType

	case "object", "Object":
		return objectType

	case "string", "String":
		return stringType

	case "Func", "Action":
		return &sema.Type{Kind: sema.Delegate, Name: name, Args: args}

	case "Nullable":
		if len(args) == 1 {
			return sema.NullableOf(args[0])
		}

	case "Task", "Exception", "InvalidOperationException", "NotImplementedException", "ArgumentException":
		return &sema.Type{Kind: sema.Class, Name: name, Args: args}
	}

	if valueKeywords[name] {
		return &sema.Type{Kind: sema.Struct, Name: name}
	}

	return nil
}

// typeOfRef resolves a type reference. tparams maps type parameter names in scope.
func (r *Info) typeOfRef(ref *ast.TypeRef, tparams map[string]*sema.Type) *sema.Type {
	if ref == nil {
		return objectType
	}

	name := ref.Name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	args := make([]*sema.Type, 0, len(ref.Args))
	for _, a := range ref.Args {
		args = append(args, r.typeOfRef(a, tparams))
	}

	var t *sema.Type

	switch tp, ok := tparams[name]; {
	case ok:
		t = tp

	case builtin(name, args) != nil:
		t = builtin(name, args)

	case r.types[name] != nil:
		t = r.types[name].typ

	default:
		t = &sema.Type{Kind: sema.Class, Name: name, Args: args}
	}

	if ref.Nullable && (t.Kind == sema.Struct || t.Kind == sema.TypeParam && !t.RefConstraint) {
		t = sema.NullableOf(t)
	}

	for range ref.Rank {
		t = &sema.Type{Kind: sema.Array, Elem: t}
	}

	return t
}

// knownType returns the type named by a simple name, if any.
func (r *Info) knownType(name string) (*sema.Type, bool) {
	if t := builtin(name, nil); t != nil {
		return t, true
	}

	if td := r.types[name]; td != nil {
		return td.typ, true
	}

	return nil, false
}
