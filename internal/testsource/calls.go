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

type callResult struct {
	symbol sema.Symbol // nil for delegate invocations and unknown methods
	result *sema.Type
}

type candidate struct {
	decl *ast.MethodDecl
	td   *typeDecl
}

// operand is an argument of a call; the receiver of a reduced extension call
// has no expression.
type operand struct {
	expr ast.Expr
	typ  *sema.Type
}

// callees returns the methods a call may invoke. For reduced extension
// method calls, recv is the type of the receiver.
func (r *Info) callees(c *ast.Call) (cands []candidate, recv *sema.Type, reduced bool) {
	var (
		name     string
		recvType *sema.Type
	)

	switch f := c.Fun.(type) {
	case *ast.Ident:
		if r.local(f) != nil {
			return nil, nil, false
		}

		td := r.enclosingType(c)
		if td == nil {
			return nil, nil, false
		}

		return r.methodsOf(td, f.Name, nil), nil, false

	case *ast.MemberAccess:
		if t, ok := r.typeName(f.X); ok {
			td := r.types[t.Name]
			if td == nil {
				return nil, nil, false
			}

			static := true

			return r.methodsOf(td, f.Name, &static), nil, false
		}

		name, recvType = f.Name, r.TypeOf(f.X)

	case *ast.MemberBinding:
		name, recvType = f.Name, r.bindingReceiver(f)

	default:
		return nil, nil, false
	}

	if recvType != nil {
		if td := r.types[recvType.Name]; td != nil && recvType.Kind != sema.Anonymous {
			static := false
			if cands := r.methodsOf(td, name, &static); len(cands) > 0 {
				return cands, nil, false
			}
		}
	}

	for _, td := range r.types {
		for _, m := range td.decl.Members {
			md, ok := m.(*ast.MethodDecl)
			if !ok || md.Name != name || len(md.Params) == 0 || !ast.HasModifier(md.Params[0].Modifiers, "this") {
				continue
			}

			cands = append(cands, candidate{md, td})
		}
	}

	return cands, recvType, true
}

// methodsOf returns the methods called name declared in td. When static is
// non-nil only static or only instance methods are returned.
func (r *Info) methodsOf(td *typeDecl, name string, static *bool) []candidate {
	var cands []candidate

	for _, m := range td.decl.Members {
		md, ok := m.(*ast.MethodDecl)
		if !ok || md.Name != name || md.Result == nil {
			continue
		}

		if static != nil && ast.HasModifier(md.Modifiers, "static") != *static {
			continue
		}

		cands = append(cands, candidate{md, td})
	}

	return cands
}

func (r *Info) resolveCall(c *ast.Call) callResult {
	if res, ok := r.specialCall(c); ok {
		return res
	}

	cands, recv, reduced := r.callees(c)

	ops := make([]operand, 0, len(c.Args)+1)
	if reduced {
		ops = append(ops, operand{typ: recv})
	}

	for _, a := range c.Args {
		ops = append(ops, operand{expr: a})
	}

	var (
		best      callResult
		bestScore = -1
	)

	for _, cand := range cands {
		m := r.method(cand.decl, cand.td)
		if len(m.Params) != len(ops) {
			continue
		}

		if len(m.TypeParams) == 0 {
			if bestScore < 1 {
				best, bestScore = callResult{symbol: m, result: m.Result}, 1
			}

			continue
		}

		bind, score, ok := r.infer(m, ops)
		if !ok || score <= bestScore {
			continue
		}

		targs := make([]*sema.Type, 0, len(m.TypeParams))
		for _, tp := range m.TypeParams {
			targs = append(targs, bind[tp])
		}

		inst := &sema.Instance{Origin: m, TypeArgs: targs, Reduced: reduced}
		best, bestScore = callResult{symbol: inst, result: substitute(m.Result, bind)}, score
	}

	if best.result == nil {
		best.result = objectType
	}

	return best
}

// specialCall handles delegate invocations and well-known library methods.
func (r *Info) specialCall(c *ast.Call) (callResult, bool) {
	switch f := c.Fun.(type) {
	case *ast.Ident:
		if t := r.local(f); t != nil {
			return callResult{result: delegateResult(t)}, true
		}

	case *ast.MemberAccess:
		if t, ok := r.typeName(f.X); ok && t.Name == "Task" && f.Name == "FromResult" && len(c.Args) == 1 {
			return callResult{result: &sema.Type{Kind: sema.Class, Name: "Task", Args: []*sema.Type{r.TypeOf(c.Args[0])}}}, true
		}

		if f.Name == "Invoke" {
			if t := r.TypeOf(f.X); t != nil && t.Kind == sema.Delegate {
				return callResult{result: delegateResult(t)}, true
			}
		}

	case *ast.MemberBinding:
		if f.Name == "Invoke" {
			if t := r.bindingReceiver(f); t != nil && t.Kind == sema.Delegate {
				return callResult{result: delegateResult(t)}, true
			}
		}

	default:
		if t := r.TypeOf(c.Fun); t != nil && t.Kind == sema.Delegate {
			return callResult{result: delegateResult(t)}, true
		}
	}

	return callResult{}, false
}

func delegateResult(t *sema.Type) *sema.Type {
	if t.Kind != sema.Delegate || t.Name != "Func" || len(t.Args) == 0 {
		return voidType
	}

	return t.Args[len(t.Args)-1]
}

// infer infers the type arguments of a generic method call. Type parameters
// are bound from plain arguments first, then from delegate arguments. The
// score ranks candidates: delegates whose result matches the lambda body
// score higher.
func (r *Info) infer(m *sema.Method, ops []operand) (map[*sema.Type]*sema.Type, int, bool) {
	bind, ok := r.inferPlain(m, ops)
	if !ok {
		return nil, 0, false
	}

	score := 0

	for i, pt := range m.Params {
		if pt.Kind != sema.Delegate {
			continue
		}

		s, ok := r.inferDelegate(pt, ops[i].expr, bind)
		if !ok {
			return nil, 0, false
		}

		score += s
	}

	for _, tp := range m.TypeParams {
		if bind[tp] == nil {
			return nil, 0, false
		}
	}

	return bind, score, true
}

// inferPlain binds type parameters from arguments that are not delegates.
func (r *Info) inferPlain(m *sema.Method, ops []operand) (map[*sema.Type]*sema.Type, bool) {
	bind := make(map[*sema.Type]*sema.Type, len(m.TypeParams))

	for i, pt := range m.Params {
		op := ops[i]

		switch {
		case pt.Kind == sema.TypeParam:
			if isFunction(op.expr) || op.expr != nil && r.isMethodGroup(op.expr) {
				return nil, false
			}

			at := r.operandType(op)
			if at == nil || at == nullType {
				continue
			}

			if pt.RefConstraint && !at.IsReferenceType() {
				return nil, false
			}

			if !r.unify(bind, pt, at) {
				return nil, false
			}

		case pt.Kind == sema.Nullable && pt.Elem.Kind == sema.TypeParam:
			at := r.operandType(op)
			if at == nil || !at.IsNullableValue() {
				return nil, false
			}

			if !r.unify(bind, pt.Elem, at.Elem) {
				return nil, false
			}
		}
	}

	return bind, true
}

func (r *Info) operandType(op operand) *sema.Type {
	if op.expr == nil {
		return op.typ
	}

	return r.TypeOf(op.expr)
}

func isFunction(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Lambda, *ast.AnonymousMethod:
		return true

	default:
		return false
	}
}

// inferDelegate checks a delegate argument against a Func or Action
// parameter and binds the result type parameter.
func (r *Info) inferDelegate(pt *sema.Type, arg ast.Expr, bind map[*sema.Type]*sema.Type) (int, bool) {
	if arg == nil {
		return 0, false
	}

	inputs, output := len(pt.Args), (*sema.Type)(nil)
	if pt.Name == "Func" {
		inputs, output = len(pt.Args)-1, pt.Args[len(pt.Args)-1]
	}

	var result *sema.Type // nil for throw expressions, which convert to anything

	switch a := arg.(type) {
	case *ast.Lambda:
		if len(a.Params) != inputs {
			return 0, false
		}

		result = r.lambdaResult(a.Async, a.Body)

	case *ast.AnonymousMethod:
		if a.Params != nil && len(a.Params) != inputs {
			return 0, false
		}

		result = r.lambdaResult(a.Async, a.Body)

	default:
		if mg, ok := r.methodGroup(arg, inputs); ok {
			result = mg
			break
		}

		at := r.TypeOf(arg)
		if at == nil || at.Kind != sema.Delegate || at.Name != pt.Name || len(at.Args) != len(pt.Args) {
			return 0, false
		}

		result = delegateResult(at)
	}

	if output == nil { // Action
		if result != nil && result.Kind != sema.Void {
			return 0, true
		}

		return 2, true
	}

	if result == nil {
		return 1, true
	}

	if result.Kind == sema.Void {
		return 0, false
	}

	if !r.unify(bind, output, result) {
		return 0, false
	}

	return 2, true
}

// lambdaResult returns the result type of a lambda body, or nil when the
// body is a throw expression.
func (r *Info) lambdaResult(async bool, body ast.Node) *sema.Type {
	var result *sema.Type

	switch b := body.(type) {
	case ast.Expr:
		if result = r.TypeOf(b); result == nullType {
			result = nil
		}

	case *ast.Block:
		result = voidType

		ast.Inspect(b, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.Lambda, *ast.AnonymousMethod:
				return false

			case *ast.Return:
				if n.X != nil && result == voidType {
					result = r.TypeOf(n.X)
				}
			}

			return true
		})
	}

	if !async {
		return result
	}

	if result == nil || result.Kind == sema.Void {
		return &sema.Type{Kind: sema.Class, Name: "Task"}
	}

	return &sema.Type{Kind: sema.Class, Name: "Task", Args: []*sema.Type{result}}
}

// methodGroup returns the result type of the method e refers to when e is
// a method group with the given number of parameters.
func (r *Info) methodGroup(e ast.Expr, params int) (*sema.Type, bool) {
	var cands []candidate

	switch e := e.(type) {
	case *ast.Ident:
		if r.local(e) != nil {
			return nil, false
		}

		if td := r.enclosingType(e); td != nil {
			cands = r.methodsOf(td, e.Name, nil)
		}

	case *ast.MemberAccess:
		if t, ok := r.typeName(e.X); ok {
			if td := r.types[t.Name]; td != nil {
				static := true
				cands = r.methodsOf(td, e.Name, &static)
			}

			break
		}

		if t := r.TypeOf(e.X); t != nil {
			if td := r.types[t.Name]; td != nil {
				static := false
				cands = r.methodsOf(td, e.Name, &static)
			}
		}
	}

	for _, c := range cands {
		m := r.method(c.decl, c.td)
		if len(m.Params) == params && len(m.TypeParams) == 0 {
			return m.Result, true
		}
	}

	return nil, false
}

func (r *Info) isMethodGroup(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.MemberAccess:
	default:
		return false
	}

	for n := range 4 {
		if _, ok := r.methodGroup(e, n); ok {
			return true
		}
	}

	return false
}

// lambdaParamType returns the type of the parameter at index of l. Implicitly
// typed parameters take their type from the delegate parameter of the call
// the lambda is passed to.
func (r *Info) lambdaParamType(l *ast.Lambda, index int) *sema.Type {
	if t := l.Params[index].Type; t != nil {
		return r.typeOfRef(t, r.typeParamsAt(l))
	}

	c, ok := r.parents[l].(*ast.Call)
	if !ok {
		return objectType
	}

	ai := -1

	for i, a := range c.Args {
		if a == ast.Expr(l) {
			ai = i
			break
		}
	}

	if ai < 0 {
		return objectType
	}

	cands, recv, reduced := r.callees(c)

	ops := make([]operand, 0, len(c.Args)+1)
	if reduced {
		ops = append(ops, operand{typ: recv})
	}

	for _, a := range c.Args {
		ops = append(ops, operand{expr: a})
	}

	pi := ai
	if reduced {
		pi++
	}

	for _, cand := range cands {
		m := r.method(cand.decl, cand.td)
		if len(m.Params) != len(ops) {
			continue
		}

		pt := m.Params[pi]
		if pt.Kind != sema.Delegate || index >= len(pt.Args) {
			continue
		}

		bind, ok := r.inferPlain(m, ops)
		if !ok {
			continue
		}

		if t := substitute(pt.Args[index], bind); t != nil && t.Kind != sema.TypeParam {
			return t
		}
	}

	return objectType
}

// unify binds the type parameter p to t, or checks t against an existing binding.
func (r *Info) unify(bind map[*sema.Type]*sema.Type, p, t *sema.Type) bool {
	if p.Kind != sema.TypeParam {
		return true
	}

	b, ok := bind[p]
	if !ok {
		bind[p] = t
		return true
	}

	switch {
	case r.sameType(b, t), t == nullType && b.CanBeNull():
		return true

	case b.IsNullableValue() && r.sameType(b.Elem, t):
		return true

	case t.IsNullableValue() && r.sameType(b, t.Elem):
		// `T` and `T?` infer `T?`.
		bind[p] = t
		return true

	default:
		return false
	}
}

// sameType reports whether a and b denote the same type. Anonymous types
// with equal member names and types are the same.
func (r *Info) sameType(a, b *sema.Type) bool {
	if a == b {
		return true
	}

	if a.Kind != sema.Anonymous || b.Kind != sema.Anonymous {
		return a.Kind != sema.Anonymous && b.Kind != sema.Anonymous && a.String() == b.String()
	}

	r.mu.Lock()
	am, bm := r.anon[a], r.anon[b]
	r.mu.Unlock()

	if len(am) != len(bm) {
		return false
	}

	for name, at := range am {
		bt, ok := bm[name]
		if !ok || at == nil || bt == nil || !r.sameType(at, bt) {
			return false
		}
	}

	return true
}

// substitute replaces bound type parameters in t.
func substitute(t *sema.Type, bind map[*sema.Type]*sema.Type) *sema.Type {
	if t == nil {
		return nil
	}

	switch t.Kind {
	case sema.TypeParam:
		if b, ok := bind[t]; ok {
			return b
		}

		return t

	case sema.Nullable:
		elem := substitute(t.Elem, bind)
		if elem.Kind == sema.Class || elem.Kind == sema.Anonymous || elem.Kind == sema.Delegate {
			return elem
		}

		return sema.NullableOf(elem)

	case sema.Array:
		return &sema.Type{Kind: sema.Array, Elem: substitute(t.Elem, bind)}
	}

	if len(t.Args) == 0 {
		return t
	}

	c := *t
	c.Args = make([]*sema.Type, len(t.Args))

	for i, a := range t.Args {
		c.Args[i] = substitute(a, bind)
	}

	return &c
}
