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

// Package match recognizes calls to the guarded transform helper.
package match

import (
	"errors"
	"fmt"

	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/sema"
)

// CallSite is a recognized helper call, scoped to one rewrite attempt.
type CallSite struct {
	Call     *ast.Call
	Overload Overload
	Instance *sema.Instance

	// Receiver is the guarded value: the first argument in static-call form,
	// the member access receiver in extension form. It is nil when the helper
	// is invoked through a member binding.
	Receiver ast.Expr

	// Transform is the function applied to a non-empty receiver.
	Transform ast.Expr

	// TransformRef reports whether Transform is a plain delegate reference
	// that must be wrapped into an invocation.
	TransformRef bool

	// Default is the default operand, nil when absent.
	Default     ast.Expr
	DefaultKind DefaultKind

	Input  *sema.Type // receiver type, unwrapped for nullable value receivers
	Output *sema.Type // transform result type, [sema.Void] for void overloads

	InputValueType      bool // receiver is a `Nullable<T>`
	OutputNullableValue bool // output is a `Nullable<T>`
}

// Void reports whether the call invokes a void overload.
func (c *CallSite) Void() bool {
	return c.Overload.Void
}

// SkipError is returned when the host failed to resolve a node. The node is
// skipped without affecting unrelated call sites.
type SkipError struct {
	Node ast.Node
	Err  error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipping %T: %v", e.Node, e.Err)
}

func (e *SkipError) Unwrap() error {
	return e.Err
}

// Match returns the call site when n is a call to a known helper overload.
// It returns (nil, nil) when the rule is inapplicable and a *[SkipError] when
// the host failed.
func Match(k KnownSymbols, r sema.Resolver, n ast.Node) (*CallSite, error) {
	call, ok := n.(*ast.Call)
	if !ok || k.Empty() || !k.mayCall(call) {
		return nil, nil
	}

	sym, err := r.Resolve(call)
	switch {
	case errors.Is(err, sema.ErrUnresolved):
		return nil, nil

	case err != nil:
		return nil, &SkipError{Node: call, Err: err}
	}

	overload, ok := k.Lookup(sym)
	if !ok {
		return nil, nil
	}

	inst, ok := sym.(*sema.Instance)
	if !ok || len(inst.TypeArgs) != len(overload.Method.TypeParams) {
		return nil, nil
	}

	site := &CallSite{Call: call, Overload: overload, Instance: inst}

	args := call.Args

	if inst.Reduced {
		switch fun := call.Fun.(type) {
		case *ast.MemberAccess:
			site.Receiver = fun.X

		case *ast.MemberBinding:
			// `a?.IfNotNull(...)`: the receiver is implicit.

		default:
			return nil, nil
		}
	} else {
		if len(args) == 0 {
			return nil, nil
		}

		site.Receiver, args = args[0], args[1:]
	}

	if len(args) != overload.Arity()-1 {
		return nil, nil
	}

	site.Transform = args[0]
	switch args[0].(type) {
	case *ast.Lambda, *ast.AnonymousMethod:

	default:
		site.TransformRef = true
	}

	if len(args) > 1 {
		site.Default, site.DefaultKind = args[1], overload.Default
	}

	site.Input = inst.TypeArgs[0]
	site.InputValueType = overload.NullableReceiver

	if overload.Void {
		site.Output = &sema.Type{Kind: sema.Void, Name: "void"}
	} else {
		site.Output = inst.TypeArgs[1]
		site.OutputNullableValue = site.Output.IsNullableValue()
	}

	if site.Input == nil || site.Output == nil {
		return nil, nil
	}

	return site, nil
}

// mayCall is a syntactic prefilter on the invoked name.
func (k KnownSymbols) mayCall(call *ast.Call) bool {
	var name string

	switch f := call.Fun.(type) {
	case *ast.Ident:
		name = f.Name

	case *ast.MemberAccess:
		name = f.Name

	case *ast.MemberBinding:
		name = f.Name

	default:
		return false
	}

	return name == k.helper.Method
}
