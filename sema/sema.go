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

// Package sema declares the resolved-symbol view the host provides on top of
// an [ast.File].
//
// Symbols are identity-comparable pointers. Two symbols denote the same
// declaration exactly when their declarations are the same pointer.
package sema

import (
	"errors"

	"fillmore-labs.com/guardfix/ast"
)

// ErrUnresolved is returned by a [Resolver] for nodes that have no symbol,
// either because they are not references or because binding failed.
var ErrUnresolved = errors.New("unresolved")

// Resolver maps syntax nodes to symbols.
type Resolver interface {
	// Resolve returns the symbol a call or name refers to. Implementations
	// return an error wrapping [ErrUnresolved] when there is none; any other
	// error indicates a host failure.
	Resolve(n ast.Node) (Symbol, error)
}

// Program answers whole-program symbol queries.
type Program interface {
	// Members returns all methods called name declared in the container type
	// with the given fully qualified metadata name.
	Members(container, name string) []*Method
}

// Info combines per-node and per-program queries.
type Info interface {
	Resolver
	Program
}

// Symbol is a resolved declaration.
type Symbol interface {
	// Declaration returns the declaring method, the symbol itself for a declaration.
	Declaration() *Method
	symbol()
}

// Method is a method declaration.
type Method struct {
	Container  string // fully qualified metadata name of the declaring type
	Name       string
	TypeParams []*Type // all of kind [TypeParam]
	Params     []*Type
	Result     *Type // [Void] for methods without result
	Extension  bool  // first parameter has the `this` modifier
}

// Declaration returns m.
func (m *Method) Declaration() *Method { return m }

// Instance is a method with substituted type arguments, as seen at a call site.
type Instance struct {
	Origin   *Method
	TypeArgs []*Type
	Reduced  bool // invoked in extension form, the receiver is not an argument
}

// Declaration returns the generic declaration of i.
func (i *Instance) Declaration() *Method { return i.Origin }

// TypeArg returns the type argument for the type parameter at index, or nil.
func (i *Instance) TypeArg(index int) *Type {
	if index < 0 || index >= len(i.TypeArgs) {
		return nil
	}

	return i.TypeArgs[index]
}

func (*Method) symbol()   {}
func (*Instance) symbol() {}
