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

// Package hygiene mints identifiers that do not collide with existing declarations.
//
// The check is deliberately conservative: every parameter, type parameter,
// local, field, foreach variable, pattern designation and query range variable
// anywhere in the enclosing member counts as taken, regardless of scoping.
package hygiene

import (
	"strconv"
	"strings"

	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/internal/astutil"
)

const (
	// propertyValue is the implicit parameter of property setters.
	propertyValue = "value"

	// discard never binds in a pattern designation.
	discard = "_"
)

// Scope is the set of names starting with a prefix that are already declared
// in an enclosing member.
type Scope struct {
	prefix string
	taken  map[string]struct{}
}

// NewScope collects the names starting with prefix declared within
// enclosing. The declaration exclude, usually the one being hoisted, is
// ignored.
func NewScope(prefix string, enclosing, exclude ast.Node) Scope {
	s := Scope{prefix: prefix}

	for name := range astutil.AllDeclaredNames(enclosing, exclude) {
		if strings.HasPrefix(name, prefix) {
			s.add(name)
		}
	}

	if prefix == discard {
		s.add(discard)
	}

	if _, ok := enclosing.(*ast.PropertyDecl); ok && strings.HasPrefix(propertyValue, prefix) {
		s.add(propertyValue)
	}

	return s
}

func (s *Scope) add(name string) {
	if s.taken == nil {
		s.taken = make(map[string]struct{})
	}

	s.taken[name] = struct{}{}
}

// Contains reports whether name is taken.
func (s Scope) Contains(name string) bool {
	_, ok := s.taken[name]

	return ok
}

// Unique returns the prefix itself when it is free, otherwise the prefix with
// the smallest numeric suffix 1, 2, 3, ... that is free.
func (s Scope) Unique() string {
	if !s.Contains(s.prefix) {
		return s.prefix
	}

	for c := 1; ; c++ {
		if name := s.prefix + strconv.Itoa(c); !s.Contains(name) {
			return name
		}
	}
}

// Allocate returns a name based on desired that is not declared anywhere
// within enclosing, ignoring the declaration exclude.
func Allocate(desired string, enclosing, exclude ast.Node) string {
	return NewScope(desired, enclosing, exclude).Unique()
}

// Enclosing returns the innermost member declaration on a root-first path:
// a method, property, field, type or namespace.
func Enclosing(path []ast.Node) ast.Node {
	for i := len(path) - 1; i >= 0; i-- {
		switch n := path[i].(type) {
		case *ast.MethodDecl, *ast.PropertyDecl, *ast.FieldDecl, *ast.TypeDecl, *ast.Namespace:
			return n
		}
	}

	return nil
}
