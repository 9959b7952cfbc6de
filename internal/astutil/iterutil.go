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

package astutil

import (
	"iter"

	"fillmore-labs.com/guardfix/ast"
)

// DeclaredName returns the identifier a node declares, if any: parameters,
// type parameters, locals, fields, foreach variables, pattern designations
// and query range variables.
func DeclaredName(n ast.Node) (string, bool) {
	var name string

	switch n := n.(type) {
	case *ast.Param:
		name = n.Name

	case *ast.TypeParam:
		name = n.Name

	case *ast.LocalDecl:
		name = n.Name

	case *ast.FieldDecl:
		name = n.Name

	case *ast.ForEach:
		name = n.Name

	case *ast.DeclarationPattern:
		name = n.Name

	case *ast.FromClause:
		name = n.Name

	case *ast.LetClause:
		name = n.Name

	case *ast.IntoClause:
		name = n.Name
	}

	if name == "" || name == "_" {
		return "", false
	}

	return name, true
}

// AllDeclaredNames yields all names declared within root, skipping the
// subtree of exclude.
func AllDeclaredNames(root, exclude ast.Node) iter.Seq[string] {
	return func(yield func(string) bool) {
		done := false

		ast.Inspect(root, func(n ast.Node) bool {
			if done || exclude != nil && n == exclude {
				return false
			}

			if name, ok := DeclaredName(n); ok && !yield(name) {
				done = true
				return false
			}

			return true
		})
	}
}
