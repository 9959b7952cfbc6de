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

// Replace returns a copy of root where the node old is replaced by repl.
// Unchanged subtrees are shared with the original tree.
func Replace(root, old, repl Node) Node {
	var visit func(Node) Node
	visit = func(n Node) Node {
		if n == old {
			return repl
		}

		if !mayContain(n, old) {
			return n
		}

		return mapChildren(n, visit)
	}

	return visit(root)
}

// Rewrite applies f bottom-up to every node of the tree rooted at root and
// returns the resulting tree. f receives nodes whose children have already
// been rewritten and returns the node itself to keep it.
func Rewrite(root Node, f func(Node) Node) Node {
	var visit func(Node) Node
	visit = func(n Node) Node {
		return f(mapChildren(n, visit))
	}

	return visit(root)
}

// ReplaceIdent returns a copy of root where every reference to name is
// replaced by the result of repl.
func ReplaceIdent(root Node, name string, repl func(*Ident) Expr) Node {
	return Rewrite(root, func(n Node) Node {
		if id, ok := n.(*Ident); ok && id.Name == name {
			return repl(id)
		}

		return n
	})
}

// Rename returns a copy of root where every reference to from is replaced by
// a synthesized reference to to.
func Rename(root Node, from, to string) Node {
	return ReplaceIdent(root, from, func(*Ident) Expr { return &Ident{Name: to} })
}

// CountIdent counts the references to name in the tree rooted at root.
func CountIdent(root Node, name string) int {
	count := 0
	for n := range Preorder(root) {
		if id, ok := n.(*Ident); ok && id.Name == name {
			count++
		}
	}

	return count
}
