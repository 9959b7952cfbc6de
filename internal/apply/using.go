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

package apply

import (
	"slices"

	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/source"
)

// callsHelper reports whether file still contains a call to method.
func callsHelper(file *ast.File, method string) bool {
	for n := range ast.Preorder(file) {
		c, ok := n.(*ast.Call)
		if !ok {
			continue
		}

		switch f := c.Fun.(type) {
		case *ast.Ident:
			if f.Name == method {
				return true
			}

		case *ast.MemberAccess:
			if f.Name == method {
				return true
			}

		case *ast.MemberBinding:
			if f.Name == method {
				return true
			}
		}
	}

	return false
}

// removeUsing drops every `using namespace;` directive from file, returning
// the new tree and the text edits removing their lines.
func removeUsing(snap *source.Snapshot, file *ast.File, namespace string) (*ast.File, []edit, error) {
	var (
		edits []edit
		err   error
	)

	drop := func(usings []*ast.Using) []*ast.Using {
		if !slices.ContainsFunc(usings, func(u *ast.Using) bool { return u.Name == namespace }) {
			return usings
		}

		kept := make([]*ast.Using, 0, len(usings)-1)

		for _, u := range usings {
			if u.Name != namespace {
				kept = append(kept, u)
				continue
			}

			start, end, rerr := snap.Range(u)
			if rerr != nil {
				err = rerr
				kept = append(kept, u)

				continue
			}

			start, end = wholeLine(snap.Text, start, end)
			edits = append(edits, edit{start: start, end: end})
		}

		return kept
	}

	root := ast.Rewrite(file, func(n ast.Node) ast.Node {
		switch n := n.(type) {
		case *ast.File:
			if usings := drop(n.Usings); len(usings) != len(n.Usings) {
				c := *n
				c.Span, c.Usings = ast.Span{}, usings

				return &c
			}

		case *ast.Namespace:
			if usings := drop(n.Usings); len(usings) != len(n.Usings) {
				c := *n
				c.Span, c.Usings = ast.Span{}, usings

				return &c
			}
		}

		return n
	})

	if err != nil {
		return nil, nil, err
	}

	return root.(*ast.File), edits, nil
}

// wholeLine extends a range to the complete line when nothing else is on it.
func wholeLine(text []byte, start, end int) (int, int) {
	s := start
	for s > 0 && (text[s-1] == ' ' || text[s-1] == '\t') {
		s--
	}

	e := end
	for e < len(text) && (text[e] == ' ' || text[e] == '\t') {
		e++
	}

	if s > 0 && text[s-1] != '\n' {
		return start, end
	}

	switch {
	case e < len(text) && text[e] == '\n':
		return s, e + 1

	case e+1 < len(text) && text[e] == '\r' && text[e+1] == '\n':
		return s, e + 2

	case e == len(text):
		return s, e

	default:
		return start, end
	}
}
