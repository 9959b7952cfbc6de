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

// Package apply substitutes synthesized fragments into source units.
//
// The new tree shares all unchanged subtrees with the old one. The new text
// is the old text with the printed fragment spliced in, so everything outside
// the target keeps its formatting. Positions in the new tree still refer to
// the old snapshot; hosts re-analyze the new text to obtain fresh positions.
package apply

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"slices"

	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/internal/printer"
	"fillmore-labs.com/guardfix/internal/rewrite"
	"fillmore-labs.com/guardfix/source"
)

// ErrNoTarget is returned when the target of a candidate is not part of the snapshot.
var ErrNoTarget = errors.New("target not found")

// Options configure [Apply].
type Options struct {
	// RemoveImport is the namespace whose import is removed once no call to
	// HelperMethod remains. Empty disables removal.
	RemoveImport string
	HelperMethod string
}

// edit replaces the text between start and end.
type edit struct {
	start, end int
	text       []byte
}

// Apply substitutes the replacement of c for its target and returns the new unit.
// The snapshot is not modified.
func Apply(snap *source.Snapshot, c rewrite.Candidate, opts Options) (source.Unit, error) {
	if !c.Eligible || c.Replacement == nil {
		return source.Unit{}, fmt.Errorf("candidate is not eligible: %v", c.Reason)
	}

	path := ast.PathTo(snap.File, c.Target)
	if path == nil {
		return source.Unit{}, fmt.Errorf("%T at %s: %w", c.Target, snap.Position(c.Target.Pos()), ErrNoTarget)
	}

	start, end, err := snap.Range(c.Target)
	if err != nil {
		return source.Unit{}, err
	}

	repl := c.Replacement

	var parent ast.Node
	if len(path) > 1 {
		parent = path[len(path)-2]
	}

	if e, ok := repl.(ast.Expr); ok && printer.NeedsParens(parent, c.Target, e) {
		repl = &ast.Paren{X: e}
	}

	indent := LineIndent(snap.Text, start)
	cfg := printer.Config{Fset: snap.Fset, Text: snap.Text, Indent: IndentUnit(indent)}

	text, err := cfg.Sprint(repl, indent)
	if err != nil {
		return source.Unit{}, fmt.Errorf("can't render %T: %w", repl, err)
	}

	file, ok := ast.Replace(snap.File, c.Target, repl).(*ast.File)
	if !ok {
		return source.Unit{}, fmt.Errorf("replacing %T: %w", c.Target, ErrNoTarget)
	}

	edits := []edit{{start, end, []byte(text)}}

	if opts.RemoveImport != "" && !callsHelper(file, opts.HelperMethod) {
		var removed []edit

		file, removed, err = removeUsing(snap, file, opts.RemoveImport)
		if err != nil {
			return source.Unit{}, err
		}

		edits = append(edits, removed...)
	}

	return source.Unit{
		Path:    snap.Path,
		Project: snap.Project,
		Text:    splice(snap.Text, edits),
		File:    file,
	}, nil
}

// splice applies non-overlapping edits to text.
func splice(text []byte, edits []edit) []byte {
	slices.SortFunc(edits, func(a, b edit) int { return cmp.Compare(a.start, b.start) })

	var buf bytes.Buffer
	buf.Grow(len(text))

	pos := 0
	for _, e := range edits {
		buf.Write(text[pos:e.start]) // ignore error
		buf.Write(e.text)            // ignore error
		pos = e.end
	}

	buf.Write(text[pos:]) // ignore error

	return buf.Bytes()
}

// LineIndent returns the leading whitespace of the line containing offset.
func LineIndent(text []byte, offset int) string {
	lineStart := bytes.LastIndexByte(text[:offset], '\n') + 1

	i := lineStart
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}

	return string(text[lineStart:i])
}

// IndentUnit guesses the indentation unit from a line indentation: a tab
// unless the line is indented with spaces.
func IndentUnit(indent string) string {
	if indent == "" || indent[0] == '\t' {
		return "\t"
	}

	return "    "
}
