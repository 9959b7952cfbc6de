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

// Package source holds the host contract: analyzed source units and the host
// that produces them.
package source

import (
	"context"
	"fmt"
	"go/token"

	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/sema"
)

// Unit is one source file. Units are immutable; an edit produces a new Unit.
type Unit struct {
	Path    string
	Project string // project the file belongs to, used to scope fix-all
	Text    []byte
	File    *ast.File
}

// Snapshot is an analyzed [Unit].
type Snapshot struct {
	Unit
	Fset *token.FileSet
	Info sema.Info
}

// Host parses and analyzes source text.
type Host interface {
	// Analyze returns the analyzed unit for the given path and text. The
	// project of the resulting unit is the host's choice.
	Analyze(ctx context.Context, path string, text []byte) (*Snapshot, error)
}

// Offset returns the byte offset of pos in the snapshot text.
func (s *Snapshot) Offset(pos token.Pos) (int, error) {
	if !pos.IsValid() {
		return 0, fmt.Errorf("invalid position in %s", s.Path)
	}

	f := s.Fset.File(pos)
	if f == nil {
		return 0, fmt.Errorf("position %d not in file set of %s", pos, s.Path)
	}

	off := f.Offset(pos)
	if off > len(s.Text) {
		return 0, fmt.Errorf("offset %d beyond end of %s", off, s.Path)
	}

	return off, nil
}

// Range returns the byte offsets of n in the snapshot text.
func (s *Snapshot) Range(n ast.Node) (start, end int, err error) {
	if start, err = s.Offset(n.Pos()); err != nil {
		return 0, 0, err
	}

	if end, err = s.Offset(n.End()); err != nil {
		return 0, 0, err
	}

	return start, end, nil
}

// Position returns the file position of pos.
func (s *Snapshot) Position(pos token.Pos) token.Position {
	return s.Fset.PositionFor(pos, false)
}
