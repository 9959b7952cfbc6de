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

package report

import (
	"cmp"
	"context"
	"fmt"
	"go/token"

	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/source"
)

// Rule metadata of the guarded transform diagnostic.
const (
	RuleID  = "FL0010"
	Title   = "IfNotNull deprecation"
	Message = "Prefer modern language features over IfNotNull usage."
)

// Diagnostic is a reported helper call.
type Diagnostic struct {
	RuleID   string
	Message  string
	Severity Severity
	Path     string
	Pos, End token.Pos      // span of the call in the analyzed snapshot
	Position token.Position // start of the call
}

// New creates a diagnostic for call in snap.
func New(snap *source.Snapshot, call ast.Node, severity Severity) Diagnostic {
	return Diagnostic{
		RuleID:   RuleID,
		Message:  Message,
		Severity: severity,
		Path:     snap.Path,
		Pos:      call.Pos(),
		End:      call.End(),
		Position: snap.Position(call.Pos()),
	}
}

// String formats the diagnostic like a compiler message.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s (%s)", d.Position, d.Severity, d.Message, d.RuleID)
}

// Compare orders diagnostics in preorder: by start position, enclosing
// spans before the spans they contain.
func Compare(a, b Diagnostic) int {
	if c := cmp.Compare(a.Path, b.Path); c != 0 {
		return c
	}

	if c := cmp.Compare(a.Pos, b.Pos); c != 0 {
		return c
	}

	return cmp.Compare(b.End, a.End)
}

// Fix is a computed rewrite for a diagnostic.
type Fix struct {
	// Title is the human-readable action name.
	Title string

	// EquivalenceKey groups fixes of the same kind for fix-all.
	EquivalenceKey string

	// Apply returns the rewritten unit. It never mutates its input.
	Apply func(ctx context.Context) (source.Unit, error)
}
