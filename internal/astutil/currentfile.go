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
	"bytes"
	"go/token"
	"regexp"
	"strings"

	"fillmore-labs.com/guardfix/source"
)

// guardfix is the name of the analyzer in suppression comments.
const guardfix = "guardfix"

// CurrentFile holds file information for analysis.
type CurrentFile struct {
	snap      *source.Snapshot
	handle    *token.File
	generated bool
}

// NewCurrentFile creates a new [CurrentFile] from an analyzed snapshot.
func NewCurrentFile(snap *source.Snapshot) CurrentFile {
	if snap == nil || snap.File == nil {
		return CurrentFile{}
	}

	handle := snap.Fset.File(snap.File.Pos())
	if handle == nil {
		return CurrentFile{}
	}

	generated := IsGenerated(snap.Path, snap.Text)

	return CurrentFile{snap, handle, generated}
}

// Valid returns true if the [CurrentFile] was successfully created
// from a valid file handle.
func (c CurrentFile) Valid() bool {
	return c.handle != nil
}

// Generated returns true if the file is a generated file.
func (c CurrentFile) Generated() bool {
	return c.generated
}

var generatedSuffixes = [...]string{".g.cs", ".g.i.cs", ".generated.cs", ".designer.cs"}

// IsGenerated reports whether a file is generated code, judged by its name
// or an `<auto-generated` marker in the leading comments.
func IsGenerated(path string, text []byte) bool {
	lower := strings.ToLower(path)
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}

	for line := range bytes.Lines(text) {
		line = bytes.TrimSpace(line)
		switch {
		case len(line) == 0:
			continue

		case bytes.HasPrefix(line, []byte("//")) || bytes.HasPrefix(line, []byte("/*")) || bytes.HasPrefix(line, []byte("*")):
			if bytes.Contains(line, []byte("<auto-generated")) {
				return true
			}

		default:
			return false
		}
	}

	return false
}

// Line returns the line of pos.
func (c CurrentFile) Line(pos token.Pos) int {
	return c.handle.PositionFor(pos, false).Line
}

// NoLintComment checks if the line of pos ends with a //nolint:guardfix comment.
func (c CurrentFile) NoLintComment(pos token.Pos) bool {
	if c.snap == nil || !pos.IsValid() {
		return false
	}

	start := c.handle.LineStart(c.Line(pos))
	off := c.handle.Offset(start)

	text := c.snap.Text[off:]
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}

	i := bytes.Index(text, []byte("//"))
	if i < 0 {
		return false
	}

	return CommentHasNoLint(string(text[i:]))
}

var nolintPattern = regexp.MustCompile(`^//\s*nolint:([a-zA-Z0-9,_-]+)`)

// CommentHasNoLint checks if the provided comment contains a `//nolint:guardfix` directive.
func CommentHasNoLint(comment string) bool {
	matches := nolintPattern.FindStringSubmatch(strings.TrimSpace(comment))
	if matches == nil {
		return false
	}

	// Parse comma-separated linter list
	for linter := range strings.SplitSeq(matches[1], ",") {
		if l := strings.ToLower(strings.TrimSpace(linter)); l == guardfix || l == "all" {
			return true
		}
	}

	return false
}
