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

package testsource

import (
	"fmt"
	"go/token"
	"strings"
)

type tokKind uint8

const (
	tEOF tokKind = iota
	tIdent
	tInt
	tReal
	tString
	tChar
	tPunct
)

type tok struct {
	kind tokKind
	text string
	off  int // byte offset of the first character
	end  int // byte offset after the last character
}

// punctuation, longest first.
var puncts = []string{
	"??", "=>", "==", "!=", "<=", ">=", "&&", "||", "++", "--",
	"(", ")", "{", "}", "[", "]", "<", ">", ",", ";", ".", "?", ":",
	"=", "!", "~", "+", "-", "*", "/", "%", "&", "|", "^",
}

// lex splits text into tokens, skipping white space and comments.
func lex(file *token.File, text string) ([]tok, error) {
	var toks []tok

	errorf := func(off int, format string, args ...any) error {
		return fmt.Errorf("%s: %s", file.Position(file.Pos(off)), fmt.Sprintf(format, args...))
	}

	i := 0
	for i < len(text) {
		c := text[i]

		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++

		case strings.HasPrefix(text[i:], "//"):
			for i < len(text) && text[i] != '\n' {
				i++
			}

		case strings.HasPrefix(text[i:], "/*"):
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				return nil, errorf(i, "unterminated comment")
			}

			i += end + 4

		case c == '_' || c == '@' && i+1 < len(text) && isLetter(text[i+1]) || isLetter(c):
			start := i
			if c == '@' {
				i++
			}

			for i < len(text) && (isLetter(text[i]) || isDigit(text[i]) || text[i] == '_') {
				i++
			}

			toks = append(toks, tok{kind: tIdent, text: text[start:i], off: start, end: i})

		case isDigit(c):
			start, kind := i, tInt
			for i < len(text) && (isDigit(text[i]) || text[i] == '_') {
				i++
			}

			if i+1 < len(text) && text[i] == '.' && isDigit(text[i+1]) {
				kind = tReal
				i++

				for i < len(text) && isDigit(text[i]) {
					i++
				}
			}

			for i < len(text) && strings.IndexByte("lLuUmMdDfF", text[i]) >= 0 {
				if strings.IndexByte("mMdDfF", text[i]) >= 0 {
					kind = tReal
				}
				i++
			}

			toks = append(toks, tok{kind: kind, text: text[start:i], off: start, end: i})

		case c == '"' || c == '@' && i+1 < len(text) && text[i+1] == '"':
			start, verbatim := i, c == '@'
			if verbatim {
				i++
			}

			i++

			for {
				if i >= len(text) {
					return nil, errorf(start, "unterminated string")
				}

				if text[i] == '\\' && !verbatim {
					i += 2
					continue
				}

				if text[i] == '"' {
					if verbatim && i+1 < len(text) && text[i+1] == '"' {
						i += 2
						continue
					}

					i++

					break
				}

				i++
			}

			toks = append(toks, tok{kind: tString, text: text[start:i], off: start, end: i})

		case c == '\'':
			start := i
			i++

			for i < len(text) && text[i] != '\'' {
				if text[i] == '\\' {
					i++
				}
				i++
			}

			if i >= len(text) {
				return nil, errorf(start, "unterminated character literal")
			}

			i++
			toks = append(toks, tok{kind: tChar, text: text[start:i], off: start, end: i})

		default:
			matched := false

			for _, p := range puncts {
				if strings.HasPrefix(text[i:], p) {
					toks = append(toks, tok{kind: tPunct, text: p, off: i, end: i + len(p)})
					i += len(p)
					matched = true

					break
				}
			}

			if !matched {
				return nil, errorf(i, "unexpected character %q", c)
			}
		}
	}

	toks = append(toks, tok{kind: tEOF, off: len(text), end: len(text)})

	return toks, nil
}

func isLetter(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_' }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
