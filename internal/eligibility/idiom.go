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

package eligibility

// Idiom is the target form of a rewrite.
type Idiom uint8

const (
	// NoIdiom is the zero value of ineligible plans.
	NoIdiom Idiom = iota

	// OptionalChain is `x?.P`.
	OptionalChain

	// Coalesce is `x?.P ?? d`.
	Coalesce

	// TypeTestConditional is `x is T v ? body : d`.
	TypeTestConditional

	// IfElse is `if (x is T v) { body; } else { d; }`.
	IfElse
)

type idiomInfo struct {
	name, title, key string
}

var idioms = [...]idiomInfo{
	NoIdiom:             {"none", "", ""},
	OptionalChain:       {"optional-chain", "Use conditional access operator", "guardfix:optional-chain"},
	Coalesce:            {"coalesce", "Use conditional access operator", "guardfix:coalesce"},
	TypeTestConditional: {"type-test-conditional", "Use pattern matching", "guardfix:type-test-conditional"},
	IfElse:              {"if-else", "Use pattern matching", "guardfix:if-else"},
}

func (i Idiom) info() idiomInfo {
	if int(i) < len(idioms) {
		return idioms[i]
	}

	return idioms[NoIdiom]
}

func (i Idiom) String() string { return i.info().name }

// Title is the human-readable name of the fix.
func (i Idiom) Title() string { return i.info().title }

// Key is the equivalence key of fixes producing this idiom.
func (i Idiom) Key() string { return i.info().key }
