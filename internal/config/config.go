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

package config

import "strings"

// IdiomFlags represents the target idioms a rewrite may produce.
type IdiomFlags uint8

const (
	// OptionalChain enables `x?.P` and `x?.P ?? d` rewrites.
	OptionalChain IdiomFlags = 1 << iota

	// TypeTest enables `x is T v ? body : d` rewrites.
	TypeTest

	// IfElse enables rewriting void calls into `if (x is T v) { ... }` statements.
	IfElse
)

// Idioms is the set of enabled target idioms.
type Idioms = BitMask[IdiomFlags]

// DefaultIdioms enables all idioms.
func DefaultIdioms() Idioms {
	return NewBitMask(OptionalChain, TypeTest, IfElse)
}

// BehaviorFlags represents behavioral options.
type BehaviorFlags uint8

const (
	// IncludeGenerated specifies whether to include analysis of generated files.
	IncludeGenerated BehaviorFlags = 1 << iota

	// RemoveImport removes the helper namespace import once no helper call remains.
	RemoveImport
)

// Behavior is the set of enabled behavioral options.
type Behavior = BitMask[BehaviorFlags]

// DefaultBehavior returns the default behavioral options.
func DefaultBehavior() Behavior {
	return NewBitMask[BehaviorFlags]()
}

// Helper identifies the guarded transform helper method family.
type Helper struct {
	// Container is the fully qualified metadata name of the declaring type.
	Container string

	// Method is the name of the helper method.
	Method string
}

// DefaultHelper is the `IfNotNull` extension method family.
var DefaultHelper = Helper{
	Container: "Libronix.Utility.IfNotNull.IfNotNullExtensionMethod",
	Method:    "IfNotNull",
}

// Namespace returns the namespace the helper is declared in.
func (h Helper) Namespace() string {
	i := strings.LastIndexByte(h.Container, '.')
	if i < 0 {
		return ""
	}

	return h.Container[:i]
}

// Valid reports whether both container and method are set.
func (h Helper) Valid() bool {
	return h.Container != "" && h.Method != ""
}
