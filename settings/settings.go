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

package settings

import guardfix "fillmore-labs.com/guardfix/analyzer"

// Settings represents the configuration options for an instance of the guardfix analyzer.
type Settings struct {
	// OptionalChain enables rewrites to the conditional access operator.
	OptionalChain *bool `json:"optional-chain,omitzero" toml:"optional-chain"`
	// TypeTest enables rewrites to type-test conditionals.
	TypeTest *bool `json:"type-test,omitzero" toml:"type-test"`
	// IfElse enables rewrites of void calls to if statements.
	IfElse *bool `json:"if-else,omitzero" toml:"if-else"`
	// Generated enables diagnostics in generated files.
	Generated *bool `json:"generated,omitzero" toml:"generated"`
	// RemoveImport removes the helper import once no helper call remains.
	RemoveImport *bool `json:"remove-import,omitzero" toml:"remove-import"`
	// Severity sets the severity of reported diagnostics.
	Severity *guardfix.Severity `json:"severity,omitzero" toml:"severity"`
	// Parallelism limits the number of files fixed concurrently.
	Parallelism *int `json:"parallelism,omitzero" toml:"parallelism"`
	// Helper identifies the helper method family.
	Helper *Helper `json:"helper,omitzero" toml:"helper"`
}

// Helper identifies the helper method family.
type Helper struct {
	// Type is the fully qualified name of the declaring type.
	Type string `json:"type" toml:"type"`
	// Method is the name of the helper method.
	Method string `json:"method" toml:"method"`
}

// Options converts [Settings] into a list of [guardfix.Option] for the guardfix analyzer.
// It processes settings and applies them only when explicitly set (non-nil).
func (s Settings) Options() []guardfix.Option {
	var opts []guardfix.Option

	opts = appendOption(opts, s.OptionalChain, guardfix.WithOptionalChain)
	opts = appendOption(opts, s.TypeTest, guardfix.WithTypeTest)
	opts = appendOption(opts, s.IfElse, guardfix.WithIfElse)
	opts = appendOption(opts, s.Generated, guardfix.WithGenerated)
	opts = appendOption(opts, s.RemoveImport, guardfix.WithRemoveImport)
	opts = appendOption(opts, s.Severity, guardfix.WithSeverity)
	opts = appendOption(opts, s.Parallelism, guardfix.WithParallelism)
	opts = appendOption(opts, s.Helper, Helper.option)

	return opts
}

func (h Helper) option() guardfix.Option {
	return guardfix.WithHelper(h.Type, h.Method)
}

// appendOption appends a non-nil setting to a [guardfix.Option] list.
func appendOption[T any](opts []guardfix.Option, value *T, constructor func(T) guardfix.Option) []guardfix.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}
