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

/*
Package settings decodes host configuration for the [guardfix] analyzer.

# Usage

Add a file `.guardfix.toml` to your project:

	optional-chain = true
	type-test = true
	if-else = false
	remove-import = true
	severity = "warning"

	[helper]
	type = "Libronix.Utility.IfNotNull.IfNotNullExtensionMethod"
	method = "IfNotNull"

and create the analyzer from it:

	s, err := settings.Load(".guardfix.toml")
	if err != nil {
		return err
	}

	a := guardfix.New(guardfix.Options(s.Options()))

JSON files with the same keys are accepted when the file name ends in `.json`.
Only settings present in the file become options, everything else keeps the
analyzer defaults.

[guardfix]: https://pkg.go.dev/fillmore-labs.com/guardfix/analyzer
*/
package settings
