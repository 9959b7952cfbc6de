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

// Package analyzer implements the guardfix rewrite engine.
//
// # Overview
//
// GuardFix detects calls to the C# IfNotNull helper family and replaces them
// with the conditional access operator or pattern matching, where the
// rewrite provably preserves the semantics of the call.
//
// # Example
//
// Before:
//
//	var name = person.IfNotNull(p => p.Name);
//	var length = text.IfNotNull(t => t.Length, 0);
//	var pair = person.IfNotNull(p => new { p.Name, p.Age }) ?? fallback;
//
// After applying guardfix's suggested fixes:
//
//	var name = person?.Name;
//	var length = text?.Length ?? 0;
//	var pair = person is Person p ? new { p.Name, p.Age } : fallback;
//
// # Hosts
//
// The engine does not parse C#. A host implements [source.Host], producing
// syntax trees and symbol information, and re-analyzes the text produced by
// a fix before further fixes are computed.
//
// Calls whose rewrite cannot be proven safe, like block-bodied or async
// lambdas, are still reported but have no fix.
package analyzer
