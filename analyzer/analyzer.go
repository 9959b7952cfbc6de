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

package analyzer

import (
	"context"
	"flag"

	"fillmore-labs.com/guardfix/internal/fixall"
	"fillmore-labs.com/guardfix/internal/report"
	"fillmore-labs.com/guardfix/internal/run"
	"fillmore-labs.com/guardfix/source"
)

// Public API constants for the guardfix analyzer.
const (
	Name = "guardfix"
	Doc  = `guardfix replaces IfNotNull helper calls with conditional access and pattern matching`
	URL  = "https://pkg.go.dev/fillmore-labs.com/guardfix"
)

// Rule metadata of the reported diagnostics.
const (
	RuleID  = report.RuleID
	Title   = report.Title
	Message = report.Message
)

type (
	// Diagnostic is a reported helper call.
	Diagnostic = report.Diagnostic

	// Fix is a computed rewrite for a [Diagnostic].
	Fix = report.Fix

	// Severity is the severity of reported diagnostics.
	Severity = report.Severity

	// Scope selects the files covered by [Analyzer.FixAll].
	Scope = fixall.Scope

	// Result is the outcome of [Analyzer.FixAll].
	Result = fixall.Result

	// FileResult is the outcome of [Analyzer.FixAll] for one file.
	FileResult = fixall.FileResult
)

// Diagnostic severities.
const (
	Info    = report.Info
	Hidden  = report.Hidden
	Warning = report.Warning
	Error   = report.Error
)

// Fix-all scopes.
const (
	Document = fixall.Document
	Project  = fixall.Project
	Solution = fixall.Solution
)

// ErrNoProgress is recorded for a file when a fix did not reduce its diagnostics.
var ErrNoProgress = fixall.ErrNoProgress

// Analyzer detects helper calls and computes their fixes. It is safe for
// concurrent use once configured.
type Analyzer struct {
	opts *run.Options
}

// New creates a new instance of the guardfix analyzer.
// It allows for programmatic configuration using [Option].
func New(opts ...Option) *Analyzer {
	r := run.DefaultOptions()
	Options(opts).apply(r)

	return &Analyzer{opts: r}
}

// Diagnose reports all helper calls in the snapshot in source order, enclosing
// calls before the calls nested in them.
func (a *Analyzer) Diagnose(ctx context.Context, snap *source.Snapshot) ([]Diagnostic, error) {
	return a.opts.Diagnose(ctx, snap)
}

// Fixes computes the fixes for a diagnostic reported on snap. A diagnostic
// that cannot be rewritten safely has no fixes.
func (a *Analyzer) Fixes(ctx context.Context, snap *source.Snapshot, d Diagnostic) ([]Fix, error) {
	return a.opts.Fixes(ctx, snap, d)
}

// FixAll applies fixes to the units in scope until no diagnostics remain.
// path names the file the run was triggered in, equivalenceKey restricts the
// fixes to one [Fix.EquivalenceKey] unless empty.
func (a *Analyzer) FixAll(ctx context.Context, host source.Host, units []source.Unit, scope Scope, path, equivalenceKey string) (Result, error) {
	f := fixall.Fixer{Options: a.opts, Host: host, EquivalenceKey: equivalenceKey}

	return f.Fix(ctx, units, scope, path)
}

// RegisterFlags binds the analyzer configuration to command line flag values.
// A nil flag set value defaults to the program's command line.
func (a *Analyzer) RegisterFlags(flags *flag.FlagSet) {
	registerFlags(a.opts, flags)
}
