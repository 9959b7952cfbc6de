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

// Package fixall applies fixes repeatedly until no diagnostics remain,
// serially within a file and in parallel across files.
package fixall

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/trace"
	"slices"

	"golang.org/x/sync/errgroup"

	"fillmore-labs.com/guardfix/internal/report"
	"fillmore-labs.com/guardfix/internal/run"
	"fillmore-labs.com/guardfix/source"
)

//go:generate go tool stringer -type Scope -linecomment

// Scope selects the files a fix-all run covers.
type Scope uint8

const (
	// Document covers the file of the triggering diagnostic.
	Document Scope = iota // document
	// Project covers all files of the triggering file's project.
	Project // project
	// Solution covers all files.
	Solution // solution
)

// ErrNoProgress is recorded for a file when applying a fix did not reduce the
// number of diagnostics.
var ErrNoProgress = errors.New("fix did not reduce diagnostics")

// Engine reports diagnostics and computes their fixes. [*run.Options] is the
// default engine.
type Engine interface {
	Diagnose(ctx context.Context, snap *source.Snapshot) ([]report.Diagnostic, error)
	Fixes(ctx context.Context, snap *source.Snapshot, d report.Diagnostic) ([]report.Fix, error)
}

// Fixer runs fix-all over a set of units.
type Fixer struct {
	Options *run.Options
	Host    source.Host
	Engine  Engine // nil uses Options

	// EquivalenceKey restricts fixes to one family, "" applies all.
	EquivalenceKey string
}

// FileResult is the outcome for a single file.
type FileResult struct {
	Path      string
	Unit      source.Unit // final unit, valid when Applied > 0
	Applied   int
	Remaining int
	Err       error
}

// Result holds the outcome for every file in scope that had diagnostics, sorted by path.
type Result struct {
	Files []FileResult
}

// Updated returns the changed units keyed by path.
func (r Result) Updated() map[string]source.Unit {
	updated := make(map[string]source.Unit)

	for _, f := range r.Files {
		if f.Applied > 0 {
			updated[f.Path] = f.Unit
		}
	}

	return updated
}

// Err joins the per-file errors.
func (r Result) Err() error {
	var errs []error

	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
		}
	}

	return errors.Join(errs...)
}

// Select returns the units covered by scope for a run triggered in path.
func Select(units []source.Unit, scope Scope, path string) []source.Unit {
	var project string

	for _, u := range units {
		if u.Path == path {
			project = u.Project

			break
		}
	}

	var selected []source.Unit

	for _, u := range units {
		switch scope {
		case Document:
			if u.Path != path {
				continue
			}

		case Project:
			if u.Project != project {
				continue
			}

		case Solution:
		}

		selected = append(selected, u)
	}

	return selected
}

// Fix fixes all diagnostics in the units selected by scope and path. Only
// cancellation of ctx aborts the run, other failures are recorded per file.
func (f *Fixer) Fix(ctx context.Context, units []source.Unit, scope Scope, path string) (Result, error) {
	ctx, task := trace.NewTask(ctx, "GuardFixAll")
	defer task.End()

	selected := Select(units, scope, path)
	results := make([]FileResult, len(selected))

	g, ctx := errgroup.WithContext(ctx)
	if f.Options.Parallelism > 0 {
		g.SetLimit(f.Options.Parallelism)
	}

	for i, u := range selected {
		g.Go(func() error {
			results[i] = f.file(ctx, u)

			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	files := slices.DeleteFunc(results, func(r FileResult) bool {
		return r.Applied == 0 && r.Remaining == 0 && r.Err == nil
	})

	slices.SortFunc(files, func(a, b FileResult) int { return cmp.Compare(a.Path, b.Path) })

	return Result{Files: files}, nil
}

func (f *Fixer) engine() Engine {
	if f.Engine != nil {
		return f.Engine
	}

	return f.Options
}

// file runs the serial fix loop for one unit.
func (f *Fixer) file(ctx context.Context, u source.Unit) FileResult {
	defer trace.StartRegion(ctx, "FixFile").End()

	res := FileResult{Path: u.Path, Unit: u}

	snap, err := f.Host.Analyze(ctx, u.Path, u.Text)
	if err != nil {
		res.Err = err

		return res
	}

	diagnostics, err := f.engine().Diagnose(ctx, snap)

	for err == nil && len(diagnostics) > 0 {
		var (
			next  source.Unit
			fixed bool
		)

		next, fixed, err = f.first(ctx, snap, diagnostics)
		if err != nil || !fixed {
			break
		}

		res.Applied++
		res.Unit = next

		if snap, err = f.Host.Analyze(ctx, next.Path, next.Text); err != nil {
			break
		}

		before := len(diagnostics)

		if diagnostics, err = f.engine().Diagnose(ctx, snap); err == nil && len(diagnostics) >= before {
			err = ErrNoProgress
		}
	}

	res.Remaining, res.Err = len(diagnostics), err

	f.Options.Log().LogAttrs(ctx, slog.LevelDebug, "fix all",
		slog.String("path", res.Path),
		slog.Int("applied", res.Applied),
		slog.Int("remaining", res.Remaining))

	return res
}

// first applies the first computable fix in source order. A diagnostic whose
// fix fails is logged and skipped, the errors are returned only when no
// diagnostic yields a fix.
func (f *Fixer) first(ctx context.Context, snap *source.Snapshot, diagnostics []report.Diagnostic) (source.Unit, bool, error) {
	var errs []error

	for _, d := range diagnostics {
		u, ok, err := f.apply(ctx, snap, d)
		if err == nil {
			if ok {
				return u, true, nil
			}

			continue
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return source.Unit{}, false, ctxErr
		}

		f.Options.Log().LogAttrs(ctx, slog.LevelWarn, "fix failed, skipping diagnostic",
			slog.String("path", snap.Path),
			slog.String("position", d.Position.String()),
			slog.Any("error", err))

		errs = append(errs, err)
	}

	return source.Unit{}, false, errors.Join(errs...)
}

// apply applies the first fix of d matching the equivalence key.
func (f *Fixer) apply(ctx context.Context, snap *source.Snapshot, d report.Diagnostic) (source.Unit, bool, error) {
	fixes, err := f.engine().Fixes(ctx, snap, d)
	if err != nil {
		return source.Unit{}, false, err
	}

	for _, fix := range fixes {
		if f.EquivalenceKey != "" && fix.EquivalenceKey != f.EquivalenceKey {
			continue
		}

		u, err := fix.Apply(ctx)
		if err != nil {
			return source.Unit{}, false, err
		}

		return u, true, nil
	}

	return source.Unit{}, false, nil
}
