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

// Package run drives the guardfix pipeline over analyzed snapshots.
package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/trace"
	"slices"

	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/internal/apply"
	"fillmore-labs.com/guardfix/internal/astutil"
	"fillmore-labs.com/guardfix/internal/config"
	"fillmore-labs.com/guardfix/internal/eligibility"
	"fillmore-labs.com/guardfix/internal/match"
	"fillmore-labs.com/guardfix/internal/report"
	"fillmore-labs.com/guardfix/internal/rewrite"
	"fillmore-labs.com/guardfix/source"
)

// ErrNoCall is returned when a diagnostic does not denote a call in the snapshot.
var ErrNoCall = errors.New("no call at diagnostic position")

// Pass is the analysis of a single snapshot.
type Pass struct {
	opts  *Options
	snap  *source.Snapshot
	file  astutil.CurrentFile
	known match.KnownSymbols
}

// NewPass prepares the analysis of snap.
func (o *Options) NewPass(snap *source.Snapshot) *Pass {
	return &Pass{
		opts:  o,
		snap:  snap,
		file:  astutil.NewCurrentFile(snap),
		known: match.NewKnownSymbols(snap.Info, o.Helper),
	}
}

// Diagnose reports all helper calls in the snapshot, in preorder.
func (o *Options) Diagnose(ctx context.Context, snap *source.Snapshot) ([]report.Diagnostic, error) {
	return o.NewPass(snap).Diagnose(ctx)
}

// Fixes computes the fixes for a diagnostic previously reported on snap.
func (o *Options) Fixes(ctx context.Context, snap *source.Snapshot, d report.Diagnostic) ([]report.Fix, error) {
	return o.NewPass(snap).Fixes(ctx, d)
}

// Diagnose reports all helper calls in the snapshot, in preorder.
func (p *Pass) Diagnose(ctx context.Context) ([]report.Diagnostic, error) {
	ctx, task := trace.NewTask(ctx, "GuardFix")
	defer task.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trace.Log(ctx, "path", p.snap.Path)

	logger := p.opts.Log()

	if !p.file.Valid() {
		astutil.InternalError(ctx, logger, p.snap.Position(p.snap.File.Pos()), "File %s without valid info", p.snap.Path)

		return nil, nil
	}

	// Skip generated files
	if p.file.Generated() && !p.opts.Behavior.Enabled(config.IncludeGenerated) {
		return nil, nil
	}

	if p.known.Empty() {
		return nil, nil
	}

	defer trace.StartRegion(ctx, "Diagnose").End()

	var diagnostics []report.Diagnostic

	for n := range ast.Preorder(p.snap.File) {
		site, ok := p.match(ctx, n)
		if !ok {
			continue
		}

		// Skip calls with nolint comment
		if p.file.NoLintComment(site.Call.Pos()) {
			continue
		}

		diagnostics = append(diagnostics, report.New(p.snap, site.Call, p.opts.Severity))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(diagnostics, report.Compare)

	return diagnostics, nil
}

// match recognizes a helper call, logging host failures.
func (p *Pass) match(ctx context.Context, n ast.Node) (*match.CallSite, bool) {
	site, err := match.Match(p.known, p.snap.Info, n)
	if err != nil {
		var skip *match.SkipError
		if errors.As(err, &skip) {
			p.opts.Log().LogAttrs(ctx, slog.LevelDebug, "skip",
				slog.String("pos", p.snap.Position(skip.Node.Pos()).String()),
				slog.Any("err", skip.Err))
		}

		return nil, false
	}

	return site, site != nil
}

// Fixes computes the fixes for a diagnostic.
func (p *Pass) Fixes(ctx context.Context, d report.Diagnostic) ([]report.Fix, error) {
	ctx, task := trace.NewTask(ctx, "GuardFixFixes")
	defer task.End()

	call := p.find(d)
	if call == nil {
		return nil, fmt.Errorf("%s: %w", d.Position, ErrNoCall)
	}

	c, err := p.Candidate(ctx, call)
	if err != nil || !c.Eligible {
		return nil, err
	}

	opts := apply.Options{}
	if p.opts.Behavior.Enabled(config.RemoveImport) {
		opts.RemoveImport, opts.HelperMethod = p.opts.Helper.Namespace(), p.opts.Helper.Method
	}

	snap := p.snap

	return []report.Fix{{
		Title:          c.Idiom.Title(),
		EquivalenceKey: c.Idiom.Key(),
		Apply: func(ctx context.Context) (source.Unit, error) {
			if err := ctx.Err(); err != nil {
				return source.Unit{}, err
			}

			defer trace.StartRegion(ctx, "Apply").End()

			return apply.Apply(snap, c, opts)
		},
	}}, nil
}

// find returns the call a diagnostic was reported for.
func (p *Pass) find(d report.Diagnostic) *ast.Call {
	if d.Path != p.snap.Path {
		return nil
	}

	for n := range ast.Preorder(p.snap.File) {
		if c, ok := n.(*ast.Call); ok && c.Pos() == d.Pos && c.End() == d.End {
			return c
		}
	}

	return nil
}

// Candidate runs match, eligibility and synthesis for call, checking for
// cancellation between the phases. Ineligible calls return a declined
// candidate and no error.
func (p *Pass) Candidate(ctx context.Context, call *ast.Call) (rewrite.Candidate, error) {
	logger := p.opts.Log()

	r := trace.StartRegion(ctx, "Match")
	site, ok := p.match(ctx, call)
	r.End()

	if !ok {
		return rewrite.Candidate{}, nil
	}

	if err := ctx.Err(); err != nil {
		return rewrite.Candidate{}, err
	}

	path := ast.PathTo(p.snap.File, call)
	if path == nil {
		astutil.InternalError(ctx, logger, p.snap.Position(call.Pos()), "Call not found in file %s", p.snap.Path)

		return rewrite.Candidate{}, nil
	}

	r = trace.StartRegion(ctx, "Eligibility")
	plan, reason := eligibility.Decide(site, eligibility.Context{Path: path, Idioms: p.opts.Idioms})
	r.End()

	if !reason.Rewritable() {
		logger.LogAttrs(ctx, slog.LevelDebug, "declined",
			slog.String("pos", p.snap.Position(call.Pos()).String()),
			slog.Any("reason", reason))

		return rewrite.Declined(reason), nil
	}

	if err := ctx.Err(); err != nil {
		return rewrite.Candidate{}, err
	}

	r = trace.StartRegion(ctx, "Synthesize")
	c, err := rewrite.Synthesize(plan)
	r.End()

	if err != nil {
		astutil.InternalError(ctx, logger, p.snap.Position(call.Pos()), "Can't synthesize %v: %v", plan.Idiom, err)

		return rewrite.Candidate{}, nil
	}

	if err := ctx.Err(); err != nil {
		return rewrite.Candidate{}, err
	}

	return c, nil
}
