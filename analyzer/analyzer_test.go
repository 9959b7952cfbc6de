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

package analyzer_test

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"

	. "fillmore-labs.com/guardfix/analyzer"
	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/internal/eligibility"
	"fillmore-labs.com/guardfix/internal/testsource"
	"fillmore-labs.com/guardfix/source"
)

const testPath = "Test0.cs"

// golden is a test case from a txtar archive.
type golden struct {
	name     string
	receiver string
	input    string
	want     string // empty when no fix is expected
	columns  []int
	reason   string
}

var reasons = map[string]eligibility.Reason{
	"async-transform": eligibility.AsyncTransform,
	"block-transform": eligibility.BlockTransform,
	"unnamed-output":  eligibility.UnnamedOutput,
	"unnamed-input":   eligibility.UnnamedInput,
	"idiom-disabled":  eligibility.IdiomDisabled,
}

func loadGolden(tb testing.TB, file string) []golden {
	tb.Helper()

	ar, err := txtar.ParseFile(file)
	if err != nil {
		tb.Fatalf("Can't read archive: %v", err)
	}

	var cases []golden

	for _, f := range ar.Files {
		name, kind := path.Split(f.Name)
		name = strings.TrimSuffix(name, "/")

		if len(cases) == 0 || cases[len(cases)-1].name != name {
			cases = append(cases, golden{name: name, columns: []int{17}})
		}

		c := &cases[len(cases)-1]
		data := strings.TrimSuffix(string(f.Data), "\n")

		switch kind {
		case "receiver":
			c.receiver = data

		case "input.cs":
			c.input = data

		case "want.cs":
			c.want = data

		case "reason":
			c.reason = data

		case "columns":
			c.columns = nil

			for field := range strings.FieldsSeq(data) {
				col, err := strconv.Atoi(field)
				if err != nil {
					tb.Fatalf("Invalid column in %s: %v", f.Name, err)
				}

				c.columns = append(c.columns, col)
			}

		default:
			tb.Fatalf("Unknown file %s in %s", f.Name, file)
		}
	}

	return cases
}

// callLine is the line of the statement in [testsource.Program].
var callLine = strings.Count(testsource.Preamble, "\n") + 9

func TestGolden(t *testing.T) {
	t.Parallel()

	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil || len(files) == 0 {
		t.Fatalf("No test archives: %v", err)
	}

	for _, file := range files {
		group := strings.TrimSuffix(filepath.Base(file), ".txtar")

		for _, tc := range loadGolden(t, file) {
			t.Run(group+"/"+tc.name, func(t *testing.T) {
				t.Parallel()

				ctx := t.Context()

				rec := &recorder{}
				a := New(WithRemoveImport(true), WithLogger(slog.New(rec)))

				snap := testsource.Parse(t, testPath, testsource.Program(tc.receiver, tc.input))

				diagnostics, err := a.Diagnose(ctx, snap)
				if err != nil {
					t.Fatalf("Diagnose failed: %v", err)
				}

				var columns []int
				for _, d := range diagnostics {
					if d.Position.Line != callLine {
						t.Errorf("Got diagnostic on line %d, want %d", d.Position.Line, callLine)
					}

					columns = append(columns, d.Position.Column)
				}

				if !slices.Equal(columns, tc.columns) {
					t.Fatalf("Got diagnostics at columns %v, want %v", columns, tc.columns)
				}

				if tc.want == "" {
					fixes, err := a.Fixes(ctx, snap, diagnostics[0])
					if err != nil {
						t.Fatalf("Fixes failed: %v", err)
					}

					if len(fixes) != 0 {
						t.Errorf("Got %d fixes, want none", len(fixes))
					}

					if want, ok := reasons[tc.reason]; ok {
						if got, ok := rec.reason(); !ok || got != want {
							t.Errorf("Got declined reason %d, want %d", got, want)
						}
					}

					return
				}

				res, err := a.FixAll(ctx, testsource.Host{}, []source.Unit{snap.Unit}, Document, testPath, "")
				if err != nil {
					t.Fatalf("FixAll failed: %v", err)
				}

				if err := res.Err(); err != nil {
					t.Fatalf("FixAll failed for file: %v", err)
				}

				got := string(res.Updated()[testPath].Text)
				want := testsource.WithoutHelperImport(testsource.Program(tc.receiver, tc.want))

				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("FixAll() mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestDiagnostic(t *testing.T) {
	t.Parallel()

	a := New(WithSeverity(Warning))

	snap := testsource.Parse(t, testPath, testsource.Program("new ReferenceThing()", "var result = possiblyNull.IfNotNull(x => x.CalculateValue());"))

	diagnostics, err := a.Diagnose(t.Context(), snap)
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}

	if len(diagnostics) != 1 {
		t.Fatalf("Got %d diagnostics, want 1", len(diagnostics))
	}

	d := diagnostics[0]

	if d.RuleID != RuleID || d.Message != Message || d.Severity != Warning {
		t.Errorf("Got diagnostic %s, want %s %q with severity warning", d, RuleID, Message)
	}

	if got, want := d.String(), "Test0.cs:"+strconv.Itoa(callLine)+":17: warning: "+Message+" (FL0010)"; got != want {
		t.Errorf("Got %q, want %q", got, want)
	}

	fixes, err := a.Fixes(t.Context(), snap, d)
	if err != nil {
		t.Fatalf("Fixes failed: %v", err)
	}

	if len(fixes) != 1 {
		t.Fatalf("Got %d fixes, want 1", len(fixes))
	}

	if got, want := fixes[0].Title, "Use conditional access operator"; got != want {
		t.Errorf("Got title %q, want %q", got, want)
	}

	if got, want := fixes[0].EquivalenceKey, "guardfix:optional-chain"; got != want {
		t.Errorf("Got equivalence key %q, want %q", got, want)
	}

	u, err := fixes[0].Apply(t.Context())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// The helper import stays unless removal is enabled.
	want := testsource.Program("new ReferenceThing()", "var result = possiblyNull?.CalculateValue();")
	if diff := cmp.Diff(want, string(u.Text)); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}

	if got := string(snap.Text); got == string(u.Text) {
		t.Error("Apply modified the snapshot text")
	}

	// Applying the fix leaves nothing to report.
	after := testsource.Parse(t, testPath, string(u.Text))

	remaining, err := a.Diagnose(t.Context(), after)
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}

	if len(remaining) != 0 {
		t.Errorf("Got %d diagnostics after fix, want none", len(remaining))
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	const (
		receiver = "new ReferenceThing()"
		call     = "var result = possiblyNull.IfNotNull(x => x.CalculateValue());"
	)

	tests := []struct {
		name    string
		options Option
		path    string
		stmt    string
		want    string // empty for no fix
		silent  bool   // no diagnostic
	}{
		{
			name: "Default",
			stmt: call,
			want: "var result = possiblyNull?.CalculateValue();",
		},
		{
			name:    "NoOptionalChain",
			options: WithOptionalChain(false),
			stmt:    call,
			want:    "var result = possiblyNull is ReferenceThing x ? x.CalculateValue() : default(ReferenceThing);",
		},
		{
			name:    "NoIdioms",
			options: Options{WithOptionalChain(false), WithTypeTest(false), WithIfElse(false)},
			stmt:    call,
		},
		{
			name:    "NoIfElse",
			options: WithIfElse(false),
			stmt:    "possiblyNull.IfNotNull(x => x.Method(), () => throw new InvalidOperationException());",
		},
		{
			name:   "Generated",
			path:   "Test0.g.cs",
			stmt:   call,
			silent: true,
		},
		{
			name:    "IncludeGenerated",
			options: WithGenerated(true),
			path:    "Test0.g.cs",
			stmt:    call,
			want:    "var result = possiblyNull?.CalculateValue();",
		},
		{
			name:   "NoLint",
			stmt:   call + " //nolint:guardfix",
			silent: true,
		},
		{
			name:    "OtherHelper",
			options: WithHelper("Acme.Guard", "IfNotNull"),
			stmt:    call,
			silent:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := tt.path
			if p == "" {
				p = testPath
			}

			a := New(tt.options)
			snap := testsource.Parse(t, p, testsource.Program(receiver, tt.stmt))

			diagnostics, err := a.Diagnose(t.Context(), snap)
			if err != nil {
				t.Fatalf("Diagnose failed: %v", err)
			}

			if tt.silent {
				if len(diagnostics) != 0 {
					t.Errorf("Got %d diagnostics, want none", len(diagnostics))
				}

				return
			}

			if len(diagnostics) != 1 {
				t.Fatalf("Got %d diagnostics, want 1", len(diagnostics))
			}

			fixes, err := a.Fixes(t.Context(), snap, diagnostics[0])
			if err != nil {
				t.Fatalf("Fixes failed: %v", err)
			}

			if tt.want == "" {
				if len(fixes) != 0 {
					t.Errorf("Got %d fixes, want none", len(fixes))
				}

				return
			}

			if len(fixes) != 1 {
				t.Fatalf("Got %d fixes, want 1", len(fixes))
			}

			u, err := fixes[0].Apply(t.Context())
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}

			if diff := cmp.Diff(testsource.Program(receiver, tt.want), string(u.Text)); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSkipFragileHost(t *testing.T) {
	t.Parallel()

	errFragile := errors.New("fragile")

	rec := &recorder{}
	a := New(WithLogger(slog.New(rec)))

	host := testsource.Host{Fail: func(n ast.Node) error {
		if _, ok := n.(*ast.Call); ok {
			return errFragile
		}

		return nil
	}}

	src := testsource.Program("new ReferenceThing()", "var result = possiblyNull.IfNotNull(x => x.CalculateValue());")

	snap, err := host.Analyze(t.Context(), testPath, []byte(src))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	diagnostics, err := a.Diagnose(t.Context(), snap)
	if err != nil {
		t.Fatalf("Diagnose failed: %v", err)
	}

	if len(diagnostics) != 0 {
		t.Errorf("Got %d diagnostics, want none", len(diagnostics))
	}

	if !rec.has("skip") {
		t.Error("Skipped call not logged")
	}
}

func TestFixAllScope(t *testing.T) {
	t.Parallel()

	const stmt = "var result = possiblyNull.IfNotNull(x => x.CalculateValue());"

	src := []byte(testsource.Program("new ReferenceThing()", stmt))
	clean := []byte(testsource.Program("new ReferenceThing()", "var result = possiblyNull;"))

	units := []source.Unit{
		{Path: "a/One.cs", Project: "a", Text: src},
		{Path: "a/Two.cs", Project: "a", Text: src},
		{Path: "a/Clean.cs", Project: "a", Text: clean},
		{Path: "b/Three.cs", Project: "b", Text: src},
	}

	tests := []struct {
		name  string
		scope Scope
		want  []string
	}{
		{"Document", Document, []string{"a/One.cs"}},
		{"Project", Project, []string{"a/One.cs", "a/Two.cs"}},
		{"Solution", Solution, []string{"a/One.cs", "a/Two.cs", "b/Three.cs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := New(WithParallelism(2))

			res, err := a.FixAll(t.Context(), testsource.Host{}, units, tt.scope, "a/One.cs", "")
			if err != nil {
				t.Fatalf("FixAll failed: %v", err)
			}

			var got []string
			for _, f := range res.Files {
				got = append(got, f.Path)

				if f.Applied != 1 || f.Remaining != 0 || f.Err != nil {
					t.Errorf("Got %s: applied %d, remaining %d, err %v", f.Path, f.Applied, f.Remaining, f.Err)
				}
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FixAll() files mismatch (-want +got):\n%s", diff)
			}

			if len(res.Updated()) != len(tt.want) {
				t.Errorf("Got %d updated files, want %d", len(res.Updated()), len(tt.want))
			}
		})
	}
}

func TestFixAllEquivalenceKey(t *testing.T) {
	t.Parallel()

	const stmt = "var result = possiblyNull.IfNotNull(x => x.CalculateValue(x)) ?? possiblyNull.IfNotNull(x => x.CalculateValue());"

	snap := testsource.Parse(t, testPath, testsource.Program("new ReferenceThing()", stmt))

	a := New()

	res, err := a.FixAll(t.Context(), testsource.Host{}, []source.Unit{snap.Unit}, Document, testPath, "guardfix:optional-chain")
	if err != nil {
		t.Fatalf("FixAll failed: %v", err)
	}

	if len(res.Files) != 1 {
		t.Fatalf("Got %d files, want 1", len(res.Files))
	}

	f := res.Files[0]
	if f.Applied != 1 || f.Remaining != 1 {
		t.Errorf("Got applied %d, remaining %d, want 1, 1", f.Applied, f.Remaining)
	}

	want := testsource.Program("new ReferenceThing()", "var result = possiblyNull.IfNotNull(x => x.CalculateValue(x)) ?? possiblyNull?.CalculateValue();")
	if diff := cmp.Diff(want, string(f.Unit.Text)); diff != "" {
		t.Errorf("FixAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestFixAllCanceled(t *testing.T) {
	t.Parallel()

	snap := testsource.Parse(t, testPath, testsource.Program("new ReferenceThing()", "var result = possiblyNull.IfNotNull(x => x.CalculateValue());"))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := New().FixAll(ctx, testsource.Host{}, []source.Unit{snap.Unit}, Solution, testPath, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("Got error %v, want %v", err, context.Canceled)
	}

	if _, err := New().Diagnose(ctx, snap); !errors.Is(err, context.Canceled) {
		t.Errorf("Got error %v, want %v", err, context.Canceled)
	}
}

func TestOptionsLogValue(t *testing.T) {
	t.Parallel()

	opts := Options{WithSeverity(Hidden), nil, Options{WithParallelism(3), WithHelper("Acme.Guard", "Check")}}

	got := opts.LogValue().String()

	for _, want := range []string{"severity=hidden", "nil=<nil>", "parallelism=3", "container=Acme.Guard", "method=Check"} {
		if !strings.Contains(got, want) {
			t.Errorf("Got %q, want it to contain %q", got, want)
		}
	}
}

// recorder is a [slog.Handler] keeping all records.
type recorder struct {
	mu      sync.Mutex
	records []slog.Record
}

func (r *recorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *recorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, rec.Clone())

	return nil
}

func (r *recorder) WithAttrs([]slog.Attr) slog.Handler { return r }

func (r *recorder) WithGroup(string) slog.Handler { return r }

func (r *recorder) has(msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.ContainsFunc(r.records, func(rec slog.Record) bool { return rec.Message == msg })
}

// reason returns the reason of the first declined fix.
func (r *recorder) reason() (eligibility.Reason, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.Message != "declined" {
			continue
		}

		var (
			reason eligibility.Reason
			found  bool
		)

		rec.Attrs(func(a slog.Attr) bool {
			if a.Key == "reason" {
				reason, found = a.Value.Any().(eligibility.Reason)
			}

			return !found
		})

		return reason, found
	}

	return 0, false
}
