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

package apply_test

import (
	"errors"
	"testing"

	"fillmore-labs.com/guardfix/ast"
	. "fillmore-labs.com/guardfix/internal/apply"
	"fillmore-labs.com/guardfix/internal/config"
	"fillmore-labs.com/guardfix/internal/eligibility"
	"fillmore-labs.com/guardfix/internal/match"
	"fillmore-labs.com/guardfix/internal/rewrite"
	"fillmore-labs.com/guardfix/internal/testsource"
	"fillmore-labs.com/guardfix/source"
)

const refThing = "new ReferenceThing()"

var removeImport = Options{
	RemoveImport: config.DefaultHelper.Namespace(),
	HelperMethod: config.DefaultHelper.Method,
}

// candidate synthesizes the rewrite of the first helper call in src.
func candidate(tb testing.TB, src string) (*source.Snapshot, rewrite.Candidate) {
	tb.Helper()

	snap := testsource.Parse(tb, "test.cs", src)
	k := match.NewKnownSymbols(snap.Info, config.DefaultHelper)

	for n := range ast.Preorder(snap.File) {
		site, err := match.Match(k, snap.Info, n)
		if err != nil {
			tb.Fatalf("Match failed: %v", err)
		}

		if site == nil {
			continue
		}

		plan, reason := eligibility.Decide(site, eligibility.Context{
			Path:   ast.PathTo(snap.File, site.Call),
			Idioms: config.DefaultIdioms(),
		})
		if !reason.Rewritable() {
			tb.Fatalf("Got reason %d, want eligible", reason)
		}

		c, err := rewrite.Synthesize(plan)
		if err != nil {
			tb.Fatalf("Synthesize failed: %v", err)
		}

		return snap, c
	}

	tb.Fatal("No call site matched")

	return nil, rewrite.Candidate{}
}

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		stmt string
		opts Options
		want string
	}{
		{
			name: "Keep",
			stmt: "var result = possiblyNull.IfNotNull(x => x.RecursiveProperty);",
			want: testsource.Program(refThing, "var result = possiblyNull?.RecursiveProperty;"),
		},
		{
			name: "RemoveImport",
			stmt: "var result = possiblyNull.IfNotNull(x => x.ValueTypeProperty);",
			opts: removeImport,
			want: testsource.WithoutHelperImport(testsource.Program(refThing, "var result = possiblyNull?.ValueTypeProperty ?? default(int);")),
		},
		{
			name: "HelperRemains",
			stmt: "var a = possiblyNull.IfNotNull(x => x.RecursiveProperty); var b = possiblyNull.IfNotNull(x => x.NullableProperty);",
			opts: removeImport,
			want: testsource.Program(refThing, "var a = possiblyNull?.RecursiveProperty; var b = possiblyNull.IfNotNull(x => x.NullableProperty);"),
		},
		{
			name: "Parenthesize",
			stmt: "var result = possiblyNull.IfNotNull(x => x.ValueTypeProperty).ToString();",
			want: testsource.Program(refThing, "var result = (possiblyNull?.ValueTypeProperty ?? default(int)).ToString();"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snap, c := candidate(t, testsource.Program(refThing, tt.stmt))
			orig := string(snap.Text)

			u, err := Apply(snap, c, tt.opts)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}

			if got := string(u.Text); got != tt.want {
				t.Errorf("Got\n%s\nwant\n%s", got, tt.want)
			}

			if u.Path != snap.Path || u.File == nil || u.File == snap.File {
				t.Errorf("Got unit %q with tree %p, want a new tree for %q", u.Path, u.File, snap.Path)
			}

			if string(snap.Text) != orig {
				t.Error("Snapshot text modified")
			}
		})
	}
}

func TestApplyIneligible(t *testing.T) {
	t.Parallel()

	snap := testsource.Parse(t, "test.cs", testsource.Program(refThing, ""))

	if _, err := Apply(snap, rewrite.Declined(eligibility.BlockTransform), Options{}); err == nil {
		t.Error("Expected error for declined candidate")
	}

	c := rewrite.Candidate{
		Eligible:    true,
		Target:      &ast.Ident{Name: "missing"},
		Replacement: &ast.Ident{Name: "replacement"},
	}

	if _, err := Apply(snap, c, Options{}); !errors.Is(err, ErrNoTarget) {
		t.Errorf("Got error %v, want %v", err, ErrNoTarget)
	}
}

func TestLineIndent(t *testing.T) {
	t.Parallel()

	text := []byte("class C\n{\n\t\tvoid M() {}\n    int F;\n}")

	tests := []struct {
		name   string
		offset int
		indent string
		unit   string
	}{
		{"Top", 0, "", "\t"},
		{"Tabs", 14, "\t\t", "\t"},
		{"Spaces", 30, "    ", "    "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			indent := LineIndent(text, tt.offset)
			if indent != tt.indent {
				t.Errorf("Got indent %q, want %q", indent, tt.indent)
			}

			if got := IndentUnit(indent); got != tt.unit {
				t.Errorf("Got unit %q, want %q", got, tt.unit)
			}
		})
	}
}
