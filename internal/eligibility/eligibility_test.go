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

package eligibility_test

import (
	"testing"

	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/internal/config"
	. "fillmore-labs.com/guardfix/internal/eligibility"
	"fillmore-labs.com/guardfix/internal/match"
	"fillmore-labs.com/guardfix/internal/testsource"
)

const refThing = "new ReferenceThing()"

// decide plans the first helper call in the program made from receiver and stmt.
func decide(tb testing.TB, receiver, stmt string, idioms config.Idioms) (Plan, Reason) {
	tb.Helper()

	snap := testsource.Parse(tb, "test.cs", testsource.Program(receiver, stmt))
	k := match.NewKnownSymbols(snap.Info, config.DefaultHelper)

	for n := range ast.Preorder(snap.File) {
		site, err := match.Match(k, snap.Info, n)
		if err != nil {
			tb.Fatalf("Match failed: %v", err)
		}

		if site != nil {
			return Decide(site, Context{Path: ast.PathTo(snap.File, site.Call), Idioms: idioms})
		}
	}

	tb.Fatal("No call site matched")

	return Plan{}, Eligible
}

func TestDecide(t *testing.T) {
	t.Parallel()

	all := config.DefaultIdioms()
	noChain := config.NewBitMask(config.TypeTest, config.IfElse)
	noIfElse := config.NewBitMask(config.OptionalChain, config.TypeTest)
	chainOnly := config.NewBitMask(config.OptionalChain)

	tests := []struct {
		name     string
		receiver string
		stmt     string
		idioms   config.Idioms
		idiom    Idiom
		reason   Reason
	}{
		{"Chain", refThing, "var result = possiblyNull.IfNotNull(x => x.RecursiveProperty);", all, OptionalChain, Eligible},
		{"Coalesce", refThing, "var result = possiblyNull.IfNotNull(x => x.ValueTypeProperty);", all, Coalesce, Eligible},
		{"CoalesceDefault", refThing, "var result = possiblyNull.IfNotNull(x => x.ValueTypeProperty, () => 5);", all, Coalesce, Eligible},
		{"NullableOutput", refThing, "var result = possiblyNull.IfNotNull(x => x.NullableProperty);", all, OptionalChain, Eligible},
		{"Paren", refThing, "var result = possiblyNull.IfNotNull(x => (x.ValueTypeProperty));", all, TypeTestConditional, Eligible},
		{"TwoUses", refThing, "var result = possiblyNull.IfNotNull(x => x.CalculateValue(x));", all, TypeTestConditional, Eligible},
		{"MethodGroup", refThing, "var result = possiblyNull.IfNotNull(ReferenceThing.CalculateStatic);", all, TypeTestConditional, Eligible},
		{"NoChain", refThing, "var result = possiblyNull.IfNotNull(x => x.RecursiveProperty);", noChain, TypeTestConditional, Eligible},
		{"ChainOnly", refThing, "var result = possiblyNull.IfNotNull(x => (x.ValueTypeProperty));", chainOnly, NoIdiom, IdiomDisabled},
		{"Void", refThing, "possiblyNull.IfNotNull(x => x.Method());", all, OptionalChain, Eligible},
		{"VoidDefault", refThing, "possiblyNull.IfNotNull(x => x.Method(), () => throw new InvalidOperationException());", all, IfElse, Eligible},
		{"VoidNoIfElse", refThing, "possiblyNull.IfNotNull(x => x.Method(), () => throw new InvalidOperationException());", noIfElse, NoIdiom, IdiomDisabled},
		{"ConditionalReceiver", refThing, "var result = possiblyNull?.IfNotNull(x => x.RecursiveProperty);", all, NoIdiom, ConditionalReceiver},
		{"BlockTransform", refThing, "var result = possiblyNull.IfNotNull(x => { return x.CalculateValue(); });", all, NoIdiom, BlockTransform},
		{"BlockDefault", refThing, "var result = possiblyNull.IfNotNull(x => x.ValueTypeProperty, () => { return 5; });", all, NoIdiom, BlockDefault},
		{"UnnamedOutput", refThing, "var result = possiblyNull.IfNotNull(x => new { Property = 5 });", all, NoIdiom, UnnamedOutput},
		{"UnnamedInput", "new { Property = 5 }", "var result = possiblyNull.IfNotNull(x => new[] { x });", all, NoIdiom, UnnamedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			plan, reason := decide(t, tt.receiver, tt.stmt, tt.idioms)

			if reason != tt.reason {
				t.Fatalf("Got reason %d, want %d", reason, tt.reason)
			}

			if reason.Rewritable() != (plan.Idiom != NoIdiom) {
				t.Errorf("Got idiom %s for reason %d", plan.Idiom, reason)
			}

			if plan.Idiom != tt.idiom {
				t.Errorf("Got idiom %s, want %s", plan.Idiom, tt.idiom)
			}
		})
	}
}

func TestDecidePlan(t *testing.T) {
	t.Parallel()

	t.Run("Coalesce", func(t *testing.T) {
		t.Parallel()

		plan, _ := decide(t, refThing, "var result = possiblyNull.IfNotNull(x => x.ValueTypeProperty);", config.DefaultIdioms())

		if plan.Param != "x" || plan.ParamDecl == nil {
			t.Errorf("Got parameter %q (%v), want declared x", plan.Param, plan.ParamDecl)
		}

		if d, ok := plan.Default.(*ast.DefaultExpr); !ok || d.Type == nil || d.Type.Name != "int" {
			t.Errorf("Got default %#v, want default(int)", plan.Default)
		}

		if _, ok := plan.Access.(*ast.MemberAccess); !ok {
			t.Errorf("Got access %T, want *ast.MemberAccess", plan.Access)
		}

		if plan.Target != ast.Node(plan.Site.Call) {
			t.Errorf("Got target %T, want the call", plan.Target)
		}
	})

	t.Run("NullDefault", func(t *testing.T) {
		t.Parallel()

		plan, _ := decide(t, refThing, "var result = possiblyNull.IfNotNull(x => x.RecursiveProperty, null);", config.DefaultIdioms())

		if plan.Idiom != OptionalChain || plan.Default != nil {
			t.Errorf("Got %s with default %#v, want optional chain without default", plan.Idiom, plan.Default)
		}
	})

	t.Run("MethodGroup", func(t *testing.T) {
		t.Parallel()

		plan, _ := decide(t, refThing, "var result = possiblyNull.IfNotNull(ReferenceThing.CalculateStatic);", config.DefaultIdioms())

		if plan.Param != "value" || plan.ParamDecl != nil {
			t.Errorf("Got parameter %q (%v), want synthesized value", plan.Param, plan.ParamDecl)
		}

		if plan.Enclosing == nil {
			t.Error("Expected enclosing member")
		}

		if d, ok := plan.Else.(*ast.DefaultExpr); !ok || d.Type.Name != "ReferenceThing" {
			t.Errorf("Got else %#v, want default(ReferenceThing)", plan.Else)
		}
	})

	t.Run("CoalesceCreation", func(t *testing.T) {
		t.Parallel()

		plan, _ := decide(t, refThing, "var result = possiblyNull.IfNotNull(x => new ReferenceThing()) ?? ReferenceThing.Factory();", config.DefaultIdioms())

		if plan.Idiom != TypeTestConditional {
			t.Fatalf("Got idiom %s, want %s", plan.Idiom, TypeTestConditional)
		}

		bin, ok := plan.Target.(*ast.Binary)
		if !ok || bin.Op != ast.Coalesce {
			t.Fatalf("Got target %T, want the enclosing ?? expression", plan.Target)
		}

		if plan.Else != bin.Y {
			t.Errorf("Got else %#v, want right operand of ??", plan.Else)
		}
	})

	t.Run("IfElse", func(t *testing.T) {
		t.Parallel()

		plan, _ := decide(t, refThing, "possiblyNull.IfNotNull(x => x.Method(), () => throw new InvalidOperationException());", config.DefaultIdioms())

		if _, ok := plan.Target.(*ast.ExprStmt); !ok {
			t.Errorf("Got target %T, want *ast.ExprStmt", plan.Target)
		}

		if _, ok := plan.Default.(*ast.ThrowExpr); !ok {
			t.Errorf("Got default %T, want *ast.ThrowExpr", plan.Default)
		}
	})
}

func TestLeftmost(t *testing.T) {
	t.Parallel()

	x := &ast.Ident{Name: "x"}
	access := &ast.MemberAccess{X: x, Name: "P"}
	call := &ast.Call{Fun: &ast.MemberAccess{X: access, Name: "M"}}
	paren := &ast.Paren{X: access}

	tests := []struct {
		name         string
		expr         ast.Expr
		leaf, parent ast.Expr
	}{
		{"Ident", x, x, nil},
		{"Access", access, x, access},
		{"Call", call, x, access},
		{"Paren", paren, paren, nil},
		{"Element", &ast.ElementAccess{X: paren}, paren, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			leaf, parent := Leftmost(tt.expr)

			if leaf != tt.leaf {
				t.Errorf("Got leaf %#v, want %#v", leaf, tt.leaf)
			}

			if tt.parent != nil && parent != tt.parent {
				t.Errorf("Got parent %#v, want %#v", parent, tt.parent)
			}
		})
	}
}

func TestIdiom(t *testing.T) {
	t.Parallel()

	for _, i := range []Idiom{OptionalChain, Coalesce, TypeTestConditional, IfElse} {
		if i.Title() == "" || i.Key() == "" || i.String() == "none" {
			t.Errorf("Idiom %d has no metadata", i)
		}
	}

	if got := Idiom(200).String(); got != "none" {
		t.Errorf("Got %q, want %q", got, "none")
	}

	if OptionalChain.Title() != Coalesce.Title() {
		t.Error("Expected optional chain and coalesce to share a title")
	}
}
