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

package match_test

import (
	"errors"
	"testing"

	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/internal/config"
	. "fillmore-labs.com/guardfix/internal/match"
	"fillmore-labs.com/guardfix/internal/testsource"
	"fillmore-labs.com/guardfix/sema"
	"fillmore-labs.com/guardfix/source"
)

// firstSite returns the first matched call site in snap.
func firstSite(tb testing.TB, snap *source.Snapshot, k KnownSymbols) *CallSite {
	tb.Helper()

	for n := range ast.Preorder(snap.File) {
		site, err := Match(k, snap.Info, n)
		if err != nil {
			tb.Fatalf("Match failed: %v", err)
		}

		if site != nil {
			return site
		}
	}

	return nil
}

func TestKnownSymbols(t *testing.T) {
	t.Parallel()

	snap := testsource.Parse(t, "test.cs", testsource.Program("new ReferenceThing()", ""))

	k := NewKnownSymbols(snap.Info, config.DefaultHelper)
	if k.Empty() {
		t.Fatal("No helper overloads found")
	}

	if got := k.Helper(); got != config.DefaultHelper {
		t.Errorf("Got helper %v, want %v", got, config.DefaultHelper)
	}

	var void, nullable, values, producers int

	for _, m := range snap.Info.Members(config.DefaultHelper.Container, config.DefaultHelper.Method) {
		o, ok := k.Lookup(m)
		if !ok {
			t.Errorf("Overload %v not classified", m.Params)
			continue
		}

		if o.Void {
			void++
		}

		if o.NullableReceiver {
			nullable++
		}

		switch o.Default {
		case ValueDefault:
			values++

		case ProducerDefault:
			producers++
		}
	}

	if void != 4 || nullable != 5 || values != 2 || producers != 4 {
		t.Errorf("Got %d void, %d nullable, %d value and %d producer overloads, want 4, 5, 2 and 4",
			void, nullable, values, producers)
	}

	if _, ok := k.Lookup(nil); ok {
		t.Error("Lookup of nil succeeded")
	}
}

func TestKnownSymbolsMissing(t *testing.T) {
	t.Parallel()

	snap := testsource.Parse(t, "test.cs", testsource.Program("new ReferenceThing()", ""))

	for _, helper := range []config.Helper{
		{},
		{Container: "Libronix.Utility.IfNotNull.IfNotNullExtensionMethod", Method: "Missing"},
		{Container: "IfNotNullExtensionMethod", Method: "IfNotNull"},
	} {
		if k := NewKnownSymbols(snap.Info, helper); !k.Empty() {
			t.Errorf("Got overloads for %+v, want none", helper)
		}
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		receiver     string
		stmt         string
		void         bool
		nullable     bool
		transformRef bool
		defaultKind  DefaultKind
		input        string
		output       string
	}{
		{
			name:     "Property",
			receiver: "new ReferenceThing()",
			stmt:     "var result = possiblyNull.IfNotNull(x => x.ValueTypeProperty);",
			input:    "ReferenceThing",
			output:   "int",
		},
		{
			name:     "Static",
			receiver: "new ReferenceThing()",
			stmt:     "var result = IfNotNullExtensionMethod.IfNotNull(possiblyNull, x => x.CalculateValue());",
			input:    "ReferenceThing",
			output:   "ReferenceThing",
		},
		{
			name:     "NullableReceiver",
			receiver: "(ValueThing?) new ValueThing()",
			stmt:     "var result = possiblyNull.IfNotNull((ValueThing x) => x.ValueTypeProperty);",
			nullable: true,
			input:    "ValueThing",
			output:   "int",
		},
		{
			name:        "ValueDefault",
			receiver:    "new ReferenceThing()",
			stmt:        "var result = possiblyNull.IfNotNull(x => x.ValueTypeProperty, 5);",
			defaultKind: ValueDefault,
			input:       "ReferenceThing",
			output:      "int",
		},
		{
			name:        "ProducerDefault",
			receiver:    "new ReferenceThing()",
			stmt:        "var result = possiblyNull.IfNotNull(x => x.ValueTypeProperty, () => 5);",
			defaultKind: ProducerDefault,
			input:       "ReferenceThing",
			output:      "int",
		},
		{
			name:         "MethodGroup",
			receiver:     "new ReferenceThing()",
			stmt:         "var result = possiblyNull.IfNotNull(ReferenceThing.CalculateStatic);",
			transformRef: true,
			input:        "ReferenceThing",
			output:       "ReferenceThing",
		},
		{
			name:     "Void",
			receiver: "new ReferenceThing()",
			stmt:     "possiblyNull.IfNotNull(x => x.Method());",
			void:     true,
			input:    "ReferenceThing",
			output:   "void",
		},
		{
			name:        "VoidDefault",
			receiver:    "new ReferenceThing()",
			stmt:        "possiblyNull.IfNotNull(x => x.Method(), () => throw new InvalidOperationException());",
			void:        true,
			defaultKind: ProducerDefault,
			input:       "ReferenceThing",
			output:      "void",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snap := testsource.Parse(t, "test.cs", testsource.Program(tt.receiver, tt.stmt))
			k := NewKnownSymbols(snap.Info, config.DefaultHelper)

			site := firstSite(t, snap, k)
			if site == nil {
				t.Fatal("No call site matched")
			}

			if recv, ok := site.Receiver.(*ast.Ident); !ok || recv.Name != "possiblyNull" {
				t.Errorf("Got receiver %#v, want possiblyNull", site.Receiver)
			}

			if got := site.Void(); got != tt.void {
				t.Errorf("Got void %t, want %t", got, tt.void)
			}

			if site.InputValueType != tt.nullable {
				t.Errorf("Got nullable receiver %t, want %t", site.InputValueType, tt.nullable)
			}

			if site.TransformRef != tt.transformRef {
				t.Errorf("Got transform reference %t, want %t", site.TransformRef, tt.transformRef)
			}

			if site.DefaultKind != tt.defaultKind {
				t.Errorf("Got default kind %d, want %d", site.DefaultKind, tt.defaultKind)
			}

			if (site.Default != nil) != (tt.defaultKind != NoDefault) {
				t.Errorf("Got default %#v with kind %d", site.Default, site.DefaultKind)
			}

			if got := site.Input.String(); got != tt.input {
				t.Errorf("Got input %q, want %q", got, tt.input)
			}

			if got := site.Output.String(); got != tt.output {
				t.Errorf("Got output %q, want %q", got, tt.output)
			}
		})
	}
}

func TestMatchOther(t *testing.T) {
	t.Parallel()

	for _, stmt := range []string{
		"var result = possiblyNull.CalculateValue();",
		"var result = possiblyNull.Missing(x => x);",
		"var result = IfNotNull(possiblyNull, x => x);",
	} {
		snap := testsource.Parse(t, "test.cs", testsource.Program("new ReferenceThing()", stmt))
		k := NewKnownSymbols(snap.Info, config.DefaultHelper)

		if site := firstSite(t, snap, k); site != nil {
			t.Errorf("Matched %q, want no call site", stmt)
		}
	}
}

func TestMatchSkip(t *testing.T) {
	t.Parallel()

	errFail := errors.New("fail")
	host := testsource.Host{Fail: func(n ast.Node) error {
		if _, ok := n.(*ast.Call); ok {
			return errFail
		}

		return nil
	}}

	src := testsource.Program("new ReferenceThing()", "possiblyNull.IfNotNull(x => x.Method());")

	snap, err := host.Analyze(t.Context(), "test.cs", []byte(src))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	k := NewKnownSymbols(snap.Info, config.DefaultHelper)

	var skipped int

	for n := range ast.Preorder(snap.File) {
		site, err := Match(k, snap.Info, n)

		var skip *SkipError
		if errors.As(err, &skip) {
			skipped++

			if !errors.Is(err, errFail) {
				t.Errorf("Got error %v, want %v", err, errFail)
			}

			continue
		}

		if err != nil || site != nil {
			t.Errorf("Got %v, %v; want a skip", site, err)
		}
	}

	if skipped != 1 {
		t.Errorf("Got %d skipped calls, want 1", skipped)
	}
}

func TestCallSiteOutput(t *testing.T) {
	t.Parallel()

	snap := testsource.Parse(t, "test.cs", testsource.Program("new ReferenceThing()",
		"var result = possiblyNull.IfNotNull(x => x.NullableProperty);"))
	k := NewKnownSymbols(snap.Info, config.DefaultHelper)

	site := firstSite(t, snap, k)
	if site == nil {
		t.Fatal("No call site matched")
	}

	if !site.OutputNullableValue {
		t.Error("Expected nullable value output")
	}

	if site.Output.Kind != sema.Nullable {
		t.Errorf("Got output kind %d, want nullable", site.Output.Kind)
	}
}
