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

package testsource_test

import (
	"errors"
	"go/token"
	"testing"

	"fillmore-labs.com/guardfix/ast"
	. "fillmore-labs.com/guardfix/internal/testsource"
	"fillmore-labs.com/guardfix/sema"
)

// findCall returns the first call to a method called name.
func findCall(f *ast.File, name string) *ast.Call {
	for n := range ast.Preorder(f) {
		c, ok := n.(*ast.Call)
		if !ok {
			continue
		}

		switch fun := c.Fun.(type) {
		case *ast.MemberAccess:
			if fun.Name == name {
				return c
			}

		case *ast.MemberBinding:
			if fun.Name == name {
				return c
			}
		}
	}

	return nil
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		receiver string
		stmt     string
		params   int
		args     []string
		reduced  bool
	}{
		{
			name:     "Property",
			receiver: "new ReferenceThing()",
			stmt:     "var result = possiblyNull.IfNotNull(x => x.ValueTypeProperty);",
			params:   2,
			args:     []string{"ReferenceThing", "int"},
			reduced:  true,
		},
		{
			name:     "Static",
			receiver: "new ReferenceThing()",
			stmt:     "var result = IfNotNullExtensionMethod.IfNotNull(possiblyNull, x => x.CalculateValue());",
			params:   2,
			args:     []string{"ReferenceThing", "ReferenceThing"},
		},
		{
			name:     "NullableReceiver",
			receiver: "(ValueThing?) new ValueThing()",
			stmt:     "var result = possiblyNull.IfNotNull((ValueThing x) => x.ValueTypeProperty);",
			params:   2,
			args:     []string{"ValueThing", "int"},
			reduced:  true,
		},
		{
			name:     "Producer",
			receiver: "new ReferenceThing()",
			stmt:     "var result = possiblyNull.IfNotNull(x => x.ValueTypeProperty, () => 0);",
			params:   3,
			args:     []string{"ReferenceThing", "int"},
			reduced:  true,
		},
		{
			name:     "Void",
			receiver: "new ReferenceThing()",
			stmt:     "possiblyNull.IfNotNull(x => x.Method());",
			params:   2,
			args:     []string{"ReferenceThing"},
			reduced:  true,
		},
		{
			name:     "MethodGroup",
			receiver: "new ReferenceThing()",
			stmt:     "var result = possiblyNull.IfNotNull(ReferenceThing.CalculateStatic);",
			params:   2,
			args:     []string{"ReferenceThing", "ReferenceThing"},
			reduced:  true,
		},
		{
			name:     "Anonymous",
			receiver: "new ReferenceThing()",
			stmt:     `var result = possiblyNull.IfNotNull(x => new { Property = "value" }, () => new { Property = "other value" });`,
			params:   3,
			args:     []string{"ReferenceThing", "<anonymous type>"},
			reduced:  true,
		},
		{
			name:     "NullableOutputValue",
			receiver: "new ReferenceThing()",
			stmt:     "var result = possiblyNull.IfNotNull(x => x.NullableProperty, 5);",
			params:   3,
			args:     []string{"ReferenceThing", "int?"},
			reduced:  true,
		},
		{
			name:     "NullableOutputProducer",
			receiver: "new ReferenceThing()",
			stmt:     "var result = possiblyNull.IfNotNull(x => x.NullableProperty, () => 5);",
			params:   3,
			args:     []string{"ReferenceThing", "int?"},
			reduced:  true,
		},
		{
			name:     "ThrowDefault",
			receiver: "new ReferenceThing()",
			stmt:     "var result = possiblyNull.IfNotNull(x => x.CalculateValue(), () => throw new InvalidOperationException()) ?? throw new InvalidOperationException();",
			params:   3,
			args:     []string{"ReferenceThing", "ReferenceThing"},
			reduced:  true,
		},
		{
			name:     "Delegate",
			receiver: "(Func<int>) new ReferenceThing().CalculateValueTypeValue",
			stmt:     "var result = possiblyNull.IfNotNull(x => x(), 0);",
			params:   3,
			args:     []string{"Func<int>", "int"},
			reduced:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snap := Parse(t, "test.cs", Program(tt.receiver, tt.stmt))

			call := findCall(snap.File, "IfNotNull")
			if call == nil {
				t.Fatal("No helper call found")
			}

			sym, err := snap.Info.Resolve(call)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}

			inst, ok := sym.(*sema.Instance)
			if !ok {
				t.Fatalf("Got %T, want *sema.Instance", sym)
			}

			if got := len(inst.Origin.Params); got != tt.params {
				t.Errorf("Got %d parameters, want %d", got, tt.params)
			}

			if inst.Reduced != tt.reduced {
				t.Errorf("Got reduced %t, want %t", inst.Reduced, tt.reduced)
			}

			if len(inst.TypeArgs) != len(tt.args) {
				t.Fatalf("Got %d type arguments, want %d", len(inst.TypeArgs), len(tt.args))
			}

			for i, want := range tt.args {
				if got := inst.TypeArgs[i].String(); got != want {
					t.Errorf("Got type argument %d %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestMembers(t *testing.T) {
	t.Parallel()

	snap := Parse(t, "test.cs", Program("new ReferenceThing()", ""))

	methods := snap.Info.Members("Libronix.Utility.IfNotNull.IfNotNullExtensionMethod", "IfNotNull")
	if len(methods) != 10 {
		t.Fatalf("Got %d overloads, want 10", len(methods))
	}

	again := snap.Info.Members("Libronix.Utility.IfNotNull.IfNotNullExtensionMethod", "IfNotNull")
	for i := range methods {
		if methods[i] != again[i] {
			t.Errorf("Overload %d is not memoized", i)
		}
	}

	if got := snap.Info.Members("IfNotNullExtensionMethod", "IfNotNull"); len(got) != 0 {
		t.Errorf("Got %d overloads for unqualified container, want none", len(got))
	}
}

func TestUnresolved(t *testing.T) {
	t.Parallel()

	snap := Parse(t, "test.cs", Program("new ReferenceThing()", "var result = possiblyNull.Missing();"))

	call := findCall(snap.File, "Missing")
	if call == nil {
		t.Fatal("No call found")
	}

	if _, err := snap.Info.Resolve(call); !errors.Is(err, sema.ErrUnresolved) {
		t.Errorf("Got error %v, want %v", err, sema.ErrUnresolved)
	}

	if _, err := snap.Info.Resolve(call.Fun); !errors.Is(err, sema.ErrUnresolved) {
		t.Errorf("Got error %v, want %v", err, sema.ErrUnresolved)
	}
}

func TestFail(t *testing.T) {
	t.Parallel()

	errFail := errors.New("fail")
	host := Host{Project: "p", Fail: func(ast.Node) error { return errFail }}

	snap, err := host.Analyze(t.Context(), "test.cs", []byte(Program("new ReferenceThing()", "possiblyNull.IfNotNull(x => x.Method());")))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if snap.Project != "p" {
		t.Errorf("Got project %q, want %q", snap.Project, "p")
	}

	if _, err := snap.Info.Resolve(findCall(snap.File, "IfNotNull")); !errors.Is(err, errFail) {
		t.Errorf("Got error %v, want %v", err, errFail)
	}
}

func TestParsePositions(t *testing.T) {
	t.Parallel()

	src := Program("new ReferenceThing()", "var result = possiblyNull.IfNotNull(x => x.CalculateValue());")
	snap := Parse(t, "test.cs", src)

	call := findCall(snap.File, "IfNotNull")

	start, end, err := snap.Range(call)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}

	if got, want := src[start:end], "possiblyNull.IfNotNull(x => x.CalculateValue())"; got != want {
		t.Errorf("Got %q, want %q", got, want)
	}

	if got := snap.Position(call.Pos()).Column; got != 17 {
		t.Errorf("Got column %d, want 17", got)
	}
}

func TestParseError(t *testing.T) {
	t.Parallel()

	fset := token.NewFileSet()

	for _, src := range []string{
		"namespace N { class C { void M() { var x = ; } } }",
		"namespace N {",
		"class C { string s = \"unterminated; }",
	} {
		if _, err := ParseFile(fset, "bad.cs", []byte(src)); err == nil {
			t.Errorf("Parsing %q succeeded, want error", src)
		}
	}
}

func TestWithoutHelperImport(t *testing.T) {
	t.Parallel()

	src := Program("new ReferenceThing()", "")
	stripped := WithoutHelperImport(src)

	if len(stripped) != len(src)-len("using Libronix.Utility.IfNotNull;\n") {
		t.Errorf("Got %d bytes, want helper import removed", len(stripped))
	}
}
