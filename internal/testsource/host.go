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

// Package testsource parses and resolves a small subset of C# for tests.
//
// It implements [source.Host] over single files: types are taken from the
// declarations in the file and a handful of well-known library types, method
// calls are resolved by arity with simple generic inference. This is enough to
// exercise the rewrite engine on realistic fragments without a compiler.
package testsource

import (
	"context"
	"go/token"
	"strings"
	"testing"

	"fillmore-labs.com/guardfix/ast"
	"fillmore-labs.com/guardfix/source"
)

// Host analyzes source text. The zero value is ready to use.
type Host struct {
	// Project is assigned to every analyzed unit.
	Project string

	// Fail, when set, is consulted before resolving each node. A non-nil
	// result is returned from Resolve, simulating a fragile host.
	Fail func(ast.Node) error
}

var _ source.Host = Host{}

// Analyze implements [source.Host].
func (h Host) Analyze(ctx context.Context, path string, text []byte) (*source.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fset := token.NewFileSet()

	f, err := ParseFile(fset, path, text)
	if err != nil {
		return nil, err
	}

	info := NewInfo(f)
	info.fail = h.Fail

	return &source.Snapshot{
		Unit: source.Unit{Path: path, Project: h.Project, Text: text, File: f},
		Fset: fset,
		Info: info,
	}, nil
}

// Parse analyzes src as the file at path.
func Parse(tb testing.TB, path, src string) *source.Snapshot {
	tb.Helper()

	s, err := Host{}.Analyze(tb.Context(), path, []byte(src))
	if err != nil {
		tb.Fatalf("Failed to parse source %q: %v", path, err)
	}

	return s
}

// Preamble declares the helper overloads and the types used by [Program].
const Preamble = `using System;
using Libronix.Utility.IfNotNull;
using TestProgram;

namespace Libronix.Utility.IfNotNull
{
	public static class IfNotNullExtensionMethod
	{
		public static TOutput IfNotNull<TInput, TOutput>(this TInput t, Func<TInput, TOutput> fn) where TInput : class => throw new NotImplementedException();
		public static TOutput IfNotNull<TInput, TOutput>(this TInput? t, Func<TInput, TOutput> fn) where TInput : struct => throw new NotImplementedException();
		public static TOutput IfNotNull<TInput, TOutput>(this TInput t, Func<TInput, TOutput> fn, TOutput def) where TInput : class => throw new NotImplementedException();
		public static TOutput IfNotNull<TInput, TOutput>(this TInput? t, Func<TInput, TOutput> fn, TOutput def) where TInput : struct => throw new NotImplementedException();
		public static TOutput IfNotNull<TInput, TOutput>(this TInput t, Func<TInput, TOutput> fn, Func<TOutput> def) where TInput : class => throw new NotImplementedException();
		public static TOutput IfNotNull<TInput, TOutput>(this TInput? t, Func<TInput, TOutput> fn, Func<TOutput> def) where TInput : struct => throw new NotImplementedException();
		public static void IfNotNull<TInput>(this TInput t, Action<TInput> fn) where TInput : class => throw new NotImplementedException();
		public static void IfNotNull<TInput>(this TInput? t, Action<TInput> fn) where TInput : struct => throw new NotImplementedException();
		public static void IfNotNull<TInput>(this TInput t, Action<TInput> fn, Action def) where TInput : class => throw new NotImplementedException();
		public static void IfNotNull<TInput>(this TInput? t, Action<TInput> fn, Action def) where TInput : struct => throw new NotImplementedException();
	}
}

namespace TestProgram
{
	internal sealed class ReferenceThing
	{
		public int ValueTypeProperty => throw new NotImplementedException();
		public int? NullableProperty => throw new NotImplementedException();
		public ReferenceThing RecursiveProperty => throw new NotImplementedException();
		public void Method() => throw new NotImplementedException();
		public ReferenceThing CalculateValue() => throw new NotImplementedException();
		public ReferenceThing CalculateValue(ReferenceThing input) => throw new NotImplementedException();
		public int CalculateValueTypeValue() => throw new NotImplementedException();
		public ReferenceThing this[int i] => throw new NotImplementedException();
		public static ReferenceThing CalculateStatic(ReferenceThing x) => throw new NotImplementedException();
		public static ReferenceThing Factory() => throw new NotImplementedException();
	}

	internal struct ValueThing
	{
		public int ValueTypeProperty => throw new NotImplementedException();
		public ReferenceThing ReferenceTypeProperty => throw new NotImplementedException();
		public ValueThing RecursiveProperty => throw new NotImplementedException();
		public void Method() => throw new NotImplementedException();
		public ValueThing CalculateValue() => throw new NotImplementedException();
	}
}
`

// Program returns a file consisting of [Preamble] and a method that
// initializes possiblyNull from receiver and then executes stmt.
func Program(receiver, stmt string) string {
	var b strings.Builder

	b.WriteString(Preamble)
	b.WriteString("\nnamespace TestProgram\n{\n\tinternal static class TestClass\n\t{\n\t\tpublic static void CallIfNotNull()\n\t\t{\n")
	b.WriteString("\t\t\tvar possiblyNull = " + receiver + ";\n")
	b.WriteString("\t\t\t" + stmt + "\n")
	b.WriteString("\t\t}\n\t}\n}\n")

	return b.String()
}

// WithoutHelperImport removes the helper namespace import from a program.
func WithoutHelperImport(src string) string {
	return strings.Replace(src, "using Libronix.Utility.IfNotNull;\n", "", 1)
}
