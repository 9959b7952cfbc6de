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

package report_test

import (
	"slices"
	"testing"

	. "fillmore-labs.com/guardfix/internal/report"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	inner := Diagnostic{Path: "a.cs", Pos: 20, End: 30}
	outer := Diagnostic{Path: "a.cs", Pos: 20, End: 50}
	later := Diagnostic{Path: "a.cs", Pos: 40, End: 45}
	other := Diagnostic{Path: "b.cs", Pos: 1, End: 2}

	got := []Diagnostic{other, later, inner, outer}
	slices.SortFunc(got, Compare)

	want := []Diagnostic{outer, inner, later, other}
	if !slices.Equal(got, want) {
		t.Errorf("Got %v, want %v", got, want)
	}

	if Compare(inner, inner) != 0 {
		t.Error("Expected diagnostic equal to itself")
	}
}

func TestSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want Severity
	}{
		{"info", Info},
		{"Hidden", Hidden},
		{"WARNING", Warning},
		{"error", Error},
	}

	for _, tt := range tests {
		var s Severity
		if err := s.UnmarshalText([]byte(tt.text)); err != nil {
			t.Errorf("UnmarshalText(%q) failed: %v", tt.text, err)
			continue
		}

		if s != tt.want {
			t.Errorf("Got %s, want %s", s, tt.want)
		}

		text, err := s.MarshalText()
		if err != nil {
			t.Errorf("MarshalText failed: %v", err)
		}

		if got := string(text); got != s.String() {
			t.Errorf("Got %q, want %q", got, s.String())
		}
	}
}

func TestSeverityInvalid(t *testing.T) {
	t.Parallel()

	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("Expected error for unknown severity")
	}

	if _, err := Severity(9).MarshalText(); err == nil {
		t.Error("Expected error for invalid severity")
	}

	if got, want := Severity(9).String(), "Severity(9)"; got != want {
		t.Errorf("Got %q, want %q", got, want)
	}
}
