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

package run

import (
	"log/slog"

	"fillmore-labs.com/guardfix/internal/config"
	"fillmore-labs.com/guardfix/internal/report"
)

// Options represent configuration options for the guardfix engine.
type Options struct {
	// Idioms are the target idioms rewrites may produce.
	Idioms config.Idioms

	// Behavior holds behavioral options.
	Behavior config.Behavior

	// Helper identifies the helper method family.
	Helper config.Helper

	// Severity of reported diagnostics.
	Severity report.Severity

	// Parallelism limits the number of files fixed concurrently, <= 0 means unlimited.
	Parallelism int

	// Logger receives debug records about skipped and declined call sites.
	Logger *slog.Logger
}

// DefaultOptions initializes and returns a new Options instance with default values.
func DefaultOptions() *Options {
	return &Options{
		Idioms:      config.DefaultIdioms(),
		Behavior:    config.DefaultBehavior(),
		Helper:      config.DefaultHelper,
		Severity:    report.Info,
		Parallelism: -1,
		Logger:      slog.New(slog.DiscardHandler),
	}
}

// Log returns the configured logger, discarding records when none is set.
func (o *Options) Log() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return o.Logger
}
