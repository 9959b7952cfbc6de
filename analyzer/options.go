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

package analyzer

import (
	"log/slog"

	"fillmore-labs.com/guardfix/internal/config"
	"fillmore-labs.com/guardfix/internal/run"
)

// Option configures specific behavior of a [New] guardfix analyzer.
type Option interface {
	apply(r *run.Options)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *run.Options) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithLogger is an [Option] to configure the logger receiving debug records
// about skipped calls and declined fixes.
func WithLogger(logger *slog.Logger) Option { return loggerOption{logger: logger} }

type loggerOption struct{ logger *slog.Logger }

func (o loggerOption) apply(r *run.Options) {
	r.Logger = o.logger
}

func (o loggerOption) LogAttr() slog.Attr {
	return slog.Bool("logger", o.logger != nil)
}

// WithGenerated is an [Option] to configure diagnostics in generated files.
func WithGenerated(generated bool) Option { return generatedOption{generated: generated} }

type generatedOption struct{ generated bool }

func (o generatedOption) apply(r *run.Options) {
	r.Behavior.Set(config.IncludeGenerated, o.generated)
}

func (o generatedOption) LogAttr() slog.Attr {
	return slog.Bool("generated", o.generated)
}

// WithSeverity is an [Option] to configure the severity of reported diagnostics.
func WithSeverity(severity Severity) Option { return severityOption{severity: severity} }

type severityOption struct{ severity Severity }

func (o severityOption) apply(r *run.Options) {
	r.Severity = o.severity
}

func (o severityOption) LogAttr() slog.Attr {
	return slog.String("severity", o.severity.String())
}

// WithHelper is an [Option] to configure the helper method family, given the
// fully qualified name of the declaring type and the method name.
func WithHelper(container, method string) Option {
	return helperOption{config.Helper{Container: container, Method: method}}
}

type helperOption struct{ helper config.Helper }

func (o helperOption) apply(r *run.Options) {
	r.Helper = o.helper
}

func (o helperOption) LogAttr() slog.Attr {
	return slog.Group("helper",
		slog.String("container", o.helper.Container),
		slog.String("method", o.helper.Method))
}

// WithOptionalChain is an [Option] to configure rewrites to the conditional access operator.
func WithOptionalChain(optionalChain bool) Option {
	return optionalChainOption{optionalChain: optionalChain}
}

type optionalChainOption struct{ optionalChain bool }

func (o optionalChainOption) apply(r *run.Options) {
	r.Idioms.Set(config.OptionalChain, o.optionalChain)
}

func (o optionalChainOption) LogAttr() slog.Attr {
	return slog.Bool("optional-chain", o.optionalChain)
}

// WithTypeTest is an [Option] to configure rewrites to type-test conditionals.
func WithTypeTest(typeTest bool) Option {
	return typeTestOption{typeTest: typeTest}
}

type typeTestOption struct{ typeTest bool }

func (o typeTestOption) apply(r *run.Options) {
	r.Idioms.Set(config.TypeTest, o.typeTest)
}

func (o typeTestOption) LogAttr() slog.Attr {
	return slog.Bool("type-test", o.typeTest)
}

// WithIfElse is an [Option] to configure rewrites of void calls to if statements.
func WithIfElse(ifElse bool) Option {
	return ifElseOption{ifElse: ifElse}
}

type ifElseOption struct{ ifElse bool }

func (o ifElseOption) apply(r *run.Options) {
	r.Idioms.Set(config.IfElse, o.ifElse)
}

func (o ifElseOption) LogAttr() slog.Attr {
	return slog.Bool("if-else", o.ifElse)
}

// WithRemoveImport is an [Option] to remove the helper namespace import once
// no helper call remains in a file.
func WithRemoveImport(removeImport bool) Option {
	return removeImportOption{removeImport: removeImport}
}

type removeImportOption struct{ removeImport bool }

func (o removeImportOption) apply(r *run.Options) {
	r.Behavior.Set(config.RemoveImport, o.removeImport)
}

func (o removeImportOption) LogAttr() slog.Attr {
	return slog.Bool("remove-import", o.removeImport)
}

// WithParallelism is an [Option] to limit the number of files fixed
// concurrently by [Analyzer.FixAll]. Values <= 0 mean no limit.
func WithParallelism(parallelism int) Option { return parallelismOption{parallelism: parallelism} }

type parallelismOption struct{ parallelism int }

func (o parallelismOption) apply(r *run.Options) {
	r.Parallelism = o.parallelism
}

func (o parallelismOption) LogAttr() slog.Attr {
	return slog.Int("parallelism", o.parallelism)
}
