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

package eligibility

// Reason explains why a call site has no rewrite.
type Reason uint8

//go:generate go tool stringer -type Reason -linecomment
const (
	// Eligible means a rewrite was planned.
	Eligible Reason = iota // eligible

	// ConditionalReceiver means the helper is invoked through `?.`, so there
	// is no receiver expression to test.
	ConditionalReceiver // conditional receiver

	// AnonymousMethodDefault means the default is an old-style anonymous delegate.
	AnonymousMethodDefault // anonymous method default

	// AsyncDefault means the default producer is an async lambda.
	AsyncDefault // async default

	// BlockDefault means the default producer is a block-bodied lambda.
	BlockDefault // block-bodied default

	// AnonymousMethodTransform means the transform is an old-style anonymous delegate.
	AnonymousMethodTransform // anonymous method transform

	// AsyncTransform means the transform is an async lambda.
	AsyncTransform // async transform

	// ParameterCount means the transform lambda does not take exactly one parameter.
	ParameterCount // parameter count

	// BlockTransform means the transform is a block-bodied lambda.
	BlockTransform // block-bodied transform

	// UnnamedOutput means a default value of the output type is needed, but the
	// type cannot be written in source.
	UnnamedOutput // output type cannot be named

	// UnnamedInput means the type test needs the input type, but it cannot be
	// written in source.
	UnnamedInput // input type cannot be named

	// NotStatement means a void call must become an if statement, but is not
	// the expression of an expression statement.
	NotStatement // not an expression statement

	// IdiomDisabled means every applicable idiom is disabled by configuration.
	IdiomDisabled // idiom disabled
)

// Rewritable reports whether a rewrite was planned.
func (r Reason) Rewritable() bool { return r == Eligible }
