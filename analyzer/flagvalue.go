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
	"strconv"

	"fillmore-labs.com/guardfix/internal/config"
)

// maskBit is a boolean command line flag toggling one bit of a [config.BitMask].
type maskBit[T ~uint8 | ~uint16 | ~uint32 | ~uint64] struct {
	mask *config.BitMask[T]
	bit  T
}

func idiomValue(idioms *config.Idioms, idiom config.IdiomFlags) maskBit[config.IdiomFlags] {
	return maskBit[config.IdiomFlags]{mask: idioms, bit: idiom}
}

func behaviorValue(behavior *config.Behavior, option config.BehaviorFlags) maskBit[config.BehaviorFlags] {
	return maskBit[config.BehaviorFlags]{mask: behavior, bit: option}
}

// Set implements [flag.Value].
func (m maskBit[T]) Set(s string) error {
	on, err := parseSwitch(s)
	if err != nil {
		return err
	}

	m.mask.Set(m.bit, on)

	return nil
}

// String implements [flag.Value]. The zero value prints as disabled.
func (m maskBit[T]) String() string {
	return strconv.FormatBool(m.enabled())
}

// Get implements [flag.Getter].
func (m maskBit[T]) Get() any { return m.enabled() }

// IsBoolFlag makes `-name` enable the bit.
func (m maskBit[T]) IsBoolFlag() bool { return true }

func (m maskBit[T]) enabled() bool {
	return m.mask != nil && m.mask.Enabled(m.bit)
}

// parseSwitch accepts the [strconv.ParseBool] spellings plus on/off and yes/no.
func parseSwitch(s string) (bool, error) {
	switch s {
	case "on", "On", "ON", "yes", "Yes", "YES":
		return true, nil

	case "off", "Off", "OFF", "no", "No", "NO":
		return false, nil
	}

	on, err := strconv.ParseBool(s)
	if err != nil {
		return false, &strconv.NumError{Func: "parseSwitch", Num: s, Err: strconv.ErrSyntax}
	}

	return on, nil
}
