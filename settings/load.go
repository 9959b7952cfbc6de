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

package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrUnknownFormat is returned for settings files that are neither JSON nor TOML.
	ErrUnknownFormat = errors.New("unknown settings format")

	// ErrUnknownKey is returned for TOML keys that do not correspond to a setting.
	ErrUnknownKey = errors.New("unknown settings key")
)

// Load reads settings from a `.json` or `.toml` file.
func Load(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, err
	}
	defer func() { _ = f.Close() }()

	var s Settings

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		s, err = DecodeJSON(f)

	case ".toml":
		s, err = DecodeTOML(f)

	default:
		return Settings{}, fmt.Errorf("%s: %w %q", path, ErrUnknownFormat, ext)
	}

	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// DecodeJSON decodes JSON settings, rejecting unknown fields.
func DecodeJSON(r io.Reader) (Settings, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var s Settings
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return s, nil
}

// DecodeTOML decodes TOML settings, rejecting unknown keys.
func DecodeTOML(r io.Reader) (Settings, error) {
	var s Settings

	meta, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to parse TOML: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Settings{}, fmt.Errorf("%w %q", ErrUnknownKey, undecoded[0].String())
	}

	return s, nil
}
