// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli loads command configuration: defaults from struct tags,
// then an optional TOML config file on top of them.
package cli

import (
	"fmt"
	"os"

	"cogentcore.org/dispose/base/iox/tomlx"
)

// Open sets the given config object from its `default:` tags and then
// from the given TOML file, if it is non-empty. A missing file is an
// error only when required is true.
func Open(cfg any, file string, required bool) error {
	if err := SetFromDefaults(cfg); err != nil {
		return err
	}
	if file == "" {
		return nil
	}
	if _, err := os.Stat(file); err != nil {
		if !required && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cli.Open: %w", err)
	}
	if err := tomlx.Open(cfg, file); err != nil {
		return fmt.Errorf("cli.Open: %s: %w", file, err)
	}
	return nil
}
