// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tomlx provides functions for reading and writing TOML
// files using pelletier/go-toml/v2.
package tomlx

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Open reads the given object from the given filename using TOML encoding.
func Open(v any, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return Read(v, f)
}

// OpenFiles reads the given object from the given filenames using TOML
// encoding, in order, so that later files override earlier ones.
func OpenFiles(v any, filenames ...string) error {
	var errs []error
	for _, fn := range filenames {
		if err := Open(v, fn); err != nil {
			errs = append(errs, fmt.Errorf("tomlx.OpenFiles: %s: %w", fn, err))
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Read reads the given object from the given reader using TOML encoding.
func Read(v any, reader io.Reader) error {
	return toml.NewDecoder(reader).Decode(v)
}

// ReadBytes reads the given object from the given bytes using TOML encoding.
func ReadBytes(v any, data []byte) error {
	return Read(v, bytes.NewReader(data))
}

// Save writes the given object to the given filename using TOML encoding.
func Save(v any, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(v, f)
}

// Write writes the given object to the given writer using TOML encoding.
func Write(v any, writer io.Writer) error {
	return toml.NewEncoder(writer).Encode(v)
}
