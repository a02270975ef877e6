// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package yamlx provides functions for reading and writing YAML
// files using gopkg.in/yaml.v3.
package yamlx

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Open reads the given object from the given filename using YAML encoding.
func Open(v any, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return Read(v, f)
}

// Read reads the given object from the given reader using YAML encoding.
// Unknown fields are an error.
func Read(v any, reader io.Reader) error {
	dec := yaml.NewDecoder(reader)
	dec.KnownFields(true)
	return dec.Decode(v)
}

// ReadBytes reads the given object from the given bytes using YAML encoding.
func ReadBytes(v any, data []byte) error {
	return Read(v, bytes.NewReader(data))
}

// Save writes the given object to the given filename using YAML encoding.
func Save(v any, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(v, f)
}

// Write writes the given object to the given writer using YAML encoding.
func Write(v any, writer io.Writer) error {
	enc := yaml.NewEncoder(writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WriteBytes writes the given object, returning bytes of the encoding.
func WriteBytes(v any) ([]byte, error) {
	var buf bytes.Buffer
	err := Write(v, &buf)
	return buf.Bytes(), err
}
