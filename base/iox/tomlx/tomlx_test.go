// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tomlx

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Scene     string
	Recursive bool
	Depth     int
}

func TestReadWrite(t *testing.T) {
	c := testConfig{Scene: "scene.yaml", Recursive: true, Depth: 3}
	var buf bytes.Buffer
	require.NoError(t, Write(c, &buf))

	var d testConfig
	require.NoError(t, ReadBytes(&d, buf.Bytes()))
	assert.Equal(t, c, d)
}

func TestOpenFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")
	require.NoError(t, Save(testConfig{Scene: "a.yaml", Depth: 1}, a))
	require.NoError(t, Save(testConfig{Scene: "b.yaml", Depth: 2}, b))

	var c testConfig
	require.NoError(t, OpenFiles(&c, a, b))
	assert.Equal(t, "b.yaml", c.Scene)
	assert.Equal(t, 2, c.Depth)

	assert.Error(t, OpenFiles(&c, filepath.Join(dir, "missing.toml")))
}
