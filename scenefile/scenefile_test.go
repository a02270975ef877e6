// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenefile

import (
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/dispose/gpu"
	"cogentcore.org/dispose/math32"
	"cogentcore.org/dispose/xyz"
)

const demo = `
name: demo
boundsTreeOptions:
  maxLeafTris: 4
geometries:
  - name: cube
    box: [1, 2, 3]
    boundsTree: true
  - name: floor
    plane:
      size: [10, 10]
      segments: [2, 2]
  - name: edges
    lines:
      - [0, 0, 0]
      - [1, 0, 0]
  - name: tri
    positions: [0, 0, 0, 1, 0, 0, 0, 1, 0]
materials:
  - name: red
    color: "#f00"
  - name: glass
    color: "#ffffff80"
    opacity: 0.5
    shiny: 100
nodes:
  - name: floor
    kind: mesh
    geometry: floor
    materials: [glass]
  - name: things
    children:
      - name: cube
        kind: mesh
        geometry: cube
        materials: [red, glass]
        children:
          - name: outline
            kind: lines
            geometry: edges
            materials: [red]
            width: 2
      - name: tri
        kind: mesh
        geometry: tri
        hidden: true
`

func TestBuild(t *testing.T) {
	sc, err := Read(strings.NewReader(demo))
	require.NoError(t, err)
	mem := gpu.NewMemory()
	root, err := Build(sc, mem)
	require.NoError(t, err)

	assert.Equal(t, "demo", root.Name)
	require.Len(t, root.Children, 2)
	floor := root.ChildByName("floor").(*xyz.Mesh)
	things := root.ChildByName("things").(*xyz.Group)
	cube := things.ChildByName("cube").(*xyz.Mesh)
	outline := cube.ChildByName("outline").(*xyz.LineSegments)
	tri := things.ChildByName("tri").(*xyz.Mesh)

	assert.False(t, floor.IsMultiMaterial())
	assert.Equal(t, "glass", floor.Material().Name)
	assert.True(t, cube.IsMultiMaterial())
	assert.Same(t, floor.Material(), cube.Materials()[1])
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, cube.Material().Color)
	assert.Equal(t, float32(0.5), floor.Material().Opacity)
	assert.Equal(t, float32(100), floor.Material().Shiny)
	assert.Equal(t, float32(2), outline.Width)
	assert.False(t, tri.Visible)
	assert.True(t, cube.Visible)

	require.NotNil(t, cube.Geometry().BoundsTree)
	assert.Equal(t, 12, cube.Geometry().BoundsTree.NumTriangles())
	assert.Greater(t, cube.Geometry().BoundsTree.NumNodes(), 1)
	assert.Nil(t, floor.Geometry().BoundsTree)

	res := xyz.CollectResources(root)
	assert.Len(t, res.Geometries, 4)
	assert.Len(t, res.Materials, 2)
	assert.Contains(t, mem.Live(), "cube/bvh")
	assert.Contains(t, mem.Live(), "glass/uniform")
}

func TestBuildWithoutDevice(t *testing.T) {
	sc, err := Read(strings.NewReader(demo))
	require.NoError(t, err)
	root, err := Build(sc, nil)
	require.NoError(t, err)
	for _, g := range xyz.CollectResources(root).Geometries {
		assert.False(t, g.IsUploaded())
	}
}

func TestBuildUploadError(t *testing.T) {
	sc, err := Read(strings.NewReader(demo))
	require.NoError(t, err)
	mem := gpu.NewMemory()
	mem.MaxBytes = 512
	_, err = Build(sc, mem)
	assert.Error(t, err)
	assert.Equal(t, 0, mem.Stats().Leaked())
}

func TestBuildErrors(t *testing.T) {
	tests := map[string]string{
		"unknown field":    "name: x\nnodez: []\n",
		"no primitive":     "geometries:\n  - name: g\n",
		"two primitives":   "geometries:\n  - name: g\n    box: [1, 1, 1]\n    plane: {size: [1, 1]}\n",
		"bad box":          "geometries:\n  - name: g\n    box: [1, 1]\n",
		"bad positions":    "geometries:\n  - name: g\n    positions: [1, 1]\n",
		"bad index":        "geometries:\n  - name: g\n    positions: [0, 0, 0, 1, 0, 0, 0, 1, 0]\n    index: [0, 1, 7]\n",
		"partial index":    "geometries:\n  - name: g\n    positions: [0, 0, 0, 1, 0, 0, 0, 1, 0]\n    index: [0, 1]\n",
		"lines tree":       "geometries:\n  - name: g\n    lines: [[0, 0, 0], [1, 1, 1]]\n    boundsTree: true\n",
		"dup geometry":     "geometries:\n  - name: g\n    box: [1, 1, 1]\n  - name: g\n    box: [1, 1, 1]\n",
		"bad color":        "materials:\n  - name: m\n    color: red\n",
		"dup material":     "materials:\n  - name: m\n  - name: m\n",
		"unknown geometry": "nodes:\n  - name: n\n    kind: mesh\n    geometry: g\n",
		"unknown material": "nodes:\n  - name: n\n    kind: mesh\n    materials: [m]\n",
		"unknown kind":     "nodes:\n  - name: n\n    kind: sphere\n",
		"group geometry":   "geometries:\n  - name: g\n    box: [1, 1, 1]\nnodes:\n  - name: n\n    geometry: g\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			sc, err := Read(strings.NewReader(src))
			if err == nil {
				_, err = Build(sc, gpu.NewMemory())
			}
			assert.Error(t, err)
		})
	}
}

func TestBuildIndexed(t *testing.T) {
	src := "name: x\ngeometries:\n  - name: g\n    positions: [0, 0, 0, 1, 0, 0, 0, 1, 0]\n    index: [0, 1, 2]\nnodes:\n  - name: n\n    kind: mesh\n    geometry: g\n"
	sc, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	root, err := Build(sc, gpu.NewMemory())
	require.NoError(t, err)
	hits := xyz.RaycastAll(root, math32.NewRay(math32.Vec3(0.2, 0.2, 1), math32.Vec3(0, 0, -1)))
	require.Len(t, hits, 1)
	assert.InDelta(t, 1, hits[0].Distance, 1e-5)

	sc.Geometries[0].Index = []uint32{0, 1, 7}
	_, err = Build(sc, gpu.NewMemory())
	assert.ErrorContains(t, err, "index 7 out of range for 3 vertices")
}

func TestSaveOpen(t *testing.T) {
	sc, err := Read(strings.NewReader(demo))
	require.NoError(t, err)
	fn := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, sc.Save(fn))
	got, err := Open(fn)
	require.NoError(t, err)
	assert.Equal(t, sc, got)

	_, err = Open(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#102030")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x10, 0x20, 0x30, 0xff}, c)
	c, err = ParseHex("abc")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xaa, 0xbb, 0xcc, 0xff}, c)
	c, err = ParseHex("#01020304")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{1, 2, 3, 4}, c)
	_, err = ParseHex("#12345")
	assert.Error(t, err)
	_, err = ParseHex("#gggggg")
	assert.Error(t, err)
}
