// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bvh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/dispose/gpu"
	"cogentcore.org/dispose/math32"
)

// grid returns an n x n grid of unit quads in the z = 0 plane,
// two triangles per quad, with an index.
func grid(n int) ([]float32, []uint32) {
	var pos []float32
	var idx []uint32
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			pos = append(pos, float32(x), float32(y), 0)
		}
	}
	row := uint32(n + 1)
	for y := uint32(0); y < uint32(n); y++ {
		for x := uint32(0); x < uint32(n); x++ {
			a := y*row + x
			idx = append(idx, a, a+1, a+row+1, a, a+row+1, a+row)
		}
	}
	return pos, idx
}

func TestBuild(t *testing.T) {
	pos, idx := grid(8)
	tr, err := Build(pos, idx, &Options{MaxLeafTris: 4, MaxDepth: 40})
	require.NoError(t, err)
	assert.Equal(t, 128, tr.NumTriangles())
	assert.Greater(t, tr.NumNodes(), 1)
	assert.Equal(t, math32.B3(0, 0, 0, 8, 8, 0), tr.Bounds())

	// every triangle is in exactly one leaf
	seen := map[int32]bool{}
	for _, nd := range tr.Nodes {
		if !nd.IsLeaf() {
			continue
		}
		assert.LessOrEqual(t, int(nd.Count), 4)
		for _, ti := range tr.tris[nd.Start : nd.Start+nd.Count] {
			assert.False(t, seen[ti])
			seen[ti] = true
		}
	}
	assert.Len(t, seen, 128)
}

func TestBuildErrors(t *testing.T) {
	_, err := Build([]float32{0, 0}, nil, nil)
	assert.Error(t, err)
	_, err = Build([]float32{0, 0, 0, 1, 1, 1}, nil, nil)
	assert.Error(t, err)
	_, err = Build([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, []uint32{0, 1, 5}, nil)
	assert.Error(t, err)
	_, err = Build([]float32{0, 0, 0}, []uint32{0}, nil)
	assert.Error(t, err)
	_, err = Build(nil, nil, nil)
	assert.Error(t, err)
}

func TestRaycast(t *testing.T) {
	pos, idx := grid(8)
	tr, err := Build(pos, idx, nil)
	require.NoError(t, err)

	hit, ok := tr.Raycast(math32.NewRay(math32.Vec3(2.25, 3.75, 5), math32.Vec3(0, 0, -1)))
	require.True(t, ok)
	assert.InDelta(t, 5, hit.Distance, 1e-5)
	assert.InDelta(t, 2.25, hit.Point.X, 1e-5)
	assert.InDelta(t, 3.75, hit.Point.Y, 1e-5)
	// quad (2, 3) is number 26; its upper-left half is the second triangle
	assert.Equal(t, 53, hit.Triangle)

	_, ok = tr.Raycast(math32.NewRay(math32.Vec3(20, 20, 5), math32.Vec3(0, 0, -1)))
	assert.False(t, ok)
}

func TestNonIndexed(t *testing.T) {
	pos := []float32{
		0, 0, 0, 1, 0, 0, 0, 1, 0,
		0, 0, 2, 1, 0, 2, 0, 1, 2,
	}
	tr, err := Build(pos, nil, &Options{MaxLeafTris: 1, MaxDepth: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, tr.NumNodes())
	hit, ok := tr.Raycast(math32.NewRay(math32.Vec3(0.2, 0.2, 5), math32.Vec3(0, 0, -1)))
	require.True(t, ok)
	assert.Equal(t, 1, hit.Triangle)
	assert.InDelta(t, 3, hit.Distance, 1e-5)

	assert.True(t, tr.IntersectsBox(math32.B3(0.1, 0.1, 1.9, 0.2, 0.2, 2.1)))
	assert.False(t, tr.IntersectsBox(math32.B3(0.1, 0.1, 0.5, 0.2, 0.2, 1.5)))
}

func TestUploadDispose(t *testing.T) {
	pos, idx := grid(4)
	tr, err := Build(pos, idx, nil)
	require.NoError(t, err)
	assert.Len(t, tr.Pack(), tr.NumNodes()*nodeBytes)

	mem := gpu.NewMemory()
	require.NoError(t, tr.Upload(mem, "bvh"))
	require.NotNil(t, tr.Buffer())
	assert.Equal(t, 1, mem.Stats().Buffers)

	// re-upload replaces the buffer
	require.NoError(t, tr.Upload(mem, "bvh"))
	assert.Equal(t, 1, mem.Stats().Buffers)

	tr.Dispose()
	assert.True(t, tr.IsDisposed())
	assert.Equal(t, 0, mem.Stats().Leaked())
	assert.Nil(t, tr.Buffer())
	assert.True(t, tr.Bounds().IsEmpty())
	_, ok := tr.Raycast(math32.NewRay(math32.Vec3(1, 1, 5), math32.Vec3(0, 0, -1)))
	assert.False(t, ok)
	assert.False(t, tr.IntersectsBox(math32.B3(0, 0, 0, 4, 4, 4)))
	assert.NotPanics(t, tr.Dispose)
}
