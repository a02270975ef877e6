// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disposer

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/dispose/gpu"
	"cogentcore.org/dispose/math32"
	"cogentcore.org/dispose/tools"
	"cogentcore.org/dispose/tree"
	"cogentcore.org/dispose/xyz"
)

func newDisposer(t *testing.T) *Disposer {
	d, err := New(tools.NewRegistry())
	require.NoError(t, err)
	return d
}

// counter counts the dispose calls of geometries and materials.
type counter struct {
	geoms map[*xyz.Geometry]int
	mats  map[*xyz.Material]int
}

func newCounter() *counter {
	return &counter{geoms: map[*xyz.Geometry]int{}, mats: map[*xyz.Material]int{}}
}

func (c *counter) geom(g *xyz.Geometry) *xyz.Geometry {
	g.OnDispose(func(g *xyz.Geometry) { c.geoms[g]++ })
	return g
}

func (c *counter) mat(mt *xyz.Material) *xyz.Material {
	mt.OnDispose(func(mt *xyz.Material) { c.mats[mt]++ })
	return mt
}

func assertCleared(t *testing.T, v xyz.Visual) {
	t.Helper()
	assert.Nil(t, v.Geometry(), v.AsTree().Name)
	assert.Empty(t, v.Materials(), v.AsTree().Name)
	assert.Empty(t, v.AsTree().Children, v.AsTree().Name)
	assert.Nil(t, v.AsTree().Parent, v.AsTree().Name)
}

func TestNew(t *testing.T) {
	reg := tools.NewRegistry()
	d, err := New(reg)
	require.NoError(t, err)
	got, ok := tools.Get[*Disposer](reg, ID)
	require.True(t, ok)
	assert.Same(t, d, got)
	assert.True(t, reg.IsEnabled(ID))
	d.SetEnabled(false)
	assert.False(t, reg.IsEnabled(ID))
	assert.True(t, tools.LibraryIDs.Has(ID))

	_, err = New(reg)
	assert.Error(t, err)

	d, err = New(nil)
	require.NoError(t, err)
	assert.NotNil(t, d.Get())
	assert.Equal(t, 0, d.Get().Len())

	var zero Disposer
	assert.NotNil(t, zero.Get())
}

func TestDestroyNonRecursive(t *testing.T) {
	d := newDisposer(t)
	c := newCounter()
	mem := gpu.NewMemory()

	parent := xyz.NewGroup(nil, "parent")
	m1 := c.mat(xyz.NewMaterial("m1", color.RGBA{255, 0, 0, 255}))
	m2 := c.mat(xyz.NewMaterial("m2", color.RGBA{0, 255, 0, 255}))
	g := c.geom(xyz.NewBox("box", 1, 1, 1))
	ms := xyz.NewMesh(parent, "mesh", g, m1, m2)
	kid := xyz.NewMesh(ms, "kid", c.geom(xyz.NewBox("kid", 1, 1, 1)))
	require.NoError(t, xyz.Upload(parent, mem))

	d.DestroyWith(ms, true, false)
	assertCleared(t, ms)
	assert.Empty(t, parent.Children)
	assert.Equal(t, 1, c.geoms[g])
	assert.Equal(t, 1, c.mats[m1])
	assert.Equal(t, 1, c.mats[m2])

	// the child is dropped without being destroyed
	assert.Nil(t, kid.Parent)
	assert.NotNil(t, kid.Geometry())
	assert.True(t, kid.Geometry().IsUploaded())
	assert.Equal(t, []string{"kid/index", "kid/normal", "kid/position", "kid/uv"}, mem.Live())
	assert.True(t, d.Get().Has(ms.UUID))
	assert.False(t, d.Get().Has(kid.UUID))
}

func TestDestroyRecursive(t *testing.T) {
	d := newDisposer(t)
	c := newCounter()
	mem := gpu.NewMemory()

	root := xyz.NewGroup(nil, "root")
	shared := c.mat(xyz.NewMaterial("shared", color.RGBA{}))
	a := xyz.NewMesh(root, "a", c.geom(xyz.NewBox("a", 1, 1, 1)), shared)
	b := xyz.NewMesh(a, "b", c.geom(xyz.NewPlane("b", 1, 1, 2, 2)), c.mat(xyz.NewMaterial("bm", color.RGBA{})))
	ls := xyz.NewLineSegments(b, "ls", c.geom(xyz.NewLines("ls", math32.Vec3(0, 0, 0), math32.Vec3(1, 1, 1))), shared)
	e := xyz.NewGroup(root, "empty")
	all := []xyz.Visual{root, a, b, ls, e}
	require.NoError(t, xyz.Upload(root, mem))
	assert.NotZero(t, mem.Stats().Leaked())

	d.Destroy(root)
	for _, v := range all {
		assertCleared(t, v)
		assert.True(t, d.Get().Has(v.AsObject().UUID))
	}
	assert.Equal(t, len(all), d.Get().Len())
	assert.Equal(t, 0, mem.Stats().Leaked(), mem.Live())
	for g, n := range c.geoms {
		assert.Equal(t, 1, n, g.Name)
	}
	// a material shared by two nodes is disposed by each of them
	assert.Equal(t, 2, c.mats[shared])
	assert.Len(t, c.mats, 2)
}

func TestDestroyKeepMaterials(t *testing.T) {
	d := newDisposer(t)
	c := newCounter()
	mem := gpu.NewMemory()

	root := xyz.NewMesh(nil, "root", xyz.NewBox("root", 1, 1, 1), c.mat(xyz.NewMaterial("rm", color.RGBA{})))
	kid := xyz.NewMesh(root, "kid", xyz.NewBox("kid", 1, 1, 1), c.mat(xyz.NewMaterial("km", color.RGBA{})))
	res := xyz.CollectResources(root)
	require.NoError(t, xyz.Upload(root, mem))

	d.DestroyWith(root, false, true)
	assertCleared(t, root)
	assertCleared(t, kid)
	assert.Empty(t, c.mats)
	// only the material uniforms are still live
	assert.Equal(t, []string{"km/uniform", "rm/uniform"}, mem.Live())
	for _, mt := range res.Materials {
		assert.NotNil(t, mt.Uniform())
	}
}

func TestBoundsTreeBeforeGeometry(t *testing.T) {
	d := newDisposer(t)
	mem := gpu.NewMemory()
	g := xyz.NewBox("g", 1, 1, 1)
	require.NoError(t, g.ComputeBoundsTree(nil))
	require.NoError(t, g.Upload(mem))
	bt := g.BoundsTree

	d.DisposeGeometry(g)
	assert.Nil(t, g.BoundsTree)
	assert.True(t, bt.IsDisposed())
	assert.Equal(t, []string{"g/bvh", "g/position", "g/normal", "g/uv", "g/index"}, mem.ReleaseLog())

	d.DisposeGeometry(nil)
	d.DisposeGeometry(g)
	assert.Len(t, mem.ReleaseLog(), 5)
}

func TestMissingResources(t *testing.T) {
	d := newDisposer(t)
	parent := xyz.NewGroup(nil, "parent")
	bare := xyz.NewMesh(parent, "bare", nil)
	noTree := xyz.NewMesh(bare, "notree", xyz.NewBox("notree", 1, 1, 1))
	noMats := xyz.NewMesh(bare, "nomats", nil)
	noMats.SetMaterials()
	nilMat := xyz.NewMesh(bare, "nilmat", nil)
	nilMat.SetMaterials(nil, nil)
	assert.NotPanics(t, func() {
		d.Destroy(bare)
	})
	for _, v := range []xyz.Visual{bare, noTree, noMats, nilMat} {
		assertCleared(t, v)
	}
	assert.Empty(t, parent.Children)

	assert.NotPanics(t, func() {
		d.Destroy(nil)
		d.Destroy((*xyz.Mesh)(nil))
		d.DestroyWith((*xyz.Group)(nil), false, true)
		d.Destroy(bare)
	})
	assert.Equal(t, 4, d.Get().Len())
}

func TestStructuralChildren(t *testing.T) {
	d := newDisposer(t)
	c := newCounter()
	root := xyz.NewGroup(nil, "root")
	plain := tree.New[*tree.NodeBase](root)
	g := c.geom(xyz.NewBox("deep", 1, 1, 1))
	deep := xyz.NewMesh(plain, "deep", g)

	d.Destroy(root)
	assertCleared(t, root)
	assertCleared(t, deep)
	assert.Nil(t, plain.Parent)
	assert.Empty(t, plain.Children)
	assert.Equal(t, 1, c.geoms[g])
}

// TestDestroyExample destroys a root R with geometry G1, which has bounds
// tree B1, and material M1, and a child C with geometry G2 and material M2.
func TestDestroyExample(t *testing.T) {
	d := newDisposer(t)
	mem := gpu.NewMemory()

	g1 := xyz.NewBox("G1", 1, 1, 1)
	require.NoError(t, g1.ComputeBoundsTree(nil))
	m1 := xyz.NewMaterial("M1", color.RGBA{255, 0, 0, 255})
	r := xyz.NewMesh(nil, "R", g1, m1)
	g2 := xyz.NewLines("G2", math32.Vec3(0, 0, 0), math32.Vec3(0, 1, 0))
	m2 := xyz.NewMaterial("M2", color.RGBA{0, 0, 255, 255})
	cn := xyz.NewLineSegments(r, "C", g2, m2)
	require.NoError(t, xyz.Upload(r, mem))

	d.Destroy(r)
	want := []string{
		"G1/bvh", "G1/position", "G1/normal", "G1/uv", "G1/index",
		"M1/uniform",
		"G2/position",
		"M2/uniform",
	}
	assert.Equal(t, want, mem.ReleaseLog())
	assert.Equal(t, 0, mem.Stats().Leaked())
	assertCleared(t, r)
	assertCleared(t, cn)
	assert.NotNil(t, r.Materials())
	assert.Equal(t, sorted(r.UUID, cn.UUID), d.Get().Sorted())
}

func sorted(ids ...string) []string {
	rec := Record{}
	for _, id := range ids {
		rec[id] = struct{}{}
	}
	return rec.Sorted()
}
