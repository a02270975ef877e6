// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bvh builds bounding volume hierarchies over triangle
// geometry, for fast ray casting and overlap queries. A [Tree] can be
// uploaded to a [gpu.Device] as a storage buffer, and must then be
// disposed before the geometry it was built from.
package bvh

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"cogentcore.org/dispose/gpu"
	"cogentcore.org/dispose/math32"
)

// Options are the build parameters of a [Tree].
type Options struct {

	// MaxLeafTris is the maximum number of triangles in a leaf node.
	MaxLeafTris int `default:"10" yaml:"maxLeafTris,omitempty"`

	// MaxDepth is the maximum depth of the tree; nodes at this depth
	// become leaves regardless of their triangle count.
	MaxDepth int `default:"40" yaml:"maxDepth,omitempty"`
}

// Defaults sets the default build parameters.
func (o *Options) Defaults() {
	o.MaxLeafTris = 10
	o.MaxDepth = 40
}

// Node is one node of a [Tree]. Interior nodes have Left and Right
// child indexes; leaves have Left == -1 and cover Count triangles
// starting at Start in the tree's triangle order.
type Node struct {
	Box   math32.Box3
	Left  int32
	Right int32
	Start int32
	Count int32
}

// IsLeaf returns whether the node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Left < 0
}

// Tree is a bounding volume hierarchy over the triangles of a geometry.
type Tree struct {

	// Nodes are the nodes of the tree, with the root at index 0.
	Nodes []Node

	// tris is the order of triangle indexes referenced by leaves.
	tris []int32

	positions []float32
	index     []uint32

	buffer *gpu.Buffer
}

type buildTri struct {
	box      math32.Box3
	centroid math32.Vector3
}

// Build builds a tree over the triangles given by the xyz vertex positions
// and the optional triangle index. With a nil index every three
// consecutive vertices form a triangle. The tree keeps references to
// positions and index for queries; they must not be modified afterwards.
func Build(positions []float32, index []uint32, opts *Options) (*Tree, error) {
	if opts == nil {
		opts = &Options{}
		opts.Defaults()
	}
	if len(positions)%3 != 0 {
		return nil, fmt.Errorf("bvh.Build: positions length %d is not a multiple of 3", len(positions))
	}
	nvtx := len(positions) / 3
	var ntri int
	if index != nil {
		if len(index)%3 != 0 {
			return nil, fmt.Errorf("bvh.Build: index length %d is not a multiple of 3", len(index))
		}
		for _, ix := range index {
			if int(ix) >= nvtx {
				return nil, fmt.Errorf("bvh.Build: index %d out of range for %d vertices", ix, nvtx)
			}
		}
		ntri = len(index) / 3
	} else {
		if nvtx%3 != 0 {
			return nil, fmt.Errorf("bvh.Build: %d vertices do not form whole triangles", nvtx)
		}
		ntri = nvtx / 3
	}
	if ntri == 0 {
		return nil, fmt.Errorf("bvh.Build: geometry has no triangles")
	}
	t := &Tree{positions: positions, index: index, tris: make([]int32, ntri)}
	bts := make([]buildTri, ntri)
	for i := range ntri {
		tr := t.Triangle(i)
		bts[i] = buildTri{box: tr.BBox(), centroid: tr.Midpoint()}
		t.tris[i] = int32(i)
	}
	t.Nodes = make([]Node, 0, 2*ntri/max(opts.MaxLeafTris, 1)+1)
	t.split(bts, 0, ntri, 0, opts)
	return t, nil
}

// split builds the node for tris[start:end] and returns its index.
func (t *Tree) split(bts []buildTri, start, end, depth int, opts *Options) int32 {
	box := math32.B3Empty()
	cbox := math32.B3Empty()
	for _, ti := range t.tris[start:end] {
		box.ExpandByBox(bts[ti].box)
		cbox.ExpandByPoint(bts[ti].centroid)
	}
	ni := int32(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{Box: box, Left: -1, Right: -1, Start: int32(start), Count: int32(end - start)})
	count := end - start
	if count <= opts.MaxLeafTris || depth >= opts.MaxDepth {
		return ni
	}
	axis := cbox.LongestAxis()
	if cbox.Size().Dim(axis) == 0 { // all centroids coincide
		return ni
	}
	slices.SortFunc(t.tris[start:end], func(a, b int32) int {
		return cmp.Compare(bts[a].centroid.Dim(axis), bts[b].centroid.Dim(axis))
	})
	mid := start + count/2
	left := t.split(bts, start, mid, depth+1, opts)
	right := t.split(bts, mid, end, depth+1, opts)
	t.Nodes[ni].Left = left
	t.Nodes[ni].Right = right
	t.Nodes[ni].Count = 0
	return ni
}

// NumTriangles returns the number of triangles in the tree.
func (t *Tree) NumTriangles() int {
	return len(t.tris)
}

// NumNodes returns the number of nodes in the tree.
func (t *Tree) NumNodes() int {
	return len(t.Nodes)
}

// Bounds returns the bounding box of all triangles, which is
// empty for a disposed tree.
func (t *Tree) Bounds() math32.Box3 {
	if len(t.Nodes) == 0 {
		return math32.B3Empty()
	}
	return t.Nodes[0].Box
}

// Triangle returns the triangle with the given index in the source geometry.
func (t *Tree) Triangle(i int) math32.Triangle {
	var a, b, c int
	if t.index != nil {
		a, b, c = int(t.index[3*i]), int(t.index[3*i+1]), int(t.index[3*i+2])
	} else {
		a, b, c = 3*i, 3*i+1, 3*i+2
	}
	return math32.NewTriangle(
		math32.Vector3FromArray(t.positions, 3*a),
		math32.Vector3FromArray(t.positions, 3*b),
		math32.Vector3FromArray(t.positions, 3*c))
}

// Hit is the result of a successful [Tree.Raycast].
type Hit struct {

	// Distance is the distance along the ray to the hit point.
	Distance float32

	// Triangle is the index of the hit triangle in the source geometry.
	Triangle int

	// Point is the hit point.
	Point math32.Vector3
}

// Raycast returns the closest intersection of the ray with the
// triangles of the tree. Triangles are hit from both sides.
func (t *Tree) Raycast(ray *math32.Ray) (Hit, bool) {
	hit := Hit{Distance: math32.Infinity, Triangle: -1}
	if len(t.Nodes) == 0 {
		return hit, false
	}
	stack := []int32{0}
	for len(stack) > 0 {
		nd := &t.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		d, ok := ray.IntersectBox(nd.Box)
		if !ok || d > hit.Distance {
			continue
		}
		if !nd.IsLeaf() {
			stack = append(stack, nd.Right, nd.Left)
			continue
		}
		for _, ti := range t.tris[nd.Start : nd.Start+nd.Count] {
			tr := t.Triangle(int(ti))
			if td, ok := ray.IntersectTriangle(tr.A, tr.B, tr.C, false); ok && td < hit.Distance {
				hit.Distance = td
				hit.Triangle = int(ti)
			}
		}
	}
	if hit.Triangle < 0 {
		return hit, false
	}
	hit.Point = ray.At(hit.Distance)
	return hit, true
}

// IntersectsBox returns whether the bounding box of any triangle
// overlaps the given box.
func (t *Tree) IntersectsBox(box math32.Box3) bool {
	if len(t.Nodes) == 0 {
		return false
	}
	stack := []int32{0}
	for len(stack) > 0 {
		nd := &t.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !nd.Box.IntersectsBox(box) {
			continue
		}
		if !nd.IsLeaf() {
			stack = append(stack, nd.Right, nd.Left)
			continue
		}
		for _, ti := range t.tris[nd.Start : nd.Start+nd.Count] {
			if t.Triangle(int(ti)).BBox().IntersectsBox(box) {
				return true
			}
		}
	}
	return false
}

// nodeBytes is the packed size of one node: 8 x 4 bytes.
const nodeBytes = 32

// Pack returns the nodes packed for a storage buffer. Each node takes
// 32 bytes: min xyz then either the left child index (interior) or the
// negated leaf start minus one (leaf), and max xyz then the right child
// index or the leaf triangle count.
func (t *Tree) Pack() []byte {
	b := make([]byte, 0, len(t.Nodes)*nodeBytes)
	f := func(v float32) { b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v)) }
	i := func(v int32) { b = binary.LittleEndian.AppendUint32(b, uint32(v)) }
	for _, nd := range t.Nodes {
		f(nd.Box.Min.X)
		f(nd.Box.Min.Y)
		f(nd.Box.Min.Z)
		if nd.IsLeaf() {
			i(-nd.Start - 1)
		} else {
			i(nd.Left)
		}
		f(nd.Box.Max.X)
		f(nd.Box.Max.Y)
		f(nd.Box.Max.Z)
		if nd.IsLeaf() {
			i(nd.Count)
		} else {
			i(nd.Right)
		}
	}
	return b
}

// Upload packs the tree into a storage buffer on the given device, for
// use by GPU ray queries. Any previous buffer is released first.
func (t *Tree) Upload(dev gpu.Device, label string) error {
	t.buffer.Release()
	buf, err := gpu.NewBuffer(dev, label, gpu.Storage, t.Pack())
	if err != nil {
		return err
	}
	t.buffer = buf
	return nil
}

// Buffer returns the storage buffer of the tree, or nil if it has
// not been uploaded.
func (t *Tree) Buffer() *gpu.Buffer {
	return t.buffer
}

// Dispose releases the storage buffer and drops the node storage.
// Queries on a disposed tree find nothing. It is safe to call more than once.
func (t *Tree) Dispose() {
	t.buffer.Release()
	t.buffer = nil
	t.Nodes = nil
	t.tris = nil
	t.positions = nil
	t.index = nil
}

// IsDisposed returns whether [Tree.Dispose] has been called.
func (t *Tree) IsDisposed() bool {
	return t.Nodes == nil
}
