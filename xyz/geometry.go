// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"

	"cogentcore.org/dispose/bvh"
	"cogentcore.org/dispose/gpu"
	"cogentcore.org/dispose/math32"
)

// Standard attribute names.
const (
	PositionAttr = "position"
	NormalAttr   = "normal"
	UVAttr       = "uv"
	ColorAttr    = "color"
)

// Attribute is one per-vertex attribute of a [Geometry], stored as a
// flat array of ItemSize float32 components per vertex.
type Attribute struct {
	Name     string
	ItemSize int
	Data     []float32

	buffer *gpu.Buffer
}

// Count returns the number of vertices in the attribute.
func (at *Attribute) Count() int {
	if at.ItemSize == 0 {
		return 0
	}
	return len(at.Data) / at.ItemSize
}

// Buffer returns the device buffer of the attribute, or nil if it has
// not been uploaded.
func (at *Attribute) Buffer() *gpu.Buffer {
	return at.buffer
}

// Geometry holds the vertex attributes and optional triangle index of
// a [Mesh] or [LineSegments], along with their device buffers and an
// optional bounds tree for accelerated ray casting. A geometry can be
// shared by several objects.
type Geometry struct {

	// UUID uniquely identifies the geometry.
	UUID string

	// Name is a descriptive name for the geometry.
	Name string

	// Attributes are the vertex attributes in upload order.
	Attributes []*Attribute

	// Index is the optional triangle or line index.
	Index []uint32

	// BBox is the bounding box computed by [Geometry.ComputeBoundingBox].
	BBox math32.Box3

	// BoundsTree is the optional bounding volume hierarchy over the
	// triangles of the geometry; see [Geometry.ComputeBoundsTree].
	BoundsTree *bvh.Tree

	indexBuffer *gpu.Buffer
	onDispose   []func(g *Geometry)
}

// NewGeometry returns a new empty geometry with the given name.
func NewGeometry(name string) *Geometry {
	return &Geometry{UUID: uuid.NewString(), Name: name, BBox: math32.B3Empty()}
}

// SetAttribute sets the attribute with the given name, replacing
// any existing attribute of that name, and returns it.
func (g *Geometry) SetAttribute(name string, itemSize int, data []float32) *Attribute {
	at := &Attribute{Name: name, ItemSize: itemSize, Data: data}
	if i := slices.IndexFunc(g.Attributes, func(a *Attribute) bool { return a.Name == name }); i >= 0 {
		g.Attributes[i].buffer.Release()
		g.Attributes[i] = at
	} else {
		g.Attributes = append(g.Attributes, at)
	}
	return at
}

// Attribute returns the attribute with the given name, or nil.
func (g *Geometry) Attribute(name string) *Attribute {
	for _, at := range g.Attributes {
		if at.Name == name {
			return at
		}
	}
	return nil
}

// Positions returns the position data, or nil if there is none.
func (g *Geometry) Positions() []float32 {
	if at := g.Attribute(PositionAttr); at != nil {
		return at.Data
	}
	return nil
}

// SetIndex sets the triangle or line index.
func (g *Geometry) SetIndex(index []uint32) {
	g.indexBuffer.Release()
	g.indexBuffer = nil
	g.Index = index
}

// IndexBuffer returns the device index buffer, or nil.
func (g *Geometry) IndexBuffer() *gpu.Buffer {
	return g.indexBuffer
}

// ComputeBoundingBox computes [Geometry.BBox] from the positions.
func (g *Geometry) ComputeBoundingBox() math32.Box3 {
	g.BBox = math32.B3Empty()
	pos := g.Positions()
	for i := 0; i+2 < len(pos); i += 3 {
		g.BBox.ExpandByPoint(math32.Vector3FromArray(pos, i))
	}
	return g.BBox
}

// ComputeBoundsTree builds [Geometry.BoundsTree] over the triangles of
// the geometry, disposing of any existing tree first.
func (g *Geometry) ComputeBoundsTree(opts *bvh.Options) error {
	g.DisposeBoundsTree()
	tr, err := bvh.Build(g.Positions(), g.Index, opts)
	if err != nil {
		return fmt.Errorf("xyz.Geometry %s: %w", g.Name, err)
	}
	g.BoundsTree = tr
	return nil
}

// DisposeBoundsTree disposes of the bounds tree and clears it.
// It does nothing if there is no bounds tree.
func (g *Geometry) DisposeBoundsTree() {
	if g.BoundsTree == nil {
		return
	}
	g.BoundsTree.Dispose()
	g.BoundsTree = nil
}

// Upload creates device buffers for all attributes and the index,
// releasing any existing ones first. If the geometry has a bounds tree,
// it is uploaded as well.
func (g *Geometry) Upload(dev gpu.Device) error {
	for _, at := range g.Attributes {
		at.buffer.Release()
		buf, err := gpu.NewBuffer(dev, g.Name+"/"+at.Name, gpu.Vertex, float32Bytes(at.Data))
		if err != nil {
			return err
		}
		at.buffer = buf
	}
	g.indexBuffer.Release()
	g.indexBuffer = nil
	if len(g.Index) > 0 {
		buf, err := gpu.NewBuffer(dev, g.Name+"/index", gpu.Index, uint32Bytes(g.Index))
		if err != nil {
			return err
		}
		g.indexBuffer = buf
	}
	if g.BoundsTree != nil {
		if err := g.BoundsTree.Upload(dev, g.Name+"/bvh"); err != nil {
			return err
		}
	}
	return nil
}

// IsUploaded returns whether any device buffer of the geometry is live.
func (g *Geometry) IsUploaded() bool {
	if !g.indexBuffer.IsReleased() {
		return true
	}
	for _, at := range g.Attributes {
		if !at.buffer.IsReleased() {
			return true
		}
	}
	return false
}

// OnDispose adds a function that is called every time the geometry
// is disposed.
func (g *Geometry) OnDispose(fun func(g *Geometry)) {
	g.onDispose = append(g.onDispose, fun)
}

// Dispose releases the device buffers of the attributes and index and
// then calls the [Geometry.OnDispose] functions. The vertex data is kept,
// so the geometry can be uploaded again. It does not touch the bounds
// tree, which must be disposed first with [Geometry.DisposeBoundsTree]
// when the geometry is no longer used. Disposing twice releases nothing
// the second time.
func (g *Geometry) Dispose() {
	for _, at := range g.Attributes {
		at.buffer.Release()
		at.buffer = nil
	}
	g.indexBuffer.Release()
	g.indexBuffer = nil
	for _, fun := range g.onDispose {
		fun(g)
	}
}

func float32Bytes(data []float32) []byte {
	b := make([]byte, 0, 4*len(data))
	for _, v := range data {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

func uint32Bytes(data []uint32) []byte {
	b := make([]byte, 0, 4*len(data))
	for _, v := range data {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return b
}
