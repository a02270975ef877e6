// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import "cogentcore.org/dispose/math32"

// NewBox returns a box geometry of the given size centered at the origin,
// with 4 vertices and 2 triangles per face, and normals and uvs.
func NewBox(name string, width, height, depth float32) *Geometry {
	hw, hh, hd := width/2, height/2, depth/2
	type face struct {
		n      math32.Vector3
		u, v   math32.Vector3 // in-plane axes scaled to half extents
		center math32.Vector3
	}
	faces := []face{
		{math32.Vec3(1, 0, 0), math32.Vec3(0, 0, -hd), math32.Vec3(0, hh, 0), math32.Vec3(hw, 0, 0)},
		{math32.Vec3(-1, 0, 0), math32.Vec3(0, 0, hd), math32.Vec3(0, hh, 0), math32.Vec3(-hw, 0, 0)},
		{math32.Vec3(0, 1, 0), math32.Vec3(hw, 0, 0), math32.Vec3(0, 0, -hd), math32.Vec3(0, hh, 0)},
		{math32.Vec3(0, -1, 0), math32.Vec3(hw, 0, 0), math32.Vec3(0, 0, hd), math32.Vec3(0, -hh, 0)},
		{math32.Vec3(0, 0, 1), math32.Vec3(hw, 0, 0), math32.Vec3(0, hh, 0), math32.Vec3(0, 0, hd)},
		{math32.Vec3(0, 0, -1), math32.Vec3(-hw, 0, 0), math32.Vec3(0, hh, 0), math32.Vec3(0, 0, -hd)},
	}
	pos := make([]float32, 0, 6*4*3)
	norm := make([]float32, 0, 6*4*3)
	uv := make([]float32, 0, 6*4*2)
	idx := make([]uint32, 0, 6*6)
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for fi, f := range faces {
		for _, c := range corners {
			p := f.center.Add(f.u.MulScalar(c[0])).Add(f.v.MulScalar(c[1]))
			pos = append(pos, p.X, p.Y, p.Z)
			norm = append(norm, f.n.X, f.n.Y, f.n.Z)
			uv = append(uv, (c[0]+1)/2, (c[1]+1)/2)
		}
		b := uint32(fi * 4)
		idx = append(idx, b, b+1, b+2, b, b+2, b+3)
	}
	g := NewGeometry(name)
	g.SetAttribute(PositionAttr, 3, pos)
	g.SetAttribute(NormalAttr, 3, norm)
	g.SetAttribute(UVAttr, 2, uv)
	g.SetIndex(idx)
	g.ComputeBoundingBox()
	return g
}

// NewPlane returns a plane geometry of the given size in the XY plane,
// facing +Z, divided into the given number of segments in each direction.
func NewPlane(name string, width, height float32, segsX, segsY int) *Geometry {
	segsX = max(segsX, 1)
	segsY = max(segsY, 1)
	var pos, norm, uv []float32
	var idx []uint32
	for y := 0; y <= segsY; y++ {
		for x := 0; x <= segsX; x++ {
			fx := float32(x) / float32(segsX)
			fy := float32(y) / float32(segsY)
			pos = append(pos, (fx-0.5)*width, (fy-0.5)*height, 0)
			norm = append(norm, 0, 0, 1)
			uv = append(uv, fx, fy)
		}
	}
	row := uint32(segsX + 1)
	for y := uint32(0); y < uint32(segsY); y++ {
		for x := uint32(0); x < uint32(segsX); x++ {
			a := y*row + x
			idx = append(idx, a, a+1, a+row+1, a, a+row+1, a+row)
		}
	}
	g := NewGeometry(name)
	g.SetAttribute(PositionAttr, 3, pos)
	g.SetAttribute(NormalAttr, 3, norm)
	g.SetAttribute(UVAttr, 2, uv)
	g.SetIndex(idx)
	g.ComputeBoundingBox()
	return g
}

// NewLines returns a line segment geometry from the given points, where
// every two consecutive points form one segment.
func NewLines(name string, points ...math32.Vector3) *Geometry {
	pos := make([]float32, 0, 3*len(points))
	for _, p := range points {
		pos = append(pos, p.X, p.Y, p.Z)
	}
	g := NewGeometry(name)
	g.SetAttribute(PositionAttr, 3, pos)
	g.ComputeBoundingBox()
	return g
}
