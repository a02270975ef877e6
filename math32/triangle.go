// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed to suit Cogent Core functionality.

package math32

// Triangle represents a triangle made of three vertices.
type Triangle struct {
	A Vector3
	B Vector3
	C Vector3
}

// NewTriangle returns a new Triangle object.
func NewTriangle(a, b, c Vector3) Triangle {
	return Triangle{a, b, c}
}

// Normal returns the triangle's normal.
func Normal(a, b, c Vector3) Vector3 {
	nv := c.Sub(b).Cross(a.Sub(b))
	lenSq := nv.LengthSquared()
	if lenSq > 0 {
		return nv.MulScalar(1 / Sqrt(lenSq))
	}
	return Vector3{}
}

// Normal returns the triangle's normal.
func (t Triangle) Normal() Vector3 {
	return Normal(t.A, t.B, t.C)
}

// Midpoint returns the centroid of the triangle.
func (t Triangle) Midpoint() Vector3 {
	return t.A.Add(t.B).Add(t.C).MulScalar(1.0 / 3.0)
}

// BBox returns the bounding box of the triangle.
func (t Triangle) BBox() Box3 {
	bb := B3Empty()
	bb.ExpandByPoint(t.A)
	bb.ExpandByPoint(t.B)
	bb.ExpandByPoint(t.C)
	return bb
}
