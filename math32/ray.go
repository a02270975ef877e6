// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed to suit Cogent Core functionality.

package math32

// Ray represents an oriented 3D line segment defined by an origin point and a direction vector.
type Ray struct {
	Origin Vector3
	Dir    Vector3
}

// NewRay creates and returns a pointer to a Ray object with
// the specified origin and direction vectors.
func NewRay(origin, dir Vector3) *Ray {
	return &Ray{Origin: origin, Dir: dir}
}

// At returns the point along the ray at the given distance t.
func (ray *Ray) At(t float32) Vector3 {
	return ray.Dir.MulScalar(t).Add(ray.Origin)
}

// IntersectBox returns the entry distance of this ray into the given box
// using the slab method, and whether it intersects at all.
// A ray starting inside the box returns a distance of 0.
func (ray *Ray) IntersectBox(box Box3) (float32, bool) {
	tmin := -Infinity
	tmax := Infinity
	for _, d := range [3]Dims{X, Y, Z} {
		o := ray.Origin.Dim(d)
		dir := ray.Dir.Dim(d)
		lo := box.Min.Dim(d)
		hi := box.Max.Dim(d)
		if dir == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		inv := 1 / dir
		t0 := (lo - o) * inv
		t1 := (hi - o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = Max(tmin, t0)
		tmax = Min(tmax, t1)
		if tmax < tmin {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	return Max(tmin, 0), true
}

// IntersectTriangle returns the distance along the ray at which it
// intersects the triangle a, b, c, using the Möller-Trumbore algorithm.
// If backfaceCulling is true, triangles facing away from the ray are ignored.
func (ray *Ray) IntersectTriangle(a, b, c Vector3, backfaceCulling bool) (float32, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	p := ray.Dir.Cross(edge2)
	det := edge1.Dot(p)
	// the cutoff is relative to the lengths of the edges and the direction
	eps := 1e-7 * edge1.Length() * edge2.Length() * ray.Dir.Length()
	if backfaceCulling {
		if det <= eps {
			return 0, false
		}
	} else if Abs(det) <= eps {
		return 0, false
	}
	inv := 1 / det
	s := ray.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := ray.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := edge2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
