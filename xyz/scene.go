// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"cmp"
	"slices"

	"cogentcore.org/dispose/gpu"
	"cogentcore.org/dispose/math32"
	"cogentcore.org/dispose/tree"
)

// Resources are the distinct geometries and materials used in a subtree.
type Resources struct {
	Geometries []*Geometry
	Materials  []*Material
}

// CollectResources returns the distinct geometries and materials used
// by the given node and all of its descendants, in tree order.
func CollectResources(root tree.Node) Resources {
	var res Resources
	gs := map[*Geometry]bool{}
	ms := map[*Material]bool{}
	root.AsTree().WalkDown(func(n tree.Node) bool {
		ob := AsObject(n)
		if ob == nil {
			return tree.Continue
		}
		if g := ob.geometry; g != nil && !gs[g] {
			gs[g] = true
			res.Geometries = append(res.Geometries, g)
		}
		for _, mt := range ob.materials {
			if mt != nil && !ms[mt] {
				ms[mt] = true
				res.Materials = append(res.Materials, mt)
			}
		}
		return tree.Continue
	})
	return res
}

// Upload uploads all geometries and materials used in the subtree
// to the given device.
func Upload(root tree.Node, dev gpu.Device) error {
	res := CollectResources(root)
	for _, g := range res.Geometries {
		if err := g.Upload(dev); err != nil {
			return err
		}
	}
	for _, mt := range res.Materials {
		if err := mt.Upload(dev); err != nil {
			return err
		}
	}
	return nil
}

// Intersection is a hit of a ray with a mesh.
type Intersection struct {
	Mesh     *Mesh
	Distance float32
	Point    math32.Vector3
	Triangle int
}

// Raycast returns the intersection of the ray with the mesh geometry
// closest to the ray origin. It uses the bounds tree of the geometry when
// present, and otherwise tests every triangle. Positions are in the local
// coordinates of the mesh.
func (ms *Mesh) Raycast(ray *math32.Ray) (Intersection, bool) {
	g := ms.geometry
	if g == nil {
		return Intersection{}, false
	}
	if g.BoundsTree != nil && !g.BoundsTree.IsDisposed() {
		hit, ok := g.BoundsTree.Raycast(ray)
		if !ok {
			return Intersection{}, false
		}
		return Intersection{Mesh: ms, Distance: hit.Distance, Point: hit.Point, Triangle: hit.Triangle}, true
	}
	pos := g.Positions()
	nvtx := len(pos) / 3
	ntri := len(g.Index) / 3
	if g.Index == nil {
		ntri = nvtx / 3
	}
	best := Intersection{Mesh: ms, Distance: math32.Infinity, Triangle: -1}
	for i := range ntri {
		a, b, c := 3*i, 3*i+1, 3*i+2
		if g.Index != nil {
			a, b, c = int(g.Index[a]), int(g.Index[b]), int(g.Index[c])
			if a >= nvtx || b >= nvtx || c >= nvtx {
				continue
			}
		}
		d, ok := ray.IntersectTriangle(math32.Vector3FromArray(pos, 3*a), math32.Vector3FromArray(pos, 3*b), math32.Vector3FromArray(pos, 3*c), false)
		if ok && d < best.Distance {
			best.Distance = d
			best.Triangle = i
		}
	}
	if best.Triangle < 0 {
		return Intersection{}, false
	}
	best.Point = ray.At(best.Distance)
	return best, true
}

// RaycastAll returns the intersections of the ray with all visible meshes
// in the subtree, sorted by distance.
func RaycastAll(root tree.Node, ray *math32.Ray) []Intersection {
	var hits []Intersection
	root.AsTree().WalkDown(func(n tree.Node) bool {
		ob := AsObject(n)
		if ob != nil && !ob.Visible {
			return tree.Break
		}
		if ms, ok := n.(*Mesh); ok {
			if hit, ok := ms.Raycast(ray); ok {
				hits = append(hits, hit)
			}
		}
		return tree.Continue
	})
	slices.SortFunc(hits, func(a, b Intersection) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return hits
}
