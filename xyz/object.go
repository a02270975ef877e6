// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"github.com/google/uuid"

	"cogentcore.org/dispose/tree"
)

// Visual is the capability set of a scene graph node that owns GPU
// resources: a geometry, materials (one or a sequence), children and a
// parent it can be detached from. [Mesh], [LineSegments] and [Group]
// all implement it through the embedded [Object].
type Visual interface {
	tree.Node

	// AsObject returns the [Object] of the node.
	AsObject() *Object

	// Geometry returns the geometry, or nil if there is none.
	Geometry() *Geometry

	// SetGeometry sets the geometry; nil clears it.
	SetGeometry(g *Geometry)

	// Materials returns the materials in order; a single material is
	// returned as a one element slice.
	Materials() []*Material

	// ClearMaterials empties the material list without disposing anything.
	ClearMaterials()

	// RemoveFromParent detaches the node from its parent.
	RemoveFromParent() bool

	// ClearChildren empties the child list without disposing anything.
	ClearChildren()
}

// Object is the base type for all scene graph nodes. It is not itself
// rendered unless it has a geometry.
type Object struct {
	tree.NodeBase

	// UUID uniquely identifies the object; it is assigned on initialization.
	UUID string `copier:"-"`

	// Visible is whether the object and its children are rendered.
	Visible bool

	geometry      *Geometry
	materials     []*Material
	multiMaterial bool
}

// AsObject returns the [Object] for this node.
func (ob *Object) AsObject() *Object {
	return ob
}

// AsObject returns the [Object] of the given node,
// or nil if it is not a scene graph node.
func AsObject(n tree.Node) *Object {
	if v, ok := n.(Visual); ok {
		return v.AsObject()
	}
	return nil
}

func (ob *Object) Init() {
	if ob.UUID == "" {
		ob.UUID = uuid.NewString()
	}
	ob.Visible = true
}

// Geometry returns the geometry, or nil if there is none.
func (ob *Object) Geometry() *Geometry {
	return ob.geometry
}

// SetGeometry sets the geometry; nil clears it.
func (ob *Object) SetGeometry(g *Geometry) {
	ob.geometry = g
}

// Material returns the first material, or nil if there is none.
func (ob *Object) Material() *Material {
	if len(ob.materials) == 0 {
		return nil
	}
	return ob.materials[0]
}

// Materials returns the materials in order.
func (ob *Object) Materials() []*Material {
	return ob.materials
}

// SetMaterial sets a single material for the whole object.
func (ob *Object) SetMaterial(mt *Material) {
	ob.multiMaterial = false
	if mt == nil {
		ob.materials = nil
		return
	}
	ob.materials = []*Material{mt}
}

// SetMaterials sets a sequence of materials, one per geometry group.
func (ob *Object) SetMaterials(mts ...*Material) {
	ob.multiMaterial = true
	ob.materials = mts
}

// IsMultiMaterial returns whether the object has a material sequence
// rather than a single material.
func (ob *Object) IsMultiMaterial() bool {
	return ob.multiMaterial
}

// ClearMaterials empties the material list without disposing anything.
// The object is left with an empty material sequence.
func (ob *Object) ClearMaterials() {
	ob.materials = []*Material{}
	ob.multiMaterial = true
}

// ClearChildren empties the child list without disposing anything.
// Any remaining children no longer have a parent.
func (ob *Object) ClearChildren() {
	for _, kid := range ob.Children {
		if kid != nil && kid.AsTree().Parent == ob.This {
			kid.AsTree().Parent = nil
		}
	}
	ob.Children = []tree.Node{}
}

// CopyFieldsFrom copies the fields of the given object, sharing its
// geometry and materials like a clone in a typical scene graph does.
func (ob *Object) CopyFieldsFrom(from tree.Node) {
	ob.NodeBase.CopyFieldsFrom(from)
	fo := AsObject(from)
	if fo == nil {
		return
	}
	ob.geometry = fo.geometry
	ob.materials = append([]*Material(nil), fo.materials...)
	ob.multiMaterial = fo.multiMaterial
}

// Group is a node that only holds children.
type Group struct {
	Object
}

// NewGroup returns a new group with the given optional parent.
func NewGroup(parent tree.Node, name string) *Group {
	gp := tree.New[*Group](parent)
	if name != "" {
		gp.Name = name
	}
	return gp
}

// Mesh is an object rendered as triangles of its geometry,
// shaded with its materials.
type Mesh struct {
	Object
}

// NewMesh returns a new mesh with the given optional parent, geometry and
// materials. A single material is set with [Object.SetMaterial]; more than
// one is set as a sequence.
func NewMesh(parent tree.Node, name string, geom *Geometry, mats ...*Material) *Mesh {
	ms := tree.New[*Mesh](parent)
	if name != "" {
		ms.Name = name
	}
	ms.geometry = geom
	setMaterials(&ms.Object, mats)
	return ms
}

// LineSegments is an object rendered as line segments between each
// consecutive pair of vertices of its geometry.
type LineSegments struct {
	Object

	// Width is the line width in pixels.
	Width float32
}

// NewLineSegments returns new line segments with the given optional parent,
// geometry and materials.
func NewLineSegments(parent tree.Node, name string, geom *Geometry, mats ...*Material) *LineSegments {
	ls := tree.New[*LineSegments](parent)
	if name != "" {
		ls.Name = name
	}
	ls.Width = 1
	ls.geometry = geom
	setMaterials(&ls.Object, mats)
	return ls
}

func setMaterials(ob *Object, mats []*Material) {
	switch len(mats) {
	case 0:
	case 1:
		ob.SetMaterial(mats[0])
	default:
		ob.SetMaterials(mats...)
	}
}
