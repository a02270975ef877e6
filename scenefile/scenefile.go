// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scenefile reads scene descriptions in YAML and builds them
// into [xyz] scene graphs.
//
// A scene has named geometries and materials, which nodes refer to by
// name so that they can be shared, and a tree of nodes:
//
//	name: demo
//	geometries:
//	  - name: cube
//	    box: [1, 1, 1]
//	    boundsTree: true
//	materials:
//	  - name: red
//	    color: "#ff0000"
//	nodes:
//	  - name: cube
//	    kind: mesh
//	    geometry: cube
//	    materials: [red]
package scenefile

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"cogentcore.org/dispose/base/iox/yamlx"
	"cogentcore.org/dispose/bvh"
	"cogentcore.org/dispose/gpu"
	"cogentcore.org/dispose/math32"
	"cogentcore.org/dispose/tree"
	"cogentcore.org/dispose/xyz"
)

// Node kinds.
const (
	KindGroup = "group"
	KindMesh  = "mesh"
	KindLines = "lines"
)

// Scene is the description of a whole scene.
type Scene struct {
	Name       string      `yaml:"name"`
	Geometries []*Geometry `yaml:"geometries,omitempty"`
	Materials  []*Material `yaml:"materials,omitempty"`
	Nodes      []*Node     `yaml:"nodes,omitempty"`

	// BoundsTree holds options for building bounds trees, for geometries
	// that have one. Unset options keep their defaults.
	BoundsTree *bvh.Options `yaml:"boundsTreeOptions,omitempty"`
}

// Geometry describes one geometry. Exactly one of Box, Plane, Lines and
// Positions must be set.
type Geometry struct {
	Name string `yaml:"name"`

	// Box is the width, height and depth of a box.
	Box []float32 `yaml:"box,omitempty"`

	// Plane is a plane in the XY plane.
	Plane *Plane `yaml:"plane,omitempty"`

	// Lines are xyz points, two per line segment.
	Lines [][]float32 `yaml:"lines,omitempty"`

	// Positions are raw xyz vertex positions, with an optional Index.
	Positions []float32 `yaml:"positions,omitempty"`
	Index     []uint32  `yaml:"index,omitempty"`

	// BoundsTree is whether to build a bounds tree for the geometry.
	BoundsTree bool `yaml:"boundsTree,omitempty"`
}

// Plane describes a plane geometry.
type Plane struct {
	Size     []float32 `yaml:"size"`
	Segments []int     `yaml:"segments,omitempty"`
}

// Material describes one material.
type Material struct {
	Name string `yaml:"name"`

	// Color is a hex color: #rgb, #rrggbb or #rrggbbaa.
	Color    string   `yaml:"color,omitempty"`
	Emissive string   `yaml:"emissive,omitempty"`
	Opacity  *float32 `yaml:"opacity,omitempty"`
	Shiny    *float32 `yaml:"shiny,omitempty"`
}

// Node describes one node of the scene tree.
type Node struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Geometry  string   `yaml:"geometry,omitempty"`
	Materials []string `yaml:"materials,omitempty"`
	Hidden    bool     `yaml:"hidden,omitempty"`
	Width     float32  `yaml:"width,omitempty"`
	Children  []*Node  `yaml:"children,omitempty"`
}

// Open reads a scene from the given YAML file.
func Open(filename string) (*Scene, error) {
	sc := &Scene{}
	if err := yamlx.Open(sc, filename); err != nil {
		return nil, fmt.Errorf("scenefile.Open %s: %w", filename, err)
	}
	return sc, nil
}

// Read reads a scene from the given YAML reader.
func Read(r io.Reader) (*Scene, error) {
	sc := &Scene{}
	if err := yamlx.Read(sc, r); err != nil {
		return nil, fmt.Errorf("scenefile.Read: %w", err)
	}
	return sc, nil
}

// Save writes the scene to the given YAML file.
func (sc *Scene) Save(filename string) error {
	return yamlx.Save(sc, filename)
}

// Build builds the scene graph for the scene under a new root group named
// after the scene. If dev is non-nil, all geometries and materials in use
// are uploaded to it; on an upload error, everything uploaded so far is
// disposed again.
func Build(sc *Scene, dev gpu.Device) (*xyz.Group, error) {
	b := &builder{geoms: map[string]*xyz.Geometry{}, mats: map[string]*xyz.Material{}}
	b.opts.Defaults()
	if o := sc.BoundsTree; o != nil {
		if o.MaxLeafTris > 0 {
			b.opts.MaxLeafTris = o.MaxLeafTris
		}
		if o.MaxDepth > 0 {
			b.opts.MaxDepth = o.MaxDepth
		}
	}
	for _, gd := range sc.Geometries {
		if err := b.geometry(gd); err != nil {
			return nil, err
		}
	}
	for _, md := range sc.Materials {
		if err := b.material(md); err != nil {
			return nil, err
		}
	}
	root := xyz.NewGroup(nil, sc.Name)
	for _, nd := range sc.Nodes {
		if err := b.node(root, nd); err != nil {
			return nil, err
		}
	}
	if dev == nil {
		return root, nil
	}
	if err := xyz.Upload(root, dev); err != nil {
		res := xyz.CollectResources(root)
		for _, g := range res.Geometries {
			g.DisposeBoundsTree()
			g.Dispose()
		}
		for _, mt := range res.Materials {
			mt.Dispose()
		}
		return nil, fmt.Errorf("scenefile.Build %s: %w", sc.Name, err)
	}
	return root, nil
}

type builder struct {
	geoms map[string]*xyz.Geometry
	mats  map[string]*xyz.Material
	opts  bvh.Options
}

func (b *builder) geometry(gd *Geometry) error {
	if gd.Name == "" {
		return fmt.Errorf("scenefile: geometry without a name")
	}
	if _, has := b.geoms[gd.Name]; has {
		return fmt.Errorf("scenefile: duplicate geometry %q", gd.Name)
	}
	n := 0
	for _, set := range []bool{gd.Box != nil, gd.Plane != nil, gd.Lines != nil, gd.Positions != nil} {
		if set {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("scenefile: geometry %q must have exactly one of box, plane, lines and positions", gd.Name)
	}
	var g *xyz.Geometry
	switch {
	case gd.Box != nil:
		if len(gd.Box) != 3 {
			return fmt.Errorf("scenefile: geometry %q: box needs 3 sizes, not %d", gd.Name, len(gd.Box))
		}
		g = xyz.NewBox(gd.Name, gd.Box[0], gd.Box[1], gd.Box[2])
	case gd.Plane != nil:
		if len(gd.Plane.Size) != 2 {
			return fmt.Errorf("scenefile: geometry %q: plane needs 2 sizes, not %d", gd.Name, len(gd.Plane.Size))
		}
		segs := []int{1, 1}
		if len(gd.Plane.Segments) == 2 {
			segs = gd.Plane.Segments
		}
		g = xyz.NewPlane(gd.Name, gd.Plane.Size[0], gd.Plane.Size[1], segs[0], segs[1])
	case gd.Lines != nil:
		pts := make([]math32.Vector3, len(gd.Lines))
		for i, p := range gd.Lines {
			if len(p) != 3 {
				return fmt.Errorf("scenefile: geometry %q: line point %d needs 3 coordinates", gd.Name, i)
			}
			pts[i] = math32.Vec3(p[0], p[1], p[2])
		}
		g = xyz.NewLines(gd.Name, pts...)
	default:
		if len(gd.Positions)%3 != 0 {
			return fmt.Errorf("scenefile: geometry %q: positions length %d is not a multiple of 3", gd.Name, len(gd.Positions))
		}
		if len(gd.Index)%3 != 0 {
			return fmt.Errorf("scenefile: geometry %q: index length %d is not a multiple of 3", gd.Name, len(gd.Index))
		}
		nvtx := len(gd.Positions) / 3
		for _, ix := range gd.Index {
			if int(ix) >= nvtx {
				return fmt.Errorf("scenefile: geometry %q: index %d out of range for %d vertices", gd.Name, ix, nvtx)
			}
		}
		g = xyz.NewGeometry(gd.Name)
		g.SetAttribute(xyz.PositionAttr, 3, gd.Positions)
		g.SetIndex(gd.Index)
		g.ComputeBoundingBox()
	}
	if gd.BoundsTree {
		if err := g.ComputeBoundsTree(&b.opts); err != nil {
			return fmt.Errorf("scenefile: %w", err)
		}
	}
	b.geoms[gd.Name] = g
	return nil
}

func (b *builder) material(md *Material) error {
	if md.Name == "" {
		return fmt.Errorf("scenefile: material without a name")
	}
	if _, has := b.mats[md.Name]; has {
		return fmt.Errorf("scenefile: duplicate material %q", md.Name)
	}
	mt := xyz.NewMaterial(md.Name, color.RGBA{128, 128, 128, 255})
	if md.Color != "" {
		c, err := ParseHex(md.Color)
		if err != nil {
			return fmt.Errorf("scenefile: material %q: %w", md.Name, err)
		}
		mt.Color = c
	}
	if md.Emissive != "" {
		c, err := ParseHex(md.Emissive)
		if err != nil {
			return fmt.Errorf("scenefile: material %q: %w", md.Name, err)
		}
		mt.Emissive = c
	}
	if md.Opacity != nil {
		mt.Opacity = *md.Opacity
	}
	if md.Shiny != nil {
		mt.Shiny = *md.Shiny
	}
	b.mats[md.Name] = mt
	return nil
}

func (b *builder) node(parent tree.Node, nd *Node) error {
	var geom *xyz.Geometry
	if nd.Geometry != "" {
		geom = b.geoms[nd.Geometry]
		if geom == nil {
			return fmt.Errorf("scenefile: node %q: unknown geometry %q", nd.Name, nd.Geometry)
		}
	}
	mats := make([]*xyz.Material, len(nd.Materials))
	for i, nm := range nd.Materials {
		mats[i] = b.mats[nm]
		if mats[i] == nil {
			return fmt.Errorf("scenefile: node %q: unknown material %q", nd.Name, nm)
		}
	}
	var ob *xyz.Object
	switch strings.ToLower(nd.Kind) {
	case KindGroup, "":
		if geom != nil || len(mats) > 0 {
			return fmt.Errorf("scenefile: group %q can not have a geometry or materials", nd.Name)
		}
		ob = &xyz.NewGroup(parent, nd.Name).Object
	case KindMesh:
		ob = &xyz.NewMesh(parent, nd.Name, geom, mats...).Object
	case KindLines:
		ls := xyz.NewLineSegments(parent, nd.Name, geom, mats...)
		if nd.Width > 0 {
			ls.Width = nd.Width
		}
		ob = &ls.Object
	default:
		return fmt.Errorf("scenefile: node %q: unknown kind %q", nd.Name, nd.Kind)
	}
	ob.Visible = !nd.Hidden
	for _, kd := range nd.Children {
		if err := b.node(ob.This, kd); err != nil {
			return err
		}
	}
	return nil
}

// ParseHex parses a hex color of the form #rgb, #rrggbb or #rrggbbaa,
// with or without the leading #.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}
