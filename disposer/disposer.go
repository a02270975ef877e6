// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disposer releases the device resources held by a scene graph:
// geometries with their bounds trees, and materials. Destroying a node
// also detaches it and empties it, so that nothing else can reach the
// released resources through it.
package disposer

import (
	"fmt"
	"log/slog"
	"slices"

	"cogentcore.org/dispose/base/reflectx"
	"cogentcore.org/dispose/tools"
	"cogentcore.org/dispose/tree"
	"cogentcore.org/dispose/xyz"
)

// ID is the identifier of the disposer in a [tools.Registry].
const ID = "76e9cd8e-ad8f-4753-9ef6-cbc60f7247fe"

func init() {
	tools.LibraryIDs.Add(ID)
}

// Record is the set of identifiers of the nodes that have been destroyed.
type Record map[string]struct{}

// Has returns whether the record contains the given identifier.
func (r Record) Has(id string) bool {
	_, ok := r[id]
	return ok
}

// Len returns the number of identifiers in the record.
func (r Record) Len() int {
	return len(r)
}

// Sorted returns the identifiers in the record in sorted order.
func (r Record) Sorted() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Disposer destroys scene graph nodes and releases their resources.
// It must be used from the goroutine that owns the scene graph.
type Disposer struct {
	enabled bool
	record  Record
}

// New returns a new disposer registered in the given registry under [ID].
// The registry may be nil.
func New(reg *tools.Registry) (*Disposer, error) {
	d := &Disposer{enabled: true, record: Record{}}
	if reg == nil {
		return d, nil
	}
	if err := reg.Add(ID, d); err != nil {
		return nil, fmt.Errorf("disposer.New: %w", err)
	}
	return d, nil
}

// Enabled returns whether the disposer is active as a tool.
// It implements [tools.Tool].
func (d *Disposer) Enabled() bool {
	return d.enabled
}

// SetEnabled sets whether the disposer is active as a tool. It does not
// affect the disposal methods, which always work.
func (d *Disposer) SetEnabled(enabled bool) {
	d.enabled = enabled
}

// Get returns the record of destroyed nodes. It is never nil.
// The returned record must not be modified.
func (d *Disposer) Get() Record {
	if d.record == nil {
		d.record = Record{}
	}
	return d.record
}

// Destroy destroys the given node and all of its children, disposing
// their geometries and materials. See [Disposer.DestroyWith].
func (d *Disposer) Destroy(node xyz.Visual) {
	d.DestroyWith(node, true, true)
}

// DestroyWith detaches the given node from its parent and disposes its
// geometry, including its bounds tree. If materials is true, all of its
// materials are disposed. If recursive is true, each of its children is
// destroyed in the same way with the same flags. Finally the material list,
// geometry and children of the node are cleared, so the node no longer
// references any resources.
//
// The material list is cleared even when materials is false, so the caller
// must keep its own references to any materials it still needs to dispose.
// Without recursive, the children are cleared without being destroyed.
// Destroying a node twice disposes its resources only once, since the
// second call finds nothing left to dispose. A nil node, including a nil
// pointer of a concrete node type, is ignored.
func (d *Disposer) DestroyWith(node xyz.Visual, materials, recursive bool) {
	if reflectx.AnyIsNil(node) {
		return
	}
	d.destroy(node, materials, recursive)
}

func (d *Disposer) destroy(n tree.Node, materials, recursive bool) {
	n.AsTree().RemoveFromParent()
	v, visual := n.(xyz.Visual)
	if visual {
		if g := v.Geometry(); g != nil {
			d.DisposeGeometry(g)
		}
		if materials {
			disposeMaterials(v.Materials())
		} else if len(v.Materials()) > 0 {
			slog.Debug("disposer: discarding materials without disposing them", "node", n.AsTree().Path(), "materials", len(v.Materials()))
		}
	}
	if recursive {
		// children remove themselves from the list as they are destroyed
		for _, kid := range slices.Clone(n.AsTree().Children) {
			if kid != nil {
				d.destroy(kid, materials, recursive)
			}
		}
	}
	if !visual {
		n.AsTree().Children = []tree.Node{}
		return
	}
	v.ClearMaterials()
	v.SetGeometry(nil)
	v.ClearChildren()
	ob := v.AsObject()
	d.Get()[ob.UUID] = struct{}{}
	slog.Debug("disposer: destroyed", "node", ob.Name, "uuid", ob.UUID)
}

// DisposeGeometry disposes the bounds tree of the given geometry, if any,
// and then the geometry itself. It does nothing for a nil geometry.
func (d *Disposer) DisposeGeometry(g *xyz.Geometry) {
	if g == nil {
		return
	}
	g.DisposeBoundsTree()
	g.Dispose()
}

func disposeMaterials(mats []*xyz.Material) {
	for _, mt := range mats {
		if mt != nil {
			mt.Dispose()
		}
	}
}
