// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/jinzhu/copier"
)

// NodeBase implements the [Node] interface and provides the core functionality
// for the tree system. You must use NodeBase as an embedded struct
// in all higher-level tree types.
//
// All nodes must be properly initialized by using one of [New], [NewRoot],
// [NodeBase.AddChild], or [NodeBase.Clone].
// This ensures that the [NodeBase.This] field is set correctly and the
// [Node.Init] method is called.
type NodeBase struct {

	// Name is the name of this node, which is typically unique relative to other children of
	// the same parent. If not otherwise set, it defaults to the lowercase name of the node
	// type combined with the total number of children that have ever been added to the
	// node's parent.
	Name string `copier:"-"`

	// This is the value of this Node as its true underlying type. This allows methods
	// defined on base types to call methods defined on higher-level types. This is set
	// to nil when the node is destroyed.
	This Node `copier:"-" json:"-"`

	// Parent is the parent of this node, which is set automatically when this node is
	// added as a child of a parent. To change the parent of a node, detach it with [NodeBase.RemoveFromParent];
	// you should typically not set this field directly. Nodes can only have one parent
	// at a time.
	Parent Node `copier:"-" json:"-"`

	// Children is the list of children of this node. All of them are set to have this node
	// as their parent. You can directly modify this list, but you should typically use the
	// various NodeBase child helper functions when applicable so that everything is updated
	// properly, such as when deleting children.
	Children []Node `copier:"-"`

	// numLifetimeChildren is the number of children that have ever been added to this
	// node, which is used for automatic unique naming.
	numLifetimeChildren uint64

	// index is the last value of our index, which is used as a starting point for
	// finding us in our parent next time. It is not guaranteed to be accurate;
	// use the [NodeBase.IndexInParent] method.
	index int
}

// String implements the [fmt.Stringer] interface by returning the path of the node.
func (n *NodeBase) String() string {
	if n == nil || n.This == nil {
		return "nil"
	}
	return n.Path()
}

// AsTree returns the [NodeBase] for this Node.
func (n *NodeBase) AsTree() *NodeBase {
	return n
}

// IndexInParent returns our index within our parent node. It caches the
// last value and uses that as a starting point for searching for us next time.
// It returns -1 if we do not have a parent.
func (n *NodeBase) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	idx := IndexOf(n.Parent.AsTree().Children, n.This, n.index)
	n.index = idx
	return idx
}

// Child returns the child of this node at the given index and returns nil if
// the index is out of range.
func (n *NodeBase) Child(i int) Node {
	if i >= len(n.Children) || i < 0 {
		return nil
	}
	return n.Children[i]
}

// ChildByName returns the first child that has the given name, and nil
// if no such element is found.
func (n *NodeBase) ChildByName(name string) Node {
	idx := IndexByName(n.Children, name)
	if idx < 0 {
		return nil
	}
	return n.Children[idx]
}

// Path returns the path to this node from the tree root,
// using [Node.Name]s separated by / delimeters.
func (n *NodeBase) Path() string {
	if n.Parent != nil {
		return n.Parent.AsTree().Path() + "/" + n.Name
	}
	return "/" + n.Name
}

// Adding and Inserting Children:

// AddChild adds given child at end of children list.
// The kid node is assumed to not be on another tree (see [NodeBase.RemoveFromParent])
// and the existing name should be unique among children.
func (n *NodeBase) AddChild(kid Node) {
	InitNode(kid)
	n.Children = append(n.Children, kid)
	SetParent(kid, n.This)
}

// Deleting Children:

// DeleteChildAt deletes child at the given index. It returns false
// if there is no child at the given index.
func (n *NodeBase) DeleteChildAt(index int) bool {
	child := n.Child(index)
	if child == nil {
		return false
	}
	n.Children = slices.Delete(n.Children, index, index+1)
	child.Destroy()
	return true
}

// DeleteChild deletes the given child node, returning false if
// it can not find it.
func (n *NodeBase) DeleteChild(child Node) bool {
	if child == nil {
		return false
	}
	idx := IndexOf(n.Children, child)
	if idx < 0 {
		return false
	}
	return n.DeleteChildAt(idx)
}

// DeleteChildren deletes all children nodes.
func (n *NodeBase) DeleteChildren() {
	kids := n.Children
	n.Children = n.Children[:0] // preserves capacity of list
	for _, kid := range kids {
		if kid == nil {
			continue
		}
		kid.Destroy()
	}
}

// Delete deletes this node from its parent's children list
// and then destroys itself.
func (n *NodeBase) Delete() {
	if n.Parent == nil {
		n.This.Destroy()
	} else {
		n.Parent.AsTree().DeleteChild(n.This)
	}
}

// Destroy recursively deletes and destroys the node, all of its children,
// and all of its children's children, etc.
func (n *NodeBase) Destroy() {
	if n.This == nil { // already destroyed
		return
	}
	n.DeleteChildren()
	n.Parent = nil
	n.This = nil
}

// RemoveFromParent detaches this node from its parent without destroying it:
// the node is removed from the parent's children and its [NodeBase.Parent]
// is cleared. Children of this node are left in place. It returns false if
// the node has no parent.
func (n *NodeBase) RemoveFromParent() bool {
	if n.Parent == nil {
		return false
	}
	pb := n.Parent.AsTree()
	if idx := IndexOf(pb.Children, n.This, n.index); idx >= 0 {
		pb.Children = slices.Delete(pb.Children, idx, idx+1)
	}
	n.Parent = nil
	n.index = 0
	return true
}

// Tree Walking:

// WalkDown calls the given function on the node and all of its children
// in a depth-first pre-order, sequentially in the current goroutine.
// It stops walking the current branch of the tree if the function returns
// [Break] and keeps walking if it returns [Continue]. The children of each
// node are read after the function returns for that node, so the function
// may add or remove children of the node it is called on.
func (n *NodeBase) WalkDown(fun func(n Node) bool) {
	if n.This == nil {
		return
	}
	stack := []Node{n.This}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cb := cur.AsTree()
		// fun can destroy the node, so we have to check for nil before and after.
		if cb.This == nil || !fun(cur) || cb.This == nil {
			continue
		}
		for i := len(cb.Children) - 1; i >= 0; i-- {
			if kid := cb.Children[i]; kid != nil && kid.AsTree().This != nil {
				stack = append(stack, kid)
			}
		}
	}
}

// Deep Copy:

// Clone creates and returns a deep copy of the tree from this node down.
// Fields are copied with [Node.CopyFieldsFrom]; the tree structure is
// rebuilt so that every cloned child points to its cloned parent.
func (n *NodeBase) Clone() Node {
	nc := newInstance(n.This)
	InitNode(nc)
	nc.AsTree().Name = n.Name
	nc.CopyFieldsFrom(n.This)
	for _, kid := range n.Children {
		nc.AsTree().AddChild(kid.AsTree().Clone())
	}
	return nc
}

// CopyFieldsFrom copies the fields of the node from the given node.
// By default, it is [NodeBase.CopyFieldsFrom], which automatically does
// a deep copy of all of the fields of the node that do not a have a
// `copier:"-"` struct tag. Node types should only implement a custom
// CopyFieldsFrom method when they have fields that need special copying
// logic that can not be automatically handled.
func (n *NodeBase) CopyFieldsFrom(from Node) {
	err := copier.CopyWithOption(n.This, from.AsTree().This, copier.Option{CaseSensitive: true, DeepCopy: true})
	if err != nil {
		slog.Error("tree.NodeBase.CopyFieldsFrom", "err", err)
	}
}

// newInstance returns a new zero instance of the concrete type of the given node.
func newInstance(n Node) Node {
	return reflect.New(reflect.TypeOf(n).Elem()).Interface().(Node)
}

// typeIDName returns the lowercase name of the concrete type of the node,
// used for automatic naming.
func typeIDName(n Node) string {
	typ := reflect.TypeOf(n)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return strings.ToLower(typ.Name())
}

// Event methods:

// Init is a placeholder implementation of
// [Node.Init] that does nothing.
func (n *NodeBase) Init() {}

// OnAdd is a placeholder implementation of
// [Node.OnAdd] that does nothing.
func (n *NodeBase) OnAdd() {}
