// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"strconv"
)

// admin.go has infrastructure code outside of the Node interface.

// InitNode initializes the node. It sets [NodeBase.This] to the
// given node and calls [Node.Init] if it has not already been done.
func InitNode(n Node) {
	nb := n.AsTree()
	if nb.This != n {
		nb.This = n
		n.Init()
	}
}

// SetParent sets the parent of the given node to the given parent node.
// This is only for nodes with no existing parent; nodes that already have
// a parent must first be detached with [NodeBase.RemoveFromParent]. It does not add the node to the
// parent's list of children; see [NodeBase.AddChild] for a version that does.
// It automatically gives the node a unique name if it does not have one.
func SetParent(child Node, parent Node) {
	nb := child.AsTree()
	nb.Parent = parent
	if parent != nil {
		pb := parent.AsTree()
		c := pb.numLifetimeChildren
		pb.numLifetimeChildren++
		if nb.Name == "" {
			nb.Name = typeIDName(child) + "-" + strconv.FormatUint(c, 10)
		}
	}
	child.OnAdd()
}

// New returns a new node of the given type with the given optional parent.
// If the name is unspecified, it defaults to the lowercase name of the type,
// plus the number of children that have ever been added to its parent.
func New[T Node](parent ...Node) T {
	var n T
	n = newInstance(n).(T)
	InitNode(n)
	if len(parent) == 0 || parent[0] == nil {
		n.AsTree().Name = typeIDName(n)
		return n
	}
	parent[0].AsTree().AddChild(n)
	return n
}

// NewRoot returns a new root node of the given type with the given name.
func NewRoot[T Node](name string) T {
	n := New[T]()
	n.AsTree().Name = name
	return n
}

// IsRoot returns whether the given node is the root node in its tree.
func IsRoot(n Node) bool {
	return n.AsTree().Parent == nil
}

// IndexOf returns the index of the given node in the given slice,
// or -1 if it is not found. The optional startIndex argument
// allows for optimized bidirectional searching if you have a guess
// at where the node might be, which can be a key speedup for large
// slices.
func IndexOf(slice []Node, child Node, startIndex ...int) int {
	sz := len(slice)
	if sz == 0 {
		return -1
	}
	si := 0
	if len(startIndex) > 0 {
		si = startIndex[0]
	}
	if si < 0 || si >= sz {
		si = sz / 2
	}
	if slice[si] == child {
		return si
	}
	upi := si + 1
	dni := si - 1
	for upi < sz || dni >= 0 {
		if upi < sz {
			if slice[upi] == child {
				return upi
			}
			upi++
		}
		if dni >= 0 {
			if slice[dni] == child {
				return dni
			}
			dni--
		}
	}
	return -1
}

// IndexByName returns the index of the first element in the given slice that
// has the given name, or -1 if none is found.
func IndexByName(slice []Node, name string) int {
	for i, n := range slice {
		if n != nil && n.AsTree().Name == name {
			return i
		}
	}
	return -1
}
