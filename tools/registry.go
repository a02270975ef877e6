// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tools provides a registry of the components of an application,
// keyed by stable string identifiers, and the process-wide set of
// identifiers of the components provided by libraries.
package tools

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"cogentcore.org/dispose/base/reflectx"
)

// Tool is an optional interface for registered components that can be
// turned on and off.
type Tool interface {
	Enabled() bool
}

// Registry holds component instances by identifier. Only one instance can
// be registered under a given identifier. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]any
}

// NewRegistry returns a new empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: map[string]any{}}
}

// Add registers the given tool under the given identifier. Adding the
// same instance again does nothing; adding a different instance under an
// identifier that is already in use returns an error. Tools of types that
// cannot be compared, such as funcs and maps, are never the same instance.
func (r *Registry) Add(id string, tool any) error {
	if id == "" {
		return fmt.Errorf("tools.Registry.Add: empty id")
	}
	if reflectx.AnyIsNil(tool) {
		return fmt.Errorf("tools.Registry.Add %s: nil tool", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tools == nil {
		r.tools = map[string]any{}
	}
	if cur, ok := r.tools[id]; ok {
		if sameTool(cur, tool) {
			return nil
		}
		return fmt.Errorf("tools.Registry.Add: id %s is already registered to a %T", id, cur)
	}
	r.tools[id] = tool
	return nil
}

// sameTool returns whether a and b are the same tool, without panicking
// on values that cannot be compared.
func sameTool(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

// Get returns the tool registered under the given identifier.
func (r *Registry) Get(id string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[id]
	return t, ok
}

// Remove removes the tool registered under the given identifier,
// returning whether there was one.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[id]; !ok {
		return false
	}
	delete(r.tools, id)
	return true
}

// IDs returns the sorted identifiers of all registered tools.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.tools))
	for id := range r.tools {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Get returns the tool registered under the given identifier as type T.
// It returns false if there is no such tool or it is not a T.
func Get[T any](r *Registry, id string) (T, bool) {
	var zero T
	t, ok := r.Get(id)
	if !ok {
		return zero, false
	}
	tt, ok := t.(T)
	if !ok {
		return zero, false
	}
	return tt, true
}

// IsEnabled returns whether the tool registered under the given identifier
// exists and is enabled. Tools that do not implement [Tool] are always enabled.
func (r *Registry) IsEnabled(id string) bool {
	t, ok := r.Get(id)
	if !ok {
		return false
	}
	if tl, ok := t.(Tool); ok {
		return tl.Enabled()
	}
	return true
}
