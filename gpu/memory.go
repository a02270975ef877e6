// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"slices"
	"sync"
)

// Memory is a headless [Device] that keeps allocations in host memory
// and accounts for every allocation and release. It is used for tests,
// tools and leak checking when no hardware device is present.
type Memory struct {

	// MaxBytes limits the total live allocation size; 0 means no limit.
	MaxBytes int

	mu       sync.Mutex
	nextID   int
	live     map[int]*allocation
	released []string
	stats    MemoryStats
}

// MemoryStats are the allocation counters of a [Memory] device.
type MemoryStats struct {
	Buffers   int // live buffers
	Textures  int // live textures
	Bytes     int // live bytes
	Allocated int // total allocations ever made
	Released  int // total allocations released
}

// Leaked returns the number of allocations that are still live.
func (st MemoryStats) Leaked() int {
	return st.Buffers + st.Textures
}

func (st MemoryStats) String() string {
	return fmt.Sprintf("buffers: %d textures: %d bytes: %d allocated: %d released: %d", st.Buffers, st.Textures, st.Bytes, st.Allocated, st.Released)
}

type allocation struct {
	mem     *Memory
	id      int
	label   string
	texture bool
	data    []byte
}

// NewMemory returns a new headless device.
func NewMemory() *Memory {
	return &Memory{live: map[int]*allocation{}}
}

// CreateBuffer implements [Device].
func (m *Memory) CreateBuffer(desc *BufferDescriptor) (Releaser, error) {
	return m.alloc(desc.Label, false, desc.Data)
}

// CreateTexture implements [Device].
func (m *Memory) CreateTexture(desc *TextureDescriptor) (Releaser, error) {
	return m.alloc(desc.Label, true, desc.Pixels)
}

func (m *Memory) alloc(label string, texture bool, data []byte) (*allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.live == nil {
		m.live = map[int]*allocation{}
	}
	if m.MaxBytes > 0 && m.stats.Bytes+len(data) > m.MaxBytes {
		return nil, fmt.Errorf("gpu.Memory: out of memory allocating %d bytes for %q (%d of %d in use)", len(data), label, m.stats.Bytes, m.MaxBytes)
	}
	a := &allocation{mem: m, id: m.nextID, label: label, texture: texture, data: slices.Clone(data)}
	m.nextID++
	m.live[a.id] = a
	m.stats.Allocated++
	m.stats.Bytes += len(data)
	if texture {
		m.stats.Textures++
	} else {
		m.stats.Buffers++
	}
	return a, nil
}

// Release frees the allocation. Releasing an already released
// allocation does nothing.
func (a *allocation) Release() {
	m := a.mem
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.live[a.id]; !ok {
		return
	}
	delete(m.live, a.id)
	m.released = append(m.released, a.label)
	m.stats.Released++
	m.stats.Bytes -= len(a.data)
	if a.texture {
		m.stats.Textures--
	} else {
		m.stats.Buffers--
	}
	a.data = nil
}

// Stats returns the current allocation counters.
func (m *Memory) Stats() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Live returns the sorted labels of all live allocations.
func (m *Memory) Live() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	labels := make([]string, 0, len(m.live))
	for _, a := range m.live {
		labels = append(labels, a.label)
	}
	slices.Sort(labels)
	return labels
}

// ReleaseLog returns the labels of released allocations in release order.
func (m *Memory) ReleaseLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.released)
}

// Contents returns a copy of the data of the given live allocation,
// which must have been created by this device.
func (m *Memory) Contents(r Releaser) ([]byte, bool) {
	a, ok := r.(*allocation)
	if !ok || a.mem != m {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, live := m.live[a.id]; !live {
		return nil, false
	}
	return slices.Clone(a.data), true
}
