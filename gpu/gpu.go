// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu provides device-side resource handles for scene graph
// geometry and materials. A [Device] allocates the backing memory;
// [Buffer] and [Texture] own one allocation each and free it on Release.
//
// Resources must be created and released on the goroutine that owns
// the device, which is typically the render loop.
package gpu

import (
	"fmt"
)

// BufferUsages are the roles a [Buffer] can play on the device.
type BufferUsages int32

const (
	// Vertex is a per-vertex attribute buffer.
	Vertex BufferUsages = iota

	// Index is a triangle or line index buffer.
	Index

	// Uniform is a small read-only parameter buffer.
	Uniform

	// Storage is a general read-write buffer, used for bounds trees.
	Storage
)

func (u BufferUsages) String() string {
	switch u {
	case Vertex:
		return "Vertex"
	case Index:
		return "Index"
	case Uniform:
		return "Uniform"
	case Storage:
		return "Storage"
	}
	return fmt.Sprintf("BufferUsages(%d)", int32(u))
}

// Releaser is a device allocation that can be freed.
type Releaser interface {
	Release()
}

// BufferDescriptor describes a buffer allocation.
type BufferDescriptor struct {
	Label string
	Usage BufferUsages
	Data  []byte
}

// TextureDescriptor describes an RGBA8 2D texture allocation.
type TextureDescriptor struct {
	Label  string
	Width  int
	Height int
	Pixels []byte
}

// Device allocates memory for buffers and textures.
type Device interface {

	// CreateBuffer allocates a buffer and uploads the descriptor data to it.
	CreateBuffer(desc *BufferDescriptor) (Releaser, error)

	// CreateTexture allocates a texture and uploads its pixels.
	CreateTexture(desc *TextureDescriptor) (Releaser, error)
}
