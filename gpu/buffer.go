// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/dispose/base/errors"
)

// Buffer is a device buffer holding vertex, index, uniform or storage data.
type Buffer struct {

	// Label is the debugging name of the buffer.
	Label string

	// Usage is the role of the buffer.
	Usage BufferUsages

	// Size is the allocation size in bytes.
	Size int

	buffer Releaser
}

// NewBuffer allocates a buffer on the given device holding the given data.
func NewBuffer(dev Device, label string, usage BufferUsages, data []byte) (*Buffer, error) {
	if dev == nil {
		return nil, fmt.Errorf("gpu.NewBuffer %s: nil device", label)
	}
	h, err := dev.CreateBuffer(&BufferDescriptor{Label: label, Usage: usage, Data: data})
	if errors.Log(err) != nil {
		return nil, err
	}
	return &Buffer{Label: label, Usage: usage, Size: len(data), buffer: h}, nil
}

// Release frees the device memory of the buffer. It is safe to call
// more than once, and on a nil buffer.
func (b *Buffer) Release() {
	if b == nil || b.buffer == nil {
		return
	}
	b.buffer.Release()
	b.buffer = nil
}

// IsReleased returns whether the buffer no longer holds device memory.
func (b *Buffer) IsReleased() bool {
	return b == nil || b.buffer == nil
}

// Handle returns the backend allocation, or nil if released.
func (b *Buffer) Handle() Releaser {
	return b.buffer
}

// Texture is a device RGBA8 image used by materials.
type Texture struct {
	Label  string
	Width  int
	Height int

	texture Releaser
}

// NewTexture allocates a texture on the given device with the given pixels,
// which must be 4*width*height bytes of RGBA data.
func NewTexture(dev Device, label string, width, height int, pixels []byte) (*Texture, error) {
	if dev == nil {
		return nil, fmt.Errorf("gpu.NewTexture %s: nil device", label)
	}
	if len(pixels) != 4*width*height {
		err := fmt.Errorf("gpu.NewTexture %s: got %d bytes for %dx%d texture", label, len(pixels), width, height)
		return nil, errors.Log(err)
	}
	h, err := dev.CreateTexture(&TextureDescriptor{Label: label, Width: width, Height: height, Pixels: pixels})
	if errors.Log(err) != nil {
		return nil, err
	}
	return &Texture{Label: label, Width: width, Height: height, texture: h}, nil
}

// Release frees the device memory of the texture. It is safe to call
// more than once, and on a nil texture.
func (tx *Texture) Release() {
	if tx == nil || tx.texture == nil {
		return
	}
	tx.texture.Release()
	tx.texture = nil
}

// IsReleased returns whether the texture no longer holds device memory.
func (tx *Texture) IsReleased() bool {
	return tx == nil || tx.texture == nil
}
