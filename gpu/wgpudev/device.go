// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wgpudev provides a [gpu.Device] backed by a WebGPU device.
package wgpudev

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"cogentcore.org/dispose/base/errors"
	"cogentcore.org/dispose/gpu"
)

// Device allocates buffers and textures on a WebGPU device,
// uploading their contents through its queue.
type Device struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue

	// set when the device was opened by [Open]
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
}

// New returns a new [Device] for the given WebGPU device.
func New(dev *wgpu.Device) *Device {
	return &Device{Device: dev, Queue: dev.GetQueue()}
}

// Open creates a WebGPU instance, requests a high performance adapter
// and returns a new [Device] on it. It must be released with
// [Device.Release] when no longer needed.
func Open() (*Device, error) {
	inst := wgpu.CreateInstance(nil)
	ad, err := inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		inst.Release()
		return nil, fmt.Errorf("wgpudev.Open: requesting adapter: %w", err)
	}
	dev, err := ad.RequestDevice(nil)
	if err != nil {
		ad.Release()
		inst.Release()
		return nil, fmt.Errorf("wgpudev.Open: requesting device: %w", err)
	}
	d := New(dev)
	d.instance = inst
	d.adapter = ad
	return d, nil
}

// Release releases the queue and device, and the adapter and instance
// if the device was opened by [Open].
func (d *Device) Release() {
	if d.Queue != nil {
		d.Queue.Release()
		d.Queue = nil
	}
	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

// BufferUsages returns the WebGPU usage flags for the given buffer role.
// All buffers are also copy destinations so that they can be written
// through the queue.
func BufferUsages(u gpu.BufferUsages) wgpu.BufferUsage {
	switch u {
	case gpu.Vertex:
		return wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst
	case gpu.Index:
		return wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst
	case gpu.Uniform:
		return wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	default:
		return wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	}
}

// alignedSize rounds the size up to the 4 byte multiple required for writes.
func alignedSize(n int) uint64 {
	return uint64((n + 3) &^ 3)
}

// CreateBuffer implements [gpu.Device].
func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Releaser, error) {
	buf, err := d.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            desc.Label,
		Size:             alignedSize(len(desc.Data)),
		Usage:            BufferUsages(desc.Usage),
		MappedAtCreation: false,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	if len(desc.Data) == 0 {
		return buf, nil
	}
	data := desc.Data
	if pad := int(alignedSize(len(data))) - len(data); pad > 0 {
		data = append(append([]byte{}, data...), make([]byte, pad)...)
	}
	if err := d.Queue.WriteBuffer(buf, 0, data); err != nil {
		buf.Release()
		return nil, errors.Log(fmt.Errorf("wgpudev.CreateBuffer %s: %w", desc.Label, err))
	}
	return buf, nil
}

// CreateTexture implements [gpu.Device].
func (d *Device) CreateTexture(desc *gpu.TextureDescriptor) (gpu.Releaser, error) {
	size := wgpu.Extent3D{
		Width:              uint32(desc.Width),
		Height:             uint32(desc.Height),
		DepthOrArrayLayers: 1,
	}
	tx, err := d.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         desc.Label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if errors.Log(err) != nil {
		return nil, err
	}
	// https://www.w3.org/TR/webgpu/#gpuimagecopytexture
	d.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Aspect:   wgpu.TextureAspectAll,
			Texture:  tx,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: 0, Y: 0, Z: 0},
		},
		desc.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4 * uint32(desc.Width),
			RowsPerImage: uint32(desc.Height),
		},
		&size,
	)
	return tx, nil
}
