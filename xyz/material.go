// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"encoding/binary"
	"image/color"
	"math"

	"github.com/google/uuid"

	"cogentcore.org/dispose/gpu"
)

// Material describes the surface properties of an object (color, opacity,
// shininess, texture), uploaded to the device as a uniform buffer.
// A material can be shared by several objects.
type Material struct {

	// UUID uniquely identifies the material.
	UUID string

	// Name is a descriptive name for the material.
	Name string

	// Color is the main color of the surface.
	Color color.RGBA

	// Emissive is the color that the surface emits independent of any lighting.
	Emissive color.RGBA

	// Opacity is the overall opacity, 1 = opaque.
	Opacity float32

	// Shiny is the specular shininess factor.
	Shiny float32

	// Texture is the optional texture providing color for the surface.
	// Textures are often shared, so [Material.Dispose] only releases it
	// if OwnsTexture is set.
	Texture *gpu.Texture

	// OwnsTexture is whether the material releases its texture on dispose.
	OwnsTexture bool

	uniform   *gpu.Buffer
	onDispose []func(mt *Material)
}

// NewMaterial returns a new material with the given name and color
// and default surface parameters.
func NewMaterial(name string, clr color.RGBA) *Material {
	mt := &Material{UUID: uuid.NewString(), Name: name}
	mt.Defaults()
	mt.Color = clr
	return mt
}

// Defaults sets default surface parameters
func (mt *Material) Defaults() {
	mt.Color = color.RGBA{128, 128, 128, 255}
	mt.Emissive = color.RGBA{}
	mt.Opacity = 1
	mt.Shiny = 30
}

// IsTransparent returns true if the color or opacity is not fully opaque.
func (mt *Material) IsTransparent() bool {
	return mt.Opacity < 1 || mt.Color.A < 255
}

// Upload creates the uniform buffer of the material on the device,
// releasing any existing one first.
func (mt *Material) Upload(dev gpu.Device) error {
	mt.uniform.Release()
	mt.uniform = nil
	buf, err := gpu.NewBuffer(dev, mt.Name+"/uniform", gpu.Uniform, mt.uniformBytes())
	if err != nil {
		return err
	}
	mt.uniform = buf
	return nil
}

// uniformBytes packs the color, emissive color, opacity and shininess
// as float32 values padded to a multiple of 16 bytes.
func (mt *Material) uniformBytes() []byte {
	vals := []float32{
		float32(mt.Color.R) / 255, float32(mt.Color.G) / 255, float32(mt.Color.B) / 255, float32(mt.Color.A) / 255,
		float32(mt.Emissive.R) / 255, float32(mt.Emissive.G) / 255, float32(mt.Emissive.B) / 255, float32(mt.Emissive.A) / 255,
		mt.Opacity, mt.Shiny, 0, 0,
	}
	b := make([]byte, 0, 4*len(vals))
	for _, v := range vals {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

// Uniform returns the uniform buffer, or nil if not uploaded.
func (mt *Material) Uniform() *gpu.Buffer {
	return mt.uniform
}

// OnDispose adds a function that is called every time the material
// is disposed.
func (mt *Material) OnDispose(fun func(mt *Material)) {
	mt.onDispose = append(mt.onDispose, fun)
}

// Dispose releases the uniform buffer, and the texture if the material
// owns it, and then calls the [Material.OnDispose] functions.
// Disposing twice releases nothing the second time.
func (mt *Material) Dispose() {
	mt.uniform.Release()
	mt.uniform = nil
	if mt.OwnsTexture {
		mt.Texture.Release()
	}
	for _, fun := range mt.onDispose {
		fun(mt)
	}
}
