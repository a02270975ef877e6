// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

// Config is the configuration of the dispose command, loaded from
// `default:` tags, then an optional TOML config file, then flags.
type Config struct {

	// Scene is the YAML scene file to build and destroy.
	Scene string `default:"scene.yaml"`

	// Materials is whether to dispose of materials.
	Materials bool `default:"true"`

	// Recursive is whether to destroy children.
	Recursive bool `default:"true"`

	// Node is the slash separated path of the node to destroy, relative to
	// the scene root; empty destroys the whole scene.
	Node string

	// Device is the device to build the scene on: "memory" for a headless
	// device that accounts for every allocation, or "webgpu" for the
	// default WebGPU adapter, where allocations are not reported.
	Device string `default:"memory"`

	// MaxBytes limits the memory of the headless device; 0 means no limit.
	MaxBytes int

	// Watch keeps running, rebuilding the scene whenever the scene file changes.
	Watch bool

	// Verbose shows info messages.
	Verbose bool

	// VeryVerbose shows debug messages.
	VeryVerbose bool

	// Quiet only shows errors.
	Quiet bool
}
