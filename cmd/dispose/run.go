// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"cogentcore.org/dispose/base/errors"
	"cogentcore.org/dispose/disposer"
	"cogentcore.org/dispose/gpu"
	"cogentcore.org/dispose/gpu/wgpudev"
	"cogentcore.org/dispose/scenefile"
	"cogentcore.org/dispose/tools"
	"cogentcore.org/dispose/tree"
	"cogentcore.org/dispose/xyz"
)

// ErrLeaked is returned when destroying a whole scene with materials
// leaves device allocations behind.
var ErrLeaked = errors.New("device allocations leaked")

// session holds the current scene and the disposer and device it uses.
type session struct {
	cfg  *Config
	out  io.Writer
	dev  gpu.Device
	disp *disposer.Disposer
	root *xyz.Group

	// mem is the headless device, if that is the device in use.
	mem *gpu.Memory
}

// Run builds the configured scene, destroys it and reports the result
// to out. In watch mode, it keeps the scene built and rebuilds it on every
// change of the scene file until the context is done.
func Run(ctx context.Context, cfg *Config, out io.Writer) error {
	reg := tools.NewRegistry()
	d, err := disposer.New(reg)
	if err != nil {
		return err
	}
	s := &session{cfg: cfg, out: out, disp: d}
	switch cfg.Device {
	case "memory", "":
		s.mem = gpu.NewMemory()
		s.mem.MaxBytes = cfg.MaxBytes
		s.dev = s.mem
	case "webgpu":
		wd, err := wgpudev.Open()
		if err != nil {
			return err
		}
		defer wd.Release()
		s.dev = wd
	default:
		return fmt.Errorf("unknown device %q", cfg.Device)
	}
	if !cfg.Watch {
		if err := s.build(); err != nil {
			return err
		}
		return s.destroy()
	}
	errors.Log(s.build())
	return s.watch(ctx)
}

func (s *session) build() error {
	sc, err := scenefile.Open(s.cfg.Scene)
	if err != nil {
		return err
	}
	root, err := scenefile.Build(sc, s.dev)
	if err != nil {
		return err
	}
	s.root = root
	slog.Info("built scene", "scene", root.Name, "file", s.cfg.Scene)
	if s.mem != nil {
		fmt.Fprintf(s.out, "built %s: %s\n", root.Name, s.mem.Stats())
	} else {
		fmt.Fprintf(s.out, "built %s\n", root.Name)
	}
	return nil
}

// destroy destroys the configured node of the current scene and reports
// the remaining allocations.
func (s *session) destroy() error {
	if s.root == nil {
		return nil
	}
	node, err := s.target()
	if err != nil {
		s.disp.Destroy(s.root)
		s.root = nil
		return err
	}
	before := s.disp.Get().Len()
	whole := tree.IsRoot(node)
	s.disp.DestroyWith(node, s.cfg.Materials, s.cfg.Recursive)

	fmt.Fprintf(s.out, "destroyed %s: %d nodes\n", node.AsTree().Name, s.disp.Get().Len()-before)
	slog.Debug("disposal record", "ids", s.disp.Get().Sorted())
	var st gpu.MemoryStats
	if s.mem != nil {
		st = s.mem.Stats()
		fmt.Fprintf(s.out, "remaining: %s\n", st)
		if st.Leaked() > 0 {
			fmt.Fprintf(s.out, "live: %s\n", strings.Join(s.mem.Live(), " "))
		}
	}
	if !whole {
		// the rest of the scene goes too, so that a rebuild starts clean
		s.disp.Destroy(s.root)
	}
	s.root = nil
	if whole && st.Leaked() > 0 && s.cfg.Materials && s.cfg.Recursive {
		return fmt.Errorf("%w: %d", ErrLeaked, st.Leaked())
	}
	return nil
}

// target returns the node to destroy in the current scene.
func (s *session) target() (xyz.Visual, error) {
	if s.cfg.Node == "" {
		return s.root, nil
	}
	var cur xyz.Visual = s.root
	for _, nm := range strings.Split(strings.Trim(s.cfg.Node, "/"), "/") {
		kid, ok := cur.AsTree().ChildByName(nm).(xyz.Visual)
		if !ok {
			return nil, fmt.Errorf("node %q not found in scene %s", s.cfg.Node, s.root.Name)
		}
		cur = kid
	}
	return cur, nil
}

// watch rebuilds the scene whenever the scene file is written, destroying
// the previous scene first. The directory is watched rather than the file
// so that editors that replace the file are handled.
func (s *session) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating scene file watcher: %w", err)
	}
	defer watcher.Close()
	abs, err := filepath.Abs(s.cfg.Scene)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", s.cfg.Scene, err)
	}
	slog.Info("watching scene file", "file", abs)
	for {
		select {
		case <-ctx.Done():
			return s.destroy()
		case event, ok := <-watcher.Events:
			if !ok {
				return s.destroy()
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			slog.Info("scene file changed", "op", event.Op.String())
			errors.Log(s.destroy())
			errors.Log(s.build())
		case err, ok := <-watcher.Errors:
			if !ok {
				return s.destroy()
			}
			slog.Error("scene file watcher error: " + err.Error())
		}
	}
}
