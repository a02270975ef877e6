// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dispose builds a scene from a YAML scene file on a headless
// device, destroys it and reports the device allocations that remain.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"cogentcore.org/dispose/base/logx"
	"cogentcore.org/dispose/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	flags := &Config{}
	cmd := &cobra.Command{
		Use:          "dispose [scene.yaml]",
		Short:        "Build a scene on a headless device, destroy it and report leaks",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &Config{}
			if err := cli.Open(cfg, configFile, cmd.Flags().Changed("config")); err != nil {
				return err
			}
			fs := cmd.Flags()
			if fs.Changed("scene") {
				cfg.Scene = flags.Scene
			}
			if len(args) == 1 {
				cfg.Scene = args[0]
			}
			if fs.Changed("materials") {
				cfg.Materials = flags.Materials
			}
			if fs.Changed("recursive") {
				cfg.Recursive = flags.Recursive
			}
			if fs.Changed("node") {
				cfg.Node = flags.Node
			}
			if fs.Changed("device") {
				cfg.Device = flags.Device
			}
			if fs.Changed("max-bytes") {
				cfg.MaxBytes = flags.MaxBytes
			}
			cfg.Watch = cfg.Watch || flags.Watch
			cfg.Verbose = cfg.Verbose || flags.Verbose
			cfg.VeryVerbose = cfg.VeryVerbose || flags.VeryVerbose
			cfg.Quiet = cfg.Quiet || flags.Quiet

			logx.UserLevel = logx.LevelFromFlags(cfg.VeryVerbose, cfg.Verbose, cfg.Quiet)
			logx.SetDefaultLogger()
			return Run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&configFile, "config", "dispose.toml", "TOML config file")
	fs.StringVar(&flags.Scene, "scene", "scene.yaml", "YAML scene file")
	fs.BoolVar(&flags.Materials, "materials", true, "dispose of materials")
	fs.BoolVar(&flags.Recursive, "recursive", true, "destroy children")
	fs.StringVar(&flags.Node, "node", "", "path of the node to destroy, relative to the scene root")
	fs.StringVar(&flags.Device, "device", "memory", "device to build the scene on: memory or webgpu")
	fs.IntVar(&flags.MaxBytes, "max-bytes", 0, "device memory limit in bytes (0 = no limit)")
	fs.BoolVarP(&flags.Watch, "watch", "w", false, "rebuild the scene whenever the scene file changes")
	fs.BoolVarP(&flags.Verbose, "verbose", "v", false, "show info messages")
	fs.BoolVar(&flags.VeryVerbose, "vv", false, "show debug messages")
	fs.BoolVarP(&flags.Quiet, "quiet", "q", false, "only show errors")
	return cmd
}
