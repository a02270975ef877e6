// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides the default structured logger setup,
// with colored level names on terminals that support it.
package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// UserLevel is the verbosity [slog.Level] that the user has selected for
// what logging and printing messages should be shown. Messages at
// levels at or above this level will be shown. It should typically
// be set through the verbose and quiet flags of a command, using
// [LevelFromFlags].
var UserLevel = defaultUserLevel

var defaultUserLevel = slog.LevelInfo

// LevelFromFlags returns the [slog.Level] object corresponding to the given
// user flag options. The flags correspond to the following values:
//   - vv: [slog.LevelDebug]
//   - v: [slog.LevelInfo]
//   - q: [slog.LevelError]
//   - (default: [slog.LevelWarn])
//
// The flags are evaluated in that order, so, for example, if both
// vv and q are specified, it will still return [slog.LevelDebug].
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// SetDefaultLogger sets the default logger to a text logger writing to
// [os.Stderr] at [UserLevel].
func SetDefaultLogger() {
	slog.SetDefault(NewLogger(os.Stderr))
}

// NewLogger returns a text logger writing to the given writer at [UserLevel].
// Level names are colored when the writer is a terminal with color support.
func NewLogger(w io.Writer) *slog.Logger {
	out := termenv.NewOutput(w)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: UserLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey || len(groups) > 0 {
				return a
			}
			lvl, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			return slog.String(slog.LevelKey, out.String(lvl.String()).Foreground(LevelColor(lvl)).String())
		},
	}))
}

// LevelColor returns the terminal color used for the given level.
func LevelColor(lvl slog.Level) termenv.Color {
	switch {
	case lvl >= slog.LevelError:
		return termenv.ANSIRed
	case lvl >= slog.LevelWarn:
		return termenv.ANSIYellow
	case lvl >= slog.LevelInfo:
		return termenv.ANSIGreen
	default:
		return termenv.ANSIBlue
	}
}
