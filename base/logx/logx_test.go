// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestLevelFromFlags(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, false, false))
	assert.Equal(t, slog.LevelInfo, LevelFromFlags(false, true, true))
	assert.Equal(t, slog.LevelError, LevelFromFlags(false, false, true))
	assert.Equal(t, slog.LevelWarn, LevelFromFlags(false, false, false))
}

func TestNewLogger(t *testing.T) {
	old := UserLevel
	defer func() { UserLevel = old }()
	UserLevel = slog.LevelInfo

	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.Debug("hidden")
	l.Info("disposed", "node", "cube")
	s := buf.String()
	assert.NotContains(t, s, "hidden")
	assert.Contains(t, s, "msg=disposed")
	assert.Contains(t, s, "node=cube")
	assert.Contains(t, s, "INFO")
}

func TestLevelColor(t *testing.T) {
	assert.Equal(t, termenv.ANSIRed, LevelColor(slog.LevelError))
	assert.Equal(t, termenv.ANSIYellow, LevelColor(slog.LevelWarn))
	assert.Equal(t, termenv.ANSIGreen, LevelColor(slog.LevelInfo))
	assert.Equal(t, termenv.ANSIBlue, LevelColor(slog.LevelDebug))
}
