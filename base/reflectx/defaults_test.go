// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reflectx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inner struct {
	Leaf int `default:"4"`
}

type defaultsObj struct {
	Name     string        `default:"scene.yaml"`
	On       bool          `default:"true"`
	Scale    float32       `default:"0.5"`
	Size     uint          `default:"16"`
	Debounce time.Duration `default:"250ms"`
	Tags     []string      `default:"a, b"`
	Inner    inner
	NoTag    int
}

func TestSetFromDefaultTags(t *testing.T) {
	o := &defaultsObj{NoTag: 9}
	require.NoError(t, SetFromDefaultTags(o))
	assert.Equal(t, "scene.yaml", o.Name)
	assert.True(t, o.On)
	assert.Equal(t, float32(0.5), o.Scale)
	assert.Equal(t, uint(16), o.Size)
	assert.Equal(t, 250*time.Millisecond, o.Debounce)
	assert.Equal(t, []string{"a", "b"}, o.Tags)
	assert.Equal(t, 4, o.Inner.Leaf)
	assert.Equal(t, 9, o.NoTag)
}

func TestSetFromDefaultTagsErrors(t *testing.T) {
	assert.NoError(t, SetFromDefaultTags(nil))
	x := 3
	assert.Error(t, SetFromDefaultTags(&x))

	type bad struct {
		N int `default:"nope"`
	}
	assert.Error(t, SetFromDefaultTags(&bad{}))
}
