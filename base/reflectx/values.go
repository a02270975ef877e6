// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reflectx

import "reflect"

// AnyIsNil checks if an interface value is nil. The interface itself could be nil,
// or the value pointed to by the interface could be nil. This safely checks both.
func AnyIsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Pointer, reflect.Interface, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
