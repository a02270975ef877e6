// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tools

import (
	"slices"
	"sync"
)

// IDSet is a set of identifiers that is safe for concurrent use.
type IDSet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// LibraryIDs are the identifiers of all tools provided by libraries,
// added by their packages at init time. Applications use it to tell
// library tools apart from their own.
var LibraryIDs = &IDSet{}

// Add adds the given identifier to the set.
func (s *IDSet) Add(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids == nil {
		s.ids = map[string]struct{}{}
	}
	s.ids[id] = struct{}{}
}

// Has returns whether the set contains the given identifier.
func (s *IDSet) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// List returns the sorted identifiers in the set.
func (s *IDSet) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
