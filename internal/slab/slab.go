// Package slab implements the dense, index-addressed node store described
// in spec.md §4.2. Indices are reused after removal via a free list, the
// same id-reuse discipline the teacher's MemoryStore applies to its
// nodeIntID/intToNodeID arena (internal/graph/graph.go), generalized here
// from a string-keyed map into a real slot-recycling slab.
package slab

// Id is a slot index into a Slab. Zero is reserved for "absent" by callers
// (the slab itself is zero-based; package tree adds one when minting
// NodeIds so that the zero value of tree.NodeId means "no node").
type Id uint32

// Slab is a dense container of T values addressed by Id, supporting O(1)
// insert, get, and remove with slot reuse.
type Slab[T any] struct {
	entries []entry[T]
	free    []Id
	live    int
}

type entry[T any] struct {
	value T
	used  bool
}

// New returns an empty Slab.
func New[T any]() *Slab[T] {
	return &Slab[T]{}
}

// Insert stores v in a free slot (reusing one if available) and returns
// its Id.
func (s *Slab[T]) Insert(v T) Id {
	s.live++
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		s.entries[id] = entry[T]{value: v, used: true}
		return id
	}
	s.entries = append(s.entries, entry[T]{value: v, used: true})
	return Id(len(s.entries) - 1)
}

// Get returns the value at id and whether it is live.
func (s *Slab[T]) Get(id Id) (T, bool) {
	var zero T
	if int(id) >= len(s.entries) || !s.entries[id].used {
		return zero, false
	}
	return s.entries[id].value, true
}

// Set overwrites the value at a live id. It is a no-op if id is not live.
func (s *Slab[T]) Set(id Id, v T) {
	if int(id) >= len(s.entries) || !s.entries[id].used {
		return
	}
	s.entries[id].value = v
}

// Remove frees id for later reuse. It is a no-op if id is already free.
func (s *Slab[T]) Remove(id Id) {
	if int(id) >= len(s.entries) || !s.entries[id].used {
		return
	}
	var zero T
	s.entries[id] = entry[T]{value: zero, used: false}
	s.free = append(s.free, id)
	s.live--
}

// Len returns the number of live entries.
func (s *Slab[T]) Len() int {
	return s.live
}

// Cap returns the number of slots ever allocated (live + free), the upper
// bound on Id values that could be valid.
func (s *Slab[T]) Cap() int {
	return len(s.entries)
}

// Each calls fn for every live id in ascending order. fn must not mutate
// the slab.
func (s *Slab[T]) Each(fn func(Id, T)) {
	for i := range s.entries {
		if s.entries[i].used {
			fn(Id(i), s.entries[i].value)
		}
	}
}

// InsertAt places v at a specific slot, growing the backing storage as
// needed, for snapshot loading where ids must be reconstructed exactly as
// saved. Regular callers should use Insert instead. Callers must call
// RebuildFreeList once all entries have been placed.
func (s *Slab[T]) InsertAt(id Id, v T) {
	for Id(len(s.entries)) <= id {
		s.entries = append(s.entries, entry[T]{})
	}
	s.entries[id] = entry[T]{value: v, used: true}
	s.live++
}

// RebuildFreeList scans every slot and restores the free list and live
// count, for use after a sequence of InsertAt calls during snapshot load.
func (s *Slab[T]) RebuildFreeList() {
	s.free = s.free[:0]
	s.live = 0
	for i := range s.entries {
		if s.entries[i].used {
			s.live++
		} else {
			s.free = append(s.free, Id(i))
		}
	}
}
