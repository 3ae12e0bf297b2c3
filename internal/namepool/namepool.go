// Package namepool implements the append-only, NUL-delimited byte arena
// described in spec.md §4.1. The pool grows monotonically; names are
// never removed. Neither the pool nor tree.Index deduplicates names:
// tree.Index pushes every inserted name, so a name can occur more than
// once.
package namepool

import "bytes"

// Offset indexes into the pool, pointing at the first byte of a name.
type Offset uint32

// Pool is a NUL-delimited byte arena: "\0name1\0name2\0...".
type Pool struct {
	buf []byte
}

// New returns an empty pool, already seeded with the leading NUL the
// invariant in spec.md §3 requires ("begins and ends with NUL").
func New() *Pool {
	return &Pool{buf: []byte{0}}
}

// Push appends name followed by a NUL and returns the offset of its first
// byte. Pushing the same name twice yields two independent offsets — the
// pool itself performs no deduplication (spec.md §4.1 leaves dedup to the
// caller via the Name Index).
func (p *Pool) Push(name []byte) Offset {
	off := Offset(len(p.buf))
	p.buf = append(p.buf, name...)
	p.buf = append(p.buf, 0)
	return off
}

// Get returns the bytes of the name starting at off, up to (not
// including) the next NUL. It returns nil if off is out of range.
func (p *Pool) Get(off Offset) []byte {
	i := int(off)
	if i < 0 || i >= len(p.buf) {
		return nil
	}
	end := bytes.IndexByte(p.buf[i:], 0)
	if end < 0 {
		return nil
	}
	return p.buf[i : i+end]
}

// Len returns the current size of the backing arena in bytes.
func (p *Pool) Len() int {
	return len(p.buf)
}

// Bytes returns the pool's raw backing buffer, for persistence
// (internal/snapshot writes it out verbatim and reloads it with
// FromBytes rather than replaying every Push call).
func (p *Pool) Bytes() []byte {
	return p.buf
}

// FromBytes reconstructs a Pool from bytes previously returned by Bytes.
// The caller is responsible for ensuring buf was produced by this
// package (leading NUL, NUL-terminated runs).
func FromBytes(buf []byte) *Pool {
	return &Pool{buf: buf}
}

// Cursor is a pull-based iterator over matches within the pool, per
// spec.md §9's design note to reuse a single mutable cursor rather than
// allocate a closure per match.
type Cursor struct {
	pool        *Pool
	needle      []byte
	anchorStart bool
	anchorEnd   bool
	pos         int
	lastEnd     int
	started     bool
}

// SearchSubstring yields each distinct name containing needle.
func (p *Pool) SearchSubstring(needle []byte) *Cursor {
	return &Cursor{pool: p, needle: needle}
}

// SearchPrefix yields each distinct name starting with needle.
func (p *Pool) SearchPrefix(needle []byte) *Cursor {
	return &Cursor{pool: p, needle: needle, anchorStart: true}
}

// SearchSuffix yields each distinct name ending with needle.
func (p *Pool) SearchSuffix(needle []byte) *Cursor {
	return &Cursor{pool: p, needle: needle, anchorEnd: true}
}

// SearchExact yields each pooled name exactly equal to needle (more than
// one when the same name was pushed more than once).
func (p *Pool) SearchExact(needle []byte) *Cursor {
	return &Cursor{pool: p, needle: needle, anchorStart: true, anchorEnd: true}
}

// Next advances the cursor to the next distinct match and returns the
// offset of the name's first byte and its bytes. ok is false once
// exhausted.
func (c *Cursor) Next() (off Offset, name []byte, ok bool) {
	if len(c.needle) == 0 {
		return 0, nil, false
	}
	for {
		idx := bytes.Index(c.pool.buf[c.pos:], c.needle)
		if idx < 0 {
			return 0, nil, false
		}
		matchStart := c.pos + idx
		matchEnd := matchStart + len(c.needle)
		c.pos = matchStart + 1

		nameStart := matchStart
		for nameStart > 0 && c.pool.buf[nameStart-1] != 0 {
			nameStart--
		}
		nameEndRel := bytes.IndexByte(c.pool.buf[matchEnd:], 0)
		if nameEndRel < 0 {
			return 0, nil, false
		}
		nameEnd := matchEnd + nameEndRel

		if c.anchorStart && matchStart != nameStart {
			continue
		}
		if c.anchorEnd && matchEnd != nameEnd {
			continue
		}
		if c.started && nameEnd == c.lastEnd {
			// Same name, different occurrence of needle: skip (dedup rule).
			continue
		}
		c.started = true
		c.lastEnd = nameEnd
		return Offset(nameStart), c.pool.buf[nameStart:nameEnd], true
	}
}
