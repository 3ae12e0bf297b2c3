// Package snapshot persists a tree.Index to a single gzip-wrapped file,
// per spec.md §4.9. It narrows the teacher's double-buffered mmap arena
// (internal/graph/arena.go's ArenaHeader/ArenaMagic, internal/graph/arena_writer.go's
// flip-and-fsync flusher) down to a single-writer, single-file format: the
// core has exactly one mutator and no second process racing to read a
// stale buffer, so there is nothing to double-buffer.
package snapshot

import (
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/instafind/core/internal/tree"
)

const (
	// Magic identifies an InstaFind snapshot file ("FIND" as bytes).
	Magic uint32 = 0x46494E44
	// Version is the current on-disk format version.
	Version uint8 = 1
)

// ErrIncompatible is returned when a snapshot's magic, version, or
// recorded root path does not match what the caller expects.
var ErrIncompatible = errors.New("snapshot: incompatible file")

// Save writes ix to w as a gzip-compressed snapshot.
func Save(w io.Writer, ix *tree.Index) error {
	gz, err := gzip.NewWriterLevel(w, gzip.BestSpeed)
	if err != nil {
		return err
	}
	if err := binary.Write(gz, binary.LittleEndian, Magic); err != nil {
		return err
	}
	if err := binary.Write(gz, binary.LittleEndian, Version); err != nil {
		return err
	}
	if err := ix.Encode(gz); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return gz.Close()
}

// SaveFile writes ix to path, overwriting any existing file.
func SaveFile(path string, ix *tree.Index) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()
	if err := Save(f, ix); err != nil {
		return err
	}
	return f.Sync()
}

// Load reads a snapshot from r. When wantRoot is non-empty, the snapshot's
// recorded root path must match it exactly (after Clean) or Load returns
// ErrIncompatible.
func Load(r io.Reader, wantRoot string) (*tree.Index, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	defer gz.Close()

	var magic uint32
	if err := binary.Read(gz, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("%w: read magic: %v", ErrIncompatible, err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: bad magic %x", ErrIncompatible, magic)
	}
	var version uint8
	if err := binary.Read(gz, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: read version: %v", ErrIncompatible, err)
	}
	if version != Version {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrIncompatible, version, Version)
	}

	ix, err := tree.Decode(gz)
	if err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}

	if wantRoot != "" && filepath.Clean(wantRoot) != ix.RootPath() {
		return nil, fmt.Errorf("%w: root %q, want %q", ErrIncompatible, ix.RootPath(), wantRoot)
	}
	return ix, nil
}

// LoadFile reads a snapshot from path.
func LoadFile(path, wantRoot string) (*tree.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()
	return Load(f, wantRoot)
}
