// Package metacache implements the lazily-filled metadata store of
// spec.md §4.3. The (file_type, size) packed encoding it eventually
// persists through is api.Packed (see api/packed.go); in memory, metadata
// stays the unpacked api.NodeMetadata shape so every reader (filters,
// tree.Node.Metadata, the cache itself) can address FileType/Size/CTime/
// MTime/Tags directly without unpacking on every access.
package metacache

import (
	"os"

	billy "github.com/go-git/go-billy/v5"

	"github.com/instafind/core/api"
	"github.com/instafind/core/internal/tree"
)

// Cache lazily hydrates node metadata from a billy.Filesystem, per
// spec.md §4.3. Production callers pass osfs.New("/"); tests pass
// memfs.New() so no real disk I/O occurs, the same split the teacher's
// GraphFS/billy.Filesystem boundary provides for its NFS adapter
// (internal/nfsmount/graphfs.go).
type Cache struct {
	fs billy.Filesystem
	ix *tree.Index
}

// New returns a Cache bound to ix, resolving stat calls through fs.
func New(ix *tree.Index, fs billy.Filesystem) *Cache {
	return &Cache{fs: fs, ix: ix}
}

// Ensure hydrates id's metadata if absent, per spec.md §4.3: resolves the
// absolute path via node_path, stats it once, and stores the result. A
// stat failure leaves metadata absent and is not surfaced to the caller
// (spec.md §7, MetadataUnavailable).
func (c *Cache) Ensure(id tree.NodeId) (*api.NodeMetadata, bool) {
	n, ok := c.ix.Get(id)
	if !ok {
		return nil, false
	}
	if n.Metadata != nil {
		return n.Metadata, true
	}

	path, ok := c.ix.NodePath(id)
	if !ok {
		return nil, false
	}

	fi, err := c.fs.Lstat(path)
	if err != nil {
		return nil, false
	}

	md := &api.NodeMetadata{
		FileType: fileTypeOf(fi),
		Size:     uint64(fi.Size()),
		MTime:    fi.ModTime().Unix(),
	}
	if ct, ok := ctimeOf(fi); ok {
		md.CTime = ct
	} else {
		md.CTime = md.MTime
	}

	c.ix.SetMetadata(id, md)
	return md, true
}

func fileTypeOf(fi os.FileInfo) api.FileType {
	mode := fi.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		return api.Symlink
	case mode.IsDir():
		return api.Dir
	case mode.IsRegular():
		return api.File
	default:
		return api.Unknown
	}
}
