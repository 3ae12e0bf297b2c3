// Package tree implements the File Tree and Name→IDs Index of spec.md §4.2:
// parent/child relationships over Slab-owned nodes, path reconstruction,
// and a name-indexed bitmap for fast candidate-set lookups.
//
// The Name→IDs index follows the same "bitmap keyed by a string" idiom the
// teacher's MemoryStore uses for fileToNodes (internal/graph/graph.go),
// generalized here from "file path → bitmap of content-node ids" to "name
// → bitmap of NodeIds bearing that name".
package tree

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring"

	"github.com/instafind/core/api"
	"github.com/instafind/core/internal/namepool"
	"github.com/instafind/core/internal/slab"
)

// NodeId is a compact nonzero integer identifying a live node. Zero means
// "absent" (spec.md §3).
type NodeId uint32

// Node is the in-memory representation of one file, directory, or
// symlink.
type Node struct {
	NameRef      namepool.Offset
	Parent       NodeId
	Children     []NodeId
	Metadata     *api.NodeMetadata
	FileTypeHint api.FileType
}

// Index owns the Slab, Name Pool, and Name→IDs map together since
// spec.md §3 requires them to be mutated atomically with each other.
type Index struct {
	mu sync.RWMutex

	pool  *namepool.Pool
	slab  *slab.Slab[*Node]
	names map[string]*roaring.Bitmap // name -> bitmap of NodeId

	root     NodeId
	rootPath string

	lastEventId uint64
}

// New creates an empty Index rooted at rootPath. The root node itself is
// inserted with an empty name (its display name comes from rootPath).
func New(rootPath string) *Index {
	ix := &Index{
		pool:  namepool.New(),
		slab:  slab.New[*Node](),
		names: make(map[string]*roaring.Bitmap),
	}
	ix.rootPath = filepath.Clean(rootPath)
	id := ix.insertNode(0, "", api.Dir)
	ix.root = id
	return ix
}

// RootId returns the NodeId of the index root.
func (ix *Index) RootId() NodeId {
	return ix.root
}

// RootPath returns the absolute path the index was built against.
func (ix *Index) RootPath() string {
	return ix.rootPath
}

// LastEventId returns the watermark recording the highest event id
// durably applied (spec.md §3).
func (ix *Index) LastEventId() uint64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.lastEventId
}

// SetLastEventId advances the watermark. An id lower than the current
// watermark is ignored, so the watermark only moves forward.
func (ix *Index) SetLastEventId(id uint64) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if id > ix.lastEventId {
		ix.lastEventId = id
	}
}

func toSlabId(id NodeId) slab.Id { return slab.Id(id - 1) }
func toNodeId(id slab.Id) NodeId { return NodeId(id + 1) }

// insertNode allocates a new node under parent with the given name and
// type hint, registering it in the Name Pool and Name→IDs index. Caller
// must hold ix.mu for writing.
func (ix *Index) insertNode(parent NodeId, name string, hint api.FileType) NodeId {
	off := ix.pool.Push([]byte(name))
	n := &Node{NameRef: off, Parent: parent, FileTypeHint: hint}
	sid := ix.slab.Insert(n)
	id := toNodeId(sid)

	if name != "" {
		bm, ok := ix.names[name]
		if !ok {
			bm = roaring.New()
			ix.names[name] = bm
		}
		bm.Add(uint32(id))
	}

	if parent != 0 {
		if pn, ok := ix.getNode(parent); ok {
			pn.Children = append(pn.Children, id)
		}
	}
	return id
}

// AddChild inserts a new child node under parent and returns its id.
func (ix *Index) AddChild(parent NodeId, name string, hint api.FileType) NodeId {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.insertNode(parent, name, hint)
}

// getNode is the lock-free core of Get; callers must hold ix.mu.
func (ix *Index) getNode(id NodeId) (*Node, bool) {
	if id == 0 {
		return nil, false
	}
	return ix.slab.Get(toSlabId(id))
}

// Get returns the node for id.
func (ix *Index) Get(id NodeId) (*Node, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.getNode(id)
}

// Name returns the terminal name of id.
func (ix *Index) Name(id NodeId) string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	n, ok := ix.getNode(id)
	if !ok {
		return ""
	}
	return string(ix.pool.Get(n.NameRef))
}

// Children returns the live children of id, or nil if id is absent or a
// leaf.
func (ix *Index) Children(id NodeId) []NodeId {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	n, ok := ix.getNode(id)
	if !ok {
		return nil
	}
	out := make([]NodeId, len(n.Children))
	copy(out, n.Children)
	return out
}

// SetMetadata stores hydrated metadata for id, keeping file_type_hint in
// sync per the invariant in spec.md §3.
func (ix *Index) SetMetadata(id NodeId, md *api.NodeMetadata) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	n, ok := ix.getNode(id)
	if !ok {
		return
	}
	n.Metadata = md
	if md != nil {
		n.FileTypeHint = md.FileType
	}
}

// NamesWith returns a copy of the bitmap of NodeIds bearing exactly name,
// or an empty bitmap if no node has that name.
func (ix *Index) NamesWith(name string) *roaring.Bitmap {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	bm, ok := ix.names[name]
	if !ok {
		return roaring.New()
	}
	return bm.Clone()
}

// AllIds returns a bitmap of every live NodeId except the root (the root
// carries no displayable name and is never a search result).
func (ix *Index) AllIds() *roaring.Bitmap {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	bm := roaring.New()
	ix.slab.Each(func(id slab.Id, _ *Node) {
		nid := toNodeId(id)
		if nid != ix.root {
			bm.Add(uint32(nid))
		}
	})
	return bm
}

// NodePath follows parent pointers to the root, per spec.md §4.2,
// returning false if any link is broken.
func (ix *Index) NodePath(id NodeId) (string, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.nodePathLocked(id)
}

func (ix *Index) nodePathLocked(id NodeId) (string, bool) {
	var segs []string
	cur := id
	for cur != ix.root {
		n, ok := ix.getNode(cur)
		if !ok {
			return "", false
		}
		segs = append(segs, string(ix.pool.Get(n.NameRef)))
		cur = n.Parent
		if cur == 0 && cur != ix.root {
			return "", false
		}
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	if len(segs) == 0 {
		return ix.rootPath, true
	}
	return filepath.Join(append([]string{ix.rootPath}, segs...)...), true
}

// NodeForPath resolves an absolute path (inside the index root) to a
// NodeId by descending one segment at a time through children, comparing
// each child's Name Pool name against the segment.
func (ix *Index) NodeForPath(absPath string) (NodeId, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	rel, err := filepath.Rel(ix.rootPath, filepath.Clean(absPath))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return 0, false
	}
	cur := ix.root
	if rel == "." {
		return cur, true
	}
	for _, seg := range strings.Split(rel, string(filepath.Separator)) {
		if seg == "" {
			continue
		}
		n, ok := ix.getNode(cur)
		if !ok {
			return 0, false
		}
		found := NodeId(0)
		for _, child := range n.Children {
			cn, ok := ix.getNode(child)
			if ok && string(ix.pool.Get(cn.NameRef)) == seg {
				found = child
				break
			}
		}
		if found == 0 {
			return 0, false
		}
		cur = found
	}
	return cur, true
}

// RemoveSubtree deletes id and every descendant, per the removal
// semantics in spec.md §4.4: unlinks from the parent's children, drops
// the Name Index multiplicity (removing the bitmap entry when empty),
// frees the Slab slot, and recurses. The Name Pool is never reclaimed.
func (ix *Index) RemoveSubtree(id NodeId) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeSubtreeLocked(id, true)
}

func (ix *Index) removeSubtreeLocked(id NodeId, unlinkFromParent bool) {
	n, ok := ix.getNode(id)
	if !ok {
		return
	}
	for _, c := range n.Children {
		ix.removeSubtreeLocked(c, false)
	}
	if unlinkFromParent && n.Parent != 0 {
		if pn, ok := ix.getNode(n.Parent); ok {
			for i, c := range pn.Children {
				if c == id {
					pn.Children = append(pn.Children[:i], pn.Children[i+1:]...)
					break
				}
			}
		}
	}
	name := string(ix.pool.Get(n.NameRef))
	if bm, ok := ix.names[name]; ok {
		bm.Remove(uint32(id))
		if bm.IsEmpty() {
			delete(ix.names, name)
		}
	}
	ix.slab.Remove(toSlabId(id))
}

// Len returns the number of live nodes, including the root.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.slab.Len()
}
