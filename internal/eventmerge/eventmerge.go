// Package eventmerge applies normalized file-system change batches to a
// tree.Index, per spec.md §4.4. It generalizes the teacher's
// MemoryStore.DeleteFileNodes bitmap-driven removal (internal/graph/graph.go)
// from "drop everything this source file produced" to "reconcile one path
// against what the file system now says", and narrows its
// internal/control.Controller generation watermark from a cross-process
// mmap'd counter down to the in-process last_event_id field tree.Index
// already carries.
package eventmerge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/instafind/core/api"
	"github.com/instafind/core/internal/tree"
)

// ErrRescanRequired signals that the batch could not be reconciled
// incrementally and the caller must rebuild the index from scratch
// (spec.md §4.4's "Failure" and RootChanged handling).
var ErrRescanRequired = errors.New("eventmerge: full rescan required")

// Merger applies FsEvent batches against an Index, resolving rescans
// against fs.
type Merger struct {
	fs billy.Filesystem
}

// New returns a Merger that resolves rescans against fs.
func New(fs billy.Filesystem) *Merger {
	return &Merger{fs: fs}
}

// Apply mutates ix in place per the batch of events, applied in ascending
// Id order regardless of the order they arrive in. last_event_id always
// advances to the batch max, even when a later event forces a rescan
// signal, so a retried rebuild knows where history resumed.
func (m *Merger) Apply(ix *tree.Index, events []api.FsEvent) error {
	ordered := make([]api.FsEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Id < ordered[j].Id })

	for _, ev := range ordered {
		switch ev.Flag {
		case api.HistoryDone, api.EventIdsWrapped:
			ix.SetLastEventId(ev.Id)
			continue
		case api.RootChanged:
			ix.SetLastEventId(ordered[len(ordered)-1].Id)
			return ErrRescanRequired
		}

		if err := m.rescanPath(ix, ev.Path, ev.Dir); err != nil {
			ix.SetLastEventId(ordered[len(ordered)-1].Id)
			return fmt.Errorf("%w: %v", ErrRescanRequired, err)
		}
		ix.SetLastEventId(ev.Id)
	}
	return nil
}

// ensureAncestors resolves or creates every ancestor directory of absPath,
// returning the parent NodeId and final path segment. It never creates or
// inspects the final component itself.
func ensureAncestors(ix *tree.Index, absPath string) (tree.NodeId, string, error) {
	rel, err := filepath.Rel(ix.RootPath(), absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return 0, "", fmt.Errorf("path %q escapes index root %q", absPath, ix.RootPath())
	}
	if rel == "." {
		return 0, "", fmt.Errorf("path %q is the index root itself", absPath)
	}

	segs := strings.Split(filepath.ToSlash(rel), "/")
	cur := ix.RootId()
	curPath := ix.RootPath()
	for _, seg := range segs[:len(segs)-1] {
		curPath = filepath.Join(curPath, seg)
		if id, ok := ix.NodeForPath(curPath); ok {
			n, ok := ix.Get(id)
			if !ok || n.FileTypeHint != api.Dir {
				return 0, "", fmt.Errorf("ancestor %q is not a directory", curPath)
			}
			cur = id
			continue
		}
		cur = ix.AddChild(cur, seg, api.Dir)
	}
	return cur, segs[len(segs)-1], nil
}

// rescanPath implements the per-path rescan procedure of spec.md §4.4:
// resolve ancestors, then reconcile the final path against what the file
// system says, recursing one level into a directory's children. The
// event's own Dir hint is not consulted: a live stat decides between a
// directory and a single-node rescan, and a path that no longer stats is
// removed along with its subtree either way.
func (m *Merger) rescanPath(ix *tree.Index, path string, _ bool) error {
	absPath := filepath.Clean(path)
	parent, name, err := ensureAncestors(ix, absPath)
	if err != nil {
		return err
	}

	existingId, hasExisting := ix.NodeForPath(absPath)
	fi, statErr := m.fs.Lstat(absPath)

	if statErr != nil {
		if hasExisting {
			ix.RemoveSubtree(existingId)
		}
		return nil
	}

	ft := fileTypeOf(fi)

	var id tree.NodeId
	if hasExisting {
		id = existingId
	} else {
		id = ix.AddChild(parent, name, ft)
	}
	ix.SetMetadata(id, &api.NodeMetadata{
		FileType: ft,
		Size:     uint64(fi.Size()),
		MTime:    fi.ModTime().Unix(),
	})

	if ft != api.Dir {
		return nil
	}
	return m.diffDirectory(ix, id, absPath)
}

// diffDirectory reconciles one directory's immediate children against a
// fresh readdir: missing entries are inserted, vanished ones are removed
// recursively. It does not descend into newly discovered subdirectories;
// those surface via their own events or a future rescan.
func (m *Merger) diffDirectory(ix *tree.Index, dirId tree.NodeId, absPath string) error {
	infos, err := m.fs.ReadDir(absPath)
	if err != nil {
		return fmt.Errorf("readdir %q: %w", absPath, err)
	}

	present := make(map[string]bool, len(infos))
	for _, fi := range infos {
		present[fi.Name()] = true
	}

	for _, child := range ix.Children(dirId) {
		if !present[ix.Name(child)] {
			ix.RemoveSubtree(child)
		}
	}

	existing := make(map[string]bool)
	for _, child := range ix.Children(dirId) {
		existing[ix.Name(child)] = true
	}
	for _, fi := range infos {
		if existing[fi.Name()] {
			continue
		}
		ft := fileTypeOf(fi)
		id := ix.AddChild(dirId, fi.Name(), ft)
		ix.SetMetadata(id, &api.NodeMetadata{
			FileType: ft,
			Size:     uint64(fi.Size()),
			MTime:    fi.ModTime().Unix(),
		})
	}
	return nil
}

func fileTypeOf(fi os.FileInfo) api.FileType {
	switch {
	case fi.Mode()&os.ModeSymlink != 0:
		return api.Symlink
	case fi.IsDir():
		return api.Dir
	case fi.Mode().IsRegular():
		return api.File
	default:
		return api.Unknown
	}
}
