// Package api defines the stable contract types shared between the search
// cache, the query engine, and their external collaborators (the
// file-system event source, the CLI, and anything else driving the core).
package api

// EventFlag normalizes the OS-specific change-notification flags (macOS
// FSEvents, Linux inotify) into the small fixed set the Event Merger
// understands. The event source is an external collaborator; it is
// responsible for producing these normalized flags.
type EventFlag uint8

const (
	// Created indicates a path came into existence.
	Created EventFlag = iota
	// Removed indicates a path was deleted.
	Removed
	// Modified indicates a path's content or metadata changed in place.
	Modified
	// Renamed indicates a path was renamed; observed by callers as a
	// Removed/Created pair sharing adjacent event ids.
	Renamed
	// RootChanged indicates the watched root itself was replaced or moved;
	// the index cannot reconcile this and must be rebuilt.
	RootChanged
	// MustRescan indicates the event source could not deliver precise
	// information and a directory (or whole-tree) rescan is required.
	MustRescan
	// HistoryDone marks the end of a replayed event history.
	HistoryDone
	// EventIdsWrapped indicates the event id counter wrapped; history
	// before this point can no longer be trusted.
	EventIdsWrapped
)

// FsEvent is one normalized file-system change notification.
type FsEvent struct {
	Path string
	Flag EventFlag
	// Id is a 64-bit watermark, monotonically increasing across the
	// lifetime of the event source.
	Id uint64
	// Dir hints that Path was a directory at the time of the event. The
	// merger does not rely on it: it stats Path and rescans it as a
	// directory or a single node according to what the stat reports.
	Dir bool
}

// ExpandedNode is a materialized view of a search result, used by
// Index.ExpandNodes to hand callers enough information to render a result
// without re-querying the cache.
type ExpandedNode struct {
	Path     string
	Metadata *NodeMetadata
}

// FileType enumerates the node kinds the cache tracks.
type FileType uint8

const (
	File FileType = iota
	Dir
	Symlink
	Unknown
)

func (t FileType) String() string {
	switch t {
	case File:
		return "file"
	case Dir:
		return "dir"
	case Symlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// NodeMetadata is the hydrated (file_type, size, ctime, mtime) tuple from
// spec.md §3. CTime/MTime are Unix seconds; zero means unknown. Tags is the
// platform-provided list of user tags for a file (§11 supplement, `tag:`
// filter); it is empty on platforms with no tag store.
type NodeMetadata struct {
	FileType FileType
	Size     uint64
	CTime    int64
	MTime    int64
	Tags     []string
}
