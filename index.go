// Package instafind is the public entry point to the search cache and
// query engine of spec.md: build (or load) an index over a directory
// tree, keep it current as filesystem events arrive, and run queries
// against it.
//
// Index plays the role iamNilotpal-ignite's pkg/ignite.Instance plays for
// that project's store: one struct wrapping the internal engine pieces,
// a constructor per entry path (fresh build vs. snapshot load), and a
// method per operation.
package instafind

import (
	"io"
	"log"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/instafind/core/api"
	"github.com/instafind/core/internal/cancel"
	"github.com/instafind/core/internal/eventmerge"
	"github.com/instafind/core/internal/metacache"
	"github.com/instafind/core/internal/query/eval"
	"github.com/instafind/core/internal/snapshot"
	"github.com/instafind/core/internal/tree"
	"github.com/instafind/core/internal/walker"
)

// Index owns one tree.Index and the pieces that keep it current and
// searchable: the metadata cache, the event merger, and the
// cancellation versioner for in-flight queries.
type Index struct {
	fs       billy.Filesystem
	tree     *tree.Index
	metadata *metacache.Cache
	merger   *eventmerge.Merger
	versions *cancel.Versioner
	logger   *log.Logger
}

// SetLogger overrides the *log.Logger used for internal diagnostics
// (rescan-required notices, event-merge failures). The default, set by
// every constructor, is log.Default() — matching the teacher's
// arena_writer.go texture of logging background-mutation failures rather
// than a structured logger this repo has no other use for.
func (idx *Index) SetLogger(l *log.Logger) {
	idx.logger = l
}

// BuildOptions controls an initial filesystem walk.
type BuildOptions struct {
	// IgnoreRules are applied during the walk (internal/walker.IgnoreList):
	// a rule with a gitignore metacharacter is a gitignore-style pattern
	// matched against each entry's absolute path; any other rule is a
	// literal absolute path prefix.
	IgnoreRules []string
}

// BuildFromFilesystem walks rootPath on the real filesystem and returns
// a ready-to-query Index. tok, if non-nil, lets the caller abort a slow
// initial walk; a cancelled walk returns the partial result alongside an
// error.
func BuildFromFilesystem(rootPath string, opts BuildOptions, tok *cancel.Token) (*Index, error) {
	return BuildFromFS(osfs.New("/"), rootPath, opts, tok)
}

// BuildFromFS walks rootPath on fs, for callers supplying their own
// billy.Filesystem (tests use memfs.New(), matching the teacher's
// GraphFS/billy.Filesystem test boundary).
func BuildFromFS(fs billy.Filesystem, rootPath string, opts BuildOptions, tok *cancel.Token) (*Index, error) {
	ignore := walker.NewIgnoreList(opts.IgnoreRules)
	ix, err := walker.Walk(fs, rootPath, ignore, tok)
	if err != nil && ix == nil {
		return nil, err
	}
	return wrap(fs, ix), err
}

// LoadSnapshot restores an Index from a previously saved snapshot file.
// wantRoot, if non-empty, must match the snapshot's recorded root path.
func LoadSnapshot(path, wantRoot string) (*Index, error) {
	ix, err := snapshot.LoadFile(path, wantRoot)
	if err != nil {
		return nil, err
	}
	return wrap(osfs.New("/"), ix), nil
}

// LoadSnapshotFrom restores an Index from r instead of a file path, for
// callers holding the snapshot in memory or behind a non-file io.Reader.
func LoadSnapshotFrom(r io.Reader, wantRoot string) (*Index, error) {
	ix, err := snapshot.Load(r, wantRoot)
	if err != nil {
		return nil, err
	}
	return wrap(osfs.New("/"), ix), nil
}

func wrap(fs billy.Filesystem, ix *tree.Index) *Index {
	return &Index{
		fs:       fs,
		tree:     ix,
		metadata: metacache.New(ix, fs),
		merger:   eventmerge.New(fs),
		versions: cancel.NewVersioner(),
		logger:   log.Default(),
	}
}

// SaveSnapshot persists the current tree to path.
func (idx *Index) SaveSnapshot(path string) error {
	return snapshot.SaveFile(path, idx.tree)
}

// SaveSnapshotTo persists the current tree to w.
func (idx *Index) SaveSnapshotTo(w io.Writer) error {
	return snapshot.Save(w, idx.tree)
}

// ApplyEvents folds a batch of normalized filesystem events into the
// index, per spec.md §4.4. Issuing a fresh cancellation version first so
// any query still running against the pre-update tree observes
// cancellation is a caller concern if that matters for their workload;
// ApplyEvents itself only mutates the tree.
func (idx *Index) ApplyEvents(events []api.FsEvent) error {
	err := idx.merger.Apply(idx.tree, events)
	if err != nil && idx.logger != nil {
		idx.logger.Printf("eventmerge: %v", err)
	}
	return err
}

// SearchOptions mirrors spec.md's SearchOptions{case_insensitive}.
type SearchOptions = eval.Options

// SearchOutcome mirrors spec.md's SearchOutcome{nodes, highlights}.
type SearchOutcome = eval.Outcome

// NewCancelToken issues a token for one query's evaluator, superseding
// any token issued before it (spec.md §5).
func (idx *Index) NewCancelToken() *cancel.Token {
	return idx.versions.Issue()
}

// Search parses and evaluates queryText against the current tree.
func (idx *Index) Search(queryText string, opts SearchOptions, tok *cancel.Token) (SearchOutcome, error) {
	return eval.Search(idx.tree, idx.metadata, queryText, opts, tok)
}

// NodePath reconstructs the absolute path for id.
func (idx *Index) NodePath(id tree.NodeId) (string, bool) {
	return idx.tree.NodePath(id)
}

// RootPath returns the directory the index was built from (or the
// snapshot's recorded root, for a loaded Index).
func (idx *Index) RootPath() string {
	return idx.tree.RootPath()
}

// ExpandNodes materializes ids into ExpandedNode values (path plus
// hydrated metadata), for callers rendering a result list.
func (idx *Index) ExpandNodes(ids []tree.NodeId) []api.ExpandedNode {
	out := make([]api.ExpandedNode, 0, len(ids))
	for _, id := range ids {
		path, ok := idx.tree.NodePath(id)
		if !ok {
			continue
		}
		md, _ := idx.metadata.Ensure(id)
		out = append(out, api.ExpandedNode{Path: path, Metadata: md})
	}
	return out
}

// Len returns the number of live nodes in the tree, including the root.
func (idx *Index) Len() int {
	return idx.tree.Len()
}
