package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/go-git/go-billy/v5"

	"github.com/instafind/core/api"
	"github.com/instafind/core/internal/cancel"
	"github.com/instafind/core/internal/tree"
)

// dirJob is one directory pending a readdir, addressed by the NodeId its
// entries will be attached under.
type dirJob struct {
	parent tree.NodeId
	path   string
}

// dirEntry is one readdir result, before it has been inserted into the
// Index (insertion is single-threaded; discovery is not).
type dirEntry struct {
	name     string
	fileType api.FileType
	size     uint64
	mtime    int64
}

type dirResult struct {
	job     dirJob
	entries []dirEntry
	err     error
}

// Walk builds a fresh tree.Index rooted at rootPath by descending fsys
// with a bounded worker pool, mirroring the reader/worker/collector split
// the teacher uses for its SQLite ingestion (internal/ingest.Engine's
// ingestSQLiteStreaming): readdir I/O fans out across runtime.NumCPU()
// workers, but every Index mutation happens on a single collector
// goroutine so the Slab, Name Pool, and Name→IDs map never need their own
// lock against the walk itself.
//
// tok is polled once per directory; a cancelled walk returns the partial
// Index built so far along with a non-nil error.
func Walk(fsys billy.Filesystem, rootPath string, ignore *IgnoreList, tok *cancel.Token) (*tree.Index, error) {
	root := filepath.Clean(rootPath)
	ix := tree.New(root)

	numWorkers := runtime.NumCPU()
	if numWorkers < 1 {
		numWorkers = 1
	}

	jobs := make(chan dirJob)
	results := make(chan dirResult)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- readDir(fsys, j)
			}
		}()
	}

	queue := []dirJob{{parent: ix.RootId(), path: root}}
	pending := 0
	var firstErr error
	cancelled := false

	for len(queue) > 0 || pending > 0 {
		if cancelled {
			// Drain outstanding results without scheduling new work.
			if pending == 0 {
				break
			}
			<-results
			pending--
			continue
		}
		if tok.IsCancelled() {
			cancelled = true
			firstErr = fmt.Errorf("walker: cancelled at %q", root)
			continue
		}

		if len(queue) > 0 {
			select {
			case jobs <- queue[0]:
				queue = queue[1:]
				pending++
			case res := <-results:
				pending--
				queue = append(queue, applyResult(ix, res, ignore, &firstErr)...)
			}
		} else {
			res := <-results
			pending--
			queue = append(queue, applyResult(ix, res, ignore, &firstErr)...)
		}
	}

	close(jobs)
	wg.Wait()

	return ix, firstErr
}

// applyResult inserts one directory's entries into ix and returns the
// subdirectory jobs it discovered. Runs only on the collector goroutine.
func applyResult(ix *tree.Index, res dirResult, ignore *IgnoreList, firstErr *error) []dirJob {
	if res.err != nil {
		if *firstErr == nil {
			*firstErr = res.err
		}
		return nil
	}
	var next []dirJob
	for _, e := range res.entries {
		childPath := filepath.Join(res.job.path, e.name)
		isDir := e.fileType == api.Dir
		if ignore.Match(childPath, isDir) {
			continue
		}
		id := ix.AddChild(res.job.parent, e.name, e.fileType)
		ix.SetMetadata(id, &api.NodeMetadata{
			FileType: e.fileType,
			Size:     e.size,
			MTime:    e.mtime,
		})
		if isDir {
			next = append(next, dirJob{parent: id, path: childPath})
		}
	}
	return next
}

// readDir performs the blocking I/O for one directory; safe to run
// concurrently across many directories since it touches no shared state.
func readDir(fsys billy.Filesystem, j dirJob) dirResult {
	infos, err := fsys.ReadDir(j.path)
	if err != nil {
		return dirResult{job: j, err: fmt.Errorf("readdir %q: %w", j.path, err)}
	}
	entries := make([]dirEntry, 0, len(infos))
	for _, fi := range infos {
		ft := fileTypeOf(fi)
		entries = append(entries, dirEntry{
			name:     fi.Name(),
			fileType: ft,
			size:     uint64(fi.Size()),
			mtime:    fi.ModTime().Unix(),
		})
	}
	return dirResult{job: j, entries: entries}
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
