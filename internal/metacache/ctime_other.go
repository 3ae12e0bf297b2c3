//go:build !linux

package metacache

import "os"

// ctimeOf has no portable equivalent outside platforms exposing
// syscall.Stat_t; callers fall back to mtime.
func ctimeOf(fi os.FileInfo) (int64, bool) {
	return 0, false
}
