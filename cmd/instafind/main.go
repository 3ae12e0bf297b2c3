// Command instafind is a thin demonstration harness over the
// github.com/instafind/core library: build an index, run one query
// against it, fold in a stream of file-system events, or inspect a
// saved snapshot. It does not mount anything and carries no GUI, FUSE,
// or NFS surface of its own.
package main

func main() {
	Execute()
}
