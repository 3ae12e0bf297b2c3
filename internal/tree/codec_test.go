package tree

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instafind/core/api"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	ix := New("/repo")
	src := ix.AddChild(ix.RootId(), "src", api.Dir)
	main := ix.AddChild(src, "main.go", api.File)
	ix.SetMetadata(main, &api.NodeMetadata{FileType: api.File, Size: 123, CTime: 10, MTime: 20})
	ix.SetLastEventId(42)

	var buf bytes.Buffer
	require.NoError(t, ix.Encode(&buf))

	got, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, ix.RootPath(), got.RootPath())
	assert.Equal(t, uint64(42), got.LastEventId())

	gotMainId, ok := got.NodeForPath("/repo/src/main.go")
	require.True(t, ok)
	gotNode, ok := got.Get(gotMainId)
	require.True(t, ok)
	assert.Equal(t, api.File, gotNode.FileTypeHint)
	require.NotNil(t, gotNode.Metadata)
	assert.Equal(t, uint64(123), gotNode.Metadata.Size)
	assert.Equal(t, int64(10), gotNode.Metadata.CTime)

	assert.Equal(t, 1, got.NamesWith("main.go").GetCardinality())
}

// TestEncodeDecode_FileTypeAndSizeArePacked pins the snapshot's Slab-entry
// metadata block to the 6-byte (file_type:2, size:46) api.Packed layout
// spec.md's snapshot file layout names, rather than a wider type byte plus
// a separate 8-byte size field.
func TestEncodeDecode_FileTypeAndSizeArePacked(t *testing.T) {
	ix := New("/repo")
	id := ix.AddChild(ix.RootId(), "a.txt", api.File)
	ix.SetMetadata(id, &api.NodeMetadata{FileType: api.File, Size: 123})

	var buf bytes.Buffer
	require.NoError(t, ix.Encode(&buf))

	want := api.Pack(api.File, 123)
	got := buf.Bytes()
	idx := bytes.Index(got, want[:])
	require.NotEqual(t, -1, idx, "packed (file_type, size) block not found in encoded snapshot")
}

func TestEncodeDecode_PreservesTags(t *testing.T) {
	ix := New("/repo")
	id := ix.AddChild(ix.RootId(), "photo.jpg", api.File)
	ix.SetMetadata(id, &api.NodeMetadata{FileType: api.File, Size: 1, Tags: []string{"vacation", "family"}})

	var buf bytes.Buffer
	require.NoError(t, ix.Encode(&buf))
	got, err := Decode(&buf)
	require.NoError(t, err)

	gotId, ok := got.NodeForPath("/repo/photo.jpg")
	require.True(t, ok)
	gotNode, ok := got.Get(gotId)
	require.True(t, ok)
	assert.Equal(t, []string{"vacation", "family"}, gotNode.Metadata.Tags)
}

func TestEncodeDecode_PreservesFreedSlots(t *testing.T) {
	ix := New("/repo")
	a := ix.AddChild(ix.RootId(), "a.txt", api.File)
	ix.AddChild(ix.RootId(), "b.txt", api.File)
	ix.RemoveSubtree(a)

	var buf bytes.Buffer
	require.NoError(t, ix.Encode(&buf))
	got, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, ix.Len(), got.Len())
	_, ok := got.NodeForPath("/repo/a.txt")
	assert.False(t, ok)
	_, ok = got.NodeForPath("/repo/b.txt")
	assert.True(t, ok)

	// The freed slot should be available for reuse, not permanently lost.
	c := got.AddChild(got.RootId(), "c.txt", api.File)
	assert.Equal(t, a, c)
}
