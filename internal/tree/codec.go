package tree

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring"

	"github.com/instafind/core/api"
	"github.com/instafind/core/internal/namepool"
	"github.com/instafind/core/internal/slab"
)

// Encode writes the Index's structural state (Name Pool bytes, Slab
// entries, parent/child links, metadata, root, and the event watermark)
// to w. The Name→IDs map is not written: it is entirely derived from
// NameRef + the Slab, so Decode rebuilds it the same way insertNode does
// on a live index rather than duplicating it on disk.
func (ix *Index) Encode(w io.Writer) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if err := writeBytes(w, []byte(ix.rootPath)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, ix.lastEventId); err != nil {
		return err
	}
	if err := writeBytes(w, ix.pool.Bytes()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(ix.root)); err != nil {
		return err
	}

	slabCap := uint32(ix.slab.Cap())
	if err := binary.Write(w, binary.LittleEndian, slabCap); err != nil {
		return err
	}
	for i := slab.Id(0); i < slab.Id(slabCap); i++ {
		n, ok := ix.slab.Get(i)
		if !ok {
			if err := binary.Write(w, binary.LittleEndian, uint8(0)); err != nil {
				return err
			}
			continue
		}
		if err := binary.Write(w, binary.LittleEndian, uint8(1)); err != nil {
			return err
		}
		if err := encodeNode(w, n); err != nil {
			return err
		}
	}
	return nil
}

// encodeNode writes one Slab entry's (parent, name_offset, file_type_hint,
// packed_metadata?) block per spec.md's snapshot file layout. When present,
// file_type and size are written as the 6-byte api.Packed block rather than
// a separate type byte and a wide size field.
func encodeNode(w io.Writer, n *Node) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(n.NameRef)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(n.Parent)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(n.Children))); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := binary.Write(w, binary.LittleEndian, uint32(c)); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(n.FileTypeHint)); err != nil {
		return err
	}
	if n.Metadata == nil {
		return binary.Write(w, binary.LittleEndian, uint8(0))
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(1)); err != nil {
		return err
	}
	packed := api.Pack(n.Metadata.FileType, n.Metadata.Size)
	if _, err := w.Write(packed[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, n.Metadata.CTime); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, n.Metadata.MTime); err != nil {
		return err
	}
	return writeStringList(w, n.Metadata.Tags)
}

func writeStringList(w io.Writer, ss []string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(ss))); err != nil {
		return err
	}
	for _, s := range ss {
		if err := writeBytes(w, []byte(s)); err != nil {
			return err
		}
	}
	return nil
}

func readStringList(r io.Reader) ([]string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	ss := make([]string, n)
	for i := range ss {
		b, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		ss[i] = string(b)
	}
	return ss, nil
}

func decodeNode(r io.Reader) (*Node, error) {
	var nameRef, parent, numChildren uint32
	if err := binary.Read(r, binary.LittleEndian, &nameRef); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &parent); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &numChildren); err != nil {
		return nil, err
	}
	children := make([]NodeId, numChildren)
	for i := range children {
		var c uint32
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return nil, err
		}
		children[i] = NodeId(c)
	}
	var hint uint8
	if err := binary.Read(r, binary.LittleEndian, &hint); err != nil {
		return nil, err
	}
	var hasMetadata uint8
	if err := binary.Read(r, binary.LittleEndian, &hasMetadata); err != nil {
		return nil, err
	}
	n := &Node{
		NameRef:      namepool.Offset(nameRef),
		Parent:       NodeId(parent),
		Children:     children,
		FileTypeHint: api.FileType(hint),
	}
	if hasMetadata == 0 {
		return n, nil
	}
	var packed api.Packed
	var ctime, mtime int64
	if _, err := io.ReadFull(r, packed[:]); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &ctime); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &mtime); err != nil {
		return nil, err
	}
	tags, err := readStringList(r)
	if err != nil {
		return nil, err
	}
	n.Metadata = &api.NodeMetadata{
		FileType: packed.Type(),
		Size:     packed.Size(),
		CTime:    ctime,
		MTime:    mtime,
		Tags:     tags,
	}
	return n, nil
}

// Decode reconstructs an Index previously written by Encode.
func Decode(r io.Reader) (*Index, error) {
	rootPathBytes, err := readBytes(r)
	if err != nil {
		return nil, fmt.Errorf("read root path: %w", err)
	}
	var lastEventId uint64
	if err := binary.Read(r, binary.LittleEndian, &lastEventId); err != nil {
		return nil, fmt.Errorf("read last event id: %w", err)
	}
	poolBytes, err := readBytes(r)
	if err != nil {
		return nil, fmt.Errorf("read name pool: %w", err)
	}
	var root uint32
	if err := binary.Read(r, binary.LittleEndian, &root); err != nil {
		return nil, fmt.Errorf("read root id: %w", err)
	}
	var slabCap uint32
	if err := binary.Read(r, binary.LittleEndian, &slabCap); err != nil {
		return nil, fmt.Errorf("read slab capacity: %w", err)
	}

	ix := &Index{
		pool:     namepool.FromBytes(poolBytes),
		slab:     slab.New[*Node](),
		names:    make(map[string]*roaring.Bitmap),
		rootPath: string(rootPathBytes),
		root:     NodeId(root),
	}

	for i := slab.Id(0); i < slab.Id(slabCap); i++ {
		var used uint8
		if err := binary.Read(r, binary.LittleEndian, &used); err != nil {
			return nil, fmt.Errorf("read slot %d presence: %w", i, err)
		}
		if used == 0 {
			continue
		}
		n, err := decodeNode(r)
		if err != nil {
			return nil, fmt.Errorf("read slot %d: %w", i, err)
		}
		ix.slab.InsertAt(i, n)
	}
	ix.slab.RebuildFreeList()
	ix.lastEventId = lastEventId

	ix.slab.Each(func(id slab.Id, n *Node) {
		nid := toNodeId(id)
		if nid == ix.root {
			return
		}
		name := string(ix.pool.Get(n.NameRef))
		if name == "" {
			return
		}
		bm, ok := ix.names[name]
		if !ok {
			bm = roaring.New()
			ix.names[name] = bm
		}
		bm.Add(uint32(nid))
	})

	return ix, nil
}

func writeBytes(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBytes(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
