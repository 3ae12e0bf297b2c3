package api

// maxPackedSize is the largest size value Packed can represent: 2^46-1.
const maxPackedSize = (uint64(1) << 46) - 1

// Packed is the six-byte (file_type:2, size:46) encoding from spec.md §3,
// carried over from original_source/fswalk/src/type_and_size.rs
// TypeAndSize: type in the high 2 bits, size saturating in the low 46
// bits of a little-endian value, with File deliberately assigned the zero
// tag ("File occurs a lot, assign it to 0 for better compression ratio").
// This is the block the snapshot codec writes for a node's file type and
// size instead of a wider (FileType, uint64) pair; in memory, metadata
// stays the unpacked NodeMetadata.
type Packed [6]byte

// Pack encodes fileType and size, saturating size at 2^46-1.
func Pack(fileType FileType, size uint64) Packed {
	if size > maxPackedSize {
		size = maxPackedSize
	}
	v := size | (uint64(fileType) << 46)
	var p Packed
	for i := 0; i < 6; i++ {
		p[i] = byte(v >> (8 * i))
	}
	return p
}

// Type decodes the file type tag.
func (p Packed) Type() FileType {
	return FileType(p[5] >> 6)
}

// Size decodes the saturating size.
func (p Packed) Size() uint64 {
	var v uint64
	for i := 0; i < 6; i++ {
		v |= uint64(p[i]) << (8 * i)
	}
	return v & maxPackedSize
}
