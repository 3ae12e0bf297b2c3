package api

import "testing"

func TestPack_RoundTrip(t *testing.T) {
	p := Pack(Dir, 12345)
	if p.Type() != Dir {
		t.Fatalf("type = %v, want Dir", p.Type())
	}
	if p.Size() != 12345 {
		t.Fatalf("size = %d, want 12345", p.Size())
	}
}

func TestPack_Saturates(t *testing.T) {
	p := Pack(File, maxPackedSize+100)
	if p.Size() != maxPackedSize {
		t.Fatalf("size = %d, want %d (saturated)", p.Size(), maxPackedSize)
	}
}

// TestPack_FileIsZeroTag pins File to the zero tag, per
// original_source/fswalk/src/type_and_size.rs's ordering rationale ("File
// occurs a lot, assign it to 0 for better compression ratio") rather than
// an implementation-defined bit position.
func TestPack_FileIsZeroTag(t *testing.T) {
	p := Pack(File, 0)
	if p[5]>>6 != 0 {
		t.Fatalf("high bits = %d, want 0", p[5]>>6)
	}
}

// TestPack_TypeOccupiesHighTwoBits pins the layout itself: type goes in
// bits 46-47 (the top two bits of the 6-byte little-endian value), size in
// the low 46 bits, matching the Rust source's bit-packed TypeAndSize.
func TestPack_TypeOccupiesHighTwoBits(t *testing.T) {
	p := Pack(Symlink, 0)
	if p.Type() != Symlink {
		t.Fatalf("type = %v, want Symlink", p.Type())
	}
	if p.Size() != 0 {
		t.Fatalf("size = %d, want 0", p.Size())
	}
}
