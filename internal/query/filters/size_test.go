package filters

import "testing"

func TestParseSize_BareBytes(t *testing.T) {
	n, err := ParseSize("4096")
	if err != nil || n != 4096 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}

func TestParseSize_UnitsAreBinary(t *testing.T) {
	cases := map[string]uint64{
		"10kb":        10 * 1024,
		"1mb":         1024 * 1024,
		"1GiB":        1024 * 1024 * 1024,
		"2gigabytes":  2 * 1024 * 1024 * 1024,
		"1kilobyte":   1024,
	}
	for in, want := range cases {
		got, err := ParseSize(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q = %d, want %d", in, got, want)
		}
	}
}

func TestParseSize_UnknownUnitErrors(t *testing.T) {
	if _, err := ParseSize("10zz"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSizeKeywordRange_Tiny(t *testing.T) {
	lo, hi, hasUpper, ok := SizeKeywordRange("tiny")
	if !ok || !hasUpper {
		t.Fatalf("ok=%v hasUpper=%v", ok, hasUpper)
	}
	if lo != 1 || hi != 10*1024 {
		t.Fatalf("lo=%d hi=%d", lo, hi)
	}
}

func TestSizeKeywordRange_GiantAndGiganticAlias(t *testing.T) {
	lo1, _, hasUpper1, ok1 := SizeKeywordRange("giant")
	lo2, _, hasUpper2, ok2 := SizeKeywordRange("gigantic")
	if !ok1 || !ok2 {
		t.Fatal("expected both keywords recognized")
	}
	if hasUpper1 || hasUpper2 {
		t.Fatal("giant/gigantic should have no upper bound")
	}
	if lo1 != lo2 {
		t.Fatalf("lo1=%d lo2=%d, should alias the same range", lo1, lo2)
	}
}

func TestSizeKeywordRange_Empty(t *testing.T) {
	lo, hi, hasUpper, ok := SizeKeywordRange("empty")
	if !ok || !hasUpper || lo != 0 || hi != 0 {
		t.Fatalf("lo=%d hi=%d hasUpper=%v ok=%v", lo, hi, hasUpper, ok)
	}
}

func TestSizeKeywordRange_Unknown(t *testing.T) {
	if _, _, _, ok := SizeKeywordRange("nonsense"); ok {
		t.Fatal("expected unknown keyword to be rejected")
	}
}
