package segment

import "testing"

func TestCompile_SingleSegmentNoSlashesIsSubstr(t *testing.T) {
	m := Compile("report", false)
	if len(m.Segments) != 1 || m.Segments[0].Kind != Substr {
		t.Fatalf("got %+v", m.Segments)
	}
	if !m.Match([]string{"quarterly_report.pdf"}, false) {
		t.Fatal("expected substring match")
	}
}

func TestCompile_LeadingSlashAnchorsPrefix(t *testing.T) {
	m := Compile("/usr", false)
	if m.Segments[0].Kind != Prefix {
		t.Fatalf("kind = %v, want Prefix", m.Segments[0].Kind)
	}
	if !m.Match([]string{"usr-local"}, false) {
		t.Fatal("expected prefix match")
	}
	if m.Match([]string{"my-usr"}, false) {
		t.Fatal("should not match when usr is not a prefix")
	}
}

func TestCompile_TrailingSlashAnchorsSuffix(t *testing.T) {
	m := Compile("log/", false)
	if m.Segments[0].Kind != Suffix {
		t.Fatalf("kind = %v, want Suffix", m.Segments[0].Kind)
	}
	if !m.Match([]string{"access.log"}, false) {
		t.Fatal("expected suffix match")
	}
}

func TestCompile_BothSlashesAnchorExact(t *testing.T) {
	m := Compile("/etc/", false)
	if m.Segments[0].Kind != Exact {
		t.Fatalf("kind = %v, want Exact", m.Segments[0].Kind)
	}
	if !m.Match([]string{"etc"}, false) {
		t.Fatal("expected exact match")
	}
	if m.Match([]string{"etcetera"}, false) {
		t.Fatal("exact should not match superstring")
	}
}

func TestCompile_MultiSegmentInteriorIsExact(t *testing.T) {
	m := Compile("src/internal/main.go", false)
	if len(m.Segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(m.Segments))
	}
	if m.Segments[1].Kind != Exact {
		t.Fatalf("interior segment kind = %v, want Exact", m.Segments[1].Kind)
	}
	if !m.Match([]string{"src", "internal", "main.go"}, false) {
		t.Fatal("expected exact path match")
	}
}

func TestCompile_MultiSegmentNoLeadingSlashMatchesSuffix(t *testing.T) {
	m := Compile("src/internal/main.go", false)
	if m.Segments[0].Kind != Suffix {
		t.Fatalf("first segment kind = %v, want Suffix (no leading slash leaves the start open)", m.Segments[0].Kind)
	}
	// "my_src" is not equal to "src", only suffixed by it — an unanchored
	// first segment must still match it.
	if !m.Match([]string{"my_src", "internal", "main.go"}, false) {
		t.Fatal("expected unanchored first segment to match as a suffix, not require exact equality")
	}
}

func TestCompile_MultiSegmentNoTrailingSlashMatchesPrefix(t *testing.T) {
	m := Compile("src/internal/main.go", false)
	if m.Segments[2].Kind != Prefix {
		t.Fatalf("last segment kind = %v, want Prefix (no trailing slash leaves the end open)", m.Segments[2].Kind)
	}
	// "main.go.bak" is not equal to "main.go", only prefixed by it — an
	// unanchored last segment must still match it.
	if !m.Match([]string{"src", "internal", "main.go.bak"}, false) {
		t.Fatal("expected unanchored last segment to match as a prefix, not require exact equality")
	}
}

func TestCompile_MultiSegmentBothSlashesAnchorEndsExact(t *testing.T) {
	m := Compile("/src/internal/main.go/", false)
	if m.Segments[0].Kind != Exact {
		t.Fatalf("first segment kind = %v, want Exact (leading slash anchors it)", m.Segments[0].Kind)
	}
	if m.Segments[2].Kind != Exact {
		t.Fatalf("last segment kind = %v, want Exact (trailing slash anchors it)", m.Segments[2].Kind)
	}
	if m.Match([]string{"my_src", "internal", "main.go"}, false) {
		t.Fatal("anchored first segment must not match a mere suffix")
	}
	if !m.Match([]string{"src", "internal", "main.go"}, false) {
		t.Fatal("expected exact path match")
	}
}

func TestCompile_Globstar(t *testing.T) {
	m := Compile("src/**/main.go", false)
	if !m.Match([]string{"src", "a", "b", "main.go"}, false) {
		t.Fatal("expected globstar to span multiple segments")
	}
	if !m.Match([]string{"src", "main.go"}, false) {
		t.Fatal("expected globstar to allow zero segments")
	}
	if m.Match([]string{"other", "main.go"}, false) {
		t.Fatal("should not match wrong prefix")
	}
}

func TestCompile_WildcardStarCompilesToRegex(t *testing.T) {
	m := Compile("*.go", false)
	if m.Segments[0].Re == nil {
		t.Fatal("expected regex for wildcard segment")
	}
	if !m.Match([]string{"main.go"}, false) {
		t.Fatal("expected wildcard match")
	}
	if m.Match([]string{"main.txt"}, false) {
		t.Fatal("wildcard segment should not match an unrelated extension")
	}
}

func TestCompile_CaseInsensitiveForcesRegex(t *testing.T) {
	m := Compile("Report", true)
	if m.Segments[0].Re == nil {
		t.Fatal("expected regex for case-insensitive segment")
	}
	if !m.Match([]string{"MY_REPORT_FINAL"}, true) {
		t.Fatal("expected case-insensitive substring match")
	}
}

func TestCompile_QuestionMarkMatchesSingleChar(t *testing.T) {
	m := Compile("a?c", false)
	if !m.Match([]string{"abc"}, false) {
		t.Fatal("expected ? to match one char")
	}
	if m.Match([]string{"ac"}, false) {
		t.Fatal("? should require exactly one char")
	}
}
