package filters

import "testing"

func TestTypeExtensions_DocAliases(t *testing.T) {
	base, ok := TypeExtensions("doc")
	if !ok {
		t.Fatal("expected doc to resolve")
	}
	for _, alias := range []string{"documents", "text", "office"} {
		exts, ok := TypeExtensions(alias)
		if !ok {
			t.Fatalf("expected %q to resolve", alias)
		}
		if len(exts) != len(base) {
			t.Fatalf("%q extensions = %v, want same as doc %v", alias, exts, base)
		}
	}
}

func TestTypeExtensions_UnknownCategory(t *testing.T) {
	if _, ok := TypeExtensions("nonsense"); ok {
		t.Fatal("expected unknown category to be rejected")
	}
}

func TestMatchesExtension_CaseInsensitive(t *testing.T) {
	exts, _ := TypeExtensions("picture")
	if !MatchesExtension("Vacation.JPG", exts) {
		t.Fatal("expected case-insensitive extension match")
	}
}

func TestExtension_NoDotReturnsEmpty(t *testing.T) {
	if Extension("README") != "" {
		t.Fatalf("got %q", Extension("README"))
	}
}

func TestExtension_TrailingDotReturnsEmpty(t *testing.T) {
	if Extension("weird.") != "" {
		t.Fatalf("got %q", Extension("weird."))
	}
}
