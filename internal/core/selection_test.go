package core

import (
	"testing"
)

// testCatalog builds a minimal two-tag catalog:
// python: [A, B], rust: [C].
func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	data := `{
	  "tags": {
	    "python": {
	      "displayName": "Python",
	      "packages": {
	        "A": {"source": "https://example.com/a"},
	        "B": {"source": "https://example.com/b"}
	      }
	    },
	    "rust": {
	      "displayName": "Rust",
	      "packages": {
	        "C": {"source": "https://example.com/c"}
	      }
	    }
	  }
	}`
	cat, err := ParseCatalog([]byte(data), "test")
	if err != nil {
		t.Fatalf("ParseCatalog() error: %v", err)
	}
	return cat
}

func names(pkgs []Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name
	}
	return out
}

func equalNames(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSelection_AllTagsActiveInitially(t *testing.T) {
	s := NewSelection(testCatalog(t))

	for _, tv := range s.VisibleTags() {
		if !tv.Active {
			t.Errorf("tag %q should start active", tv.Key)
		}
	}
	if got := names(s.VisiblePackages()); !equalNames(got, "A", "B", "C") {
		t.Errorf("VisiblePackages() = %v, want [A B C]", got)
	}
}

func TestSelection_ToggleTagCascadesChosen(t *testing.T) {
	s := NewSelection(testCatalog(t))

	if err := s.TogglePackage("C"); err != nil {
		t.Fatalf("TogglePackage(C) error: %v", err)
	}
	if err := s.ToggleTag("rust"); err != nil {
		t.Fatalf("ToggleTag(rust) error: %v", err)
	}

	if s.IsChosen("C") {
		t.Error("deactivating rust must drop chosen package C")
	}
	if got := names(s.VisiblePackages()); !equalNames(got, "A", "B") {
		t.Errorf("VisiblePackages() = %v, want [A B]", got)
	}
}

func TestSelection_TogglePackageInactiveTag(t *testing.T) {
	s := NewSelection(testCatalog(t))

	if err := s.ToggleTag("rust"); err != nil {
		t.Fatal(err)
	}
	if err := s.TogglePackage("C"); err == nil {
		t.Error("toggling a filtered-out package must fail")
	}
	if s.IsChosen("C") {
		t.Error("filtered-out package must not become chosen")
	}
}

func TestSelection_TogglePairIsIdentity(t *testing.T) {
	s := NewSelection(testCatalog(t))

	if err := s.TogglePackage("A"); err != nil {
		t.Fatal(err)
	}
	if !s.IsChosen("A") {
		t.Fatal("first toggle should choose A")
	}
	if err := s.TogglePackage("A"); err != nil {
		t.Fatal(err)
	}
	if s.IsChosen("A") {
		t.Error("second toggle should unchoose A")
	}
}

func TestSelection_SelectAllThenNone(t *testing.T) {
	s := NewSelection(testCatalog(t))

	s.SelectAllVisible()
	if got := names(s.ChosenPackages()); !equalNames(got, "A", "B", "C") {
		t.Errorf("ChosenPackages() after select-all = %v", got)
	}

	s.SelectNoneVisible()
	if s.ChosenCount() != 0 {
		t.Errorf("chosen set not empty after select-none: %d", s.ChosenCount())
	}
}

func TestSelection_SelectAllRespectsFilter(t *testing.T) {
	s := NewSelection(testCatalog(t))

	if err := s.ToggleTag("rust"); err != nil {
		t.Fatal(err)
	}
	s.SelectAllVisible()

	if got := names(s.ChosenPackages()); !equalNames(got, "A", "B") {
		t.Errorf("ChosenPackages() = %v, want [A B]", got)
	}
}

// For any sequence of toggles, chosen package tags must remain a
// subset of active tags.
func TestSelection_InvariantUnderToggleSequences(t *testing.T) {
	s := NewSelection(testCatalog(t))

	ops := []func(){
		func() { _ = s.TogglePackage("A") },
		func() { _ = s.TogglePackage("B") },
		func() { _ = s.TogglePackage("C") },
		func() { _ = s.ToggleTag("python") },
		func() { _ = s.ToggleTag("rust") },
		func() { s.SelectAllVisible() },
		func() { _ = s.ToggleTag("python") },
		func() { _ = s.TogglePackage("A") },
		func() { _ = s.ToggleTag("rust") },
		func() { s.SelectNoneVisible() },
		func() { s.SelectAllVisible() },
		func() { _ = s.ToggleTag("python") },
	}

	for i, op := range ops {
		op()
		for _, p := range s.catalog.Packages() {
			if s.IsChosen(p.Name) && !s.IsActive(p.Tag) {
				t.Fatalf("after op %d: chosen package %q has inactive tag %q", i, p.Name, p.Tag)
			}
		}
	}
}

func TestSelection_DeactivateAllTagsEmptiesChosen(t *testing.T) {
	s := NewSelection(testCatalog(t))

	s.SelectAllVisible()
	s.DeactivateAllTags()

	if s.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, want 0", s.ActiveCount())
	}
	if s.ChosenCount() != 0 {
		t.Errorf("ChosenCount() = %d, want 0", s.ChosenCount())
	}

	s.ActivateAllTags()
	if got := names(s.VisiblePackages()); !equalNames(got, "A", "B", "C") {
		t.Errorf("VisiblePackages() after reactivation = %v", got)
	}
	if s.ChosenCount() != 0 {
		t.Error("reactivating tags must not resurrect chosen packages")
	}
}

func TestSelection_VisibleSortCaseInsensitive(t *testing.T) {
	data := `{
	  "tags": {
	    "one": {"displayName": "One", "packages": {
	      "banana": {"source": "https://example.com/1"},
	      "Apple": {"source": "https://example.com/2"}
	    }},
	    "two": {"displayName": "Two", "packages": {
	      "cherry": {"source": "https://example.com/3"}
	    }}
	  }
	}`
	cat, err := ParseCatalog([]byte(data), "test")
	if err != nil {
		t.Fatal(err)
	}
	s := NewSelection(cat)

	if got := names(s.VisiblePackages()); !equalNames(got, "Apple", "banana", "cherry") {
		t.Errorf("VisiblePackages() = %v, want [Apple banana cherry]", got)
	}
}
