package core

import (
	"fmt"
	"sort"
	"strings"
)

// Selection tracks which ecosystem tags and which packages are currently
// chosen. All transitions are pure state changes; the model holds no I/O.
//
// Invariant: a package may be chosen only while its tag is active.
// Deactivating a tag drops its chosen packages (cascade), so the chosen
// set can never reference a filtered-out item.
type Selection struct {
	catalog *Catalog
	active  map[string]bool // tag key -> active
	chosen  map[string]bool // package name -> chosen
}

// TagView is a tag annotated with its current activation state.
type TagView struct {
	Tag
	Active bool
}

// NewSelection creates a selection over the catalog with every tag
// active and nothing chosen.
func NewSelection(cat *Catalog) *Selection {
	s := &Selection{
		catalog: cat,
		active:  make(map[string]bool, len(cat.Tags)),
		chosen:  make(map[string]bool),
	}
	for _, t := range cat.Tags {
		s.active[t.Key] = true
	}
	return s
}

// ToggleTag flips a tag in or out of the active set. Removing a tag
// also removes every chosen package belonging to it.
func (s *Selection) ToggleTag(key string) error {
	tag, ok := s.findTag(key)
	if !ok {
		return fmt.Errorf("unknown tag %q", key)
	}

	if s.active[key] {
		s.active[key] = false
		for _, p := range tag.Packages {
			delete(s.chosen, p.Name)
		}
		return nil
	}

	s.active[key] = true
	return nil
}

// ActivateAllTags marks every tag active.
func (s *Selection) ActivateAllTags() {
	for _, t := range s.catalog.Tags {
		s.active[t.Key] = true
	}
}

// DeactivateAllTags turns every tag off. The cascade empties the
// chosen set along with it.
func (s *Selection) DeactivateAllTags() {
	for _, t := range s.catalog.Tags {
		s.active[t.Key] = false
	}
	s.chosen = make(map[string]bool)
}

// TogglePackage flips a package's membership in the chosen set.
// It is an error to toggle a package whose tag is not active.
func (s *Selection) TogglePackage(name string) error {
	pkg, ok := s.catalog.FindPackage(name)
	if !ok {
		return fmt.Errorf("unknown package %q", name)
	}
	if !s.active[pkg.Tag] {
		return fmt.Errorf("package %q is filtered out (tag %q is inactive)", name, pkg.Tag)
	}

	if s.chosen[name] {
		delete(s.chosen, name)
	} else {
		s.chosen[name] = true
	}
	return nil
}

// SelectAllVisible sets the chosen set to exactly the visible packages.
func (s *Selection) SelectAllVisible() {
	s.chosen = make(map[string]bool)
	for _, p := range s.VisiblePackages() {
		s.chosen[p.Name] = true
	}
}

// SelectNoneVisible empties the chosen set.
func (s *Selection) SelectNoneVisible() {
	s.chosen = make(map[string]bool)
}

// VisiblePackages returns the packages whose tag is active, sorted by
// name case-insensitively ascending, ties broken by tag name.
func (s *Selection) VisiblePackages() []Package {
	var visible []Package
	for _, t := range s.catalog.Tags {
		if s.active[t.Key] {
			visible = append(visible, t.Packages...)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		a, b := strings.ToLower(visible[i].Name), strings.ToLower(visible[j].Name)
		if a != b {
			return a < b
		}
		return visible[i].TagName < visible[j].TagName
	})
	return visible
}

// VisibleTags returns every tag in catalog-declared order, annotated
// with its activation state.
func (s *Selection) VisibleTags() []TagView {
	views := make([]TagView, 0, len(s.catalog.Tags))
	for _, t := range s.catalog.Tags {
		views = append(views, TagView{Tag: t, Active: s.active[t.Key]})
	}
	return views
}

// ChosenPackages returns the chosen packages in VisiblePackages order,
// which is also the order the installer processes them in.
func (s *Selection) ChosenPackages() []Package {
	var out []Package
	for _, p := range s.VisiblePackages() {
		if s.chosen[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

// IsChosen reports whether the named package is currently chosen.
func (s *Selection) IsChosen(name string) bool { return s.chosen[name] }

// IsActive reports whether the tag is currently active.
func (s *Selection) IsActive(key string) bool { return s.active[key] }

// ChosenCount returns the number of chosen packages.
func (s *Selection) ChosenCount() int { return len(s.chosen) }

// ActiveCount returns the number of active tags.
func (s *Selection) ActiveCount() int {
	n := 0
	for _, v := range s.active {
		if v {
			n++
		}
	}
	return n
}

func (s *Selection) findTag(key string) (Tag, bool) {
	for _, t := range s.catalog.Tags {
		if t.Key == key {
			return t, true
		}
	}
	return Tag{}, false
}
