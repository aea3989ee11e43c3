package testing

import (
	"fmt"
	"reflect"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/mounting"
)

// Finder locates views in the mounted view tree.
type Finder interface {
	// Evaluate returns all matching views under root (depth-first pre-order).
	Evaluate(root *mounting.StubView) []*mounting.StubView
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	views  []*mounting.StubView
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *mounting.StubView {
	if len(r.views) == 0 {
		panic(fmt.Sprintf("Finder found no views: %s", r.description()))
	}
	return r.views[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *mounting.StubView {
	if len(r.views) == 0 {
		return nil
	}
	return r.views[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *mounting.StubView {
	if index < 0 || index >= len(r.views) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.views), r.description()))
	}
	return r.views[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*mounting.StubView {
	return r.views
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.views)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.views) > 0
}

// Tags returns the tags of all matches in traversal order.
func (r FinderResult) Tags() []core.Tag {
	tags := make([]core.Tag, len(r.views))
	for i, v := range r.views {
		tags[i] = v.Tag
	}
	return tags
}

// Frame returns the frame of the first match. Panics if no matches.
func (r FinderResult) Frame() graphics.Rect {
	return r.First().LayoutMetrics.Frame
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// predicateFinder matches views satisfying a predicate.
type predicateFinder struct {
	fn   func(*mounting.StubView) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *mounting.StubView) []*mounting.StubView {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByTag returns a finder that matches the view with tag.
func ByTag(tag core.Tag) Finder {
	return &predicateFinder{
		fn:   func(v *mounting.StubView) bool { return v.Tag == tag },
		desc: fmt.Sprintf("ByTag(%d)", tag),
	}
}

// ByComponent returns a finder that matches views of the named component.
func ByComponent(name core.ComponentName) Finder {
	return &predicateFinder{
		fn:   func(v *mounting.StubView) bool { return v.ComponentName == name },
		desc: fmt.Sprintf("ByComponent(%s)", name),
	}
}

// ByProp returns a finder that matches views whose raw prop key equals
// value.
func ByProp(key string, value any) Finder {
	return &predicateFinder{
		fn: func(v *mounting.StubView) bool {
			if v.Props == nil {
				return false
			}
			got, ok := v.Props.Raw()[key]
			return ok && reflect.DeepEqual(got, value)
		},
		desc: fmt.Sprintf("ByProp(%s=%v)", key, value),
	}
}

// ByPredicate returns a finder that matches views satisfying fn.
func ByPredicate(fn func(*mounting.StubView) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds views matching 'matching' that are descendants
// of views matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *mounting.StubView) []*mounting.StubView {
	var results []*mounting.StubView
	seen := make(map[core.Tag]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		// The ancestor itself is not its own descendant.
		for _, child := range ancestor.Children {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match.Tag] {
					seen[match.Tag] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches views satisfying 'matching'
// that are descendants of views matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds views matching 'matching' that are ancestors of
// views matching 'of'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root *mounting.StubView) []*mounting.StubView {
	descendants := f.of.Evaluate(root)
	if len(descendants) == 0 {
		return nil
	}
	var results []*mounting.StubView
	for _, candidate := range f.matching.Evaluate(root) {
		for _, desc := range descendants {
			if candidate != desc && isAncestorOf(candidate, desc) {
				results = append(results, candidate)
				break
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches views satisfying 'matching' that
// are ancestors of views matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

// isAncestorOf returns true if ancestor contains descendant in its subtree.
func isAncestorOf(ancestor, descendant *mounting.StubView) bool {
	found := false
	walkTree(ancestor, func(v *mounting.StubView) bool {
		if v == descendant {
			found = true
			return false
		}
		return true
	})
	return found
}

// collectMatches performs depth-first pre-order traversal, collecting
// views that satisfy the predicate.
func collectMatches(root *mounting.StubView, predicate func(*mounting.StubView) bool) []*mounting.StubView {
	var results []*mounting.StubView
	walkTree(root, func(v *mounting.StubView) bool {
		if predicate(v) {
			results = append(results, v)
		}
		return true
	})
	return results
}

// walkTree performs a depth-first pre-order traversal of the view tree.
// The visitor returns false to stop traversal.
func walkTree(root *mounting.StubView, visitor func(*mounting.StubView) bool) bool {
	if !visitor(root) {
		return false
	}
	for _, child := range root.Children {
		if !walkTree(child, visitor) {
			return false
		}
	}
	return true
}
