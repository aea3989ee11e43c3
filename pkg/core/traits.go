package core

import "strings"

// Traits is a set of capability flags describing how a node participates
// in layout and mounting.
type Traits uint32

const (
	// TraitLayoutable marks nodes that own a layout node and carry
	// LayoutMetrics.
	TraitLayoutable Traits = 1 << iota
	// TraitFormsView marks nodes that map to a host view. Nodes without it
	// are flattened away by the differ.
	TraitFormsView
	// TraitFormsStackingContext marks nodes whose children are ordered
	// among themselves rather than among the parent's children.
	TraitFormsStackingContext
	// TraitRoot marks the root node of a surface.
	TraitRoot
	// TraitRootNodeKind marks nodes that establish a new coordinate space
	// (the surface root, modals). Relative metrics stop at them.
	TraitRootNodeKind
	// TraitLeafLayout marks layoutable nodes whose children do not take
	// part in layout.
	TraitLeafLayout
	// TraitMeasurable marks leaves whose size comes from MeasureContent.
	TraitMeasurable
	// TraitBaselineSupport marks nodes that report a first baseline.
	TraitBaselineSupport
	// TraitClonedByNativeStateUpdate marks nodes cloned to carry a state
	// update rather than new props.
	TraitClonedByNativeStateUpdate
	// TraitHidden marks nodes the differ skips entirely.
	TraitHidden
)

var traitNames = []struct {
	trait Traits
	name  string
}{
	{TraitLayoutable, "layoutable"},
	{TraitFormsView, "forms-view"},
	{TraitFormsStackingContext, "forms-stacking-context"},
	{TraitRoot, "root"},
	{TraitRootNodeKind, "root-node-kind"},
	{TraitLeafLayout, "leaf-layout"},
	{TraitMeasurable, "measurable"},
	{TraitBaselineSupport, "baseline-support"},
	{TraitClonedByNativeStateUpdate, "cloned-by-native-state-update"},
	{TraitHidden, "hidden"},
}

// Has reports whether all bits of t are set.
func (ts Traits) Has(t Traits) bool {
	return ts&t == t
}

// With returns ts with t set.
func (ts Traits) With(t Traits) Traits {
	return ts | t
}

// Without returns ts with t cleared.
func (ts Traits) Without(t Traits) Traits {
	return ts &^ t
}

func (ts Traits) String() string {
	if ts == 0 {
		return "none"
	}
	var names []string
	for _, tn := range traitNames {
		if ts.Has(tn.trait) {
			names = append(names, tn.name)
		}
	}
	return strings.Join(names, "|")
}
