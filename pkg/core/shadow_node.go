package core

import (
	"fmt"

	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/layout"
)

// Fragment lists the fields a clone overrides. Nil fields are inherited
// from the source node.
type Fragment struct {
	Props    Props
	State    *State
	Children *ChildList
}

// Children is a helper for building a Fragment's Children field.
func Children(nodes ...*ShadowNode) *ChildList {
	l := NewChildList(nodes...)
	return &l
}

// ShadowNode is one immutable snapshot of a component instance.
//
// Nodes are created and cloned through their family's ComponentDescriptor.
// Setters exist only to finish a node before it is sealed.
type ShadowNode struct {
	family        *Family
	props         Props
	state         *State
	children      ChildList
	traits        Traits
	orderIndex    int
	sealed        bool
	layoutMetrics LayoutMetrics

	// yoga is set for layoutable nodes; its context is this node.
	yoga *layout.Node
	// layoutContext is set on a root while it is being laid out.
	layoutContext *LayoutContext
}

// NewShadowNode builds a node from scratch. Descriptors call it; other
// code should use ComponentDescriptor.CreateShadowNode.
func NewShadowNode(family *Family, fragment Fragment, traits Traits, config *layout.Config) *ShadowNode {
	n := &ShadowNode{
		family:        family,
		props:         fragment.Props,
		state:         fragment.State,
		traits:        traits,
		layoutMetrics: EmptyLayoutMetrics,
	}
	if fragment.Children != nil {
		n.children = *fragment.Children
	}
	if traits.Has(TraitLayoutable) {
		if config == nil {
			config = defaultLayoutConfig
		}
		n.yoga = layout.NewNode(config)
		n.yoga.SetContext(n)
		n.configureYogaNode()
		n.updateYogaStyle()
		n.updateYogaChildren()
	}
	return n
}

// cloneShadowNode copies source and applies fragment. Descriptors call it
// from CloneShadowNode.
func cloneShadowNode(source *ShadowNode, fragment Fragment) *ShadowNode {
	n := &ShadowNode{
		family:        source.family,
		props:         source.props,
		state:         source.state,
		children:      source.children,
		traits:        source.traits,
		orderIndex:    source.orderIndex,
		layoutMetrics: source.layoutMetrics,
	}
	if fragment.Props != nil {
		n.props = fragment.Props
	}
	if fragment.State != nil {
		n.state = fragment.State
	}
	if fragment.Children != nil {
		n.children = *fragment.Children
	}
	if source.yoga != nil {
		n.yoga = source.yoga.Clone()
		n.yoga.SetContext(n)
		if fragment.Props != nil {
			n.updateYogaStyle()
		}
		if fragment.Children != nil {
			n.updateYogaChildren()
		}
		if n.traits.Has(TraitMeasurable) &&
			(fragment.Props != nil || fragment.State != nil || fragment.Children != nil) {
			n.yoga.MarkDirty()
		}
	}
	return n
}

func (n *ShadowNode) Family() *Family { return n.family }
func (n *ShadowNode) Tag() Tag { return n.family.tag }
func (n *ShadowNode) SurfaceID() SurfaceID { return n.family.surfaceID }
func (n *ShadowNode) ComponentName() ComponentName { return n.family.ComponentName() }
func (n *ShadowNode) ComponentHandle() ComponentHandle { return n.family.ComponentHandle() }
func (n *ShadowNode) EventEmitter() *EventEmitter { return n.family.eventEmitter }
func (n *ShadowNode) Props() Props { return n.props }
func (n *ShadowNode) State() *State { return n.state }
func (n *ShadowNode) Children() ChildList { return n.children }
func (n *ShadowNode) Traits() Traits { return n.traits }
func (n *ShadowNode) OrderIndex() int { return n.orderIndex }
func (n *ShadowNode) Sealed() bool { return n.sealed }
func (n *ShadowNode) LayoutMetrics() LayoutMetrics { return n.layoutMetrics }

// LayoutStyle returns the style the node is laid out with.
func (n *ShadowNode) LayoutStyle() layout.Style {
	if n.yoga == nil {
		return layout.DefaultStyle()
	}
	return n.yoga.Style()
}

// IsLayoutClean reports whether the node's layout is up to date.
func (n *ShadowNode) IsLayoutClean() bool {
	return n.yoga == nil || !n.yoga.IsDirty()
}

func (n *ShadowNode) String() string {
	return fmt.Sprintf("%s#%d", n.ComponentName(), n.Tag())
}

// SameFamily reports whether a and b are snapshots of the same instance.
func SameFamily(a, b *ShadowNode) bool {
	return a != nil && b != nil && a.family == b.family
}

// Clone returns an unsealed copy with fragment applied. Children that are
// not overridden are shared with n.
func (n *ShadowNode) Clone(fragment Fragment) *ShadowNode {
	if d := n.family.descriptor; d != nil {
		return d.CloneShadowNode(n, fragment)
	}
	return cloneShadowNode(n, fragment)
}

// Seal makes n and every unsealed descendant immutable.
func (n *ShadowNode) Seal() {
	if n.sealed {
		return
	}
	n.sealed = true
	for _, child := range n.children.nodes {
		child.Seal()
	}
}

func (n *ShadowNode) ensureUnsealed(op string) {
	if n.sealed {
		errors.Fatal(op, "attempt to mutate a sealed node %s", n)
	}
}

// AppendChild adds child at the end of n's children.
func (n *ShadowNode) AppendChild(child *ShadowNode) {
	n.ensureUnsealed("core.ShadowNode.AppendChild")
	n.children = n.children.Append(child)
	n.updateYogaChildren()
}

// ReplaceChild swaps oldChild, matched by identity, for newChild. It
// reports whether oldChild was found.
func (n *ShadowNode) ReplaceChild(oldChild, newChild *ShadowNode) bool {
	n.ensureUnsealed("core.ShadowNode.ReplaceChild")
	for i, c := range n.children.nodes {
		if c == oldChild {
			n.children = n.children.Replace(i, newChild)
			n.updateYogaChildren()
			return true
		}
	}
	return false
}

// SetProps replaces n's props.
func (n *ShadowNode) SetProps(props Props) {
	n.ensureUnsealed("core.ShadowNode.SetProps")
	n.props = props
	n.updateYogaStyle()
	if n.yoga != nil && n.traits.Has(TraitMeasurable) {
		n.yoga.MarkDirty()
	}
}

// SetLayoutMetrics replaces n's metrics and reports whether they changed.
func (n *ShadowNode) SetLayoutMetrics(m LayoutMetrics) bool {
	n.ensureUnsealed("core.ShadowNode.SetLayoutMetrics")
	if n.layoutMetrics.Equal(m) {
		return false
	}
	n.layoutMetrics = m
	return true
}

// SetOrderIndex sets the position of n among its siblings when views are
// ordered for mounting.
func (n *ShadowNode) SetOrderIndex(index int) {
	n.ensureUnsealed("core.ShadowNode.SetOrderIndex")
	n.orderIndex = index
}

// SetTraits replaces n's traits. Whether a node is layoutable is fixed at
// creation and cannot be changed.
func (n *ShadowNode) SetTraits(traits Traits) {
	n.ensureUnsealed("core.ShadowNode.SetTraits")
	prev := n.traits
	n.traits = traits.Without(TraitLayoutable) | prev&TraitLayoutable
	if n.yoga != nil && (prev^n.traits)&(TraitMeasurable|TraitBaselineSupport) != 0 {
		n.configureYogaNode()
	}
}

// SetLayoutNodeType selects text rounding for the node's layout.
func (n *ShadowNode) SetLayoutNodeType(t layout.NodeType) {
	n.ensureUnsealed("core.ShadowNode.SetLayoutNodeType")
	if n.yoga != nil {
		n.yoga.SetNodeType(t)
	}
}

// DirtyLayout forces n to be laid out again.
func (n *ShadowNode) DirtyLayout() {
	n.ensureUnsealed("core.ShadowNode.DirtyLayout")
	if n.yoga != nil {
		n.yoga.MarkDirty()
	}
}

// replaceChildForLayout swaps a child cloned by the layout engine. The
// layout node list has already been updated by the engine.
func (n *ShadowNode) replaceChildForLayout(oldChild, newChild *ShadowNode) {
	n.ensureUnsealed("core.LayoutIfNeeded")
	for i, c := range n.children.nodes {
		if c == oldChild {
			n.children = n.children.Replace(i, newChild)
			return
		}
	}
	errors.Fatal("core.LayoutIfNeeded", "layout child %s not found in %s", oldChild, n)
}
