package components

import (
	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/layout"
)

// Component names.
const (
	RootName          core.ComponentName = "RootView"
	ViewName          core.ComponentName = "View"
	ScrollViewName    core.ComponentName = "ScrollView"
	ParagraphName     core.ComponentName = "Paragraph"
	RawTextName       core.ComponentName = "RawText"
	UnimplementedName core.ComponentName = "UnimplementedView"
)

// ViewProps are the props shared by every view-like component.
type ViewProps struct {
	raw core.RawProps

	Style layout.Style
	// ZIndex orders the view among its siblings when HasZIndex is set.
	ZIndex    int
	HasZIndex bool
	// Collapsable allows the view to be flattened into its parent when it
	// has no visual effect of its own. It defaults to true.
	Collapsable     bool
	Opacity         float64
	BackgroundColor string
	NativeID        string
}

// ParseViewProps converts raw into ViewProps.
func ParseViewProps(raw core.RawProps) (*ViewProps, error) {
	r := &propReader{raw: raw}
	p := r.viewProps()
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

func (r *propReader) viewProps() *ViewProps {
	return &ViewProps{
		raw:             r.raw,
		Style:           r.style(),
		ZIndex:          r.int("zIndex", 0),
		HasZIndex:       r.raw.Has("zIndex"),
		Collapsable:     r.bool("collapsable", true),
		Opacity:         r.float("opacity", 1),
		BackgroundColor: r.string("backgroundColor", ""),
		NativeID:        r.string("nativeID", ""),
	}
}

func (p *ViewProps) Raw() core.RawProps { return p.raw }
func (p *ViewProps) LayoutStyle() layout.Style { return p.Style }
func (p *ViewProps) viewProps() *ViewProps { return p }

// FormsStackingContext reports whether the view orders its own children.
func (p *ViewProps) FormsStackingContext() bool {
	return p.HasZIndex || p.Opacity < 1
}

// FormsView reports whether the view needs a host view, or can be
// flattened into its parent.
func (p *ViewProps) FormsView() bool {
	if !p.Collapsable || p.FormsStackingContext() {
		return true
	}
	if p.BackgroundColor != "" || p.NativeID != "" {
		return true
	}
	for _, v := range p.Style.Border {
		if v.IsDefined() && v.Amount > 0 {
			return true
		}
	}
	return p.Style.Overflow != layout.OverflowVisible
}

type hasViewProps interface {
	viewProps() *ViewProps
}

var defaultViewProps = &ViewProps{Style: layout.DefaultStyle(), Collapsable: true, Opacity: 1}

func viewPropsOf(n *core.ShadowNode) *ViewProps {
	if p, ok := n.Props().(hasViewProps); ok {
		return p.viewProps()
	}
	return defaultViewProps
}

// adoptView derives the view traits and the sibling order from props.
func adoptView(n *core.ShadowNode) {
	p := viewPropsOf(n)
	traits := n.Traits().Without(core.TraitFormsView | core.TraitFormsStackingContext)
	if p.FormsView() {
		traits = traits.With(core.TraitFormsView)
	}
	if p.FormsStackingContext() {
		traits = traits.With(core.TraitFormsStackingContext)
	}
	if traits != n.Traits() {
		n.SetTraits(traits)
	}
	if n.OrderIndex() != p.ZIndex {
		n.SetOrderIndex(p.ZIndex)
	}
}

// adoptHostView is adoptView for components that are never flattened.
func adoptHostView(n *core.ShadowNode) {
	adoptView(n)
	if !n.Traits().Has(core.TraitFormsView) {
		n.SetTraits(n.Traits().With(core.TraitFormsView))
	}
}

func viewPropsFunc(_ core.Props, raw core.RawProps) (core.Props, error) {
	return ParseViewProps(raw)
}

// NewViewDescriptor returns the descriptor of the View component. config
// may be nil.
func NewViewDescriptor(config *layout.Config) *core.ConcreteComponentDescriptor {
	return &core.ConcreteComponentDescriptor{
		ComponentName:   ViewName,
		ComponentTraits: core.TraitLayoutable,
		LayoutConfig:    config,
		PropsFunc:       viewPropsFunc,
		AdoptFunc:       adoptView,
	}
}

// NewUnimplementedDescriptor returns a descriptor that lays out and mounts
// components the registry does not know as plain views.
func NewUnimplementedDescriptor(config *layout.Config) *core.ConcreteComponentDescriptor {
	d := NewViewDescriptor(config)
	d.ComponentName = UnimplementedName
	d.AdoptFunc = adoptHostView
	return d
}
