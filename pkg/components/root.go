package components

import (
	"math"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/layout"
)

// RootProps are the props of a surface root. Besides the view props they
// carry the constraints and context the surface is laid out with.
type RootProps struct {
	ViewProps
	Constraints core.LayoutConstraints
	Context     core.LayoutContext
}

var _ core.SurfaceProps = (*RootProps)(nil)

func (p *RootProps) LayoutConstraints() core.LayoutConstraints { return p.Constraints }
func (p *RootProps) LayoutContext() core.LayoutContext { return p.Context }

// ParseRootProps converts raw into RootProps. Constraints are read from
// the "layoutConstraints" object and the context from "layoutContext".
func ParseRootProps(raw core.RawProps) (*RootProps, error) {
	r := &propReader{raw: raw}
	p := &RootProps{ViewProps: *r.viewProps()}

	c := r.nested("layoutConstraints")
	p.Constraints = core.LayoutConstraints{
		MinimumSize: graphics.Size{
			Width:  c.float("minWidth", 0),
			Height: c.float("minHeight", 0),
		},
		MaximumSize: graphics.Size{
			Width:  c.float("maxWidth", math.Inf(1)),
			Height: c.float("maxHeight", math.Inf(1)),
		},
		LayoutDirection: enum(c, "direction", layout.DirectionLTR,
			layout.DirectionInherit, layout.DirectionLTR, layout.DirectionRTL),
	}

	x := r.nested("layoutContext")
	def := core.DefaultLayoutContext()
	p.Context = core.LayoutContext{
		PointScaleFactor:      x.float("pointScaleFactor", def.PointScaleFactor),
		FontSizeMultiplier:    x.float("fontSizeMultiplier", def.FontSizeMultiplier),
		SwapLeftAndRightInRTL: x.bool("swapLeftAndRightInRTL", false),
		ViewportOffset: graphics.Point{
			X: x.float("viewportOffsetX", 0),
			Y: x.float("viewportOffsetY", 0),
		},
	}

	for _, sub := range []*propReader{c, x} {
		r.fail(sub.err)
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

// RootRawProps encodes constraints and ctx in the form ParseRootProps
// reads.
func RootRawProps(constraints core.LayoutConstraints, ctx core.LayoutContext) core.RawProps {
	return core.RawProps{
		"layoutConstraints": core.RawProps{
			"minWidth":  constraints.MinimumSize.Width,
			"minHeight": constraints.MinimumSize.Height,
			"maxWidth":  constraints.MaximumSize.Width,
			"maxHeight": constraints.MaximumSize.Height,
			"direction": constraints.LayoutDirection.String(),
		},
		"layoutContext": core.RawProps{
			"pointScaleFactor":      ctx.PointScaleFactor,
			"fontSizeMultiplier":    ctx.FontSizeMultiplier,
			"swapLeftAndRightInRTL": ctx.SwapLeftAndRightInRTL,
			"viewportOffsetX":       ctx.ViewportOffset.X,
			"viewportOffsetY":       ctx.ViewportOffset.Y,
		},
	}
}

// NewRootDescriptor returns the descriptor of surface roots.
func NewRootDescriptor(config *layout.Config) *core.ConcreteComponentDescriptor {
	return &core.ConcreteComponentDescriptor{
		ComponentName: RootName,
		ComponentTraits: core.TraitLayoutable | core.TraitFormsView | core.TraitFormsStackingContext |
			core.TraitRoot | core.TraitRootNodeKind,
		LayoutConfig: config,
		PropsFunc: func(_ core.Props, raw core.RawProps) (core.Props, error) {
			return ParseRootProps(raw)
		},
	}
}
