package components

import (
	"strings"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/layout"
	"github.com/go-drift/fabric/pkg/textlayout"
)

// RawTextProps hold one run of a paragraph's text.
type RawTextProps struct {
	raw  core.RawProps
	Text string
}

func (p *RawTextProps) Raw() core.RawProps { return p.raw }

// ParseRawTextProps reads the "text" key of raw.
func ParseRawTextProps(raw core.RawProps) (*RawTextProps, error) {
	r := &propReader{raw: raw}
	p := &RawTextProps{raw: raw, Text: r.string("text", "")}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

// NewRawTextDescriptor returns the descriptor of RawText. Raw text nodes
// are neither laid out nor mounted; their paragraph measures them.
func NewRawTextDescriptor() *core.ConcreteComponentDescriptor {
	return &core.ConcreteComponentDescriptor{
		ComponentName: RawTextName,
		PropsFunc: func(_ core.Props, raw core.RawProps) (core.Props, error) {
			return ParseRawTextProps(raw)
		},
	}
}

// ParagraphProps are the props of a Paragraph.
type ParagraphProps struct {
	ViewProps
	// Text is used when the paragraph has no RawText children.
	Text      string
	Attrs     textlayout.TextAttributes
	Paragraph textlayout.ParagraphAttributes
}

// ParseParagraphProps converts raw into ParagraphProps.
func ParseParagraphProps(raw core.RawProps) (*ParagraphProps, error) {
	r := &propReader{raw: raw}
	p := &ParagraphProps{
		ViewProps: *r.viewProps(),
		Text:      r.string("text", ""),
		Attrs: textlayout.TextAttributes{
			FontFamily:         r.string("fontFamily", ""),
			FontSize:           r.float("fontSize", 0),
			FontWeight:         fontWeight(r),
			FontStyle:          fontStyle(r),
			LineHeight:         r.float("lineHeight", 0),
			LetterSpacing:      r.float("letterSpacing", 0),
			Direction:          writingDirection(r),
			PreserveWhitespace: r.bool("preserveWhitespace", false),
		},
		Paragraph: textlayout.ParagraphAttributes{
			MaximumNumberOfLines: r.int("numberOfLines", 0),
			EllipsizeMode:        ellipsizeMode(r),
		},
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

func fontWeight(r *propReader) textlayout.FontWeight {
	switch v := r.raw["fontWeight"].(type) {
	case nil:
		return textlayout.FontWeightNormal
	case string:
		switch v {
		case "normal":
			return textlayout.FontWeightNormal
		case "semibold":
			return textlayout.FontWeightSemibold
		case "bold":
			return textlayout.FontWeightBold
		}
	}
	return textlayout.FontWeight(r.int("fontWeight", int(textlayout.FontWeightNormal)))
}

func fontStyle(r *propReader) textlayout.FontStyle {
	if r.string("fontStyle", "normal") == "italic" {
		return textlayout.FontStyleItalic
	}
	return textlayout.FontStyleNormal
}

func writingDirection(r *propReader) textlayout.Direction {
	switch r.string("writingDirection", "auto") {
	case "ltr":
		return textlayout.DirectionLTR
	case "rtl":
		return textlayout.DirectionRTL
	default:
		return textlayout.DirectionNatural
	}
}

func ellipsizeMode(r *propReader) textlayout.EllipsizeMode {
	if r.string("ellipsizeMode", "tail") == "clip" {
		return textlayout.EllipsizeClip
	}
	return textlayout.EllipsizeTail
}

// ParagraphText returns the text n displays: its RawText children joined
// in order, or the text prop when it has none.
func ParagraphText(n *core.ShadowNode) string {
	var sb strings.Builder
	found := false
	for _, child := range n.Children().All() {
		if p, ok := child.Props().(*RawTextProps); ok {
			sb.WriteString(p.Text)
			found = true
		}
	}
	if found {
		return sb.String()
	}
	if p, ok := n.Props().(*ParagraphProps); ok {
		return p.Text
	}
	return ""
}

func paragraphRequest(n *core.ShadowNode, ctx core.LayoutContext, maxWidth float64) textlayout.Request {
	req := textlayout.Request{Text: ParagraphText(n), MaxWidth: maxWidth}
	if p, ok := n.Props().(*ParagraphProps); ok {
		req.Attrs = p.Attrs
		req.Paragraph = p.Paragraph
	}
	req.Attrs.FontSizeMultiplier = ctx.FontSizeMultiplier
	return req
}

// NewParagraphDescriptor returns the descriptor of Paragraph, measuring
// text with manager.
func NewParagraphDescriptor(config *layout.Config, manager *textlayout.Manager) *core.ConcreteComponentDescriptor {
	return &core.ConcreteComponentDescriptor{
		ComponentName: ParagraphName,
		ComponentTraits: core.TraitLayoutable | core.TraitFormsView | core.TraitLeafLayout |
			core.TraitMeasurable | core.TraitBaselineSupport,
		LayoutConfig: config,
		PropsFunc: func(_ core.Props, raw core.RawProps) (core.Props, error) {
			return ParseParagraphProps(raw)
		},
		MeasureFunc: func(n *core.ShadowNode, ctx core.LayoutContext, c core.LayoutConstraints) graphics.Size {
			m := manager.Measure(paragraphRequest(n, ctx, c.MaximumSize.Width))
			return c.Clamp(m.Size)
		},
		BaselineFunc: func(n *core.ShadowNode, ctx core.LayoutContext, size graphics.Size) float64 {
			return manager.Measure(paragraphRequest(n, ctx, size.Width)).FirstBaseline()
		},
		AdoptFunc: func(n *core.ShadowNode) {
			n.SetLayoutNodeType(layout.NodeTypeText)
			if p, ok := n.Props().(*ParagraphProps); ok && n.OrderIndex() != p.ZIndex {
				n.SetOrderIndex(p.ZIndex)
			}
		},
	}
}
