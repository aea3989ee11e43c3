package components

import (
	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/layout"
	"github.com/go-drift/fabric/pkg/textlayout"
)

// Options configure the built-in descriptors.
type Options struct {
	// LayoutConfig is shared by every layoutable component. It must come
	// from core.NewLayoutConfig; nil selects the default.
	LayoutConfig *layout.Config
	// Text measures paragraphs. A manager with default options is created
	// when nil.
	Text *textlayout.Manager
}

// Descriptors returns the built-in component descriptors.
func Descriptors(opts Options) []core.ComponentDescriptor {
	text := opts.Text
	if text == nil {
		text = textlayout.NewManager(textlayout.Options{})
	}
	return []core.ComponentDescriptor{
		NewRootDescriptor(opts.LayoutConfig),
		NewViewDescriptor(opts.LayoutConfig),
		NewScrollViewDescriptor(opts.LayoutConfig),
		NewParagraphDescriptor(opts.LayoutConfig, text),
		NewRawTextDescriptor(),
	}
}

// NewRegistry returns a registry holding the built-in components, with
// unknown names resolved to UnimplementedView.
func NewRegistry(opts Options) (*core.ComponentDescriptorRegistry, error) {
	r := core.NewComponentDescriptorRegistry()
	for _, d := range Descriptors(opts) {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	r.SetFallback(NewUnimplementedDescriptor(opts.LayoutConfig))
	return r, nil
}
