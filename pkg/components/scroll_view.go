package components

import (
	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/layout"
)

// ScrollState is the state of a ScrollView. The host updates it as the
// user scrolls, without a new render.
type ScrollState struct {
	ContentOffset graphics.Point
}

// ScrollStateOf returns the scroll state of n, or the zero state.
func ScrollStateOf(n *core.ShadowNode) ScrollState {
	if s := n.State(); s != nil {
		if data, ok := s.Data().(ScrollState); ok {
			return data
		}
	}
	return ScrollState{}
}

// NewScrollViewDescriptor returns the descriptor of ScrollView. A scroll
// view always forms a host view.
func NewScrollViewDescriptor(config *layout.Config) *core.ConcreteComponentDescriptor {
	return &core.ConcreteComponentDescriptor{
		ComponentName:   ScrollViewName,
		ComponentTraits: core.TraitLayoutable | core.TraitFormsView,
		LayoutConfig:    config,
		PropsFunc:       viewPropsFunc,
		InitialStateFunc: func(core.Props, *core.Family) any {
			return ScrollState{}
		},
		AdoptFunc: adoptHostView,
	}
}
