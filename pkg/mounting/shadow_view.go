package mounting

import (
	"fmt"

	"github.com/go-drift/fabric/pkg/core"
)

// ShadowView is the part of a shadow node the host needs to create and
// update a native view. It is a plain value; two views are equal when the
// host would not have to touch the native view to go from one to the
// other.
type ShadowView struct {
	ComponentName   core.ComponentName
	ComponentHandle core.ComponentHandle
	SurfaceID       core.SurfaceID
	Tag             core.Tag
	Traits          core.Traits
	Props           core.Props
	EventEmitter    *core.EventEmitter
	LayoutMetrics   core.LayoutMetrics
	State           *core.State

	// Family identifies the component instance. It is not compared by
	// Equal.
	Family *core.Family
}

// NewShadowView projects n.
func NewShadowView(n *core.ShadowNode) ShadowView {
	return ShadowView{
		ComponentName:   n.ComponentName(),
		ComponentHandle: n.ComponentHandle(),
		SurfaceID:       n.SurfaceID(),
		Tag:             n.Tag(),
		Traits:          n.Traits(),
		Props:           n.Props(),
		EventEmitter:    n.EventEmitter(),
		LayoutMetrics:   n.LayoutMetrics(),
		State:           n.State(),
		Family:          n.Family(),
	}
}

// IsZero reports whether v is the empty view used as the parent of root
// updates.
func (v ShadowView) IsZero() bool {
	return v.Tag == 0 && v.ComponentName == "" && v.Family == nil
}

// Equal compares identity, props and state by reference and layout metrics
// by value.
func (v ShadowView) Equal(other ShadowView) bool {
	return v.Tag == other.Tag &&
		v.SurfaceID == other.SurfaceID &&
		v.ComponentHandle == other.ComponentHandle &&
		v.Props == other.Props &&
		v.State == other.State &&
		v.EventEmitter == other.EventEmitter &&
		v.LayoutMetrics.Equal(other.LayoutMetrics)
}

func (v ShadowView) String() string {
	if v.IsZero() {
		return "<none>"
	}
	return fmt.Sprintf("%s#%d", v.ComponentName, v.Tag)
}

// viewNodePair keeps a view together with the node it was projected from,
// so the differ can descend into the node's children.
type viewNodePair struct {
	view ShadowView
	node *core.ShadowNode
}
