package core

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/layout"
)

// ComponentDescriptor creates and clones the nodes of one component type.
type ComponentDescriptor interface {
	Name() ComponentName
	Handle() ComponentHandle
	Traits() Traits

	CreateFamily(fragment FamilyFragment) *Family
	CreateShadowNode(fragment Fragment, family *Family) *ShadowNode
	CloneShadowNode(source *ShadowNode, fragment Fragment) *ShadowNode

	// CloneProps applies raw on top of prev. prev is nil for the first
	// revision. With an empty raw, prev itself is returned.
	CloneProps(prev Props, raw RawProps) (Props, error)
	// CreateInitialState returns the first state of a new family, or nil
	// for stateless components. The state becomes the family's most recent
	// one.
	CreateInitialState(props Props, family *Family) *State
	// CreateState returns the revision following family's most recent
	// state.
	CreateState(family *Family, data any) *State

	// MeasureContent returns the intrinsic size of a measurable leaf.
	MeasureContent(node *ShadowNode, ctx LayoutContext, constraints LayoutConstraints) graphics.Size
	// Baseline returns the distance from the top of node to its first
	// baseline.
	Baseline(node *ShadowNode, ctx LayoutContext, size graphics.Size) float64
}

// HandleForName derives the handle of a component type from its name.
func HandleForName(name ComponentName) ComponentHandle {
	return ComponentHandle(xxhash.Sum64String(string(name)) >> 1)
}

// ConcreteComponentDescriptor implements ComponentDescriptor from plain
// functions. Nil functions fall back to generic behaviour.
type ConcreteComponentDescriptor struct {
	ComponentName   ComponentName
	ComponentTraits Traits
	// LayoutConfig is used for new layoutable nodes. Nil means the shared
	// default; custom configs must come from NewLayoutConfig.
	LayoutConfig *layout.Config

	// PropsFunc builds props from the merged raw values.
	PropsFunc func(prev Props, raw RawProps) (Props, error)
	// InitialStateFunc returns the data of the first state.
	InitialStateFunc func(props Props, family *Family) any
	MeasureFunc      func(node *ShadowNode, ctx LayoutContext, constraints LayoutConstraints) graphics.Size
	BaselineFunc     func(node *ShadowNode, ctx LayoutContext, size graphics.Size) float64
	// AdoptFunc finishes every node created or cloned by the descriptor,
	// before it is handed out.
	AdoptFunc func(node *ShadowNode)
}

var _ ComponentDescriptor = (*ConcreteComponentDescriptor)(nil)

func (d *ConcreteComponentDescriptor) Name() ComponentName { return d.ComponentName }
func (d *ConcreteComponentDescriptor) Handle() ComponentHandle { return HandleForName(d.ComponentName) }
func (d *ConcreteComponentDescriptor) Traits() Traits { return d.ComponentTraits }

func (d *ConcreteComponentDescriptor) CreateFamily(fragment FamilyFragment) *Family {
	return NewFamily(fragment, d)
}

func (d *ConcreteComponentDescriptor) CreateShadowNode(fragment Fragment, family *Family) *ShadowNode {
	n := NewShadowNode(family, fragment, d.ComponentTraits, d.LayoutConfig)
	d.adopt(n)
	return n
}

func (d *ConcreteComponentDescriptor) CloneShadowNode(source *ShadowNode, fragment Fragment) *ShadowNode {
	n := cloneShadowNode(source, fragment)
	d.adopt(n)
	return n
}

func (d *ConcreteComponentDescriptor) adopt(n *ShadowNode) {
	if d.AdoptFunc != nil {
		d.AdoptFunc(n)
	}
}

func (d *ConcreteComponentDescriptor) CloneProps(prev Props, raw RawProps) (Props, error) {
	if prev != nil && len(raw) == 0 {
		return prev, nil
	}
	var base RawProps
	if prev != nil {
		base = prev.Raw()
	}
	merged := base.Merge(raw)
	if d.PropsFunc == nil {
		return &GenericProps{raw: merged}, nil
	}
	props, err := d.PropsFunc(prev, merged)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.ComponentName, err)
	}
	return props, nil
}

func (d *ConcreteComponentDescriptor) CreateInitialState(props Props, family *Family) *State {
	if d.InitialStateFunc == nil {
		return nil
	}
	state := NewState(family, d.InitialStateFunc(props, family))
	family.StateCoordinator().SetMostRecent(state)
	return state
}

func (d *ConcreteComponentDescriptor) CreateState(family *Family, data any) *State {
	if latest := family.StateCoordinator().MostRecent(); latest != nil {
		return latest.Next(data)
	}
	return NewState(family, data)
}

func (d *ConcreteComponentDescriptor) MeasureContent(node *ShadowNode, ctx LayoutContext, constraints LayoutConstraints) graphics.Size {
	if d.MeasureFunc == nil {
		return constraints.Clamp(graphics.Size{})
	}
	return d.MeasureFunc(node, ctx, constraints)
}

func (d *ConcreteComponentDescriptor) Baseline(node *ShadowNode, ctx LayoutContext, size graphics.Size) float64 {
	if d.BaselineFunc == nil {
		return size.Height
	}
	return d.BaselineFunc(node, ctx, size)
}

// GenericProps keeps raw values without interpreting them.
type GenericProps struct {
	raw RawProps
}

// NewGenericProps wraps raw.
func NewGenericProps(raw RawProps) *GenericProps {
	return &GenericProps{raw: raw}
}

func (p *GenericProps) Raw() RawProps { return p.raw }

// ComponentDescriptorRegistry maps component names and handles to
// descriptors. It is safe for concurrent use.
type ComponentDescriptorRegistry struct {
	mu       sync.RWMutex
	byName   map[ComponentName]ComponentDescriptor
	byHandle map[ComponentHandle]ComponentDescriptor
	fallback ComponentDescriptor
}

// NewComponentDescriptorRegistry returns an empty registry.
func NewComponentDescriptorRegistry() *ComponentDescriptorRegistry {
	return &ComponentDescriptorRegistry{
		byName:   make(map[ComponentName]ComponentDescriptor),
		byHandle: make(map[ComponentHandle]ComponentDescriptor),
	}
}

// Register adds d. Registering a second descriptor for the same name or
// handle is an error.
func (r *ComponentDescriptorRegistry) Register(d ComponentDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[d.Name()]; ok {
		return fmt.Errorf("component %q already registered", d.Name())
	}
	if other, ok := r.byHandle[d.Handle()]; ok {
		return fmt.Errorf("component %q: handle collides with %q", d.Name(), other.Name())
	}
	r.byName[d.Name()] = d
	r.byHandle[d.Handle()] = d
	return nil
}

// SetFallback installs the descriptor returned for unknown names.
func (r *ComponentDescriptorRegistry) SetFallback(d ComponentDescriptor) {
	r.mu.Lock()
	r.fallback = d
	r.mu.Unlock()
}

// Get returns the descriptor registered for name, or the fallback.
func (r *ComponentDescriptorRegistry) Get(name ComponentName) (ComponentDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.byName[name]; ok {
		return d, true
	}
	return r.fallback, r.fallback != nil
}

// GetByHandle returns the descriptor registered under handle.
func (r *ComponentDescriptorRegistry) GetByHandle(handle ComponentHandle) (ComponentDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byHandle[handle]
	return d, ok
}

// Names returns the registered names in sorted order.
func (r *ComponentDescriptorRegistry) Names() []ComponentName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.byName))
}
