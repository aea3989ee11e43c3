package core

import "sync/atomic"

// Lifecycle is the mount state of a family.
type Lifecycle int32

const (
	LifecycleUnmounted Lifecycle = iota
	LifecycleMounted
	LifecycleUnmounting
	LifecycleDestroyed
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleMounted:
		return "mounted"
	case LifecycleUnmounting:
		return "unmounting"
	case LifecycleDestroyed:
		return "destroyed"
	default:
		return "unmounted"
	}
}

// FamilyFragment holds the identity of a new family.
type FamilyFragment struct {
	Tag       Tag
	SurfaceID SurfaceID
	// EventEmitter is optional; a disabled emitter without a dispatcher is
	// used when nil.
	EventEmitter *EventEmitter
}

// Family is the identity every revision of one component instance
// shares.
type Family struct {
	tag          Tag
	surfaceID    SurfaceID
	descriptor   ComponentDescriptor
	eventEmitter *EventEmitter
	states       StateCoordinator
	lifecycle    atomic.Int32
}

// NewFamily creates a family for descriptor.
func NewFamily(fragment FamilyFragment, descriptor ComponentDescriptor) *Family {
	emitter := fragment.EventEmitter
	if emitter == nil {
		emitter = NewEventEmitter(fragment.Tag, nil)
	}
	return &Family{
		tag:          fragment.Tag,
		surfaceID:    fragment.SurfaceID,
		descriptor:   descriptor,
		eventEmitter: emitter,
	}
}

func (f *Family) Tag() Tag { return f.tag }
func (f *Family) SurfaceID() SurfaceID { return f.surfaceID }
func (f *Family) Descriptor() ComponentDescriptor { return f.descriptor }
func (f *Family) EventEmitter() *EventEmitter { return f.eventEmitter }
func (f *Family) StateCoordinator() *StateCoordinator { return &f.states }

// ComponentName returns the name of the family's component type.
func (f *Family) ComponentName() ComponentName {
	if f.descriptor == nil {
		return ""
	}
	return f.descriptor.Name()
}

// ComponentHandle returns the handle of the family's component type.
func (f *Family) ComponentHandle() ComponentHandle {
	if f.descriptor == nil {
		return 0
	}
	return f.descriptor.Handle()
}

// Lifecycle returns the current mount state.
func (f *Family) Lifecycle() Lifecycle {
	return Lifecycle(f.lifecycle.Load())
}

func (f *Family) transition(from, to Lifecycle) bool {
	return f.lifecycle.CompareAndSwap(int32(from), int32(to))
}

// MarkMounted moves an unmounted family to Mounted and enables its event
// emitter. It reports whether the transition happened.
func (f *Family) MarkMounted() bool {
	if !f.transition(LifecycleUnmounted, LifecycleMounted) {
		return false
	}
	f.eventEmitter.SetEnabled(true)
	return true
}

// BeginUnmount moves a mounted family to Unmounting and disables its event
// emitter.
func (f *Family) BeginUnmount() bool {
	if !f.transition(LifecycleMounted, LifecycleUnmounting) {
		return false
	}
	f.eventEmitter.SetEnabled(false)
	return true
}

// MarkDestroyed ends the family's life. Families that never mounted may be
// destroyed directly.
func (f *Family) MarkDestroyed() bool {
	if f.transition(LifecycleUnmounting, LifecycleDestroyed) {
		return true
	}
	if f.transition(LifecycleUnmounted, LifecycleDestroyed) {
		f.eventEmitter.SetEnabled(false)
		return true
	}
	return false
}

// AncestorStep is one hop on the path from a root to a node: the parent
// and the index of the next node among its children.
type AncestorStep struct {
	Parent *ShadowNode
	Index  int
}

// Ancestors returns the path from root down to the parent of this
// family's node in root's tree. It is empty if the family is root's own or
// does not occur in the tree.
func (f *Family) Ancestors(root *ShadowNode) []AncestorStep {
	var path []AncestorStep
	if root == nil || root.family == f {
		return nil
	}
	if !findAncestors(root, f, &path) {
		return nil
	}
	return path
}

func findAncestors(node *ShadowNode, f *Family, path *[]AncestorStep) bool {
	for i, child := range node.children.nodes {
		*path = append(*path, AncestorStep{Parent: node, Index: i})
		if child.family == f || findAncestors(child, f, path) {
			return true
		}
		*path = (*path)[:len(*path)-1]
	}
	return false
}
