// Package core provides the shadow node model shared by the renderer.
//
// A ShadowNode is one immutable snapshot of a component instance. Nodes of
// the same instance across revisions share a Family, which carries the
// stable Tag, the event emitter and the state coordinator.
//
// # Cloning and sealing
//
// Nodes are never edited once published. Clone returns an unsealed copy
// that overrides only the fields set in a Fragment; unchanged children are
// shared by reference through the persistent ChildList:
//
//	updated := node.Clone(core.Fragment{Props: newProps})
//	parent = parent.Clone(core.Fragment{})
//	parent.ReplaceChild(node, updated)
//
// Seal marks a whole subtree immutable. Calling a setter on a sealed node
// is a programming error and raises errors.Fatal.
//
// # Layout
//
// Nodes with TraitLayoutable own a layout.Node. LayoutIfNeeded lays out a
// freshly cloned root; children that are still shared with an older tree
// are cloned on demand by the layout engine, so sealed nodes are never
// written to.
//
// # Components
//
// A ComponentDescriptor creates and clones the nodes of one component
// type. ConcreteComponentDescriptor builds a descriptor from plain
// functions, and ComponentDescriptorRegistry maps component names to
// descriptors.
package core
