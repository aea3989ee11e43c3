package core

// CloneTree clones the path from root down to family's node and replaces
// that node with fn's result. Siblings off the path are shared. It returns
// nil when family does not occur in root's tree.
func CloneTree(root *ShadowNode, family *Family, fn func(old *ShadowNode) *ShadowNode) *ShadowNode {
	if root.family == family {
		return fn(root)
	}
	path := family.Ancestors(root)
	if len(path) == 0 {
		return nil
	}
	last := path[len(path)-1]
	node := fn(last.Parent.children.At(last.Index))
	for i := len(path) - 1; i >= 0; i-- {
		step := path[i]
		children := step.Parent.children.Replace(step.Index, node)
		node = step.Parent.Clone(Fragment{Children: &children})
	}
	return node
}

// FindDescendant returns the node of family in root's tree, or nil.
func FindDescendant(root *ShadowNode, family *Family) *ShadowNode {
	if root.family == family {
		return root
	}
	path := family.Ancestors(root)
	if len(path) == 0 {
		return nil
	}
	last := path[len(path)-1]
	return last.Parent.children.At(last.Index)
}

// Walk calls fn for root and each descendant, parents first. Returning
// false from fn skips the node's children.
func Walk(root *ShadowNode, fn func(n *ShadowNode) bool) {
	if !fn(root) {
		return
	}
	for _, child := range root.children.nodes {
		Walk(child, fn)
	}
}

// DirtyLayoutRecursively returns a clone of root in which every layoutable
// node is cloned and dirty, forcing a full relayout on the next commit.
func DirtyLayoutRecursively(root *ShadowNode) *ShadowNode {
	var children *ChildList
	if root.children.Len() > 0 {
		nodes := make([]*ShadowNode, root.children.Len())
		for i, child := range root.children.nodes {
			nodes[i] = DirtyLayoutRecursively(child)
		}
		children = Children(nodes...)
	}
	clone := root.Clone(Fragment{Children: children})
	if clone.yoga != nil {
		clone.yoga.MarkDirty()
	}
	return clone
}

// ProgressState returns root with every state that has been superseded by
// a committed state replaced with the most recent one. Subtrees shared
// with base are skipped. root itself is returned when nothing changed.
// Unsealed nodes are updated in place; sealed ones are cloned.
func ProgressState(root, base *ShadowNode) *ShadowNode {
	if next := progressState(root, base); next != nil {
		return next
	}
	return root
}

func progressState(node, base *ShadowNode) *ShadowNode {
	if node == base {
		return nil
	}

	var state *State
	if node.state != nil {
		state = node.state.MostRecentIfObsolete()
	}

	var children *ChildList
	for i, child := range node.children.nodes {
		var baseChild *ShadowNode
		if base != nil {
			if j := base.children.IndexOf(child.family); j >= 0 {
				baseChild = base.children.At(j)
			}
		}
		next := progressState(child, baseChild)
		if next == nil {
			continue
		}
		if children == nil {
			children = Children(node.children.nodes...)
		}
		children.nodes[i] = next
	}

	if state == nil && children == nil {
		return nil
	}
	if node.sealed {
		return node.Clone(Fragment{State: state, Children: children})
	}
	if state != nil {
		node.state = state
		if node.yoga != nil && node.traits.Has(TraitMeasurable) {
			node.yoga.MarkDirty()
		}
	}
	if children != nil {
		node.children = *children
		node.updateYogaChildren()
	}
	return node
}
