package core

import "iter"

// ChildList is an immutable, ordered list of child nodes. Every edit
// returns a new list backed by a new array, so lists can be shared between
// clones without tracking who else holds them.
type ChildList struct {
	nodes []*ShadowNode
}

// NewChildList copies nodes into a new list.
func NewChildList(nodes ...*ShadowNode) ChildList {
	if len(nodes) == 0 {
		return ChildList{}
	}
	return ChildList{nodes: append([]*ShadowNode(nil), nodes...)}
}

// Len returns the number of children.
func (l ChildList) Len() int { return len(l.nodes) }

// At returns the child at index.
func (l ChildList) At(index int) *ShadowNode { return l.nodes[index] }

// Slice returns the children as a slice. Callers must not modify it.
func (l ChildList) Slice() []*ShadowNode { return l.nodes[:len(l.nodes):len(l.nodes)] }

// All iterates over index and child pairs.
func (l ChildList) All() iter.Seq2[int, *ShadowNode] {
	return func(yield func(int, *ShadowNode) bool) {
		for i, n := range l.nodes {
			if !yield(i, n) {
				return
			}
		}
	}
}

// IndexOf returns the index of the first child of family, or -1.
func (l ChildList) IndexOf(family *Family) int {
	for i, n := range l.nodes {
		if n.family == family {
			return i
		}
	}
	return -1
}

// Append returns a list with child added at the end.
func (l ChildList) Append(child *ShadowNode) ChildList {
	return l.Insert(len(l.nodes), child)
}

// Insert returns a list with child at index. Out-of-range indexes append.
func (l ChildList) Insert(index int, child *ShadowNode) ChildList {
	if index < 0 || index > len(l.nodes) {
		index = len(l.nodes)
	}
	nodes := make([]*ShadowNode, 0, len(l.nodes)+1)
	nodes = append(nodes, l.nodes[:index]...)
	nodes = append(nodes, child)
	nodes = append(nodes, l.nodes[index:]...)
	return ChildList{nodes: nodes}
}

// Replace returns a list with the child at index swapped for child.
func (l ChildList) Replace(index int, child *ShadowNode) ChildList {
	nodes := append([]*ShadowNode(nil), l.nodes...)
	nodes[index] = child
	return ChildList{nodes: nodes}
}

// Remove returns a list without the child at index.
func (l ChildList) Remove(index int) ChildList {
	nodes := make([]*ShadowNode, 0, len(l.nodes)-1)
	nodes = append(nodes, l.nodes[:index]...)
	nodes = append(nodes, l.nodes[index+1:]...)
	return ChildList{nodes: nodes}
}

// SharesStorage reports whether both lists are backed by the same array.
func (l ChildList) SharesStorage(other ChildList) bool {
	if len(l.nodes) == 0 || len(other.nodes) == 0 {
		return len(l.nodes) == len(other.nodes)
	}
	return &l.nodes[0] == &other.nodes[0] && len(l.nodes) == len(other.nodes)
}
