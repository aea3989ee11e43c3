package mounting

import (
	"slices"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/graphics"
)

// DiffStats counts the work done by one Diff call.
type DiffStats struct {
	// Visits is the number of nodes whose children were sliced into view
	// pairs. Subtrees shared by both revisions are never visited.
	Visits int
	// Comparisons is the number of old/new view pairs compared.
	Comparisons int
	// Mutations is the length of the produced list.
	Mutations int
}

// Differ computes the mutations between two revisions of a tree. A Differ
// is not safe for concurrent use.
type Differ struct {
	stats DiffStats
}

// NewDiffer returns a Differ.
func NewDiffer() *Differ {
	return &Differ{}
}

// Stats returns the counters of the last Diff call.
func (d *Differ) Stats() DiffStats { return d.stats }

// Diff returns the ordered mutations that turn a host tree mounted from
// oldRoot into one matching newRoot. Both roots must belong to the same
// family. Identical roots produce no mutations.
func (d *Differ) Diff(oldRoot, newRoot *core.ShadowNode) Mutations {
	d.stats = DiffStats{}
	if !core.SameFamily(oldRoot, newRoot) {
		errors.Fatal("mounting.Differ.Diff", "roots %s and %s belong to different families", oldRoot, newRoot)
	}
	if oldRoot == newRoot {
		return nil
	}

	var mutations Mutations
	oldView, newView := NewShadowView(oldRoot), NewShadowView(newRoot)
	d.stats.Comparisons++
	if !oldView.Equal(newView) {
		mutations = append(mutations, UpdateMutation(ShadowView{}, oldView, newView, -1))
	}
	d.diffChildren(&mutations, newView, d.slice(oldRoot), d.slice(newRoot))
	mutations = reconcileReparented(mutations)
	d.stats.Mutations = len(mutations)
	return mutations
}

// slice returns the view pairs mounted directly inside node's view. Nodes
// that do not form a view are flattened: their children take their place,
// offset by their frame origin. Hidden nodes and their subtrees are
// skipped.
func (d *Differ) slice(node *core.ShadowNode) []viewNodePair {
	d.stats.Visits++
	var pairs []viewNodePair
	slicePairs(&pairs, graphics.Point{}, node)
	reorder(pairs)
	return pairs
}

func slicePairs(pairs *[]viewNodePair, offset graphics.Point, node *core.ShadowNode) {
	for _, child := range node.Children().All() {
		if child.Traits().Has(core.TraitHidden) {
			continue
		}
		view := NewShadowView(child)
		origin := offset
		if !view.LayoutMetrics.IsEmpty() {
			origin = origin.Add(view.LayoutMetrics.Frame.Origin)
			view.LayoutMetrics.Frame.Origin = view.LayoutMetrics.Frame.Origin.Add(offset)
		}
		if child.Traits().Has(core.TraitFormsView) {
			*pairs = append(*pairs, viewNodePair{view: view, node: child})
			continue
		}
		slicePairs(pairs, origin, child)
	}
}

// reorder sorts pairs by order index, keeping document order among equal
// indices.
func reorder(pairs []viewNodePair) {
	if len(pairs) < 2 {
		return
	}
	needed := false
	for _, p := range pairs {
		if p.node.OrderIndex() != 0 {
			needed = true
			break
		}
	}
	if !needed {
		return
	}
	slices.SortStableFunc(pairs, func(a, b viewNodePair) int {
		return a.node.OrderIndex() - b.node.OrderIndex()
	})
}

// stages collects the mutations of one parent in separate lists so they
// can be emitted in a safe order.
type stages struct {
	destructive Mutations
	updates     Mutations
	removes     Mutations
	deletes     Mutations
	creates     Mutations
	downward    Mutations
	inserts     Mutations
}

func (s *stages) flush(out *Mutations) {
	*out = append(*out, s.destructive...)
	*out = append(*out, s.updates...)
	for i := len(s.removes) - 1; i >= 0; i-- {
		*out = append(*out, s.removes[i])
	}
	*out = append(*out, s.deletes...)
	*out = append(*out, s.creates...)
	*out = append(*out, s.downward...)
	*out = append(*out, s.inserts...)
}

// insertedPair is a pair inserted at position before its old position
// was reached.
type insertedPair struct {
	pair     viewNodePair
	position int
}

// insertedPairs remembers inserted pairs in insertion order.
type insertedPairs struct {
	order []insertedPair
	index map[core.Tag]int
}

func (p *insertedPairs) add(pair viewNodePair, position int) {
	if p.index == nil {
		p.index = make(map[core.Tag]int)
	}
	p.index[pair.view.Tag] = len(p.order)
	p.order = append(p.order, insertedPair{pair: pair, position: position})
}

func (p *insertedPairs) take(tag core.Tag) (insertedPair, bool) {
	i, ok := p.index[tag]
	if !ok {
		return insertedPair{}, false
	}
	delete(p.index, tag)
	return p.order[i], true
}

func (p *insertedPairs) remaining() []viewNodePair {
	var out []viewNodePair
	for i, entry := range p.order {
		if j, ok := p.index[entry.pair.view.Tag]; ok && j == i {
			out = append(out, entry.pair)
		}
	}
	return out
}

func (d *Differ) diffChildren(out *Mutations, parent ShadowView, oldPairs, newPairs []viewNodePair) {
	if len(oldPairs) == 0 && len(newPairs) == 0 {
		return
	}
	var s stages

	// Matching prefix: same tags at the same positions.
	index := 0
	for ; index < len(oldPairs) && index < len(newPairs); index++ {
		oldPair, newPair := oldPairs[index], newPairs[index]
		if oldPair.view.Tag != newPair.view.Tag {
			break
		}
		d.update(&s, parent, oldPair, newPair, index)
	}

	switch {
	case index == len(newPairs):
		for i := index; i < len(oldPairs); i++ {
			d.removeAndDelete(&s, parent, oldPairs[i], i)
		}
	case index == len(oldPairs):
		for i := index; i < len(newPairs); i++ {
			s.inserts = append(s.inserts, InsertMutation(parent, newPairs[i].view, i))
			d.create(&s, newPairs[i])
		}
	default:
		d.diffReordered(&s, parent, oldPairs, newPairs, index)
	}

	s.flush(out)
}

// diffReordered reconciles the tails of both lists after the matching
// prefix. Nodes found in both lists at different positions are moved with
// Remove and Insert rather than recreated.
func (d *Differ) diffReordered(s *stages, parent ShadowView, oldPairs, newPairs []viewNodePair, start int) {
	remaining := make(map[core.Tag]struct{}, len(newPairs)-start)
	for _, pair := range newPairs[start:] {
		remaining[pair.view.Tag] = struct{}{}
	}
	var inserted insertedPairs

	oldIndex, newIndex := start, start
	for oldIndex < len(oldPairs) || newIndex < len(newPairs) {
		haveOld, haveNew := oldIndex < len(oldPairs), newIndex < len(newPairs)

		if haveOld && haveNew && oldPairs[oldIndex].view.Tag == newPairs[newIndex].view.Tag {
			d.update(s, parent, oldPairs[oldIndex], newPairs[newIndex], newIndex)
			delete(remaining, oldPairs[oldIndex].view.Tag)
			oldIndex++
			newIndex++
			continue
		}

		if haveOld {
			oldPair := oldPairs[oldIndex]
			if moved, ok := inserted.take(oldPair.view.Tag); ok {
				// Moved towards the front: already inserted at its new
				// position, remove it from the old one.
				s.removes = append(s.removes, RemoveMutation(parent, oldPair.view, oldIndex))
				d.update(s, parent, oldPair, moved.pair, moved.position)
				oldIndex++
				continue
			}
			if _, ok := remaining[oldPair.view.Tag]; !ok || !haveNew {
				d.removeAndDelete(s, parent, oldPair, oldIndex)
				oldIndex++
				continue
			}
		}

		newPair := newPairs[newIndex]
		s.inserts = append(s.inserts, InsertMutation(parent, newPair.view, newIndex))
		inserted.add(newPair, newIndex)
		newIndex++
	}

	for _, pair := range inserted.remaining() {
		d.create(s, pair)
	}
}

// update compares a pair present in both lists and diffs its children.
func (d *Differ) update(s *stages, parent ShadowView, oldPair, newPair viewNodePair, index int) {
	d.stats.Comparisons++
	if !oldPair.view.Equal(newPair.view) {
		s.updates = append(s.updates, UpdateMutation(parent, oldPair.view, newPair.view, index))
	}
	d.descend(s, oldPair, newPair)
}

func (d *Differ) descend(s *stages, oldPair, newPair viewNodePair) {
	if oldPair.node == newPair.node {
		return
	}
	oldChildren, newChildren := d.slice(oldPair.node), d.slice(newPair.node)
	target := &s.downward
	if len(newChildren) == 0 {
		target = &s.destructive
	}
	d.diffChildren(target, newPair.view, oldChildren, newChildren)
}

func (d *Differ) removeAndDelete(s *stages, parent ShadowView, pair viewNodePair, index int) {
	s.removes = append(s.removes, RemoveMutation(parent, pair.view, index))
	s.deletes = append(s.deletes, DeleteMutation(pair.view))
	d.diffChildren(&s.destructive, pair.view, d.slice(pair.node), nil)
}

func (d *Differ) create(s *stages, pair viewNodePair) {
	s.creates = append(s.creates, CreateMutation(pair.view))
	d.diffChildren(&s.downward, pair.view, nil, d.slice(pair.node))
}

// reconcileReparented turns views that moved to another parent into plain
// Remove and Insert pairs. Every Remove is moved to the front of the list
// so a view is detached from its old parent before it is inserted into
// the new one. Lists without such views are returned unchanged.
func reconcileReparented(mutations Mutations) Mutations {
	deleted := make(map[core.Tag]ShadowView)
	for _, m := range mutations {
		if m.Type == MutationDelete {
			deleted[m.OldChild.Tag] = m.OldChild
		}
	}
	if len(deleted) == 0 {
		return mutations
	}
	moved := make(map[core.Tag]Mutation)
	for _, m := range mutations {
		if m.Type != MutationInsert {
			continue
		}
		if _, ok := deleted[m.NewChild.Tag]; ok {
			moved[m.NewChild.Tag] = m
		}
	}
	if len(moved) == 0 {
		return mutations
	}

	var removes, rest Mutations
	for _, m := range mutations {
		switch m.Type {
		case MutationRemove:
			removes = append(removes, m)
			continue
		case MutationDelete:
			if _, ok := moved[m.OldChild.Tag]; ok {
				continue
			}
		case MutationCreate:
			if insert, ok := moved[m.NewChild.Tag]; ok {
				if old := deleted[m.NewChild.Tag]; !old.Equal(m.NewChild) {
					rest = append(rest, UpdateMutation(insert.Parent, old, m.NewChild, insert.Index))
				}
				continue
			}
		}
		rest = append(rest, m)
	}
	return append(removes, rest...)
}
