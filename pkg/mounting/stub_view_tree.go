package mounting

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/graphics"
)

// ErrInvalidMutation is wrapped by every error StubViewTree.Mutate returns.
var ErrInvalidMutation = stderrors.New("invalid mutation")

// StubView is one view of a StubViewTree.
type StubView struct {
	ShadowView
	Parent   core.Tag
	Children []*StubView
}

// StubViewTree is an in-memory host view tree. Applying mutations to it
// checks the same preconditions a real host relies on, which makes it the
// reference consumer in tests and the verifier behind
// CoordinatorOptions.VerifyMutations.
type StubViewTree struct {
	rootTag core.Tag
	views   map[core.Tag]*StubView
	// detached holds created views that are not inserted anywhere.
	detached mapset.Set[core.Tag]
}

// NewStubViewTree returns a tree holding only root.
func NewStubViewTree(root ShadowView) *StubViewTree {
	return &StubViewTree{
		rootTag:  root.Tag,
		views:    map[core.Tag]*StubView{root.Tag: {ShadowView: root}},
		detached: mapset.NewThreadUnsafeSet[core.Tag](),
	}
}

// BuildStubViewTree builds the view tree a host would show for root,
// without going through the differ.
func BuildStubViewTree(root *core.ShadowNode) *StubViewTree {
	t := NewStubViewTree(NewShadowView(root))
	t.build(t.views[root.Tag()], root)
	return t
}

func (t *StubViewTree) build(parent *StubView, node *core.ShadowNode) {
	var pairs []viewNodePair
	slicePairs(&pairs, graphics.Point{}, node)
	reorder(pairs)
	for _, pair := range pairs {
		view := &StubView{ShadowView: pair.view, Parent: parent.Tag}
		t.views[view.Tag] = view
		parent.Children = append(parent.Children, view)
		t.build(view, pair.node)
	}
}

// Root returns the root view.
func (t *StubViewTree) Root() *StubView { return t.views[t.rootTag] }

// View returns the view with tag.
func (t *StubViewTree) View(tag core.Tag) (*StubView, bool) {
	v, ok := t.views[tag]
	return v, ok
}

// Len returns the number of views, detached ones included.
func (t *StubViewTree) Len() int { return len(t.views) }

// Tags returns the tags of all views.
func (t *StubViewTree) Tags() mapset.Set[core.Tag] {
	tags := mapset.NewThreadUnsafeSet[core.Tag]()
	for tag := range t.views {
		tags.Add(tag)
	}
	return tags
}

// Detached returns the tags of views created but not inserted.
func (t *StubViewTree) Detached() mapset.Set[core.Tag] { return t.detached.Clone() }

func invalid(m Mutation, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidMutation, m, fmt.Sprintf(format, args...))
}

// Mutate applies mutations in order. It stops at the first mutation whose
// preconditions do not hold; mutations before it stay applied.
func (t *StubViewTree) Mutate(mutations Mutations) error {
	for _, m := range mutations {
		if err := t.apply(m); err != nil {
			return err
		}
	}
	return nil
}

func (t *StubViewTree) apply(m Mutation) error {
	switch m.Type {
	case MutationCreate:
		tag := m.NewChild.Tag
		if _, exists := t.views[tag]; exists {
			return invalid(m, "tag %d already exists", tag)
		}
		t.views[tag] = &StubView{ShadowView: m.NewChild}
		t.detached.Add(tag)

	case MutationDelete:
		tag := m.OldChild.Tag
		view, ok := t.views[tag]
		if !ok {
			return invalid(m, "tag %d does not exist", tag)
		}
		if !t.detached.Contains(tag) {
			return invalid(m, "tag %d is still mounted in %d", tag, view.Parent)
		}
		if len(view.Children) > 0 {
			return invalid(m, "tag %d still has %d children", tag, len(view.Children))
		}
		delete(t.views, tag)
		t.detached.Remove(tag)

	case MutationInsert:
		parent, child, err := t.lookupPair(m, m.NewChild.Tag)
		if err != nil {
			return err
		}
		if !t.detached.Contains(child.Tag) {
			return invalid(m, "tag %d is already mounted in %d", child.Tag, child.Parent)
		}
		if m.Index < 0 || m.Index > len(parent.Children) {
			return invalid(m, "index %d out of range [0, %d]", m.Index, len(parent.Children))
		}
		parent.Children = slices.Insert(parent.Children, m.Index, child)
		child.Parent = parent.Tag
		t.detached.Remove(child.Tag)

	case MutationRemove:
		parent, child, err := t.lookupPair(m, m.OldChild.Tag)
		if err != nil {
			return err
		}
		if m.Index < 0 || m.Index >= len(parent.Children) || parent.Children[m.Index] != child {
			return invalid(m, "tag %d is not at index %d of %d", child.Tag, m.Index, parent.Tag)
		}
		parent.Children = slices.Delete(parent.Children, m.Index, m.Index+1)
		child.Parent = 0
		t.detached.Add(child.Tag)

	case MutationUpdate:
		if m.OldChild.Tag != m.NewChild.Tag {
			return invalid(m, "tag changes from %d to %d", m.OldChild.Tag, m.NewChild.Tag)
		}
		view, ok := t.views[m.NewChild.Tag]
		if !ok {
			return invalid(m, "tag %d does not exist", m.NewChild.Tag)
		}
		view.ShadowView = m.NewChild

	default:
		return invalid(m, "unknown type %d", m.Type)
	}
	return nil
}

func (t *StubViewTree) lookupPair(m Mutation, childTag core.Tag) (parent, child *StubView, err error) {
	parent, ok := t.views[m.Parent.Tag]
	if !ok {
		return nil, nil, invalid(m, "parent %d does not exist", m.Parent.Tag)
	}
	child, ok = t.views[childTag]
	if !ok {
		return nil, nil, invalid(m, "tag %d does not exist", childTag)
	}
	return parent, child, nil
}

// Equal reports whether both trees mount the same views in the same order
// with equal props, state and layout. Detached views are ignored.
func (t *StubViewTree) Equal(other *StubViewTree) bool {
	return stubViewsEqual(t.Root(), other.Root())
}

func stubViewsEqual(a, b *StubView) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.ShadowView.Equal(b.ShadowView) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !stubViewsEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// String renders the mounted views as an indented outline.
func (t *StubViewTree) String() string {
	var sb strings.Builder
	var write func(v *StubView, depth int)
	write = func(v *StubView, depth int) {
		fmt.Fprintf(&sb, "%s%s %s\n", strings.Repeat("  ", depth), v.ShadowView, v.LayoutMetrics.Frame)
		for _, child := range v.Children {
			write(child, depth+1)
		}
	}
	write(t.Root(), 0)
	return sb.String()
}
