package platform

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-drift/fabric/pkg/components"
	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/mounting"
)

// surface is a shadow tree of surface 1 with helpers to make nodes.
type surface struct {
	t        *testing.T
	registry *core.ComponentDescriptorRegistry
	tree     *mounting.ShadowTree
	nextTag  core.Tag
}

func newSurface(t *testing.T, scale float64) *surface {
	t.Helper()
	r, err := components.NewRegistry(components.Options{})
	require.NoError(t, err)
	s := &surface{t: t, registry: r, nextTag: 1}
	ctx := core.DefaultLayoutContext()
	ctx.PointScaleFactor = scale
	raw := components.RootRawProps(core.ExactLayout(graphics.Size{Width: 100, Height: 100}), ctx)
	s.tree = mounting.NewShadowTree(1, s.node(components.RootName, raw), mounting.ShadowTreeOptions{})
	return s
}

func (s *surface) node(name core.ComponentName, raw core.RawProps, children ...*core.ShadowNode) *core.ShadowNode {
	s.t.Helper()
	d, ok := s.registry.Get(name)
	require.True(s.t, ok)
	props, err := d.CloneProps(nil, raw)
	require.NoError(s.t, err)
	family := d.CreateFamily(core.FamilyFragment{Tag: s.nextTag, SurfaceID: 1})
	s.nextTag++
	return d.CreateShadowNode(core.Fragment{
		Props:    props,
		State:    d.CreateInitialState(props, family),
		Children: core.Children(children...),
	}, family)
}

func (s *surface) view(raw core.RawProps, children ...*core.ShadowNode) *core.ShadowNode {
	return s.node(components.ViewName, core.RawProps{"collapsable": false}.Merge(raw), children...)
}

// commit replaces the root's children.
func (s *surface) commit(children ...*core.ShadowNode) {
	s.t.Helper()
	status := s.tree.Commit(func(old *core.ShadowNode) *core.ShadowNode {
		return old.Clone(core.Fragment{Children: core.Children(children...)})
	}, mounting.CommitOptions{})
	require.Equal(s.t, mounting.CommitSucceeded, status)
}

func (s *surface) coordinator() *mounting.MountingCoordinator {
	return s.tree.MountingCoordinator()
}

type recordingHandler struct {
	mu     sync.Mutex
	errors []*errors.FabricError
}

func (h *recordingHandler) HandleError(err *errors.FabricError) {
	h.mu.Lock()
	h.errors = append(h.errors, err)
	h.mu.Unlock()
}

func (h *recordingHandler) HandlePanic(*errors.PanicError) {}

func (h *recordingHandler) reported() []*errors.FabricError {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*errors.FabricError(nil), h.errors...)
}

func recordErrors(t *testing.T) *recordingHandler {
	t.Helper()
	h := &recordingHandler{}
	prev := errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(prev) })
	return h
}

// recordingHost keeps every message it is asked to mount.
type recordingHost struct {
	messages []*TransactionMessage
	err      error
}

func (h *recordingHost) ExecuteMount(msg *TransactionMessage) error {
	h.messages = append(h.messages, msg)
	return h.err
}

func itemTypes(items []MountItem) []MountItemType {
	var types []MountItemType
	for _, item := range items {
		types = append(types, item.Type)
	}
	return types
}
