package mounting

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-drift/fabric/pkg/components"
	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/graphics"
)

// builder creates nodes of the built-in components with fresh tags.
type builder struct {
	t        *testing.T
	registry *core.ComponentDescriptorRegistry
	nextTag  core.Tag
	// dispatcher, when set, receives the events of every created node.
	dispatcher *core.EventDispatcher
}

func newBuilder(t *testing.T) *builder {
	t.Helper()
	r, err := components.NewRegistry(components.Options{})
	require.NoError(t, err)
	return &builder{t: t, registry: r, nextTag: 1}
}

func (b *builder) node(name core.ComponentName, raw core.RawProps, children ...*core.ShadowNode) *core.ShadowNode {
	b.t.Helper()
	d, ok := b.registry.Get(name)
	require.True(b.t, ok)
	props, err := d.CloneProps(nil, raw)
	require.NoError(b.t, err)
	fragment := core.FamilyFragment{Tag: b.nextTag, SurfaceID: 1}
	if b.dispatcher != nil {
		fragment.EventEmitter = core.NewEventEmitter(b.nextTag, b.dispatcher)
	}
	family := d.CreateFamily(fragment)
	b.nextTag++
	return d.CreateShadowNode(core.Fragment{
		Props:    props,
		State:    d.CreateInitialState(props, family),
		Children: core.Children(children...),
	}, family)
}

// view returns a view that is never flattened.
func (b *builder) view(children ...*core.ShadowNode) *core.ShadowNode {
	return b.node(components.ViewName, core.RawProps{"collapsable": false}, children...)
}

// styledView returns a view that is never flattened with extra props.
func (b *builder) styledView(raw core.RawProps, children ...*core.ShadowNode) *core.ShadowNode {
	return b.node(components.ViewName, core.RawProps{"collapsable": false}.Merge(raw), children...)
}

// flat returns a view that is flattened away.
func (b *builder) flat(raw core.RawProps, children ...*core.ShadowNode) *core.ShadowNode {
	return b.node(components.ViewName, raw, children...)
}

func (b *builder) root(children ...*core.ShadowNode) *core.ShadowNode {
	return b.node(components.RootName, nil, children...)
}

// sizedRoot returns a root laid out at exactly width by height.
func (b *builder) sizedRoot(width, height float64, children ...*core.ShadowNode) *core.ShadowNode {
	constraints := core.ExactLayout(graphics.Size{Width: width, Height: height})
	raw := components.RootRawProps(constraints, core.DefaultLayoutContext())
	return b.node(components.RootName, raw, children...)
}

// withChildren returns a clone of n with children replaced.
func withChildren(n *core.ShadowNode, children ...*core.ShadowNode) *core.ShadowNode {
	return n.Clone(core.Fragment{Children: core.Children(children...)})
}

// withProps returns a clone of n with raw merged into its props.
func (b *builder) withProps(n *core.ShadowNode, raw core.RawProps) *core.ShadowNode {
	b.t.Helper()
	props, err := n.Family().Descriptor().CloneProps(n.Props(), raw)
	require.NoError(b.t, err)
	return n.Clone(core.Fragment{Props: props})
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

// roundTrip diffs oldRoot against newRoot, applies the result to the view
// tree of oldRoot and checks it against the view tree of newRoot.
func roundTrip(t *testing.T, oldRoot, newRoot *core.ShadowNode) Mutations {
	t.Helper()
	mutations := NewDiffer().Diff(oldRoot, newRoot)
	stubs := BuildStubViewTree(oldRoot)
	require.NoError(t, stubs.Mutate(mutations), "mutations:\n%s", mutations)
	want := BuildStubViewTree(newRoot)
	if !stubs.Equal(want) {
		t.Errorf("mounted tree:\n%swant:\n%smutations:\n%s", stubs, want, mutations)
	}
	if n := stubs.Detached().Cardinality(); n != 0 {
		t.Errorf("%d views left detached after mutations:\n%s", n, mutations)
	}
	return mutations
}

type fakeClock struct {
	mu   sync.Mutex
	now  int64
	step int64
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += c.step
	return time.Unix(0, c.now)
}
