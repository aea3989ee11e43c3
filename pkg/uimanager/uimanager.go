package uimanager

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/go-drift/fabric/pkg/components"
	"github.com/go-drift/fabric/pkg/config"
	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/mounting"
)

var (
	// ErrUnknownSurface is returned for operations on a surface that is not
	// running.
	ErrUnknownSurface = stderrors.New("unknown surface")
	// ErrSurfaceRunning is returned when a surface is started twice.
	ErrSurfaceRunning = stderrors.New("surface already running")
	// ErrUnknownComponent is returned when no descriptor, not even a
	// fallback, serves a component name.
	ErrUnknownComponent = stderrors.New("unknown component")
	// ErrNodeNotMounted is returned when a node is not part of its
	// surface's current revision.
	ErrNodeNotMounted = stderrors.New("node is not in the current revision")
)

// Delegate receives the transactions the UIManager's surfaces finish.
type Delegate interface {
	UIManagerDidFinishTransaction(coordinator *mounting.MountingCoordinator, mountSynchronously bool)
}

// Options configure a UIManager.
type Options struct {
	// Registry resolves component names. Required.
	Registry *core.ComponentDescriptorRegistry
	// Config supplies commit and layout defaults. config.Default is used
	// when nil.
	Config *config.Config
	// Events receives the events emitted by created nodes. Nodes get
	// disabled emitters without a dispatcher when nil.
	Events *core.EventDispatcher
	// Clock drives telemetry and mount hook timestamps.
	Clock mounting.Clock
	// VerifyMutations checks every pulled transaction against a stub view
	// tree.
	VerifyMutations bool
}

// UIManager is the node-level API the description layer drives: it
// creates and clones nodes, completes surfaces, and routes state updates
// and native prop changes into commits.
type UIManager struct {
	registry *core.ComponentDescriptorRegistry
	config   *config.Config
	events   *core.EventDispatcher
	clock    mounting.Clock
	verify   bool
	trees    *ShadowTreeRegistry

	delegateMu sync.RWMutex
	delegate   Delegate

	commitHooks hookList[CommitHook]
	mountHooks  hookList[MountHook]

	nativeMu    sync.Mutex
	nativeProps map[*core.Family]core.RawProps
}

var _ mounting.ShadowTreeDelegate = (*UIManager)(nil)

// New creates a UIManager.
func New(opts Options) (*UIManager, error) {
	if opts.Registry == nil {
		return nil, &errors.FabricError{
			Op:   "uimanager.New",
			Kind: errors.KindConfig,
			Err:  stderrors.New("component registry is required"),
		}
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = mounting.SystemClock
	}
	return &UIManager{
		registry:    opts.Registry,
		config:      cfg,
		events:      opts.Events,
		clock:       clock,
		verify:      opts.VerifyMutations,
		trees:       NewShadowTreeRegistry(),
		nativeProps: make(map[*core.Family]core.RawProps),
	}, nil
}

// SetDelegate installs the receiver of finished transactions.
func (m *UIManager) SetDelegate(d Delegate) {
	m.delegateMu.Lock()
	m.delegate = d
	m.delegateMu.Unlock()
}

// ShadowTreeRegistry returns the trees of the running surfaces.
func (m *UIManager) ShadowTreeRegistry() *ShadowTreeRegistry { return m.trees }

// LayoutContext returns the layout context the configuration describes.
func (m *UIManager) LayoutContext() core.LayoutContext {
	ctx := core.DefaultLayoutContext()
	ctx.PointScaleFactor = m.config.Layout.PointScaleFactor
	ctx.FontSizeMultiplier = m.config.Layout.FontSizeMultiplier
	ctx.SwapLeftAndRightInRTL = m.config.Layout.SwapLeftAndRightInRTL
	return ctx
}

// CommitOptions returns the options surface completions commit with.
func (m *UIManager) CommitOptions() mounting.CommitOptions {
	return mounting.CommitOptions{EnableStateReconciliation: m.config.Mounting.ReconcilesState()}
}

func nodeError(op string, kind errors.ErrorKind, surface core.SurfaceID, tag core.Tag, err error) *errors.FabricError {
	return &errors.FabricError{Op: op, Kind: kind, Err: err, SurfaceID: int32(surface), Tag: int32(tag)}
}

// CreateNode creates the first revision of a new component instance. An
// unregistered name is served by the registry's fallback, which receives
// the name as the "name" prop.
func (m *UIManager) CreateNode(tag core.Tag, name core.ComponentName, surfaceID core.SurfaceID, raw core.RawProps) (*core.ShadowNode, error) {
	const op = "uimanager.CreateNode"
	d, ok := m.registry.Get(name)
	if !ok {
		return nil, nodeError(op, errors.KindProps, surfaceID, tag, fmt.Errorf("%q: %w", name, ErrUnknownComponent))
	}
	if d.Name() != name {
		raw = core.RawProps{"name": string(name)}.Merge(raw)
	}
	props, err := d.CloneProps(nil, raw)
	if err != nil {
		return nil, nodeError(op, errors.KindProps, surfaceID, tag, err)
	}
	family := d.CreateFamily(core.FamilyFragment{
		Tag:          tag,
		SurfaceID:    surfaceID,
		EventEmitter: core.NewEventEmitter(tag, m.events),
	})
	family.StateCoordinator().SetDispatcher(m.UpdateState)
	return d.CreateShadowNode(core.Fragment{
		Props: props,
		State: d.CreateInitialState(props, family),
	}, family), nil
}

// CloneNode returns an unsealed clone of n. A nil children keeps n's
// children and core.Children() clears them for the caller to append to.
// Non-empty raw is applied on top of n's props, with values set through
// SetNativeProps kept unless raw names them.
func (m *UIManager) CloneNode(n *core.ShadowNode, children *core.ChildList, raw core.RawProps) (*core.ShadowNode, error) {
	fragment := core.Fragment{Children: children}
	if len(raw) > 0 {
		props, err := n.Family().Descriptor().CloneProps(n.Props(), m.mergeNativeProps(n.Family(), raw))
		if err != nil {
			return nil, nodeError("uimanager.CloneNode", errors.KindProps, n.SurfaceID(), n.Tag(), err)
		}
		fragment.Props = props
	}
	return n.Clone(fragment), nil
}

// mergeNativeProps returns raw on top of the family's native props and
// lets raw override the native values it names.
func (m *UIManager) mergeNativeProps(family *core.Family, raw core.RawProps) core.RawProps {
	m.nativeMu.Lock()
	defer m.nativeMu.Unlock()
	native, ok := m.nativeProps[family]
	if !ok {
		return raw
	}
	patch := core.RawProps{}
	for key := range native {
		if v, ok := raw[key]; ok && v != nil {
			patch[key] = v
		}
	}
	if len(patch) > 0 {
		native = native.Merge(patch)
		m.nativeProps[family] = native
	}
	return native.Merge(raw)
}

// AppendChild appends child to parent, which must be unsealed.
func (m *UIManager) AppendChild(parent, child *core.ShadowNode) {
	parent.AppendChild(child)
}

// CompleteSurface commits a new revision of the surface whose root
// children are children. It returns CommitCancelled for surfaces that are
// not running.
func (m *UIManager) CompleteSurface(id core.SurfaceID, children []*core.ShadowNode, opts mounting.CommitOptions) mounting.CommitStatus {
	status := mounting.CommitCancelled
	m.trees.Visit(id, func(tree *mounting.ShadowTree) {
		status = tree.Commit(func(old *core.ShadowNode) *core.ShadowNode {
			return old.Clone(core.Fragment{Children: core.Children(children...)})
		}, opts)
	})
	return status
}

// UpdateState commits new state for u.Family without new props. The
// callback receives the data of the family's current state; returning nil
// cancels the update. Updates for families that are not mounted are
// dropped.
func (m *UIManager) UpdateState(u core.StateUpdate) {
	family := u.Family
	m.trees.Visit(family.SurfaceID(), func(tree *mounting.ShadowTree) {
		tree.Commit(func(old *core.ShadowNode) *core.ShadowNode {
			current := core.FindDescendant(old, family)
			if current == nil || current.State() == nil {
				return nil
			}
			state := current.State()
			if latest := state.MostRecentIfObsolete(); latest != nil {
				state = latest
			}
			data := u.Callback(state.Data())
			if data == nil {
				return nil
			}
			clone := current.Clone(core.Fragment{State: family.Descriptor().CreateState(family, data)})
			clone.SetTraits(clone.Traits().With(core.TraitClonedByNativeStateUpdate))
			return core.CloneTree(old, family, func(*core.ShadowNode) *core.ShadowNode { return clone })
		}, mounting.CommitOptions{EnableStateReconciliation: true})
	})
}

// SetNativeProps applies raw to the newest revision of n and commits it.
// The values stick: later clones through CloneNode keep them until the
// description layer sets the same keys.
func (m *UIManager) SetNativeProps(n *core.ShadowNode, raw core.RawProps) error {
	const op = "uimanager.SetNativeProps"
	family := n.Family()
	m.nativeMu.Lock()
	m.nativeProps[family] = m.nativeProps[family].Merge(raw)
	m.nativeMu.Unlock()

	var propsErr error
	found := m.trees.Visit(n.SurfaceID(), func(tree *mounting.ShadowTree) {
		status := tree.Commit(func(old *core.ShadowNode) *core.ShadowNode {
			current := core.FindDescendant(old, family)
			if current == nil {
				propsErr = ErrNodeNotMounted
				return nil
			}
			props, err := family.Descriptor().CloneProps(current.Props(), raw)
			if err != nil {
				propsErr = err
				return nil
			}
			clone := current.Clone(core.Fragment{Props: props})
			return core.CloneTree(old, family, func(*core.ShadowNode) *core.ShadowNode { return clone })
		}, m.CommitOptions())
		if status == mounting.CommitSucceeded {
			propsErr = nil
		}
	})
	if !found {
		propsErr = ErrUnknownSurface
	}
	if propsErr != nil {
		return nodeError(op, errors.KindProps, n.SurfaceID(), n.Tag(), propsErr)
	}
	return nil
}

// GetNewestCloneOfShadowNode returns the revision of n's family in the
// current revision of its surface, or nil.
func (m *UIManager) GetNewestCloneOfShadowNode(n *core.ShadowNode) *core.ShadowNode {
	tree, ok := m.trees.Get(n.SurfaceID())
	if !ok {
		return nil
	}
	return core.FindDescendant(tree.CurrentRevision().Root, n.Family())
}

// GetRelativeLayoutMetrics returns the metrics of n relative to ancestor,
// both taken from the current revision. A nil ancestor means the surface
// root.
func (m *UIManager) GetRelativeLayoutMetrics(n, ancestor *core.ShadowNode) core.LayoutMetrics {
	tree, ok := m.trees.Get(n.SurfaceID())
	if !ok {
		return core.EmptyLayoutMetrics
	}
	root := tree.CurrentRevision().Root
	if ancestor == nil {
		ancestor = root
	} else if ancestor = core.FindDescendant(root, ancestor.Family()); ancestor == nil {
		return core.EmptyLayoutMetrics
	}
	return core.RelativeLayoutMetrics(n.Family(), ancestor)
}

// StartSurface creates and registers the shadow tree of a new surface.
// The root node's tag is the surface id.
func (m *UIManager) StartSurface(id core.SurfaceID, constraints core.LayoutConstraints, ctx core.LayoutContext) (*mounting.ShadowTree, error) {
	const op = "uimanager.StartSurface"
	if _, ok := m.trees.Get(id); ok {
		return nil, nodeError(op, errors.KindCommit, id, 0, ErrSurfaceRunning)
	}
	root, err := m.CreateNode(core.Tag(id), components.RootName, id, components.RootRawProps(constraints, ctx))
	if err != nil {
		return nil, err
	}
	tree := mounting.NewShadowTree(id, root, mounting.ShadowTreeOptions{
		Delegate:          m,
		MaxCommitAttempts: m.config.Mounting.MaxCommitAttempts,
		Coordinator: mounting.CoordinatorOptions{
			TelemetrySamples: m.config.Mounting.TelemetrySamples,
			Clock:            m.clock,
			VerifyMutations:  m.verify,
		},
	})
	if !m.trees.Add(tree) {
		return nil, nodeError(op, errors.KindCommit, id, 0, ErrSurfaceRunning)
	}
	return tree, nil
}

// StopSurface commits an empty tree to the surface, so the host deletes
// its views, and unregisters it. It returns the stopped tree, or nil when
// the surface was not running.
func (m *UIManager) StopSurface(id core.SurfaceID) *mounting.ShadowTree {
	tree, ok := m.trees.Get(id)
	if !ok {
		return nil
	}
	tree.CommitEmptyTree()
	m.trees.Remove(id)

	m.nativeMu.Lock()
	for family := range m.nativeProps {
		if family.SurfaceID() == id {
			delete(m.nativeProps, family)
		}
	}
	m.nativeMu.Unlock()
	return tree
}

// ConstraintSurfaceLayout commits new layout inputs to the root of a
// surface. A change of context other than the viewport offset relayouts
// every node, since cached measurements depend on it.
func (m *UIManager) ConstraintSurfaceLayout(id core.SurfaceID, constraints core.LayoutConstraints, ctx core.LayoutContext) mounting.CommitStatus {
	const op = "uimanager.ConstraintSurfaceLayout"
	status := mounting.CommitCancelled
	m.trees.Visit(id, func(tree *mounting.ShadowTree) {
		status = tree.Commit(func(old *core.ShadowNode) *core.ShadowNode {
			_, oldCtx := core.SurfaceLayoutInputs(old)
			props, err := old.Family().Descriptor().CloneProps(old.Props(), components.RootRawProps(constraints, ctx))
			if err != nil {
				errors.Report(nodeError(op, errors.KindProps, id, old.Tag(), err))
				return nil
			}
			root := old.Clone(core.Fragment{Props: props})
			oldCtx.ViewportOffset, ctx.ViewportOffset = graphics.Point{}, graphics.Point{}
			if oldCtx != ctx {
				root = core.DirtyLayoutRecursively(root)
			}
			return root
		}, mounting.CommitOptions{})
	})
	return status
}

// MeasureSurface returns the size the current revision of a surface would
// take under constraints and ctx, without committing anything.
func (m *UIManager) MeasureSurface(id core.SurfaceID, constraints core.LayoutConstraints, ctx core.LayoutContext) (graphics.Size, error) {
	tree, ok := m.trees.Get(id)
	if !ok {
		return graphics.Size{}, nodeError("uimanager.MeasureSurface", errors.KindLayout, id, 0, ErrUnknownSurface)
	}
	return core.MeasureRoot(tree.CurrentRevision().Root, ctx, constraints), nil
}

// RegisterCommitHook adds h after the hooks already registered. The
// returned func unregisters it.
func (m *UIManager) RegisterCommitHook(h CommitHook) (unregister func()) {
	return m.commitHooks.add(h)
}

// RegisterMountHook adds h. The returned func unregisters it.
func (m *UIManager) RegisterMountHook(h MountHook) (unregister func()) {
	return m.mountHooks.add(h)
}

// ReportMount tells the mount hooks that the host finished mounting the
// last revision pulled from surface id.
func (m *UIManager) ReportMount(id core.SurfaceID) {
	tree, ok := m.trees.Get(id)
	if !ok {
		return
	}
	hooks := m.mountHooks.snapshot()
	if len(hooks) == 0 {
		return
	}
	root := tree.MountingCoordinator().MountedRevision().Root
	now := m.clock.Now()
	for _, h := range hooks {
		h.ShadowTreeDidMount(root, now)
	}
}

// ShadowTreeWillCommit runs the commit hooks in registration order.
func (m *UIManager) ShadowTreeWillCommit(tree *mounting.ShadowTree, oldRoot, newRoot *core.ShadowNode) *core.ShadowNode {
	for _, h := range m.commitHooks.snapshot() {
		newRoot = h.ShadowTreeWillCommit(tree.SurfaceID(), oldRoot, newRoot)
		if newRoot == nil {
			return nil
		}
	}
	return newRoot
}

// ShadowTreeDidFinishTransaction forwards the finished transaction to the
// delegate.
func (m *UIManager) ShadowTreeDidFinishTransaction(coordinator *mounting.MountingCoordinator, mountSynchronously bool) {
	m.delegateMu.RLock()
	d := m.delegate
	m.delegateMu.RUnlock()
	if d != nil {
		d.UIManagerDidFinishTransaction(coordinator, mountSynchronously)
	}
}
