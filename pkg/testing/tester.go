package testing

import (
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-drift/fabric/pkg/config"
	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/errors"
	"github.com/go-drift/fabric/pkg/graphics"
	"github.com/go-drift/fabric/pkg/mounting"
	"github.com/go-drift/fabric/pkg/platform"
	"github.com/go-drift/fabric/pkg/scheduler"
	"github.com/go-drift/fabric/pkg/treefile"
	"github.com/go-drift/fabric/pkg/uimanager"
)

const (
	// DefaultTestWidth is the default logical width for the test surface.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default logical height for the test surface.
	DefaultTestHeight = 600
	// DefaultScale is the default point scale factor.
	DefaultScale = 1.0
	// DefaultSurfaceID is the surface the tester starts.
	DefaultSurfaceID core.SurfaceID = 1
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = stderrors.New("PumpAndSettle timed out: mounting did not settle")

// SurfaceTester runs one surface through the whole pipeline without a real
// host. Commits go through a Scheduler, transactions are mounted by a
// platform.MountingBridge whose UI thread is the tester's dispatch queue,
// and the mounted views are mirrored in a mounting.StubViewTree.
//
// A SurfaceTester is not safe for concurrent use.
type SurfaceTester struct {
	clock   *FakeClock
	size    graphics.Size
	scale   float64
	surface core.SurfaceID
	config  *config.Config

	scheduler *scheduler.Scheduler
	bridge    *platform.MountingBridge
	tree      *mounting.ShadowTree
	views     *mounting.StubViewTree
	nextTag   core.Tag

	dispatches  []func()
	messages    []*platform.TransactionMessage
	events      []core.Event
	prevHandler errors.ErrorHandler
	recorder    *errorRecorder
}

// NewSurfaceTester creates a tester with the default test environment.
// Call Cleanup when done, or use NewSurfaceTesterWithT instead.
func NewSurfaceTester() *SurfaceTester {
	return &SurfaceTester{
		clock:   NewFakeClock(),
		size:    graphics.Size{Width: DefaultTestWidth, Height: DefaultTestHeight},
		scale:   DefaultScale,
		surface: DefaultSurfaceID,
		nextTag: core.Tag(DefaultSurfaceID) + 1,
	}
}

// NewSurfaceTesterWithT creates a tester that auto-cleans up via
// t.Cleanup(). This is the recommended constructor for tests.
func NewSurfaceTesterWithT(t *testing.T) *SurfaceTester {
	tester := NewSurfaceTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup stops the surface, mounts its final transaction and restores
// the global error handler. Must be called if not using
// NewSurfaceTesterWithT.
func (t *SurfaceTester) Cleanup() {
	if t.scheduler == nil {
		return
	}
	t.scheduler.StopSurface(t.surface)
	t.drain()
	errors.SetHandler(t.prevHandler)
	t.scheduler = nil
}

// SetSize sets the logical surface size. Must be called before Start.
func (t *SurfaceTester) SetSize(size graphics.Size) {
	t.size = size
}

// SetScale sets the point scale factor. Must be called before Start.
func (t *SurfaceTester) SetScale(scale float64) {
	t.scale = scale
}

// SetConfig replaces the configuration. Must be called before Start. The
// scale set with SetScale wins over the configured one.
func (t *SurfaceTester) SetConfig(cfg *config.Config) {
	t.config = cfg
}

// Clock returns the fake clock behind telemetry and mount reports.
func (t *SurfaceTester) Clock() *FakeClock {
	return t.clock
}

// Start builds the scheduler and starts the surface. Tester methods that
// commit call it on first use.
func (t *SurfaceTester) Start() error {
	if t.scheduler != nil {
		return nil
	}
	cfg := config.Default()
	if t.config != nil {
		copied := *t.config
		cfg = &copied
	}
	cfg.Layout.PointScaleFactor = t.scale

	t.recorder = &errorRecorder{}
	t.bridge = platform.NewMountingBridge(platform.HostMounterFunc(t.executeMount), platform.BridgeOptions{
		Dispatcher: t.Dispatch,
		DidMount:   t.didMount,
	})
	s, err := scheduler.New(scheduler.Toolbox{
		Config:          cfg,
		Delegate:        t.bridge,
		Clock:           t.clock,
		Events:          func(ev core.Event) { t.events = append(t.events, ev) },
		VerifyMutations: true,
	})
	if err != nil {
		return err
	}
	tree, err := s.StartSurface(t.surface, core.ExactLayout(t.size))
	if err != nil {
		return err
	}
	t.prevHandler = errors.SetHandler(t.recorder)
	t.scheduler = s
	t.tree = tree
	t.views = mounting.BuildStubViewTree(tree.MountingCoordinator().MountedRevision().Root)
	return nil
}

// Scheduler returns the scheduler, starting the surface if needed.
func (t *SurfaceTester) Scheduler() *scheduler.Scheduler {
	t.mustStart()
	return t.scheduler
}

// UIManager returns the scheduler's UIManager.
func (t *SurfaceTester) UIManager() *uimanager.UIManager {
	return t.Scheduler().UIManager()
}

// ShadowTree returns the surface's shadow tree.
func (t *SurfaceTester) ShadowTree() *mounting.ShadowTree {
	t.mustStart()
	return t.tree
}

// Bridge returns the bridge mounting the surface.
func (t *SurfaceTester) Bridge() *platform.MountingBridge {
	t.mustStart()
	return t.bridge
}

func (t *SurfaceTester) mustStart() {
	if err := t.Start(); err != nil {
		panic(fmt.Sprintf("testing: start surface: %v", err))
	}
}

// Create creates a node with the next free tag and appends children to it.
func (t *SurfaceTester) Create(name core.ComponentName, raw core.RawProps, children ...*core.ShadowNode) (*core.ShadowNode, error) {
	ui := t.UIManager()
	tag := t.nextTag
	t.nextTag++
	node, err := ui.CreateNode(tag, name, t.surface, raw)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		ui.AppendChild(node, child)
	}
	return node, nil
}

// Complete commits children as the new content of the surface and pumps
// one frame.
func (t *SurfaceTester) Complete(children ...*core.ShadowNode) error {
	ui := t.UIManager()
	if status := ui.CompleteSurface(t.surface, children, ui.CommitOptions()); status != mounting.CommitSucceeded {
		return fmt.Errorf("complete surface %d: %s", t.surface, status)
	}
	return t.Pump()
}

// Resize changes the surface size and pumps one frame.
func (t *SurfaceTester) Resize(size graphics.Size) error {
	t.size = size
	if status := t.Scheduler().ConstraintSurfaceLayout(t.surface, core.ExactLayout(size)); status != mounting.CommitSucceeded {
		return fmt.Errorf("resize surface %d: %s", t.surface, status)
	}
	return t.Pump()
}

// Play plays every step of doc, pumping one frame after each. The
// document must describe the tester's surface.
func (t *SurfaceTester) Play(doc *treefile.Document) error {
	if doc.Surface != t.surface {
		return fmt.Errorf("document describes surface %d, tester runs %d", doc.Surface, t.surface)
	}
	player := treefile.NewPlayer(t.UIManager(), doc)
	for {
		ok, err := player.Step()
		if err != nil || !ok {
			return err
		}
		if err := t.Pump(); err != nil {
			return err
		}
	}
}

// Pump runs the callbacks queued on the UI thread before the call. It
// returns the first error reported while they ran.
func (t *SurfaceTester) Pump() error {
	t.mustStart()
	seen := t.recorder.len()
	dispatches := t.dispatches
	t.dispatches = nil
	for _, fn := range dispatches {
		fn()
	}
	return t.recorder.since(seen)
}

// PumpAndSettle pumps until the UI thread is idle or the timeout is
// reached. Each frame advances the fake clock by 16ms. Returns
// ErrSettleTimeout if the queue does not drain within timeout.
func (t *SurfaceTester) PumpAndSettle(timeout time.Duration) error {
	const frameDuration = 16 * time.Millisecond
	var elapsed time.Duration
	for elapsed < timeout {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.needsWork() {
			return nil
		}
		t.clock.Advance(frameDuration)
		elapsed += frameDuration
	}
	return ErrSettleTimeout
}

func (t *SurfaceTester) needsWork() bool {
	return len(t.dispatches) > 0 || t.tree.MountingCoordinator().HasPendingTransactions()
}

func (t *SurfaceTester) drain() {
	for len(t.dispatches) > 0 {
		dispatches := t.dispatches
		t.dispatches = nil
		for _, fn := range dispatches {
			fn()
		}
	}
}

// Dispatch queues a callback for the next Pump, standing in for the host
// UI thread.
func (t *SurfaceTester) Dispatch(fn func()) {
	t.dispatches = append(t.dispatches, fn)
}

func (t *SurfaceTester) executeMount(msg *platform.TransactionMessage) error {
	t.messages = append(t.messages, msg)
	return nil
}

func (t *SurfaceTester) didMount(id core.SurfaceID) {
	if id != t.surface || t.tree == nil {
		return
	}
	t.views = mounting.BuildStubViewTree(t.tree.MountingCoordinator().MountedRevision().Root)
	t.scheduler.ReportMount(id)
}

// Views returns the views the host shows after the last mount.
func (t *SurfaceTester) Views() *mounting.StubViewTree {
	t.mustStart()
	return t.views
}

// Messages returns every transaction message the host received.
func (t *SurfaceTester) Messages() []*platform.TransactionMessage {
	return t.messages
}

// LastMessage returns the most recent transaction message, or nil.
func (t *SurfaceTester) LastMessage() *platform.TransactionMessage {
	if len(t.messages) == 0 {
		return nil
	}
	return t.messages[len(t.messages)-1]
}

// Events returns the node events dispatched so far.
func (t *SurfaceTester) Events() []core.Event {
	return t.events
}

// Errors returns every error reported to the global handler since Start.
func (t *SurfaceTester) Errors() []*errors.FabricError {
	if t.recorder == nil {
		return nil
	}
	return t.recorder.all()
}

// Find evaluates a finder against the mounted views.
func (t *SurfaceTester) Find(finder Finder) FinderResult {
	views := t.Views()
	if views == nil || views.Root() == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{views: finder.Evaluate(views.Root()), finder: finder}
}

// errorRecorder collects reported errors. Panics are recorded as
// KindPanic errors.
type errorRecorder struct {
	mu   sync.Mutex
	errs []*errors.FabricError
}

func (r *errorRecorder) HandleError(err *errors.FabricError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *errorRecorder) HandlePanic(err *errors.PanicError) {
	r.HandleError(&errors.FabricError{Op: err.Op, Kind: errors.KindPanic, Err: err})
}

func (r *errorRecorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func (r *errorRecorder) since(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errs) > n {
		return r.errs[n]
	}
	return nil
}

func (r *errorRecorder) all() []*errors.FabricError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.FabricError(nil), r.errs...)
}
