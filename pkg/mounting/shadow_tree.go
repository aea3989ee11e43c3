package mounting

import (
	"fmt"
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/go-drift/fabric/pkg/core"
	"github.com/go-drift/fabric/pkg/errors"
)

// CommitStatus is the outcome of a commit.
type CommitStatus int

const (
	// CommitSucceeded means a new revision was published.
	CommitSucceeded CommitStatus = iota
	// CommitFailed means another commit was published first.
	CommitFailed
	// CommitCancelled means the transaction or a commit hook returned nil.
	CommitCancelled
)

func (s CommitStatus) String() string {
	switch s {
	case CommitSucceeded:
		return "succeeded"
	case CommitFailed:
		return "failed"
	case CommitCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("CommitStatus(%d)", int(s))
	}
}

// CommitTransaction derives a new root from the current one. It must not
// modify oldRoot; it returns nil to cancel the commit.
type CommitTransaction func(oldRoot *core.ShadowNode) *core.ShadowNode

// CommitOptions tune one commit.
type CommitOptions struct {
	// EnableStateReconciliation replaces states that were superseded by a
	// state update committed after the transaction's base revision.
	EnableStateReconciliation bool
	// MountSynchronously is passed to the delegate as a hint.
	MountSynchronously bool
}

// ShadowTreeDelegate observes commits.
type ShadowTreeDelegate interface {
	// ShadowTreeWillCommit may replace newRoot before it is laid out. It
	// returns newRoot unchanged to accept it and nil to cancel the commit.
	ShadowTreeWillCommit(tree *ShadowTree, oldRoot, newRoot *core.ShadowNode) *core.ShadowNode
	// ShadowTreeDidFinishTransaction is called after a revision was
	// published and pushed to the coordinator.
	ShadowTreeDidFinishTransaction(coordinator *MountingCoordinator, mountSynchronously bool)
}

// DefaultMaxCommitAttempts bounds the retries of Commit.
const DefaultMaxCommitAttempts = 1024

// ShadowTreeOptions configure a ShadowTree.
type ShadowTreeOptions struct {
	Delegate          ShadowTreeDelegate
	MaxCommitAttempts int
	Coordinator       CoordinatorOptions
}

// ShadowTree owns the revisions of one surface.
//
// Commits are serialized by a mutex. Publication is a compare-and-swap on
// the current revision, so readers load revisions without locking and
// never observe a revision that is not fully laid out and sealed.
type ShadowTree struct {
	surfaceID   core.SurfaceID
	delegate    ShadowTreeDelegate
	maxAttempts int
	clock       Clock
	coordinator *MountingCoordinator

	commitMu sync.Mutex
	revision atomic.Pointer[ShadowTreeRevision]
}

// NewShadowTree creates a tree whose first revision, number 0, is root.
// root is sealed and counts as mounted.
func NewShadowTree(surfaceID core.SurfaceID, root *core.ShadowNode, opts ShadowTreeOptions) *ShadowTree {
	root.Seal()
	clock := opts.Coordinator.Clock
	if clock == nil {
		clock = SystemClock
	}
	attempts := opts.MaxCommitAttempts
	if attempts <= 0 {
		attempts = DefaultMaxCommitAttempts
	}
	t := &ShadowTree{
		surfaceID:   surfaceID,
		delegate:    opts.Delegate,
		maxAttempts: attempts,
		clock:       clock,
	}
	initial := &ShadowTreeRevision{Root: root}
	u := mountUpdate{seen: mapset.NewThreadUnsafeSet[*core.Family]()}
	core.Walk(root, func(n *core.ShadowNode) bool {
		u.commit(n)
		return true
	})
	t.revision.Store(initial)
	t.coordinator = NewMountingCoordinator(initial, opts.Coordinator)
	return t
}

// SurfaceID returns the tree's surface.
func (t *ShadowTree) SurfaceID() core.SurfaceID { return t.surfaceID }

// MountingCoordinator returns the coordinator revisions are pushed to.
func (t *ShadowTree) MountingCoordinator() *MountingCoordinator { return t.coordinator }

// CurrentRevision returns the latest published revision.
func (t *ShadowTree) CurrentRevision() *ShadowTreeRevision { return t.revision.Load() }

// Commit runs tx until it is published or cancelled. Concurrent Commit
// calls are serialized. After MaxCommitAttempts failed attempts the
// failure is reported and CommitFailed returned.
//
// tx must not call back into Commit on the same tree.
func (t *ShadowTree) Commit(tx CommitTransaction, opts CommitOptions) CommitStatus {
	t.commitMu.Lock()
	defer t.commitMu.Unlock()

	for attempt := 1; ; attempt++ {
		status := t.TryCommit(tx, opts)
		if status != CommitFailed {
			return status
		}
		if attempt >= t.maxAttempts {
			errors.Report(&errors.FabricError{
				Op:        "mounting.ShadowTree.Commit",
				Kind:      errors.KindCommit,
				Err:       fmt.Errorf("gave up after %d attempts", attempt),
				SurfaceID: int32(t.surfaceID),
			})
			return CommitFailed
		}
	}
}

// TryCommit runs tx once against the current revision and publishes the
// result unless another commit was published meanwhile.
func (t *ShadowTree) TryCommit(tx CommitTransaction, opts CommitOptions) CommitStatus {
	var telemetry TransactionTelemetry
	telemetry.CommitStart = t.clock.Now()

	old := t.revision.Load()
	newRoot := unsealed(tx(old.Root))
	if newRoot == nil {
		return CommitCancelled
	}

	if opts.EnableStateReconciliation {
		newRoot = core.ProgressState(newRoot, old.Root)
	}

	if t.delegate != nil {
		newRoot = unsealed(t.delegate.ShadowTreeWillCommit(t, old.Root, newRoot))
		if newRoot == nil {
			return CommitCancelled
		}
	}

	constraints, ctx := core.SurfaceLayoutInputs(newRoot)
	telemetry.LayoutStart = t.clock.Now()
	result := core.LayoutIfNeeded(newRoot, ctx, constraints)
	telemetry.LayoutEnd = t.clock.Now()
	telemetry.AffectedLayoutNodes = len(result.Affected)
	telemetry.LayoutStats = result.Stats

	newRoot.Seal()

	revision := &ShadowTreeRevision{Root: newRoot, Number: old.Number + 1}
	telemetry.CommitEnd = t.clock.Now()
	revision.Telemetry = telemetry
	if !t.revision.CompareAndSwap(old, revision) {
		return CommitFailed
	}

	updateMountedFlag(old.Root, newRoot)
	emitLayoutEvents(result.Affected)

	t.coordinator.Push(revision)
	if t.delegate != nil {
		t.delegate.ShadowTreeDidFinishTransaction(t.coordinator, opts.MountSynchronously)
	}
	return CommitSucceeded
}

// CommitEmptyTree commits a root without children, unmounting everything
// else. It is used when a surface stops.
func (t *ShadowTree) CommitEmptyTree() CommitStatus {
	return t.Commit(func(old *core.ShadowNode) *core.ShadowNode {
		return old.Clone(core.Fragment{Children: core.Children()})
	}, CommitOptions{})
}

// unsealed returns n, or an unsealed clone when a transaction hands back a
// node of a published revision.
func unsealed(n *core.ShadowNode) *core.ShadowNode {
	if n != nil && n.Sealed() {
		return n.Clone(core.Fragment{})
	}
	return n
}

// updateMountedFlag moves families that appear in newRoot's tree to
// Mounted, records their states as the most recent ones, and starts
// unmounting families that left the tree. Subtrees shared by both roots
// are skipped.
func updateMountedFlag(oldRoot, newRoot *core.ShadowNode) {
	if oldRoot == newRoot {
		return
	}
	u := mountUpdate{seen: mapset.NewThreadUnsafeSet[*core.Family]()}
	u.commit(newRoot)
	u.children(oldRoot.Children(), newRoot.Children())
	// A family removed in one place may have been reparented elsewhere.
	for _, n := range u.removed {
		core.Walk(n, func(n *core.ShadowNode) bool {
			if !u.seen.Contains(n.Family()) {
				n.Family().BeginUnmount()
			}
			return true
		})
	}
}

type mountUpdate struct {
	seen    mapset.Set[*core.Family]
	removed []*core.ShadowNode
}

func (u *mountUpdate) commit(n *core.ShadowNode) {
	u.seen.Add(n.Family())
	n.Family().MarkMounted()
	n.Family().StateCoordinator().SetMostRecent(n.State())
}

func (u *mountUpdate) children(oldChildren, newChildren core.ChildList) {
	if oldChildren.SharesStorage(newChildren) {
		return
	}

	oldByFamily := make(map[*core.Family]*core.ShadowNode, oldChildren.Len())
	for _, child := range oldChildren.All() {
		oldByFamily[child.Family()] = child
	}
	kept := make(map[*core.Family]struct{}, newChildren.Len())
	for _, child := range newChildren.All() {
		kept[child.Family()] = struct{}{}
		prev, ok := oldByFamily[child.Family()]
		switch {
		case !ok:
			core.Walk(child, func(n *core.ShadowNode) bool {
				u.commit(n)
				return true
			})
		case prev != child:
			u.commit(child)
			u.children(prev.Children(), child.Children())
		}
	}
	for _, child := range oldChildren.All() {
		if _, ok := kept[child.Family()]; !ok {
			u.removed = append(u.removed, child)
		}
	}
}

func emitLayoutEvents(affected []*core.ShadowNode) {
	for _, n := range affected {
		if n.Traits().Has(core.TraitRoot) {
			continue
		}
		n.EventEmitter().DispatchLayout(n.LayoutMetrics().Frame)
	}
}
